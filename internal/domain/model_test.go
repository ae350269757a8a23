package domain_test

import (
	"testing"

	"github.com/donegate/donegate/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failedGate(sev domain.Severity) domain.GateResult {
	return domain.GateResult{GateName: "g", Passed: false, Status: domain.GateStatusFailed, Severity: sev}
}

func passedGate(sev domain.Severity) domain.GateResult {
	return domain.GateResult{GateName: "g", Passed: true, Status: domain.GateStatusPassed, Severity: sev}
}

func TestOverallStatusOf_Matrix(t *testing.T) {
	tests := []struct {
		name    string
		results []domain.GateResult
		want    domain.OverallStatus
	}{
		{"no gates", nil, domain.StatusPassed},
		{"all passed", []domain.GateResult{passedGate(domain.SeverityError), passedGate(domain.SeverityWarning)}, domain.StatusPassed},
		{"error failure", []domain.GateResult{failedGate(domain.SeverityError), passedGate(domain.SeverityWarning)}, domain.StatusFailed},
		{"warning failure only", []domain.GateResult{passedGate(domain.SeverityError), failedGate(domain.SeverityWarning)}, domain.StatusPassedWithWarnings},
		{"info failure only", []domain.GateResult{failedGate(domain.SeverityInfo)}, domain.StatusPassed},
		{"error beats warning", []domain.GateResult{failedGate(domain.SeverityWarning), failedGate(domain.SeverityError)}, domain.StatusFailed},
		{"warning beats info", []domain.GateResult{failedGate(domain.SeverityInfo), failedGate(domain.SeverityWarning)}, domain.StatusPassedWithWarnings},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.OverallStatusOf(tt.results))
		})
	}
}

func TestScoreOf_DeductsPerSeverity(t *testing.T) {
	results := []domain.GateResult{
		failedGate(domain.SeverityError),   // -25
		failedGate(domain.SeverityWarning), // -10
		failedGate(domain.SeverityInfo),    // -3
		passedGate(domain.SeverityError),
	}
	assert.Equal(t, 62, domain.ScoreOf(results))
}

func TestScoreOf_ClampsAtZero(t *testing.T) {
	var results []domain.GateResult
	for i := 0; i < 6; i++ {
		results = append(results, failedGate(domain.SeverityError))
	}
	assert.Equal(t, 0, domain.ScoreOf(results))
}

func TestReport_Passed(t *testing.T) {
	r := &domain.ValidationReport{OverallStatus: domain.StatusPassedWithWarnings}
	assert.True(t, r.Passed())

	r.OverallStatus = domain.StatusFailed
	assert.False(t, r.Passed())
}

func TestParseSeverity(t *testing.T) {
	sev, err := domain.ParseSeverity("WARNING")
	require.NoError(t, err)
	assert.Equal(t, domain.SeverityWarning, sev)

	_, err = domain.ParseSeverity("fatal")
	assert.Error(t, err)
}

func TestParseCategory(t *testing.T) {
	cat, err := domain.ParseCategory("Feature")
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryFeature, cat)

	_, err = domain.ParseCategory("epic")
	assert.Error(t, err)
}
