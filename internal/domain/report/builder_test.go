package report_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/donegate/donegate/internal/domain"
	"github.com/donegate/donegate/internal/domain/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func result(name string, kind domain.GateKind, passed bool, sev domain.Severity, d time.Duration) domain.GateResult {
	status := domain.GateStatusPassed
	if !passed {
		status = domain.GateStatusFailed
	}
	return domain.GateResult{
		GateName: name, Kind: kind, Passed: passed, Status: status,
		Message: "msg", Severity: sev, Duration: d, Timestamp: time.Now(),
	}
}

func TestBuild_AggregatesMetrics(t *testing.T) {
	results := []domain.GateResult{
		result("build", domain.GateKindBuild, true, domain.SeverityError, 2*time.Second),
		result("unit-tests", domain.GateKindTest, true, domain.SeverityError, 4*time.Second),
		result("lint", domain.GateKindLint, false, domain.SeverityWarning, 6*time.Second),
	}

	r := report.Build(report.Input{
		SessionID: "s1", Category: domain.CategoryTask,
		Results: results, MemoryMB: 64, Duration: 7 * time.Second,
	})

	assert.Equal(t, 12*time.Second, r.Metrics.TotalDuration)
	assert.Equal(t, 4*time.Second, r.Metrics.AverageDuration)
	assert.Equal(t, 4*time.Second, r.Metrics.MedianDuration)
	assert.Equal(t, 6*time.Second, r.Metrics.P95Duration)
	assert.Equal(t, 2, r.Metrics.Passed)
	assert.Equal(t, 1, r.Metrics.Failed)
	assert.Equal(t, 1, r.Metrics.FailedBySeverity[domain.SeverityWarning])
	assert.InDelta(t, 1.0/3.0, r.Metrics.FailureRate, 0.001)
	assert.InDelta(t, 64, r.Metrics.MemoryMB, 0.001)
}

func TestBuild_StatusAndScore(t *testing.T) {
	results := []domain.GateResult{
		result("build", domain.GateKindBuild, false, domain.SeverityError, time.Second),
		result("lint", domain.GateKindLint, true, domain.SeverityWarning, time.Second),
	}
	r := report.Build(report.Input{Category: domain.CategoryFeature, Results: results})

	assert.Equal(t, domain.StatusFailed, r.OverallStatus)
	assert.Equal(t, 75, r.OverallScore)
	assert.Contains(t, r.Summary, "build")
	assert.NotEmpty(t, r.ID)
}

func TestBuild_RecommendationsCarryChecklistAndEffort(t *testing.T) {
	results := []domain.GateResult{
		result("security-scan", domain.GateKindSecurity, false, domain.SeverityError, time.Second),
	}
	r := report.Build(report.Input{Category: domain.CategoryProject, Results: results})

	require.NotEmpty(t, r.Recommendations)
	assert.Contains(t, r.Recommendations[0], "Security Scan")
	assert.Contains(t, r.Recommendations[0], "high effort")

	// Checklist items follow the header as indented steps.
	assert.Greater(t, len(r.Recommendations), 1)
	assert.Contains(t, r.Recommendations[1], "  - ")
}

func TestBuild_EmitsArtifacts(t *testing.T) {
	results := []domain.GateResult{
		result("build", domain.GateKindBuild, true, domain.SeverityError, time.Second),
	}
	r := report.Build(report.Input{Category: domain.CategoryTask, Results: results})

	require.Len(t, r.Artifacts, 2)
	assert.Equal(t, "report.json", r.Artifacts[0].Name)
	assert.Equal(t, "summary.txt", r.Artifacts[1].Name)

	// The JSON artifact is a faithful, non-recursive copy of the report.
	var decoded domain.ValidationReport
	require.NoError(t, json.Unmarshal(r.Artifacts[0].Data, &decoded))
	assert.Equal(t, r.ID, decoded.ID)
	assert.Empty(t, decoded.Artifacts)

	assert.Contains(t, string(r.Artifacts[1].Data), "donegate validation report")
}

func TestBuildDegraded(t *testing.T) {
	r := report.BuildDegraded("s1", "T-9", domain.CategoryProject, errors.New("cannot read project state"))

	assert.Equal(t, domain.StatusFailed, r.OverallStatus)
	assert.Empty(t, r.Results)
	assert.Equal(t, 0, r.OverallScore)
	require.Len(t, r.Recommendations, 1)
	assert.Contains(t, r.Recommendations[0], "System error")
	assert.False(t, r.Passed())
}

func TestHumanizeGateName(t *testing.T) {
	assert.Equal(t, "Unit Tests", report.HumanizeGateName("unit-tests"))
	assert.Equal(t, "Clean Worktree", report.HumanizeGateName("clean_worktree"))
	assert.Equal(t, "File Integrity", report.HumanizeGateName("fileIntegrity"))
}
