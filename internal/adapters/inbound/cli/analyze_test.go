package cli_test

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/donegate/donegate/internal/adapters/inbound/cli"
	"github.com/donegate/donegate/internal/adapters/outbound/reportstore"
	"github.com/donegate/donegate/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failedReport(id string, ts time.Time) *domain.ValidationReport {
	return &domain.ValidationReport{
		ID:            id,
		SessionID:     "s1",
		Category:      domain.CategoryTask,
		Timestamp:     ts,
		OverallStatus: domain.StatusFailed,
		OverallScore:  50,
		Results: []domain.GateResult{
			{GateName: "unit-tests", Kind: domain.GateKindTest, Passed: false, Status: domain.GateStatusFailed, Severity: domain.SeverityError, Duration: 30 * time.Second},
		},
		Metrics:  domain.ReportMetrics{Failed: 1, FailureRate: 1},
		Duration: 30 * time.Second,
	}
}

func TestAnalyzeCommand_EmptyHistory(t *testing.T) {
	cmd := cli.NewRootCmdForTest()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"analyze", "--path", t.TempDir()})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "0 history entries")
	assert.Contains(t, buf.String(), "no bottlenecks detected")
}

func TestAnalyzeCommand_JSON(t *testing.T) {
	dir := t.TempDir()
	store := reportstore.New()
	now := time.Now()
	for i := 0; i < 12; i++ {
		r := failedReport(time.Now().Format("150405.000000000"), now.Add(time.Duration(i-12)*time.Minute))
		require.NoError(t, store.AppendReport(dir, r, 100))
	}

	cmd := cli.NewRootCmdForTest()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"analyze", "--path", dir, "--json"})
	require.NoError(t, cmd.Execute())

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.EqualValues(t, 12, result["history_size"])
	assert.NotEmpty(t, result["bottlenecks"], "persistent failures should surface a bottleneck")
	assert.NotEmpty(t, result["predictions"], "enough history should run the model battery")
}

func TestAnalyzeCommand_RenderedBottlenecks(t *testing.T) {
	dir := t.TempDir()
	store := reportstore.New()
	now := time.Now()
	for i := 0; i < 12; i++ {
		r := failedReport(time.Now().Format("150405.000000000"), now.Add(time.Duration(i-12)*time.Minute))
		require.NoError(t, store.AppendReport(dir, r, 100))
	}

	cmd := cli.NewRootCmdForTest()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"analyze", "--path", dir})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "failure rate: 100%")
}
