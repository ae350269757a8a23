package application_test

import (
	"testing"
	"time"

	"github.com/donegate/donegate/internal/application"
	"github.com/donegate/donegate/internal/domain"
	"github.com/donegate/donegate/internal/domain/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedReports(hist *history.Store, n int, passed bool) {
	status := domain.StatusPassed
	if !passed {
		status = domain.StatusFailed
	}
	for i := 0; i < n; i++ {
		hist.AppendReport(&domain.ValidationReport{
			ID:            "r",
			Timestamp:     time.Now(),
			OverallStatus: status,
			OverallScore:  40,
			Duration:      10 * time.Second,
		})
	}
}

func TestAnalyze_EmptyHistory(t *testing.T) {
	cfg := domain.DefaultConfig()
	svc := application.NewAnalyzeService(cfg, history.New(cfg.History))

	analysis := svc.Analyze()
	assert.Zero(t, analysis.HistorySize)
	assert.Empty(t, analysis.Bottlenecks)
	assert.Empty(t, analysis.Predictions, "models need minimum history")
}

func TestAnalyze_RunsModelBatteryOverHistory(t *testing.T) {
	cfg := domain.DefaultConfig()
	hist := history.New(cfg.History)
	seedReports(hist, 10, false)

	svc := application.NewAnalyzeService(cfg, hist)
	analysis := svc.Analyze()

	assert.Equal(t, 10, analysis.HistorySize)
	assert.InDelta(t, 1.0, analysis.Aggregates.FailureRate, 0.001)
	require.NotEmpty(t, analysis.Predictions)

	var sawMovingAverage bool
	for _, p := range analysis.Predictions {
		if p.Model == "moving-average" {
			sawMovingAverage = true
			assert.Greater(t, p.Score, 50.0)
		}
	}
	assert.True(t, sawMovingAverage)
}

func TestAnalyze_DetectsFailureRateBottleneck(t *testing.T) {
	cfg := domain.DefaultConfig()
	hist := history.New(cfg.History)
	seedReports(hist, 10, false)

	analysis := application.NewAnalyzeService(cfg, hist).Analyze()

	var sawNetwork bool
	for _, b := range analysis.Bottlenecks {
		if b.Description != "" && b.Severity == domain.SeverityError {
			sawNetwork = true
		}
	}
	assert.True(t, sawNetwork, "a 100%% failure rate must surface as a bottleneck")
	assert.NotEmpty(t, analysis.Recommendations)
}

func TestAnalyze_OptimizerTracksAcrossCalls(t *testing.T) {
	cfg := domain.DefaultConfig()
	hist := history.New(cfg.History)
	seedReports(hist, 10, false)

	svc := application.NewAnalyzeService(cfg, hist)
	analysis := svc.Analyze()
	require.NotEmpty(t, analysis.Recommendations)

	svc.Optimizer().MarkImplemented(analysis.Recommendations[0], 100, 70)
	log := svc.Optimizer().TrackingLog()
	require.Len(t, log, 1)
	assert.InDelta(t, 30, log[0].ImprovementPct, 0.001)
}
