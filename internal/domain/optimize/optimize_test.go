package optimize_test

import (
	"testing"
	"time"

	"github.com/donegate/donegate/internal/domain"
	"github.com/donegate/donegate/internal/domain/history"
	"github.com/donegate/donegate/internal/domain/optimize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(hist *history.Store, tune func(*domain.Config)) *optimize.Engine {
	cfg := domain.DefaultConfig()
	if tune != nil {
		tune(&cfg)
	}
	return optimize.New(cfg.Optimize, cfg.Monitor, hist)
}

func slowGateReport(slow time.Duration) *domain.ValidationReport {
	now := time.Now()
	return &domain.ValidationReport{
		ID:            "r-" + now.Format("150405.000000000"),
		Timestamp:     now,
		OverallStatus: domain.StatusPassed,
		Duration:      2 * time.Minute,
		Results: []domain.GateResult{
			{GateName: "integration-tests", Passed: true, Status: domain.GateStatusPassed, Duration: slow},
			{GateName: "lint", Passed: true, Status: domain.GateStatusPassed, Duration: 2 * time.Second},
			{GateName: "file-integrity", Passed: true, Status: domain.GateStatusPassed, Duration: 3 * time.Second},
		},
	}
}

func appendMemorySamples(hist *history.Store, pcts ...float64) {
	for _, pct := range pcts {
		hist.AppendSamples(domain.MetricSample{
			Timestamp: time.Now(), Type: domain.MetricMemory, Value: pct, Unit: "%",
		})
	}
}

func TestAnalyze_EmptyHistoryIsQuiet(t *testing.T) {
	e := newEngine(history.New(domain.DefaultConfig().History), nil)
	analysis := e.Analyze()
	assert.Empty(t, analysis.Bottlenecks)
	assert.Empty(t, analysis.Recommendations)
}

func TestAnalyze_MemoryThresholdBottleneck(t *testing.T) {
	hist := history.New(domain.DefaultConfig().History)
	appendMemorySamples(hist, 90, 91, 92, 91, 90)

	analysis := newEngine(hist, nil).Analyze()
	require.Len(t, analysis.Bottlenecks, 1)

	b := analysis.Bottlenecks[0]
	assert.Equal(t, optimize.CategoryMemory, b.Category)
	assert.Equal(t, domain.SeverityError, b.Severity)
	assert.False(t, b.TrendingUp)
	assert.Greater(t, b.Metrics.DegradationPct, 0.0)
	assert.NotEmpty(t, analysis.Recommendations)
}

func TestAnalyze_DegradingTrendWithoutThresholdBreach(t *testing.T) {
	hist := history.New(domain.DefaultConfig().History)
	// Previous window averages 50%, recent 60%: degrading but under the 85% ceiling.
	appendMemorySamples(hist, 50, 50, 50, 50, 50, 60, 60, 60, 60, 60)

	analysis := newEngine(hist, nil).Analyze()
	require.Len(t, analysis.Bottlenecks, 1)

	b := analysis.Bottlenecks[0]
	assert.Equal(t, optimize.CategoryMemory, b.Category)
	assert.True(t, b.TrendingUp)
}

func TestAnalyze_SlowestGateIsAlgorithmBottleneck(t *testing.T) {
	hist := history.New(domain.DefaultConfig().History)
	for i := 0; i < 3; i++ {
		hist.AppendReport(slowGateReport(100 * time.Second))
	}

	analysis := newEngine(hist, func(c *domain.Config) {
		// Keep the throughput and response-time rules out of this test.
		c.Optimize.MinThroughputPerHour = 0
		c.Optimize.ResponseTimeThreshold = 5 * time.Minute
	}).Analyze()

	require.Len(t, analysis.Bottlenecks, 1)
	b := analysis.Bottlenecks[0]
	assert.Equal(t, optimize.CategoryAlgorithm, b.Category)
	assert.Contains(t, b.Description, "integration-tests")
	assert.Equal(t, 3, b.Frequency)
}

func TestAnalyze_RankingOrderAndTruncation(t *testing.T) {
	hist := history.New(domain.DefaultConfig().History)
	// Slow reports with one dominating gate plus high memory: io, algorithm,
	// memory, and concurrency bottlenecks all fire.
	for i := 0; i < 3; i++ {
		hist.AppendReport(slowGateReport(100 * time.Second))
	}
	appendMemorySamples(hist, 90, 91, 92, 91, 90)

	full := newEngine(hist, nil).Analyze()
	require.GreaterOrEqual(t, len(full.Recommendations), 4)

	// priorityWeight * impact.performance / difficultyWeight, descending:
	// raising concurrency for io (150) outranks the slow-gate split (140).
	assert.Equal(t, "Raise gate concurrency", full.Recommendations[0].Title)
	assert.Equal(t, "Profile and split the slowest gate", full.Recommendations[1].Title)
	for _, r := range full.Recommendations {
		assert.GreaterOrEqual(t, r.Impact.Performance, 10.0)
		assert.NotEmpty(t, r.RelatedBottlenecks)
	}

	truncated := newEngine(hist, func(c *domain.Config) {
		c.Optimize.MaxRecommendations = 2
	}).Analyze()
	assert.Len(t, truncated.Recommendations, 2)
}

func TestAnalyzeReport_IncludesUnstoredReport(t *testing.T) {
	hist := history.New(domain.DefaultConfig().History)
	for i := 0; i < 2; i++ {
		hist.AppendReport(slowGateReport(100 * time.Second))
	}

	e := newEngine(hist, func(c *domain.Config) {
		c.Optimize.MinThroughputPerHour = 0
		c.Optimize.ResponseTimeThreshold = 5 * time.Minute
	})
	analysis := e.AnalyzeReport(slowGateReport(100 * time.Second))

	require.Len(t, analysis.Bottlenecks, 1)
	assert.Equal(t, 3, analysis.Bottlenecks[0].Frequency)
}

func TestTracking_ImprovementAndROI(t *testing.T) {
	rec := optimize.Recommendation{
		ID:         "rec-1",
		Title:      "Profile and split the slowest gate",
		Difficulty: optimize.DifficultyModerate,
		Implementation: optimize.Implementation{
			Effort:         domain.EffortMedium,
			EstimatedHours: 10,
		},
	}

	tr := optimize.NewTracking(rec, 100, 60)
	assert.InDelta(t, 40, tr.ImprovementPct, 0.001)
	// 40% improvement over 10 estimated hours at moderate difficulty (weight 2).
	assert.InDelta(t, 2, tr.ROI, 0.001)
}

func TestEngine_TrackingLog(t *testing.T) {
	e := newEngine(history.New(domain.DefaultConfig().History), nil)
	rec := optimize.Recommendation{ID: "rec-1", Difficulty: optimize.DifficultyEasy,
		Implementation: optimize.Implementation{EstimatedHours: 1}}

	e.MarkImplemented(rec, 50, 25)
	log := e.TrackingLog()
	require.Len(t, log, 1)
	assert.Equal(t, "rec-1", log[0].RecommendationID)
	assert.InDelta(t, 50, log[0].ImprovementPct, 0.001)
}
