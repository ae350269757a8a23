package history_test

import (
	"testing"
	"time"

	"github.com/donegate/donegate/internal/domain"
	"github.com/donegate/donegate/internal/domain/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bounds() domain.HistoryConfig {
	return domain.HistoryConfig{
		MaxEntries:     100,
		MaxAge:         time.Hour,
		CompressAt:     80,
		CompressStride: 4,
	}
}

func TestStore_AppendAndSnapshot(t *testing.T) {
	s := history.New(bounds())
	now := time.Now()

	s.Append(history.Entry{Timestamp: now.Add(-2 * time.Minute)})
	s.Append(history.Entry{Timestamp: now.Add(-time.Minute)})

	snap := s.Snapshot()
	require.Len(t, snap, 2)
	assert.True(t, snap[0].Timestamp.Before(snap[1].Timestamp))
}

func TestStore_DropsEntriesPastMaxAge(t *testing.T) {
	s := history.New(bounds())
	now := time.Now()

	s.Append(history.Entry{Timestamp: now.Add(-2 * time.Hour)})
	s.Append(history.Entry{Timestamp: now})

	assert.Equal(t, 1, s.Len())
}

func TestStore_NeverExceedsMaxEntries(t *testing.T) {
	cfg := bounds()
	cfg.CompressAt = 0 // disable compaction to exercise the hard cap
	s := history.New(cfg)
	now := time.Now()

	for i := 0; i < 300; i++ {
		s.Append(history.Entry{Timestamp: now.Add(time.Duration(i) * time.Second)})
		assert.LessOrEqual(t, s.Len(), cfg.MaxEntries)
	}
	assert.Equal(t, cfg.MaxEntries, s.Len())
}

func TestStore_CompactionPreservesTimeRange(t *testing.T) {
	s := history.New(bounds())
	now := time.Now()

	start := now.Add(-30 * time.Minute)
	for i := 0; i <= 80; i++ {
		s.Append(history.Entry{Timestamp: start.Add(time.Duration(i) * time.Second)})
	}
	// The 81st append crosses CompressAt and must strictly shrink the store.
	assert.Less(t, s.Len(), 81)

	snap := s.Snapshot()
	require.NotEmpty(t, snap)
	assert.Equal(t, start.Unix(), snap[0].Timestamp.Unix(), "oldest entry survives compaction")
	assert.Equal(t, start.Add(80*time.Second).Unix(), snap[len(snap)-1].Timestamp.Unix(), "newest entry survives compaction")
}

func TestStore_AppendReportDerivesSamples(t *testing.T) {
	s := history.New(bounds())
	report := &domain.ValidationReport{
		ID:        "r1",
		Category:  domain.CategoryTask,
		Timestamp: time.Now(),
		Duration:  3 * time.Second,
		Metrics:   domain.ReportMetrics{FailureRate: 0.25, MemoryMB: 128},
	}

	s.AppendReport(report)

	snap := s.Snapshot()
	require.Len(t, snap, 1)
	require.NotNil(t, snap[0].Report)

	byType := map[domain.MetricType]float64{}
	for _, sample := range snap[0].Samples {
		byType[sample.Type] = sample.Value
	}
	assert.InDelta(t, 3.0, byType[domain.MetricDuration], 0.001)
	assert.InDelta(t, 0.75, byType[domain.MetricSuccessRate], 0.001)
	assert.InDelta(t, 128, byType[domain.MetricMemory], 0.001)

	reports := s.Reports()
	require.Len(t, reports, 1)
	assert.Equal(t, "r1", reports[0].ID)
}
