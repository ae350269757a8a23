package optimize

import (
	"sync"
	"time"

	"github.com/donegate/donegate/internal/domain"
	"github.com/donegate/donegate/internal/domain/history"
	"github.com/donegate/donegate/internal/domain/monitor"
)

// Analysis is the result of one optimization pass.
type Analysis struct {
	Timestamp       time.Time        `json:"timestamp"`
	Bottlenecks     []Bottleneck     `json:"bottlenecks"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Engine runs bottleneck detection and recommendation ranking over the
// shared history, and tracks implemented recommendations.
type Engine struct {
	cfg    domain.OptimizeConfig
	winCfg domain.MonitorConfig
	hist   *history.Store

	mu       sync.Mutex
	tracking []Tracking
}

// New creates an engine over the given history. The monitor window settings
// drive the aggregation the detection rules consume.
func New(cfg domain.OptimizeConfig, winCfg domain.MonitorConfig, hist *history.Store) *Engine {
	return &Engine{cfg: cfg, winCfg: winCfg, hist: hist}
}

// Analyze runs a comprehensive pass over the whole history.
func (e *Engine) Analyze() Analysis {
	return e.analyze(e.hist.Snapshot())
}

// AnalyzeReport runs a targeted pass over the history ending at the given
// report, so a fresh validation can be assessed without waiting for a timer.
func (e *Engine) AnalyzeReport(report *domain.ValidationReport) Analysis {
	entries := e.hist.Snapshot()
	found := false
	for _, entry := range entries {
		if entry.Report != nil && entry.Report.ID == report.ID {
			found = true
			break
		}
	}
	if !found {
		entries = append(entries, history.Entry{Timestamp: report.Timestamp, Report: report})
	}
	return e.analyze(entries)
}

func (e *Engine) analyze(entries []history.Entry) Analysis {
	agg := monitor.Aggregate(entries, e.winCfg, time.Now())
	bottlenecks := detectBottlenecks(entries, e.cfg, agg)
	return Analysis{
		Timestamp:       time.Now(),
		Bottlenecks:     bottlenecks,
		Recommendations: recommend(bottlenecks, e.cfg),
	}
}

// MarkImplemented records a recommendation as implemented with before/after
// measurements and returns the computed outcome.
func (e *Engine) MarkImplemented(rec Recommendation, before, after float64) Tracking {
	t := NewTracking(rec, before, after)
	e.mu.Lock()
	e.tracking = append(e.tracking, t)
	e.mu.Unlock()
	return t
}

// TrackingLog returns a copy of all recorded implementation outcomes.
func (e *Engine) TrackingLog() []Tracking {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Tracking, len(e.tracking))
	copy(out, e.tracking)
	return out
}
