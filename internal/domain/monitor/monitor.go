// Package monitor samples process resource usage on a fixed timer, folds the
// samples into the shared history, computes short-window trends, and fires
// threshold alerts with per-rule cooldowns.
package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/donegate/donegate/internal/domain"
	"github.com/donegate/donegate/internal/domain/alerting"
	"github.com/donegate/donegate/internal/domain/history"
)

// Monitor owns one append path into the history and a table of alert rules.
type Monitor struct {
	cfg       domain.MonitorConfig
	sampler   domain.ResourceSampler
	hist      *history.Store
	feed      *alerting.Feed
	cooldowns *alerting.CooldownTable
	rules     []Rule
}

// Rule is one alert predicate over the aggregated metrics.
type Rule struct {
	Type      alerting.Type
	Severity  domain.Severity
	Title     string
	Predicate func(agg Aggregates) bool
	Message   func(agg Aggregates) string
	Actions   []string
}

// New creates a monitor with the default rule table.
func New(cfg domain.MonitorConfig, sampler domain.ResourceSampler, hist *history.Store, feed *alerting.Feed) *Monitor {
	m := &Monitor{
		cfg:       cfg,
		sampler:   sampler,
		hist:      hist,
		feed:      feed,
		cooldowns: alerting.NewCooldownTable(cfg.Cooldown),
	}
	m.rules = defaultRules(cfg)
	return m
}

// Run samples on the configured interval until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Tick()
		}
	}
}

// Tick performs one sample-aggregate-evaluate cycle and returns any alerts
// that fired.
func (m *Monitor) Tick() []alerting.Alert {
	usage := m.sampler.Sample()
	now := time.Now()

	m.hist.AppendSamples(
		domain.MetricSample{Timestamp: now, Type: domain.MetricMemory, Value: usage.MemoryPct, Unit: "%"},
		domain.MetricSample{Timestamp: now, Type: domain.MetricCPU, Value: usage.CPUPct, Unit: "%"},
	)

	agg := Aggregate(m.hist.Snapshot(), m.cfg, now)
	return m.evaluate(agg)
}

// Evaluate runs the rule table against externally computed aggregates.
// Alerts below the configured confidence floor are suppressed before the
// cooldown is consumed.
func (m *Monitor) evaluate(agg Aggregates) []alerting.Alert {
	confidence := ruleConfidence(agg)
	if confidence < m.cfg.MinConfidence {
		return nil
	}

	var emitted []alerting.Alert
	for _, rule := range m.rules {
		if !rule.Predicate(agg) {
			continue
		}
		key := alerting.Key{Source: alerting.SourceMonitor, Type: rule.Type}
		if !m.cooldowns.Allow(key) {
			continue
		}

		alert := alerting.NewAlert(alerting.SourceMonitor, rule.Type, rule.Severity, rule.Title, rule.Message(agg))
		alert.Confidence = confidence
		alert.AffectedComponents = []string{"validation-pipeline"}
		alert.RecommendedActions = rule.Actions

		m.feed.Publish(alert)
		emitted = append(emitted, alert)
	}
	return emitted
}

// ruleConfidence scales with how much history backs the aggregates.
func ruleConfidence(agg Aggregates) float64 {
	c := 50 + float64(agg.SampleCount)*2
	if c > 95 {
		c = 95
	}
	return c
}

func defaultRules(cfg domain.MonitorConfig) []Rule {
	return []Rule{
		{
			Type:     alerting.TypeHighMemory,
			Severity: domain.SeverityError,
			Title:    "Memory usage above threshold",
			Predicate: func(a Aggregates) bool {
				return a.MemoryPct > cfg.MemoryPctThreshold
			},
			Message: func(a Aggregates) string {
				return fmt.Sprintf("memory at %.0f%% (threshold %.0f%%)", a.MemoryPct, cfg.MemoryPctThreshold)
			},
			Actions: []string{
				"Lower gate concurrency",
				"Profile the highest-memory gates",
			},
		},
		{
			Type:     alerting.TypeSlowValidation,
			Severity: domain.SeverityWarning,
			Title:    "Validation runs slowing down",
			Predicate: func(a Aggregates) bool {
				return a.AvgDuration > cfg.AvgDurationThreshold
			},
			Message: func(a Aggregates) string {
				return fmt.Sprintf("average validation duration %s (threshold %s)",
					a.AvgDuration.Round(time.Second), cfg.AvgDurationThreshold)
			},
			Actions: []string{
				"Inspect the slowest gate in recent reports",
				"Raise per-gate timeouts only after fixing the slowdown",
			},
		},
		{
			Type:     alerting.TypeHighFailureRate,
			Severity: domain.SeverityError,
			Title:    "Gate failure rate above threshold",
			Predicate: func(a Aggregates) bool {
				return a.ReportCount > 0 && a.FailureRate > cfg.FailureRateThreshold
			},
			Message: func(a Aggregates) string {
				return fmt.Sprintf("failure rate %.0f%% over %d runs (threshold %.0f%%)",
					a.FailureRate*100, a.ReportCount, cfg.FailureRateThreshold*100)
			},
			Actions: []string{
				"Triage the most frequent failing gate",
				"Pause merges until the rate recovers",
			},
		},
		{
			Type:     alerting.TypeLowThroughput,
			Severity: domain.SeverityWarning,
			Title:    "Validation throughput below threshold",
			Predicate: func(a Aggregates) bool {
				return a.ReportCount > 0 && a.ThroughputPerHour < cfg.MinThroughputPerHour
			},
			Message: func(a Aggregates) string {
				return fmt.Sprintf("throughput %.1f validations/hour (minimum %.0f)",
					a.ThroughputPerHour, cfg.MinThroughputPerHour)
			},
			Actions: []string{
				"Check whether validations are queuing behind slow gates",
			},
		},
	}
}
