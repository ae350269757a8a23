// Package optimize detects resource and algorithmic bottlenecks from the
// telemetry history and ranks remediation recommendations by expected impact
// against implementation effort.
package optimize

import (
	"fmt"
	"time"

	"github.com/donegate/donegate/internal/domain"
	"github.com/donegate/donegate/internal/domain/history"
	"github.com/donegate/donegate/internal/domain/monitor"
	"github.com/donegate/donegate/internal/domain/stats"
	"github.com/google/uuid"
)

// Category classifies what kind of constraint a bottleneck is.
type Category string

const (
	CategoryCPU         Category = "cpu"
	CategoryMemory      Category = "memory"
	CategoryIO          Category = "io"
	CategoryNetwork     Category = "network"
	CategoryAlgorithm   Category = "algorithm"
	CategoryConcurrency Category = "concurrency"
)

// Impact scores a bottleneck or recommendation across four axes, each 0-100.
type Impact struct {
	Performance float64 `json:"performance"`
	Resources   float64 `json:"resources"`
	Reliability float64 `json:"reliability"`
	Scalability float64 `json:"scalability"`
}

// Measurement records the observed value against its configured baseline.
type Measurement struct {
	Current        float64 `json:"current"`
	Baseline       float64 `json:"baseline"`
	DegradationPct float64 `json:"degradation_pct"`
}

// Bottleneck is one detected constraint. Frequency counts how many recent
// entries exhibited the condition; TrendingUp marks trend-detected
// bottlenecks that have not yet breached an absolute threshold.
type Bottleneck struct {
	ID          string          `json:"id"`
	Category    Category        `json:"category"`
	Severity    domain.Severity `json:"severity"`
	Description string          `json:"description"`
	Impact      Impact          `json:"impact"`
	Metrics     Measurement     `json:"metrics"`
	Frequency   int             `json:"frequency"`
	TrendingUp  bool            `json:"trending_up"`
	DetectedAt  time.Time       `json:"detected_at"`
}

func newBottleneck(cat Category, sev domain.Severity, desc string, impact Impact, m Measurement) Bottleneck {
	return Bottleneck{
		ID:          uuid.NewString(),
		Category:    cat,
		Severity:    sev,
		Description: desc,
		Impact:      impact,
		Metrics:     m,
		DetectedAt:  time.Now(),
	}
}

func measurement(current, baseline float64) Measurement {
	m := Measurement{Current: current, Baseline: baseline}
	if baseline > 0 {
		m.DegradationPct = (current - baseline) / baseline * 100
	}
	return m
}

// detectBottlenecks runs the threshold rules, the trend rules, and the
// slowest-gate rule over one history snapshot.
func detectBottlenecks(entries []history.Entry, cfg domain.OptimizeConfig, agg monitor.Aggregates) []Bottleneck {
	var out []Bottleneck

	if agg.CPUPct > cfg.CPUPctThreshold {
		out = append(out, newBottleneck(CategoryCPU, domain.SeverityWarning,
			fmt.Sprintf("CPU at %.0f%% against an %.0f%% ceiling", agg.CPUPct, cfg.CPUPctThreshold),
			Impact{Performance: 70, Resources: 80, Reliability: 30, Scalability: 60},
			measurement(agg.CPUPct, cfg.CPUPctThreshold)))
	}

	if agg.MemoryPct > cfg.MemoryPctThreshold {
		out = append(out, newBottleneck(CategoryMemory, domain.SeverityError,
			fmt.Sprintf("memory at %.0f%% against an %.0f%% ceiling", agg.MemoryPct, cfg.MemoryPctThreshold),
			Impact{Performance: 60, Resources: 90, Reliability: 70, Scalability: 80},
			measurement(agg.MemoryPct, cfg.MemoryPctThreshold)))
	}

	if agg.AvgDuration > cfg.ResponseTimeThreshold {
		out = append(out, newBottleneck(CategoryIO, domain.SeverityWarning,
			fmt.Sprintf("average validation duration %s exceeds %s",
				agg.AvgDuration.Round(time.Second), cfg.ResponseTimeThreshold),
			Impact{Performance: 85, Resources: 40, Reliability: 30, Scalability: 50},
			measurement(agg.AvgDuration.Seconds(), cfg.ResponseTimeThreshold.Seconds())))
	}

	if agg.ReportCount > 0 && agg.FailureRate > cfg.ErrorRateThreshold {
		out = append(out, newBottleneck(CategoryNetwork, domain.SeverityError,
			fmt.Sprintf("external checks failing at %.0f%% against a %.0f%% ceiling",
				agg.FailureRate*100, cfg.ErrorRateThreshold*100),
			Impact{Performance: 50, Resources: 20, Reliability: 90, Scalability: 40},
			measurement(agg.FailureRate*100, cfg.ErrorRateThreshold*100)))
	}

	if agg.ReportCount > 0 && agg.ThroughputPerHour < cfg.MinThroughputPerHour {
		out = append(out, newBottleneck(CategoryConcurrency, domain.SeverityWarning,
			fmt.Sprintf("throughput %.1f validations/hour below the %.0f/hour floor",
				agg.ThroughputPerHour, cfg.MinThroughputPerHour),
			Impact{Performance: 60, Resources: 30, Reliability: 20, Scalability: 85},
			measurement(cfg.MinThroughputPerHour, agg.ThroughputPerHour)))
	}

	// A sustained degrading trend is a bottleneck even before any absolute
	// threshold is breached.
	if agg.AvgDuration <= cfg.ResponseTimeThreshold && agg.Trends[domain.MetricDuration] == domain.TrendDegrading {
		b := newBottleneck(CategoryIO, domain.SeverityWarning,
			"validation duration trending up across recent runs",
			Impact{Performance: 60, Resources: 30, Reliability: 20, Scalability: 40},
			measurement(agg.AvgDuration.Seconds(), cfg.ResponseTimeThreshold.Seconds()))
		b.TrendingUp = true
		out = append(out, b)
	}
	if agg.MemoryPct <= cfg.MemoryPctThreshold && agg.Trends[domain.MetricMemory] == domain.TrendDegrading {
		b := newBottleneck(CategoryMemory, domain.SeverityWarning,
			"memory usage trending up across recent runs",
			Impact{Performance: 40, Resources: 70, Reliability: 40, Scalability: 60},
			measurement(agg.MemoryPct, cfg.MemoryPctThreshold))
		b.TrendingUp = true
		out = append(out, b)
	}

	if b, ok := slowestGateBottleneck(entries); ok {
		out = append(out, b)
	}

	return out
}

// slowestGateBottleneck flags the gate whose mean duration dominates the
// batch average by at least 2x.
func slowestGateBottleneck(entries []history.Entry) (Bottleneck, bool) {
	totals := make(map[string]float64)
	counts := make(map[string]int)
	var all []float64

	for _, e := range entries {
		if e.Report == nil {
			continue
		}
		for _, r := range e.Report.Results {
			sec := r.Duration.Seconds()
			totals[r.GateName] += sec
			counts[r.GateName]++
			all = append(all, sec)
		}
	}
	if len(all) == 0 {
		return Bottleneck{}, false
	}

	batchMean := stats.Mean(all)
	var slowest string
	var slowestMean float64
	frequency := 0
	for name, total := range totals {
		mean := total / float64(counts[name])
		if mean > slowestMean {
			slowest, slowestMean = name, mean
			frequency = counts[name]
		}
	}
	if batchMean == 0 || slowestMean < 2*batchMean {
		return Bottleneck{}, false
	}

	b := newBottleneck(CategoryAlgorithm, domain.SeverityWarning,
		fmt.Sprintf("gate %q averages %.1fs against a %.1fs batch average", slowest, slowestMean, batchMean),
		Impact{Performance: 75, Resources: 40, Reliability: 20, Scalability: 45},
		measurement(slowestMean, batchMean))
	b.Frequency = frequency
	return b, true
}
