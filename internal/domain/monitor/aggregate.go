package monitor

import (
	"time"

	"github.com/donegate/donegate/internal/domain"
	"github.com/donegate/donegate/internal/domain/history"
	"github.com/donegate/donegate/internal/domain/stats"
)

// Aggregates summarizes the recent history for the rule table: windowed
// averages plus a trend classification per metric.
type Aggregates struct {
	MemoryPct         float64                          `json:"memory_pct"`
	CPUPct            float64                          `json:"cpu_pct"`
	AvgDuration       time.Duration                    `json:"avg_duration"`
	FailureRate       float64                          `json:"failure_rate"`
	ThroughputPerHour float64                          `json:"throughput_per_hour"`
	SampleCount       int                              `json:"sample_count"`
	ReportCount       int                              `json:"report_count"`
	Trends            map[domain.MetricType]domain.Trend `json:"trends"`
}

// Aggregate folds a history snapshot into windowed aggregates. Averages use
// the trailing window; trends compare the trailing window against the one
// before it.
func Aggregate(entries []history.Entry, cfg domain.MonitorConfig, now time.Time) Aggregates {
	memory := sampleSeries(entries, domain.MetricMemory)
	cpu := sampleSeries(entries, domain.MetricCPU)
	durations := sampleSeries(entries, domain.MetricDuration)

	agg := Aggregates{
		SampleCount: len(memory) + len(cpu) + len(durations),
		Trends:      make(map[domain.MetricType]domain.Trend),
	}

	w := cfg.WindowSize
	if len(memory) > 0 {
		agg.MemoryPct = stats.Mean(tail(memory, w))
	}
	if len(cpu) > 0 {
		agg.CPUPct = stats.Mean(tail(cpu, w))
	}
	if len(durations) > 0 {
		agg.AvgDuration = time.Duration(stats.Mean(tail(durations, w)) * float64(time.Second))
	}

	var reports, failed, lastHour int
	for _, e := range entries {
		if e.Report == nil {
			continue
		}
		reports++
		if !e.Report.Passed() {
			failed++
		}
		if now.Sub(e.Timestamp) <= time.Hour {
			lastHour++
		}
	}
	agg.ReportCount = reports
	if reports > 0 {
		agg.FailureRate = float64(failed) / float64(reports)
	}
	agg.ThroughputPerHour = float64(lastHour)

	agg.Trends[domain.MetricMemory] = windowTrend(memory, w, cfg.TrendBandPct, badHigh)
	agg.Trends[domain.MetricCPU] = windowTrend(cpu, w, cfg.TrendBandPct, badHigh)
	agg.Trends[domain.MetricDuration] = windowTrend(durations, w, cfg.TrendBandPct, badHigh)
	agg.Trends[domain.MetricSuccessRate] = windowTrend(sampleSeries(entries, domain.MetricSuccessRate), w, cfg.TrendBandPct, badLow)

	return agg
}

type direction int

const (
	badHigh direction = iota // growth is a degradation
	badLow                   // decline is a degradation
)

// windowTrend compares the mean of the last w values against the mean of the
// w values before that. Changes inside the band are stable.
func windowTrend(series []float64, w int, bandPct float64, dir direction) domain.Trend {
	if len(series) < 2*w {
		return domain.TrendStable
	}
	recent := stats.Mean(series[len(series)-w:])
	previous := stats.Mean(series[len(series)-2*w : len(series)-w])
	if previous == 0 {
		return domain.TrendStable
	}

	changePct := (recent - previous) / previous * 100
	switch {
	case changePct > bandPct:
		if dir == badHigh {
			return domain.TrendDegrading
		}
		return domain.TrendImproving
	case changePct < -bandPct:
		if dir == badHigh {
			return domain.TrendImproving
		}
		return domain.TrendDegrading
	default:
		return domain.TrendStable
	}
}

func sampleSeries(entries []history.Entry, typ domain.MetricType) []float64 {
	var out []float64
	for _, e := range entries {
		for _, s := range e.Samples {
			if s.Type == typ {
				out = append(out, s.Value)
			}
		}
	}
	return out
}

func tail(series []float64, n int) []float64 {
	if n <= 0 || len(series) <= n {
		return series
	}
	return series[len(series)-n:]
}
