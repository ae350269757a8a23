package predict

import (
	"github.com/donegate/donegate/internal/domain"
	"github.com/donegate/donegate/internal/domain/history"
)

// reportPoint is the per-report feature vector the models share.
type reportPoint struct {
	score       float64
	durationSec float64
	memoryMB    float64
	passed      float64 // 1 or 0
}

// reportPoints extracts one point per report entry, oldest first.
func reportPoints(entries []history.Entry) []reportPoint {
	var points []reportPoint
	for _, e := range entries {
		if e.Report == nil {
			continue
		}
		p := reportPoint{
			score:       float64(e.Report.OverallScore),
			durationSec: e.Report.Duration.Seconds(),
			memoryMB:    e.Report.Metrics.MemoryMB,
		}
		if e.Report.Passed() {
			p.passed = 1
		}
		points = append(points, p)
	}
	return points
}

// tail returns at most the last n elements.
func tail[T any](s []T, n int) []T {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// memorySeries extracts memory samples as percent-of-exhaustion, oldest
// first. Samples with unit "%" are taken as-is; MB samples are scaled against
// the configured exhaustion ceiling.
func memorySeries(entries []history.Entry, cfg domain.PredictConfig) []float64 {
	var out []float64
	for _, e := range entries {
		for _, s := range e.Samples {
			if s.Type != domain.MetricMemory {
				continue
			}
			if s.Unit == "%" {
				out = append(out, s.Value)
			} else if cfg.ExhaustionMemoryMB > 0 {
				out = append(out, s.Value/cfg.ExhaustionMemoryMB*100)
			}
		}
	}
	return out
}

// cpuSeries extracts cpu usage samples in percent, oldest first.
func cpuSeries(entries []history.Entry) []float64 {
	var out []float64
	for _, e := range entries {
		for _, s := range e.Samples {
			if s.Type == domain.MetricCPU {
				out = append(out, s.Value)
			}
		}
	}
	return out
}

// durationSeries extracts duration samples in seconds, oldest first.
func durationSeries(entries []history.Entry) []float64 {
	var out []float64
	for _, e := range entries {
		for _, s := range e.Samples {
			if s.Type == domain.MetricDuration {
				out = append(out, s.Value)
			}
		}
	}
	return out
}

func scores(points []reportPoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.score
	}
	return out
}

func durations(points []reportPoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.durationSec
	}
	return out
}

func memories(points []reportPoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.memoryMB
	}
	return out
}

func failureRate(points []reportPoint) float64 {
	if len(points) == 0 {
		return 0
	}
	failed := 0
	for _, p := range points {
		if p.passed == 0 {
			failed++
		}
	}
	return float64(failed) / float64(len(points))
}
