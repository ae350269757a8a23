package predict

import (
	"fmt"
	"math"

	"github.com/donegate/donegate/internal/domain"
	"github.com/donegate/donegate/internal/domain/history"
	"github.com/donegate/donegate/internal/domain/stats"
)

// AnomalyModel compares the latest report against the trailing window's
// mean/stddev for score, duration, and memory. Any dimension beyond the
// configured number of standard deviations contributes risk proportional to
// its z-score.
type AnomalyModel struct{}

func (AnomalyModel) Name() string { return "anomaly" }

func (m AnomalyModel) Predict(entries []history.Entry, cfg domain.PredictConfig) (Prediction, bool) {
	points := tail(reportPoints(entries), cfg.Window+1)
	if len(points) < 4 {
		return Prediction{}, false
	}

	latest := points[len(points)-1]
	window := points[:len(points)-1]

	type dimension struct {
		name   string
		value  float64
		series []float64
		// a low score is bad, a high duration or memory is bad
		badHigh bool
	}
	dims := []dimension{
		{"score", latest.score, scores(window), false},
		{"duration", latest.durationSec, durations(window), true},
		{"memory", latest.memoryMB, memories(window), true},
	}

	risk := 0.0
	var factors []string
	for _, d := range dims {
		z := stats.ZScore(d.value, d.series)
		if math.Abs(z) < cfg.AnomalyStdDevs {
			continue
		}
		// Only deviations in the bad direction count toward risk.
		if d.badHigh && z < 0 || !d.badHigh && z > 0 {
			continue
		}
		risk += stats.Clamp(math.Abs(z)*15, 0, 40)
		factors = append(factors, fmt.Sprintf("%s deviates %.1f standard deviations from the window", d.name, z))
	}
	risk = stats.Clamp(risk, 0, 100)

	confidence := stats.Clamp(20+float64(len(window))*7, 0, 90)
	trend := domain.TrendStable
	if risk > 0 {
		trend = domain.TrendDegrading
	}
	if len(factors) == 0 {
		factors = []string{"latest run within normal bounds"}
	}

	return Prediction{
		Model:      m.Name(),
		Score:      risk,
		Confidence: confidence,
		Trend:      trend,
		Factors:    factors,
	}, true
}
