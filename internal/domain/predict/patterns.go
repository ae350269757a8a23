package predict

import (
	"fmt"

	"github.com/donegate/donegate/internal/domain"
	"github.com/donegate/donegate/internal/domain/history"
	"github.com/donegate/donegate/internal/domain/stats"
)

// PatternMatchModel finds historical windows whose feature vectors resemble
// the current window and uses the empirical failure rate of what happened
// next after those windows as the risk estimate.
type PatternMatchModel struct{}

func (PatternMatchModel) Name() string { return "pattern-match" }

// patternWindow is the number of consecutive reports compared at a time.
const patternWindow = 3

func (m PatternMatchModel) Predict(entries []history.Entry, cfg domain.PredictConfig) (Prediction, bool) {
	points := reportPoints(entries)
	// Need the current window plus at least one historical window with a
	// known "next" outcome.
	if len(points) < 2*patternWindow+1 {
		return Prediction{}, false
	}

	current := flatten(points[len(points)-patternWindow:])

	matches := 0
	nextFailures := 0
	for i := 0; i+patternWindow < len(points)-patternWindow; i++ {
		candidate := flatten(points[i : i+patternWindow])
		if stats.CosineSimilarity(current, candidate) < cfg.SimilarityFloor {
			continue
		}
		matches++
		if points[i+patternWindow].passed == 0 {
			nextFailures++
		}
	}

	if matches == 0 {
		return Prediction{
			Model:      m.Name(),
			Score:      0,
			Confidence: 10,
			Trend:      domain.TrendStable,
			Factors:    []string{"no similar historical windows found"},
		}, true
	}

	risk := float64(nextFailures) / float64(matches) * 100
	confidence := stats.Clamp(25+float64(matches)*10, 0, 90)

	trend := domain.TrendStable
	if risk >= 50 {
		trend = domain.TrendDegrading
	}

	return Prediction{
		Model:      m.Name(),
		Score:      risk,
		Confidence: confidence,
		Trend:      trend,
		Factors: []string{
			fmt.Sprintf("%d similar windows, %d followed by failure", matches, nextFailures),
		},
	}, true
}

// flatten concatenates the feature vectors of a window of points.
func flatten(points []reportPoint) []float64 {
	out := make([]float64, 0, len(points)*4)
	for _, p := range points {
		out = append(out, p.score, p.durationSec, p.memoryMB, p.passed)
	}
	return out
}
