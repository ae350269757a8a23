package predict

import (
	"fmt"

	"github.com/donegate/donegate/internal/domain"
	"github.com/donegate/donegate/internal/domain/history"
	"github.com/donegate/donegate/internal/domain/stats"
)

// MovingAverageModel estimates risk from the trailing window's failure rate
// and mean score deficit. Confidence grows with sample count.
type MovingAverageModel struct{}

func (MovingAverageModel) Name() string { return "moving-average" }

const (
	maFailureWeight = 0.7
	maScoreWeight   = 0.3
)

func (m MovingAverageModel) Predict(entries []history.Entry, cfg domain.PredictConfig) (Prediction, bool) {
	points := tail(reportPoints(entries), cfg.Window)
	if len(points) < 2 {
		return Prediction{}, false
	}

	rate := failureRate(points)
	meanScore := stats.Mean(scores(points))
	deficit := stats.Clamp(100-meanScore, 0, 100)

	risk := stats.Clamp(maFailureWeight*rate*100+maScoreWeight*deficit, 0, 100)
	confidence := stats.Clamp(20+float64(len(points))*6, 0, 95)

	trend := domain.TrendStable
	switch slope := stats.LinearSlope(scores(points)); {
	case slope < -0.5:
		trend = domain.TrendDegrading
	case slope > 0.5:
		trend = domain.TrendImproving
	}

	return Prediction{
		Model:      m.Name(),
		Score:      risk,
		Confidence: confidence,
		Trend:      trend,
		Factors: []string{
			fmt.Sprintf("failure rate %.0f%% over last %d runs", rate*100, len(points)),
			fmt.Sprintf("mean score %.0f", meanScore),
		},
	}, true
}
