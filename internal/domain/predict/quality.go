package predict

import (
	"fmt"

	"github.com/donegate/donegate/internal/domain"
	"github.com/donegate/donegate/internal/domain/history"
	"github.com/donegate/donegate/internal/domain/stats"
)

// QualityRegressionModel flags sustained score decline before any hard
// failure occurs: the linear slope of the score over the trailing window
// combined with the recent average against the quality floor.
type QualityRegressionModel struct{}

func (QualityRegressionModel) Name() string { return "quality-regression" }

func (m QualityRegressionModel) Predict(entries []history.Entry, cfg domain.PredictConfig) (Prediction, bool) {
	points := tail(reportPoints(entries), cfg.Window)
	if len(points) < 3 {
		return Prediction{}, false
	}

	scoreSeries := scores(points)
	slope := stats.LinearSlope(scoreSeries)
	recent := stats.Mean(tail(scoreSeries, 3))

	// Declining slope contributes risk even above the floor; dipping below
	// the floor contributes regardless of slope.
	slopeRisk := stats.Clamp(-slope*20, 0, 60)
	floorRisk := stats.Clamp(cfg.QualityFloor-recent, 0, 40)
	risk := stats.Clamp(slopeRisk+floorRisk, 0, 100)

	trend := domain.TrendStable
	switch {
	case slope < -0.5:
		trend = domain.TrendDegrading
	case slope > 0.5:
		trend = domain.TrendImproving
	}

	var factors []string
	if slopeRisk > 0 {
		factors = append(factors, fmt.Sprintf("score declining %.1f points per run", -slope))
	}
	if floorRisk > 0 {
		factors = append(factors, fmt.Sprintf("recent average %.0f below quality floor %.0f", recent, cfg.QualityFloor))
	}
	if len(factors) == 0 {
		factors = []string{fmt.Sprintf("score holding at %.0f", recent)}
	}

	confidence := stats.Clamp(25+float64(len(points))*6, 0, 90)

	return Prediction{
		Model:      m.Name(),
		Score:      risk,
		Confidence: confidence,
		Trend:      trend,
		Factors:    factors,
	}, true
}
