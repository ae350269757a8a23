// Package predict runs a battery of independent statistical models over an
// immutable history snapshot and turns their risk scores into
// confidence-gated alerts. Each model is stateless: it can be unit-tested
// against a synthetic series without running the others.
package predict

import (
	"github.com/donegate/donegate/internal/domain"
	"github.com/donegate/donegate/internal/domain/history"
)

// Prediction is one model's verdict over the current history.
type Prediction struct {
	Model      string       `json:"model"`
	Score      float64      `json:"score"`      // 0-100 risk of impending failure
	Confidence float64      `json:"confidence"` // 0-100 self-reported certainty
	Factors    []string     `json:"factors,omitempty"`
	Trend      domain.Trend `json:"trend"`
}

// Model is one independent statistical model. ok is false when the snapshot
// does not carry enough applicable data for this model.
type Model interface {
	Name() string
	Predict(entries []history.Entry, cfg domain.PredictConfig) (pred Prediction, ok bool)
}

// Models returns the full battery in evaluation order.
func Models() []Model {
	return []Model{
		MovingAverageModel{},
		PatternMatchModel{},
		AnomalyModel{},
		ResourceTrendModel{},
		QualityRegressionModel{},
	}
}
