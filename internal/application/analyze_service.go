package application

import (
	"time"

	"github.com/donegate/donegate/internal/domain"
	"github.com/donegate/donegate/internal/domain/history"
	"github.com/donegate/donegate/internal/domain/monitor"
	"github.com/donegate/donegate/internal/domain/optimize"
	"github.com/donegate/donegate/internal/domain/predict"
)

// Analysis is the combined output of a comprehensive pass over the history:
// windowed aggregates, detected bottlenecks with ranked recommendations, and
// the current output of every predictive model.
type Analysis struct {
	GeneratedAt     time.Time                 `json:"generated_at"`
	HistorySize     int                       `json:"history_size"`
	Aggregates      monitor.Aggregates        `json:"aggregates"`
	Bottlenecks     []optimize.Bottleneck     `json:"bottlenecks"`
	Recommendations []optimize.Recommendation `json:"recommendations"`
	Predictions     []predict.Prediction      `json:"predictions"`
}

// AnalyzeService runs on-demand analysis over the accumulated history,
// independent of the periodic monitor and predictive timers.
type AnalyzeService struct {
	cfg       domain.Config
	hist      *history.Store
	optimizer *optimize.Engine
}

func NewAnalyzeService(cfg domain.Config, hist *history.Store) *AnalyzeService {
	return &AnalyzeService{
		cfg:       cfg,
		hist:      hist,
		optimizer: optimize.New(cfg.Optimize, cfg.Monitor, hist),
	}
}

// Analyze runs aggregation, bottleneck detection, and the full model battery
// over the current history snapshot.
func (s *AnalyzeService) Analyze() Analysis {
	snapshot := s.hist.Snapshot()
	result := s.optimizer.Analyze()

	analysis := Analysis{
		GeneratedAt:     time.Now(),
		HistorySize:     len(snapshot),
		Aggregates:      monitor.Aggregate(snapshot, s.cfg.Monitor, time.Now()),
		Bottlenecks:     result.Bottlenecks,
		Recommendations: result.Recommendations,
	}

	if len(snapshot) >= s.cfg.Predict.MinHistory {
		for _, model := range predict.Models() {
			if pred, ok := runModel(model, snapshot, s.cfg.Predict); ok {
				analysis.Predictions = append(analysis.Predictions, pred)
			}
		}
	}
	return analysis
}

// Optimizer exposes the underlying engine so implemented recommendations can
// be tracked across analyses.
func (s *AnalyzeService) Optimizer() *optimize.Engine {
	return s.optimizer
}

// runModel isolates one model execution; a panicking model is skipped so the
// others still report.
func runModel(model predict.Model, snapshot []history.Entry, cfg domain.PredictConfig) (pred predict.Prediction, ok bool) {
	defer func() {
		if recover() != nil {
			pred, ok = predict.Prediction{}, false
		}
	}()
	return model.Predict(snapshot, cfg)
}
