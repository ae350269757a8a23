package predict

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/donegate/donegate/internal/domain"
	"github.com/donegate/donegate/internal/domain/alerting"
	"github.com/donegate/donegate/internal/domain/history"
)

// Engine runs the model battery on a timer, combines risk scores into
// confidence-gated alerts, and publishes them onto the feed. A failing model
// is skipped; the remaining models still run.
type Engine struct {
	cfg       domain.PredictConfig
	hist      *history.Store
	feed      *alerting.Feed
	cooldowns *alerting.CooldownTable
	models    []Model

	mu    sync.Mutex
	stats map[string]*ModelStats
}

// ModelStats tracks a model's running score/confidence statistics. Retained
// for reporting; emission is gated only by confidence and cooldowns.
type ModelStats struct {
	Runs          int     `json:"runs"`
	Alerts        int     `json:"alerts"`
	LastScore     float64 `json:"last_score"`
	AvgScore      float64 `json:"avg_score"`
	AvgConfidence float64 `json:"avg_confidence"`
}

// NewEngine creates an engine over the given history and feed with the full
// model battery.
func NewEngine(cfg domain.PredictConfig, hist *history.Store, feed *alerting.Feed) *Engine {
	return &Engine{
		cfg:       cfg,
		hist:      hist,
		feed:      feed,
		cooldowns: alerting.NewCooldownTable(cfg.Cooldown),
		models:    Models(),
		stats:     make(map[string]*ModelStats),
	}
}

// Run evaluates on the configured interval until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(e.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.Evaluate()
		}
	}
}

// Evaluate runs all models once over the current history snapshot and
// returns the alerts that were emitted.
func (e *Engine) Evaluate() []alerting.Alert {
	snapshot := e.hist.Snapshot()
	if e.hist.Len() < e.cfg.MinHistory {
		return nil
	}

	var emitted []alerting.Alert
	for _, model := range e.models {
		pred, ok := e.runModel(model, snapshot)
		if !ok {
			continue
		}
		e.record(pred)

		severity, fire := severityFor(pred.Score, thresholdsFor(model.Name(), e.cfg))
		if !fire || pred.Confidence < e.cfg.MinConfidence {
			continue
		}

		key := alerting.Key{Source: alerting.SourcePredictive, Type: alertTypeFor(model.Name())}
		if !e.cooldowns.Allow(key) {
			continue
		}

		alert := buildAlert(pred, severity)
		e.noteAlert(pred.Model)
		e.feed.Publish(alert)
		emitted = append(emitted, alert)
	}
	return emitted
}

// runModel isolates one model execution; a panic is converted into a skip so
// a single bad model cannot block alerting from the others.
func (e *Engine) runModel(model Model, snapshot []history.Entry) (pred Prediction, ok bool) {
	defer func() {
		if recover() != nil {
			pred, ok = Prediction{}, false
		}
	}()
	return model.Predict(snapshot, e.cfg)
}

// Stats returns a copy of the per-model running statistics.
func (e *Engine) Stats() map[string]ModelStats {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make(map[string]ModelStats, len(e.stats))
	for name, s := range e.stats {
		out[name] = *s
	}
	return out
}

func (e *Engine) record(pred Prediction) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.stats[pred.Model]
	if !ok {
		s = &ModelStats{}
		e.stats[pred.Model] = s
	}
	s.Runs++
	s.LastScore = pred.Score
	n := float64(s.Runs)
	s.AvgScore += (pred.Score - s.AvgScore) / n
	s.AvgConfidence += (pred.Confidence - s.AvgConfidence) / n
}

func (e *Engine) noteAlert(model string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if s, ok := e.stats[model]; ok {
		s.Alerts++
	}
}

// severityFor maps a raw risk score onto the model's thresholds. fire is
// false below the warning threshold.
func severityFor(score float64, t domain.ModelThresholds) (domain.Severity, bool) {
	switch {
	case score >= t.Critical:
		return domain.SeverityError, true
	case score >= t.Alert:
		return domain.SeverityError, true
	case score >= t.Warning:
		return domain.SeverityWarning, true
	default:
		return domain.SeverityInfo, false
	}
}

func thresholdsFor(model string, cfg domain.PredictConfig) domain.ModelThresholds {
	switch model {
	case "moving-average":
		return cfg.MovingAverage
	case "pattern-match":
		return cfg.PatternMatch
	case "anomaly":
		return cfg.Anomaly
	case "resource-trend":
		return cfg.ResourceTrend
	case "quality-regression":
		return cfg.QualityRegression
	default:
		return domain.ModelThresholds{Warning: 40, Alert: 60, Critical: 80}
	}
}

func alertTypeFor(model string) alerting.Type {
	switch model {
	case "moving-average":
		return alerting.TypeFailureRisk
	case "pattern-match":
		return alerting.TypePatternRisk
	case "anomaly":
		return alerting.TypeAnomaly
	case "resource-trend":
		return alerting.TypeResourceTrend
	case "quality-regression":
		return alerting.TypeQualityRegression
	default:
		return alerting.TypeFailureRisk
	}
}

// buildAlert derives alert text, affected systems, and recommended actions
// deterministically from the model name and its top contributing factors.
func buildAlert(pred Prediction, severity domain.Severity) alerting.Alert {
	title := fmt.Sprintf("%s model predicts elevated failure risk", pred.Model)
	message := fmt.Sprintf("risk score %.0f/100 (confidence %.0f%%): %s",
		pred.Score, pred.Confidence, strings.Join(topFactors(pred.Factors), "; "))

	a := alerting.NewAlert(alerting.SourcePredictive, alertTypeFor(pred.Model), severity, title, message)
	a.Confidence = pred.Confidence
	a.AffectedComponents = affectedComponents(pred.Model)
	a.RecommendedActions = recommendedActions(pred.Model)
	return a
}

func topFactors(factors []string) []string {
	if len(factors) > 3 {
		return factors[:3]
	}
	return factors
}

func affectedComponents(model string) []string {
	switch model {
	case "resource-trend":
		return []string{"gate-orchestrator", "process-memory"}
	case "anomaly":
		return []string{"gate-orchestrator"}
	default:
		return []string{"validation-pipeline"}
	}
}

func recommendedActions(model string) []string {
	switch model {
	case "moving-average":
		return []string{
			"Review the most recent failed gates for a common cause",
			"Hold off merging further work until the failure rate recovers",
		}
	case "pattern-match":
		return []string{
			"Compare the current run sequence with the matched historical windows",
			"Re-run validation to confirm the pattern before acting",
		}
	case "anomaly":
		return []string{
			"Inspect the latest run's outlier dimension (score, duration, or memory)",
			"Check for environmental changes since the previous run",
		}
	case "resource-trend":
		return []string{
			"Profile memory usage of the slowest gates",
			"Lower gate concurrency or raise the resource ceiling",
		}
	case "quality-regression":
		return []string{
			"Triage the warning-severity gates dragging the score down",
			"Schedule remediation before the decline becomes a hard failure",
		}
	default:
		return nil
	}
}
