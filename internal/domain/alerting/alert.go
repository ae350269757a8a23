// Package alerting defines the alert artifact shared by the performance
// monitor and predictive engine, the cooldown table that de-duplicates
// emissions, and the subscriber feed that delivers events outward.
package alerting

import (
	"time"

	"github.com/donegate/donegate/internal/domain"
	"github.com/google/uuid"
)

// Source identifies which engine produced an alert.
type Source string

const (
	SourceMonitor    Source = "monitor"
	SourcePredictive Source = "predictive"
)

// Type names the condition an alert describes.
type Type string

const (
	TypeHighMemory        Type = "high_memory"
	TypeSlowValidation    Type = "slow_validation"
	TypeHighFailureRate   Type = "high_failure_rate"
	TypeLowThroughput     Type = "low_throughput"
	TypeFailureRisk       Type = "failure_risk"
	TypePatternRisk       Type = "pattern_risk"
	TypeAnomaly           Type = "anomaly"
	TypeResourceTrend     Type = "resource_trend"
	TypeQualityRegression Type = "quality_regression"
)

// Alert is an emitted performance or predictive alert. Confidence is the
// producer's self-reported certainty in [0,100], distinct from any risk score
// carried in the message.
type Alert struct {
	ID                 string          `json:"id"`
	Source             Source          `json:"source"`
	Type               Type            `json:"type"`
	Severity           domain.Severity `json:"severity"`
	Title              string          `json:"title"`
	Message            string          `json:"message"`
	Confidence         float64         `json:"confidence"`
	TriggeredAt        time.Time       `json:"triggered_at"`
	AffectedComponents []string        `json:"affected_components,omitempty"`
	RecommendedActions []string        `json:"recommended_actions,omitempty"`
}

// NewAlert constructs an alert with a fresh id and timestamp.
func NewAlert(source Source, typ Type, sev domain.Severity, title, message string) Alert {
	return Alert{
		ID:          uuid.NewString(),
		Source:      source,
		Type:        typ,
		Severity:    sev,
		Title:       title,
		Message:     message,
		TriggeredAt: time.Now(),
	}
}
