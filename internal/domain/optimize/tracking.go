package optimize

import "time"

// Tracking records the actual outcome of an implemented recommendation:
// realized improvement from before/after measurements and an effort-weighted
// return on the estimated hours spent.
type Tracking struct {
	RecommendationID string    `json:"recommendation_id"`
	Title            string    `json:"title"`
	ImplementedAt    time.Time `json:"implemented_at"`
	Before           float64   `json:"before"`
	After            float64   `json:"after"`
	ImprovementPct   float64   `json:"improvement_pct"`
	ROI              float64   `json:"roi"`
}

// NewTracking computes the realized improvement and ROI for an implemented
// recommendation. Before and after are the same metric the recommendation
// targeted (lower is better); a zero baseline yields zero improvement.
func NewTracking(rec Recommendation, before, after float64) Tracking {
	t := Tracking{
		RecommendationID: rec.ID,
		Title:            rec.Title,
		ImplementedAt:    time.Now(),
		Before:           before,
		After:            after,
	}
	if before > 0 {
		t.ImprovementPct = (before - after) / before * 100
	}
	hours := rec.Implementation.EstimatedHours
	if hours > 0 {
		t.ROI = t.ImprovementPct / (hours * difficultyWeight[rec.Difficulty])
	}
	return t
}
