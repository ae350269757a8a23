package optimize

import (
	"sort"
	"time"

	"github.com/donegate/donegate/internal/domain"
	"github.com/google/uuid"
)

// Priority orders recommendations by urgency.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Difficulty estimates how hard a recommendation is to implement.
type Difficulty string

const (
	DifficultyEasy     Difficulty = "easy"
	DifficultyModerate Difficulty = "moderate"
	DifficultyHard     Difficulty = "hard"
)

// Implementation estimates the cost and risk of applying a recommendation.
type Implementation struct {
	Effort         domain.Effort `json:"effort"`
	Risk           string        `json:"risk"`
	EstimatedHours float64       `json:"estimated_hours"`
}

// Recommendation is one candidate remediation. The same logical fix may recur
// across analyses; IDs are unique per instantiation, not per fix.
type Recommendation struct {
	ID                 string         `json:"id"`
	Category           Category       `json:"category"`
	Title              string         `json:"title"`
	Description        string         `json:"description"`
	Priority           Priority       `json:"priority"`
	Difficulty         Difficulty     `json:"difficulty"`
	Impact             Impact         `json:"impact"`
	Implementation     Implementation `json:"implementation"`
	RelatedBottlenecks []string       `json:"related_bottlenecks,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
}

// template is one catalogue entry, instantiated per matching bottleneck.
type template struct {
	Title          string
	Description    string
	Priority       Priority
	Difficulty     Difficulty
	Impact         Impact
	Implementation Implementation
}

// catalogue lists the candidate remediations per bottleneck category.
var catalogue = map[Category][]template{
	CategoryCPU: {
		{
			Title:          "Cache expensive check results between runs",
			Description:    "Skip gates whose inputs are unchanged since the last passing run.",
			Priority:       PriorityHigh,
			Difficulty:     DifficultyModerate,
			Impact:         Impact{Performance: 55, Resources: 60, Reliability: 10, Scalability: 40},
			Implementation: Implementation{Effort: domain.EffortMedium, Risk: "stale cache may mask regressions", EstimatedHours: 8},
		},
	},
	CategoryMemory: {
		{
			Title:          "Lower gate concurrency",
			Description:    "Fewer simultaneous external checks reduce peak memory at some cost in wall time.",
			Priority:       PriorityHigh,
			Difficulty:     DifficultyEasy,
			Impact:         Impact{Performance: 20, Resources: 70, Reliability: 50, Scalability: 30},
			Implementation: Implementation{Effort: domain.EffortLow, Risk: "longer validation runs", EstimatedHours: 1},
		},
		{
			Title:          "Stream check output instead of buffering it",
			Description:    "Large evidence blobs held in memory per gate add up under concurrency.",
			Priority:       PriorityMedium,
			Difficulty:     DifficultyModerate,
			Impact:         Impact{Performance: 15, Resources: 55, Reliability: 20, Scalability: 35},
			Implementation: Implementation{Effort: domain.EffortMedium, Risk: "partial evidence on crash", EstimatedHours: 6},
		},
	},
	CategoryIO: {
		{
			Title:          "Raise gate concurrency",
			Description:    "I/O-bound checks leave cores idle; more in-flight gates shorten the batch.",
			Priority:       PriorityHigh,
			Difficulty:     DifficultyEasy,
			Impact:         Impact{Performance: 50, Resources: 20, Reliability: 10, Scalability: 45},
			Implementation: Implementation{Effort: domain.EffortLow, Risk: "higher peak resource usage", EstimatedHours: 1},
		},
		{
			Title:          "Scope checks to changed files",
			Description:    "Full-tree scans dominate gate duration on large repositories.",
			Priority:       PriorityMedium,
			Difficulty:     DifficultyHard,
			Impact:         Impact{Performance: 65, Resources: 30, Reliability: 15, Scalability: 55},
			Implementation: Implementation{Effort: domain.EffortHigh, Risk: "missed cross-file regressions", EstimatedHours: 16},
		},
	},
	CategoryNetwork: {
		{
			Title:          "Add retries with backoff to flaky external checks",
			Description:    "Transient tool and network failures inflate the error rate.",
			Priority:       PriorityHigh,
			Difficulty:     DifficultyEasy,
			Impact:         Impact{Performance: 15, Resources: 5, Reliability: 70, Scalability: 20},
			Implementation: Implementation{Effort: domain.EffortLow, Risk: "retries hide real instability", EstimatedHours: 2},
		},
	},
	CategoryAlgorithm: {
		{
			Title:          "Profile and split the slowest gate",
			Description:    "One gate dominating the batch average sets the floor for every validation run.",
			Priority:       PriorityCritical,
			Difficulty:     DifficultyModerate,
			Impact:         Impact{Performance: 70, Resources: 25, Reliability: 10, Scalability: 50},
			Implementation: Implementation{Effort: domain.EffortMedium, Risk: "split checks may drift apart", EstimatedHours: 10},
		},
	},
	CategoryConcurrency: {
		{
			Title:          "Batch validations behind a shared warm process",
			Description:    "Per-run startup cost caps throughput below the configured floor.",
			Priority:       PriorityMedium,
			Difficulty:     DifficultyHard,
			Impact:         Impact{Performance: 45, Resources: 30, Reliability: 15, Scalability: 70},
			Implementation: Implementation{Effort: domain.EffortHigh, Risk: "state leakage between runs", EstimatedHours: 20},
		},
	},
}

var priorityWeight = map[Priority]float64{
	PriorityLow:      1,
	PriorityMedium:   2,
	PriorityHigh:     3,
	PriorityCritical: 4,
}

var difficultyWeight = map[Difficulty]float64{
	DifficultyEasy:     1,
	DifficultyModerate: 2,
	DifficultyHard:     3,
}

// rankScore is the ordering key: urgency-scaled performance impact divided by
// implementation difficulty.
func rankScore(r Recommendation) float64 {
	return priorityWeight[r.Priority] * r.Impact.Performance / difficultyWeight[r.Difficulty]
}

// recommend instantiates the catalogue for the detected bottlenecks, filters
// by minimum performance impact, ranks, and truncates.
func recommend(bottlenecks []Bottleneck, cfg domain.OptimizeConfig) []Recommendation {
	byCategory := make(map[Category][]string)
	for _, b := range bottlenecks {
		byCategory[b.Category] = append(byCategory[b.Category], b.ID)
	}

	var out []Recommendation
	for cat, related := range byCategory {
		for _, t := range catalogue[cat] {
			if t.Impact.Performance < cfg.MinPerformanceImpact {
				continue
			}
			out = append(out, Recommendation{
				ID:                 uuid.NewString(),
				Category:           cat,
				Title:              t.Title,
				Description:        t.Description,
				Priority:           t.Priority,
				Difficulty:         t.Difficulty,
				Impact:             t.Impact,
				Implementation:     t.Implementation,
				RelatedBottlenecks: related,
				CreatedAt:          time.Now(),
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return rankScore(out[i]) > rankScore(out[j])
	})
	if len(out) > cfg.MaxRecommendations {
		out = out[:cfg.MaxRecommendations]
	}
	return out
}
