package domain

import (
	"fmt"
	"strings"
	"time"
)

// Severity classifies how much weight a gate carries in the overall verdict.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// ValidSeverities enumerates all recognized severities.
var ValidSeverities = []Severity{SeverityError, SeverityWarning, SeverityInfo}

// ParseSeverity parses a string into a Severity, case-insensitive.
func ParseSeverity(s string) (Severity, error) {
	lower := strings.ToLower(s)
	for _, sev := range ValidSeverities {
		if string(sev) == lower {
			return sev, nil
		}
	}
	return "", fmt.Errorf("unknown severity %q (valid: error, warning, info)", s)
}

// Category identifies the kind of work item being validated.
type Category string

const (
	CategoryTask    Category = "task"
	CategoryFeature Category = "feature"
	CategoryProject Category = "project"
	CategoryCommit  Category = "commit"
)

// ValidCategories enumerates all recognized work-item categories.
var ValidCategories = []Category{
	CategoryTask, CategoryFeature, CategoryProject, CategoryCommit,
}

// ParseCategory parses a string into a Category, case-insensitive.
func ParseCategory(s string) (Category, error) {
	lower := strings.ToLower(s)
	for _, c := range ValidCategories {
		if string(c) == lower {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q (valid: task, feature, project, commit)", s)
}

// GateKind groups gates by the kind of external check they run. Remediation
// checklists and effort estimates are static per kind.
type GateKind string

const (
	GateKindVCS       GateKind = "vcs"
	GateKindIntegrity GateKind = "integrity"
	GateKindBuild     GateKind = "build"
	GateKindTest      GateKind = "test"
	GateKindLint      GateKind = "lint"
	GateKindSecurity  GateKind = "security"
	GateKindDocs      GateKind = "docs"
)

// GateStatus is the terminal state of one gate execution.
type GateStatus string

const (
	GateStatusPassed  GateStatus = "passed"
	GateStatusFailed  GateStatus = "failed"
	GateStatusTimeout GateStatus = "timeout"
	GateStatusCrashed GateStatus = "crashed"
)

// OverallStatus is the verdict of a whole validation run.
type OverallStatus string

const (
	StatusPassed             OverallStatus = "passed"
	StatusPassedWithWarnings OverallStatus = "passed_with_warnings"
	StatusFailed             OverallStatus = "failed"
)

// Effort is a static per-gate-kind estimate of how hard a failure is to fix.
type Effort string

const (
	EffortLow    Effort = "low"
	EffortMedium Effort = "medium"
	EffortHigh   Effort = "high"
)

// Trend classifies a metric's recent slope relative to its prior window.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDegrading Trend = "degrading"
)

// GateDefinition is the static configuration for one check kind.
type GateDefinition struct {
	Name     string        `json:"name"`
	Kind     GateKind      `json:"kind"`
	Severity Severity      `json:"severity"`
	Timeout  time.Duration `json:"timeout"`
	Retries  int           `json:"retries"`
}

// Evidence is a named blob of diagnostic text tied to a gate and a report.
type Evidence struct {
	Name    string `json:"name"`
	Gate    string `json:"gate"`
	Content string `json:"content"`
}

// GateResult is the immutable outcome of one executed gate.
type GateResult struct {
	GateName  string            `json:"gate_name"`
	Kind      GateKind          `json:"kind"`
	Passed    bool              `json:"passed"`
	Status    GateStatus        `json:"status"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
	Evidence  []Evidence        `json:"evidence,omitempty"`
	Duration  time.Duration     `json:"duration"`
	Severity  Severity          `json:"severity"`
	Timestamp time.Time         `json:"timestamp"`
}

// ReportMetrics aggregates gate timings and outcomes for one report.
type ReportMetrics struct {
	TotalDuration    time.Duration    `json:"total_duration"`
	AverageDuration  time.Duration    `json:"average_duration"`
	MedianDuration   time.Duration    `json:"median_duration"`
	P95Duration      time.Duration    `json:"p95_duration"`
	Passed           int              `json:"passed"`
	Failed           int              `json:"failed"`
	FailedBySeverity map[Severity]int `json:"failed_by_severity,omitempty"`
	FailureRate      float64          `json:"failure_rate"`
	MemoryMB         float64          `json:"memory_mb,omitempty"`
}

// Artifact is a named byte blob emitted alongside a report.
type Artifact struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

// ValidationReport is the single artifact produced by one orchestration run.
// It is never mutated after creation.
type ValidationReport struct {
	ID              string         `json:"id"`
	SessionID       string         `json:"session_id"`
	TaskID          string         `json:"task_id,omitempty"`
	Category        Category       `json:"category"`
	Timestamp       time.Time      `json:"timestamp"`
	CommitHash      string         `json:"commit_hash,omitempty"`
	Results         []GateResult   `json:"results"`
	OverallStatus   OverallStatus  `json:"overall_status"`
	OverallScore    int            `json:"overall_score"`
	Summary         string         `json:"summary"`
	Recommendations []string       `json:"recommendations,omitempty"`
	Metrics         ReportMetrics  `json:"metrics"`
	Artifacts       []Artifact     `json:"artifacts,omitempty"`
	Duration        time.Duration  `json:"duration"`
}

// Passed reports whether the run is acceptable for CI purposes.
// Pass-with-warnings counts as passed.
func (r *ValidationReport) Passed() bool {
	return r.OverallStatus != StatusFailed
}

// OverallStatusOf derives the verdict from a result set. FAILED iff at least
// one error-severity gate failed, else PASSED_WITH_WARNINGS iff at least one
// warning-severity gate failed, else PASSED.
func OverallStatusOf(results []GateResult) OverallStatus {
	status := StatusPassed
	for _, res := range results {
		if res.Passed {
			continue
		}
		switch res.Severity {
		case SeverityError:
			return StatusFailed
		case SeverityWarning:
			status = StatusPassedWithWarnings
		case SeverityInfo:
			// informational failures never change the verdict
		}
	}
	return status
}

const (
	penaltyErrorFailure   = 25
	penaltyWarningFailure = 10
	penaltyInfoFailure    = 3
)

// ScoreOf computes the 0-100 quality score for a result set by deducting a
// per-severity penalty for each failed gate.
func ScoreOf(results []GateResult) int {
	score := 100
	for _, res := range results {
		if res.Passed {
			continue
		}
		switch res.Severity {
		case SeverityError:
			score -= penaltyErrorFailure
		case SeverityWarning:
			score -= penaltyWarningFailure
		case SeverityInfo:
			score -= penaltyInfoFailure
		}
	}
	if score < 0 {
		score = 0
	}
	return score
}

// MetricType identifies the dimension a MetricSample measures.
type MetricType string

const (
	MetricDuration    MetricType = "duration"
	MetricThroughput  MetricType = "throughput"
	MetricMemory      MetricType = "memory"
	MetricCPU         MetricType = "cpu"
	MetricSuccessRate MetricType = "success_rate"
)

// MetricSample is one unit of resource or behavioral telemetry.
type MetricSample struct {
	Timestamp time.Time  `json:"timestamp"`
	Type      MetricType `json:"type"`
	Value     float64    `json:"value"`
	Unit      string     `json:"unit"`
	Context   string     `json:"context,omitempty"`
}
