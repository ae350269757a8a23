// Package report assembles gate results into the immutable ValidationReport:
// aggregate metrics, summary, per-failure recommendations, and artifacts.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fatih/camelcase"
	"github.com/google/uuid"

	"github.com/donegate/donegate/internal/domain"
	"github.com/donegate/donegate/internal/domain/catalog"
	"github.com/donegate/donegate/internal/domain/stats"
)

// Input carries everything the builder needs for one report.
type Input struct {
	SessionID  string
	TaskID     string
	Category   domain.Category
	Results    []domain.GateResult
	CommitHash string
	MemoryMB   float64
	Duration   time.Duration
}

// Build assembles the report. The result set is taken as-is; overall status
// and score are pure functions of it.
func Build(in Input) *domain.ValidationReport {
	r := &domain.ValidationReport{
		ID:              uuid.NewString(),
		SessionID:       in.SessionID,
		TaskID:          in.TaskID,
		Category:        in.Category,
		Timestamp:       time.Now(),
		CommitHash:      in.CommitHash,
		Results:         in.Results,
		OverallStatus:   domain.OverallStatusOf(in.Results),
		OverallScore:    domain.ScoreOf(in.Results),
		Duration:        in.Duration,
		Metrics:         computeMetrics(in.Results, in.MemoryMB),
		Recommendations: recommendations(in.Results),
	}
	r.Summary = summarize(r)
	r.Artifacts = buildArtifacts(r)
	return r
}

// BuildDegraded produces the report for a run the orchestrator itself could
// not start: zero gates, FAILED, and a single system-error recommendation.
func BuildDegraded(sessionID, taskID string, category domain.Category, cause error) *domain.ValidationReport {
	r := &domain.ValidationReport{
		ID:            uuid.NewString(),
		SessionID:     sessionID,
		TaskID:        taskID,
		Category:      category,
		Timestamp:     time.Now(),
		OverallStatus: domain.StatusFailed,
		OverallScore:  0,
		Summary:       fmt.Sprintf("validation could not run: %v", cause),
		Recommendations: []string{
			fmt.Sprintf("System error: %v. Fix the environment and re-run validation.", cause),
		},
	}
	r.Artifacts = buildArtifacts(r)
	return r
}

func computeMetrics(results []domain.GateResult, memoryMB float64) domain.ReportMetrics {
	m := domain.ReportMetrics{
		FailedBySeverity: make(map[domain.Severity]int),
		MemoryMB:         memoryMB,
	}

	durations := make([]float64, 0, len(results))
	for _, res := range results {
		m.TotalDuration += res.Duration
		durations = append(durations, float64(res.Duration))
		if res.Passed {
			m.Passed++
		} else {
			m.Failed++
			m.FailedBySeverity[res.Severity]++
		}
	}

	if len(results) > 0 {
		m.AverageDuration = m.TotalDuration / time.Duration(len(results))
		m.MedianDuration = time.Duration(stats.Median(durations))
		m.P95Duration = time.Duration(stats.Percentile(durations, 95))
		m.FailureRate = float64(m.Failed) / float64(len(results))
	}
	return m
}

// recommendations generates one remediation block per failed gate: the static
// checklist for its kind plus the effort estimate.
func recommendations(results []domain.GateResult) []string {
	var out []string
	for _, res := range results {
		if res.Passed {
			continue
		}
		steps := catalog.RemediationFor(res.Kind)
		effort := catalog.EffortFor(res.Kind)
		header := fmt.Sprintf("%s (%s severity, %s effort): %s",
			HumanizeGateName(res.GateName), res.Severity, effort, res.Message)
		out = append(out, header)
		for _, step := range steps {
			out = append(out, "  - "+step)
		}
	}
	return out
}

func summarize(r *domain.ValidationReport) string {
	switch r.OverallStatus {
	case domain.StatusPassed:
		return fmt.Sprintf("%d/%d gates passed (score %d)",
			r.Metrics.Passed, len(r.Results), r.OverallScore)
	case domain.StatusPassedWithWarnings:
		return fmt.Sprintf("%d/%d gates passed with %d warning failure(s) (score %d)",
			r.Metrics.Passed, len(r.Results), r.Metrics.FailedBySeverity[domain.SeverityWarning], r.OverallScore)
	default:
		failed := failedGateNames(r.Results)
		return fmt.Sprintf("validation failed: %s (score %d)",
			strings.Join(failed, ", "), r.OverallScore)
	}
}

func failedGateNames(results []domain.GateResult) []string {
	var names []string
	for _, res := range results {
		if !res.Passed && res.Severity == domain.SeverityError {
			names = append(names, res.GateName)
		}
	}
	sort.Strings(names)
	if len(names) == 0 {
		return []string{"system error"}
	}
	return names
}

// HumanizeGateName turns a gate identifier into a display title, e.g.
// "unit-tests" -> "Unit Tests" and "fileIntegrity" -> "File Integrity".
func HumanizeGateName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	var words []string
	for _, p := range parts {
		words = append(words, camelcase.Split(p)...)
	}
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
