package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/donegate/donegate/internal/domain"
)

// buildArtifacts emits the machine-readable and human-readable copies of the
// report. Artifact generation failures are non-fatal; the report stands on
// its own.
func buildArtifacts(r *domain.ValidationReport) []domain.Artifact {
	var artifacts []domain.Artifact

	if data, err := json.MarshalIndent(reportForArtifact(r), "", "  "); err == nil {
		artifacts = append(artifacts, domain.Artifact{
			Name:        "report.json",
			ContentType: "application/json",
			Data:        data,
		})
	}

	artifacts = append(artifacts, domain.Artifact{
		Name:        "summary.txt",
		ContentType: "text/plain",
		Data:        []byte(textSummary(r)),
	})

	return artifacts
}

// reportForArtifact strips the artifact list itself so the JSON artifact does
// not recursively embed artifacts.
func reportForArtifact(r *domain.ValidationReport) domain.ValidationReport {
	clone := *r
	clone.Artifacts = nil
	return clone
}

func textSummary(r *domain.ValidationReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "donegate validation report %s\n", r.ID)
	fmt.Fprintf(&b, "category: %s  status: %s  score: %d/100\n", r.Category, r.OverallStatus, r.OverallScore)
	if r.TaskID != "" {
		fmt.Fprintf(&b, "task: %s\n", r.TaskID)
	}
	if r.CommitHash != "" {
		fmt.Fprintf(&b, "commit: %s\n", r.CommitHash)
	}
	fmt.Fprintf(&b, "\n%s\n", r.Summary)

	if len(r.Results) > 0 {
		b.WriteString("\ngates:\n")
		for _, res := range r.Results {
			mark := "PASS"
			if !res.Passed {
				mark = strings.ToUpper(string(res.Status))
			}
			fmt.Fprintf(&b, "  [%s] %-20s %-8s %s (%s)\n",
				mark, res.GateName, res.Severity, res.Message, res.Duration.Round(durationPrecision))
		}
	}

	if len(r.Recommendations) > 0 {
		b.WriteString("\nrecommendations:\n")
		for _, rec := range r.Recommendations {
			fmt.Fprintf(&b, "  %s\n", rec)
		}
	}

	return b.String()
}

const durationPrecision = 1e6 // round gate durations to milliseconds
