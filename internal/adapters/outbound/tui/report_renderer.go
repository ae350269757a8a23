package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/donegate/donegate/internal/domain"
)

var statusColors = map[domain.OverallStatus]lipgloss.Color{
	domain.StatusPassed:             success,
	domain.StatusPassedWithWarnings: warning,
	domain.StatusFailed:             danger,
}

var statusLabels = map[domain.OverallStatus]string{
	domain.StatusPassed:             "PASSED",
	domain.StatusPassedWithWarnings: "PASSED WITH WARNINGS",
	domain.StatusFailed:             "FAILED",
}

// RenderReport renders a ValidationReport as a styled TUI string.
func RenderReport(report *domain.ValidationReport) string {
	var b strings.Builder

	// Header
	statusStyled := lipgloss.NewStyle().
		Bold(true).
		Foreground(statusColors[report.OverallStatus]).
		Render(fmt.Sprintf("%s  %d/100", statusLabels[report.OverallStatus], report.OverallScore))

	titleLine := titleStyle.Render(string(report.Category)+" validation") + "  " + statusStyled
	summaryLine := dimStyle.Render(report.Summary)

	b.WriteString(boxStyle.Render(titleLine + "\n" + summaryLine))
	b.WriteString("\n")

	renderGates(&b, report.Results)
	renderRecommendations(&b, report.Recommendations)

	// Footer
	b.WriteString("\n")
	b.WriteString("  " + hintStyle.Render(fmt.Sprintf(
		"%d gates in %s", len(report.Results), report.Duration.Round(time.Millisecond))))
	b.WriteString("\n")

	return b.String()
}

func renderGates(b *strings.Builder, results []domain.GateResult) {
	if len(results) == 0 {
		return
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s %s\n",
		sectionHeaderStyle.Render("Gates"),
		dimStyle.Render(fmt.Sprintf("(%d)", len(results))),
	))

	for _, r := range results {
		b.WriteString("    " + gateLine(r) + "\n")
	}
}

func gateLine(r domain.GateResult) string {
	var marker string
	switch {
	case r.Passed:
		marker = passStyle.Render("●")
	case r.Severity == domain.SeverityError:
		marker = failStyle.Render("●")
	case r.Severity == domain.SeverityWarning:
		marker = warnStyle.Render("●")
	default:
		marker = infoStyle.Render("●")
	}

	line := fmt.Sprintf("%s %s", marker, r.GateName)
	if !r.Passed {
		line += "  " + dimStyle.Render(r.Message)
	}
	line += "  " + faintStyle.Render(r.Duration.Round(time.Millisecond).String())
	return line
}

func renderRecommendations(b *strings.Builder, recs []string) {
	if len(recs) == 0 {
		return
	}

	b.WriteString("\n")
	b.WriteString("  " + sectionHeaderStyle.Render("Recommendations") + "\n")
	b.WriteString("  " + separatorLine + "\n")
	for _, rec := range recs {
		if strings.HasPrefix(rec, "  - ") {
			b.WriteString("      " + dimStyle.Render(strings.TrimPrefix(rec, "  - ")) + "\n")
		} else {
			b.WriteString("    " + warnStyle.Render("▸") + " " + rec + "\n")
		}
	}
}
