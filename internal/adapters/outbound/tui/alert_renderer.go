package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/donegate/donegate/internal/domain"
	"github.com/donegate/donegate/internal/domain/alerting"
)

var severityColors = map[domain.Severity]lipgloss.Color{
	domain.SeverityError:   danger,
	domain.SeverityWarning: warning,
	domain.SeverityInfo:    info,
}

// RenderAlert renders one alert as a styled TUI string, suitable for
// streaming from the monitor loop.
func RenderAlert(a alerting.Alert) string {
	var b strings.Builder

	sevStyle := lipgloss.NewStyle().Bold(true).Foreground(severityColors[a.Severity])

	b.WriteString(fmt.Sprintf("  %s %s %s\n",
		sevStyle.Render(strings.ToUpper(string(a.Severity))),
		titleStyle.Render(a.Title),
		dimStyle.Render(fmt.Sprintf("[%s/%s]", a.Source, a.Type)),
	))
	b.WriteString("    " + a.Message + "\n")
	b.WriteString("    " + dimStyle.Render(fmt.Sprintf(
		"confidence %.0f%%  at %s", a.Confidence, a.TriggeredAt.Format("15:04:05"))) + "\n")

	if len(a.RecommendedActions) > 0 {
		for _, action := range a.RecommendedActions {
			b.WriteString("      " + hintStyle.Render("→ "+action) + "\n")
		}
	}
	return b.String()
}
