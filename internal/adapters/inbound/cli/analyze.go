package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	configAdapter "github.com/donegate/donegate/internal/adapters/outbound/config"
	"github.com/donegate/donegate/internal/adapters/outbound/reportstore"
	"github.com/donegate/donegate/internal/application"
	"github.com/donegate/donegate/internal/domain/history"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		jsonOutput bool
		path       string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze accumulated validation history",
		Long:  "Run bottleneck detection, recommendation ranking, and the predictive model battery over the project's accumulated validation history.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configAdapter.New().Load(path)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			hist := history.New(cfg.History)
			if err := reportstore.New().Seed(path, hist); err != nil {
				return fmt.Errorf("loading history: %w", err)
			}

			analysis := application.NewAnalyzeService(cfg, hist).Analyze()

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(analysis)
			}
			renderAnalysis(cmd, analysis)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the analysis as JSON")
	cmd.Flags().StringVar(&path, "path", ".", "Project path to analyze")

	return cmd
}

func renderAnalysis(cmd *cobra.Command, a application.Analysis) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Analysis over %d history entries\n\n", a.HistorySize)
	fmt.Fprintf(out, "  failure rate: %.0f%%  avg duration: %s  throughput: %.1f/hour\n\n",
		a.Aggregates.FailureRate*100, a.Aggregates.AvgDuration.Round(time.Second), a.Aggregates.ThroughputPerHour)

	if len(a.Bottlenecks) == 0 {
		fmt.Fprintln(out, "  no bottlenecks detected")
	}
	for _, b := range a.Bottlenecks {
		fmt.Fprintf(out, "  [%s] %s (%s)\n", b.Severity, b.Description, b.Category)
	}

	if len(a.Recommendations) > 0 {
		fmt.Fprintln(out)
		for i, r := range a.Recommendations {
			fmt.Fprintf(out, "  %d. %s (%s priority, %s, ~%.0fh)\n",
				i+1, r.Title, r.Priority, r.Difficulty, r.Implementation.EstimatedHours)
		}
	}

	for _, p := range a.Predictions {
		fmt.Fprintf(out, "\n  %s: risk %.0f/100 (confidence %.0f%%, %s)\n",
			p.Model, p.Score, p.Confidence, p.Trend)
		for _, f := range p.Factors {
			fmt.Fprintf(out, "    - %s\n", f)
		}
	}
}
