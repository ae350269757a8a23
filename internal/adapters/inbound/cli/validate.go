package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	configAdapter "github.com/donegate/donegate/internal/adapters/outbound/config"
	"github.com/donegate/donegate/internal/adapters/outbound/executors"
	"github.com/donegate/donegate/internal/adapters/outbound/gitinfo"
	"github.com/donegate/donegate/internal/adapters/outbound/reportstore"
	"github.com/donegate/donegate/internal/adapters/outbound/runtimemetrics"
	"github.com/donegate/donegate/internal/adapters/outbound/telemetry"
	"github.com/donegate/donegate/internal/adapters/outbound/tui"
	"github.com/donegate/donegate/internal/application"
	"github.com/donegate/donegate/internal/domain"
	"github.com/donegate/donegate/internal/domain/history"
)

// validateUse pairs a verb with the category it validates.
type validateUse struct {
	use      string
	short    string
	category domain.Category
}

var (
	validateTaskUse = validateUse{
		use:      "validate-task [task-id]",
		short:    "Run task-level quality gates",
		category: domain.CategoryTask,
	}
	validateFeatureUse = validateUse{
		use:      "validate-feature [feature-id]",
		short:    "Run feature-level quality gates",
		category: domain.CategoryFeature,
	}
	validateProjectUse = validateUse{
		use:      "validate-project",
		short:    "Run the full project quality gate battery",
		category: domain.CategoryProject,
	}
	validateCommitUse = validateUse{
		use:      "validate-commit",
		short:    "Run the fast pre-commit gate set",
		category: domain.CategoryCommit,
	}
)

func newValidateCmd(v validateUse) *cobra.Command {
	var (
		jsonOutput     bool
		strict         bool
		path           string
		timeout        time.Duration
		maxConcurrency int
	)

	cmd := &cobra.Command{
		Use:   v.use,
		Short: v.short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID := ""
			if len(args) > 0 {
				taskID = args[0]
			}
			return runValidate(cmd, v.category, taskID, path, jsonOutput, strict, timeout, maxConcurrency)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the report as JSON")
	cmd.Flags().BoolVar(&strict, "strict", false, "Treat warning failures as failure")
	cmd.Flags().StringVar(&path, "path", ".", "Project path to validate")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Override the default per-gate timeout")
	cmd.Flags().IntVar(&maxConcurrency, "max-concurrency", 0, "Override the concurrent gate limit")

	return cmd
}

func runValidate(
	cmd *cobra.Command,
	category domain.Category,
	taskID, path string,
	jsonOutput, strict bool,
	timeout time.Duration,
	maxConcurrency int,
) error {
	cfg, err := configAdapter.New().Load(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if timeout > 0 {
		cfg.DefaultGateTimeout = timeout
	}
	if maxConcurrency > 0 {
		cfg.MaxConcurrentGates = maxConcurrency
	}

	git := gitinfo.New()
	hist := history.New(cfg.History)
	svc := application.NewValidateService(
		cfg,
		executors.DefaultRegistry(git),
		git,
		executors.NewFileContextFetcher(),
		runtimemetrics.New(),
		hist,
	)

	if err := telemetry.Init(cmd.Context(), "donegate", version); err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}
	defer telemetry.Shutdown(cmd.Context())
	metrics := telemetry.NewMetrics()

	report := svc.Validate(cmd.Context(), application.ValidateRequest{
		Category:    category,
		SessionID:   uuid.NewString(),
		TaskID:      taskID,
		ProjectRoot: path,
	})
	metrics.RecordReport(cmd.Context(), report)

	// Snapshot failures are non-fatal; the report already exists.
	if err := reportstore.New().AppendReport(path, report, cfg.History.MaxEntries); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: could not persist history: %v\n", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		fmt.Fprint(cmd.OutOrStdout(), tui.RenderReport(report))
	}

	// Exit 0 on pass (including pass-with-warnings), 1 on failure.
	if !report.Passed() {
		return fmt.Errorf("validation failed with score %d", report.OverallScore)
	}
	if strict && report.OverallStatus == domain.StatusPassedWithWarnings {
		return fmt.Errorf("validation passed with warnings (strict mode)")
	}
	return nil
}
