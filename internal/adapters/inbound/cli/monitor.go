package cli

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"

	configAdapter "github.com/donegate/donegate/internal/adapters/outbound/config"
	"github.com/donegate/donegate/internal/adapters/outbound/reportstore"
	"github.com/donegate/donegate/internal/adapters/outbound/runtimemetrics"
	"github.com/donegate/donegate/internal/adapters/outbound/telemetry"
	"github.com/donegate/donegate/internal/adapters/outbound/tui"
	"github.com/donegate/donegate/internal/domain/alerting"
	"github.com/donegate/donegate/internal/domain/history"
	"github.com/donegate/donegate/internal/domain/monitor"
	"github.com/donegate/donegate/internal/domain/predict"
)

func newMonitorCmd() *cobra.Command {
	var (
		path     string
		duration time.Duration
	)

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Watch resource usage and predicted failure risk",
		Long:  "Sample process resource usage on an interval, run the predictive model battery over accumulated history, and print alerts as they fire. Runs until interrupted or until --duration elapses.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configAdapter.New().Load(path)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			hist := history.New(cfg.History)
			if err := reportstore.New().Seed(path, hist); err != nil {
				return fmt.Errorf("loading history: %w", err)
			}

			if err := telemetry.Init(cmd.Context(), "donegate", version); err != nil {
				return fmt.Errorf("initializing telemetry: %w", err)
			}
			defer telemetry.Shutdown(cmd.Context())

			feed := alerting.NewFeed()
			feed.Subscribe(telemetry.NewMetrics())

			var printMu sync.Mutex
			feed.Subscribe(alerting.SubscriberFunc(func(a alerting.Alert) {
				printMu.Lock()
				defer printMu.Unlock()
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderAlert(a))
			}))

			ctx := cmd.Context()
			if duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, duration)
				defer cancel()
			}

			mon := monitor.New(cfg.Monitor, runtimemetrics.New(), hist, feed)
			eng := predict.NewEngine(cfg.Predict, hist, feed)

			fmt.Fprintf(cmd.OutOrStdout(), "monitoring every %s (history: %d entries)\n",
				cfg.Monitor.Interval, hist.Len())

			var wg sync.WaitGroup
			wg.Add(2)
			go func() {
				defer wg.Done()
				mon.Run(ctx)
			}()
			go func() {
				defer wg.Done()
				eng.Run(ctx)
			}()
			wg.Wait()
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", ".", "Project path to monitor")
	cmd.Flags().DurationVar(&duration, "duration", 0, "Stop after this long (0 runs until interrupted)")

	return cmd
}
