// Package telemetry provides OpenTelemetry metrics export.
//
// Telemetry is disabled by default (zero runtime overhead when off).
//
// # Configuration
//
//	DONEGATE_OTEL_ENABLED=true   enable telemetry (default: off)
//	DONEGATE_OTEL_STDOUT=true    write metrics to stdout (dev mode)
package telemetry

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/donegate/donegate/internal/domain"
	"github.com/donegate/donegate/internal/domain/alerting"
)

const instrumentationScope = "github.com/donegate/donegate"

var shutdownFns []func(context.Context) error

// Enabled reports whether telemetry is active (DONEGATE_OTEL_ENABLED=true).
func Enabled() bool {
	return os.Getenv("DONEGATE_OTEL_ENABLED") == "true"
}

// Init configures the OTel meter provider. When DONEGATE_OTEL_ENABLED is not
// "true" this installs a no-op provider and returns immediately.
func Init(ctx context.Context, serviceName, version string) error {
	if !Enabled() {
		otel.SetMeterProvider(metricnoop.NewMeterProvider())
		return nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(version),
		),
		resource.WithProcess(),
	)
	if err != nil {
		return fmt.Errorf("telemetry: resource: %w", err)
	}

	opts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	if os.Getenv("DONEGATE_OTEL_STDOUT") == "true" {
		exp, err := stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("telemetry: stdout exporter: %w", err)
		}
		opts = append(opts, sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(15*time.Second)),
		))
	}

	mp := sdkmetric.NewMeterProvider(opts...)
	otel.SetMeterProvider(mp)
	shutdownFns = append(shutdownFns, mp.Shutdown)
	return nil
}

// Shutdown flushes and stops all installed providers.
func Shutdown(ctx context.Context) error {
	var firstErr error
	for _, fn := range shutdownFns {
		if err := fn(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	shutdownFns = nil
	return firstErr
}

// Metrics counts validations, gate failures, and emitted alerts. Instruments
// come from the globally installed meter provider, so all methods are safe
// no-ops when telemetry is disabled.
type Metrics struct {
	validations  metric.Int64Counter
	gateFailures metric.Int64Counter
	alerts       metric.Int64Counter
	duration     metric.Float64Histogram
}

// NewMetrics creates the engine's instrument set.
func NewMetrics() *Metrics {
	m := otel.GetMeterProvider().Meter(instrumentationScope)

	validations, _ := m.Int64Counter("donegate.validations",
		metric.WithDescription("Total validation runs by overall status"),
	)
	gateFailures, _ := m.Int64Counter("donegate.gate.failures",
		metric.WithDescription("Total failed gate executions by gate name"),
	)
	alerts, _ := m.Int64Counter("donegate.alerts",
		metric.WithDescription("Total emitted alerts by source and type"),
	)
	duration, _ := m.Float64Histogram("donegate.validation.duration",
		metric.WithDescription("Validation run duration in seconds"),
		metric.WithUnit("s"),
	)

	return &Metrics{
		validations:  validations,
		gateFailures: gateFailures,
		alerts:       alerts,
		duration:     duration,
	}
}

// RecordReport counts one validation run and its failed gates.
func (m *Metrics) RecordReport(ctx context.Context, report *domain.ValidationReport) {
	m.validations.Add(ctx, 1, metric.WithAttributes(
		statusAttr(string(report.OverallStatus)),
		categoryAttr(string(report.Category)),
	))
	m.duration.Record(ctx, report.Duration.Seconds())
	for _, r := range report.Results {
		if !r.Passed {
			m.gateFailures.Add(ctx, 1, metric.WithAttributes(gateAttr(r.GateName)))
		}
	}
}

// OnAlert implements alerting.Subscriber so the metrics sink can be attached
// straight to the feed.
func (m *Metrics) OnAlert(a alerting.Alert) {
	m.alerts.Add(context.Background(), 1, metric.WithAttributes(
		sourceAttr(string(a.Source)),
		typeAttr(string(a.Type)),
	))
}

func statusAttr(v string) attribute.KeyValue   { return attribute.String("donegate.status", v) }
func categoryAttr(v string) attribute.KeyValue { return attribute.String("donegate.category", v) }
func gateAttr(v string) attribute.KeyValue     { return attribute.String("donegate.gate", v) }
func sourceAttr(v string) attribute.KeyValue   { return attribute.String("donegate.alert.source", v) }
func typeAttr(v string) attribute.KeyValue     { return attribute.String("donegate.alert.type", v) }
