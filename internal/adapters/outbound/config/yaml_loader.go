// Package config loads engine configuration from .donegate.yaml. The file
// schema mirrors domain.Config but accepts Go duration strings ("90s", "5m");
// absent keys keep their defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/donegate/donegate/internal/domain"
	"gopkg.in/yaml.v3"
)

const fileName = ".donegate.yaml"

// YAMLLoader implements domain.ConfigLoader by reading .donegate.yaml.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads .donegate.yaml from projectPath. Returns DefaultConfig if the
// file does not exist; explicit values overlay the defaults.
func (l *YAMLLoader) Load(projectPath string) (domain.Config, error) {
	data, err := os.ReadFile(filepath.Join(projectPath, fileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.DefaultConfig(), nil
		}
		return domain.Config{}, err
	}

	var file fileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return domain.Config{}, fmt.Errorf("parsing %s: %w", fileName, err)
	}

	cfg := domain.DefaultConfig()
	file.apply(&cfg)

	// Validate before use; catches typos in the user's raw input.
	if err := cfg.Validate(); err != nil {
		return domain.Config{}, fmt.Errorf("invalid %s: %w", fileName, err)
	}

	return cfg, nil
}

// duration accepts either a Go duration string or raw nanoseconds.
type duration time.Duration

func (d *duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err == nil {
		v, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = duration(v)
		return nil
	}
	var n int64
	if err := node.Decode(&n); err == nil {
		*d = duration(n)
		return nil
	}
	return fmt.Errorf("invalid duration value at line %d", node.Line)
}

type fileConfig struct {
	MaxConcurrentGates *int                `yaml:"max_concurrent_gates"`
	DefaultGateTimeout *duration           `yaml:"default_gate_timeout"`
	Gates              map[string]fileGate `yaml:"gates"`
	History            *fileHistory        `yaml:"history"`
	Monitor            *fileMonitor        `yaml:"monitor"`
	Predict            *filePredict        `yaml:"predict"`
	Optimize           *fileOptimize       `yaml:"optimize"`
}

type fileGate struct {
	Timeout  *duration `yaml:"timeout"`
	Retries  *int      `yaml:"retries"`
	Severity *string   `yaml:"severity"`
}

type fileHistory struct {
	MaxEntries     *int      `yaml:"max_entries"`
	MaxAge         *duration `yaml:"max_age"`
	CompressAt     *int      `yaml:"compress_at"`
	CompressStride *int      `yaml:"compress_stride"`
}

type fileMonitor struct {
	Interval             *duration `yaml:"interval"`
	Cooldown             *duration `yaml:"cooldown"`
	MinConfidence        *float64  `yaml:"min_confidence"`
	MemoryPctThreshold   *float64  `yaml:"memory_pct_threshold"`
	AvgDurationThreshold *duration `yaml:"avg_duration_threshold"`
	FailureRateThreshold *float64  `yaml:"failure_rate_threshold"`
	MinThroughputPerHour *float64  `yaml:"min_throughput_per_hour"`
	TrendBandPct         *float64  `yaml:"trend_band_pct"`
	WindowSize           *int      `yaml:"window_size"`
}

type fileThresholds struct {
	Warning  *float64 `yaml:"warning"`
	Alert    *float64 `yaml:"alert"`
	Critical *float64 `yaml:"critical"`
}

type filePredict struct {
	Interval           *duration       `yaml:"interval"`
	MinHistory         *int            `yaml:"min_history"`
	MinConfidence      *float64        `yaml:"min_confidence"`
	Cooldown           *duration       `yaml:"cooldown"`
	Window             *int            `yaml:"window"`
	Horizon            *duration       `yaml:"horizon"`
	SimilarityFloor    *float64        `yaml:"similarity_floor"`
	AnomalyStdDevs     *float64        `yaml:"anomaly_std_devs"`
	ExhaustionMemoryMB *float64        `yaml:"exhaustion_memory_mb"`
	QualityFloor       *float64        `yaml:"quality_floor"`
	MovingAverage      *fileThresholds `yaml:"moving_average"`
	PatternMatch       *fileThresholds `yaml:"pattern_match"`
	Anomaly            *fileThresholds `yaml:"anomaly"`
	ResourceTrend      *fileThresholds `yaml:"resource_trend"`
	QualityRegression  *fileThresholds `yaml:"quality_regression"`
}

type fileOptimize struct {
	CPUPctThreshold       *float64  `yaml:"cpu_pct_threshold"`
	MemoryPctThreshold    *float64  `yaml:"memory_pct_threshold"`
	ResponseTimeThreshold *duration `yaml:"response_time_threshold"`
	ErrorRateThreshold    *float64  `yaml:"error_rate_threshold"`
	MinThroughputPerHour  *float64  `yaml:"min_throughput_per_hour"`
	MinPerformanceImpact  *float64  `yaml:"min_performance_impact"`
	MaxRecommendations    *int      `yaml:"max_recommendations"`
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

func setDuration(dst *time.Duration, src *duration) {
	if src != nil {
		*dst = time.Duration(*src)
	}
}

func (f fileConfig) apply(cfg *domain.Config) {
	setInt(&cfg.MaxConcurrentGates, f.MaxConcurrentGates)
	setDuration(&cfg.DefaultGateTimeout, f.DefaultGateTimeout)

	if len(f.Gates) > 0 {
		cfg.Gates = make(map[string]domain.GateOverride, len(f.Gates))
		for name, g := range f.Gates {
			var o domain.GateOverride
			setDuration(&o.Timeout, g.Timeout)
			o.Retries = g.Retries
			if g.Severity != nil {
				// Canonicalize case here; Validate rejects unknown names.
				if sev, err := domain.ParseSeverity(*g.Severity); err == nil {
					o.Severity = sev
				} else {
					o.Severity = domain.Severity(*g.Severity)
				}
			}
			cfg.Gates[name] = o
		}
	}

	if h := f.History; h != nil {
		setInt(&cfg.History.MaxEntries, h.MaxEntries)
		setDuration(&cfg.History.MaxAge, h.MaxAge)
		setInt(&cfg.History.CompressAt, h.CompressAt)
		setInt(&cfg.History.CompressStride, h.CompressStride)
	}

	if m := f.Monitor; m != nil {
		setDuration(&cfg.Monitor.Interval, m.Interval)
		setDuration(&cfg.Monitor.Cooldown, m.Cooldown)
		setFloat(&cfg.Monitor.MinConfidence, m.MinConfidence)
		setFloat(&cfg.Monitor.MemoryPctThreshold, m.MemoryPctThreshold)
		setDuration(&cfg.Monitor.AvgDurationThreshold, m.AvgDurationThreshold)
		setFloat(&cfg.Monitor.FailureRateThreshold, m.FailureRateThreshold)
		setFloat(&cfg.Monitor.MinThroughputPerHour, m.MinThroughputPerHour)
		setFloat(&cfg.Monitor.TrendBandPct, m.TrendBandPct)
		setInt(&cfg.Monitor.WindowSize, m.WindowSize)
	}

	if p := f.Predict; p != nil {
		setDuration(&cfg.Predict.Interval, p.Interval)
		setInt(&cfg.Predict.MinHistory, p.MinHistory)
		setFloat(&cfg.Predict.MinConfidence, p.MinConfidence)
		setDuration(&cfg.Predict.Cooldown, p.Cooldown)
		setInt(&cfg.Predict.Window, p.Window)
		setDuration(&cfg.Predict.Horizon, p.Horizon)
		setFloat(&cfg.Predict.SimilarityFloor, p.SimilarityFloor)
		setFloat(&cfg.Predict.AnomalyStdDevs, p.AnomalyStdDevs)
		setFloat(&cfg.Predict.ExhaustionMemoryMB, p.ExhaustionMemoryMB)
		setFloat(&cfg.Predict.QualityFloor, p.QualityFloor)
		applyThresholds(&cfg.Predict.MovingAverage, p.MovingAverage)
		applyThresholds(&cfg.Predict.PatternMatch, p.PatternMatch)
		applyThresholds(&cfg.Predict.Anomaly, p.Anomaly)
		applyThresholds(&cfg.Predict.ResourceTrend, p.ResourceTrend)
		applyThresholds(&cfg.Predict.QualityRegression, p.QualityRegression)
	}

	if o := f.Optimize; o != nil {
		setFloat(&cfg.Optimize.CPUPctThreshold, o.CPUPctThreshold)
		setFloat(&cfg.Optimize.MemoryPctThreshold, o.MemoryPctThreshold)
		setDuration(&cfg.Optimize.ResponseTimeThreshold, o.ResponseTimeThreshold)
		setFloat(&cfg.Optimize.ErrorRateThreshold, o.ErrorRateThreshold)
		setFloat(&cfg.Optimize.MinThroughputPerHour, o.MinThroughputPerHour)
		setFloat(&cfg.Optimize.MinPerformanceImpact, o.MinPerformanceImpact)
		setInt(&cfg.Optimize.MaxRecommendations, o.MaxRecommendations)
	}
}

func applyThresholds(dst *domain.ModelThresholds, src *fileThresholds) {
	if src == nil {
		return
	}
	setFloat(&dst.Warning, src.Warning)
	setFloat(&dst.Alert, src.Alert)
	setFloat(&dst.Critical, src.Critical)
}
