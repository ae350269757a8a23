package domain

import (
	"fmt"
	"time"
)

// Config holds engine configuration loaded from .donegate.yaml.
type Config struct {
	MaxConcurrentGates int                     `yaml:"max_concurrent_gates" json:"max_concurrent_gates"`
	DefaultGateTimeout time.Duration           `yaml:"default_gate_timeout" json:"default_gate_timeout"`
	Gates              map[string]GateOverride `yaml:"gates"                json:"gates,omitempty"`
	History            HistoryConfig           `yaml:"history"              json:"history"`
	Monitor            MonitorConfig           `yaml:"monitor"              json:"monitor"`
	Predict            PredictConfig           `yaml:"predict"              json:"predict"`
	Optimize           OptimizeConfig          `yaml:"optimize"             json:"optimize"`
}

// GateOverride tunes a single gate's timeout, retries, or severity.
type GateOverride struct {
	Timeout  time.Duration `yaml:"timeout"  json:"timeout,omitempty"`
	Retries  *int          `yaml:"retries"  json:"retries,omitempty"`
	Severity Severity      `yaml:"severity" json:"severity,omitempty"`
}

// HistoryConfig bounds the in-memory telemetry history.
type HistoryConfig struct {
	MaxEntries     int           `yaml:"max_entries"     json:"max_entries"`
	MaxAge         time.Duration `yaml:"max_age"         json:"max_age"`
	CompressAt     int           `yaml:"compress_at"     json:"compress_at"`
	CompressStride int           `yaml:"compress_stride" json:"compress_stride"`
}

// MonitorConfig tunes the performance monitor's sampling and alert rules.
type MonitorConfig struct {
	Interval             time.Duration `yaml:"interval"                json:"interval"`
	Cooldown             time.Duration `yaml:"cooldown"                json:"cooldown"`
	MinConfidence        float64       `yaml:"min_confidence"          json:"min_confidence"`
	MemoryPctThreshold   float64       `yaml:"memory_pct_threshold"    json:"memory_pct_threshold"`
	AvgDurationThreshold time.Duration `yaml:"avg_duration_threshold"  json:"avg_duration_threshold"`
	FailureRateThreshold float64       `yaml:"failure_rate_threshold"  json:"failure_rate_threshold"`
	MinThroughputPerHour float64       `yaml:"min_throughput_per_hour" json:"min_throughput_per_hour"`
	TrendBandPct         float64       `yaml:"trend_band_pct"          json:"trend_band_pct"`
	WindowSize           int           `yaml:"window_size"             json:"window_size"`
}

// ModelThresholds maps a model's raw risk score onto alert severities.
type ModelThresholds struct {
	Warning  float64 `yaml:"warning"  json:"warning"`
	Alert    float64 `yaml:"alert"    json:"alert"`
	Critical float64 `yaml:"critical" json:"critical"`
}

// PredictConfig tunes the predictive engine and its models.
type PredictConfig struct {
	Interval           time.Duration   `yaml:"interval"             json:"interval"`
	MinHistory         int             `yaml:"min_history"          json:"min_history"`
	MinConfidence      float64         `yaml:"min_confidence"       json:"min_confidence"`
	Cooldown           time.Duration   `yaml:"cooldown"             json:"cooldown"`
	Window             int             `yaml:"window"               json:"window"`
	Horizon            time.Duration   `yaml:"horizon"              json:"horizon"`
	SimilarityFloor    float64         `yaml:"similarity_floor"     json:"similarity_floor"`
	AnomalyStdDevs     float64         `yaml:"anomaly_std_devs"     json:"anomaly_std_devs"`
	ExhaustionMemoryMB float64         `yaml:"exhaustion_memory_mb" json:"exhaustion_memory_mb"`
	QualityFloor       float64         `yaml:"quality_floor"        json:"quality_floor"`
	MovingAverage      ModelThresholds `yaml:"moving_average"       json:"moving_average"`
	PatternMatch       ModelThresholds `yaml:"pattern_match"        json:"pattern_match"`
	Anomaly            ModelThresholds `yaml:"anomaly"              json:"anomaly"`
	ResourceTrend      ModelThresholds `yaml:"resource_trend"       json:"resource_trend"`
	QualityRegression  ModelThresholds `yaml:"quality_regression"   json:"quality_regression"`
}

// OptimizeConfig tunes bottleneck detection and recommendation ranking.
type OptimizeConfig struct {
	CPUPctThreshold       float64       `yaml:"cpu_pct_threshold"       json:"cpu_pct_threshold"`
	MemoryPctThreshold    float64       `yaml:"memory_pct_threshold"    json:"memory_pct_threshold"`
	ResponseTimeThreshold time.Duration `yaml:"response_time_threshold" json:"response_time_threshold"`
	ErrorRateThreshold    float64       `yaml:"error_rate_threshold"    json:"error_rate_threshold"`
	MinThroughputPerHour  float64       `yaml:"min_throughput_per_hour" json:"min_throughput_per_hour"`
	MinPerformanceImpact  float64       `yaml:"min_performance_impact"  json:"min_performance_impact"`
	MaxRecommendations    int           `yaml:"max_recommendations"     json:"max_recommendations"`
}

// DefaultConfig returns the configuration used when .donegate.yaml is absent.
func DefaultConfig() Config {
	return Config{
		MaxConcurrentGates: 4,
		DefaultGateTimeout: 2 * time.Minute,
		History: HistoryConfig{
			MaxEntries:     500,
			MaxAge:         24 * time.Hour,
			CompressAt:     400,
			CompressStride: 4,
		},
		Monitor: MonitorConfig{
			Interval:             30 * time.Second,
			Cooldown:             5 * time.Minute,
			MinConfidence:        40,
			MemoryPctThreshold:   85,
			AvgDurationThreshold: 60 * time.Second,
			FailureRateThreshold: 0.30,
			MinThroughputPerHour: 10,
			TrendBandPct:         5,
			WindowSize:           5,
		},
		Predict: PredictConfig{
			Interval:           time.Minute,
			MinHistory:         5,
			MinConfidence:      40,
			Cooldown:           10 * time.Minute,
			Window:             10,
			Horizon:            30 * time.Minute,
			SimilarityFloor:    0.85,
			AnomalyStdDevs:     2.0,
			ExhaustionMemoryMB: 1024,
			QualityFloor:       70,
			MovingAverage:      ModelThresholds{Warning: 40, Alert: 60, Critical: 80},
			PatternMatch:       ModelThresholds{Warning: 45, Alert: 65, Critical: 85},
			Anomaly:            ModelThresholds{Warning: 40, Alert: 60, Critical: 80},
			ResourceTrend:      ModelThresholds{Warning: 35, Alert: 55, Critical: 75},
			QualityRegression:  ModelThresholds{Warning: 40, Alert: 60, Critical: 80},
		},
		Optimize: OptimizeConfig{
			CPUPctThreshold:       80,
			MemoryPctThreshold:    85,
			ResponseTimeThreshold: 90 * time.Second,
			ErrorRateThreshold:    0.25,
			MinThroughputPerHour:  10,
			MinPerformanceImpact:  10,
			MaxRecommendations:    10,
		},
	}
}

// Validate checks the config for invalid values and returns a descriptive error.
func (c Config) Validate() error {
	// 1. concurrency must be positive
	if c.MaxConcurrentGates <= 0 {
		return fmt.Errorf("max_concurrent_gates must be > 0 (got %d)", c.MaxConcurrentGates)
	}

	// 2. default timeout must be positive
	if c.DefaultGateTimeout <= 0 {
		return fmt.Errorf("default_gate_timeout must be > 0 (got %s)", c.DefaultGateTimeout)
	}

	// 3. gate overrides must use known severities and sane values
	for name, o := range c.Gates {
		if o.Severity != "" {
			if _, err := ParseSeverity(string(o.Severity)); err != nil {
				return fmt.Errorf("gates[%q]: %w", name, err)
			}
		}
		if o.Retries != nil && *o.Retries < 0 {
			return fmt.Errorf("gates[%q].retries must be >= 0 (got %d)", name, *o.Retries)
		}
		if o.Timeout < 0 {
			return fmt.Errorf("gates[%q].timeout must be >= 0 (got %s)", name, o.Timeout)
		}
	}

	// 4. history bounds
	if c.History.MaxEntries <= 0 {
		return fmt.Errorf("history.max_entries must be > 0 (got %d)", c.History.MaxEntries)
	}
	if c.History.MaxAge <= 0 {
		return fmt.Errorf("history.max_age must be > 0 (got %s)", c.History.MaxAge)
	}
	if c.History.CompressAt > c.History.MaxEntries {
		return fmt.Errorf("history.compress_at %d exceeds max_entries %d", c.History.CompressAt, c.History.MaxEntries)
	}
	if c.History.CompressStride < 2 {
		return fmt.Errorf("history.compress_stride must be >= 2 (got %d)", c.History.CompressStride)
	}

	// 5. cooldowns must be positive
	if c.Monitor.Cooldown <= 0 {
		return fmt.Errorf("monitor.cooldown must be > 0 (got %s)", c.Monitor.Cooldown)
	}
	if c.Predict.Cooldown <= 0 {
		return fmt.Errorf("predict.cooldown must be > 0 (got %s)", c.Predict.Cooldown)
	}

	// 6. confidence bounds
	if c.Predict.MinConfidence < 0 || c.Predict.MinConfidence > 100 {
		return fmt.Errorf("predict.min_confidence must be between 0 and 100 (got %.1f)", c.Predict.MinConfidence)
	}
	if c.Monitor.MinConfidence < 0 || c.Monitor.MinConfidence > 100 {
		return fmt.Errorf("monitor.min_confidence must be between 0 and 100 (got %.1f)", c.Monitor.MinConfidence)
	}

	// 7. prediction window
	if c.Predict.Window < 2 {
		return fmt.Errorf("predict.window must be >= 2 (got %d)", c.Predict.Window)
	}

	// 8. recommendation list size
	if c.Optimize.MaxRecommendations <= 0 {
		return fmt.Errorf("optimize.max_recommendations must be > 0 (got %d)", c.Optimize.MaxRecommendations)
	}

	return nil
}

// GateWithOverrides applies any configured override to a catalogue definition.
func (c Config) GateWithOverrides(def GateDefinition) GateDefinition {
	if def.Timeout == 0 {
		def.Timeout = c.DefaultGateTimeout
	}
	o, ok := c.Gates[def.Name]
	if !ok {
		return def
	}
	if o.Timeout > 0 {
		def.Timeout = o.Timeout
	}
	if o.Retries != nil {
		def.Retries = *o.Retries
	}
	if o.Severity != "" {
		def.Severity = o.Severity
	}
	return def
}
