package predict

import (
	"fmt"

	"github.com/donegate/donegate/internal/domain"
	"github.com/donegate/donegate/internal/domain/history"
	"github.com/donegate/donegate/internal/domain/stats"
)

// ResourceTrendModel fits a linear-regression slope to memory, cpu, and
// duration over the trailing window and extrapolates to the prediction
// horizon. Risk grows as projected usage approaches exhaustion.
type ResourceTrendModel struct{}

func (ResourceTrendModel) Name() string { return "resource-trend" }

// horizonSteps is how many sample intervals ahead the slope is extrapolated.
const horizonSteps = 10

func (m ResourceTrendModel) Predict(entries []history.Entry, cfg domain.PredictConfig) (Prediction, bool) {
	memory := tail(memorySeries(entries, cfg), cfg.Window*2)
	cpu := tail(cpuSeries(entries), cfg.Window*2)
	dur := tail(durationSeries(entries), cfg.Window*2)

	if len(memory) < 3 && len(cpu) < 3 && len(dur) < 3 {
		return Prediction{}, false
	}

	risk := 0.0
	trend := domain.TrendStable
	var factors []string

	if len(memory) >= 3 {
		slope := stats.LinearSlope(memory)
		current := memory[len(memory)-1]
		projected := current + slope*horizonSteps
		if slope > 0 {
			risk = stats.Clamp(projected, risk, 100)
			trend = domain.TrendDegrading
			factors = append(factors, fmt.Sprintf(
				"memory trending +%.1f%%/sample, projected %.0f%% of ceiling at horizon", slope, projected))
		} else if slope < 0 {
			trend = domain.TrendImproving
			factors = append(factors, fmt.Sprintf("memory trending %.1f%%/sample", slope))
		}
	}

	if len(cpu) >= 3 {
		slope := stats.LinearSlope(cpu)
		projected := cpu[len(cpu)-1] + slope*horizonSteps
		if slope > 0 && projected > risk {
			risk = stats.Clamp(projected, 0, 100)
			trend = domain.TrendDegrading
			factors = append(factors, fmt.Sprintf(
				"cpu trending +%.1f%%/sample, projected %.0f%% at horizon", slope, projected))
		}
	}

	if len(dur) >= 3 {
		slope := stats.LinearSlope(dur)
		if slope > 0 && stats.Mean(dur) > 0 {
			growthPct := slope / stats.Mean(dur) * 100
			durRisk := stats.Clamp(growthPct*horizonSteps, 0, 80)
			if durRisk > risk {
				risk = durRisk
				trend = domain.TrendDegrading
			}
			if growthPct > 1 {
				factors = append(factors, fmt.Sprintf("validation duration growing %.1f%%/sample", growthPct))
			}
		}
	}

	if len(factors) == 0 {
		factors = []string{"resource usage flat over the window"}
	}

	sampleCount := len(memory) + len(cpu) + len(dur)
	confidence := stats.Clamp(20+float64(sampleCount)*3, 0, 90)

	return Prediction{
		Model:      m.Name(),
		Score:      risk,
		Confidence: confidence,
		Trend:      trend,
		Factors:    factors,
	}, true
}
