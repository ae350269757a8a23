package predict_test

import (
	"testing"
	"time"

	"github.com/donegate/donegate/internal/domain"
	"github.com/donegate/donegate/internal/domain/alerting"
	"github.com/donegate/donegate/internal/domain/history"
	"github.com/donegate/donegate/internal/domain/predict"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failingHistory(n int) *history.Store {
	s := history.New(domain.DefaultConfig().History)
	for i := 0; i < n; i++ {
		s.Append(reportEntry(20, false, 10*time.Second, 100))
	}
	return s
}

func TestEngine_RequiresMinimumHistory(t *testing.T) {
	cfg := domain.DefaultConfig().Predict
	cfg.MinHistory = 5

	engine := predict.NewEngine(cfg, failingHistory(3), alerting.NewFeed())
	assert.Empty(t, engine.Evaluate())
}

func TestEngine_EmitsOnHighRisk(t *testing.T) {
	cfg := domain.DefaultConfig().Predict
	feed := alerting.NewFeed()

	var received []alerting.Alert
	feed.Subscribe(alerting.SubscriberFunc(func(a alerting.Alert) { received = append(received, a) }))

	engine := predict.NewEngine(cfg, failingHistory(10), feed)
	emitted := engine.Evaluate()

	require.NotEmpty(t, emitted)
	assert.Equal(t, len(emitted), len(received))

	var sawMovingAverage bool
	for _, a := range emitted {
		assert.Equal(t, alerting.SourcePredictive, a.Source)
		assert.GreaterOrEqual(t, a.Confidence, cfg.MinConfidence)
		assert.NotEmpty(t, a.RecommendedActions)
		if a.Type == alerting.TypeFailureRisk {
			sawMovingAverage = true
		}
	}
	assert.True(t, sawMovingAverage, "moving-average model must fire on an 100%% failure history")
}

func TestEngine_SuppressesBelowMinConfidence(t *testing.T) {
	cfg := domain.DefaultConfig().Predict
	cfg.MinConfidence = 100 // nothing reaches full certainty

	engine := predict.NewEngine(cfg, failingHistory(10), alerting.NewFeed())
	assert.Empty(t, engine.Evaluate())
}

func TestEngine_CooldownSuppressesRepeats(t *testing.T) {
	cfg := domain.DefaultConfig().Predict
	engine := predict.NewEngine(cfg, failingHistory(10), alerting.NewFeed())

	first := engine.Evaluate()
	require.NotEmpty(t, first)

	// The condition still holds, but every (model, type) pair is cooling down.
	assert.Empty(t, engine.Evaluate())
}

func TestEngine_TracksModelStats(t *testing.T) {
	cfg := domain.DefaultConfig().Predict
	engine := predict.NewEngine(cfg, failingHistory(10), alerting.NewFeed())
	engine.Evaluate()

	stats := engine.Stats()
	ma, ok := stats["moving-average"]
	require.True(t, ok)
	assert.Equal(t, 1, ma.Runs)
	assert.Greater(t, ma.AvgScore, 50.0)
	assert.Equal(t, 1, ma.Alerts)
}

func TestEngine_ScenarioMovingAverageRisk(t *testing.T) {
	// 10 historical reports with 80% failure rate followed by one more.
	s := history.New(domain.DefaultConfig().History)
	for i := 0; i < 10; i++ {
		s.Append(reportEntry(40, i%5 == 0, 10*time.Second, 100))
	}
	s.Append(reportEntry(40, false, 10*time.Second, 100))

	engine := predict.NewEngine(domain.DefaultConfig().Predict, s, alerting.NewFeed())
	engine.Evaluate()

	stats := engine.Stats()
	ma := stats["moving-average"]
	assert.Greater(t, ma.LastScore, 50.0)
	assert.GreaterOrEqual(t, ma.AvgConfidence, 80.0)
}
