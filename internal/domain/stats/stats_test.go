package stats_test

import (
	"testing"

	"github.com/donegate/donegate/internal/domain/stats"
	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.InDelta(t, 2.0, stats.Mean([]float64{1, 2, 3}), 0.001)
	assert.Zero(t, stats.Mean(nil))
}

func TestMedian(t *testing.T) {
	assert.InDelta(t, 2.0, stats.Median([]float64{3, 1, 2}), 0.001)
	assert.InDelta(t, 2.5, stats.Median([]float64{4, 1, 2, 3}), 0.001)
	assert.Zero(t, stats.Median(nil))
}

func TestPercentile(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	assert.InDelta(t, 10, stats.Percentile(values, 95), 0.001)
	assert.InDelta(t, 5, stats.Percentile(values, 50), 0.001)
	assert.Zero(t, stats.Percentile(nil, 95))
}

func TestStdDev(t *testing.T) {
	assert.InDelta(t, 2.0, stats.StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 0.001)
	assert.Zero(t, stats.StdDev([]float64{5}))
}

func TestZScore(t *testing.T) {
	window := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	assert.InDelta(t, 2.5, stats.ZScore(10, window), 0.001)
	assert.Zero(t, stats.ZScore(10, []float64{3, 3, 3}))
}

func TestLinearSlope(t *testing.T) {
	assert.InDelta(t, 2.0, stats.LinearSlope([]float64{0, 2, 4, 6}), 0.001)
	assert.InDelta(t, -1.0, stats.LinearSlope([]float64{3, 2, 1}), 0.001)
	assert.Zero(t, stats.LinearSlope([]float64{5}))
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, stats.CosineSimilarity([]float64{1, 2, 3}, []float64{2, 4, 6}), 0.001)
	assert.InDelta(t, 0.0, stats.CosineSimilarity([]float64{1, 0}, []float64{0, 1}), 0.001)
	assert.Zero(t, stats.CosineSimilarity([]float64{1, 2}, []float64{1}))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, stats.Clamp(-5, 0, 100))
	assert.Equal(t, 100.0, stats.Clamp(120, 0, 100))
	assert.Equal(t, 42.0, stats.Clamp(42, 0, 100))
}
