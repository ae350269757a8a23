// Package runtimemetrics implements domain.ResourceSampler from the Go
// runtime's own instrumentation.
package runtimemetrics

import (
	"runtime"

	"github.com/donegate/donegate/internal/domain"
)

const bytesPerMB = 1024 * 1024

// Sampler reads process resource usage from runtime.MemStats. CPU percentage
// is approximated from the GC CPU fraction; the engines consume it for trend
// direction, not absolute accuracy.
type Sampler struct{}

func New() *Sampler {
	return &Sampler{}
}

func (s *Sampler) Sample() domain.ResourceUsage {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	memoryPct := 0.0
	if m.Sys > 0 {
		memoryPct = float64(m.HeapAlloc) / float64(m.Sys) * 100
	}

	return domain.ResourceUsage{
		HeapMB:     float64(m.HeapAlloc) / bytesPerMB,
		SysMB:      float64(m.Sys) / bytesPerMB,
		MemoryPct:  memoryPct,
		CPUPct:     m.GCCPUFraction * 100,
		Goroutines: runtime.NumGoroutine(),
	}
}
