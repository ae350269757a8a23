// Package history holds the process-lifetime telemetry history shared by the
// monitor, predictive, and optimization engines. The store is append-only and
// bounded by both entry count and age; past the compression threshold the
// oldest segment is down-sampled at a fixed stride instead of being dropped
// wholesale, so long-range trends stay visible.
package history

import (
	"sync"
	"time"

	"github.com/donegate/donegate/internal/domain"
)

// Entry is one element of the history: a validation report, a resource
// sample, or both.
type Entry struct {
	Timestamp time.Time                `json:"timestamp"`
	Report    *domain.ValidationReport `json:"report,omitempty"`
	Samples   []domain.MetricSample    `json:"samples,omitempty"`
}

// Store is a bounded in-memory history. Appends are serialized by a mutex;
// readers always work on a snapshot copy.
type Store struct {
	mu      sync.Mutex
	cfg     domain.HistoryConfig
	entries []Entry
}

// New creates a Store with the given bounds.
func New(cfg domain.HistoryConfig) *Store {
	return &Store{cfg: cfg}
}

// Append adds an entry and enforces the age, compression, and count bounds.
func (s *Store) Append(e Entry) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, e)
	s.trimLocked(time.Now())
}

// AppendReport stores a report together with the metric samples derived from
// it (duration, success rate, and memory when present).
func (s *Store) AppendReport(report *domain.ValidationReport) {
	samples := []domain.MetricSample{
		{Timestamp: report.Timestamp, Type: domain.MetricDuration, Value: report.Duration.Seconds(), Unit: "s", Context: string(report.Category)},
		{Timestamp: report.Timestamp, Type: domain.MetricSuccessRate, Value: 1 - report.Metrics.FailureRate, Unit: "ratio", Context: string(report.Category)},
	}
	if report.Metrics.MemoryMB > 0 {
		samples = append(samples, domain.MetricSample{
			Timestamp: report.Timestamp, Type: domain.MetricMemory, Value: report.Metrics.MemoryMB, Unit: "MB",
		})
	}
	s.Append(Entry{Timestamp: report.Timestamp, Report: report, Samples: samples})
}

// AppendSamples stores resource samples with no associated report.
func (s *Store) AppendSamples(samples ...domain.MetricSample) {
	if len(samples) == 0 {
		return
	}
	s.Append(Entry{Timestamp: samples[0].Timestamp, Samples: samples})
}

// Snapshot returns a copy of the current entries, oldest first.
func (s *Store) Snapshot() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Reports returns only the entries carrying a validation report, oldest first.
func (s *Store) Reports() []*domain.ValidationReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*domain.ValidationReport
	for _, e := range s.entries {
		if e.Report != nil {
			out = append(out, e.Report)
		}
	}
	return out
}

// Len returns the current entry count.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// trimLocked enforces age, compression, and count bounds. Oldest entries go
// first; compaction keeps every stride-th entry of the oldest half so the
// retained set still spans the original time range.
func (s *Store) trimLocked(now time.Time) {
	// 1. Drop entries older than max age.
	cutoff := now.Add(-s.cfg.MaxAge)
	firstFresh := 0
	for firstFresh < len(s.entries) && s.entries[firstFresh].Timestamp.Before(cutoff) {
		firstFresh++
	}
	if firstFresh > 0 {
		s.entries = append(s.entries[:0], s.entries[firstFresh:]...)
	}

	// 2. Past the compression threshold, down-sample the oldest half.
	if s.cfg.CompressAt > 0 && len(s.entries) > s.cfg.CompressAt {
		half := len(s.entries) / 2
		compacted := make([]Entry, 0, len(s.entries))
		for i := 0; i < half; i += s.cfg.CompressStride {
			compacted = append(compacted, s.entries[i])
		}
		compacted = append(compacted, s.entries[half:]...)
		s.entries = compacted
	}

	// 3. Hard cap on entry count.
	if len(s.entries) > s.cfg.MaxEntries {
		excess := len(s.entries) - s.cfg.MaxEntries
		s.entries = append(s.entries[:0], s.entries[excess:]...)
	}
}
