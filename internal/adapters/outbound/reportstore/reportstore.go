// Package reportstore persists validation history snapshots as JSON under
// .donegate/ so later CLI invocations can analyze accumulated runs. The
// in-memory history remains the source of truth within a process; this file
// is a convenience snapshot, and read or write failures are non-fatal to
// validation itself.
package reportstore

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/donegate/donegate/internal/domain"
	"github.com/donegate/donegate/internal/domain/history"
)

const historyFile = ".donegate/history.json"

// FileStore reads and writes the history snapshot file.
type FileStore struct{}

func New() *FileStore {
	return &FileStore{}
}

// AppendReport loads the existing snapshot, appends the report, and writes it
// back, honoring the configured entry cap.
func (s *FileStore) AppendReport(projectPath string, report *domain.ValidationReport, maxEntries int) error {
	entries, err := s.Load(projectPath)
	if err != nil {
		return err
	}

	entries = append(entries, history.Entry{Timestamp: report.Timestamp, Report: report})
	if maxEntries > 0 && len(entries) > maxEntries {
		entries = entries[len(entries)-maxEntries:]
	}

	fp := filepath.Join(projectPath, historyFile)
	if err := os.MkdirAll(filepath.Dir(fp), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(fp, data, 0644)
}

// Load reads the snapshot; a missing file is an empty history.
func (s *FileStore) Load(projectPath string) ([]history.Entry, error) {
	data, err := os.ReadFile(filepath.Join(projectPath, historyFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []history.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Seed appends every persisted entry into an in-memory store.
func (s *FileStore) Seed(projectPath string, store *history.Store) error {
	entries, err := s.Load(projectPath)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.Report != nil {
			store.AppendReport(e.Report)
		} else {
			store.Append(e)
		}
	}
	return nil
}
