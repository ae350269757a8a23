package executors

import (
	"os"
	"path/filepath"

	"github.com/donegate/donegate/internal/domain"
)

// contextFiles names the configuration file most relevant to each gate, used
// as contextual evidence when the gate fails.
var contextFiles = map[string]string{
	"build":             "go.mod",
	"unit-tests":        "go.mod",
	"integration-tests": "go.mod",
	"lint":              ".golangci.yml",
	"security-scan":     "go.sum",
	"clean-worktree":    ".gitignore",
}

const maxContextBytes = 8192

// FileContextFetcher implements domain.ContextFetcher by reading the gate's
// associated configuration file from the project root.
type FileContextFetcher struct{}

func NewFileContextFetcher() *FileContextFetcher {
	return &FileContextFetcher{}
}

func (f *FileContextFetcher) Fetch(projectRoot, gateName string) (domain.Evidence, bool) {
	rel, ok := contextFiles[gateName]
	if !ok {
		return domain.Evidence{}, false
	}

	data, err := os.ReadFile(filepath.Join(projectRoot, rel))
	if err != nil {
		// Absence of context is not an error.
		return domain.Evidence{}, false
	}
	if len(data) > maxContextBytes {
		data = data[:maxContextBytes]
	}

	return domain.Evidence{
		Name:    rel,
		Gate:    gateName,
		Content: string(data),
	}, true
}
