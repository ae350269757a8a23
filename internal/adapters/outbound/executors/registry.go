package executors

import (
	"github.com/donegate/donegate/internal/domain"
)

// Registry maps gate names to executors and implements
// domain.ExecutorRegistry.
type Registry struct {
	executors map[string]domain.GateExecutor
}

// NewRegistry creates a registry holding the given executors, keyed by name.
func NewRegistry(executors ...domain.GateExecutor) *Registry {
	r := &Registry{executors: make(map[string]domain.GateExecutor, len(executors))}
	for _, e := range executors {
		r.executors[e.Name()] = e
	}
	return r
}

// Register adds or replaces an executor.
func (r *Registry) Register(e domain.GateExecutor) {
	r.executors[e.Name()] = e
}

func (r *Registry) For(gateName string) (domain.GateExecutor, bool) {
	e, ok := r.executors[gateName]
	return e, ok
}

// DefaultRegistry wires the standard gate set for a Go project: the built-in
// worktree and integrity checks plus command-backed build, test, lint,
// security, and docs gates.
func DefaultRegistry(git domain.GitInfo) *Registry {
	return NewRegistry(
		NewCleanWorktreeExecutor(git),
		NewFileIntegrityExecutor(),
		NewCommandExecutor("build", "go", "build", "./..."),
		NewCommandExecutor("unit-tests", "go", "test", "-short", "./..."),
		NewCommandExecutor("integration-tests", "go", "test", "-run", "Integration", "./..."),
		NewCommandExecutor("lint", "go", "vet", "./..."),
		NewCommandExecutor("security-scan", "govulncheck", "./..."),
		NewCommandExecutor("docs-updated", "test", "-s", "README.md"),
	)
}
