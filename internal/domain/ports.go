package domain

import "context"

// ExecutionOutcome is what an external check reports back to the orchestrator.
type ExecutionOutcome struct {
	Passed   bool              `json:"passed"`
	Message  string            `json:"message"`
	Details  map[string]string `json:"details,omitempty"`
	Evidence []string          `json:"evidence,omitempty"`
}

// GateExecutor runs one named external check. Implementations are free to
// spawn external processes and interpret their exit status and output.
type GateExecutor interface {
	Name() string
	Execute(ctx context.Context, projectRoot string, runContext map[string]string) (ExecutionOutcome, error)
}

// ExecutorRegistry resolves a gate name to the executor that runs it.
type ExecutorRegistry interface {
	For(gateName string) (GateExecutor, bool)
}

// ResourceUsage is a point-in-time snapshot of process resource consumption.
type ResourceUsage struct {
	HeapMB     float64 `json:"heap_mb"`
	SysMB      float64 `json:"sys_mb"`
	MemoryPct  float64 `json:"memory_pct"`
	CPUPct     float64 `json:"cpu_pct"`
	Goroutines int     `json:"goroutines"`
}

// ResourceSampler reads current process resource usage.
type ResourceSampler interface {
	Sample() ResourceUsage
}

// GitInfo exposes the version-control facts a validation run records.
type GitInfo interface {
	IsGitRepo(projectPath string) bool
	CommitHash(projectPath string) (string, error)
	IsClean(projectPath string) (bool, error)
}

// ContextFetcher optionally retrieves one piece of contextual evidence for a
// failed gate, such as the relevant configuration file. Absence is not an
// error.
type ContextFetcher interface {
	Fetch(projectRoot, gateName string) (Evidence, bool)
}

// ConfigLoader reads engine configuration for a project.
type ConfigLoader interface {
	Load(projectPath string) (Config, error)
}
