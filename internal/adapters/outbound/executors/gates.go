package executors

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/donegate/donegate/internal/domain"
)

// CleanWorktreeExecutor checks that the project's worktree has no
// uncommitted or untracked changes. A non-git project passes vacuously.
type CleanWorktreeExecutor struct {
	git domain.GitInfo
}

func NewCleanWorktreeExecutor(git domain.GitInfo) *CleanWorktreeExecutor {
	return &CleanWorktreeExecutor{git: git}
}

func (e *CleanWorktreeExecutor) Name() string { return "clean-worktree" }

func (e *CleanWorktreeExecutor) Execute(_ context.Context, projectRoot string, _ map[string]string) (domain.ExecutionOutcome, error) {
	if !e.git.IsGitRepo(projectRoot) {
		return domain.ExecutionOutcome{
			Passed:  true,
			Message: "not a git repository, worktree check skipped",
		}, nil
	}

	clean, err := e.git.IsClean(projectRoot)
	if err != nil {
		return domain.ExecutionOutcome{}, fmt.Errorf("reading worktree state: %w", err)
	}
	if !clean {
		return domain.ExecutionOutcome{
			Passed:  false,
			Message: "worktree has uncommitted or untracked changes",
		}, nil
	}
	return domain.ExecutionOutcome{Passed: true, Message: "worktree clean"}, nil
}

// FileIntegrityExecutor verifies that the project's required files exist and
// are readable.
type FileIntegrityExecutor struct {
	required []string
}

func NewFileIntegrityExecutor(required ...string) *FileIntegrityExecutor {
	if len(required) == 0 {
		required = []string{"go.mod"}
	}
	return &FileIntegrityExecutor{required: required}
}

func (e *FileIntegrityExecutor) Name() string { return "file-integrity" }

func (e *FileIntegrityExecutor) Execute(_ context.Context, projectRoot string, _ map[string]string) (domain.ExecutionOutcome, error) {
	var missing []string
	for _, rel := range e.required {
		if _, err := os.Stat(filepath.Join(projectRoot, rel)); err != nil {
			missing = append(missing, rel)
		}
	}

	if len(missing) > 0 {
		out := domain.ExecutionOutcome{
			Passed:  false,
			Message: fmt.Sprintf("%d required file(s) missing", len(missing)),
		}
		for _, m := range missing {
			out.Evidence = append(out.Evidence, "missing: "+m)
		}
		return out, nil
	}
	return domain.ExecutionOutcome{
		Passed:  true,
		Message: fmt.Sprintf("all %d required file(s) present", len(e.required)),
	}, nil
}
