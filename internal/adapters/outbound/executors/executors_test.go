package executors_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/donegate/donegate/internal/adapters/outbound/executors"
	"github.com/donegate/donegate/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandExecutor_PassingCommand(t *testing.T) {
	e := executors.NewCommandExecutor("build", "true")
	out, err := e.Execute(context.Background(), t.TempDir(), nil)
	require.NoError(t, err)
	assert.True(t, out.Passed)
	assert.Contains(t, out.Message, "build passed")
}

func TestCommandExecutor_FailingCommand(t *testing.T) {
	e := executors.NewCommandExecutor("unit-tests", "false")
	out, err := e.Execute(context.Background(), t.TempDir(), nil)
	require.NoError(t, err)
	assert.False(t, out.Passed)
	assert.Contains(t, out.Message, "failed")
}

func TestCommandExecutor_CapturesOutputAsEvidence(t *testing.T) {
	e := executors.NewCommandExecutor("lint", "sh", "-c", "echo style issue found")
	out, err := e.Execute(context.Background(), t.TempDir(), nil)
	require.NoError(t, err)
	require.NotEmpty(t, out.Evidence)
	assert.Contains(t, out.Evidence[0], "style issue found")
}

func TestCommandExecutor_TimeoutKillsProcessGroup(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	e := executors.NewCommandExecutor("unit-tests", "sleep", "30")
	started := time.Now()
	_, err := e.Execute(ctx, t.TempDir(), nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(started), 5*time.Second,
		"the spawned process must be killed, not waited for")
}

func TestCommandExecutor_MissingBinary(t *testing.T) {
	e := executors.NewCommandExecutor("security-scan", "definitely-not-installed-tool")
	_, err := e.Execute(context.Background(), t.TempDir(), nil)
	assert.Error(t, err)
}

func TestFileIntegrityExecutor(t *testing.T) {
	dir := t.TempDir()
	e := executors.NewFileIntegrityExecutor("go.mod", "README.md")

	out, err := e.Execute(context.Background(), dir, nil)
	require.NoError(t, err)
	assert.False(t, out.Passed)
	assert.Len(t, out.Evidence, 2)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# x"), 0644))

	out, err = e.Execute(context.Background(), dir, nil)
	require.NoError(t, err)
	assert.True(t, out.Passed)
}

type fakeGit struct {
	isRepo bool
	clean  bool
	err    error
}

func (g fakeGit) IsGitRepo(string) bool             { return g.isRepo }
func (g fakeGit) CommitHash(string) (string, error) { return "", errors.New("not used") }
func (g fakeGit) IsClean(string) (bool, error)      { return g.clean, g.err }

func TestCleanWorktreeExecutor(t *testing.T) {
	tests := []struct {
		name   string
		git    fakeGit
		passed bool
	}{
		{"non-git project passes", fakeGit{isRepo: false}, true},
		{"clean worktree passes", fakeGit{isRepo: true, clean: true}, true},
		{"dirty worktree fails", fakeGit{isRepo: true, clean: false}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := executors.NewCleanWorktreeExecutor(tt.git)
			out, err := e.Execute(context.Background(), t.TempDir(), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.passed, out.Passed)
		})
	}
}

func TestCleanWorktreeExecutor_StateReadError(t *testing.T) {
	e := executors.NewCleanWorktreeExecutor(fakeGit{isRepo: true, err: errors.New("corrupt index")})
	_, err := e.Execute(context.Background(), t.TempDir(), nil)
	assert.Error(t, err)
}

func TestRegistry_ResolvesAndOverrides(t *testing.T) {
	r := executors.DefaultRegistry(fakeGit{})

	e, ok := r.For("build")
	require.True(t, ok)
	assert.Equal(t, "build", e.Name())

	_, ok = r.For("unknown-gate")
	assert.False(t, ok)

	r.Register(executors.NewCommandExecutor("build", "make"))
	e, _ = r.For("build")
	assert.Equal(t, "build", e.Name())
}

func TestFileContextFetcher(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example"), 0644))

	f := executors.NewFileContextFetcher()

	ev, ok := f.Fetch(dir, "build")
	require.True(t, ok)
	assert.Equal(t, "go.mod", ev.Name)
	assert.Equal(t, "build", ev.Gate)
	assert.Contains(t, ev.Content, "module example")

	_, ok = f.Fetch(dir, "lint") // .golangci.yml absent
	assert.False(t, ok)

	_, ok = f.Fetch(dir, "docs-updated") // no mapping
	assert.False(t, ok)
}

var _ domain.ExecutorRegistry = (*executors.Registry)(nil)
