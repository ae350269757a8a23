package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/donegate/donegate/internal/adapters/inbound/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeGoProject creates a minimal buildable Go module in dir.
func writeGoProject(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/demo\n\ngo 1.21\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n\nfunc main() {}\n"), 0644))
}

func TestValidateCommit_PassingProject(t *testing.T) {
	if testing.Short() {
		t.Skip("runs real build and test gates")
	}
	dir := t.TempDir()
	writeGoProject(t, dir)

	cmd := cli.NewRootCmdForTest()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"validate-commit", "--path", dir, "--json"})
	require.NoError(t, cmd.Execute())

	var report map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, "passed", report["overall_status"])

	// The run is persisted for later analysis.
	_, err := os.Stat(filepath.Join(dir, ".donegate", "history.json"))
	assert.NoError(t, err)
}

func TestValidateCommit_EmptyDirFails(t *testing.T) {
	if testing.Short() {
		t.Skip("runs real build and test gates")
	}
	dir := t.TempDir()

	cmd := cli.NewRootCmdForTest()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"validate-commit", "--path", dir, "--json"})
	require.Error(t, cmd.Execute())

	var report map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, "failed", report["overall_status"])
}

func TestValidate_MissingPathFails(t *testing.T) {
	cmd := cli.NewRootCmdForTest()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetArgs([]string{"validate-task", "T-1", "--path", filepath.Join(t.TempDir(), "nonexistent", "project", "root"), "--json"})
	assert.Error(t, cmd.Execute())
}
