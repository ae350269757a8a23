// Package executors provides the concrete gate executors: external commands
// run in their own process group, plus the built-in worktree and integrity
// checks.
package executors

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"syscall"

	"github.com/donegate/donegate/internal/domain"
)

// CommandExecutor runs one external check as a shell command and interprets
// its exit status. The command is started in its own process group so that a
// timeout kills the whole tree, not just the immediate child.
type CommandExecutor struct {
	GateName string
	Command  string
	Args     []string
}

func NewCommandExecutor(gateName, command string, args ...string) *CommandExecutor {
	return &CommandExecutor{GateName: gateName, Command: command, Args: args}
}

func (e *CommandExecutor) Name() string { return e.GateName }

func (e *CommandExecutor) Execute(ctx context.Context, projectRoot string, _ map[string]string) (domain.ExecutionOutcome, error) {
	cmd := exec.Command(e.Command, e.Args...)
	cmd.Dir = projectRoot
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return domain.ExecutionOutcome{}, fmt.Errorf("starting %s: %w", e.Command, err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case <-ctx.Done():
		// Kill the whole process group; a negative pid signals the group.
		_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		<-done
		return domain.ExecutionOutcome{}, ctx.Err()
	case err := <-done:
		return e.interpret(err, stdout.String(), stderr.String()), nil
	}
}

func (e *CommandExecutor) interpret(waitErr error, stdout, stderr string) domain.ExecutionOutcome {
	out := domain.ExecutionOutcome{
		Passed: waitErr == nil,
		Details: map[string]string{
			"command": strings.TrimSpace(e.Command + " " + strings.Join(e.Args, " ")),
		},
	}
	if waitErr == nil {
		out.Message = fmt.Sprintf("%s passed", e.GateName)
	} else {
		out.Message = fmt.Sprintf("%s failed: %v", e.GateName, waitErr)
	}

	if text := strings.TrimSpace(stdout); text != "" {
		out.Evidence = append(out.Evidence, truncate(text, 4096))
	}
	if text := strings.TrimSpace(stderr); text != "" {
		out.Evidence = append(out.Evidence, truncate(text, 4096))
	}
	return out
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "\n... (truncated)"
}
