package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"taskmk/internal"
)

// ShellExecutor runs task commands through `sh -c`, streaming output to the
// terminal and, when Log is set, appending the same bytes to Log.
type ShellExecutor struct {
	Shell  string
	Dir    string
	Env    []string
	Stdout io.Writer
	Stderr io.Writer
	Log    io.Writer
}

func (e *ShellExecutor) Execute(ctx context.Context, t internal.Task, command string) (int, error) {
	shell := e.Shell
	if shell == "" {
		shell = "sh"
	}
	cmd := exec.CommandContext(ctx, shell, "-c", command)
	cmd.Dir = e.Dir
	if e.Env != nil {
		cmd.Env = e.Env
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = e.tee(e.Stdout, os.Stdout)
	cmd.Stderr = e.tee(e.Stderr, os.Stderr)

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	if ctx.Err() != nil {
		return -1, fmt.Errorf("%s interrupted: %w", t.Name, ctx.Err())
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, fmt.Errorf("start %s: %w", t.Name, err)
}

func (e *ShellExecutor) tee(w, fallback io.Writer) io.Writer {
	if w == nil {
		w = fallback
	}
	if e.Log == nil {
		return w
	}
	return io.MultiWriter(w, e.Log)
}
