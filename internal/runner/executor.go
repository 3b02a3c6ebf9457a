package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"syscall"
	"time"
)

// Status is the terminal state of a command run
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusTimeout Status = "timeout"
)

type Config struct {
	Command string
	Args    []string
	Dir     string    // Working directory, empty means the current one
	Stdout  io.Writer // Discarded when nil
	Stderr  io.Writer // Discarded when nil
	Timeout time.Duration
}

type Result struct {
	Command       string
	Status        Status
	ExitCode      int
	ExecutionTime int64 // milliseconds
}

// FullCommand joins the command and its arguments the way they are reported
func (c *Config) FullCommand() string {
	if len(c.Args) == 0 {
		return c.Command
	}
	return c.Command + " " + strings.Join(c.Args, " ")
}

// Execute runs the configured command to completion or until the timeout
// elapses. A non-zero exit is reported through the Result, not as an error;
// errors are returned only when the command could not be started.
func Execute(ctx context.Context, config *Config) (*Result, error) {
	if config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, config.Command, config.Args...)
	cmd.Dir = config.Dir
	cmd.Stdout = config.Stdout
	cmd.Stderr = config.Stderr

	startTime := time.Now()
	err := cmd.Run()
	executionTime := time.Since(startTime).Milliseconds()

	result := &Result{
		Command:       config.FullCommand(),
		Status:        StatusSuccess,
		ExecutionTime: executionTime,
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		result.Status = StatusTimeout
		result.ExitCode = -1
		return result, nil
	}

	if err != nil {
		var exitError *exec.ExitError
		if !errors.As(err, &exitError) {
			return nil, fmt.Errorf("failed to start command: %w", err)
		}
		result.Status = StatusFailed
		if status, ok := exitError.Sys().(syscall.WaitStatus); ok {
			result.ExitCode = status.ExitStatus()
		} else {
			result.ExitCode = 1
		}
	}

	return result, nil
}
