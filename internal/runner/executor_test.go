package runner

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestExecute(t *testing.T) {
	tests := []struct {
		name          string
		config        *Config
		wantStatus    Status
		wantExitCode  int
		wantStdout    string
		wantStderr    string
		wantError     bool
		errorContains string
	}{
		{
			name:         "successful echo command",
			config:       &Config{Command: "echo", Args: []string{"hello world"}},
			wantStatus:   StatusSuccess,
			wantExitCode: 0,
			wantStdout:   "hello world\n",
		},
		{
			name:         "command with non-zero exit code",
			config:       &Config{Command: "sh", Args: []string{"-c", "exit 42"}},
			wantStatus:   StatusFailed,
			wantExitCode: 42,
		},
		{
			name:         "command writes to stderr",
			config:       &Config{Command: "sh", Args: []string{"-c", "echo 'error message' >&2"}},
			wantStatus:   StatusSuccess,
			wantExitCode: 0,
			wantStderr:   "error message\n",
		},
		{
			name:         "command with multiple arguments",
			config:       &Config{Command: "sh", Args: []string{"-c", "echo $1 $2 $3", "sh", "arg1", "arg2", "arg3"}},
			wantStatus:   StatusSuccess,
			wantExitCode: 0,
			wantStdout:   "arg1 arg2 arg3\n",
		},
		{
			name:         "false command returns exit code 1",
			config:       &Config{Command: "false"},
			wantStatus:   StatusFailed,
			wantExitCode: 1,
		},
		{
			name:          "non-existent command",
			config:        &Config{Command: "nonexistentcommand12345"},
			wantError:     true,
			errorContains: "failed to start command",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			tt.config.Stdout = &stdout
			tt.config.Stderr = &stderr

			result, err := Execute(context.Background(), tt.config)

			if tt.wantError {
				if err == nil {
					t.Fatalf("expected error but got none")
				}
				if tt.errorContains != "" && !strings.Contains(err.Error(), tt.errorContains) {
					t.Errorf("error = %v, want error containing %q", err, tt.errorContains)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Status != tt.wantStatus {
				t.Errorf("status = %s, want %s", result.Status, tt.wantStatus)
			}
			if result.ExitCode != tt.wantExitCode {
				t.Errorf("exit code = %d, want %d", result.ExitCode, tt.wantExitCode)
			}
			if result.ExecutionTime < 0 {
				t.Errorf("execution time should be non-negative, got %d ms", result.ExecutionTime)
			}
			if stdout.String() != tt.wantStdout {
				t.Errorf("stdout = %q, want %q", stdout.String(), tt.wantStdout)
			}
			if stderr.String() != tt.wantStderr {
				t.Errorf("stderr = %q, want %q", stderr.String(), tt.wantStderr)
			}
		})
	}
}

func TestExecuteWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	var stdout bytes.Buffer

	result, err := Execute(context.Background(), &Config{
		Command: "pwd",
		Dir:     dir,
		Stdout:  &stdout,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusSuccess {
		t.Fatalf("status = %s, want success", result.Status)
	}
	// macOS tmp dirs resolve through /private
	if !strings.HasSuffix(strings.TrimSpace(stdout.String()), strings.TrimPrefix(dir, "/private")) {
		t.Errorf("pwd = %q, want %q", stdout.String(), dir)
	}
}

func TestExecutionTime(t *testing.T) {
	start := time.Now()
	result, err := Execute(context.Background(), &Config{
		Command: "sh",
		Args:    []string{"-c", "sleep 0.2"},
	})
	elapsed := time.Since(start).Milliseconds()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ExecutionTime < 200 {
		t.Errorf("execution time too short: %d ms, expected at least 200 ms", result.ExecutionTime)
	}

	diff := elapsed - result.ExecutionTime
	if diff < -50 || diff > 50 {
		t.Errorf("execution time %d ms differs significantly from actual elapsed time %d ms",
			result.ExecutionTime, elapsed)
	}
}

func TestFullCommand(t *testing.T) {
	c := &Config{Command: "git", Args: []string{"log", "-n", "5"}}
	if got := c.FullCommand(); got != "git log -n 5" {
		t.Errorf("FullCommand() = %q", got)
	}
	c = &Config{Command: "true"}
	if got := c.FullCommand(); got != "true" {
		t.Errorf("FullCommand() = %q", got)
	}
}
