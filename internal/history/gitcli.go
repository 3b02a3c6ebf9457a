package history

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/zinc-sig/gradeghost/internal/runner"
)

// fieldSep separates log fields; subjects may contain any printable text
const fieldSep = "\x1f"

const logFormat = "--format=%H%x1f%ct%x1f%an%x1f%ae%x1f%s"

// GitCLI reads history by running the git binary
type GitCLI struct {
	Dir     string
	Binary  string
	Timeout time.Duration // Per git invocation
}

// NewGitCLI creates a GitCLI provider for the checkout at dir
func NewGitCLI(dir string) *GitCLI {
	return &GitCLI{
		Dir:     dir,
		Binary:  "git",
		Timeout: 10 * time.Second,
	}
}

func (g *GitCLI) run(ctx context.Context, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	result, err := runner.Execute(ctx, &runner.Config{
		Command: g.Binary,
		Args:    args,
		Dir:     g.Dir,
		Stdout:  &stdout,
		Stderr:  &stderr,
		Timeout: g.Timeout,
	})
	if err != nil {
		return "", err
	}

	switch result.Status {
	case runner.StatusTimeout:
		return "", fmt.Errorf("%s timed out after %s", result.Command, g.Timeout)
	case runner.StatusFailed:
		return "", fmt.Errorf("%s exited with %d: %s", result.Command, result.ExitCode, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// ListCommits runs git log and parses one commit per line
func (g *GitCLI) ListCommits(ctx context.Context, maxCount int) ([]Commit, error) {
	out, err := g.run(ctx, "log", logFormat, "-n", strconv.Itoa(maxCount))
	if err != nil {
		return nil, fmt.Errorf("failed to list commits: %w", err)
	}
	return parseLog(out), nil
}

// ChangedFiles runs git diff-tree for a single commit
func (g *GitCLI) ChangedFiles(ctx context.Context, id string) ([]string, error) {
	out, err := g.run(ctx, "diff-tree", "--no-commit-id", "--name-only", "-r", id)
	if err != nil {
		return nil, fmt.Errorf("failed to list changed files for %s: %w", id, err)
	}
	return splitLines(out), nil
}

func parseLog(out string) []Commit {
	var commits []Commit
	for _, line := range splitLines(out) {
		parts := strings.SplitN(line, fieldSep, 5)
		for len(parts) < 5 {
			parts = append(parts, "")
		}

		commit := Commit{
			ID:          parts[0],
			AuthorName:  parts[2],
			AuthorEmail: parts[3],
			Subject:     parts[4],
		}
		if seconds, err := strconv.ParseInt(parts[1], 10, 64); err == nil {
			commit.When = time.Unix(seconds, 0).UTC()
		}
		commits = append(commits, commit)
	}
	return commits
}

func splitLines(out string) []string {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
