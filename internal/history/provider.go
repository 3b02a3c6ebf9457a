// Package history reads commit history from a repository checkout.
//
// Two backends satisfy Provider: GitCLI shells out to the git binary and
// GoGit reads the object store directly. Both report changed files with
// git diff-tree semantics, so root and merge commits come back empty.
package history

import (
	"context"
	"fmt"
	"time"
)

// Commit is a single entry of the commit log. A zero When means the
// timestamp could not be read.
type Commit struct {
	ID          string    `json:"sha"`
	When        time.Time `json:"time"`
	AuthorName  string    `json:"author"`
	AuthorEmail string    `json:"email"`
	Subject     string    `json:"subject"`
}

// HasTime reports whether the commit carries a usable timestamp
func (c Commit) HasTime() bool {
	return !c.When.IsZero()
}

// Provider supplies commit history, most recent first
type Provider interface {
	// ListCommits returns at most maxCount commits reachable from HEAD
	ListCommits(ctx context.Context, maxCount int) ([]Commit, error)

	// ChangedFiles returns the paths touched by the commit. An empty
	// result means the list is unknown.
	ChangedFiles(ctx context.Context, id string) ([]string, error)
}

const (
	BackendGit   = "git"
	BackendGoGit = "go-git"
)

// Open returns the provider for the named backend rooted at dir
func Open(backend, dir string) (Provider, error) {
	switch backend {
	case "", BackendGit:
		return NewGitCLI(dir), nil
	case BackendGoGit:
		return OpenGoGit(dir)
	default:
		return nil, fmt.Errorf("unknown history backend: %s", backend)
	}
}
