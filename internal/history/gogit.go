package history

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// GoGit reads history straight from the repository object store
type GoGit struct {
	repo *git.Repository
}

// NewGoGit wraps an already opened repository
func NewGoGit(repo *git.Repository) *GoGit {
	return &GoGit{repo: repo}
}

// OpenGoGit opens the repository containing dir
func OpenGoGit(dir string) (*GoGit, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository %s: %w", dir, err)
	}
	return NewGoGit(repo), nil
}

// ListCommits walks from HEAD in committer-time order. In a shallow clone
// the walk stops at the shallow boundary, like git log does.
func (g *GoGit) ListCommits(ctx context.Context, maxCount int) ([]Commit, error) {
	head, err := g.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve HEAD: %w", err)
	}

	boundary, err := g.shallowBoundary()
	if err != nil {
		return nil, err
	}

	tip, err := g.repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to load HEAD commit: %w", err)
	}

	pending := []*object.Commit{tip}
	seen := map[plumbing.Hash]bool{tip.Hash: true}

	var commits []Commit
	for len(pending) > 0 && len(commits) < maxCount {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Newest pending commit first; ties keep discovery order
		next := 0
		for i, c := range pending[1:] {
			if c.Committer.When.After(pending[next].Committer.When) {
				next = i + 1
			}
		}
		c := pending[next]
		pending = append(pending[:next], pending[next+1:]...)
		commits = append(commits, toCommit(c))

		if boundary[c.Hash] {
			continue
		}
		for _, ph := range c.ParentHashes {
			if seen[ph] {
				continue
			}
			seen[ph] = true

			parent, err := g.repo.CommitObject(ph)
			if err != nil {
				if errors.Is(err, plumbing.ErrObjectNotFound) && len(boundary) > 0 {
					continue
				}
				return nil, fmt.Errorf("failed to walk log: %w", err)
			}
			pending = append(pending, parent)
		}
	}
	return commits, nil
}

// shallowBoundary returns the commits whose parents were cut off by a
// shallow clone
func (g *GoGit) shallowBoundary() (map[plumbing.Hash]bool, error) {
	hashes, err := g.repo.Storer.Shallow()
	if err != nil {
		return nil, fmt.Errorf("failed to read shallow file: %w", err)
	}
	boundary := make(map[plumbing.Hash]bool, len(hashes))
	for _, h := range hashes {
		boundary[h] = true
	}
	return boundary, nil
}

// ChangedFiles diffs a single-parent commit against its parent. Root and
// merge commits report nothing, matching git diff-tree without --root or -m.
func (g *GoGit) ChangedFiles(ctx context.Context, id string) ([]string, error) {
	c, err := g.repo.CommitObject(plumbing.NewHash(id))
	if err != nil {
		return nil, fmt.Errorf("failed to load commit %s: %w", id, err)
	}
	if c.NumParents() != 1 {
		return nil, nil
	}

	// The parent of a shallow boundary commit is not in the object store
	boundary, err := g.shallowBoundary()
	if err != nil {
		return nil, err
	}
	if boundary[c.Hash] {
		return nil, nil
	}

	parent, err := c.Parent(0)
	if err != nil {
		return nil, fmt.Errorf("failed to load parent of %s: %w", id, err)
	}
	parentTree, err := parent.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to load tree of %s: %w", parent.Hash, err)
	}
	tree, err := c.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to load tree of %s: %w", id, err)
	}

	changes, err := object.DiffTreeWithOptions(ctx, parentTree, tree, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to diff %s: %w", id, err)
	}

	var files []string
	for _, change := range changes {
		name := change.To.Name
		if name == "" {
			name = change.From.Name
		}
		files = append(files, name)
	}
	return files, nil
}

func toCommit(c *object.Commit) Commit {
	subject, _, _ := strings.Cut(c.Message, "\n")
	return Commit{
		ID:          c.Hash.String(),
		When:        c.Committer.When.UTC(),
		AuthorName:  c.Author.Name,
		AuthorEmail: c.Author.Email,
		Subject:     strings.TrimSpace(subject),
	}
}
