package provenance

import (
	"context"
	"errors"
	"time"

	"github.com/zinc-sig/gradeghost/internal/history"
)

// fakeHistory serves a fixed commit list and changed-file table
type fakeHistory struct {
	commits  []history.Commit
	files    map[string][]string
	fileErrs map[string]error
	listErr  error
	lookups  []string
	maxSeen  int
}

func (f *fakeHistory) ListCommits(ctx context.Context, maxCount int) ([]history.Commit, error) {
	f.maxSeen = maxCount
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.commits, nil
}

func (f *fakeHistory) ChangedFiles(ctx context.Context, id string) ([]string, error) {
	f.lookups = append(f.lookups, id)
	if err := f.fileErrs[id]; err != nil {
		return nil, err
	}
	return f.files[id], nil
}

var epoch = time.Date(2025, 11, 3, 20, 0, 0, 0, time.UTC)

func studentCommit(id string, minutes int) history.Commit {
	return history.Commit{
		ID:          id,
		When:        epoch.Add(time.Duration(minutes) * time.Minute),
		AuthorName:  "Sara",
		AuthorEmail: "sara@example.com",
		Subject:     "work on " + id,
	}
}

func botCommit(id string, minutes int) history.Commit {
	return history.Commit{
		ID:          id,
		When:        epoch.Add(time.Duration(minutes) * time.Minute),
		AuthorName:  "github-actions[bot]",
		AuthorEmail: "41898282+github-actions[bot]@users.noreply.github.com",
		Subject:     "Update grade",
	}
}

var errBoom = errors.New("boom")
