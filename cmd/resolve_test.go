package cmd

import (
	"testing"
	"time"

	"github.com/zinc-sig/gradeghost/internal/output"
	"github.com/zinc-sig/gradeghost/internal/provenance"
)

func TestResolveCommand(t *testing.T) {
	tests := []struct {
		name     string
		when     time.Time
		extra    []string
		wantLate bool
	}{
		{name: "before the deadline", when: due.Add(-time.Hour)},
		{name: "exactly at the deadline", when: due},
		{name: "after the deadline", when: due.Add(time.Second), wantLate: true},
		{
			name:  "deadline override",
			when:  due.Add(time.Hour),
			extra: []string{"--due", "2025-11-10T23:59:00+03:00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := submission(t, workingCode, tt.when)

			args := append([]string{"resolve", "--repo", repo, "--history-backend", "go-git"}, tt.extra...)
			stdout, err := execute(t, args...)
			if err != nil {
				t.Fatalf("resolve error = %v", err)
			}

			res := decode[output.ResolveResult](t, stdout)
			if res.Resolution.Confidence != provenance.ConfidenceResolved {
				t.Errorf("Confidence = %q, want resolved", res.Resolution.Confidence)
			}
			if res.Resolution.Commit == nil || res.Resolution.Commit.AuthorName != "Sara" {
				t.Fatalf("Commit = %+v, want the student commit", res.Resolution.Commit)
			}
			if !res.Resolution.Commit.When.Equal(tt.when) {
				t.Errorf("When = %v, want %v", res.Resolution.Commit.When, tt.when)
			}
			if res.Resolution.Late != tt.wantLate {
				t.Errorf("Late = %v, want %v", res.Resolution.Late, tt.wantLate)
			}
			if res.Head == nil || res.Head.AuthorName != "github-actions[bot]" {
				t.Errorf("Head = %+v, want the workflow commit", res.Head)
			}
		})
	}
}

func TestResolveCommandBotOnlyHistory(t *testing.T) {
	repo := initRepo(t, commitSpec{
		files:  map[string]string{"script.js": "// starter\n"},
		author: "github-classroom[bot]",
		email:  "classroom@github.com",
		msg:    "Initial commit",
		when:   due.Add(-time.Hour),
	})

	stdout, err := execute(t, "resolve", "--repo", repo, "--history-backend", "go-git")
	if err != nil {
		t.Fatalf("resolve error = %v", err)
	}

	res := decode[output.ResolveResult](t, stdout)
	if res.Resolution.Confidence != provenance.ConfidenceFallback {
		t.Errorf("Confidence = %q, want fallback", res.Resolution.Confidence)
	}
	if res.Resolution.Commit == nil || res.Resolution.Commit.Subject != "Initial commit" {
		t.Errorf("Commit = %+v, want the most recent commit", res.Resolution.Commit)
	}
}

func TestResolveCommandErrors(t *testing.T) {
	repo := submission(t, workingCode, due)

	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown backend", args: []string{"resolve", "--repo", repo, "--history-backend", "svn"}},
		{name: "due without offset", args: []string{"resolve", "--repo", repo, "--due", "2025-11-03 23:59"}},
		{name: "missing repository", args: []string{"resolve", "--repo", repo + "-missing"}},
		{name: "negative window", args: []string{"resolve", "--repo", repo, "--window", "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
