package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// due is the built-in lab deadline, 2025-11-03T23:59:00+03:00
var due = time.Date(2025, 11, 3, 20, 59, 0, 0, time.UTC)

const workingCode = `const nums = [3, 9, 1];
console.log(Math.min(...nums), Math.max(...nums));`

type commitSpec struct {
	files  map[string]string
	author string
	email  string
	msg    string
	when   time.Time
}

// initRepo creates an on-disk repository with the given commits, oldest first
func initRepo(t *testing.T, commits ...commitSpec) string {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatal(err)
	}

	for _, c := range commits {
		for name, content := range c.files {
			full := filepath.Join(dir, name)
			if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
				t.Fatal(err)
			}
			if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := wt.Add(name); err != nil {
				t.Fatalf("add %s: %v", name, err)
			}
		}
		sig := &object.Signature{Name: c.author, Email: c.email, When: c.when}
		if _, err := wt.Commit(c.msg, &git.CommitOptions{Author: sig, Committer: sig}); err != nil {
			t.Fatalf("commit: %v", err)
		}
	}
	return dir
}

// submission is a starter commit, a student commit at when and a later
// bot commit touching only the workflow
func submission(t *testing.T, code string, when time.Time) string {
	t.Helper()
	return initRepo(t,
		commitSpec{
			files:  map[string]string{"index.html": `<script src="script.js"></script>`, "script.js": "// TODO\n"},
			author: "github-classroom[bot]",
			email:  "66690702+github-classroom[bot]@users.noreply.github.com",
			msg:    "Initial commit",
			when:   when.Add(-48 * time.Hour),
		},
		commitSpec{
			files:  map[string]string{"script.js": code},
			author: "Sara",
			email:  "sara@example.com",
			msg:    "finish lab",
			when:   when,
		},
		commitSpec{
			files:  map[string]string{".github/workflows/grade.yml": "on: push\n"},
			author: "github-actions[bot]",
			email:  "actions@github.com",
			msg:    "add grading workflow",
			when:   when.Add(72 * time.Hour),
		},
	)
}

// execute runs the command tree with args and returns stdout
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("GITHUB_STEP_SUMMARY", "")
	t.Setenv("STUDENT_USERNAME", "sara")

	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.Execute()
	if testing.Verbose() && stderr.Len() > 0 {
		t.Logf("stderr:\n%s", stderr.String())
	}
	return stdout.String(), err
}

func decode[T any](t *testing.T, data string) T {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		t.Fatalf("invalid JSON output %q: %v", data, err)
	}
	return v
}
