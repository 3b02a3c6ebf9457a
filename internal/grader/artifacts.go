package grader

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zinc-sig/gradeghost/internal/report"
)

const (
	CSVName      = "grade.csv"
	FeedbackName = "README.md"
)

// Artifacts are the files a grade run leaves in the repository
type Artifacts struct {
	Dir      string
	CSV      string
	Feedback string
}

// ArtifactsIn lays out the artifact files under dir
func ArtifactsIn(dir string) Artifacts {
	return Artifacts{
		Dir:      dir,
		CSV:      filepath.Join(dir, CSVName),
		Feedback: filepath.Join(dir, "feedback", FeedbackName),
	}
}

// Write renders the CSV row and feedback page
func (a Artifacts) Write(d *report.Data) error {
	if err := os.MkdirAll(filepath.Dir(a.Feedback), 0o755); err != nil {
		return fmt.Errorf("failed to create artifacts directory: %w", err)
	}

	var csv bytes.Buffer
	if err := report.WriteCSV(&csv, d); err != nil {
		return err
	}
	if err := os.WriteFile(a.CSV, csv.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", a.CSV, err)
	}

	var md bytes.Buffer
	if err := report.WriteMarkdown(&md, d); err != nil {
		return err
	}
	if err := os.WriteFile(a.Feedback, md.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", a.Feedback, err)
	}
	return nil
}

// AppendStepSummary appends the feedback page to the CI job summary file.
// An empty path is a no-op.
func AppendStepSummary(path string, d *report.Data) error {
	if path == "" {
		return nil
	}

	md, err := report.Markdown(d)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open step summary: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(md + "\n"); err != nil {
		return fmt.Errorf("failed to write step summary: %w", err)
	}
	return nil
}
