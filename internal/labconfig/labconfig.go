// Package labconfig loads the per-lab grading configuration: deadline,
// marks, and the classifier signatures used to resolve submission time.
package labconfig

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/zinc-sig/gradeghost/internal/provenance"
	"github.com/zinc-sig/gradeghost/internal/sandbox"
)

// Task is one graded item of the lab
type Task struct {
	ID    string          `yaml:"id"`
	Name  string          `yaml:"name"`
	Marks decimal.Decimal `yaml:"marks"`
}

// SubmissionMarks are awarded for handing in on time or late
type SubmissionMarks struct {
	OnTime decimal.Decimal `yaml:"on_time"`
	Late   decimal.Decimal `yaml:"late"`
}

// Lab is the parsed configuration. Due is resolved once at load time.
type Lab struct {
	Name            string          `yaml:"lab_name"`
	DueRaw          string          `yaml:"due"`
	Window          int             `yaml:"window"`
	SandboxTimeout  string          `yaml:"sandbox_timeout"`
	TotalMarks      decimal.Decimal `yaml:"total_marks"`
	Submission      SubmissionMarks `yaml:"submission"`
	Tasks           []Task          `yaml:"tasks"`
	Bots            []string        `yaml:"bots"`
	IgnoredExact    []string        `yaml:"ignored_exact"`
	IgnoredPrefixes []string        `yaml:"ignored_prefixes"`

	Due     time.Time     `yaml:"-"`
	Timeout time.Duration `yaml:"-"`
}

// defaults describe the back-end fundamentals lab
func defaults() *Lab {
	lab := &Lab{
		Name:       "5-7-back-end-fundamentals",
		DueRaw:     "2025-11-03T23:59:00+03:00",
		Window:     provenance.DefaultWindow,
		TotalMarks: decimal.NewFromInt(100),
		Submission: SubmissionMarks{
			OnTime: decimal.NewFromInt(20),
			Late:   decimal.NewFromInt(10),
		},
		Tasks: []Task{
			{ID: "TODO 1", Name: "Object with Getters & Setters (Student: fullName + GPA validation)", Marks: decimal.NewFromInt(11)},
			{ID: "TODO 2", Name: "Object as Map + for...in loop", Marks: decimal.NewFromInt(11)},
			{ID: "TODO 3", Name: "String — charAt() & length", Marks: decimal.NewFromInt(11)},
			{ID: "TODO 4", Name: "Date — day, month, year", Marks: decimal.NewFromInt(11)},
			{ID: "TODO 5", Name: "Array + Spread — min and max from 10 numbers", Marks: decimal.NewFromInt(11)},
			{ID: "TODO 6", Name: "Exceptions — try/catch/finally with empty array edge case", Marks: decimal.NewFromInt(11)},
			{ID: "TODO 7", Name: "Regex + forEach — find words containing 'ab'", Marks: decimal.NewFromInt(14)},
		},
	}
	classifier := provenance.DefaultClassifierConfig()
	lab.Bots = classifier.BotSignatures()
	lab.IgnoredExact = classifier.IgnoredExactPaths()
	lab.IgnoredPrefixes = classifier.IgnoredPathPrefixes()
	return lab
}

// Load reads a YAML lab file over the defaults. An empty path returns the
// defaults.
func Load(path string) (*Lab, error) {
	lab := defaults()
	if path == "" {
		if err := lab.resolve(); err != nil {
			return nil, err
		}
		return lab, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lab config: %w", err)
	}
	if err := yaml.Unmarshal(data, lab); err != nil {
		return nil, fmt.Errorf("invalid lab config %s: %w", path, err)
	}
	if err := lab.resolve(); err != nil {
		return nil, fmt.Errorf("invalid lab config %s: %w", path, err)
	}
	return lab, nil
}

// SetDue overrides the deadline with an RFC 3339 timestamp
func (l *Lab) SetDue(raw string) error {
	due, err := parseDue(raw)
	if err != nil {
		return err
	}
	l.DueRaw = raw
	l.Due = due
	return nil
}

// Classifier builds the immutable classifier configuration for the lab
func (l *Lab) Classifier() provenance.ClassifierConfig {
	return provenance.NewClassifierConfig(l.Bots, l.IgnoredExact, l.IgnoredPrefixes)
}

// TaskMarks sums the marks of every task
func (l *Lab) TaskMarks() decimal.Decimal {
	sum := decimal.Zero
	for _, t := range l.Tasks {
		sum = sum.Add(t.Marks)
	}
	return sum
}

func (l *Lab) resolve() error {
	due, err := parseDue(l.DueRaw)
	if err != nil {
		return err
	}
	l.Due = due

	l.Timeout = sandbox.DefaultTimeout
	if l.SandboxTimeout != "" {
		d, err := time.ParseDuration(l.SandboxTimeout)
		if err != nil {
			return fmt.Errorf("invalid sandbox_timeout: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("sandbox_timeout must be positive")
		}
		l.Timeout = d
	}

	if l.Window <= 0 {
		l.Window = provenance.DefaultWindow
	}
	if !l.TotalMarks.IsPositive() {
		return fmt.Errorf("total_marks must be positive")
	}
	for _, t := range l.Tasks {
		if t.Marks.IsNegative() {
			return fmt.Errorf("task %s has negative marks", t.ID)
		}
	}
	return nil
}

// parseDue requires an explicit offset so the deadline never depends on
// the grader's local zone
func parseDue(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("due date is required")
	}
	due, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid due date %q (want RFC 3339 with offset): %w", raw, err)
	}
	return due, nil
}
