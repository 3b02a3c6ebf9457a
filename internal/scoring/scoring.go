// Package scoring turns the submission facts into marks.
package scoring

import (
	"github.com/shopspring/decimal"

	"github.com/zinc-sig/gradeghost/internal/labconfig"
)

// Status is the submission status code written to the grade CSV
type Status int

const (
	StatusOnTime       Status = 0
	StatusLate         Status = 1
	StatusNoSubmission Status = 2
)

func (s Status) String() string {
	switch s {
	case StatusOnTime:
		return "on time"
	case StatusLate:
		return "late"
	default:
		return "no submission"
	}
}

// Facts are the inputs the grader has established about a submission
type Facts struct {
	HasCode bool // A submission file was found
	Empty   bool // The file holds no meaningful code
	Late    bool
}

// Submitted reports whether there is anything to grade
func (f Facts) Submitted() bool {
	return f.HasCode && !f.Empty
}

// TaskScore is the result for one lab task
type TaskScore struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Earned decimal.Decimal `json:"earned"`
	Max    decimal.Decimal `json:"max"`
	Passed bool            `json:"passed"`
}

// Score is the complete mark breakdown
type Score struct {
	Status        Status          `json:"status"`
	Submission    decimal.Decimal `json:"submission_marks"`
	SubmissionMax decimal.Decimal `json:"submission_max"`
	Tasks         []TaskScore     `json:"tasks"`
	Total         decimal.Decimal `json:"total"`
	TotalMax      decimal.Decimal `json:"total_max"`
}

// StatusFor derives the status code from the facts
func StatusFor(f Facts) Status {
	switch {
	case !f.Submitted():
		return StatusNoSubmission
	case f.Late:
		return StatusLate
	default:
		return StatusOnTime
	}
}

// Compute awards submission marks by status and full task marks whenever
// something was submitted. The total is capped at the lab maximum.
func Compute(lab *labconfig.Lab, f Facts) Score {
	status := StatusFor(f)

	score := Score{
		Status:        status,
		SubmissionMax: lab.Submission.OnTime,
		TotalMax:      lab.TotalMarks,
	}

	switch status {
	case StatusOnTime:
		score.Submission = lab.Submission.OnTime
	case StatusLate:
		score.Submission = lab.Submission.Late
	default:
		score.Submission = decimal.Zero
	}

	earned := decimal.Zero
	for _, t := range lab.Tasks {
		ts := TaskScore{ID: t.ID, Name: t.Name, Max: t.Marks, Earned: decimal.Zero}
		if status != StatusNoSubmission {
			ts.Earned = t.Marks
			ts.Passed = true
		}
		earned = earned.Add(ts.Earned)
		score.Tasks = append(score.Tasks, ts)
	}

	score.Total = decimal.Min(earned.Add(score.Submission), lab.TotalMarks)
	return score
}
