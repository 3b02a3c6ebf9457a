// Package output defines the JSON documents gradeghost prints on stdout
// and posts to the webhook.
package output

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/zinc-sig/gradeghost/internal/history"
	"github.com/zinc-sig/gradeghost/internal/provenance"
	"github.com/zinc-sig/gradeghost/internal/sandbox"
	"github.com/zinc-sig/gradeghost/internal/scoring"
)

// Resolution is the JSON form of a provenance decision
type Resolution struct {
	Commit      *history.Commit       `json:"commit,omitempty"`
	SubmittedAt *time.Time            `json:"submitted_at,omitempty"`
	Confidence  provenance.Confidence `json:"confidence"`
	Note        string                `json:"note"`
	Due         time.Time             `json:"due"`
	Late        bool                  `json:"late"`
}

// NewResolution pairs a resolver result with its lateness
func NewResolution(r provenance.Result, due time.Time) Resolution {
	res := Resolution{
		Commit:     r.Commit,
		Confidence: r.Confidence,
		Note:       r.Note,
		Due:        due,
		Late:       provenance.IsLate(r.SubmittedAt(), due),
	}
	if at := r.SubmittedAt(); !at.IsZero() {
		at = at.UTC()
		res.SubmittedAt = &at
	}
	return res
}

// Evaluation is the JSON form of an emptiness check plus sandbox run
type Evaluation struct {
	Script  string           `json:"script,omitempty"`
	Empty   bool             `json:"empty"`
	Sandbox *sandbox.Summary `json:"sandbox,omitempty"` // nil when the code was not run
}

// TaskResult is one task row of the grade
type TaskResult struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Earned decimal.Decimal `json:"earned"`
	Max    decimal.Decimal `json:"max"`
}

// Result is the complete grade of one run
type Result struct {
	Student       string          `json:"student"`
	Lab           string          `json:"lab"`
	Head          *history.Commit `json:"head,omitempty"`
	Resolution    Resolution      `json:"resolution"`
	Evaluation    Evaluation      `json:"evaluation"`
	Status        int             `json:"status"`
	StatusText    string          `json:"status_text"`
	Submission    decimal.Decimal `json:"submission_marks"`
	Tasks         []TaskResult    `json:"tasks"`
	Score         decimal.Decimal `json:"score"`
	MaxScore      decimal.Decimal `json:"max_score"`
	ExecutionTime int64           `json:"execution_time"` // in milliseconds
	DryRun        bool            `json:"dry_run,omitempty"`

	// Delivery status (only in local output, not sent to webhook)
	WebhookSent  bool   `json:"webhook_sent,omitempty"`
	WebhookError string `json:"webhook_error,omitempty"`
	UploadError  string `json:"upload_error,omitempty"`
}

// ApplyScore copies a computed score into the result
func (r *Result) ApplyScore(s scoring.Score) {
	r.Status = int(s.Status)
	r.StatusText = s.Status.String()
	r.Submission = s.Submission
	r.Score = s.Total
	r.MaxScore = s.TotalMax
	r.Tasks = make([]TaskResult, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		r.Tasks = append(r.Tasks, TaskResult{ID: t.ID, Name: t.Name, Earned: t.Earned, Max: t.Max})
	}
}

// Payload strips local-only delivery fields before the result is sent
func (r Result) Payload() Result {
	r.WebhookSent = false
	r.WebhookError = ""
	r.UploadError = ""
	return r
}

// ResolveResult is printed by the resolve command
type ResolveResult struct {
	Lab        string          `json:"lab"`
	Head       *history.Commit `json:"head,omitempty"`
	Resolution Resolution      `json:"resolution"`
}
