// Package report renders the grade into the artifacts a lab repository
// keeps: a Markdown feedback page and a one-row CSV.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/zinc-sig/gradeghost/internal/history"
	"github.com/zinc-sig/gradeghost/internal/provenance"
	"github.com/zinc-sig/gradeghost/internal/sandbox"
	"github.com/zinc-sig/gradeghost/internal/scoring"
)

// Data is everything the feedback page shows
type Data struct {
	LabName     string
	StudentID   string
	ScriptPath  string
	HasCode     bool
	Empty       bool
	DueRaw      string
	Head        *history.Commit
	Resolution  provenance.Result
	Score       scoring.Score
	Sandbox     *sandbox.Summary // nil when the code was not evaluated
	GeneratedAt time.Time
}

// CSVHeader is fixed; downstream gradebooks import it by column name
var CSVHeader = []string{"student_username", "obtained_marks", "total_marks", "status"}

// WriteCSV writes the header and the student's row
func WriteCSV(w io.Writer, d *Data) error {
	cw := csv.NewWriter(w)
	rows := [][]string{
		CSVHeader,
		{
			d.StudentID,
			d.Score.Total.String(),
			d.Score.TotalMax.String(),
			fmt.Sprintf("%d", d.Score.Status),
		},
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write grade csv: %w", err)
	}
	return nil
}

func commitISO(c *history.Commit) string {
	if c == nil || !c.HasTime() {
		return "unknown"
	}
	return c.When.UTC().Format(time.RFC3339)
}

func commitSHA(c *history.Commit) string {
	if c == nil || c.ID == "" {
		return "unknown"
	}
	return c.ID
}

func commitAuthor(c *history.Commit) string {
	if c == nil {
		return "`unknown` <unknown>"
	}
	return fmt.Sprintf("`%s` <%s>", orUnknown(c.AuthorName), orUnknown(c.AuthorEmail))
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

var funcs = template.FuncMap{
	"iso":       commitISO,
	"sha":       commitSHA,
	"author":    commitAuthor,
	"timestamp": func(t time.Time) string { return t.UTC().Format(time.RFC3339) },
}

var feedback = template.Must(template.New("feedback").Funcs(funcs).Parse(
	`# Lab | {{.LabName}} | Autograding Summary

- Student: ` + "`{{.StudentID}}`" + `
- {{.FileNote}}
- {{.StatusNote}}
- Due: ` + "`{{.DueRaw}}`" + `

- Repo HEAD commit:
  - SHA: ` + "`{{sha .Head}}`" + `
  - Author: {{author .Head}}
  - Time (UTC ISO): ` + "`{{iso .Head}}`" + `

- Chosen commit for submission timing:
  - SHA: ` + "`{{sha .Resolution.Commit}}`" + `
  - Author: {{author .Resolution.Commit}}
  - Time (UTC ISO): ` + "`{{iso .Resolution.Commit}}`" + `
  - Confidence: {{.Resolution.Confidence}}
  - Note: {{.Resolution.Note}}

- Status: **{{printf "%d" .Score.Status}}** (0=on time, 1=late, 2=no submission/empty)
- Run: ` + "`{{timestamp .GeneratedAt}}`" + `

## Marks Breakdown

| Item | Marks |
|------|------:|
{{range .Score.Tasks}}| {{.ID}}: {{.Name}} | {{.Earned}}/{{.Max}} |
{{end}}| Submission | {{.Score.Submission}}/{{.Score.SubmissionMax}} |

## Total Marks

**{{.Score.Total}} / {{.Score.TotalMax}}**

## Detailed Feedback
{{range .Score.Tasks}}
### {{.ID}}: {{.Name}}
{{if .Passed}}- ✅ Completed{{else}}- ❌ No submission / empty JS → cannot grade tasks{{end}}
{{end}}{{.SandboxNote}}`))

type view struct {
	*Data
	FileNote    string
	StatusNote  string
	SandboxNote string
}

// WriteMarkdown renders the feedback page
func WriteMarkdown(w io.Writer, d *Data) error {
	v := view{Data: d, FileNote: fileNote(d), StatusNote: statusNote(d), SandboxNote: sandboxNote(d)}
	if err := feedback.Execute(w, v); err != nil {
		return fmt.Errorf("failed to render feedback: %w", err)
	}
	return nil
}

// Markdown renders the feedback page to a string
func Markdown(d *Data) (string, error) {
	var b strings.Builder
	if err := WriteMarkdown(&b, d); err != nil {
		return "", err
	}
	return b.String(), nil
}

func fileNote(d *Data) string {
	switch {
	case !d.HasCode:
		return "❌ No student JS file found in repository root (or index.html link)."
	case d.Empty:
		return fmt.Sprintf("⚠️ Found `%s` but it appears empty (or only comments).", d.ScriptPath)
	default:
		return fmt.Sprintf("✅ Found `%s`.", d.ScriptPath)
	}
}

func statusNote(d *Data) string {
	commit := d.Resolution.Commit
	ref := fmt.Sprintf("(commit: %s @ %s)", commitSHA(commit), commitISO(commit))

	switch d.Score.Status {
	case scoring.StatusLate:
		return fmt.Sprintf("Late submission via latest *student-work* commit: %s/%s. %s", d.Score.Submission, d.Score.SubmissionMax, ref)
	case scoring.StatusOnTime:
		return fmt.Sprintf("On-time submission via latest *student-work* commit: %s/%s. %s", d.Score.Submission, d.Score.SubmissionMax, ref)
	default:
		return fmt.Sprintf("No submission detected (missing/empty JS): submission marks = 0/%s.", d.Score.SubmissionMax)
	}
}

func sandboxNote(d *Data) string {
	if d.Sandbox == nil {
		return ""
	}
	switch d.Sandbox.Kind {
	case sandbox.KindCompileError:
		return "\n---\n⚠️ **SyntaxError: code could not compile.** Dynamic checks were skipped; grading used static checks only.\n\n```\n" + d.Sandbox.Message + "\n```\n"
	case sandbox.KindRuntimeError:
		return "\n---\n⚠️ **Runtime error detected (best-effort captured):**\n\n```\n" + d.Sandbox.Message + "\n```\n"
	case sandbox.KindTimeout:
		return "\n---\n⚠️ **Execution timed out.** The code was stopped after the time budget.\n"
	default:
		return ""
	}
}
