// Package grader runs the full grading pipeline for one checkout:
// discovery, provenance, lateness, sandbox check and scoring.
package grader

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/zinc-sig/gradeghost/internal/discovery"
	"github.com/zinc-sig/gradeghost/internal/history"
	"github.com/zinc-sig/gradeghost/internal/labconfig"
	"github.com/zinc-sig/gradeghost/internal/output"
	"github.com/zinc-sig/gradeghost/internal/provenance"
	"github.com/zinc-sig/gradeghost/internal/report"
	"github.com/zinc-sig/gradeghost/internal/sandbox"
	"github.com/zinc-sig/gradeghost/internal/scoring"
)

// Grader grades the checkout at Root
type Grader struct {
	Root    string
	Lab     *labconfig.Lab
	History history.Provider
	Getenv  func(string) string
	Now     func() time.Time
	Logger  zerolog.Logger
}

// Grade is the outcome of one run in both of its forms
type Grade struct {
	Result *output.Result
	Report *report.Data
}

// Run grades the submission. Only an unreadable submission file is an
// error; history and sandbox failures are folded into the grade.
func (g *Grader) Run(ctx context.Context) (*Grade, error) {
	start := time.Now()
	getenv := g.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	now := g.Now
	if now == nil {
		now = time.Now
	}

	student := discovery.StudentID(getenv)
	logger := g.Logger.With().Str("student", student).Logger()

	eval := Inspect(g.Root, g.Lab.Timeout, logger)

	resolution := provenance.Resolve(ctx, g.History, g.Lab.Classifier(),
		provenance.WithWindow(g.Lab.Window),
		provenance.WithLogger(logger),
	)
	res := output.NewResolution(resolution, g.Lab.Due)

	logger.Info().
		Str("confidence", string(resolution.Confidence)).
		Bool("late", res.Late).
		Msg(resolution.Note)

	facts := scoring.Facts{
		HasCode: eval.Script != "",
		Empty:   eval.Empty,
		Late:    res.Late,
	}
	score := scoring.Compute(g.Lab, facts)
	head := headCommit(ctx, g.History)

	result := &output.Result{
		Student:    student,
		Lab:        g.Lab.Name,
		Head:       head,
		Resolution: res,
		Evaluation: eval,
	}
	result.ApplyScore(score)
	result.ExecutionTime = time.Since(start).Milliseconds()

	data := &report.Data{
		LabName:     g.Lab.Name,
		StudentID:   student,
		ScriptPath:  eval.Script,
		HasCode:     facts.HasCode,
		Empty:       facts.Empty,
		DueRaw:      g.Lab.DueRaw,
		Head:        head,
		Resolution:  resolution,
		Score:       score,
		Sandbox:     eval.Sandbox,
		GeneratedAt: now().UTC(),
	}

	logger.Info().
		Str("status", score.Status.String()).
		Str("score", score.Total.String()).
		Str("max", score.TotalMax.String()).
		Msg("graded")

	return &Grade{Result: result, Report: data}, nil
}

// Inspect discovers the submission under root, checks it for emptiness and
// runs it in the sandbox when there is code to run
func Inspect(root string, timeout time.Duration, logger zerolog.Logger) output.Evaluation {
	script := discovery.FindScript(root)
	if script == "" {
		logger.Warn().Str("root", root).Msg("no submission script found")
		return output.Evaluation{Empty: true}
	}

	code, err := os.ReadFile(filepath.Join(root, script))
	if err != nil {
		// an unreadable script grades the same as an empty one
		logger.Warn().Err(err).Str("script", script).Msg("failed to read submission")
		return output.Evaluation{Script: script, Empty: true}
	}
	return EvaluateSource(script, string(code), timeout, logger)
}

// EvaluateSource checks code for emptiness and, if it has content, runs it
// in the sandbox
func EvaluateSource(name, code string, timeout time.Duration, logger zerolog.Logger) output.Evaluation {
	eval := output.Evaluation{Script: name, Empty: sandbox.IsEmptyCode(code)}
	if eval.Empty {
		logger.Info().Str("script", name).Msg("submission is empty")
		return eval
	}

	outcome := sandbox.Evaluate(code, sandbox.WithTimeout(timeout), sandbox.WithLogger(logger))
	summary := sandbox.Summarize(outcome)
	eval.Sandbox = &summary

	logger.Info().Str("script", name).Str("outcome", string(summary.Kind)).Msg("sandbox finished")
	return eval
}

func headCommit(ctx context.Context, p history.Provider) *history.Commit {
	commits, err := p.ListCommits(ctx, 1)
	if err != nil || len(commits) == 0 {
		return nil
	}
	return &commits[0]
}
