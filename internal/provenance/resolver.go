package provenance

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/zinc-sig/gradeghost/internal/history"
)

// DefaultWindow is the number of most recent commits scanned
const DefaultWindow = 800

// Confidence describes how the submission commit was chosen
type Confidence string

const (
	ConfidenceResolved Confidence = "resolved"
	ConfidenceFallback Confidence = "fallback"
	ConfidenceUnknown  Confidence = "unknown"
)

const (
	noteResolved   = "selected latest non-bot commit that changes student work (ignores grader-only commits)"
	noteOptimistic = "selected latest non-bot commit; changed files unavailable (merge or shallow history), accepted without path check"
	noteFallback   = "fallback to HEAD (no student-work commit detected)"
	noteNoCommits  = "git log returned no commits"
)

// Result is the outcome of a resolution. Commit is nil only when the
// confidence is unknown.
type Result struct {
	Commit     *history.Commit `json:"commit"`
	Confidence Confidence      `json:"confidence"`
	Note       string          `json:"note"`
}

// SubmittedAt returns the commit time, or the zero time when none is known
func (r Result) SubmittedAt() time.Time {
	if r.Commit == nil {
		return time.Time{}
	}
	return r.Commit.When
}

type options struct {
	window int
	logger zerolog.Logger
}

// Option customises Resolve
type Option func(*options)

// WithWindow bounds the number of commits scanned
func WithWindow(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.window = n
		}
	}
}

// WithLogger traces every skip and selection at debug level
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// Resolve walks the history most recent first and returns the first commit
// that is not bot-authored and touches student work. It never fails:
// history errors degrade to an unknown result and changed-file errors to
// optimistic acceptance.
func Resolve(ctx context.Context, provider history.Provider, cfg ClassifierConfig, opts ...Option) (result Result) {
	o := options{window: DefaultWindow, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	log := o.logger.With().Str("component", "provenance").Logger()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("history provider panicked")
			result = Result{Confidence: ConfidenceUnknown, Note: fmt.Sprintf("git inspection failed: %v", r)}
		}
	}()

	commits, err := provider.ListCommits(ctx, o.window)
	if err != nil {
		log.Warn().Err(err).Msg("history unavailable")
		return Result{Confidence: ConfidenceUnknown, Note: fmt.Sprintf("git inspection failed: %v", err)}
	}
	if len(commits) == 0 {
		return Result{Confidence: ConfidenceUnknown, Note: noteNoCommits}
	}
	if len(commits) > o.window {
		commits = commits[:o.window]
	}

	for i := range commits {
		commit := commits[i]
		clog := log.With().Str("sha", commit.ID).Logger()

		if cfg.IsBotLike(commit) {
			clog.Debug().Str("author", commit.AuthorName).Msg("skipping bot commit")
			continue
		}

		changed, err := provider.ChangedFiles(ctx, commit.ID)
		if err != nil {
			clog.Debug().Err(err).Msg("changed files unavailable")
			changed = nil
		}
		if len(changed) > 0 && !cfg.TouchesStudentWork(changed) {
			clog.Debug().Strs("files", changed).Msg("skipping grader-only commit")
			continue
		}

		if !commit.HasTime() {
			clog.Debug().Msg("skipping commit without timestamp")
			continue
		}

		note := noteResolved
		if len(changed) == 0 {
			note = noteOptimistic
		}
		clog.Debug().Time("when", commit.When).Msg("selected submission commit")
		return Result{Commit: &commit, Confidence: ConfidenceResolved, Note: note}
	}

	head := commits[0]
	log.Debug().Str("sha", head.ID).Int("scanned", len(commits)).Msg("no student-work commit in window")
	return Result{Commit: &head, Confidence: ConfidenceFallback, Note: noteFallback}
}
