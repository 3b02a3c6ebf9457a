// Package provenance decides which commit marks a student's submission and
// whether that submission was late.
package provenance

import (
	"slices"
	"strings"

	"github.com/zinc-sig/gradeghost/internal/history"
)

// ClassifierConfig holds the signatures used to recognise automation
// commits and grader-owned paths. It is immutable after construction and
// safe to share.
type ClassifierConfig struct {
	botSignatures       []string
	ignoredExactPaths   []string
	ignoredPathPrefixes []string
}

// NewClassifierConfig copies its inputs. Bot signatures are matched
// case-insensitively.
func NewClassifierConfig(botSignatures, ignoredExactPaths, ignoredPathPrefixes []string) ClassifierConfig {
	bots := make([]string, 0, len(botSignatures))
	for _, s := range botSignatures {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			bots = append(bots, s)
		}
	}
	return ClassifierConfig{
		botSignatures:       bots,
		ignoredExactPaths:   slices.Clone(ignoredExactPaths),
		ignoredPathPrefixes: slices.Clone(ignoredPathPrefixes),
	}
}

var (
	defaultBotSignatures = []string{
		"[bot]",
		"github-actions",
		"actions@github.com",
		"github classroom",
		"classroom[bot]",
		"dependabot",
		"autograding",
		"workflow",
		"grader",
		"autograder",
	}
	defaultIgnoredExactPaths = []string{
		"grade.cjs",
		"package.json",
		"package-lock.json",
		"grade.yml",
		".gitignore",
	}
	defaultIgnoredPathPrefixes = []string{
		".github/workflows/",
		"artifacts/",
		"node_modules/",
	}
)

// DefaultClassifierConfig returns the signatures used by GitHub Classroom
// lab repositories
func DefaultClassifierConfig() ClassifierConfig {
	return NewClassifierConfig(defaultBotSignatures, defaultIgnoredExactPaths, defaultIgnoredPathPrefixes)
}

// BotSignatures returns a copy of the lowercased signatures
func (c ClassifierConfig) BotSignatures() []string { return slices.Clone(c.botSignatures) }

// IgnoredExactPaths returns a copy of the ignored exact paths
func (c ClassifierConfig) IgnoredExactPaths() []string { return slices.Clone(c.ignoredExactPaths) }

// IgnoredPathPrefixes returns a copy of the ignored path prefixes
func (c ClassifierConfig) IgnoredPathPrefixes() []string { return slices.Clone(c.ignoredPathPrefixes) }

// IsBotLike reports whether the author, email or subject of the commit
// contains any bot signature
func (c ClassifierConfig) IsBotLike(commit history.Commit) bool {
	hay := strings.ToLower(commit.AuthorName + " " + commit.AuthorEmail + " " + commit.Subject)
	for _, sig := range c.botSignatures {
		if strings.Contains(hay, sig) {
			return true
		}
	}
	return false
}

// IsIgnoredPath reports whether path belongs to grading infrastructure.
// An empty path is ignored.
func (c ClassifierConfig) IsIgnoredPath(path string) bool {
	if path == "" {
		return true
	}
	if slices.Contains(c.ignoredExactPaths, path) {
		return true
	}
	for _, prefix := range c.ignoredPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// TouchesStudentWork reports whether any path is outside the ignored set
func (c ClassifierConfig) TouchesStudentWork(paths []string) bool {
	return slices.ContainsFunc(paths, func(p string) bool { return !c.IsIgnoredPath(p) })
}
