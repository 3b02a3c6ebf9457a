// Package discovery locates the student's submission inside a checkout.
package discovery

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var (
	htmlComment = regexp.MustCompile(`(?s)<!--.*?-->`)
	scriptSrc   = regexp.MustCompile(`(?is)<script\b[^>]*\bsrc\s*=\s*["']([^"']+)["'][^>]*>\s*</script\s*>`)
	remoteURL   = regexp.MustCompile(`(?i)^https?://`)
)

// Candidates are tried in order when index.html links no local script
var Candidates = []string{"script.js", "app.js", "main.js", "index.js"}

// ScriptSources returns the src attributes of external scripts in html,
// ignoring commented-out tags
func ScriptSources(html string) []string {
	html = htmlComment.ReplaceAllString(html, "")
	var srcs []string
	for _, m := range scriptSrc.FindAllStringSubmatch(html, -1) {
		srcs = append(srcs, m[1])
	}
	return srcs
}

// FindScript returns the submission file relative to root, or "" when
// none is found. index.html script links win over the conventional names,
// which win over any other top-level .js file.
func FindScript(root string) string {
	if html, err := os.ReadFile(filepath.Join(root, "index.html")); err == nil {
		for _, src := range ScriptSources(string(html)) {
			if remoteURL.MatchString(src) {
				continue
			}
			rel := filepath.Clean(strings.TrimPrefix(src, "/"))
			if strings.HasPrefix(rel, "..") {
				continue
			}
			if strings.HasSuffix(strings.ToLower(rel), ".js") && isFile(filepath.Join(root, rel)) {
				return rel
			}
		}
	}

	for _, name := range Candidates {
		if isFile(filepath.Join(root, name)) {
			return name
		}
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return ""
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	for _, name := range names {
		lower := strings.ToLower(name)
		if strings.HasSuffix(lower, ".js") {
			return name
		}
	}
	return ""
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// StudentID derives the student's handle from the CI environment
func StudentID(getenv func(string) string) string {
	repoFull := getenv("GITHUB_REPOSITORY")
	repoName := repoFull
	if _, name, ok := strings.Cut(repoFull, "/"); ok {
		repoName = name
	}

	var suffix string
	if i := strings.LastIndex(repoName, "-"); i >= 0 {
		suffix = repoName[i+1:]
	}

	for _, candidate := range []string{getenv("STUDENT_USERNAME"), suffix, getenv("GITHUB_ACTOR"), repoName} {
		if candidate != "" {
			return candidate
		}
	}
	return "student"
}
