// Package naming derives deterministic branch, sandbox, and session names
// from a task reference and issue metadata. All functions are pure: same
// inputs always yield the same names, so concurrent invocations for the same
// task converge on the same sandbox and session instead of racing.
package naming

import (
	"fmt"
	"strings"

	"github.com/vidyasagarr7/cw/internal/task"
)

// MaxSlugLength is the maximum length of the title slug in branch names.
const MaxSlugLength = 50

// prefixCategory maps a set of label keywords to a branch prefix.
type prefixCategory struct {
	prefix string
	labels []string
}

// prefixCategories is checked in order; the first category containing a
// matching label wins.
var prefixCategories = []prefixCategory{
	{"fix", []string{"bug", "fix", "hotfix", "defect"}},
	{"chore", []string{"chore", "maintenance", "refactor", "tech-debt"}},
	{"docs", []string{"docs", "documentation"}},
}

// DefaultPrefix is used when no label category matches, or when metadata
// could not be fetched at all.
const DefaultPrefix = "feat"

// PrefixForLabels selects a branch prefix from an issue's label set.
// Matching is case-insensitive; category priority is fixed (fix > chore >
// docs > feat).
func PrefixForLabels(labels []string) string {
	set := make(map[string]bool, len(labels))
	for _, l := range labels {
		set[strings.ToLower(strings.TrimSpace(l))] = true
	}
	for _, cat := range prefixCategories {
		for _, l := range cat.labels {
			if set[l] {
				return cat.prefix
			}
		}
	}
	return DefaultPrefix
}

// Slugify converts a title into a branch-safe slug: lowercase, runs of
// non-alphanumerics collapsed to single hyphens, leading/trailing hyphens
// trimmed, truncated to MaxSlugLength. Returns "" for titles with no
// usable characters.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	slug := strings.TrimRight(b.String(), "-")
	if len(slug) > MaxSlugLength {
		slug = strings.TrimRight(slug[:MaxSlugLength], "-")
	}
	return slug
}

// BranchForIssue derives the branch name for an issue task:
// {prefix}/{issue}-{slug}, or {prefix}/issue-{issue} when the title yields
// no slug.
func BranchForIssue(issue int, labels []string, title string) string {
	prefix := PrefixForLabels(labels)
	if slug := Slugify(title); slug != "" {
		return fmt.Sprintf("%s/%d-%s", prefix, issue, slug)
	}
	return fmt.Sprintf("%s/issue-%d", prefix, issue)
}

// Branch returns the working branch for a task reference. Explicit branch
// tasks use the given name as-is; issue tasks derive one from metadata.
func Branch(ref task.Ref, labels []string, title string) string {
	if !ref.IsIssue() {
		return ref.Branch
	}
	return BranchForIssue(ref.Issue, labels, title)
}

// SandboxName derives the filesystem-safe sandbox name for a task. Issue
// tasks use the fixed form issue-{id} so the name survives label and title
// edits between runs; branch tasks use the branch with path separators
// replaced.
func SandboxName(ref task.Ref, branch string) string {
	if ref.IsIssue() {
		return fmt.Sprintf("issue-%d", ref.Issue)
	}
	return strings.ReplaceAll(branch, "/", "-")
}

// SessionName derives the session name for a sandbox.
func SessionName(prefix, sandboxName string) string {
	return prefix + sandboxName
}

// IssueFromSandboxName extracts the issue number from an issue-derived
// sandbox name. Returns 0 for branch-derived names.
func IssueFromSandboxName(name string) int {
	rest, ok := strings.CutPrefix(name, "issue-")
	if !ok {
		return 0
	}
	var n int
	if _, err := fmt.Sscanf(rest, "%d", &n); err != nil {
		return 0
	}
	return n
}
