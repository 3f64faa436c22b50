// Package task defines task references: the unit of work a sandbox is bound to.
package task

import (
	"fmt"
	"strconv"
	"strings"
)

// Ref identifies a task: either an issue number or an explicit branch name.
// Immutable once resolved into a sandbox.
type Ref struct {
	Issue  int
	Branch string
}

// ParseRef parses a task reference argument.
// A purely numeric argument (optionally prefixed with '#') is an issue
// number; anything else is treated as an explicit branch name.
func ParseRef(arg string) (Ref, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return Ref{}, fmt.Errorf("empty task reference")
	}

	numeric := strings.TrimPrefix(arg, "#")
	if n, err := strconv.Atoi(numeric); err == nil {
		if n <= 0 {
			return Ref{}, fmt.Errorf("invalid issue number: %d", n)
		}
		return Ref{Issue: n}, nil
	}

	return Ref{Branch: arg}, nil
}

// IsIssue reports whether the reference is an issue task.
func (r Ref) IsIssue() bool {
	return r.Issue > 0
}

// String returns the reference in the form it was given.
func (r Ref) String() string {
	if r.IsIssue() {
		return fmt.Sprintf("#%d", r.Issue)
	}
	return r.Branch
}
