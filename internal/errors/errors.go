// Package errors provides structured error types for cw.
package errors

import (
	"fmt"
	"strings"
)

// Code represents a unique error code.
type Code string

// Error codes for cw.
const (
	// Resolution errors - these abort a start before anything is created.
	CodeBaseNotFound          Code = "BASE_NOT_FOUND"
	CodeSandboxCreationFailed Code = "SANDBOX_CREATION_FAILED"

	// Session errors
	CodeNoSuchSession Code = "NO_SUCH_SESSION"

	// Soft errors - degraded, never abort a start.
	CodeMetadataUnavailable Code = "METADATA_UNAVAILABLE"
	CodePlanArtifactMissing Code = "PLAN_ARTIFACT_MISSING"

	// Config errors
	CodeConfigInvalid Code = "CONFIG_INVALID"
)

// CWError is the structured error type for cw.
type CWError struct {
	Code  Code
	What  string
	Why   string
	Fix   string
	Cause error
}

// Error implements the error interface.
func (e *CWError) Error() string {
	var b strings.Builder
	b.WriteString(e.What)
	if e.Why != "" {
		b.WriteString(": ")
		b.WriteString(e.Why)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *CWError) Unwrap() error {
	return e.Cause
}

// UserMessage returns a user-friendly message for CLI output.
func (e *CWError) UserMessage() string {
	var b strings.Builder
	b.WriteString("Error: ")
	b.WriteString(e.What)
	if e.Why != "" {
		b.WriteString("\n\nWhy: ")
		b.WriteString(e.Why)
	}
	if e.Fix != "" {
		b.WriteString("\n\nFix: ")
		b.WriteString(e.Fix)
	}
	return b.String()
}

// Is reports whether target is a CWError with the same code.
func (e *CWError) Is(target error) bool {
	t, ok := target.(*CWError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithCause returns a copy of the error with the given cause.
func (e *CWError) WithCause(err error) *CWError {
	return &CWError{
		Code:  e.Code,
		What:  e.What,
		Why:   e.Why,
		Fix:   e.Fix,
		Cause: err,
	}
}

// --- Error constructors ---

// ErrBaseNotFound returns an error when a base branch cannot be resolved.
// This is a hard stop: forking from an undefined point would silently
// produce an unrelated history, so nothing is created.
func ErrBaseNotFound(base string) *CWError {
	return &CWError{
		Code: CodeBaseNotFound,
		What: fmt.Sprintf("base branch '%s' not found", base),
		Why:  "The branch exists neither locally nor on the remote",
		Fix:  "Check the branch name, or fetch it first with 'git fetch origin " + base + "'",
	}
}

// ErrSandboxCreationFailed returns an error when a sandbox could not be
// materialized. The attempted branch and base are included for diagnosis.
func ErrSandboxCreationFailed(branch, base string, cause error) *CWError {
	return &CWError{
		Code:  CodeSandboxCreationFailed,
		What:  fmt.Sprintf("failed to create sandbox for branch '%s'", branch),
		Why:   fmt.Sprintf("git worktree creation from base '%s' failed", base),
		Fix:   "Check 'git worktree list' for stale entries, then re-run the command",
		Cause: cause,
	}
}

// ErrNoSuchSession returns an error for attach/kill on an unknown session name.
func ErrNoSuchSession(name string) *CWError {
	return &CWError{
		Code: CodeNoSuchSession,
		What: fmt.Sprintf("no session matching '%s'", name),
		Why:  "No live session has this name or contains it as a substring",
		Fix:  "Run 'cw list' to see live sessions",
	}
}

// ErrMetadataUnavailable returns a soft error for issue-tracker fetch
// failures. Callers degrade to defaults rather than aborting.
func ErrMetadataUnavailable(issue int, cause error) *CWError {
	return &CWError{
		Code:  CodeMetadataUnavailable,
		What:  fmt.Sprintf("could not fetch metadata for issue #%d", issue),
		Why:   "The issue tracker was unreachable or the issue does not exist",
		Fix:   "Branch naming falls back to defaults; check 'gh auth status' if this persists",
		Cause: cause,
	}
}

// ErrPlanArtifactMissing returns a soft error when phase 1 of a two-phase
// run produced no plan artifact. A placeholder is substituted so phase 2
// still proceeds.
func ErrPlanArtifactMissing(path string) *CWError {
	return &CWError{
		Code: CodePlanArtifactMissing,
		What: fmt.Sprintf("plan artifact '%s' missing or empty", path),
		Why:  "The planning phase exited without writing a plan",
		Fix:  "Execution continues with a placeholder plan; review the session transcript",
	}
}

// ErrConfigInvalid returns an error for invalid configuration.
func ErrConfigInvalid(field, reason string) *CWError {
	return &CWError{
		Code: CodeConfigInvalid,
		What: fmt.Sprintf("invalid configuration: %s", field),
		Why:  reason,
		Fix:  "Check .cw/config.yaml and fix the invalid field",
	}
}
