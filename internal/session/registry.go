package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	cwerrors "github.com/vidyasagarr7/cw/internal/errors"
	"github.com/vidyasagarr7/cw/internal/git"
	"github.com/vidyasagarr7/cw/internal/naming"
	"github.com/vidyasagarr7/cw/internal/sandbox"
	"github.com/vidyasagarr7/cw/internal/tracker"
)

// dashboardName is the internal dashboard session, excluded from listings.
const dashboardName = "dashboard"

// Registry is the long-lived index over sandboxes and sessions used by the
// management operations: list, attach, kill, cleanup.
type Registry struct {
	mux       Multiplexer
	git       *git.Git
	sandboxes *sandbox.Manager
	issues    tracker.Provider
	stateDir  string
	prefix    string
}

// NewRegistry creates a Registry. issues may be nil; listing then skips
// issue titles.
func NewRegistry(mux Multiplexer, g *git.Git, sandboxes *sandbox.Manager, issues tracker.Provider, stateDir, prefix string) *Registry {
	return &Registry{
		mux:       mux,
		git:       g,
		sandboxes: sandboxes,
		issues:    issues,
		stateDir:  stateDir,
		prefix:    prefix,
	}
}

// Entry is one row of the session listing.
type Entry struct {
	Session   string
	Freshness string
	Branch    string
	Title     string
}

// List enumerates live cw sessions with freshness bands, branches, and
// best-effort issue titles. Metadata failures are tolerated: a row is
// never dropped because its branch or title could not be read.
func (r *Registry) List(ctx context.Context) ([]Entry, error) {
	sessions, err := r.mux.List(r.prefix)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	now := time.Now()
	var entries []Entry
	for _, s := range sessions {
		if s.Name == r.prefix+dashboardName {
			continue
		}

		entry := Entry{
			Session:   s.Name,
			Freshness: FreshnessBand(now.Sub(s.LastActivity)),
		}

		sandboxName := strings.TrimPrefix(s.Name, r.prefix)
		if branch, err := r.git.CurrentBranch(r.sandboxes.PathFor(sandboxName)); err == nil {
			entry.Branch = branch
		}
		if issue := naming.IssueFromSandboxName(sandboxName); issue > 0 && r.issues != nil {
			if meta, err := r.issues.Issue(ctx, issue); err == nil {
				entry.Title = meta.Title
			}
		}

		entries = append(entries, entry)
	}
	return entries, nil
}

// FreshnessBand classifies a last-activity age for display.
func FreshnessBand(age time.Duration) string {
	switch {
	case age < 2*time.Minute:
		return "active"
	case age < time.Hour:
		return fmt.Sprintf("%dm ago", int(age.Minutes()))
	case age < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(age.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(age.Hours()/24))
	}
}

// Resolve maps an operator-supplied name to a live session name: exact
// match first (with or without the configured prefix), then the first live
// session containing the name as a substring. First match wins; when
// several sessions share the substring the choice is arbitrary but stable
// for a given listing order.
func (r *Registry) Resolve(name string) (string, error) {
	sessions, err := r.mux.List(r.prefix)
	if err != nil {
		return "", fmt.Errorf("list sessions: %w", err)
	}

	for _, s := range sessions {
		if s.Name == name || s.Name == r.prefix+name {
			return s.Name, nil
		}
	}
	for _, s := range sessions {
		if strings.Contains(s.Name, name) {
			return s.Name, nil
		}
	}
	return "", cwerrors.ErrNoSuchSession(name)
}

// Attach attaches the current terminal to a session.
func (r *Registry) Attach(name string) error {
	resolved, err := r.Resolve(name)
	if err != nil {
		return err
	}
	return r.mux.Attach(resolved)
}

// Kill terminates a session. The sandbox - checkout, branch, and any
// uncommitted state - is deliberately preserved: termination is not
// destruction.
func (r *Registry) Kill(name string) error {
	resolved, err := r.Resolve(name)
	if err != nil {
		return err
	}
	return r.mux.Kill(resolved)
}

// CleanupResult reports the outcome for one sandbox.
type CleanupResult struct {
	Name    string
	Branch  string
	Removed bool
	// Reason explains why a kept sandbox was kept.
	Reason string
}

// Cleanup reclaims sandboxes that are safe to discard. For each known
// sandbox three guards apply in order; tripping any one keeps the sandbox:
//
//  1. a live session exists for it,
//  2. the checkout has uncommitted modifications,
//  3. the branch has commits not on its remote-tracked counterpart.
//
// Only a sandbox passing all three is removed, together with its
// session-metadata artifacts. A status query that fails keeps the sandbox
// too: when in doubt, keep. Guarded sandboxes are reported and the sweep
// continues; cleanup never fails loudly for a kept sandbox.
func (r *Registry) Cleanup(dryRun bool) ([]CleanupResult, error) {
	sandboxes, err := r.sandboxes.List()
	if err != nil {
		return nil, err
	}

	var results []CleanupResult
	for _, sb := range sandboxes {
		res := CleanupResult{Name: sb.Name, Branch: sb.Branch}

		if reason := r.keepReason(sb); reason != "" {
			res.Reason = reason
			results = append(results, res)
			continue
		}

		res.Removed = true
		if !dryRun {
			if err := r.sandboxes.Remove(sb); err != nil {
				res.Removed = false
				res.Reason = fmt.Sprintf("removal failed: %v", err)
				results = append(results, res)
				continue
			}
			sessionName := naming.SessionName(r.prefix, sb.Name)
			if err := os.RemoveAll(filepath.Join(r.stateDir, sessionName)); err != nil {
				res.Reason = fmt.Sprintf("state dir not removed: %v", err)
			}
		}
		results = append(results, res)
	}
	return results, nil
}

// keepReason evaluates the cleanup guards for one sandbox, returning ""
// when all guards pass and the sandbox may be reclaimed.
func (r *Registry) keepReason(sb *sandbox.Sandbox) string {
	if r.mux.HasSession(naming.SessionName(r.prefix, sb.Name)) {
		return "session active"
	}

	dirty, err := r.git.HasUncommittedChanges(sb.Path)
	if err != nil {
		return fmt.Sprintf("status unavailable: %v", err)
	}
	if dirty {
		return "uncommitted changes"
	}

	unpushed, err := r.git.UnpushedCount(sb.Path)
	if err != nil {
		return fmt.Sprintf("unpushed state unknown: %v", err)
	}
	if unpushed > 0 {
		return fmt.Sprintf("%d unpushed commit(s)", unpushed)
	}

	return ""
}
