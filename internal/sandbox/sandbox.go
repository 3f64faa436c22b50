// Package sandbox manages isolated filesystem checkouts, one per task.
// A sandbox is a git worktree bound to a working branch, created under a
// dedicated root so the main checkout is never touched.
package sandbox

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	cwerrors "github.com/vidyasagarr7/cw/internal/errors"
	"github.com/vidyasagarr7/cw/internal/git"
)

// Sandbox is the unit of isolation: one checkout, one branch, one task.
type Sandbox struct {
	Name      string
	Path      string
	Branch    string
	BaseRef   string
	CreatedAt time.Time
}

// Manager creates, enumerates, and removes sandboxes under a single root
// directory.
type Manager struct {
	git  *git.Git
	root string
}

// NewManager creates a Manager rooted at root.
func NewManager(g *git.Git, root string) *Manager {
	return &Manager{git: g, root: root}
}

// Root returns the sandbox root directory.
func (m *Manager) Root() string {
	return m.root
}

// PathFor returns the checkout path for a sandbox name.
func (m *Manager) PathFor(name string) string {
	return filepath.Join(m.root, name)
}

// Ensure materializes the sandbox for a task, or reuses it if it already
// exists. Re-invocation after a crash or restart is a no-op: an existing
// path is reused without mutation, and an existing branch (stale state from
// a prior run) is attached rather than treated as an error.
func (m *Manager) Ensure(name, branch, baseRef string) (*Sandbox, error) {
	path := m.PathFor(name)

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		sb := &Sandbox{Name: name, Path: path, Branch: branch, BaseRef: baseRef, CreatedAt: info.ModTime()}
		// Report the branch actually checked out, which wins over the
		// derived name if metadata changed between runs.
		if current, err := m.git.CurrentBranch(path); err == nil {
			sb.Branch = current
		}
		return sb, nil
	}

	if err := os.MkdirAll(m.root, 0o755); err != nil {
		return nil, cwerrors.ErrSandboxCreationFailed(branch, baseRef, err)
	}

	if err := m.git.AddWorktree(path, branch, baseRef); err != nil {
		return nil, cwerrors.ErrSandboxCreationFailed(branch, baseRef, err)
	}

	return &Sandbox{
		Name:      name,
		Path:      path,
		Branch:    branch,
		BaseRef:   baseRef,
		CreatedAt: time.Now(),
	}, nil
}

// List enumerates the sandboxes under the manager's root, reading each
// checkout's branch from git's worktree registry.
func (m *Manager) List() ([]*Sandbox, error) {
	worktrees, err := m.git.ListWorktrees()
	if err != nil {
		return nil, fmt.Errorf("enumerate sandboxes: %w", err)
	}

	rootPrefix := m.root + string(filepath.Separator)
	var sandboxes []*Sandbox
	for _, wt := range worktrees {
		if !strings.HasPrefix(wt.Path, rootPrefix) {
			continue // the main checkout, or a worktree cw does not own
		}
		sb := &Sandbox{
			Name:   filepath.Base(wt.Path),
			Path:   wt.Path,
			Branch: wt.Branch,
		}
		if info, err := os.Stat(wt.Path); err == nil {
			sb.CreatedAt = info.ModTime()
		}
		sandboxes = append(sandboxes, sb)
	}

	return sandboxes, nil
}

// Remove deletes a sandbox's checkout and any leftover directory. The
// working branch is left in place: reclaiming the sandbox must not destroy
// history that may only exist locally elsewhere.
func (m *Manager) Remove(sb *Sandbox) error {
	if err := m.git.RemoveWorktree(sb.Path); err != nil {
		// The worktree may already be gone from git's registry; remove
		// the directory if it still exists.
		if _, statErr := os.Stat(sb.Path); statErr == nil {
			if rmErr := os.RemoveAll(sb.Path); rmErr != nil {
				return fmt.Errorf("remove sandbox %s: %w", sb.Name, err)
			}
			return nil
		}
		return err
	}
	// git worktree remove deletes the checkout; clear any residue.
	_ = os.RemoveAll(sb.Path)
	return nil
}
