// Package git wraps the git operations cw needs: worktree management,
// branch existence checks, base-reference resolution, and the status
// queries backing the cleanup guards.
package git

import (
	"fmt"
	"strconv"
	"strings"

	cwerrors "github.com/vidyasagarr7/cw/internal/errors"
)

// DefaultRemote is the remote all remote-tracking queries go through.
const DefaultRemote = "origin"

// baseCandidates is the probe order when the remote's default branch
// pointer cannot be resolved.
var baseCandidates = []string{"main", "master", "develop"}

// Git provides git operations rooted at a repository.
type Git struct {
	repoPath string
	run      CommandRunner
}

// New creates a Git instance for the repository at repoPath.
func New(repoPath string, runner CommandRunner) *Git {
	return &Git{repoPath: repoPath, run: runner}
}

// RepoPath returns the repository root this instance operates on.
func (g *Git) RepoPath() string {
	return g.repoPath
}

// RepoRoot resolves the top-level directory of the repository containing dir.
func RepoRoot(dir string, runner CommandRunner) (string, error) {
	out, err := runner.Run(dir, "git", "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("not inside a git repository: %w", err)
	}
	return out, nil
}

func (g *Git) git(args ...string) (string, error) {
	return g.run.Run(g.repoPath, "git", args...)
}

func (g *Git) gitIn(dir string, args ...string) (string, error) {
	return g.run.Run(dir, "git", args...)
}

// LocalBranchExists reports whether a branch exists locally.
func (g *Git) LocalBranchExists(branch string) bool {
	_, err := g.git("show-ref", "--verify", "--quiet", "refs/heads/"+branch)
	return err == nil
}

// RemoteBranchExists reports whether a remote-tracking ref exists for branch.
// This checks refs already known locally; it does not hit the network.
func (g *Git) RemoteBranchExists(branch string) bool {
	_, err := g.git("show-ref", "--verify", "--quiet", "refs/remotes/"+DefaultRemote+"/"+branch)
	return err == nil
}

// DefaultBranch determines the repository's default branch.
// Resolution order:
//  1. The remote-tracked default pointer (origin/HEAD).
//  2. Refresh the pointer with 'remote set-head --auto' and retry once.
//  3. Probe main/master/develop against known remote branches.
//  4. Literal "main".
func (g *Git) DefaultBranch() string {
	if branch := g.remoteHead(); branch != "" {
		return branch
	}

	// origin/HEAD may simply never have been set locally; ask the remote.
	if _, err := g.git("remote", "set-head", DefaultRemote, "--auto"); err == nil {
		if branch := g.remoteHead(); branch != "" {
			return branch
		}
	}

	for _, candidate := range baseCandidates {
		if g.RemoteBranchExists(candidate) {
			return candidate
		}
	}

	return "main"
}

// remoteHead reads the origin/HEAD symbolic ref, returning the bare branch
// name or "" if unresolved.
func (g *Git) remoteHead() string {
	out, err := g.git("symbolic-ref", "--short", "refs/remotes/"+DefaultRemote+"/HEAD")
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(out, DefaultRemote+"/")
}

// ResolveBase resolves a base branch name to a concrete reference, preferring
// the remote-tracked copy over a local-only branch. An empty name resolves
// the repository default first. Returns BaseNotFound if the branch exists
// neither remotely nor locally; nothing should be created from an undefined
// fork point.
func (g *Git) ResolveBase(name string) (string, error) {
	if name == "" {
		name = g.DefaultBranch()
	}
	if g.RemoteBranchExists(name) {
		return DefaultRemote + "/" + name, nil
	}
	if g.LocalBranchExists(name) {
		return name, nil
	}
	return "", cwerrors.ErrBaseNotFound(name)
}

// AddWorktree creates a worktree at path on a new branch forked from base.
// If the branch already exists (stale state from a prior crash), the
// existing branch is attached to the new worktree instead. A failed attempt
// prunes stale worktree registrations and retries once.
func (g *Git) AddWorktree(path, branch, base string) error {
	if _, err := g.git("worktree", "add", "-b", branch, path, base); err == nil {
		return nil
	}
	if _, err := g.git("worktree", "add", path, branch); err == nil {
		return nil
	}

	// Stale registration: the directory was deleted but git still tracks it.
	_, _ = g.git("worktree", "prune")

	if _, err := g.git("worktree", "add", "-b", branch, path, base); err == nil {
		return nil
	}
	_, err := g.git("worktree", "add", path, branch)
	return err
}

// RemoveWorktree removes the worktree at path. Callers are expected to have
// verified the cleanup guards first; --force only discards ignored files at
// that point.
func (g *Git) RemoveWorktree(path string) error {
	if _, err := g.git("worktree", "remove", "--force", path); err != nil {
		return fmt.Errorf("remove worktree %s: %w", path, err)
	}
	_, _ = g.git("worktree", "prune")
	return nil
}

// Worktree is one entry from 'git worktree list --porcelain'.
type Worktree struct {
	Path   string
	Head   string
	Branch string
}

// ListWorktrees enumerates the repository's worktrees.
func (g *Git) ListWorktrees() ([]Worktree, error) {
	out, err := g.git("worktree", "list", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("list worktrees: %w", err)
	}
	return parseWorktreeList(out), nil
}

// parseWorktreeList parses the output of git worktree list --porcelain.
func parseWorktreeList(output string) []Worktree {
	var worktrees []Worktree
	var current Worktree

	flush := func() {
		if current.Path != "" {
			worktrees = append(worktrees, current)
			current = Worktree{}
		}
	}

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}
		switch {
		case strings.HasPrefix(line, "worktree "):
			current.Path = strings.TrimPrefix(line, "worktree ")
		case strings.HasPrefix(line, "HEAD "):
			current.Head = strings.TrimPrefix(line, "HEAD ")
		case strings.HasPrefix(line, "branch "):
			current.Branch = strings.TrimPrefix(strings.TrimPrefix(line, "branch "), "refs/heads/")
		}
	}
	flush()

	return worktrees
}

// CurrentBranch returns the branch checked out in dir.
func (g *Git) CurrentBranch(dir string) (string, error) {
	out, err := g.gitIn(dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("current branch in %s: %w", dir, err)
	}
	return out, nil
}

// HasUncommittedChanges reports whether the checkout at dir has any
// uncommitted modifications, including untracked files.
func (g *Git) HasUncommittedChanges(dir string) (bool, error) {
	out, err := g.gitIn(dir, "status", "--porcelain")
	if err != nil {
		return false, fmt.Errorf("status in %s: %w", dir, err)
	}
	return out != "", nil
}

// UnpushedCount returns the number of commits on HEAD in dir that are not
// present on its remote-tracked counterpart. A branch with no upstream is
// compared against the remote default branch instead, so work on a
// never-pushed branch still counts as unpushed.
func (g *Git) UnpushedCount(dir string) (int, error) {
	out, err := g.gitIn(dir, "rev-list", "--count", "@{upstream}..HEAD")
	if err == nil {
		return parseCount(out)
	}

	fallback := DefaultRemote + "/" + g.DefaultBranch()
	out, fbErr := g.gitIn(dir, "rev-list", "--count", fallback+"..HEAD")
	if fbErr != nil {
		return 0, fmt.Errorf("count unpushed commits in %s: %w", dir, err)
	}
	return parseCount(out)
}

func parseCount(out string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil {
		return 0, fmt.Errorf("parse rev-list count %q: %w", out, err)
	}
	return n, nil
}
