package sandbox

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cwerrors "github.com/vidyasagarr7/cw/internal/errors"
	"github.com/vidyasagarr7/cw/internal/git"
)

type fakeRunner struct {
	responses map[string]string
	calls     []string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{responses: map[string]string{}}
}

func (f *fakeRunner) script(cmd, out string) {
	f.responses[cmd] = out
}

func (f *fakeRunner) Run(workDir, name string, args ...string) (string, error) {
	key := name + " " + strings.Join(args, " ")
	f.calls = append(f.calls, key)
	if out, ok := f.responses[key]; ok {
		return out, nil
	}
	return "", fmt.Errorf("command failed: %s", key)
}

func newTestManager(t *testing.T) (*Manager, *fakeRunner, string) {
	t.Helper()
	root := filepath.Join(t.TempDir(), "sandboxes")
	r := newFakeRunner()
	return NewManager(git.New("/repo", r), root), r, root
}

func TestEnsure_CreatesWorktree(t *testing.T) {
	m, r, root := newTestManager(t)
	path := filepath.Join(root, "issue-423")
	r.script("git worktree add -b fix/423-x "+path+" origin/main", "")

	sb, err := m.Ensure("issue-423", "fix/423-x", "origin/main")
	require.NoError(t, err)

	assert.Equal(t, "issue-423", sb.Name)
	assert.Equal(t, path, sb.Path)
	assert.Equal(t, "fix/423-x", sb.Branch)
	assert.Equal(t, "origin/main", sb.BaseRef)
	assert.False(t, sb.CreatedAt.IsZero())
}

func TestEnsure_ReusesExistingPath(t *testing.T) {
	m, r, root := newTestManager(t)
	path := filepath.Join(root, "issue-423")
	require.NoError(t, os.MkdirAll(path, 0o755))
	r.script("git rev-parse --abbrev-ref HEAD", "fix/423-old-title")

	sb, err := m.Ensure("issue-423", "fix/423-new-title", "origin/main")
	require.NoError(t, err)

	// No worktree creation was attempted.
	for _, call := range r.calls {
		assert.NotContains(t, call, "worktree add")
	}
	// The checked-out branch wins over the freshly derived name.
	assert.Equal(t, "fix/423-old-title", sb.Branch)
}

func TestEnsure_Idempotent(t *testing.T) {
	m, r, root := newTestManager(t)
	path := filepath.Join(root, "issue-7")
	r.script("git worktree add -b feat/issue-7 "+path+" origin/main", "")
	r.script("git rev-parse --abbrev-ref HEAD", "feat/issue-7")

	first, err := m.Ensure("issue-7", "feat/issue-7", "origin/main")
	require.NoError(t, err)
	// Simulate the worktree directory the real git would have created.
	require.NoError(t, os.MkdirAll(path, 0o755))

	second, err := m.Ensure("issue-7", "feat/issue-7", "origin/main")
	require.NoError(t, err)
	assert.Equal(t, first.Path, second.Path)
	assert.Equal(t, first.Branch, second.Branch)
}

func TestEnsure_FailureIsSandboxCreationFailed(t *testing.T) {
	m, r, _ := newTestManager(t)
	r.script("git worktree prune", "")

	_, err := m.Ensure("issue-9", "feat/issue-9", "origin/main")
	require.Error(t, err)
	assert.ErrorIs(t, err, cwerrors.ErrSandboxCreationFailed("", "", nil))
	// Diagnostics carry the attempted branch and base.
	assert.Contains(t, err.Error(), "feat/issue-9")
	assert.Contains(t, err.Error(), "origin/main")
}

func TestList_FiltersToRoot(t *testing.T) {
	m, r, root := newTestManager(t)
	porcelain := fmt.Sprintf(`worktree /repo
HEAD 1111111111111111111111111111111111111111
branch refs/heads/main

worktree %s
HEAD 2222222222222222222222222222222222222222
branch refs/heads/fix/423-x
`, filepath.Join(root, "issue-423"))
	r.script("git worktree list --porcelain", porcelain)

	sandboxes, err := m.List()
	require.NoError(t, err)
	require.Len(t, sandboxes, 1)
	assert.Equal(t, "issue-423", sandboxes[0].Name)
	assert.Equal(t, "fix/423-x", sandboxes[0].Branch)
}

func TestRemove(t *testing.T) {
	m, r, root := newTestManager(t)
	path := filepath.Join(root, "issue-423")
	require.NoError(t, os.MkdirAll(path, 0o755))
	r.script("git worktree remove --force "+path, "")
	r.script("git worktree prune", "")

	sb := &Sandbox{Name: "issue-423", Path: path}
	require.NoError(t, m.Remove(sb))
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRemove_AlreadyUnregistered(t *testing.T) {
	m, _, root := newTestManager(t)
	path := filepath.Join(root, "issue-5")
	require.NoError(t, os.MkdirAll(path, 0o755))

	// git refuses (not scripted), but the directory still exists: it is
	// removed directly.
	sb := &Sandbox{Name: "issue-5", Path: path}
	require.NoError(t, m.Remove(sb))
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
