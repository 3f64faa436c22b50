package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cwerrors "github.com/vidyasagarr7/cw/internal/errors"
	"github.com/vidyasagarr7/cw/internal/git"
	"github.com/vidyasagarr7/cw/internal/sandbox"
	"github.com/vidyasagarr7/cw/internal/tracker"
)

// dirFakeRunner scripts git responses per working directory, so two
// sandboxes can report different statuses for the same command.
type dirFakeRunner struct {
	responses map[string]string
	failures  map[string]string
	calls     []string
}

func newDirFakeRunner() *dirFakeRunner {
	return &dirFakeRunner{responses: map[string]string{}, failures: map[string]string{}}
}

func (f *dirFakeRunner) script(dir, cmd, out string) {
	f.responses[dir+"|"+cmd] = out
}

func (f *dirFakeRunner) scriptErr(dir, cmd, message string) {
	f.failures[dir+"|"+cmd] = message
}

func (f *dirFakeRunner) Run(workDir, name string, args ...string) (string, error) {
	cmd := name + " " + strings.Join(args, " ")
	f.calls = append(f.calls, workDir+"|"+cmd)
	if msg, ok := f.failures[workDir+"|"+cmd]; ok {
		return "", fmt.Errorf("%s", msg)
	}
	if out, ok := f.responses[workDir+"|"+cmd]; ok {
		return out, nil
	}
	return "", fmt.Errorf("command failed: %s", cmd)
}

func (f *dirFakeRunner) called(fragment string) bool {
	for _, c := range f.calls {
		if strings.Contains(c, fragment) {
			return true
		}
	}
	return false
}

type fakeProvider struct {
	issues map[int]tracker.Issue
}

func (f *fakeProvider) Issue(_ context.Context, number int) (*tracker.Issue, error) {
	if issue, ok := f.issues[number]; ok {
		return &issue, nil
	}
	return nil, fmt.Errorf("no issue %d", number)
}

type registryFixture struct {
	registry *Registry
	mux      *FakeMultiplexer
	runner   *dirFakeRunner
	root     string
	stateDir string
}

func newRegistryFixture(t *testing.T) *registryFixture {
	t.Helper()
	root := filepath.Join(t.TempDir(), "sandboxes")
	stateDir := t.TempDir()
	r := newDirFakeRunner()
	mux := NewFakeMultiplexer()
	g := git.New("/repo", r)
	provider := &fakeProvider{issues: map[int]tracker.Issue{
		423: {Number: 423, Title: "Login redirect broken"},
	}}
	return &registryFixture{
		registry: NewRegistry(mux, g, sandbox.NewManager(g, root), provider, stateDir, "cw-"),
		mux:      mux,
		runner:   r,
		root:     root,
		stateDir: stateDir,
	}
}

func TestFreshnessBand(t *testing.T) {
	tests := []struct {
		age  time.Duration
		want string
	}{
		{30 * time.Second, "active"},
		{119 * time.Second, "active"},
		{5 * time.Minute, "5m ago"},
		{59 * time.Minute, "59m ago"},
		{3 * time.Hour, "3h ago"},
		{49 * time.Hour, "2d ago"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FreshnessBand(tt.age), tt.age.String())
	}
}

func TestResolve(t *testing.T) {
	f := newRegistryFixture(t)
	f.mux.AddSession("cw-issue-423", time.Now())
	f.mux.AddSession("cw-spike-caching", time.Now())

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"full session name", "cw-issue-423", "cw-issue-423"},
		{"name without prefix", "issue-423", "cw-issue-423"},
		{"substring", "423", "cw-issue-423"},
		{"substring of branch-derived name", "spike", "cw-spike-caching"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.registry.Resolve(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("unknown name", func(t *testing.T) {
		_, err := f.registry.Resolve("nope")
		require.Error(t, err)
		assert.ErrorIs(t, err, cwerrors.ErrNoSuchSession(""))
	})
}

func TestList(t *testing.T) {
	f := newRegistryFixture(t)
	f.mux.AddSession("cw-issue-423", time.Now().Add(-10*time.Minute))
	f.mux.AddSession("cw-dashboard", time.Now())
	f.runner.script(filepath.Join(f.root, "issue-423"),
		"git rev-parse --abbrev-ref HEAD", "fix/423-login-redirect-broken")

	entries, err := f.registry.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1, "dashboard session must not be listed")

	e := entries[0]
	assert.Equal(t, "cw-issue-423", e.Session)
	assert.Equal(t, "10m ago", e.Freshness)
	assert.Equal(t, "fix/423-login-redirect-broken", e.Branch)
	assert.Equal(t, "Login redirect broken", e.Title)
}

func TestList_MetadataFailuresAreTolerated(t *testing.T) {
	f := newRegistryFixture(t)
	// No branch scripted, issue 999 unknown to the provider.
	f.mux.AddSession("cw-issue-999", time.Now())

	entries, err := f.registry.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "cw-issue-999", entries[0].Session)
	assert.Empty(t, entries[0].Branch)
	assert.Empty(t, entries[0].Title)
}

func TestKill_PreservesSandbox(t *testing.T) {
	f := newRegistryFixture(t)
	f.mux.AddSession("cw-issue-423", time.Now())

	require.NoError(t, f.registry.Kill("issue-423"))

	assert.Equal(t, []string{"cw-issue-423"}, f.mux.Killed)
	assert.False(t, f.mux.HasSession("cw-issue-423"))
	// The checkout is untouched: no worktree operation ran.
	assert.False(t, f.runner.called("worktree remove"))
}

// worktreeListing renders the porcelain output for the main checkout plus
// the given sandbox names under root.
func worktreeListing(root string, names ...string) string {
	var b strings.Builder
	b.WriteString("worktree /repo\nHEAD 1111111111111111111111111111111111111111\nbranch refs/heads/main\n")
	for i, name := range names {
		fmt.Fprintf(&b, "\nworktree %s\nHEAD %040d\nbranch refs/heads/feat/%s\n",
			filepath.Join(root, name), i+2, name)
	}
	return b.String()
}

func TestCleanup_GuardMatrix(t *testing.T) {
	f := newRegistryFixture(t)
	names := []string{"issue-1", "issue-2", "issue-3", "issue-4", "issue-5"}
	f.runner.script("/repo", "git worktree list --porcelain", worktreeListing(f.root, names...))

	path := func(name string) string { return filepath.Join(f.root, name) }

	// issue-1: live session.
	f.mux.AddSession("cw-issue-1", time.Now())
	// issue-2: uncommitted changes.
	f.runner.script(path("issue-2"), "git status --porcelain", " M main.go")
	// issue-3: clean but ahead of its upstream.
	f.runner.script(path("issue-3"), "git status --porcelain", "")
	f.runner.script(path("issue-3"), "git rev-list --count @{upstream}..HEAD", "2")
	// issue-4: clean and fully pushed, the only reclaimable one.
	f.runner.script(path("issue-4"), "git status --porcelain", "")
	f.runner.script(path("issue-4"), "git rev-list --count @{upstream}..HEAD", "0")
	f.runner.script("/repo", "git worktree remove --force "+path("issue-4"), "")
	f.runner.script("/repo", "git worktree prune", "")
	// issue-5: status query fails (nothing scripted).

	stateFour := filepath.Join(f.stateDir, "cw-issue-4")
	require.NoError(t, os.MkdirAll(stateFour, 0o755))

	results, err := f.registry.Cleanup(false)
	require.NoError(t, err)
	require.Len(t, results, 5)

	byName := map[string]CleanupResult{}
	for _, res := range results {
		byName[res.Name] = res
	}

	assert.Equal(t, "session active", byName["issue-1"].Reason)
	assert.Equal(t, "uncommitted changes", byName["issue-2"].Reason)
	assert.Equal(t, "2 unpushed commit(s)", byName["issue-3"].Reason)
	assert.Contains(t, byName["issue-5"].Reason, "status unavailable")
	for _, name := range []string{"issue-1", "issue-2", "issue-3", "issue-5"} {
		assert.False(t, byName[name].Removed, name)
	}

	assert.True(t, byName["issue-4"].Removed)
	assert.Empty(t, byName["issue-4"].Reason)
	assert.Equal(t, "feat/issue-4", byName["issue-4"].Branch)
	// The session metadata went with it.
	_, statErr := os.Stat(stateFour)
	assert.True(t, os.IsNotExist(statErr))
}

func TestCleanup_UpstreamFallback(t *testing.T) {
	f := newRegistryFixture(t)
	f.runner.script("/repo", "git worktree list --porcelain", worktreeListing(f.root, "issue-7"))

	path := filepath.Join(f.root, "issue-7")
	f.runner.script(path, "git status --porcelain", "")
	// No upstream configured; the branch is compared against the remote
	// default instead and still counts as unpushed.
	f.runner.script("/repo", "git symbolic-ref --short refs/remotes/origin/HEAD", "origin/main")
	f.runner.script(path, "git rev-list --count origin/main..HEAD", "3")

	results, err := f.registry.Cleanup(false)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Removed)
	assert.Equal(t, "3 unpushed commit(s)", results[0].Reason)
}

func TestCleanup_DryRun(t *testing.T) {
	f := newRegistryFixture(t)
	f.runner.script("/repo", "git worktree list --porcelain", worktreeListing(f.root, "issue-4"))

	path := filepath.Join(f.root, "issue-4")
	f.runner.script(path, "git status --porcelain", "")
	f.runner.script(path, "git rev-list --count @{upstream}..HEAD", "0")

	stateFour := filepath.Join(f.stateDir, "cw-issue-4")
	require.NoError(t, os.MkdirAll(stateFour, 0o755))

	results, err := f.registry.Cleanup(true)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Removed)

	// Nothing was actually touched.
	assert.False(t, f.runner.called("worktree remove"))
	_, statErr := os.Stat(stateFour)
	assert.NoError(t, statErr)
}
