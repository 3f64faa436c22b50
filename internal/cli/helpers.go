package cli

import (
	"fmt"
	"os"

	"github.com/vidyasagarr7/cw/internal/agent"
	"github.com/vidyasagarr7/cw/internal/config"
	"github.com/vidyasagarr7/cw/internal/git"
	"github.com/vidyasagarr7/cw/internal/sandbox"
	"github.com/vidyasagarr7/cw/internal/session"
	"github.com/vidyasagarr7/cw/internal/tracker"
)

// app wires the collaborators every command needs. Construction reads
// configuration exactly once; nothing re-reads ambient state afterwards.
type app struct {
	cfg       *config.Config
	repoRoot  string
	git       *git.Git
	sandboxes *sandbox.Manager
	mux       session.Multiplexer
	issues    tracker.Provider
	launcher  *session.Launcher
	registry  *session.Registry
}

// newApp builds the dependency graph for the repository containing the
// current working directory.
func newApp() (*app, error) {
	runner := git.NewExecRunner()

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}
	repoRoot, err := git.RepoRoot(cwd, runner)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(repoRoot)
	if err != nil {
		return nil, err
	}

	g := git.New(repoRoot, runner)
	sandboxes := sandbox.NewManager(g, cfg.ResolveSandboxDir(repoRoot))
	mux := session.NewTmux(runner)
	issues := tracker.NewClient(repoRoot, runner)
	runtime := agent.Runtime{
		Path:            cfg.ClaudePath,
		SkipPermissions: cfg.DangerouslySkipPermissions,
	}

	return &app{
		cfg:       cfg,
		repoRoot:  repoRoot,
		git:       g,
		sandboxes: sandboxes,
		mux:       mux,
		issues:    issues,
		launcher:  session.NewLauncher(mux, runtime, cfg.StateDir),
		registry:  session.NewRegistry(mux, g, sandboxes, issues, cfg.StateDir, cfg.SessionPrefix),
	}, nil
}

// withModelOverride returns cfg, or a copy with the single-phase model
// replaced when override is non-empty. The loaded config itself is never
// mutated.
func withModelOverride(cfg *config.Config, override string) *config.Config {
	if override == "" {
		return cfg
	}
	c := *cfg
	c.Model = override
	return &c
}

// truncate shortens s to max bytes with an ellipsis.
func truncate(s string, max int) string {
	if max <= 3 || len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
