// Package config provides configuration management for cw.
//
// Configuration is read once at process start and treated as immutable:
// every component receives the loaded Config by value or pointer and never
// re-reads ambient state mid-operation.
package config

import (
	"os"
	"path/filepath"
	"strings"

	cwerrors "github.com/vidyasagarr7/cw/internal/errors"
)

const (
	// ConfigFileName is the config file name inside CWDir.
	ConfigFileName = "config.yaml"
	// CWDir is the cw configuration directory.
	CWDir = ".cw"
)

// Config represents the cw configuration.
type Config struct {
	// Model is the default model for single-phase execution.
	Model string `yaml:"model"`

	// PlanModel and ExecModel enable two-phase execution when both are set
	// and a task label matches PlanLabels.
	PlanModel string `yaml:"plan_model,omitempty"`
	ExecModel string `yaml:"exec_model,omitempty"`

	// PlanLabels is the set of issue labels that trigger two-phase planning.
	PlanLabels []string `yaml:"plan_labels,omitempty"`

	// Claude CLI settings
	ClaudePath                 string `yaml:"claude_path"`
	DangerouslySkipPermissions bool   `yaml:"dangerously_skip_permissions"`

	// SandboxDir is the root for sandbox worktrees, relative to the
	// repository root unless absolute.
	SandboxDir string `yaml:"sandbox_dir"`

	// StateDir holds per-session metadata: entry scripts and instruction
	// payloads, keyed by session name.
	StateDir string `yaml:"state_dir"`

	// SessionPrefix namespaces cw's tmux sessions.
	SessionPrefix string `yaml:"session_prefix"`

	// BaseBranch overrides auto-detection of the fork point.
	BaseBranch string `yaml:"base_branch,omitempty"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Model:         "sonnet",
		ClaudePath:    "claude",
		SandboxDir:    filepath.Join(CWDir, "sandboxes"),
		StateDir:      defaultStateDir(),
		SessionPrefix: "cw-",
	}
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(CWDir, "sessions")
	}
	return filepath.Join(home, CWDir, "sessions")
}

// Validate checks the configuration for invariant violations.
func (c *Config) Validate() error {
	if c.Model == "" {
		return cwerrors.ErrConfigInvalid("model", "default model must not be empty")
	}
	if c.SessionPrefix == "" {
		return cwerrors.ErrConfigInvalid("session_prefix", "session prefix must not be empty")
	}
	if strings.ContainsAny(c.SessionPrefix, " \t:") {
		return cwerrors.ErrConfigInvalid("session_prefix", "session prefix must not contain spaces or ':'")
	}
	return nil
}

// TwoPhaseMisconfigured reports whether exactly one of the two phase
// models is set. This is not a validation error: execution degrades to
// single-phase, but the operator probably wanted two-phase.
func (c *Config) TwoPhaseMisconfigured() bool {
	return (c.PlanModel == "") != (c.ExecModel == "")
}

// ResolveSandboxDir resolves the sandbox root against the repository root.
func (c *Config) ResolveSandboxDir(repoRoot string) string {
	if filepath.IsAbs(c.SandboxDir) {
		return c.SandboxDir
	}
	return filepath.Join(repoRoot, c.SandboxDir)
}
