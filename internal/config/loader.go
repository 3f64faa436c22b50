package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads configuration for the repository at repoRoot.
// Load order (later sources override earlier):
//  1. Built-in defaults
//  2. User config (~/.cw/config.yaml) - optional
//  3. Project config (<repoRoot>/.cw/config.yaml) - optional
//  4. Environment variables (CW_*)
func Load(repoRoot string) (*Config, error) {
	cfg := Default()

	if home, err := os.UserHomeDir(); err == nil {
		userPath := filepath.Join(home, CWDir, ConfigFileName)
		if _, err := os.Stat(userPath); err == nil {
			if err := mergeFromFile(cfg, userPath); err != nil {
				slog.Warn("failed to load user config", "path", userPath, "error", err)
			}
		}
	}

	projectPath := filepath.Join(repoRoot, CWDir, ConfigFileName)
	if _, err := os.Stat(projectPath); err == nil {
		if err := mergeFromFile(cfg, projectPath); err != nil {
			return nil, err // project config errors are fatal
		}
	}

	ApplyEnvVars(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.TwoPhaseMisconfigured() {
		slog.Warn("only one of plan_model/exec_model is set, running single-phase",
			"plan_model", cfg.PlanModel, "exec_model", cfg.ExecModel)
	}

	return cfg, nil
}

// mergeFromFile merges configuration from a YAML file into cfg.
// Only fields present in the file override; absent fields keep their
// current values.
func mergeFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	// Parse into a map first to know which fields were actually set.
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if _, ok := raw["model"]; ok {
		cfg.Model = fileCfg.Model
	}
	if _, ok := raw["plan_model"]; ok {
		cfg.PlanModel = fileCfg.PlanModel
	}
	if _, ok := raw["exec_model"]; ok {
		cfg.ExecModel = fileCfg.ExecModel
	}
	if _, ok := raw["plan_labels"]; ok {
		cfg.PlanLabels = fileCfg.PlanLabels
	}
	if _, ok := raw["claude_path"]; ok {
		cfg.ClaudePath = fileCfg.ClaudePath
	}
	if _, ok := raw["dangerously_skip_permissions"]; ok {
		cfg.DangerouslySkipPermissions = fileCfg.DangerouslySkipPermissions
	}
	if _, ok := raw["sandbox_dir"]; ok {
		cfg.SandboxDir = fileCfg.SandboxDir
	}
	if _, ok := raw["state_dir"]; ok {
		cfg.StateDir = fileCfg.StateDir
	}
	if _, ok := raw["session_prefix"]; ok {
		cfg.SessionPrefix = fileCfg.SessionPrefix
	}
	if _, ok := raw["base_branch"]; ok {
		cfg.BaseBranch = fileCfg.BaseBranch
	}

	return nil
}
