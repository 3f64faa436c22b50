package config

import (
	"os"
	"strings"
)

// EnvVarMapping defines the mapping between environment variables and
// config fields.
var EnvVarMapping = map[string]string{
	"CW_MODEL":            "model",
	"CW_PLAN_MODEL":       "plan_model",
	"CW_EXEC_MODEL":       "exec_model",
	"CW_PLAN_LABELS":      "plan_labels",
	"CW_CLAUDE_PATH":      "claude_path",
	"CW_SKIP_PERMISSIONS": "dangerously_skip_permissions",
	"CW_SANDBOX_DIR":      "sandbox_dir",
	"CW_STATE_DIR":        "state_dir",
	"CW_SESSION_PREFIX":   "session_prefix",
	"CW_BASE_BRANCH":      "base_branch",
}

// ApplyEnvVars applies environment variable overrides to cfg.
// Returns the config fields that were overridden.
func ApplyEnvVars(cfg *Config) []string {
	var overridden []string

	for envVar, field := range EnvVarMapping {
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}
		if applyEnvVar(cfg, field, value) {
			overridden = append(overridden, field)
		}
	}

	return overridden
}

// applyEnvVar applies a single environment variable to the config.
// Returns true if the value was applied.
func applyEnvVar(cfg *Config, field, value string) bool {
	switch field {
	case "model":
		cfg.Model = value
	case "plan_model":
		cfg.PlanModel = value
	case "exec_model":
		cfg.ExecModel = value
	case "plan_labels":
		cfg.PlanLabels = splitList(value)
	case "claude_path":
		cfg.ClaudePath = value
	case "dangerously_skip_permissions":
		cfg.DangerouslySkipPermissions = parseBool(value)
	case "sandbox_dir":
		cfg.SandboxDir = value
	case "state_dir":
		cfg.StateDir = value
	case "session_prefix":
		cfg.SessionPrefix = value
	case "base_branch":
		cfg.BaseBranch = value
	default:
		return false
	}
	return true
}

// splitList parses a comma-separated list, dropping empty entries.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseBool(value string) bool {
	switch strings.ToLower(value) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
