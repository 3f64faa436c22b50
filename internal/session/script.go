package session

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/vidyasagarr7/cw/internal/agent"
	"github.com/vidyasagarr7/cw/internal/planner"
	"github.com/vidyasagarr7/cw/internal/sandbox"
)

// entryScriptTmpl renders the self-contained entry script a session runs.
// The script owns everything that happens after launch: banners, the agent
// invocation(s), the between-phase plan-artifact check, and the idle shell
// that keeps the session reviewable after the agent exits.
var entryScriptTmpl = template.Must(template.New("entry").Parse(`#!/bin/sh
# Entry script for session {{.SessionName}}, generated by cw.
cd {{.Path}} || exit 1

echo '=== cw: {{.SandboxName}} on branch {{.Branch}} ==='
{{if .TwoPhase -}}
echo '--- cw: planning phase ({{.PlanModel}}) ---'
{{.PlanCommand}}
plan_status=$?
echo "--- cw: planning phase exited with status $plan_status ---"
if [ ! -s {{.Artifact}} ]; then
	echo 'cw: plan artifact missing or empty, substituting placeholder'
	printf '%s\n' {{.Placeholder}} > {{.Artifact}}
fi
echo '--- cw: execution phase ({{.ExecModel}}) ---'
{{.ExecCommand}}
status=$?
{{- else -}}
{{.Command}}
status=$?
{{- end}}
echo "=== cw: agent exited with status $status ==="
echo 'cw: session stays open for review; detach with C-b d'
exec "${SHELL:-/bin/sh}"
`))

type entryScriptData struct {
	SessionName string
	SandboxName string
	Branch      string
	Path        string
	TwoPhase    bool
	Command     string
	PlanCommand string
	ExecCommand string
	PlanModel   string
	ExecModel   string
	Artifact    string
	Placeholder string
}

// renderEntryScript renders the session entry script for a sandbox and plan.
// promptFiles are the absolute paths of the instruction payloads written by
// the launcher: one for single-phase, two (plan, exec) for two-phase.
func renderEntryScript(sb *sandbox.Sandbox, p *planner.Plan, rt agent.Runtime, sessionName string, promptFiles []string) (string, error) {
	data := entryScriptData{
		SessionName: sessionName,
		SandboxName: sb.Name,
		Branch:      sb.Branch,
		Path:        shellQuote(sb.Path),
		Artifact:    shellQuote(planner.PlanArtifact),
		Placeholder: shellQuote(planner.PlanPlaceholder),
	}

	switch p.Mode {
	case planner.TwoPhase:
		if len(promptFiles) != 2 {
			return "", fmt.Errorf("two-phase plan needs 2 prompt files, got %d", len(promptFiles))
		}
		data.TwoPhase = true
		data.PlanModel = p.PlanModel
		data.ExecModel = p.ExecModel
		data.PlanCommand = rt.Command(p.PlanModel, promptFiles[0])
		data.ExecCommand = rt.Command(p.ExecModel, promptFiles[1])
	default:
		if len(promptFiles) != 1 {
			return "", fmt.Errorf("single-phase plan needs 1 prompt file, got %d", len(promptFiles))
		}
		data.Command = rt.Command(p.Model, promptFiles[0])
	}

	var b strings.Builder
	if err := entryScriptTmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render entry script: %w", err)
	}
	return b.String(), nil
}

// shellQuote wraps s in single quotes, escaping embedded single quotes.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
