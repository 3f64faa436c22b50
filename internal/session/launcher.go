package session

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vidyasagarr7/cw/internal/agent"
	"github.com/vidyasagarr7/cw/internal/planner"
	"github.com/vidyasagarr7/cw/internal/sandbox"
)

// State-dir artifact names, one set per session. cleanup removes the whole
// per-session directory.
const (
	entryScriptFile  = "run.sh"
	instructionsFile = "instructions.md"
	planPromptFile   = "plan.md"
	execPromptFile   = "implement.md"
)

// Launcher binds a sandbox and an execution plan to a named session.
type Launcher struct {
	mux      Multiplexer
	runtime  agent.Runtime
	stateDir string
}

// NewLauncher creates a Launcher writing session artifacts under stateDir.
func NewLauncher(mux Multiplexer, runtime agent.Runtime, stateDir string) *Launcher {
	return &Launcher{mux: mux, runtime: runtime, stateDir: stateDir}
}

// Launch starts a session named sessionName running the plan inside the
// sandbox. If a live session with that name already exists the launch is
// skipped and the existing session is reported (reused=true): re-running
// start for the same task re-attaches, it never duplicates sessions.
//
// The call is fire-and-forget: it returns once the session is registered
// and never waits for the agent to finish.
func (l *Launcher) Launch(sb *sandbox.Sandbox, p *planner.Plan, sessionName string) (reused bool, err error) {
	if l.mux.HasSession(sessionName) {
		return true, nil
	}

	dir := filepath.Join(l.stateDir, sessionName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("create session state dir: %w", err)
	}

	promptFiles, err := l.writePrompts(dir, p)
	if err != nil {
		return false, err
	}

	script, err := renderEntryScript(sb, p, l.runtime, sessionName, promptFiles)
	if err != nil {
		return false, err
	}
	scriptPath := filepath.Join(dir, entryScriptFile)
	if err := os.WriteFile(scriptPath, []byte(script), 0o755); err != nil {
		return false, fmt.Errorf("write entry script: %w", err)
	}

	if err := l.mux.NewSession(sessionName, sb.Path, "sh "+shellQuote(scriptPath)); err != nil {
		return false, fmt.Errorf("start session %s: %w", sessionName, err)
	}
	return false, nil
}

// writePrompts writes the instruction payload file(s) and returns their
// absolute paths in phase order.
func (l *Launcher) writePrompts(dir string, p *planner.Plan) ([]string, error) {
	write := func(name, content string) (string, error) {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return "", fmt.Errorf("write instruction payload %s: %w", name, err)
		}
		return path, nil
	}

	if p.Mode == planner.TwoPhase {
		planPath, err := write(planPromptFile, p.PlanInstructions)
		if err != nil {
			return nil, err
		}
		execPath, err := write(execPromptFile, p.ExecInstructions)
		if err != nil {
			return nil, err
		}
		return []string{planPath, execPath}, nil
	}

	path, err := write(instructionsFile, p.Instructions)
	if err != nil {
		return nil, err
	}
	return []string{path}, nil
}
