// Package agent builds invocations of the Claude CLI, the runtime that
// actually executes task instructions inside a sandbox. cw never runs the
// agent in-process: invocations are rendered into a session's entry script
// and the agent's exit status is observed there, not interpreted here.
package agent

import (
	"fmt"
	"strings"
)

// Runtime describes how to invoke the agent CLI.
type Runtime struct {
	// Path is the agent binary (default "claude"; may be absolute).
	Path string

	// SkipPermissions passes the permission-bypass flag to every run.
	SkipPermissions bool
}

// Command renders a shell command line that runs the agent once in
// non-interactive mode, reading the instruction payload from promptFile.
// The result is embedded in a POSIX entry script; all operands are
// single-quoted so metadata-derived paths cannot break out of the script.
func (r Runtime) Command(model, promptFile string) string {
	var b strings.Builder
	b.WriteString(shellQuote(r.Path))
	b.WriteString(" -p")
	if model != "" {
		fmt.Fprintf(&b, " --model %s", shellQuote(model))
	}
	if r.SkipPermissions {
		b.WriteString(" --dangerously-skip-permissions")
	}
	fmt.Fprintf(&b, " \"$(cat %s)\"", shellQuote(promptFile))
	return b.String()
}

// shellQuote wraps s in single quotes, escaping embedded single quotes.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
