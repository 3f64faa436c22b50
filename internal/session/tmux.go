// Package session binds sandboxes to named, persistent, attachable tmux
// sessions and hosts the lifecycle registry built on top of them.
package session

import (
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/vidyasagarr7/cw/internal/git"
)

// historyLimit is the scrollback retained per session so agent output can
// be reviewed long after the run finished.
const historyLimit = 50000

// Session is a live multiplexer session.
type Session struct {
	Name         string
	LastActivity time.Time
}

// Multiplexer is the narrow session collaborator contract: create a named
// persistent session running an entry point, query it, attach, terminate,
// and enumerate by prefix.
type Multiplexer interface {
	// NewSession starts a detached session named name, in directory dir,
	// running command. It returns once the session is registered; it never
	// waits for the command to finish.
	NewSession(name, dir, command string) error

	// HasSession reports whether a session with exactly this name is live.
	HasSession(name string) bool

	// List enumerates live sessions whose name starts with prefix.
	List(prefix string) ([]Session, error)

	// Attach attaches the current terminal to a session interactively.
	Attach(name string) error

	// Kill terminates a session by exact name.
	Kill(name string) error
}

// Tmux implements Multiplexer using the tmux CLI.
type Tmux struct {
	run git.CommandRunner
}

// Ensure Tmux implements Multiplexer.
var _ Multiplexer = (*Tmux)(nil)

// NewTmux creates a tmux-backed Multiplexer.
func NewTmux(runner git.CommandRunner) *Tmux {
	return &Tmux{run: runner}
}

// NewSession starts a detached session running command in dir.
// A pane's scrollback size is fixed when the pane is created, so the
// global history limit must be raised before new-session runs, not after.
// start-server first makes the set-option work on a cold server.
func (t *Tmux) NewSession(name, dir, command string) error {
	_, _ = t.run.Run(dir, "tmux", "start-server")
	_, _ = t.run.Run(dir, "tmux", "set-option", "-g", "history-limit", strconv.Itoa(historyLimit))
	_, err := t.run.Run(dir, "tmux",
		"new-session", "-d", "-s", name, "-c", dir, "-x", "220", "-y", "50",
		"sh", "-c", command)
	return err
}

// HasSession reports whether an exactly-named session is live.
// The '=' target prefix disables tmux's own prefix matching.
func (t *Tmux) HasSession(name string) bool {
	_, err := t.run.Run(".", "tmux", "has-session", "-t", "="+name)
	return err == nil
}

// List enumerates live sessions by name prefix with their last-activity
// timestamps. A missing tmux server means no sessions, not an error; any
// other list-sessions failure is reported.
func (t *Tmux) List(prefix string) ([]Session, error) {
	out, err := t.run.Run(".", "tmux", "list-sessions", "-F", "#{session_name}\t#{session_activity}")
	if err != nil {
		if isNoServer(err) {
			return nil, nil
		}
		return nil, err
	}

	var sessions []Session
	for _, line := range strings.Split(out, "\n") {
		name, activity, ok := strings.Cut(strings.TrimSpace(line), "\t")
		if !ok || !strings.HasPrefix(name, prefix) {
			continue
		}
		s := Session{Name: name}
		if ts, err := strconv.ParseInt(strings.TrimSpace(activity), 10, 64); err == nil {
			s.LastActivity = time.Unix(ts, 0)
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

// isNoServer reports whether err is tmux refusing because no server has
// been started yet.
func isNoServer(err error) bool {
	return strings.Contains(err.Error(), "no server running")
}

// Attach attaches the current terminal to a session. Unlike the other
// operations this wires the process's own streams through, so it bypasses
// the CommandRunner seam.
func (t *Tmux) Attach(name string) error {
	cmd := exec.Command("tmux", "attach-session", "-t", "="+name)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Kill terminates a session. This signals the whole session, including the
// agent process; there is no graceful shutdown handshake.
func (t *Tmux) Kill(name string) error {
	_, err := t.run.Run(".", "tmux", "kill-session", "-t", "="+name)
	return err
}
