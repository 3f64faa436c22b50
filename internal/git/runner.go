package git

import (
	"bytes"
	"os/exec"
	"strings"
)

// CommandRunner is the seam every external binary goes through. All of
// cw's side effects (git, tmux, gh) flow through one implementation, so
// tests script command transcripts instead of shelling out.
type CommandRunner interface {
	// Run executes name with args in workDir and returns trimmed stdout.
	// On failure the command's diagnostic output travels in the error,
	// not in stdout.
	Run(workDir string, name string, args ...string) (stdout string, err error)
}

// ExecRunner runs commands on the host via os/exec.
type ExecRunner struct{}

// NewExecRunner creates an ExecRunner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

func (r *ExecRunner) Run(workDir, name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if runErr := cmd.Run(); runErr != nil {
		// git and tmux write diagnostics to stderr; gh sometimes uses
		// stdout. Whichever is non-empty becomes the error message.
		output := strings.TrimSpace(stderr.String())
		if output == "" {
			output = strings.TrimSpace(stdout.String())
		}
		return "", &CommandError{
			Command: name,
			Args:    args,
			WorkDir: workDir,
			Output:  output,
			Err:     runErr,
		}
	}

	return strings.TrimSpace(stdout.String()), nil
}

// CommandError is a failed external command together with the diagnostic
// output it produced. Error() favors the tool's own message over Go's
// generic exit-status text, so "fatal: not a git repository" surfaces
// instead of "exit status 128".
type CommandError struct {
	Command string
	Args    []string
	WorkDir string
	Output  string
	Err     error
}

func (e *CommandError) Error() string {
	if e.Output != "" {
		return e.Output
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "command failed"
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
