package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vidyasagarr7/cw/internal/naming"
	"github.com/vidyasagarr7/cw/internal/planner"
	"github.com/vidyasagarr7/cw/internal/task"
)

// newStartCmd creates the start command
func newStartCmd() *cobra.Command {
	var baseBranch string
	var contextText string
	var model string

	cmd := &cobra.Command{
		Use:   "start <issue-number|branch-name>",
		Short: "Start a task in an isolated workspace",
		Long: `Start a task in an isolated workspace.

Creates (or reuses) a sandbox - a dedicated branch plus git worktree -
and launches the agent in a persistent tmux session. Re-running start
for the same task reuses the existing sandbox and session instead of
creating duplicates.

Examples:
  cw start 423                      Work on issue #423
  cw start fix/login-redirect       Work on an explicit branch
  cw start 423 --base develop       Fork from 'develop' instead of the default
  cw start 423 --context "skip e2e" Extra instructions for the agent`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := task.ParseRef(args[0])
			if err != nil {
				return err
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			cfg := withModelOverride(a.cfg, model)

			// Issue metadata is best-effort: a tracker failure degrades to
			// default naming, it never aborts the start.
			var labels []string
			var title string
			if ref.IsIssue() {
				if meta, err := a.issues.Issue(cmd.Context(), ref.Issue); err == nil {
					labels, title = meta.Labels, meta.Title
				} else {
					slog.Warn("issue metadata unavailable, using defaults", "issue", ref.Issue, "error", err)
				}
			}

			branch := naming.Branch(ref, labels, title)
			sandboxName := naming.SandboxName(ref, branch)
			sessionName := naming.SessionName(a.cfg.SessionPrefix, sandboxName)

			base := baseBranch
			if base == "" {
				base = a.cfg.BaseBranch
			}
			baseRef, err := a.git.ResolveBase(base)
			if err != nil {
				return err
			}

			sb, err := a.sandboxes.Ensure(sandboxName, branch, baseRef)
			if err != nil {
				return err
			}

			plan, err := planner.Build(planner.Task{
				Ref:     ref,
				Title:   title,
				Labels:  labels,
				Context: contextText,
			}, cfg)
			if err != nil {
				return err
			}

			reused, err := a.launcher.Launch(sb, plan, sessionName)
			if err != nil {
				return err
			}

			if !quiet {
				if reused {
					fmt.Printf("Session %s is already running.\n", sessionName)
				} else {
					fmt.Printf("Started %s (%s) on branch %s\n", sessionName, plan.Mode, sb.Branch)
					fmt.Printf("Sandbox: %s\n", sb.Path)
				}
				fmt.Printf("Attach with: cw attach %s\n", sandboxName)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&baseBranch, "base", "", "base branch to fork from (default: auto-detected)")
	cmd.Flags().StringVar(&contextText, "context", "", "extra instructions appended to the agent prompt")
	cmd.Flags().StringVar(&model, "model", "", "override the configured model for this task")

	return cmd
}
