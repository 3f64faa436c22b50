package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newKillCmd creates the kill command
func newKillCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kill <name>",
		Short: "Terminate a session, keeping its sandbox",
		Long: `Terminate a running agent session.

Only the session (and the agent process inside it) is terminated. The
sandbox - worktree, branch, and any uncommitted work - is preserved.
Use 'cw cleanup' to reclaim sandboxes with no unsaved work.

Example:
  cw kill issue-423`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.registry.Kill(args[0]); err != nil {
				return err
			}
			if !quiet {
				fmt.Println("Session terminated. The sandbox is preserved; run 'cw cleanup' to reclaim it.")
			}
			return nil
		},
	}
}
