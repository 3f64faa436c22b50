package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vidyasagarr7/cw/internal/planner"
)

// newPlanCmd creates the plan command
func newPlanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan <name>",
		Short: "Show the plan artifact for a task",
		Long: `Show the plan written by the planning phase of a two-phase task.

The name is a sandbox or session name, with or without the session
prefix. A missing or empty plan is reported as an error; execution
itself substitutes a placeholder and proceeds regardless.

Example:
  cw plan issue-587`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			name := strings.TrimPrefix(args[0], a.cfg.SessionPrefix)
			content, err := planner.ReadArtifact(a.sandboxes.PathFor(name))
			if err != nil {
				return err
			}
			fmt.Print(content)
			if !strings.HasSuffix(content, "\n") {
				fmt.Println()
			}
			return nil
		},
	}
}
