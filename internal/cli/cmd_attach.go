package cli

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// newAttachCmd creates the attach command
func newAttachCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "attach <name>",
		Short: "Attach to a running session",
		Long: `Attach the current terminal to a running agent session.

The name is matched exactly first, then as a substring of live session
names; the first substring match wins.

Examples:
  cw attach issue-423
  cw attach 423        Substring match`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isatty.IsTerminal(os.Stdin.Fd()) {
				return fmt.Errorf("attach requires an interactive terminal")
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			return a.registry.Attach(args[0])
		},
	}
}
