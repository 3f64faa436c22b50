package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// newListCmd creates the list command
func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List live agent sessions",
		Long: `List live agent sessions with their activity, branch, and task title.

Example:
  cw list`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			entries, err := a.registry.List(cmd.Context())
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				fmt.Println("No live sessions. Start one with: cw start <issue|branch>")
				return nil
			}

			titleWidth := 50
			if isatty.IsTerminal(os.Stdout.Fd()) {
				if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 80 {
					titleWidth = w - 60
				}
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SESSION\tACTIVITY\tBRANCH\tTITLE")
			for _, e := range entries {
				branch := e.Branch
				if branch == "" {
					branch = "-"
				}
				title := e.Title
				if title == "" {
					title = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Session, e.Freshness, branch, truncate(title, titleWidth))
			}
			return w.Flush()
		},
	}
}
