package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newCleanupCmd creates the cleanup command
func newCleanupCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Reclaim sandboxes with no unsaved work",
		Long: `Reclaim sandboxes whose work is fully persisted upstream.

A sandbox is kept when any of these guards trips:
  - a live session exists for it
  - the checkout has uncommitted changes
  - the branch has commits not pushed to its remote counterpart

Only sandboxes passing all three guards are removed, along with their
session scripts and instruction files. Safe to run unattended.

Examples:
  cw cleanup              Reclaim safe sandboxes
  cw cleanup --dry-run    Show what would be reclaimed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			results, err := a.registry.Cleanup(dryRun)
			if err != nil {
				return err
			}

			if len(results) == 0 {
				if !quiet {
					fmt.Println("No sandboxes found.")
				}
				return nil
			}

			removed := 0
			for _, res := range results {
				if res.Removed {
					removed++
					if !quiet {
						verb := "Removed"
						if dryRun {
							verb = "Would remove"
						}
						fmt.Printf("  %s %s (%s)\n", verb, res.Name, res.Branch)
					}
				} else if !quiet {
					fmt.Printf("  Kept %s: %s\n", res.Name, res.Reason)
				}
			}

			if !quiet {
				if dryRun {
					fmt.Printf("Would reclaim %d of %d sandbox(es)\n", removed, len(results))
				} else {
					fmt.Printf("Reclaimed %d of %d sandbox(es)\n", removed, len(results))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be reclaimed without removing anything")

	return cmd
}
