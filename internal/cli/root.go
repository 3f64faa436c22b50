// Package cli implements the cw command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cwerrors "github.com/vidyasagarr7/cw/internal/errors"
)

var (
	cfgFile string
	verbose bool
	quiet   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cw",
	Short: "Isolated coding-agent workspaces",
	Long: `cw turns a task - an issue number or a branch name - into an isolated
workspace: a dedicated branch, a git worktree, and a persistent tmux
session running Claude on the task.

Quick start:
  cw start 423          Start working on issue #423
  cw list               Show live sessions
  cw attach 423         Attach to a running session
  cw kill 423           Stop a session (the sandbox is kept)
  cw cleanup            Reclaim sandboxes with no unsaved work`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		var cwErr *cwerrors.CWError
		if errors.As(err, &cwErr) {
			fmt.Fprintln(os.Stderr, cwErr.UserMessage())
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
	}
	return err
}

func init() {
	cobra.OnInitialize(initViper)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .cw/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")

	// Add subcommands
	rootCmd.AddCommand(newStartCmd())
	rootCmd.AddCommand(newPlanCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newAttachCmd())
	rootCmd.AddCommand(newKillCmd())
	rootCmd.AddCommand(newCleanupCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// initViper wires the --config flag and CW_* environment variables into
// the config search path.
func initViper() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".cw")
		viper.AddConfigPath("$HOME/.cw")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("CW")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if verbose {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}
