// Package cli provides the command-line interface for ticketsync.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/ticketsync/internal/app"
)

// Command group IDs.
const (
	groupSetup   = "setup"
	groupTickets = "tickets"
)

// NewRootCommand creates the root command for ticketsync.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "ticketsync",
		Short: "Reconcile ticket definitions with a remote tracker",
		Long: `ticketsync keeps scripted ticket definitions and a remote issue tracker in step.

Typical workflow:
  ticketsync extract     collect ticket records from definition sources
  ticketsync reconcile   compare them with the remote tracker and export the diff
  ticketsync create      create missing tickets (and --repair incomplete ones)

Definition sources are never executed: only literal data is read.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip if container is nil (e.g. in tests)
			if c == nil {
				return nil
			}
			if verbose {
				c.SetVerbose()
			}
			if cmd.Name() == "init" {
				return nil
			}

			cfg, err := c.ConfigLoader.Load()
			if err != nil {
				// Reported by the command itself
				return nil
			}
			for _, w := range cfg.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug diagnostics to stderr")

	root.AddGroup(
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
		&cobra.Group{ID: groupTickets, Title: "Ticket Commands:"},
	)

	initCmd := newInitCommand(c)
	initCmd.GroupID = groupSetup

	configCmd := newConfigCommand(c)
	configCmd.GroupID = groupSetup

	extractCmd := newExtractCommand(c)
	extractCmd.GroupID = groupTickets

	reconcileCmd := newReconcileCommand(c)
	reconcileCmd.GroupID = groupTickets

	createCmd := newCreateCommand(c)
	createCmd.GroupID = groupTickets

	root.AddCommand(
		initCmd,
		configCmd,
		extractCmd,
		reconcileCmd,
		createCmd,
	)

	return root
}
