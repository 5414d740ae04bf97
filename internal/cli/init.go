package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/ticketsync/internal/app"
	"github.com/runoshun/ticketsync/internal/usecase"
)

// newInitCommand creates the init command.
func newInitCommand(c *app.Container) *cobra.Command {
	var global bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a configuration file",
		Long: `Generate a commented configuration file.

By default, creates the workspace configuration file at .ticketsync/config.toml.
With --global, creates the global configuration file at
~/.config/ticketsync/config.toml.

Error conditions:
- Target file already exists: error`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.InitConfigUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.InitConfigInput{
				Global: global,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created config file: %s\n", out.Path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&global, "global", false, "Generate global configuration")

	return cmd
}
