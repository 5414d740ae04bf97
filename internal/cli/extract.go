package cli

import (
	"github.com/spf13/cobra"

	"github.com/runoshun/ticketsync/internal/app"
	"github.com/runoshun/ticketsync/internal/usecase"
)

// newExtractCommand creates the extract command.
func newExtractCommand(c *app.Container) *cobra.Command {
	var in usecase.ExtractCandidatesInput

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract canonical ticket candidates from definition sources",
		Long: `Scan definition sources and write the canonical candidate set.

Python sources (.py) are parsed, never executed: module-level list, tuple and
dict literals are read. YAML and JSON sources (.yaml, .yml, .json) are read as
documents. Records are normalized and deduplicated by title, first seen wins.

A source that cannot be parsed is listed in the candidates file's errors and
does not stop the run. Finding no source at all is an error.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ExtractCandidatesUseCase().Execute(cmd.Context(), in)
			if err != nil {
				return err
			}
			renderExtract(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&in.Dir, "dir", "d", "", "Directory to scan (default from [sources] dir)")
	cmd.Flags().StringVarP(&in.Output, "output", "o", "", "Candidates file (default from [files] candidates)")
	cmd.Flags().StringArrayVarP(&in.Patterns, "pattern", "p", nil, "File name pattern (repeatable, replaces [sources] patterns)")

	return cmd
}
