package cli

import (
	"github.com/spf13/cobra"

	"github.com/runoshun/ticketsync/internal/app"
	"github.com/runoshun/ticketsync/internal/usecase"
)

// newCreateCommand creates the create command.
func newCreateCommand(c *app.Container) *cobra.Command {
	var in usecase.CreateTicketsInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create missing tickets from the export",
		Long: `Create the missing tickets listed in the export file.

Parents are created before their children and children are linked as
sub-issues (requires the gh-sub-issue extension). When linking fails the parent
is noted in a comment instead, unless [create] link_comment is false.

Created numbers are written back to the export and the issue map after every
ticket, so an interrupted run can be resumed. Ambiguous records are never acted
on. With --repair, incomplete tickets get their body rewritten and their parent
linked. Remote calls are paced by [create] delay and burst.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.CreateTicketsUseCase().Execute(cmd.Context(), in)
			if err != nil {
				return err
			}
			renderActions(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&in.Repository, "repo", "R", "", "Repository as owner/repo or remote URL")
	cmd.Flags().StringVar(&in.Export, "export", "", "Export file (default from [files] exported)")
	cmd.Flags().StringVar(&in.IssueMap, "issue-map", "", "Issue map file (default from [files] issue_map)")
	cmd.Flags().BoolVarP(&in.DryRun, "dry-run", "n", false, "Show what would be done without calling the tracker")
	cmd.Flags().BoolVar(&in.Repair, "repair", false, "Also repair incomplete tickets")

	return cmd
}
