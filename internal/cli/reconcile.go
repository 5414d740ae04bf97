package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/ticketsync/internal/app"
	"github.com/runoshun/ticketsync/internal/domain"
	"github.com/runoshun/ticketsync/internal/usecase"
)

// reconcileJSON is the --json output of reconcile.
type reconcileJSON struct {
	Repository string         `json:"repository"`
	Export     string         `json:"export"`
	Summary    domain.Summary `json:"summary"`
	Remote     int            `json:"remote_tickets"`
}

// newReconcileCommand creates the reconcile command.
func newReconcileCommand(c *app.Container) *cobra.Command {
	var in usecase.ReconcileTicketsInput
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Compare candidates with the remote tracker and export the diff",
		Long: `Compare every canonical candidate with the remote tracker.

Each candidate is classified by exact title match:
  correct      one remote ticket, required markers present, parent as expected
  missing      no remote ticket with this title
  incomplete   one remote ticket, but markers or parent are wrong
  ambiguous    several remote tickets share the title

Every candidate that is not correct is written to the export file, which
'ticketsync create' acts on. The remote snapshot is fetched once; if it cannot
be fetched nothing is written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ReconcileTicketsUseCase().Execute(cmd.Context(), in)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(reconcileJSON{
					Repository: out.Repository,
					Export:     out.Path,
					Summary:    out.Summary,
					Remote:     out.Remote,
				}); err != nil {
					return fmt.Errorf("encode summary: %w", err)
				}
				return nil
			}

			renderSummary(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&in.Repository, "repo", "R", "", "Repository as owner/repo or remote URL")
	cmd.Flags().StringVar(&in.Candidates, "candidates", "", "Candidates file (default from [files] candidates)")
	cmd.Flags().StringVar(&in.IssueMap, "issue-map", "", "Issue map file (default from [files] issue_map)")
	cmd.Flags().StringVarP(&in.Output, "output", "o", "", "Export file (default from [files] exported)")
	cmd.Flags().StringSliceVar(&in.RequiredMarkers, "marker", nil, "Required body marker (repeatable, replaces [reconcile] required_markers)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the summary as JSON")

	return cmd
}
