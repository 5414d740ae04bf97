package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/ticketsync/internal/domain"
)

// ReconcileTicketsInput contains the parameters for reconciliation.
// Empty fields fall back to the configuration.
type ReconcileTicketsInput struct {
	Repository      string   // owner/repo or remote URL
	Candidates      string   // Candidates file path
	IssueMap        string   // Issue map path
	Output          string   // Export file path
	RequiredMarkers []string // Markers every remote body must carry
}

// ReconcileTicketsOutput contains the result of reconciliation.
// Fields are ordered to minimize memory padding.
type ReconcileTicketsOutput struct {
	Records    []domain.ExportRecord // Exported records, in candidate order
	Results    []domain.Result       // One result per candidate
	Repository string                // Repository reconciled against
	Path       string                // Where the export was written
	Summary    domain.Summary        // Run counters
	Remote     int                   // Tickets in the remote snapshot
}

// ReconcileTickets compares canonical candidates with the remote tracker and
// exports every candidate the tracker does not represent correctly.
type ReconcileTickets struct {
	tracker      domain.TicketTracker
	candidates   domain.CandidateStore
	issueMaps    domain.IssueMapStore
	exports      domain.ExportStore
	configLoader domain.ConfigLoader
	resolver     domain.RepositoryResolver
	logger       domain.Logger
	root         string
}

// NewReconcileTickets creates a new ReconcileTickets use case.
func NewReconcileTickets(
	tracker domain.TicketTracker,
	candidates domain.CandidateStore,
	issueMaps domain.IssueMapStore,
	exports domain.ExportStore,
	configLoader domain.ConfigLoader,
	resolver domain.RepositoryResolver,
	logger domain.Logger,
	root string,
) *ReconcileTickets {
	return &ReconcileTickets{
		tracker:      tracker,
		candidates:   candidates,
		issueMaps:    issueMaps,
		exports:      exports,
		configLoader: configLoader,
		resolver:     resolver,
		logger:       orNop(logger),
		root:         root,
	}
}

// Execute reconciles every candidate in order.
//
// The remote snapshot is fetched once; failing to fetch it aborts the run
// before anything is written. Parent lookups that fail are logged and treated
// as "no parent".
func (uc *ReconcileTickets) Execute(ctx context.Context, in ReconcileTicketsInput) (*ReconcileTicketsOutput, error) {
	cfg, err := loadConfig(uc.configLoader)
	if err != nil {
		return nil, err
	}
	repo, err := resolveRepository(in.Repository, cfg, uc.resolver)
	if err != nil {
		return nil, err
	}
	markers := in.RequiredMarkers
	if len(markers) == 0 {
		markers = cfg.Reconcile.RequiredMarkers
	}

	file, err := uc.candidates.LoadCandidates(cfg.ResolvePath(uc.root, firstNonEmpty(in.Candidates, cfg.Files.Candidates)))
	if err != nil {
		return nil, fmt.Errorf("load candidates: %w", err)
	}
	issueMap, err := uc.issueMaps.LoadIssueMap(cfg.ResolvePath(uc.root, firstNonEmpty(in.IssueMap, cfg.Files.IssueMap)))
	if err != nil {
		return nil, fmt.Errorf("load issue map: %w", err)
	}

	// Hand-edited candidate files may repeat titles; the first still wins.
	set := domain.NewCandidateSet()
	for _, t := range file.Candidates {
		set.Add(t)
	}

	remote, err := uc.tracker.ListTickets(ctx, repo)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRemoteUnavailable, err)
	}
	snapshot := domain.NewSnapshot(remote)
	uc.logger.Info("reconcile", fmt.Sprintf("%s: %d remote tickets, %d candidates", repo, snapshot.Len(), set.Len()))

	parentOf := func(number int) *int {
		parent, err := uc.tracker.GetParent(ctx, repo, number)
		if err != nil {
			uc.logger.Warn("reconcile", fmt.Sprintf("parent lookup for #%d failed: %v", number, err))
			return nil
		}
		return parent
	}

	out := &ReconcileTicketsOutput{
		Repository: repo,
		Path:       cfg.ResolvePath(uc.root, firstNonEmpty(in.Output, cfg.Files.Exported)),
		Remote:     snapshot.Len(),
		Records:    make([]domain.ExportRecord, 0),
	}
	for _, t := range set.Tickets() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		expected := issueMap.ResolveParentNumber(t.ParentCanonical)
		res := domain.ReconcileTicket(t, expected, snapshot.Match(t.Title), markers, parentOf)
		out.Results = append(out.Results, res)
		out.Summary.Record(res)
		uc.logger.Debug("reconcile", fmt.Sprintf("%q: %s", t.Title, res.Classification))

		if rec, ok := domain.NewExportRecord(res); ok {
			out.Records = append(out.Records, rec)
		}
	}

	if err := uc.exports.SaveExport(out.Path, out.Records); err != nil {
		return nil, fmt.Errorf("save export: %w", err)
	}
	return out, nil
}
