package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/ticketsync/internal/domain"
)

// ActionKind describes how an export record was handled.
type ActionKind string

// Action kinds.
const (
	ActionCreate ActionKind = "create"
	ActionRepair ActionKind = "repair"
	ActionSkip   ActionKind = "skip"
	ActionFail   ActionKind = "fail"
)

// TicketAction reports the handling of one export record.
// Fields are ordered to minimize memory padding.
type TicketAction struct {
	Err    error      // Failure cause (ActionFail only)
	Number *int       // Remote ticket created or repaired
	Parent *int       // Parent linked, or to be linked in a dry run
	Kind   ActionKind // What happened
	Title  string     // Ticket title
	Detail string     // Human-readable note
}

// CreateTicketsInput contains the parameters for acting on an export.
// Empty paths fall back to the configuration.
type CreateTicketsInput struct {
	Repository string // owner/repo or remote URL
	Export     string // Export file path
	IssueMap   string // Issue map path
	DryRun     bool   // Report the plan without touching the remote tracker
	Repair     bool   // Also fix incomplete tickets
}

// CreateTicketsOutput contains the result of acting on an export.
type CreateTicketsOutput struct {
	Actions    []TicketAction // One action per export record, in export order
	Repository string         // Repository acted on
	DryRun     bool           // Whether the run was a dry run
}

// Count returns the number of actions of the given kind.
func (o *CreateTicketsOutput) Count(kind ActionKind) int {
	n := 0
	for _, a := range o.Actions {
		if a.Kind == kind {
			n++
		}
	}
	return n
}

// CreateTickets creates missing tickets and optionally repairs incomplete ones.
type CreateTickets struct {
	tracker      domain.TicketTracker
	exports      domain.ExportStore
	issueMaps    domain.IssueMapStore
	configLoader domain.ConfigLoader
	resolver     domain.RepositoryResolver
	pacer        domain.Pacer
	clock        domain.Clock
	logger       domain.Logger
	root         string
}

// NewCreateTickets creates a new CreateTickets use case.
func NewCreateTickets(
	tracker domain.TicketTracker,
	exports domain.ExportStore,
	issueMaps domain.IssueMapStore,
	configLoader domain.ConfigLoader,
	resolver domain.RepositoryResolver,
	pacer domain.Pacer,
	clock domain.Clock,
	logger domain.Logger,
	root string,
) *CreateTickets {
	return &CreateTickets{
		tracker:      tracker,
		exports:      exports,
		issueMaps:    issueMaps,
		configLoader: configLoader,
		resolver:     resolver,
		pacer:        pacer,
		clock:        clock,
		logger:       orNop(logger),
		root:         root,
	}
}

// createRun holds the state of one Execute call.
type createRun struct {
	uc         *CreateTickets
	cfg        *domain.Config
	issueMap   domain.IssueMap
	pending    map[string]bool // Canonical IDs still to be created in this run
	planned    map[string]bool // Canonical IDs created in this run (dry run)
	repo       string
	exportPath string
	mapPath    string
	records    []domain.ExportRecord
	in         CreateTicketsInput
}

// Execute acts on every export record, sequentially and paced.
//
// A record whose parent is another record of the same export waits until that
// parent has been created. Ambiguous records are never acted on. Created
// numbers are written back to the export and the issue map after each ticket.
func (uc *CreateTickets) Execute(ctx context.Context, in CreateTicketsInput) (*CreateTicketsOutput, error) {
	cfg, err := loadConfig(uc.configLoader)
	if err != nil {
		return nil, err
	}
	repo, err := resolveRepository(in.Repository, cfg, uc.resolver)
	if err != nil {
		return nil, err
	}

	r := &createRun{
		uc:         uc,
		cfg:        cfg,
		repo:       repo,
		in:         in,
		exportPath: cfg.ResolvePath(uc.root, firstNonEmpty(in.Export, cfg.Files.Exported)),
		mapPath:    cfg.ResolvePath(uc.root, firstNonEmpty(in.IssueMap, cfg.Files.IssueMap)),
		pending:    make(map[string]bool),
		planned:    make(map[string]bool),
	}
	if r.records, err = uc.exports.LoadExport(r.exportPath); err != nil {
		return nil, fmt.Errorf("load export: %w", err)
	}
	if r.issueMap, err = uc.issueMaps.LoadIssueMap(r.mapPath); err != nil {
		return nil, fmt.Errorf("load issue map: %w", err)
	}
	if r.issueMap == nil {
		r.issueMap = domain.IssueMap{}
	}

	for i := range r.records {
		rec := &r.records[i]
		if rec.Classification() == domain.ClassMissing && rec.IssueNumber == nil && rec.CanonicalID != nil && *rec.CanonicalID != "" {
			r.pending[*rec.CanonicalID] = true
		}
	}

	actions := make([]*TicketAction, len(r.records))
	queue := make([]int, len(r.records))
	for i := range queue {
		queue[i] = i
	}

	for len(queue) > 0 {
		var deferred []int
		for _, i := range queue {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			rec := &r.records[i]
			if skip := r.skipReason(rec); skip != "" {
				actions[i] = &TicketAction{Kind: ActionSkip, Title: rec.Title, Number: rec.IssueNumber, Detail: skip}
				continue
			}
			if r.waitsForParent(rec) {
				deferred = append(deferred, i)
				continue
			}

			var act *TicketAction
			if rec.Classification() == domain.ClassMissing {
				act, err = r.create(ctx, rec)
			} else {
				act, err = r.repair(ctx, rec)
			}
			if err != nil {
				return nil, err
			}
			actions[i] = act
		}

		if len(deferred) == len(queue) {
			for _, i := range deferred {
				rec := &r.records[i]
				actions[i] = &TicketAction{
					Kind:  ActionFail,
					Title: rec.Title,
					Err:   fmt.Errorf("%w: %s", domain.ErrParentNotCreated, rec.ParentCanonical),
				}
				uc.logger.Error("create", fmt.Sprintf("%q: parent %s was not created", rec.Title, rec.ParentCanonical))
			}
			break
		}
		queue = deferred
	}

	out := &CreateTicketsOutput{Repository: repo, DryRun: in.DryRun, Actions: make([]TicketAction, 0, len(actions))}
	for _, a := range actions {
		if a != nil {
			out.Actions = append(out.Actions, *a)
		}
	}
	return out, nil
}

// skipReason returns why a record is not acted on, or "" if it is.
func (r *createRun) skipReason(rec *domain.ExportRecord) string {
	switch rec.Classification() {
	case domain.ClassAmbiguous:
		return fmt.Sprintf("ambiguous: %d remote tickets share this title", len(rec.AmbiguousMatches))
	case domain.ClassIncomplete:
		if !r.in.Repair {
			return fmt.Sprintf("incomplete #%d (use --repair)", rec.Notes.RemoteIssueNumber)
		}
		if rec.Notes.BodyHasRequiredFields && rec.Notes.ParentOK {
			return fmt.Sprintf("already repaired #%d", rec.Notes.RemoteIssueNumber)
		}
	default:
		if rec.IssueNumber != nil {
			return fmt.Sprintf("already created #%d", *rec.IssueNumber)
		}
	}
	return ""
}

// waitsForParent reports whether the record's parent is still to be created in this run.
func (r *createRun) waitsForParent(rec *domain.ExportRecord) bool {
	ref := rec.ParentCanonical
	if ref == nil || ref.IsNumber || ref.Key == "" {
		return false
	}
	if _, ok := r.issueMap.Lookup(ref.Key); ok {
		return false
	}
	return r.pending[ref.Key]
}

// expectedParent resolves the parent number against the current issue map.
func (r *createRun) expectedParent(rec *domain.ExportRecord) *int {
	if p := r.issueMap.ResolveParentNumber(rec.ParentCanonical); p != nil {
		return p
	}
	return rec.ParentIssueNumber
}

func (r *createRun) create(ctx context.Context, rec *domain.ExportRecord) (*TicketAction, error) {
	act := &TicketAction{Kind: ActionCreate, Title: rec.Title, Parent: r.expectedParent(rec)}

	if r.in.DryRun {
		switch {
		case act.Parent != nil:
			act.Detail = fmt.Sprintf("under #%d", *act.Parent)
		case rec.ParentCanonical != nil && r.planned[rec.ParentCanonical.Key]:
			act.Detail = fmt.Sprintf("under %s (created in this run)", rec.ParentCanonical.Key)
		}
		if id := rec.CanonicalID; id != nil && *id != "" {
			delete(r.pending, *id)
			r.planned[*id] = true
		}
		return act, nil
	}

	if err := r.uc.pace(ctx); err != nil {
		return nil, err
	}
	created, err := r.uc.tracker.CreateTicket(ctx, r.repo, domain.NewTicket{
		Title:  rec.Title,
		Body:   rec.Body,
		Labels: rec.Labels,
	})
	if err != nil {
		r.uc.logger.Error("create", fmt.Sprintf("%q: %v", rec.Title, err))
		return &TicketAction{Kind: ActionFail, Title: rec.Title, Err: err}, nil
	}

	number, url, now := created.Number, created.URL, r.uc.clock.Now()
	rec.IssueNumber, rec.URL, rec.CreatedAt = &number, &url, &now
	act.Number = &number
	r.uc.logger.Info("create", fmt.Sprintf("created #%d %q", number, rec.Title))

	if id := rec.CanonicalID; id != nil && *id != "" {
		r.issueMap[*id] = number
		delete(r.pending, *id)
		if err := r.uc.issueMaps.SaveIssueMap(r.mapPath, r.issueMap); err != nil {
			return nil, fmt.Errorf("save issue map: %w", err)
		}
	}

	if act.Parent != nil {
		detail, _, err := r.link(ctx, *act.Parent, number)
		if err != nil {
			return nil, err
		}
		act.Detail = detail
	}

	if err := r.save(); err != nil {
		return nil, err
	}
	return act, nil
}

func (r *createRun) repair(ctx context.Context, rec *domain.ExportRecord) (*TicketAction, error) {
	notes := rec.Notes
	number := notes.RemoteIssueNumber
	act := &TicketAction{Kind: ActionRepair, Title: rec.Title, Number: &number}
	var details []string

	if !notes.BodyHasRequiredFields {
		if !r.in.DryRun {
			if err := r.uc.pace(ctx); err != nil {
				return nil, err
			}
			if err := r.uc.tracker.EditBody(ctx, r.repo, number, rec.Body); err != nil {
				r.uc.logger.Error("create", fmt.Sprintf("edit #%d: %v", number, err))
				return &TicketAction{Kind: ActionFail, Title: rec.Title, Number: &number, Err: err}, nil
			}
			notes.MissingFields = domain.MissingMarkers(rec.Body, r.cfg.Reconcile.RequiredMarkers)
			notes.BodyHasRequiredFields = len(notes.MissingFields) == 0
		}
		details = append(details, "body updated")
	}

	if !notes.ParentOK {
		parent := r.expectedParent(rec)
		act.Parent = parent
		switch {
		case parent == nil:
			details = append(details, "remote parent kept (no expected parent)")
		case r.in.DryRun:
			details = append(details, fmt.Sprintf("link to #%d", *parent))
		default:
			detail, linked, err := r.link(ctx, *parent, number)
			if err != nil {
				return nil, err
			}
			details = append(details, detail)
			if linked {
				notes.ParentOK = true
				notes.RemoteParentNumber = parent
			}
		}
	}
	act.Detail = strings.Join(details, "; ")

	if r.in.DryRun {
		return act, nil
	}
	rec.IssueNumber = &number
	if err := r.save(); err != nil {
		return nil, err
	}
	return act, nil
}

// link makes child a sub-ticket of parent. When linking fails and link
// comments are enabled, the parent is recorded in a comment instead.
// It reports whether the link was made. Only pacing errors are returned;
// tracker failures are reported in the detail.
func (r *createRun) link(ctx context.Context, parent, child int) (string, bool, error) {
	if err := r.uc.pace(ctx); err != nil {
		return "", false, err
	}
	linkErr := r.uc.tracker.LinkParent(ctx, r.repo, parent, child)
	if linkErr == nil {
		return fmt.Sprintf("linked to #%d", parent), true, nil
	}
	r.uc.logger.Warn("create", fmt.Sprintf("link #%d to #%d: %v", child, parent, linkErr))

	failed := fmt.Sprintf("link to #%d failed", parent)
	if !r.cfg.Create.LinkComment {
		return failed, false, nil
	}
	if err := r.uc.pace(ctx); err != nil {
		return "", false, err
	}
	if err := r.uc.tracker.Comment(ctx, r.repo, child, domain.ParentLinkComment(parent)); err != nil {
		r.uc.logger.Warn("create", fmt.Sprintf("comment on #%d: %v", child, err))
		return failed, false, nil
	}
	return fmt.Sprintf("parent #%d noted in a comment", parent), false, nil
}

func (r *createRun) save() error {
	if err := r.uc.exports.SaveExport(r.exportPath, r.records); err != nil {
		return fmt.Errorf("save export: %w", err)
	}
	return nil
}

func (uc *CreateTickets) pace(ctx context.Context) error {
	if uc.pacer == nil {
		return nil
	}
	return uc.pacer.Wait(ctx)
}
