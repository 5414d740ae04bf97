package domain

import "time"

// StatePlanned marks a ticket that is not yet correctly represented remotely.
const StatePlanned = "planned"

// ExportRecord is one entry of the exported diff set.
// IssueNumber, CreatedAt and URL are filled once the ticket has been created.
// ParentCanonical keeps the source parent reference so that a parent created
// later in the same run can still be resolved.
type ExportRecord struct {
	IssueNumber       *int         `json:"issue_number"`
	CanonicalID       *string      `json:"canonical_id"`
	Title             string       `json:"title"`
	Body              string       `json:"body"`
	Labels            []string     `json:"labels"`
	State             string       `json:"state"`
	ParentIssueNumber *int         `json:"parent_issue_number"`
	Requires          string       `json:"requires"`
	Provides          string       `json:"provides"`
	Points            *Number      `json:"points"`
	Priority          *string      `json:"priority"`
	CreatedAt         *time.Time   `json:"created_at"`
	URL               *string      `json:"url"`
	ParentCanonical   *ParentRef   `json:"parent_canonical,omitempty"`
	AmbiguousMatches  []int        `json:"ambiguous_matches,omitempty"`
	Notes             *ExportNotes `json:"notes,omitempty"`
}

// ExportNotes carries diagnostics for a ticket whose unique remote match is incomplete.
type ExportNotes struct {
	RemoteIssueNumber     int      `json:"remote_issue_number"`
	RemoteParentNumber    *int     `json:"remote_parent_number"`
	BodyHasRequiredFields bool     `json:"body_has_required_fields"`
	ParentOK              bool     `json:"parent_ok"`
	MissingFields         []string `json:"missing_fields,omitempty"`
}

// Classification derives the reconciliation outcome recorded in the export.
func (r *ExportRecord) Classification() Classification {
	switch {
	case r.Notes != nil:
		return ClassIncomplete
	case len(r.AmbiguousMatches) > 0:
		return ClassAmbiguous
	default:
		return ClassMissing
	}
}

// NewExportRecord converts a non-correct result into an export record.
// It returns false for Correct results, which are never exported.
func NewExportRecord(res Result) (ExportRecord, bool) {
	if !res.Classification.NeedsExport() {
		return ExportRecord{}, false
	}

	t := res.Ticket
	labels := t.Labels
	if labels == nil {
		labels = []string{}
	}
	rec := ExportRecord{
		CanonicalID:       t.CanonicalID,
		Title:             t.Title,
		Body:              t.Body,
		Labels:            labels,
		State:             StatePlanned,
		ParentIssueNumber: res.ExpectedParent,
		ParentCanonical:   t.ParentCanonical,
		Requires:          t.Requires,
		Provides:          t.Provides,
		Points:            t.Points,
		Priority:          t.Priority,
	}
	if rec.Points != nil && rec.Points.IsZero() {
		rec.Points = nil
	}
	if rec.Priority != nil && *rec.Priority == "" {
		rec.Priority = nil
	}

	switch res.Classification {
	case ClassAmbiguous:
		rec.AmbiguousMatches = res.Matches
	case ClassIncomplete:
		rec.Notes = &ExportNotes{
			RemoteParentNumber:    res.RemoteParent,
			BodyHasRequiredFields: res.BodyOK,
			ParentOK:              res.ParentOK,
			MissingFields:         res.MissingMarkers,
		}
		if res.RemoteNumber != nil {
			rec.Notes.RemoteIssueNumber = *res.RemoteNumber
		}
	}
	return rec, true
}

// AmbiguousTitle names a title matched by several remote tickets.
type AmbiguousTitle struct {
	Title   string `json:"title"`
	Matches []int  `json:"matches"`
}

// Summary holds the run counters of a reconciliation.
type Summary struct {
	AmbiguousTitles []AmbiguousTitle `json:"ambiguous_titles,omitempty"`
	Scanned         int              `json:"scanned"`
	FullyCorrect    int              `json:"fully_correct"`
	Exported        int              `json:"exported"`
	Ambiguous       int              `json:"ambiguous"`
	Missing         int              `json:"missing"`
	Incomplete      int              `json:"incomplete"`
}

// Record counts one result.
func (s *Summary) Record(res Result) {
	s.Scanned++
	switch res.Classification {
	case ClassCorrect:
		s.FullyCorrect++
		return
	case ClassMissing:
		s.Missing++
	case ClassAmbiguous:
		s.Ambiguous++
		s.AmbiguousTitles = append(s.AmbiguousTitles, AmbiguousTitle{
			Title:   res.Ticket.Title,
			Matches: res.Matches,
		})
	case ClassIncomplete:
		s.Incomplete++
	}
	s.Exported++
}
