package domain

import "strings"

// Classification is the reconciliation outcome for one canonical ticket.
type Classification string

// Classifications.
const (
	ClassCorrect    Classification = "correct"
	ClassMissing    Classification = "missing"
	ClassAmbiguous  Classification = "ambiguous"
	ClassIncomplete Classification = "incomplete"
)

// NeedsExport reports whether the remote store does not yet represent the
// ticket correctly.
func (c Classification) NeedsExport() bool {
	return c != ClassCorrect
}

// DefaultRequiredMarkers are the body markers every remote ticket must carry.
// A POINTS marker is optional and not checked.
var DefaultRequiredMarkers = []string{"REQUIRES", "PROVIDES", "PRIORITY"}

// Snapshot is the state of all remote tickets at the start of a run,
// indexed by exact title.
type Snapshot struct {
	byTitle map[string][]RemoteTicket
	tickets []RemoteTicket
}

// NewSnapshot indexes remote tickets by title, preserving their order.
func NewSnapshot(tickets []RemoteTicket) *Snapshot {
	s := &Snapshot{
		byTitle: make(map[string][]RemoteTicket, len(tickets)),
		tickets: tickets,
	}
	for _, t := range tickets {
		s.byTitle[t.Title] = append(s.byTitle[t.Title], t)
	}
	return s
}

// Match returns the remote tickets whose title equals title exactly.
func (s *Snapshot) Match(title string) []RemoteTicket {
	return s.byTitle[title]
}

// Len returns the number of remote tickets.
func (s *Snapshot) Len() int {
	return len(s.tickets)
}

// MissingMarkers returns the markers not contained in body, compared case-insensitively.
func MissingMarkers(body string, markers []string) []string {
	upper := strings.ToUpper(body)
	var missing []string
	for _, m := range markers {
		if !strings.Contains(upper, strings.ToUpper(m)) {
			missing = append(missing, m)
		}
	}
	return missing
}

// ParentMatches reports whether the expected and actual parents agree.
// Two absent parents agree.
func ParentMatches(expected, actual *int) bool {
	if expected == nil || actual == nil {
		return expected == nil && actual == nil
	}
	return *expected == *actual
}

// ParentLookup resolves the actual parent of a remote ticket.
// It returns nil when there is no parent or the lookup failed.
type ParentLookup func(number int) *int

// Result is the reconciliation outcome for one canonical ticket.
// Fields are ordered to minimize memory padding.
type Result struct {
	ExpectedParent *int            // Parent number the ticket should have
	RemoteNumber   *int            // Matched ticket (unique match only)
	RemoteParent   *int            // Actual parent of the matched ticket
	Classification Classification  // Outcome
	Matches        []int           // Numbers of all title matches
	MissingMarkers []string        // Required markers absent from the remote body
	Ticket         CanonicalTicket // The candidate
	BodyOK         bool            // Remote body carries every required marker
	ParentOK       bool            // Remote parent equals the expected parent
}

// ReconcileTicket classifies a candidate against the remote tickets sharing its title.
//
// Zero matches is Missing. Several matches is Ambiguous without inspecting any
// of them. A unique match is Correct when its body carries every required marker
// and its parent equals expected; otherwise it is Incomplete.
func ReconcileTicket(t CanonicalTicket, expected *int, matches []RemoteTicket, markers []string, parentOf ParentLookup) Result {
	res := Result{
		Ticket:         t,
		ExpectedParent: expected,
		Matches:        make([]int, 0, len(matches)),
	}
	for _, m := range matches {
		res.Matches = append(res.Matches, m.Number)
	}

	switch len(matches) {
	case 0:
		res.Classification = ClassMissing
		return res
	case 1:
	default:
		res.Classification = ClassAmbiguous
		return res
	}

	remote := matches[0]
	number := remote.Number
	res.RemoteNumber = &number
	if parentOf != nil {
		res.RemoteParent = parentOf(number)
	}
	res.MissingMarkers = MissingMarkers(remote.Body, markers)
	res.BodyOK = len(res.MissingMarkers) == 0
	res.ParentOK = ParentMatches(expected, res.RemoteParent)

	if res.BodyOK && res.ParentOK {
		res.Classification = ClassCorrect
	} else {
		res.Classification = ClassIncomplete
	}
	return res
}
