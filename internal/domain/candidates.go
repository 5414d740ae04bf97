package domain

// CandidateSet accumulates canonical tickets for one run, keeping the first
// ticket seen for each title regardless of which source contributed it.
type CandidateSet struct {
	seen    map[string]struct{}
	tickets []CanonicalTicket
}

// NewCandidateSet creates an empty CandidateSet.
func NewCandidateSet() *CandidateSet {
	return &CandidateSet{seen: make(map[string]struct{})}
}

// Add adds a ticket. It returns false when the title is empty or already seen.
func (s *CandidateSet) Add(t CanonicalTicket) bool {
	if t.Title == "" {
		return false
	}
	if _, dup := s.seen[t.Title]; dup {
		return false
	}
	s.seen[t.Title] = struct{}{}
	s.tickets = append(s.tickets, t)
	return true
}

// AddRecord normalizes a record and adds the result.
func (s *CandidateSet) AddRecord(r *Record) bool {
	return s.Add(NormalizeRecord(r))
}

// Tickets returns the accepted tickets in first-seen order.
func (s *CandidateSet) Tickets() []CanonicalTicket {
	out := make([]CanonicalTicket, len(s.tickets))
	copy(out, s.tickets)
	return out
}

// Len returns the number of accepted tickets.
func (s *CandidateSet) Len() int {
	return len(s.tickets)
}

// ExtractionError records a definition source that could not be read as literal data.
type ExtractionError struct {
	Source string `json:"file"`
	Error  string `json:"error"`
}

// CandidateFile is the persisted output of extraction.
// Fields are ordered to match the file layout.
type CandidateFile struct {
	Workspace       string            `json:"workspace"`
	CandidatesCount int               `json:"candidates_count"`
	Candidates      []CanonicalTicket `json:"candidates"`
	Errors          []ExtractionError `json:"errors"`
}
