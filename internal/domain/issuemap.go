package domain

import (
	"strconv"
	"strings"
)

// IssueMap maps canonical IDs to remote ticket numbers.
type IssueMap map[string]int

// Lookup returns the remote number for a canonical ID.
func (m IssueMap) Lookup(id string) (int, bool) {
	if m == nil {
		return 0, false
	}
	n, ok := m[id]
	return n, ok
}

// ResolveParentNumber returns the remote number a ticket's parent should have.
//
// Numeric references are used directly. Keys are looked up in the map; an
// unmapped key of the form "#123" or "123" is read as a remote number.
// Anything else resolves to nil: a parent may not exist remotely yet.
func (m IssueMap) ResolveParentNumber(ref *ParentRef) *int {
	if ref == nil {
		return nil
	}
	if ref.IsNumber {
		n := ref.Number
		return &n
	}
	if ref.Key == "" {
		return nil
	}
	if n, ok := m.Lookup(ref.Key); ok {
		return &n
	}
	return parseTicketNumber(ref.Key)
}

// parseTicketNumber parses "#123" or "123" into a positive ticket number.
func parseTicketNumber(s string) *int {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if s == "" {
		return nil
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return nil
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return nil
	}
	return &n
}
