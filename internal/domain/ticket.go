// Package domain contains core business entities and interfaces.
package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// CanonicalTicket is the normalized local definition of a work item.
// Title is the business key: one CanonicalTicket exists per distinct title in a run.
// Fields are ordered to match the candidates file layout.
type CanonicalTicket struct {
	CanonicalID     *string    `json:"canonical_id"`     // Stable identifier (optional)
	Title           string     `json:"title"`            // Title (required, matching key)
	Body            string     `json:"body"`             // Free text with marker-delimited sub-fields
	Labels          []string   `json:"labels"`           // Labels in source order
	ParentCanonical *ParentRef `json:"parent_canonical"` // Parent canonical ID or remote number (optional)
	Points          *Number    `json:"points"`           // Estimate (optional)
	Priority        *string    `json:"priority"`         // Priority (optional)
	Requires        string     `json:"requires"`         // Dependency notes
	Provides        string     `json:"provides"`         // Contribution notes
}

// ID returns the canonical ID, or an empty string if absent.
func (t *CanonicalTicket) ID() string {
	if t.CanonicalID == nil {
		return ""
	}
	return *t.CanonicalID
}

// RemoteTicket is a ticket as it exists in the remote tracking store.
// Fields are ordered to minimize memory padding.
type RemoteTicket struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	Number int    `json:"number"`
}

// NewTicket holds the fields needed to create a remote ticket.
type NewTicket struct {
	Title  string
	Body   string
	Labels []string
}

// CreatedTicket is the remote identity of a newly created ticket.
type CreatedTicket struct {
	URL    string
	Number int
}

// ParentRef is a reference to a parent ticket in its source form:
// either a canonical ID string or a remote ticket number.
type ParentRef struct {
	Key      string
	Number   int
	IsNumber bool
}

// ParentKey returns a ParentRef holding a canonical ID.
func ParentKey(key string) *ParentRef {
	return &ParentRef{Key: key}
}

// ParentNumber returns a ParentRef holding a remote ticket number.
func ParentNumber(n int) *ParentRef {
	return &ParentRef{Number: n, IsNumber: true}
}

// String returns the reference as written in the source.
func (p ParentRef) String() string {
	if p.IsNumber {
		return strconv.Itoa(p.Number)
	}
	return p.Key
}

// MarshalJSON encodes numeric references as JSON numbers and keys as strings.
func (p ParentRef) MarshalJSON() ([]byte, error) {
	if p.IsNumber {
		return []byte(strconv.Itoa(p.Number)), nil
	}
	return json.Marshal(p.Key)
}

// UnmarshalJSON accepts a JSON number or string.
func (p *ParentRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = ParentRef{Key: s}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("parent reference: %w", err)
	}
	i, err := n.Int64()
	if err != nil {
		// Non-integral numbers keep their textual form as a key.
		*p = ParentRef{Key: n.String()}
		return nil
	}
	*p = ParentRef{Number: int(i), IsNumber: true}
	return nil
}

// Number is a best-effort numeric value that remembers whether it was integral.
type Number struct {
	Int     int64
	Float   float64
	IsFloat bool
}

// IntNumber returns an integral Number.
func IntNumber(i int64) *Number {
	return &Number{Int: i}
}

// FloatNumber returns a floating-point Number.
func FloatNumber(f float64) *Number {
	return &Number{Float: f, IsFloat: true}
}

// IsZero reports whether the number equals zero.
func (n Number) IsZero() bool {
	if n.IsFloat {
		return n.Float == 0
	}
	return n.Int == 0
}

// String formats the number without a trailing exponent for integral values.
func (n Number) String() string {
	if n.IsFloat {
		return strconv.FormatFloat(n.Float, 'f', -1, 64)
	}
	return strconv.FormatInt(n.Int, 10)
}

// MarshalJSON encodes the number as a JSON number.
func (n Number) MarshalJSON() ([]byte, error) {
	if n.IsFloat {
		return json.Marshal(n.Float)
	}
	return []byte(strconv.FormatInt(n.Int, 10)), nil
}

// UnmarshalJSON decodes a JSON number, keeping integral values as integers.
func (n *Number) UnmarshalJSON(data []byte) error {
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("number: %w", err)
	}
	s := num.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := num.Int64(); err == nil {
			*n = Number{Int: i}
			return nil
		}
	}
	f, err := num.Float64()
	if err != nil {
		return fmt.Errorf("number: %w", err)
	}
	*n = Number{Float: f, IsFloat: true}
	return nil
}
