package domain

import (
	"bytes"
	"encoding/json"
)

// Record is an untyped key/value record found in a definition source.
// Keys keep their source order so that mapping-of-records expansion and
// first-seen deduplication are deterministic.
//
// Values are one of: nil, bool, int64, float64, string, []any, *Record.
type Record struct {
	values map[string]any
	keys   []string
}

// NewRecord creates an empty Record.
func NewRecord() *Record {
	return &Record{values: make(map[string]any)}
}

// Set assigns a value. Re-assigning an existing key keeps its position.
func (r *Record) Set(key string, value any) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value stored under key.
func (r *Record) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Keys returns the keys in source order.
func (r *Record) Keys() []string {
	return r.keys
}

// Len returns the number of keys.
func (r *Record) Len() int {
	return len(r.keys)
}

// Clone returns a shallow copy of the record.
func (r *Record) Clone() *Record {
	c := &Record{
		values: make(map[string]any, len(r.values)),
		keys:   make([]string, len(r.keys)),
	}
	copy(c.keys, r.keys)
	for k, v := range r.values {
		c.values[k] = v
	}
	return c
}

// MarshalJSON encodes the record as a JSON object in key order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Literal is a top-level literal value bound in a definition source.
// Fields are ordered to minimize memory padding.
type Literal struct {
	Value any    // Decoded value (see Record for the value domain)
	Name  string // Bound name, empty for bare expression statements
	Line  int    // 1-based line of the literal
}

// Shape classifies a literal by how it carries records.
type Shape int

// Literal shapes.
const (
	ShapeUnrecognized Shape = iota
	ShapeRecord
	ShapeRecordSequence
	ShapeRecordMapping
)

// String returns the shape name.
func (s Shape) String() string {
	switch s {
	case ShapeRecord:
		return "record"
	case ShapeRecordSequence:
		return "record-sequence"
	case ShapeRecordMapping:
		return "record-mapping"
	default:
		return "unrecognized"
	}
}

// ClassifyLiteral determines the record shape of a literal value.
//
//   - A sequence whose every item is a record is a record sequence.
//     Mixed or empty sequences are unrecognized.
//   - A mapping whose every value is a record is a mapping of records.
//     A mapping with no title key and at least one record value is also a
//     mapping of records; its non-record entries are skipped on expansion.
//   - Any other mapping is a single record.
func ClassifyLiteral(v any) Shape {
	switch val := v.(type) {
	case []any:
		if len(val) == 0 {
			return ShapeUnrecognized
		}
		for _, item := range val {
			if _, ok := item.(*Record); !ok {
				return ShapeUnrecognized
			}
		}
		return ShapeRecordSequence
	case *Record:
		if val.Len() == 0 {
			return ShapeUnrecognized
		}
		nested := 0
		for _, k := range val.keys {
			if _, ok := val.values[k].(*Record); ok {
				nested++
			}
		}
		switch {
		case nested == val.Len():
			return ShapeRecordMapping
		case nested > 0 && !hasAnyKey(val, titleAliases):
			return ShapeRecordMapping
		default:
			return ShapeRecord
		}
	default:
		return ShapeUnrecognized
	}
}

// RecordsOf expands a literal into the records it carries, in source order.
// For a mapping of records, the mapping key becomes the record's canonical_id
// unless the record already carries a non-empty canonical_id.
// The input is never modified.
func RecordsOf(v any) []*Record {
	switch ClassifyLiteral(v) {
	case ShapeRecord:
		return []*Record{v.(*Record)}
	case ShapeRecordSequence:
		items := v.([]any)
		out := make([]*Record, 0, len(items))
		for _, item := range items {
			out = append(out, item.(*Record))
		}
		return out
	case ShapeRecordMapping:
		m := v.(*Record)
		out := make([]*Record, 0, m.Len())
		for _, k := range m.keys {
			rec, ok := m.values[k].(*Record)
			if !ok {
				continue
			}
			existing, _ := rec.Get("canonical_id")
			if truthy(existing) {
				out = append(out, rec)
				continue
			}
			withID := rec.Clone()
			withID.Set("canonical_id", k)
			out = append(out, withID)
		}
		return out
	default:
		return nil
	}
}

func hasAnyKey(r *Record, keys []string) bool {
	for _, k := range keys {
		if _, ok := r.values[k]; ok {
			return true
		}
	}
	return false
}
