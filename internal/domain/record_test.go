package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rec builds a record from alternating keys and values.
func rec(kv ...any) *Record {
	r := NewRecord()
	for i := 0; i+1 < len(kv); i += 2 {
		r.Set(kv[i].(string), kv[i+1])
	}
	return r
}

func TestRecord_KeepsKeyOrder(t *testing.T) {
	r := rec("title", "A", "labels", "x", "points", int64(1))
	r.Set("labels", "y")
	r.Set("body", "text")

	assert.Equal(t, []string{"title", "labels", "points", "body"}, r.Keys())
	v, ok := r.Get("labels")
	assert.True(t, ok)
	assert.Equal(t, "y", v)
	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestRecord_Clone(t *testing.T) {
	r := rec("title", "A")
	c := r.Clone()
	c.Set("canonical_id", "K")

	assert.Equal(t, 1, r.Len())
	assert.Equal(t, 2, c.Len())
}

func TestRecord_MarshalJSON(t *testing.T) {
	r := rec("z", int64(1), "a", []any{"x", nil}, "m", rec("k", true))
	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":["x",null],"m":{"k":true}}`, string(b))
}

func TestClassifyLiteral(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  Shape
	}{
		{"record sequence", []any{rec("title", "A"), rec("title", "B")}, ShapeRecordSequence},
		{"mixed sequence", []any{rec("title", "A"), "B"}, ShapeUnrecognized},
		{"empty sequence", []any{}, ShapeUnrecognized},
		{"scalar sequence", []any{"a", "b"}, ShapeUnrecognized},
		{"single record", rec("title", "A", "labels", "x"), ShapeRecord},
		{"mapping of records", rec("K1", rec("title", "A"), "K2", rec("title", "B")), ShapeRecordMapping},
		{"mapping with extras and no title", rec("K1", rec("title", "A"), "version", int64(2)), ShapeRecordMapping},
		{"record with nested record", rec("title", "A", "meta", rec("x", int64(1))), ShapeRecord},
		{"empty mapping", NewRecord(), ShapeUnrecognized},
		{"string", "title", ShapeUnrecognized},
		{"nil", nil, ShapeUnrecognized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyLiteral(tt.value))
		})
	}
}

func TestShape_String(t *testing.T) {
	assert.Equal(t, "record", ShapeRecord.String())
	assert.Equal(t, "record-sequence", ShapeRecordSequence.String())
	assert.Equal(t, "record-mapping", ShapeRecordMapping.String())
	assert.Equal(t, "unrecognized", ShapeUnrecognized.String())
}

func TestRecordsOf(t *testing.T) {
	t.Run("sequence keeps order", func(t *testing.T) {
		a, b := rec("title", "A"), rec("title", "B")
		assert.Equal(t, []*Record{a, b}, RecordsOf([]any{a, b}))
	})

	t.Run("single record", func(t *testing.T) {
		a := rec("title", "A")
		assert.Equal(t, []*Record{a}, RecordsOf(a))
	})

	t.Run("mapping keys become canonical ids", func(t *testing.T) {
		withID := rec("title", "B", "canonical_id", "OWN-2")
		emptyID := rec("title", "C", "canonical_id", "")
		m := rec(
			"CORE-1", rec("title", "A"),
			"CORE-2", withID,
			"CORE-3", emptyID,
			"note", "skipped",
		)

		got := RecordsOf(m)
		require.Len(t, got, 3)
		id, _ := got[0].Get("canonical_id")
		assert.Equal(t, "CORE-1", id)
		assert.Same(t, withID, got[1])
		id, _ = got[2].Get("canonical_id")
		assert.Equal(t, "CORE-3", id)

		// The input is not modified.
		inner, _ := m.Get("CORE-1")
		_, ok := inner.(*Record).Get("canonical_id")
		assert.False(t, ok)
		id, _ = emptyID.Get("canonical_id")
		assert.Equal(t, "", id)
	})

	t.Run("unrecognized", func(t *testing.T) {
		assert.Nil(t, RecordsOf([]any{"a"}))
		assert.Nil(t, RecordsOf(int64(3)))
	})
}
