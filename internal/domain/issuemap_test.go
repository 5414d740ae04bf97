package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIssueMap_ResolveParentNumber(t *testing.T) {
	m := IssueMap{"CORE-1": 42}

	tests := []struct {
		name string
		ref  *ParentRef
		want *int
	}{
		{"nil", nil, nil},
		{"number", ParentNumber(7), intp(7)},
		{"mapped key", ParentKey("CORE-1"), intp(42)},
		{"unmapped key", ParentKey("CORE-9"), nil},
		{"hash number", ParentKey("#12"), intp(12)},
		{"plain number string", ParentKey(" 12 "), intp(12)},
		{"zero", ParentKey("0"), nil},
		{"empty", ParentKey(""), nil},
		{"mixed", ParentKey("12a"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.ResolveParentNumber(tt.ref))
		})
	}
}

func TestIssueMap_NilLookup(t *testing.T) {
	var m IssueMap
	_, ok := m.Lookup("CORE-1")
	assert.False(t, ok)
	assert.Equal(t, intp(3), m.ResolveParentNumber(ParentKey("#3")))
}
