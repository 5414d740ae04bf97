package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRecord(t *testing.T) {
	r := rec(
		"id", "CORE-7",
		"name", "Add caching layer",
		"description", "REQUIRES: - PROVIDES: cache PRIORITY: P1",
		"tags", "backend, , perf ",
		"parent_id", "CORE-1",
		"estimate", "5",
		"priority", "P1",
		"REQUIRES", []any{"CORE-1", "CORE-2"},
		"provides", "cache",
	)

	got := NormalizeRecord(r)
	assert.Equal(t, "CORE-7", got.ID())
	assert.Equal(t, "Add caching layer", got.Title)
	assert.Equal(t, "REQUIRES: - PROVIDES: cache PRIORITY: P1", got.Body)
	assert.Equal(t, []string{"backend", "perf"}, got.Labels)
	assert.Equal(t, ParentKey("CORE-1"), got.ParentCanonical)
	assert.Equal(t, IntNumber(5), got.Points)
	assert.Equal(t, "P1", *got.Priority)
	assert.Equal(t, "CORE-1, CORE-2", got.Requires)
	assert.Equal(t, "cache", got.Provides)
}

func TestNormalizeRecord_AliasPriority(t *testing.T) {
	// An empty higher-priority alias falls through to the next one.
	got := NormalizeRecord(rec("title", "", "name", "Named", "summary", "Summary"))
	assert.Equal(t, "Named", got.Title)

	got = NormalizeRecord(rec("summary", "Summary", "title", "Titled"))
	assert.Equal(t, "Titled", got.Title)
}

func TestNormalizeRecord_Neutral(t *testing.T) {
	got := NormalizeRecord(rec("unrelated", int64(1)))
	assert.Equal(t, "", got.Title)
	assert.Nil(t, got.CanonicalID)
	assert.Equal(t, []string{}, got.Labels)
	assert.Nil(t, got.ParentCanonical)
	assert.Nil(t, got.Points)
	assert.Nil(t, got.Priority)

	assert.Equal(t, []string{}, NormalizeRecord(nil).Labels)
}

func TestNormalizeRecord_ScalarTitles(t *testing.T) {
	assert.Equal(t, "42", NormalizeRecord(rec("title", int64(42))).Title)
	assert.Equal(t, "1.0", NormalizeRecord(rec("title", 1.0)).Title)
	assert.Equal(t, "True", NormalizeRecord(rec("title", true)).Title)
	assert.Equal(t, "", NormalizeRecord(rec("title", []any{"a"})).Title)
}

func TestNormalizeRecord_NumericParent(t *testing.T) {
	assert.Equal(t, ParentNumber(12), NormalizeRecord(rec("title", "A", "parent", int64(12))).ParentCanonical)
	assert.Equal(t, ParentKey("#12"), NormalizeRecord(rec("title", "A", "parent", "#12")).ParentCanonical)
	assert.Nil(t, NormalizeRecord(rec("title", "A", "parent", int64(0))).ParentCanonical)
}

func TestNormalizeLabels(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  []string
	}{
		{"comma string", "a, b,c", []string{"a", "b", "c"}},
		{"empty pieces", " , a,, ", []string{"a"}},
		{"sequence", []any{"a", int64(2), nil, "b"}, []string{"a", "2", "None", "b"}},
		{"nested items kept", []any{"a", []any{"x", int64(1)}, rec("k", "v")}, []string{"a", `["x",1]`, `{"k":"v"}`}},
		{"empty string", "", []string{}},
		{"unsupported", int64(3), []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeLabels(tt.value))
		})
	}
}

func TestCoercePoints(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  *Number
	}{
		{"int", int64(3), IntNumber(3)},
		{"float truncates", 2.9, IntNumber(2)},
		{"negative float truncates toward zero", -2.9, IntNumber(-2)},
		{"huge float", 1e30, FloatNumber(1e30)},
		{"int string", " 8 ", IntNumber(8)},
		{"underscored string", "1_000", IntNumber(1000)},
		{"float string", "2.5", FloatNumber(2.5)},
		{"bad string", "three", nil},
		{"empty string", "", nil},
		{"true", true, IntNumber(1)},
		{"false", false, IntNumber(0)},
		{"nan", math.NaN(), nil},
		{"inf", math.Inf(1), nil},
		{"sequence", []any{int64(1)}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CoercePoints(tt.value))
		})
	}
}
