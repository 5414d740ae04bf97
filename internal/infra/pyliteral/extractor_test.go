package pyliteral

import (
	"errors"
	"testing"

	"github.com/runoshun/ticketsync/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rec builds a record from alternating keys and values.
func rec(kv ...any) *domain.Record {
	r := domain.NewRecord()
	for i := 0; i+1 < len(kv); i += 2 {
		r.Set(kv[i].(string), kv[i+1])
	}
	return r
}

func extract(t *testing.T, src string) []domain.Literal {
	t.Helper()
	lits, err := New().Extract("create_tickets.py", []byte(src))
	require.NoError(t, err)
	return lits
}

func TestExtractor_Supports(t *testing.T) {
	e := New()
	assert.True(t, e.Supports("create_all_tickets.py"))
	assert.True(t, e.Supports("dir/CREATE.PY"))
	assert.False(t, e.Supports("tickets.yaml"))
	assert.False(t, e.Supports("create.pyc"))
}

func TestExtractor_ListOfRecords(t *testing.T) {
	src := `#!/usr/bin/env python3
import subprocess

TICKETS = [
    {"title": "Add caching layer", "labels": "backend, perf", "points": 3},
    # a comment between records
    {'title': 'Tune GC', 'parent': 'CORE-1', "points": 2.5, "done": True, "owner": None},
]
`
	lits := extract(t, src)
	require.Len(t, lits, 1)
	assert.Equal(t, "TICKETS", lits[0].Name)
	assert.Equal(t, 4, lits[0].Line)
	assert.Equal(t, []any{
		rec("title", "Add caching layer", "labels", "backend, perf", "points", int64(3)),
		rec("title", "Tune GC", "parent", "CORE-1", "points", 2.5, "done", true, "owner", nil),
	}, lits[0].Value)
}

func TestExtractor_MappingAndShapes(t *testing.T) {
	src := `
parents = {
    "CORE-1": {"title": "Core", "labels": ["a", "b"]},
    "CORE-2": {"title": "Second", "requires": ("CORE-1",)},
}

pair = ({"title": "One"}, {"title": "Two"})

a = b = [{"title": "Chained"}]

typed: list = [{"title": "Annotated"}]

[{"title": "Bare"}]

wrapped = ([{"title": "Wrapped"}])
`
	lits := extract(t, src)
	require.Len(t, lits, 6)

	assert.Equal(t, "parents", lits[0].Name)
	assert.Equal(t, rec(
		"CORE-1", rec("title", "Core", "labels", []any{"a", "b"}),
		"CORE-2", rec("title", "Second", "requires", []any{"CORE-1"}),
	), lits[0].Value)

	assert.Equal(t, "pair", lits[1].Name)
	assert.Equal(t, []any{rec("title", "One"), rec("title", "Two")}, lits[1].Value)

	assert.Equal(t, "a", lits[2].Name)
	assert.Equal(t, []any{rec("title", "Chained")}, lits[2].Value)

	assert.Equal(t, "typed", lits[3].Name)
	assert.Equal(t, []any{rec("title", "Annotated")}, lits[3].Value)

	assert.Equal(t, "", lits[4].Name)
	assert.Equal(t, []any{rec("title", "Bare")}, lits[4].Value)

	assert.Equal(t, "wrapped", lits[5].Name)
	assert.Equal(t, []any{rec("title", "Wrapped")}, lits[5].Value)
}

func TestExtractor_Scalars(t *testing.T) {
	src := `
VALUES = [
    "a" "b",
    r"\d+",
    """multi
line""",
    "café",
    b"raw",
    -5,
    +1.5,
    -2.0,
    0x1F,
    1_000,
    1e3,
    False,
]
`
	lits := extract(t, src)
	require.Len(t, lits, 1)
	assert.Equal(t, []any{
		"ab",
		`\d+`,
		"multi\nline",
		"café",
		"raw",
		int64(-5),
		1.5,
		-2.0,
		int64(31),
		int64(1000),
		1000.0,
		false,
	}, lits[0].Value)
}

func TestExtractor_DuplicateKeysKeepFirstPosition(t *testing.T) {
	lits := extract(t, `T = {"title": "x", "body": "b", "title": "y"}`)
	require.Len(t, lits, 1)

	r := lits[0].Value.(*domain.Record)
	assert.Equal(t, []string{"title", "body"}, r.Keys())
	v, _ := r.Get("title")
	assert.Equal(t, "y", v)
}

func TestExtractor_SkipsNonLiterals(t *testing.T) {
	src := `
import os

BASE = {"labels": ["x"]}
COMPREHENSION = [{"title": t} for t in ["a", "b"]]
CALL = [dict(title="x")]
FSTRING = [{"title": f"{os.name}"}]
PLAIN_FSTRING = [{"title": f"static"}]
NAMES = [{"title": BASE}]
SPLAT = {**BASE, "title": "x"}
MATH = [1 + 2]
NESTED_SIGN = [- -1]
SCALAR = 42
DOC = "module docstring"
SET_OF_DICTS = [{ {"a": 1} }]
x += [{"title": "augmented"}]

def build():
    return [{"title": "inside function"}]

if __name__ == "__main__":
    MAIN = [{"title": "inside if"}]

KEPT = [{"title": "Kept"}]
`
	lits := extract(t, src)
	require.Len(t, lits, 2)
	assert.Equal(t, "BASE", lits[0].Name)
	assert.Equal(t, "KEPT", lits[1].Name)
	assert.Equal(t, []any{rec("title", "Kept")}, lits[1].Value)
}

func TestExtractor_Sets(t *testing.T) {
	lits := extract(t, `LABELS = [{"title": "x", "labels": {"a", "b", "a"}}]`)
	require.Len(t, lits, 1)
	assert.Equal(t, []any{rec("title", "x", "labels", []any{"a", "b"})}, lits[0].Value)
}

func TestExtractor_SyntaxError(t *testing.T) {
	src := "OK = [1]\n\nBROKEN = [\n    {\"title\": \"x\",\n"
	_, err := New().Extract("create_broken.py", []byte(src))
	require.Error(t, err)

	var perr *domain.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "create_broken.py", perr.Source)
	assert.Greater(t, perr.Line, 0)
	assert.Contains(t, err.Error(), "create_broken.py")
}

func TestExtractor_EmptySource(t *testing.T) {
	lits, err := New().Extract("empty.py", nil)
	require.NoError(t, err)
	assert.Empty(t, lits)
}
