// Package yamlsource extracts literal ticket data from YAML and JSON sources.
//
// Each document is one literal. A document whose top-level mapping binds
// sequences of records under names (for example "tickets:") is treated like
// a module of assignments: every collection-valued key becomes a named literal.
package yamlsource

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/runoshun/ticketsync/internal/domain"
)

// Ensure Extractor implements domain.SourceExtractor interface.
var _ domain.SourceExtractor = (*Extractor)(nil)

var errLinePattern = regexp.MustCompile(`^yaml: line (\d+): `)

// Extractor implements domain.SourceExtractor for YAML and JSON files.
type Extractor struct{}

// New creates a new YAML extractor.
func New() *Extractor {
	return &Extractor{}
}

// Supports reports whether path is a YAML or JSON file.
func (e *Extractor) Supports(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// Extract returns the literals of every document in content.
func (e *Extractor) Extract(path string, content []byte) ([]domain.Literal, error) {
	dec := yaml.NewDecoder(bytes.NewReader(content))

	var literals []domain.Literal
	for {
		var doc yaml.Node
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, parseError(path, err)
		}
		if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
			continue
		}
		root := resolveAlias(doc.Content[0])

		v, err := newDecoder().decode(root)
		if err != nil {
			return nil, &domain.ParseError{Err: err, Source: path, Message: err.Error(), Line: root.Line, Column: root.Column}
		}
		literals = append(literals, bindings(root, v)...)
	}
	return literals, nil
}

// bindings splits a decoded document into literals.
func bindings(root *yaml.Node, v any) []domain.Literal {
	switch val := v.(type) {
	case []any:
		return []domain.Literal{{Value: val, Line: root.Line}}
	case *domain.Record:
		if !isModule(val) {
			return []domain.Literal{{Value: val, Line: root.Line}}
		}
		var out []domain.Literal
		for i := 0; i+1 < len(root.Content); i += 2 {
			name := root.Content[i].Value
			item, _ := val.Get(name)
			switch item.(type) {
			case []any, *domain.Record:
				out = append(out, domain.Literal{
					Value: item,
					Name:  name,
					Line:  root.Content[i+1].Line,
				})
			}
		}
		return out
	default:
		return nil
	}
}

// isModule reports whether a top-level mapping names record sequences
// rather than being a record or a mapping of records itself.
func isModule(r *domain.Record) bool {
	if domain.ClassifyLiteral(r) == domain.ShapeRecordMapping {
		return false
	}
	for _, k := range r.Keys() {
		v, _ := r.Get(k)
		if domain.ClassifyLiteral(v) == domain.ShapeRecordSequence {
			return true
		}
	}
	return false
}

// maxDecodedNodes bounds how many nodes one document may expand to through aliases.
const maxDecodedNodes = 100_000

var (
	errAliasCycle  = errors.New("anchor contains itself")
	errAliasBudget = fmt.Errorf("document expands to more than %d nodes through aliases", maxDecodedNodes)
)

// decoder converts nodes into the record value domain. It tracks the
// collections on the current path so a self-referencing anchor fails
// instead of recursing forever.
type decoder struct {
	active map[*yaml.Node]bool
	nodes  int
}

func newDecoder() *decoder {
	return &decoder{active: make(map[*yaml.Node]bool)}
}

// enter marks n as being decoded. The returned func unmarks it.
func (d *decoder) enter(n *yaml.Node) (func(), error) {
	if d.active[n] {
		return nil, fmt.Errorf("line %d: %w", n.Line, errAliasCycle)
	}
	d.active[n] = true
	return func() { delete(d.active, n) }, nil
}

func (d *decoder) decode(n *yaml.Node) (any, error) {
	n = resolveAlias(n)
	d.nodes++
	if d.nodes > maxDecodedNodes {
		return nil, fmt.Errorf("line %d: %w", n.Line, errAliasBudget)
	}

	switch n.Kind {
	case yaml.ScalarNode:
		return scalar(n)
	case yaml.SequenceNode:
		leave, err := d.enter(n)
		if err != nil {
			return nil, err
		}
		defer leave()

		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := d.decode(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.MappingNode:
		return d.mapping(n)
	default:
		return nil, fmt.Errorf("line %d: unsupported node", n.Line)
	}
}

// mapping decodes a mapping node. Merge keys ("<<") contribute entries that
// the mapping does not set explicitly.
func (d *decoder) mapping(n *yaml.Node) (*domain.Record, error) {
	leave, err := d.enter(n)
	if err != nil {
		return nil, err
	}
	defer leave()

	rec := domain.NewRecord()
	var merged []*domain.Record

	for i := 0; i+1 < len(n.Content); i += 2 {
		k, vn := resolveAlias(n.Content[i]), n.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: mapping keys must be scalars", k.Line)
		}

		if k.ShortTag() == "!!merge" {
			srcs, err := d.mergeSources(vn)
			if err != nil {
				return nil, err
			}
			merged = append(merged, srcs...)
			continue
		}

		v, err := d.decode(vn)
		if err != nil {
			return nil, err
		}
		rec.Set(k.Value, v)
	}

	for _, m := range merged {
		for _, key := range m.Keys() {
			if _, ok := rec.Get(key); ok {
				continue
			}
			v, _ := m.Get(key)
			rec.Set(key, v)
		}
	}
	return rec, nil
}

func (d *decoder) mergeSources(n *yaml.Node) ([]*domain.Record, error) {
	n = resolveAlias(n)
	var nodes []*yaml.Node
	switch n.Kind {
	case yaml.MappingNode:
		nodes = []*yaml.Node{n}
	case yaml.SequenceNode:
		nodes = n.Content
	default:
		return nil, fmt.Errorf("line %d: merge value must be a mapping", n.Line)
	}

	out := make([]*domain.Record, 0, len(nodes))
	for _, c := range nodes {
		c = resolveAlias(c)
		if c.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("line %d: merge value must be a mapping", c.Line)
		}
		d.nodes++
		if d.nodes > maxDecodedNodes {
			return nil, fmt.Errorf("line %d: %w", c.Line, errAliasBudget)
		}
		rec, err := d.mapping(c)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// scalar decodes a scalar by its resolved tag. Timestamps and other
// non-JSON types keep their source text.
func scalar(n *yaml.Node) (any, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return b, nil
	case "!!int":
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		switch i := v.(type) {
		case int:
			return int64(i), nil
		case int64:
			return i, nil
		case uint64:
			if i > math.MaxInt64 {
				return float64(i), nil
			}
			return int64(i), nil
		case float64:
			return i, nil
		}
		return n.Value, nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return f, nil
	default:
		return n.Value, nil
	}
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for i := 0; n.Kind == yaml.AliasNode && n.Alias != nil && i < maxDecodedNodes; i++ {
		n = n.Alias
	}
	return n
}

// parseError converts a yaml.v3 error into a ParseError, keeping the line number.
func parseError(path string, err error) *domain.ParseError {
	msg := err.Error()
	perr := &domain.ParseError{Source: path, Message: strings.TrimPrefix(msg, "yaml: ")}
	if m := errLinePattern.FindStringSubmatch(msg); m != nil {
		perr.Line, _ = strconv.Atoi(m[1])
		perr.Message = msg[len(m[0]):]
	}
	return perr
}
