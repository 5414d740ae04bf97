// Package pyliteral extracts top-level literal data from Python source files.
//
// Sources are parsed with tree-sitter; nothing is executed. Only top-level
// assignments and bare expression statements whose value is a list, tuple or
// dict literal are returned. An expression containing anything other than
// literal syntax (calls, names, comprehensions, f-strings, operators) is skipped.
package pyliteral

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/runoshun/ticketsync/internal/domain"
)

// Ensure Extractor implements domain.SourceExtractor interface.
var _ domain.SourceExtractor = (*Extractor)(nil)

// Extractor implements domain.SourceExtractor for Python sources.
type Extractor struct {
	parser *sitter.Parser
	mu     sync.Mutex
}

// New creates a new Python literal extractor.
func New() *Extractor {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	return &Extractor{parser: parser}
}

// Supports reports whether path is a Python source.
func (e *Extractor) Supports(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".py")
}

// Extract returns the top-level collection literals in content, in source order.
// A source with syntax errors yields a *domain.ParseError.
func (e *Extractor) Extract(path string, content []byte) ([]domain.Literal, error) {
	e.mu.Lock()
	tree, err := e.parser.ParseCtx(context.Background(), nil, content)
	e.mu.Unlock()
	if err != nil {
		return nil, &domain.ParseError{Source: path, Message: err.Error()}
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, syntaxError(path, root)
	}

	d := &decoder{src: content}
	var literals []domain.Literal
	for _, stmt := range namedChildren(root) {
		if stmt.Type() != "expression_statement" {
			continue
		}
		exprs := namedChildren(stmt)
		if len(exprs) != 1 {
			continue
		}

		name, value := d.binding(exprs[0])
		if value == nil {
			continue
		}
		value = unwrapParens(value)
		switch value.Type() {
		case "list", "tuple", "dictionary":
		default:
			continue
		}

		v, ok := d.value(value)
		if !ok {
			continue
		}
		literals = append(literals, domain.Literal{
			Value: v,
			Name:  name,
			Line:  int(value.StartPoint().Row) + 1,
		})
	}
	return literals, nil
}

// binding returns the bound name and value node of a statement expression.
// Chained assignments bind the innermost value to the first target.
// Bare expressions have no name.
func (d *decoder) binding(expr *sitter.Node) (string, *sitter.Node) {
	if expr.Type() != "assignment" {
		return "", expr
	}

	var name string
	if left := expr.ChildByFieldName("left"); left != nil {
		name = d.text(left)
	}
	right := expr.ChildByFieldName("right")
	for right != nil && right.Type() == "assignment" {
		right = right.ChildByFieldName("right")
	}
	return name, right
}

// syntaxError locates the first error or missing node under root.
func syntaxError(path string, root *sitter.Node) *domain.ParseError {
	perr := &domain.ParseError{Source: path, Message: "invalid syntax"}

	var find func(n *sitter.Node) bool
	find = func(n *sitter.Node) bool {
		if n.Type() == "ERROR" || n.IsMissing() {
			p := n.StartPoint()
			perr.Line = int(p.Row) + 1
			perr.Column = int(p.Column) + 1
			if n.IsMissing() {
				perr.Message = fmt.Sprintf("missing %q", n.Type())
			}
			return true
		}
		if !n.HasError() {
			return false
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			if c := n.Child(i); c != nil && find(c) {
				return true
			}
		}
		return false
	}
	find(root)
	return perr
}

// namedChildren returns the named children of n, excluding comments.
func namedChildren(n *sitter.Node) []*sitter.Node {
	count := int(n.NamedChildCount())
	out := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		c := n.NamedChild(i)
		if c == nil || c.Type() == "comment" {
			continue
		}
		out = append(out, c)
	}
	return out
}

// unwrapParens strips redundant parentheses around an expression.
func unwrapParens(n *sitter.Node) *sitter.Node {
	for n != nil && n.Type() == "parenthesized_expression" {
		inner := namedChildren(n)
		if len(inner) != 1 {
			return n
		}
		n = inner[0]
	}
	return n
}
