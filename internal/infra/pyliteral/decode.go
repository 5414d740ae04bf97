package pyliteral

import (
	"errors"
	"math"
	"math/big"
	"strconv"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"golang.org/x/text/unicode/runenames"

	"github.com/runoshun/ticketsync/internal/domain"
)

// decoder converts literal syntax nodes into values of the record value domain:
// nil, bool, int64, float64, string, []any and *domain.Record.
type decoder struct {
	src []byte
}

func (d *decoder) text(n *sitter.Node) string {
	return string(d.src[n.StartByte():n.EndByte()])
}

// value decodes n. It returns false when n is not literal syntax.
func (d *decoder) value(n *sitter.Node) (any, bool) {
	switch n.Type() {
	case "string":
		return d.str(n)
	case "concatenated_string":
		var b strings.Builder
		for _, part := range namedChildren(n) {
			if part.Type() != "string" {
				return nil, false
			}
			s, ok := d.str(part)
			if !ok {
				return nil, false
			}
			b.WriteString(s.(string))
		}
		return b.String(), true
	case "integer":
		return parseInt(d.text(n))
	case "float":
		return parseFloat(d.text(n))
	case "true":
		return true, true
	case "false":
		return false, true
	case "none":
		return nil, true
	case "unary_operator":
		return d.signed(n)
	case "parenthesized_expression":
		inner := namedChildren(n)
		if len(inner) != 1 {
			return nil, false
		}
		return d.value(inner[0])
	case "list", "tuple":
		return d.items(n, false)
	case "set":
		return d.items(n, true)
	case "dictionary":
		return d.dict(n)
	default:
		return nil, false
	}
}

// str decodes a single string node. f-strings are not literals.
func (d *decoder) str(n *sitter.Node) (any, bool) {
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c != nil && c.Type() == "interpolation" {
			return nil, false
		}
	}
	s, ok := decodeString(d.text(n))
	if !ok {
		return nil, false
	}
	return s, true
}

// signed decodes unary plus or minus applied directly to a number.
func (d *decoder) signed(n *sitter.Node) (any, bool) {
	op := n.ChildByFieldName("operator")
	arg := n.ChildByFieldName("argument")
	if op == nil || arg == nil {
		return nil, false
	}
	if t := arg.Type(); t != "integer" && t != "float" {
		return nil, false
	}
	v, ok := d.value(arg)
	if !ok {
		return nil, false
	}

	switch d.text(op) {
	case "+":
		return v, true
	case "-":
		switch num := v.(type) {
		case int64:
			return -num, true
		case float64:
			return -num, true
		}
	}
	return nil, false
}

// items decodes list, tuple and set elements. Set elements must be hashable.
func (d *decoder) items(n *sitter.Node, set bool) (any, bool) {
	children := namedChildren(n)
	out := make([]any, 0, len(children))
	for _, c := range children {
		v, ok := d.value(c)
		if !ok {
			return nil, false
		}
		if set {
			switch v.(type) {
			case []any, *domain.Record:
				return nil, false
			}
			if containsScalar(out, v) {
				continue
			}
		}
		out = append(out, v)
	}
	return out, true
}

// dict decodes a dictionary into an ordered record. Keys must be scalars.
func (d *decoder) dict(n *sitter.Node) (any, bool) {
	rec := domain.NewRecord()
	for _, c := range namedChildren(n) {
		if c.Type() != "pair" {
			return nil, false
		}
		kn := c.ChildByFieldName("key")
		vn := c.ChildByFieldName("value")
		if kn == nil || vn == nil {
			return nil, false
		}
		k, ok := d.value(kn)
		if !ok {
			return nil, false
		}
		key, ok := keyString(k)
		if !ok {
			return nil, false
		}
		v, ok := d.value(vn)
		if !ok {
			return nil, false
		}
		rec.Set(key, v)
	}
	return rec, true
}

func containsScalar(items []any, v any) bool {
	for _, item := range items {
		if item == v {
			return true
		}
	}
	return false
}

// keyString renders a scalar dict key the way it appears once serialized.
func keyString(k any) (string, bool) {
	switch key := k.(type) {
	case string:
		return key, true
	case int64:
		return strconv.FormatInt(key, 10), true
	case float64:
		return strconv.FormatFloat(key, 'g', -1, 64), true
	case bool:
		if key {
			return "true", true
		}
		return "false", true
	case nil:
		return "null", true
	default:
		return "", false
	}
}

// parseInt parses a Python integer literal. Values beyond int64 become float64.
// Imaginary literals are not supported.
func parseInt(text string) (any, bool) {
	s := strings.ReplaceAll(text, "_", "")
	if s == "" || strings.HasSuffix(s, "j") || strings.HasSuffix(s, "J") {
		return nil, false
	}
	if i, err := strconv.ParseInt(s, 0, 64); err == nil {
		return i, true
	}
	bi, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil, false
	}
	f, _ := new(big.Float).SetInt(bi).Float64()
	return f, true
}

// parseFloat parses a Python float literal. Overflow yields ±Inf as in Python.
func parseFloat(text string) (any, bool) {
	s := strings.ReplaceAll(text, "_", "")
	if s == "" || strings.HasSuffix(s, "j") || strings.HasSuffix(s, "J") {
		return nil, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) && math.IsInf(f, 0) {
			return f, true
		}
		return nil, false
	}
	return f, true
}

// decodeString decodes the source text of one string literal, including its
// prefix and quotes. Raw strings keep backslashes; f-strings are rejected.
func decodeString(raw string) (string, bool) {
	i := 0
	for i < len(raw) && raw[i] != '\'' && raw[i] != '"' {
		i++
	}
	prefix := strings.ToLower(raw[:i])
	body := raw[i:]
	if strings.Trim(prefix, "rbu") != "" {
		return "", false
	}

	var quote string
	switch {
	case strings.HasPrefix(body, `"""`), strings.HasPrefix(body, `'''`):
		quote = body[:3]
	case len(body) >= 1:
		quote = body[:1]
	default:
		return "", false
	}
	if len(body) < 2*len(quote) || !strings.HasSuffix(body, quote) {
		return "", false
	}
	body = body[len(quote) : len(body)-len(quote)]

	if strings.Contains(prefix, "r") {
		return body, true
	}
	if strings.Contains(prefix, "b") {
		return unescapeBytes(body), true
	}
	return unescape(body), true
}

// unescape interprets Python str escapes, including \N{NAME}.
// Unknown escapes are kept verbatim.
func unescape(s string) string {
	return unescapeWith(s, true)
}

// unescapeBytes interprets Python bytes escapes: \u, \U and \N are not
// escapes in bytes literals and stay verbatim. Byte values from \x and octal
// escapes are returned as the runes U+0000 to U+00FF.
func unescapeBytes(s string) string {
	return unescapeWith(s, false)
}

func unescapeWith(s string, text bool) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch e := s[i]; e {
		case '\n':
			// line continuation
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
		case '\\', '\'', '"':
			b.WriteByte(e)
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'v':
			b.WriteByte('\v')
		case '0', '1', '2', '3', '4', '5', '6', '7':
			j := i
			for j < len(s) && j < i+3 && s[j] >= '0' && s[j] <= '7' {
				j++
			}
			n, _ := strconv.ParseUint(s[i:j], 8, 32)
			b.WriteRune(rune(n))
			i = j - 1
		case 'N':
			r, n, ok := namedRune(s, i+1)
			if !text || !ok {
				b.WriteByte('\\')
				b.WriteByte(e)
				continue
			}
			b.WriteRune(r)
			i += n
		case 'u', 'U':
			if !text {
				b.WriteByte('\\')
				b.WriteByte(e)
				continue
			}
			fallthrough
		case 'x':
			width := map[byte]int{'x': 2, 'u': 4, 'U': 8}[e]
			r, ok := hexRune(s, i+1, width)
			if !ok {
				b.WriteByte('\\')
				b.WriteByte(e)
				continue
			}
			b.WriteRune(r)
			i += width
		default:
			b.WriteByte('\\')
			b.WriteByte(e)
		}
	}
	return b.String()
}

// hexRune reads width hex digits of s starting at i.
func hexRune(s string, i, width int) (rune, bool) {
	if i+width > len(s) {
		return 0, false
	}
	n, err := strconv.ParseUint(s[i:i+width], 16, 32)
	if err != nil {
		return 0, false
	}
	r := rune(n)
	if !utf8.ValidRune(r) {
		return 0, false
	}
	return r, true
}

var (
	runeNamesOnce sync.Once
	runeNames     map[string]rune
)

// namedRune reads a "{NAME}" suffix of a \N escape starting at s[i]. It
// returns the rune and the number of bytes consumed.
func namedRune(s string, i int) (rune, int, bool) {
	if i >= len(s) || s[i] != '{' {
		return 0, 0, false
	}
	end := strings.IndexByte(s[i:], '}')
	if end < 2 {
		return 0, 0, false
	}
	name := strings.ToUpper(s[i+1 : i+end])

	runeNamesOnce.Do(func() {
		runeNames = make(map[string]rune)
		for r := rune(0); r <= unicode.MaxRune; r++ {
			if n := runenames.Name(r); n != "" && n[0] != '<' {
				runeNames[n] = r
			}
		}
	})
	r, ok := runeNames[name]
	if !ok {
		return 0, 0, false
	}
	return r, end + 1, true
}
