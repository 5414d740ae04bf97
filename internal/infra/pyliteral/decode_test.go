package pyliteral

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeString(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{"double quoted", `"hello"`, "hello", true},
		{"single quoted", `'hello'`, "hello", true},
		{"empty", `""`, "", true},
		{"triple double", `"""a "quoted" word"""`, `a "quoted" word`, true},
		{"triple single", "'''line1\nline2'''", "line1\nline2", true},
		{"escapes", `"tab\tnew\nquote\"back\\"`, "tab\tnew\nquote\"back\\", true},
		{"raw keeps backslashes", `r"\d+\n"`, `\d+\n`, true},
		{"raw upper prefix", `R'\w'`, `\w`, true},
		{"unicode prefix", `u"x"`, "x", true},
		{"bytes prefix", `b"x"`, "x", true},
		{"raw bytes", `rb"\x"`, `\x`, true},
		{"bytes keep unicode escapes", `b"\u00e9\N{BULLET}"`, `\u00e9\N{BULLET}`, true},
		{"bytes hex", `b"\x41"`, "A", true},
		{"str named escape", `"\N{BULLET} item"`, "• item", true},
		{"f-string rejected", `f"x"`, "", false},
		{"unknown prefix", `z"x"`, "", false},
		{"unterminated", `"abc`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := decodeString(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnescape(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no escapes", "plain", "plain"},
		{"simple", `a\nb\tc`, "a\nb\tc"},
		{"bell and friends", `\a\b\f\v\r`, "\a\b\f\v\r"},
		{"quotes", `\'\"`, `'"`},
		{"hex", `\x41\x62`, "Ab"},
		{"octal", `\101\0`, "A\x00"},
		{"unicode 4", `caf\u00e9`, "café"},
		{"unicode 8", `\U0001F600`, "😀"},
		{"line continuation", "a\\\nb", "ab"},
		{"crlf continuation", "a\\\r\nb", "ab"},
		{"unknown escape kept", `\d\q`, `\d\q`},
		{"bad hex kept", `\xZZ`, `\xZZ`},
		{"named escape", `\N{BULLET}`, "•"},
		{"named escape any case", `caf\N{latin small letter e with acute}`, "café"},
		{"unknown name kept", `\N{NO SUCH CHARACTER}`, `\N{NO SUCH CHARACTER}`},
		{"empty name kept", `\N{}`, `\N{}`},
		{"unterminated name kept", `\N{BULLET`, `\N{BULLET`},
		{"trailing backslash", `abc\`, `abc\`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, unescape(tt.input))
		})
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		want  any
		input string
		ok    bool
	}{
		{int64(0), "0", true},
		{int64(42), "42", true},
		{int64(1000000), "1_000_000", true},
		{int64(31), "0x1F", true},
		{int64(15), "0o17", true},
		{int64(5), "0b101", true},
		{float64(1e20), "100000000000000000000", true},
		{nil, "3j", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := parseInt(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFloat(t *testing.T) {
	tests := []struct {
		want  any
		input string
		ok    bool
	}{
		{1.5, "1.5", true},
		{0.5, ".5", true},
		{5.0, "5.", true},
		{1000.0, "1e3", true},
		{1000.25, "1_000.25", true},
		{nil, "2.5j", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := parseFloat(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("overflow is infinity", func(t *testing.T) {
		got, ok := parseFloat("1e400")
		assert.True(t, ok)
		assert.True(t, math.IsInf(got.(float64), 1))
	})
}

func TestKeyString(t *testing.T) {
	tests := []struct {
		key  any
		want string
		ok   bool
	}{
		{"CORE-1", "CORE-1", true},
		{int64(7), "7", true},
		{2.5, "2.5", true},
		{true, "true", true},
		{nil, "null", true},
		{[]any{"a"}, "", false},
	}

	for _, tt := range tests {
		got, ok := keyString(tt.key)
		assert.Equal(t, tt.ok, ok)
		assert.Equal(t, tt.want, got)
	}
}
