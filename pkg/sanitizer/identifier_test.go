package sanitizer_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/printdrop/pkg/sanitizer"
)

func TestIdentifier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{name: "empty string", input: "", maxLen: 32, expected: ""},
		{name: "whitespace only", input: "  \t\n ", maxLen: 32, expected: ""},
		{name: "plain identifier", input: "order-42", maxLen: 32, expected: "order-42"},
		{name: "order with sequence marker", input: "Order#7 / s01of05", maxLen: 32, expected: "Order7_s01of05"},
		{name: "whitespace collapsed to underscore", input: "my   order\tname", maxLen: 32, expected: "my_order_name"},
		{name: "no-break space", input: "Order\u00a07", maxLen: 32, expected: "Order_7"},
		{name: "em space", input: "Order\u20037", maxLen: 32, expected: "Order_7"},
		{name: "ideographic space", input: "Order\u30007", maxLen: 32, expected: "Order_7"},
		{name: "vertical tab", input: "Order\v7", maxLen: 32, expected: "Order_7"},
		{name: "mixed unicode whitespace run", input: "Order \u00a0\u3000\t7", maxLen: 32, expected: "Order_7"},
		{name: "path traversal", input: "../../etc/passwd", maxLen: 32, expected: "etc_passwd"},
		{name: "windows separators", input: `C:\Windows\system32`, maxLen: 32, expected: "C_Windows_system32"},
		{name: "reserved characters", input: `a*b?c"d<e>f|g`, maxLen: 32, expected: "a_b_c_d_e_f_g"},
		{name: "control characters stripped", input: "ab\x00c\x7fd", maxLen: 32, expected: "abcd"},
		{name: "leading dots", input: ".hidden", maxLen: 32, expected: "hidden"},
		{name: "edge hyphens and underscores", input: "--_name_--", maxLen: 32, expected: "name"},
		{name: "unicode letters kept", input: "Zamówienie 12", maxLen: 32, expected: "Zamówienie_12"},
		{name: "decomposed input composed", input: "Cafe\u0301", maxLen: 32, expected: "Café"},
		{name: "punctuation removed", input: "hello, world!", maxLen: 32, expected: "hello_world"},
		{name: "truncated by runes", input: "ąąąąąąąąąą", maxLen: 4, expected: "ąąąą"},
		{name: "truncation re-trims edges", input: "abc_def", maxLen: 4, expected: "abc"},
		{name: "only garbage", input: "#$%^&", maxLen: 32, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, sanitizer.Identifier(tt.input, tt.maxLen))
		})
	}
}

func TestIdentifierProperties(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"../../../root",
		"..",
		"...",
		". . .",
		"./a/./b/../c",
		`\\server\share`,
		"名前 テスト / 注文",
		"\x01\x02\x03",
		"_-_-_",
		strings.Repeat("x/", 100),
		strings.Repeat("é", 80),
		"a\u0000/..\u0000/b",
		"Order#7 / s01of05",
		" \u00a0nbsp\u00a0 ",
	}

	for _, input := range inputs {
		for _, maxLen := range []int{sanitizer.MaxOrderIDLength, sanitizer.MaxFileBaseLength, 5} {
			out := sanitizer.Identifier(input, maxLen)

			assert.NotContains(t, out, "/", "input %q", input)
			assert.NotContains(t, out, `\`, "input %q", input)
			assert.NotContains(t, out, "..", "input %q", input)
			assert.False(t, strings.HasPrefix(out, "."), "input %q", input)
			assert.LessOrEqual(t, utf8.RuneCountInString(out), maxLen, "input %q", input)
			assert.Equal(t, out, sanitizer.Identifier(out, maxLen), "not idempotent for %q", input)
		}
	}
}

func TestOrderDirectory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "strips two digit total", input: "Order7_s01of05", expected: "Order7"},
		{name: "strips one digit total", input: "Order7_s02of3", expected: "Order7"},
		{name: "case insensitive marker", input: "Order7_S01OF05", expected: "Order7"},
		{name: "no marker", input: "Order7", expected: "Order7"},
		{name: "marker not at end", input: "Order7_s01of05_x", expected: "Order7_s01of05_x"},
		{name: "single digit sequence is not a marker", input: "Order7_s1of05", expected: "Order7_s1of05"},
		{name: "stray separators trimmed", input: "Order7-_s01of05", expected: "Order7"},
		{name: "empty falls back", input: "", expected: sanitizer.NoOrderDirectory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, sanitizer.OrderDirectory(tt.input))
		})
	}
}
