package config

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeJSONCRemovesCommentsAndTrailingCommas(t *testing.T) {
	input := `
{
  // line comment
  "items": [
    "one", /* block comment */
    "two",
  ],
  "nested": {
    "enabled": true,
  },
}
`

	normalized, err := normalizeJSONC(input)
	require.NoError(t, err)
	require.NotContains(t, normalized, "//")
	require.NotContains(t, normalized, "/*")
	require.Len(t, normalized, len(input))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(normalized), &decoded))
	require.Equal(t, []any{"one", "two"}, decoded["items"])
}

func TestNormalizeJSONCRetainsCommentLikeTextInsideStrings(t *testing.T) {
	input := `{"value":"contains // and /* comment-like */ text, ]",}`
	normalized, err := normalizeJSONC(input)
	require.NoError(t, err)
	require.Contains(t, normalized, "// and /* comment-like */ text, ]")
}

func TestNormalizeJSONCKeepsEscapedQuotes(t *testing.T) {
	input := `{"value":"quote \" // still string"}`
	normalized, err := normalizeJSONC(input)
	require.NoError(t, err)
	require.Equal(t, input, normalized)
}

func TestNormalizeJSONCUnterminatedBlockCommentFails(t *testing.T) {
	_, err := normalizeJSONC("{ /* unterminated ")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unterminated block comment")
}

func TestEnsureSingleJSONValueRejectsExtraPayload(t *testing.T) {
	decoder := json.NewDecoder(strings.NewReader(`{"one":1}{"two":2}`))
	var payload map[string]any
	require.NoError(t, decoder.Decode(&payload))

	err := ensureSingleJSONValue(decoder)
	require.Error(t, err)
	require.Contains(t, err.Error(), "multiple JSON values")
}

func TestParseJSONCOverridesDefaults(t *testing.T) {
	content := `
{
  // catalog replaces the built-in examples
  "automata": {
    "even": "even.txt",
    "odd": " odd.txt ",
  },
  "default": "odd",
  "serve": { "address": "0.0.0.0:9999" },
  "log": { "level": "DEBUG" },
}
`
	cfg, warnings, err := Parse(content, Default())
	require.NoError(t, err)
	require.Empty(t, warnings)
	require.Equal(t, map[string]string{"even": "even.txt", "odd": "odd.txt"}, cfg.Automata)
	require.Equal(t, "odd", cfg.Default)
	require.Equal(t, "0.0.0.0:9999", cfg.Serve.Address)
	require.Equal(t, 3000, cfg.Serve.DialTimeoutMS)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestParseJSONCFallsBackToFirstSlotWhenDefaultMissing(t *testing.T) {
	cfg, warnings, err := Parse(`{"automata": {"7": "a.txt", "4": "b.txt"}}`, Default())
	require.NoError(t, err)
	require.Equal(t, "4", cfg.Default)
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0].Message, `default slot "1" not in automata`)
}

func TestParseEmptyContentUsesBase(t *testing.T) {
	cfg, warnings, err := Parse("  \n", Default())
	require.NoError(t, err)
	require.Empty(t, warnings)
	require.Equal(t, Default(), cfg)
}

func TestParseRejectsNonObject(t *testing.T) {
	_, _, err := Parse("automata = x", Default())
	require.Error(t, err)
	require.Contains(t, err.Error(), "JSONC object")
}

func TestParseJSONCUnknownFieldFails(t *testing.T) {
	_, _, err := Parse(`{"serve": {"port": 1}}`, Default())
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown field")
}

func TestParseJSONCSyntaxErrorReportsLine(t *testing.T) {
	content := "{\n  // comment\n  \"default\": nope\n}"
	_, _, err := Parse(content, Default())
	require.Error(t, err)
	require.Contains(t, err.Error(), "line 3")
}

func TestParseJSONCTypeErrorReportsLine(t *testing.T) {
	content := "{\n\"serve\": {\n\"dial_timeout_ms\": \"soon\"\n}\n}"
	_, _, err := Parse(content, Default())
	require.Error(t, err)
	require.Contains(t, err.Error(), "line 3")
}

func TestOffsetToLineCol(t *testing.T) {
	line, col := offsetToLineCol("ab\ncd", 5)
	require.Equal(t, 2, line)
	require.Equal(t, 2, col)

	line, col = offsetToLineCol("ab", 0)
	require.Equal(t, 1, line)
	require.Equal(t, 1, col)
}
