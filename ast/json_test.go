package ast_test

import (
	"strings"
	"testing"

	"github.com/christophevg/schema-tools/ast"
	"github.com/christophevg/schema-tools/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lenientJSON = `{
  "type": "object",
  "properties": {
    "id": {"type": "string"},
  }, // trailing comma above
  /* block */
  "required": ["id",],
}`

func TestParseJSON_Locations(t *testing.T) {
	t.Parallel()

	node, err := ast.ParseJSON([]byte(lenientJSON))
	require.NoError(t, err)

	root, ok := node.(*ast.Mapping)
	require.True(t, ok, "root should be a mapping")
	assert.Equal(t, ast.Location{Line: 1, Column: 1}, root.Location())
	assert.Equal(t, []string{"type", "properties", "required"}, keys(root))

	typeEntry, ok := root.Entry("type")
	require.True(t, ok)
	assert.Equal(t, ast.Location{Line: 2, Column: 3}, typeEntry.KeyLocation)
	assert.Equal(t, ast.Location{Line: 2, Column: 11}, typeEntry.Value.Location())

	properties, ok := root.GetMapping("properties")
	require.True(t, ok)
	assert.Equal(t, ast.Location{Line: 3, Column: 17}, properties.Location())

	idEntry, ok := properties.Entry("id")
	require.True(t, ok)
	assert.Equal(t, ast.Location{Line: 4, Column: 5}, idEntry.KeyLocation)
	assert.Equal(t, ast.Location{Line: 4, Column: 11}, idEntry.Value.Location())

	required, ok := root.GetSequence("required")
	require.True(t, ok)
	assert.Equal(t, ast.Location{Line: 7, Column: 15}, required.Location())
	require.Equal(t, 1, required.Len())
	assert.Equal(t, ast.Location{Line: 7, Column: 16}, required.Items[0].Location())
}

func TestParseJSON_Values(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		src      string
		expected any
	}{
		{name: "integers", src: `[1, -2, 0]`, expected: []any{int64(1), int64(-2), int64(0)}},
		{name: "floats", src: `[3.5, 1e3, -0.25E-1]`, expected: []any{3.5, 1000.0, -0.025}},
		{name: "integer overflow becomes float", src: `9223372036854775808`, expected: 9223372036854775808.0},
		{name: "literals", src: `[true, false, null]`, expected: []any{true, false, nil}},
		{name: "escapes", src: `"aé\n\"q\"\/"`, expected: "aé\n\"q\"/"},
		{name: "empty containers", src: `{"a": {}, "b": []}`, expected: map[string]any{"a": map[string]any{}, "b": []any{}}},
		{name: "surrounding comments", src: "// head\n{\"a\": 1} /* tail */", expected: map[string]any{"a": int64(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			node, err := ast.ParseJSON([]byte(tt.src))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ast.Value(node))
		})
	}
}

func TestParseJSON_DuplicateKeys(t *testing.T) {
	t.Parallel()

	node, err := ast.ParseJSON([]byte(`{"a": 1, "b": 2, "a": 3}`))
	require.NoError(t, err)

	m := node.(*ast.Mapping)
	assert.Equal(t, []string{"a", "b"}, keys(m))

	entry, ok := m.Entry("a")
	require.True(t, ok)
	assert.Equal(t, ast.Location{Line: 1, Column: 2}, entry.KeyLocation)
	assert.Equal(t, int64(3), ast.Value(entry.Value))
}

func TestParseJSON_UnicodeColumns(t *testing.T) {
	t.Parallel()

	node, err := ast.ParseJSON([]byte(`{"é": "x", "b": 1}`))
	require.NoError(t, err)

	entry, ok := node.(*ast.Mapping).Entry("b")
	require.True(t, ok)
	assert.Equal(t, ast.Location{Line: 1, Column: 12}, entry.KeyLocation)
}

func TestParseJSON_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		src    string
		line   int
		column int
	}{
		{name: "empty input", src: ``, line: 1, column: 1},
		{name: "missing comma", src: `{"a": 1 "b": 2}`, line: 1, column: 9},
		{name: "missing value", src: `{"a": }`, line: 1, column: 7},
		{name: "unterminated array", src: `[1, 2`, line: 1, column: 6},
		{name: "unterminated string", src: `{"a": "x`, line: 1, column: 7},
		{name: "unterminated comment", src: "\n/* open", line: 2, column: 1},
		{name: "leading zero", src: `[01]`, line: 1, column: 2},
		{name: "trailing content", src: `{} x`, line: 1, column: 4},
		{name: "unquoted key", src: "{\n  a: 1}", line: 2, column: 3},
		{name: "bad literal", src: `[tru]`, line: 1, column: 2},
		{name: "control character", src: "\"a\tb\"", line: 1, column: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ast.ParseJSON([]byte(tt.src))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ast.ErrSyntax), "error should be a syntax error: %v", err)

			var syntaxErr *ast.SyntaxError
			require.True(t, errors.As(err, &syntaxErr))
			assert.Equal(t, ast.GrammarJSON, syntaxErr.Grammar)
			assert.Equal(t, tt.line, syntaxErr.Line, "line of %v", err)
			assert.Equal(t, tt.column, syntaxErr.Column, "column of %v", err)
		})
	}
}

func TestParseJSON_MaxDepth(t *testing.T) {
	t.Parallel()

	nested := func(open, close string, n int) []byte {
		return []byte(strings.Repeat(open, n) + strings.Repeat(close, n))
	}

	_, err := ast.ParseJSON(nested("[", "]", 10000))
	require.NoError(t, err)

	tests := []struct {
		name string
		src  []byte
	}{
		{name: "arrays", src: nested("[", "]", 10001)},
		{name: "objects", src: nested(`{"a":`, "}", 10001)},
		{name: "far beyond the limit", src: nested("[", "]", 1_000_000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ast.ParseJSON(tt.src)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ast.ErrSyntax), "error should be a syntax error: %v", err)
			assert.Contains(t, err.Error(), "exceeded max depth")

			_, err = ast.Parse(tt.src, ast.GrammarAuto)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ast.ErrSyntax), "error should be a syntax error: %v", err)
		})
	}
}

func keys(m *ast.Mapping) []string {
	result := []string{}
	for k := range m.Keys() {
		result = append(result, k)
	}
	return result
}
