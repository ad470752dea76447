package schema_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/christophevg/schema-tools/ast"
	"github.com/christophevg/schema-tools/jsonpointer"
	"github.com/christophevg/schema-tools/schema"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDict_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"json-schema-draft-07.json", "invoice.json", "order.json", "pets.yaml", "combination.json", "currencies.json"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			data, err := os.ReadFile(filepath.Join("testdata", name))
			require.NoError(t, err)
			tree, err := ast.Parse(data, ast.GrammarAuto)
			require.NoError(t, err)

			s, err := schema.Build(tree)
			require.NoError(t, err)

			dict, err := schema.ToDict(t.Context(), s)
			require.NoError(t, err)

			if diff := cmp.Diff(ast.Value(tree), dict); diff != "" {
				t.Errorf("round trip mismatch (-source +dict):\n%s", diff)
			}
		})
	}
}

func TestToDict_RoundTrip_Constructs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
	}{
		{name: "empty properties", src: `{"type": "object", "properties": {}}`},
		{name: "tuple", src: `{"type": "array", "items": [{"type": "string"}, true, {"$ref": "#/definitions/x"}], "definitions": {"x": {}}}`},
		{name: "attached combinations", src: `{"type": "object", "allOf": [{"type": "object"}, {"$ref": "#"}], "anyOf": [{"required": ["a"]}]}`},
		{name: "enum", src: `{"enum": [1, "a", null, {"b": [2]}], "description": "values"}`},
		{name: "reference siblings", src: `{"$ref": "other.json", "description": "elsewhere"}`},
		{name: "literals", src: `{"type": "string", "default": {"type": "object"}, "examples": [{"properties": {}}], "const": "a"}`},
		{name: "generic", src: `{"title": "meta", "definitions": {"a": {"type": "string"}}, "not": [{"type": "null"}, 1]}`},
		{name: "array without items", src: `{"type": "array", "maxItems": 3}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tree, err := ast.ParseJSON([]byte(tt.src))
			require.NoError(t, err)
			s, err := schema.Build(tree)
			require.NoError(t, err)

			dict, err := schema.ToDict(t.Context(), s)
			require.NoError(t, err)

			if diff := cmp.Diff(ast.Value(tree), dict); diff != "" {
				t.Errorf("round trip mismatch (-source +dict):\n%s", diff)
			}
		})
	}
}

// lookup returns the value at pointer in a serialized schema.
func lookup(t *testing.T, dict any, pointer string) any {
	t.Helper()
	value, err := jsonpointer.GetTarget(dict, jsonpointer.JSONPointer(pointer))
	require.NoError(t, err, "pointer %s", pointer)
	return value
}

func TestToDict_Deref_Local(t *testing.T) {
	t.Parallel()

	dict, err := schema.ToDict(t.Context(), load(t, "order.json"), schema.Deref())
	require.NoError(t, err)

	items := "/properties/lines/items/properties"
	assert.Equal(t, map[string]any{"type": "string", "enum": []any{"sale", "return"}}, lookup(t, dict, items+"/type"))
	assert.Equal(t, map[string]any{"$ref": "money.json"}, lookup(t, dict, items+"/price"))
	assert.Equal(t, map[string]any{"$ref": "article.json"}, lookup(t, dict, items+"/product"))
	assert.Equal(t, "order.json", lookup(t, dict, "/$id"))
}

func TestToDict_Deref_Remote(t *testing.T) {
	t.Parallel()

	dict, err := schema.ToDict(t.Context(), load(t, "order.json"), schema.DerefRemote())
	require.NoError(t, err)

	items := "/properties/lines/items/properties"
	assert.Equal(t, "string", lookup(t, dict, items+"/type/type"))

	price := lookup(t, dict, items+"/price").(map[string]any)
	assert.NotContains(t, price, "$id")
	assert.Equal(t, "#/properties/lines/items/properties/price/definitions/taxed",
		lookup(t, dict, items+"/price/properties/taxed/$ref"))
	assert.Equal(t, map[string]any{"type": "boolean", "default": true}, lookup(t, dict, items+"/price/definitions/taxed"))

	product := lookup(t, dict, items+"/product").(map[string]any)
	assert.NotContains(t, product, "$id")
	assert.Equal(t, "string", lookup(t, dict, items+"/product/properties/id/type"))
	assert.Equal(t, "#/properties/lines/items/properties/product/properties/cost/definitions/taxed",
		lookup(t, dict, items+"/product/properties/cost/properties/taxed/$ref"))
}

func TestToDict_Deref_Combination(t *testing.T) {
	t.Parallel()

	dict, err := schema.ToDict(t.Context(), load(t, "combination.json"), schema.DerefRemote())
	require.NoError(t, err)

	assert.Equal(t, "#/properties/lines/anyOf/1", lookup(t, dict, "/properties/lines/anyOf/1/properties/subproduct/$ref"))
	assert.Equal(t, "string", lookup(t, dict, "/properties/lines/anyOf/1/properties/name/type"))
}

func TestToDict_Deref_Recursive(t *testing.T) {
	t.Parallel()

	dict, err := schema.ToDict(t.Context(), loads(t, recursive), schema.Deref())
	require.NoError(t, err)

	assert.Equal(t, "#/properties/person", lookup(t, dict, "/properties/person/properties/parent/$ref"))
	assert.Equal(t, "#/properties/person", lookup(t, dict, "/properties/person/properties/children/items/$ref"))
	// definitions are serialized in place, references inside them are inlined once
	assert.Equal(t, "#/definitions/human/properties/parent",
		lookup(t, dict, "/definitions/human/properties/parent/properties/parent/$ref"))
}

func TestToDict_Deref_Siblings(t *testing.T) {
	t.Parallel()

	s := loads(t, `{
  "properties": {
    "a": {"$ref": "#/definitions/x", "description": "override"},
    "b": {"$ref": "#/definitions/x"},
    "self": {"$ref": "#"}
  },
  "definitions": {"x": {"type": "string", "description": "original"}}
}`)

	dict, err := schema.ToDict(t.Context(), s, schema.Deref())
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"type": "string", "description": "override"}, lookup(t, dict, "/properties/a"))
	assert.Equal(t, map[string]any{"type": "string", "description": "original"}, lookup(t, dict, "/properties/b"))
	assert.Equal(t, map[string]any{"$ref": "#"}, lookup(t, dict, "/properties/self"))
}

func TestToDict_Deref_Error(t *testing.T) {
	t.Parallel()

	s := loads(t, `{"properties": {"a": {"$ref": "#/definitions/missing"}}}`)

	_, err := schema.ToDict(t.Context(), s)
	require.NoError(t, err)

	_, err = schema.ToDict(t.Context(), s, schema.Deref())
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrResolution)
}
