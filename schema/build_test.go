package schema_test

import (
	"testing"

	"github.com/christophevg/schema-tools/ast"
	"github.com/christophevg/schema-tools/errors"
	"github.com/christophevg/schema-tools/internal/testutils"
	"github.com/christophevg/schema-tools/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_Classification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		src      string
		expected schema.Kind
	}{
		{name: "object type", src: `{"type": "object"}`, expected: schema.KindObject},
		{name: "object in type list", src: `{"type": ["object", "null"]}`, expected: schema.KindObject},
		{name: "untyped properties", src: `{"properties": {"a": {"type": "string"}}}`, expected: schema.KindObject},
		{name: "components schemas", src: `{"components": {"schemas": {}}}`, expected: schema.KindObject},
		{name: "object with attached combination", src: `{"type": "object", "oneOf": [{"type": "object"}]}`, expected: schema.KindObject},
		{name: "string", src: `{"type": "string"}`, expected: schema.KindString},
		{name: "integer", src: `{"type": "integer"}`, expected: schema.KindInteger},
		{name: "number", src: `{"type": "number"}`, expected: schema.KindNumber},
		{name: "boolean", src: `{"type": "boolean"}`, expected: schema.KindBoolean},
		{name: "null", src: `{"type": "null"}`, expected: schema.KindNull},
		{name: "typed enum is a value", src: `{"type": "string", "enum": ["a"]}`, expected: schema.KindString},
		{name: "array", src: `{"type": "array", "items": {"type": "string"}}`, expected: schema.KindArray},
		{name: "array without items", src: `{"type": "array"}`, expected: schema.KindArray},
		{name: "tuple", src: `{"type": "array", "items": [{"type": "string"}, {"type": "integer"}]}`, expected: schema.KindTuple},
		{name: "allOf", src: `{"allOf": [{"type": "string"}]}`, expected: schema.KindAllOf},
		{name: "swagger anyof", src: `{"anyof": [{"type": "string"}]}`, expected: schema.KindAnyOf},
		{name: "oneOf", src: `{"oneOf": [{"type": "string"}]}`, expected: schema.KindOneOf},
		{name: "reference", src: `{"$ref": "#/definitions/a", "description": "a"}`, expected: schema.KindReference},
		{name: "enum", src: `{"enum": [1, 2]}`, expected: schema.KindEnum},
		{name: "generic", src: `{"title": "nothing to see"}`, expected: schema.KindGeneric},
		{name: "value type list", src: `{"type": ["string", "null"]}`, expected: schema.KindGeneric},
		{name: "non string ref", src: `{"$ref": 1}`, expected: schema.KindGeneric},
		{name: "boolean schema", src: `true`, expected: schema.KindConstant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := loads(t, tt.src)
			assert.Equal(t, tt.expected, s.Kind(), "kind should be %s", tt.expected)
		})
	}
}

func TestBuild_Object_Success(t *testing.T) {
	t.Parallel()

	root := object(t, loads(t, `{
  "$id": "urn:person",
  "title": "Person",
  "type": "object",
  "properties": {
    "name": {"type": "string"},
    "age": {"type": "integer", "minimum": 0},
    "admin": true
  },
  "definitions": {
    "tag": {"type": "string"}
  },
  "allOf": [{"type": "object", "properties": {"a": {"type": "string"}}}],
  "allof": [{"$ref": "#/definitions/tag"}],
  "required": ["name"]
}`))

	require.Len(t, root.Properties, 3)
	names := []string{root.Properties[0].Name, root.Properties[1].Name, root.Properties[2].Name}
	assert.Equal(t, []string{"name", "age", "admin"}, names)

	age := root.Properties[1]
	assert.Equal(t, schema.KindProperty, age.Kind())
	assert.Equal(t, schema.KindInteger, age.Schema().Kind())
	assert.Equal(t, schema.Schema(root), age.Parent())
	assert.Equal(t, schema.Schema(age), age.Schema().Parent())
	minimum, ok := age.Schema().Attributes().Get("minimum")
	require.True(t, ok)
	assert.Equal(t, int64(0), minimum)

	admin, ok := root.Properties[2].Boolean()
	require.True(t, ok, "admin should be a boolean schema")
	assert.True(t, admin)

	tag, ok := root.Definition("tag")
	require.True(t, ok)
	assert.Equal(t, schema.KindString, tag.Schema().Kind())

	require.NotNil(t, root.AllOf)
	assert.Nil(t, root.AnyOf)
	assert.Nil(t, root.OneOf)
	assert.Equal(t, "allOf", root.AllOf.Keyword)
	require.Len(t, root.AllOf.Options, 2)
	assert.Equal(t, schema.KindReference, root.AllOf.Options[1].Kind())

	attrs := root.Attributes()
	assert.Equal(t, "urn:person", attrs.ID())
	assert.Equal(t, "Person", attrs.Title())
	assert.False(t, attrs.Has("properties"))
	assert.False(t, attrs.Has("allof"))
	required, _ := attrs.Get("required")
	assert.Equal(t, []any{"name"}, required)

	for _, p := range root.Properties {
		assert.Equal(t, schema.Schema(root), schema.Root(p.Schema()))
	}
}

func TestBuild_Tuple_Success(t *testing.T) {
	t.Parallel()

	tuple, ok := loads(t, `{"type": "array", "items": [{"type": "string"}, {"$ref": "#/definitions/x"}]}`).(*schema.TupleSchema)
	require.True(t, ok)
	require.Len(t, tuple.Items, 2)

	for i, item := range tuple.Items {
		assert.Equal(t, i, item.Index)
		assert.Equal(t, schema.KindTupleItem, item.Kind())
		assert.Equal(t, schema.Schema(tuple), item.Parent())
	}
	assert.True(t, tuple.Items[1].IsRef())
	assert.False(t, tuple.Items[0].IsRef())
}

func TestBuild_Reference_Siblings(t *testing.T) {
	t.Parallel()

	ref, ok := loads(t, `{"$ref": "other.json#/definitions/a", "description": "kept"}`).(*schema.Reference)
	require.True(t, ok)
	assert.Equal(t, "other.json#/definitions/a", ref.Ref.String())
	assert.True(t, ref.IsRemote())
	assert.Equal(t, "kept", ref.Attributes().Description())
	assert.False(t, ref.Attributes().Has("$ref"))
}

func TestBuild_Enum_Values(t *testing.T) {
	t.Parallel()

	enum, ok := loads(t, `{"enum": ["a", 1, null], "title": "mixed"}`).(*schema.Enum)
	require.True(t, ok)
	assert.Equal(t, []any{"a", int64(1), nil}, enum.Values)
	assert.Equal(t, "mixed", enum.Attributes().Title())
}

func TestBuild_DuplicateDefinitions_FirstWins(t *testing.T) {
	t.Parallel()

	root := object(t, loads(t, `{
  "definitions": {"a": {"type": "string"}},
  "components": {"schemas": {"a": {"type": "integer"}}}
}`))

	require.Len(t, root.Definitions, 2)
	a, ok := root.Definition("a")
	require.True(t, ok)
	assert.Equal(t, schema.KindString, a.Schema().Kind())
}

func TestBuild_Locations_YAML(t *testing.T) {
	t.Parallel()

	root := object(t, loads(t, `type: object
properties:
  name:
    type: string
  home:
    $ref: '#/definitions/address'
definitions:
  address:
    type: object
`, schema.WithGrammar(ast.GrammarYAML)))

	assert.Equal(t, ast.Location{Line: 1, Column: 1}, root.Location())
	assert.Equal(t, ast.Location{Line: 3, Column: 3}, root.Properties[0].Location())
	assert.Equal(t, ast.Location{Line: 5, Column: 3}, root.Properties[1].Location())
	assert.Equal(t, ast.Location{Line: 6, Column: 5}, root.Properties[1].Schema().Location())

	address, ok := root.Definition("address")
	require.True(t, ok)
	assert.Equal(t, ast.Location{Line: 8, Column: 3}, address.Location())
}

func TestBuild_Error(t *testing.T) {
	t.Parallel()

	_, err := schema.Loads([]byte(`[{"type": "string"}]`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, schema.ErrNotSchema))

	_, err = schema.Loads([]byte(`{"type": "string"`), schema.WithGrammar(ast.GrammarJSON))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ast.ErrSyntax))
}

func TestLoad_Success(t *testing.T) {
	t.Parallel()

	fs := testutils.NewMockVirtualFS()
	fs.AddFile("/schemas/person.yaml", "type: object\nproperties:\n  name:\n    type: string\n")

	s, err := schema.Load(t.Context(), "/schemas/person.yaml", schema.WithVirtualFS(fs))
	require.NoError(t, err)

	assert.Equal(t, "/schemas/person.yaml", schema.Origin(s))
	assert.Equal(t, "name", object(t, s).Properties[0].Name)
}

func TestLoad_URL_Success(t *testing.T) {
	t.Parallel()

	client := testutils.NewMockHTTPClient()
	client.AddResponse("https://example.com/schemas/person.json", `{"properties": {"name": {"type": "string"}}}`, 200)

	s, err := schema.Load(t.Context(), "https://example.com/schemas/person.json", schema.WithHTTPClient(client))
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/schemas/person.json", schema.Origin(s))
	assert.Equal(t, schema.KindObject, s.Kind())
}

func TestLoad_Error(t *testing.T) {
	t.Parallel()

	_, err := schema.Load(t.Context(), "/schemas/missing.json", schema.WithVirtualFS(testutils.NewMockVirtualFS()))
	require.Error(t, err)
}

func TestOrigin_InMemory(t *testing.T) {
	t.Parallel()

	s := loads(t, `{"type": "string"}`)
	assert.Empty(t, schema.Origin(s))
	assert.Equal(t, s, schema.Root(s))
	assert.Nil(t, s.Parent())

	s = loads(t, `{"type": "string"}`, schema.WithOrigin("/schemas/a.json"))
	assert.Equal(t, "/schemas/a.json", schema.Origin(s))
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "object", schema.KindObject.String())
	assert.Equal(t, "tuple item", schema.KindTupleItem.String())
	assert.Equal(t, "invalid", schema.Kind(-1).String())
}
