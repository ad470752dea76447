package schema_test

import (
	"fmt"
	"slices"
	"testing"

	"github.com/christophevg/schema-tools/ast"
	"github.com/christophevg/schema-tools/schema"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// billJSON and billYAML hold the same schema with every key on the same line.
const billJSON = `{"type": "object",
"properties": {
  "id": {
    "type": "string"},
  "total": {
    "$ref": "#/definitions/money"}},
"definitions": {
  "money": {
    "type": "object",
    "properties": {
      "amount": {
        "type": "number"}}}},
"required": [
  "id"]}`

const billYAML = `type: object
properties:
  id:
    type: string
  total:
    $ref: '#/definitions/money'
definitions:
  money:
    type: object
    properties:
      amount:
        type: number
required:
  - id
`

func describeTrace(trace []schema.Schema) []string {
	result := make([]string, 0, len(trace))
	for _, s := range trace {
		switch v := s.(type) {
		case *schema.Property:
			result = append(result, fmt.Sprintf("%s %s line %d", v.Name, v.Kind(), v.Location().Line))
		case *schema.Definition:
			result = append(result, fmt.Sprintf("%s %s line %d", v.Name, v.Kind(), v.Location().Line))
		case *schema.UnknownProperty:
			result = append(result, fmt.Sprintf("%s %s", v.Name, v.Kind()))
		default:
			result = append(result, s.Kind().String())
		}
	}
	return result
}

func TestBuild_CrossGrammarEquivalence(t *testing.T) {
	t.Parallel()

	fromJSON := loads(t, billJSON, schema.WithGrammar(ast.GrammarJSON))
	fromYAML := loads(t, billYAML, schema.WithGrammar(ast.GrammarYAML))

	assert.Equal(t, schema.KindObject, fromJSON.Kind())
	assert.Equal(t, fromJSON.Kind(), fromYAML.Kind())

	dictJSON, err := schema.ToDict(t.Context(), fromJSON)
	require.NoError(t, err)
	dictYAML, err := schema.ToDict(t.Context(), fromYAML)
	require.NoError(t, err)
	if diff := cmp.Diff(dictJSON, dictYAML); diff != "" {
		t.Errorf("serialized schemas differ (-json +yaml):\n%s", diff)
	}

	derefJSON, err := schema.ToDict(t.Context(), fromJSON, schema.Deref())
	require.NoError(t, err)
	derefYAML, err := schema.ToDict(t.Context(), fromYAML, schema.Deref())
	require.NoError(t, err)
	if diff := cmp.Diff(derefJSON, derefYAML); diff != "" {
		t.Errorf("dereferenced schemas differ (-json +yaml):\n%s", diff)
	}

	paths := []string{"id", "total.amount", "total.missing"}
	for _, path := range paths {
		traceJSON, err := schema.Trace(t.Context(), fromJSON, path)
		require.NoError(t, err)
		traceYAML, err := schema.Trace(t.Context(), fromYAML, path)
		require.NoError(t, err)
		assert.Equal(t, describeTrace(traceJSON), describeTrace(traceYAML), "trace of %s", path)
	}

	trace, err := schema.Trace(t.Context(), fromYAML, "total.amount")
	require.NoError(t, err)
	assert.Equal(t, []string{"total property line 5", "amount property line 11"}, describeTrace(trace))

	depsJSON, err := schema.Dependencies(t.Context(), fromJSON, false)
	require.NoError(t, err)
	depsYAML, err := schema.Dependencies(t.Context(), fromYAML, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"#/definitions/money"}, slices.Collect(depsJSON.Keys()))
	assert.Equal(t, slices.Collect(depsJSON.Keys()), slices.Collect(depsYAML.Keys()))
}
