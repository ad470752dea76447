package schema_test

import (
	"path/filepath"
	"testing"

	"github.com/christophevg/schema-tools/schema"
	"github.com/stretchr/testify/require"
)

func loads(t *testing.T, src string, opts ...schema.Option[schema.LoadOptions]) schema.Schema {
	t.Helper()
	s, err := schema.Loads([]byte(src), opts...)
	require.NoError(t, err)
	return s
}

func load(t *testing.T, name string) schema.Schema {
	t.Helper()
	s, err := schema.Load(t.Context(), filepath.Join("testdata", name))
	require.NoError(t, err)
	return s
}

func object(t *testing.T, s schema.Schema) *schema.ObjectSchema {
	t.Helper()
	o, ok := s.(*schema.ObjectSchema)
	require.True(t, ok, "expected an object schema, got %T", s)
	return o
}

func property(t *testing.T, s schema.Schema, name string) *schema.Property {
	t.Helper()
	p := object(t, s).Property(t.Context(), name)
	require.NotNil(t, p, "property %s should exist", name)
	return p
}
