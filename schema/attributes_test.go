package schema_test

import (
	"slices"
	"testing"

	"github.com/christophevg/schema-tools/schema"
	"github.com/stretchr/testify/assert"
)

func TestAttributes_Accessors(t *testing.T) {
	t.Parallel()

	attrs := loads(t, `{"id": "urn:draft4", "title": "T", "description": "D", "x-order": 1}`).Attributes()

	assert.Equal(t, "urn:draft4", attrs.ID())
	assert.Equal(t, "T", attrs.Title())
	assert.Equal(t, "D", attrs.Description())
	assert.Equal(t, 4, attrs.Len())
	assert.Equal(t, []string{"id", "title", "description", "x-order"}, slices.Collect(attrs.Keys()))
	assert.Empty(t, attrs.String("x-order"))

	attrs = loads(t, `{"$id": "urn:new", "id": "urn:old"}`).Attributes()
	assert.Equal(t, "urn:new", attrs.ID())
}

func TestAttributes_Nil(t *testing.T) {
	t.Parallel()

	var attrs *schema.Attributes
	assert.Equal(t, 0, attrs.Len())
	assert.False(t, attrs.Has("a"))
	assert.Empty(t, attrs.ID())
	for range attrs.All() {
		t.Fatal("nil attributes should be empty")
	}
}
