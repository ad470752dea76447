package schema

import (
	"iter"

	"github.com/christophevg/schema-tools/sequencedmap"
)

// Attributes is the ordered bag of keys of a schema node that are not modelled by its variant. Values are
// Schema for nested mappings, []any for sequences (holding Schema for nested mappings) and plain scalars.
// Literal keywords such as default or examples hold their raw values.
type Attributes struct {
	m *sequencedmap.Map[string, any]
}

func newAttributes() *Attributes {
	return &Attributes{m: sequencedmap.New[string, any]()}
}

func (a *Attributes) set(key string, value any) {
	a.m.Set(key, value)
}

func (a *Attributes) Get(key string) (any, bool) {
	if a == nil {
		return nil, false
	}
	return a.m.Get(key)
}

func (a *Attributes) Has(key string) bool {
	if a == nil {
		return false
	}
	return a.m.Has(key)
}

func (a *Attributes) Len() int {
	if a == nil {
		return 0
	}
	return a.m.Len()
}

func (a *Attributes) Keys() iter.Seq[string] {
	if a == nil {
		return func(func(string) bool) {}
	}
	return a.m.Keys()
}

func (a *Attributes) All() iter.Seq2[string, any] {
	if a == nil {
		return func(func(string, any) bool) {}
	}
	return a.m.All()
}

// String returns the value of key if it is a string.
func (a *Attributes) String(key string) string {
	v, _ := a.Get(key)
	s, _ := v.(string)
	return s
}

// ID returns $id, falling back to the draft-04 id.
func (a *Attributes) ID() string {
	if id := a.String("$id"); id != "" {
		return id
	}
	return a.String("id")
}

func (a *Attributes) Title() string {
	return a.String("title")
}

func (a *Attributes) Description() string {
	return a.String("description")
}
