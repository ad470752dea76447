// Package ast parses JSON and YAML documents into a uniform, location-aware tree of scalars, sequences and
// mappings. Every node and every mapping key carries the 1-based line and column it was read from, so later
// stages can report positions regardless of the grammar the document was written in.
package ast

import (
	"fmt"
	"iter"

	"github.com/christophevg/schema-tools/sequencedmap"
)

// Location is a 1-based line and column in a source document.
type Location struct {
	Line   int
	Column int
}

func (l Location) String() string {
	return fmt.Sprintf("[%d,%d]", l.Line, l.Column)
}

type Kind int

const (
	KindScalar Kind = iota
	KindSequence
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Node is one of *Scalar, *Sequence or *Mapping.
type Node interface {
	Kind() Kind
	Location() Location
	isNode()
}

// Scalar holds nil, a bool, an int64, a float64 or a string.
type Scalar struct {
	Value any
	Loc   Location
}

var _ Node = (*Scalar)(nil)

func NewScalar(value any, loc Location) *Scalar {
	return &Scalar{Value: value, Loc: loc}
}

func (s *Scalar) Kind() Kind         { return KindScalar }
func (s *Scalar) Location() Location { return s.Loc }
func (s *Scalar) isNode()            {}

// String returns the value if the scalar holds a string.
func (s *Scalar) String() (string, bool) {
	str, ok := s.Value.(string)
	return str, ok
}

type Sequence struct {
	Items []Node
	Loc   Location
}

var _ Node = (*Sequence)(nil)

func NewSequence(loc Location, items ...Node) *Sequence {
	return &Sequence{Items: items, Loc: loc}
}

func (s *Sequence) Kind() Kind         { return KindSequence }
func (s *Sequence) Location() Location { return s.Loc }
func (s *Sequence) isNode()            {}

func (s *Sequence) Len() int {
	return len(s.Items)
}

// Entry is a key of a mapping, the location of that key and its value.
type Entry struct {
	Key         string
	KeyLocation Location
	Value       Node
}

// Mapping is an ordered set of entries with unique keys. Setting a key twice keeps the first position
// and the last value.
type Mapping struct {
	entries *sequencedmap.Map[string, *Entry]
	Loc     Location
}

var _ Node = (*Mapping)(nil)

func NewMapping(loc Location) *Mapping {
	return &Mapping{entries: sequencedmap.New[string, *Entry](), Loc: loc}
}

func (m *Mapping) Kind() Kind         { return KindMapping }
func (m *Mapping) Location() Location { return m.Loc }
func (m *Mapping) isNode()            {}

func (m *Mapping) Set(key string, keyLoc Location, value Node) {
	if m.entries == nil {
		m.entries = sequencedmap.New[string, *Entry]()
	}
	if existing, ok := m.entries.Get(key); ok {
		existing.Value = value
		return
	}
	m.entries.Set(key, &Entry{Key: key, KeyLocation: keyLoc, Value: value})
}

func (m *Mapping) Get(key string) (Node, bool) {
	entry, ok := m.entries.Get(key)
	if !ok {
		return nil, false
	}
	return entry.Value, true
}

func (m *Mapping) Entry(key string) (*Entry, bool) {
	return m.entries.Get(key)
}

func (m *Mapping) Has(key string) bool {
	return m.entries.Has(key)
}

func (m *Mapping) Len() int {
	return m.entries.Len()
}

// Entries iterates the entries in source order.
func (m *Mapping) Entries() iter.Seq[*Entry] {
	return m.entries.Values()
}

// Keys iterates the keys in source order.
func (m *Mapping) Keys() iter.Seq[string] {
	return m.entries.Keys()
}

// GetMapping returns the value of key if it is a mapping.
func (m *Mapping) GetMapping(key string) (*Mapping, bool) {
	v, ok := m.Get(key)
	if !ok {
		return nil, false
	}
	mapping, ok := v.(*Mapping)
	return mapping, ok
}

// GetSequence returns the value of key if it is a sequence.
func (m *Mapping) GetSequence(key string) (*Sequence, bool) {
	v, ok := m.Get(key)
	if !ok {
		return nil, false
	}
	seq, ok := v.(*Sequence)
	return seq, ok
}

// GetString returns the value of key if it is a string scalar.
func (m *Mapping) GetString(key string) (string, bool) {
	v, ok := m.Get(key)
	if !ok {
		return "", false
	}
	scalar, ok := v.(*Scalar)
	if !ok {
		return "", false
	}
	return scalar.String()
}
