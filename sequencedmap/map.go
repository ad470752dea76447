// Package sequencedmap provides a map implementation that maintains the order of keys as they are added.
// It backs the mapping nodes of located source trees, the attribute bags of schema nodes and the
// reference sets produced by dependency extraction.
package sequencedmap

import (
	"bytes"
	"fmt"
	"iter"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Element is a key-value pair that is stored in a sequenced map.
type Element[K comparable, V any] struct {
	Key   K
	Value V
}

// NewElem creates a new element with the specified key and value.
func NewElem[K comparable, V any](key K, value V) *Element[K, V] {
	return &Element[K, V]{
		Key:   key,
		Value: value,
	}
}

// Map is a map implementation that maintains the order of keys as they are added.
type Map[K comparable, V any] struct {
	m map[K]*Element[K, V]
	l []*Element[K, V]
}

// New creates a new map with the specified elements.
func New[K comparable, V any](elements ...*Element[K, V]) *Map[K, V] {
	m := &Map[K, V]{
		m: make(map[K]*Element[K, V], len(elements)),
		l: make([]*Element[K, V], 0, len(elements)),
	}

	for _, element := range elements {
		m.Set(element.Key, element.Value)
	}

	return m
}

// Init initializes the underlying resources of the map.
func (m *Map[K, V]) Init() {
	if m.m == nil && m.l == nil {
		m.m = make(map[K]*Element[K, V])
		m.l = make([]*Element[K, V], 0)
	}
}

// Len returns the number of elements in the map. nil safe.
func (m *Map[K, V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.l)
}

// Set sets the value for the specified key. Setting an existing key replaces its value but keeps
// the position at which the key was first added.
func (m *Map[K, V]) Set(key K, value V) {
	m.Init()

	if element, ok := m.m[key]; ok {
		element.Value = value
		return
	}

	element := &Element[K, V]{
		Key:   key,
		Value: value,
	}
	m.m[key] = element
	m.l = append(m.l, element)
}

// Get returns the value for the specified key and a boolean indicating whether the key was found.
func (m *Map[K, V]) Get(key K) (V, bool) {
	var zero V
	if m == nil {
		return zero, false
	}

	element, ok := m.m[key]
	if !ok {
		return zero, false
	}

	return element.Value, true
}

// GetOrZero returns the value for the specified key or the zero value if the key is not found.
func (m *Map[K, V]) GetOrZero(key K) V {
	v, _ := m.Get(key)
	return v
}

// Has returns a boolean indicating whether the map contains the specified key.
func (m *Map[K, V]) Has(key K) bool {
	if m == nil {
		return false
	}

	_, ok := m.m[key]
	return ok
}

// Delete removes the element with the specified key from the map.
func (m *Map[K, V]) Delete(key K) {
	if m == nil {
		return
	}

	if _, ok := m.m[key]; !ok {
		return
	}
	delete(m.m, key)

	for i, e := range m.l {
		if e.Key == key {
			m.l = append(m.l[:i], m.l[i+1:]...)
			break
		}
	}
}

// First returns the first element added to the map, if any.
func (m *Map[K, V]) First() (*Element[K, V], bool) {
	if m.Len() == 0 {
		return nil, false
	}
	return m.l[0], true
}

// All returns an iterator that iterates over all elements in the map, in the order they were added.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if m == nil {
			return
		}

		for _, element := range m.l {
			if !yield(element.Key, element.Value) {
				return
			}
		}
	}
}

// Keys returns an iterator that iterates over all keys in the map, in the order they were added.
func (m *Map[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		if m == nil {
			return
		}

		for _, element := range m.l {
			if !yield(element.Key) {
				return
			}
		}
	}
}

// Values returns an iterator that iterates over all values in the map, in the order they were added.
func (m *Map[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		if m == nil {
			return
		}

		for _, element := range m.l {
			if !yield(element.Value) {
				return
			}
		}
	}
}

// MarshalJSON returns the JSON representation of the map with keys in insertion order.
func (m *Map[K, V]) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer

	buf.WriteString("{")

	for i, element := range m.l {
		kb, err := json.Marshal(fmt.Sprintf("%v", element.Key))
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteString(":")
		vb, err := json.Marshal(element.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(vb)

		if i < len(m.l)-1 {
			buf.WriteString(",")
		}
	}

	buf.WriteString("}")

	return buf.Bytes(), nil
}

// MarshalYAML returns a mapping node with keys in insertion order.
func (m *Map[K, V]) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if m == nil {
		return node, nil
	}

	for _, element := range m.l {
		var k, v yaml.Node
		if err := k.Encode(fmt.Sprintf("%v", element.Key)); err != nil {
			return nil, err
		}
		if err := v.Encode(element.Value); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &k, &v)
	}

	return node, nil
}
