// Package schema builds a typed graph out of JSON-Schema-like documents, including Swagger/OpenAPI style
// components.schemas, and offers the operations on that graph: transparent resolution of local and remote
// $ref references, dotted path selection and tracing with backtracking through allOf/anyOf/oneOf, dependency
// discovery and serialization back to plain values, optionally dereferenced.
//
// Every variant of the graph implements Schema. Operations are package functions that switch over the
// concrete variants.
package schema

import (
	"github.com/christophevg/schema-tools/ast"
	"github.com/christophevg/schema-tools/references"
)

// Schema is implemented by all variants of the schema graph: *Generic, *ObjectSchema, *ValueSchema,
// *ArraySchema, *TupleSchema, *Combination, *Reference, *Enum, *Constant, *Definition, *Property, *TupleItem
// and *UnknownProperty.
type Schema interface {
	Kind() Kind
	Location() ast.Location
	// Parent returns the structural parent, nil for a document root.
	Parent() Schema
	Attributes() *Attributes
	base() *node
}

type node struct {
	loc    ast.Location
	parent Schema
	attrs  *Attributes
	// doc is only set on document roots
	doc *document
}

type document struct {
	origin string
	config *LoadOptions
}

func (n *node) Location() ast.Location { return n.loc }
func (n *node) Parent() Schema         { return n.parent }
func (n *node) base() *node            { return n }

// Attributes returns the keys not modelled by the variant. It is nil for nodes without any, all methods of
// Attributes accept a nil receiver.
func (n *node) Attributes() *Attributes { return n.attrs }

// Root returns the document root s belongs to.
func Root(s Schema) Schema {
	if s == nil {
		return nil
	}
	for s.Parent() != nil {
		s = s.Parent()
	}
	return s
}

// Origin returns the file path or URL the document of s was loaded from, empty for in-memory documents.
func Origin(s Schema) string {
	root := Root(s)
	if root == nil || root.base().doc == nil {
		return ""
	}
	return root.base().doc.origin
}

func documentConfig(s Schema) *LoadOptions {
	root := Root(s)
	if root == nil || root.base().doc == nil || root.base().doc.config == nil {
		return newConfig()
	}
	return root.base().doc.config
}

// Generic retains all keys of a mapping that matches no other variant.
type Generic struct {
	node
}

func (g *Generic) Kind() Kind { return KindGeneric }

// ObjectSchema is a schema of type object, or one that declares properties or components.schemas.
type ObjectSchema struct {
	node
	Properties  []*Property
	Definitions []*Definition
	AllOf       *Combination
	AnyOf       *Combination
	OneOf       *Combination

	hasProperties  bool
	hasDefinitions bool
	hasComponents  bool
}

func (o *ObjectSchema) Kind() Kind { return KindObject }

// Definition returns the first definition with the given name, from definitions or components.schemas.
func (o *ObjectSchema) Definition(name string) (*Definition, bool) {
	for _, d := range o.Definitions {
		if d.Name == name {
			return d, true
		}
	}
	return nil, false
}

// Combinations returns the attached allOf, anyOf and oneOf combinations, in that order.
func (o *ObjectSchema) Combinations() []*Combination {
	var result []*Combination
	for _, c := range []*Combination{o.AllOf, o.AnyOf, o.OneOf} {
		if c != nil {
			result = append(result, c)
		}
	}
	return result
}

// ValueSchema is a schema of type boolean, integer, null, number or string.
type ValueSchema struct {
	node
	kind Kind
}

func (v *ValueSchema) Kind() Kind { return v.kind }

// ArraySchema is a schema of type array with a single item schema. Items is nil when absent.
type ArraySchema struct {
	node
	Items Schema
}

func (a *ArraySchema) Kind() Kind { return KindArray }

// TupleSchema is a schema of type array with positional item schemas.
type TupleSchema struct {
	node
	Items []*TupleItem
}

func (t *TupleSchema) Kind() Kind { return KindTuple }

// Combination is an allOf, anyOf or oneOf, either standalone or attached to an ObjectSchema.
type Combination struct {
	node
	kind    Kind
	Keyword string
	Options []Schema
}

func (c *Combination) Kind() Kind { return c.kind }

// Reference is a $ref. Its sibling keys are kept as attributes.
type Reference struct {
	node
	Ref references.Reference
}

func (r *Reference) Kind() Kind { return KindReference }

// IsRemote reports whether the reference points into another document.
func (r *Reference) IsRemote() bool {
	return r.Ref.IsRemote()
}

// Enum is a schema that lists the allowed values without a dominant type.
type Enum struct {
	node
	Values []any
}

func (e *Enum) Kind() Kind { return KindEnum }

// Constant is a non-mapping value in schema position, such as a draft-07 boolean schema.
type Constant struct {
	node
	Value any
}

func (c *Constant) Kind() Kind { return KindConstant }

// Definition is a named schema under definitions or components.schemas.
type Definition struct {
	node
	Name    string
	schema  Schema
	section string
}

func (d *Definition) Kind() Kind { return KindDefinition }

// Schema returns the schema as written, which may be a *Reference.
func (d *Definition) Schema() Schema {
	return d.schema
}

// IsRef reports whether the schema as written is a reference.
func (d *Definition) IsRef() bool {
	_, ok := d.schema.(*Reference)
	return ok
}

// Boolean returns the value of a boolean schema.
func (d *Definition) Boolean() (value bool, ok bool) {
	c, isConstant := d.schema.(*Constant)
	if !isConstant {
		return false, false
	}
	value, ok = c.Value.(bool)
	return value, ok
}

const (
	sectionDefinitions = "definitions"
	sectionComponents  = "components"
)

// Property is a named schema under properties.
type Property struct {
	Definition
}

func (p *Property) Kind() Kind { return KindProperty }

// TupleItem is the schema at a position of a tuple.
type TupleItem struct {
	Definition
	Index int
}

func (t *TupleItem) Kind() Kind { return KindTupleItem }

// UnknownProperty marks a path segment Trace could not match.
type UnknownProperty struct {
	node
	Name string
}

func (u *UnknownProperty) Kind() Kind { return KindUnknown }

var (
	_ Schema = (*Generic)(nil)
	_ Schema = (*ObjectSchema)(nil)
	_ Schema = (*ValueSchema)(nil)
	_ Schema = (*ArraySchema)(nil)
	_ Schema = (*TupleSchema)(nil)
	_ Schema = (*Combination)(nil)
	_ Schema = (*Reference)(nil)
	_ Schema = (*Enum)(nil)
	_ Schema = (*Constant)(nil)
	_ Schema = (*Definition)(nil)
	_ Schema = (*Property)(nil)
	_ Schema = (*TupleItem)(nil)
	_ Schema = (*UnknownProperty)(nil)
)

// named returns the Definition underlying a Definition, Property or TupleItem.
func named(s Schema) (*Definition, bool) {
	switch d := s.(type) {
	case *Definition:
		return d, true
	case *Property:
		return &d.Definition, true
	case *TupleItem:
		return &d.Definition, true
	default:
		return nil, false
	}
}
