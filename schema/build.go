package schema

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/christophevg/schema-tools/ast"
	"github.com/christophevg/schema-tools/internal/ctxlog"
	"github.com/christophevg/schema-tools/references"
)

// Load reads, parses and builds the document at path, a file path or an http(s) URL. Without an explicit
// grammar the extension decides, falling back to JSON first and YAML second.
func Load(ctx context.Context, path string, opts ...Option[LoadOptions]) (Schema, error) {
	o := newConfig(opts...)

	location, err := references.ResolveAbsoluteReference(references.Reference(path), "")
	if err != nil {
		return nil, err
	}
	if o.origin == "" {
		o.origin = location.AbsoluteReference
	}
	if o.grammar == ast.GrammarAuto {
		o.grammar = grammarFromExtension(path)
	}

	ctxlog.FromContext(ctx).Debug("loading schema", "path", path, "grammar", o.grammar)

	data, err := references.Fetch(ctx, location.AbsoluteReference, o.fetchOptions())
	if err != nil {
		return nil, err
	}

	return loads(data, o)
}

// Loads parses and builds a document held in memory.
func Loads(src []byte, opts ...Option[LoadOptions]) (Schema, error) {
	return loads(src, newConfig(opts...))
}

func loads(src []byte, o *LoadOptions) (Schema, error) {
	node, err := ast.Parse(src, o.grammar)
	if err != nil {
		return nil, err
	}
	return build(node, o)
}

// Build classifies a located tree into a schema graph.
func Build(tree ast.Node, opts ...Option[LoadOptions]) (Schema, error) {
	return build(tree, newConfig(opts...))
}

func build(tree ast.Node, o *LoadOptions) (Schema, error) {
	var root Schema
	switch n := tree.(type) {
	case *ast.Mapping:
		root = buildMapping(n, nil)
	case *ast.Scalar:
		root = &Constant{node: node{loc: n.Loc}, Value: n.Value}
	default:
		return nil, ErrNotSchema.Wrapf("document root is a %s", nodeKindName(tree))
	}
	root.base().doc = &document{origin: o.origin, config: o}
	return root, nil
}

func nodeKindName(n ast.Node) string {
	if n == nil {
		return "nothing"
	}
	return n.Kind().String()
}

func grammarFromExtension(path string) ast.Grammar {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ast.GrammarJSON
	case ".yaml", ".yml":
		return ast.GrammarYAML
	default:
		return ast.GrammarAuto
	}
}

// buildMapping applies the classification rules in order, the first that matches decides the variant.
func buildMapping(m *ast.Mapping, parent Schema) Schema {
	switch {
	case isObject(m):
		return buildObject(m, parent)
	case valueKind(m) != KindGeneric:
		s := &ValueSchema{node: node{loc: m.Loc, parent: parent}, kind: valueKind(m)}
		fillAttributes(s, m, nil)
		return s
	case typeIs(m, "array"):
		return buildArray(m, parent)
	}

	if c := buildCombination(m, parent); c != nil {
		return c
	}

	if ref, ok := m.GetString("$ref"); ok {
		s := &Reference{node: node{loc: m.Loc, parent: parent}, Ref: references.Reference(ref)}
		fillAttributes(s, m, skip("$ref"))
		return s
	}

	if values, ok := m.GetSequence("enum"); ok {
		s := &Enum{node: node{loc: m.Loc, parent: parent}}
		s.Values, _ = ast.Value(values).([]any)
		fillAttributes(s, m, skip("enum"))
		return s
	}

	s := &Generic{node: node{loc: m.Loc, parent: parent}}
	fillAttributes(s, m, nil)
	return s
}

func isObject(m *ast.Mapping) bool {
	if typeIs(m, "object") {
		return true
	}
	if types, ok := m.GetSequence("type"); ok {
		return slices.ContainsFunc(types.Items, func(n ast.Node) bool {
			s, ok := n.(*ast.Scalar)
			return ok && s.Value == "object"
		})
	}
	if _, ok := m.GetMapping("properties"); ok && !m.Has("type") {
		return true
	}
	_, ok := componentSchemas(m)
	return ok
}

func typeIs(m *ast.Mapping, name string) bool {
	t, ok := m.GetString("type")
	return ok && t == name
}

func valueKind(m *ast.Mapping) Kind {
	t, ok := m.GetString("type")
	if !ok {
		return KindGeneric
	}
	if kind, ok := valueKinds[t]; ok {
		return kind
	}
	return KindGeneric
}

func componentSchemas(m *ast.Mapping) (*ast.Mapping, bool) {
	components, ok := m.GetMapping("components")
	if !ok {
		return nil, false
	}
	return components.GetMapping("schemas")
}

func buildObject(m *ast.Mapping, parent Schema) Schema {
	s := &ObjectSchema{node: node{loc: m.Loc, parent: parent}}

	consumed := map[string]bool{}

	if props, ok := m.GetMapping("properties"); ok {
		consumed["properties"] = true
		s.hasProperties = true
		for entry := range props.Entries() {
			p := &Property{}
			p.node = node{loc: entry.KeyLocation, parent: s}
			p.Name = entry.Key
			p.schema = buildChild(entry.Value, p)
			s.Properties = append(s.Properties, p)
		}
	}

	if defs, ok := m.GetMapping("definitions"); ok {
		consumed["definitions"] = true
		s.hasDefinitions = true
		s.Definitions = append(s.Definitions, buildDefinitions(defs, sectionDefinitions, s)...)
	}

	if schemas, ok := componentSchemas(m); ok {
		consumed["components"] = true
		s.hasComponents = true
		s.Definitions = append(s.Definitions, buildDefinitions(schemas, sectionComponents, s)...)

		components, _ := m.GetMapping("components")
		if components.Len() > 1 {
			rest := &Generic{node: node{loc: components.Loc, parent: s}}
			fillAttributes(rest, components, skip("schemas"))
			s.attrs = newAttributes()
			s.attrs.set("components", rest)
		}
	}

	for _, combinator := range combinators {
		c := attachCombination(m, combinator.kind, combinator.keywords, s)
		if c == nil {
			continue
		}
		for _, keyword := range combinator.keywords {
			consumed[keyword] = true
		}
		switch combinator.kind {
		case KindAllOf:
			s.AllOf = c
		case KindAnyOf:
			s.AnyOf = c
		case KindOneOf:
			s.OneOf = c
		}
	}

	fillAttributes(s, m, consumed)
	return s
}

func buildDefinitions(defs *ast.Mapping, section string, parent Schema) []*Definition {
	var result []*Definition
	for entry := range defs.Entries() {
		d := &Definition{node: node{loc: entry.KeyLocation, parent: parent}, Name: entry.Key, section: section}
		d.schema = buildChild(entry.Value, d)
		result = append(result, d)
	}
	return result
}

// attachCombination collects the options of both spellings of a combinator, under the first spelling found.
func attachCombination(m *ast.Mapping, kind Kind, keywords []string, parent Schema) *Combination {
	var c *Combination
	for entry := range m.Entries() {
		if !slices.Contains(keywords, entry.Key) {
			continue
		}
		options, ok := entry.Value.(*ast.Sequence)
		if !ok {
			continue
		}
		if c == nil {
			c = &Combination{node: node{loc: entry.KeyLocation, parent: parent}, kind: kind, Keyword: entry.Key}
		}
		for _, option := range options.Items {
			c.Options = append(c.Options, buildChild(option, c))
		}
	}
	return c
}

// buildCombination builds a standalone combination for a mapping without a type.
func buildCombination(m *ast.Mapping, parent Schema) Schema {
	if m.Has("type") {
		return nil
	}
	for _, combinator := range combinators {
		found := false
		for _, keyword := range combinator.keywords {
			if _, ok := m.GetSequence(keyword); ok {
				found = true
			}
		}
		if !found {
			continue
		}

		c := &Combination{node: node{loc: m.Loc, parent: parent}, kind: combinator.kind}
		for entry := range m.Entries() {
			options, ok := entry.Value.(*ast.Sequence)
			if !ok || !slices.Contains(combinator.keywords, entry.Key) {
				continue
			}
			if c.Keyword == "" {
				c.Keyword = entry.Key
			}
			for _, option := range options.Items {
				c.Options = append(c.Options, buildChild(option, c))
			}
		}
		fillAttributes(c, m, skip(combinator.keywords...))
		return c
	}
	return nil
}

func buildArray(m *ast.Mapping, parent Schema) Schema {
	items, ok := m.Get("items")
	if seq, isSeq := items.(*ast.Sequence); ok && isSeq {
		s := &TupleSchema{node: node{loc: m.Loc, parent: parent}}
		for i, item := range seq.Items {
			t := &TupleItem{Index: i}
			t.node = node{loc: item.Location(), parent: s}
			t.Name = fmt.Sprint(i)
			t.schema = buildChild(item, t)
			s.Items = append(s.Items, t)
		}
		fillAttributes(s, m, skip("items"))
		return s
	}

	s := &ArraySchema{node: node{loc: m.Loc, parent: parent}}
	if ok {
		s.Items = buildChild(items, s)
	}
	fillAttributes(s, m, skip("items"))
	return s
}

// buildChild builds a value in schema position. Anything but a mapping becomes a Constant.
func buildChild(n ast.Node, parent Schema) Schema {
	if m, ok := n.(*ast.Mapping); ok {
		return buildMapping(m, parent)
	}
	return &Constant{node: node{loc: n.Location(), parent: parent}, Value: ast.Value(n)}
}

func skip(keys ...string) map[string]bool {
	result := make(map[string]bool, len(keys))
	for _, key := range keys {
		result[key] = true
	}
	return result
}

// fillAttributes stores every key not consumed by the variant in its attribute bag.
func fillAttributes(s Schema, m *ast.Mapping, consumed map[string]bool) {
	n := s.base()
	if n.attrs == nil {
		n.attrs = newAttributes()
	}
	for entry := range m.Entries() {
		if consumed[entry.Key] {
			continue
		}
		n.attrs.set(entry.Key, attributeValue(entry.Key, entry.Value, s))
	}
}

func attributeValue(key string, n ast.Node, parent Schema) any {
	if literalKeywords[key] {
		return ast.Value(n)
	}
	switch v := n.(type) {
	case *ast.Mapping:
		return buildMapping(v, parent)
	case *ast.Sequence:
		items := make([]any, 0, len(v.Items))
		for _, item := range v.Items {
			if m, ok := item.(*ast.Mapping); ok {
				items = append(items, buildMapping(m, parent))
			} else {
				items = append(items, ast.Value(item))
			}
		}
		return items
	default:
		return ast.Value(n)
	}
}
