package ast

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/christophevg/schema-tools/yml"
	"gopkg.in/yaml.v3"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// ParseYAML parses the first YAML document in data into a located tree. Aliases and merge keys are expanded,
// scalars with tags other than null, bool, int and float (timestamps for example) become strings and an empty
// document becomes a null scalar.
func ParseYAML(data []byte) (Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		line := 0
		if m := yamlLineRegex.FindStringSubmatch(err.Error()); m != nil {
			line, _ = strconv.Atoi(m[1])
		}
		return nil, &SyntaxError{Grammar: GrammarYAML, Line: line, Msg: err.Error()}
	}

	if doc.Kind == 0 || (doc.Kind == yaml.DocumentNode && len(doc.Content) == 0) {
		return NewScalar(nil, Location{Line: 1, Column: 1}), nil
	}

	return FromYAML(&doc)
}

// FromYAML converts a yaml.v3 node into a located tree.
func FromYAML(node *yaml.Node) (Node, error) {
	c := &yamlConverter{active: map[*yaml.Node]bool{}}
	return c.convert(node)
}

type yamlConverter struct {
	active map[*yaml.Node]bool
}

func yamlLocation(node *yaml.Node) Location {
	return Location{Line: node.Line, Column: node.Column}
}

func (c *yamlConverter) convert(node *yaml.Node) (Node, error) {
	if node.Kind == yaml.AliasNode {
		target := yml.ResolveAlias(node)
		if target == nil || c.active[target] {
			return nil, &SyntaxError{Grammar: GrammarYAML, Line: node.Line, Column: node.Column, Msg: "recursive alias " + node.Value}
		}
		node = target
	}

	c.active[node] = true
	defer delete(c.active, node)

	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return NewScalar(nil, yamlLocation(node)), nil
		}
		return c.convert(node.Content[0])
	case yaml.MappingNode:
		return c.mapping(node)
	case yaml.SequenceNode:
		seq := NewSequence(yamlLocation(node))
		for _, item := range node.Content {
			n, err := c.convert(item)
			if err != nil {
				return nil, err
			}
			seq.Items = append(seq.Items, n)
		}
		return seq, nil
	case yaml.ScalarNode:
		return c.scalar(node)
	default:
		return nil, &SyntaxError{Grammar: GrammarYAML, Line: node.Line, Column: node.Column, Msg: "unsupported node kind " + yml.NodeKindToString(node.Kind)}
	}
}

func (c *yamlConverter) mapping(node *yaml.Node) (Node, error) {
	m := NewMapping(yamlLocation(node))

	content := yml.ResolveMergeKeys(node.Content)
	for i := 0; i+1 < len(content); i += 2 {
		keyNode := yml.ResolveAlias(content[i])
		if keyNode == nil || keyNode.Kind != yaml.ScalarNode {
			return nil, &SyntaxError{Grammar: GrammarYAML, Line: content[i].Line, Column: content[i].Column, Msg: "mapping keys must be scalars"}
		}

		value, err := c.convert(content[i+1])
		if err != nil {
			return nil, err
		}

		m.Set(keyNode.Value, yamlLocation(content[i]), value)
	}

	return m, nil
}

func (c *yamlConverter) scalar(node *yaml.Node) (Node, error) {
	loc := yamlLocation(node)

	switch node.ShortTag() {
	case "!!null":
		return NewScalar(nil, loc), nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, c.decodeError(node, err)
		}
		return NewScalar(b, loc), nil
	case "!!int":
		var i int64
		if err := node.Decode(&i); err == nil {
			return NewScalar(i, loc), nil
		}
		fallthrough
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil, c.decodeError(node, err)
		}
		return NewScalar(f, loc), nil
	default:
		return NewScalar(node.Value, loc), nil
	}
}

func (c *yamlConverter) decodeError(node *yaml.Node, err error) error {
	return &SyntaxError{Grammar: GrammarYAML, Line: node.Line, Column: node.Column, Msg: fmt.Sprintf("invalid %s scalar %q: %v", node.ShortTag(), node.Value, err)}
}
