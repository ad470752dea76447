package ast

import (
	"fmt"

	"github.com/christophevg/schema-tools/errors"
	"github.com/christophevg/schema-tools/yml"
)

// ErrSyntax is wrapped by every SyntaxError.
const ErrSyntax = errors.Error("syntax error")

// Grammar selects the front-end used to parse a document.
type Grammar string

const (
	GrammarJSON Grammar = "json"
	GrammarYAML Grammar = "yaml"
	// GrammarAuto tries the JSON grammar first and falls back to YAML.
	GrammarAuto Grammar = "auto"
)

// SyntaxError reports malformed input. Line and Column are 1-based; Column is 0 when the grammar only
// reports a line.
type SyntaxError struct {
	Grammar Grammar
	Line    int
	Column  int
	Msg     string
}

func (e *SyntaxError) Error() string {
	if e.Column > 0 {
		return fmt.Sprintf("%s%s%s:%d:%d: %s", ErrSyntax, errors.ErrSeparator, e.Grammar, e.Line, e.Column, e.Msg)
	}
	return fmt.Sprintf("%s%s%s:%d: %s", ErrSyntax, errors.ErrSeparator, e.Grammar, e.Line, e.Msg)
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

// Parse parses data with the requested grammar.
func Parse(data []byte, grammar Grammar) (Node, error) {
	switch grammar {
	case GrammarJSON:
		return ParseJSON(data)
	case GrammarYAML:
		return ParseYAML(data)
	case GrammarAuto, "":
		node, jsonErr := ParseJSON(data)
		if jsonErr == nil {
			return node, nil
		}
		node, yamlErr := ParseYAML(data)
		if yamlErr == nil {
			return node, nil
		}
		// report the error of the grammar the document looks like
		if yml.GetConfigFromData(data).OutputFormat == yml.OutputFormatJSON {
			return nil, jsonErr
		}
		return nil, yamlErr
	default:
		return nil, fmt.Errorf("unknown grammar: %s", grammar)
	}
}

// ParseGrammar converts a grammar name as given on a command line.
func ParseGrammar(name string) (Grammar, error) {
	switch g := Grammar(name); g {
	case GrammarJSON, GrammarYAML, GrammarAuto:
		return g, nil
	case "yml":
		return GrammarYAML, nil
	case "":
		return GrammarAuto, nil
	default:
		return "", fmt.Errorf("unknown grammar: %s", name)
	}
}
