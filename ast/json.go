package ast

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	gojson "github.com/goccy/go-json"
)

// ParseJSON parses a JSON document into a located tree. Besides RFC8259 it accepts trailing commas in
// objects and arrays and both // and /* */ comments.
func ParseJSON(data []byte) (Node, error) {
	p := &jsonParser{data: data, line: 1, col: 1}

	if err := p.skipSpace(); err != nil {
		return nil, err
	}

	node, err := p.value()
	if err != nil {
		return nil, err
	}

	if err := p.skipSpace(); err != nil {
		return nil, err
	}
	if !p.eof() {
		return nil, p.errorf("unexpected %s after top-level value", p.describe())
	}

	return node, nil
}

// maxDepth bounds the nesting of objects and arrays, the same limit yaml.v3 applies.
const maxDepth = 10000

type jsonParser struct {
	data  []byte
	pos   int
	line  int
	col   int
	depth int
}

func (p *jsonParser) eof() bool {
	return p.pos >= len(p.data)
}

func (p *jsonParser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.data[p.pos]
}

func (p *jsonParser) location() Location {
	return Location{Line: p.line, Column: p.col}
}

// advance moves n bytes forward, counting columns in characters rather than bytes.
func (p *jsonParser) advance(n int) {
	for i := 0; i < n && !p.eof(); i++ {
		c := p.data[p.pos]
		p.pos++
		switch {
		case c == '\n':
			p.line++
			p.col = 1
		case c&0xC0 == 0x80:
			// utf-8 continuation byte
		default:
			p.col++
		}
	}
}

func (p *jsonParser) errorf(format string, args ...any) error {
	return &SyntaxError{Grammar: GrammarJSON, Line: p.line, Column: p.col, Msg: fmt.Sprintf(format, args...)}
}

func (p *jsonParser) describe() string {
	if p.eof() {
		return "end of input"
	}
	return fmt.Sprintf("character %q", p.data[p.pos])
}

func (p *jsonParser) skipSpace() error {
	for !p.eof() {
		switch c := p.peek(); c {
		case ' ', '\t', '\n', '\r':
			p.advance(1)
		case '/':
			if err := p.skipComment(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
	return nil
}

func (p *jsonParser) skipComment() error {
	start := p.location()
	rest := p.data[p.pos:]

	switch {
	case bytes.HasPrefix(rest, []byte("//")):
		end := bytes.IndexByte(rest, '\n')
		if end < 0 {
			end = len(rest)
		}
		p.advance(end)
	case bytes.HasPrefix(rest, []byte("/*")):
		end := bytes.Index(rest[2:], []byte("*/"))
		if end < 0 {
			return &SyntaxError{Grammar: GrammarJSON, Line: start.Line, Column: start.Column, Msg: "unterminated comment"}
		}
		p.advance(end + 4)
	default:
		return p.errorf("unexpected %s", p.describe())
	}
	return nil
}

func (p *jsonParser) value() (Node, error) {
	switch c := p.peek(); {
	case p.eof():
		return nil, p.errorf("unexpected end of input")
	case c == '{', c == '[':
		return p.nested(c)
	case c == '"':
		loc := p.location()
		s, err := p.string()
		if err != nil {
			return nil, err
		}
		return NewScalar(s, loc), nil
	case c == '-' || (c >= '0' && c <= '9'):
		return p.number()
	case c == 't':
		return p.literal("true", true)
	case c == 'f':
		return p.literal("false", false)
	case c == 'n':
		return p.literal("null", nil)
	default:
		return nil, p.errorf("unexpected %s", p.describe())
	}
}

func (p *jsonParser) nested(c byte) (Node, error) {
	if p.depth >= maxDepth {
		return nil, p.errorf("exceeded max depth of %d", maxDepth)
	}
	p.depth++
	defer func() { p.depth-- }()

	if c == '{' {
		return p.object()
	}
	return p.array()
}

func (p *jsonParser) object() (Node, error) {
	m := NewMapping(p.location())
	p.advance(1)

	if err := p.skipSpace(); err != nil {
		return nil, err
	}
	if p.peek() == '}' {
		p.advance(1)
		return m, nil
	}

	for {
		if p.peek() != '"' {
			return nil, p.errorf("expected string key, found %s", p.describe())
		}
		keyLoc := p.location()
		key, err := p.string()
		if err != nil {
			return nil, err
		}

		if err := p.skipSpace(); err != nil {
			return nil, err
		}
		if p.peek() != ':' {
			return nil, p.errorf("expected ':' after key %q, found %s", key, p.describe())
		}
		p.advance(1)
		if err := p.skipSpace(); err != nil {
			return nil, err
		}

		value, err := p.value()
		if err != nil {
			return nil, err
		}
		m.Set(key, keyLoc, value)

		if err := p.skipSpace(); err != nil {
			return nil, err
		}
		switch p.peek() {
		case ',':
			p.advance(1)
			if err := p.skipSpace(); err != nil {
				return nil, err
			}
			if p.peek() == '}' {
				p.advance(1)
				return m, nil
			}
		case '}':
			p.advance(1)
			return m, nil
		default:
			return nil, p.errorf("expected ',' or '}', found %s", p.describe())
		}
	}
}

func (p *jsonParser) array() (Node, error) {
	s := NewSequence(p.location())
	p.advance(1)

	if err := p.skipSpace(); err != nil {
		return nil, err
	}
	if p.peek() == ']' {
		p.advance(1)
		return s, nil
	}

	for {
		item, err := p.value()
		if err != nil {
			return nil, err
		}
		s.Items = append(s.Items, item)

		if err := p.skipSpace(); err != nil {
			return nil, err
		}
		switch p.peek() {
		case ',':
			p.advance(1)
			if err := p.skipSpace(); err != nil {
				return nil, err
			}
			if p.peek() == ']' {
				p.advance(1)
				return s, nil
			}
		case ']':
			p.advance(1)
			return s, nil
		default:
			return nil, p.errorf("expected ',' or ']', found %s", p.describe())
		}
	}
}

// string scans a quoted string literal and decodes its escapes.
func (p *jsonParser) string() (string, error) {
	start := p.location()
	i := p.pos + 1
	for {
		if i >= len(p.data) {
			return "", &SyntaxError{Grammar: GrammarJSON, Line: start.Line, Column: start.Column, Msg: "unterminated string"}
		}
		c := p.data[i]
		if c == '\\' {
			i += 2
			continue
		}
		if c == '"' {
			break
		}
		if c < 0x20 {
			p.advance(i - p.pos)
			return "", p.errorf("invalid control character %q in string", c)
		}
		i++
	}

	raw := p.data[p.pos : i+1]

	var s string
	if err := gojson.Unmarshal(raw, &s); err != nil {
		return "", &SyntaxError{Grammar: GrammarJSON, Line: start.Line, Column: start.Column, Msg: fmt.Sprintf("invalid string: %v", err)}
	}

	p.advance(len(raw))
	return s, nil
}

var numberRegex = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

func (p *jsonParser) number() (Node, error) {
	loc := p.location()

	end := p.pos
	for end < len(p.data) && bytes.IndexByte([]byte("0123456789+-.eE"), p.data[end]) >= 0 {
		end++
	}
	raw := string(p.data[p.pos:end])

	if !numberRegex.MatchString(raw) {
		return nil, p.errorf("invalid number %q", raw)
	}
	p.advance(len(raw))

	if !strings.ContainsAny(raw, ".eE") {
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return NewScalar(i, loc), nil
		}
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, &SyntaxError{Grammar: GrammarJSON, Line: loc.Line, Column: loc.Column, Msg: fmt.Sprintf("invalid number %q", raw)}
	}
	return NewScalar(f, loc), nil
}

func (p *jsonParser) literal(word string, value any) (Node, error) {
	loc := p.location()
	if !bytes.HasPrefix(p.data[p.pos:], []byte(word)) {
		return nil, p.errorf("invalid literal, expected %q", word)
	}
	p.advance(len(word))
	return NewScalar(value, loc), nil
}
