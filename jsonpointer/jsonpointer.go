// Package jsonpointer provides JSONPointer an implementation of RFC6901 https://datatracker.ietf.org/doc/html/rfc6901
//
// Pointers are used for the fragment part of schema references and for the pointers synthesized when a
// dereferenced schema is re-emitted at a new location.
package jsonpointer

import (
	"fmt"
	"strings"

	"github.com/christophevg/schema-tools/errors"
)

const (
	// ErrNotFound is returned when the target is not found.
	ErrNotFound = errors.Error("not found")
	// ErrInvalidPath is returned when the path is invalid.
	ErrInvalidPath = errors.Error("invalid path")
	// ErrValidation is returned when the jsonpointer is invalid.
	ErrValidation = errors.Error("validation error")
)

// JSONPointer represents a JSON Pointer value as defined by RFC6901 https://datatracker.ietf.org/doc/html/rfc6901
type JSONPointer string

// Root is the pointer to the whole document.
const Root JSONPointer = ""

// Validate will validate the JSONPointer is valid as per RFC6901.
func (j JSONPointer) Validate() error {
	_, err := j.getNavigationStack()
	if err != nil {
		return ErrValidation.Wrap(err)
	}
	return nil
}

// Parts returns the unescaped reference tokens of the pointer.
func (j JSONPointer) Parts() ([]string, error) {
	stack, err := j.getNavigationStack()
	if err != nil {
		return nil, ErrValidation.Wrap(err)
	}

	parts := make([]string, 0, len(stack))
	for _, part := range stack {
		parts = append(parts, part.unescapeValue())
	}
	return parts, nil
}

// Append returns a new pointer with the provided unescaped parts appended.
func (j JSONPointer) Append(parts ...string) JSONPointer {
	if len(parts) == 0 {
		return j
	}
	return JSONPointer(strings.TrimSuffix(string(j), "/")) + PartsToJSONPointer(parts)
}

func (j JSONPointer) String() string {
	return string(j)
}

// PartsToJSONPointer will convert the exploded parts of a JSONPointer to a JSONPointer.
func PartsToJSONPointer(parts []string) JSONPointer {
	var sb strings.Builder
	for _, part := range parts {
		sb.WriteByte('/')
		sb.WriteString(escape(part))
	}
	return JSONPointer(sb.String())
}

// GetTarget will evaluate the JSONPointer against a plain value tree (maps with string keys, slices
// and scalars, as produced by serializing a schema) and return the target.
func GetTarget(source any, pointer JSONPointer) (any, error) {
	stack, err := pointer.getNavigationStack()
	if err != nil {
		return nil, ErrValidation.Wrap(err)
	}

	current := source
	currentPath := ""

	for _, part := range stack {
		currentPath = buildPath(currentPath, part)

		switch v := current.(type) {
		case map[string]any:
			target, ok := v[part.unescapeValue()]
			if !ok {
				return nil, ErrNotFound.Wrap(fmt.Errorf("key %s not found in map at %s", part.unescapeValue(), currentPath))
			}
			current = target
		case []any:
			if part.Type != partTypeIndex {
				return nil, ErrInvalidPath.Wrap(fmt.Errorf("expected index, got %s at %s", part.Type, currentPath))
			}
			index := part.getIndex()
			if index < 0 || index >= len(v) {
				return nil, ErrNotFound.Wrap(fmt.Errorf("index %d out of range for slice of length %d at %s", index, len(v), currentPath))
			}
			current = v[index]
		default:
			return nil, ErrInvalidPath.Wrap(fmt.Errorf("expected map or slice, got %T at %s", current, currentPath))
		}
	}

	return current, nil
}

func buildPath(currentPath string, currentPart navigationPart) string {
	return currentPath + "/" + currentPart.Value
}

// EscapeString escapes a string for use as a reference token in a JSON pointer according to RFC6901.
// It replaces "~" with "~0" and "/" with "~1" as required by RFC 6901.
func EscapeString(s string) string {
	return escape(s)
}

func escape(part string) string {
	return strings.ReplaceAll(strings.ReplaceAll(part, "~", "~0"), "/", "~1")
}
