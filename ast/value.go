package ast

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Value returns the plain value of a located tree: map[string]any for mappings, []any for sequences
// and the scalar value otherwise.
func Value(node Node) any {
	switch n := node.(type) {
	case *Scalar:
		return n.Value
	case *Sequence:
		items := make([]any, 0, len(n.Items))
		for _, item := range n.Items {
			items = append(items, Value(item))
		}
		return items
	case *Mapping:
		m := make(map[string]any, n.Len())
		for entry := range n.Entries() {
			m[entry.Key] = Value(entry.Value)
		}
		return m
	default:
		return nil
	}
}

// Equal reports whether two trees hold the same structure and values, ignoring locations and key order.
// Integers and floats holding the same number are equal.
func Equal(a, b Node) bool {
	switch x := a.(type) {
	case *Scalar:
		y, ok := b.(*Scalar)
		return ok && scalarEqual(x.Value, y.Value)
	case *Sequence:
		y, ok := b.(*Sequence)
		if !ok || len(x.Items) != len(y.Items) {
			return false
		}
		for i := range x.Items {
			if !Equal(x.Items[i], y.Items[i]) {
				return false
			}
		}
		return true
	case *Mapping:
		y, ok := b.(*Mapping)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for entry := range x.Entries() {
			other, ok := y.Get(entry.Key)
			if !ok || !Equal(entry.Value, other) {
				return false
			}
		}
		return true
	default:
		return a == nil && b == nil
	}
}

func scalarEqual(a, b any) bool {
	switch x := a.(type) {
	case int64:
		switch y := b.(type) {
		case int64:
			return x == y
		case float64:
			return float64(x) == y
		}
		return false
	case float64:
		switch y := b.(type) {
		case int64:
			return x == float64(y)
		case float64:
			return x == y
		}
		return false
	default:
		return a == b
	}
}

// Dump writes a line per node, prefixed with its location and indented by depth. Mapping keys are listed
// at the location of the key.
func Dump(w io.Writer, node Node) error {
	return dump(w, node, 0)
}

// DumpString returns the output of Dump.
func DumpString(node Node) string {
	var sb strings.Builder
	_ = Dump(&sb, node)
	return sb.String()
}

func dump(w io.Writer, node Node, depth int) error {
	indent := strings.Repeat("  ", depth)

	switch n := node.(type) {
	case *Scalar:
		_, err := fmt.Fprintf(w, "%-10s%s%s\n", n.Loc, indent, FormatScalar(n.Value))
		return err
	case *Sequence:
		if _, err := fmt.Fprintf(w, "%-10s%s[]\n", n.Loc, indent); err != nil {
			return err
		}
		for _, item := range n.Items {
			if err := dump(w, item, depth+1); err != nil {
				return err
			}
		}
	case *Mapping:
		if _, err := fmt.Fprintf(w, "%-10s%s{}\n", n.Loc, indent); err != nil {
			return err
		}
		for entry := range n.Entries() {
			if _, err := fmt.Fprintf(w, "%-10s%s  %s:\n", entry.KeyLocation, indent, strconv.Quote(entry.Key)); err != nil {
				return err
			}
			if err := dump(w, entry.Value, depth+2); err != nil {
				return err
			}
		}
	}
	return nil
}

// FormatScalar renders a scalar value the way it would be written in JSON.
func FormatScalar(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case string:
		return strconv.Quote(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
