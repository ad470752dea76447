package schema

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/christophevg/schema-tools/internal/ctxlog"
)

// Select follows path through the graph starting at s and returns the Property, Definition or TupleItem at
// its end, nil when the path does not lead anywhere. A single segment is split on dots. A path starting with
// nil selects nothing. Non-string segments are rejected with ErrPathType.
func Select(ctx context.Context, s Schema, path ...any) (Schema, error) {
	segments, err := normalizePath(path)
	if err != nil || len(segments) == 0 {
		return nil, err
	}
	var stack []Schema
	return selectPath(ctx, s, segments, &stack), nil
}

// Trace follows path like Select and returns the Property, Definition or TupleItem matched by every segment.
// Segments that could not be matched are reported as UnknownProperty, so the trace is as long as the path.
func Trace(ctx context.Context, s Schema, path ...any) ([]Schema, error) {
	segments, err := normalizePath(path)
	if err != nil || len(segments) == 0 {
		return nil, err
	}

	var stack []Schema
	selectPath(ctx, s, segments, &stack)

	for _, missing := range segments[min(len(stack), len(segments)):] {
		stack = append(stack, &UnknownProperty{Name: missing})
	}
	return stack, nil
}

func normalizePath(path []any) ([]string, error) {
	if len(path) == 0 || path[0] == nil {
		return nil, nil
	}

	segments := make([]string, 0, len(path))
	for i, segment := range path {
		s, ok := segment.(string)
		if !ok {
			return nil, ErrPathType.Wrap(fmt.Errorf("segment %d is a %T", i, segment))
		}
		segments = append(segments, s)
	}

	if len(segments) == 1 {
		segments = strings.Split(segments[0], ".")
	}
	return segments, nil
}

func selectPath(ctx context.Context, s Schema, path []string, stack *[]Schema) Schema {
	if len(path) == 0 || s == nil {
		return nil
	}

	switch v := s.(type) {
	case *ObjectSchema:
		return selectObject(ctx, v, path, stack)
	case *Property, *Definition, *TupleItem:
		d, _ := named(v)
		resolved, err := d.Resolved(ctx)
		if err != nil {
			ctxlog.FromContext(ctx).Debug("unable to resolve while selecting", "name", d.Name, "error", err)
			return nil
		}
		return selectPath(ctx, resolved, path, stack)
	case *Reference:
		resolved, err := v.Resolve(ctx)
		if err != nil {
			ctxlog.FromContext(ctx).Debug("unable to resolve while selecting", "ref", v.Ref.String(), "error", err)
			return nil
		}
		return selectPath(ctx, resolved, path, stack)
	case *ArraySchema:
		return selectPath(ctx, v.Items, path, stack)
	case *TupleSchema:
		index, err := strconv.Atoi(path[0])
		if err != nil || index < 0 || index >= len(v.Items) {
			return nil
		}
		return step(ctx, v.Items[index], path[1:], stack)
	case *Combination:
		return selectBest(ctx, v.Options, path, stack)
	default:
		return nil
	}
}

// step records a matched segment and continues with the remainder.
func step(ctx context.Context, matched Schema, remainder []string, stack *[]Schema) Schema {
	*stack = append(*stack, matched)
	if len(remainder) == 0 {
		return matched
	}
	return selectPath(ctx, matched, remainder, stack)
}

func selectObject(ctx context.Context, o *ObjectSchema, path []string, stack *[]Schema) Schema {
	if len(path) >= 3 && path[0] == "components" && path[1] == "schemas" {
		if d, ok := o.Definition(path[2]); ok {
			// one entry per consumed segment
			*stack = append(*stack, d, d)
			return step(ctx, d, path[3:], stack)
		}
	}

	for _, p := range o.Properties {
		if p.Name == path[0] {
			return step(ctx, p, path[1:], stack)
		}
	}

	combinations := o.Combinations()
	if len(combinations) == 0 {
		return nil
	}
	options := make([]Schema, 0, len(combinations))
	for _, c := range combinations {
		options = append(options, c)
	}
	return selectBest(ctx, options, path, stack)
}

// selectBest tries every option in order. The first option that matches the whole path wins, otherwise the
// trace of the option that matched the most segments is kept.
func selectBest(ctx context.Context, options []Schema, path []string, stack *[]Schema) Schema {
	var best []Schema
	for _, option := range options {
		var local []Schema
		if result := selectPath(ctx, option, path, &local); result != nil {
			*stack = append(*stack, local...)
			return result
		}
		if len(local) > len(best) {
			best = local
		}
	}
	*stack = append(*stack, best...)
	return nil
}
