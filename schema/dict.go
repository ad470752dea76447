package schema

import (
	"context"
	"maps"
	"strconv"

	"github.com/christophevg/schema-tools/jsonpointer"
)

// maxInlineDepth bounds the nesting of inlined references.
const maxInlineDepth = 64

// ToDict serializes s back into a plain value tree of map[string]any, []any and scalars. Without options the
// result equals the value tree of the source document.
//
// With Deref references into the same document are replaced by the serialized target. References found inside
// inlined content that point back into content inlined higher up are rewritten to the pointer of that content
// in the output. DerefRemote inlines references into other documents the same way.
func ToDict(ctx context.Context, s Schema, opts ...Option[DictOptions]) (any, error) {
	if s == nil {
		return nil, nil
	}

	o := DictOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	w := &dictWriter{options: o}
	if o.deref {
		top := frame{root: s}
		if s.Parent() == nil {
			top.key = Origin(s) + "#"
		}
		w.frames = []frame{top}
	}
	return w.value(ctx, s, nil)
}

// frame is inlined content: the schema it was serialized from, where it lives in the output and the key of the
// reference that was inlined. The first frame is the serialized schema itself.
type frame struct {
	root Schema
	path []string
	key  string
}

type dictWriter struct {
	options DictOptions
	frames  []frame
}

func extend(path []string, segments ...string) []string {
	result := make([]string, 0, len(path)+len(segments))
	result = append(result, path...)
	return append(result, segments...)
}

func (w *dictWriter) value(ctx context.Context, s Schema, path []string) (any, error) {
	switch v := s.(type) {
	case nil:
		return nil, nil
	case *Constant:
		return copyValue(v.Value), nil
	case *UnknownProperty:
		return nil, nil
	case *Property, *Definition, *TupleItem:
		d, _ := named(v)
		return w.value(ctx, d.schema, path)
	case *Reference:
		return w.reference(ctx, v, path)
	}

	out, err := w.attributes(ctx, s, path)
	if err != nil {
		return nil, err
	}

	switch v := s.(type) {
	case *ObjectSchema:
		err = w.object(ctx, v, path, out)
	case *ArraySchema:
		if v.Items != nil {
			out["items"], err = w.value(ctx, v.Items, extend(path, "items"))
		}
	case *TupleSchema:
		items := make([]any, 0, len(v.Items))
		for _, item := range v.Items {
			value, itemErr := w.value(ctx, item, extend(path, "items", strconv.Itoa(item.Index)))
			if itemErr != nil {
				return nil, itemErr
			}
			items = append(items, value)
		}
		out["items"] = items
	case *Combination:
		out[v.Keyword], err = w.combinationOptions(ctx, v, path)
	case *Enum:
		out["enum"] = copyValue(v.Values)
	}
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (w *dictWriter) attributes(ctx context.Context, s Schema, path []string) (map[string]any, error) {
	out := map[string]any{}
	for key, value := range s.Attributes().All() {
		switch v := value.(type) {
		case Schema:
			converted, err := w.value(ctx, v, extend(path, key))
			if err != nil {
				return nil, err
			}
			out[key] = converted
		case []any:
			items := make([]any, 0, len(v))
			for i, item := range v {
				if child, ok := item.(Schema); ok {
					converted, err := w.value(ctx, child, extend(path, key, strconv.Itoa(i)))
					if err != nil {
						return nil, err
					}
					items = append(items, converted)
				} else {
					items = append(items, copyValue(item))
				}
			}
			out[key] = items
		default:
			out[key] = copyValue(v)
		}
	}
	return out, nil
}

func (w *dictWriter) object(ctx context.Context, o *ObjectSchema, path []string, out map[string]any) error {
	if o.hasProperties {
		properties := map[string]any{}
		for _, p := range o.Properties {
			if _, ok := properties[p.Name]; ok {
				continue
			}
			value, err := w.value(ctx, p, extend(path, "properties", p.Name))
			if err != nil {
				return err
			}
			properties[p.Name] = value
		}
		out["properties"] = properties
	}

	definitions := map[string]any{}
	schemas := map[string]any{}
	for _, d := range o.Definitions {
		section, segments := definitions, []string{"definitions", d.Name}
		if d.section == sectionComponents {
			section, segments = schemas, []string{"components", "schemas", d.Name}
		}
		if _, ok := section[d.Name]; ok {
			continue
		}
		value, err := w.value(ctx, d, extend(path, segments...))
		if err != nil {
			return err
		}
		section[d.Name] = value
	}
	if o.hasDefinitions {
		out["definitions"] = definitions
	}
	if o.hasComponents {
		components, _ := out["components"].(map[string]any)
		if components == nil {
			components = map[string]any{}
		}
		components["schemas"] = schemas
		out["components"] = components
	}

	for _, c := range o.Combinations() {
		options, err := w.combinationOptions(ctx, c, path)
		if err != nil {
			return err
		}
		out[c.Keyword] = options
	}
	return nil
}

func (w *dictWriter) combinationOptions(ctx context.Context, c *Combination, path []string) ([]any, error) {
	options := make([]any, 0, len(c.Options))
	for i, option := range c.Options {
		value, err := w.value(ctx, option, extend(path, c.Keyword, strconv.Itoa(i)))
		if err != nil {
			return nil, err
		}
		options = append(options, value)
	}
	return options, nil
}

func (w *dictWriter) reference(ctx context.Context, r *Reference, path []string) (any, error) {
	verbatim := func(ref string) (any, error) {
		out, err := w.attributes(ctx, r, path)
		if err != nil {
			return nil, err
		}
		out["$ref"] = ref
		return out, nil
	}

	if !w.options.deref {
		return verbatim(r.Ref.String())
	}

	key, err := r.key()
	if err != nil {
		return nil, ErrResolution.Wrap(err)
	}
	for i := len(w.frames) - 1; i >= 0; i-- {
		if w.frames[i].key == key {
			return verbatim(pointerTo(w.frames[i].path, nil))
		}
	}

	if r.IsRemote() && !w.options.derefRemote {
		return verbatim(r.Ref.String())
	}

	target, err := r.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	// the serialized schema itself is only matched by key, local references into it are inlined
	for i := len(w.frames) - 1; i > 0; i-- {
		if segments, ok := segmentsTo(target, w.frames[i].root); ok {
			return verbatim(pointerTo(w.frames[i].path, segments))
		}
	}

	if len(w.frames) > maxInlineDepth {
		return nil, ErrResolution.Wrapf("inlining %s exceeds a depth of %d", r.Ref, maxInlineDepth)
	}

	w.frames = append(w.frames, frame{root: target, path: path, key: key})
	defer func() { w.frames = w.frames[:len(w.frames)-1] }()

	inlined, err := w.value(ctx, target, path)
	if err != nil {
		return nil, err
	}

	out, ok := inlined.(map[string]any)
	if !ok {
		return inlined, nil
	}
	if target.Parent() == nil && r.IsRemote() {
		delete(out, "$id")
	}

	siblings, err := w.attributes(ctx, r, path)
	if err != nil {
		return nil, err
	}
	maps.Copy(out, siblings)
	return out, nil
}

func pointerTo(path, segments []string) string {
	return "#" + jsonpointer.PartsToJSONPointer(extend(path, segments...)).String()
}

// segmentsTo returns the path from root down to target, false when target is not part of root.
func segmentsTo(target, root Schema) ([]string, bool) {
	var segments []string
	for current := target; current != nil; current = current.Parent() {
		if current == root {
			return segments, true
		}
		parent := current.Parent()
		if parent == nil {
			return nil, false
		}
		segments = append(segmentOf(parent, current), segments...)
	}
	return nil, false
}

// segmentOf returns the output segments between a parent and one of its children.
func segmentOf(parent, child Schema) []string {
	switch p := parent.(type) {
	case *ObjectSchema:
		switch c := child.(type) {
		case *Property:
			return []string{"properties", c.Name}
		case *Definition:
			if c.section == sectionComponents {
				return []string{"components", "schemas", c.Name}
			}
			return []string{"definitions", c.Name}
		case *Combination:
			if c == p.AllOf || c == p.AnyOf || c == p.OneOf {
				return nil
			}
		}
	case *Property, *Definition, *TupleItem:
		return nil
	case *TupleSchema:
		if c, ok := child.(*TupleItem); ok {
			return []string{"items", strconv.Itoa(c.Index)}
		}
	case *ArraySchema:
		if p.Items == child {
			return []string{"items"}
		}
	case *Combination:
		for i, option := range p.Options {
			if option == child {
				return []string{p.Keyword, strconv.Itoa(i)}
			}
		}
	}

	for key, value := range parent.Attributes().All() {
		if value == child {
			return []string{key}
		}
		if items, ok := value.([]any); ok {
			for i, item := range items {
				if item == child {
					return []string{key, strconv.Itoa(i)}
				}
			}
		}
	}
	return nil
}

// copyValue deep copies plain values so the output never shares maps or slices with the graph.
func copyValue(v any) any {
	switch value := v.(type) {
	case map[string]any:
		result := make(map[string]any, len(value))
		for k, item := range value {
			result[k] = copyValue(item)
		}
		return result
	case []any:
		result := make([]any, 0, len(value))
		for _, item := range value {
			result = append(result, copyValue(item))
		}
		return result
	default:
		return value
	}
}
