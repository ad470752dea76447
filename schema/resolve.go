package schema

import (
	"context"

	"github.com/christophevg/schema-tools/ast"
	"github.com/christophevg/schema-tools/internal/ctxlog"
	"github.com/christophevg/schema-tools/references"
)

// Resolve returns the schema the reference points to, following chains of references until a schema that is
// not a reference is found. References into other documents fetch and build that document on every call.
func (r *Reference) Resolve(ctx context.Context) (Schema, error) {
	visited := map[string]bool{}

	current := r
	for {
		if err := current.Ref.Validate(); err != nil {
			return nil, ErrResolution.Wrap(err)
		}
		key, err := current.key()
		if err != nil {
			return nil, ErrResolution.Wrap(err)
		}
		if visited[key] {
			return nil, ErrResolution.Wrapf("circular reference: %s", r.Ref)
		}
		visited[key] = true

		target, err := current.resolveOnce(ctx)
		if err != nil {
			return nil, err
		}

		next, ok := target.(*Reference)
		if !ok {
			return target, nil
		}
		current = next
	}
}

// location returns the absolute location of the document the reference points into.
func (r *Reference) location() (string, error) {
	if r.Ref.GetURI() == "" {
		return Origin(r), nil
	}
	result, err := references.ResolveAbsoluteReference(r.Ref, Origin(r))
	if err != nil {
		return "", err
	}
	return result.AbsoluteReference, nil
}

// key identifies the target of the reference independent of the document it is written in.
func (r *Reference) key() (string, error) {
	location, err := r.location()
	if err != nil {
		return "", err
	}
	return location + "#" + r.Ref.GetJSONPointer().String(), nil
}

func (r *Reference) resolveOnce(ctx context.Context) (Schema, error) {
	doc, err := r.document(ctx)
	if err != nil {
		return nil, err
	}

	pointer := r.Ref.GetJSONPointer()
	parts, err := pointer.Parts()
	if err != nil {
		return nil, ErrResolution.Wrap(err)
	}

	var target Schema
	switch {
	case len(parts) == 0:
		return doc, nil
	case len(parts) == 2 && parts[0] == "definitions":
		target = lookupDefinition(doc, parts[1])
	case len(parts) == 3 && parts[0] == "components" && parts[1] == "schemas":
		target = lookupDefinition(doc, parts[2])
	case len(parts) == 2 && parts[0] == "properties":
		if o, ok := doc.(*ObjectSchema); ok {
			if p := o.Property(ctx, parts[1]); p != nil {
				target = p.schema
			}
		}
	default:
		return nil, ErrResolution.Wrap(ErrNotImplemented.Wrapf("unsupported fragment %q in %s", pointer, r.Ref))
	}

	if target == nil {
		return nil, ErrResolution.Wrapf("%s not found", r.Ref)
	}
	return target, nil
}

// lookupDefinition finds a definition in a document root. Roots that are not objects, like meta-schemas, still
// carry their definitions as attributes.
func lookupDefinition(doc Schema, name string) Schema {
	if o, ok := doc.(*ObjectSchema); ok {
		if d, ok := o.Definition(name); ok {
			return d.schema
		}
		return nil
	}

	defs, _ := doc.Attributes().Get("definitions")
	holder, ok := defs.(Schema)
	if !ok {
		return nil
	}
	target, _ := holder.Attributes().Get(name)
	s, _ := target.(Schema)
	return s
}

// document returns the root of the document the reference points into.
func (r *Reference) document(ctx context.Context) (Schema, error) {
	if r.Ref.GetURI() == "" {
		return Root(r), nil
	}

	location, err := r.location()
	if err != nil {
		return nil, ErrResolution.Wrap(err)
	}

	o := documentConfig(r)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("resolving reference", "ref", r.Ref.String(), "location", location)

	data, err := references.Fetch(ctx, location, o.fetchOptions())
	if err != nil {
		return nil, ErrResolution.Wrap(err)
	}

	tree, err := ast.ParseJSON(data)
	if err != nil {
		logger.Debug("document is not json, trying yaml", "location", location, "error", err)
		tree, err = ast.ParseYAML(data)
		if err != nil {
			return nil, ErrResolution.Wrapf("unable to parse %s: %w", location, err)
		}
	}

	doc, err := build(tree, o.inherit(location))
	if err != nil {
		return nil, ErrResolution.Wrap(err)
	}
	return doc, nil
}

// Resolved returns the schema of the definition, following references.
func (d *Definition) Resolved(ctx context.Context) (Schema, error) {
	if r, ok := d.schema.(*Reference); ok {
		return r.Resolve(ctx)
	}
	return d.schema, nil
}

// Property returns the first property with the given name. Properties of the objects combined through allOf,
// anyOf and oneOf are looked up when the object does not declare the property itself.
func (o *ObjectSchema) Property(ctx context.Context, name string) *Property {
	return o.property(ctx, name, map[*ObjectSchema]bool{})
}

func (o *ObjectSchema) property(ctx context.Context, name string, seen map[*ObjectSchema]bool) *Property {
	for _, p := range o.Properties {
		if p.Name == name {
			return p
		}
	}

	seen[o] = true
	for _, c := range o.Combinations() {
		for _, option := range c.Options {
			if r, ok := option.(*Reference); ok {
				resolved, err := r.Resolve(ctx)
				if err != nil {
					ctxlog.FromContext(ctx).Debug("skipping unresolvable option", "ref", r.Ref.String(), "error", err)
					continue
				}
				option = resolved
			}
			if candidate, ok := option.(*ObjectSchema); ok && !seen[candidate] {
				if p := candidate.property(ctx, name, seen); p != nil {
					return p
				}
			}
		}
	}

	return nil
}
