package schema

import (
	"context"

	"github.com/christophevg/schema-tools/internal/ctxlog"
	"github.com/christophevg/schema-tools/sequencedmap"
)

// Dependencies collects the distinct references reachable from s through properties, combinator options and
// array or tuple items, keyed by the reference string in the order they are found. Definitions that are not
// referenced do not contribute.
//
// Without external the search stops at every reference. With external every reference is resolved and its
// target searched as well, including targets in other documents. A target is only searched once, which bounds
// the search on recursive schemas. A reference to a visited target is still reported.
func Dependencies(ctx context.Context, s Schema, external bool, opts ...Option[DependencyOptions]) (*sequencedmap.Map[string, *Reference], error) {
	o := DependencyOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.visited == nil {
		o.visited = map[string]bool{}
	}

	c := &collector{
		external: external,
		deps:     sequencedmap.New[string, *Reference](),
		visited:  o.visited,
	}
	if err := c.collect(ctx, s); err != nil {
		return nil, err
	}
	return c.deps, nil
}

type collector struct {
	external bool
	deps     *sequencedmap.Map[string, *Reference]
	visited  map[string]bool
}

func (c *collector) collect(ctx context.Context, s Schema) error {
	switch v := s.(type) {
	case *Reference:
		return c.reference(ctx, v)
	case *ObjectSchema:
		for _, p := range v.Properties {
			if err := c.collect(ctx, p.schema); err != nil {
				return err
			}
		}
		for _, combination := range v.Combinations() {
			if err := c.collect(ctx, combination); err != nil {
				return err
			}
		}
	case *Combination:
		for _, option := range v.Options {
			if err := c.collect(ctx, option); err != nil {
				return err
			}
		}
	case *ArraySchema:
		if v.Items != nil {
			return c.collect(ctx, v.Items)
		}
	case *TupleSchema:
		for _, item := range v.Items {
			if err := c.collect(ctx, item.schema); err != nil {
				return err
			}
		}
	case *Property, *Definition, *TupleItem:
		d, _ := named(v)
		return c.collect(ctx, d.schema)
	}
	return nil
}

func (c *collector) reference(ctx context.Context, r *Reference) error {
	if !c.deps.Has(r.Ref.String()) {
		c.deps.Set(r.Ref.String(), r)
	}
	if !c.external {
		return nil
	}

	key, err := r.key()
	if err != nil {
		return ErrResolution.Wrap(err)
	}
	if c.visited[key] {
		ctxlog.FromContext(ctx).Debug("skipping visited reference", "ref", r.Ref.String(), "target", key)
		return nil
	}
	c.visited[key] = true

	target, err := r.Resolve(ctx)
	if err != nil {
		return err
	}
	return c.collect(ctx, target)
}
