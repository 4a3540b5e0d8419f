package split

import (
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/qerr"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/sqm"
	"github.com/hibernate/hibernate-semantic-query-sub003/domain"
)

// fromClause copies every space of f in order.  Join conditions are
// copied after all from-elements of the clause so that a condition may
// refer to any of them.
func (c *copier) fromClause(f *sqm.FromClause) (*sqm.FromClause, error) {
	out := &sqm.FromClause{}
	type pending struct {
		on  sqm.Predicate
		set func(sqm.Predicate)
	}
	var ons []pending
	for _, space := range f.Spaces {
		dst := out.AddSpace()
		if err := c.copyRoot(space.Root(), dst); err != nil {
			return nil, err
		}
		for _, j := range space.Joins() {
			join, err := c.join(j)
			if err != nil {
				return nil, err
			}
			if err := dst.AddJoin(join); err != nil {
				return nil, err
			}
			switch join := join.(type) {
			case *sqm.EntityJoin:
				if on := j.(*sqm.EntityJoin).On; on != nil {
					ons = append(ons, pending{on, func(p sqm.Predicate) { join.On = p }})
				}
			case *sqm.AttributeJoin:
				if on := j.(*sqm.AttributeJoin).On; on != nil {
					ons = append(ons, pending{on, func(p sqm.Predicate) { join.On = p }})
				}
			}
		}
	}
	for _, p := range ons {
		pred, err := c.pred(p.on)
		if err != nil {
			return nil, err
		}
		p.set(pred)
	}
	return out, nil
}

func (c *copier) copyRoot(r *sqm.Root, dst *sqm.FromElementSpace) error {
	if r == nil {
		return qerr.Internal("from-element space has no root")
	}
	if _, ok := c.copies[r.UniqueID()]; ok {
		return qerr.Internal("root %q copied twice", r.Alias())
	}
	var out *sqm.Root
	if r.UniqueID() == c.root {
		out = r.WithBoundType(c.impl)
	} else {
		out = sqm.NewRoot(r.UniqueID(), r.Alias(), r.BoundType())
		sqm.CopyDowncasts(out, r)
	}
	if err := dst.SetRoot(out); err != nil {
		return err
	}
	c.copies[r.UniqueID()] = out
	return nil
}

func (c *copier) join(j sqm.Join) (sqm.Join, error) {
	if _, ok := c.copies[j.UniqueID()]; ok {
		return nil, qerr.Internal("join %q copied twice", j.Alias())
	}
	var out sqm.Join
	switch j := j.(type) {
	case *sqm.CrossJoin:
		out = sqm.NewCrossJoin(j.UniqueID(), j.Alias(), j.BoundType().(*domain.EntityType))
	case *sqm.EntityJoin:
		out = sqm.NewEntityJoin(j.UniqueID(), j.Alias(), j.BoundType().(*domain.EntityType), j.Kind)
	case *sqm.AttributeJoin:
		lhs, err := c.lookup(j.LHS)
		if err != nil {
			return nil, err
		}
		attr, err := c.attribute(j.LHS, j.Attribute)
		if err != nil {
			return nil, err
		}
		join := sqm.NewAttributeJoin(j.UniqueID(), j.Alias(), lhs, attr, j.Kind, j.Fetched)
		join.Implicit = j.Implicit
		out = join
	default:
		return nil, qerr.Internal("unknown join type %T", j)
	}
	sqm.CopyDowncasts(out, j)
	c.copies[j.UniqueID()] = out
	return out, nil
}

// attribute rebinds an attribute dereferenced from the polymorphic root
// to the attribute of the implementor.  Other attributes are unchanged.
func (c *copier) attribute(source string, attr domain.Attribute) (domain.Attribute, error) {
	if source != c.root {
		return attr, nil
	}
	out := c.impl.FindAttribute(attr.AttributeName())
	if out == nil {
		return nil, qerr.Internal("implementor %s has no attribute %q", c.impl.Name, attr.AttributeName())
	}
	return out, nil
}
