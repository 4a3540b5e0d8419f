// Package split expands a select statement rooted at an unmapped
// polymorphic type into one statement per implementing entity.
//
// Each output statement is a deep copy of the input in which the
// polymorphic root is bound to one implementor.  Within a copy every
// from-element is copied exactly once and expressions refer to the copy
// through its unique id, so two references to the same original
// from-element denote the same copied from-element.
package split

import (
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/qerr"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/sqm"
	"github.com/hibernate/hibernate-semantic-query-sub003/domain"
)

// Split returns the statements stmt expands to.  A statement without an
// unmapped polymorphic root is returned unchanged as the only element.
func Split(stmt *sqm.SelectStatement) ([]*sqm.SelectStatement, error) {
	root, poly, err := polymorphicRoot(stmt.Query)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return []*sqm.SelectStatement{stmt}, nil
	}
	out := make([]*sqm.SelectStatement, 0, len(poly.Implementors))
	for _, impl := range poly.Implementors {
		c := &copier{
			root:   root.UniqueID(),
			impl:   impl,
			copies: make(map[string]sqm.FromElement),
		}
		dup, err := c.selectStatement(stmt)
		if err != nil {
			return nil, err
		}
		out = append(out, dup)
	}
	return out, nil
}

// polymorphicRoot finds the root of q bound to an unmapped polymorphic
// type.  There is at most one.
func polymorphicRoot(q *sqm.QuerySpec) (*sqm.Root, *domain.PolymorphicType, error) {
	var root *sqm.Root
	var poly *domain.PolymorphicType
	for _, space := range q.From.Spaces {
		r := space.Root()
		if p, ok := r.BoundType().(*domain.PolymorphicType); ok {
			if root != nil {
				return nil, nil, qerr.Internal("query has more than one unmapped polymorphic root: %q and %q", root.Alias(), r.Alias())
			}
			root, poly = r, p
		}
	}
	return root, poly, nil
}

// copier produces one output tree.  copies maps the unique id of each
// original from-element of one query spec to its copy.  A subquery gets
// its own copier whose parent resolves correlated references.
type copier struct {
	parent *copier
	root   string
	impl   *domain.EntityType
	copies map[string]sqm.FromElement
	params map[*sqm.Parameter]*sqm.Parameter
}

func (c *copier) sub() *copier {
	return &copier{
		parent: c,
		root:   c.root,
		impl:   c.impl,
		copies: make(map[string]sqm.FromElement),
		params: c.params,
	}
}

// lookup returns the copy of the from-element with the given unique id.
// Copies are made before anything referring to them is copied, so a
// missing copy is a bug.
func (c *copier) lookup(uid string) (sqm.FromElement, error) {
	for k := c; k != nil; k = k.parent {
		if fe, ok := k.copies[uid]; ok {
			return fe, nil
		}
	}
	return nil, qerr.Internal("no copy of from-element %s exists yet", uid)
}

func (c *copier) selectStatement(stmt *sqm.SelectStatement) (*sqm.SelectStatement, error) {
	c.params = make(map[*sqm.Parameter]*sqm.Parameter)
	out := &sqm.SelectStatement{}
	var err error
	if out.Query, err = c.querySpec(stmt.Query); err != nil {
		return nil, err
	}
	if stmt.OrderBy != nil {
		out.OrderBy = &sqm.OrderByClause{}
		for _, s := range stmt.OrderBy.Specs {
			e, err := c.expr(s.Expr)
			if err != nil {
				return nil, err
			}
			out.OrderBy.Specs = append(out.OrderBy.Specs, &sqm.SortSpecification{Expr: e, Collation: s.Collation, Order: s.Order})
		}
	}
	for _, p := range stmt.Parameters {
		out.Parameters = append(out.Parameters, c.param(p))
	}
	return out, nil
}

// querySpec copies q.  The from clause is copied first so that every
// from-element copy exists before any clause refers to it.
func (c *copier) querySpec(q *sqm.QuerySpec) (*sqm.QuerySpec, error) {
	from, err := c.fromClause(q.From)
	if err != nil {
		return nil, err
	}
	out := &sqm.QuerySpec{From: from}
	if q.Select != nil {
		out.Select = &sqm.SelectClause{Distinct: q.Select.Distinct}
		for _, sel := range q.Select.Selections {
			e, err := c.expr(sel.Expr)
			if err != nil {
				return nil, err
			}
			out.Select.Selections = append(out.Select.Selections, &sqm.Selection{Expr: e, Alias: sel.Alias})
		}
	}
	if q.Where != nil {
		p, err := c.pred(q.Where.Predicate)
		if err != nil {
			return nil, err
		}
		out.Where = &sqm.WhereClause{Predicate: p}
	}
	if q.GroupBy != nil {
		exprs, err := c.exprs(q.GroupBy.Exprs)
		if err != nil {
			return nil, err
		}
		out.GroupBy = &sqm.GroupByClause{Exprs: exprs}
	}
	if q.Having != nil {
		p, err := c.pred(q.Having.Predicate)
		if err != nil {
			return nil, err
		}
		out.Having = &sqm.HavingClause{Predicate: p}
	}
	return out, nil
}

func (c *copier) param(p *sqm.Parameter) *sqm.Parameter {
	if dup, ok := c.params[p]; ok {
		return dup
	}
	dup := *p
	c.params[p] = &dup
	return &dup
}
