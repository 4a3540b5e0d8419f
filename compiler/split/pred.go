package split

import (
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/qerr"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/sqm"
)

func (c *copier) preds(preds []sqm.Predicate) ([]sqm.Predicate, error) {
	out := make([]sqm.Predicate, 0, len(preds))
	for _, p := range preds {
		dup, err := c.pred(p)
		if err != nil {
			return nil, err
		}
		out = append(out, dup)
	}
	return out, nil
}

func (c *copier) pred(p sqm.Predicate) (sqm.Predicate, error) {
	switch p := p.(type) {
	case *sqm.AndPredicate:
		preds, err := c.preds(p.Predicates)
		if err != nil {
			return nil, err
		}
		return &sqm.AndPredicate{Predicates: preds}, nil
	case *sqm.OrPredicate:
		preds, err := c.preds(p.Predicates)
		if err != nil {
			return nil, err
		}
		return &sqm.OrPredicate{Predicates: preds}, nil
	case *sqm.NegatedPredicate:
		wrapped, err := c.pred(p.Wrapped)
		if err != nil {
			return nil, err
		}
		return &sqm.NegatedPredicate{Wrapped: wrapped}, nil
	case *sqm.GroupedPredicate:
		wrapped, err := c.pred(p.Wrapped)
		if err != nil {
			return nil, err
		}
		return &sqm.GroupedPredicate{Wrapped: wrapped}, nil
	case *sqm.RelationalPredicate:
		lhs, rhs, err := c.pair(p.LHS, p.RHS)
		if err != nil {
			return nil, err
		}
		return &sqm.RelationalPredicate{Op: p.Op, LHS: lhs, RHS: rhs}, nil
	case *sqm.BetweenPredicate:
		exprs, err := c.exprs([]sqm.Expression{p.Expr, p.Lower, p.Upper})
		if err != nil {
			return nil, err
		}
		return &sqm.BetweenPredicate{Expr: exprs[0], Lower: exprs[1], Upper: exprs[2], Negated: p.Negated}, nil
	case *sqm.LikePredicate:
		match, pattern, err := c.pair(p.Match, p.Pattern)
		if err != nil {
			return nil, err
		}
		escape, err := c.expr(p.Escape)
		if err != nil {
			return nil, err
		}
		return &sqm.LikePredicate{Match: match, Pattern: pattern, Escape: escape, Negated: p.Negated}, nil
	case *sqm.InListPredicate:
		test, err := c.expr(p.Test)
		if err != nil {
			return nil, err
		}
		list, err := c.exprs(p.List)
		if err != nil {
			return nil, err
		}
		return &sqm.InListPredicate{Test: test, List: list, Negated: p.Negated}, nil
	case *sqm.InSubqueryPredicate:
		test, err := c.expr(p.Test)
		if err != nil {
			return nil, err
		}
		q, err := c.sub().querySpec(p.Subquery.Query)
		if err != nil {
			return nil, err
		}
		return &sqm.InSubqueryPredicate{Test: test, Subquery: &sqm.Subquery{Query: q}, Negated: p.Negated}, nil
	case *sqm.NullnessPredicate:
		expr, err := c.expr(p.Expr)
		if err != nil {
			return nil, err
		}
		return &sqm.NullnessPredicate{Expr: expr, Negated: p.Negated}, nil
	case *sqm.EmptinessPredicate:
		coll, err := c.attributeRef(p.Collection)
		if err != nil {
			return nil, err
		}
		return &sqm.EmptinessPredicate{Collection: coll, Negated: p.Negated}, nil
	case *sqm.MemberOfPredicate:
		elem, err := c.expr(p.Elem)
		if err != nil {
			return nil, err
		}
		coll, err := c.attributeRef(p.Collection)
		if err != nil {
			return nil, err
		}
		return &sqm.MemberOfPredicate{Elem: elem, Collection: coll, Negated: p.Negated}, nil
	case *sqm.BooleanExprPredicate:
		expr, err := c.expr(p.Expr)
		if err != nil {
			return nil, err
		}
		return &sqm.BooleanExprPredicate{Expr: expr}, nil
	}
	return nil, qerr.Internal("cannot copy predicate of type %T", p)
}
