package semantic

import (
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/ast"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/qerr"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/sqm"
	"github.com/hibernate/hibernate-semantic-query-sub003/domain"
)

var relationalOps = map[string]sqm.RelationalOp{
	"=":  sqm.Eq,
	"<>": sqm.Ne,
	"<":  sqm.Lt,
	"<=": sqm.Le,
	">":  sqm.Gt,
	">=": sqm.Ge,
}

func (a *analyzer) semPred(e ast.Expr) (sqm.Predicate, error) {
	out, err := a.semPredNode(e)
	if err != nil {
		return nil, located(err, e)
	}
	return out, nil
}

func (a *analyzer) semPredNode(e ast.Expr) (sqm.Predicate, error) {
	switch e := e.(type) {
	case *ast.BinaryExpr:
		switch e.Op {
		case "and", "or":
			return a.semJunction(e)
		}
		if op, ok := relationalOps[e.Op]; ok {
			exprs, err := a.semExprs(e.LHS, e.RHS)
			if err != nil {
				return nil, err
			}
			return relational(op, exprs[0], exprs[1]), nil
		}
	case *ast.Not:
		p, err := a.semPred(e.Expr)
		if err != nil {
			return nil, err
		}
		return sqm.Negate(p), nil
	case *ast.Paren:
		p, err := a.semPred(e.Expr)
		if err != nil {
			return nil, err
		}
		return &sqm.GroupedPredicate{Wrapped: p}, nil
	case *ast.Between:
		exprs, err := a.semExprs(e.Expr, e.Lower, e.Upper)
		if err != nil {
			return nil, err
		}
		return between(exprs[0], exprs[1], exprs[2], e.Not), nil
	case *ast.Like:
		exprs, err := a.semExprs(e.Expr, e.Pattern)
		if err != nil {
			return nil, err
		}
		var escape sqm.Expression
		if e.Escape != nil {
			if escape, err = a.semExpr(e.Escape); err != nil {
				return nil, err
			}
		}
		return a.like(exprs[0], exprs[1], escape, e.Not), nil
	case *ast.In:
		return a.semIn(e)
	case *ast.IsNull:
		expr, err := a.semExpr(e.Expr)
		if err != nil {
			return nil, err
		}
		return &sqm.NullnessPredicate{Expr: expr, Negated: e.Not}, nil
	case *ast.IsEmpty:
		coll, err := a.semCollection(e.Expr, "is empty")
		if err != nil {
			return nil, err
		}
		return &sqm.EmptinessPredicate{Collection: coll, Negated: e.Not}, nil
	case *ast.MemberOf:
		elem, err := a.semExpr(e.Elem)
		if err != nil {
			return nil, err
		}
		coll, err := a.semCollection(e.Collection, "member of")
		if err != nil {
			return nil, err
		}
		return memberOf(elem, coll, e.Not), nil
	case nil:
		return nil, qerr.Internal("missing predicate")
	}
	expr, err := a.semExpr(e)
	if err != nil {
		return nil, err
	}
	return a.booleanExpr(expr)
}

// semJunction flattens a chain of the same logical operator into one
// and/or predicate.  Parenthesized operands stay grouped.
func (a *analyzer) semJunction(e *ast.BinaryExpr) (sqm.Predicate, error) {
	var preds []sqm.Predicate
	for _, operand := range junctionOperands(e.Op, e, nil) {
		p, err := a.semPred(operand)
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
	}
	if e.Op == "and" {
		return sqm.NewAnd(preds...)
	}
	return sqm.NewOr(preds...)
}

func junctionOperands(op string, e ast.Expr, out []ast.Expr) []ast.Expr {
	if b, ok := e.(*ast.BinaryExpr); ok && b.Op == op {
		out = junctionOperands(op, b.LHS, out)
		return junctionOperands(op, b.RHS, out)
	}
	return append(out, e)
}

func relational(op sqm.RelationalOp, lhs, rhs sqm.Expression) sqm.Predicate {
	imply(lhs, rhs)
	imply(rhs, lhs)
	return &sqm.RelationalPredicate{Op: op, LHS: lhs, RHS: rhs}
}

func between(expr, lower, upper sqm.Expression, negated bool) sqm.Predicate {
	for _, bound := range []sqm.Expression{lower, upper} {
		imply(bound, expr)
		imply(expr, bound)
	}
	return &sqm.BetweenPredicate{Expr: expr, Lower: lower, Upper: upper, Negated: negated}
}

func (a *analyzer) like(match, pattern, escape sqm.Expression, negated bool) sqm.Predicate {
	str := &sqm.Literal{Type: a.model.ResolveBasicType(domain.KindString)}
	imply(match, str)
	imply(pattern, str)
	if escape != nil {
		imply(escape, &sqm.Literal{Type: a.model.ResolveBasicType(domain.KindChar)})
	}
	return &sqm.LikePredicate{Match: match, Pattern: pattern, Escape: escape, Negated: negated}
}

func (a *analyzer) semIn(e *ast.In) (sqm.Predicate, error) {
	test, err := a.semExpr(e.Expr)
	if err != nil {
		return nil, err
	}
	if e.Subquery != nil {
		sub, err := a.semSubquery(e.Subquery)
		if err != nil {
			return nil, err
		}
		return inSubquery(test, sub, e.Not)
	}
	list, err := a.semExprs(e.List...)
	if err != nil {
		return nil, err
	}
	return inList(test, list, e.Not), nil
}

func inList(test sqm.Expression, list []sqm.Expression, negated bool) sqm.Predicate {
	for _, expr := range list {
		imply(expr, test)
	}
	for _, expr := range list {
		imply(test, expr)
	}
	return &sqm.InListPredicate{Test: test, List: list, Negated: negated}
}

func inSubquery(test sqm.Expression, sub *sqm.Subquery, negated bool) (sqm.Predicate, error) {
	if n := len(sub.Query.Select.Selections); n != 1 {
		return nil, qerr.Semantic("in subquery must select exactly one value, found %d", n)
	}
	imply(test, sub)
	return &sqm.InSubqueryPredicate{Test: test, Subquery: sub, Negated: negated}, nil
}

func memberOf(elem sqm.Expression, coll *sqm.AttributeRef, negated bool) sqm.Predicate {
	imply(elem, coll)
	return &sqm.MemberOfPredicate{Elem: elem, Collection: coll, Negated: negated}
}

func (a *analyzer) semCollection(e ast.Expr, what string) (*sqm.AttributeRef, error) {
	path, ok := e.(*ast.Path)
	if !ok {
		return nil, qerr.Semantic("%s requires a collection-valued path", what)
	}
	expr, err := a.semExpr(path)
	if err != nil {
		return nil, err
	}
	return collectionRef(expr, path.Parts.String(), what)
}

// collectionRef checks that expr is a reference to a plural attribute.
func collectionRef(expr sqm.Expression, text, what string) (*sqm.AttributeRef, error) {
	ref, ok := expr.(*sqm.AttributeRef)
	if !ok || !ref.IsPlural() {
		return nil, qerr.Semantic("%s requires a collection-valued path, %q is not one", what, text)
	}
	return ref, nil
}

// booleanExpr accepts a boolean-valued expression used as a predicate.
func (a *analyzer) booleanExpr(expr sqm.Expression) (sqm.Predicate, error) {
	imply(expr, &sqm.Literal{Type: a.model.ResolveBasicType(domain.KindBool)})
	if basic, ok := expr.ExpressionType().(*domain.BasicType); !ok || basic.Kind != domain.KindBool {
		return nil, qerr.Semantic("expression of type %s is not a predicate", typeName(expr.ExpressionType()))
	}
	return &sqm.BooleanExprPredicate{Expr: expr}, nil
}
