package sfmt

import (
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/sqm"
)

func (c *canonSQM) pred(p sqm.Predicate) {
	switch p := p.(type) {
	case nil:
		c.write("<nil>")
	case *sqm.AndPredicate:
		c.junction(p.Predicates, " and ")
	case *sqm.OrPredicate:
		c.junction(p.Predicates, " or ")
	case *sqm.NegatedPredicate:
		c.write("not ")
		c.pred(p.Wrapped)
	case *sqm.GroupedPredicate:
		c.write("(")
		c.pred(p.Wrapped)
		c.write(")")
	case *sqm.RelationalPredicate:
		c.expr(p.LHS)
		c.write(" %s ", p.Op)
		c.expr(p.RHS)
	case *sqm.BetweenPredicate:
		c.expr(p.Expr)
		c.not(p.Negated)
		c.write(" between ")
		c.expr(p.Lower)
		c.write(" and ")
		c.expr(p.Upper)
	case *sqm.LikePredicate:
		c.expr(p.Match)
		c.not(p.Negated)
		c.write(" like ")
		c.expr(p.Pattern)
		if p.Escape != nil {
			c.write(" escape ")
			c.expr(p.Escape)
		}
	case *sqm.InListPredicate:
		c.expr(p.Test)
		c.not(p.Negated)
		c.write(" in (")
		c.exprs(p.List)
		c.write(")")
	case *sqm.InSubqueryPredicate:
		c.expr(p.Test)
		c.not(p.Negated)
		c.write(" in ")
		c.subquery(p.Subquery)
	case *sqm.NullnessPredicate:
		c.expr(p.Expr)
		c.write(" is ")
		if p.Negated {
			c.write("not ")
		}
		c.write("null")
	case *sqm.EmptinessPredicate:
		c.expr(p.Collection)
		c.write(" is ")
		if p.Negated {
			c.write("not ")
		}
		c.write("empty")
	case *sqm.MemberOfPredicate:
		c.expr(p.Elem)
		c.not(p.Negated)
		c.write(" member of ")
		c.expr(p.Collection)
	case *sqm.BooleanExprPredicate:
		c.expr(p.Expr)
	default:
		c.write("<unknown predicate %T>", p)
	}
}

// junction renders the operands of an and or or predicate.  An operand
// that is itself a junction of the other kind is parenthesized.
func (c *canonSQM) junction(preds []sqm.Predicate, sep string) {
	for k, p := range preds {
		if k > 0 {
			c.writeString(sep)
		}
		_, and := p.(*sqm.AndPredicate)
		_, or := p.(*sqm.OrPredicate)
		if and || or {
			c.write("(")
			c.pred(p)
			c.write(")")
			continue
		}
		c.pred(p)
	}
}

func (c *canonSQM) not(negated bool) {
	if negated {
		c.write(" not")
	}
}
