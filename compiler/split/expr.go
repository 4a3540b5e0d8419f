package split

import (
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/qerr"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/sqm"
	"github.com/hibernate/hibernate-semantic-query-sub003/domain"
)

func (c *copier) exprs(exprs []sqm.Expression) ([]sqm.Expression, error) {
	var out []sqm.Expression
	for _, e := range exprs {
		dup, err := c.expr(e)
		if err != nil {
			return nil, err
		}
		out = append(out, dup)
	}
	return out, nil
}

func (c *copier) expr(e sqm.Expression) (sqm.Expression, error) {
	switch e := e.(type) {
	case nil:
		return nil, nil
	case *sqm.AttributeRef:
		return c.attributeRef(e)
	case *sqm.FromElementRef:
		fe, err := c.lookup(e.UID)
		if err != nil {
			return nil, err
		}
		return &sqm.FromElementRef{UID: fe.UniqueID(), Alias: fe.Alias(), Type: sqm.NavigableType(fe)}, nil
	case *sqm.Treat:
		ref, err := c.expr(e.Expr)
		if err != nil {
			return nil, err
		}
		return &sqm.Treat{Expr: ref, Target: e.Target}, nil
	case *sqm.Literal:
		return e.Copy(), nil
	case *sqm.Parameter:
		return c.param(e), nil
	case *sqm.Unary:
		operand, err := c.expr(e.Operand)
		if err != nil {
			return nil, err
		}
		return &sqm.Unary{Op: e.Op, Operand: operand}, nil
	case *sqm.BinaryArithmetic:
		lhs, rhs, err := c.pair(e.LHS, e.RHS)
		if err != nil {
			return nil, err
		}
		return &sqm.BinaryArithmetic{Op: e.Op, LHS: lhs, RHS: rhs, Type: e.Type}, nil
	case *sqm.Concat:
		lhs, rhs, err := c.pair(e.LHS, e.RHS)
		if err != nil {
			return nil, err
		}
		return &sqm.Concat{LHS: lhs, RHS: rhs, Type: e.Type}, nil
	case *sqm.Function:
		args, err := c.exprs(e.Args)
		if err != nil {
			return nil, err
		}
		return &sqm.Function{Name: e.Name, Args: args, Type: e.Type}, nil
	case *sqm.Aggregate:
		arg, err := c.expr(e.Arg)
		if err != nil {
			return nil, err
		}
		return &sqm.Aggregate{Func: e.Func, Distinct: e.Distinct, Arg: arg, Type: e.Type}, nil
	case *sqm.EntityTypeExpr:
		if e.Source == "" {
			return &sqm.EntityTypeExpr{Entity: e.Entity}, nil
		}
		fe, err := c.lookup(e.Source)
		if err != nil {
			return nil, err
		}
		return &sqm.EntityTypeExpr{Source: fe.UniqueID(), Alias: fe.Alias(), Entity: sqm.NavigableType(fe)}, nil
	case *sqm.Subquery:
		q, err := c.sub().querySpec(e.Query)
		if err != nil {
			return nil, err
		}
		return &sqm.Subquery{Query: q}, nil
	case *sqm.ResultVariableRef:
		return &sqm.ResultVariableRef{Name: e.Name, Index: e.Index, Type: e.Type}, nil
	case *sqm.DynamicInstantiation:
		out := &sqm.DynamicInstantiation{Target: e.Target, Class: e.Class}
		for _, arg := range e.Args {
			expr, err := c.expr(arg.Expr)
			if err != nil {
				return nil, err
			}
			out.Args = append(out.Args, &sqm.InstantiationArg{Expr: expr, Alias: arg.Alias})
		}
		return out, nil
	}
	return nil, qerr.Internal("cannot copy expression of type %T", e)
}

func (c *copier) attributeRef(e *sqm.AttributeRef) (*sqm.AttributeRef, error) {
	fe, err := c.lookup(e.Source)
	if err != nil {
		return nil, err
	}
	attr, err := c.attribute(e.Source, e.Attribute)
	if err != nil {
		return nil, err
	}
	typ := e.Type
	if attr != e.Attribute {
		typ = domain.ValueType(attr)
	}
	return &sqm.AttributeRef{Source: fe.UniqueID(), SourceAlias: fe.Alias(), Attribute: attr, Type: typ}, nil
}

func (c *copier) pair(lhs, rhs sqm.Expression) (sqm.Expression, sqm.Expression, error) {
	l, err := c.expr(lhs)
	if err != nil {
		return nil, nil, err
	}
	r, err := c.expr(rhs)
	if err != nil {
		return nil, nil, err
	}
	return l, r, nil
}
