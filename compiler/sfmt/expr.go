package sfmt

import (
	"strings"

	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/sqm"
	"github.com/hibernate/hibernate-semantic-query-sub003/domain"
)

func (c *canonSQM) exprs(exprs []sqm.Expression) {
	for k, e := range exprs {
		if k > 0 {
			c.write(", ")
		}
		c.expr(e)
	}
}

func (c *canonSQM) expr(e sqm.Expression) {
	switch e := e.(type) {
	case nil:
		c.write("<nil>")
	case *sqm.AttributeRef:
		c.write("%s.%s", e.SourceAlias, e.Attribute.AttributeName())
	case *sqm.FromElementRef:
		c.writeString(e.Alias)
	case *sqm.Treat:
		c.write("treat(")
		c.expr(e.Expr)
		c.write(" as %s)", e.Target.Name)
	case *sqm.Literal:
		c.literal(e)
	case *sqm.Parameter:
		if e.Name != "" {
			c.write(":%s", e.Name)
		} else {
			c.write("?%d", e.Position)
		}
	case *sqm.Unary:
		c.writeString(e.Op)
		c.expr(e.Operand)
	case *sqm.BinaryArithmetic:
		c.write("(")
		c.expr(e.LHS)
		c.write(" %s ", e.Op)
		c.expr(e.RHS)
		c.write(")")
	case *sqm.Concat:
		c.write("(")
		c.expr(e.LHS)
		c.write(" || ")
		c.expr(e.RHS)
		c.write(")")
	case *sqm.Function:
		c.write("%s(", e.Name)
		c.exprs(e.Args)
		c.write(")")
	case *sqm.Aggregate:
		c.write("%s(", e.Func)
		if e.Func == sqm.CountStar {
			c.write("*)")
			return
		}
		if e.Distinct {
			c.write("distinct ")
		}
		c.expr(e.Arg)
		c.write(")")
	case *sqm.EntityTypeExpr:
		if e.Source == "" {
			c.writeString(typeName(e.Entity))
			return
		}
		c.write("type(%s)", e.Alias)
	case *sqm.Subquery:
		c.subquery(e)
	case *sqm.ResultVariableRef:
		c.writeString(e.Name)
	case *sqm.DynamicInstantiation:
		c.write("new ")
		switch e.Target {
		case sqm.InstantiateClass:
			c.writeString(e.Class.Name)
		default:
			c.writeString(e.Target.String())
		}
		c.write("(")
		for k, arg := range e.Args {
			if k > 0 {
				c.write(", ")
			}
			c.expr(arg.Expr)
			if arg.Alias != "" {
				c.write(" as %s", arg.Alias)
			}
		}
		c.write(")")
	default:
		c.write("<unknown expression %T>", e)
	}
}

// subquery renders a subquery on one line whatever the enclosing layout.
func (c *canonSQM) subquery(s *sqm.Subquery) {
	inline := c.inline
	c.inline = true
	c.write("(")
	c.querySpec(s.Query)
	c.write(")")
	c.inline = inline
}

func (c *canonSQM) literal(l *sqm.Literal) {
	switch l.Kind {
	case sqm.LitString, sqm.LitChar:
		c.write("'%s'", strings.ReplaceAll(l.Text, "'", "''"))
	case sqm.LitNull:
		c.write("null")
	case sqm.LitTrue:
		c.write("true")
	case sqm.LitFalse:
		c.write("false")
	default:
		c.writeString(l.Text)
	}
}

func typeName(t domain.Type) string {
	if t == nil {
		return "<unknown>"
	}
	return t.TypeName()
}
