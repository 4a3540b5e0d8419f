// Package sfmt renders Semantic Query Model trees as canonical query text.
// The rendering names every from-element by its identification variable,
// including generated ones, and lists implicit joins and downcasts, so it
// shows exactly what analysis produced.
package sfmt

import (
	"strings"

	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/sqm"
)

// SQM renders a statement over multiple lines.
func SQM(stmt sqm.Statement) string {
	c := &canonSQM{formatter: formatter{tab: 2}}
	c.statement(stmt)
	return c.String()
}

// Expr renders an expression on a single line.
func Expr(e sqm.Expression) string {
	c := &canonSQM{formatter: formatter{tab: 2, inline: true}}
	c.expr(e)
	return c.String()
}

// Pred renders a predicate on a single line.
func Pred(p sqm.Predicate) string {
	c := &canonSQM{formatter: formatter{tab: 2, inline: true}}
	c.pred(p)
	return c.String()
}

type canonSQM struct {
	formatter
}

func (c *canonSQM) statement(stmt sqm.Statement) {
	switch s := stmt.(type) {
	case *sqm.SelectStatement:
		c.querySpec(s.Query)
		if s.OrderBy != nil {
			c.orderBy(s.OrderBy)
		}
	case *sqm.UpdateStatement:
		c.write("update ")
		if s.Versioned {
			c.write("versioned ")
		}
		c.root(s.Root)
		c.ret()
		c.open("set")
		for k, a := range s.Set.Assignments {
			if k > 0 {
				c.write(",")
			}
			c.ret()
			c.expr(a.Target)
			c.write(" = ")
			c.expr(a.Value)
		}
		c.close()
		c.where(s.Where)
	case *sqm.DeleteStatement:
		c.write("delete ")
		c.root(s.Root)
		c.where(s.Where)
	case *sqm.InsertSelectStatement:
		c.write("insert into ")
		c.root(s.Target)
		c.write(" (")
		for k, f := range s.StateFields {
			if k > 0 {
				c.write(", ")
			}
			c.writeString(f.Attribute.AttributeName())
		}
		c.write(")")
		c.ret()
		c.querySpec(s.Query)
	default:
		c.write("<unknown statement %T>", stmt)
	}
}

func (c *canonSQM) querySpec(q *sqm.QuerySpec) {
	c.selectClause(q.Select)
	c.ret()
	c.fromClause(q.From)
	c.where(q.Where)
	if q.GroupBy != nil {
		c.ret()
		c.write("group by ")
		c.exprs(q.GroupBy.Exprs)
	}
	if q.Having != nil {
		c.ret()
		c.write("having ")
		c.pred(q.Having.Predicate)
	}
}

func (c *canonSQM) selectClause(s *sqm.SelectClause) {
	c.write("select ")
	if s == nil {
		return
	}
	if s.Distinct {
		c.write("distinct ")
	}
	for k, sel := range s.Selections {
		if k > 0 {
			c.write(", ")
		}
		c.expr(sel.Expr)
		if sel.Alias != "" {
			c.write(" as %s", sel.Alias)
		}
	}
}

func (c *canonSQM) fromClause(f *sqm.FromClause) {
	c.open("from")
	for k, space := range f.Spaces {
		if k > 0 {
			c.write(",")
		}
		c.ret()
		c.root(space.Root())
		c.open()
		for _, j := range space.Joins() {
			c.ret()
			c.join(j)
		}
		c.close()
	}
	c.close()
}

func (c *canonSQM) root(r *sqm.Root) {
	if r == nil {
		c.write("<no root>")
		return
	}
	c.write("%s %s", typeName(r.BoundType()), r.Alias())
	c.downcasts(r)
}

func (c *canonSQM) join(j sqm.Join) {
	switch j := j.(type) {
	case *sqm.CrossJoin:
		c.write("cross join %s %s", typeName(j.BoundType()), j.Alias())
		c.downcasts(j)
	case *sqm.EntityJoin:
		c.write("%s join %s %s", j.Kind, typeName(j.BoundType()), j.Alias())
		c.downcasts(j)
		c.on(j.On)
	case *sqm.AttributeJoin:
		c.write("%s join ", j.Kind)
		if j.Fetched {
			c.write("fetch ")
		}
		c.write("%s.%s %s", j.LHSAlias, j.Attribute.AttributeName(), j.Alias())
		c.downcasts(j)
		if j.Implicit {
			c.write(" implicit")
		}
		c.on(j.On)
	}
}

func (c *canonSQM) on(p sqm.Predicate) {
	if p != nil {
		c.write(" on ")
		c.pred(p)
	}
}

func (c *canonSQM) downcasts(fe sqm.FromElement) {
	if t := fe.IntrinsicDowncast(); t != nil {
		c.write(" treat as %s", t.Name)
	}
	if ts := fe.IncidentalDowncasts(); len(ts) > 0 {
		var names []string
		for _, t := range ts {
			names = append(names, t.Name)
		}
		c.write(" {%s}", strings.Join(names, ","))
	}
}

func (c *canonSQM) where(w *sqm.WhereClause) {
	if w == nil {
		return
	}
	c.ret()
	c.write("where ")
	c.pred(w.Predicate)
}

func (c *canonSQM) orderBy(o *sqm.OrderByClause) {
	c.ret()
	c.write("order by ")
	for k, s := range o.Specs {
		if k > 0 {
			c.write(", ")
		}
		c.expr(s.Expr)
		if s.Collation != "" {
			c.write(" collate %s", s.Collation)
		}
		if s.Order != sqm.Unspecified {
			c.write(" %s", s.Order)
		}
	}
}
