package sqm

import (
	"github.com/hibernate/hibernate-semantic-query-sub003/domain"
)

// Expression is any value-producing node.  ExpressionType may be nil when
// the type cannot be determined, e.g., for a parameter compared to another
// parameter.
type Expression interface {
	ExpressionType() domain.Type
	exprNode()
}

type (
	// AttributeRef is a reference to an attribute of a from-element.
	// Source is the unique id of that from-element.
	AttributeRef struct {
		Source      string
		SourceAlias string
		Attribute   domain.Attribute
		Type        domain.Type
	}
	// FromElementRef is a bare reference to a from-element, typed by its
	// navigable type.
	FromElementRef struct {
		UID   string
		Alias string
		Type  domain.Type
	}
	// Treat narrows an expression to a subtype.
	Treat struct {
		Expr   Expression
		Target *domain.EntityType
	}
	Parameter struct {
		// Name is empty for positional parameters.
		Name     string
		Position int
		Type     domain.Type
	}
	Unary struct {
		Op      string
		Operand Expression
	}
	BinaryArithmetic struct {
		Op   string
		LHS  Expression
		RHS  Expression
		Type domain.Type
	}
	Concat struct {
		LHS  Expression
		RHS  Expression
		Type domain.Type
	}
	Function struct {
		Name string
		Args []Expression
		Type domain.Type
	}
	Aggregate struct {
		Func     AggregateFunc
		Distinct bool
		// Arg is nil for count(*).
		Arg  Expression
		Type domain.Type
	}
	// EntityTypeExpr is type(x): the concrete entity type of a
	// from-element or parameter.
	EntityTypeExpr struct {
		Source string
		Alias  string
		Entity domain.Type
	}
	Subquery struct {
		Query *QuerySpec
	}
	// ResultVariableRef is an order-by reference to a select-clause
	// result variable.  Index is the position of the selection.
	ResultVariableRef struct {
		Name  string
		Index int
		Type  domain.Type
	}
	DynamicInstantiation struct {
		Target InstantiationTarget
		Class  *domain.Class
		Args   []*InstantiationArg
	}
	InstantiationArg struct {
		Expr  Expression
		Alias string
	}
)

type AggregateFunc int

const (
	Avg AggregateFunc = iota
	Count
	CountStar
	Max
	Min
	Sum
)

func (a AggregateFunc) String() string {
	switch a {
	case Avg:
		return "avg"
	case Count, CountStar:
		return "count"
	case Max:
		return "max"
	case Min:
		return "min"
	case Sum:
		return "sum"
	}
	return "unknown"
}

type InstantiationTarget int

const (
	InstantiateClass InstantiationTarget = iota
	InstantiateList
	InstantiateMap
)

func (t InstantiationTarget) String() string {
	switch t {
	case InstantiateClass:
		return "class"
	case InstantiateList:
		return "list"
	case InstantiateMap:
		return "map"
	}
	return "unknown"
}

var (
	listClass = &domain.Class{Name: "java.util.List"}
	mapClass  = &domain.Class{Name: "java.util.Map"}
)

func (a *AttributeRef) ExpressionType() domain.Type   { return a.Type }
func (f *FromElementRef) ExpressionType() domain.Type { return f.Type }
func (t *Treat) ExpressionType() domain.Type          { return t.Target }
func (p *Parameter) ExpressionType() domain.Type      { return p.Type }
func (u *Unary) ExpressionType() domain.Type          { return u.Operand.ExpressionType() }
func (b *BinaryArithmetic) ExpressionType() domain.Type {
	return b.Type
}
func (c *Concat) ExpressionType() domain.Type         { return c.Type }
func (f *Function) ExpressionType() domain.Type       { return f.Type }
func (a *Aggregate) ExpressionType() domain.Type      { return a.Type }
func (e *EntityTypeExpr) ExpressionType() domain.Type { return e.Entity }
func (r *ResultVariableRef) ExpressionType() domain.Type {
	return r.Type
}

// ExpressionType of a subquery is the type of its single selection or nil.
func (s *Subquery) ExpressionType() domain.Type {
	if s.Query == nil || s.Query.Select == nil || len(s.Query.Select.Selections) != 1 {
		return nil
	}
	return s.Query.Select.Selections[0].Expr.ExpressionType()
}

func (d *DynamicInstantiation) ExpressionType() domain.Type {
	switch d.Target {
	case InstantiateList:
		return listClass
	case InstantiateMap:
		return mapClass
	}
	return d.Class
}

func (*AttributeRef) exprNode()         {}
func (*FromElementRef) exprNode()       {}
func (*Treat) exprNode()                {}
func (*Literal) exprNode()              {}
func (*Parameter) exprNode()            {}
func (*Unary) exprNode()                {}
func (*BinaryArithmetic) exprNode()     {}
func (*Concat) exprNode()               {}
func (*Function) exprNode()             {}
func (*Aggregate) exprNode()            {}
func (*EntityTypeExpr) exprNode()       {}
func (*Subquery) exprNode()             {}
func (*ResultVariableRef) exprNode()    {}
func (*DynamicInstantiation) exprNode() {}

// IsPlural reports whether the attribute reference denotes a collection.
func (a *AttributeRef) IsPlural() bool {
	_, ok := a.Attribute.(*domain.PluralAttribute)
	return ok
}
