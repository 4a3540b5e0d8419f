package criteria

import (
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/sqm"
)

type (
	// Literal is a constant.  Value is a string, bool, int, int32,
	// int64, float32, float64, *big.Int, decimal.Decimal, or nil.
	Literal struct {
		Value any
	}
	// Parameter is named when Name is set and positional otherwise.
	Parameter struct {
		Name     string
		Position int
	}
	Unary struct {
		Op      string
		Operand Expression
	}
	Arithmetic struct {
		Op  string
		LHS Expression
		RHS Expression
	}
	Concat struct {
		LHS Expression
		RHS Expression
	}
	Function struct {
		Name string
		Args []Expression
	}
	// Aggregate is one of avg, count, max, min, or sum.  Arg is nil for
	// count(*).
	Aggregate struct {
		Func     string
		Distinct bool
		Arg      Expression
	}
	// EntityType is type(from).
	EntityType struct {
		Of From
	}
)

func (l *Literal) Accept(i Interpreter) (sqm.Expression, error)    { return i.InterpretLiteral(l) }
func (p *Parameter) Accept(i Interpreter) (sqm.Expression, error)  { return i.InterpretParameter(p) }
func (u *Unary) Accept(i Interpreter) (sqm.Expression, error)      { return i.InterpretUnary(u) }
func (a *Arithmetic) Accept(i Interpreter) (sqm.Expression, error) { return i.InterpretArithmetic(a) }
func (c *Concat) Accept(i Interpreter) (sqm.Expression, error)     { return i.InterpretConcat(c) }
func (f *Function) Accept(i Interpreter) (sqm.Expression, error)   { return i.InterpretFunction(f) }
func (a *Aggregate) Accept(i Interpreter) (sqm.Expression, error)  { return i.InterpretAggregate(a) }
func (e *EntityType) Accept(i Interpreter) (sqm.Expression, error) { return i.InterpretEntityType(e) }

func Value(v any) *Literal { return &Literal{Value: v} }

func Null() *Literal { return &Literal{} }

func Param(name string) *Parameter { return &Parameter{Name: name} }

func PositionalParam(n int) *Parameter { return &Parameter{Position: n} }

func Neg(e Expression) *Unary { return &Unary{Op: "-", Operand: e} }

func Add(lhs, rhs Expression) *Arithmetic { return &Arithmetic{Op: "+", LHS: lhs, RHS: rhs} }
func Sub(lhs, rhs Expression) *Arithmetic { return &Arithmetic{Op: "-", LHS: lhs, RHS: rhs} }
func Mul(lhs, rhs Expression) *Arithmetic { return &Arithmetic{Op: "*", LHS: lhs, RHS: rhs} }
func Div(lhs, rhs Expression) *Arithmetic { return &Arithmetic{Op: "/", LHS: lhs, RHS: rhs} }
func Mod(lhs, rhs Expression) *Arithmetic { return &Arithmetic{Op: "%", LHS: lhs, RHS: rhs} }

func ConcatOf(lhs, rhs Expression) *Concat { return &Concat{LHS: lhs, RHS: rhs} }

func Fn(name string, args ...Expression) *Function {
	return &Function{Name: name, Args: args}
}

func Avg(e Expression) *Aggregate   { return &Aggregate{Func: "avg", Arg: e} }
func Sum(e Expression) *Aggregate   { return &Aggregate{Func: "sum", Arg: e} }
func Max(e Expression) *Aggregate   { return &Aggregate{Func: "max", Arg: e} }
func Min(e Expression) *Aggregate   { return &Aggregate{Func: "min", Arg: e} }
func Count(e Expression) *Aggregate { return &Aggregate{Func: "count", Arg: e} }

func CountDistinct(e Expression) *Aggregate {
	return &Aggregate{Func: "count", Distinct: true, Arg: e}
}

func CountStar() *Aggregate { return &Aggregate{Func: "count"} }

func TypeOf(from From) *EntityType { return &EntityType{Of: from} }

// Subquery is a nested query selecting a single expression.  Its
// expressions may refer to from nodes of enclosing queries.
type Subquery struct {
	Distinct         bool
	Roots            []*Root
	Selection        Expression
	Restriction      Predicate
	Grouping         []Expression
	GroupRestriction Predicate
}

func NewSubquery() *Subquery {
	return &Subquery{}
}

func (s *Subquery) From(entity string) *Root {
	r := &Root{Entity: entity}
	s.Roots = append(s.Roots, r)
	return r
}

func (s *Subquery) Select(e Expression) *Subquery {
	s.Selection = e
	return s
}

func (s *Subquery) Where(preds ...Predicate) *Subquery {
	s.Restriction = conjunction(preds)
	return s
}

func (s *Subquery) GroupBy(exprs ...Expression) *Subquery {
	s.Grouping = exprs
	return s
}

func (s *Subquery) Having(preds ...Predicate) *Subquery {
	s.GroupRestriction = conjunction(preds)
	return s
}

func (s *Subquery) Accept(i Interpreter) (sqm.Expression, error) { return i.InterpretSubquery(s) }
