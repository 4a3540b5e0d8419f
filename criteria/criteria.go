// Package criteria is a programmatic object model of select queries: roots,
// joins, fetches, paths, selections, predicates, expressions, and
// subqueries.  A criteria graph is interpreted into the Semantic Query
// Model by handing an Interpreter to its Accept methods.  Nodes refer to
// each other directly, so no identification variable needs to be declared
// for a node to be referenced.
package criteria

import (
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/sqm"
)

// Interpreter turns criteria nodes into their semantic form.  Each node's
// Accept method calls back the Interpreter method for its kind.
type Interpreter interface {
	InterpretQuery(*Query) (sqm.Statement, error)
	InterpretUpdate(*Update) (sqm.Statement, error)
	InterpretDelete(*Delete) (sqm.Statement, error)

	InterpretFrom(From) (sqm.Expression, error)
	InterpretPath(*Path) (sqm.Expression, error)
	InterpretTreat(*Treat) (sqm.Expression, error)
	InterpretLiteral(*Literal) (sqm.Expression, error)
	InterpretParameter(*Parameter) (sqm.Expression, error)
	InterpretUnary(*Unary) (sqm.Expression, error)
	InterpretArithmetic(*Arithmetic) (sqm.Expression, error)
	InterpretConcat(*Concat) (sqm.Expression, error)
	InterpretFunction(*Function) (sqm.Expression, error)
	InterpretAggregate(*Aggregate) (sqm.Expression, error)
	InterpretEntityType(*EntityType) (sqm.Expression, error)
	InterpretSubquery(*Subquery) (sqm.Expression, error)

	InterpretJunction(*Junction) (sqm.Predicate, error)
	InterpretNot(*Not) (sqm.Predicate, error)
	InterpretComparison(*Comparison) (sqm.Predicate, error)
	InterpretBetween(*Between) (sqm.Predicate, error)
	InterpretLike(*Like) (sqm.Predicate, error)
	InterpretIn(*In) (sqm.Predicate, error)
	InterpretNullness(*Nullness) (sqm.Predicate, error)
	InterpretEmptiness(*Emptiness) (sqm.Predicate, error)
	InterpretMemberOf(*MemberOf) (sqm.Predicate, error)
	InterpretBooleanExpr(*BooleanExpr) (sqm.Predicate, error)
}

type Statement interface {
	Accept(Interpreter) (sqm.Statement, error)
}

type Expression interface {
	Accept(Interpreter) (sqm.Expression, error)
}

type Predicate interface {
	AcceptPredicate(Interpreter) (sqm.Predicate, error)
}

// Query is a criteria select query.
type Query struct {
	Distinct         bool
	Roots            []*Root
	Selections       []*Selection
	Restriction      Predicate
	Grouping         []Expression
	GroupRestriction Predicate
	Orders           []*Order
}

func NewQuery() *Query {
	return &Query{}
}

func (q *Query) Accept(i Interpreter) (sqm.Statement, error) {
	return i.InterpretQuery(q)
}

// From adds a root over the named entity to q.
func (q *Query) From(entity string) *Root {
	r := &Root{Entity: entity}
	q.Roots = append(q.Roots, r)
	return r
}

// Select replaces the selections of q.  Without selections the roots of
// q are selected.
func (q *Query) Select(sels ...*Selection) *Query {
	q.Selections = sels
	return q
}

// Where sets the restriction of q to the conjunction of preds.
func (q *Query) Where(preds ...Predicate) *Query {
	q.Restriction = conjunction(preds)
	return q
}

func (q *Query) GroupBy(exprs ...Expression) *Query {
	q.Grouping = exprs
	return q
}

func (q *Query) Having(preds ...Predicate) *Query {
	q.GroupRestriction = conjunction(preds)
	return q
}

func (q *Query) OrderBy(orders ...*Order) *Query {
	q.Orders = orders
	return q
}

// Update and Delete are the criteria DML statements.
type Update struct {
	Root        *Root
	Assignments []*Assignment
	Restriction Predicate
}

type Assignment struct {
	Target *Path
	Value  Expression
}

func NewUpdate(entity string) *Update {
	return &Update{Root: &Root{Entity: entity}}
}

func (u *Update) Set(target *Path, value Expression) *Update {
	u.Assignments = append(u.Assignments, &Assignment{Target: target, Value: value})
	return u
}

func (u *Update) Where(preds ...Predicate) *Update {
	u.Restriction = conjunction(preds)
	return u
}

func (u *Update) Accept(i Interpreter) (sqm.Statement, error) {
	return i.InterpretUpdate(u)
}

type Delete struct {
	Root        *Root
	Restriction Predicate
}

func NewDelete(entity string) *Delete {
	return &Delete{Root: &Root{Entity: entity}}
}

func (d *Delete) Where(preds ...Predicate) *Delete {
	d.Restriction = conjunction(preds)
	return d
}

func (d *Delete) Accept(i Interpreter) (sqm.Statement, error) {
	return i.InterpretDelete(d)
}

// Selection is one item of a select list.  Construct is set for a
// dynamic instantiation, in which case Expr is nil.
type Selection struct {
	Expr      Expression
	Construct *Construct
	Alias     string
}

// Select wraps e as a selection.
func Select(e Expression) *Selection {
	return &Selection{Expr: e}
}

func (s *Selection) As(alias string) *Selection {
	s.Alias = alias
	return s
}

// Construct is a dynamic instantiation.  Target is a class name or one of
// "list" and "map".
type Construct struct {
	Target string
	Args   []*Selection
}

func New(target string, args ...*Selection) *Selection {
	return &Selection{Construct: &Construct{Target: target, Args: args}}
}

type Order struct {
	Expr       Expression
	Descending bool
	Collation  string
}

func Asc(e Expression) *Order {
	return &Order{Expr: e}
}

func Desc(e Expression) *Order {
	return &Order{Expr: e, Descending: true}
}

func conjunction(preds []Predicate) Predicate {
	switch len(preds) {
	case 0:
		return nil
	case 1:
		return preds[0]
	}
	return And(preds...)
}
