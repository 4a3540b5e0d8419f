package criteria

import (
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/sqm"
)

type (
	// Junction is a conjunction or, when Or is set, a disjunction.  It
	// must have at least two operands.
	Junction struct {
		Or         bool
		Predicates []Predicate
	}
	Not struct {
		Predicate Predicate
	}
	// Comparison compares LHS and RHS with one of =, <>, <, <=, >, >=.
	Comparison struct {
		Op  string
		LHS Expression
		RHS Expression
	}
	Between struct {
		Expr    Expression
		Lower   Expression
		Upper   Expression
		Negated bool
	}
	Like struct {
		Match   Expression
		Pattern Expression
		Escape  Expression
		Negated bool
	}
	// In tests membership in Values or, when Subquery is set, in the
	// rows of a subquery.
	In struct {
		Test     Expression
		Values   []Expression
		Subquery *Subquery
		Negated  bool
	}
	Nullness struct {
		Expr    Expression
		Negated bool
	}
	Emptiness struct {
		Collection *Path
		Negated    bool
	}
	MemberOf struct {
		Elem       Expression
		Collection *Path
		Negated    bool
	}
	BooleanExpr struct {
		Expr Expression
	}
)

func (j *Junction) AcceptPredicate(i Interpreter) (sqm.Predicate, error) {
	return i.InterpretJunction(j)
}

func (n *Not) AcceptPredicate(i Interpreter) (sqm.Predicate, error) { return i.InterpretNot(n) }

func (c *Comparison) AcceptPredicate(i Interpreter) (sqm.Predicate, error) {
	return i.InterpretComparison(c)
}

func (b *Between) AcceptPredicate(i Interpreter) (sqm.Predicate, error) {
	return i.InterpretBetween(b)
}

func (l *Like) AcceptPredicate(i Interpreter) (sqm.Predicate, error) { return i.InterpretLike(l) }
func (n *In) AcceptPredicate(i Interpreter) (sqm.Predicate, error)   { return i.InterpretIn(n) }

func (n *Nullness) AcceptPredicate(i Interpreter) (sqm.Predicate, error) {
	return i.InterpretNullness(n)
}

func (e *Emptiness) AcceptPredicate(i Interpreter) (sqm.Predicate, error) {
	return i.InterpretEmptiness(e)
}

func (m *MemberOf) AcceptPredicate(i Interpreter) (sqm.Predicate, error) {
	return i.InterpretMemberOf(m)
}

func (b *BooleanExpr) AcceptPredicate(i Interpreter) (sqm.Predicate, error) {
	return i.InterpretBooleanExpr(b)
}

func And(preds ...Predicate) *Junction { return &Junction{Predicates: preds} }
func Or(preds ...Predicate) *Junction  { return &Junction{Or: true, Predicates: preds} }

func Negate(p Predicate) *Not { return &Not{Predicate: p} }

func Equal(lhs, rhs Expression) *Comparison     { return &Comparison{Op: "=", LHS: lhs, RHS: rhs} }
func NotEqual(lhs, rhs Expression) *Comparison  { return &Comparison{Op: "<>", LHS: lhs, RHS: rhs} }
func LessThan(lhs, rhs Expression) *Comparison  { return &Comparison{Op: "<", LHS: lhs, RHS: rhs} }
func LessEqual(lhs, rhs Expression) *Comparison { return &Comparison{Op: "<=", LHS: lhs, RHS: rhs} }
func Greater(lhs, rhs Expression) *Comparison   { return &Comparison{Op: ">", LHS: lhs, RHS: rhs} }

func GreaterEqual(lhs, rhs Expression) *Comparison {
	return &Comparison{Op: ">=", LHS: lhs, RHS: rhs}
}

func InRange(e, lower, upper Expression) *Between {
	return &Between{Expr: e, Lower: lower, Upper: upper}
}

func Matches(e, pattern Expression) *Like { return &Like{Match: e, Pattern: pattern} }

func InValues(test Expression, values ...Expression) *In {
	return &In{Test: test, Values: values}
}

func InSubquery(test Expression, sub *Subquery) *In {
	return &In{Test: test, Subquery: sub}
}

func IsNull(e Expression) *Nullness    { return &Nullness{Expr: e} }
func IsNotNull(e Expression) *Nullness { return &Nullness{Expr: e, Negated: true} }

func IsEmpty(p *Path) *Emptiness    { return &Emptiness{Collection: p} }
func IsNotEmpty(p *Path) *Emptiness { return &Emptiness{Collection: p, Negated: true} }

func IsMember(elem Expression, p *Path) *MemberOf {
	return &MemberOf{Elem: elem, Collection: p}
}

func IsTrue(e Expression) *BooleanExpr { return &BooleanExpr{Expr: e} }
