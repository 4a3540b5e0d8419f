package sqm

import (
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/qerr"
)

type Predicate interface {
	predicateNode()
}

// Negatable is implemented by predicates that absorb a logical not instead
// of being wrapped in a NegatedPredicate.
type Negatable interface {
	Predicate
	IsNegated() bool
	Negate()
}

type RelationalOp int

const (
	Eq RelationalOp = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

func (o RelationalOp) String() string {
	switch o {
	case Eq:
		return "="
	case Ne:
		return "<>"
	case Lt:
		return "<"
	case Le:
		return "<="
	case Gt:
		return ">"
	case Ge:
		return ">="
	}
	return "?"
}

// Inverse returns the operator that yields the logical complement.
func (o RelationalOp) Inverse() RelationalOp {
	switch o {
	case Eq:
		return Ne
	case Ne:
		return Eq
	case Lt:
		return Ge
	case Ge:
		return Lt
	case Gt:
		return Le
	case Le:
		return Gt
	}
	return o
}

type (
	// AndPredicate and OrPredicate have at least two operands.
	AndPredicate struct {
		Predicates []Predicate
	}
	OrPredicate struct {
		Predicates []Predicate
	}
	NegatedPredicate struct {
		Wrapped Predicate
	}
	GroupedPredicate struct {
		Wrapped Predicate
	}
	RelationalPredicate struct {
		Op  RelationalOp
		LHS Expression
		RHS Expression
	}
	BetweenPredicate struct {
		Expr    Expression
		Lower   Expression
		Upper   Expression
		Negated bool
	}
	LikePredicate struct {
		Match   Expression
		Pattern Expression
		// Escape is nil when no escape character was given.
		Escape  Expression
		Negated bool
	}
	InListPredicate struct {
		Test    Expression
		List    []Expression
		Negated bool
	}
	InSubqueryPredicate struct {
		Test     Expression
		Subquery *Subquery
		Negated  bool
	}
	NullnessPredicate struct {
		Expr    Expression
		Negated bool
	}
	EmptinessPredicate struct {
		Collection *AttributeRef
		Negated    bool
	}
	MemberOfPredicate struct {
		Elem       Expression
		Collection *AttributeRef
		Negated    bool
	}
	BooleanExprPredicate struct {
		Expr Expression
	}
)

// NewAnd builds a conjunction.  Fewer than two operands is a semantic error.
func NewAnd(preds ...Predicate) (*AndPredicate, error) {
	if len(preds) < 2 {
		return nil, qerr.Semantic("and predicate requires at least two operands, got %d", len(preds))
	}
	return &AndPredicate{Predicates: preds}, nil
}

// NewOr builds a disjunction.  Fewer than two operands is a semantic error.
func NewOr(preds ...Predicate) (*OrPredicate, error) {
	if len(preds) < 2 {
		return nil, qerr.Semantic("or predicate requires at least two operands, got %d", len(preds))
	}
	return &OrPredicate{Predicates: preds}, nil
}

// Negate applies a logical not to p.  Relational predicates invert their
// operator, other negatable predicates toggle their flag, and everything
// else is wrapped.
func Negate(p Predicate) Predicate {
	switch p := p.(type) {
	case *RelationalPredicate:
		p.Op = p.Op.Inverse()
		return p
	case Negatable:
		p.Negate()
		return p
	}
	return &NegatedPredicate{Wrapped: p}
}

func (b *BetweenPredicate) IsNegated() bool    { return b.Negated }
func (l *LikePredicate) IsNegated() bool       { return l.Negated }
func (i *InListPredicate) IsNegated() bool     { return i.Negated }
func (i *InSubqueryPredicate) IsNegated() bool { return i.Negated }
func (n *NullnessPredicate) IsNegated() bool   { return n.Negated }
func (e *EmptinessPredicate) IsNegated() bool  { return e.Negated }
func (m *MemberOfPredicate) IsNegated() bool   { return m.Negated }

func (b *BetweenPredicate) Negate()    { b.Negated = !b.Negated }
func (l *LikePredicate) Negate()       { l.Negated = !l.Negated }
func (i *InListPredicate) Negate()     { i.Negated = !i.Negated }
func (i *InSubqueryPredicate) Negate() { i.Negated = !i.Negated }
func (n *NullnessPredicate) Negate()   { n.Negated = !n.Negated }
func (e *EmptinessPredicate) Negate()  { e.Negated = !e.Negated }
func (m *MemberOfPredicate) Negate()   { m.Negated = !m.Negated }

func (*AndPredicate) predicateNode()         {}
func (*OrPredicate) predicateNode()          {}
func (*NegatedPredicate) predicateNode()     {}
func (*GroupedPredicate) predicateNode()     {}
func (*RelationalPredicate) predicateNode()  {}
func (*BetweenPredicate) predicateNode()     {}
func (*LikePredicate) predicateNode()        {}
func (*InListPredicate) predicateNode()      {}
func (*InSubqueryPredicate) predicateNode()  {}
func (*NullnessPredicate) predicateNode()    {}
func (*EmptinessPredicate) predicateNode()   {}
func (*MemberOfPredicate) predicateNode()    {}
func (*BooleanExprPredicate) predicateNode() {}
