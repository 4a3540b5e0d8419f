package criteria

import (
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/sqm"
)

type JoinKind int

const (
	InnerJoin JoinKind = iota
	LeftJoin
	RightJoin
)

func (k JoinKind) String() string {
	switch k {
	case InnerJoin:
		return "inner"
	case LeftJoin:
		return "left"
	case RightJoin:
		return "right"
	}
	return "unknown"
}

// From is a root or join of a criteria query.  It is also an expression
// denoting the from-element itself.
type From interface {
	Expression
	Get(attr string) *Path
	Join(attr string, kind JoinKind) *Join
	Fetch(attr string, kind JoinKind) *Join
	// Joins lists the joins and fetches made from this node in creation
	// order.
	Joins() []*Join
	Alias() string
	fromNode()
}

type fromBase struct {
	alias string
	joins []*Join
}

func (f *fromBase) Alias() string  { return f.alias }
func (f *fromBase) Joins() []*Join { return f.joins }

func (f *fromBase) join(parent From, attr string, kind JoinKind, fetch bool) *Join {
	j := &Join{Parent: parent, Attribute: attr, Kind: kind, Fetched: fetch}
	f.joins = append(f.joins, j)
	return j
}

// Root is a query root over an entity.
type Root struct {
	fromBase
	Entity string
}

func (r *Root) As(alias string) *Root {
	r.alias = alias
	return r
}

func (r *Root) Get(attr string) *Path { return &Path{Parent: r, Attribute: attr} }

func (r *Root) Join(attr string, kind JoinKind) *Join {
	return r.join(r, attr, kind, false)
}

func (r *Root) Fetch(attr string, kind JoinKind) *Join {
	return r.join(r, attr, kind, true)
}

func (r *Root) Accept(i Interpreter) (sqm.Expression, error) { return i.InterpretFrom(r) }

// Join is an attribute join from Parent.  TreatAs, when set, narrows the
// joined type to the named subtype.
type Join struct {
	fromBase
	Parent    From
	Attribute string
	Kind      JoinKind
	Fetched   bool
	TreatAs   string
	On        Predicate
}

func (j *Join) As(alias string) *Join {
	j.alias = alias
	return j
}

// Treat narrows the join to the named entity subtype.
func (j *Join) Treat(entity string) *Join {
	j.TreatAs = entity
	return j
}

// WithOn sets the join condition to the conjunction of preds.
func (j *Join) WithOn(preds ...Predicate) *Join {
	j.On = conjunction(preds)
	return j
}

func (j *Join) Get(attr string) *Path { return &Path{Parent: j, Attribute: attr} }

func (j *Join) Join(attr string, kind JoinKind) *Join {
	return j.join(j, attr, kind, false)
}

func (j *Join) Fetch(attr string, kind JoinKind) *Join {
	return j.join(j, attr, kind, true)
}

func (j *Join) Accept(i Interpreter) (sqm.Expression, error) { return i.InterpretFrom(j) }

func (*Root) fromNode() {}
func (*Join) fromNode() {}

// Path is an attribute of a from node, a treated from node, or another
// path.
type Path struct {
	Parent    Expression
	Attribute string
}

func (p *Path) Get(attr string) *Path { return &Path{Parent: p, Attribute: attr} }

func (p *Path) Accept(i Interpreter) (sqm.Expression, error) { return i.InterpretPath(p) }

// Treat is an incidental downcast of a from node.
type Treat struct {
	From   From
	Entity string
}

func TreatAs(from From, entity string) *Treat {
	return &Treat{From: from, Entity: entity}
}

func (t *Treat) Get(attr string) *Path { return &Path{Parent: t, Attribute: attr} }

func (t *Treat) Accept(i Interpreter) (sqm.Expression, error) { return i.InterpretTreat(t) }
