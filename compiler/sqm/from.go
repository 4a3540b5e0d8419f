// Package sqm is the Semantic Query Model: the resolved, typed tree that the
// semantic pass produces from a parsed query or a criteria object graph.
// Expressions and join declarations refer to from-elements by unique id rather
// than by pointer; FromClause.Lookup turns an id back into the element.
package sqm

import (
	"strings"

	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/qerr"
	"github.com/hibernate/hibernate-semantic-query-sub003/domain"
)

// ImplicitAliasPrefix marks identification variables synthesized by the
// analyzer.  No user alias can start with it since "<" is not an identifier
// character.
const ImplicitAliasPrefix = "<gen:"

func IsImplicitAlias(alias string) bool {
	return strings.HasPrefix(alias, ImplicitAliasPrefix)
}

type JoinKind int

const (
	InnerJoin JoinKind = iota
	LeftJoin
	RightJoin
	CrossJoinKind
)

func (k JoinKind) String() string {
	switch k {
	case InnerJoin:
		return "inner"
	case LeftJoin:
		return "left"
	case RightJoin:
		return "right"
	case CrossJoinKind:
		return "cross"
	}
	return "unknown"
}

// FromElement is a declared query source: a root, a cross join, or a
// qualified entity or attribute join.
type FromElement interface {
	UniqueID() string
	// Alias returns the identification variable, which is never empty.
	Alias() string
	BoundType() domain.Type
	IntrinsicDowncast() *domain.EntityType
	IncidentalDowncasts() []*domain.EntityType
	AddIncidentalDowncast(*domain.EntityType)
	Space() *FromElementSpace
	fromElementNode()
}

// Join is a FromElement that hangs off the root of a space.
type Join interface {
	FromElement
	joinNode()
}

type fromBase struct {
	uid        string
	alias      string
	typ        domain.Type
	intrinsic  *domain.EntityType
	incidental []*domain.EntityType
	space      *FromElementSpace
}

func (f *fromBase) UniqueID() string                          { return f.uid }
func (f *fromBase) Alias() string                             { return f.alias }
func (f *fromBase) BoundType() domain.Type                    { return f.typ }
func (f *fromBase) IntrinsicDowncast() *domain.EntityType     { return f.intrinsic }
func (f *fromBase) IncidentalDowncasts() []*domain.EntityType { return f.incidental }
func (f *fromBase) Space() *FromElementSpace                  { return f.space }

// AddIncidentalDowncast records a treat() applied to this element outside
// of its declaration.  Duplicates are ignored.
func (f *fromBase) AddIncidentalDowncast(t *domain.EntityType) {
	for _, existing := range f.incidental {
		if existing == t {
			return
		}
	}
	f.incidental = append(f.incidental, t)
}

// SetIntrinsicDowncast narrows the declared type of the element.  It is set
// while the declaration is being built.
func (f *fromBase) SetIntrinsicDowncast(t *domain.EntityType) {
	f.intrinsic = t
}

type (
	Root struct {
		fromBase
	}
	CrossJoin struct {
		fromBase
	}
	// EntityJoin is a qualified join to an entity that is not reached
	// through an attribute, e.g., "join Department d on d.id = e.id".
	EntityJoin struct {
		fromBase
		Kind JoinKind
		On   Predicate
	}
	AttributeJoin struct {
		fromBase
		Attribute domain.Attribute
		// LHS is the unique id of the from-element the attribute is
		// dereferenced from and LHSAlias its identification variable.
		LHS      string
		LHSAlias string
		Kind     JoinKind
		Fetched  bool
		// Implicit is set on joins synthesized by path resolution.
		Implicit bool
		On       Predicate
	}
)

func NewRoot(uid, alias string, typ domain.Type) *Root {
	return &Root{fromBase{uid: uid, alias: alias, typ: typ}}
}

func NewCrossJoin(uid, alias string, entity *domain.EntityType) *CrossJoin {
	return &CrossJoin{fromBase{uid: uid, alias: alias, typ: entity}}
}

func NewEntityJoin(uid, alias string, entity *domain.EntityType, kind JoinKind) *EntityJoin {
	return &EntityJoin{fromBase: fromBase{uid: uid, alias: alias, typ: entity}, Kind: kind}
}

func NewAttributeJoin(uid, alias string, lhs FromElement, attr domain.Attribute, kind JoinKind, fetched bool) *AttributeJoin {
	return &AttributeJoin{
		fromBase:  fromBase{uid: uid, alias: alias, typ: domain.JoinedType(attr)},
		Attribute: attr,
		LHS:       lhs.UniqueID(),
		LHSAlias:  lhs.Alias(),
		Kind:      kind,
		Fetched:   fetched,
	}
}

// WithBoundType returns a root that is identical to r except for its bound
// type.  Downcasts are carried over.
func (r *Root) WithBoundType(typ domain.Type) *Root {
	out := NewRoot(r.uid, r.alias, typ)
	out.intrinsic = r.intrinsic
	out.incidental = append(out.incidental, r.incidental...)
	return out
}

func (*Root) fromElementNode()          {}
func (*CrossJoin) fromElementNode()     {}
func (*EntityJoin) fromElementNode()    {}
func (*AttributeJoin) fromElementNode() {}

func (*CrossJoin) joinNode()     {}
func (*EntityJoin) joinNode()    {}
func (*AttributeJoin) joinNode() {}

// NavigableType is the type path navigation from fe sees: the intrinsic
// downcast when there is one and the bound type otherwise.
func NavigableType(fe FromElement) domain.Type {
	if t := fe.IntrinsicDowncast(); t != nil {
		return t
	}
	return fe.BoundType()
}

// CopyDowncasts transfers the downcasts of src onto dst.
func CopyDowncasts(dst, src FromElement) {
	if t := src.IntrinsicDowncast(); t != nil {
		if b, ok := dst.(interface{ SetIntrinsicDowncast(*domain.EntityType) }); ok {
			b.SetIntrinsicDowncast(t)
		}
	}
	for _, t := range src.IncidentalDowncasts() {
		dst.AddIncidentalDowncast(t)
	}
}

// FromElementSpace is one root and its ordered joins, i.e., a SQL table
// reference.  Join order is significant.
type FromElementSpace struct {
	root  *Root
	joins []Join
}

func (s *FromElementSpace) Root() *Root {
	return s.root
}

// SetRoot installs the root of the space.  A space has exactly one root.
func (s *FromElementSpace) SetRoot(r *Root) error {
	if s.root != nil {
		return qerr.Internal("from-element space already has root %q; cannot set %q", s.root.alias, r.alias)
	}
	r.space = s
	s.root = r
	return nil
}

// AddJoin appends j to the space.  The root must already be set.
func (s *FromElementSpace) AddJoin(j Join) error {
	if s.root == nil {
		return qerr.Internal("join %q added to a from-element space with no root", j.Alias())
	}
	switch j := j.(type) {
	case *CrossJoin:
		j.space = s
	case *EntityJoin:
		j.space = s
	case *AttributeJoin:
		j.space = s
	}
	s.joins = append(s.joins, j)
	return nil
}

func (s *FromElementSpace) Joins() []Join {
	return s.joins
}

// Elements returns the root followed by the joins in declaration order.
func (s *FromElementSpace) Elements() []FromElement {
	var out []FromElement
	if s.root != nil {
		out = append(out, s.root)
	}
	for _, j := range s.joins {
		out = append(out, j)
	}
	return out
}

// Contains reports whether the from-element with the given id belongs to s.
func (s *FromElementSpace) Contains(uid string) bool {
	for _, fe := range s.Elements() {
		if fe.UniqueID() == uid {
			return true
		}
	}
	return false
}

type FromClause struct {
	Spaces []*FromElementSpace
}

func (f *FromClause) AddSpace() *FromElementSpace {
	s := &FromElementSpace{}
	f.Spaces = append(f.Spaces, s)
	return s
}

// Elements returns every from-element of the clause in declaration order.
func (f *FromClause) Elements() []FromElement {
	var out []FromElement
	for _, s := range f.Spaces {
		out = append(out, s.Elements()...)
	}
	return out
}

// Lookup returns the from-element with the given unique id or nil.
func (f *FromClause) Lookup(uid string) FromElement {
	for _, s := range f.Spaces {
		for _, fe := range s.Elements() {
			if fe.UniqueID() == uid {
				return fe
			}
		}
	}
	return nil
}
