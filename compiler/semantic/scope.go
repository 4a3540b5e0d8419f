package semantic

import (
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/qerr"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/sqm"
	"golang.org/x/text/cases"
)

// Scope is the processing state of one query spec or DML statement: its
// from clause, the identification variables declared in it, the implicit
// joins synthesized against its from-elements, and its result variables.
// Alias lookups fall back to the parent scope; nothing else does.
type Scope struct {
	parent *Scope
	from   *sqm.FromClause
	// dml is set for the single-root scope of update, delete, and insert
	// statements.
	dml bool
	// top is set for the query spec of a top-level select statement.
	top bool

	aliases  map[string]sqm.FromElement
	order    []sqm.FromElement
	implicit map[string]*sqm.AttributeJoin
	explicit map[string]*sqm.AttributeJoin
	results  map[string]int
	selects  []*sqm.Selection
}

func NewScope(parent *Scope) *Scope {
	return &Scope{
		parent:   parent,
		from:     &sqm.FromClause{},
		aliases:  make(map[string]sqm.FromElement),
		implicit: make(map[string]*sqm.AttributeJoin),
		explicit: make(map[string]*sqm.AttributeJoin),
		results:  make(map[string]int),
	}
}

// fold normalizes an identification variable.  JPQL identification
// variables are case insensitive.  Casers are stateful and never shared.
func fold(alias string) string {
	return cases.Fold().String(alias)
}

// register declares fe in s.  A second declaration of the same alias in
// one scope is a semantic error.
func (s *Scope) register(fe sqm.FromElement) error {
	key := fold(fe.Alias())
	if prev, ok := s.aliases[key]; ok {
		return qerr.Semantic("alias %q is already used by from-element %s", fe.Alias(), describe(prev))
	}
	if _, ok := s.results[key]; ok {
		return qerr.Semantic("alias %q is already used by a result variable", fe.Alias())
	}
	s.aliases[key] = fe
	s.order = append(s.order, fe)
	return nil
}

// lookupAlias finds the from-element declared with alias in s or an
// enclosing scope, innermost first, and returns it with the scope that
// declares it.
func (s *Scope) lookupAlias(alias string) (sqm.FromElement, *Scope) {
	key := fold(alias)
	for scope := s; scope != nil; scope = scope.parent {
		if fe, ok := scope.aliases[key]; ok {
			return fe, scope
		}
	}
	return nil, nil
}

// Elements returns the from-elements declared in s in registration order.
func (s *Scope) Elements() []sqm.FromElement {
	return s.order
}

// addSelection records sel as the next selection of the select clause and,
// when alias is not empty, defines alias as its result variable.
func (s *Scope) addSelection(sel *sqm.Selection) error {
	if sel.Alias != "" {
		key := fold(sel.Alias)
		if _, ok := s.results[key]; ok {
			return qerr.Semantic("result variable %q defined more than once", sel.Alias)
		}
		if _, ok := s.aliases[key]; ok {
			return qerr.Semantic("result variable %q collides with a from-element alias", sel.Alias)
		}
		s.results[key] = len(s.selects)
	}
	s.selects = append(s.selects, sel)
	return nil
}

func (s *Scope) lookupResult(alias string) (int, *sqm.Selection) {
	if k, ok := s.results[fold(alias)]; ok {
		return k, s.selects[k]
	}
	return -1, nil
}

func joinKey(lhs sqm.FromElement, attr string) string {
	return lhs.UniqueID() + "." + attr
}

func (s *Scope) existingJoin(lhs sqm.FromElement, attr string, explicitToo bool) *sqm.AttributeJoin {
	key := joinKey(lhs, attr)
	if j, ok := s.implicit[key]; ok {
		return j
	}
	if explicitToo {
		return s.explicit[key]
	}
	return nil
}

func describe(fe sqm.FromElement) string {
	if fe == nil {
		return "<nil>"
	}
	if t := fe.BoundType(); t != nil {
		return fe.Alias() + "(" + t.TypeName() + ")"
	}
	return fe.Alias()
}
