// Package semantic turns parse trees and criteria object graphs into the
// Semantic Query Model.  It resolves identification variables and dotted
// paths against the domain model, synthesizes implicit joins, checks
// strict JPQL compliance, and types every expression.
//
// Analysis of a query spec always processes the whole from clause before
// its select, where, group by, having, and order by clauses, so paths in
// those clauses may refer to any from-element of the query spec regardless
// of declaration order.
package semantic

import (
	"fmt"

	"github.com/agnivade/levenshtein"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/ast"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/qerr"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/sqm"
	"github.com/hibernate/hibernate-semantic-query-sub003/domain"
	"go.uber.org/zap"
)

// Stats reports counters of one analysis.
type Stats struct {
	FromElements  int
	ImplicitJoins int
}

type Option func(*analyzer)

func WithLogger(logger *zap.Logger) Option {
	return func(a *analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithStats arranges for the counters of the analysis to be written to s.
func WithStats(s *Stats) Option {
	return func(a *analyzer) {
		a.stats = s
	}
}

type paramMode int

const (
	noParams paramMode = iota
	namedParams
	positionalParams
)

type analyzer struct {
	model    domain.Model
	logger   *zap.Logger
	strict   bool
	stats    *Stats
	scope    *Scope
	scopes   []*Scope
	policies []*policy
	byUID    map[string]sqm.FromElement
	owner    map[string]*Scope
	nuid     int
	nalias   int
	params   []*sqm.Parameter
	mode     paramMode
	// polymorphic counts unmapped polymorphic roots in the statement.
	polymorphic int
}

func newAnalyzer(model domain.Model, opts []Option) *analyzer {
	a := &analyzer{
		model:  model,
		logger: zap.NewNop(),
		strict: model.StrictJPQLCompliance(),
		byUID:  make(map[string]sqm.FromElement),
		owner:  make(map[string]*Scope),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.stats == nil {
		a.stats = &Stats{}
	}
	return a
}

// Analyze builds the semantic tree of a parsed statement.
func Analyze(stmt ast.Statement, model domain.Model, opts ...Option) (sqm.Statement, error) {
	a := newAnalyzer(model, opts)
	out, err := a.semStatement(stmt)
	if err != nil {
		return nil, err
	}
	if len(a.scopes) != 0 || len(a.policies) != 0 {
		return nil, qerr.Internal("analysis finished with %d scopes and %d resolver policies outstanding", len(a.scopes), len(a.policies))
	}
	return out, nil
}

func (a *analyzer) semStatement(stmt ast.Statement) (sqm.Statement, error) {
	switch stmt := stmt.(type) {
	case *ast.SelectStatement:
		return a.semSelectStatement(stmt)
	case *ast.UpdateStatement:
		return a.semUpdate(stmt)
	case *ast.DeleteStatement:
		return a.semDelete(stmt)
	case *ast.InsertStatement:
		return a.semInsert(stmt)
	case nil:
		return nil, qerr.Semantic("query text is missing")
	}
	return nil, qerr.Internal("unknown statement type %T", stmt)
}

func (a *analyzer) nextUID() string {
	a.nuid++
	return fmt.Sprintf("<uid:%d>", a.nuid)
}

func (a *analyzer) implicitAlias() string {
	alias := fmt.Sprintf("%s%d>", sqm.ImplicitAliasPrefix, a.nalias)
	a.nalias++
	a.logger.Debug("generated implicit alias", zap.String("alias", alias))
	return alias
}

// declare registers fe in scope s and in the statement-wide unique id map.
func (a *analyzer) declare(s *Scope, fe sqm.FromElement) error {
	if err := s.register(fe); err != nil {
		return err
	}
	a.byUID[fe.UniqueID()] = fe
	a.owner[fe.UniqueID()] = s
	a.stats.FromElements++
	return nil
}

// lookup returns the from-element with the given unique id from any scope
// of the statement.
func (a *analyzer) lookup(uid string) (sqm.FromElement, error) {
	fe, ok := a.byUID[uid]
	if !ok {
		return nil, qerr.Internal("no from-element with unique id %s", uid)
	}
	return fe, nil
}

// joinAttribute returns the join of attr from lhs to be used by the current
// policy, reusing an existing join when the policy allows it and creating
// one otherwise.  Created joins are implicit unless alias is non-empty.
func (a *analyzer) joinAttribute(p *policy, lhs sqm.FromElement, attr domain.Attribute, pathText string) (*sqm.AttributeJoin, error) {
	owner := a.owner[lhs.UniqueID()]
	if owner == nil {
		return nil, qerr.Internal("from-element %s is not registered", describe(lhs))
	}
	if p.canReuseJoins() {
		if j := owner.existingJoin(lhs, attr.AttributeName(), p.kind == orderByPolicy); j != nil {
			return j, nil
		}
	}
	switch {
	case !p.canCreateJoins():
		return nil, qerr.Semantic("order-by path %q cannot introduce a join over %q", pathText, attr.AttributeName())
	case owner.dml:
		return nil, qerr.Semantic("implicit join over %q in path %q is not allowed in a DML statement", attr.AttributeName(), pathText)
	case owner != a.scope:
		return nil, qerr.Semantic("path %q would introduce a join over %q in an enclosing query", pathText, attr.AttributeName())
	}
	space := lhs.Space()
	if space == nil {
		return nil, qerr.Internal("from-element %s has no from-element space", describe(lhs))
	}
	join := sqm.NewAttributeJoin(a.nextUID(), a.implicitAlias(), lhs, attr, sqm.LeftJoin, false)
	join.Implicit = true
	if err := space.AddJoin(join); err != nil {
		return nil, err
	}
	if err := a.declare(owner, join); err != nil {
		return nil, err
	}
	key := joinKey(lhs, attr.AttributeName())
	if _, ok := owner.implicit[key]; !ok {
		owner.implicit[key] = join
	}
	a.stats.ImplicitJoins++
	a.logger.Debug("implicit join",
		zap.String("path", pathText),
		zap.String("lhs", lhs.Alias()),
		zap.String("attribute", attr.AttributeName()),
		zap.String("alias", join.Alias()),
		zap.Stringer("policy", p.kind))
	return join, nil
}

// attribute resolves name against the navigable type of fe.
func (a *analyzer) attribute(typ domain.Type, name, pathText string) (domain.Attribute, error) {
	managed, ok := typ.(domain.ManagedType)
	if !ok {
		return nil, qerr.Semantic("cannot dereference %q in path %q: %s has no attributes", name, pathText, typeName(typ))
	}
	attr, err := a.model.ResolveAttribute(managed, name)
	if err != nil {
		msg := fmt.Sprintf("could not resolve attribute %q of %s in path %q", name, typeName(typ), pathText)
		if s := suggest(name, attributeNames(managed)); s != "" {
			msg += fmt.Sprintf(" (did you mean %q?)", s)
		}
		return nil, qerr.Semantic("%s", msg)
	}
	return attr, nil
}

func attributeNames(t domain.ManagedType) []string {
	var names []string
	for _, a := range t.Attributes() {
		names = append(names, a.AttributeName())
	}
	return names
}

// suggest returns the candidate closest to name when it is close enough to
// be a plausible misspelling.
func suggest(name string, candidates []string) string {
	best, dist := "", len(name)/2+1
	for _, c := range candidates {
		if d := levenshtein.ComputeDistance(name, c); d < dist {
			best, dist = c, d
		}
	}
	return best
}

func typeName(t domain.Type) string {
	if t == nil {
		return "<unknown>"
	}
	return t.TypeName()
}

// located attaches the span of n to a semantic error that has none.
func located(err error, n ast.Node) error {
	if n == nil {
		return err
	}
	switch e := err.(type) {
	case *qerr.SemanticError:
		if e.Pos < 0 {
			e.Pos, e.End = n.Pos(), n.End()
		}
	case *qerr.StrictViolationError:
		if e.Pos < 0 {
			e.Pos, e.End = n.Pos(), n.End()
		}
	}
	return err
}
