package semantic

import (
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/qerr"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/sqm"
	"github.com/hibernate/hibernate-semantic-query-sub003/domain"
	"go.uber.org/zap"
)

type policyKind int

const (
	basicPolicy policyKind = iota
	selectPolicy
	fromJoinPolicy
	joinPredicatePolicy
	orderByPolicy
)

func (k policyKind) String() string {
	switch k {
	case basicPolicy:
		return "basic"
	case selectPolicy:
		return "select"
	case fromJoinPolicy:
		return "from-join"
	case joinPredicatePolicy:
		return "join-predicate"
	case orderByPolicy:
		return "order-by"
	}
	return "unknown"
}

// policy governs how the terminal and intermediate segments of a path are
// bound in one syntactic context.
type policy struct {
	kind policyKind
	// joinKind and fetch apply to joins created by the policy.  Implicit
	// intermediate joins are left joins.
	joinKind sqm.JoinKind
	fetch    bool
	// alias and treat describe the join declaration being resolved under
	// fromJoinPolicy.
	alias string
	treat *domain.EntityType
	// space is the from-element space of the join whose on-clause is
	// being resolved under joinPredicatePolicy.
	space *sqm.FromElementSpace
}

// canReuseJoins reports whether an existing join may stand in for a join
// the policy would otherwise create.
func (p *policy) canReuseJoins() bool {
	return p.kind != fromJoinPolicy
}

// canCreateJoins reports whether the policy may synthesize joins.
func (p *policy) canCreateJoins() bool {
	return p.kind != orderByPolicy
}

// materializeTerminal reports whether a joinable terminal attribute is
// bound to a join rather than to a plain attribute reference.
func (p *policy) materializeTerminal(attr domain.Attribute) bool {
	switch p.kind {
	case selectPolicy:
		return domain.IsJoinable(attr)
	case fromJoinPolicy:
		return true
	}
	return false
}

func (p *policy) checkIntermediate(attr domain.Attribute, pathText string) error {
	if p.kind == joinPredicatePolicy && domain.IsEntityValued(attr) {
		return qerr.Semantic("on-clause path %q may not join entity or collection attribute %q", pathText, attr.AttributeName())
	}
	return nil
}

func (p *policy) checkSource(fe sqm.FromElement, pathText string) error {
	if p.kind == joinPredicatePolicy && fe.Space() != p.space {
		return qerr.Semantic("on-clause path %q references %s which belongs to another from-element space", pathText, describe(fe))
	}
	return nil
}

func (a *analyzer) pushPolicy(p *policy) {
	a.policies = append(a.policies, p)
	a.logger.Debug("push resolver policy", zap.Stringer("policy", p.kind), zap.Int("depth", len(a.policies)))
}

func (a *analyzer) popPolicy() error {
	n := len(a.policies)
	if n == 0 {
		return qerr.Internal("resolver policy stack underflow")
	}
	a.logger.Debug("pop resolver policy", zap.Stringer("policy", a.policies[n-1].kind), zap.Int("depth", n-1))
	a.policies = a.policies[:n-1]
	return nil
}

func (a *analyzer) policy() (*policy, error) {
	if len(a.policies) == 0 {
		return nil, qerr.Internal("no resolver policy in effect")
	}
	return a.policies[len(a.policies)-1], nil
}

// withPolicy runs f with p in effect.
func (a *analyzer) withPolicy(p *policy, f func() error) error {
	a.pushPolicy(p)
	err := f()
	if perr := a.popPolicy(); err == nil {
		err = perr
	}
	return err
}

func (a *analyzer) pushScope(s *Scope) {
	a.scopes = append(a.scopes, s)
	a.scope = s
}

func (a *analyzer) popScope() error {
	n := len(a.scopes)
	if n == 0 {
		return qerr.Internal("from-clause processing stack underflow")
	}
	a.scopes = a.scopes[:n-1]
	a.scope = nil
	if n > 1 {
		a.scope = a.scopes[n-2]
	}
	return nil
}
