package semantic

import (
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/qerr"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/sqm"
	"github.com/hibernate/hibernate-semantic-query-sub003/domain"
	"github.com/hibernate/hibernate-semantic-query-sub003/pkg/field"
)

// resolvePath binds a dotted path under the policy in effect.  The first
// segment is matched against identification variables (innermost scope
// first), then, under the order-by policy, against result variables, and
// finally against the attributes exposed by the from-elements of the
// current scope.  A nil expression with a nil error means nothing matched.
func (a *analyzer) resolvePath(parts field.Path, wantFromElement bool) (sqm.Expression, error) {
	p, err := a.policy()
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, qerr.Internal("empty path")
	}
	text := parts.String()
	head := parts.Head()
	if fe, _ := a.scope.lookupAlias(head); fe != nil {
		if err := p.checkSource(fe, text); err != nil {
			return nil, err
		}
		if len(parts) == 1 {
			if p.kind == fromJoinPolicy {
				return nil, qerr.Semantic("alias %q cannot be used as a join target", head)
			}
			return fromElementRef(fe), nil
		}
		return a.resolveFrom(p, fe, sqm.NavigableType(fe), parts[1:], text, wantFromElement)
	}
	if p.kind == orderByPolicy && len(parts) == 1 {
		if k, sel := a.scope.lookupResult(head); sel != nil {
			return &sqm.ResultVariableRef{Name: head, Index: k, Type: sel.Expr.ExpressionType()}, nil
		}
	}
	fe, err := a.exposing(p, head, text)
	if fe == nil || err != nil {
		return nil, err
	}
	return a.resolveFrom(p, fe, sqm.NavigableType(fe), parts, text, wantFromElement)
}

// exposing finds the single declared from-element of the current scope
// whose type has an attribute named name.  Implicit joins never expose
// attributes.
func (a *analyzer) exposing(p *policy, name, text string) (sqm.FromElement, error) {
	var found sqm.FromElement
	for _, fe := range a.scope.Elements() {
		if j, ok := fe.(*sqm.AttributeJoin); ok && j.Implicit {
			continue
		}
		if p.kind == joinPredicatePolicy && fe.Space() != p.space {
			continue
		}
		managed, ok := sqm.NavigableType(fe).(domain.ManagedType)
		if !ok || managed.FindAttribute(name) == nil {
			continue
		}
		if found != nil {
			return nil, qerr.Semantic("unqualified attribute %q in path %q is ambiguous: exposed by %s and %s", name, text, describe(found), describe(fe))
		}
		found = fe
	}
	return found, nil
}

// resolveFrom binds the segments in rest starting at lhs, whose navigable
// type is typ.  Every segment but the last is an intermediate that must be
// dereferenceable and is bound to a join.
func (a *analyzer) resolveFrom(p *policy, lhs sqm.FromElement, typ domain.Type, rest field.Path, text string, wantFromElement bool) (sqm.Expression, error) {
	for k, name := range rest {
		attr, err := a.attribute(typ, name, text)
		if err != nil {
			return nil, err
		}
		if k == len(rest)-1 {
			return a.terminal(p, lhs, attr, text, wantFromElement)
		}
		if !domain.IsDereferenceable(attr) {
			return nil, qerr.Semantic("cannot dereference %s in path %q", attributeKind(attr), text)
		}
		if err := p.checkIntermediate(attr, text); err != nil {
			return nil, err
		}
		join, err := a.joinAttribute(p, lhs, attr, text)
		if err != nil {
			return nil, err
		}
		lhs, typ = join, sqm.NavigableType(join)
	}
	return nil, qerr.Internal("path %q has no terminal segment", text)
}

func (a *analyzer) terminal(p *policy, lhs sqm.FromElement, attr domain.Attribute, text string, wantFromElement bool) (sqm.Expression, error) {
	switch {
	case p.kind == fromJoinPolicy:
		join, err := a.explicitJoin(p, lhs, attr, text)
		if err != nil {
			return nil, err
		}
		return fromElementRef(join), nil
	case p.materializeTerminal(attr), wantFromElement && domain.IsJoinable(attr):
		join, err := a.joinAttribute(p, lhs, attr, text)
		if err != nil {
			return nil, err
		}
		return fromElementRef(join), nil
	}
	return &sqm.AttributeRef{
		Source:      lhs.UniqueID(),
		SourceAlias: lhs.Alias(),
		Attribute:   attr,
		Type:        domain.ValueType(attr),
	}, nil
}

// explicitJoin creates the join declared in a from clause.  It is never
// reused and is added to the space being declared.
func (a *analyzer) explicitJoin(p *policy, lhs sqm.FromElement, attr domain.Attribute, text string) (*sqm.AttributeJoin, error) {
	if !domain.IsJoinable(attr) {
		return nil, qerr.Semantic("cannot join %s in path %q", attributeKind(attr), text)
	}
	if owner := a.owner[lhs.UniqueID()]; owner != a.scope {
		return nil, qerr.Semantic("join path %q refers to %s of an enclosing query", text, describe(lhs))
	}
	if p.space == nil {
		return nil, qerr.Internal("join %q declared outside of a from-element space", text)
	}
	alias := p.alias
	if alias == "" {
		alias = a.implicitAlias()
	}
	join := sqm.NewAttributeJoin(a.nextUID(), alias, lhs, attr, p.joinKind, p.fetch)
	if p.treat != nil {
		base, ok := join.BoundType().(*domain.EntityType)
		if !ok || !p.treat.IsSubtypeOf(base) {
			return nil, qerr.Semantic("cannot treat %q as %s: not a subtype of %s", text, p.treat.Name, typeName(join.BoundType()))
		}
		join.SetIntrinsicDowncast(p.treat)
	}
	if err := p.space.AddJoin(join); err != nil {
		return nil, err
	}
	if err := a.declare(a.scope, join); err != nil {
		return nil, err
	}
	key := joinKey(lhs, attr.AttributeName())
	if _, ok := a.scope.explicit[key]; !ok {
		a.scope.explicit[key] = join
	}
	return join, nil
}

func fromElementRef(fe sqm.FromElement) *sqm.FromElementRef {
	return &sqm.FromElementRef{UID: fe.UniqueID(), Alias: fe.Alias(), Type: sqm.NavigableType(fe)}
}

func attributeKind(attr domain.Attribute) string {
	switch attr := attr.(type) {
	case *domain.SingularAttribute:
		return attr.Classification.String() + " attribute " + quote(attr.Name)
	case *domain.PluralAttribute:
		return "plural attribute " + quote(attr.Name)
	}
	return "attribute " + quote(attr.AttributeName())
}

func quote(s string) string {
	return `"` + s + `"`
}
