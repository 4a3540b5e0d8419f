package semantic

import (
	"strings"

	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/ast"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/qerr"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/sqm"
	"github.com/hibernate/hibernate-semantic-query-sub003/domain"
	"go.uber.org/zap"
)

func (a *analyzer) semSelectStatement(stmt *ast.SelectStatement) (*sqm.SelectStatement, error) {
	scope := NewScope(nil)
	scope.top = true
	a.pushScope(scope)
	q, err := a.semQuerySpec(stmt.Query)
	if err != nil {
		return nil, err
	}
	var orderBy *sqm.OrderByClause
	if len(stmt.OrderBy) > 0 {
		orderBy, err = a.semOrderBy(stmt.OrderBy)
		if err != nil {
			return nil, err
		}
	}
	if err := a.popScope(); err != nil {
		return nil, err
	}
	return &sqm.SelectStatement{Query: q, OrderBy: orderBy, Parameters: a.params}, nil
}

// semQuerySpec builds a query spec in the current scope.  The from clause
// is completed before any other clause is looked at.
func (a *analyzer) semQuerySpec(q *ast.QuerySpec) (*sqm.QuerySpec, error) {
	if q == nil {
		return nil, qerr.Internal("missing query spec")
	}
	if err := a.semFromClause(q.From); err != nil {
		return nil, err
	}
	out := &sqm.QuerySpec{From: a.scope.from}
	var err error
	if q.Select == nil {
		out.Select, err = a.implicitSelect(q)
	} else {
		out.Select, err = a.semSelectClause(q.Select)
	}
	if err != nil {
		return nil, err
	}
	err = a.withPolicy(&policy{kind: basicPolicy}, func() error {
		if q.Where != nil {
			pred, err := a.semPred(q.Where)
			if err != nil {
				return err
			}
			out.Where = &sqm.WhereClause{Predicate: pred}
		}
		if len(q.GroupBy) > 0 {
			out.GroupBy = &sqm.GroupByClause{}
			for _, e := range q.GroupBy {
				expr, err := a.semExpr(e)
				if err != nil {
					return err
				}
				out.GroupBy.Exprs = append(out.GroupBy.Exprs, expr)
			}
		}
		if q.Having != nil {
			pred, err := a.semPred(q.Having)
			if err != nil {
				return err
			}
			out.Having = &sqm.HavingClause{Predicate: pred}
		}
		return nil
	})
	return out, err
}

type pendingOn struct {
	on    ast.Expr
	space *sqm.FromElementSpace
	set   func(sqm.Predicate)
}

// semFromClause processes the from clause in two passes.  The first
// declares every from-element so that on-clauses, processed by the second,
// may refer to any element of their space.
func (a *analyzer) semFromClause(spaces []*ast.FromSpace) error {
	if len(spaces) == 0 {
		return qerr.Semantic("from clause is empty")
	}
	var pending []pendingOn
	for _, decl := range spaces {
		space := a.scope.from.AddSpace()
		if err := a.semRoot(decl.Root, space); err != nil {
			return err
		}
		for _, j := range decl.Joins {
			p, err := a.semJoin(j, space)
			if err != nil {
				return err
			}
			if p != nil {
				pending = append(pending, *p)
			}
		}
	}
	for _, p := range pending {
		err := a.withPolicy(&policy{kind: joinPredicatePolicy, space: p.space}, func() error {
			pred, err := a.semPred(p.on)
			if err != nil {
				return err
			}
			p.set(pred)
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (a *analyzer) semRoot(decl *ast.RootDecl, space *sqm.FromElementSpace) error {
	typ, err := a.entityType(decl.Entity)
	if err != nil {
		return err
	}
	if _, ok := typ.(*domain.PolymorphicType); ok {
		if err := a.checkPolymorphic(decl.Entity, a.scope.top && !a.scope.dml); err != nil {
			return err
		}
	}
	root := sqm.NewRoot(a.nextUID(), a.aliasOf(decl.Alias), typ)
	if err := space.SetRoot(root); err != nil {
		return err
	}
	return located(a.declare(a.scope, root), aliasNode(decl.Alias, decl))
}

func (a *analyzer) semJoin(j ast.Join, space *sqm.FromElementSpace) (*pendingOn, error) {
	switch j := j.(type) {
	case *ast.CrossJoin:
		entity, err := a.joinedEntity(j.Entity)
		if err != nil {
			return nil, err
		}
		join := sqm.NewCrossJoin(a.nextUID(), a.aliasOf(j.Alias), entity)
		if err := space.AddJoin(join); err != nil {
			return nil, err
		}
		return nil, located(a.declare(a.scope, join), aliasNode(j.Alias, j))
	case *ast.QualifiedJoin:
		return a.semQualifiedJoin(j, space)
	}
	return nil, qerr.Internal("unknown join type %T", j)
}

var joinKinds = map[string]sqm.JoinKind{
	"inner": sqm.InnerJoin,
	"left":  sqm.LeftJoin,
	"right": sqm.RightJoin,
}

func (a *analyzer) semQualifiedJoin(j *ast.QualifiedJoin, space *sqm.FromElementSpace) (*pendingOn, error) {
	kind, ok := joinKinds[j.JoinKind]
	if !ok {
		return nil, qerr.Internal("unknown join kind %q", j.JoinKind)
	}
	if j.Fetch && j.Alias != nil && a.strict {
		return nil, located(qerr.StrictViolation(qerr.AliasedFetchJoin, "fetch join %q is aliased", j.Alias.Name), j)
	}
	if path, ok := j.Target.(*ast.Path); ok && path.Base == nil {
		if entity, ok := a.entityJoinTarget(path); ok {
			if j.Fetch {
				return nil, located(qerr.Semantic("entity join %q cannot be fetched", path.Parts.String()), j)
			}
			if _, ok := entity.(*domain.EntityType); !ok {
				return nil, a.checkPolymorphic(path, false)
			}
			join := sqm.NewEntityJoin(a.nextUID(), a.aliasOf(j.Alias), entity.(*domain.EntityType), kind)
			if err := space.AddJoin(join); err != nil {
				return nil, err
			}
			if err := a.declare(a.scope, join); err != nil {
				return nil, located(err, aliasNode(j.Alias, j))
			}
			if j.On == nil {
				return nil, nil
			}
			return &pendingOn{on: j.On, space: space, set: func(p sqm.Predicate) { join.On = p }}, nil
		}
	}
	p := &policy{kind: fromJoinPolicy, joinKind: kind, fetch: j.Fetch, space: space}
	if j.Alias != nil {
		p.alias = j.Alias.Name
	}
	var target *ast.Path
	switch t := j.Target.(type) {
	case *ast.Path:
		target = t
	case *ast.Treat:
		target = t.Expr
		entity, err := a.joinedEntity(t.Type)
		if err != nil {
			return nil, err
		}
		p.treat = entity
	default:
		return nil, qerr.Internal("unknown join target %T", j.Target)
	}
	if target.Base != nil {
		return nil, located(qerr.Semantic("join target %q cannot be a treated path", target.Parts.String()), target)
	}
	var ref sqm.Expression
	err := a.withPolicy(p, func() error {
		var err error
		ref, err = a.resolvePath(target.Parts, false)
		return err
	})
	if err != nil {
		return nil, located(err, j)
	}
	if ref == nil {
		return nil, located(qerr.Semantic("could not resolve join path %q", target.Parts.String()), target)
	}
	fe, err := a.lookup(ref.(*sqm.FromElementRef).UID)
	if err != nil {
		return nil, err
	}
	join, ok := fe.(*sqm.AttributeJoin)
	if !ok {
		return nil, qerr.Internal("join path %q resolved to %T", target.Parts.String(), fe)
	}
	if j.On == nil {
		return nil, nil
	}
	return &pendingOn{on: j.On, space: space, set: func(p sqm.Predicate) { join.On = p }}, nil
}

// entityJoinTarget reports whether a join target path names an entity
// rather than an attribute path.
func (a *analyzer) entityJoinTarget(path *ast.Path) (domain.Type, bool) {
	if fe, _ := a.scope.lookupAlias(path.Parts.Head()); fe != nil {
		return nil, false
	}
	if len(path.Parts) == 1 {
		if p, err := a.policyOrBasic(); err == nil {
			if fe, _ := a.exposing(p, path.Parts.Head(), path.Parts.String()); fe != nil {
				return nil, false
			}
		}
	}
	return a.model.ResolveEntity(path.Parts.String())
}

func (a *analyzer) policyOrBasic() (*policy, error) {
	if len(a.policies) == 0 {
		return &policy{kind: basicPolicy}, nil
	}
	return a.policy()
}

// entityType resolves an entity or unmapped polymorphic type by name.
func (a *analyzer) entityType(name *ast.Name) (domain.Type, error) {
	typ, err := a.entityNamed(name.String())
	return typ, located(err, name)
}

func (a *analyzer) entityNamed(name string) (domain.Type, error) {
	if typ, ok := a.model.ResolveEntity(name); ok {
		return typ, nil
	}
	msg := "could not resolve entity " + quote(name)
	if names, ok := a.model.(interface{ EntityNames() []string }); ok {
		if s := suggest(name, names.EntityNames()); s != "" {
			msg += " (did you mean " + quote(s) + "?)"
		}
	}
	return nil, qerr.Semantic("%s", msg)
}

// joinedEntity resolves a mapped entity for a join or treat target.
func (a *analyzer) joinedEntity(name *ast.Name) (*domain.EntityType, error) {
	entity, err := a.mappedEntity(name.String())
	return entity, located(err, name)
}

func (a *analyzer) mappedEntity(name string) (*domain.EntityType, error) {
	typ, err := a.entityNamed(name)
	if err != nil {
		return nil, err
	}
	entity, ok := typ.(*domain.EntityType)
	if !ok {
		return nil, a.polymorphicRef(name, false)
	}
	return entity, nil
}

// checkPolymorphic enforces where an unmapped polymorphic reference may
// appear.  It returns an error if it may not appear at n.
func (a *analyzer) checkPolymorphic(n ast.Node, allowed bool) error {
	return located(a.polymorphicRef(nodeText(n), allowed), n)
}

func (a *analyzer) polymorphicRef(name string, allowed bool) error {
	if a.strict {
		return qerr.StrictViolation(qerr.UnmappedPolymorphism, "unmapped polymorphic reference %q", name)
	}
	if !allowed {
		return qerr.Semantic("unmapped polymorphic reference %q is only allowed as a root of a top-level select query", name)
	}
	a.polymorphic++
	if a.polymorphic > 1 {
		return qerr.Semantic("at most one unmapped polymorphic reference is allowed per statement, found another: %q", name)
	}
	return nil
}

func nodeText(n ast.Node) string {
	switch n := n.(type) {
	case *ast.Name:
		return n.String()
	case *ast.Path:
		return n.Parts.String()
	}
	return ""
}

func (a *analyzer) aliasOf(id *ast.ID) string {
	if id == nil {
		return a.implicitAlias()
	}
	return id.Name
}

func aliasNode(id *ast.ID, fallback ast.Node) ast.Node {
	if id == nil {
		return fallback
	}
	return id
}

// implicitSelect synthesizes a select clause that selects every root of
// the from clause.
func (a *analyzer) implicitSelect(n ast.Node) (*sqm.SelectClause, error) {
	if a.strict {
		return nil, located(qerr.StrictViolation(qerr.ImplicitSelect, "query has no select clause"), n)
	}
	sel := &sqm.SelectClause{}
	for _, space := range a.scope.from.Spaces {
		s := &sqm.Selection{Expr: fromElementRef(space.Root())}
		if err := a.scope.addSelection(s); err != nil {
			return nil, err
		}
		sel.Selections = append(sel.Selections, s)
	}
	return sel, nil
}

func (a *analyzer) semSelectClause(clause *ast.SelectClause) (*sqm.SelectClause, error) {
	out := &sqm.SelectClause{Distinct: clause.Distinct}
	err := a.withPolicy(&policy{kind: selectPolicy}, func() error {
		for _, item := range clause.Items {
			sel, err := a.semSelection(item)
			if err != nil {
				return err
			}
			if err := a.scope.addSelection(sel); err != nil {
				return located(err, item)
			}
			out.Selections = append(out.Selections, sel)
		}
		return nil
	})
	return out, err
}

func (a *analyzer) semSelection(item *ast.SelectItem) (*sqm.Selection, error) {
	var expr sqm.Expression
	var err error
	if n, ok := item.Expr.(*ast.New); ok {
		expr, err = a.semInstantiation(n)
	} else {
		expr, err = a.semExpr(item.Expr)
	}
	if err != nil {
		return nil, err
	}
	sel := &sqm.Selection{Expr: expr}
	if item.Alias != nil {
		sel.Alias = item.Alias.Name
	}
	return sel, nil
}

func (a *analyzer) semInstantiation(n *ast.New) (*sqm.DynamicInstantiation, error) {
	out, err := a.instantiation(n.Target.String())
	if err != nil {
		return nil, located(err, n.Target)
	}
	for _, item := range n.Args {
		sel, err := a.semSelection(item)
		if err != nil {
			return nil, err
		}
		out.Args = append(out.Args, &sqm.InstantiationArg{Expr: sel.Expr, Alias: sel.Alias})
	}
	a.logger.Debug("dynamic instantiation", zap.Stringer("target", out.Target), zap.Int("args", len(out.Args)))
	return out, nil
}

// instantiation resolves the target of a dynamic instantiation: list,
// map, or a class known to the model.
func (a *analyzer) instantiation(target string) (*sqm.DynamicInstantiation, error) {
	switch strings.ToLower(target) {
	case "list":
		return &sqm.DynamicInstantiation{Target: sqm.InstantiateList}, nil
	case "map":
		return &sqm.DynamicInstantiation{Target: sqm.InstantiateMap}, nil
	}
	class, ok := a.model.ResolveClass(target)
	if !ok {
		return nil, qerr.Semantic("could not resolve dynamic instantiation target class %q", target)
	}
	return &sqm.DynamicInstantiation{Target: sqm.InstantiateClass, Class: class}, nil
}

var sortOrders = map[string]sqm.SortOrder{
	"":     sqm.Unspecified,
	"asc":  sqm.Ascending,
	"desc": sqm.Descending,
}

func (a *analyzer) semOrderBy(items []*ast.SortItem) (*sqm.OrderByClause, error) {
	out := &sqm.OrderByClause{}
	err := a.withPolicy(&policy{kind: orderByPolicy}, func() error {
		for _, item := range items {
			expr, err := a.semExpr(item.Expr)
			if err != nil {
				return err
			}
			out.Specs = append(out.Specs, &sqm.SortSpecification{
				Expr:      expr,
				Collation: item.Collation,
				Order:     sortOrders[item.Order],
			})
		}
		return nil
	})
	return out, err
}
