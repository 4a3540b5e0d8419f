package semantic

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/qerr"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/sqm"
	"github.com/hibernate/hibernate-semantic-query-sub003/criteria"
	"github.com/hibernate/hibernate-semantic-query-sub003/domain"
	"github.com/shopspring/decimal"
)

// AnalyzeCriteria builds the semantic tree of a criteria statement.  The
// result is the tree the equivalent query text analyzes to.
func AnalyzeCriteria(stmt criteria.Statement, model domain.Model, opts ...Option) (sqm.Statement, error) {
	a := newAnalyzer(model, opts)
	ci := &interpreter{analyzer: a, froms: make(map[criteria.From]sqm.FromElement)}
	if stmt == nil {
		return nil, qerr.Semantic("criteria statement is missing")
	}
	out, err := stmt.Accept(ci)
	if err != nil {
		return nil, err
	}
	if len(a.scopes) != 0 || len(a.policies) != 0 {
		return nil, qerr.Internal("analysis finished with %d scopes and %d resolver policies outstanding", len(a.scopes), len(a.policies))
	}
	return out, nil
}

// interpreter is the criteria.Interpreter of the analyzer.  Criteria nodes
// refer to from nodes directly, so froms maps each interpreted root and
// join to its from-element.
type interpreter struct {
	*analyzer
	froms map[criteria.From]sqm.FromElement
}

var _ criteria.Interpreter = (*interpreter)(nil)

// criteriaSpec is the query-spec shape shared by criteria queries and subqueries.
type criteriaSpec struct {
	distinct   bool
	roots      []*criteria.Root
	selections []*criteria.Selection
	where      criteria.Predicate
	groupBy    []criteria.Expression
	having     criteria.Predicate
}

func (ci *interpreter) InterpretQuery(q *criteria.Query) (sqm.Statement, error) {
	scope := NewScope(nil)
	scope.top = true
	ci.pushScope(scope)
	qs, err := ci.querySpec(criteriaSpec{
		distinct:   q.Distinct,
		roots:      q.Roots,
		selections: q.Selections,
		where:      q.Restriction,
		groupBy:    q.Grouping,
		having:     q.GroupRestriction,
	})
	if err != nil {
		return nil, err
	}
	var orderBy *sqm.OrderByClause
	if len(q.Orders) > 0 {
		orderBy = &sqm.OrderByClause{}
		err := ci.withPolicy(&policy{kind: orderByPolicy}, func() error {
			for _, o := range q.Orders {
				expr, err := o.Expr.Accept(ci)
				if err != nil {
					return err
				}
				order := sqm.Ascending
				if o.Descending {
					order = sqm.Descending
				}
				orderBy.Specs = append(orderBy.Specs, &sqm.SortSpecification{Expr: expr, Collation: o.Collation, Order: order})
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	if err := ci.popScope(); err != nil {
		return nil, err
	}
	return &sqm.SelectStatement{Query: qs, OrderBy: orderBy, Parameters: ci.params}, nil
}

func (ci *interpreter) InterpretUpdate(*criteria.Update) (sqm.Statement, error) {
	return nil, qerr.NotYetImplemented("criteria update statement")
}

func (ci *interpreter) InterpretDelete(*criteria.Delete) (sqm.Statement, error) {
	return nil, qerr.NotYetImplemented("criteria delete statement")
}

func (ci *interpreter) querySpec(s criteriaSpec) (*sqm.QuerySpec, error) {
	if err := ci.fromClause(s.roots); err != nil {
		return nil, err
	}
	out := &sqm.QuerySpec{From: ci.scope.from}
	var err error
	if len(s.selections) == 0 {
		out.Select, err = ci.implicitSelect(nil)
	} else {
		out.Select, err = ci.selectClause(s.distinct, s.selections)
	}
	if err != nil {
		return nil, err
	}
	if s.distinct {
		out.Select.Distinct = true
	}
	err = ci.withPolicy(&policy{kind: basicPolicy}, func() error {
		if s.where != nil {
			pred, err := s.where.AcceptPredicate(ci)
			if err != nil {
				return err
			}
			out.Where = &sqm.WhereClause{Predicate: pred}
		}
		if len(s.groupBy) > 0 {
			out.GroupBy = &sqm.GroupByClause{}
			for _, e := range s.groupBy {
				expr, err := e.Accept(ci)
				if err != nil {
					return err
				}
				out.GroupBy.Exprs = append(out.GroupBy.Exprs, expr)
			}
		}
		if s.having != nil {
			pred, err := s.having.AcceptPredicate(ci)
			if err != nil {
				return err
			}
			out.Having = &sqm.HavingClause{Predicate: pred}
		}
		return nil
	})
	return out, err
}

type pendingJoin struct {
	join  *criteria.Join
	space *sqm.FromElementSpace
	fe    *sqm.AttributeJoin
}

// fromClause declares the roots and joins of a criteria query, then
// interprets the join conditions once every from-element exists.
func (ci *interpreter) fromClause(roots []*criteria.Root) error {
	if len(roots) == 0 {
		return qerr.Semantic("from clause is empty")
	}
	var pending []pendingJoin
	for _, r := range roots {
		typ, err := ci.entityNamed(r.Entity)
		if err != nil {
			return err
		}
		if _, ok := typ.(*domain.PolymorphicType); ok {
			if err := ci.polymorphicRef(r.Entity, ci.scope.top && !ci.scope.dml); err != nil {
				return err
			}
		}
		alias := r.Alias()
		if alias == "" {
			alias = ci.implicitAlias()
		}
		root := sqm.NewRoot(ci.nextUID(), alias, typ)
		space := ci.scope.from.AddSpace()
		if err := space.SetRoot(root); err != nil {
			return err
		}
		if err := ci.declare(ci.scope, root); err != nil {
			return err
		}
		ci.froms[r] = root
		if pending, err = ci.joins(r, root, space, pending); err != nil {
			return err
		}
	}
	for _, pj := range pending {
		err := ci.withPolicy(&policy{kind: joinPredicatePolicy, space: pj.space}, func() error {
			pred, err := pj.join.On.AcceptPredicate(ci)
			if err != nil {
				return err
			}
			pj.fe.On = pred
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// joins declares the joins made from parent, depth first in creation
// order.
func (ci *interpreter) joins(parent criteria.From, lhs sqm.FromElement, space *sqm.FromElementSpace, pending []pendingJoin) ([]pendingJoin, error) {
	for _, j := range parent.Joins() {
		if ci.strict && j.Fetched && j.Alias() != "" {
			return nil, qerr.StrictViolation(qerr.AliasedFetchJoin, "fetch join %q is aliased", j.Alias())
		}
		p := &policy{kind: fromJoinPolicy, joinKind: joinKindOf(j.Kind), fetch: j.Fetched, alias: j.Alias(), space: space}
		if j.TreatAs != "" {
			entity, err := ci.mappedEntity(j.TreatAs)
			if err != nil {
				return nil, err
			}
			p.treat = entity
		}
		text := lhs.Alias() + "." + j.Attribute
		attr, err := ci.attribute(sqm.NavigableType(lhs), j.Attribute, text)
		if err != nil {
			return nil, err
		}
		var join *sqm.AttributeJoin
		err = ci.withPolicy(p, func() error {
			var err error
			join, err = ci.explicitJoin(p, lhs, attr, text)
			return err
		})
		if err != nil {
			return nil, err
		}
		ci.froms[j] = join
		if j.On != nil {
			pending = append(pending, pendingJoin{join: j, space: space, fe: join})
		}
		if pending, err = ci.joins(j, join, space, pending); err != nil {
			return nil, err
		}
	}
	return pending, nil
}

func joinKindOf(k criteria.JoinKind) sqm.JoinKind {
	switch k {
	case criteria.LeftJoin:
		return sqm.LeftJoin
	case criteria.RightJoin:
		return sqm.RightJoin
	}
	return sqm.InnerJoin
}

func (ci *interpreter) selectClause(distinct bool, sels []*criteria.Selection) (*sqm.SelectClause, error) {
	out := &sqm.SelectClause{Distinct: distinct}
	err := ci.withPolicy(&policy{kind: selectPolicy}, func() error {
		for _, s := range sels {
			sel, err := ci.selection(s)
			if err != nil {
				return err
			}
			if err := ci.scope.addSelection(sel); err != nil {
				return err
			}
			out.Selections = append(out.Selections, sel)
		}
		return nil
	})
	return out, err
}

func (ci *interpreter) selection(s *criteria.Selection) (*sqm.Selection, error) {
	if s.Construct == nil {
		if s.Expr == nil {
			return nil, qerr.Semantic("selection has no expression")
		}
		expr, err := s.Expr.Accept(ci)
		if err != nil {
			return nil, err
		}
		return &sqm.Selection{Expr: expr, Alias: s.Alias}, nil
	}
	inst, err := ci.instantiation(s.Construct.Target)
	if err != nil {
		return nil, err
	}
	for _, arg := range s.Construct.Args {
		sel, err := ci.selection(arg)
		if err != nil {
			return nil, err
		}
		inst.Args = append(inst.Args, &sqm.InstantiationArg{Expr: sel.Expr, Alias: sel.Alias})
	}
	return &sqm.Selection{Expr: inst, Alias: s.Alias}, nil
}

// fromElement returns the from-element of a from node interpreted earlier
// in this statement.
func (ci *interpreter) fromElement(f criteria.From) (sqm.FromElement, error) {
	fe, ok := ci.froms[f]
	if !ok {
		return nil, qerr.Semantic("from node %q is not part of this query", f.Alias())
	}
	if owner := ci.owner[fe.UniqueID()]; owner == nil || !ci.visible(owner) {
		return nil, qerr.Semantic("from-element %s is not visible here", describe(fe))
	}
	return fe, nil
}

// visible reports whether s is the current scope or encloses it.
func (ci *interpreter) visible(s *Scope) bool {
	for scope := ci.scope; scope != nil; scope = scope.parent {
		if scope == s {
			return true
		}
	}
	return false
}

func (ci *interpreter) InterpretFrom(f criteria.From) (sqm.Expression, error) {
	fe, err := ci.fromElement(f)
	if err != nil {
		return nil, err
	}
	p, err := ci.policy()
	if err != nil {
		return nil, err
	}
	if err := p.checkSource(fe, fe.Alias()); err != nil {
		return nil, err
	}
	return fromElementRef(fe), nil
}

// InterpretPath binds a chain of attribute navigations the same way a
// dotted path rooted at an identification variable is bound.
func (ci *interpreter) InterpretPath(path *criteria.Path) (sqm.Expression, error) {
	var attrs []string
	var base criteria.Expression = path
	for {
		p, ok := base.(*criteria.Path)
		if !ok {
			break
		}
		attrs = append([]string{p.Attribute}, attrs...)
		base = p.Parent
	}
	var fe sqm.FromElement
	var typ domain.Type
	switch b := base.(type) {
	case criteria.From:
		var err error
		if fe, err = ci.fromElement(b); err != nil {
			return nil, err
		}
		typ = sqm.NavigableType(fe)
	case *criteria.Treat:
		treat, err := ci.treat(b)
		if err != nil {
			return nil, err
		}
		fe, typ = treat.fe, treat.target
	default:
		return nil, qerr.Semantic("path over %T is not navigable", base)
	}
	p, err := ci.policy()
	if err != nil {
		return nil, err
	}
	text := fe.Alias() + "." + strings.Join(attrs, ".")
	if err := p.checkSource(fe, text); err != nil {
		return nil, err
	}
	return ci.resolveFrom(p, fe, typ, attrs, text, false)
}

type treated struct {
	fe     sqm.FromElement
	target *domain.EntityType
}

func (ci *interpreter) treat(t *criteria.Treat) (treated, error) {
	fe, err := ci.fromElement(t.From)
	if err != nil {
		return treated{}, err
	}
	target, err := ci.mappedEntity(t.Entity)
	if err != nil {
		return treated{}, err
	}
	if err := ci.downcast(fe, target); err != nil {
		return treated{}, err
	}
	return treated{fe, target}, nil
}

func (ci *interpreter) InterpretTreat(t *criteria.Treat) (sqm.Expression, error) {
	tr, err := ci.treat(t)
	if err != nil {
		return nil, err
	}
	return &sqm.Treat{Expr: fromElementRef(tr.fe), Target: tr.target}, nil
}

func (ci *interpreter) InterpretLiteral(l *criteria.Literal) (sqm.Expression, error) {
	kind, value, err := literalOf(l.Value)
	if err != nil {
		return nil, err
	}
	return &sqm.Literal{
		Kind:  kind,
		Value: value,
		Text:  literalText(kind, value),
		Type:  ci.model.ResolveBasicType(kind.BasicKind()),
	}, nil
}

// literalOf classifies a Go value as a literal.  Plain ints are int
// literals when they fit in 32 bits and long literals otherwise.
func literalOf(v any) (sqm.LiteralKind, any, error) {
	switch v := v.(type) {
	case nil:
		return sqm.LitNull, nil, nil
	case string:
		return sqm.LitString, v, nil
	case bool:
		if v {
			return sqm.LitTrue, true, nil
		}
		return sqm.LitFalse, false, nil
	case int:
		if v >= math.MinInt32 && v <= math.MaxInt32 {
			return sqm.LitInt, int32(v), nil
		}
		return sqm.LitLong, int64(v), nil
	case int32:
		return sqm.LitInt, v, nil
	case int64:
		return sqm.LitLong, v, nil
	case float32:
		return sqm.LitFloat, v, nil
	case float64:
		return sqm.LitDouble, v, nil
	case *big.Int:
		return sqm.LitBigInt, new(big.Int).Set(v), nil
	case decimal.Decimal:
		return sqm.LitBigDecimal, v, nil
	}
	return 0, nil, qerr.Semantic("unsupported literal value of type %T", v)
}

func literalText(kind sqm.LiteralKind, v any) string {
	switch kind {
	case sqm.LitNull:
		return "null"
	case sqm.LitTrue:
		return "true"
	case sqm.LitFalse:
		return "false"
	case sqm.LitString:
		return v.(string)
	case sqm.LitLong:
		return fmt.Sprint(v) + "L"
	case sqm.LitBigInt:
		return fmt.Sprint(v) + "BI"
	case sqm.LitFloat:
		return fmt.Sprint(v) + "F"
	case sqm.LitDouble:
		return fmt.Sprint(v) + "D"
	case sqm.LitBigDecimal:
		return fmt.Sprint(v) + "BD"
	}
	return fmt.Sprint(v)
}

func (ci *interpreter) InterpretParameter(p *criteria.Parameter) (sqm.Expression, error) {
	return ci.parameter(p.Name, p.Position)
}

func (ci *interpreter) InterpretUnary(u *criteria.Unary) (sqm.Expression, error) {
	operand, err := u.Operand.Accept(ci)
	if err != nil {
		return nil, err
	}
	return ci.unary(u.Op, operand)
}

func (ci *interpreter) InterpretArithmetic(ar *criteria.Arithmetic) (sqm.Expression, error) {
	exprs, err := ci.accept(ar.LHS, ar.RHS)
	if err != nil {
		return nil, err
	}
	return ci.arithmetic(ar.Op, exprs[0], exprs[1])
}

func (ci *interpreter) InterpretConcat(c *criteria.Concat) (sqm.Expression, error) {
	exprs, err := ci.accept(c.LHS, c.RHS)
	if err != nil {
		return nil, err
	}
	return ci.concat(exprs[0], exprs[1]), nil
}

func (ci *interpreter) InterpretFunction(f *criteria.Function) (sqm.Expression, error) {
	args, err := ci.accept(f.Args...)
	if err != nil {
		return nil, err
	}
	return ci.call(f.Name, args)
}

func (ci *interpreter) InterpretAggregate(ag *criteria.Aggregate) (sqm.Expression, error) {
	var arg sqm.Expression
	if ag.Arg != nil {
		var err error
		if arg, err = ag.Arg.Accept(ci); err != nil {
			return nil, err
		}
	}
	return ci.aggregate(ag.Func, ag.Distinct, arg)
}

func (ci *interpreter) InterpretEntityType(e *criteria.EntityType) (sqm.Expression, error) {
	ref, err := ci.InterpretFrom(e.Of)
	if err != nil {
		return nil, err
	}
	return entityTypeOf(ref, e.Of.Alias())
}

func (ci *interpreter) InterpretSubquery(s *criteria.Subquery) (sqm.Expression, error) {
	return ci.subquery(s)
}

func (ci *interpreter) subquery(s *criteria.Subquery) (*sqm.Subquery, error) {
	ci.pushScope(NewScope(ci.scope))
	var sels []*criteria.Selection
	if s.Selection != nil {
		sels = []*criteria.Selection{criteria.Select(s.Selection)}
	}
	q, err := ci.querySpec(criteriaSpec{
		distinct:   s.Distinct,
		roots:      s.Roots,
		selections: sels,
		where:      s.Restriction,
		groupBy:    s.Grouping,
		having:     s.GroupRestriction,
	})
	if err != nil {
		return nil, err
	}
	if err := ci.popScope(); err != nil {
		return nil, err
	}
	return &sqm.Subquery{Query: q}, nil
}

func (ci *interpreter) accept(exprs ...criteria.Expression) ([]sqm.Expression, error) {
	out := make([]sqm.Expression, 0, len(exprs))
	for _, e := range exprs {
		if e == nil {
			return nil, qerr.Semantic("criteria expression is missing")
		}
		expr, err := e.Accept(ci)
		if err != nil {
			return nil, err
		}
		out = append(out, expr)
	}
	return out, nil
}

func (ci *interpreter) InterpretJunction(j *criteria.Junction) (sqm.Predicate, error) {
	var preds []sqm.Predicate
	for _, p := range j.Predicates {
		pred, err := p.AcceptPredicate(ci)
		if err != nil {
			return nil, err
		}
		preds = append(preds, pred)
	}
	if j.Or {
		return sqm.NewOr(preds...)
	}
	return sqm.NewAnd(preds...)
}

func (ci *interpreter) InterpretNot(n *criteria.Not) (sqm.Predicate, error) {
	p, err := n.Predicate.AcceptPredicate(ci)
	if err != nil {
		return nil, err
	}
	return sqm.Negate(p), nil
}

func (ci *interpreter) InterpretComparison(c *criteria.Comparison) (sqm.Predicate, error) {
	op, ok := relationalOps[c.Op]
	if !ok {
		return nil, qerr.Semantic("unknown comparison operator %q", c.Op)
	}
	exprs, err := ci.accept(c.LHS, c.RHS)
	if err != nil {
		return nil, err
	}
	return relational(op, exprs[0], exprs[1]), nil
}

func (ci *interpreter) InterpretBetween(b *criteria.Between) (sqm.Predicate, error) {
	exprs, err := ci.accept(b.Expr, b.Lower, b.Upper)
	if err != nil {
		return nil, err
	}
	return between(exprs[0], exprs[1], exprs[2], b.Negated), nil
}

func (ci *interpreter) InterpretLike(l *criteria.Like) (sqm.Predicate, error) {
	exprs, err := ci.accept(l.Match, l.Pattern)
	if err != nil {
		return nil, err
	}
	var escape sqm.Expression
	if l.Escape != nil {
		if escape, err = l.Escape.Accept(ci); err != nil {
			return nil, err
		}
	}
	return ci.like(exprs[0], exprs[1], escape, l.Negated), nil
}

func (ci *interpreter) InterpretIn(in *criteria.In) (sqm.Predicate, error) {
	test, err := in.Test.Accept(ci)
	if err != nil {
		return nil, err
	}
	if in.Subquery != nil {
		sub, err := ci.subquery(in.Subquery)
		if err != nil {
			return nil, err
		}
		return inSubquery(test, sub, in.Negated)
	}
	list, err := ci.accept(in.Values...)
	if err != nil {
		return nil, err
	}
	return inList(test, list, in.Negated), nil
}

func (ci *interpreter) InterpretNullness(n *criteria.Nullness) (sqm.Predicate, error) {
	expr, err := n.Expr.Accept(ci)
	if err != nil {
		return nil, err
	}
	return &sqm.NullnessPredicate{Expr: expr, Negated: n.Negated}, nil
}

func (ci *interpreter) collection(p *criteria.Path, what string) (*sqm.AttributeRef, error) {
	expr, err := ci.InterpretPath(p)
	if err != nil {
		return nil, err
	}
	return collectionRef(expr, p.Attribute, what)
}

func (ci *interpreter) InterpretEmptiness(e *criteria.Emptiness) (sqm.Predicate, error) {
	coll, err := ci.collection(e.Collection, "is empty")
	if err != nil {
		return nil, err
	}
	return &sqm.EmptinessPredicate{Collection: coll, Negated: e.Negated}, nil
}

func (ci *interpreter) InterpretMemberOf(m *criteria.MemberOf) (sqm.Predicate, error) {
	elem, err := m.Elem.Accept(ci)
	if err != nil {
		return nil, err
	}
	coll, err := ci.collection(m.Collection, "member of")
	if err != nil {
		return nil, err
	}
	return memberOf(elem, coll, m.Negated), nil
}

func (ci *interpreter) InterpretBooleanExpr(b *criteria.BooleanExpr) (sqm.Predicate, error) {
	expr, err := b.Expr.Accept(ci)
	if err != nil {
		return nil, err
	}
	return ci.booleanExpr(expr)
}
