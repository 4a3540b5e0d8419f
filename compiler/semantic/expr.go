package semantic

import (
	"strings"

	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/ast"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/qerr"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/sqm"
	"github.com/hibernate/hibernate-semantic-query-sub003/domain"
)

func (a *analyzer) semExpr(e ast.Expr) (sqm.Expression, error) {
	out, err := a.semExprNode(e)
	if err != nil {
		return nil, located(err, e)
	}
	return out, nil
}

func (a *analyzer) semExprNode(e ast.Expr) (sqm.Expression, error) {
	switch e := e.(type) {
	case *ast.Path:
		return a.semPath(e, false)
	case *ast.IndexPath:
		return nil, qerr.NotYetImplemented("index access on collection path " + quote(e.Path.Parts.String()))
	case *ast.Treat:
		treat, _, err := a.semTreat(e)
		return treat, err
	case *ast.Literal:
		return a.semLiteral(e)
	case *ast.Param:
		return a.parameter(e.Name, e.Position)
	case *ast.UnaryExpr:
		operand, err := a.semExpr(e.Operand)
		if err != nil {
			return nil, err
		}
		return a.unary(e.Op, operand)
	case *ast.BinaryExpr:
		return a.semBinary(e)
	case *ast.Call:
		args, err := a.semExprs(e.Args...)
		if err != nil {
			return nil, err
		}
		return a.call(e.Name, args)
	case *ast.Agg:
		return a.semAgg(e)
	case *ast.TypeExpr:
		return a.semTypeExpr(e)
	case *ast.Subquery:
		return a.semSubquery(e)
	case *ast.Paren:
		return a.semExpr(e.Expr)
	case *ast.New:
		return nil, qerr.Semantic("dynamic instantiation is only allowed in the select clause")
	case *ast.Not, *ast.Between, *ast.Like, *ast.In, *ast.IsNull, *ast.IsEmpty, *ast.MemberOf:
		return nil, qerr.Semantic("predicate used where a value is expected")
	case nil:
		return nil, qerr.Internal("missing expression")
	}
	return nil, qerr.Internal("unknown expression type %T", e)
}

func (a *analyzer) semExprs(exprs ...ast.Expr) ([]sqm.Expression, error) {
	out := make([]sqm.Expression, 0, len(exprs))
	for _, e := range exprs {
		expr, err := a.semExpr(e)
		if err != nil {
			return nil, err
		}
		out = append(out, expr)
	}
	return out, nil
}

// semPath resolves a path expression.  A path that matches no
// identification variable or attribute but names an entity is an entity
// type literal, as in type(p) = Employee.
func (a *analyzer) semPath(path *ast.Path, wantFromElement bool) (sqm.Expression, error) {
	if path.Base != nil {
		treat, fe, err := a.semTreat(path.Base)
		if err != nil {
			return nil, err
		}
		p, err := a.policy()
		if err != nil {
			return nil, err
		}
		text := path.Base.Expr.Parts.String() + "." + path.Parts.String()
		return a.resolveFrom(p, fe, treat.Target, path.Parts, text, wantFromElement)
	}
	out, err := a.resolvePath(path.Parts, wantFromElement)
	if out != nil || err != nil {
		return out, err
	}
	name := path.Parts.String()
	if typ, ok := a.model.ResolveEntity(name); ok {
		entity, ok := typ.(*domain.EntityType)
		if !ok {
			return nil, a.checkPolymorphic(path, false)
		}
		return &sqm.EntityTypeExpr{Entity: entity}, nil
	}
	return nil, qerr.Semantic("could not resolve path %q", name)
}

// semTreat resolves treat(path as Type) to a downcast of the from-element
// the path denotes.
func (a *analyzer) semTreat(t *ast.Treat) (*sqm.Treat, sqm.FromElement, error) {
	ref, err := a.semPath(t.Expr, true)
	if err != nil {
		return nil, nil, err
	}
	fref, ok := ref.(*sqm.FromElementRef)
	if !ok || fref.UID == "" {
		return nil, nil, qerr.Semantic("treat argument %q does not denote a from-element", t.Expr.Parts.String())
	}
	fe, err := a.lookup(fref.UID)
	if err != nil {
		return nil, nil, err
	}
	target, err := a.joinedEntity(t.Type)
	if err != nil {
		return nil, nil, err
	}
	if err := a.downcast(fe, target); err != nil {
		return nil, nil, err
	}
	return &sqm.Treat{Expr: fref, Target: target}, fe, nil
}

// downcast records an incidental downcast of fe to target.
func (a *analyzer) downcast(fe sqm.FromElement, target *domain.EntityType) error {
	base, ok := fe.BoundType().(*domain.EntityType)
	if !ok || !target.IsSubtypeOf(base) {
		return qerr.Semantic("cannot treat %s as %s: not a subtype", describe(fe), target.Name)
	}
	fe.AddIncidentalDowncast(target)
	return nil
}

func (a *analyzer) parameter(name string, position int) (*sqm.Parameter, error) {
	mode := namedParams
	if name == "" {
		mode = positionalParams
	}
	if a.mode != noParams && a.mode != mode {
		return nil, qerr.Semantic("named and positional parameters cannot be mixed in one statement")
	}
	a.mode = mode
	param := &sqm.Parameter{Name: name, Position: position}
	a.params = append(a.params, param)
	return param, nil
}

// imply gives an untyped parameter the type of the expression it is
// compared with.  The type passes through unary operators and through
// arithmetic whose operands are all untyped.
func imply(target, from sqm.Expression) {
	switch t := target.(type) {
	case *sqm.Parameter:
		if t.Type == nil {
			t.Type = from.ExpressionType()
		}
	case *sqm.Unary:
		imply(t.Operand, from)
	case *sqm.BinaryArithmetic:
		if t.Type == nil {
			if t.Type = from.ExpressionType(); t.Type != nil {
				imply(t.LHS, from)
				imply(t.RHS, from)
			}
		}
	}
}

func (a *analyzer) unary(op string, operand sqm.Expression) (sqm.Expression, error) {
	if basic, ok := operand.ExpressionType().(*domain.BasicType); ok && !basic.Kind.IsNumeric() {
		return nil, qerr.Semantic("unary %s is not defined on %s", op, basic.Name)
	}
	return &sqm.Unary{Op: op, Operand: operand}, nil
}

func (a *analyzer) semBinary(b *ast.BinaryExpr) (sqm.Expression, error) {
	switch b.Op {
	case "+", "-", "*", "/", "%", "||":
	default:
		return nil, qerr.Semantic("predicate used where a value is expected")
	}
	lhs, err := a.semExpr(b.LHS)
	if err != nil {
		return nil, err
	}
	rhs, err := a.semExpr(b.RHS)
	if err != nil {
		return nil, err
	}
	if b.Op == "||" {
		return a.concat(lhs, rhs), nil
	}
	return a.arithmetic(b.Op, lhs, rhs)
}

func (a *analyzer) concat(lhs, rhs sqm.Expression) sqm.Expression {
	str := a.model.ResolveBasicType(domain.KindString)
	imply(lhs, &sqm.Literal{Type: str})
	imply(rhs, &sqm.Literal{Type: str})
	return &sqm.Concat{LHS: lhs, RHS: rhs, Type: str}
}

// arithmetic types a binary arithmetic operation.  An untyped operand
// takes the type of the other one.
func (a *analyzer) arithmetic(op string, lhs, rhs sqm.Expression) (sqm.Expression, error) {
	imply(lhs, rhs)
	imply(rhs, lhs)
	out := &sqm.BinaryArithmetic{Op: op, LHS: lhs, RHS: rhs}
	lt, rt := lhs.ExpressionType(), rhs.ExpressionType()
	switch {
	case lt == nil:
		out.Type = rt
	case rt == nil:
		out.Type = lt
	default:
		typ, err := a.model.ResolveArithmeticResultType(lt, rt, op)
		if err != nil {
			return nil, qerr.Semantic("%s", err)
		}
		out.Type = typ
	}
	return out, nil
}

func (a *analyzer) call(name string, args []sqm.Expression) (sqm.Expression, error) {
	typ, err := a.functionType(name, args)
	if err != nil {
		return nil, err
	}
	if _, ok := functions[strings.ToLower(name)]; ok {
		name = strings.ToLower(name)
	}
	return &sqm.Function{Name: name, Args: args, Type: typ}, nil
}

func (a *analyzer) semAgg(agg *ast.Agg) (sqm.Expression, error) {
	var arg sqm.Expression
	if agg.Expr != nil {
		var err error
		if arg, err = a.semExpr(agg.Expr); err != nil {
			return nil, err
		}
	}
	return a.aggregate(agg.Name, agg.Distinct, arg)
}

// aggregate builds an aggregate function call.  A nil arg is count(*).
func (a *analyzer) aggregate(name string, distinct bool, arg sqm.Expression) (sqm.Expression, error) {
	fn, ok := aggregateFuncs[strings.ToLower(name)]
	if !ok {
		return nil, qerr.Semantic("unknown aggregate function %q", name)
	}
	if arg == nil {
		if fn != sqm.Count || distinct {
			return nil, qerr.Semantic("aggregate function %s requires an argument", name)
		}
		return &sqm.Aggregate{Func: sqm.CountStar, Type: a.aggregateType(sqm.CountStar, nil)}, nil
	}
	return &sqm.Aggregate{Func: fn, Distinct: distinct, Arg: arg, Type: a.aggregateType(fn, arg)}, nil
}

func (a *analyzer) semTypeExpr(t *ast.TypeExpr) (sqm.Expression, error) {
	path, ok := t.Arg.(*ast.Path)
	if !ok {
		return nil, qerr.Semantic("type() requires an identification variable or path argument")
	}
	ref, err := a.semPath(path, true)
	if err != nil {
		return nil, err
	}
	return entityTypeOf(ref, path.Parts.String())
}

func entityTypeOf(ref sqm.Expression, text string) (sqm.Expression, error) {
	fref, ok := ref.(*sqm.FromElementRef)
	if !ok || fref.UID == "" {
		return nil, qerr.Semantic("type() argument %q does not denote an entity", text)
	}
	return &sqm.EntityTypeExpr{Source: fref.UID, Alias: fref.Alias, Entity: fref.Type}, nil
}

// semSubquery analyzes a subquery in a child scope.  Its paths may refer
// to identification variables of the enclosing queries.
func (a *analyzer) semSubquery(s *ast.Subquery) (*sqm.Subquery, error) {
	a.pushScope(NewScope(a.scope))
	q, err := a.semQuerySpec(s.Query)
	if err != nil {
		return nil, err
	}
	if err := a.popScope(); err != nil {
		return nil, err
	}
	return &sqm.Subquery{Query: q}, nil
}
