package sqm_test

import (
	"testing"

	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/qerr"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/sqm"
	"github.com/hibernate/hibernate-semantic-query-sub003/domain"
	"github.com/hibernate/hibernate-semantic-query-sub003/domain/domaintest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpaceHasOneRoot(t *testing.T) {
	m := domaintest.Model()
	var from sqm.FromClause
	space := from.AddSpace()

	join := sqm.NewCrossJoin("<uid:2>", "d", m.Entity("Department"))
	err := space.AddJoin(join)
	assert.True(t, qerr.IsInternal(err))

	require.NoError(t, space.SetRoot(sqm.NewRoot("<uid:1>", "e", m.Entity("Employee"))))
	err = space.SetRoot(sqm.NewRoot("<uid:3>", "p", m.Entity("Person")))
	assert.True(t, qerr.IsInternal(err))

	require.NoError(t, space.AddJoin(join))
	assert.Same(t, space, join.Space())
	assert.Same(t, space, space.Root().Space())

	var aliases []string
	for _, fe := range from.Elements() {
		aliases = append(aliases, fe.Alias())
	}
	assert.Equal(t, []string{"e", "d"}, aliases)
	assert.Same(t, join, from.Lookup("<uid:2>"))
	assert.Nil(t, from.Lookup("<uid:9>"))
}

func TestAttributeJoinType(t *testing.T) {
	m := domaintest.Model()
	root := sqm.NewRoot("<uid:1>", "d", m.Entity("Department"))
	attr := m.Entity("Department").FindAttribute("employees")
	j := sqm.NewAttributeJoin("<uid:2>", "<gen:0>", root, attr, sqm.InnerJoin, false)
	assert.Same(t, m.Entity("Employee"), j.BoundType())
	assert.Equal(t, "<uid:1>", j.LHS)
	assert.Equal(t, "d", j.LHSAlias)
	assert.True(t, sqm.IsImplicitAlias(j.Alias()))
	assert.False(t, sqm.IsImplicitAlias("d"))
}

func TestDowncasts(t *testing.T) {
	m := domaintest.Model()
	root := sqm.NewRoot("<uid:1>", "p", m.Entity("Person"))
	assert.Same(t, m.Entity("Person"), sqm.NavigableType(root))
	root.SetIntrinsicDowncast(m.Entity("Employee"))
	assert.Same(t, m.Entity("Employee"), sqm.NavigableType(root))

	root.AddIncidentalDowncast(m.Entity("Manager"))
	root.AddIncidentalDowncast(m.Entity("Manager"))
	assert.Len(t, root.IncidentalDowncasts(), 1)

	moved := root.WithBoundType(m.Entity("Manager"))
	assert.Equal(t, root.UniqueID(), moved.UniqueID())
	assert.Same(t, m.Entity("Employee"), moved.IntrinsicDowncast())
	assert.Len(t, moved.IncidentalDowncasts(), 1)
}

func TestNegate(t *testing.T) {
	lit := &sqm.Literal{Kind: sqm.LitInt, Value: int32(1), Text: "1"}
	for _, c := range []struct {
		in, out sqm.RelationalOp
	}{
		{sqm.Eq, sqm.Ne},
		{sqm.Ne, sqm.Eq},
		{sqm.Lt, sqm.Ge},
		{sqm.Ge, sqm.Lt},
		{sqm.Gt, sqm.Le},
		{sqm.Le, sqm.Gt},
	} {
		p := &sqm.RelationalPredicate{Op: c.in, LHS: lit, RHS: lit}
		assert.Equal(t, c.out, sqm.Negate(p).(*sqm.RelationalPredicate).Op, c.in.String())
	}

	null := &sqm.NullnessPredicate{Expr: lit}
	assert.Same(t, null, sqm.Negate(null))
	assert.True(t, null.Negated)
	sqm.Negate(null)
	assert.False(t, null.Negated)

	grouped := &sqm.GroupedPredicate{Wrapped: null}
	neg, ok := sqm.Negate(grouped).(*sqm.NegatedPredicate)
	require.True(t, ok)
	assert.Same(t, grouped, neg.Wrapped)
}

func TestJunctionArity(t *testing.T) {
	p := &sqm.BooleanExprPredicate{Expr: &sqm.Literal{Kind: sqm.LitTrue, Value: true}}
	_, err := sqm.NewAnd(p)
	assert.True(t, qerr.IsSemantic(err))
	_, err = sqm.NewOr()
	assert.True(t, qerr.IsSemantic(err))
	and, err := sqm.NewAnd(p, p)
	require.NoError(t, err)
	assert.Len(t, and.Predicates, 2)
}

func TestExpressionTypes(t *testing.T) {
	m := domaintest.Model()
	str := m.ResolveBasicType(domain.KindString)
	sel := &sqm.Selection{Expr: &sqm.Literal{Kind: sqm.LitString, Value: "x", Type: str}}
	sub := &sqm.Subquery{Query: &sqm.QuerySpec{Select: &sqm.SelectClause{Selections: []*sqm.Selection{sel}}}}
	assert.Same(t, str, sub.ExpressionType())

	list := &sqm.DynamicInstantiation{Target: sqm.InstantiateList}
	assert.Equal(t, "java.util.List", list.ExpressionType().TypeName())
	assert.Equal(t, sqm.KindSelect, sqm.KindOf(&sqm.SelectStatement{}))
	assert.Equal(t, sqm.KindDelete, sqm.KindOf(&sqm.DeleteStatement{}))
}
