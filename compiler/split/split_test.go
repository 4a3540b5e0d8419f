package split_test

import (
	"strings"
	"testing"

	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/parser"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/semantic"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/sfmt"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/split"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/sqm"
	"github.com/hibernate/hibernate-semantic-query-sub003/domain"
	"github.com/hibernate/hibernate-semantic-query-sub003/domain/domaintest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyze(t *testing.T, model domain.Model, query string) *sqm.SelectStatement {
	t.Helper()
	stmt, err := parser.ParseQuery(query)
	require.NoError(t, err)
	out, err := semantic.Analyze(stmt, model)
	require.NoError(t, err)
	return out.(*sqm.SelectStatement)
}

func TestNoPolymorphicRoot(t *testing.T) {
	stmt := analyze(t, domaintest.Model(), "select p.name from Person p where p.age > 21")
	out, err := split.Split(stmt)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Same(t, stmt, out[0])
}

func TestOneStatementPerImplementor(t *testing.T) {
	model := domaintest.Model()
	stmt := analyze(t, model, "select n.name from com.acme.Named n where n.name = :name order by n.name")
	out, err := split.Split(stmt)
	require.NoError(t, err)
	require.Len(t, out, 2)

	person, department := model.Entity("Person"), model.Entity("Department")
	for k, impl := range []*domain.EntityType{person, department} {
		q := out[k].Query
		root := q.From.Spaces[0].Root()
		assert.Equal(t, impl, root.BoundType())
		assert.Equal(t, stmt.Query.From.Spaces[0].Root().UniqueID(), root.UniqueID())
		assert.Equal(t, "n", root.Alias())

		ref := q.Select.Selections[0].Expr.(*sqm.AttributeRef)
		assert.Equal(t, impl.FindAttribute("name"), ref.Attribute)
		assert.Equal(t, root.UniqueID(), ref.Source)

		order := out[k].OrderBy.Specs[0].Expr.(*sqm.AttributeRef)
		assert.Equal(t, impl.FindAttribute("name"), order.Attribute)

		rel := q.Where.Predicate.(*sqm.RelationalPredicate)
		require.Len(t, out[k].Parameters, 1)
		assert.Same(t, out[k].Parameters[0], rel.RHS)
		assert.NotSame(t, stmt.Parameters[0], out[k].Parameters[0])
	}
	_, ok := stmt.Query.From.Spaces[0].Root().BoundType().(*domain.PolymorphicType)
	assert.True(t, ok, "input statement must not be modified")
}

func TestAllEntities(t *testing.T) {
	stmt := analyze(t, domaintest.Model(), "from java.lang.Object o")
	out, err := split.Split(stmt)
	require.NoError(t, err)
	var names []string
	for _, s := range out {
		names = append(names, s.Query.From.Spaces[0].Root().BoundType().TypeName())
		ref := s.Query.Select.Selections[0].Expr.(*sqm.FromElementRef)
		assert.Equal(t, s.Query.From.Spaces[0].Root().BoundType(), ref.Type)
	}
	assert.Equal(t, []string{"Department", "Employee", "Manager", "Person", "Project"}, names)
}

func TestIdentityPreserved(t *testing.T) {
	model := domaintest.Model()
	stmt := analyze(t, model, "select n, e from com.acme.Named n, Employee e join e.department d where e.name = n.name and d.name is not null")
	out, err := split.Split(stmt)
	require.NoError(t, err)
	require.Len(t, out, 2)
	for _, s := range out {
		q := s.Query
		require.Len(t, q.From.Spaces, 2)
		emp := q.From.Spaces[1]
		require.Len(t, emp.Joins(), 1)
		join := emp.Joins()[0].(*sqm.AttributeJoin)
		assert.Equal(t, emp.Root().UniqueID(), join.LHS)
		assert.Same(t, emp, join.Space())

		and := q.Where.Predicate.(*sqm.AndPredicate)
		null := and.Predicates[1].(*sqm.NullnessPredicate)
		ref := null.Expr.(*sqm.AttributeRef)
		assert.Same(t, join, q.From.Lookup(ref.Source))

		sel := q.Select.Selections[1].Expr.(*sqm.FromElementRef)
		assert.Same(t, emp.Root(), q.From.Lookup(sel.UID))
	}
	assert.NotSame(t, out[0].Query.From.Spaces[1].Root(), out[1].Query.From.Spaces[1].Root())
}

func TestCorrelatedSubquery(t *testing.T) {
	model := domaintest.Model()
	stmt := analyze(t, model, "select n from com.acme.Named n where n.id in (select d.id from Department d where d.name = n.name)")
	out, err := split.Split(stmt)
	require.NoError(t, err)
	require.Len(t, out, 2)
	for k, impl := range []*domain.EntityType{model.Entity("Person"), model.Entity("Department")} {
		root := out[k].Query.From.Spaces[0].Root()
		in := out[k].Query.Where.Predicate.(*sqm.InSubqueryPredicate)
		rel := in.Subquery.Query.Where.Predicate.(*sqm.RelationalPredicate)
		outer := rel.RHS.(*sqm.AttributeRef)
		assert.Equal(t, root.UniqueID(), outer.Source)
		assert.Equal(t, impl.FindAttribute("name"), outer.Attribute)
	}
}

const ownedYAML = `
entities:
  - name: Owner
    attributes:
      - {name: id, type: long}
      - {name: name, type: string}
  - name: Car
    implements: [com.acme.Owned]
    attributes:
      - {name: id, type: long}
      - {name: price, type: int}
      - {name: owner, kind: many-to-one, type: Owner}
  - name: House
    implements: [com.acme.Owned]
    attributes:
      - {name: id, type: long}
      - {name: price, type: int}
      - {name: owner, kind: many-to-one, type: Owner}
polymorphic:
  - name: com.acme.Owned
`

func ownedModel(t *testing.T) *domain.Registry {
	t.Helper()
	model, err := domain.Load(strings.NewReader(ownedYAML))
	require.NoError(t, err)
	return model
}

func TestOutputsDifferOnlyInRootType(t *testing.T) {
	model := ownedModel(t)
	queries := []string{
		"select n.owner.name from com.acme.Owned n where n.owner.id = 1 and id > 2",
		"select n from com.acme.Owned n where not (n.id in (select c.id from Car c where c.owner.name = 'x' and c.owner = n.owner))",
		"select n.owner.name, max(n.price) from com.acme.Owned n group by n.owner.name having max(n.price) > (select count(o.id) from Owner o where o.name = n.owner.name)",
		"select n from com.acme.Owned n join n.owner o where (o.name = 'x' or n.id in (select h.id from House h where h.owner = o))",
	}
	for _, query := range queries {
		t.Run(query, func(t *testing.T) {
			stmt := analyze(t, model, query)
			before := sfmt.SQM(stmt)
			out, err := split.Split(stmt)
			require.NoError(t, err)
			require.Len(t, out, 2)
			for _, s := range out {
				impl := s.Query.From.Spaces[0].Root().BoundType().TypeName()
				expected := strings.Replace(before, "com.acme.Owned n", impl+" n", 1)
				assert.Equal(t, expected, sfmt.SQM(s))
			}
			assert.Equal(t, before, sfmt.SQM(stmt), "input statement must not be modified")
		})
	}
}

func TestJoinOffPolymorphicRoot(t *testing.T) {
	model := ownedModel(t)
	stmt := analyze(t, model, "select n.owner.name from com.acme.Owned n where n.owner.id = 1 and id > 2")
	out, err := split.Split(stmt)
	require.NoError(t, err)
	require.Len(t, out, 2)
	for k, impl := range []*domain.EntityType{model.Entity("Car"), model.Entity("House")} {
		q := out[k].Query
		root := q.From.Spaces[0].Root()
		assert.Equal(t, impl, root.BoundType())
		joins := q.From.Spaces[0].Joins()
		require.Len(t, joins, 1)
		join := joins[0].(*sqm.AttributeJoin)
		assert.True(t, join.Implicit)
		assert.Equal(t, root.UniqueID(), join.LHS)
		assert.Same(t, impl.FindAttribute("owner"), join.Attribute)
		assert.Equal(t, model.Entity("Owner"), join.BoundType())

		sel := q.Select.Selections[0].Expr.(*sqm.AttributeRef)
		assert.Same(t, join, q.From.Lookup(sel.Source))

		and := q.Where.Predicate.(*sqm.AndPredicate)
		id := and.Predicates[1].(*sqm.RelationalPredicate).LHS.(*sqm.AttributeRef)
		assert.Equal(t, root.UniqueID(), id.Source)
		assert.Same(t, impl.FindAttribute("id"), id.Attribute)
	}
}
