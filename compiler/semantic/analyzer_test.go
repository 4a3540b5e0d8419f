package semantic_test

import (
	"testing"

	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/parser"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/qerr"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/semantic"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/sfmt"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/sqm"
	"github.com/hibernate/hibernate-semantic-query-sub003/domain"
	"github.com/hibernate/hibernate-semantic-query-sub003/domain/domaintest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyze(model domain.Model, query string, opts ...semantic.Option) (sqm.Statement, error) {
	stmt, err := parser.ParseQuery(query)
	if err != nil {
		return nil, err
	}
	return semantic.Analyze(stmt, model, opts...)
}

func mustAnalyze(t *testing.T, query string, opts ...semantic.Option) sqm.Statement {
	t.Helper()
	out, err := analyze(domaintest.Model(), query, opts...)
	require.NoError(t, err, query)
	return out
}

func mustSelect(t *testing.T, query string, opts ...semantic.Option) *sqm.SelectStatement {
	t.Helper()
	return mustAnalyze(t, query, opts...).(*sqm.SelectStatement)
}

func semanticError(t *testing.T, model domain.Model, query, contains string) {
	t.Helper()
	_, err := analyze(model, query)
	require.Error(t, err, query)
	assert.True(t, qerr.IsSemantic(err), "%q: %v", query, err)
	assert.Contains(t, err.Error(), contains)
}

func TestCanonicalText(t *testing.T) {
	cases := []struct {
		query    string
		expected string
	}{
		{
			query: "select e.name from Employee e join e.manager m where m.name = 'X' order by e.name desc",
			expected: `select e.name
from
  Employee e
    inner join e.manager m
where m.name = 'X'
order by e.name desc`,
		},
		{
			query: "select e from Employee e where e.department.name = 'x'",
			expected: `select e
from
  Employee e
    left join e.department <gen:0> implicit
where <gen:0>.name = 'x'`,
		},
		{
			query: "from Person p",
			expected: `select p
from
  Person p`,
		},
		{
			query: "select e from Employee e join Department d on d.id = e.id",
			expected: `select e
from
  Employee e
    inner join Department d on d.id = e.id`,
		},
		{
			query: "select d from Department d cross join Project p",
			expected: `select d
from
  Department d
    cross join Project p`,
		},
		{
			query: "select p.name from Person p, Department d where p.id in (select e.id from Employee e where e.name = d.name)",
			expected: `select p.name
from
  Person p,
  Department d
where p.id in (select e.id from Employee e where e.name = d.name)`,
		},
		{
			query: "update Person p set p.name = :n where p.age > 3",
			expected: `update Person p
set
  p.name = :n
where p.age > 3`,
		},
		{
			query:    "delete from Person p where p.age < 18",
			expected: "delete Person p\nwhere p.age < 18",
		},
		{
			query:    "insert into Person (id, name) select e.id, e.name from Employee e",
			expected: "insert into Person <gen:0> (id, name)\nselect e.id, e.name\nfrom\n  Employee e",
		},
	}
	for _, c := range cases {
		t.Run(c.query, func(t *testing.T) {
			assert.Equal(t, c.expected, sfmt.SQM(mustAnalyze(t, c.query)))
		})
	}
}

func TestFromClauseFirst(t *testing.T) {
	stmt := mustSelect(t, "select m.name from Employee e join e.manager m")
	ref := stmt.Query.Select.Selections[0].Expr.(*sqm.AttributeRef)
	join := stmt.Query.From.Spaces[0].Joins()[0]
	assert.Equal(t, join.UniqueID(), ref.Source)
	assert.Equal(t, "m", ref.SourceAlias)

	// The on-clause of the first join refers to a join declared after it.
	stmt = mustSelect(t, "select e from Employee e join e.manager m on m.id = d.id join e.department d")
	joins := stmt.Query.From.Spaces[0].Joins()
	require.Len(t, joins, 2)
	on := joins[0].(*sqm.AttributeJoin).On.(*sqm.RelationalPredicate)
	assert.Equal(t, joins[1].UniqueID(), on.RHS.(*sqm.AttributeRef).Source)
}

func TestJoinOrder(t *testing.T) {
	stmt := mustSelect(t, "select e from Employee e join e.manager m left join m.department d join e.reports r where e.spouse.name = 'x'")
	var aliases []string
	for _, fe := range stmt.Query.From.Elements() {
		aliases = append(aliases, fe.Alias())
	}
	assert.Equal(t, []string{"e", "m", "d", "r", "<gen:0>"}, aliases)
	d := stmt.Query.From.Spaces[0].Joins()[1].(*sqm.AttributeJoin)
	assert.Equal(t, "m", d.LHSAlias)
	assert.Equal(t, sqm.LeftJoin, d.Kind)
}

func TestAliasUniqueness(t *testing.T) {
	semanticError(t, domaintest.Model(), "select p from Person p join p.spouse P", "already used")
	semanticError(t, domaintest.Model(), "select p from Person p, Employee p", "already used")
	semanticError(t, domaintest.Model(), "select p.name as p from Person p", "collides")
	semanticError(t, domaintest.Model(), "select p.name as n, p.age as N from Person p", "more than once")
	// Sibling subqueries declare their aliases independently.
	mustSelect(t, "select p from Person p where p.id in (select x.id from Employee x) and p.id in (select x.id from Department x)")
}

func TestAliasesAreCaseInsensitive(t *testing.T) {
	stmt := mustSelect(t, "SELECT P.name FROM Person p")
	ref := stmt.Query.Select.Selections[0].Expr.(*sqm.AttributeRef)
	assert.Equal(t, "p", ref.SourceAlias)
}

func TestImplicitJoinReuse(t *testing.T) {
	var stats semantic.Stats
	stmt := mustSelect(t, "select e.department.name from Employee e where e.department.id = 1 and e.department.budget > 10", semantic.WithStats(&stats))
	require.Len(t, stmt.Query.From.Spaces[0].Joins(), 1)
	assert.Equal(t, 1, stats.ImplicitJoins)
	assert.Equal(t, 2, stats.FromElements)
	join := stmt.Query.From.Spaces[0].Joins()[0].(*sqm.AttributeJoin)
	assert.True(t, join.Implicit)
	assert.Equal(t, sqm.LeftJoin, join.Kind)
}

func TestExplicitJoinNotReusedByWhere(t *testing.T) {
	stmt := mustSelect(t, "select e from Employee e join e.department d where e.department.name = 'x'")
	joins := stmt.Query.From.Spaces[0].Joins()
	require.Len(t, joins, 2)
	assert.False(t, joins[0].(*sqm.AttributeJoin).Implicit)
	assert.True(t, joins[1].(*sqm.AttributeJoin).Implicit)
}

func TestSelectMaterializesJoin(t *testing.T) {
	stmt := mustSelect(t, "select e.manager from Employee e")
	ref := stmt.Query.Select.Selections[0].Expr.(*sqm.FromElementRef)
	join := stmt.Query.From.Lookup(ref.UID).(*sqm.AttributeJoin)
	assert.True(t, join.Implicit)
	assert.Equal(t, "manager", join.Attribute.AttributeName())

	stmt = mustSelect(t, "select e from Employee e where e.manager = :m")
	assert.Empty(t, stmt.Query.From.Spaces[0].Joins())
}

func TestIntermediateMustBeDereferenceable(t *testing.T) {
	semanticError(t, domaintest.Model(), "select p.name.x from Person p", "cannot dereference")
	semanticError(t, domaintest.Model(), "select e.reports.name from Employee e", "cannot dereference plural attribute")
	semanticError(t, domaintest.Model(), "select p.nosuch from Person p", "could not resolve attribute")
	mustSelect(t, "select p.address.city from Person p")
}

func TestOrderBy(t *testing.T) {
	semanticError(t, domaintest.Model(), "select e from Employee e order by e.manager.name", "cannot introduce a join")

	stmt := mustSelect(t, "select e from Employee e join e.manager m order by e.manager.name")
	ref := stmt.OrderBy.Specs[0].Expr.(*sqm.AttributeRef)
	assert.Equal(t, "m", ref.SourceAlias)

	stmt = mustSelect(t, "select e from Employee e where e.manager.age > 3 order by e.manager.name")
	ref = stmt.OrderBy.Specs[0].Expr.(*sqm.AttributeRef)
	assert.True(t, sqm.IsImplicitAlias(ref.SourceAlias))
	assert.Len(t, stmt.Query.From.Spaces[0].Joins(), 1)

	stmt = mustSelect(t, "select e.name as n from Employee e order by n collate en_US asc")
	spec := stmt.OrderBy.Specs[0]
	rv := spec.Expr.(*sqm.ResultVariableRef)
	assert.Equal(t, 0, rv.Index)
	assert.Equal(t, "en_US", spec.Collation)
	assert.Equal(t, sqm.Ascending, spec.Order)
}

func TestUnqualifiedAttributes(t *testing.T) {
	stmt := mustSelect(t, "select age from Person p")
	ref := stmt.Query.Select.Selections[0].Expr.(*sqm.AttributeRef)
	assert.Equal(t, "p", ref.SourceAlias)
	semanticError(t, domaintest.Model(), "select name from Person p, Department d", "ambiguous")
	semanticError(t, domaintest.Model(), "select p from Person p where nosuch = 1", "could not resolve path")
}

func TestImplicitJoinsDoNotExposeAttributes(t *testing.T) {
	cases := []struct {
		query string
		where string
	}{
		{
			query: "select e from Employee e where name = 'y' and e.department.name = 'x'",
			where: "e.name = 'y' and <gen:0>.name = 'x'",
		},
		{
			query: "select e from Employee e where e.department.name = 'x' and name = 'y'",
			where: "<gen:0>.name = 'x' and e.name = 'y'",
		},
		{
			query: "select e.manager from Employee e where name = 'x'",
			where: "e.name = 'x'",
		},
		{
			query: "select e.department.name from Employee e where budget > 10",
		},
	}
	for _, c := range cases {
		t.Run(c.query, func(t *testing.T) {
			if c.where == "" {
				semanticError(t, domaintest.Model(), c.query, "could not resolve path")
				return
			}
			stmt := mustSelect(t, c.query)
			assert.Equal(t, c.where, sfmt.Pred(stmt.Query.Where.Predicate))
		})
	}
}

func TestOnClause(t *testing.T) {
	semanticError(t, domaintest.Model(), "select e from Employee e, Department d join d.employees x on x.id = e.id", "another from-element space")
	semanticError(t, domaintest.Model(), "select e from Employee e join e.reports r on r.manager.name = 'x'", "may not join")
	stmt := mustSelect(t, "select e from Employee e join e.department d on d.location.city = 'x'")
	joins := stmt.Query.From.Spaces[0].Joins()
	require.Len(t, joins, 2)
	// The embedded join hangs off the join that owns the condition.
	d, loc := joins[0].(*sqm.AttributeJoin), joins[1].(*sqm.AttributeJoin)
	assert.True(t, loc.Implicit)
	assert.Equal(t, d.UniqueID(), loc.LHS)
	assert.Equal(t, domain.Embedded, loc.Attribute.(*domain.SingularAttribute).Classification)
	on := d.On.(*sqm.RelationalPredicate)
	assert.Equal(t, loc.UniqueID(), on.LHS.(*sqm.AttributeRef).Source)
}

func TestTreat(t *testing.T) {
	stmt := mustSelect(t, "select treat(p as Employee).salary from Person p")
	ref := stmt.Query.Select.Selections[0].Expr.(*sqm.AttributeRef)
	assert.Equal(t, "salary", ref.Attribute.AttributeName())
	root := stmt.Query.From.Spaces[0].Root()
	require.Len(t, root.IncidentalDowncasts(), 1)
	assert.Equal(t, "Employee", root.IncidentalDowncasts()[0].Name)

	stmt = mustSelect(t, "select m.bonus from Employee e join treat(e.reports as Manager) m")
	join := stmt.Query.From.Spaces[0].Joins()[0]
	assert.Equal(t, "Manager", join.IntrinsicDowncast().Name)
	assert.Equal(t, "Employee", join.BoundType().TypeName())

	semanticError(t, domaintest.Model(), "select treat(p as Department).name from Person p", "not a subtype")
}

func TestStrictCompliance(t *testing.T) {
	strict := domaintest.StrictModel()
	cases := []struct {
		query     string
		violation qerr.ViolationType
	}{
		{"from Person p", qerr.ImplicitSelect},
		{"select e from Employee e join fetch e.manager m", qerr.AliasedFetchJoin},
		{"select o from java.lang.Object o", qerr.UnmappedPolymorphism},
	}
	for _, c := range cases {
		_, err := analyze(strict, c.query)
		require.Error(t, err, c.query)
		v, ok := qerr.Violation(err)
		require.True(t, ok, "%q: %v", c.query, err)
		assert.Equal(t, c.violation, v)
		assert.Equal(t, qerr.KindStrictViolation, qerr.KindOf(err))

		_, err = analyze(domaintest.Model(), c.query)
		assert.NoError(t, err, c.query)
	}
	_, err := analyze(strict, "select e from Employee e join fetch e.manager")
	assert.NoError(t, err)
}

func TestPolymorphismPlacement(t *testing.T) {
	model := domaintest.Model()
	semanticError(t, model, "select p from Person p where p.id in (select o.id from java.lang.Object o)", "only allowed as a root")
	semanticError(t, model, "select n, o from com.acme.Named n, java.lang.Object o", "at most one")
	semanticError(t, model, "delete from com.acme.Named n", "only allowed as a root")
	semanticError(t, model, "select p from Person p join com.acme.Named n on n.id = p.id", "only allowed as a root")

	stmt := mustSelect(t, "select n.name from com.acme.Named n")
	_, ok := stmt.Query.From.Spaces[0].Root().BoundType().(*domain.PolymorphicType)
	assert.True(t, ok)
}

func TestParameters(t *testing.T) {
	semanticError(t, domaintest.Model(), "select p from Person p where p.name = :n and p.age = ?1", "cannot be mixed")

	stmt := mustSelect(t, "select p from Person p where p.age = :a and p.name like :pattern and :nick member of p.nicknames")
	require.Len(t, stmt.Parameters, 3)
	for _, p := range stmt.Parameters {
		require.NotNil(t, p.Type, p.Name)
	}
	assert.Equal(t, "int", stmt.Parameters[0].Type.TypeName())
	assert.Equal(t, "string", stmt.Parameters[1].Type.TypeName())
	assert.Equal(t, "string", stmt.Parameters[2].Type.TypeName())

	stmt = mustSelect(t, "select p from Person p where -:a > 1 and p.age = (:b + :c)")
	require.Len(t, stmt.Parameters, 3)
	for _, p := range stmt.Parameters {
		require.NotNil(t, p.Type, p.Name)
		assert.Equal(t, "int", p.Type.TypeName(), p.Name)
	}

	stmt = mustSelect(t, "select p from Person p where p.id = ?1 or p.id = ?1")
	require.Len(t, stmt.Parameters, 2)
	assert.Equal(t, 1, stmt.Parameters[1].Position)
}

func TestCorrelatedSubquery(t *testing.T) {
	stmt := mustSelect(t, "select p from Person p where p.id in (select e.id from Employee e where e.manager.name = p.name)")
	in := stmt.Query.Where.Predicate.(*sqm.InSubqueryPredicate)
	sub := in.Subquery.Query
	require.Len(t, sub.From.Spaces[0].Joins(), 1)
	rel := sub.Where.Predicate.(*sqm.RelationalPredicate)
	outer := rel.RHS.(*sqm.AttributeRef)
	assert.Equal(t, stmt.Query.From.Spaces[0].Root().UniqueID(), outer.Source)
	assert.Empty(t, stmt.Query.From.Spaces[0].Joins())

	semanticError(t, domaintest.Model(), "select p from Person p where p.id in (select e.id from Employee e where p.spouse.name = e.name)", "enclosing query")
	semanticError(t, domaintest.Model(), "select p from Person p where p.id in (select e.id, e.name from Employee e)", "exactly one")
}

func TestDML(t *testing.T) {
	upd := mustAnalyze(t, "update versioned Person p set p.name = :n, age = p.age + 1 where p.id = 1").(*sqm.UpdateStatement)
	assert.True(t, upd.Versioned)
	require.Len(t, upd.Set.Assignments, 2)
	assert.Equal(t, "name", upd.Set.Assignments[0].Target.Attribute.AttributeName())
	assert.Equal(t, "string", upd.Parameters[0].Type.TypeName())
	assert.Equal(t, "age", upd.Set.Assignments[1].Target.Attribute.AttributeName())

	del := mustAnalyze(t, "delete Person where age < 18").(*sqm.DeleteStatement)
	assert.True(t, sqm.IsImplicitAlias(del.Root.Alias()))

	model := domaintest.Model()
	semanticError(t, model, "delete from Person p where p.address.city = 'x'", "not allowed in a DML statement")
	semanticError(t, model, "update Person p set p.spouse.name = 'x'", "not allowed in a DML statement")
	semanticError(t, model, "update Person p set p.nicknames = 'x'", "is not a state field")

	ins := mustAnalyze(t, "insert into Person (id, name) select e.id, e.name from Employee e").(*sqm.InsertSelectStatement)
	require.Len(t, ins.StateFields, 2)
	assert.Equal(t, "name", ins.StateFields[1].Attribute.AttributeName())
	semanticError(t, model, "insert into Person (id, name) select e.id from Employee e", "insert names 2 state fields but selects 1 values")
}

func TestLiterals(t *testing.T) {
	stmt := mustSelect(t, "select 1, 2L, 3BI, 1.5, 2F, 6D, 8.25BD, 'x', true, null from Person p")
	kinds := []sqm.LiteralKind{
		sqm.LitInt, sqm.LitLong, sqm.LitBigInt, sqm.LitFloat, sqm.LitFloat,
		sqm.LitDouble, sqm.LitBigDecimal, sqm.LitString, sqm.LitTrue, sqm.LitNull,
	}
	require.Len(t, stmt.Query.Select.Selections, len(kinds))
	for k, sel := range stmt.Query.Select.Selections {
		assert.Equal(t, kinds[k], sel.Expr.(*sqm.Literal).Kind, "selection %d", k)
	}
	assert.Equal(t, int32(1), stmt.Query.Select.Selections[0].Expr.(*sqm.Literal).Value)
	assert.Equal(t, int64(2), stmt.Query.Select.Selections[1].Expr.(*sqm.Literal).Value)

	semanticError(t, domaintest.Model(), "select p from Person p where p.age = 99999999999", "could not interpret")
}

func TestExpressionTypes(t *testing.T) {
	stmt := mustSelect(t, "select e.age + 1, e.salary * 2, count(*), avg(e.age), sum(e.age), max(e.name), upper(e.name), e.name || 'x' from Employee e group by e.name having count(e) > 1")
	var types []string
	for _, sel := range stmt.Query.Select.Selections {
		types = append(types, sel.Expr.ExpressionType().TypeName())
	}
	assert.Equal(t, []string{"int", "bigdecimal", "long", "double", "long", "string", "string", "string"}, types)
	require.NotNil(t, stmt.Query.GroupBy)
	require.NotNil(t, stmt.Query.Having)

	semanticError(t, domaintest.Model(), "select p.name + 1 from Person p", "not defined")
	semanticError(t, domaintest.Model(), "select p from Person p where p.age", "not a predicate")
}

func TestDynamicInstantiation(t *testing.T) {
	stmt := mustSelect(t, "select new com.acme.PersonSummary(p.id, p.name as n) from Person p")
	inst := stmt.Query.Select.Selections[0].Expr.(*sqm.DynamicInstantiation)
	assert.Equal(t, sqm.InstantiateClass, inst.Target)
	assert.Equal(t, "com.acme.PersonSummary", inst.Class.Name)
	require.Len(t, inst.Args, 2)
	assert.Equal(t, "n", inst.Args[1].Alias)

	stmt = mustSelect(t, "select new map(p.id as id) from Person p")
	assert.Equal(t, sqm.InstantiateMap, stmt.Query.Select.Selections[0].Expr.(*sqm.DynamicInstantiation).Target)

	semanticError(t, domaintest.Model(), "select new com.acme.Nope(p.id) from Person p", "could not resolve dynamic instantiation target class")
}

func TestEntityTypeExpressions(t *testing.T) {
	stmt := mustSelect(t, "select p from Person p where type(p) = Employee")
	rel := stmt.Query.Where.Predicate.(*sqm.RelationalPredicate)
	lhs := rel.LHS.(*sqm.EntityTypeExpr)
	assert.Equal(t, "p", lhs.Alias)
	rhs := rel.RHS.(*sqm.EntityTypeExpr)
	assert.Empty(t, rhs.Source)
	assert.Equal(t, "Employee", rhs.Entity.TypeName())
}

func TestUnknownEntitySuggestion(t *testing.T) {
	semanticError(t, domaintest.Model(), "select p from Persn p", `did you mean "Person"?`)
}

func TestNotYetImplemented(t *testing.T) {
	_, err := analyze(domaintest.Model(), "select e.phones[0] from Employee e")
	require.Error(t, err)
	assert.True(t, qerr.IsNotYetImplemented(err))
}

func TestErrorsCarrySpans(t *testing.T) {
	query := "select p.nosuch from Person p"
	_, err := analyze(domaintest.Model(), query)
	require.Error(t, err)
	pos, end, ok := qerr.SpanOf(err)
	require.True(t, ok)
	assert.Equal(t, "p.nosuch", query[pos:end])
}
