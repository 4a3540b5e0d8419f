package semantic_test

import (
	"testing"

	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/qerr"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/semantic"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/sfmt"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/sqm"
	"github.com/hibernate/hibernate-semantic-query-sub003/criteria"
	"github.com/hibernate/hibernate-semantic-query-sub003/domain/domaintest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// equivalent checks that a criteria statement analyzes to the same tree as
// query text.
func equivalent(t *testing.T, query string, stmt criteria.Statement) {
	t.Helper()
	expected := sfmt.SQM(mustAnalyze(t, query))
	actual, err := semantic.AnalyzeCriteria(stmt, domaintest.Model())
	require.NoError(t, err)
	assert.Equal(t, expected, sfmt.SQM(actual))
}

func TestCriteriaJoins(t *testing.T) {
	q := criteria.NewQuery()
	e := q.From("Employee").As("e")
	m := e.Join("manager", criteria.InnerJoin).As("m")
	d := m.Join("department", criteria.LeftJoin).As("d")
	q.Select(criteria.Select(m.Get("name"))).
		Where(criteria.Greater(m.Get("age"), criteria.Value(30)), criteria.IsNotNull(d.Get("name"))).
		OrderBy(criteria.Desc(m.Get("name")))
	equivalent(t, "select m.name from Employee e join e.manager m left join m.department d where m.age > 30 and d.name is not null order by m.name desc", q)
}

func TestCriteriaImplicitJoins(t *testing.T) {
	q := criteria.NewQuery()
	e := q.From("Employee").As("e")
	q.Select(criteria.Select(e)).
		Where(criteria.Equal(e.Get("department").Get("name"), criteria.Value("x")))
	equivalent(t, "select e from Employee e where e.department.name = 'x'", q)
}

func TestCriteriaImplicitSelect(t *testing.T) {
	q := criteria.NewQuery()
	q.From("Person").As("p")
	equivalent(t, "from Person p", q)

	_, err := semantic.AnalyzeCriteria(q, domaintest.StrictModel())
	v, ok := qerr.Violation(err)
	require.True(t, ok, "%v", err)
	assert.Equal(t, qerr.ImplicitSelect, v)
}

func TestCriteriaOnClause(t *testing.T) {
	q := criteria.NewQuery()
	e := q.From("Employee").As("e")
	r := e.Join("reports", criteria.LeftJoin).As("r")
	r.WithOn(criteria.Equal(r.Get("name"), e.Get("name")))
	q.Select(criteria.Select(r))
	equivalent(t, "select r from Employee e left join e.reports r on r.name = e.name", q)
}

func TestCriteriaAggregates(t *testing.T) {
	q := criteria.NewQuery()
	e := q.From("Employee").As("e")
	q.Select(criteria.Select(e.Get("name")), criteria.Select(criteria.CountStar()), criteria.Select(criteria.Avg(e.Get("age")))).
		GroupBy(e.Get("name")).
		Having(criteria.Greater(criteria.Count(e), criteria.Value(1)))
	equivalent(t, "select e.name, count(*), avg(e.age) from Employee e group by e.name having count(e) > 1", q)
}

func TestCriteriaSubquery(t *testing.T) {
	q := criteria.NewQuery()
	p := q.From("Person").As("p")
	sub := criteria.NewSubquery()
	x := sub.From("Employee").As("x")
	sub.Select(x.Get("id")).Where(criteria.Equal(x.Get("name"), p.Get("name")))
	q.Select(criteria.Select(p)).Where(criteria.InSubquery(p.Get("id"), sub))
	equivalent(t, "select p from Person p where p.id in (select x.id from Employee x where x.name = p.name)", q)
}

func TestCriteriaTreatAndParameters(t *testing.T) {
	q := criteria.NewQuery()
	p := q.From("Person").As("p")
	q.Select(criteria.Select(criteria.TreatAs(p, "Employee").Get("salary"))).
		Where(criteria.Matches(p.Get("name"), criteria.Param("pattern")))
	equivalent(t, "select treat(p as Employee).salary from Person p where p.name like :pattern", q)

	stmt, err := semantic.AnalyzeCriteria(q, domaintest.Model())
	require.NoError(t, err)
	params := stmt.Params()
	require.Len(t, params, 1)
	assert.Equal(t, "string", params[0].Type.TypeName())
}

func TestCriteriaInstantiation(t *testing.T) {
	q := criteria.NewQuery()
	p := q.From("Person").As("p")
	q.Select(criteria.New("com.acme.PersonSummary", criteria.Select(p.Get("id")), criteria.Select(p.Get("name")).As("n")))
	equivalent(t, "select new com.acme.PersonSummary(p.id, p.name as n) from Person p", q)
}

func TestCriteriaLiterals(t *testing.T) {
	q := criteria.NewQuery()
	p := q.From("Person").As("p")
	q.Select(criteria.Select(p)).Where(criteria.Or(
		criteria.Equal(p.Get("id"), criteria.Value(int64(10))),
		criteria.Equal(p.Get("age"), criteria.Value(float32(2))),
		criteria.IsTrue(p.Get("active")),
	))
	equivalent(t, "select p from Person p where p.id = 10L or p.age = 2F or p.active", q)
}

func TestCriteriaErrors(t *testing.T) {
	model := domaintest.Model()

	other := criteria.NewQuery().From("Person").As("o")
	q := criteria.NewQuery()
	q.From("Person").As("p")
	q.Select(criteria.Select(other.Get("name")))
	_, err := semantic.AnalyzeCriteria(q, model)
	assert.True(t, qerr.IsSemantic(err), "%v", err)

	q = criteria.NewQuery()
	p := q.From("Person").As("p")
	q.Select(criteria.Select(p)).OrderBy(criteria.Asc(p.Get("spouse").Get("name")))
	_, err = semantic.AnalyzeCriteria(q, model)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot introduce a join")

	_, err = semantic.AnalyzeCriteria(criteria.NewDelete("Person"), model)
	assert.True(t, qerr.IsNotYetImplemented(err))

	_, err = semantic.AnalyzeCriteria(nil, model)
	assert.True(t, qerr.IsSemantic(err))
}

func TestCriteriaStatementKind(t *testing.T) {
	q := criteria.NewQuery()
	q.Select(criteria.Select(q.From("Person").As("p")))
	stmt, err := semantic.AnalyzeCriteria(q, domaintest.Model())
	require.NoError(t, err)
	assert.Equal(t, sqm.KindSelect, sqm.KindOf(stmt))
}
