package criteria_test

import (
	"testing"

	"github.com/hibernate/hibernate-semantic-query-sub003/criteria"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder(t *testing.T) {
	q := criteria.NewQuery()
	e := q.From("Employee").As("e")
	m := e.Join("manager", criteria.InnerJoin).As("m")
	f := e.Fetch("reports", criteria.LeftJoin)
	r := m.Join("reports", criteria.InnerJoin).Treat("Manager")

	require.Len(t, q.Roots, 1)
	assert.Equal(t, []*criteria.Join{m, f}, e.Joins())
	assert.Equal(t, []*criteria.Join{r}, m.Joins())
	assert.True(t, f.Fetched)
	assert.Equal(t, "", f.Alias())
	assert.Equal(t, "Manager", r.TreatAs)
	assert.Same(t, m, r.Parent)
}

func TestWhereConjunction(t *testing.T) {
	q := criteria.NewQuery()
	p := q.From("Person").As("p")
	eq := criteria.Equal(p.Get("name"), criteria.Value("x"))
	q.Where(eq)
	assert.Same(t, eq, q.Restriction)

	q.Where(eq, criteria.IsNull(p.Get("age")))
	j, ok := q.Restriction.(*criteria.Junction)
	require.True(t, ok)
	assert.False(t, j.Or)
	assert.Len(t, j.Predicates, 2)

	q.Where()
	assert.Nil(t, q.Restriction)
}

func TestPaths(t *testing.T) {
	q := criteria.NewQuery()
	p := q.From("Person").As("p")
	city := p.Get("address").Get("city")
	assert.Equal(t, "city", city.Attribute)
	parent, ok := city.Parent.(*criteria.Path)
	require.True(t, ok)
	assert.Equal(t, "address", parent.Attribute)
	assert.Same(t, p, parent.Parent)
}
