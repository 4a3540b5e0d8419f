package domain_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/hibernate/hibernate-semantic-query-sub003/domain"
	"github.com/hibernate/hibernate-semantic-query-sub003/domain/domaintest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveEntity(t *testing.T) {
	m := domaintest.Model()
	typ, ok := m.ResolveEntity("Employee")
	require.True(t, ok)
	emp := typ.(*domain.EntityType)
	assert.Equal(t, "Person", emp.Super.Name)

	byClass, ok := m.ResolveEntity("com.acme.Employee")
	require.True(t, ok)
	assert.Same(t, emp, byClass)

	_, ok = m.ResolveEntity("Nope")
	assert.False(t, ok)
}

func TestInheritedAttributes(t *testing.T) {
	m := domaintest.Model()
	mgr := m.Entity("Manager")
	require.NotNil(t, mgr.FindAttribute("bonus"))
	require.NotNil(t, mgr.FindAttribute("salary"))
	require.NotNil(t, mgr.FindAttribute("name"))
	assert.True(t, mgr.IsSubtypeOf(m.Entity("Person")))
	assert.False(t, m.Entity("Person").IsSubtypeOf(mgr))

	var names []string
	for _, a := range m.Entity("Employee").Attributes() {
		names = append(names, a.AttributeName())
	}
	assert.Equal(t, []string{"id", "name", "age", "active", "address", "nicknames", "spouse",
		"salary", "manager", "department", "reports", "phones", "projects"}, names)
}

func TestResolveAttribute(t *testing.T) {
	m := domaintest.Model()
	person := m.Entity("Person")
	a, err := m.ResolveAttribute(person, "address")
	require.NoError(t, err)
	assert.True(t, domain.IsDereferenceable(a))

	_, err = m.ResolveAttribute(person, "salary")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNoSuchAttribute))
	assert.Equal(t, `Person has no attribute "salary"`, err.Error())
}

func TestClassifications(t *testing.T) {
	m := domaintest.Model()
	emp := m.Entity("Employee")
	tests := []struct {
		attr      string
		deref     bool
		joinable  bool
		entityish bool
	}{
		{"name", false, false, false},
		{"address", true, true, false},
		{"manager", true, true, true},
		{"spouse", true, true, true},
		{"reports", false, true, true},
		{"phones", false, true, true},
	}
	for _, tt := range tests {
		a := emp.FindAttribute(tt.attr)
		require.NotNil(t, a, tt.attr)
		assert.Equal(t, tt.deref, domain.IsDereferenceable(a), tt.attr)
		assert.Equal(t, tt.joinable, domain.IsJoinable(a), tt.attr)
		assert.Equal(t, tt.entityish, domain.IsEntityValued(a), tt.attr)
	}
	payload := m.Entity("Project").FindAttribute("payload").(*domain.SingularAttribute)
	assert.Equal(t, domain.Any, payload.Classification)
	props := m.Entity("Department").FindAttribute("properties").(*domain.PluralAttribute)
	assert.Equal(t, domain.Map, props.Collection)
	assert.Equal(t, "string", props.IndexType.TypeName())
}

func TestPolymorphic(t *testing.T) {
	m := domaintest.Model()
	typ, ok := m.ResolveEntity("com.acme.Named")
	require.True(t, ok)
	named := typ.(*domain.PolymorphicType)
	require.Len(t, named.Implementors, 2)
	assert.Equal(t, "Person", named.Implementors[0].Name)
	assert.Equal(t, "Department", named.Implementors[1].Name)
	assert.NotNil(t, named.FindAttribute("name"))
	assert.Nil(t, named.FindAttribute("age"))

	typ, ok = m.ResolveEntity("java.lang.Object")
	require.True(t, ok)
	assert.Len(t, typ.(*domain.PolymorphicType).Implementors, 5)
}

func TestArithmeticPromotion(t *testing.T) {
	m := domaintest.Model()
	tests := []struct {
		lhs, rhs domain.BasicKind
		out      domain.BasicKind
	}{
		{domain.KindInt, domain.KindInt, domain.KindInt},
		{domain.KindInt, domain.KindLong, domain.KindLong},
		{domain.KindFloat, domain.KindLong, domain.KindFloat},
		{domain.KindDouble, domain.KindFloat, domain.KindDouble},
		{domain.KindBigInt, domain.KindDouble, domain.KindBigInt},
		{domain.KindBigDecimal, domain.KindInt, domain.KindBigDecimal},
	}
	for _, tt := range tests {
		typ, err := m.ResolveArithmeticResultType(m.ResolveBasicType(tt.lhs), m.ResolveBasicType(tt.rhs), "+")
		require.NoError(t, err)
		assert.Equal(t, tt.out, typ.Kind, "%s + %s", tt.lhs, tt.rhs)
	}
	_, err := m.ResolveArithmeticResultType(m.ResolveBasicType(domain.KindString), m.ResolveBasicType(domain.KindInt), "*")
	assert.Error(t, err)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name, yaml, err string
	}{
		{"unknown super", "entities:\n  - {name: A, super: B}\n", `unknown supertype "B"`},
		{"unknown kind", "entities:\n  - name: A\n    attributes:\n      - {name: x, kind: blob}\n", `unknown kind "blob"`},
		{"unknown target", "entities:\n  - name: A\n    attributes:\n      - {name: x, kind: many-to-one, type: Z}\n", `unknown entity "Z"`},
		{"duplicate", "entities:\n  - {name: A}\n  - {name: A}\n", "defined more than once"},
		{"empty polymorphic", "polymorphic:\n  - {name: I}\n", "no implementors"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.Load(strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.err)
		})
	}
}
