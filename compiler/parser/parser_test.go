package parser_test

import (
	"bufio"
	"encoding/json"
	"os"
	"testing"

	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/ast"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/parser"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/qerr"
	"github.com/hibernate/hibernate-semantic-query-sub003/pkg/field"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValid(t *testing.T) {
	file, err := os.Open("testdata/valid.hql")
	require.NoError(t, err)
	defer file.Close()
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		stmt, err := parser.ParseQuery(line)
		if assert.NoError(t, err, "%q", line) {
			_, err := json.Marshal(stmt)
			assert.NoError(t, err, "%q", line)
		}
	}
	require.NoError(t, scanner.Err())
}

func TestFromFirst(t *testing.T) {
	stmt, err := parser.ParseQuery("select m.name from Employee e join e.manager m")
	require.NoError(t, err)
	sel := stmt.(*ast.SelectStatement)
	q := sel.Query
	require.Len(t, q.From, 1)
	space := q.From[0]
	assert.Equal(t, field.Path{"Employee"}, space.Root.Entity.Path)
	assert.Equal(t, "e", space.Root.Alias.Name)
	require.Len(t, space.Joins, 1)
	join := space.Joins[0].(*ast.QualifiedJoin)
	assert.Equal(t, "inner", join.JoinKind)
	assert.Equal(t, field.Path{"e", "manager"}, join.Target.(*ast.Path).Parts)
	assert.Equal(t, "m", join.Alias.Name)
	require.Len(t, q.Select.Items, 1)
	assert.Equal(t, field.Path{"m", "name"}, q.Select.Items[0].Expr.(*ast.Path).Parts)
}

func TestImplicitSelect(t *testing.T) {
	stmt, err := parser.ParseQuery("from Person p where p.name = :name")
	require.NoError(t, err)
	q := stmt.(*ast.SelectStatement).Query
	assert.Nil(t, q.Select)
	cmp := q.Where.(*ast.BinaryExpr)
	assert.Equal(t, "=", cmp.Op)
	assert.Equal(t, "name", cmp.RHS.(*ast.Param).Name)
}

func TestPrecedence(t *testing.T) {
	stmt, err := parser.ParseQuery("from Person p where p.age = 1 or p.age = 2 and not p.active")
	require.NoError(t, err)
	or := stmt.(*ast.SelectStatement).Query.Where.(*ast.BinaryExpr)
	assert.Equal(t, "or", or.Op)
	and := or.RHS.(*ast.BinaryExpr)
	assert.Equal(t, "and", and.Op)
	_, ok := and.RHS.(*ast.Not)
	assert.True(t, ok)

	stmt, err = parser.ParseQuery("select 1 + 2 * 3 from Person p")
	require.NoError(t, err)
	plus := stmt.(*ast.SelectStatement).Query.Select.Items[0].Expr.(*ast.BinaryExpr)
	assert.Equal(t, "+", plus.Op)
	assert.Equal(t, "*", plus.RHS.(*ast.BinaryExpr).Op)
}

func TestLiterals(t *testing.T) {
	stmt, err := parser.ParseQuery("select 1, 2L, 3BI, 4.5, 6D, 7F, 8.25BD, 'it''s', true, null from Person p")
	require.NoError(t, err)
	var types, texts []string
	for _, item := range stmt.(*ast.SelectStatement).Query.Select.Items {
		lit := item.Expr.(*ast.Literal)
		types = append(types, lit.Type)
		texts = append(texts, lit.Text)
	}
	assert.Equal(t, []string{"int", "long", "bigint", "decimal", "double", "float", "bigdecimal", "string", "true", "null"}, types)
	assert.Equal(t, "it's", texts[7])
	assert.Equal(t, "3BI", texts[2])
}

func TestNegatedPredicates(t *testing.T) {
	stmt, err := parser.ParseQuery("from Person p where p.age not between 1 and 2 and p.name not like 'x%' and p.id not in (1, 2) and p.name is not null and 'x' not member of p.nicknames")
	require.NoError(t, err)
	var nots []bool
	var walk func(ast.Expr)
	walk = func(e ast.Expr) {
		switch e := e.(type) {
		case *ast.BinaryExpr:
			walk(e.LHS)
			walk(e.RHS)
		case *ast.Between:
			nots = append(nots, e.Not)
		case *ast.Like:
			nots = append(nots, e.Not)
		case *ast.In:
			nots = append(nots, e.Not)
		case *ast.IsNull:
			nots = append(nots, e.Not)
		case *ast.MemberOf:
			nots = append(nots, e.Not)
		}
	}
	walk(stmt.(*ast.SelectStatement).Query.Where)
	assert.Equal(t, []bool{true, true, true, true, true}, nots)
}

func TestDML(t *testing.T) {
	stmt, err := parser.ParseQuery("update Person p set p.name = 'x' where p.id = ?1")
	require.NoError(t, err)
	upd := stmt.(*ast.UpdateStatement)
	assert.Equal(t, "p", upd.Target.Alias.Name)
	require.Len(t, upd.Set, 1)
	assert.Equal(t, 1, upd.Where.(*ast.BinaryExpr).RHS.(*ast.Param).Position)

	stmt, err = parser.ParseQuery("insert into Person (id, name) select e.id, e.name from Employee e")
	require.NoError(t, err)
	ins := stmt.(*ast.InsertStatement)
	assert.Len(t, ins.Fields, 2)
	assert.Len(t, ins.Query.Select.Items, 2)
}

func TestLocations(t *testing.T) {
	query := "select p from Person p where p.address.city = 'Oslo'"
	stmt, err := parser.ParseQuery(query)
	require.NoError(t, err)
	cmp := stmt.(*ast.SelectStatement).Query.Where.(*ast.BinaryExpr)
	assert.Equal(t, "p.address.city", query[cmp.LHS.Pos():cmp.LHS.End()])
	assert.Equal(t, "'Oslo'", query[cmp.RHS.Pos():cmp.RHS.End()])
}

func TestErrors(t *testing.T) {
	tests := []struct {
		query string
		msg   string
		pos   int
	}{
		{"select p from", "syntax error: expected name but found end of query", 13},
		{"select p from Person p where", "syntax error: unexpected end of query", 28},
		{"from Person p where p.name = 'abc", "syntax error: unterminated string literal", 29},
		{"from Person p where p.age = 1 )", `syntax error: unexpected ")"`, 30},
		{"from Person p where p.id = ?", "syntax error: unexpected character '?'", 27},
		{"frob Person", `syntax error: expected select, from, update, delete, or insert but found "frob"`, 0},
		{"from Person p join", "syntax error: expected name but found end of query", 18},
		{"from Person as where", `syntax error: expected alias but found "where"`, 15},
	}
	for _, tt := range tests {
		_, err := parser.ParseQuery(tt.query)
		require.Error(t, err, "%q", tt.query)
		assert.Equal(t, tt.msg, err.Error(), "%q", tt.query)
		assert.True(t, qerr.IsSyntax(err))
		pos, _, ok := qerr.SpanOf(err)
		require.True(t, ok)
		assert.Equal(t, tt.pos, pos, "%q", tt.query)
	}
}
