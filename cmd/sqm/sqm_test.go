package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/hibernate/hibernate-semantic-query-sub003/cmd/sqm/root"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/qerr"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(args ...string) (string, error) {
	var out bytes.Buffer
	cmd := root.New()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyzeGolden(t *testing.T) {
	cases := []struct {
		name string
		args []string
	}{
		{"implicit-join", []string{"-c", "select e.manager.name from Employee e where e.department.name = 'R&D'"}},
		{"split", []string{"--split", "-c", "select n.name from com.acme.Named n order by n.name"}},
		{"multiple", []string{"-c", "from Person p", "-c", "delete from Person p where p.age < 18"}},
		{"update", []string{"-c", "update versioned Person p set p.name = :name, p.age = p.age + 1 where p.id = :id"}},
	}
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			args := append([]string{"analyze", "--model", "testdata/model.yaml"}, c.args...)
			out, err := execute(args...)
			require.NoError(t, err)
			g.Assert(t, c.name, []byte(out))
		})
	}
}

func TestAnalyzeQueryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q.hql")
	require.NoError(t, os.WriteFile(path, []byte("select p.name\nfrom Person p"), 0666))
	out, err := execute("analyze", "--model", "testdata/model.yaml", path)
	require.NoError(t, err)
	assert.Equal(t, "select p.name\nfrom\n  Person p\n", out)
}

func TestAnalyzeStrict(t *testing.T) {
	_, err := execute("analyze", "--model", "testdata/model.yaml", "-c", "from Person p")
	require.NoError(t, err)
	_, err = execute("analyze", "--model", "testdata/model.yaml", "--strict", "-c", "from Person p")
	require.Error(t, err)
	assert.True(t, qerr.IsStrictViolation(err))
}

func TestAnalyzeErrors(t *testing.T) {
	_, err := execute("analyze", "-c", "from Person p")
	assert.ErrorContains(t, err, "no domain model")

	_, err = execute("analyze", "--model", "testdata/model.yaml")
	assert.ErrorContains(t, err, "no query")

	_, err = execute("analyze", "--model", "testdata/model.yaml", "-c", "select p.nmae from Person p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `did you mean "name"?`)
	assert.Contains(t, err.Error(), "line 1, column 8")
}

func TestAnalyzeAST(t *testing.T) {
	out, err := execute("analyze", "--model", "testdata/model.yaml", "--ast", "-c", "select p from Person p")
	require.NoError(t, err)
	assert.Contains(t, out, "ast.SelectStatement")
	assert.Contains(t, out, "---\nselect p\nfrom\n  Person p\n")
}

func TestParse(t *testing.T) {
	out, err := execute("parse", "-c", "select p.name from Person p where p.age > 3")
	require.NoError(t, err)
	assert.Contains(t, out, "ast.SelectStatement")
	assert.Contains(t, out, "Person")

	_, err = execute("parse", "-c", "select from")
	require.Error(t, err)
	assert.True(t, qerr.IsSyntax(err))
}
