package srcfiles

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/qerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocateSpan(t *testing.T) {
	l := NewList("select e\nfrom Employee e\nwhere e.nope = 1")
	pos := len("select e\nfrom Employee e\nwhere ")
	err := qerr.SemanticAt(pos, pos+len("e.nope"), "could not resolve attribute %q", "nope")
	located := l.Locate(err)
	expected := `could not resolve attribute "nope" at line 3, column 7:
where e.nope = 1
      ~~~~~~`
	assert.Equal(t, expected, located.Error())
	assert.True(t, qerr.IsSemantic(located))
}

func TestLocatePoint(t *testing.T) {
	l := NewList("from Person p where")
	err := qerr.SemanticAt(len(l.Text), -1, "unexpected end of query")
	expected := `unexpected end of query at line 1, column 20:
from Person p where
                   ^`
	assert.Equal(t, expected, l.Locate(err).Error())
}

func TestLocateWithoutSpan(t *testing.T) {
	l := NewList("from Person p")
	err := errors.New("boom")
	assert.Same(t, err, l.Locate(err))
	unpositioned := qerr.Semantic("no position")
	assert.Equal(t, "no position", l.Locate(unpositioned).Error())
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.hql")
	b := filepath.Join(dir, "b.hql")
	require.NoError(t, os.WriteFile(a, []byte("from Person p"), 0644))
	require.NoError(t, os.WriteFile(b, []byte("where p.bad = 1"), 0644))
	l, err := Load(a, b)
	require.NoError(t, err)
	assert.Equal(t, "from Person p\nwhere p.bad = 1", l.Text)
	pos := len("from Person p\nwhere ")
	l.AddError("bad path", pos, pos+5)
	assert.Equal(t, "bad path in "+b+" at line 1, column 7:\nwhere p.bad = 1\n      ~~~~~", l.Error().Error())
}
