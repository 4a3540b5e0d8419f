package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDotted(t *testing.T) {
	p := Dotted("e.manager.name")
	assert.Equal(t, Path{"e", "manager", "name"}, p)
	assert.Equal(t, "e.manager.name", p.String())
	assert.Equal(t, "e", p.Head())
	assert.Equal(t, "name", p.Leaf())
	assert.Nil(t, Dotted(""))
	assert.Equal(t, "", Path(nil).Leaf())
}

func TestHasPrefix(t *testing.T) {
	p := Dotted("java.lang.Object")
	assert.True(t, p.HasPrefix(Dotted("java.lang")))
	assert.True(t, p.HasPrefix(nil))
	assert.False(t, p.HasPrefix(Dotted("java.util")))
	assert.False(t, Dotted("java").HasPrefix(p))
}
