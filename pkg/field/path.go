package field

import (
	"strings"
)

// Path is a dotted sequence of identifiers such as e.manager.name or a
// qualified class name such as java.lang.Object.
type Path []string

func Dotted(s string) Path {
	if s == "" {
		return nil
	}
	return strings.Split(s, ".")
}

func (p Path) String() string {
	return strings.Join(p, ".")
}

// Leaf returns the last identifier of the path or "".
func (p Path) Leaf() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Head returns the first identifier of the path or "".
func (p Path) Head() string {
	if len(p) == 0 {
		return ""
	}
	return p[0]
}

func (p Path) Equal(to Path) bool {
	if len(p) != len(to) {
		return false
	}
	for k := range p {
		if p[k] != to[k] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix is a leading subpath of p.
func (p Path) HasPrefix(prefix Path) bool {
	return len(prefix) <= len(p) && prefix.Equal(p[:len(prefix)])
}
