// Package domain describes the host persistence model that query analysis
// consults: entities, embeddables, basic types and their attributes.  The
// Model interface is the gateway the semantic pass talks to; Registry is an
// in-memory implementation of it that can be built in code or loaded from YAML.
package domain

import "slices"

// Type is implemented by every type descriptor in the metamodel.
type Type interface {
	TypeName() string
	typeNode()
}

// ManagedType is a type that exposes attributes and so can be navigated
// by a path expression.
type ManagedType interface {
	Type
	// FindAttribute returns the named attribute or nil.  It is an existence
	// check and never fails.
	FindAttribute(name string) Attribute
	Attributes() []Attribute
}

type BasicKind int

const (
	KindString BasicKind = iota
	KindChar
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindBigInt
	KindBigDecimal
	KindBool
	KindNull
	KindDate
	KindTime
	KindTimestamp
	KindClass
)

var basicKindNames = map[BasicKind]string{
	KindString:     "string",
	KindChar:       "char",
	KindInt:        "int",
	KindLong:       "long",
	KindFloat:      "float",
	KindDouble:     "double",
	KindBigInt:     "bigint",
	KindBigDecimal: "bigdecimal",
	KindBool:       "bool",
	KindNull:       "null",
	KindDate:       "date",
	KindTime:       "time",
	KindTimestamp:  "timestamp",
	KindClass:      "class",
}

func (k BasicKind) String() string {
	if s, ok := basicKindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseBasicKind maps a kind name as written in a model file to its BasicKind.
func ParseBasicKind(s string) (BasicKind, bool) {
	for k, name := range basicKindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// IsNumeric is true for the kinds arithmetic is defined on.
func (k BasicKind) IsNumeric() bool {
	switch k {
	case KindInt, KindLong, KindFloat, KindDouble, KindBigInt, KindBigDecimal:
		return true
	}
	return false
}

// IsIntegral is true for the integer kinds.
func (k BasicKind) IsIntegral() bool {
	switch k {
	case KindInt, KindLong, KindBigInt:
		return true
	}
	return false
}

type BasicType struct {
	Name string
	Kind BasicKind
}

func (b *BasicType) TypeName() string { return b.Name }
func (*BasicType) typeNode()          {}

type EntityType struct {
	Name     string
	Class    string
	Super    *EntityType
	Abstract bool
	attrs    []Attribute
}

func NewEntityType(name, class string, super *EntityType) *EntityType {
	return &EntityType{Name: name, Class: class, Super: super}
}

func (e *EntityType) TypeName() string { return e.Name }
func (*EntityType) typeNode()          {}

// AddAttribute declares an attribute on e.  A later declaration of the same
// name replaces the earlier one.
func (e *EntityType) AddAttribute(a Attribute) {
	e.attrs = addAttribute(e.attrs, a)
}

// FindAttribute looks up name on e and then on its supertypes.
func (e *EntityType) FindAttribute(name string) Attribute {
	for t := e; t != nil; t = t.Super {
		if a := findAttribute(t.attrs, name); a != nil {
			return a
		}
	}
	return nil
}

// Attributes returns the declared and inherited attributes, supertype
// attributes first.
func (e *EntityType) Attributes() []Attribute {
	var out []Attribute
	if e.Super != nil {
		out = e.Super.Attributes()
	}
	for _, a := range e.attrs {
		out = addAttribute(out, a)
	}
	return out
}

// IsSubtypeOf is true when e is other or inherits from it.
func (e *EntityType) IsSubtypeOf(other *EntityType) bool {
	for t := e; t != nil; t = t.Super {
		if t == other {
			return true
		}
	}
	return false
}

type EmbeddableType struct {
	Name  string
	attrs []Attribute
}

func NewEmbeddableType(name string) *EmbeddableType {
	return &EmbeddableType{Name: name}
}

func (e *EmbeddableType) TypeName() string { return e.Name }
func (*EmbeddableType) typeNode()          {}

func (e *EmbeddableType) AddAttribute(a Attribute) {
	e.attrs = addAttribute(e.attrs, a)
}

func (e *EmbeddableType) FindAttribute(name string) Attribute {
	return findAttribute(e.attrs, name)
}

func (e *EmbeddableType) Attributes() []Attribute {
	return slices.Clone(e.attrs)
}

// PolymorphicType stands in for every mapped entity assignable to an
// unmapped supertype or interface (e.g., java.lang.Object).  A query rooted
// at one is split into one query per implementor.
type PolymorphicType struct {
	Name         string
	Implementors []*EntityType
}

func (p *PolymorphicType) TypeName() string { return p.Name }
func (*PolymorphicType) typeNode()          {}

// FindAttribute returns the attribute of the first implementor when every
// implementor exposes an attribute of that name.
func (p *PolymorphicType) FindAttribute(name string) Attribute {
	var first Attribute
	for _, impl := range p.Implementors {
		a := impl.FindAttribute(name)
		if a == nil {
			return nil
		}
		if first == nil {
			first = a
		}
	}
	return first
}

func (p *PolymorphicType) Attributes() []Attribute {
	if len(p.Implementors) == 0 {
		return nil
	}
	var out []Attribute
	for _, a := range p.Implementors[0].Attributes() {
		if p.FindAttribute(a.AttributeName()) != nil {
			out = append(out, a)
		}
	}
	return out
}

// Class describes a non-entity class known to the host, used as the target
// of a dynamic instantiation.
type Class struct {
	Name string
}

func (c *Class) TypeName() string { return c.Name }
func (*Class) typeNode()          {}

func addAttribute(attrs []Attribute, a Attribute) []Attribute {
	for k, existing := range attrs {
		if existing.AttributeName() == a.AttributeName() {
			attrs[k] = a
			return attrs
		}
	}
	return append(attrs, a)
}

func findAttribute(attrs []Attribute, name string) Attribute {
	for _, a := range attrs {
		if a.AttributeName() == name {
			return a
		}
	}
	return nil
}
