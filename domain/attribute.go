package domain

type Attribute interface {
	AttributeName() string
	attributeNode()
}

type SingularClassification int

const (
	Basic SingularClassification = iota
	Embedded
	Any
	ManyToOne
	OneToOne
)

func (c SingularClassification) String() string {
	switch c {
	case Basic:
		return "basic"
	case Embedded:
		return "embedded"
	case Any:
		return "any"
	case ManyToOne:
		return "many-to-one"
	case OneToOne:
		return "one-to-one"
	}
	return "unknown"
}

type CollectionClassification int

const (
	Set CollectionClassification = iota
	List
	Map
	Bag
)

func (c CollectionClassification) String() string {
	switch c {
	case Set:
		return "set"
	case List:
		return "list"
	case Map:
		return "map"
	case Bag:
		return "bag"
	}
	return "unknown"
}

type ElementClassification int

const (
	ElementBasic ElementClassification = iota
	ElementEmbeddable
	ElementAny
	ElementOneToMany
	ElementManyToMany
)

func (c ElementClassification) String() string {
	switch c {
	case ElementBasic:
		return "basic"
	case ElementEmbeddable:
		return "embeddable"
	case ElementAny:
		return "any"
	case ElementOneToMany:
		return "one-to-many"
	case ElementManyToMany:
		return "many-to-many"
	}
	return "unknown"
}

type SingularAttribute struct {
	Name           string
	Classification SingularClassification
	// Type is a *BasicType, *EmbeddableType or *EntityType depending
	// on Classification.  Any-valued attributes carry a *BasicType.
	Type Type
}

func (s *SingularAttribute) AttributeName() string { return s.Name }
func (*SingularAttribute) attributeNode()          {}

type PluralAttribute struct {
	Name       string
	Collection CollectionClassification
	Element    ElementClassification
	// ElementType is the type of the collection elements.
	ElementType Type
	// IndexType is the list index or map key type and is nil for sets and bags.
	IndexType Type
}

func (p *PluralAttribute) AttributeName() string { return p.Name }
func (*PluralAttribute) attributeNode()          {}

// IsDereferenceable reports whether a path may continue past a.  Only
// embedded, many-to-one and one-to-one attributes have further navigable
// structure.
func IsDereferenceable(a Attribute) bool {
	s, ok := a.(*SingularAttribute)
	if !ok {
		return false
	}
	switch s.Classification {
	case Embedded, ManyToOne, OneToOne:
		return true
	}
	return false
}

// IsJoinable reports whether a join can be created over a.
func IsJoinable(a Attribute) bool {
	switch a := a.(type) {
	case *SingularAttribute:
		return IsDereferenceable(a)
	case *PluralAttribute:
		return true
	}
	return false
}

// IsEntityValued is true for attributes whose join introduces a new entity
// or collection relation (as opposed to an embedded value).
func IsEntityValued(a Attribute) bool {
	switch a := a.(type) {
	case *SingularAttribute:
		return a.Classification == ManyToOne || a.Classification == OneToOne
	case *PluralAttribute:
		return true
	}
	return false
}

// JoinedType returns the type bound to a join over a: the singular
// attribute's type or the plural attribute's element type.
func JoinedType(a Attribute) Type {
	switch a := a.(type) {
	case *SingularAttribute:
		return a.Type
	case *PluralAttribute:
		return a.ElementType
	}
	return nil
}

// ValueType returns the type of a reference to a: the declared type for
// singular attributes and the element type for plural ones.
func ValueType(a Attribute) Type {
	return JoinedType(a)
}
