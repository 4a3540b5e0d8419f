package domain

import (
	"fmt"
	"sort"
)

// Registry is an in-memory Model.
type Registry struct {
	Strict      bool
	entities    map[string]*EntityType
	byClass     map[string]*EntityType
	embeddables map[string]*EmbeddableType
	polymorphic map[string]*PolymorphicType
	classes     map[string]*Class
	basics      map[BasicKind]*BasicType
}

var _ Model = (*Registry)(nil)

func NewRegistry() *Registry {
	basics := make(map[BasicKind]*BasicType)
	for kind, name := range basicKindNames {
		basics[kind] = &BasicType{Name: name, Kind: kind}
	}
	return &Registry{
		entities:    make(map[string]*EntityType),
		byClass:     make(map[string]*EntityType),
		embeddables: make(map[string]*EmbeddableType),
		polymorphic: make(map[string]*PolymorphicType),
		classes:     make(map[string]*Class),
		basics:      basics,
	}
}

func (r *Registry) AddEntity(e *EntityType) error {
	if _, ok := r.entities[e.Name]; ok {
		return fmt.Errorf("entity %q defined more than once", e.Name)
	}
	r.entities[e.Name] = e
	if e.Class != "" {
		r.byClass[e.Class] = e
	}
	return nil
}

func (r *Registry) AddEmbeddable(e *EmbeddableType) error {
	if _, ok := r.embeddables[e.Name]; ok {
		return fmt.Errorf("embeddable %q defined more than once", e.Name)
	}
	r.embeddables[e.Name] = e
	return nil
}

func (r *Registry) AddPolymorphic(p *PolymorphicType) error {
	if _, ok := r.entities[p.Name]; ok {
		return fmt.Errorf("polymorphic type %q collides with a mapped entity", p.Name)
	}
	r.polymorphic[p.Name] = p
	return nil
}

func (r *Registry) AddClass(name string) *Class {
	c := &Class{Name: name}
	r.classes[name] = c
	return c
}

// Entity returns the mapped entity named name or nil.
func (r *Registry) Entity(name string) *EntityType {
	if e, ok := r.entities[name]; ok {
		return e
	}
	return r.byClass[name]
}

func (r *Registry) Embeddable(name string) *EmbeddableType {
	return r.embeddables[name]
}

// EntityNames returns the mapped entity names in sorted order.
func (r *Registry) EntityNames() []string {
	names := make([]string, 0, len(r.entities))
	for name := range r.entities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ResolveEntity(name string) (Type, bool) {
	if e := r.Entity(name); e != nil {
		return e, true
	}
	if p, ok := r.polymorphic[name]; ok {
		return p, true
	}
	return nil, false
}

func (r *Registry) ResolveAttribute(source ManagedType, name string) (Attribute, error) {
	if a := source.FindAttribute(name); a != nil {
		return a, nil
	}
	return nil, &NoSuchAttributeError{Source: source, Name: name}
}

func (r *Registry) ResolveBasicType(kind BasicKind) *BasicType {
	return r.basics[kind]
}

func (r *Registry) ResolveArithmeticResultType(lhs, rhs Type, op string) (*BasicType, error) {
	l, ok := lhs.(*BasicType)
	if !ok {
		return nil, fmt.Errorf("left operand of %q is not numeric: %s", op, typeName(lhs))
	}
	rt, ok := rhs.(*BasicType)
	if !ok {
		return nil, fmt.Errorf("right operand of %q is not numeric: %s", op, typeName(rhs))
	}
	kind, ok := PromoteNumeric(l.Kind, rt.Kind)
	if !ok {
		return nil, fmt.Errorf("operator %q is not defined on %s and %s", op, l.Name, rt.Name)
	}
	return r.basics[kind], nil
}

func (r *Registry) ResolveClass(name string) (*Class, bool) {
	c, ok := r.classes[name]
	return c, ok
}

func (r *Registry) StrictJPQLCompliance() bool {
	return r.Strict
}

func typeName(t Type) string {
	if t == nil {
		return "<unknown>"
	}
	return t.TypeName()
}
