package domain

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the YAML representation of a model.
//
//	strictJpqlCompliance: false
//	embeddables:
//	  - name: Address
//	    attributes:
//	      - {name: city, kind: basic, type: string}
//	entities:
//	  - name: Person
//	    class: com.acme.Person
//	    attributes:
//	      - {name: name, kind: basic, type: string}
//	      - {name: address, kind: embedded, type: Address}
//	      - {name: nicknames, kind: set, element: basic, type: string}
//	polymorphic:
//	  - name: java.lang.Object
//	    all: true
//	classes: [com.acme.PersonSummary]
type File struct {
	Strict      bool              `yaml:"strictJpqlCompliance"`
	Embeddables []ManagedTypeDecl `yaml:"embeddables"`
	Entities    []ManagedTypeDecl `yaml:"entities"`
	Polymorphic []PolymorphicDecl `yaml:"polymorphic"`
	Classes     []string          `yaml:"classes"`
}

type ManagedTypeDecl struct {
	Name       string          `yaml:"name"`
	Class      string          `yaml:"class"`
	Super      string          `yaml:"super"`
	Abstract   bool            `yaml:"abstract"`
	Implements []string        `yaml:"implements"`
	Attributes []AttributeDecl `yaml:"attributes"`
}

type AttributeDecl struct {
	Name string `yaml:"name"`
	// Kind is a singular classification (basic, embedded, any, many-to-one,
	// one-to-one) or a collection classification (set, list, map, bag).
	Kind string `yaml:"kind"`
	// Element is the plural element classification (basic, embeddable,
	// any, one-to-many, many-to-many).
	Element string `yaml:"element"`
	Type    string `yaml:"type"`
	Index   string `yaml:"index"`
}

type PolymorphicDecl struct {
	Name         string   `yaml:"name"`
	All          bool     `yaml:"all"`
	Implementors []string `yaml:"implementors"`
}

// LoadFile reads a YAML model from path.
func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Load decodes a YAML model from r.
func Load(r io.Reader) (*Registry, error) {
	var file File
	if err := yaml.NewDecoder(r).Decode(&file); err != nil && err != io.EOF {
		return nil, err
	}
	return file.Build()
}

// Build creates a Registry from f.  Types are declared before any
// attribute is resolved so declarations may refer to each other in any order.
func (f *File) Build() (*Registry, error) {
	reg := NewRegistry()
	reg.Strict = f.Strict
	for _, d := range f.Embeddables {
		if err := reg.AddEmbeddable(NewEmbeddableType(d.Name)); err != nil {
			return nil, err
		}
	}
	for _, d := range f.Entities {
		e := NewEntityType(d.Name, d.Class, nil)
		e.Abstract = d.Abstract
		if err := reg.AddEntity(e); err != nil {
			return nil, err
		}
	}
	for _, d := range f.Entities {
		if d.Super == "" {
			continue
		}
		super := reg.entities[d.Super]
		if super == nil {
			return nil, fmt.Errorf("entity %q: unknown supertype %q", d.Name, d.Super)
		}
		reg.entities[d.Name].Super = super
	}
	for _, d := range f.Embeddables {
		emb := reg.embeddables[d.Name]
		for _, ad := range d.Attributes {
			a, err := reg.buildAttribute(ad)
			if err != nil {
				return nil, fmt.Errorf("embeddable %q: %w", d.Name, err)
			}
			emb.AddAttribute(a)
		}
	}
	implementors := make(map[string][]*EntityType)
	for _, d := range f.Entities {
		e := reg.entities[d.Name]
		for _, ad := range d.Attributes {
			a, err := reg.buildAttribute(ad)
			if err != nil {
				return nil, fmt.Errorf("entity %q: %w", d.Name, err)
			}
			e.AddAttribute(a)
		}
		for _, iface := range d.Implements {
			implementors[iface] = append(implementors[iface], e)
		}
	}
	for _, d := range f.Polymorphic {
		p := &PolymorphicType{Name: d.Name}
		switch {
		case d.All:
			for _, name := range reg.EntityNames() {
				if e := reg.entities[name]; !e.Abstract {
					p.Implementors = append(p.Implementors, e)
				}
			}
		default:
			for _, name := range d.Implementors {
				e := reg.entities[name]
				if e == nil {
					return nil, fmt.Errorf("polymorphic type %q: unknown implementor %q", d.Name, name)
				}
				p.Implementors = append(p.Implementors, e)
			}
			p.Implementors = append(p.Implementors, implementors[d.Name]...)
		}
		if len(p.Implementors) == 0 {
			return nil, fmt.Errorf("polymorphic type %q has no implementors", d.Name)
		}
		if err := reg.AddPolymorphic(p); err != nil {
			return nil, err
		}
	}
	for _, name := range f.Classes {
		reg.AddClass(name)
	}
	return reg, nil
}

func (r *Registry) buildAttribute(d AttributeDecl) (Attribute, error) {
	if d.Name == "" {
		return nil, fmt.Errorf("attribute with no name")
	}
	switch d.Kind {
	case "", "basic", "any":
		typ, err := r.basicTypeOf(d)
		if err != nil {
			return nil, err
		}
		class := Basic
		if d.Kind == "any" {
			class = Any
		}
		return &SingularAttribute{Name: d.Name, Classification: class, Type: typ}, nil
	case "embedded":
		emb := r.embeddables[d.Type]
		if emb == nil {
			return nil, fmt.Errorf("attribute %q: unknown embeddable %q", d.Name, d.Type)
		}
		return &SingularAttribute{Name: d.Name, Classification: Embedded, Type: emb}, nil
	case "many-to-one", "one-to-one":
		e := r.entities[d.Type]
		if e == nil {
			return nil, fmt.Errorf("attribute %q: unknown entity %q", d.Name, d.Type)
		}
		class := ManyToOne
		if d.Kind == "one-to-one" {
			class = OneToOne
		}
		return &SingularAttribute{Name: d.Name, Classification: class, Type: e}, nil
	case "set", "list", "map", "bag":
		return r.buildPlural(d)
	}
	return nil, fmt.Errorf("attribute %q: unknown kind %q", d.Name, d.Kind)
}

func (r *Registry) buildPlural(d AttributeDecl) (Attribute, error) {
	p := &PluralAttribute{Name: d.Name}
	switch d.Kind {
	case "set":
		p.Collection = Set
	case "list":
		p.Collection = List
		p.IndexType = r.basics[KindInt]
	case "map":
		p.Collection = Map
		kind, ok := ParseBasicKind(d.Index)
		if !ok {
			return nil, fmt.Errorf("attribute %q: map index must be a basic type, got %q", d.Name, d.Index)
		}
		p.IndexType = r.basics[kind]
	case "bag":
		p.Collection = Bag
	}
	switch d.Element {
	case "", "basic", "any":
		typ, err := r.basicTypeOf(d)
		if err != nil {
			return nil, err
		}
		p.Element = ElementBasic
		if d.Element == "any" {
			p.Element = ElementAny
		}
		p.ElementType = typ
	case "embeddable":
		emb := r.embeddables[d.Type]
		if emb == nil {
			return nil, fmt.Errorf("attribute %q: unknown embeddable %q", d.Name, d.Type)
		}
		p.Element = ElementEmbeddable
		p.ElementType = emb
	case "one-to-many", "many-to-many":
		e := r.entities[d.Type]
		if e == nil {
			return nil, fmt.Errorf("attribute %q: unknown entity %q", d.Name, d.Type)
		}
		p.Element = ElementOneToMany
		if d.Element == "many-to-many" {
			p.Element = ElementManyToMany
		}
		p.ElementType = e
	default:
		return nil, fmt.Errorf("attribute %q: unknown element kind %q", d.Name, d.Element)
	}
	return p, nil
}

func (r *Registry) basicTypeOf(d AttributeDecl) (*BasicType, error) {
	kind, ok := ParseBasicKind(d.Type)
	if !ok {
		return nil, fmt.Errorf("attribute %q: unknown basic type %q", d.Name, d.Type)
	}
	return r.basics[kind], nil
}
