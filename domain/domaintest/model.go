// Package domaintest provides the model fixture shared by the analyzer tests.
package domaintest

import (
	"strings"

	"github.com/hibernate/hibernate-semantic-query-sub003/domain"
)

const ModelYAML = `
embeddables:
  - name: Address
    attributes:
      - {name: street, type: string}
      - {name: city, type: string}
      - {name: zip, type: string}
entities:
  - name: Person
    class: com.acme.Person
    implements: [com.acme.Named]
    attributes:
      - {name: id, type: long}
      - {name: name, type: string}
      - {name: age, type: int}
      - {name: active, type: bool}
      - {name: address, kind: embedded, type: Address}
      - {name: nicknames, kind: set, type: string}
      - {name: spouse, kind: one-to-one, type: Person}
  - name: Employee
    class: com.acme.Employee
    super: Person
    attributes:
      - {name: salary, type: bigdecimal}
      - {name: manager, kind: many-to-one, type: Employee}
      - {name: department, kind: many-to-one, type: Department}
      - {name: reports, kind: set, element: one-to-many, type: Employee}
      - {name: phones, kind: list, type: string}
      - {name: projects, kind: bag, element: many-to-many, type: Project}
  - name: Manager
    class: com.acme.Manager
    super: Employee
    attributes:
      - {name: bonus, type: double}
  - name: Department
    class: com.acme.Department
    implements: [com.acme.Named]
    attributes:
      - {name: id, type: long}
      - {name: name, type: string}
      - {name: budget, type: bigint}
      - {name: employees, kind: set, element: one-to-many, type: Employee}
      - {name: properties, kind: map, type: string, index: string}
      - {name: location, kind: embedded, type: Address}
  - name: Project
    class: com.acme.Project
    attributes:
      - {name: id, type: long}
      - {name: title, type: string}
      - {name: payload, kind: any, type: string}
polymorphic:
  - name: com.acme.Named
  - name: java.lang.Object
    all: true
classes: [com.acme.PersonSummary]
`

// Model returns a fresh copy of the fixture model.
func Model() *domain.Registry {
	r, err := domain.Load(strings.NewReader(ModelYAML))
	if err != nil {
		panic(err)
	}
	return r
}

// StrictModel returns the fixture model with strict JPQL compliance enabled.
func StrictModel() *domain.Registry {
	r := Model()
	r.Strict = true
	return r
}
