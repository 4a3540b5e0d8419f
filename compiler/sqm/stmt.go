package sqm

import (
	"github.com/hibernate/hibernate-semantic-query-sub003/domain"
)

// Statement is the root of a semantic tree.
type Statement interface {
	// Params lists parameter occurrences in analysis order.
	Params() []*Parameter
	statementNode()
}

type StatementKind int

const (
	KindSelect StatementKind = iota
	KindUpdate
	KindDelete
	KindInsertSelect
)

func (k StatementKind) String() string {
	switch k {
	case KindSelect:
		return "select"
	case KindUpdate:
		return "update"
	case KindDelete:
		return "delete"
	case KindInsertSelect:
		return "insert"
	}
	return "unknown"
}

func KindOf(s Statement) StatementKind {
	switch s.(type) {
	case *UpdateStatement:
		return KindUpdate
	case *DeleteStatement:
		return KindDelete
	case *InsertSelectStatement:
		return KindInsertSelect
	}
	return KindSelect
}

type (
	SelectStatement struct {
		Query      *QuerySpec
		OrderBy    *OrderByClause
		Parameters []*Parameter
	}
	// UpdateStatement is versioned when the update also increments the
	// entity version.
	UpdateStatement struct {
		Versioned  bool
		Root       *Root
		Set        *SetClause
		Where      *WhereClause
		Parameters []*Parameter
	}
	DeleteStatement struct {
		Root       *Root
		Where      *WhereClause
		Parameters []*Parameter
	}
	// InsertSelectStatement inserts the rows produced by Query into the
	// state fields of Target.  The number of state fields equals the
	// number of selections.
	InsertSelectStatement struct {
		Target      *Root
		StateFields []*AttributeRef
		Query       *QuerySpec
		Parameters  []*Parameter
	}
)

func (s *SelectStatement) Params() []*Parameter       { return s.Parameters }
func (s *UpdateStatement) Params() []*Parameter       { return s.Parameters }
func (s *DeleteStatement) Params() []*Parameter       { return s.Parameters }
func (s *InsertSelectStatement) Params() []*Parameter { return s.Parameters }

func (*SelectStatement) statementNode()       {}
func (*UpdateStatement) statementNode()       {}
func (*DeleteStatement) statementNode()       {}
func (*InsertSelectStatement) statementNode() {}

// QuerySpec is a select-from-where block shared by top-level selects,
// subqueries, and insert-select.
type QuerySpec struct {
	From    *FromClause
	Select  *SelectClause
	Where   *WhereClause
	GroupBy *GroupByClause
	Having  *HavingClause
}

type SelectClause struct {
	Distinct   bool
	Selections []*Selection
}

// Selection is one item of a select clause.  Expr may be a
// DynamicInstantiation.  Alias is the result variable or empty.
type Selection struct {
	Expr  Expression
	Alias string
}

type WhereClause struct {
	Predicate Predicate
}

type GroupByClause struct {
	Exprs []Expression
}

type HavingClause struct {
	Predicate Predicate
}

type SortOrder int

const (
	Unspecified SortOrder = iota
	Ascending
	Descending
)

func (o SortOrder) String() string {
	switch o {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	}
	return ""
}

type SortSpecification struct {
	Expr      Expression
	Collation string
	Order     SortOrder
}

type OrderByClause struct {
	Specs []*SortSpecification
}

type SetClause struct {
	Assignments []*Assignment
}

type Assignment struct {
	Target *AttributeRef
	Value  Expression
}

// ResultType is the type of the single selection of q or nil.
func (q *QuerySpec) ResultType() domain.Type {
	if q.Select == nil || len(q.Select.Selections) != 1 {
		return nil
	}
	return q.Select.Selections[0].Expr.ExpressionType()
}
