// Package ast declares the types used to represent syntax trees for HQL and
// JPQL queries.  The parser produces these trees and the semantic pass
// turns them into the Semantic Query Model.
package ast

import (
	"github.com/hibernate/hibernate-semantic-query-sub003/pkg/field"
)

type Node interface {
	Pos() int // Position of first character belonging to the node.
	End() int // Position of first character immediately after the node.
}

type Loc struct {
	First int `json:"first"`
	Last  int `json:"last"`
}

func NewLoc(pos, end int) Loc {
	return Loc{pos, end}
}

func (l Loc) Pos() int { return l.First }
func (l Loc) End() int { return l.Last }

type Statement interface {
	Node
	StatementAST()
}

type Expr interface {
	Node
	ExprAST()
}

type ID struct {
	Kind string `json:"kind" unpack:""`
	Name string `json:"name"`
	Loc  `json:"loc"`
}

type (
	SelectStatement struct {
		Kind    string      `json:"kind" unpack:""`
		Query   *QuerySpec  `json:"query"`
		OrderBy []*SortItem `json:"order_by"`
		Loc     `json:"loc"`
	}
	UpdateStatement struct {
		Kind      string        `json:"kind" unpack:""`
		Versioned bool          `json:"versioned"`
		Target    *RootDecl     `json:"target"`
		Set       []*Assignment `json:"set"`
		Where     Expr          `json:"where"`
		Loc       `json:"loc"`
	}
	DeleteStatement struct {
		Kind   string    `json:"kind" unpack:""`
		Target *RootDecl `json:"target"`
		Where  Expr      `json:"where"`
		Loc    `json:"loc"`
	}
	InsertStatement struct {
		Kind   string     `json:"kind" unpack:""`
		Entity *Name      `json:"entity"`
		Fields []*Path    `json:"fields"`
		Query  *QuerySpec `json:"query"`
		Loc    `json:"loc"`
	}
)

func (*SelectStatement) StatementAST() {}
func (*UpdateStatement) StatementAST() {}
func (*DeleteStatement) StatementAST() {}
func (*InsertStatement) StatementAST() {}

// QuerySpec is a select-from-where block.  Select is nil when the select
// clause was omitted.
type QuerySpec struct {
	Kind    string        `json:"kind" unpack:""`
	Select  *SelectClause `json:"select"`
	From    []*FromSpace  `json:"from"`
	Where   Expr          `json:"where"`
	GroupBy []Expr        `json:"group_by"`
	Having  Expr          `json:"having"`
	Loc     `json:"loc"`
}

type SelectClause struct {
	Kind     string        `json:"kind" unpack:""`
	Distinct bool          `json:"distinct"`
	Items    []*SelectItem `json:"items"`
	Loc      `json:"loc"`
}

// SelectItem is an expression with an optional result variable.  Expr may
// be a *New.
type SelectItem struct {
	Kind  string `json:"kind" unpack:""`
	Expr  Expr   `json:"expr"`
	Alias *ID    `json:"alias"`
	Loc   `json:"loc"`
}

type SortItem struct {
	Kind      string `json:"kind" unpack:""`
	Expr      Expr   `json:"expr"`
	Collation string `json:"collation"`
	Order     string `json:"order"`
	Loc       `json:"loc"`
}

type Assignment struct {
	Kind  string `json:"kind" unpack:""`
	LHS   *Path  `json:"lhs"`
	Value Expr   `json:"value"`
	Loc   `json:"loc"`
}

// Name is a possibly qualified entity or class name such as
// java.lang.Object.
type Name struct {
	Kind string     `json:"kind" unpack:""`
	Path field.Path `json:"path"`
	Loc  `json:"loc"`
}

func (n *Name) String() string {
	return n.Path.String()
}
