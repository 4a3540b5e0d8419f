package ast

import (
	"github.com/hibernate/hibernate-semantic-query-sub003/pkg/field"
)

type (
	// Path is a dotted identifier path.  Base is set when the path
	// continues from a treat(), e.g., treat(p as Employee).salary.
	Path struct {
		Kind  string     `json:"kind" unpack:""`
		Base  *Treat     `json:"base"`
		Parts field.Path `json:"parts"`
		Loc   `json:"loc"`
	}
	// IndexPath is an indexed collection reference such as p.phones[0].
	IndexPath struct {
		Kind  string `json:"kind" unpack:""`
		Path  *Path  `json:"path"`
		Index Expr   `json:"index"`
		Loc   `json:"loc"`
	}
	Treat struct {
		Kind string `json:"kind" unpack:""`
		Expr *Path  `json:"expr"`
		Type *Name  `json:"type"`
		Loc  `json:"loc"`
	}
	// Literal holds the token text.  Type is one of string, char, int,
	// long, bigint, float, double, decimal, bigdecimal, true, false, or
	// null.
	Literal struct {
		Kind string `json:"kind" unpack:""`
		Type string `json:"type"`
		Text string `json:"text"`
		Loc  `json:"loc"`
	}
	Param struct {
		Kind     string `json:"kind" unpack:""`
		Name     string `json:"name"`
		Position int    `json:"position"`
		Loc      `json:"loc"`
	}
	UnaryExpr struct {
		Kind    string `json:"kind" unpack:""`
		Op      string `json:"op"`
		Operand Expr   `json:"operand"`
		Loc     `json:"loc"`
	}
	// BinaryExpr covers arithmetic (+, -, *, /, %), concatenation (||),
	// comparison (=, <>, <, <=, >, >=), and logical (and, or) operators.
	BinaryExpr struct {
		Kind string `json:"kind" unpack:""`
		Op   string `json:"op"`
		LHS  Expr   `json:"lhs"`
		RHS  Expr   `json:"rhs"`
		Loc  `json:"loc"`
	}
	Call struct {
		Kind string `json:"kind" unpack:""`
		Name string `json:"name"`
		Args []Expr `json:"args"`
		Loc  `json:"loc"`
	}
	Agg struct {
		Kind     string `json:"kind" unpack:""`
		Name     string `json:"name"`
		Distinct bool   `json:"distinct"`
		// Expr is nil for count(*).
		Expr Expr `json:"expr"`
		Loc  `json:"loc"`
	}
	TypeExpr struct {
		Kind string `json:"kind" unpack:""`
		Arg  Expr   `json:"arg"`
		Loc  `json:"loc"`
	}
	Subquery struct {
		Kind  string     `json:"kind" unpack:""`
		Query *QuerySpec `json:"query"`
		Loc   `json:"loc"`
	}
	// New is a dynamic instantiation: new list(...), new map(...), or
	// new some.Class(...).
	New struct {
		Kind   string        `json:"kind" unpack:""`
		Target *Name         `json:"target"`
		Args   []*SelectItem `json:"args"`
		Loc    `json:"loc"`
	}
	Paren struct {
		Kind string `json:"kind" unpack:""`
		Expr Expr   `json:"expr"`
		Loc  `json:"loc"`
	}
	Not struct {
		Kind string `json:"kind" unpack:""`
		Expr Expr   `json:"expr"`
		Loc  `json:"loc"`
	}
	Between struct {
		Kind  string `json:"kind" unpack:""`
		Not   bool   `json:"not"`
		Expr  Expr   `json:"expr"`
		Lower Expr   `json:"lower"`
		Upper Expr   `json:"upper"`
		Loc   `json:"loc"`
	}
	Like struct {
		Kind    string `json:"kind" unpack:""`
		Not     bool   `json:"not"`
		Expr    Expr   `json:"expr"`
		Pattern Expr   `json:"pattern"`
		Escape  Expr   `json:"escape"`
		Loc     `json:"loc"`
	}
	// In tests membership in List or, when Subquery is set, in the rows
	// of a subquery.
	In struct {
		Kind     string    `json:"kind" unpack:""`
		Not      bool      `json:"not"`
		Expr     Expr      `json:"expr"`
		List     []Expr    `json:"list"`
		Subquery *Subquery `json:"subquery"`
		Loc      `json:"loc"`
	}
	IsNull struct {
		Kind string `json:"kind" unpack:""`
		Not  bool   `json:"not"`
		Expr Expr   `json:"expr"`
		Loc  `json:"loc"`
	}
	IsEmpty struct {
		Kind string `json:"kind" unpack:""`
		Not  bool   `json:"not"`
		Expr Expr   `json:"expr"`
		Loc  `json:"loc"`
	}
	MemberOf struct {
		Kind       string `json:"kind" unpack:""`
		Not        bool   `json:"not"`
		Elem       Expr   `json:"elem"`
		Collection *Path  `json:"collection"`
		Loc        `json:"loc"`
	}
)

func (*Path) ExprAST()       {}
func (*IndexPath) ExprAST()  {}
func (*Treat) ExprAST()      {}
func (*Literal) ExprAST()    {}
func (*Param) ExprAST()      {}
func (*UnaryExpr) ExprAST()  {}
func (*BinaryExpr) ExprAST() {}
func (*Call) ExprAST()       {}
func (*Agg) ExprAST()        {}
func (*TypeExpr) ExprAST()   {}
func (*Subquery) ExprAST()   {}
func (*New) ExprAST()        {}
func (*Paren) ExprAST()      {}
func (*Not) ExprAST()        {}
func (*Between) ExprAST()    {}
func (*Like) ExprAST()       {}
func (*In) ExprAST()         {}
func (*IsNull) ExprAST()     {}
func (*IsEmpty) ExprAST()    {}
func (*MemberOf) ExprAST()   {}
