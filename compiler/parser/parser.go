// Package parser turns HQL and JPQL query text into the syntax tree of
// package ast.  Keywords are case insensitive; identifiers are not.
package parser

import (
	"strings"

	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/ast"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/qerr"
	"github.com/hibernate/hibernate-semantic-query-sub003/pkg/field"
)

var reserved = map[string]bool{
	"and": true, "as": true, "asc": true, "ascending": true, "between": true,
	"by": true, "collate": true, "cross": true, "delete": true, "desc": true,
	"descending": true, "distinct": true, "empty": true, "escape": true,
	"false": true, "fetch": true, "from": true, "group": true, "having": true,
	"in": true, "inner": true, "insert": true, "into": true, "is": true,
	"join": true, "left": true, "like": true, "member": true, "new": true,
	"not": true, "null": true, "of": true, "on": true, "or": true,
	"order": true, "outer": true, "right": true, "select": true, "set": true,
	"true": true, "update": true, "where": true, "with": true,
}

func isReserved(t token) bool {
	return t.code == identToken && reserved[strings.ToLower(t.text)]
}

var aggregates = map[string]bool{"avg": true, "count": true, "max": true, "min": true, "sum": true}

// ParseQuery parses a single select, update, delete, or insert statement.
// Errors are *qerr.SyntaxError values that carry the offending span.
func ParseQuery(query string) (ast.Statement, error) {
	toks, err := lex(query)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	stmt, err := p.statement()
	if err != nil {
		return nil, err
	}
	if p.peek().code != eofToken {
		return nil, p.unexpected()
	}
	return stmt, nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) peekN(n int) token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.code != eofToken {
		p.pos++
	}
	return t
}

// prevEnd is the end offset of the last consumed token.
func (p *parser) prevEnd() int {
	if p.pos == 0 {
		return 0
	}
	return p.toks[p.pos-1].end
}

func (p *parser) accept(kw string) bool {
	if p.peek().is(kw) {
		p.pos++
		return true
	}
	return false
}

func (p *parser) acceptOp(op string) bool {
	if p.peek().isOp(op) {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expect(kw string) error {
	if !p.accept(kw) {
		return p.expected(kw)
	}
	return nil
}

func (p *parser) expectOp(op string) error {
	if !p.acceptOp(op) {
		return p.expected(op)
	}
	return nil
}

func (p *parser) expected(what string) error {
	t := p.peek()
	if t.code == eofToken {
		return qerr.Syntax(t.pos, -1, "expected %s but found end of query", what)
	}
	return qerr.Syntax(t.pos, t.end, "expected %s but found %q", what, t.text)
}

func (p *parser) unexpected() error {
	t := p.peek()
	if t.code == eofToken {
		return qerr.Syntax(t.pos, -1, "unexpected end of query")
	}
	return qerr.Syntax(t.pos, t.end, "unexpected %q", t.text)
}

func (p *parser) statement() (ast.Statement, error) {
	t := p.peek()
	switch {
	case t.is("select"), t.is("from"):
		return p.selectStatement()
	case t.is("update"):
		return p.updateStatement()
	case t.is("delete"):
		return p.deleteStatement()
	case t.is("insert"):
		return p.insertStatement()
	}
	return nil, p.expected("select, from, update, delete, or insert")
}

func (p *parser) selectStatement() (*ast.SelectStatement, error) {
	start := p.peek().pos
	q, err := p.querySpec()
	if err != nil {
		return nil, err
	}
	var orderBy []*ast.SortItem
	if p.accept("order") {
		if err := p.expect("by"); err != nil {
			return nil, err
		}
		for {
			item, err := p.sortItem()
			if err != nil {
				return nil, err
			}
			orderBy = append(orderBy, item)
			if !p.acceptOp(",") {
				break
			}
		}
	}
	return &ast.SelectStatement{
		Kind:    "SelectStatement",
		Query:   q,
		OrderBy: orderBy,
		Loc:     ast.NewLoc(start, p.prevEnd()),
	}, nil
}

func (p *parser) sortItem() (*ast.SortItem, error) {
	start := p.peek().pos
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	item := &ast.SortItem{Kind: "SortItem", Expr: e}
	if p.accept("collate") {
		t := p.next()
		if t.code != identToken && t.code != stringToken {
			p.pos--
			return nil, p.expected("collation name")
		}
		item.Collation = unquote(t)
	}
	switch {
	case p.accept("asc"), p.accept("ascending"):
		item.Order = "asc"
	case p.accept("desc"), p.accept("descending"):
		item.Order = "desc"
	}
	item.Loc = ast.NewLoc(start, p.prevEnd())
	return item, nil
}

func (p *parser) querySpec() (*ast.QuerySpec, error) {
	start := p.peek().pos
	q := &ast.QuerySpec{Kind: "QuerySpec"}
	if p.peek().is("select") {
		sel, err := p.selectClause()
		if err != nil {
			return nil, err
		}
		q.Select = sel
	}
	if err := p.expect("from"); err != nil {
		return nil, err
	}
	for {
		space, err := p.fromSpace()
		if err != nil {
			return nil, err
		}
		q.From = append(q.From, space)
		if !p.acceptOp(",") {
			break
		}
	}
	if p.accept("where") {
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		q.Where = e
	}
	if p.accept("group") {
		if err := p.expect("by"); err != nil {
			return nil, err
		}
		for {
			e, err := p.expr()
			if err != nil {
				return nil, err
			}
			q.GroupBy = append(q.GroupBy, e)
			if !p.acceptOp(",") {
				break
			}
		}
	}
	if p.accept("having") {
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		q.Having = e
	}
	q.Loc = ast.NewLoc(start, p.prevEnd())
	return q, nil
}

func (p *parser) selectClause() (*ast.SelectClause, error) {
	start := p.next().pos
	sel := &ast.SelectClause{Kind: "SelectClause", Distinct: p.accept("distinct")}
	items, err := p.selectItems()
	if err != nil {
		return nil, err
	}
	sel.Items = items
	sel.Loc = ast.NewLoc(start, p.prevEnd())
	return sel, nil
}

func (p *parser) selectItems() ([]*ast.SelectItem, error) {
	var items []*ast.SelectItem
	for {
		item, err := p.selectItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if !p.acceptOp(",") {
			return items, nil
		}
	}
}

func (p *parser) selectItem() (*ast.SelectItem, error) {
	start := p.peek().pos
	var e ast.Expr
	var err error
	if p.peek().is("new") {
		e, err = p.newExpr()
	} else {
		e, err = p.expr()
	}
	if err != nil {
		return nil, err
	}
	alias, err := p.optAlias()
	if err != nil {
		return nil, err
	}
	return &ast.SelectItem{
		Kind:  "SelectItem",
		Expr:  e,
		Alias: alias,
		Loc:   ast.NewLoc(start, p.prevEnd()),
	}, nil
}

func (p *parser) newExpr() (*ast.New, error) {
	start := p.next().pos
	target, err := p.name()
	if err != nil {
		return nil, err
	}
	if err := p.expectOp("("); err != nil {
		return nil, err
	}
	args, err := p.selectItems()
	if err != nil {
		return nil, err
	}
	if err := p.expectOp(")"); err != nil {
		return nil, err
	}
	return &ast.New{
		Kind:   "New",
		Target: target,
		Args:   args,
		Loc:    ast.NewLoc(start, p.prevEnd()),
	}, nil
}

// optAlias parses "[as] identifier".
func (p *parser) optAlias() (*ast.ID, error) {
	if p.accept("as") {
		t := p.peek()
		if t.code != identToken || isReserved(t) {
			return nil, p.expected("alias")
		}
		p.next()
		return &ast.ID{Kind: "ID", Name: t.text, Loc: ast.NewLoc(t.pos, t.end)}, nil
	}
	if t := p.peek(); t.code == identToken && !isReserved(t) {
		p.next()
		return &ast.ID{Kind: "ID", Name: t.text, Loc: ast.NewLoc(t.pos, t.end)}, nil
	}
	return nil, nil
}

func (p *parser) identifier(what string) (token, error) {
	t := p.peek()
	if t.code != identToken {
		return t, p.expected(what)
	}
	return p.next(), nil
}

// name parses a possibly qualified name.  Segments after the first may be
// keywords.
func (p *parser) name() (*ast.Name, error) {
	t := p.peek()
	if t.code != identToken || isReserved(t) {
		return nil, p.expected("name")
	}
	p.next()
	path := field.Path{t.text}
	for p.peek().isOp(".") {
		p.next()
		seg, err := p.identifier("identifier")
		if err != nil {
			return nil, err
		}
		path = append(path, seg.text)
	}
	return &ast.Name{Kind: "Name", Path: path, Loc: ast.NewLoc(t.pos, p.prevEnd())}, nil
}

func (p *parser) path() (*ast.Path, error) {
	n, err := p.name()
	if err != nil {
		return nil, err
	}
	return &ast.Path{Kind: "Path", Parts: n.Path, Loc: n.Loc}, nil
}

func (p *parser) fromSpace() (*ast.FromSpace, error) {
	start := p.peek().pos
	root, err := p.rootDecl()
	if err != nil {
		return nil, err
	}
	space := &ast.FromSpace{Kind: "FromSpace", Root: root}
	for {
		t := p.peek()
		var join ast.Join
		switch {
		case t.is("cross"):
			join, err = p.crossJoin()
		case t.is("join"), t.is("inner"), t.is("left"), t.is("right"):
			join, err = p.qualifiedJoin()
		default:
			space.Loc = ast.NewLoc(start, p.prevEnd())
			return space, nil
		}
		if err != nil {
			return nil, err
		}
		space.Joins = append(space.Joins, join)
	}
}

func (p *parser) rootDecl() (*ast.RootDecl, error) {
	start := p.peek().pos
	entity, err := p.name()
	if err != nil {
		return nil, err
	}
	alias, err := p.optAlias()
	if err != nil {
		return nil, err
	}
	return &ast.RootDecl{
		Kind:   "RootDecl",
		Entity: entity,
		Alias:  alias,
		Loc:    ast.NewLoc(start, p.prevEnd()),
	}, nil
}

func (p *parser) crossJoin() (*ast.CrossJoin, error) {
	start := p.next().pos
	if err := p.expect("join"); err != nil {
		return nil, err
	}
	entity, err := p.name()
	if err != nil {
		return nil, err
	}
	alias, err := p.optAlias()
	if err != nil {
		return nil, err
	}
	return &ast.CrossJoin{
		Kind:   "CrossJoin",
		Entity: entity,
		Alias:  alias,
		Loc:    ast.NewLoc(start, p.prevEnd()),
	}, nil
}

func (p *parser) qualifiedJoin() (*ast.QualifiedJoin, error) {
	start := p.peek().pos
	join := &ast.QualifiedJoin{Kind: "QualifiedJoin", JoinKind: "inner"}
	switch {
	case p.accept("inner"):
	case p.accept("left"):
		join.JoinKind = "left"
		p.accept("outer")
	case p.accept("right"):
		join.JoinKind = "right"
		p.accept("outer")
	}
	if err := p.expect("join"); err != nil {
		return nil, err
	}
	join.Fetch = p.accept("fetch")
	var err error
	if p.peek().is("treat") && p.peekN(1).isOp("(") {
		join.Target, err = p.treat()
	} else {
		join.Target, err = p.path()
	}
	if err != nil {
		return nil, err
	}
	if join.Alias, err = p.optAlias(); err != nil {
		return nil, err
	}
	if p.accept("on") || p.accept("with") {
		if join.On, err = p.expr(); err != nil {
			return nil, err
		}
	}
	join.Loc = ast.NewLoc(start, p.prevEnd())
	return join, nil
}

func (p *parser) treat() (*ast.Treat, error) {
	start := p.next().pos
	if err := p.expectOp("("); err != nil {
		return nil, err
	}
	path, err := p.path()
	if err != nil {
		return nil, err
	}
	if err := p.expect("as"); err != nil {
		return nil, err
	}
	typ, err := p.name()
	if err != nil {
		return nil, err
	}
	if err := p.expectOp(")"); err != nil {
		return nil, err
	}
	return &ast.Treat{
		Kind: "Treat",
		Expr: path,
		Type: typ,
		Loc:  ast.NewLoc(start, p.prevEnd()),
	}, nil
}

func (p *parser) updateStatement() (*ast.UpdateStatement, error) {
	start := p.next().pos
	versioned := p.accept("versioned")
	target, err := p.rootDecl()
	if err != nil {
		return nil, err
	}
	if err := p.expect("set"); err != nil {
		return nil, err
	}
	stmt := &ast.UpdateStatement{Kind: "UpdateStatement", Versioned: versioned, Target: target}
	for {
		a, err := p.assignment()
		if err != nil {
			return nil, err
		}
		stmt.Set = append(stmt.Set, a)
		if !p.acceptOp(",") {
			break
		}
	}
	if p.accept("where") {
		if stmt.Where, err = p.expr(); err != nil {
			return nil, err
		}
	}
	stmt.Loc = ast.NewLoc(start, p.prevEnd())
	return stmt, nil
}

func (p *parser) assignment() (*ast.Assignment, error) {
	start := p.peek().pos
	lhs, err := p.path()
	if err != nil {
		return nil, err
	}
	if err := p.expectOp("="); err != nil {
		return nil, err
	}
	value, err := p.expr()
	if err != nil {
		return nil, err
	}
	return &ast.Assignment{
		Kind:  "Assignment",
		LHS:   lhs,
		Value: value,
		Loc:   ast.NewLoc(start, p.prevEnd()),
	}, nil
}

func (p *parser) deleteStatement() (*ast.DeleteStatement, error) {
	start := p.next().pos
	p.accept("from")
	target, err := p.rootDecl()
	if err != nil {
		return nil, err
	}
	stmt := &ast.DeleteStatement{Kind: "DeleteStatement", Target: target}
	if p.accept("where") {
		if stmt.Where, err = p.expr(); err != nil {
			return nil, err
		}
	}
	stmt.Loc = ast.NewLoc(start, p.prevEnd())
	return stmt, nil
}

func (p *parser) insertStatement() (*ast.InsertStatement, error) {
	start := p.next().pos
	if err := p.expect("into"); err != nil {
		return nil, err
	}
	entity, err := p.name()
	if err != nil {
		return nil, err
	}
	if err := p.expectOp("("); err != nil {
		return nil, err
	}
	stmt := &ast.InsertStatement{Kind: "InsertStatement", Entity: entity}
	for {
		path, err := p.path()
		if err != nil {
			return nil, err
		}
		stmt.Fields = append(stmt.Fields, path)
		if !p.acceptOp(",") {
			break
		}
	}
	if err := p.expectOp(")"); err != nil {
		return nil, err
	}
	if !p.peek().is("select") {
		return nil, p.expected("select")
	}
	if stmt.Query, err = p.querySpec(); err != nil {
		return nil, err
	}
	stmt.Loc = ast.NewLoc(start, p.prevEnd())
	return stmt, nil
}
