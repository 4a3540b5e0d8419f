package parser

import (
	"strconv"
	"strings"

	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/ast"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/qerr"
)

func (p *parser) expr() (ast.Expr, error) {
	return p.or()
}

func (p *parser) or() (ast.Expr, error) {
	lhs, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.accept("or") {
		rhs, err := p.and()
		if err != nil {
			return nil, err
		}
		lhs = newBinary("or", lhs, rhs)
	}
	return lhs, nil
}

func (p *parser) and() (ast.Expr, error) {
	lhs, err := p.not()
	if err != nil {
		return nil, err
	}
	for p.accept("and") {
		rhs, err := p.not()
		if err != nil {
			return nil, err
		}
		lhs = newBinary("and", lhs, rhs)
	}
	return lhs, nil
}

func (p *parser) not() (ast.Expr, error) {
	if t := p.peek(); t.is("not") {
		p.next()
		e, err := p.not()
		if err != nil {
			return nil, err
		}
		return &ast.Not{Kind: "Not", Expr: e, Loc: ast.NewLoc(t.pos, e.End())}, nil
	}
	return p.predicate()
}

func newBinary(op string, lhs, rhs ast.Expr) *ast.BinaryExpr {
	return &ast.BinaryExpr{
		Kind: "BinaryExpr",
		Op:   op,
		LHS:  lhs,
		RHS:  rhs,
		Loc:  ast.NewLoc(lhs.Pos(), rhs.End()),
	}
}

var comparisons = map[string]string{
	"=": "=", "<>": "<>", "!=": "<>", "<": "<", "<=": "<=", ">": ">", ">=": ">=",
}

func (p *parser) predicate() (ast.Expr, error) {
	lhs, err := p.additive()
	if err != nil {
		return nil, err
	}
	t := p.peek()
	if t.code == opToken {
		if op, ok := comparisons[t.text]; ok {
			p.next()
			rhs, err := p.additive()
			if err != nil {
				return nil, err
			}
			return newBinary(op, lhs, rhs), nil
		}
		return lhs, nil
	}
	if t.is("is") {
		p.next()
		not := p.accept("not")
		switch {
		case p.accept("null"):
			return &ast.IsNull{Kind: "IsNull", Not: not, Expr: lhs, Loc: ast.NewLoc(lhs.Pos(), p.prevEnd())}, nil
		case p.accept("empty"):
			return &ast.IsEmpty{Kind: "IsEmpty", Not: not, Expr: lhs, Loc: ast.NewLoc(lhs.Pos(), p.prevEnd())}, nil
		}
		return nil, p.expected("null or empty")
	}
	not := false
	if t.is("not") {
		switch n := p.peekN(1); {
		case n.is("between"), n.is("like"), n.is("in"), n.is("member"):
			p.next()
			not = true
		default:
			return lhs, nil
		}
	}
	switch {
	case p.accept("between"):
		lower, err := p.additive()
		if err != nil {
			return nil, err
		}
		if err := p.expect("and"); err != nil {
			return nil, err
		}
		upper, err := p.additive()
		if err != nil {
			return nil, err
		}
		return &ast.Between{
			Kind:  "Between",
			Not:   not,
			Expr:  lhs,
			Lower: lower,
			Upper: upper,
			Loc:   ast.NewLoc(lhs.Pos(), p.prevEnd()),
		}, nil
	case p.accept("like"):
		pattern, err := p.additive()
		if err != nil {
			return nil, err
		}
		like := &ast.Like{Kind: "Like", Not: not, Expr: lhs, Pattern: pattern}
		if p.accept("escape") {
			if like.Escape, err = p.additive(); err != nil {
				return nil, err
			}
		}
		like.Loc = ast.NewLoc(lhs.Pos(), p.prevEnd())
		return like, nil
	case p.accept("in"):
		return p.inPredicate(lhs, not)
	case p.accept("member"):
		p.accept("of")
		collection, err := p.path()
		if err != nil {
			return nil, err
		}
		return &ast.MemberOf{
			Kind:       "MemberOf",
			Not:        not,
			Elem:       lhs,
			Collection: collection,
			Loc:        ast.NewLoc(lhs.Pos(), p.prevEnd()),
		}, nil
	}
	return lhs, nil
}

func (p *parser) inPredicate(lhs ast.Expr, not bool) (ast.Expr, error) {
	in := &ast.In{Kind: "In", Not: not, Expr: lhs}
	if t := p.peek(); t.code == paramToken {
		param, err := p.param()
		if err != nil {
			return nil, err
		}
		in.List = []ast.Expr{param}
		in.Loc = ast.NewLoc(lhs.Pos(), p.prevEnd())
		return in, nil
	}
	open := p.peek()
	if err := p.expectOp("("); err != nil {
		return nil, err
	}
	if t := p.peek(); t.is("select") || t.is("from") {
		q, err := p.querySpec()
		if err != nil {
			return nil, err
		}
		if err := p.expectOp(")"); err != nil {
			return nil, err
		}
		in.Subquery = &ast.Subquery{Kind: "Subquery", Query: q, Loc: ast.NewLoc(open.pos, p.prevEnd())}
	} else {
		for {
			e, err := p.additive()
			if err != nil {
				return nil, err
			}
			in.List = append(in.List, e)
			if !p.acceptOp(",") {
				break
			}
		}
		if err := p.expectOp(")"); err != nil {
			return nil, err
		}
	}
	in.Loc = ast.NewLoc(lhs.Pos(), p.prevEnd())
	return in, nil
}

func (p *parser) additive() (ast.Expr, error) {
	lhs, err := p.multiplicative()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if !t.isOp("+") && !t.isOp("-") && !t.isOp("||") {
			return lhs, nil
		}
		p.next()
		rhs, err := p.multiplicative()
		if err != nil {
			return nil, err
		}
		lhs = newBinary(t.text, lhs, rhs)
	}
}

func (p *parser) multiplicative() (ast.Expr, error) {
	lhs, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if !t.isOp("*") && !t.isOp("/") && !t.isOp("%") {
			return lhs, nil
		}
		p.next()
		rhs, err := p.unary()
		if err != nil {
			return nil, err
		}
		lhs = newBinary(t.text, lhs, rhs)
	}
}

func (p *parser) unary() (ast.Expr, error) {
	t := p.peek()
	if t.isOp("+") || t.isOp("-") {
		p.next()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{
			Kind:    "UnaryExpr",
			Op:      t.text,
			Operand: operand,
			Loc:     ast.NewLoc(t.pos, operand.End()),
		}, nil
	}
	return p.primary()
}

func (p *parser) primary() (ast.Expr, error) {
	t := p.peek()
	switch t.code {
	case stringToken:
		p.next()
		return &ast.Literal{Kind: "Literal", Type: "string", Text: unquote(t), Loc: ast.NewLoc(t.pos, t.end)}, nil
	case numberToken:
		p.next()
		return &ast.Literal{Kind: "Literal", Type: numberType(t.text), Text: t.text, Loc: ast.NewLoc(t.pos, t.end)}, nil
	case paramToken:
		return p.param()
	case opToken:
		if t.text == "(" {
			return p.parenthesized()
		}
		return nil, p.unexpected()
	case identToken:
		return p.identExpr()
	}
	return nil, p.unexpected()
}

func (p *parser) parenthesized() (ast.Expr, error) {
	open := p.next()
	if t := p.peek(); t.is("select") || t.is("from") {
		q, err := p.querySpec()
		if err != nil {
			return nil, err
		}
		if err := p.expectOp(")"); err != nil {
			return nil, err
		}
		return &ast.Subquery{Kind: "Subquery", Query: q, Loc: ast.NewLoc(open.pos, p.prevEnd())}, nil
	}
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	if err := p.expectOp(")"); err != nil {
		return nil, err
	}
	return &ast.Paren{Kind: "Paren", Expr: e, Loc: ast.NewLoc(open.pos, p.prevEnd())}, nil
}

func (p *parser) identExpr() (ast.Expr, error) {
	t := p.peek()
	lower := strings.ToLower(t.text)
	call := p.peekN(1).isOp("(")
	switch lower {
	case "true", "false", "null":
		p.next()
		return &ast.Literal{Kind: "Literal", Type: lower, Text: lower, Loc: ast.NewLoc(t.pos, t.end)}, nil
	case "current_date", "current_time", "current_timestamp":
		p.next()
		if call {
			p.next()
			if err := p.expectOp(")"); err != nil {
				return nil, err
			}
		}
		return &ast.Call{Kind: "Call", Name: lower, Loc: ast.NewLoc(t.pos, p.prevEnd())}, nil
	case "treat":
		if call {
			return p.treatPath()
		}
	case "type":
		if call {
			return p.typeExpr()
		}
	}
	if call && aggregates[lower] {
		return p.aggregate()
	}
	if call {
		return p.call()
	}
	if isReserved(t) {
		return nil, p.unexpected()
	}
	path, err := p.path()
	if err != nil {
		return nil, err
	}
	if !p.acceptOp("[") {
		return path, nil
	}
	index, err := p.expr()
	if err != nil {
		return nil, err
	}
	if err := p.expectOp("]"); err != nil {
		return nil, err
	}
	return &ast.IndexPath{
		Kind:  "IndexPath",
		Path:  path,
		Index: index,
		Loc:   ast.NewLoc(path.Pos(), p.prevEnd()),
	}, nil
}

// treatPath parses treat(path as Type) and an optional dereference of the
// downcast such as treat(p as Employee).salary.
func (p *parser) treatPath() (ast.Expr, error) {
	treat, err := p.treat()
	if err != nil {
		return nil, err
	}
	if !p.peek().isOp(".") {
		return treat, nil
	}
	path := &ast.Path{Kind: "Path", Base: treat}
	for p.acceptOp(".") {
		seg, err := p.identifier("identifier")
		if err != nil {
			return nil, err
		}
		path.Parts = append(path.Parts, seg.text)
	}
	path.Loc = ast.NewLoc(treat.Pos(), p.prevEnd())
	return path, nil
}

func (p *parser) typeExpr() (ast.Expr, error) {
	start := p.next().pos
	p.next()
	arg, err := p.primary()
	if err != nil {
		return nil, err
	}
	if err := p.expectOp(")"); err != nil {
		return nil, err
	}
	return &ast.TypeExpr{Kind: "TypeExpr", Arg: arg, Loc: ast.NewLoc(start, p.prevEnd())}, nil
}

func (p *parser) aggregate() (ast.Expr, error) {
	name := p.next()
	p.next()
	agg := &ast.Agg{Kind: "Agg", Name: strings.ToLower(name.text), Distinct: p.accept("distinct")}
	if agg.Name == "count" && !agg.Distinct && p.peek().isOp("*") {
		p.next()
	} else {
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		agg.Expr = e
	}
	if err := p.expectOp(")"); err != nil {
		return nil, err
	}
	agg.Loc = ast.NewLoc(name.pos, p.prevEnd())
	return agg, nil
}

func (p *parser) call() (ast.Expr, error) {
	name := p.next()
	p.next()
	call := &ast.Call{Kind: "Call", Name: name.text}
	if !p.peek().isOp(")") {
		for {
			e, err := p.expr()
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, e)
			if !p.acceptOp(",") {
				break
			}
		}
	}
	if err := p.expectOp(")"); err != nil {
		return nil, err
	}
	call.Loc = ast.NewLoc(name.pos, p.prevEnd())
	return call, nil
}

func (p *parser) param() (ast.Expr, error) {
	t := p.next()
	param := &ast.Param{Kind: "Param", Loc: ast.NewLoc(t.pos, t.end)}
	if strings.HasPrefix(t.text, ":") {
		param.Name = t.text[1:]
		return param, nil
	}
	n, err := strconv.Atoi(t.text[1:])
	if err != nil {
		return nil, qerr.Syntax(t.pos, t.end, "positional parameter %q requires an ordinal", t.text)
	}
	param.Position = n
	return param, nil
}

// numberType classifies a numeric literal by its suffix and form.
func numberType(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.HasSuffix(lower, "bi"):
		return "bigint"
	case strings.HasSuffix(lower, "bd"):
		return "bigdecimal"
	case strings.HasSuffix(lower, "l"):
		return "long"
	case strings.HasSuffix(lower, "d"):
		return "double"
	case strings.HasSuffix(lower, "f"):
		return "float"
	case strings.ContainsAny(lower, ".e"):
		return "decimal"
	}
	return "int"
}

func unquote(t token) string {
	if t.code != stringToken {
		return t.text
	}
	s := t.text[1 : len(t.text)-1]
	return strings.ReplaceAll(s, "''", "'")
}
