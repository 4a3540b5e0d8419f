package semantic

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/ast"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/qerr"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/sqm"
	"github.com/shopspring/decimal"
)

var literalKinds = map[string]sqm.LiteralKind{
	"string":     sqm.LitString,
	"char":       sqm.LitChar,
	"int":        sqm.LitInt,
	"long":       sqm.LitLong,
	"bigint":     sqm.LitBigInt,
	"float":      sqm.LitFloat,
	"decimal":    sqm.LitFloat,
	"double":     sqm.LitDouble,
	"bigdecimal": sqm.LitBigDecimal,
	"true":       sqm.LitTrue,
	"false":      sqm.LitFalse,
	"null":       sqm.LitNull,
}

// semLiteral interprets the text of a literal according to its kind.  A
// numeric literal that does not fit its kind is a semantic error.
func (a *analyzer) semLiteral(lit *ast.Literal) (*sqm.Literal, error) {
	kind, ok := literalKinds[lit.Type]
	if !ok {
		return nil, qerr.Internal("unknown literal type %q", lit.Type)
	}
	value, err := literalValue(kind, lit.Text)
	if err != nil {
		return nil, qerr.SemanticAt(lit.Pos(), lit.End(), "could not interpret %s literal %q: %s", kind, lit.Text, err)
	}
	return &sqm.Literal{
		Kind:  kind,
		Value: value,
		Text:  lit.Text,
		Type:  a.model.ResolveBasicType(kind.BasicKind()),
	}, nil
}

func literalValue(kind sqm.LiteralKind, text string) (any, error) {
	switch kind {
	case sqm.LitString:
		return text, nil
	case sqm.LitChar:
		r := []rune(text)
		if len(r) != 1 {
			return nil, strconv.ErrSyntax
		}
		return r[0], nil
	case sqm.LitInt:
		n, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return nil, unwrapNumError(err)
		}
		return int32(n), nil
	case sqm.LitLong:
		n, err := strconv.ParseInt(trimSuffix(text, "l"), 10, 64)
		if err != nil {
			return nil, unwrapNumError(err)
		}
		return n, nil
	case sqm.LitBigInt:
		n, ok := new(big.Int).SetString(trimSuffix(text, "bi"), 10)
		if !ok {
			return nil, strconv.ErrSyntax
		}
		return n, nil
	case sqm.LitFloat:
		f, err := strconv.ParseFloat(trimSuffix(text, "f"), 32)
		if err != nil {
			return nil, unwrapNumError(err)
		}
		return float32(f), nil
	case sqm.LitDouble:
		f, err := strconv.ParseFloat(trimSuffix(text, "d"), 64)
		if err != nil {
			return nil, unwrapNumError(err)
		}
		return f, nil
	case sqm.LitBigDecimal:
		return decimal.NewFromString(trimSuffix(text, "bd"))
	case sqm.LitTrue:
		return true, nil
	case sqm.LitFalse:
		return false, nil
	}
	return nil, nil
}

// trimSuffix removes a case-insensitive type suffix.
func trimSuffix(text, suffix string) string {
	if strings.HasSuffix(strings.ToLower(text), suffix) {
		return text[:len(text)-len(suffix)]
	}
	return text
}

func unwrapNumError(err error) error {
	if ne, ok := err.(*strconv.NumError); ok {
		return ne.Err
	}
	return err
}
