package sqm

import (
	"math/big"

	"github.com/hibernate/hibernate-semantic-query-sub003/domain"
)

type LiteralKind int

const (
	LitString LiteralKind = iota
	LitChar
	LitInt
	LitLong
	LitBigInt
	LitFloat
	LitDouble
	LitBigDecimal
	LitTrue
	LitFalse
	LitNull
)

func (k LiteralKind) String() string {
	switch k {
	case LitString:
		return "string"
	case LitChar:
		return "char"
	case LitInt:
		return "int"
	case LitLong:
		return "long"
	case LitBigInt:
		return "bigint"
	case LitFloat:
		return "float"
	case LitDouble:
		return "double"
	case LitBigDecimal:
		return "bigdecimal"
	case LitTrue, LitFalse:
		return "bool"
	case LitNull:
		return "null"
	}
	return "unknown"
}

// BasicKind maps a literal kind to the domain basic type it carries.
func (k LiteralKind) BasicKind() domain.BasicKind {
	switch k {
	case LitString:
		return domain.KindString
	case LitChar:
		return domain.KindChar
	case LitInt:
		return domain.KindInt
	case LitLong:
		return domain.KindLong
	case LitBigInt:
		return domain.KindBigInt
	case LitFloat:
		return domain.KindFloat
	case LitDouble:
		return domain.KindDouble
	case LitBigDecimal:
		return domain.KindBigDecimal
	case LitTrue, LitFalse:
		return domain.KindBool
	}
	return domain.KindNull
}

// Literal is a constant.  Value holds a string, rune, int32, int64,
// *big.Int, float32, float64, decimal.Decimal, bool, or nil according to
// Kind.  Text is the literal as written in the query.
type Literal struct {
	Kind  LiteralKind
	Value any
	Text  string
	Type  *domain.BasicType
}

func (l *Literal) ExpressionType() domain.Type {
	if l.Type == nil {
		return nil
	}
	return l.Type
}

// Copy returns a literal that shares no mutable state with l.  Decimal
// values are immutable and are shared.
func (l *Literal) Copy() *Literal {
	out := *l
	switch v := l.Value.(type) {
	case *big.Int:
		out.Value = new(big.Int).Set(v)
	}
	return &out
}
