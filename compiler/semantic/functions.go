package semantic

import (
	"strings"

	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/qerr"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/sqm"
	"github.com/hibernate/hibernate-semantic-query-sub003/domain"
)

// resultKind describes how a function's result type is derived.
type resultKind int

const (
	fixedResult resultKind = iota
	firstArgResult
)

type function struct {
	result resultKind
	kind   domain.BasicKind
	// minArgs and maxArgs bound the argument count; maxArgs < 0 means
	// unbounded.
	minArgs int
	maxArgs int
}

var functions = map[string]function{
	"lower":             {fixedResult, domain.KindString, 1, 1},
	"upper":             {fixedResult, domain.KindString, 1, 1},
	"trim":              {fixedResult, domain.KindString, 1, 1},
	"concat":            {fixedResult, domain.KindString, 2, -1},
	"substring":         {fixedResult, domain.KindString, 2, 3},
	"length":            {fixedResult, domain.KindInt, 1, 1},
	"locate":            {fixedResult, domain.KindInt, 2, 3},
	"size":              {fixedResult, domain.KindInt, 1, 1},
	"mod":               {fixedResult, domain.KindInt, 2, 2},
	"abs":               {firstArgResult, 0, 1, 1},
	"sqrt":              {fixedResult, domain.KindDouble, 1, 1},
	"current_date":      {fixedResult, domain.KindDate, 0, 0},
	"current_time":      {fixedResult, domain.KindTime, 0, 0},
	"current_timestamp": {fixedResult, domain.KindTimestamp, 0, 0},
}

// functionType returns the result type of a call of name over args.
// Functions not in the built-in table take the type of their first
// argument.
func (a *analyzer) functionType(name string, args []sqm.Expression) (domain.Type, error) {
	fn, ok := functions[strings.ToLower(name)]
	if !ok {
		if len(args) == 0 {
			return nil, qerr.Semantic("could not resolve function %q", name)
		}
		return args[0].ExpressionType(), nil
	}
	if len(args) < fn.minArgs || (fn.maxArgs >= 0 && len(args) > fn.maxArgs) {
		return nil, qerr.Semantic("function %s called with %d arguments", name, len(args))
	}
	if fn.result == firstArgResult {
		return args[0].ExpressionType(), nil
	}
	return a.model.ResolveBasicType(fn.kind), nil
}

var aggregateFuncs = map[string]sqm.AggregateFunc{
	"avg":   sqm.Avg,
	"count": sqm.Count,
	"max":   sqm.Max,
	"min":   sqm.Min,
	"sum":   sqm.Sum,
}

// aggregateType follows the JPA rules: count is long, avg is double, max
// and min keep their argument type, and sum widens integral arguments to
// long and floating arguments to double.
func (a *analyzer) aggregateType(fn sqm.AggregateFunc, arg sqm.Expression) domain.Type {
	switch fn {
	case sqm.Count, sqm.CountStar:
		return a.model.ResolveBasicType(domain.KindLong)
	case sqm.Avg:
		return a.model.ResolveBasicType(domain.KindDouble)
	case sqm.Max, sqm.Min:
		return arg.ExpressionType()
	}
	basic, ok := arg.ExpressionType().(*domain.BasicType)
	if !ok {
		return arg.ExpressionType()
	}
	switch basic.Kind {
	case domain.KindInt, domain.KindLong:
		return a.model.ResolveBasicType(domain.KindLong)
	case domain.KindFloat, domain.KindDouble:
		return a.model.ResolveBasicType(domain.KindDouble)
	}
	return basic
}
