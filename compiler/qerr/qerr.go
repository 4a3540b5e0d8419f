// Package qerr classifies the errors produced by query analysis.  A syntax
// error means the query text could not be parsed, a semantic
// error is a problem with the user's query, a strict violation is a query
// that is valid HQL but not valid JPQL, an internal error is a bug in the
// analyzer, and a not-yet-implemented error marks a feature combination the
// analyzer refuses to translate.
package qerr

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindSemantic
	KindStrictViolation
	KindInternal
	KindNotYetImplemented
	KindSyntax
)

func (k Kind) String() string {
	switch k {
	case KindSemantic:
		return "semantic"
	case KindStrictViolation:
		return "strict-violation"
	case KindInternal:
		return "internal"
	case KindNotYetImplemented:
		return "not-yet-implemented"
	case KindSyntax:
		return "syntax"
	}
	return "unknown"
}

type ViolationType string

const (
	ImplicitSelect       ViolationType = "IMPLICIT_SELECT"
	AliasedFetchJoin     ViolationType = "ALIASED_FETCH_JOIN"
	UnmappedPolymorphism ViolationType = "UNMAPPED_POLYMORPHISM"
)

// Positioned is implemented by errors that point into the query text.
// Pos and End are byte offsets; End is -1 when only a point is known.
type Positioned interface {
	error
	Span() (int, int)
}

type SemanticError struct {
	Msg string
	Pos int
	End int
}

// Semantic returns a *SemanticError without position information.
func Semantic(format string, args ...any) *SemanticError {
	return &SemanticError{Msg: fmt.Sprintf(format, args...), Pos: -1, End: -1}
}

// SemanticAt returns a *SemanticError spanning [pos, end] of the query text.
func SemanticAt(pos, end int, format string, args ...any) *SemanticError {
	return &SemanticError{Msg: fmt.Sprintf(format, args...), Pos: pos, End: end}
}

func (e *SemanticError) Error() string    { return e.Msg }
func (e *SemanticError) Span() (int, int) { return e.Pos, e.End }

// SyntaxError reports query text that does not parse.
type SyntaxError struct {
	Msg string
	Pos int
	End int
}

func Syntax(pos, end int, format string, args ...any) *SyntaxError {
	return &SyntaxError{Msg: fmt.Sprintf(format, args...), Pos: pos, End: end}
}

func (e *SyntaxError) Error() string    { return "syntax error: " + e.Msg }
func (e *SyntaxError) Span() (int, int) { return e.Pos, e.End }

func IsSyntax(err error) bool {
	var se *SyntaxError
	return errors.As(err, &se)
}

type StrictViolationError struct {
	SemanticError
	Violation ViolationType
}

func StrictViolation(v ViolationType, format string, args ...any) *StrictViolationError {
	return &StrictViolationError{
		SemanticError: SemanticError{Msg: fmt.Sprintf(format, args...), Pos: -1, End: -1},
		Violation:     v,
	}
}

func (e *StrictViolationError) Error() string {
	return fmt.Sprintf("strict JPQL compliance violation (%s): %s", e.Violation, e.Msg)
}

// InternalError signals an analyzer invariant violation.  It carries the
// stack of the point of failure.
type InternalError struct {
	Err error
}

func Internal(format string, args ...any) *InternalError {
	return &InternalError{Err: pkgerrors.WithStack(fmt.Errorf(format, args...))}
}

func (e *InternalError) Error() string { return "internal parsing error: " + e.Err.Error() }
func (e *InternalError) Unwrap() error { return e.Err }

// StackTrace exposes the captured stack in the github.com/pkg/errors format.
func (e *InternalError) StackTrace() pkgerrors.StackTrace {
	var st interface{ StackTrace() pkgerrors.StackTrace }
	if errors.As(e.Err, &st) {
		return st.StackTrace()
	}
	return nil
}

type NotYetImplementedError struct {
	Feature string
}

func NotYetImplemented(feature string) *NotYetImplementedError {
	return &NotYetImplementedError{Feature: feature}
}

func (e *NotYetImplementedError) Error() string {
	return "not yet implemented: " + e.Feature
}

// IsSemantic is true for semantic errors including strict violations.
func IsSemantic(err error) bool {
	var se *SemanticError
	var sv *StrictViolationError
	return errors.As(err, &se) || errors.As(err, &sv)
}

func IsStrictViolation(err error) bool {
	var sv *StrictViolationError
	return errors.As(err, &sv)
}

// Violation returns the violation type of a strict violation in err's chain.
func Violation(err error) (ViolationType, bool) {
	var sv *StrictViolationError
	if errors.As(err, &sv) {
		return sv.Violation, true
	}
	return "", false
}

func IsInternal(err error) bool {
	var ie *InternalError
	return errors.As(err, &ie)
}

func IsNotYetImplemented(err error) bool {
	var ne *NotYetImplementedError
	return errors.As(err, &ne)
}

// KindOf classifies err.  Strict violations are reported as such even
// though they also satisfy IsSemantic.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case IsStrictViolation(err):
		return KindStrictViolation
	case IsSemantic(err):
		return KindSemantic
	case IsInternal(err):
		return KindInternal
	case IsNotYetImplemented(err):
		return KindNotYetImplemented
	case IsSyntax(err):
		return KindSyntax
	}
	return KindUnknown
}

// SpanOf returns the query text span of err if it carries one.
func SpanOf(err error) (int, int, bool) {
	var p Positioned
	if errors.As(err, &p) {
		pos, end := p.Span()
		if pos >= 0 {
			return pos, end, true
		}
	}
	return 0, 0, false
}
