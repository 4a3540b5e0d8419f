package srcfiles

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorList is a list of Errors.
type ErrorList []*Error

func (e *ErrorList) Append(list *List, msg string, pos, end int) {
	*e = append(*e, &Error{Msg: msg, Pos: pos, End: end, list: list})
}

// Error concatenates the errors in e with a newline between each.
func (e ErrorList) Error() string {
	var b strings.Builder
	for i, err := range e {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(err.Error())
	}
	return b.String()
}

// Error is a message located in the source text.  End is -1 for errors
// that point at a single offset.
type Error struct {
	Msg  string
	Pos  int
	End  int
	list *List
	err  error
}

// Locate binds err to l when err carries a source span (see Span) and
// returns err unchanged otherwise.  The returned error unwraps to err.
func (l *List) Locate(err error) error {
	var s spanner
	if err == nil || !errors.As(err, &s) {
		return err
	}
	pos, end := s.Span()
	if pos < 0 || pos > len(l.Text) {
		return err
	}
	return &Error{Msg: err.Error(), Pos: pos, End: end, list: l, err: err}
}

type spanner interface {
	Span() (int, int)
}

func (e *Error) Unwrap() error {
	return e.err
}

func (e *Error) Error() string {
	if e.list == nil || len(e.list.Text) == 0 {
		return e.Msg
	}
	file := e.list.FileOf(e.Pos)
	start := file.Position(e.Pos)
	var b strings.Builder
	b.WriteString(e.Msg)
	if file.Name != "" {
		fmt.Fprintf(&b, " in %s", file.Name)
	}
	line := file.LineOfPos(e.list.Text, e.Pos)
	fmt.Fprintf(&b, " at line %d, column %d:\n%s\n", start.Line, start.Column, line)
	if e.End > e.Pos {
		end := file.Position(e.End - 1)
		n := end.Column - start.Column + 1
		if start.Line != end.Line {
			n = len(line) - start.Column + 1
		}
		b.WriteString(strings.Repeat(" ", start.Column-1))
		b.WriteString(strings.Repeat("~", max(n, 1)))
	} else {
		b.WriteString(strings.Repeat(" ", start.Column-1))
		b.WriteString("^")
	}
	return b.String()
}
