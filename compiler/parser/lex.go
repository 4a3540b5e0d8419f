package parser

import (
	"strings"

	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/qerr"
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

const (
	whitespaceToken = iota
	stringToken
	paramToken
	numberToken
	identToken
	opToken
	eofToken
)

var (
	whitespaceMatcher = parsly.NewToken(whitespaceToken, "Whitespace", matcher.NewWhiteSpace())
	stringMatcher     = parsly.NewToken(stringToken, "String", &quotedMatch{quote: '\''})
	paramMatcher      = parsly.NewToken(paramToken, "Parameter", &paramMatch{})
	numberMatcher     = parsly.NewToken(numberToken, "Number", &numberMatch{})
	identMatcher      = parsly.NewToken(identToken, "Identifier", &identMatch{})
	opMatcher         = parsly.NewToken(opToken, "Operator", &opMatch{})
)

type token struct {
	code int
	text string
	pos  int
	end  int
}

// is reports whether t is the keyword kw.  Keyword matching is case
// insensitive.
func (t token) is(kw string) bool {
	return t.code == identToken && strings.EqualFold(t.text, kw)
}

func (t token) isOp(op string) bool {
	return t.code == opToken && t.text == op
}

func lex(src string) ([]token, error) {
	cursor := parsly.NewCursor("", []byte(src), 0)
	var toks []token
	for {
		matched := cursor.MatchAfterOptional(whitespaceMatcher, stringMatcher, paramMatcher, numberMatcher, identMatcher, opMatcher)
		switch matched.Code {
		case parsly.EOF:
			return append(toks, token{code: eofToken, pos: len(src), end: len(src)}), nil
		case stringToken, paramToken, numberToken, identToken, opToken:
		default:
			pos := cursor.Pos
			for pos < len(src) && isSpace(src[pos]) {
				pos++
			}
			if pos >= len(src) {
				return append(toks, token{code: eofToken, pos: len(src), end: len(src)}), nil
			}
			if src[pos] == '\'' {
				return nil, qerr.Syntax(pos, -1, "unterminated string literal")
			}
			return nil, qerr.Syntax(pos, -1, "unexpected character %q", src[pos])
		}
		text := matched.Text(cursor)
		end := cursor.Pos
		toks = append(toks, token{code: matched.Code, text: text, pos: end - len(text), end: end})
	}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}

func isIdentStart(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' || b == '$' || b >= 0x80
}

func isIdentPart(b byte) bool {
	return isIdentStart(b) || isDigit(b)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

type identMatch struct{}

func (*identMatch) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	if pos >= cursor.InputSize || !isIdentStart(input[pos]) {
		return 0
	}
	end := pos + 1
	for end < cursor.InputSize && isIdentPart(input[end]) {
		end++
	}
	return end - pos
}

// quotedMatch matches a quoted literal in which the quote character is
// escaped by doubling it.
type quotedMatch struct {
	quote byte
}

func (m *quotedMatch) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	if pos >= cursor.InputSize || input[pos] != m.quote {
		return 0
	}
	for i := pos + 1; i < cursor.InputSize; i++ {
		if input[i] != m.quote {
			continue
		}
		if i+1 < cursor.InputSize && input[i+1] == m.quote {
			i++
			continue
		}
		return i + 1 - pos
	}
	return 0
}

// paramMatch matches ":name" and "?N".
type paramMatch struct{}

func (*paramMatch) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	if pos+1 >= cursor.InputSize {
		return 0
	}
	end := pos + 1
	switch input[pos] {
	case ':':
		if !isIdentStart(input[end]) {
			return 0
		}
		for end < cursor.InputSize && isIdentPart(input[end]) {
			end++
		}
	case '?':
		for end < cursor.InputSize && isDigit(input[end]) {
			end++
		}
	default:
		return 0
	}
	return end - pos
}

// numberMatch matches integer and decimal literals with an optional
// exponent and an optional type suffix (L, BI, D, F, BD).
type numberMatch struct{}

func (*numberMatch) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	size := cursor.InputSize
	pos := cursor.Pos
	end := pos
	for end < size && isDigit(input[end]) {
		end++
	}
	if end == pos {
		return 0
	}
	if end+1 < size && input[end] == '.' && isDigit(input[end+1]) {
		end += 2
		for end < size && isDigit(input[end]) {
			end++
		}
	}
	if end < size && (input[end] == 'e' || input[end] == 'E') {
		k := end + 1
		if k < size && (input[k] == '+' || input[k] == '-') {
			k++
		}
		if k < size && isDigit(input[k]) {
			for k < size && isDigit(input[k]) {
				k++
			}
			end = k
		}
	}
	for _, suffix := range []string{"bi", "bd", "l", "d", "f"} {
		n := len(suffix)
		if end+n <= size && strings.EqualFold(string(input[end:end+n]), suffix) {
			if end+n == size || !isIdentPart(input[end+n]) {
				return end + n - pos
			}
		}
	}
	if end < size && isIdentStart(input[end]) {
		return 0
	}
	return end - pos
}

var operators = []string{"<>", "!=", "<=", ">=", "||", "=", "<", ">", "+", "-", "*", "/", "%", "(", ")", "[", "]", ",", "."}

type opMatch struct{}

func (*opMatch) Match(cursor *parsly.Cursor) int {
	rest := cursor.Input[cursor.Pos:cursor.InputSize]
	for _, op := range operators {
		if len(rest) >= len(op) && string(rest[:len(op)]) == op {
			return len(op)
		}
	}
	return 0
}
