package sfmt

import (
	"fmt"
	"strings"
)

type formatter struct {
	strings.Builder
	indent int
	tab    int
	bol    bool
	// inline renders line breaks as spaces and suppresses indentation.
	inline bool
}

func (f *formatter) write(format string, args ...any) {
	f.indentLine()
	if len(args) == 0 {
		f.WriteString(format)
		return
	}
	fmt.Fprintf(&f.Builder, format, args...)
}

// writeString writes s verbatim.
func (f *formatter) writeString(s string) {
	f.indentLine()
	f.WriteString(s)
}

func (f *formatter) indentLine() {
	if f.bol {
		f.bol = false
		if !f.inline {
			f.WriteString(strings.Repeat(" ", f.indent))
		}
	}
}

func (f *formatter) ret() {
	if f.inline {
		f.WriteByte(' ')
		return
	}
	f.WriteByte('\n')
	f.bol = true
}

func (f *formatter) open(head ...string) {
	for _, s := range head {
		f.writeString(s)
	}
	f.indent += f.tab
}

func (f *formatter) close() {
	f.indent -= f.tab
}
