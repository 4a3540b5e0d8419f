// Package srcfiles tracks query source text so that errors carrying byte
// offsets can be rendered with a line, a column, and a marker under the
// offending text.
package srcfiles

import (
	"os"
	"sort"
)

// List is the source of a query.  A query may be given inline or read from
// one or more files, in which case Text is the concatenation of the files.
type List struct {
	Text   string
	Files  []File
	errors ErrorList
}

// NewList wraps inline query text.
func NewList(query string) *List {
	return &List{Text: query, Files: []File{newFile("", 0, []byte(query))}}
}

// Load reads the query text from the named files, separating them by
// newlines.
func Load(filenames ...string) (*List, error) {
	var text []byte
	var files []File
	for _, name := range filenames {
		b, err := os.ReadFile(name)
		if err != nil {
			return nil, err
		}
		if len(text) > 0 {
			text = append(text, '\n')
		}
		files = append(files, newFile(name, len(text), b))
		text = append(text, b...)
	}
	if len(files) == 0 {
		return NewList(""), nil
	}
	return &List{Text: string(text), Files: files}, nil
}

func (l *List) AddError(msg string, pos, end int) {
	l.errors.Append(l, msg, pos, end)
}

// Error returns the accumulated errors or nil.
func (l *List) Error() error {
	if len(l.errors) == 0 {
		return nil
	}
	return l.errors
}

func (l *List) FileOf(pos int) File {
	i := sort.Search(len(l.Files), func(i int) bool { return l.Files[i].start > pos }) - 1
	if i < 0 {
		i = 0
	}
	return l.Files[i]
}
