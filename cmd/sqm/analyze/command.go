package analyze

import (
	"fmt"

	"github.com/hibernate/hibernate-semantic-query-sub003/cli/modelflags"
	"github.com/hibernate/hibernate-semantic-query-sub003/cmd/sqm/root"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/sfmt"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/sqm"
	"github.com/kr/pretty"
	"github.com/spf13/cobra"
)

func init() {
	root.Register(New)
}

type Command struct {
	*root.Command
	model modelflags.Flags
	split bool
	ast   bool
}

func New(parent *root.Command) *cobra.Command {
	c := &Command{Command: parent}
	cmd := &cobra.Command{
		Use:   "analyze --model file [ options ] [ -c query ] [ file ... ]",
		Short: "print the semantic tree of a query",
		Long: `
The analyze command builds the Semantic Query Model of each query against
the domain model named by --model and prints it as canonical query text.
Generated identification variables appear as <gen:N> and joins introduced
by path expressions are marked implicit.

With --split, a query whose root is an unmapped polymorphic type is expanded
into one query per implementing entity.  With --ast, the parse tree of each
query is printed before its semantic tree.  Statements are separated by
lines containing "---".
`,
		RunE: c.Run,
	}
	c.model.SetFlags(cmd.Flags())
	cmd.Flags().BoolVar(&c.split, "split", false, "expand queries over unmapped polymorphic types")
	cmd.Flags().BoolVar(&c.ast, "ast", false, "print the parse tree of each query")
	parent.SetQueryFlags(cmd)
	return cmd
}

func (c *Command) Run(cmd *cobra.Command, args []string) error {
	queries, err := c.QueryText(args)
	if err != nil {
		return err
	}
	model, err := c.model.Open()
	if err != nil {
		return err
	}
	comp := compiler.New(model, compiler.WithLogger(c.Logger()))
	w := cmd.OutOrStdout()
	var n int
	emit := func(s string) {
		if n > 0 {
			fmt.Fprint(w, "---\n")
		}
		fmt.Fprintln(w, s)
		n++
	}
	for _, query := range queries {
		if c.ast {
			parsed, err := compiler.Parse(query)
			if err != nil {
				return err
			}
			emit(fmt.Sprintf("%# v", pretty.Formatter(parsed)))
		}
		stmt, err := comp.Analyze(query)
		if err != nil {
			return err
		}
		stmts := []sqm.Statement{stmt}
		if c.split {
			if stmts, err = comp.Split(stmt); err != nil {
				return err
			}
		}
		for _, s := range stmts {
			emit(sfmt.SQM(s))
		}
	}
	return nil
}
