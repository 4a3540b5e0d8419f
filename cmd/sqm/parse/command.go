package parse

import (
	"fmt"

	"github.com/hibernate/hibernate-semantic-query-sub003/cmd/sqm/root"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler"
	"github.com/kr/pretty"
	"github.com/spf13/cobra"
)

func init() {
	root.Register(New)
}

func New(parent *root.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [ -c query ] [ file ... ]",
		Short: "print the parse tree of a query",
		Long: `
The parse command parses each query and prints its parse tree without
consulting a domain model.  Syntax errors are reported with the line and
column of the offending text.
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			queries, err := parent.QueryText(args)
			if err != nil {
				return err
			}
			for k, query := range queries {
				stmt, err := compiler.Parse(query)
				if err != nil {
					return err
				}
				if k > 0 {
					fmt.Fprint(cmd.OutOrStdout(), "---\n")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%# v\n", pretty.Formatter(stmt))
			}
			return nil
		},
	}
	parent.SetQueryFlags(cmd)
	return cmd
}
