package root

import (
	"errors"

	"github.com/hibernate/hibernate-semantic-query-sub003/cli/logflags"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/srcfiles"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Command is the root of the sqm command tree.  Subcommands reach the
// shared logger and query text flags through it.
type Command struct {
	*cobra.Command
	Queries  []string
	logFlags logflags.Flags
	logger   *zap.Logger
}

var subcommands []func(*Command) *cobra.Command

// Register adds a subcommand constructor.  Subcommand packages call it
// from init.
func Register(fn func(*Command) *cobra.Command) {
	subcommands = append(subcommands, fn)
}

// New builds a fresh command tree.
func New() *Command {
	c := &Command{}
	c.Command = &cobra.Command{
		Use:   "sqm",
		Short: "analyze HQL and JPQL queries",
		Long: `
sqm parses HQL and JPQL queries and builds their Semantic Query Model
against a domain model described in YAML.  It is used to inspect how a
query resolves: which from-elements it declares, which implicit joins path
expressions introduce, and how a query over an unmapped polymorphic type
expands into one query per implementing entity.
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			logger, err := c.logFlags.Logger()
			if err != nil {
				return err
			}
			c.logger = logger
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if c.logger != nil {
				c.logger.Sync()
			}
		},
	}
	c.logFlags.SetFlags(c.PersistentFlags())
	for _, fn := range subcommands {
		c.AddCommand(fn(c))
	}
	return c
}

// SetQueryFlags adds the flags that supply query text to a subcommand.
func (c *Command) SetQueryFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&c.Queries, "query", "c", nil, "query text (may be used multiple times)")
}

// QueryText returns the queries given with -c followed by the contents of
// the files named in args, one query per file.
func (c *Command) QueryText(args []string) ([]string, error) {
	queries := append([]string(nil), c.Queries...)
	for _, name := range args {
		src, err := srcfiles.Load(name)
		if err != nil {
			return nil, err
		}
		queries = append(queries, src.Text)
	}
	if len(queries) == 0 {
		return nil, errors.New("no query: use -c or name a query file")
	}
	return queries, nil
}

func (c *Command) Logger() *zap.Logger {
	if c.logger == nil {
		return zap.NewNop()
	}
	return c.logger
}
