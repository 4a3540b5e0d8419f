// Package compiler is the entry point to query analysis.  It parses HQL
// and JPQL text, builds the Semantic Query Model of parsed or criteria
// statements, and splits statements over unmapped polymorphic types.
package compiler

import (
	"time"

	"github.com/hashicorp/golang-lru/arc/v2"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/ast"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/parser"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/qerr"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/semantic"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/split"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/sqm"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/srcfiles"
	"github.com/hibernate/hibernate-semantic-query-sub003/criteria"
	"github.com/hibernate/hibernate-semantic-query-sub003/domain"
	"github.com/hibernate/hibernate-semantic-query-sub003/pkg/metric"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"
)

type Option func(*Compiler)

func WithLogger(logger *zap.Logger) Option {
	return func(c *Compiler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithMetrics(m *metric.Metrics) Option {
	return func(c *Compiler) {
		c.metrics = m
	}
}

// WithParseCache keeps the parse trees of the size most valuable query
// texts so that analyzing a query again skips parsing.  Parse trees are
// never modified by analysis.  A size that is not positive disables the
// cache with a warning.
func WithParseCache(size int) Option {
	return func(c *Compiler) {
		c.cacheSize = size
	}
}

// Compiler analyzes statements against one domain model.  It holds no
// per-statement state and may be used concurrently.
type Compiler struct {
	model   domain.Model
	logger  *zap.Logger
	metrics *metric.Metrics
	parses  *arc.ARCCache[string, ast.Statement]

	cacheSize int
}

func New(model domain.Model, opts ...Option) *Compiler {
	c := &Compiler{model: model, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	if c.cacheSize != 0 {
		cache, err := arc.NewARC[string, ast.Statement](c.cacheSize)
		if err != nil {
			c.logger.Warn("Parse cache disabled", zap.Int("size", c.cacheSize), zap.Error(err))
		} else {
			c.parses = cache
		}
	}
	return c
}

// Parse parses query text.  Syntax errors are rendered against the text.
func Parse(query string) (ast.Statement, error) {
	stmt, err := parser.ParseQuery(query)
	if err != nil {
		return nil, srcfiles.NewList(query).Locate(err)
	}
	return stmt, nil
}

// Analyze parses query and builds its semantic tree.  Errors that point
// into the query are rendered with a line, a column, and a marker.
func (c *Compiler) Analyze(query string) (sqm.Statement, error) {
	src := srcfiles.NewList(query)
	stmt, err := c.analyze(func(opts []semantic.Option) (sqm.Statement, error) {
		parsed, err := c.parse(query)
		if err != nil {
			return nil, err
		}
		return semantic.Analyze(parsed, c.model, opts...)
	}, zap.String("query", query))
	return stmt, src.Locate(err)
}

func (c *Compiler) parse(query string) (ast.Statement, error) {
	if c.parses == nil {
		return parser.ParseQuery(query)
	}
	if stmt, ok := c.parses.Get(query); ok {
		return stmt, nil
	}
	stmt, err := parser.ParseQuery(query)
	if err != nil {
		return nil, err
	}
	c.parses.Add(query, stmt)
	return stmt, nil
}

// AnalyzeAST builds the semantic tree of a parsed statement.
func (c *Compiler) AnalyzeAST(stmt ast.Statement) (sqm.Statement, error) {
	return c.analyze(func(opts []semantic.Option) (sqm.Statement, error) {
		return semantic.Analyze(stmt, c.model, opts...)
	})
}

// AnalyzeCriteria builds the semantic tree of a criteria statement.
func (c *Compiler) AnalyzeCriteria(stmt criteria.Statement) (sqm.Statement, error) {
	return c.analyze(func(opts []semantic.Option) (sqm.Statement, error) {
		return semantic.AnalyzeCriteria(stmt, c.model, opts...)
	}, zap.Bool("criteria", true))
}

func (c *Compiler) analyze(run func([]semantic.Option) (sqm.Statement, error), fields ...zap.Field) (sqm.Statement, error) {
	id := ksuid.New()
	logger := c.logger.With(zap.Stringer("analysis", id))
	var stats semantic.Stats
	start := time.Now()
	stmt, err := run([]semantic.Option{semantic.WithLogger(logger), semantic.WithStats(&stats)})
	elapsed := time.Since(start)
	c.metrics.Analysis(elapsed, stats.ImplicitJoins, err)
	fields = append(fields,
		zap.Duration("elapsed", elapsed),
		zap.Int("from_elements", stats.FromElements),
		zap.Int("implicit_joins", stats.ImplicitJoins))
	switch qerr.KindOf(err) {
	case qerr.KindUnknown:
		if err == nil {
			logger.Debug("Analysis succeeded", append(fields, zap.Stringer("statement", sqm.KindOf(stmt)))...)
			return stmt, nil
		}
		logger.Error("Analysis failed", append(fields, zap.Error(err))...)
	case qerr.KindInternal:
		logger.Error("Analysis failed", append(fields, zap.Error(err))...)
	default:
		logger.Info("Query rejected", append(fields, zap.Stringer("kind", qerr.KindOf(err)), zap.Error(err))...)
	}
	return nil, err
}

// Split expands stmt over the implementors of its unmapped polymorphic
// root.  Statements other than selects, and selects without such a root,
// are returned as the only element.
func (c *Compiler) Split(stmt sqm.Statement) ([]sqm.Statement, error) {
	sel, ok := stmt.(*sqm.SelectStatement)
	if !ok {
		return []sqm.Statement{stmt}, nil
	}
	stmts, err := split.Split(sel)
	if err != nil {
		c.logger.Error("Split failed", zap.Error(err))
		return nil, err
	}
	c.metrics.Split(len(stmts))
	if len(stmts) > 1 {
		c.logger.Debug("Split polymorphic query", zap.Int("statements", len(stmts)))
	}
	out := make([]sqm.Statement, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, s)
	}
	return out, nil
}

// Compile analyzes query and splits the result.
func (c *Compiler) Compile(query string) ([]sqm.Statement, error) {
	stmt, err := c.Analyze(query)
	if err != nil {
		return nil, err
	}
	return c.Split(stmt)
}
