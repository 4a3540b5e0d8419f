package metric_test

import (
	"testing"
	"time"

	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/qerr"
	"github.com/hibernate/hibernate-semantic-query-sub003/pkg/metric"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalysis(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metric.New(reg)
	require.NoError(t, err)

	m.Analysis(time.Millisecond, 2, nil)
	m.Analysis(time.Millisecond, 1, nil)
	m.Analysis(time.Millisecond, 0, qerr.Semantic("bad"))
	m.Analysis(time.Millisecond, 0, qerr.StrictViolation(qerr.ImplicitSelect, "no select"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Analyses("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Analyses("semantic")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Analyses("strict-violation")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ImplicitJoins()))
	n, err := testutil.GatherAndCount(reg, "sqm_analyses_total")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	m.Split(2)
	m.Split(5)
	n, err = testutil.GatherAndCount(reg, "sqm_analysis_duration_seconds", "sqm_implicit_joins_total", "sqm_split_statements")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := metric.New(reg)
	require.NoError(t, err)
	_, err = metric.New(reg)
	assert.Error(t, err)
}

func TestNilMetrics(t *testing.T) {
	var m *metric.Metrics
	m.Analysis(time.Second, 1, nil)
	m.Split(3)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", metric.Outcome(nil))
	assert.Equal(t, "internal", metric.Outcome(qerr.Internal("boom")))
	assert.Equal(t, "not-yet-implemented", metric.Outcome(qerr.NotYetImplemented("x")))
	assert.Equal(t, "syntax", metric.Outcome(qerr.Syntax(0, 1, "x")))
}
