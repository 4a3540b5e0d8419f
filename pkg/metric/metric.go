// Package metric instruments query analysis with Prometheus metrics.
package metric

import (
	"time"

	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/qerr"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "sqm"

// Metrics holds the collectors of the analysis pipeline.  A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	analyses      *prometheus.CounterVec // By outcome
	duration      prometheus.Histogram
	implicitJoins prometheus.Counter
	splitFanOut   prometheus.Histogram
}

// New creates the analysis metrics and registers them with reg when reg
// is not nil.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Total number of analyzed statements by outcome",
		}, []string{"outcome"}), // outcome: ok, syntax, semantic, strict-violation, internal, not-yet-implemented
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Duration of statement analysis in seconds",
			Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		}),
		implicitJoins: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "implicit_joins_total",
			Help:      "Total number of joins synthesized by path resolution",
		}),
		splitFanOut: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "split_statements",
			Help:      "Number of statements a polymorphic query was split into",
			Buckets:   prometheus.LinearBuckets(1, 1, 10),
		}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.analyses, m.duration, m.implicitJoins, m.splitFanOut} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Outcome is the analyses_total label value for err.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return qerr.KindOf(err).String()
}

// Analysis records one analysis that took d, synthesized implicitJoins
// joins, and ended with err.
func (m *Metrics) Analysis(d time.Duration, implicitJoins int, err error) {
	if m == nil {
		return
	}
	m.analyses.WithLabelValues(Outcome(err)).Inc()
	m.duration.Observe(d.Seconds())
	if implicitJoins > 0 {
		m.implicitJoins.Add(float64(implicitJoins))
	}
}

// Split records that a statement was split into n statements.
func (m *Metrics) Split(n int) {
	if m == nil {
		return
	}
	m.splitFanOut.Observe(float64(n))
}

// Analyses returns the analyses counter for outcome.
func (m *Metrics) Analyses(outcome string) prometheus.Counter {
	return m.analyses.WithLabelValues(outcome)
}

func (m *Metrics) ImplicitJoins() prometheus.Counter {
	return m.implicitJoins
}
