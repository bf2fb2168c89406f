package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/mckp/core/metrics"
)

// PromSink records solver runs in Prometheus metrics.
type PromSink struct {
	runs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
	nodes    *prometheus.CounterVec
	rate     *prometheus.GaugeVec
	terms    *prometheus.GaugeVec
}

// NewPromSink registers solver metrics on the default Prometheus registerer.
// The HTTP endpoint is started separately with StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// register adds c to reg, reusing an identical collector registered earlier.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mckp_runs_total",
		Help: "Total number of solver runs",
	}, []string{"algorithm", "success"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mckp_run_duration_seconds",
		Help:    "Wall-clock time of a solver run",
		Buckets: prometheus.ExponentialBuckets(1e-5, 4, 12),
	}, []string{"algorithm"})
	nodes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mckp_search_nodes_total",
		Help: "Branch-and-bound nodes by outcome",
	}, []string{"algorithm", "outcome"})
	rate := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "mckp_last_rate",
		Help: "Rate returned by the last run of an algorithm on an instance",
	}, []string{"algorithm", "instance"})
	terms := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "mckp_preprocess_terms",
		Help: "Number of terms left after each preprocessing stage",
	}, []string{"instance", "stage"})

	var err error
	if runs, err = register(reg, runs); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	if nodes, err = register(reg, nodes); err != nil {
		return nil, err
	}
	if rate, err = register(reg, rate); err != nil {
		return nil, err
	}
	if terms, err = register(reg, terms); err != nil {
		return nil, err
	}
	return &PromSink{runs: runs, duration: duration, nodes: nodes, rate: rate, terms: terms}, nil
}

// RecordRun updates counters, the duration histogram and the rate gauge.
func (s *PromSink) RecordRun(r coremetrics.RunReport) error {
	ok := r.Error == ""
	s.runs.WithLabelValues(r.Algorithm, strconv.FormatBool(ok)).Inc()
	s.duration.WithLabelValues(r.Algorithm).Observe(r.Duration.Seconds())
	if r.Expanded > 0 || r.Pruned > 0 {
		s.nodes.WithLabelValues(r.Algorithm, "expanded").Add(float64(r.Expanded))
		s.nodes.WithLabelValues(r.Algorithm, "pruned").Add(float64(r.Pruned))
	}
	if ok {
		s.rate.WithLabelValues(r.Algorithm, r.Instance).Set(r.Rate)
	}
	return nil
}

// RecordPreprocess sets the per-stage term gauges.
func (s *PromSink) RecordPreprocess(r coremetrics.PreprocessReport) error {
	s.terms.WithLabelValues(r.Instance, "input").Set(float64(r.TermsInput))
	s.terms.WithLabelValues(r.Instance, "filtered").Set(float64(r.TermsFiltered))
	s.terms.WithLabelValues(r.Instance, "hull").Set(float64(r.TermsHull))
	return nil
}
