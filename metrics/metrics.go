/*
Package metrics exports the counters of recompute passes as Prometheus
metrics.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package metrics

import (
	"io"
	"time"

	"github.com/npillmayer/restyle/engine"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

// Recorder accumulates engine metrics in Prometheus collectors.
type Recorder struct {
	events   *prometheus.CounterVec
	passes   prometheus.Counter
	visited  prometheus.Histogram
	duration prometheus.Histogram
}

// NewRecorder creates a recorder and registers its collectors with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		events: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "restyle",
			Name:      "engine_events_total",
			Help:      "Recompute decisions by kind",
		}, []string{"event"}),
		passes: f.NewCounter(prometheus.CounterOpts{
			Namespace: "restyle",
			Name:      "recompute_passes_total",
			Help:      "Number of recompute passes",
		}),
		visited: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "restyle",
			Name:      "recompute_visited_nodes",
			Help:      "Nodes visited per recompute pass",
			Buckets:   []float64{1, 10, 100, 1000, 10000, 100000},
		}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "restyle",
			Name:      "recompute_duration_seconds",
			Help:      "Recompute duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10), // 10µs to ~2.6s
		}),
	}
}

// Observe records the counters of one recompute pass.
func (r *Recorder) Observe(m *engine.Metrics) {
	r.passes.Inc()
	r.visited.Observe(float64(m.Visited))
	for _, c := range m.Counters() {
		r.events.WithLabelValues(c.Name).Add(float64(c.Value))
	}
}

// ObserveDuration records the duration of one recompute pass.
func (r *Recorder) ObserveDuration(d time.Duration) {
	r.duration.Observe(d.Seconds())
}

// WriteText writes all metrics gathered by g in the Prometheus text
// exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	mfs, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
