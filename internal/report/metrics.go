package report

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/psantana5/tsperf-matrix/pkg/emit"
)

// Metrics are gauges describing the last generated matrix.
// Every value is derived from a single Document.
type Metrics struct {
	mu       sync.Mutex
	registry *prometheus.Registry

	jobs       *prometheus.GaugeVec
	iterations *prometheus.GaugeVec
	collisions prometheus.Gauge
	info       *prometheus.GaugeVec
}

// NewMetrics creates the matrix gauges on a private registry
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		jobs: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tsperf_matrix_jobs",
				Help: "Jobs in the generated matrix by agent bucket and job kind",
			},
			[]string{"agent", "kind"},
		),
		iterations: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tsperf_matrix_iterations_total",
				Help: "Benchmark iterations requested by the generated matrix by job kind",
			},
			[]string{"kind"},
		),
		collisions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "tsperf_matrix_collisions",
				Help: "Jobs replaced because their sanitized names collided",
			},
		),
		info: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tsperf_matrix_info",
				Help: "Preset and mode of the generated matrix",
			},
			[]string{"preset", "baselining"},
		),
	}

	m.registry.MustRegister(m.jobs, m.iterations, m.collisions, m.info)
	return m
}

// Registry returns the registry holding the matrix gauges
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Gather collects the gauges without observing a half-recorded document
func (m *Metrics) Gather() ([]*dto.MetricFamily, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.registry.Gather()
}

// RecordDocument replaces all gauges with the values of doc.
// This is the only way the gauges change. Concurrent calls are serialized,
// so the gauges always describe exactly one document.
func (m *Metrics) RecordDocument(doc *emit.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.jobs.Reset()
	m.iterations.Reset()
	m.info.Reset()

	for _, agent := range doc.Matrix.Agents() {
		bucket := doc.Matrix.Bucket(agent)
		if bucket.Len() == 0 {
			m.jobs.WithLabelValues(string(agent), "").Set(0)
			continue
		}
		for _, job := range bucket.Jobs() {
			m.jobs.WithLabelValues(string(agent), string(job.Kind)).Inc()
			m.iterations.WithLabelValues(string(job.Kind)).Add(float64(job.Iterations))
		}
	}

	m.collisions.Set(float64(len(doc.Collisions)))

	baselining := "false"
	if doc.Baselining {
		baselining = "true"
	}
	m.info.WithLabelValues(doc.Preset, baselining).Set(1)
}
