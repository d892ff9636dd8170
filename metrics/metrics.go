// Package metrics counts the work of extraction runs. The registry is
// written to a node_exporter textfile at the end of a run.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/revelaction/svorel/extract"
	"github.com/revelaction/svorel/relation"
)

const (
	statusOK     = "ok"
	statusFailed = "failed"
)

type Metrics struct {
	Registry *prometheus.Registry

	// Documents counts processed documents, labeled by status.
	Documents *prometheus.CounterVec

	Sentences  prometheus.Counter
	Productive prometheus.Counter

	// Tuples counts emitted tuples, labeled by kind.
	Tuples *prometheus.CounterVec

	DocumentDuration prometheus.Histogram
}

// New registers the metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		Documents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "svorel_documents_total",
				Help: "Total number of documents processed",
			},
			[]string{"status"},
		),
		Sentences: factory.NewCounter(prometheus.CounterOpts{
			Name: "svorel_sentences_total",
			Help: "Total number of sentences walked",
		}),
		Productive: factory.NewCounter(prometheus.CounterOpts{
			Name: "svorel_productive_sentences_total",
			Help: "Sentences that yielded at least one tuple",
		}),
		Tuples: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "svorel_tuples_total",
				Help: "Total number of tuples emitted",
			},
			[]string{"kind"},
		),
		DocumentDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "svorel_document_duration_seconds",
			Help:    "Time spent loading and extracting one document",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		}),
	}
}

// ObserveDocument records the outcome of one document.
func (m *Metrics) ObserveDocument(sum extract.Summary, d time.Duration, err error) {
	m.DocumentDuration.Observe(d.Seconds())

	if err != nil {
		m.Documents.WithLabelValues(statusFailed).Inc()
		return
	}

	m.Documents.WithLabelValues(statusOK).Inc()
	m.Sentences.Add(float64(sum.Sentences))
	m.Productive.Add(float64(sum.Productive))
	for _, k := range relation.Kinds() {
		m.Tuples.WithLabelValues(k.String()).Add(float64(sum.Tuples[k]))
	}
}

// WriteTextfile writes the registry in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
