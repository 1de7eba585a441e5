// Package metrics exposes pipeline counters over Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the pipeline's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	PagesProcessed *prometheus.CounterVec // method: native|ocr
	EventsExtracted prometheus.Counter
	EventsDropped   prometheus.Counter
	EventsMerged    prometheus.Counter
	CalendarOps     *prometheus.CounterVec // op, status: ok|failed
	Syncs           prometheus.Counter
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		PagesProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "coursecal_pages_processed_total",
			Help: "Pages processed, by extraction method.",
		}, []string{"method"}),
		EventsExtracted: factory.NewCounter(prometheus.CounterOpts{
			Name: "coursecal_events_extracted_total",
			Help: "Candidate events accepted after validation.",
		}),
		EventsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "coursecal_events_dropped_total",
			Help: "Extracted events dropped or flagged during validation.",
		}),
		EventsMerged: factory.NewCounter(prometheus.CounterOpts{
			Name: "coursecal_events_merged_total",
			Help: "Candidate events merged away by fingerprint deduplication.",
		}),
		CalendarOps: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "coursecal_calendar_operations_total",
			Help: "Calendar operations by type and outcome.",
		}, []string{"op", "status"}),
		Syncs: factory.NewCounter(prometheus.CounterOpts{
			Name: "coursecal_syncs_total",
			Help: "Completed sync invocations.",
		}),
	}
}

// Handler serves the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
