// Package metrics exposes parser and upload counters to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/insightdelivered/transcript-gwa/internal/models"
)

// Metrics holds the collectors registered for the service.
type Metrics struct {
	registry *prometheus.Registry

	LinesScanned     prometheus.Counter
	LinesMatched     prometheus.Counter
	RecordsExtracted prometheus.Counter
	FallbackUnits    prometheus.Counter
	LineFailures     prometheus.Counter
	Uploads          *prometheus.CounterVec
	Reports          prometheus.Counter
	ActiveSessions   prometheus.Gauge
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		LinesScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "transcript_lines_scanned_total",
			Help: "Page lines read by the transcript parser.",
		}),
		LinesMatched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "transcript_lines_matched_total",
			Help: "Lines accepted by the course line classifier.",
		}),
		RecordsExtracted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "transcript_records_extracted_total",
			Help: "Course records kept after extraction and filtering.",
		}),
		FallbackUnits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "transcript_fallback_units_total",
			Help: "Records whose units came from the fallback default.",
		}),
		LineFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "transcript_line_failures_total",
			Help: "Classified lines skipped because extraction failed.",
		}),
		Uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "transcript_uploads_total",
			Help: "Uploads by outcome.",
		}, []string{"outcome"}),
		Reports: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "transcript_reports_rendered_total",
			Help: "PDF reports rendered.",
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "transcript_active_sessions",
			Help: "Sessions currently held in memory.",
		}),
	}

	reg.MustRegister(
		m.LinesScanned,
		m.LinesMatched,
		m.RecordsExtracted,
		m.FallbackUnits,
		m.LineFailures,
		m.Uploads,
		m.Reports,
		m.ActiveSessions,
	)
	return m
}

// ObserveParse adds one parse run's counters.
func (m *Metrics) ObserveParse(s models.ParseStats) {
	if m == nil {
		return
	}
	m.LinesScanned.Add(float64(s.LinesScanned))
	m.LinesMatched.Add(float64(s.LinesMatched))
	m.RecordsExtracted.Add(float64(s.RecordsExtracted))
	m.FallbackUnits.Add(float64(s.FallbackUnits))
	m.LineFailures.Add(float64(s.LineFailures))
}

// ObserveUpload counts an upload by outcome label.
func (m *Metrics) ObserveUpload(outcome string) {
	if m == nil {
		return
	}
	m.Uploads.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
