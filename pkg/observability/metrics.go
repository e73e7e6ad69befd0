package observability

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/hfstol/pkg/domain"
)

// Lookup outcomes used as the "outcome" label.
const (
	OutcomeAnalysed = "analysed"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Metrics holds the lookup collectors.
type Metrics struct {
	Lookups         *prometheus.CounterVec
	LookupDuration  *prometheus.HistogramVec
	AnalysesPerWord *prometheus.HistogramVec
	Loads           *prometheus.CounterVec
	CacheHits       *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg uses a fresh private registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		Lookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hfstol_lookups_total",
				Help: "Total number of lookups by analyzer and outcome",
			},
			[]string{"analyzer", "outcome"},
		),
		LookupDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hfstol_lookup_duration_seconds",
				Help:    "Duration of lookups",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"analyzer"},
		),
		AnalysesPerWord: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hfstol_analyses_per_lookup",
				Help:    "Number of analyses returned per successful lookup",
				Buckets: []float64{0, 1, 2, 4, 8, 16, 32, 64},
			},
			[]string{"analyzer"},
		),
		Loads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hfstol_loads_total",
				Help: "Total number of transducer loads by outcome",
			},
			[]string{"outcome"},
		),
		CacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hfstol_cache_hits_total",
				Help: "Lookups answered from the analysis cache",
			},
			[]string{"analyzer"},
		),
		gatherer: reg,
	}
	reg.MustRegister(m.Lookups, m.LookupDuration, m.AnalysesPerWord, m.Loads, m.CacheHits)
	return m
}

// Hooks returns lifecycle hooks recording into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnLoad:   m.onLoad,
		OnLookup: m.onLookup,
	}
}

func (m *Metrics) onLoad(_ context.Context, e *domain.LoadEvent) {
	m.Loads.WithLabelValues(loadOutcome(e.Err)).Inc()
}

func (m *Metrics) onLookup(_ context.Context, e *domain.LookupEvent) {
	outcome := OutcomeAnalysed
	switch {
	case e.Err != nil:
		outcome = OutcomeError
	case e.Analyses == 0:
		outcome = OutcomeRejected
	}
	m.Lookups.WithLabelValues(e.Analyzer, outcome).Inc()
	m.LookupDuration.WithLabelValues(e.Analyzer).Observe(e.Duration.Seconds())
	if e.Err == nil {
		m.AnalysesPerWord.WithLabelValues(e.Analyzer).Observe(float64(e.Analyses))
	}
	if e.CacheHit {
		m.CacheHits.WithLabelValues(e.Analyzer).Inc()
	}
}

func loadOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrIO):
		return "io"
	case errors.Is(err, domain.ErrTruncated):
		return "truncated"
	case errors.Is(err, domain.ErrCorrupt):
		return "corrupt"
	default:
		return "format"
	}
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
