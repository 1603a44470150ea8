package prerender

import (
	"github.com/prometheus/client_golang/prometheus"

	"storesite/internal/model"
)

// Metrics counts prerender outcomes.
type Metrics struct {
	pagesRendered prometheus.Counter
	pagesSkipped  prometheus.Counter
	fetchFailures *prometheus.CounterVec
	buildDuration prometheus.Histogram
}

// NewMetrics registers the prerender collectors on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		pagesRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "prerender_pages_rendered_total",
			Help: "Total number of routes written to disk.",
		}),
		pagesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "prerender_pages_skipped_total",
			Help: "Total number of routes skipped because rendering failed.",
		}),
		fetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "prerender_catalog_fallbacks_total",
			Help: "Catalog collections served from a fallback source instead of the API.",
		}, []string{"collection", "source"}),
		buildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "prerender_build_duration_seconds",
			Help:    "Duration of full prerender builds.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	for _, c := range []prometheus.Collector{m.pagesRendered, m.pagesSkipped, m.fetchFailures, m.buildDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observeCatalog(cat *model.Catalog) {
	if m == nil || cat == nil {
		return
	}
	for collection, src := range map[string]model.Source{
		"menu":      cat.MenuSource,
		"services":  cat.ServiceSource,
		"locations": cat.LocationSource,
	} {
		if src != model.SourceAPI {
			m.fetchFailures.WithLabelValues(collection, string(src)).Inc()
		}
	}
}
