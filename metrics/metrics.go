// Package metrics exposes Prometheus instrumentation for the dashboard
// queries.
package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Query kinds used as label values.
const (
	KindMap    = "map"
	KindSeries = "series"
)

// Recorder holds the query collectors. Each Recorder registers on its own
// registry so tests can build as many as they like.
type Recorder struct {
	registry *prometheus.Registry

	queries  *prometheus.CounterVec
	empty    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	noHover  prometheus.Counter
}

func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		queries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dairy_queries_total",
			Help: "Filter queries answered, by kind",
		}, []string{"kind"}),
		empty: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dairy_empty_results_total",
			Help: "Filter queries that matched no rows, by kind",
		}, []string{"kind"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dairy_query_duration_seconds",
			Help:    "Duration of filter queries",
			Buckets: []float64{0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		}, []string{"kind"}),
		noHover: factory.NewCounter(prometheus.CounterOpts{
			Name: "dairy_hover_no_selection_total",
			Help: "Series requests whose hover event carried no country",
		}),
	}
}

// ObserveQuery records one filter call that started at start and returned
// rows records.
func (r *Recorder) ObserveQuery(kind string, start time.Time, rows int) {
	r.queries.WithLabelValues(kind).Inc()
	r.duration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	if rows == 0 {
		r.empty.WithLabelValues(kind).Inc()
	}
}

func (r *Recorder) NoSelection() {
	r.noHover.Inc()
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}
