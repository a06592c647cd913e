// Package metrics exposes Prometheus counters for the media pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SavesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "media_store",
		Name:      "saves_total",
		Help:      "Media files saved.",
	})
	SaveFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "media_store",
		Name:      "save_failures_total",
		Help:      "Media saves that failed.",
	})
	DeletesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "media_store",
		Name:      "deletes_total",
		Help:      "Media files deleted.",
	})
	SaveDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "media_store",
		Name:      "save_duration_seconds",
		Help:      "Wall time of media saves, derivatives included.",
		Buckets:   prometheus.DefBuckets,
	})
)

// Init registers collectors; call once from main.
func Init() {
	prometheus.MustRegister(SavesTotal, SaveFailuresTotal, DeletesTotal, SaveDuration)
}

// Handler serves the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
