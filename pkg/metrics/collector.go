// Package metrics exports Prometheus metrics for outgoing API requests.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	swhttp "github.com/milan604/swretail-go/pkg/http"
)

// Collector holds the request metrics. It implements swhttp.Observer, so it
// can be passed to swhttp.WithObserver or swretail.WithMetrics.
type Collector struct {
	reqCount   *prometheus.CounterVec
	reqDurHist *prometheus.HistogramVec
	inFlight   prometheus.Gauge
	registry   *prometheus.Registry
}

var _ swhttp.Observer = (*Collector)(nil)

// NewCollector creates and registers the request metrics on a private
// registry.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	reqCount := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swretail_requests_total",
			Help: "Total number of SWRetail API requests by outcome",
		},
		[]string{"method", "outcome", "status"},
	)
	reqDurHist := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "swretail_request_duration_seconds",
			Help:    "Histogram of SWRetail API request durations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
	inFlight := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "swretail_requests_in_flight",
		Help: "Current number of in-flight SWRetail API requests",
	})

	reg.MustRegister(reqCount, reqDurHist, inFlight)

	return &Collector{
		reqCount:   reqCount,
		reqDurHist: reqDurHist,
		inFlight:   inFlight,
		registry:   reg,
	}
}

// Started marks a request as in flight.
func (c *Collector) Started(string) {
	c.inFlight.Inc()
}

// Finished records the outcome of a request. status is "0" when no response
// was received.
func (c *Collector) Finished(method string, kind swhttp.Kind, statusCode int, elapsed time.Duration) {
	c.inFlight.Dec()
	c.reqCount.WithLabelValues(method, kind.String(), strconv.Itoa(statusCode)).Inc()
	c.reqDurHist.WithLabelValues(method).Observe(elapsed.Seconds())
}

// Registry returns the registry the metrics live in.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the metrics in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
