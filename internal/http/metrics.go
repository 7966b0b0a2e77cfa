package httpx

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var histogramBuckets = []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10}

func (r *Router) initMetrics() {
	r.metricsOnce.Do(func() {
		r.requestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blogartigo",
			Subsystem: "api",
			Name:      "http_requests_total",
			Help:      "Count of processed HTTP requests",
		}, []string{"method", "route", "status"})

		r.requestLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "blogartigo",
			Subsystem: "api",
			Name:      "http_request_duration_seconds",
			Help:      "Latency distribution of HTTP handlers",
			Buckets:   histogramBuckets,
		}, []string{"method", "route", "status"})

		r.rateLimitHits = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blogartigo",
			Subsystem: "api",
			Name:      "rate_limit_hits_total",
			Help:      "Number of rate-limited responses",
		}, []string{"route", "key"})

		collectors := []prometheus.Collector{r.requestTotal, r.requestLatency, r.rateLimitHits}
		for i, collector := range collectors {
			if err := prometheus.Register(collector); err != nil {
				var already prometheus.AlreadyRegisteredError
				if errors.As(err, &already) {
					switch i {
					case 0:
						r.requestTotal = already.ExistingCollector.(*prometheus.CounterVec)
					case 1:
						r.requestLatency = already.ExistingCollector.(*prometheus.HistogramVec)
					case 2:
						r.rateLimitHits = already.ExistingCollector.(*prometheus.CounterVec)
					}
					continue
				}
				r.logger.Warn("metrics collector registration failed", "error", err)
			}
		}
	})
}

func (r *Router) recordRequest(method, route string, status int, duration time.Duration) {
	if r.requestTotal == nil || r.requestLatency == nil {
		return
	}
	labels := prometheus.Labels{
		"method": method,
		"route":  route,
		"status": strconv.Itoa(status),
	}
	r.requestTotal.With(labels).Inc()
	r.requestLatency.With(labels).Observe(duration.Seconds())
}

func (r *Router) recordRateLimitHit(route, key string) {
	if r.rateLimitHits == nil {
		return
	}
	r.rateLimitHits.WithLabelValues(route, key).Inc()
}
