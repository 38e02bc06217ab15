package metrics

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTPMetrics records request throughput and latency per route.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewHTTPMetrics() *HTTPMetrics {
	return &HTTPMetrics{
		requests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "epos",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		duration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "epos",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
}

// PaymentMetrics counts payment confirmation outcomes.
type PaymentMetrics struct {
	IntentsCreated prometheus.Counter
	Confirmed      prometheus.Counter
	Declined       prometheus.Counter
}

func NewPaymentMetrics() *PaymentMetrics {
	return &PaymentMetrics{
		IntentsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "epos",
			Subsystem: "payments",
			Name:      "intents_created_total",
			Help:      "Payment intents created.",
		}),
		Confirmed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "epos",
			Subsystem: "payments",
			Name:      "confirmed_total",
			Help:      "Payments confirmed successfully.",
		}),
		Declined: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "epos",
			Subsystem: "payments",
			Name:      "declined_total",
			Help:      "Payments declined by the gateway.",
		}),
	}
}

// GinMiddleware records request metrics after the handler chain runs.
func GinMiddleware(m *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if strings.TrimSpace(route) == "" {
			route = "unknown"
		}
		method := c.Request.Method
		status := statusClass(c.Writer.Status())

		m.requests.WithLabelValues(route, method, status).Inc()
		m.duration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
