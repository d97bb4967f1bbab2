package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "georef",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "georef",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	// Addon gateway metrics
	AddonCommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "georef",
		Subsystem: "addon",
		Name:      "commands_total",
		Help:      "Total addon commands executed",
	}, []string{"command", "outcome"})

	AddonCommandDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "georef",
		Subsystem: "addon",
		Name:      "command_duration_seconds",
		Help:      "Addon command round-trip time",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"command"})

	// CRS resolution metrics
	CRSLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "georef",
		Subsystem: "crs",
		Name:      "lookups_total",
		Help:      "Total CRS source lookups",
	}, []string{"source", "outcome"})

	TransformsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "georef",
		Subsystem: "crs",
		Name:      "transforms_total",
		Help:      "Total coordinate transforms",
	}, []string{"outcome"})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)

		return err
	}
}

// Handler returns a Fiber handler serving the Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}
