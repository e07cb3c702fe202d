package server

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/samdwyer/endlessutopia/internal/world"
)

const metricsNamespace = "endlessutopia"

// Metrics holds the server's Prometheus collectors.
//
//   - http_request_duration_seconds{method,path,status}
//   - http_requests_inflight
//   - tiles_served_total{biome}
//   - landmark_discoveries_total
type Metrics struct {
	registry    *prometheus.Registry
	reqDuration *prometheus.HistogramVec
	reqInflight prometheus.Gauge
	tiles       *prometheus.CounterVec
	discoveries prometheus.Counter
}

// NewMetrics creates the collectors and registers them in registry.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: registry,
		reqDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"method", "path", "status"}),
		reqInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_inflight",
			Help:      "HTTP requests currently being served.",
		}),
		tiles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "tiles_served_total",
			Help:      "Tiles generated for clients, by biome.",
		}, []string{"biome"}),
		discoveries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "landmark_discoveries_total",
			Help:      "Times the landmark was seen as present.",
		}),
	}
	registry.MustRegister(m.reqDuration, m.reqInflight, m.tiles, m.discoveries)
	return m
}

// Handler returns middleware recording request metrics.
func (m *Metrics) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.reqInflight.Inc()
		defer m.reqInflight.Dec()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		status := strconv.Itoa(c.Writer.Status())
		m.reqDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}

// ObserveTile counts one tile handed to a client.
func (m *Metrics) ObserveTile(t world.Tile) {
	m.tiles.WithLabelValues(t.Biome.String()).Inc()
	if t.Biome == world.BiomeLandmarkPresent {
		m.discoveries.Inc()
	}
}

// RegisterEndpoint adds GET /metrics to r.
func (m *Metrics) RegisterEndpoint(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})))
}
