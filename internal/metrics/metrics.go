package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's Prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	Predictions         *prometheus.CounterVec
	PredictedRecords    prometheus.Counter
	ChurnRate           prometheus.Histogram
	ChatRequests        *prometheus.CounterVec
	ReportsGenerated    *prometheus.CounterVec
	PDFCacheHits        prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "churnradar_http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "churnradar_http_request_duration_seconds",
				Help:    "Latency of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		Predictions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "churnradar_predictions_total",
				Help: "Total number of scored uploads.",
			},
			[]string{"model", "result"},
		),
		PredictedRecords: f.NewCounter(prometheus.CounterOpts{
			Name: "churnradar_predicted_records_total",
			Help: "Total number of customer rows scored.",
		}),
		ChurnRate: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "churnradar_upload_churn_rate_percent",
			Help:    "Churn rate of each scored upload.",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		}),
		ChatRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "churnradar_chat_requests_total",
				Help: "Total number of chat requests.",
			},
			[]string{"channel", "result"},
		),
		ReportsGenerated: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "churnradar_reports_generated_total",
				Help: "Total number of generated reports.",
			},
			[]string{"format"},
		),
		PDFCacheHits: f.NewCounter(prometheus.CounterOpts{
			Name: "churnradar_pdf_cache_hits_total",
			Help: "PDF reports served from cache.",
		}),
	}
}

// RecordPrediction records one scored upload.
func (m *Metrics) RecordPrediction(model string, records int, churnRate float64) {
	m.Predictions.WithLabelValues(model, "ok").Inc()
	m.PredictedRecords.Add(float64(records))
	m.ChurnRate.Observe(churnRate)
}

func (m *Metrics) RecordPredictionFailure(model string) {
	m.Predictions.WithLabelValues(model, "error").Inc()
}

func (m *Metrics) RecordChat(channel string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.ChatRequests.WithLabelValues(channel, result).Inc()
}

// Middleware counts requests by matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
