package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tryon"

// Outcome labels for processed frames.
const (
	OutcomeFace       = "face"
	OutcomeNoFace     = "no_face"
	OutcomeNoImage    = "no_image"
	OutcomeDecode     = "decode_failed"
	OutcomeUnexpected = "unexpected"
)

type IMetrics interface {
	ObserveFrame(outcome string, elapsed time.Duration)
	ObserveOracle(elapsed time.Duration, err error)
	ConnectionOpened()
	ConnectionClosed()
	Handler() http.Handler
}

type metrics struct {
	registry          *prometheus.Registry
	frames            *prometheus.CounterVec
	frameDuration     prometheus.Histogram
	oracleDuration    prometheus.Histogram
	oracleErrors      prometheus.Counter
	activeConnections prometheus.Gauge
}

func New() IMetrics {
	registry := prometheus.NewRegistry()

	m := &metrics{
		registry: registry,
		frames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Frames processed, by outcome.",
		}, []string{"outcome"}),
		frameDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_duration_seconds",
			Help:      "Time from receiving a frame to having its response ready.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		}),
		oracleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "landmark_request_duration_seconds",
			Help:      "Round trip time of landmark service requests, including time queued behind other frames.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		}),
		oracleErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "landmark_request_errors_total",
			Help:      "Failed landmark service requests.",
		}),
		activeConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_connections",
			Help:      "Open client websocket connections.",
		}),
	}

	registry.MustRegister(
		m.frames,
		m.frameDuration,
		m.oracleDuration,
		m.oracleErrors,
		m.activeConnections,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

func (m *metrics) ObserveFrame(outcome string, elapsed time.Duration) {
	m.frames.WithLabelValues(outcome).Inc()
	m.frameDuration.Observe(elapsed.Seconds())
}

func (m *metrics) ObserveOracle(elapsed time.Duration, err error) {
	m.oracleDuration.Observe(elapsed.Seconds())
	if err != nil {
		m.oracleErrors.Inc()
	}
}

func (m *metrics) ConnectionOpened() {
	m.activeConnections.Inc()
}

func (m *metrics) ConnectionClosed() {
	m.activeConnections.Dec()
}

func (m *metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
