// Package metrics provides Prometheus metrics export for the conversation,
// generation and build subsystems.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Exporter exports service metrics in Prometheus format.
type Exporter struct {
	registry *prometheus.Registry

	// Conversation metrics
	conversationsStarted prometheus.Counter
	conversationsEnded   prometheus.Counter
	conversationsActive  prometheus.Gauge
	messages             *prometheus.CounterVec
	messageLatency       prometheus.Histogram
	stepTransitions      *prometheus.CounterVec

	// Extraction metrics
	analyzeRequests *prometheus.CounterVec

	// Generation and build metrics
	appsGenerated *prometheus.CounterVec
	buildsStarted *prometheus.CounterVec
}

// Config configures the exporter.
type Config struct {
	// Registry to use (if nil, creates a new one)
	Registry *prometheus.Registry

	// Buckets for latency histograms (in seconds)
	LatencyBuckets []float64
}

// DefaultConfig returns default exporter configuration.
func DefaultConfig() Config {
	return Config{
		LatencyBuckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}
}

// NewExporter creates a new Prometheus metrics exporter.
func NewExporter(cfg Config) *Exporter {
	if len(cfg.LatencyBuckets) == 0 {
		cfg.LatencyBuckets = DefaultConfig().LatencyBuckets
	}
	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	e := &Exporter{registry: registry}

	e.conversationsStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "voiceforge",
		Subsystem: "conversation",
		Name:      "started_total",
		Help:      "Total number of conversations started",
	})
	e.conversationsEnded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "voiceforge",
		Subsystem: "conversation",
		Name:      "ended_total",
		Help:      "Total number of conversations explicitly ended",
	})
	e.conversationsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "voiceforge",
		Subsystem: "conversation",
		Name:      "active",
		Help:      "Number of live conversations in the store",
	})
	e.messages = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "voiceforge",
		Subsystem: "conversation",
		Name:      "messages_total",
		Help:      "Total conversation messages appended",
	}, []string{"role"})
	e.messageLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "voiceforge",
		Subsystem: "conversation",
		Name:      "message_latency_seconds",
		Help:      "send_message handling latency in seconds",
		Buckets:   cfg.LatencyBuckets,
	})
	e.stepTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "voiceforge",
		Subsystem: "conversation",
		Name:      "step_transitions_total",
		Help:      "State machine transitions by resulting step",
	}, []string{"step"})
	e.analyzeRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "voiceforge",
		Subsystem: "extractor",
		Name:      "analyze_requests_total",
		Help:      "Stateless analyze requests by response type",
	}, []string{"response_type"})
	e.appsGenerated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "voiceforge",
		Subsystem: "generator",
		Name:      "apps_total",
		Help:      "Generated apps by platform",
	}, []string{"platform"})
	e.buildsStarted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "voiceforge",
		Subsystem: "build",
		Name:      "started_total",
		Help:      "Simulated platform builds started",
	}, []string{"platform"})

	registry.MustRegister(
		e.conversationsStarted,
		e.conversationsEnded,
		e.conversationsActive,
		e.messages,
		e.messageLatency,
		e.stepTransitions,
		e.analyzeRequests,
		e.appsGenerated,
		e.buildsStarted,
	)
	return e
}

// Handler returns the HTTP handler serving the metrics endpoint.
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

func (e *Exporter) ConversationStarted() { e.conversationsStarted.Inc() }
func (e *Exporter) ConversationEnded()   { e.conversationsEnded.Inc() }

func (e *Exporter) SetActiveConversations(n int) {
	e.conversationsActive.Set(float64(n))
}

// MessageAppended records one appended message for the given role.
func (e *Exporter) MessageAppended(role string) {
	e.messages.WithLabelValues(role).Inc()
}

// ObserveMessageLatency records how long one send_message call took.
func (e *Exporter) ObserveMessageLatency(d time.Duration) {
	e.messageLatency.Observe(d.Seconds())
}

// StepTransition records the resulting step of a state machine advance.
func (e *Exporter) StepTransition(step string) {
	e.stepTransitions.WithLabelValues(step).Inc()
}

// AnalyzeRequest records one stateless analyze call by response type.
func (e *Exporter) AnalyzeRequest(responseType string) {
	e.analyzeRequests.WithLabelValues(responseType).Inc()
}

// AppGenerated records a generated app per selected platform.
func (e *Exporter) AppGenerated(platforms []string) {
	for _, p := range platforms {
		e.appsGenerated.WithLabelValues(p).Inc()
	}
}

// BuildStarted records simulated platform builds kicked off.
func (e *Exporter) BuildStarted(platforms []string) {
	for _, p := range platforms {
		e.buildsStarted.WithLabelValues(p).Inc()
	}
}
