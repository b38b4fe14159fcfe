package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameHTTPRequestsTotal,
			Help:      HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      MetricNameHTTPRequestDuration,
			Help:      HelpTextHTTPRequestDuration,
			Buckets:   HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      MetricNameHTTPRequestsInFlight,
			Help:      HelpTextHTTPRequestsInFlight,
		},
	)

	HTTPRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameHTTPRejected,
			Help:      HelpTextHTTPRejected,
		},
		[]string{LabelReason},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameEventsPublished,
			Help:      HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameEventHandlerErrors,
			Help:      HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Engine Metrics
var (
	SpinsStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameSpinsStarted,
			Help:      HelpTextSpinsStarted,
		},
		[]string{LabelTheme},
	)

	SpinsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameSpinsRejected,
			Help:      HelpTextSpinsRejected,
		},
		[]string{LabelTheme, LabelReason},
	)

	SpinsFinalized = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameSpinsFinalized,
			Help:      HelpTextSpinsFinalized,
		},
		[]string{LabelTheme, LabelSource},
	)

	SpinDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      MetricNameSpinDuration,
			Help:      HelpTextSpinDuration,
			Buckets:   SpinLatencyBuckets,
		},
		[]string{LabelTheme},
	)

	OutcomeFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameOutcomeFallbacks,
			Help:      HelpTextOutcomeFallbacks,
		},
		[]string{LabelReason},
	)

	PlayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      MetricNamePlayRequestDuration,
			Help:      HelpTextPlayRequestDuration,
			Buckets:   PlayLatencyBuckets,
		},
		[]string{LabelResult},
	)

	StaleCallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameStaleCallbacks,
			Help:      HelpTextStaleCallbacks,
		},
		[]string{LabelKind},
	)

	AudioCueFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameAudioCueFailures,
			Help:      HelpTextAudioCueFailures,
		},
		[]string{LabelCue},
	)

	StreamClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      MetricNameStreamClients,
			Help:      HelpTextStreamClients,
		},
	)

	StreamDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameStreamDropped,
			Help:      HelpTextStreamDropped,
		},
		[]string{LabelType},
	)
)
