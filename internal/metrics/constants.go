package metrics

// ============================================================================
// Metric Names
// ============================================================================

// Namespace prefixes every engine metric
const Namespace = "reelspin"

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
	MetricNameHTTPRejected         = "http_rejected_total"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Engine metric names
const (
	MetricNameSpinsStarted        = "spins_started_total"
	MetricNameSpinsRejected       = "spins_rejected_total"
	MetricNameSpinsFinalized      = "spins_finalized_total"
	MetricNameSpinDuration        = "spin_duration_seconds"
	MetricNameOutcomeFallbacks    = "outcome_fallbacks_total"
	MetricNamePlayRequestDuration = "play_request_duration_seconds"
	MetricNameStaleCallbacks      = "stale_callbacks_total"
	MetricNameAudioCueFailures    = "audio_cue_failures_total"
	MetricNameStreamClients       = "stream_clients"
	MetricNameStreamDropped       = "stream_events_dropped_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
	HelpTextHTTPRejected         = "Requests refused by auth or rate limiting, by reason"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Engine metric help text
const (
	HelpTextSpinsStarted        = "Total number of accepted spin sessions"
	HelpTextSpinsRejected       = "Total number of refused spin requests"
	HelpTextSpinsFinalized      = "Total number of finalized spin sessions by outcome source"
	HelpTextSpinDuration        = "Time from spin start to finalize in seconds"
	HelpTextOutcomeFallbacks    = "Total number of fallback outcomes by reason"
	HelpTextPlayRequestDuration = "Play service request latency in seconds"
	HelpTextStaleCallbacks      = "Total number of discarded callbacks from superseded sessions"
	HelpTextAudioCueFailures    = "Total number of swallowed audio cue failures"
	HelpTextStreamClients       = "Current number of connected event stream clients"
	HelpTextStreamDropped       = "Events not delivered to a slow stream client, by event type"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod = "method"
	LabelPath   = "path"
	LabelStatus = "status"
	LabelType   = "type"
	LabelTheme  = "theme"
	LabelReason = "reason"
	LabelSource = "source"
	LabelResult = "result"
	LabelKind   = "kind"
	LabelCue    = "cue"
)

// Label values
const (
	ResultSuccess = "success"
	ResultFailure = "failure"

	KindReelStop = "reel_stop"
	KindOutcome  = "outcome"

	// PathUnmatched labels requests no route matched, keeping path cardinality bounded
	PathUnmatched = "unmatched"
)

// ============================================================================
// Buckets
// ============================================================================

var (
	HTTPLatencyBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}
	PlayLatencyBuckets = []float64{.01, .025, .05, .1, .25, .5, 1, 2, 4, 8}
	SpinLatencyBuckets = []float64{.5, 1, 1.5, 2, 2.5, 3, 4, 6, 10}
)

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgMetricsRecorded   = "Metrics recorded for event"
	LogMsgPayloadDecodeFail = "Failed to decode event payload for metrics"
)
