package outcome

import "time"

const (
	DefaultCacheSize      = 256
	DefaultCacheTTL       = 10 * time.Minute
	DefaultRequestTimeout = 5 * time.Second
)

// Log messages
const (
	LogMsgRequestStarted   = "Requesting outcome"
	LogMsgDuplicateRequest = "Outcome already requested for session, ignoring"
	LogMsgRemoteSettled    = "Outcome settled from play service"
	LogMsgFallbackSettled  = "Play service failed, settled fallback outcome"
	LogMsgForcedFallback   = "Outcome forced to fallback"
	LogMsgLateArrival      = "Outcome arrived after session settled, discarding"
	LogMsgPublishFailed    = "Failed to publish outcome event"
	LogMsgShutdown         = "Reconciler shutting down"
)
