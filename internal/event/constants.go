package event

// Event schema versioning
const (
	// EventSchemaVersion is the current event schema version
	EventSchemaVersion = "1.0"
)

// Log message constants
const (
	// LogMsgPublishFailed is logged when a subscriber returns an error
	LogMsgPublishFailed = "Event handler failed"

	// LogMsgHandlerErrorFormat formats aggregated handler errors
	LogMsgHandlerErrorFormat = "encountered %d errors while handling event %s: %v"
)
