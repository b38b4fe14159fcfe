package history

// Limits for Recent
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Log messages
const (
	LogMsgPlayRecorded      = "Play recorded"
	LogMsgRecordFailed      = "Failed to record play"
	LogMsgRefreshPublishErr = "Failed to publish history refresh"
	LogMsgRecordDropped     = "History queue full, play not recorded"
)

const ErrMsgRecordPlay = "failed to record play"
