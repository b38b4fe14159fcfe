package playclient

import "time"

const (
	// PlayPath is the play endpoint on the remote service
	PlayPath = "/api/v1/play"

	// DefaultTimeout bounds a single play request when none is configured
	DefaultTimeout = 5 * time.Second

	// MaxResponseBytes caps how much of a response body is read
	MaxResponseBytes = 1 << 20

	// MultiplierPlaces is the precision used when deriving a missing multiplier
	MultiplierPlaces = 4
)

// HTTP headers
const (
	HeaderContentType = "Content-Type"
	HeaderAPIKey      = "X-API-Key"
	HeaderRequestID   = "X-Request-ID"
	ContentTypeJSON   = "application/json"
)

// Response fields. Balance is accepted under any of the listed names.
const (
	FieldPayout     = "payout"
	FieldMultiplier = "multiplier"
	FieldReels      = "reels"
)

var BalanceFields = []string{"balance", "resulting_balance", "resultingBalance"}

// Error message detail
const (
	ErrMsgMarshalFailed   = "failed to marshal play request"
	ErrMsgRequestFailed   = "failed to create play request"
	ErrMsgReadFailed      = "failed to read play response"
	ErrMsgInvalidJSON     = "body is not a JSON object"
	ErrMsgMissingField    = "missing or non-numeric field %q"
	ErrMsgNegativeField   = "negative field %q"
	ErrMsgStatusFormat    = "%w: %d"
	ErrMsgFieldWrapFormat = "%w: %s"
)

// Log messages
const (
	LogMsgPlayRequest  = "Sending play request"
	LogMsgPlayResponse = "Play service responded"
)
