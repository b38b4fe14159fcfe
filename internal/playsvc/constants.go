package playsvc

import "time"

// Symbol constants
const (
	SymbolLemon   = "LEMON"
	SymbolCherry  = "CHERRY"
	SymbolBell    = "BELL"
	SymbolBar     = "BAR"
	SymbolSeven   = "SEVEN"
	SymbolDiamond = "DIAMOND"
	SymbolStar    = "STAR"
)

// ReelCount is how many symbols each play draws
const ReelCount = 3

// Thresholds for special triggers
const (
	BigWinThreshold     = 10.0
	JackpotThreshold    = 50.0
	MegaJackpotMinimum  = 100.0
	TwoMatchMultiplier  = "0.1" // consolation for two matching symbols
	TotalSymbolWeight   = 1000
	DefaultPlayer       = "player"
	DefaultIdempotency  = 4096
	DefaultFailureMode  = FailureStatus
	ReadHeaderTimeout   = 5 * time.Second
	MaxLatencyJitterDiv = 2
)

// Symbol weights for weighted random selection (out of 1000)
var SymbolWeights = map[string]int{
	SymbolLemon:   400,
	SymbolCherry:  250,
	SymbolBell:    150,
	SymbolBar:     95,
	SymbolSeven:   70,
	SymbolDiamond: 25,
	SymbolStar:    10,
}

// symbolOrder fixes the cumulative walk order for weighted selection
var symbolOrder = []string{SymbolLemon, SymbolCherry, SymbolBell, SymbolBar, SymbolSeven, SymbolDiamond, SymbolStar}

// PayoutMultipliers defines the payout for three matching symbols
var PayoutMultipliers = map[string]string{
	SymbolLemon:   "0.5",
	SymbolCherry:  "2",
	SymbolBell:    "5",
	SymbolBar:     "10",
	SymbolSeven:   "25",
	SymbolDiamond: "100",
	SymbolStar:    "500",
}

// Trigger types for visual effects
const (
	TriggerNone        = "none"
	TriggerNormal      = "normal"
	TriggerBigWin      = "big_win"
	TriggerJackpot     = "jackpot"
	TriggerMegaJackpot = "mega_jackpot"
)

// FailureMode selects how an injected failure looks on the wire
type FailureMode string

const (
	// FailureStatus answers 503
	FailureStatus FailureMode = "status"
	// FailureMalformed answers 200 with a body the client cannot parse
	FailureMalformed FailureMode = "malformed"
	// FailureHang never answers until the client gives up
	FailureHang FailureMode = "hang"
)

// Header names, shared with the play client
const (
	HeaderAPIKey    = "X-API-Key"
	HeaderRequestID = "X-Request-ID"
	PlayPath        = "/api/v1/play"
)

// Error messages
const (
	ErrMsgInvalidStake       = "stake must be a positive number"
	ErrMsgInsufficientFunds  = "insufficient funds"
	ErrMsgInjectedFailure    = "injected failure"
	ErrMsgUnauthorized       = "Unauthorized"
	ErrMsgInvalidRequestBody = "Invalid request body"
)

// Log messages
const (
	LogMsgPlayServed      = "Play served"
	LogMsgPlayReplayed    = "Play replayed from idempotency cache"
	LogMsgFailureInjected = "Injecting play service failure"
	LogMsgPlayRejected    = "Play rejected"
	LogMsgServerStarting  = "Play service starting"
)
