package sse

import "time"

// Buffer sizes
const (
	// BroadcastBufferSize is the buffer size for the broadcast channel.
	// Frame streaming at 60fps across five reels needs headroom.
	BroadcastBufferSize = 512

	// ClientEventBuffer is the buffer size for each client's event channel
	ClientEventBuffer = 256

	// BacklogSize is how many recent non-frame events a reconnecting client
	// can replay via Last-Event-ID
	BacklogSize = 64
)

// SSE connection settings
const (
	// KeepaliveInterval is how often to send keepalive pings
	KeepaliveInterval = 30 * time.Second

	// RetryInterval is the reconnect delay suggested to EventSource clients
	RetryInterval = 2 * time.Second
)

// Stream-only event types. Everything else is forwarded from the event bus
// under its own type name.
const (
	EventTypeConnected = "connected"
	EventTypeKeepalive = "keepalive"
)

// Query parameters accepted by the handler
const (
	QueryParamTypes = "types"
	QueryParamTheme = "theme"

	HeaderLastEventID = "Last-Event-ID"
)

// Log messages
const (
	LogMsgClientConnected    = "SSE client connected"
	LogMsgClientDisconnected = "SSE client disconnected"
	LogMsgEventDropped       = "SSE broadcast buffer full, dropping event"
	LogMsgWriteError         = "Failed to write SSE event"
	LogMsgSubscribed         = "SSE subscriber forwarding all bus events"
)
