package bootstrap

import (
	"log/slog"

	"github.com/osse101/ReelSpin_Go/internal/event"
	"github.com/osse101/ReelSpin_Go/internal/metrics"
	"github.com/osse101/ReelSpin_Go/internal/sse"
)

// EventSystem is the in-process bus plus the SSE hub fed from it
type EventSystem struct {
	Bus event.Bus
	Hub *sse.Hub
}

// InitializeEventSystem creates the bus and a started hub, then registers the
// bus subscribers: the metrics collector and the SSE bridge.
func InitializeEventSystem() *EventSystem {
	bus := event.NewMemoryBus()

	hub := sse.NewHub()
	hub.Start()

	RegisterEventHandlers(bus, hub)
	slog.Info(LogMsgEventSystemInitialized)

	return &EventSystem{Bus: bus, Hub: hub}
}

// RegisterEventHandlers subscribes everything that consumes bus events
func RegisterEventHandlers(bus event.Bus, hub *sse.Hub) {
	metrics.NewEventMetricsCollector().Register(bus)
	slog.Info(LogMsgMetricsCollectorRegistered)

	if hub != nil {
		sse.NewSubscriber(hub, bus).Subscribe()
		slog.Info(LogMsgStreamSubscriberRegistered)
	}
}
