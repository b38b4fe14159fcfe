package sse

import (
	"context"
	"log/slog"

	"github.com/osse101/ReelSpin_Go/internal/event"
)

// Subscriber bridges the internal event bus to the SSE hub
type Subscriber struct {
	hub *Hub
	bus event.Bus
}

// NewSubscriber creates a new SSE subscriber
func NewSubscriber(hub *Hub, bus event.Bus) *Subscriber {
	return &Subscriber{
		hub: hub,
		bus: bus,
	}
}

// Subscribe forwards every bus event to the hub. Clients filter by type and theme.
func (s *Subscriber) Subscribe() {
	s.bus.SubscribeAll(s.forward)
	slog.Info(LogMsgSubscribed)
}

// forward runs on the publisher's goroutine, often a reel frame loop, so it
// only queues the event.
func (s *Subscriber) forward(_ context.Context, evt event.Event) error {
	ok := s.hub.Broadcast(Event{
		ID:        evt.ID,
		Type:      string(evt.Type),
		Theme:     evt.Theme,
		SessionID: evt.SessionID,
		Timestamp: evt.Timestamp,
		Payload:   evt.Payload,
	})
	if !ok {
		slog.Debug(LogMsgEventDropped, "event_type", evt.Type, "session_id", evt.SessionID)
	}
	return nil
}
