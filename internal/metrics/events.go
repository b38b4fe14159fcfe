package metrics

import (
	"context"

	"github.com/osse101/ReelSpin_Go/internal/event"
	"github.com/osse101/ReelSpin_Go/internal/logger"
)

// EventMetricsCollector subscribes to lifecycle events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to the lifecycle events we count. Frames are skipped.
func (e *EventMetricsCollector) Register(bus event.Bus) {
	eventTypes := []event.Type{
		event.SpinStarted,
		event.SpinRejected,
		event.ReelStopped,
		event.OutcomeSettled,
		event.SpinFinalized,
		event.AudioCue,
		event.HistoryRefresh,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case event.SpinStarted:
		SpinsStarted.WithLabelValues(evt.Theme).Inc()

	case event.SpinRejected:
		p, err := event.DecodePayload[event.SpinRejectedPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgPayloadDecodeFail, "type", evt.Type, "error", err)
			return nil
		}
		SpinsRejected.WithLabelValues(evt.Theme, p.Reason).Inc()

	case event.OutcomeSettled:
		p, err := event.DecodePayload[event.OutcomeSettledPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgPayloadDecodeFail, "type", evt.Type, "error", err)
			return nil
		}
		if p.Outcome.IsFallback() {
			OutcomeFallbacks.WithLabelValues(string(p.Outcome.FallbackReason)).Inc()
		}

	case event.SpinFinalized:
		p, err := event.DecodePayload[event.SpinFinalizedPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgPayloadDecodeFail, "type", evt.Type, "error", err)
			return nil
		}
		SpinsFinalized.WithLabelValues(evt.Theme, string(p.Outcome.Source)).Inc()
		SpinDuration.WithLabelValues(evt.Theme).Observe(float64(p.DurationMs) / 1000)
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
