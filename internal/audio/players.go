package audio

import (
	"context"

	"github.com/osse101/ReelSpin_Go/internal/event"
	"github.com/osse101/ReelSpin_Go/internal/logger"
)

// LogPlayer writes cues to the log. Used in development without a browser.
type LogPlayer struct{}

func (LogPlayer) Play(ctx context.Context, cue Cue) error {
	logger.FromContext(ctx).Debug(LogMsgCuePlayed, "cue", cue.Name, "asset", cue.Asset, "theme", cue.Theme)
	return nil
}

// StreamPlayer forwards cues to connected browsers through the event bus
type StreamPlayer struct {
	bus event.Bus
}

// NewStreamPlayer creates a player that publishes audio.cue events
func NewStreamPlayer(bus event.Bus) *StreamPlayer {
	return &StreamPlayer{bus: bus}
}

func (p *StreamPlayer) Play(ctx context.Context, cue Cue) error {
	payload := event.AudioCuePayloadV1{
		Cue:   cue.Name,
		Asset: cue.Asset,
		Reel:  cue.Reel,
		Loop:  cue.Loop,
	}
	return p.bus.Publish(ctx, event.New(event.AudioCue, cue.Theme, cue.SessionID, payload))
}
