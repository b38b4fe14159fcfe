package audio

import (
	"context"

	"github.com/osse101/ReelSpin_Go/internal/logger"
	"github.com/osse101/ReelSpin_Go/internal/metrics"
	"github.com/osse101/ReelSpin_Go/internal/theme"
)

// Cue is one sound request
type Cue struct {
	Name      string
	Asset     string
	Theme     string
	SessionID string
	Reel      *int
	Loop      bool
}

// Player renders cues somewhere audible
type Player interface {
	Play(ctx context.Context, cue Cue) error
}

// Dispatcher maps engine moments to a skin's sounds. Playback is best effort:
// player errors and panics are logged at debug and never reach the caller.
type Dispatcher struct {
	player Player
	theme  string
	assets theme.AudioAssets
}

// NewDispatcher creates a dispatcher for one skin. A nil player makes every cue a no-op.
func NewDispatcher(player Player, skin theme.Skin) *Dispatcher {
	return &Dispatcher{player: player, theme: skin.ID, assets: skin.Audio}
}

func (d *Dispatcher) PlaySpinLoop(ctx context.Context, sessionID string) {
	d.play(ctx, Cue{Name: CueSpinLoop, Asset: d.assets.SpinLoop, SessionID: sessionID, Loop: true})
}

func (d *Dispatcher) PlayReelStop(ctx context.Context, sessionID string, reel int) {
	d.play(ctx, Cue{Name: CueReelStop, Asset: d.assets.ReelStop, SessionID: sessionID, Reel: &reel})
}

func (d *Dispatcher) PlayWin(ctx context.Context, sessionID string) {
	d.play(ctx, Cue{Name: CueWin, Asset: d.assets.Win, SessionID: sessionID})
}

func (d *Dispatcher) PlayLose(ctx context.Context, sessionID string) {
	d.play(ctx, Cue{Name: CueLose, Asset: d.assets.Lose, SessionID: sessionID})
}

func (d *Dispatcher) play(ctx context.Context, cue Cue) {
	if d == nil || d.player == nil {
		return
	}
	cue.Theme = d.theme
	log := logger.FromContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			metrics.AudioCueFailures.WithLabelValues(cue.Name).Inc()
			log.Debug(LogMsgCuePanicked, "cue", cue.Name, "panic", r)
		}
	}()

	if err := d.player.Play(ctx, cue); err != nil {
		metrics.AudioCueFailures.WithLabelValues(cue.Name).Inc()
		log.Debug(LogMsgCueFailed, "cue", cue.Name, "asset", cue.Asset, "error", err)
	}
}
