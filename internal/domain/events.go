package domain

// Event type constants used across the application for event bus subscriptions,
// SSE streaming and metrics tracking.
//
// Event types follow the pattern: <entity>.<action> (e.g., "spin.started")
const (
	// EventTypeSpinStarted is published when a session is accepted and reels start
	EventTypeSpinStarted = "spin.started"

	// EventTypeSpinRejected is published when a spin request is refused
	EventTypeSpinRejected = "spin.rejected"

	// EventTypeReelFrame is published for every animation frame when frame streaming is on
	EventTypeReelFrame = "reel.frame"

	// EventTypeReelStopped is published when a reel snaps onto its target
	EventTypeReelStopped = "reel.stopped"

	// EventTypeOutcomeSettled is published when the reconciler stores an outcome
	EventTypeOutcomeSettled = "outcome.settled"

	// EventTypeSpinFinalized is published once per session when the result is applied
	EventTypeSpinFinalized = "spin.finalized"

	// EventTypeAudioCue is published when the dispatcher asks the browser to play a sound
	EventTypeAudioCue = "audio.cue"

	// EventTypeHistoryRefresh tells clients that recent plays changed
	EventTypeHistoryRefresh = "history.refresh"
)
