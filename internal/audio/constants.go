package audio

// Cue names
const (
	CueSpinLoop = "spin_loop"
	CueReelStop = "reel_stop"
	CueWin      = "win"
	CueLose     = "lose"
)

// Log messages
const (
	LogMsgCueFailed   = "Audio cue failed"
	LogMsgCuePanicked = "Audio player panicked"
	LogMsgCuePlayed   = "Audio cue"
)
