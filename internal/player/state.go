// Package player paces a token sequence one word at a time.
//
// The scheduler is split in two layers. Reduce and Tick are pure transition
// functions over State; Player owns the current State and Clock, reads the
// latest tokens and settings on every call and hands out frame-loop
// generations so a host event loop can drive it.
package player

// Status is the playback state.
type Status int

// Playback states.
const (
	StatusIdle Status = iota
	StatusCountdown
	StatusPlaying
	StatusPaused
	StatusFinished
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusCountdown:
		return "countdown"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	case StatusFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Active reports whether the status needs frames.
func (s Status) Active() bool {
	return s == StatusPlaying || s == StatusCountdown
}

// State is the observable playback snapshot. Countdown is only meaningful
// while Status is StatusCountdown.
type State struct {
	Status    Status
	Index     int
	Countdown int
}

// Action is a state transition request handled by Reduce.
type Action interface {
	isAction()
}

// PlayAction starts playback, through a countdown when CountdownSeconds > 0.
type PlayAction struct {
	CountdownSeconds int
}

// PauseAction pauses and clears the countdown.
type PauseAction struct{}

// SetIndexAction moves the position. The index is stored as given.
type SetIndexAction struct {
	Index int
}

// SetStatusAction overrides the status.
type SetStatusAction struct {
	Status Status
}

// SetCountdownAction updates the remaining warm-up seconds.
type SetCountdownAction struct {
	Countdown int
}

// ResetAction returns to the initial state.
type ResetAction struct{}

func (PlayAction) isAction()         {}
func (PauseAction) isAction()        {}
func (SetIndexAction) isAction()     {}
func (SetStatusAction) isAction()    {}
func (SetCountdownAction) isAction() {}
func (ResetAction) isAction()        {}

// Reduce applies action to state.
func Reduce(state State, action Action) State {
	switch a := action.(type) {
	case PlayAction:
		state.Countdown = a.CountdownSeconds
		if a.CountdownSeconds > 0 {
			state.Status = StatusCountdown
		} else {
			state.Status = StatusPlaying
		}
	case PauseAction:
		state.Status = StatusPaused
		state.Countdown = 0
	case SetIndexAction:
		state.Index = a.Index
	case SetStatusAction:
		state.Status = a.Status
	case SetCountdownAction:
		state.Countdown = a.Countdown
	case ResetAction:
		return State{Status: StatusIdle}
	}
	return state
}
