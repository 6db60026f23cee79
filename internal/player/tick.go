package player

import (
	"time"

	"github.com/verte-zerg/spr/internal/model"
)

// CountdownSeconds is the length of the warm-up pre-roll.
const CountdownSeconds = 3

// Clock carries the timing accumulators between frames.
type Clock struct {
	LastTick       time.Time
	Carry          time.Duration
	CountdownCarry time.Duration
}

// StartClock returns a zeroed clock anchored at now.
func StartClock(now time.Time) Clock {
	return Clock{LastTick: now}
}

// Delay returns how long the token at index stays on screen.
func Delay(index int, tokens []model.Token, settings model.Settings) time.Duration {
	if index < 0 || index >= len(tokens) {
		return 0
	}
	token := tokens[index]
	base := float64(time.Minute) / float64(settings.EffectiveWPM())

	multiplier := 1.0
	if settings.PauseOnPunctuation {
		if token.IsSentenceEnd {
			multiplier *= settings.SentencePauseMultiplier
		} else if token.IsClauseEnd {
			multiplier *= settings.ClausePauseMultiplier
		}
	}
	if settings.PauseOnParagraph && index+1 < len(tokens) && tokens[index+1].ParagraphBreakBefore {
		multiplier *= settings.ParagraphPauseMultiplier
	}
	return time.Duration(base * multiplier)
}

// Tick evaluates one frame at now. It returns the next state, the updated
// clock and whether another frame should be scheduled.
//
// Elapsed time since the last frame is added to a carry; the index advances
// once per full token delay the carry covers, so a late frame catches up on
// every token it owes. The countdown drops one step per full second in the
// same way. A countdown reaching zero switches to playing without consuming
// time: the playing phase starts on a fresh clock.
func Tick(now time.Time, tokens []model.Token, settings model.Settings, state State, clock Clock) (State, Clock, bool) {
	elapsed := now.Sub(clock.LastTick)
	if elapsed < 0 {
		elapsed = 0
	}
	clock.LastTick = now

	switch state.Status {
	case StatusCountdown:
		clock.CountdownCarry += elapsed
		if clock.CountdownCarry >= time.Second {
			steps := int(clock.CountdownCarry / time.Second)
			clock.CountdownCarry %= time.Second
			state = Reduce(state, SetCountdownAction{Countdown: max(0, state.Countdown-steps)})
			if state.Countdown == 0 {
				state = Reduce(state, SetStatusAction{Status: StatusPlaying})
			}
		}
	case StatusPlaying:
		if len(tokens) == 0 {
			state = Reduce(state, SetStatusAction{Status: StatusIdle})
			return state, clock, false
		}
		state, clock.Carry = advance(state, tokens, settings, clock.Carry+elapsed)
	}
	return state, clock, state.Status.Active()
}

func advance(state State, tokens []model.Token, settings model.Settings, remaining time.Duration) (State, time.Duration) {
	index := clampIndex(state.Index, len(tokens))
	for remaining > 0 {
		delay := Delay(index, tokens, settings)
		if delay <= 0 || remaining < delay {
			break
		}
		remaining -= delay
		index++
		if index >= len(tokens) {
			index = len(tokens) - 1
			state = Reduce(state, SetStatusAction{Status: StatusFinished})
			break
		}
	}
	return Reduce(state, SetIndexAction{Index: index}), remaining
}

func clampIndex(index, length int) int {
	if length <= 0 {
		return 0
	}
	return model.ClampInt(index, 0, length-1)
}
