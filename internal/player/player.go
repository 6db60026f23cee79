package player

import (
	"time"

	"github.com/verte-zerg/spr/internal/model"
)

// Options configures a Player.
type Options struct {
	// Tokens and Settings are read on every action and frame so changes made
	// by the owner during playback take effect on the next evaluation.
	Tokens   func() []model.Token
	Settings func() model.Settings

	InitialIndex int

	// Now defaults to time.Now.
	Now func() time.Time
}

// Player is the playback scheduler. It is not safe for concurrent use; the
// host calls it from a single event loop.
type Player struct {
	tokens   func() []model.Token
	settings func() model.Settings
	now      func() time.Time

	state State
	clock Clock
	loop  uint64

	indexCh chan int
}

// New returns an idle Player positioned at the clamped initial index.
func New(opts Options) *Player {
	p := &Player{
		tokens:   opts.Tokens,
		settings: opts.Settings,
		now:      opts.Now,
		indexCh:  make(chan int, 1),
	}
	if p.tokens == nil {
		p.tokens = func() []model.Token { return nil }
	}
	if p.settings == nil {
		p.settings = model.DefaultSettings
	}
	if p.now == nil {
		p.now = time.Now
	}
	p.state.Index = clampIndex(opts.InitialIndex, len(p.tokens()))
	return p
}

// State returns the current snapshot.
func (p *Player) State() State {
	return p.state
}

// Loop returns the generation of the current frame loop. It changes every
// time playback enters or leaves the playing/countdown states.
func (p *Player) Loop() uint64 {
	return p.loop
}

// Active reports whether the player wants frames.
func (p *Player) Active() bool {
	return p.state.Status.Active()
}

// IndexChanges delivers the latest index after it changes. Only the most
// recent value is kept when the reader falls behind.
func (p *Player) IndexChanges() <-chan int {
	return p.indexCh
}

// Play starts playback, from the beginning when finished. It does nothing
// without tokens.
func (p *Player) Play() {
	if len(p.tokens()) == 0 {
		return
	}
	if p.state.Status == StatusFinished {
		p.dispatch(SetIndexAction{Index: 0})
	}
	countdown := 0
	if p.settings().WarmupEnabled {
		countdown = CountdownSeconds
	}
	p.dispatch(PlayAction{CountdownSeconds: countdown})
}

// Pause stops playback and clears the countdown.
func (p *Player) Pause() {
	p.dispatch(PauseAction{})
}

// Restart rewinds to the first token and pauses.
func (p *Player) Restart() {
	p.dispatch(SetIndexAction{Index: 0})
	p.dispatch(SetStatusAction{Status: StatusPaused})
}

// Seek moves to index, clamped into the token range.
func (p *Player) Seek(index int) {
	p.dispatch(SetIndexAction{Index: clampIndex(index, len(p.tokens()))})
}

// SkipBy moves delta tokens, clamped into the token range.
func (p *Player) SkipBy(delta int) {
	p.Seek(p.state.Index + delta)
}

// Next moves one token forward.
func (p *Player) Next() {
	p.SkipBy(1)
}

// Previous moves one token back.
func (p *Player) Previous() {
	p.SkipBy(-1)
}

// SkipToPreviousSentence moves to the start of the previous sentence.
func (p *Player) SkipToPreviousSentence() {
	p.dispatch(SetIndexAction{Index: PreviousSentenceStart(p.state.Index, p.tokens())})
}

// SkipToNextSentence moves to the start of the next sentence.
func (p *Player) SkipToNextSentence() {
	p.dispatch(SetIndexAction{Index: NextSentenceStart(p.state.Index, p.tokens())})
}

// Reset returns to the initial idle state.
func (p *Player) Reset() {
	p.dispatch(ResetAction{})
}

// SetStatus overrides the status.
func (p *Player) SetStatus(status Status) {
	p.dispatch(SetStatusAction{Status: status})
}

// Sync re-clamps the index after the token sequence changed.
func (p *Player) Sync() {
	p.Seek(p.state.Index)
}

// Frame evaluates a frame of loop at now and reports whether the loop should
// schedule another one. Frames of a superseded loop are ignored.
func (p *Player) Frame(loop uint64, now time.Time) bool {
	if loop != p.loop || !p.Active() {
		return false
	}
	next, clock, more := Tick(now, p.tokens(), p.settings(), p.state, p.clock)
	p.clock = clock
	p.apply(next, now)
	return more && loop == p.loop
}

func (p *Player) dispatch(action Action) {
	p.apply(Reduce(p.state, action), p.now())
}

func (p *Player) apply(next State, now time.Time) {
	prev := p.state
	p.state = next
	if next.Status != prev.Status {
		p.loop++
		p.clock = StartClock(now)
	}
	if next.Index != prev.Index {
		p.notify(next.Index)
	}
}

func (p *Player) notify(index int) {
	select {
	case <-p.indexCh:
	default:
	}
	select {
	case p.indexCh <- index:
	default:
	}
}
