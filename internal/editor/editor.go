// Package editor interprets button events as cursor navigation and bounded
// value edits against the persisted settings, and decides when a commit is
// due. All mutation happens from the control loop.
package editor

import (
	"github.com/sweeney/water-sampler/internal/input"
	"github.com/sweeney/water-sampler/internal/store"
)

// NumPositions is the cursor range: two digits per pump row plus two for
// the runtime row. Even positions address a row's hour digit, odd its
// minute digit; position/2 is the settings slot.
const NumPositions = 14

// Step sizes in minutes by digit and gesture.
const (
	stepHour       = 60
	stepMinute     = 1
	stepHourFast   = 540
	stepMinuteFast = 9
)

// Result reports what a button event did.
type Result struct {
	// Committed is true when the cursor wrapped forward to 0 with edits
	// pending: the caller must rearm the sequencer with the new settings.
	Committed bool
	// Edited is true when a settings slot changed.
	Edited bool
}

// Editor is the three-button editing state machine.
type Editor struct {
	settings *store.Settings
	cursor   int
	pending  bool
	blink    bool
}

// New creates an Editor over the given settings, cursor at position 0.
func New(settings *store.Settings) *Editor {
	return &Editor{settings: settings}
}

// Handle dispatches one decoded button event.
func (e *Editor) Handle(ev input.Event) Result {
	switch ev.Channel {
	case input.Advance:
		return e.advance(ev.Kind)
	case input.Increase:
		return e.adjust(ev.Kind, +1)
	case input.Decrease:
		return e.adjust(ev.Kind, -1)
	}
	return Result{}
}

func (e *Editor) advance(kind input.Kind) Result {
	switch kind {
	case input.Press:
		e.cursor = (e.cursor + 1) % NumPositions
		if e.cursor == 0 && e.pending {
			e.pending = false
			return Result{Committed: true}
		}
	case input.Hold:
		// Back one full row, bounded at 0. No downward wraparound.
		e.cursor -= 2
		if e.cursor < 0 {
			e.cursor = 0
		}
	case input.DoublePress:
		// Reserved. Present in the event vocabulary, bound to nothing.
	}
	return Result{}
}

func (e *Editor) adjust(kind input.Kind, sign int) Result {
	var step int
	switch kind {
	case input.Press:
		step = stepMinute
		if e.cursor%2 == 0 {
			step = stepHour
		}
	case input.Hold:
		step = stepMinuteFast
		if e.cursor%2 == 0 {
			step = stepHourFast
		}
	default:
		return Result{}
	}
	e.settings.Modify(e.cursor/2, sign*step)
	e.pending = true
	return Result{Edited: true}
}

// Cursor returns the current cursor position in [0, NumPositions).
func (e *Editor) Cursor() int {
	return e.cursor
}

// Row returns the addressed settings slot: 0..5 for pumps, 6 for runtime.
func (e *Editor) Row() int {
	return e.cursor / 2
}

// HourDigit reports whether the cursor addresses an hour digit.
func (e *Editor) HourDigit() bool {
	return e.cursor%2 == 0
}

// Pending reports whether uncommitted edits exist.
func (e *Editor) Pending() bool {
	return e.pending
}

// ToggleBlink flips the blink phase. Driven by the loop's 500ms ticker;
// consumed only by rendering.
func (e *Editor) ToggleBlink() {
	e.blink = !e.blink
}

// Blink returns the current blink phase.
func (e *Editor) Blink() bool {
	return e.blink
}
