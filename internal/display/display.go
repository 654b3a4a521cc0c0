// Package display builds render frames from rig state and defines the
// display capability the frames are handed to. The presenter never blocks:
// transient notices are state with a deadline, checked at frame time.
package display

import (
	"fmt"

	"github.com/sweeney/water-sampler/internal/store"
)

// Frame is one complete render: fixed lines plus highlight positions.
// The display decides how to draw inversion and blinking; the frame only
// says where.
type Frame struct {
	// Lines is the page content, top to bottom.
	Lines []string
	// ActiveRow is the line index to invert (the running pump), -1 for none.
	ActiveRow int
	// BlinkRow is the line index holding the addressed digit, -1 for none.
	BlinkRow int
	// BlinkHour selects which digit on BlinkRow blinks: hour or minute.
	BlinkHour bool
	// BlinkOn is the current blink phase (false = digit hidden).
	BlinkOn bool
	// Notice, when non-empty, replaces the page with a full-screen message.
	Notice string
	// Degraded is set when persisted settings failed to load.
	Degraded bool
}

// Display renders frames. Implementations: ConsoleDisplay for a terminal,
// FakeDisplay for tests; the rig's LCD driver lives out of tree and
// satisfies the same interface.
type Display interface {
	Render(f Frame) error
	Close() error
}

// FormatHM renders minutes as the "2h 30min" form used on every row.
func FormatHM(minutes int) string {
	return fmt.Sprintf("%dh %02dmin", minutes/60, minutes%60)
}

// rowLabel returns the label for a settings slot row.
func rowLabel(slot int) string {
	if slot == store.RuntimeIndex {
		return "Runtime"
	}
	return fmt.Sprintf("Pump %d", slot+1)
}
