// Package gpio provides the rig's hardware boundary with hardware
// abstraction: six pump outputs, the float switch input, and the three
// button inputs. The real implementations use the Linux GPIO character
// device; the fakes allow testing without hardware.
package gpio

// NumPumps is the number of pump output lines.
const NumPumps = 6

// DefaultPumpPins are the pump output pins (BCM numbering).
var DefaultPumpPins = [NumPumps]int{5, 6, 13, 19, 20, 21}

// Input pin defaults (BCM numbering).
const (
	DefaultPinFloat    = 26
	DefaultPinAdvance  = 17
	DefaultPinIncrease = 27
	DefaultPinDecrease = 22
)

// Outputs drives the six pump lines. At most one is high at a time; the
// sequencer enforces that, the outputs just obey.
type Outputs interface {
	// Set drives pump i (0-based) high (on) or low (off).
	Set(pump int, on bool) error

	// AllOff drives every pump line low. Used at startup and shutdown.
	AllOff() error

	// Close releases GPIO resources, driving all lines low first.
	Close() error
}

// FloatReader reads the raw float-switch level.
type FloatReader interface {
	// Read returns true while the switch reports water present.
	// Debouncing happens upstream, in internal/input.
	Read() (bool, error)

	// Close releases GPIO resources.
	Close() error
}

// ButtonReader reads the raw levels of the three button lines.
type ButtonReader interface {
	// Read returns (advance, increase, decrease), true = pressed.
	Read() (advance, increase, decrease bool, err error)

	// Close releases GPIO resources.
	Close() error
}
