// Package input turns raw button line levels and the raw float-switch level
// into discrete, debounced events. Pure logic: no GPIO, no OS, no
// time.Sleep; time always arrives as a parameter.
package input

import "time"

// Channel identifies one of the three logical buttons.
type Channel int

const (
	Advance Channel = iota
	Increase
	Decrease

	numChannels
)

func (c Channel) String() string {
	switch c {
	case Advance:
		return "ADVANCE"
	case Increase:
		return "INCREASE"
	case Decrease:
		return "DECREASE"
	}
	return "UNKNOWN"
}

// Kind classifies a button gesture.
type Kind int

const (
	// Press is a short press, reported on release.
	Press Kind = iota
	// Hold fires once when a press is held past the hold threshold. The
	// eventual release is then consumed silently.
	Hold
	// DoublePress is a second short press within the double-press window.
	// The first press of the pair is still reported as a Press.
	DoublePress
)

func (k Kind) String() string {
	switch k {
	case Press:
		return "PRESS"
	case Hold:
		return "HOLD"
	case DoublePress:
		return "DOUBLE"
	}
	return "UNKNOWN"
}

// Event is one decoded button gesture.
type Event struct {
	Channel   Channel
	Kind      Kind
	Timestamp time.Time
}

// Sample is one poll of the three button lines (true = pressed).
type Sample struct {
	Advance  bool
	Increase bool
	Decrease bool
	Time     time.Time
}

// Timing holds the decoder thresholds.
type Timing struct {
	// Debounce is how long a level must persist before an edge is accepted.
	Debounce time.Duration
	// HoldAfter is how long a press must last to count as a hold.
	HoldAfter time.Duration
	// DoubleWithin is the maximum gap between two taps for a double press.
	DoubleWithin time.Duration
}

// DefaultTiming returns thresholds that feel right at a 10-20ms poll rate.
func DefaultTiming() Timing {
	return Timing{
		Debounce:     30 * time.Millisecond,
		HoldAfter:    600 * time.Millisecond,
		DoubleWithin: 400 * time.Millisecond,
	}
}
