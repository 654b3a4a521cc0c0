package input

import "time"

// channelState tracks debounce and gesture state for one button.
type channelState struct {
	stable       bool // debounced level, true = pressed
	pending      bool
	pendingSet   bool
	pendingSince time.Time
	downAt       time.Time
	holdFired    bool
	lastTap      time.Time
	hasTap       bool
}

// Decoder classifies button line samples into Press/Hold/DoublePress events.
type Decoder struct {
	timing Timing
	ch     [numChannels]channelState
}

// NewDecoder creates a Decoder with the given thresholds.
func NewDecoder(timing Timing) *Decoder {
	return &Decoder{timing: timing}
}

// Process consumes one sample and returns any events it completes.
// Channel order within one sample is Advance, Increase, Decrease.
func (d *Decoder) Process(s Sample) []Event {
	raw := [numChannels]bool{s.Advance, s.Increase, s.Decrease}
	var events []Event
	for c := Channel(0); c < numChannels; c++ {
		events = append(events, d.processChannel(c, raw[c], s.Time)...)
	}
	return events
}

func (d *Decoder) processChannel(c Channel, raw bool, now time.Time) []Event {
	st := &d.ch[c]

	if raw != st.stable {
		if !st.pendingSet || st.pending != raw {
			st.pendingSet = true
			st.pending = raw
			st.pendingSince = now
		}
		if now.Sub(st.pendingSince) >= d.timing.Debounce {
			st.stable = raw
			st.pendingSet = false
			if raw {
				st.downAt = now
				st.holdFired = false
			} else {
				return d.released(st, c, now)
			}
		}
	} else {
		st.pendingSet = false
	}

	if st.stable && !st.holdFired && now.Sub(st.downAt) >= d.timing.HoldAfter {
		st.holdFired = true
		return []Event{{Channel: c, Kind: Hold, Timestamp: now}}
	}
	return nil
}

func (d *Decoder) released(st *channelState, c Channel, now time.Time) []Event {
	if st.holdFired {
		// The hold already consumed this press.
		return nil
	}
	if st.hasTap && now.Sub(st.lastTap) <= d.timing.DoubleWithin {
		st.hasTap = false
		return []Event{{Channel: c, Kind: DoublePress, Timestamp: now}}
	}
	st.hasTap = true
	st.lastTap = now
	return []Event{{Channel: c, Kind: Press, Timestamp: now}}
}
