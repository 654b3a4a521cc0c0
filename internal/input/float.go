package input

import "time"

// FloatDetector debounces the raw float-switch level into discrete
// present/absent transitions. The reported state starts as absent, so a
// rig powered on with water already standing arms as soon as the level has
// been stable for one debounce period.
type FloatDetector struct {
	debounce     time.Duration
	stable       bool // reported state, true = water present
	pending      bool
	pendingSet   bool
	pendingSince time.Time
}

// NewFloatDetector creates a detector with the given debounce duration.
func NewFloatDetector(debounce time.Duration) *FloatDetector {
	return &FloatDetector{debounce: debounce}
}

// Process consumes one raw level sample. It returns (true, present) when
// the debounced state changed, otherwise (false, current state).
func (f *FloatDetector) Process(wet bool, now time.Time) (changed, present bool) {
	if wet == f.stable {
		f.pendingSet = false
		return false, f.stable
	}
	if !f.pendingSet || f.pending != wet {
		f.pendingSet = true
		f.pending = wet
		f.pendingSince = now
	}
	if now.Sub(f.pendingSince) >= f.debounce {
		f.stable = wet
		f.pendingSet = false
		return true, f.stable
	}
	return false, f.stable
}

// Present returns the current debounced state.
func (f *FloatDetector) Present() bool {
	return f.stable
}
