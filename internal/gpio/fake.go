package gpio

import "errors"

// OutputChange records one Set call on a FakeOutputs.
type OutputChange struct {
	Pump int
	On   bool
}

// FakeOutputs is a test double recording pump line changes.
type FakeOutputs struct {
	// States holds the current line levels.
	States [NumPumps]bool

	// History contains every Set call in order.
	History []OutputChange

	// SetError, if set, is returned by Set.
	SetError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeOutputs creates a FakeOutputs with all lines low.
func NewFakeOutputs() *FakeOutputs {
	return &FakeOutputs{}
}

// Set records and applies a line change.
func (f *FakeOutputs) Set(pump int, on bool) error {
	if f.SetError != nil {
		return f.SetError
	}
	if pump < 0 || pump >= NumPumps {
		return errors.New("pump out of range")
	}
	f.States[pump] = on
	f.History = append(f.History, OutputChange{Pump: pump, On: on})
	return nil
}

// AllOff lowers every line.
func (f *FakeOutputs) AllOff() error {
	for i := range f.States {
		f.States[i] = false
	}
	return nil
}

// Close marks the outputs as closed and lowers every line.
func (f *FakeOutputs) Close() error {
	f.Closed = true
	return f.AllOff()
}

// ActiveCount returns how many lines are currently high.
func (f *FakeOutputs) ActiveCount() int {
	n := 0
	for _, on := range f.States {
		if on {
			n++
		}
	}
	return n
}

// FakeFloat is a test double returning scripted float-switch levels.
// Each Read consumes the next sample; an exhausted script repeats its
// last sample.
type FakeFloat struct {
	Samples []bool
	index   int

	// ReadError, if set, is returned by Read.
	ReadError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeFloat creates a FakeFloat with the given script.
func NewFakeFloat(samples []bool) *FakeFloat {
	return &FakeFloat{Samples: samples}
}

// Read returns the next scripted level.
func (f *FakeFloat) Read() (bool, error) {
	if f.ReadError != nil {
		return false, f.ReadError
	}
	if len(f.Samples) == 0 {
		return false, errors.New("no samples configured")
	}
	s := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}
	return s, nil
}

// Close marks the reader as closed.
func (f *FakeFloat) Close() error {
	f.Closed = true
	return nil
}

// ButtonSample is one scripted reading of the three button lines.
type ButtonSample struct {
	Advance  bool
	Increase bool
	Decrease bool
}

// FakeButtons is a test double returning scripted button levels, with the
// same repeat-last semantics as FakeFloat.
type FakeButtons struct {
	Samples []ButtonSample
	index   int

	// ReadError, if set, is returned by Read.
	ReadError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeButtons creates a FakeButtons with the given script.
func NewFakeButtons(samples []ButtonSample) *FakeButtons {
	return &FakeButtons{Samples: samples}
}

// Read returns the next scripted sample.
func (f *FakeButtons) Read() (advance, increase, decrease bool, err error) {
	if f.ReadError != nil {
		return false, false, false, f.ReadError
	}
	if len(f.Samples) == 0 {
		return false, false, false, nil
	}
	s := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}
	return s.Advance, s.Increase, s.Decrease, nil
}

// Close marks the reader as closed.
func (f *FakeButtons) Close() error {
	f.Closed = true
	return nil
}
