package display

// FakeDisplay records rendered frames for test assertions.
type FakeDisplay struct {
	// Frames contains every frame passed to Render, in order.
	Frames []Frame

	// RenderError, if set, is returned by Render.
	RenderError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeDisplay creates an empty FakeDisplay.
func NewFakeDisplay() *FakeDisplay {
	return &FakeDisplay{}
}

// Render records the frame.
func (f *FakeDisplay) Render(frame Frame) error {
	if f.RenderError != nil {
		return f.RenderError
	}
	f.Frames = append(f.Frames, frame)
	return nil
}

// Close marks the display as closed.
func (f *FakeDisplay) Close() error {
	f.Closed = true
	return nil
}

// Last returns the most recent frame, or a zero Frame if none.
func (f *FakeDisplay) Last() Frame {
	if len(f.Frames) == 0 {
		return Frame{}
	}
	return f.Frames[len(f.Frames)-1]
}
