package editor

import (
	"testing"

	"github.com/sweeney/water-sampler/internal/input"
	"github.com/sweeney/water-sampler/internal/store"
)

func newEditor(t *testing.T, initial map[int]int) (*Editor, *store.FakeStorage) {
	t.Helper()
	fake := store.NewFakeStorage(initial)
	settings := store.NewSettings(fake)
	if err := settings.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	return New(settings), fake
}

func press(ch input.Channel) input.Event  { return input.Event{Channel: ch, Kind: input.Press} }
func hold(ch input.Channel) input.Event   { return input.Event{Channel: ch, Kind: input.Hold} }
func double(ch input.Channel) input.Event { return input.Event{Channel: ch, Kind: input.DoublePress} }

func TestCursorWrapsForward(t *testing.T) {
	e, _ := newEditor(t, nil)

	for i := 1; i < NumPositions; i++ {
		e.Handle(press(input.Advance))
		if e.Cursor() != i {
			t.Fatalf("after %d presses: cursor %d", i, e.Cursor())
		}
	}
	res := e.Handle(press(input.Advance))
	if e.Cursor() != 0 {
		t.Errorf("cursor should wrap to 0, got %d", e.Cursor())
	}
	if res.Committed {
		t.Error("wrap without pending edits must not commit")
	}
}

func TestReverseNavigationBoundsAtZero(t *testing.T) {
	e, _ := newEditor(t, nil)

	// From position 5 back one row per hold: 3, 1, 0, 0.
	for i := 0; i < 5; i++ {
		e.Handle(press(input.Advance))
	}
	for _, want := range []int{3, 1, 0, 0} {
		e.Handle(hold(input.Advance))
		if e.Cursor() != want {
			t.Fatalf("reverse: cursor %d, want %d", e.Cursor(), want)
		}
	}
}

func TestStepSizes(t *testing.T) {
	tests := []struct {
		name   string
		cursor int
		ev     input.Event
		slot   int
		want   int
	}{
		{"hour press", 0, press(input.Increase), 0, 60},
		{"minute press", 1, press(input.Increase), 0, 1},
		{"hour hold", 2, hold(input.Increase), 1, 540},
		{"minute hold", 3, hold(input.Increase), 1, 9},
		{"runtime hour", 12, press(input.Increase), store.RuntimeIndex, 60},
		{"runtime minute", 13, press(input.Increase), store.RuntimeIndex, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, fake := newEditor(t, nil)
			for i := 0; i < tt.cursor; i++ {
				e.Handle(press(input.Advance))
			}
			res := e.Handle(tt.ev)
			if !res.Edited {
				t.Error("expected Edited")
			}
			if got := fake.Values[tt.slot]; got != tt.want {
				t.Errorf("slot %d: got %d, want %d", tt.slot, got, tt.want)
			}
		})
	}
}

func TestDecreaseSymmetricAndClamped(t *testing.T) {
	e, fake := newEditor(t, map[int]int{0: 120})

	e.Handle(press(input.Decrease))
	if fake.Values[0] != 60 {
		t.Errorf("after -60: got %d, want 60", fake.Values[0])
	}
	e.Handle(hold(input.Decrease))
	if fake.Values[0] != 0 {
		t.Errorf("after -540 clamped: got %d, want 0", fake.Values[0])
	}

	// Decrement at floor stays at zero.
	e.Handle(press(input.Decrease))
	if fake.Values[0] != 0 {
		t.Errorf("decrement at floor: got %d, want 0", fake.Values[0])
	}
}

// TestEditThenCommit is the canonical commit flow: three increases at the
// pump 1 hour digit, then a full forward cycle back to 0 commits once.
func TestEditThenCommit(t *testing.T) {
	e, fake := newEditor(t, nil)

	for i := 0; i < 3; i++ {
		e.Handle(press(input.Increase))
	}
	if fake.Values[0] != 180 {
		t.Fatalf("slot 0: got %d, want 180", fake.Values[0])
	}
	if !e.Pending() {
		t.Fatal("edits should be pending")
	}

	commits := 0
	for i := 0; i < NumPositions; i++ {
		if e.Handle(press(input.Advance)).Committed {
			commits++
		}
	}
	if commits != 1 {
		t.Errorf("commits: got %d, want 1", commits)
	}
	if e.Cursor() != 0 {
		t.Errorf("cursor after full cycle: got %d, want 0", e.Cursor())
	}
	if e.Pending() {
		t.Error("pending flag should clear after commit")
	}

	// A second full cycle without edits commits nothing.
	for i := 0; i < NumPositions; i++ {
		if e.Handle(press(input.Advance)).Committed {
			t.Fatal("commit without pending edits")
		}
	}
}

func TestNoCommitOnReverseToZero(t *testing.T) {
	e, _ := newEditor(t, nil)

	e.Handle(press(input.Advance)) // cursor 1
	e.Handle(press(input.Increase))
	if !e.Pending() {
		t.Fatal("edit should be pending")
	}
	if res := e.Handle(hold(input.Advance)); res.Committed {
		t.Error("reverse navigation to 0 must not commit")
	}
	if e.Cursor() != 0 {
		t.Errorf("cursor: got %d, want 0", e.Cursor())
	}
	if !e.Pending() {
		t.Error("pending must survive reverse navigation")
	}
}

func TestDoublePressUnbound(t *testing.T) {
	e, fake := newEditor(t, nil)

	before := e.Cursor()
	if res := e.Handle(double(input.Advance)); res.Committed || res.Edited {
		t.Error("double press should do nothing")
	}
	if e.Cursor() != before {
		t.Error("double press moved the cursor")
	}
	if res := e.Handle(double(input.Increase)); res.Edited {
		t.Error("double press on increase edited a value")
	}
	if len(fake.Values) != 0 {
		t.Errorf("storage touched: %v", fake.Values)
	}
}

func TestRowAndDigitHelpers(t *testing.T) {
	e, _ := newEditor(t, nil)

	if e.Row() != 0 || !e.HourDigit() {
		t.Errorf("position 0: row %d hour %v", e.Row(), e.HourDigit())
	}
	for i := 0; i < 13; i++ {
		e.Handle(press(input.Advance))
	}
	if e.Cursor() != 13 || e.Row() != store.RuntimeIndex || e.HourDigit() {
		t.Errorf("position 13: row %d hour %v", e.Row(), e.HourDigit())
	}
}

func TestBlinkToggle(t *testing.T) {
	e, _ := newEditor(t, nil)
	if e.Blink() {
		t.Fatal("blink starts false")
	}
	e.ToggleBlink()
	if !e.Blink() {
		t.Error("blink should flip")
	}
}
