package internal

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sweeney/water-sampler/internal/display"
	"github.com/sweeney/water-sampler/internal/editor"
	"github.com/sweeney/water-sampler/internal/gpio"
	"github.com/sweeney/water-sampler/internal/input"
	"github.com/sweeney/water-sampler/internal/mqtt"
	"github.com/sweeney/water-sampler/internal/sequence"
	"github.com/sweeney/water-sampler/internal/status"
	"github.com/sweeney/water-sampler/internal/store"
	"github.com/sweeney/water-sampler/internal/web"
)

// TestIntegrationWaterToPumpSequence tests the complete flow from float
// switch to pump outputs and MQTT using fakes: water is detected, the
// sequence arms, and all six pumps run one after the other.
func TestIntegrationWaterToPumpSequence(t *testing.T) {
	settings := store.NewSettings(store.NewFakeStorage(map[int]int{
		0: 0, 1: 1, 2: 2, 3: 3, 4: 4, 5: 5, store.RuntimeIndex: 1,
	}))
	if err := settings.Load(); err != nil {
		t.Fatalf("settings load: %v", err)
	}

	detector := input.NewFloatDetector(250 * time.Millisecond)
	engine := sequence.NewEngine(sequence.Options{})
	outputs := gpio.NewFakeOutputs()
	publisher := mqtt.NewFakePublisher()

	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	step := 10 * time.Second

	// 6 minutes of wet samples at 10s resolution covers the whole run:
	// last start at +5min, last stop at +6min... tick one past.
	for i := 0; i <= 37; i++ {
		now := start.Add(time.Duration(i) * step)

		var events []sequence.Event
		if changed, present := detector.Process(true, now); changed && present {
			events = append(events, engine.HandleWaterPresent(now, sequence.Schedule{
				Offsets: settings.Offsets(),
				Runtime: settings.Runtime(),
			})...)
		}
		events = append(events, engine.Tick(now)...)

		for _, ev := range events {
			switch ev.Type {
			case sequence.EventPumpStart:
				if err := outputs.Set(ev.Pump, true); err != nil {
					t.Fatalf("tick %d: set pump %d: %v", i, ev.Pump, err)
				}
			case sequence.EventPumpStop:
				if err := outputs.Set(ev.Pump, false); err != nil {
					t.Fatalf("tick %d: clear pump %d: %v", i, ev.Pump, err)
				}
			}
			if err := publisher.Publish(ev); err != nil {
				t.Fatalf("tick %d: publish: %v", i, err)
			}
		}

		// The rig drives one pump at a time, never two.
		if outputs.ActiveCount() > 1 {
			t.Fatalf("tick %d: %d outputs high at once", i, outputs.ActiveCount())
		}
	}

	// Starts must come in pump order, one per offset minute.
	var starts []int
	for _, ev := range publisher.Events {
		if ev.Type == sequence.EventPumpStart {
			starts = append(starts, ev.Pump)
		}
	}
	if len(starts) != sequence.NumPumps {
		t.Fatalf("expected %d starts, got %d", sequence.NumPumps, len(starts))
	}
	for i, pump := range starts {
		if pump != i {
			t.Errorf("start %d: expected pump %d, got %d", i, i, pump)
		}
	}

	counts := engine.Counts()
	if counts.Sequences != 1 {
		t.Errorf("expected 1 completed sequence, got %d", counts.Sequences)
	}
	if outputs.ActiveCount() != 0 {
		t.Errorf("expected all outputs low after the run, got %d high", outputs.ActiveCount())
	}

	// Every payload is valid JSON with timestamp and event.
	for i, payload := range publisher.Payloads {
		var parsed mqtt.Payload
		if err := json.Unmarshal(payload, &parsed); err != nil {
			t.Errorf("payload %d: invalid JSON: %v", i, err)
		}
		if parsed.Sampler.Timestamp == "" {
			t.Errorf("payload %d: missing timestamp", i)
		}
		if parsed.Sampler.Event == "" {
			t.Errorf("payload %d: missing event", i)
		}
	}
}

// TestIntegrationEditCommitRearm walks the button pipeline: decoder events
// feed the editor, an edit plus a full cursor wrap commits, and the commit
// rearms a running sequence. The old cycle's pending starts must expire.
func TestIntegrationEditCommitRearm(t *testing.T) {
	storage := store.NewFakeStorage(map[int]int{
		0: 0, 1: 30, 2: 30, 3: 30, 4: 30, 5: 30, store.RuntimeIndex: 2,
	})
	settings := store.NewSettings(storage)
	if err := settings.Load(); err != nil {
		t.Fatalf("settings load: %v", err)
	}

	engine := sequence.NewEngine(sequence.Options{})
	ed := editor.New(settings)
	decoder := input.NewDecoder(input.Timing{
		Debounce:     0,
		HoldAfter:    600 * time.Millisecond,
		DoubleWithin: time.Millisecond,
	})

	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	now := start

	// Arm the sequence and run pump 1 (offset 0).
	engine.HandleWaterPresent(now, sequence.Schedule{
		Offsets: settings.Offsets(), Runtime: settings.Runtime(),
	})
	events := engine.Tick(now)
	if len(events) != 1 || events[0].Type != sequence.EventPumpStart {
		t.Fatalf("expected pump 1 start, got %v", events)
	}

	// One increase press at cursor 0 (pump 1 offset, hour digit) then 14
	// advance presses to wrap the cursor and commit.
	samples := []input.Sample{
		{Increase: true}, {},
	}
	for i := 0; i < 14; i++ {
		samples = append(samples, input.Sample{Advance: true}, input.Sample{})
	}

	committed := false
	for _, s := range samples {
		now = now.Add(100 * time.Millisecond)
		s.Time = now
		for _, ev := range decoder.Process(s) {
			res := ed.Handle(ev)
			if res.Committed {
				committed = true
				engine.Rearm(now, sequence.Schedule{
					Offsets: settings.Offsets(), Runtime: settings.Runtime(),
				})
			}
		}
	}

	if !committed {
		t.Fatal("expected the cursor wrap to commit")
	}
	if got := settings.Offset(0); got != 60 {
		t.Errorf("pump 1 offset: got %d, want 60", got)
	}
	if storage.Saves == 0 {
		t.Error("expected the edit to be persisted")
	}

	// The old cycle scheduled 5 future starts; they are stale now. Advance
	// past both the old 30-minute offsets and the new 60-minute one and
	// count what fires.
	for i := 1; i <= 380; i++ {
		engine.Tick(now.Add(time.Duration(i) * 10 * time.Second))
	}
	counts := engine.Counts()
	if counts.StaleDropped != 5 {
		t.Errorf("expected 5 stale starts dropped, got %d", counts.StaleDropped)
	}
	// New cycle: all six pumps started (plus pump 1's run before the edit).
	total := 0
	for _, n := range counts.Starts {
		total += n
	}
	if total != sequence.NumPumps+1 {
		t.Errorf("expected %d total starts, got %d", sequence.NumPumps+1, total)
	}
}

// TestIntegrationPublishFailureDoesNotBlockPumps verifies MQTT failures
// don't stop the actuator path.
func TestIntegrationPublishFailureDoesNotBlockPumps(t *testing.T) {
	engine := sequence.NewEngine(sequence.Options{})
	outputs := gpio.NewFakeOutputs()
	publisher := mqtt.NewFakePublisher()
	publisher.PublishError = errors.New("broker unreachable")

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	engine.HandleWaterPresent(now, sequence.Schedule{Runtime: 1})

	for _, ev := range engine.Tick(now) {
		if ev.Type == sequence.EventPumpStart {
			if err := outputs.Set(ev.Pump, true); err != nil {
				t.Fatalf("set pump: %v", err)
			}
		}
		if err := publisher.Publish(ev); err == nil {
			t.Error("expected publish to fail")
		}
	}

	if outputs.ActiveCount() != 1 {
		t.Errorf("expected pump running despite publish failure, got %d high", outputs.ActiveCount())
	}
}

// TestIntegrationStatusPipeline runs engine state through the tracker into
// the web server and checks the JSON a monitoring client would see.
func TestIntegrationStatusPipeline(t *testing.T) {
	settings := store.NewSettings(store.NewFakeStorage(map[int]int{
		0: 15, 1: 30, 2: 45, 3: 60, 4: 75, 5: 90, store.RuntimeIndex: 3,
	}))
	if err := settings.Load(); err != nil {
		t.Fatalf("settings load: %v", err)
	}

	engine := sequence.NewEngine(sequence.Options{})
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	engine.HandleWaterPresent(now, sequence.Schedule{
		Offsets: settings.Offsets(), Runtime: settings.Runtime(),
	})
	engine.Tick(now.Add(15 * time.Minute)) // pump 1 starts

	tracker := status.NewTracker(now, status.Config{Broker: "tcp://broker:1883"})
	tracker.UpdateSettings(settings.Offsets(), settings.Runtime(), settings.Loaded())
	tracker.UpdateEngine(engine.Active(), engine.ActivePump(), engine.Armed(), engine.Counts())
	tracker.SetWaterPresent(true)

	srv := web.New(":0", tracker, nil)
	req := httptest.NewRequest(http.MethodGet, "/index.json", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var parsed status.StatusJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if !parsed.Status.Armed {
		t.Error("expected armed")
	}
	if !parsed.Status.WaterPresent {
		t.Error("expected water present")
	}
	if parsed.Status.ActivePump != 1 {
		t.Errorf("expected active pump 1, got %d", parsed.Status.ActivePump)
	}
	if parsed.Status.Pumps[0] != "ON" {
		t.Errorf("expected pump 1 ON, got %q", parsed.Status.Pumps[0])
	}
	if parsed.Status.Settings.RuntimeMin != 3 {
		t.Errorf("expected runtime 3, got %d", parsed.Status.Settings.RuntimeMin)
	}
	if parsed.Status.MQTT.Broker != "tcp://broker:1883" {
		t.Errorf("unexpected broker %q", parsed.Status.MQTT.Broker)
	}
}

// TestIntegrationDisplayReflectsSequence checks the presenter output while
// a pump is running and an edit is in progress.
func TestIntegrationDisplayReflectsSequence(t *testing.T) {
	settings := store.NewSettings(store.NewFakeStorage(map[int]int{
		0: 0, 1: 30, 2: 30, 3: 30, 4: 30, 5: 30, store.RuntimeIndex: 5,
	}))
	if err := settings.Load(); err != nil {
		t.Fatalf("settings load: %v", err)
	}

	engine := sequence.NewEngine(sequence.Options{})
	ed := editor.New(settings)
	presenter := display.NewPresenter()
	disp := display.NewFakeDisplay()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	engine.HandleWaterPresent(now, sequence.Schedule{
		Offsets: settings.Offsets(), Runtime: settings.Runtime(),
	})
	engine.Tick(now)

	frame := presenter.Frame(now, display.View{
		Offsets:    settings.Offsets(),
		Runtime:    settings.Runtime(),
		Cursor:     ed.Cursor(),
		Blink:      ed.Blink(),
		ActivePump: engine.ActivePump(),
		Armed:      engine.Armed(),
	})
	if err := disp.Render(frame); err != nil {
		t.Fatalf("render: %v", err)
	}

	got := disp.Last()
	if got.ActiveRow != 0 {
		t.Errorf("expected active row 0, got %d", got.ActiveRow)
	}
	if got.BlinkRow != 0 || !got.BlinkHour {
		t.Errorf("expected cursor on row 0 hour digit, got row %d hour %v", got.BlinkRow, got.BlinkHour)
	}

	// A notice displaces the page until its deadline.
	presenter.Notify(display.NoticeArmed, now, 800*time.Millisecond)
	frame = presenter.Frame(now.Add(100*time.Millisecond), display.View{ActivePump: -1})
	if frame.Notice != display.NoticeArmed {
		t.Errorf("expected notice %q, got %q", display.NoticeArmed, frame.Notice)
	}
	frame = presenter.Frame(now.Add(time.Second), display.View{ActivePump: -1})
	if frame.Notice != "" {
		t.Errorf("expected notice cleared, got %q", frame.Notice)
	}
}
