package sequence

import "time"

// Engine owns actuator state and the scheduled-event list. It is driven
// entirely by the control loop: water events and button commits feed in,
// Tick fires due entries, and the returned events carry the output changes.
// At most one pump is active at any instant.
type Engine struct {
	opts       Options
	armed      bool
	armedAt    time.Time
	generation uint64
	runtime    int // minutes, captured at arm time
	active     [NumPumps]bool
	armIndex   int // starts fired this cycle
	retireInd  int // deactivations this cycle
	doneSent   bool
	entries    []entry
	counts     Counts
}

// NewEngine creates a disarmed engine.
func NewEngine(opts Options) *Engine {
	return &Engine{opts: opts}
}

// HandleWaterPresent arms the engine if it is not already armed, scheduling
// each pump's start at its configured offset from now. While armed it is a
// no-op, so float-switch chatter cannot restart a running sequence.
func (e *Engine) HandleWaterPresent(now time.Time, sched Schedule) []Event {
	events := []Event{{Timestamp: now, Type: EventWaterPresent, Pump: -1}}
	if e.armed {
		return events
	}
	e.arm(now, sched)
	return append(events, Event{Timestamp: now, Type: EventArmed, Pump: -1})
}

// HandleWaterAbsent records water loss. Unless StopOnWaterLoss is set the
// actuator state and schedule are untouched: the sample run is committed.
// With the cutoff enabled, every active pump stops, pending starts are
// invalidated, and the engine disarms so a later detection starts fresh.
func (e *Engine) HandleWaterAbsent(now time.Time) []Event {
	events := []Event{{Timestamp: now, Type: EventWaterAbsent, Pump: -1}}
	if !e.opts.StopOnWaterLoss || !e.armed {
		return events
	}
	for i := 0; i < NumPumps; i++ {
		if e.active[i] {
			events = append(events, e.deactivate(i, now))
		}
	}
	e.generation++ // pending starts become stale
	e.armed = false
	return events
}

// Rearm reschedules all six starts from now using the given configuration.
// It is used by the editor's commit path. The previous cycle's pending
// starts expire via the generation bump; an already-active pump keeps
// running until its scheduled stop or until a new start displaces it.
func (e *Engine) Rearm(now time.Time, sched Schedule) []Event {
	e.arm(now, sched)
	return []Event{{Timestamp: now, Type: EventRearmed, Pump: -1}}
}

func (e *Engine) arm(now time.Time, sched Schedule) {
	e.generation++
	e.armed = true
	e.armedAt = now
	e.runtime = sched.Runtime
	e.armIndex = 0
	e.retireInd = 0
	e.doneSent = false
	for i := 0; i < NumPumps; i++ {
		e.entries = append(e.entries, entry{
			due:        now.Add(time.Duration(sched.Offsets[i]) * time.Minute),
			kind:       entryStart,
			pump:       i,
			generation: e.generation,
		})
	}
}

// Tick fires every entry that is due at now, FIFO by registration order for
// same-instant expirations, and returns the resulting events. Entries
// appended while firing (the stop paired with a start) are themselves
// eligible in the same call, so a zero runtime start/stop pair resolves
// within one tick.
func (e *Engine) Tick(now time.Time) []Event {
	var events []Event
	for {
		fired := false
		for i := range e.entries {
			en := e.entries[i]
			if en.due.After(now) {
				continue
			}
			e.entries = append(e.entries[:i], e.entries[i+1:]...)
			events = append(events, e.fire(en, now)...)
			fired = true
			break // rescan from the front, fire may have appended
		}
		if !fired {
			return events
		}
	}
}

func (e *Engine) fire(en entry, now time.Time) []Event {
	switch en.kind {
	case entryStart:
		if en.generation != e.generation || !e.armed {
			e.counts.StaleDropped++
			return nil
		}
		return e.startPump(en.pump, now)
	case entryStop:
		if !e.active[en.pump] {
			// Already displaced by a newer start. Benign.
			return nil
		}
		events := []Event{e.deactivate(en.pump, now)}
		if done := e.checkDone(now); done != nil {
			events = append(events, *done)
		}
		return events
	}
	return nil
}

// startPump activates pump i and schedules its stop. Every other active
// pump is stopped first, regardless of any stop still scheduled for it:
// same-tick stop/start ordering is FIFO by registration, so the start must
// not rely on a previously scheduled stop having already fired.
func (e *Engine) startPump(i int, now time.Time) []Event {
	var events []Event
	for j := 0; j < NumPumps; j++ {
		if j != i && e.active[j] {
			events = append(events, e.deactivate(j, now))
		}
	}
	e.active[i] = true
	e.counts.Starts[i]++
	e.armIndex++
	e.entries = append(e.entries, entry{
		due:        now.Add(time.Duration(e.runtime) * time.Minute),
		kind:       entryStop,
		pump:       i,
		generation: e.generation,
	})
	return append(events, Event{Timestamp: now, Type: EventPumpStart, Pump: i})
}

func (e *Engine) deactivate(i int, now time.Time) Event {
	e.active[i] = false
	e.counts.Stops[i]++
	e.retireInd++
	return Event{Timestamp: now, Type: EventPumpStop, Pump: i}
}

func (e *Engine) checkDone(now time.Time) *Event {
	if e.doneSent || e.armIndex < NumPumps {
		return nil
	}
	for i := 0; i < NumPumps; i++ {
		if e.active[i] {
			return nil
		}
	}
	e.doneSent = true
	e.counts.Sequences++
	return &Event{Timestamp: now, Type: EventSequenceDone, Pump: -1}
}

// Armed reports whether a sequence is in progress (or completed without
// teardown; the flag stays set so repeated detections cannot re-trigger).
func (e *Engine) Armed() bool {
	return e.armed
}

// Active returns a copy of the pump output flags.
func (e *Engine) Active() [NumPumps]bool {
	return e.active
}

// ActivePump returns the index of the active pump, or -1 if none.
func (e *Engine) ActivePump() int {
	for i := 0; i < NumPumps; i++ {
		if e.active[i] {
			return i
		}
	}
	return -1
}

// Counts returns activity counters since startup.
func (e *Engine) Counts() Counts {
	return e.counts
}

// Pending returns the number of scheduled entries not yet fired, stale
// entries included.
func (e *Engine) Pending() int {
	return len(e.entries)
}

// ArmedAt returns the time of the most recent (re)arm.
func (e *Engine) ArmedAt() time.Time {
	return e.armedAt
}
