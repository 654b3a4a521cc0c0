// Package sequence contains pure business logic for the pump sequencing
// engine. This package has NO external dependencies (no GPIO, MQTT, OS, or
// time.Sleep). Time is always injectable via time.Time parameters.
package sequence

import "time"

// NumPumps is the number of sampling pump outputs on the rig.
const NumPumps = 6

// Schedule is the configuration snapshot the engine arms with.
// Offsets and Runtime are in minutes.
type Schedule struct {
	// Offsets holds each pump's start delay from arming time.
	Offsets [NumPumps]int
	// Runtime is how long each pump stays on once started, shared by all pumps.
	Runtime int
}

// EventType identifies an engine event.
type EventType string

const (
	EventWaterPresent EventType = "WATER_PRESENT"
	EventWaterAbsent  EventType = "WATER_ABSENT"
	EventArmed        EventType = "ARMED"
	EventRearmed      EventType = "REARMED"
	EventPumpStart    EventType = "PUMP_START"
	EventPumpStop     EventType = "PUMP_STOP"
	EventSequenceDone EventType = "SEQUENCE_DONE"
)

// Event is a state transition emitted by the engine. The control loop applies
// pump events to the actuator outputs and forwards everything to telemetry.
type Event struct {
	Timestamp time.Time
	Type      EventType
	Pump      int // 0-based pump index for pump events, -1 otherwise
}

// Counts tracks engine activity since startup.
type Counts struct {
	Starts       [NumPumps]int
	Stops        [NumPumps]int
	Sequences    int // completed arm cycles
	StaleDropped int // scheduled starts dropped because their generation expired
}

// Options selects engine policy.
type Options struct {
	// StopOnWaterLoss stops all pumps and disarms when water goes absent
	// mid-sequence. The default (false) matches the original rig: a sample
	// run, once started, is committed regardless of the float.
	StopOnWaterLoss bool
}

type entryKind int

const (
	entryStart entryKind = iota
	entryStop
)

// entry is one scheduled action. Entries are never unscheduled; a start
// whose generation no longer matches the engine's is dropped when due.
// Stops are always honored because deasserting an output is always safe.
type entry struct {
	due        time.Time
	kind       entryKind
	pump       int
	generation uint64
}
