// Package status provides a thread-safe status tracker for the sampler
// daemon. It is the only state shared between the control loop and the
// HTTP handlers.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/water-sampler/internal/sequence"
)

// Config contains daemon configuration for display.
type Config struct {
	PollMs          int64
	HeartbeatMs     int64
	Broker          string
	HTTPAddr        string
	DBPath          string
	StopOnWaterLoss bool
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Pumps          [sequence.NumPumps]bool
	ActivePump     int // 0-based, -1 for none
	Armed          bool
	WaterPresent   bool
	Offsets        [sequence.NumPumps]int
	RuntimeMin     int
	SettingsLoaded bool
	Cursor         int
	PendingEdits   bool
	Counts         sequence.Counts
	StartTime      time.Time
	Now            time.Time
	MQTTConnected  bool
	Config         Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime:  startTime,
			ActivePump: -1,
			Config:     cfg,
		},
	}
}

// UpdateEngine sets actuator and sequence state. Called from the control
// loop on every tick.
func (t *Tracker) UpdateEngine(pumps [sequence.NumPumps]bool, activePump int, armed bool, counts sequence.Counts) {
	t.mu.Lock()
	t.snap.Pumps = pumps
	t.snap.ActivePump = activePump
	t.snap.Armed = armed
	t.snap.Counts = counts
	t.mu.Unlock()
}

// UpdateSettings sets the configured offsets/runtime and the loaded flag.
func (t *Tracker) UpdateSettings(offsets [sequence.NumPumps]int, runtimeMin int, loaded bool) {
	t.mu.Lock()
	t.snap.Offsets = offsets
	t.snap.RuntimeMin = runtimeMin
	t.snap.SettingsLoaded = loaded
	t.mu.Unlock()
}

// UpdateEditor sets the cursor position and pending-edit flag.
func (t *Tracker) UpdateEditor(cursor int, pending bool) {
	t.mu.Lock()
	t.snap.Cursor = cursor
	t.snap.PendingEdits = pending
	t.mu.Unlock()
}

// SetWaterPresent sets the debounced float state.
func (t *Tracker) SetWaterPresent(present bool) {
	t.mu.Lock()
	t.snap.WaterPresent = present
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
