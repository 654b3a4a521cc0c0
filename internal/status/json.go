package status

import (
	"encoding/json"
	"time"

	"github.com/sweeney/water-sampler/internal/sequence"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	Armed         bool         `json:"armed"`
	WaterPresent  bool         `json:"water_present"`
	ActivePump    int          `json:"active_pump"` // 1-based, 0 = none
	Pumps         []string     `json:"pumps"`
	Ready         bool         `json:"ready"` // settings loaded
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Counts        CountsJSON   `json:"event_counts"`
	Settings      SettingsJSON `json:"settings"`
	Editor        EditorJSON   `json:"editor"`
	Config        ConfigJSON   `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of sequencer counts.
type CountsJSON struct {
	Starts       []int `json:"pump_starts"`
	Stops        []int `json:"pump_stops"`
	Sequences    int   `json:"sequences_completed"`
	StaleDropped int   `json:"stale_events_dropped"`
}

// SettingsJSON is the JSON representation of the persisted settings.
type SettingsJSON struct {
	OffsetsMin []int `json:"offsets_min"`
	RuntimeMin int   `json:"runtime_min"`
	Loaded     bool  `json:"loaded"`
}

// EditorJSON is the JSON representation of editor state.
type EditorJSON struct {
	Cursor  int  `json:"cursor"`
	Pending bool `json:"pending_edits"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs          int64  `json:"poll_ms"`
	HeartbeatMs     int64  `json:"heartbeat_ms"`
	Broker          string `json:"broker"`
	HTTPAddr        string `json:"http_addr"`
	DBPath          string `json:"db_path"`
	StopOnWaterLoss bool   `json:"stop_on_water_loss"`
}

func buildInner(snap Snapshot) StatusInner {
	pumps := make([]string, sequence.NumPumps)
	for i, on := range snap.Pumps {
		if on {
			pumps[i] = "ON"
		} else {
			pumps[i] = "OFF"
		}
	}

	return StatusInner{
		Armed:         snap.Armed,
		WaterPresent:  snap.WaterPresent,
		ActivePump:    snap.ActivePump + 1,
		Pumps:         pumps,
		Ready:         snap.SettingsLoaded,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Starts:       snap.Counts.Starts[:],
			Stops:        snap.Counts.Stops[:],
			Sequences:    snap.Counts.Sequences,
			StaleDropped: snap.Counts.StaleDropped,
		},
		Settings: SettingsJSON{
			OffsetsMin: snap.Offsets[:],
			RuntimeMin: snap.RuntimeMin,
			Loaded:     snap.SettingsLoaded,
		},
		Editor: EditorJSON{Cursor: snap.Cursor, Pending: snap.PendingEdits},
		Config: ConfigJSON{
			PollMs:          snap.Config.PollMs,
			HeartbeatMs:     snap.Config.HeartbeatMs,
			Broker:          snap.Config.Broker,
			HTTPAddr:        snap.Config.HTTPAddr,
			DBPath:          snap.Config.DBPath,
			StopOnWaterLoss: snap.Config.StopOnWaterLoss,
		},
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
