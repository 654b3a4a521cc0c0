// Package mqtt provides MQTT telemetry publishing with abstraction for
// testing. Publishing is one-way: the rig accepts no commands over MQTT.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/water-sampler/internal/sequence"
)

// TopicEvents is the MQTT topic for sequencer events.
const TopicEvents = "water/sampler/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "water/sampler/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a sequencer event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event sequence.Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Sampler SamplerPayload `json:"sampler"`
}

// SamplerPayload contains the sequencer event details.
type SamplerPayload struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	// Pump is the 1-based pump number for PUMP_START/PUMP_STOP, omitted
	// for rig-level events.
	Pump int `json:"pump,omitempty"`
}

// FormatPayload creates the JSON payload for a sequencer event.
func FormatPayload(event sequence.Event) ([]byte, error) {
	p := Payload{
		Sampler: SamplerPayload{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     string(event.Type),
		},
	}
	if event.Pump >= 0 {
		p.Sampler.Pump = event.Pump + 1
	}
	return json.Marshal(p)
}

// SystemPayload represents the MQTT message payload for system events that
// don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
