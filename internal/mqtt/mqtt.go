// Package mqtt publishes client events for home-automation integration,
// with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sleepaiz/sleep-client/internal/logic"
)

// Topic is the MQTT topic for sleep client domain events.
const Topic = "home/sleep/client/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "home/sleep/client/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a domain event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event logic.Event) error

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
	Sleep SleepPayload `json:"sleep"`
}

// SleepPayload contains the domain event details.
type SleepPayload struct {
	Timestamp string  `json:"timestamp"`
	Event     string  `json:"event"`
	AlarmID   int     `json:"alarm_id,omitempty"`
	Label     string  `json:"label,omitempty"`
	NoiseDB   float64 `json:"noise_db,omitempty"`
}

// FormatPayload creates the JSON payload for a domain event.
func FormatPayload(event logic.Event) ([]byte, error) {
	payload := Payload{
		Sleep: SleepPayload{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     string(event.Type),
			AlarmID:   event.AlarmID,
			Label:     event.Label,
			NoiseDB:   event.NoiseDB,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
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
