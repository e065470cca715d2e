// Package logic contains pure business logic for the sleep-monitoring client.
// This package has NO external dependencies (no GPIO, SPI, HTTP, OS, or
// time.Sleep). Time is always injectable via time.Time parameters.
package logic

import "time"

// Alarm is an alarm record as served by the companion server.
type Alarm struct {
	ID         int    `json:"id"`
	Label      string `json:"label"`
	AlarmTime  string `json:"alarm_time"`  // "HH:MM" or "HH:MM:SS"
	RepeatDays string `json:"repeat_days"` // CSV of weekdays, 0=Monday .. 6=Sunday; empty = every day
	Enabled    bool   `json:"enabled"`
	IsRinging  bool   `json:"is_ringing"`
}

// Sample is a single ultrasonic distance reading.
type Sample struct {
	// Distance in centimeters. Values <= 0 mean the measurement failed
	// (echo timeout) and never count as presence.
	Distance float64
	Time     time.Time
}

// EventType identifies a domain event published over MQTT.
type EventType string

const (
	EventAlarmTriggered EventType = "ALARM_TRIGGERED"
	EventAlarmDismissed EventType = "ALARM_DISMISSED"
	EventSnoreDetected  EventType = "SNORE_DETECTED"
)

// Event is a domain event to be published.
type Event struct {
	Timestamp time.Time
	Type      EventType
	AlarmID   int
	Label     string
	NoiseDB   float64
}

// NoiseResult summarizes one microphone measurement window.
type NoiseResult struct {
	AvgDB   float64
	MaxDB   float64
	Snoring bool
}

// EventCounts tracks work done since startup, for status reporting.
type EventCounts struct {
	EnvUploads      int
	EnvFailures     int
	PostureUploads  int
	PostureFailures int
	AlarmsTriggered int
	AlarmsDismissed int
	SnoreEvents     int
}
