package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string           `json:"event,omitempty"`
	Reason        string           `json:"reason,omitempty"`
	ServerHealthy bool             `json:"server_healthy"`
	UptimeSeconds int64            `json:"uptime_seconds"`
	StartTime     string           `json:"start_time"`
	Timestamp     string           `json:"timestamp"`
	Environment   *EnvironmentJSON `json:"environment,omitempty"`
	Capture       *CaptureJSON     `json:"capture,omitempty"`
	Noise         *NoiseJSON       `json:"noise,omitempty"`
	Ringing       *RingingJSON     `json:"ringing,omitempty"`
	MQTT          MQTTStatus       `json:"mqtt"`
	Counts        CountsJSON       `json:"event_counts"`
	Config        ConfigJSON       `json:"config"`
}

// EnvironmentJSON is the JSON representation of the last environment reading.
type EnvironmentJSON struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Time        string  `json:"time"`
}

// CaptureJSON is the JSON representation of the last posture photo.
type CaptureJSON struct {
	Filename    string `json:"filename"`
	PostureType string `json:"posture_type,omitempty"`
	Time        string `json:"time"`
}

// NoiseJSON is the JSON representation of the last microphone analysis.
type NoiseJSON struct {
	AvgDB   float64 `json:"avg_db"`
	MaxDB   float64 `json:"max_db"`
	Snoring bool    `json:"snoring"`
	Time    string  `json:"time"`
}

// RingingJSON describes the alarm currently sounding.
type RingingJSON struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
	Since string `json:"since"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	EnvUploads      int `json:"env_uploads"`
	EnvFailures     int `json:"env_failures"`
	PostureUploads  int `json:"posture_uploads"`
	PostureFailures int `json:"posture_failures"`
	AlarmsTriggered int `json:"alarms_triggered"`
	AlarmsDismissed int `json:"alarms_dismissed"`
	SnoreEvents     int `json:"snore_events"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	CaptureIntervalMin int64  `json:"capture_interval_min"`
	AlarmCheckSec      int64  `json:"alarm_check_sec"`
	ServerURL          string `json:"server_url"`
	Broker             string `json:"broker,omitempty"`
	HTTPPort           string `json:"http_port"`
}

func buildInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		ServerHealthy: snap.ServerHealthy,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			EnvUploads:      snap.Counts.EnvUploads,
			EnvFailures:     snap.Counts.EnvFailures,
			PostureUploads:  snap.Counts.PostureUploads,
			PostureFailures: snap.Counts.PostureFailures,
			AlarmsTriggered: snap.Counts.AlarmsTriggered,
			AlarmsDismissed: snap.Counts.AlarmsDismissed,
			SnoreEvents:     snap.Counts.SnoreEvents,
		},
		Config: ConfigJSON{
			CaptureIntervalMin: snap.Config.CaptureIntervalMin,
			AlarmCheckSec:      snap.Config.AlarmCheckSec,
			ServerURL:          snap.Config.ServerURL,
			Broker:             snap.Config.Broker,
			HTTPPort:           snap.Config.HTTPPort,
		},
	}

	if snap.Environment != nil {
		inner.Environment = &EnvironmentJSON{
			Temperature: snap.Environment.Temperature,
			Humidity:    snap.Environment.Humidity,
			Time:        snap.Environment.Time.UTC().Format(time.RFC3339),
		}
	}
	if snap.Capture != nil {
		inner.Capture = &CaptureJSON{
			Filename:    snap.Capture.Filename,
			PostureType: snap.Capture.PostureType,
			Time:        snap.Capture.Time.UTC().Format(time.RFC3339),
		}
	}
	if snap.Noise != nil {
		inner.Noise = &NoiseJSON{
			AvgDB:   snap.Noise.AvgDB,
			MaxDB:   snap.Noise.MaxDB,
			Snoring: snap.Noise.Snoring,
			Time:    snap.Noise.Time.UTC().Format(time.RFC3339),
		}
	}
	if snap.Ringing != nil {
		inner.Ringing = &RingingJSON{
			ID:    snap.Ringing.ID,
			Label: snap.Ringing.Label,
			Since: snap.Ringing.Since.UTC().Format(time.RFC3339),
		}
	}
	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
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
