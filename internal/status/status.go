// Package status provides a thread-safe status tracker for the sleep-client
// daemon. It is read by HTTP handlers and by the MQTT system publisher.
package status

import (
	"sync"
	"time"

	"github.com/sleepaiz/sleep-client/internal/logic"
)

// Environment is the most recent temperature and humidity reading.
type Environment struct {
	Temperature float64
	Humidity    float64
	Time        time.Time
}

// Capture is the most recent posture photo and its classification.
type Capture struct {
	Filename    string
	PostureType string
	Time        time.Time
}

// Noise is the most recent microphone analysis.
type Noise struct {
	AvgDB   float64
	MaxDB   float64
	Snoring bool
	Time    time.Time
}

// RingingAlarm describes the alarm currently sounding, if any.
type RingingAlarm struct {
	ID    int
	Label string
	Since time.Time
}

// Config contains daemon configuration for display.
type Config struct {
	CaptureIntervalMin int64
	AlarmCheckSec      int64
	ServerURL          string
	Broker             string
	HTTPPort           string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Environment   *Environment
	Capture       *Capture
	Noise         *Noise
	Ringing       *RingingAlarm
	Counts        logic.EventCounts
	StartTime     time.Time
	Now           time.Time
	ServerHealthy bool
	MQTTConnected bool
	Config        Config
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
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// SetEnvironment records the latest temperature and humidity reading.
func (t *Tracker) SetEnvironment(e Environment) {
	t.mu.Lock()
	t.snap.Environment = &e
	t.mu.Unlock()
}

// SetCapture records the latest posture photo.
func (t *Tracker) SetCapture(c Capture) {
	t.mu.Lock()
	t.snap.Capture = &c
	t.mu.Unlock()
}

// SetNoise records the latest microphone analysis.
func (t *Tracker) SetNoise(n Noise) {
	t.mu.Lock()
	t.snap.Noise = &n
	t.mu.Unlock()
}

// SetRinging records the alarm currently sounding. Pass nil when it stops.
func (t *Tracker) SetRinging(r *RingingAlarm) {
	t.mu.Lock()
	t.snap.Ringing = r
	t.mu.Unlock()
}

// SetCounts replaces the event counters. Called after every job run.
func (t *Tracker) SetCounts(counts logic.EventCounts) {
	t.mu.Lock()
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetServerHealthy sets the companion-server health state.
func (t *Tracker) SetServerHealthy(healthy bool) {
	t.mu.Lock()
	t.snap.ServerHealthy = healthy
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
