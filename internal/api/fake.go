package api

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sleepaiz/sleep-client/internal/logic"
)

// RingCall records one SetRinging invocation.
type RingCall struct {
	AlarmID int
	Ringing bool
}

// FakeClient is a test double recording every call.
// Safe for concurrent use: the ringer polls it from a goroutine.
type FakeClient struct {
	mu sync.Mutex

	// Healthy controls the Health result.
	Healthy bool

	// AlarmList is returned by Alarms.
	AlarmList []logic.Alarm

	// Ringing is returned by RingingAlarms.
	Ringing []logic.Alarm

	// Recorded calls.
	EnvUploads     []EnvironmentReading
	PostureUploads []string
	RingCalls      []RingCall

	// NextEnvID is returned (and incremented) by UploadEnvironment.
	NextEnvID int

	// PostureType is returned by UploadPosture.
	PostureType string

	// Injectable errors.
	EnvError     error
	PostureError error
	AlarmsError  error
	RingingError error
	SetRingError error
}

// NewFakeClient creates a healthy FakeClient.
func NewFakeClient() *FakeClient {
	return &FakeClient{Healthy: true, NextEnvID: 1, PostureType: "supine"}
}

// Health reports the scripted health state.
func (f *FakeClient) Health(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.Healthy {
		return errors.New("server unhealthy")
	}
	return nil
}

// UploadEnvironment records the reading.
func (f *FakeClient) UploadEnvironment(_ context.Context, r EnvironmentReading) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.EnvError != nil {
		return 0, f.EnvError
	}
	f.EnvUploads = append(f.EnvUploads, r)
	id := f.NextEnvID
	f.NextEnvID++
	return id, nil
}

// UploadPosture records the image path.
func (f *FakeClient) UploadPosture(_ context.Context, imagePath string, _ time.Time) (PostureResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PostureError != nil {
		return PostureResult{}, f.PostureError
	}
	f.PostureUploads = append(f.PostureUploads, imagePath)
	return PostureResult{ID: len(f.PostureUploads), PostureType: f.PostureType}, nil
}

// Alarms returns the scripted alarm list.
func (f *FakeClient) Alarms(context.Context) ([]logic.Alarm, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.AlarmsError != nil {
		return nil, f.AlarmsError
	}
	return append([]logic.Alarm(nil), f.AlarmList...), nil
}

// RingingAlarms returns the scripted ringing list.
func (f *FakeClient) RingingAlarms(context.Context) ([]logic.Alarm, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.RingingError != nil {
		return nil, f.RingingError
	}
	return append([]logic.Alarm(nil), f.Ringing...), nil
}

// SetRinging records the call and mirrors the flag into AlarmList and the
// Ringing list, approximating server behavior.
func (f *FakeClient) SetRinging(_ context.Context, alarmID int, ringing bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SetRingError != nil {
		return f.SetRingError
	}
	f.RingCalls = append(f.RingCalls, RingCall{AlarmID: alarmID, Ringing: ringing})

	for i := range f.AlarmList {
		if f.AlarmList[i].ID == alarmID {
			f.AlarmList[i].IsRinging = ringing
			if ringing {
				f.Ringing = append(f.Ringing, f.AlarmList[i])
			}
		}
	}
	if !ringing {
		kept := f.Ringing[:0]
		for _, a := range f.Ringing {
			if a.ID != alarmID {
				kept = append(kept, a)
			}
		}
		f.Ringing = kept
	}
	return nil
}

// SetHealthy flips the scripted health state.
func (f *FakeClient) SetHealthy(h bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Healthy = h
}

// ClearRinging empties the ringing list, simulating a web dismissal.
func (f *FakeClient) ClearRinging() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Ringing = nil
	for i := range f.AlarmList {
		f.AlarmList[i].IsRinging = false
	}
}
