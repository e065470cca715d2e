// Package api is the HTTP client for the companion sleep server.
// The real implementation talks REST; the fake records calls for tests.
package api

import (
	"context"
	"time"

	"github.com/sleepaiz/sleep-client/internal/logic"
)

// EnvironmentReading is the payload for an environment upload.
type EnvironmentReading struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
}

// EnvironmentResult is the server's response to an environment upload.
type EnvironmentResult struct {
	ID int `json:"id"`
}

// PostureResult is the server's response to a posture photo upload. The
// posture type is assigned by the server-side analysis.
type PostureResult struct {
	ID          int    `json:"id"`
	PostureType string `json:"posture_type"`
}

// Client talks to the companion server.
type Client interface {
	// Health checks the server is reachable.
	Health(ctx context.Context) error

	// UploadEnvironment posts a temperature/humidity reading and returns
	// the stored record ID. Retries with exponential backoff.
	UploadEnvironment(ctx context.Context, r EnvironmentReading) (int, error)

	// UploadPosture posts the photo at imagePath as multipart form data.
	// Retries with exponential backoff.
	UploadPosture(ctx context.Context, imagePath string, analyzedAt time.Time) (PostureResult, error)

	// Alarms returns all configured alarms.
	Alarms(ctx context.Context) ([]logic.Alarm, error)

	// RingingAlarms returns the alarms the server currently considers
	// ringing. An empty list while we ring locally means the user
	// dismissed the alarm from the web UI.
	RingingAlarms(ctx context.Context) ([]logic.Alarm, error)

	// SetRinging flips an alarm's ringing flag on the server.
	SetRinging(ctx context.Context, alarmID int, ringing bool) error
}
