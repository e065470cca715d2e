// Package camera captures still photos for posture analysis.
//
// The real implementation shells out to rpicam-still (the libcamera stack on
// Raspberry Pi OS); the fake writes canned image bytes for tests.
package camera

import (
	"context"
	"fmt"
	"time"
)

// Capturer takes timestamped still photos.
type Capturer interface {
	// CaptureTimestamped captures one photo into dir and returns the path,
	// named sleep_YYYYMMDD_HHMMSS.<format>.
	CaptureTimestamped(ctx context.Context, dir string) (string, error)

	// Close releases camera resources.
	Close() error
}

// Config holds capture parameters.
type Config struct {
	Width   int
	Height  int
	Format  string // "jpg" or "png"
	Quality int    // JPEG quality 1-100
}

// DefaultConfig matches the deployed appliance.
var DefaultConfig = Config{Width: 640, Height: 480, Format: "jpg", Quality: 85}

// filename formats the timestamped capture name.
func filename(now time.Time, format string) string {
	return fmt.Sprintf("sleep_%s.%s", now.Format("20060102_150405"), format)
}
