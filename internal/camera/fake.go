package camera

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// jpegStub is a minimal JPEG header so fakes produce a recognizable file.
var jpegStub = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00, 0xFF, 0xD9}

// FakeCapturer is a test double that writes a stub image file.
type FakeCapturer struct {
	// Format of the written file, default "jpg".
	Format string

	// CaptureError, if set, will be returned by CaptureTimestamped.
	CaptureError error

	// Captures contains the paths of all files written.
	Captures []string

	// Closed tracks if Close was called.
	Closed bool

	// Now is injectable for deterministic filenames.
	Now func() time.Time
}

// NewFakeCapturer creates a FakeCapturer.
func NewFakeCapturer() *FakeCapturer {
	return &FakeCapturer{Format: "jpg", Now: time.Now}
}

// CaptureTimestamped writes a stub image into dir.
func (f *FakeCapturer) CaptureTimestamped(_ context.Context, dir string) (string, error) {
	if f.CaptureError != nil {
		return "", f.CaptureError
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, filename(f.Now(), f.Format))
	if err := os.WriteFile(path, jpegStub, 0o644); err != nil {
		return "", err
	}
	f.Captures = append(f.Captures, path)
	return path, nil
}

// Close marks the capturer as closed.
func (f *FakeCapturer) Close() error {
	f.Closed = true
	return nil
}
