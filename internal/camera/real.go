package camera

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"
)

// captureTimeout bounds one rpicam-still invocation, including sensor
// warm-up.
const captureTimeout = 30 * time.Second

// RealCamera captures photos by invoking rpicam-still.
type RealCamera struct {
	cfg Config

	// command is the capture binary, overridable for tests.
	command string

	// now is injectable for tests.
	now func() time.Time
}

// NewRealCamera creates a camera with the given capture parameters.
func NewRealCamera(cfg Config) (*RealCamera, error) {
	switch cfg.Format {
	case "jpg", "jpeg", "png":
	default:
		return nil, fmt.Errorf("unsupported image format %q", cfg.Format)
	}
	return &RealCamera{cfg: cfg, command: "rpicam-still", now: time.Now}, nil
}

// CaptureTimestamped captures one photo into dir.
func (c *RealCamera) CaptureTimestamped(ctx context.Context, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create image dir: %w", err)
	}

	path := filepath.Join(dir, filename(c.now(), c.cfg.Format))

	ctx, cancel := context.WithTimeout(ctx, captureTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.command, c.args(path)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("%s: %w (%s)", c.command, err, firstLine(out))
	}

	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("capture produced no file: %w", err)
	}
	return path, nil
}

func (c *RealCamera) args(path string) []string {
	args := []string{
		"--nopreview",
		"--immediate",
		"--width", strconv.Itoa(c.cfg.Width),
		"--height", strconv.Itoa(c.cfg.Height),
		"--output", path,
	}
	switch c.cfg.Format {
	case "png":
		args = append(args, "--encoding", "png")
	default:
		args = append(args, "--encoding", "jpg", "--quality", strconv.Itoa(c.cfg.Quality))
	}
	return args
}

// Close is a no-op: the capture process releases the camera on exit.
func (c *RealCamera) Close() error {
	return nil
}

func firstLine(out []byte) string {
	for i, b := range out {
		if b == '\n' {
			return string(out[:i])
		}
	}
	return string(out)
}
