package dht

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// IIO channel files written by the dht11 driver, in millidegrees and
// milli-percent.
const (
	tempFile     = "in_temp_input"
	humidityFile = "in_humidityrelative_input"
)

// IIOSensor reads a DHT22 through the kernel IIO sysfs files.
type IIOSensor struct {
	dir        string
	retryCount int
	retryDelay time.Duration

	// sleep is injectable for tests.
	sleep func(time.Duration)
}

// NewIIOSensor creates a sensor backed by the given IIO device directory.
// Transient read failures are retried retryCount times with retryDelay
// between attempts.
func NewIIOSensor(dir string, retryCount int, retryDelay time.Duration) *IIOSensor {
	if retryCount < 1 {
		retryCount = 1
	}
	return &IIOSensor{
		dir:        dir,
		retryCount: retryCount,
		retryDelay: retryDelay,
		sleep:      time.Sleep,
	}
}

// Read returns temperature and humidity, retrying on failure or on values
// outside the sensor's plausible range.
func (s *IIOSensor) Read() (float64, float64, error) {
	var lastErr error
	for attempt := 0; attempt < s.retryCount; attempt++ {
		if attempt > 0 {
			s.sleep(s.retryDelay)
		}

		temperature, err := s.readChannel(tempFile)
		if err != nil {
			lastErr = err
			continue
		}
		humidity, err := s.readChannel(humidityFile)
		if err != nil {
			lastErr = err
			continue
		}

		if !valid(temperature, humidity) {
			lastErr = fmt.Errorf("implausible reading: %.1fC %.1f%%", temperature, humidity)
			continue
		}

		return round2(temperature), round2(humidity), nil
	}
	return 0, 0, fmt.Errorf("dht read failed after %d attempts: %w", s.retryCount, lastErr)
}

func (s *IIOSensor) readChannel(name string) (float64, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", name, err)
	}
	milli, err := strconv.ParseFloat(strings.TrimSpace(string(raw)), 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	return milli / 1000.0, nil
}

// Close is a no-op: sysfs files are opened per read.
func (s *IIOSensor) Close() error {
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
