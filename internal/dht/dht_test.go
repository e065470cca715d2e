package dht

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeChannels(t *testing.T, dir, temp, humidity string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, tempFile), []byte(temp), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, humidityFile), []byte(humidity), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestIIOSensorRead(t *testing.T) {
	dir := t.TempDir()
	writeChannels(t, dir, "21340\n", "48200\n")

	s := NewIIOSensor(dir, 3, time.Second)
	s.sleep = func(time.Duration) {}

	temp, hum, err := s.Read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if temp != 21.34 {
		t.Errorf("temperature: got %v, want 21.34", temp)
	}
	if hum != 48.2 {
		t.Errorf("humidity: got %v, want 48.2", hum)
	}
}

func TestIIOSensorNegativeTemperature(t *testing.T) {
	dir := t.TempDir()
	writeChannels(t, dir, "-5500\n", "80000\n")

	s := NewIIOSensor(dir, 1, 0)
	temp, _, err := s.Read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if temp != -5.5 {
		t.Errorf("temperature: got %v, want -5.5", temp)
	}
}

func TestIIOSensorImplausibleValueRetries(t *testing.T) {
	dir := t.TempDir()
	// 120C is out of range for a DHT22.
	writeChannels(t, dir, "120000\n", "48200\n")

	s := NewIIOSensor(dir, 3, time.Second)
	var sleeps int
	s.sleep = func(time.Duration) {
		sleeps++
		// The reading becomes sane before the last attempt.
		if sleeps == 2 {
			writeChannels(t, dir, "24000\n", "48200\n")
		}
	}

	temp, _, err := s.Read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if temp != 24.0 {
		t.Errorf("temperature: got %v, want 24.0", temp)
	}
	if sleeps != 2 {
		t.Errorf("sleeps: got %d, want 2", sleeps)
	}
}

func TestIIOSensorMissingDevice(t *testing.T) {
	s := NewIIOSensor(filepath.Join(t.TempDir(), "absent"), 2, 0)
	s.sleep = func(time.Duration) {}

	if _, _, err := s.Read(); err == nil {
		t.Error("expected error for missing device directory")
	}
}

func TestIIOSensorGarbageContent(t *testing.T) {
	dir := t.TempDir()
	writeChannels(t, dir, "not-a-number\n", "48200\n")

	s := NewIIOSensor(dir, 1, 0)
	if _, _, err := s.Read(); err == nil {
		t.Error("expected parse error")
	}
}

func TestFakeSensorScript(t *testing.T) {
	f := NewFakeSensor([]Reading{
		{Temperature: 20, Humidity: 40},
		{Temperature: 21, Humidity: 41},
	})

	temp, _, err := f.Read()
	if err != nil || temp != 20 {
		t.Errorf("read 1: got %v/%v, want 20/nil", temp, err)
	}
	temp, _, _ = f.Read()
	if temp != 21 {
		t.Errorf("read 2: got %v, want 21", temp)
	}
	// Exhausted script repeats the last reading.
	temp, _, _ = f.Read()
	if temp != 21 {
		t.Errorf("read 3: got %v, want 21", temp)
	}
}
