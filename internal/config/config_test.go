package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.BaseURL != "http://localhost:8000" {
		t.Errorf("base_url: got %q", cfg.Server.BaseURL)
	}
	if cfg.Camera.Resolution != [2]int{640, 480} {
		t.Errorf("resolution: got %v", cfg.Camera.Resolution)
	}
	if cfg.Alarm.BuzzerPin != 18 || cfg.Alarm.LEDPin != 17 {
		t.Errorf("pins: got buzzer %d, led %d", cfg.Alarm.BuzzerPin, cfg.Alarm.LEDPin)
	}
	if cfg.Ultrasonic.TrigPin != 23 || cfg.Ultrasonic.EchoPin != 24 {
		t.Errorf("ultrasonic pins: got %d/%d", cfg.Ultrasonic.TrigPin, cfg.Ultrasonic.EchoPin)
	}
	if cfg.Microphone.SnoreThresholdDB != 55 {
		t.Errorf("snore threshold: got %v", cfg.Microphone.SnoreThresholdDB)
	}
	if err := cfg.validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `{
		"server": {"base_url": "http://192.168.1.50:8000"},
		"camera": {
			"resolution": [1280, 720],
			"image_format": "jpg",
			"image_quality": 90,
			"capture_interval_minutes": 5
		},
		"mqtt": {"broker": "tcp://192.168.1.50:1883"}
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.BaseURL != "http://192.168.1.50:8000" {
		t.Errorf("base_url: got %q", cfg.Server.BaseURL)
	}
	if cfg.Camera.Resolution != [2]int{1280, 720} {
		t.Errorf("resolution: got %v", cfg.Camera.Resolution)
	}
	if cfg.Camera.CaptureIntervalMinutes != 5 {
		t.Errorf("capture interval: got %d", cfg.Camera.CaptureIntervalMinutes)
	}
	if cfg.MQTT.Broker != "tcp://192.168.1.50:1883" {
		t.Errorf("broker: got %q", cfg.MQTT.Broker)
	}

	// Untouched sections keep their defaults.
	if cfg.System.MaxRetries != 3 {
		t.Errorf("max_retries: got %d, want default 3", cfg.System.MaxRetries)
	}
	if cfg.Alarm.HandThresholdCM != 30 {
		t.Errorf("hand threshold: got %v, want default 30", cfg.Alarm.HandThresholdCM)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := writeConfig(t, `{"server": `)
	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestLoadValidation(t *testing.T) {
	cases := []struct {
		name    string
		content string
		wantSub string
	}{
		{
			name:    "empty base url",
			content: `{"server": {"base_url": ""}}`,
			wantSub: "base_url",
		},
		{
			name:    "bad image format",
			content: `{"camera": {"resolution": [640,480], "image_format": "bmp", "image_quality": 85, "capture_interval_minutes": 10}}`,
			wantSub: "image_format",
		},
		{
			name:    "quality out of range",
			content: `{"camera": {"resolution": [640,480], "image_format": "jpg", "image_quality": 120, "capture_interval_minutes": 10}}`,
			wantSub: "image_quality",
		},
		{
			name:    "zero capture interval",
			content: `{"camera": {"resolution": [640,480], "image_format": "jpg", "image_quality": 85, "capture_interval_minutes": 0}}`,
			wantSub: "capture_interval",
		},
		{
			name:    "zero sample rate",
			content: `{"microphone": {"adc_channel": 0, "sample_rate_hz": 0, "snore_threshold_db": 55}}`,
			wantSub: "sample_rate",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.content)
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Errorf("error %q does not mention %q", err, tc.wantSub)
			}
		})
	}
}
