// Package config loads the daemon configuration from a JSON file.
// Every section has a sensible default so a missing file still yields a
// runnable configuration for bench testing.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sleepaiz/sleep-client/internal/gpio"
)

// Config is the root of the JSON configuration file.
type Config struct {
	Server     Server     `json:"server"`
	System     System     `json:"system"`
	Camera     Camera     `json:"camera"`
	Sensor     Sensor     `json:"sensor"`
	Paths      Paths      `json:"paths"`
	Alarm      Alarm      `json:"alarm"`
	Ultrasonic Ultrasonic `json:"ultrasonic"`
	Microphone Microphone `json:"microphone"`
	MQTT       MQTT       `json:"mqtt"`
	HTTP       HTTP       `json:"http"`
}

// Server locates the companion server.
type Server struct {
	BaseURL string `json:"base_url"`
}

// System tunes upload behavior.
type System struct {
	TimeoutSeconds int `json:"timeout_seconds"`
	MaxRetries     int `json:"max_retries"`
}

// Camera configures posture photo capture.
type Camera struct {
	Resolution             [2]int `json:"resolution"`
	ImageFormat            string `json:"image_format"`
	ImageQuality           int    `json:"image_quality"`
	CaptureIntervalMinutes int    `json:"capture_interval_minutes"`
}

// Sensor configures the temperature/humidity sensor.
type Sensor struct {
	IIODevice         string `json:"iio_device"`
	RetryCount        int    `json:"retry_count"`
	RetryDelaySeconds int    `json:"retry_delay_seconds"`
}

// Paths holds filesystem locations.
type Paths struct {
	TempImageDir string `json:"temp_image_dir"`
}

// Alarm configures the ring lifecycle and its peripherals.
type Alarm struct {
	BuzzerPin         int     `json:"buzzer_pin"`
	LEDPin            int     `json:"led_pin"`
	CheckSeconds      int     `json:"check_seconds"`
	MaxRingMinutes    int     `json:"max_ring_minutes"`
	HandThresholdCM   float64 `json:"hand_threshold_cm"`
	HandHoldSeconds   int     `json:"hand_hold_seconds"`
	ServerPollSeconds int     `json:"server_poll_seconds"`
}

// Ultrasonic configures the distance sensor pins.
type Ultrasonic struct {
	TrigPin int `json:"trig_pin"`
	EchoPin int `json:"echo_pin"`
}

// Microphone configures noise sampling.
type Microphone struct {
	ADCChannel       int     `json:"adc_channel"`
	SampleRateHz     int     `json:"sample_rate_hz"`
	SnoreThresholdDB float64 `json:"snore_threshold_db"`
}

// MQTT configures the optional home-automation bridge. An empty broker
// disables publishing entirely.
type MQTT struct {
	Broker string `json:"broker"`
}

// HTTP configures the local status server.
type HTTP struct {
	Addr string `json:"addr"`
}

// Default returns the configuration matching the deployed appliance.
func Default() Config {
	return Config{
		Server: Server{BaseURL: "http://localhost:8000"},
		System: System{TimeoutSeconds: 10, MaxRetries: 3},
		Camera: Camera{
			Resolution:             [2]int{640, 480},
			ImageFormat:            "jpg",
			ImageQuality:           85,
			CaptureIntervalMinutes: 10,
		},
		Sensor: Sensor{
			IIODevice:         "/sys/bus/iio/devices/iio:device0",
			RetryCount:        3,
			RetryDelaySeconds: 2,
		},
		Paths: Paths{TempImageDir: "temp_images"},
		Alarm: Alarm{
			BuzzerPin:         gpio.DefaultPinBuzzer,
			LEDPin:            gpio.DefaultPinLED,
			CheckSeconds:      60,
			MaxRingMinutes:    10,
			HandThresholdCM:   30,
			HandHoldSeconds:   5,
			ServerPollSeconds: 5,
		},
		Ultrasonic: Ultrasonic{
			TrigPin: gpio.DefaultPinTrig,
			EchoPin: gpio.DefaultPinEcho,
		},
		Microphone: Microphone{
			ADCChannel:       0,
			SampleRateHz:     100,
			SnoreThresholdDB: 55,
		},
		HTTP: HTTP{Addr: ":8080"},
	}
}

// Load reads the JSON file at path over the defaults. A missing file is an
// error; use Default directly when no file exists.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Server.BaseURL == "" {
		return fmt.Errorf("server.base_url must not be empty")
	}
	if c.Camera.Resolution[0] <= 0 || c.Camera.Resolution[1] <= 0 {
		return fmt.Errorf("camera.resolution must be positive, got %v", c.Camera.Resolution)
	}
	if c.Camera.ImageFormat != "jpg" && c.Camera.ImageFormat != "png" {
		return fmt.Errorf("camera.image_format must be jpg or png, got %q", c.Camera.ImageFormat)
	}
	if c.Camera.ImageQuality < 1 || c.Camera.ImageQuality > 100 {
		return fmt.Errorf("camera.image_quality must be 1..100, got %d", c.Camera.ImageQuality)
	}
	if c.Camera.CaptureIntervalMinutes <= 0 {
		return fmt.Errorf("camera.capture_interval_minutes must be positive, got %d", c.Camera.CaptureIntervalMinutes)
	}
	if c.System.MaxRetries < 1 {
		return fmt.Errorf("system.max_retries must be at least 1, got %d", c.System.MaxRetries)
	}
	if c.Alarm.HandThresholdCM <= 0 {
		return fmt.Errorf("alarm.hand_threshold_cm must be positive, got %v", c.Alarm.HandThresholdCM)
	}
	if c.Microphone.SampleRateHz <= 0 {
		return fmt.Errorf("microphone.sample_rate_hz must be positive, got %d", c.Microphone.SampleRateHz)
	}
	return nil
}
