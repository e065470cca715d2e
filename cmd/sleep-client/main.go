// Command sleep-client runs the bedside appliance: it uploads environment
// readings and posture photos to the companion server, watches for due
// alarms, and rings the buzzer until the alarm is dismissed.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sleepaiz/sleep-client/internal/alarm"
	"github.com/sleepaiz/sleep-client/internal/api"
	"github.com/sleepaiz/sleep-client/internal/buzzer"
	"github.com/sleepaiz/sleep-client/internal/camera"
	"github.com/sleepaiz/sleep-client/internal/config"
	"github.com/sleepaiz/sleep-client/internal/dht"
	"github.com/sleepaiz/sleep-client/internal/gpio"
	"github.com/sleepaiz/sleep-client/internal/led"
	"github.com/sleepaiz/sleep-client/internal/logic"
	"github.com/sleepaiz/sleep-client/internal/mic"
	"github.com/sleepaiz/sleep-client/internal/mqtt"
	"github.com/sleepaiz/sleep-client/internal/status"
	"github.com/sleepaiz/sleep-client/internal/ultrasonic"
	"github.com/sleepaiz/sleep-client/internal/web"
)

func main() {
	configPath := flag.String("config", "config.json", "Path to JSON configuration")
	httpAddr := flag.String("http", "", "HTTP status address (overrides config, empty keeps config)")
	broker := flag.String("broker", "", "MQTT broker address (overrides config, empty keeps config)")
	heartbeat := flag.Duration("heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	printEnv := flag.Bool("print-env", false, "Read the DHT sensor once, print, and exit")
	printDistance := flag.Bool("print-distance", false, "Measure distance once, print, and exit")
	testBuzzer := flag.Bool("test-buzzer", false, "Play a short buzzer pattern and exit")

	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	if *httpAddr != "" {
		cfg.HTTP.Addr = *httpAddr
	}
	if *broker != "" {
		cfg.MQTT.Broker = *broker
	}

	switch {
	case *printEnv:
		err = runPrintEnv(cfg)
	case *printDistance:
		err = runPrintDistance(cfg)
	case *testBuzzer:
		err = runTestBuzzer(cfg)
	default:
		err = run(cfg, *heartbeat)
	}
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// loadConfig reads the config file, falling back to defaults when the
// default path does not exist.
func loadConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && path == "config.json" {
			log.Printf("no config.json, using defaults")
			return config.Default(), nil
		}
		return config.Config{}, err
	}
	return cfg, nil
}

func runPrintEnv(cfg config.Config) error {
	sensor := dht.NewIIOSensor(cfg.Sensor.IIODevice, cfg.Sensor.RetryCount,
		time.Duration(cfg.Sensor.RetryDelaySeconds)*time.Second)
	defer sensor.Close()

	temperature, humidity, err := sensor.Read()
	if err != nil {
		return err
	}
	fmt.Printf("%.2f C, %.2f %%RH\n", temperature, humidity)
	return nil
}

func runPrintDistance(cfg config.Config) error {
	ranger, err := ultrasonic.NewRealRanger(cfg.Ultrasonic.TrigPin, cfg.Ultrasonic.EchoPin)
	if err != nil {
		return err
	}
	defer ranger.Close()

	d, err := ranger.MeasureDistance()
	if err != nil {
		return err
	}
	fmt.Printf("%.1f cm\n", d)
	return nil
}

func runTestBuzzer(cfg config.Config) error {
	out, err := gpio.NewRealOutput(cfg.Alarm.BuzzerPin)
	if err != nil {
		return err
	}
	bz := buzzer.New(out)
	defer bz.Close()
	return bz.Play(buzzer.PatternShort)
}

func run(cfg config.Config, heartbeat time.Duration) error {
	client := api.NewRealClient(cfg.Server.BaseURL,
		time.Duration(cfg.System.TimeoutSeconds)*time.Second, cfg.System.MaxRetries)

	sensor := dht.NewIIOSensor(cfg.Sensor.IIODevice, cfg.Sensor.RetryCount,
		time.Duration(cfg.Sensor.RetryDelaySeconds)*time.Second)
	defer sensor.Close()

	cam, err := camera.NewRealCamera(camera.Config{
		Width:   cfg.Camera.Resolution[0],
		Height:  cfg.Camera.Resolution[1],
		Format:  cfg.Camera.ImageFormat,
		Quality: cfg.Camera.ImageQuality,
	})
	if err != nil {
		return fmt.Errorf("init camera: %w", err)
	}
	defer cam.Close()

	buzzerOut, err := gpio.NewRealOutput(cfg.Alarm.BuzzerPin)
	if err != nil {
		return fmt.Errorf("init buzzer: %w", err)
	}
	bz := buzzer.New(buzzerOut)
	defer bz.Close()

	ledOut, err := gpio.NewRealOutput(cfg.Alarm.LEDPin)
	if err != nil {
		return fmt.Errorf("init led: %w", err)
	}
	statusLED := led.New(ledOut)
	defer statusLED.Close()

	ranger, err := ultrasonic.NewRealRanger(cfg.Ultrasonic.TrigPin, cfg.Ultrasonic.EchoPin)
	if err != nil {
		return fmt.Errorf("init ultrasonic: %w", err)
	}
	defer ranger.Close()

	// The microphone is optional: without it the client still collects
	// environment and posture data.
	var micReader mic.Reader
	if m, err := mic.NewMCP3008(cfg.Microphone.ADCChannel); err != nil {
		log.Printf("microphone unavailable, noise monitoring disabled: %v", err)
	} else {
		micReader = m
		defer m.Close()
	}

	// MQTT is optional: an empty broker disables home-automation events.
	var publisher mqtt.Publisher
	var mqttStatus mqtt.ConnectionStatus
	if cfg.MQTT.Broker != "" {
		p, err := mqtt.NewRealPublisher(cfg.MQTT.Broker)
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		defer p.Close()
		publisher = p
		mqttStatus = p
	}

	tracker := status.NewTracker(time.Now(), status.Config{
		CaptureIntervalMin: int64(cfg.Camera.CaptureIntervalMinutes),
		AlarmCheckSec:      int64(cfg.Alarm.CheckSeconds),
		ServerURL:          cfg.Server.BaseURL,
		Broker:             cfg.MQTT.Broker,
		HTTPPort:           cfg.HTTP.Addr,
	})

	if cfg.HTTP.Addr != "" {
		srv := web.New(cfg.HTTP.Addr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTP.Addr)
	}

	a := &app{
		cfg:        cfg,
		client:     client,
		sensor:     sensor,
		cam:        cam,
		micReader:  micReader,
		led:        statusLED,
		publisher:  publisher,
		mqttStatus: mqttStatus,
		tracker:    tracker,
		now:        time.Now,
	}
	a.ringer = alarm.NewRinger(client, bz, statusLED, ranger, alarm.RingConfig{
		MaxDuration: time.Duration(cfg.Alarm.MaxRingMinutes) * time.Minute,
		PulsePeriod: alarm.DefaultRingConfig.PulsePeriod,
		ServerPoll:  time.Duration(cfg.Alarm.ServerPollSeconds) * time.Second,
		HandPoll:    alarm.DefaultRingConfig.HandPoll,
		HandHoldCM:  cfg.Alarm.HandThresholdCM,
		HandHold:    time.Duration(cfg.Alarm.HandHoldSeconds) * time.Second,
	}, a.handleEvent)
	a.checker = alarm.NewChecker(client)

	a.publishSystem("STARTUP", "", true)
	log.Printf("started: server=%s capture=%dm alarm-check=%ds",
		cfg.Server.BaseURL, cfg.Camera.CaptureIntervalMinutes, cfg.Alarm.CheckSeconds)

	jobTicker := time.NewTicker(time.Duration(cfg.Camera.CaptureIntervalMinutes) * time.Minute)
	defer jobTicker.Stop()
	alarmTicker := time.NewTicker(time.Duration(cfg.Alarm.CheckSeconds) * time.Second)
	defer alarmTicker.Stop()

	var heartbeatTick <-chan time.Time
	if heartbeat > 0 {
		hb := time.NewTicker(heartbeat)
		defer hb.Stop()
		heartbeatTick = hb.C
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Collect once at startup rather than waiting a full interval.
	a.runJob(context.Background())

	return a.runLoop(jobTicker.C, alarmTicker.C, heartbeatTick, sigCh)
}

// app bundles the daemon's collaborators for the run loop.
type app struct {
	cfg        config.Config
	client     api.Client
	sensor     dht.Sensor
	cam        camera.Capturer
	micReader  mic.Reader
	led        *led.LED
	ringer     *alarm.Ringer
	checker    *alarm.Checker
	publisher  mqtt.Publisher
	mqttStatus mqtt.ConnectionStatus
	tracker    *status.Tracker
	now        func() time.Time

	mu     sync.Mutex
	counts logic.EventCounts
}

func (a *app) runLoop(jobTick, alarmTick, heartbeatTick <-chan time.Time, sig <-chan os.Signal) error {
	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			a.ringer.Stop()
			a.publishSystem("SHUTDOWN", signalName, true)
			return nil

		case <-jobTick:
			a.runJob(context.Background())

		case <-alarmTick:
			a.checkAlarms(context.Background())

		case <-heartbeatTick:
			a.publishSystem("HEARTBEAT", "", false)
		}
	}
}

// runJob performs one collection pass: health gate, environment upload,
// posture photo upload, noise analysis.
func (a *app) runJob(ctx context.Context) {
	healthy := a.client.Health(ctx) == nil
	a.tracker.SetServerHealthy(healthy)
	if !healthy {
		log.Printf("job: server unreachable, skipping collection")
		return
	}

	a.uploadEnvironment(ctx)
	a.uploadPosture(ctx)
	a.analyzeNoise()

	a.mu.Lock()
	counts := a.counts
	a.mu.Unlock()
	a.tracker.SetCounts(counts)
}

func (a *app) uploadEnvironment(ctx context.Context) {
	temperature, humidity, err := a.sensor.Read()
	if err != nil {
		log.Printf("job: read environment: %v", err)
		a.bump(func(c *logic.EventCounts) { c.EnvFailures++ })
		return
	}

	id, err := a.client.UploadEnvironment(ctx, api.EnvironmentReading{
		Temperature: temperature,
		Humidity:    humidity,
	})
	if err != nil {
		log.Printf("job: upload environment: %v", err)
		a.bump(func(c *logic.EventCounts) { c.EnvFailures++ })
		return
	}

	log.Printf("job: environment uploaded (id=%d): %.2fC %.2f%%", id, temperature, humidity)
	a.bump(func(c *logic.EventCounts) { c.EnvUploads++ })
	a.tracker.SetEnvironment(status.Environment{
		Temperature: temperature,
		Humidity:    humidity,
		Time:        a.now(),
	})
	if err := a.led.SuccessPattern(); err != nil {
		log.Printf("job: led pattern: %v", err)
	}
}

func (a *app) uploadPosture(ctx context.Context) {
	path, err := a.cam.CaptureTimestamped(ctx, a.cfg.Paths.TempImageDir)
	if err != nil {
		log.Printf("job: capture photo: %v", err)
		a.bump(func(c *logic.EventCounts) { c.PostureFailures++ })
		return
	}

	result, err := a.client.UploadPosture(ctx, path, a.now())
	if err != nil {
		// Keep the file so the photo is not lost; the next successful
		// upload run leaves it for manual recovery.
		log.Printf("job: upload posture: %v (kept %s)", err, path)
		a.bump(func(c *logic.EventCounts) { c.PostureFailures++ })
		return
	}

	if err := os.Remove(path); err != nil {
		log.Printf("job: remove uploaded photo: %v", err)
	}
	log.Printf("job: posture uploaded (id=%d type=%s)", result.ID, result.PostureType)
	a.bump(func(c *logic.EventCounts) { c.PostureUploads++ })
	a.tracker.SetCapture(status.Capture{
		Filename:    path,
		PostureType: result.PostureType,
		Time:        a.now(),
	})
}

// noiseBurst is how long the microphone is sampled per collection pass.
const noiseBurst = 5 * time.Second

func (a *app) analyzeNoise() {
	if a.micReader == nil {
		return
	}

	samples, err := a.micReader.SampleBurst(noiseBurst, a.cfg.Microphone.SampleRateHz)
	if err != nil {
		log.Printf("job: sample microphone: %v", err)
		return
	}

	res := logic.AnalyzeNoise(samples, 0, a.cfg.Microphone.SnoreThresholdDB)
	a.tracker.SetNoise(status.Noise{
		AvgDB:   res.AvgDB,
		MaxDB:   res.MaxDB,
		Snoring: res.Snoring,
		Time:    a.now(),
	})
	if !res.Snoring {
		return
	}

	log.Printf("job: snoring detected (avg=%.1fdB max=%.1fdB)", res.AvgDB, res.MaxDB)
	a.bump(func(c *logic.EventCounts) { c.SnoreEvents++ })
	a.publishEvent(logic.Event{
		Timestamp: a.now(),
		Type:      logic.EventSnoreDetected,
		NoiseDB:   res.MaxDB,
	})
}

// checkAlarms starts ringing the first due alarm. The ringer enforces one
// alarm at a time; remaining due alarms ring on a later check once the
// current one is dismissed.
func (a *app) checkAlarms(ctx context.Context) {
	for _, due := range a.checker.Due(ctx) {
		if a.ringer.Start(due) {
			a.tracker.SetRinging(&status.RingingAlarm{
				ID:    due.ID,
				Label: due.Label,
				Since: a.now(),
			})
			return
		}
	}
}

// handleEvent receives ring lifecycle events from the ringer goroutine.
func (a *app) handleEvent(e logic.Event) {
	switch e.Type {
	case logic.EventAlarmTriggered:
		a.bump(func(c *logic.EventCounts) { c.AlarmsTriggered++ })
	case logic.EventAlarmDismissed:
		a.bump(func(c *logic.EventCounts) { c.AlarmsDismissed++ })
		a.tracker.SetRinging(nil)
	}

	a.mu.Lock()
	counts := a.counts
	a.mu.Unlock()
	a.tracker.SetCounts(counts)

	a.publishEvent(e)
}

func (a *app) bump(f func(*logic.EventCounts)) {
	a.mu.Lock()
	f(&a.counts)
	a.mu.Unlock()
}

func (a *app) publishEvent(e logic.Event) {
	if a.publisher == nil {
		return
	}
	if err := a.publisher.Publish(e); err != nil {
		log.Printf("mqtt: publish %s: %v", e.Type, err)
	}
}

func (a *app) publishSystem(event, reason string, retained bool) {
	if a.mqttStatus != nil {
		a.tracker.SetMQTTConnected(a.mqttStatus.IsConnected())
	}
	snap := a.tracker.Snapshot()

	if a.publisher == nil {
		return
	}
	sysEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      event,
		Reason:     reason,
		Retained:   retained,
		RawPayload: status.FormatStatusEvent(snap, event, reason),
	}
	if err := a.publisher.PublishSystem(sysEvent); err != nil {
		log.Printf("mqtt: publish %s: %v", event, err)
	} else {
		log.Printf("mqtt: published %s", event)
	}
}
