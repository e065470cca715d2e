package internal

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/sleepaiz/sleep-client/internal/alarm"
	"github.com/sleepaiz/sleep-client/internal/api"
	"github.com/sleepaiz/sleep-client/internal/buzzer"
	"github.com/sleepaiz/sleep-client/internal/gpio"
	"github.com/sleepaiz/sleep-client/internal/led"
	"github.com/sleepaiz/sleep-client/internal/logic"
	"github.com/sleepaiz/sleep-client/internal/mqtt"
	"github.com/sleepaiz/sleep-client/internal/ultrasonic"
)

// TestIntegrationAlarmFullFlow walks the whole ring lifecycle with fakes:
// a due alarm is detected, marked ringing on the server, the buzzer pulses,
// a sustained hand over the sensor dismisses it, and both lifecycle events
// reach MQTT.
func TestIntegrationAlarmFullFlow(t *testing.T) {
	client := api.NewFakeClient()
	client.AlarmList = []logic.Alarm{{
		ID:        1,
		Label:     "Wake up",
		AlarmTime: time.Now().Format("15:04"),
		Enabled:   true,
	}}

	publisher := mqtt.NewFakePublisher()
	buzzerOut := gpio.NewFakeOutput()
	ledOut := gpio.NewFakeOutput()

	events := make(chan logic.Event, 8)
	emit := func(e logic.Event) {
		publisher.Publish(e)
		events <- e
	}

	ringer := alarm.NewRinger(client, buzzer.New(buzzerOut), led.New(ledOut),
		ultrasonic.NewFakeRanger([]float64{12.0}), alarm.RingConfig{
			MaxDuration: 5 * time.Second,
			PulsePeriod: time.Millisecond,
			ServerPoll:  time.Hour,
			HandPoll:    time.Millisecond,
			HandHoldCM:  30,
			HandHold:    10 * time.Millisecond,
		}, emit)

	checker := alarm.NewChecker(client)
	due := checker.Due(context.Background())
	if len(due) != 1 {
		t.Fatalf("due alarms: got %d, want 1", len(due))
	}
	if len(client.RingCalls) != 1 || !client.RingCalls[0].Ringing {
		t.Fatalf("expected SetRinging(true) from checker, got %+v", client.RingCalls)
	}

	if !ringer.Start(due[0]) {
		t.Fatal("ringer did not start")
	}

	waitFor := func(want logic.EventType) {
		t.Helper()
		select {
		case e := <-events:
			if e.Type != want {
				t.Fatalf("event: got %s, want %s", e.Type, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %s", want)
		}
	}
	waitFor(logic.EventAlarmTriggered)
	waitFor(logic.EventAlarmDismissed)

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, _, active := ringer.Active(); !active {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("ringer never went idle")
		}
		time.Sleep(time.Millisecond)
	}

	// The hand dismissal must clear the server flag.
	last := client.RingCalls[len(client.RingCalls)-1]
	if last != (api.RingCall{AlarmID: 1, Ringing: false}) {
		t.Errorf("last ring call: got %+v, want SetRinging(1, false)", last)
	}

	if buzzerOut.WriteCount() < 2 {
		t.Error("buzzer never pulsed")
	}
	if buzzerOut.Level() || ledOut.Level() {
		t.Error("outputs left high after dismissal")
	}

	types := publisher.EventTypes()
	if len(types) != 2 || types[0] != logic.EventAlarmTriggered || types[1] != logic.EventAlarmDismissed {
		t.Errorf("published events: got %v", types)
	}
}

// TestIntegrationSnoreFlow runs a noisy microphone burst through the
// analyzer and publishes the resulting snore event.
func TestIntegrationSnoreFlow(t *testing.T) {
	samples := make([]uint16, 200)
	for i := range samples {
		if i >= 100 && i < 150 {
			samples[i] = 40000 // one loud half-second chunk
		} else {
			samples[i] = 100
		}
	}

	res := logic.AnalyzeNoise(samples, 50, 55)
	if !res.Snoring {
		t.Fatalf("expected snoring, got %+v", res)
	}
	if res.MaxDB != 90 {
		t.Errorf("max dB: got %v, want clamp at 90", res.MaxDB)
	}
	if res.AvgDB >= res.MaxDB {
		t.Errorf("avg %v should be below max %v", res.AvgDB, res.MaxDB)
	}

	publisher := mqtt.NewFakePublisher()
	event := logic.Event{
		Timestamp: time.Date(2026, 1, 5, 2, 15, 0, 0, time.UTC),
		Type:      logic.EventSnoreDetected,
		NoiseDB:   res.MaxDB,
	}
	if err := publisher.Publish(event); err != nil {
		t.Fatalf("publish: %v", err)
	}

	expected := `{"sleep":{"timestamp":"2026-01-05T02:15:00Z","event":"SNORE_DETECTED","noise_db":90}}`
	if string(publisher.Payloads[0]) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", publisher.Payloads[0], expected)
	}
}

// TestIntegrationAlarmPayloadFormat verifies the exact JSON structure for
// alarm events.
func TestIntegrationAlarmPayloadFormat(t *testing.T) {
	publisher := mqtt.NewFakePublisher()

	event := logic.Event{
		Timestamp: time.Date(2026, 2, 2, 7, 30, 0, 0, time.UTC),
		Type:      logic.EventAlarmTriggered,
		AlarmID:   3,
		Label:     "Wake up",
	}
	publisher.Publish(event)

	expected := `{"sleep":{"timestamp":"2026-02-02T07:30:00Z","event":"ALARM_TRIGGERED","alarm_id":3,"label":"Wake up"}}`
	if string(publisher.Payloads[0]) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", publisher.Payloads[0], expected)
	}
}

// TestIntegrationShutdownPayloadFormat verifies the exact JSON structure
// for plain system events.
func TestIntegrationShutdownPayloadFormat(t *testing.T) {
	data, err := mqtt.FormatSystemPayload(mqtt.SystemEvent{
		Timestamp: time.Date(2026, 2, 3, 10, 30, 45, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	})
	if err != nil {
		t.Fatalf("format: %v", err)
	}

	expected := `{"system":{"timestamp":"2026-02-03T10:30:45Z","event":"SHUTDOWN","reason":"SIGTERM"}}`
	if string(data) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", data, expected)
	}
}

// TestIntegrationWebDismissalFlow verifies a web dismissal stops the ring
// without the client clearing the server flag.
func TestIntegrationWebDismissalFlow(t *testing.T) {
	client := api.NewFakeClient()
	publisher := mqtt.NewFakePublisher()

	events := make(chan logic.Event, 8)
	ringer := alarm.NewRinger(client, buzzer.New(gpio.NewFakeOutput()), led.New(gpio.NewFakeOutput()),
		ultrasonic.NewFakeRanger([]float64{200}), alarm.RingConfig{
			MaxDuration: 5 * time.Second,
			PulsePeriod: time.Millisecond,
			ServerPoll:  2 * time.Millisecond,
			HandPoll:    time.Hour,
			HandHoldCM:  30,
			HandHold:    time.Second,
		}, func(e logic.Event) {
			publisher.Publish(e)
			events <- e
		})

	// Ringing list is empty: the web UI already dismissed this alarm.
	ringer.Start(logic.Alarm{ID: 2, Label: "Nap"})

	for i := 0; i < 2; i++ {
		select {
		case <-events:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for lifecycle events")
		}
	}

	for _, rc := range client.RingCalls {
		if !rc.Ringing {
			t.Errorf("client must not clear the flag after web dismissal: %+v", client.RingCalls)
		}
	}

	var parsed mqtt.Payload
	if err := json.Unmarshal(publisher.Payloads[1], &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Sleep.Event != "ALARM_DISMISSED" || parsed.Sleep.AlarmID != 2 {
		t.Errorf("dismissed payload: got %+v", parsed.Sleep)
	}
}
