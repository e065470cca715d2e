package buzzer

import (
	"context"
	"testing"
	"time"

	"github.com/sleepaiz/sleep-client/internal/gpio"
)

// newTestBuzzer returns a buzzer whose sleeps are recorded, not slept.
func newTestBuzzer() (*Buzzer, *gpio.FakeOutput, *[]time.Duration) {
	out := gpio.NewFakeOutput()
	b := New(out)
	var slept []time.Duration
	b.sleep = func(d time.Duration) { slept = append(slept, d) }
	return b, out, &slept
}

func TestBeep(t *testing.T) {
	b, out, slept := newTestBuzzer()

	if err := b.Beep(500 * time.Millisecond); err != nil {
		t.Fatalf("beep: %v", err)
	}

	want := []bool{true, false}
	if len(out.Writes) != len(want) {
		t.Fatalf("writes: got %v, want %v", out.Writes, want)
	}
	for i := range want {
		if out.Writes[i] != want[i] {
			t.Errorf("write %d: got %v, want %v", i, out.Writes[i], want[i])
		}
	}
	if len(*slept) != 1 || (*slept)[0] != 500*time.Millisecond {
		t.Errorf("slept: got %v, want [500ms]", *slept)
	}
}

func TestPlayAlarmPattern(t *testing.T) {
	b, out, _ := newTestBuzzer()

	if err := b.Play(PatternAlarm); err != nil {
		t.Fatalf("play: %v", err)
	}

	// Three beeps: on/off three times.
	if got := out.WriteCount(); got != 6 {
		t.Errorf("writes: got %d, want 6", got)
	}
	if out.Level() {
		t.Error("buzzer must end low")
	}
}

func TestPlayUnknownFallsBackToShort(t *testing.T) {
	b, _, slept := newTestBuzzer()

	if err := b.Play("wat"); err != nil {
		t.Fatalf("play: %v", err)
	}
	if len(*slept) != 1 || (*slept)[0] != 200*time.Millisecond {
		t.Errorf("slept: got %v, want [200ms]", *slept)
	}
}

func TestRingPulsesUntilCancelled(t *testing.T) {
	out := gpio.NewFakeOutput()
	b := New(out)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		b.Ring(ctx, time.Millisecond)
		close(done)
	}()

	// Let a few half-periods elapse, then dismiss.
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("ring did not stop after cancel")
	}

	if out.WriteCount() < 4 {
		t.Errorf("expected several pulses, got %d writes", out.WriteCount())
	}
	if out.Level() {
		t.Error("buzzer must be off after ring stops")
	}
}

func TestRingSurvivesSetErrors(t *testing.T) {
	out := gpio.NewFakeOutput()
	out.SetError = context.DeadlineExceeded // any error will do
	b := New(out)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	// Must return when the context expires rather than crash on errors.
	b.Ring(ctx, time.Millisecond)
}
