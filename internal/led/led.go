// Package led drives the status LED through a GPIO output line.
package led

import (
	"context"
	"log"
	"time"

	"github.com/sleepaiz/sleep-client/internal/gpio"
)

// LED controls a single LED on a GPIO pin.
type LED struct {
	out  gpio.Output
	isOn bool

	// sleep is injectable for tests.
	sleep func(time.Duration)
}

// New creates an LED over the given output line.
func New(out gpio.Output) *LED {
	return &LED{out: out, sleep: time.Sleep}
}

// On turns the LED on.
func (l *LED) On() error {
	if err := l.out.Set(true); err != nil {
		return err
	}
	l.isOn = true
	return nil
}

// Off turns the LED off.
func (l *LED) Off() error {
	if err := l.out.Set(false); err != nil {
		return err
	}
	l.isOn = false
	return nil
}

// Toggle flips the LED state.
func (l *LED) Toggle() error {
	if l.isOn {
		return l.Off()
	}
	return l.On()
}

// Blink flashes the LED the given number of times.
func (l *LED) Blink(times int, interval time.Duration) error {
	for i := 0; i < times; i++ {
		if err := l.On(); err != nil {
			return err
		}
		l.sleep(interval)
		if err := l.Off(); err != nil {
			return err
		}
		l.sleep(interval)
	}
	return nil
}

// SuccessPattern shows three slow blinks, used after a full collection job
// completes.
func (l *LED) SuccessPattern() error {
	return l.Blink(3, 300*time.Millisecond)
}

// AlarmFlash flickers the LED until the context is cancelled, leaving it off.
// Used alongside the buzzer while an alarm rings.
func (l *LED) AlarmFlash(ctx context.Context, halfPeriod time.Duration) {
	ticker := time.NewTicker(halfPeriod)
	defer ticker.Stop()
	defer func() {
		if err := l.Off(); err != nil {
			log.Printf("led: off after flash: %v", err)
		}
	}()

	on := true
	for {
		if err := l.out.Set(on); err != nil {
			log.Printf("led: set: %v", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			on = !on
		}
	}
}

// Close turns the LED off and releases the line.
func (l *LED) Close() error {
	return l.out.Close()
}
