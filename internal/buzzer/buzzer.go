// Package buzzer drives the alarm buzzer through a GPIO output line.
package buzzer

import (
	"context"
	"log"
	"time"

	"github.com/sleepaiz/sleep-client/internal/gpio"
)

// Pattern names accepted by Play.
const (
	PatternShort = "short" // single 200ms beep
	PatternLong  = "long"  // single 1s beep
	PatternAlarm = "alarm" // three 300ms beeps
)

// Buzzer controls an active buzzer on a single GPIO pin.
type Buzzer struct {
	out gpio.Output

	// sleep is injectable for tests.
	sleep func(time.Duration)
}

// New creates a Buzzer over the given output line.
func New(out gpio.Output) *Buzzer {
	return &Buzzer{out: out, sleep: time.Sleep}
}

// On turns the buzzer on.
func (b *Buzzer) On() error {
	return b.out.Set(true)
}

// Off turns the buzzer off.
func (b *Buzzer) Off() error {
	return b.out.Set(false)
}

// Beep sounds the buzzer for the given duration.
func (b *Buzzer) Beep(d time.Duration) error {
	if err := b.On(); err != nil {
		return err
	}
	b.sleep(d)
	return b.Off()
}

// Play sounds a named pattern. Unknown names fall back to a short beep.
func (b *Buzzer) Play(pattern string) error {
	switch pattern {
	case PatternLong:
		return b.Beep(1 * time.Second)
	case PatternAlarm:
		for i := 0; i < 3; i++ {
			if err := b.Beep(300 * time.Millisecond); err != nil {
				return err
			}
			b.sleep(200 * time.Millisecond)
		}
		return nil
	default:
		return b.Beep(200 * time.Millisecond)
	}
}

// Ring pulses the buzzer (half-period on, half-period off) until the context
// is cancelled. The buzzer is always left off. Set failures are logged and
// the loop keeps going: a flaky pin must not silence the alarm entirely.
func (b *Buzzer) Ring(ctx context.Context, halfPeriod time.Duration) {
	ticker := time.NewTicker(halfPeriod)
	defer ticker.Stop()
	defer func() {
		if err := b.Off(); err != nil {
			log.Printf("buzzer: off after ring: %v", err)
		}
	}()

	on := true
	for {
		if err := b.out.Set(on); err != nil {
			log.Printf("buzzer: set: %v", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			on = !on
		}
	}
}

// Close turns the buzzer off and releases the line.
func (b *Buzzer) Close() error {
	return b.out.Close()
}
