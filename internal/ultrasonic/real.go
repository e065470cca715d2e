//go:build linux

package ultrasonic

import (
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"

	"github.com/sleepaiz/sleep-client/internal/gpio"
)

// RealRanger drives an HC-SR04 on actual hardware. The echo pulse is timed
// from kernel edge-event timestamps, which are far more stable than
// userspace polling.
type RealRanger struct {
	trig   *gpiocdev.Line
	echo   *gpiocdev.Line
	events chan gpiocdev.LineEvent
}

// NewRealRanger requests the trigger pin as output and the echo pin as input
// with edge detection.
func NewRealRanger(trigPin, echoPin int) (*RealRanger, error) {
	trig, err := gpiocdev.RequestLine(gpio.Chip, trigPin, gpiocdev.AsOutput(0))
	if err != nil {
		return nil, fmt.Errorf("request trig pin %d: %w", trigPin, err)
	}

	r := &RealRanger{
		trig:   trig,
		events: make(chan gpiocdev.LineEvent, 16),
	}

	echo, err := gpiocdev.RequestLine(gpio.Chip, echoPin,
		gpiocdev.AsInput,
		gpiocdev.WithPullDown,
		gpiocdev.WithBothEdges,
		gpiocdev.WithEventHandler(r.handleEvent))
	if err != nil {
		trig.Close()
		return nil, fmt.Errorf("request echo pin %d: %w", echoPin, err)
	}
	r.echo = echo

	// Settle after wiring up, matching the sensor power-on requirement.
	time.Sleep(100 * time.Millisecond)
	return r, nil
}

func (r *RealRanger) handleEvent(evt gpiocdev.LineEvent) {
	select {
	case r.events <- evt:
	default:
		// Stale measurement in flight; drop rather than block the kernel
		// event goroutine.
	}
}

// MeasureDistance sends a 10us trigger pulse and times the echo.
func (r *RealRanger) MeasureDistance() (float64, error) {
	r.drainEvents()

	if err := r.trig.SetValue(1); err != nil {
		return -1, fmt.Errorf("trigger high: %w", err)
	}
	time.Sleep(10 * time.Microsecond)
	if err := r.trig.SetValue(0); err != nil {
		return -1, fmt.Errorf("trigger low: %w", err)
	}

	rise, err := r.waitEdge(gpiocdev.LineEventRisingEdge)
	if err != nil {
		return -1, err
	}
	fall, err := r.waitEdge(gpiocdev.LineEventFallingEdge)
	if err != nil {
		return -1, err
	}

	// Kernel timestamps are monotonic durations since boot.
	return FlightToCentimeters(fall.Timestamp - rise.Timestamp), nil
}

func (r *RealRanger) waitEdge(want gpiocdev.LineEventType) (gpiocdev.LineEvent, error) {
	deadline := time.NewTimer(echoWindow)
	defer deadline.Stop()

	for {
		select {
		case evt := <-r.events:
			if evt.Type == want {
				return evt, nil
			}
			// Opposite edge left over from a previous pulse; keep waiting.
		case <-deadline.C:
			return gpiocdev.LineEvent{}, ErrEchoTimeout
		}
	}
}

func (r *RealRanger) drainEvents() {
	for {
		select {
		case <-r.events:
		default:
			return
		}
	}
}

// Close releases both GPIO lines.
func (r *RealRanger) Close() error {
	var errs []error
	if r.trig != nil {
		if err := r.trig.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("clear trig: %w", err))
		}
		if err := r.trig.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close trig: %w", err))
		}
	}
	if r.echo != nil {
		if err := r.echo.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close echo: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
