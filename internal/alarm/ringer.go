package alarm

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/sleepaiz/sleep-client/internal/api"
	"github.com/sleepaiz/sleep-client/internal/buzzer"
	"github.com/sleepaiz/sleep-client/internal/led"
	"github.com/sleepaiz/sleep-client/internal/logic"
	"github.com/sleepaiz/sleep-client/internal/ultrasonic"
)

// Dismissal reasons, for logging.
const (
	reasonHand    = "hand"
	reasonWeb     = "web"
	reasonTimeout = "timeout"
	reasonStopped = "stopped"
)

// RingConfig tunes the ring lifecycle.
type RingConfig struct {
	MaxDuration time.Duration // hard cap on one ring
	PulsePeriod time.Duration // buzzer/LED half period
	ServerPoll  time.Duration // how often to ask the server if dismissed
	HandPoll    time.Duration // distance sampling interval
	HandHoldCM  float64       // presence threshold in centimeters
	HandHold    time.Duration // how long presence must be sustained
}

// DefaultRingConfig matches the deployed appliance.
var DefaultRingConfig = RingConfig{
	MaxDuration: 10 * time.Minute,
	PulsePeriod: 500 * time.Millisecond,
	ServerPoll:  5 * time.Second,
	HandPoll:    200 * time.Millisecond,
	HandHoldCM:  30.0,
	HandHold:    5 * time.Second,
}

// Ringer runs at most one ring loop at a time.
type Ringer struct {
	client api.Client
	buzzer *buzzer.Buzzer
	led    *led.LED
	ranger ultrasonic.Ranger
	cfg    RingConfig

	// emit receives domain events (triggered/dismissed). May be nil.
	emit func(logic.Event)

	// now is injectable for tests.
	now func() time.Time

	mu      sync.Mutex
	active  bool
	current logic.Alarm
	since   time.Time
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewRinger creates a Ringer. emit may be nil if nothing consumes events.
func NewRinger(client api.Client, bz *buzzer.Buzzer, l *led.LED, ranger ultrasonic.Ranger, cfg RingConfig, emit func(logic.Event)) *Ringer {
	return &Ringer{
		client: client,
		buzzer: bz,
		led:    l,
		ranger: ranger,
		cfg:    cfg,
		emit:   emit,
		now:    time.Now,
	}
}

// Start begins ringing for the alarm. Returns false if a ring is already in
// progress: only one alarm sounds at a time.
func (r *Ringer) Start(a logic.Alarm) bool {
	r.mu.Lock()
	if r.active {
		r.mu.Unlock()
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), r.cfg.MaxDuration)
	r.active = true
	r.current = a
	r.since = r.now()
	r.cancel = cancel
	r.done = make(chan struct{})
	done := r.done
	r.mu.Unlock()

	r.emitEvent(logic.EventAlarmTriggered, a)
	go r.run(ctx, cancel, a, done)
	return true
}

// Stop cancels the current ring, if any, and waits for it to wind down.
func (r *Ringer) Stop() {
	r.mu.Lock()
	if !r.active {
		r.mu.Unlock()
		return
	}
	cancel := r.cancel
	done := r.done
	r.mu.Unlock()

	cancel()
	<-done
}

// Active returns the currently ringing alarm and when it started.
func (r *Ringer) Active() (logic.Alarm, time.Time, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current, r.since, r.active
}

func (r *Ringer) run(ctx context.Context, cancel context.CancelFunc, a logic.Alarm, done chan struct{}) {
	defer close(done)
	defer func() {
		r.mu.Lock()
		r.active = false
		r.cancel = nil
		r.mu.Unlock()
	}()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		r.buzzer.Ring(ctx, r.cfg.PulsePeriod)
	}()
	go func() {
		defer wg.Done()
		r.led.AlarmFlash(ctx, r.cfg.PulsePeriod)
	}()

	reason := r.watch(ctx, a)
	cancel()
	wg.Wait()

	// The server already knows about web dismissals; for everything else
	// the client is the one turning the alarm off.
	if reason == reasonHand || reason == reasonTimeout {
		clearCtx, clearCancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := r.client.SetRinging(clearCtx, a.ID, false); err != nil {
			log.Printf("alarm: clear ringing flag for %d: %v", a.ID, err)
		}
		clearCancel()
	}

	log.Printf("alarm: %q dismissed (%s)", a.Label, reason)
	r.emitEvent(logic.EventAlarmDismissed, a)
}

// watch blocks until the ring should end and returns why.
func (r *Ringer) watch(ctx context.Context, a logic.Alarm) string {
	handTicker := time.NewTicker(r.cfg.HandPoll)
	defer handTicker.Stop()
	serverTicker := time.NewTicker(r.cfg.ServerPoll)
	defer serverTicker.Stop()

	detector := logic.NewHandDetector(r.cfg.HandHoldCM, r.cfg.HandHold)

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return reasonTimeout
			}
			return reasonStopped

		case <-handTicker.C:
			d, err := r.ranger.MeasureDistance()
			if err != nil {
				d = -1
			}
			if detector.Process(logic.Sample{Distance: d, Time: r.now()}) {
				return reasonHand
			}

		case <-serverTicker.C:
			ringing, err := r.client.RingingAlarms(ctx)
			if err != nil {
				// Server unreachable: keep ringing, hand detection and
				// the max-duration cap still apply.
				log.Printf("alarm: poll ringing state: %v", err)
				continue
			}
			if len(ringing) == 0 {
				return reasonWeb
			}
		}
	}
}

func (r *Ringer) emitEvent(t logic.EventType, a logic.Alarm) {
	if r.emit == nil {
		return
	}
	r.emit(logic.Event{
		Timestamp: r.now(),
		Type:      t,
		AlarmID:   a.ID,
		Label:     a.Label,
	})
}
