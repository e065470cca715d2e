// Package alarm polls the companion server for due alarms and owns the
// ring lifecycle: buzzer and LED while ringing, dismissal by web UI, by
// sustained hand presence over the ultrasonic sensor, or by timeout.
package alarm

import (
	"context"
	"log"
	"time"

	"github.com/sleepaiz/sleep-client/internal/api"
	"github.com/sleepaiz/sleep-client/internal/logic"
)

// Checker decides which alarms should start ringing.
type Checker struct {
	client api.Client

	// now is injectable for tests.
	now func() time.Time
}

// NewChecker creates a Checker against the given server client.
func NewChecker(client api.Client) *Checker {
	return &Checker{client: client, now: time.Now}
}

// Due fetches all alarms and returns those that should start ringing now.
// Each returned alarm has already been marked ringing on the server; alarms
// whose flag could not be set are skipped so the next check retries them.
func (c *Checker) Due(ctx context.Context) []logic.Alarm {
	alarms, err := c.client.Alarms(ctx)
	if err != nil {
		log.Printf("alarm: list alarms: %v", err)
		return nil
	}

	now := c.now()
	var due []logic.Alarm
	for _, a := range alarms {
		if !logic.ShouldRing(a, now) || a.IsRinging {
			continue
		}
		if err := c.client.SetRinging(ctx, a.ID, true); err != nil {
			log.Printf("alarm: mark %d ringing: %v", a.ID, err)
			continue
		}
		log.Printf("alarm: triggered %q at %s", a.Label, a.AlarmTime)
		due = append(due, a)
	}
	return due
}
