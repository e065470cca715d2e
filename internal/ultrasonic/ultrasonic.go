// Package ultrasonic measures distance with an HC-SR04 ultrasonic
// rangefinder. The real implementation times the echo pulse using GPIO
// edge events; the fake returns scripted distances for tests.
package ultrasonic

import (
	"errors"
	"math"
	"time"
)

// Ranger measures distance to the nearest object.
type Ranger interface {
	// MeasureDistance returns the distance in centimeters, rounded to one
	// decimal place. Returns ErrEchoTimeout if no echo was seen in time.
	MeasureDistance() (float64, error)

	// Close releases sensor resources.
	Close() error
}

// ErrEchoTimeout means the echo pin never produced the expected edge. This
// happens when nothing is in range or the sensor is disconnected.
var ErrEchoTimeout = errors.New("ultrasonic: echo timeout")

// echoWindow bounds how long we wait for each echo edge. The HC-SR04 holds
// echo high at most ~38ms when nothing is in range.
const echoWindow = 100 * time.Millisecond

// speedOfSound in centimeters per second at room temperature.
const speedOfSound = 34300.0

// FlightToCentimeters converts a round-trip echo duration into a one-way
// distance in centimeters.
func FlightToCentimeters(flight time.Duration) float64 {
	cm := flight.Seconds() * speedOfSound / 2
	return math.Round(cm*10) / 10
}
