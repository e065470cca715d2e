package logic

import "time"

// HandDetector tracks sustained presence in front of the ultrasonic sensor.
// A detection fires once an object has stayed within the distance threshold
// for the full hold duration. Any miss (out of range, or a failed
// measurement) resets progress.
type HandDetector struct {
	threshold float64
	hold      time.Duration

	present      bool
	presentSince time.Time
	fired        bool
}

// NewHandDetector creates a detector that fires after an object remains
// within threshold centimeters for the hold duration.
func NewHandDetector(threshold float64, hold time.Duration) *HandDetector {
	return &HandDetector{
		threshold: threshold,
		hold:      hold,
	}
}

// Process takes a distance sample and reports whether sustained presence has
// just been detected. After firing it reports false until Reset is called,
// so one hold maps to exactly one detection.
func (d *HandDetector) Process(s Sample) bool {
	if s.Distance <= 0 || s.Distance > d.threshold {
		d.present = false
		d.fired = false
		return false
	}

	if !d.present {
		d.present = true
		d.presentSince = s.Time
		d.fired = false
		return false
	}

	if d.fired {
		return false
	}

	if s.Time.Sub(d.presentSince) >= d.hold {
		d.fired = true
		return true
	}

	return false
}

// Held returns how long presence has currently been sustained as of now.
// Zero if nothing is within the threshold.
func (d *HandDetector) Held(now time.Time) time.Duration {
	if !d.present {
		return 0
	}
	return now.Sub(d.presentSince)
}

// Reset clears all progress, e.g. after an alarm has been dismissed.
func (d *HandDetector) Reset() {
	d.present = false
	d.fired = false
}
