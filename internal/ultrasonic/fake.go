package ultrasonic

import (
	"errors"
	"sync"
)

// FakeRanger is a test double that returns scripted distances.
type FakeRanger struct {
	mu sync.Mutex

	// Distances contains scripted readings. Each call to MeasureDistance
	// consumes the next one; when exhausted, the last value repeats.
	// A negative value is returned as ErrEchoTimeout.
	Distances []float64

	index int

	// Closed tracks if Close was called.
	Closed bool

	// Reads counts MeasureDistance calls.
	Reads int
}

// NewFakeRanger creates a FakeRanger with the given scripted distances.
func NewFakeRanger(distances []float64) *FakeRanger {
	return &FakeRanger{Distances: distances}
}

// MeasureDistance returns the next scripted distance.
func (f *FakeRanger) MeasureDistance() (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Reads++
	if len(f.Distances) == 0 {
		return -1, errors.New("no distances configured")
	}

	d := f.Distances[f.index]
	if f.index < len(f.Distances)-1 {
		f.index++
	}

	if d < 0 {
		return -1, ErrEchoTimeout
	}
	return d, nil
}

// Close marks the ranger as closed.
func (f *FakeRanger) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return nil
}

// Reset rewinds the script.
func (f *FakeRanger) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.index = 0
	f.Reads = 0
	f.Closed = false
}
