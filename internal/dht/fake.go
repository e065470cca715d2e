package dht

import "errors"

// Reading is one scripted sensor result.
type Reading struct {
	Temperature float64
	Humidity    float64
}

// FakeSensor is a test double returning scripted readings.
type FakeSensor struct {
	// Readings contains scripted results. Each Read consumes the next one;
	// when exhausted, the last repeats.
	Readings []Reading

	index int

	// ReadError, if set, will be returned by Read.
	ReadError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeSensor creates a FakeSensor with the given readings.
func NewFakeSensor(readings []Reading) *FakeSensor {
	return &FakeSensor{Readings: readings}
}

// Read returns the next scripted reading.
func (f *FakeSensor) Read() (float64, float64, error) {
	if f.ReadError != nil {
		return 0, 0, f.ReadError
	}
	if len(f.Readings) == 0 {
		return 0, 0, errors.New("no readings configured")
	}

	r := f.Readings[f.index]
	if f.index < len(f.Readings)-1 {
		f.index++
	}
	return r.Temperature, r.Humidity, nil
}

// Close marks the sensor as closed.
func (f *FakeSensor) Close() error {
	f.Closed = true
	return nil
}
