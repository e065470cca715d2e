package mic

import "time"

// FakeReader is a test double returning a scripted burst.
type FakeReader struct {
	// Samples is returned by every SampleBurst call.
	Samples []uint16

	// BurstError, if set, will be returned by SampleBurst.
	BurstError error

	// Bursts counts SampleBurst calls.
	Bursts int

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeReader creates a FakeReader returning the given samples.
func NewFakeReader(samples []uint16) *FakeReader {
	return &FakeReader{Samples: samples}
}

// SampleBurst returns the scripted samples.
func (f *FakeReader) SampleBurst(time.Duration, int) ([]uint16, error) {
	f.Bursts++
	if f.BurstError != nil {
		return nil, f.BurstError
	}
	return f.Samples, nil
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}
