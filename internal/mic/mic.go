// Package mic samples the bedside microphone through an MCP3008 ADC on the
// SPI bus. Raw bursts are turned into decibel figures by internal/logic.
package mic

import "time"

// Reader collects raw ADC samples from the microphone channel.
type Reader interface {
	// SampleBurst reads samples at the given rate for the duration and
	// returns them scaled to 16 bits (the 10-bit ADC value shifted up).
	SampleBurst(duration time.Duration, sampleRate int) ([]uint16, error)

	// Close releases the SPI port.
	Close() error
}

// Defaults matching the deployed hardware.
const (
	DefaultChannel    = 0
	DefaultSampleRate = 100 // samples per second
)
