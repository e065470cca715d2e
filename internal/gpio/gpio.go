// Package gpio provides GPIO output control with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Output drives a single GPIO output line.
type Output interface {
	// Set drives the line high (true) or low (false).
	Set(on bool) error

	// Close drives the line low and releases it.
	Close() error
}

// Pin defaults (BCM numbering)
const (
	DefaultPinBuzzer = 18
	DefaultPinLED    = 17
	DefaultPinTrig   = 23 // HC-SR04 trigger
	DefaultPinEcho   = 24 // HC-SR04 echo
)

// Chip is the GPIO character device on a Raspberry Pi.
const Chip = "gpiochip0"
