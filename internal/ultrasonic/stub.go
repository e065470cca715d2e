//go:build !linux

package ultrasonic

import "errors"

// RealRanger is not available on non-Linux platforms.
type RealRanger struct{}

// NewRealRanger returns an error on non-Linux platforms.
func NewRealRanger(trigPin, echoPin int) (*RealRanger, error) {
	return nil, errors.New("ultrasonic: not supported on this platform (requires Linux)")
}

// MeasureDistance is not implemented on non-Linux platforms.
func (r *RealRanger) MeasureDistance() (float64, error) {
	return -1, errors.New("ultrasonic: not supported")
}

// Close is not implemented on non-Linux platforms.
func (r *RealRanger) Close() error {
	return nil
}
