// Package dht reads temperature and humidity from a DHT22 sensor.
//
// The real implementation goes through the Linux IIO interface exposed by
// the dht11 kernel driver (which also handles the DHT22), so the fragile
// one-wire bit-banging stays in the kernel. Reads fail transiently on this
// sensor, so every read retries a fixed number of times.
package dht

// Sensor reads the ambient environment.
type Sensor interface {
	// Read returns temperature in Celsius and relative humidity in percent.
	Read() (temperature, humidity float64, err error)

	// Close releases sensor resources.
	Close() error
}

// DefaultDevice is the usual IIO sysfs directory for the first sensor.
const DefaultDevice = "/sys/bus/iio/devices/iio:device0"

// Plausible range for a DHT22 per its datasheet. Readings outside are
// treated as a failed attempt: the sensor occasionally returns garbage.
const (
	minTemp     = -40.0
	maxTemp     = 80.0
	minHumidity = 0.0
	maxHumidity = 100.0
)

func valid(temperature, humidity float64) bool {
	return temperature >= minTemp && temperature <= maxTemp &&
		humidity >= minHumidity && humidity <= maxHumidity
}
