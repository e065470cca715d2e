package mic

import (
	"fmt"
	"time"

	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/conn/spi"
	"periph.io/x/periph/conn/spi/spireg"
	"periph.io/x/periph/host"
)

// MCP3008 reads one channel of the ADC over SPI.
type MCP3008 struct {
	port    spi.PortCloser
	conn    spi.Conn
	channel int
}

// NewMCP3008 opens the default SPI port and prepares single-ended reads of
// the given channel (0-7).
func NewMCP3008(channel int) (*MCP3008, error) {
	if channel < 0 || channel > 7 {
		return nil, fmt.Errorf("mcp3008 channel %d out of range 0-7", channel)
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}

	port, err := spireg.Open("")
	if err != nil {
		return nil, fmt.Errorf("open spi port: %w", err)
	}

	// The MCP3008 is specified up to 1.35MHz at 2.7V supply.
	conn, err := port.Connect(1350*physic.KiloHertz, spi.Mode0, 8)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("connect spi: %w", err)
	}

	return &MCP3008{port: port, conn: conn, channel: channel}, nil
}

// read performs one single-ended conversion and scales the 10-bit result up
// to 16 bits.
func (m *MCP3008) read() (uint16, error) {
	tx := []byte{0x01, byte(0x80 | m.channel<<4), 0x00}
	rx := make([]byte, 3)
	if err := m.conn.Tx(tx, rx); err != nil {
		return 0, fmt.Errorf("spi tx: %w", err)
	}
	raw := uint16(rx[1]&0x03)<<8 | uint16(rx[2])
	return raw << 6, nil
}

// SampleBurst reads samples at sampleRate for the duration.
func (m *MCP3008) SampleBurst(duration time.Duration, sampleRate int) ([]uint16, error) {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	interval := time.Second / time.Duration(sampleRate)

	samples := make([]uint16, 0, int(duration/interval)+1)
	end := time.Now().Add(duration)
	for time.Now().Before(end) {
		v, err := m.read()
		if err != nil {
			return nil, err
		}
		samples = append(samples, v)
		time.Sleep(interval)
	}
	return samples, nil
}

// Close releases the SPI port.
func (m *MCP3008) Close() error {
	return m.port.Close()
}
