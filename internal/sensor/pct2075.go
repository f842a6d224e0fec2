package sensor

import "fmt"

// PCT2075 register map (NXP datasheet).
const (
	pct2075RegTemp = 0x00

	// DefaultAddrPCT2075 is the factory default I2C address.
	DefaultAddrPCT2075 = 0x37
)

// PCT2075 reads the NXP PCT2075 I2C temperature sensor.
type PCT2075 struct {
	bus Bus
}

// NewPCT2075 creates a PCT2075 driver and verifies the device responds.
func NewPCT2075(bus Bus) (*PCT2075, error) {
	s := &PCT2075{bus: bus}
	if _, err := s.Read(); err != nil {
		return nil, fmt.Errorf("pct2075 probe: %w", err)
	}
	return s, nil
}

// Read returns the temperature in degrees Celsius.
// The temp register is 11-bit two's complement in the top bits of a 16-bit
// word, 0.125 C per LSB.
func (s *PCT2075) Read() (Sample, error) {
	var buf [2]byte
	if err := s.bus.ReadReg(pct2075RegTemp, buf[:]); err != nil {
		return Sample{}, err
	}
	raw := int16(uint16(buf[0])<<8 | uint16(buf[1]))
	return Sample{Value: float64(raw>>5) * 0.125}, nil
}

// Close releases the underlying bus.
func (s *PCT2075) Close() error {
	return s.bus.Close()
}
