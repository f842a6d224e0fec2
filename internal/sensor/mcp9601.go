package sensor

import (
	"fmt"
	"strings"
)

// MCP9601 register map (Microchip datasheet).
const (
	mcp9601RegHotJunction = 0x00
	mcp9601RegColdJunction = 0x02
	mcp9601RegSensorConfig = 0x05

	// DefaultAddrMCP9601 is the factory default I2C address.
	DefaultAddrMCP9601 = 0x67
)

// thermocoupleTypes maps type letters to the sensor-config register nibble.
var thermocoupleTypes = map[string]byte{
	"K": 0, "J": 1, "T": 2, "N": 3, "S": 4, "E": 5, "B": 6, "R": 7,
}

// MCP9601 reads the Microchip MCP9601 I2C thermocouple amplifier.
type MCP9601 struct {
	bus Bus
}

// NewMCP9601 creates an MCP9601 driver configured for the given thermocouple
// type (one of K, J, T, N, S, E, B, R).
func NewMCP9601(bus Bus, thermocoupleType string) (*MCP9601, error) {
	tc := strings.ToUpper(strings.TrimSpace(thermocoupleType))
	nibble, ok := thermocoupleTypes[tc]
	if !ok {
		return nil, fmt.Errorf("mcp9601: invalid thermocouple type %q (valid: K J T N S E B R)", thermocoupleType)
	}
	if err := bus.WriteReg(mcp9601RegSensorConfig, nibble<<4); err != nil {
		return nil, fmt.Errorf("mcp9601 configure type %s: %w", tc, err)
	}
	return &MCP9601{bus: bus}, nil
}

// Read returns the hot-junction (thermocouple) temperature in degrees
// Celsius, 0.0625 C per LSB, 16-bit two's complement.
func (s *MCP9601) Read() (Sample, error) {
	v, err := s.readTemp(mcp9601RegHotJunction)
	if err != nil {
		return Sample{}, err
	}
	return Sample{Value: v}, nil
}

// Ambient returns the cold-junction (ambient) temperature in degrees Celsius.
func (s *MCP9601) Ambient() (float64, error) {
	return s.readTemp(mcp9601RegColdJunction)
}

func (s *MCP9601) readTemp(reg byte) (float64, error) {
	var buf [2]byte
	if err := s.bus.ReadReg(reg, buf[:]); err != nil {
		return 0, err
	}
	raw := int16(uint16(buf[0])<<8 | uint16(buf[1]))
	return float64(raw) * 0.0625, nil
}

// Close releases the underlying bus.
func (s *MCP9601) Close() error {
	return s.bus.Close()
}
