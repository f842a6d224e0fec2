package sensor

import "fmt"

// LIS3DH register map (ST datasheet).
const (
	lis3dhRegWhoAmI   = 0x0F
	lis3dhRegCtrl1    = 0x20
	lis3dhRegOutXLow  = 0x28
	lis3dhChipID      = 0x33
	lis3dhAutoInc     = 0x80 // MSB of the register address enables auto-increment
	lis3dhCtrl1Normal = 0x27 // 10 Hz, normal mode, X/Y/Z enabled

	// DefaultAddrLIS3DH is the usual breakout address (SDO high: 0x19).
	DefaultAddrLIS3DH = 0x19

	standardGravity = 9.80665
)

// Axis selects one accelerometer axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// ParseAxis converts "x", "y" or "z" to an Axis.
func ParseAxis(s string) (Axis, error) {
	switch s {
	case "x", "X":
		return AxisX, nil
	case "y", "Y":
		return AxisY, nil
	case "z", "Z":
		return AxisZ, nil
	}
	return 0, fmt.Errorf("invalid axis %q (want x, y or z)", s)
}

// LIS3DH reads one axis of the ST LIS3DH accelerometer in m/s^2.
type LIS3DH struct {
	bus    Bus
	axis   Axis
	invert bool
}

// NewLIS3DH verifies the chip identity, enables 10 Hz sampling on all axes
// and returns a driver reporting the selected axis. invert flips the sign to
// compensate for mounting orientation.
func NewLIS3DH(bus Bus, axis Axis, invert bool) (*LIS3DH, error) {
	var id [1]byte
	if err := bus.ReadReg(lis3dhRegWhoAmI, id[:]); err != nil {
		return nil, fmt.Errorf("lis3dh identify: %w", err)
	}
	if id[0] != lis3dhChipID {
		return nil, fmt.Errorf("lis3dh: unexpected chip id 0x%02X (want 0x%02X)", id[0], lis3dhChipID)
	}
	if err := bus.WriteReg(lis3dhRegCtrl1, lis3dhCtrl1Normal); err != nil {
		return nil, fmt.Errorf("lis3dh configure: %w", err)
	}
	return &LIS3DH{bus: bus, axis: axis, invert: invert}, nil
}

// Read returns the configured axis acceleration in m/s^2.
// Output registers are little-endian, left-justified 12-bit at +/-2g
// (1 mg per count).
func (s *LIS3DH) Read() (Sample, error) {
	var buf [6]byte
	if err := s.bus.ReadReg(lis3dhRegOutXLow|lis3dhAutoInc, buf[:]); err != nil {
		return Sample{}, err
	}

	i := int(s.axis) * 2
	raw := int16(uint16(buf[i]) | uint16(buf[i+1])<<8)
	g := float64(raw>>4) / 1000.0

	value := g * standardGravity
	if s.invert {
		value = -value
	}
	return Sample{Value: value}, nil
}

// Close releases the underlying bus.
func (s *LIS3DH) Close() error {
	return s.bus.Close()
}
