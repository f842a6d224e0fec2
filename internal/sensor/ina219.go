package sensor

import "fmt"

// INA219 register map (TI datasheet).
const (
	ina219RegConfig      = 0x00
	ina219RegShuntVolt   = 0x01
	ina219RegBusVolt     = 0x02
	ina219RegCurrent     = 0x04
	ina219RegCalibration = 0x05

	// DefaultAddrINA219 is the usual UPS HAT address.
	DefaultAddrINA219 = 0x41

	// 32V range, /8 gain, 12-bit continuous shunt+bus conversion.
	ina219Config32V2A = 0x399F
	// Calibration for the 32V/2A profile: current LSB = 0.1 mA.
	ina219Calib32V2A = 4096
)

// Li-ion cell voltage bounds for the linear percentage interpolation.
const (
	CellVoltageFull  = 4.2 // V per cell at 100%
	CellVoltageEmpty = 3.0 // V per cell at 0%

	// MaxCellCount is bounded by the INA219's 26V bus limit (6S = 25.2V max).
	MaxCellCount = 6
)

// PowerReading is a full INA219 measurement, used by the benchmark.
type PowerReading struct {
	Voltage   float64 // battery voltage (bus + shunt), V
	CurrentMA float64 // signed; positive = charging
	PowerMW   float64
	Percent   float64
	Charging  bool
}

// INA219 reads the TI INA219 power monitor on a UPS HAT and reports battery
// charge as a percentage. The Inhibit bit is set while the pack is charging.
type INA219 struct {
	bus   Bus
	cells int
}

// NewINA219 creates an INA219 driver for a pack of the given cell count,
// writing the 32V/2A configuration and calibration.
func NewINA219(bus Bus, cells int) (*INA219, error) {
	if cells < 1 || cells > MaxCellCount {
		return nil, fmt.Errorf("ina219: cell count %d out of range 1..%d", cells, MaxCellCount)
	}
	if err := bus.WriteReg(ina219RegConfig, byte(ina219Config32V2A>>8), byte(ina219Config32V2A&0xFF)); err != nil {
		return nil, fmt.Errorf("ina219 configure: %w", err)
	}
	if err := bus.WriteReg(ina219RegCalibration, byte(ina219Calib32V2A>>8), byte(ina219Calib32V2A&0xFF)); err != nil {
		return nil, fmt.Errorf("ina219 calibrate: %w", err)
	}
	return &INA219{bus: bus, cells: cells}, nil
}

// Read returns the battery charge percentage, with Inhibit set while charging.
func (s *INA219) Read() (Sample, error) {
	pr, err := s.ReadPower()
	if err != nil {
		return Sample{}, err
	}
	return Sample{Value: pr.Percent, Inhibit: pr.Charging}, nil
}

// ReadPower returns the full measurement.
// Bus and shunt voltages are summed for the true battery-side voltage.
func (s *INA219) ReadPower() (PowerReading, error) {
	busRaw, err := s.readReg16(ina219RegBusVolt)
	if err != nil {
		return PowerReading{}, err
	}
	shuntRaw, err := s.readReg16(ina219RegShuntVolt)
	if err != nil {
		return PowerReading{}, err
	}
	currentRaw, err := s.readReg16(ina219RegCurrent)
	if err != nil {
		return PowerReading{}, err
	}

	// Bus voltage: bits 15..3, 4 mV/LSB. Shunt: signed, 10 uV/LSB.
	busV := float64(busRaw>>3) * 0.004
	shuntV := float64(int16(shuntRaw)) * 0.00001
	voltage := busV + shuntV

	// Current: signed, 0.1 mA/LSB with the 32V/2A calibration.
	currentMA := float64(int16(currentRaw)) * 0.1

	return PowerReading{
		Voltage:   voltage,
		CurrentMA: currentMA,
		PowerMW:   voltage * currentMA,
		Percent:   BatteryPercent(voltage, s.cells),
		Charging:  currentMA > 0,
	}, nil
}

// Close releases the underlying bus.
func (s *INA219) Close() error {
	return s.bus.Close()
}

func (s *INA219) readReg16(reg byte) (uint16, error) {
	var buf [2]byte
	if err := s.bus.ReadReg(reg, buf[:]); err != nil {
		return 0, err
	}
	return uint16(buf[0])<<8 | uint16(buf[1]), nil
}

// BatteryPercent converts a pack voltage to a charge percentage by linear
// interpolation between empty (3.0 V/cell) and full (4.2 V/cell), clamped to
// 0..100.
func BatteryPercent(voltage float64, cells int) float64 {
	full := CellVoltageFull * float64(cells)
	empty := CellVoltageEmpty * float64(cells)

	percent := (voltage - empty) / (full - empty) * 100
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}
