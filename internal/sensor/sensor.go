// Package sensor provides scalar sensor reading with hardware abstraction.
// The real implementations talk to I2C chips over the Linux I2C character
// device; the fake implementation allows testing without hardware.
package sensor

// Sample is one sensor reading. Inhibit is an auxiliary suppression bit
// (the INA219 sets it while the battery is charging); other sensors always
// report false.
type Sample struct {
	Value   float64
	Inhibit bool
}

// Sensor reads scalar samples from hardware.
// Read must not panic on transient I/O errors; it returns them so the caller
// can count and skip the sample. Construction errors are fatal — hardware is
// assumed present at startup.
type Sensor interface {
	Read() (Sample, error)

	// Close releases bus resources.
	Close() error
}

// Bus is register-addressed access to a single I2C device.
// The real implementation is the Linux /dev/i2c-N character device.
type Bus interface {
	// ReadReg reads len(buf) bytes starting at reg.
	ReadReg(reg byte, buf []byte) error

	// WriteReg writes data bytes to reg.
	WriteReg(reg byte, data ...byte) error

	Close() error
}
