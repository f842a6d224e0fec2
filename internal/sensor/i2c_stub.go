//go:build !linux

package sensor

import "errors"

// I2CDev is not available on non-Linux platforms.
type I2CDev struct{}

// OpenI2C returns an error on non-Linux platforms.
func OpenI2C(bus int, addr uint16) (*I2CDev, error) {
	return nil, errors.New("i2c: not supported on this platform (requires Linux)")
}

// ReadReg is not implemented on non-Linux platforms.
func (d *I2CDev) ReadReg(reg byte, buf []byte) error {
	return errors.New("i2c: not supported")
}

// WriteReg is not implemented on non-Linux platforms.
func (d *I2CDev) WriteReg(reg byte, data ...byte) error {
	return errors.New("i2c: not supported")
}

// Close is a no-op on non-Linux platforms.
func (d *I2CDev) Close() error {
	return nil
}
