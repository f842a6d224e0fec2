//go:build linux

package sensor

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// i2cSlave is the I2C_SLAVE ioctl request (linux/i2c-dev.h).
const i2cSlave = 0x0703

// I2CDev is a device on a Linux I2C character device bus.
type I2CDev struct {
	f    *os.File
	addr uint16
}

// OpenI2C opens /dev/i2c-<bus> and binds it to the device at addr.
func OpenI2C(bus int, addr uint16) (*I2CDev, error) {
	path := fmt.Sprintf("/dev/i2c-%d", bus)
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := unix.IoctlSetInt(int(f.Fd()), i2cSlave, int(addr)); err != nil {
		f.Close()
		return nil, fmt.Errorf("bind %s to 0x%02X: %w", path, addr, err)
	}
	return &I2CDev{f: f, addr: addr}, nil
}

// ReadReg writes the register address then reads len(buf) bytes.
func (d *I2CDev) ReadReg(reg byte, buf []byte) error {
	if _, err := d.f.Write([]byte{reg}); err != nil {
		return fmt.Errorf("select reg 0x%02X on 0x%02X: %w", reg, d.addr, err)
	}
	n, err := d.f.Read(buf)
	if err != nil {
		return fmt.Errorf("read reg 0x%02X on 0x%02X: %w", reg, d.addr, err)
	}
	if n != len(buf) {
		return fmt.Errorf("read reg 0x%02X on 0x%02X: short read (%d of %d bytes)", reg, d.addr, n, len(buf))
	}
	return nil
}

// WriteReg writes data bytes to reg in a single bus transaction.
func (d *I2CDev) WriteReg(reg byte, data ...byte) error {
	msg := append([]byte{reg}, data...)
	if _, err := d.f.Write(msg); err != nil {
		return fmt.Errorf("write reg 0x%02X on 0x%02X: %w", reg, d.addr, err)
	}
	return nil
}

// Close releases the bus file descriptor.
func (d *I2CDev) Close() error {
	return d.f.Close()
}
