package config

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Addr is a 7-bit I2C device address. The config file accepts both hex
// strings ("0x37") and plain integers (55).
type Addr uint16

// UnmarshalYAML parses the hex-or-int forms.
func (a *Addr) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("invalid i2c_address: expected a scalar")
	}
	raw := node.Value

	// ParseUint with base 0 handles "0x37", "55" and "067".
	v, err := strconv.ParseUint(raw, 0, 16)
	if err != nil {
		return fmt.Errorf("invalid i2c_address %q: %w", raw, err)
	}
	if v > 0x7F {
		return fmt.Errorf("i2c_address 0x%02X out of 7-bit range", v)
	}
	*a = Addr(v)
	return nil
}

// String formats the address in the conventional hex form.
func (a Addr) String() string {
	return fmt.Sprintf("0x%02X", uint16(a))
}
