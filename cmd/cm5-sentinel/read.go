package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gambit-robotics/cm5-sentinel/internal/config"
	"github.com/gambit-robotics/cm5-sentinel/internal/sensor"
)

func readCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:       "read {lis3dh|pct2075|mcp9601|ina219}",
		Short:     "Read a sensor once and print the result",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"lis3dh", "pct2075", "mcp9601", "ina219"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			return readOnce(cmd, cfg, args[0])
		},
	}
}

func readOnce(cmd *cobra.Command, cfg *config.Config, instance string) error {
	switch instance {
	case "lis3dh":
		r := cfg.Rotate
		axis, err := sensor.ParseAxis(r.Axis)
		if err != nil {
			return err
		}
		bus, err := sensor.OpenI2C(r.I2CBus, uint16(r.I2CAddress))
		if err != nil {
			return err
		}
		accel, err := sensor.NewLIS3DH(bus, axis, r.Invert)
		if err != nil {
			bus.Close()
			return err
		}
		defer accel.Close()
		s, err := accel.Read()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s-axis acceleration: %.2f m/s2\n", r.Axis, s.Value)

	case "pct2075":
		t := cfg.PCT2075
		bus, err := sensor.OpenI2C(t.I2CBus, uint16(t.I2CAddress))
		if err != nil {
			return err
		}
		probe, err := sensor.NewPCT2075(bus)
		if err != nil {
			bus.Close()
			return err
		}
		defer probe.Close()
		s, err := probe.Read()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "temperature: %.2f C\n", s.Value)

	case "mcp9601":
		t := cfg.MCP9601
		bus, err := sensor.OpenI2C(t.I2CBus, uint16(t.I2CAddress))
		if err != nil {
			return err
		}
		probe, err := sensor.NewMCP9601(bus, t.ThermocoupleType)
		if err != nil {
			bus.Close()
			return err
		}
		defer probe.Close()
		s, err := probe.Read()
		if err != nil {
			return err
		}
		ambient, err := probe.Ambient()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "hot junction: %.2f C (type %s), ambient: %.2f C\n",
			s.Value, t.ThermocoupleType, ambient)

	case "ina219":
		b := cfg.INA219
		bus, err := sensor.OpenI2C(b.I2CBus, uint16(b.I2CAddress))
		if err != nil {
			return err
		}
		meter, err := sensor.NewINA219(bus, b.CellCount)
		if err != nil {
			bus.Close()
			return err
		}
		defer meter.Close()
		r, err := meter.ReadPower()
		if err != nil {
			return err
		}
		state := "discharging"
		if r.Charging {
			state = "charging"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "battery: %.1f%% (%.3f V, %.1f mA, %.1f mW, %s)\n",
			r.Percent, r.Voltage, r.CurrentMA, r.PowerMW, state)

	default:
		return fmt.Errorf("unknown instance %q", instance)
	}
	return nil
}
