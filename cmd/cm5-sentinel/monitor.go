package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gambit-robotics/cm5-sentinel/internal/actuator"
	"github.com/gambit-robotics/cm5-sentinel/internal/config"
	"github.com/gambit-robotics/cm5-sentinel/internal/history"
	"github.com/gambit-robotics/cm5-sentinel/internal/logic"
	"github.com/gambit-robotics/cm5-sentinel/internal/loop"
	"github.com/gambit-robotics/cm5-sentinel/internal/mqtt"
	"github.com/gambit-robotics/cm5-sentinel/internal/sensor"
	"github.com/gambit-robotics/cm5-sentinel/internal/status"
	"github.com/gambit-robotics/cm5-sentinel/internal/web"
)

// monitor is one assembled peripheral instance, ready to run.
type monitor struct {
	instance string
	unit     string
	poll     time.Duration
	hold     int
	sensor   sensor.Sensor
	engine   logic.Engine
	actuator actuator.Actuator
}

func rotateCmd(cfgPath *string, heartbeat *time.Duration) *cobra.Command {
	return &cobra.Command{
		Use:   "rotate",
		Short: "Flip the display (or drive the mixer) on accelerometer tilt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			m, err := buildRotate(cfg)
			if err != nil {
				return err
			}
			return runMonitor(cfg, *heartbeat, m)
		},
	}
}

func tempCmd(cfgPath *string, heartbeat *time.Duration) *cobra.Command {
	return &cobra.Command{
		Use:   "temp",
		Short: "Board temperature safety monitor (PCT2075)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			m, err := buildTemp(cfg, "pct2075", cfg.PCT2075)
			if err != nil {
				return err
			}
			return runMonitor(cfg, *heartbeat, m)
		},
	}
}

func thermocoupleCmd(cfgPath *string, heartbeat *time.Duration) *cobra.Command {
	return &cobra.Command{
		Use:   "thermocouple",
		Short: "Thermocouple temperature safety monitor (MCP9601)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			m, err := buildThermocouple(cfg)
			if err != nil {
				return err
			}
			return runMonitor(cfg, *heartbeat, m)
		},
	}
}

func batteryCmd(cfgPath *string, heartbeat *time.Duration) *cobra.Command {
	return &cobra.Command{
		Use:   "battery",
		Short: "UPS battery safety monitor (INA219)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			m, err := buildBattery(cfg)
			if err != nil {
				return err
			}
			return runMonitor(cfg, *heartbeat, m)
		},
	}
}

func buildRotate(cfg *config.Config) (monitor, error) {
	r := cfg.Rotate
	axis, err := sensor.ParseAxis(r.Axis)
	if err != nil {
		return monitor{}, err
	}

	bus, err := sensor.OpenI2C(r.I2CBus, uint16(r.I2CAddress))
	if err != nil {
		return monitor{}, fmt.Errorf("open lis3dh: %w", err)
	}
	accel, err := sensor.NewLIS3DH(bus, axis, r.Invert)
	if err != nil {
		bus.Close()
		return monitor{}, fmt.Errorf("init lis3dh: %w", err)
	}

	var act actuator.Actuator
	unit := "m/s2"
	if r.VolumeControl != "" {
		act = actuator.NewVolumeControl(actuator.ExecRunner{}, r.VolumeControl, r.VolumeStepPct)
	} else {
		act = actuator.NewDisplayRotator(actuator.ExecRunner{}, r.Output)
	}

	return monitor{
		instance: "lis3dh",
		unit:     unit,
		poll:     config.PollInterval(r.PollIntervalS),
		hold:     r.HoldCount,
		sensor:   accel,
		engine:   logic.NewDirectionEngine(r.Deadband, r.HoldCount),
		actuator: act,
	}, nil
}

func buildTemp(cfg *config.Config, instance string, t config.Temperature) (monitor, error) {
	bus, err := sensor.OpenI2C(t.I2CBus, uint16(t.I2CAddress))
	if err != nil {
		return monitor{}, fmt.Errorf("open %s: %w", instance, err)
	}
	probe, err := sensor.NewPCT2075(bus)
	if err != nil {
		bus.Close()
		return monitor{}, fmt.Errorf("init %s: %w", instance, err)
	}

	act, err := safetyActuator(cfg)
	if err != nil {
		probe.Close()
		return monitor{}, err
	}

	return monitor{
		instance: instance,
		unit:     "C",
		poll:     config.PollInterval(t.PollIntervalS),
		hold:     t.HoldCount,
		sensor:   probe,
		engine:   tempThresholds(t),
		actuator: act,
	}, nil
}

func buildThermocouple(cfg *config.Config) (monitor, error) {
	t := cfg.MCP9601
	bus, err := sensor.OpenI2C(t.I2CBus, uint16(t.I2CAddress))
	if err != nil {
		return monitor{}, fmt.Errorf("open mcp9601: %w", err)
	}
	probe, err := sensor.NewMCP9601(bus, t.ThermocoupleType)
	if err != nil {
		bus.Close()
		return monitor{}, fmt.Errorf("init mcp9601: %w", err)
	}

	act, err := safetyActuator(cfg)
	if err != nil {
		probe.Close()
		return monitor{}, err
	}

	return monitor{
		instance: "mcp9601",
		unit:     "C",
		poll:     config.PollInterval(t.PollIntervalS),
		hold:     t.HoldCount,
		sensor:   probe,
		engine:   tempThresholds(t.Temperature),
		actuator: act,
	}, nil
}

func buildBattery(cfg *config.Config) (monitor, error) {
	b := cfg.INA219
	bus, err := sensor.OpenI2C(b.I2CBus, uint16(b.I2CAddress))
	if err != nil {
		return monitor{}, fmt.Errorf("open ina219: %w", err)
	}
	meter, err := sensor.NewINA219(bus, b.CellCount)
	if err != nil {
		bus.Close()
		return monitor{}, fmt.Errorf("init ina219: %w", err)
	}

	act, err := safetyActuator(cfg)
	if err != nil {
		meter.Close()
		return monitor{}, err
	}

	engine := logic.NewThresholdEngine(logic.ThresholdPolicy{
		Warning:                b.WarningPercent,
		Shutdown:               b.ShutdownPercent,
		Deadband:               b.DeadbandPercent,
		HoldCount:              b.HoldCount,
		Sense:                  logic.SenseLow,
		SuppressWhileInhibited: b.SuppressCharging(),
	})

	return monitor{
		instance: "ina219",
		unit:     "%",
		poll:     config.PollInterval(b.PollIntervalS),
		hold:     b.HoldCount,
		sensor:   meter,
		engine:   engine,
		actuator: act,
	}, nil
}

func tempThresholds(t config.Temperature) *logic.ThresholdEngine {
	return logic.NewThresholdEngine(logic.ThresholdPolicy{
		Warning:   t.WarningC,
		Shutdown:  t.ShutdownC,
		Deadband:  t.DeadbandC,
		HoldCount: t.HoldCount,
		Sense:     logic.SenseHigh,
	})
}

// safetyActuator assembles the actuators shared by the safety monitors:
// the delayed system shutdown, plus the warning LED when configured.
func safetyActuator(cfg *config.Config) (actuator.Actuator, error) {
	acts := []actuator.Actuator{actuator.NewDelayedShutdown(actuator.ExecRunner{}, 1)}
	if cfg.LED.Pin >= 0 {
		led, err := actuator.NewStatusLED(cfg.LED.Chip, cfg.LED.Pin)
		if err != nil {
			return nil, fmt.Errorf("init status led: %w", err)
		}
		acts = append(acts, led)
	}
	return actuator.NewMulti(acts...), nil
}

func runMonitor(cfg *config.Config, heartbeat time.Duration, m monitor) error {
	defer m.sensor.Close()
	defer m.actuator.Close()

	var publisher mqtt.Publisher = mqtt.Nop{}
	var connStatus mqtt.ConnectionStatus = mqtt.Nop{}
	if cfg.MQTT.Broker != "" {
		real, err := mqtt.NewRealPublisher(cfg.MQTT.Broker, cfg.MQTT.ClientID, m.instance)
		if err != nil {
			return fmt.Errorf("connect mqtt: %w", err)
		}
		publisher = real
		connStatus = real
	}
	defer publisher.Close()

	tracker := status.NewTracker(time.Now(), status.Config{
		Instance:  m.instance,
		Unit:      m.unit,
		PollMs:    m.poll.Milliseconds(),
		HoldCount: m.hold,
		Broker:    cfg.MQTT.Broker,
		HTTPAddr:  cfg.HTTP,
	})

	snap := tracker.Snapshot()
	startup := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startup); err != nil {
		log.Warn().Err(err).Msg("startup publish failed")
	}

	if cfg.HTTP != "" {
		srv := web.New(cfg.HTTP, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("http server error")
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Info().Str("addr", cfg.HTTP).Msg("http status server listening")
	}

	var recorder *history.Recorder
	if cfg.History.Path != "" {
		var err error
		recorder, err = history.Open(cfg.History.Path, m.instance)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer recorder.Close()
		if cfg.History.RetainDays > 0 {
			retain := time.Duration(cfg.History.RetainDays) * 24 * time.Hour
			if err := recorder.Prune(context.Background(), retain); err != nil {
				log.Warn().Err(err).Msg("history prune failed")
			}
		}
	}

	log.Info().
		Str("instance", m.instance).
		Dur("poll", m.poll).
		Int("hold_count", m.hold).
		Str("broker", cfg.MQTT.Broker).
		Msg("started")

	ticker := time.NewTicker(m.poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	l := &loop.Loop{
		Config: loop.Config{
			Instance:    m.instance,
			Unit:        m.unit,
			Heartbeat:   heartbeat,
			MaxFailures: cfg.MaxConsecutiveFailures,
		},
		Sensor:     m.sensor,
		Engine:     m.engine,
		Actuator:   m.actuator,
		Publisher:  publisher,
		MQTTStatus: connStatus,
		Tracker:    tracker,
		History:    recorder,
	}
	return l.Run(time.Now, ticker.C, sigCh)
}
