package benchmark

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gambit-robotics/cm5-sentinel/internal/history"
	"github.com/gambit-robotics/cm5-sentinel/internal/sensor"
)

// PowerMeter reads the UPS power state. *sensor.INA219 satisfies it.
type PowerMeter interface {
	ReadPower() (sensor.PowerReading, error)
}

// Config controls a benchmark run.
type Config struct {
	// Workers is the constant load size. Ignored when Cycle is set.
	Workers int

	// Cycle steps the load from zero up to MaxWorkers and back down,
	// changing by one worker every StepEvery ticks.
	Cycle      bool
	MaxWorkers int
	StepEvery  int

	// StopPercent ends the run once the battery falls to this level
	// while discharging. Zero means run until the duration expires.
	StopPercent float64

	// MaxSamples caps the run length in ticks. Zero means unlimited.
	MaxSamples int
}

// Runner drives the worker pool and logs one CSV row per tick.
type Runner struct {
	cfg   Config
	meter PowerMeter
	pool  *Pool
	out   *csv.Writer

	// History, when set, additionally records the battery percent of every
	// sample.
	History *history.Recorder
}

// NewRunner creates a Runner writing CSV rows to out.
func NewRunner(cfg Config, meter PowerMeter, out io.Writer) *Runner {
	return &Runner{
		cfg:   cfg,
		meter: meter,
		pool:  NewPool(),
		out:   csv.NewWriter(out),
	}
}

var csvHeader = []string{"timestamp", "workers", "voltage_v", "current_ma", "power_mw", "percent", "charging"}

// Run executes the benchmark. It returns when the stop condition is met,
// the sample cap is reached, or a signal arrives. now supplies timestamps
// for log rows and tick paces the sampling.
func (r *Runner) Run(now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	defer r.pool.Shutdown()
	defer r.out.Flush()

	if err := r.out.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	if !r.cfg.Cycle {
		r.pool.SetWorkers(r.cfg.Workers)
	}

	samples := 0
	direction := 1
	for {
		select {
		case <-sig:
			log.Info().Int("samples", samples).Msg("benchmark interrupted")
			return nil
		case <-tick:
		}

		if r.cfg.Cycle && r.cfg.StepEvery > 0 && samples%r.cfg.StepEvery == 0 {
			n := r.pool.Workers() + direction
			if n >= r.cfg.MaxWorkers {
				n = r.cfg.MaxWorkers
				direction = -1
			} else if n <= 0 {
				n = 0
				direction = 1
			}
			r.pool.SetWorkers(n)
		}

		reading, err := r.meter.ReadPower()
		if err != nil {
			log.Error().Err(err).Msg("power read failed")
			continue
		}

		if r.History != nil {
			if err := r.History.Record(context.Background(), reading.Percent, reading.Charging, now()); err != nil {
				log.Warn().Err(err).Msg("history record failed")
			}
		}

		row := []string{
			now().UTC().Format(time.RFC3339),
			strconv.Itoa(r.pool.Workers()),
			strconv.FormatFloat(reading.Voltage, 'f', 3, 64),
			strconv.FormatFloat(reading.CurrentMA, 'f', 1, 64),
			strconv.FormatFloat(reading.PowerMW, 'f', 1, 64),
			strconv.FormatFloat(reading.Percent, 'f', 1, 64),
			strconv.FormatBool(reading.Charging),
		}
		if err := r.out.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
		r.out.Flush()

		log.Info().
			Int("workers", r.pool.Workers()).
			Float64("voltage", reading.Voltage).
			Float64("current_ma", reading.CurrentMA).
			Float64("percent", reading.Percent).
			Bool("charging", reading.Charging).
			Msg("benchmark sample")

		samples++
		if r.cfg.StopPercent > 0 && !reading.Charging && reading.Percent <= r.cfg.StopPercent {
			log.Info().Float64("percent", reading.Percent).Msg("stop threshold reached")
			return nil
		}
		if r.cfg.MaxSamples > 0 && samples >= r.cfg.MaxSamples {
			return nil
		}
	}
}
