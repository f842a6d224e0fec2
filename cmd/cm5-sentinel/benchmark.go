package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gambit-robotics/cm5-sentinel/internal/benchmark"
	"github.com/gambit-robotics/cm5-sentinel/internal/config"
	"github.com/gambit-robotics/cm5-sentinel/internal/history"
	"github.com/gambit-robotics/cm5-sentinel/internal/sensor"
)

func benchmarkCmd(cfgPath *string) *cobra.Command {
	var (
		workers     int
		cycle       bool
		maxWorkers  int
		stepEvery   int
		stopPercent float64
		samples     int
		duration    time.Duration
		interval    time.Duration
		outPath     string
	)

	cmd := &cobra.Command{
		Use:   "benchmark",
		Short: "Discharge the UPS under CPU load, logging power draw to CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}

			b := cfg.INA219
			bus, err := sensor.OpenI2C(b.I2CBus, uint16(b.I2CAddress))
			if err != nil {
				return fmt.Errorf("open ina219: %w", err)
			}
			meter, err := sensor.NewINA219(bus, b.CellCount)
			if err != nil {
				bus.Close()
				return fmt.Errorf("init ina219: %w", err)
			}
			defer meter.Close()

			var out io.Writer = cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("create csv: %w", err)
				}
				defer f.Close()
				out = f
			}

			maxSamples := samples
			if duration > 0 {
				maxSamples = int(duration / interval)
			}

			runner := benchmark.NewRunner(benchmark.Config{
				Workers:     workers,
				Cycle:       cycle,
				MaxWorkers:  maxWorkers,
				StepEvery:   stepEvery,
				StopPercent: stopPercent,
				MaxSamples:  maxSamples,
			}, meter, out)

			if cfg.History.Path != "" {
				rec, err := history.Open(cfg.History.Path, "benchmark")
				if err != nil {
					return fmt.Errorf("open history: %w", err)
				}
				defer rec.Close()
				runner.History = rec
			}

			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			return runner.Run(time.Now, ticker.C, sigCh)
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 4, "Constant CPU load worker count")
	cmd.Flags().BoolVar(&cycle, "cycle", false, "Cycle the load between 0 and --max-workers")
	cmd.Flags().IntVar(&maxWorkers, "max-workers", 8, "Load ceiling in cyclic mode")
	cmd.Flags().IntVar(&stepEvery, "step-every", 30, "Samples between load steps in cyclic mode")
	cmd.Flags().Float64Var(&stopPercent, "stop-percent", 20, "Stop when the battery discharges to this level (0 to disable)")
	cmd.Flags().IntVar(&samples, "samples", 0, "Stop after this many samples (0 for unlimited)")
	cmd.Flags().DurationVar(&duration, "duration", 0, "Stop after this long (overrides --samples)")
	cmd.Flags().DurationVar(&interval, "interval", 2*time.Second, "Sampling interval")
	cmd.Flags().StringVar(&outPath, "out", "", "CSV output path (default stdout)")

	return cmd
}
