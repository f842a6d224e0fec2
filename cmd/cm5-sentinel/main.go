// Command cm5-sentinel runs the CM5 carrier peripheral monitors: tilt-driven
// display rotation plus temperature and battery safety daemons. One instance
// per process; pick the peripheral with a subcommand.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gambit-robotics/cm5-sentinel/internal/config"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var cfgPath string
	var logLevel string
	var heartbeat time.Duration

	cmd := &cobra.Command{
		Use:          "cm5-sentinel",
		Short:        "CM5 carrier peripheral monitors",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := zerolog.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("parse log level %q: %w", logLevel, err)
			}
			zerolog.SetGlobalLevel(level)
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", "",
		"Config file path (default "+config.DefaultPath+", or $"+config.EnvPath+")")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (trace..panic)")
	cmd.PersistentFlags().DurationVar(&heartbeat, "heartbeat", 15*time.Minute,
		"Heartbeat status publish interval (0 to disable)")

	cmd.AddCommand(
		rotateCmd(&cfgPath, &heartbeat),
		tempCmd(&cfgPath, &heartbeat),
		thermocoupleCmd(&cfgPath, &heartbeat),
		batteryCmd(&cfgPath, &heartbeat),
		readCmd(&cfgPath),
		benchmarkCmd(&cfgPath),
	)
	return cmd
}
