// Command churn drives a world through a configurable spawn, mutate and
// destroy workload and verifies its bookkeeping after every tick.
//
// Usage:
//
//	churn -config scenario.toml [-profile cpu|mem]
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pkg/profile"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/edwinsyarief/archecs/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := flag.String("config", "", "scenario file (.toml, .yaml or .yml)")
	prof := flag.String("profile", "", `write a "cpu" or "mem" profile to the working directory`)
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	switch *prof {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook, profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook, profile.Quiet).Stop()
	default:
		return fmt.Errorf("unknown profile mode %q", *prof)
	}

	sim, err := newSimulation(cfg, log)
	if err != nil {
		return err
	}
	stats, err := sim.Run()
	log.Info("churn finished",
		zap.Int("ticks", stats.Ticks),
		zap.Int("spawned", stats.Spawned),
		zap.Int("destroyed", stats.Destroyed),
		zap.Int("mutations", stats.Mutations),
		zap.Int("entities", stats.Entities),
		zap.Int("archetypes", stats.Archetypes),
		zap.Duration("elapsed", stats.Elapsed))
	return err
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}
