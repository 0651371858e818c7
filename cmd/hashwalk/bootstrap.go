package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/hashwalk/pkg/hashwalk/config"
	"github.com/jamesainslie/hashwalk/pkg/hashwalk/logging"
	"github.com/jamesainslie/hashwalk/pkg/hashwalk/types"
)

// initializeLogging is the PersistentPreRunE hook. It opens the log file
// described by the configuration and, with --debug, mirrors every record to
// stderr.
func initializeLogging(_ *cobra.Command, _ []string) error {
	if configErr != nil {
		return configErr
	}
	if err := config.EnsureStateDir(); err != nil {
		return err
	}

	cfg, err := config.FromViper(viper.GetViper())
	if err != nil {
		return err
	}

	logCfg := logging.Config{
		Level:      cfg.Logging.Level,
		Path:       cfg.Logging.Path,
		Rotation:   parseRotationConfig(cfg.Logging.Rotation),
		Components: cfg.Logging.Components,
	}
	if logCfg.Path == "" {
		logCfg.Path = logging.DefaultLogPath()
	}
	if viper.GetBool("debug") {
		logCfg.ConsoleLevel = "debug"
	}

	if err := logging.Init(logCfg); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	return nil
}

// parseRotationConfig converts the config file form into the logging form.
// An empty or unparsable max_size falls back to the default.
func parseRotationConfig(cfg config.RotationConfig) logging.RotationConfig {
	rotation := logging.RotationConfig{
		MaxSize:    logging.DefaultRotationConfig().MaxSize,
		MaxAge:     cfg.MaxAge,
		MaxBackups: cfg.MaxBackups,
		Daily:      cfg.Daily,
	}
	if cfg.MaxSize != "" {
		if size, err := types.ParseSize(cfg.MaxSize); err == nil && size > 0 {
			rotation.MaxSize = size
		}
	}
	return rotation
}
