package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/hashwalk/pkg/hashwalk/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage hashwalk configuration settings.

Configuration is loaded from:
  1. $XDG_CONFIG_HOME/hashwalk/config.yaml (if set)
  2. ~/.config/hashwalk/config.yaml

Environment variables override config file settings using the HASHWALK_ prefix:
  HASHWALK_ALGORITHM=blake3
  HASHWALK_CSV_DIRECTORY=/var/lib/hashwalk
  HASHWALK_MANIFEST_RETENTION_DAYS=7`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the configuration resolved from the file, the environment and flags.`,
	RunE:  runConfigShow,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long: `Open the configuration file in $VISUAL, $EDITOR or vi.

A default file is created first if none exists.`,
	RunE: runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// envOverrides lists the variables reported by config show.
var envOverrides = []string{
	"algorithm",
	"csv_directory",
	"output",
	"manifest.retention_days",
	"manifest.deterministic_errors",
	"logging.level",
	"logging.path",
}

func envName(key string) string {
	return config.EnvPrefix + "_" + strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := config.FromViper(viper.GetViper())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if file := viper.ConfigFileUsed(); file != "" {
		fmt.Fprintf(w, "Config file: %s\n\n", file)
	} else {
		fmt.Fprintf(w, "Config file: (using defaults, no file found)\n\n")
	}

	fmt.Fprintln(w, "Current Configuration:")
	fmt.Fprintln(w, "----------------------")
	fmt.Fprintf(w, "algorithm:                      %s\n", cfg.Algorithm)
	fmt.Fprintf(w, "csv_directory:                  %s\n", cfg.CSVDirectory)
	fmt.Fprintf(w, "output:                         %s\n", cfg.Output)
	fmt.Fprintf(w, "manifest.retention_days:        %d\n", cfg.Manifest.RetentionDays)
	fmt.Fprintf(w, "manifest.deterministic_errors:  %t\n", cfg.Manifest.DeterministicErrors)
	fmt.Fprintf(w, "logging.level:                  %s\n", cfg.Logging.Level)
	logPath := cfg.Logging.Path
	if logPath == "" {
		logPath = "(default)"
	}
	fmt.Fprintf(w, "logging.path:                   %s\n", logPath)

	fmt.Fprintln(w, "\nEnvironment Overrides:")
	fmt.Fprintln(w, "----------------------")
	found := false
	for _, key := range envOverrides {
		name := envName(key)
		if val := os.Getenv(name); val != "" {
			fmt.Fprintf(w, "%s=%s\n", name, val)
			found = true
		}
	}
	if !found {
		fmt.Fprintln(w, "(none)")
	}
	return nil
}

func runConfigEdit(_ *cobra.Command, _ []string) error {
	path, _, err := config.WriteDefault()
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}
	logger.Debug("opening config", "path", path, "editor", editor)

	editorCmd := exec.Command(editor, path)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr
	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("editor command failed: %w", err)
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path, created, err := config.WriteDefault()
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	if !created {
		fmt.Fprintf(cmd.OutOrStdout(), "Config file already exists: %s\n", path)
		fmt.Fprintln(cmd.OutOrStdout(), "Use 'hashwalk config edit' to modify it.")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created default config file: %s\n", path)
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	path, err := config.ConfigPath()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
