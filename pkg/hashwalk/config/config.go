package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"github.com/jamesainslie/hashwalk/pkg/hashwalk/hasher"
)

// FileName is the config file name inside ConfigDir.
const FileName = "config.yaml"

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSize    string `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Daily      bool   `mapstructure:"daily"`
}

// LoggingConfig configures the log file.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"`
	Rotation   RotationConfig    `mapstructure:"rotation"`
	Components map[string]string `mapstructure:"components"`
}

// ManifestConfig configures manifest writing and history.
type ManifestConfig struct {
	// RetentionDays is the age after which history clean removes manifests.
	RetentionDays int `mapstructure:"retention_days"`

	// DeterministicErrors writes ERROR_<CODE> markers without a timestamp.
	DeterministicErrors bool `mapstructure:"deterministic_errors"`
}

// Config is the resolved hashwalk configuration.
type Config struct {
	Algorithm    string         `mapstructure:"algorithm"`
	CSVDirectory string         `mapstructure:"csv_directory"`
	Output       string         `mapstructure:"output"`
	Manifest     ManifestConfig `mapstructure:"manifest"`
	Logging      LoggingConfig  `mapstructure:"logging"`
}

// Configure prepares v to read hashwalk settings: the config file (file, or
// the default search paths when file is empty), the environment and the
// defaults.
func Configure(v *viper.Viper, file string) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
		v.SetConfigType("yaml")
		for _, dir := range searchDirs() {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
}

// Read loads the config file into v. A missing file in the search paths is
// not an error; a missing explicit file is.
func Read(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// FromViper decodes v into a Config and expands ~ in its paths.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var err error
	if cfg.CSVDirectory, err = ExpandPath(cfg.CSVDirectory); err != nil {
		return nil, err
	}
	if cfg.Logging.Path, err = ExpandPath(cfg.Logging.Path); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads the configuration from the default locations:
//   - $XDG_CONFIG_HOME/hashwalk/config.yaml
//   - $HOME/.config/hashwalk/config.yaml
//
// Environment variables override file values, e.g. HASHWALK_CSV_DIRECTORY.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file.
func LoadFile(file string) (*Config, error) {
	v := viper.New()
	Configure(v, file)
	if err := Read(v); err != nil {
		return nil, err
	}
	return FromViper(v)
}

func searchDirs() []string {
	var dirs []string
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		dirs = append(dirs, filepath.Join(xdgConfigHome, AppName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", AppName))
	}
	return dirs
}

// ConfigDir returns the directory holding config.yaml.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, AppName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".config", AppName), nil
}

// ConfigPath returns the path of the default config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// StateDir returns $XDG_STATE_HOME/hashwalk, which holds the log file.
func StateDir() string {
	return filepath.Join(xdg.StateHome, AppName)
}

// EnsureStateDir creates StateDir.
func EnsureStateDir() error {
	if err := os.MkdirAll(StateDir(), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	return nil
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// WriteDefault writes a commented default config file. It reports whether a
// file was written; an existing file is left untouched.
func WriteDefault() (string, bool, error) {
	path, err := ConfigPath()
	if err != nil {
		return "", false, err
	}

	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	} else if !os.IsNotExist(err) {
		return "", false, fmt.Errorf("failed to check config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", false, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultFile()), 0o644); err != nil {
		return "", false, fmt.Errorf("failed to write default config: %w", err)
	}
	return path, true, nil
}

func defaultFile() string {
	return fmt.Sprintf(`# hashwalk configuration

# Hash algorithm used for file digests and for the manifest digest
algorithm: %s

# Directory receiving manifest CSV files
csv_directory: %s

# Result format: json, yaml, pretty, plain, template
output: %s

manifest:
  # Days to keep manifests when running "hashwalk history clean"
  retention_days: %d
  # Write ERROR_<CODE> instead of ERROR_<CODE>_<epoch-millis> for unreadable files
  deterministic_errors: false

logging:
  # Log level: debug, info, warn, error
  level: info
  # Log file path (empty means $XDG_STATE_HOME/hashwalk/hashwalk.log)
  path: ""
  rotation:
    max_size: %s
    max_age: 30       # days
    max_backups: 5
    daily: true
  components:
    walker: info
    manifest: info
    verify: info
    pipeline: info
`, hasher.DefaultAlgorithm, DefaultCSVDirectory(), DefaultOutput, DefaultRetentionDays, DefaultLogMaxSize)
}
