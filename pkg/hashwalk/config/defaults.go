// Package config loads hashwalk settings from a YAML file under the XDG
// config directory and from HASHWALK_ environment variables.
package config

import (
	"github.com/spf13/viper"

	"github.com/jamesainslie/hashwalk/pkg/hashwalk/hasher"
	"github.com/jamesainslie/hashwalk/pkg/hashwalk/manifest"
)

const (
	// AppName names the config, state and manifest directories.
	AppName = "hashwalk"

	// EnvPrefix prefixes environment overrides, e.g. HASHWALK_ALGORITHM.
	EnvPrefix = "HASHWALK"

	// DefaultOutput is the result format written to stdout.
	DefaultOutput = "json"

	// DefaultRetentionDays is how long history clean keeps manifests.
	DefaultRetentionDays = 30

	// DefaultLogMaxSize is the rotation threshold of the log file.
	DefaultLogMaxSize = "10MB"
)

// DefaultComponents are the per-component log levels written by WriteDefault.
var DefaultComponents = map[string]string{
	"walker":   "info",
	"manifest": "info",
	"verify":   "info",
	"pipeline": "info",
}

// DefaultCSVDirectory returns the manifest directory used when none is set.
func DefaultCSVDirectory() string {
	return manifest.DefaultDir()
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("algorithm", hasher.DefaultAlgorithm)
	v.SetDefault("csv_directory", DefaultCSVDirectory())
	v.SetDefault("output", DefaultOutput)

	v.SetDefault("manifest.retention_days", DefaultRetentionDays)
	v.SetDefault("manifest.deterministic_errors", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "")
	v.SetDefault("logging.rotation.max_size", DefaultLogMaxSize)
	v.SetDefault("logging.rotation.max_age", 30)
	v.SetDefault("logging.rotation.max_backups", 5)
	v.SetDefault("logging.rotation.daily", true)
	v.SetDefault("logging.components", DefaultComponents)
}
