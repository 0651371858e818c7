// Package logging provides component loggers for hashwalk, backed by
// charmbracelet/log and a rotating log file.
//
// Loggers obtained before Init are silent:
//
//	var logger = logging.Get("walker")
//
//	func main() {
//	    if err := logging.Init(logging.DefaultConfig()); err != nil {
//	        ...
//	    }
//	    defer logging.Close()
//	    logger.Info("walk started", "root", root)
//	}
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
)

// Level is a logging severity.
type Level int

// Log levels from least to most severe.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[Level]string{
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelError: "error",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "unknown"
}

func (l Level) charm() log.Level {
	switch l {
	case LevelDebug:
		return log.DebugLevel
	case LevelWarn:
		return log.WarnLevel
	case LevelError:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// ErrInvalidLevel is returned for an unrecognised level name.
var ErrInvalidLevel = errors.New("invalid log level")

// ParseLevel parses a level name. "warning" is accepted for warn.
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "warning" {
		return LevelWarn, nil
	}
	for level, n := range levelNames {
		if n == name {
			return level, nil
		}
	}
	return LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
}

// Config configures Init.
type Config struct {
	// Level is the default level for every component.
	Level string

	// Path is the log file. Empty means DefaultLogPath.
	Path string

	// Rotation controls the log file rotation.
	Rotation RotationConfig

	// Components overrides Level for individual components.
	Components map[string]string

	// ConsoleLevel mirrors records at or above this level to stderr.
	// Empty disables the console.
	ConsoleLevel string
}

// DefaultLogPath returns $XDG_STATE_HOME/hashwalk/hashwalk.log.
func DefaultLogPath() string {
	return filepath.Join(xdg.StateHome, "hashwalk", "hashwalk.log")
}

// DefaultConfig returns info-level file logging at DefaultLogPath.
func DefaultConfig() Config {
	return Config{
		Level:    "info",
		Path:     DefaultLogPath(),
		Rotation: DefaultRotationConfig(),
	}
}

// registry is the process-wide logging state.
type registry struct {
	mu         sync.RWMutex
	ready      bool
	writer     *RotatingWriter
	level      Level
	components map[string]Level
	console    *Level
	loggers    map[string]*Logger
}

var global = &registry{
	components: make(map[string]Level),
	loggers:    make(map[string]*Logger),
}

// Init opens the log file and reconfigures every logger handed out so far.
// Calling Init again replaces the previous configuration.
func Init(cfg Config) error {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}

	components := make(map[string]Level, len(cfg.Components))
	for name, lvl := range cfg.Components {
		parsed, err := ParseLevel(lvl)
		if err != nil {
			return fmt.Errorf("parsing level for component %s: %w", name, err)
		}
		components[name] = parsed
	}

	var console *Level
	if cfg.ConsoleLevel != "" {
		parsed, err := ParseLevel(cfg.ConsoleLevel)
		if err != nil {
			return fmt.Errorf("parsing console level: %w", err)
		}
		console = &parsed
	}

	path := cfg.Path
	if path == "" {
		path = DefaultLogPath()
	}
	writer, err := NewRotatingWriter(path, cfg.Rotation)
	if err != nil {
		return fmt.Errorf("creating log writer: %w", err)
	}

	global.mu.Lock()
	defer global.mu.Unlock()

	if global.writer != nil {
		_ = global.writer.Close()
	}
	global.writer = writer
	global.level = level
	global.components = components
	global.console = console
	global.ready = true

	for name, l := range global.loggers {
		l.reset(global.build(name))
	}
	return nil
}

// Get returns the logger for a component, creating it on first use.
func Get(component string) *Logger {
	global.mu.RLock()
	l, ok := global.loggers[component]
	global.mu.RUnlock()
	if ok {
		return l
	}

	global.mu.Lock()
	defer global.mu.Unlock()
	if l, ok := global.loggers[component]; ok {
		return l
	}
	l = &Logger{component: component}
	l.reset(global.build(component))
	global.loggers[component] = l
	return l
}

// Close flushes the log file and returns every logger to silence.
func Close() error {
	global.mu.Lock()
	defer global.mu.Unlock()

	if !global.ready {
		return nil
	}

	var err error
	if global.writer != nil {
		err = global.writer.Close()
		global.writer = nil
	}
	global.ready = false
	global.console = nil
	global.components = make(map[string]Level)
	for name, l := range global.loggers {
		l.reset(global.build(name))
	}

	if err != nil {
		return fmt.Errorf("closing log writer: %w", err)
	}
	return nil
}

// sinks are the charm loggers behind one component logger.
type sinks struct {
	file    *log.Logger
	console *log.Logger
}

// build creates the sinks for a component. Callers hold r.mu.
func (r *registry) build(component string) sinks {
	level := r.level
	if l, ok := r.components[component]; ok {
		level = l
	}

	if !r.ready {
		return sinks{file: log.NewWithOptions(io.Discard, log.Options{
			Level:  level.charm(),
			Prefix: component,
		})}
	}

	s := sinks{file: log.NewWithOptions(r.writer, log.Options{
		Level:           level.charm(),
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          component,
	})}
	if r.console != nil {
		s.console = log.NewWithOptions(os.Stderr, log.Options{
			Level:           r.console.charm(),
			ReportTimestamp: true,
			TimeFormat:      time.TimeOnly,
			Prefix:          component,
		})
	}
	return s
}
