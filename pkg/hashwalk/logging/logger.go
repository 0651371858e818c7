package logging

import (
	"sync"

	"github.com/charmbracelet/log"
)

// Logger is a component logger. It is safe for concurrent use and keeps
// working across Init and Close.
type Logger struct {
	component string

	// root owns the sinks; it is the logger itself for loggers from Get.
	root *Logger
	with []any

	mu    sync.RWMutex
	sinks sinks
}

// Component returns the name the logger was created with.
func (l *Logger) Component() string {
	return l.component
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string, keyvals ...any) { l.log(log.DebugLevel, msg, keyvals) }

// Info logs at info level.
func (l *Logger) Info(msg string, keyvals ...any) { l.log(log.InfoLevel, msg, keyvals) }

// Warn logs at warn level.
func (l *Logger) Warn(msg string, keyvals ...any) { l.log(log.WarnLevel, msg, keyvals) }

// Error logs at error level.
func (l *Logger) Error(msg string, keyvals ...any) { l.log(log.ErrorLevel, msg, keyvals) }

// With returns a logger that adds keyvals to every record. The child shares
// its parent's sinks, so it follows later Init calls.
func (l *Logger) With(keyvals ...any) *Logger {
	with := make([]any, 0, len(l.with)+len(keyvals))
	with = append(with, l.with...)
	with = append(with, keyvals...)
	return &Logger{
		component: l.component,
		root:      l.owner(),
		with:      with,
	}
}

func (l *Logger) owner() *Logger {
	if l.root != nil {
		return l.root
	}
	return l
}

func (l *Logger) reset(s sinks) {
	l.mu.Lock()
	l.sinks = s
	l.mu.Unlock()
}

func (l *Logger) log(level log.Level, msg string, keyvals []any) {
	owner := l.owner()
	owner.mu.RLock()
	s := owner.sinks
	owner.mu.RUnlock()

	if len(l.with) > 0 {
		all := make([]any, 0, len(l.with)+len(keyvals))
		all = append(all, l.with...)
		keyvals = append(all, keyvals...)
	}
	s.file.Log(level, msg, keyvals...)
	if s.console != nil {
		s.console.Log(level, msg, keyvals...)
	}
}
