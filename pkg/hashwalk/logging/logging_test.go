package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/jamesainslie/hashwalk/pkg/hashwalk/logging"
)

// These tests share the package-level logger registry and do not run in
// parallel.

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	return string(content)
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		cfg     logging.Config
		wantErr bool
	}{
		{
			name: "info level",
			cfg:  logging.Config{Level: "info", Path: filepath.Join(dir, "info.log")},
		},
		{
			name: "component overrides",
			cfg: logging.Config{
				Level:      "warn",
				Path:       filepath.Join(dir, "components.log"),
				Components: map[string]string{"walker": "debug", "pipeline": "error"},
			},
		},
		{
			name: "console enabled",
			cfg:  logging.Config{Level: "info", Path: filepath.Join(dir, "console.log"), ConsoleLevel: "error"},
		},
		{
			name:    "invalid level",
			cfg:     logging.Config{Level: "loud", Path: filepath.Join(dir, "bad.log")},
			wantErr: true,
		},
		{
			name: "invalid component level",
			cfg: logging.Config{
				Level:      "info",
				Path:       filepath.Join(dir, "bad-component.log"),
				Components: map[string]string{"walker": "chatty"},
			},
			wantErr: true,
		},
		{
			name:    "invalid console level",
			cfg:     logging.Config{Level: "info", Path: filepath.Join(dir, "bad-console.log"), ConsoleLevel: "nope"},
			wantErr: true,
		},
		{
			name:    "unwritable path",
			cfg:     logging.Config{Level: "info", Path: filepath.Join(blocker, "child.log")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := logging.Init(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Init() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err := logging.Close(); err != nil {
				t.Errorf("Close() error = %v", err)
			}
		})
	}
}

func TestGetReturnsSameLogger(t *testing.T) {
	a := logging.Get("manifest")
	b := logging.Get("manifest")
	if a != b {
		t.Error("Get() returned different loggers for one component")
	}
	if a.Component() != "manifest" {
		t.Errorf("Component() = %q", a.Component())
	}
}

func TestSilentBeforeInit(t *testing.T) {
	// Must not panic or write anywhere.
	logging.Get("early").Info("nobody hears this")
}

func TestLoggerCreatedBeforeInitWritesAfterInit(t *testing.T) {
	logger := logging.Get("preinit")

	logPath := filepath.Join(t.TempDir(), "preinit.log")
	if err := logging.Init(logging.Config{Level: "debug", Path: logPath}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	logger.Info("phase change", "phase", "walking")
	if err := logging.Close(); err != nil {
		t.Fatal(err)
	}

	content := readLog(t, logPath)
	if !strings.Contains(content, "phase change") || !strings.Contains(content, "walking") {
		t.Errorf("log missing record: %s", content)
	}
	if !strings.Contains(content, "preinit") {
		t.Errorf("log missing component prefix: %s", content)
	}
}

func TestLevels(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "levels.log")
	if err := logging.Init(logging.Config{
		Level:      "warn",
		Path:       logPath,
		Components: map[string]string{"verbose": "debug"},
	}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	normal := logging.Get("normal")
	normal.Debug("normal debug hidden")
	normal.Info("normal info hidden")
	normal.Warn("normal warn shown")
	normal.Error("normal error shown")
	logging.Get("verbose").Debug("verbose debug shown")

	if err := logging.Close(); err != nil {
		t.Fatal(err)
	}

	content := readLog(t, logPath)
	for _, hidden := range []string{"normal debug hidden", "normal info hidden"} {
		if strings.Contains(content, hidden) {
			t.Errorf("unexpected record %q", hidden)
		}
	}
	for _, shown := range []string{"normal warn shown", "normal error shown", "verbose debug shown"} {
		if !strings.Contains(content, shown) {
			t.Errorf("missing record %q", shown)
		}
	}
}

func TestWith(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "with.log")
	child := logging.Get("with").With("root", "/data")

	if err := logging.Init(logging.Config{Level: "info", Path: logPath}); err != nil {
		t.Fatal(err)
	}
	child.Info("walk started")
	if err := logging.Close(); err != nil {
		t.Fatal(err)
	}

	content := readLog(t, logPath)
	if !strings.Contains(content, "walk started") || !strings.Contains(content, "/data") {
		t.Errorf("child logger record missing context: %s", content)
	}
}

func TestCloseSilencesLoggers(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "close.log")
	if err := logging.Init(logging.Config{Level: "info", Path: logPath}); err != nil {
		t.Fatal(err)
	}
	logger := logging.Get("closer")
	if err := logging.Close(); err != nil {
		t.Fatal(err)
	}
	logger.Info("after close")

	if strings.Contains(readLog(t, logPath), "after close") {
		t.Error("record written after Close")
	}
	if err := logging.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestConcurrentLogging(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "concurrent.log")
	if err := logging.Init(logging.Config{Level: "info", Path: logPath}); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			logger := logging.Get("concurrent")
			for j := 0; j < 25; j++ {
				logger.Info("tick", "worker", n, "i", j)
			}
		}(i)
	}
	wg.Wait()
	if err := logging.Close(); err != nil {
		t.Fatal(err)
	}

	if got := strings.Count(readLog(t, logPath), "tick"); got != 200 {
		t.Errorf("expected 200 records, got %d", got)
	}
}

func TestDefaultLogPath(t *testing.T) {
	path := logging.DefaultLogPath()
	if filepath.Base(path) != "hashwalk.log" {
		t.Errorf("unexpected file name: %s", path)
	}
	if filepath.Base(filepath.Dir(path)) != "hashwalk" {
		t.Errorf("unexpected directory: %s", path)
	}
	if cfg := logging.DefaultConfig(); cfg.Path != path || cfg.Level != "info" {
		t.Errorf("unexpected default config: %+v", cfg)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    logging.Level
		wantErr bool
	}{
		{"debug", logging.LevelDebug, false},
		{"INFO", logging.LevelInfo, false},
		{" warn ", logging.LevelWarn, false},
		{"warning", logging.LevelWarn, false},
		{"error", logging.LevelError, false},
		{"trace", logging.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := logging.ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	if logging.Level(42).String() != "unknown" {
		t.Error("expected unknown for out-of-range level")
	}
}
