package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jamesainslie/hashwalk/pkg/hashwalk/types"
)

func update(t *testing.T, m ProgressModel, msg tea.Msg) (ProgressModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	pm, ok := next.(ProgressModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return pm, cmd
}

func TestNewProgressModel(t *testing.T) {
	m := NewProgressModel("/data")

	if m.root != "/data" {
		t.Errorf("expected root '/data', got %s", m.root)
	}
	if m.IsDone() || m.Interrupted() {
		t.Error("expected a fresh model")
	}
	if m.Init() == nil {
		t.Error("expected Init to start the spinner")
	}
}

func TestProgressModelProgress(t *testing.T) {
	m := NewProgressModel("/data")
	m, _ = update(t, m, ProgressMsg(types.Progress{
		Phase:       types.PhaseBuildingManifest,
		FilesFound:  1200,
		FilesHashed: 300,
		ErrorRows:   2,
		CurrentPath: "photos/2024/img_0001.jpg",
	}))

	view := m.View()
	for _, want := range []string{"hashing files", "300/1,200 hashed", "2 unreadable", "img_0001.jpg"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q: %s", want, view)
		}
	}
}

func TestProgressModelWalking(t *testing.T) {
	m := NewProgressModel("/data")
	m, _ = update(t, m, ProgressMsg(types.Progress{Phase: types.PhaseWalking, FilesFound: 42}))

	if view := m.View(); !strings.Contains(view, "42 found") {
		t.Errorf("unexpected view: %s", view)
	}
}

func TestProgressModelDone(t *testing.T) {
	m := NewProgressModel("/data")
	result := &types.Result{CSV: "/tmp/m.csv", Hash: "abc"}

	m, cmd := update(t, m, DoneMsg{Result: result})
	if !m.IsDone() {
		t.Fatal("expected done")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	got, err := m.Result()
	if got != result || err != nil {
		t.Errorf("Result() = %v, %v", got, err)
	}
	if !strings.Contains(m.View(), "/data") {
		t.Errorf("unexpected done view: %s", m.View())
	}
}

func TestProgressModelDoneWithError(t *testing.T) {
	m := NewProgressModel("/data")
	m, _ = update(t, m, DoneMsg{Err: errors.New("invalid directory path: /data")})

	if !strings.Contains(m.View(), "hashwalk failed: invalid directory path") {
		t.Errorf("unexpected view: %s", m.View())
	}
}

func TestProgressModelCtrlC(t *testing.T) {
	m := NewProgressModel("/data")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})

	if !m.Interrupted() {
		t.Error("expected interrupted")
	}
	if cmd == nil {
		t.Error("expected quit command")
	}

	m = NewProgressModel("/data")
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if m.Interrupted() || cmd != nil {
		t.Error("other keys must be ignored")
	}
}

func TestProgressModelWindowSize(t *testing.T) {
	m := NewProgressModel("/data")
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	if m.width != 120 {
		t.Errorf("expected width 120, got %d", m.width)
	}
}

func TestTruncatePath(t *testing.T) {
	tests := []struct {
		path  string
		width int
		want  string
	}{
		{"short.txt", 20, "short.txt"},
		{"a/very/long/path/file.txt", 12, ".../file.txt"},
		{"abcdef", 3, "def"},
	}
	for _, tt := range tests {
		if got := truncatePath(tt.path, tt.width); got != tt.want {
			t.Errorf("truncatePath(%q, %d) = %q, want %q", tt.path, tt.width, got, tt.want)
		}
	}
}

func TestFormatElapsed(t *testing.T) {
	if got := formatElapsed(75 * time.Second); got != "1:15" {
		t.Errorf("formatElapsed() = %q", got)
	}
}

func TestThrottle(t *testing.T) {
	var sent []types.Progress
	send := func(msg tea.Msg) {
		sent = append(sent, types.Progress(msg.(ProgressMsg)))
	}
	report := throttle(send, time.Hour)

	report(types.Progress{Phase: types.PhaseWalking, FilesFound: 1})
	report(types.Progress{Phase: types.PhaseWalking, FilesFound: 2})
	report(types.Progress{Phase: types.PhaseBuildingManifest, FilesFound: 2})
	report(types.Progress{Phase: types.PhaseBuildingManifest, FilesHashed: 1})
	report(types.Progress{Phase: types.PhaseDone})

	if len(sent) != 3 {
		t.Fatalf("expected 3 updates, got %d", len(sent))
	}
	if sent[0].FilesFound != 1 || sent[1].Phase != types.PhaseBuildingManifest || sent[2].Phase != types.PhaseDone {
		t.Errorf("unexpected updates: %+v", sent)
	}
}
