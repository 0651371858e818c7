package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jamesainslie/hashwalk/pkg/hashwalk/types"
)

// ProgressMsg carries a pipeline progress report.
type ProgressMsg types.Progress

// DoneMsg is sent when the run finishes.
type DoneMsg struct {
	Result *types.Result
	Err    error
}

// ProgressModel shows the phase, counters and current file of a run.
type ProgressModel struct {
	progress    types.Progress
	spinner     spinner.Model
	root        string
	startTime   time.Time
	width       int
	done        bool
	interrupted bool
	result      *types.Result
	err         error
}

// NewProgressModel creates a model for a run over root.
func NewProgressModel(root string) ProgressModel {
	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = phaseStyle

	return ProgressModel{
		spinner:   s,
		root:      root,
		startTime: time.Now(),
		width:     80,
	}
}

// Init starts the spinner.
func (m ProgressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages.
func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.interrupted = true
			return m, tea.Quit
		}
		return m, nil

	case ProgressMsg:
		m.progress = types.Progress(msg)
		return m, nil

	case DoneMsg:
		m.done = true
		m.result = msg.Result
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the progress line.
func (m ProgressModel) View() string {
	if m.done {
		if m.err != nil {
			return errorTextStyle.Render("hashwalk failed: "+m.err.Error()) + "\n"
		}
		return successTextStyle.Render(fmt.Sprintf("hashwalk: %s files under %s in %s",
			humanize.Comma(m.progress.FilesHashed), m.root, formatElapsed(time.Since(m.startTime)))) + "\n"
	}

	var b strings.Builder
	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(titleStyle.Render("hashwalk"))
	b.WriteString(" ")
	b.WriteString(phaseStyle.Render(phaseLabel(m.progress.Phase)))
	b.WriteString(" ")
	b.WriteString(mutedTextStyle.Render(m.counters()))
	if m.progress.ErrorRows > 0 {
		b.WriteString(" ")
		b.WriteString(warningTextStyle.Render(fmt.Sprintf("%d unreadable", m.progress.ErrorRows)))
	}

	if path := m.progress.CurrentPath; path != "" {
		room := m.width - lipgloss.Width(b.String()) - 1
		if room > 10 {
			b.WriteString(" ")
			b.WriteString(mutedTextStyle.Render(truncatePath(path, room)))
		}
	}
	b.WriteString("\n")
	return b.String()
}

func (m ProgressModel) counters() string {
	switch m.progress.Phase {
	case types.PhaseWalking:
		return humanize.Comma(m.progress.FilesFound) + " found"
	case types.PhaseIdle:
		return ""
	default:
		return fmt.Sprintf("%s/%s hashed",
			humanize.Comma(m.progress.FilesHashed), humanize.Comma(m.progress.FilesFound))
	}
}

// Interrupted reports whether the user pressed ctrl+c.
func (m ProgressModel) Interrupted() bool {
	return m.interrupted
}

// IsDone reports whether the run finished.
func (m ProgressModel) IsDone() bool {
	return m.done
}

// Result returns the outcome delivered by DoneMsg.
func (m ProgressModel) Result() (*types.Result, error) {
	return m.result, m.err
}

func phaseLabel(p types.Phase) string {
	switch p {
	case types.PhaseWalking:
		return "walking"
	case types.PhaseBuildingManifest:
		return "hashing files"
	case types.PhaseHashingManifest:
		return "hashing manifest"
	case types.PhaseComparingTarget:
		return "comparing"
	default:
		return p.String()
	}
}

// truncatePath shortens path to width by replacing its start with "...".
func truncatePath(path string, width int) string {
	if len(path) <= width {
		return path
	}
	if width <= 3 {
		return path[len(path)-width:]
	}
	return "..." + path[len(path)-(width-3):]
}

// formatElapsed formats a duration as M:SS.
func formatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	m := d / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%d:%02d", m, s)
}
