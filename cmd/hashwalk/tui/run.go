package tui

import (
	"errors"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jamesainslie/hashwalk/pkg/hashwalk/types"
)

// ErrInterrupted is returned by Run when the user pressed ctrl+c.
var ErrInterrupted = errors.New("interrupted")

// progressInterval limits how often per-file progress is redrawn. Phase
// changes are always shown.
const progressInterval = 50 * time.Millisecond

// RunFunc performs the run, reporting progress through onProgress.
type RunFunc func(onProgress func(types.Progress)) (*types.Result, error)

type outcome struct {
	result *types.Result
	err    error
}

// Run executes run while drawing progress on stderr and returns its
// outcome. If the display cannot start the run still completes.
func Run(root string, run RunFunc) (*types.Result, error) {
	p := tea.NewProgram(NewProgressModel(root), tea.WithOutput(os.Stderr))

	done := make(chan outcome, 1)
	go func() {
		result, err := run(throttle(p.Send, progressInterval))
		done <- outcome{result: result, err: err}
		p.Send(DoneMsg{Result: result, Err: err})
	}()

	final, err := p.Run()
	if errors.Is(err, tea.ErrInterrupted) {
		return nil, ErrInterrupted
	}
	if m, ok := final.(ProgressModel); ok && m.Interrupted() {
		return nil, ErrInterrupted
	}

	o := <-done
	return o.result, o.err
}

// throttle forwards progress to send, dropping per-file updates that arrive
// within every of the previous one.
func throttle(send func(tea.Msg), every time.Duration) func(types.Progress) {
	var last time.Time
	phase := types.Phase(-1)
	return func(p types.Progress) {
		now := time.Now()
		if p.Phase == phase && now.Sub(last) < every {
			return
		}
		phase, last = p.Phase, now
		send(ProgressMsg(p))
	}
}
