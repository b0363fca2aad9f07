package ui

import (
	"sync"

	"messenger/contract"

	tea "github.com/charmbracelet/bubbletea"
)

var _ contract.Applier = (*Applier)(nil)

// ApplyMsg carries an update posted from a worker goroutine.
type ApplyMsg struct{ fn func() }

// Applier marshals updates from worker goroutines onto the bubbletea loop.
// Updates are applied one at a time, in the order they were posted.
type Applier struct {
	updates chan func()
	done    chan struct{}
	once    sync.Once
}

func NewApplier() *Applier {
	return &Applier{updates: make(chan func()), done: make(chan struct{})}
}

// Apply blocks until the UI loop takes fn, or the applier is closed.
func (a *Applier) Apply(fn func()) {
	select {
	case a.updates <- fn:
	case <-a.done:
	}
}

// Close releases every pending and future Apply.
func (a *Applier) Close() {
	a.once.Do(func() { close(a.done) })
}

// listen waits for the next update.
func (a *Applier) listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case fn := <-a.updates:
			return ApplyMsg{fn: fn}
		case <-a.done:
			return nil
		}
	}
}
