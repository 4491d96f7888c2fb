package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"episodeview/internal/loader"
	"episodeview/internal/view"
)

// ---------- Messages / Cmds ----------

// loadStartMsg carries the progress channel of a new load.
type loadStartMsg struct {
	ch chan tea.Msg
}

// loadingMsg and statusMsg mirror the loader's Reporter calls. Each
// progress message names the channel it came from so Update can tell a
// superseded load from the current one.
type loadingMsg struct {
	ch chan tea.Msg
	on bool
}

type statusMsg struct {
	ch   chan tea.Msg
	text string
}

// loadedMsg is the last message on a load channel.
type loadedMsg struct {
	ch  chan tea.Msg
	res loader.Result
}

// chanReporter forwards Reporter calls to the model. Every event goes
// through the same channel as the final result so Update sees them in
// order.
type chanReporter struct {
	ch chan tea.Msg
}

func (r chanReporter) SetLoading(on bool)   { r.ch <- loadingMsg{ch: r.ch, on: on} }
func (r chanReporter) SetStatus(s string) { r.ch <- statusMsg{ch: r.ch, text: s} }

func startLoadCmd() tea.Cmd {
	return func() tea.Msg {
		return loadStartMsg{ch: make(chan tea.Msg, 16)}
	}
}

// runLoadCmd performs the load and closes the channel after the result.
func runLoadCmd(l view.Loader, ch chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		res := l.Load(context.Background(), chanReporter{ch: ch})
		ch <- loadedMsg{ch: ch, res: res}
		close(ch)
		return nil
	}
}

// listenLoadProgress reads one event from the channel and returns it as a
// message.
func listenLoadProgress(ch chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		if ch == nil {
			return nil
		}
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}
