package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"episodeview/internal/feed"
	"episodeview/internal/view"
)

// Options wires the model to its collaborators.
type Options struct {
	Loader     view.Loader
	Metrics    *feed.Metrics // optional; shown in the footer
	FilterMode view.FilterMode
	Fuzzy      view.FuzzyConfig // zero keeps the built-in thresholds
}

// Model is the bubbletea model of the episode browser. It only renders and
// mutates view.State; all data work happens in the loader.
type Model struct {
	st      *view.State
	loader  view.Loader
	metrics *feed.Metrics

	tbl     table.Model
	filter  textinput.Model
	spinner spinner.Model

	filtering bool
	col       int // selected column for keyboard sorting
	width     int
	height    int

	loadCh  chan tea.Msg
	pending bool // a load was requested and its result is not applied yet
}

// State exposes the underlying view state.
func (m Model) State() *view.State { return m.st }
