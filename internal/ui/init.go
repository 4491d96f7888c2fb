package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"episodeview/internal/view"
)

func New(opts Options) Model {
	st := view.New()
	st.SetFilterMode(opts.FilterMode)
	if opts.Fuzzy != (view.FuzzyConfig{}) {
		st.SetFuzzyConfig(opts.Fuzzy)
	}

	m := Model{
		st:      st,
		loader:  opts.Loader,
		metrics: opts.Metrics,
		width:   120,
		height:  30,
	}
	if opts.Loader != nil {
		// Init starts the first load
		m.pending = true
		st.SetLoading(true)
	}

	fi := textinput.New()
	fi.Placeholder = "Filter by title…"
	fi.Prompt = "/ "
	fi.CharLimit = 200
	fi.Width = 40
	m.filter = fi

	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = subtleStyle
	m.spinner = sp

	m.tbl = table.New(table.WithFocused(true), table.WithHeight(m.tableHeight()))
	ts := table.DefaultStyles()
	ts.Header = headerStyle
	ts.Selected = selectedRowStyle
	m.tbl.SetStyles(ts)
	m.refreshColumns()

	return m
}

// Init starts the first load right away.
func (m Model) Init() tea.Cmd {
	if m.loader == nil {
		return nil
	}
	return startLoadCmd()
}
