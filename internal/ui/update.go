package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"episodeview/internal/episode"
	"episodeview/internal/infra/logx"
	"episodeview/internal/view"
)

// ---------- Update ----------
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.filtering {
			return m.handleFilterKey(msg)
		}
		return m.handleTableKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.tbl.SetHeight(m.tableHeight())
		m.tbl.SetWidth(msg.Width)
		m.refreshColumns()
		return m, nil

	case loadStartMsg:
		m.loadCh = msg.ch
		m.st.SetLoading(true)
		return m, tea.Batch(listenLoadProgress(msg.ch), runLoadCmd(m.loader, msg.ch), m.spinner.Tick)

	case loadingMsg:
		if msg.ch == m.loadCh {
			m.st.SetLoading(msg.on)
		}
		return m, listenLoadProgress(msg.ch)

	case statusMsg:
		if msg.ch == m.loadCh {
			m.st.SetStatus(msg.text)
		}
		return m, listenLoadProgress(msg.ch)

	case loadedMsg:
		if msg.ch != m.loadCh {
			// superseded load; its channel closes on its own
			return m, nil
		}
		m.loadCh = nil
		m.pending = false
		m.st.SetLoading(false)
		m.st.ApplyLoad(msg.res)
		// keep what the user typed while the data was loading
		m.st.SetNameFilter(m.filter.Value())
		m.refreshRows()
		m.tbl.GotoTop()
		if m.metrics != nil {
			logx.Info().Str("source", msg.res.Source.String()).Msg(m.metrics.Snapshot().Summary())
		}
		return m, nil

	case spinner.TickMsg:
		if m.st.Loading() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.filtering = false
		m.filter.Blur()
		return m, nil
	case "esc":
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.applyFilter()
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m Model) handleTableKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q":
		return m, tea.Quit
	case "/":
		m.filtering = true
		m.filter.Focus()
		return m, textinput.Blink
	case "esc":
		if m.filter.Value() != "" {
			m.filter.SetValue("")
			m.applyFilter()
		}
		return m, nil
	case "left", "h":
		if m.col > 0 {
			m.col--
			m.refreshColumns()
		}
		return m, nil
	case "right", "l":
		if m.col < len(episode.Fields)-1 {
			m.col++
			m.refreshColumns()
		}
		return m, nil
	case "s", "enter":
		m.sortBy(m.col)
		return m, nil
	case "1", "2", "3", "4", "5", "6", "7", "8", "9", "0":
		idx := int(key[0]-'0') - 1
		if idx < 0 {
			idx = 9
		}
		m.col = idx
		m.sortBy(idx)
		return m, nil
	case "r":
		if m.loader == nil || m.pending || m.st.Loading() {
			return m, nil
		}
		// pending until the result arrives, so a second press before the
		// load starts is ignored
		m.pending = true
		m.st.SetLoading(true)
		return m, startLoadCmd()
	case "ctrl+f":
		mode := view.FilterFuzzy
		if m.st.FilterMode() == view.FilterFuzzy {
			mode = view.FilterSubstring
		}
		m.st.SetFilterMode(mode)
		m.refreshRows()
		return m, nil
	}
	var cmd tea.Cmd
	m.tbl, cmd = m.tbl.Update(msg)
	return m, cmd
}

func (m *Model) sortBy(col int) {
	m.st.OnSortRequested(episode.Fields[col])
	m.refreshColumns()
	m.refreshRows()
}

func (m *Model) applyFilter() {
	m.st.OnFilterTextChanged(m.filter.Value())
	m.refreshRows()
	m.tbl.GotoTop()
}
