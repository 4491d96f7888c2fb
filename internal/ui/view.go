package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"episodeview/internal/episode"
	"episodeview/internal/loader"
	"episodeview/internal/view"
)

const noEpisodes = "No episodes found."

// chrome is the number of lines around the table: title, divider, filter,
// status and footer.
const chrome = 10

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Doctor Who Episodes"))
	b.WriteString("\n")
	b.WriteString(dividerStyle.Render(strings.Repeat("─", max(10, m.width-2))))
	b.WriteString("\n\n")

	if m.filtering || m.filter.Value() != "" {
		b.WriteString(m.filter.View() + "\n\n")
	}

	switch {
	case m.st.Loading() && m.st.Total() == 0:
		b.WriteString(m.spinner.View() + " Loading episodes…\n")
	case m.st.Empty():
		b.WriteString(warnStyle.Render(noEpisodes) + "\n")
	default:
		b.WriteString(m.tbl.View() + "\n")
	}

	if s := m.st.Status(); s != "" {
		b.WriteString("\n" + statusStyle(s).Render(s) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(renderFooter(m.footerLine(),
		"↑/↓ move  |  ←/→ column  |  s/enter sort  |  1-9,0 sort by column  |  / filter  |  esc clear",
		"ctrl+f "+m.nextModeLabel()+" filter  |  r reload  |  q quit",
	))
	b.WriteString("\n")
	return b.String()
}

func statusStyle(s string) lipgloss.Style {
	switch s {
	case loader.StatusBackupLoaded:
		return okStyle
	case loader.StatusRemoteFailed:
		return warnStyle
	default:
		return errorStyle
	}
}

func (m Model) footerLine() string {
	sort := m.st.Sort()
	parts := []string{
		fmt.Sprintf("%d of %d episodes", m.st.Len(), m.st.Total()),
		"sort: " + sort.Field.Title() + " " + arrow(sort.Ascending),
		"filter: " + m.st.FilterMode().String(),
	}
	if src := m.st.DataSource(); src != loader.SourceNone {
		parts = append(parts, "source: "+src.String())
	}
	if m.st.Loading() {
		parts = append(parts, m.spinner.View()+" loading")
	}
	if m.metrics != nil {
		parts = append(parts, m.metrics.Snapshot().Summary())
	}
	return strings.Join(parts, "  |  ")
}

func (m Model) nextModeLabel() string {
	if m.st.FilterMode() == view.FilterFuzzy {
		return "substring"
	}
	return "fuzzy"
}

func arrow(ascending bool) string {
	if ascending {
		return "▲"
	}
	return "▼"
}

func (m Model) tableHeight() int {
	return max(3, m.height-chrome)
}

// refreshColumns rebuilds the headers: the sorted column carries the
// direction arrow and the keyboard-selected column is bracketed.
func (m *Model) refreshColumns() {
	widths := columnWidths(m.width)
	sort := m.st.Sort()
	cols := make([]table.Column, len(episode.Fields))
	for i, f := range episode.Fields {
		title := f.Title()
		if f == sort.Field {
			title += " " + arrow(sort.Ascending)
		}
		if i == m.col {
			title = "[" + title + "]"
		}
		cols[i] = table.Column{Title: title, Width: widths[i]}
	}
	m.tbl.SetColumns(cols)
}

func (m *Model) refreshRows() {
	eps := m.st.Filtered()
	rows := make([]table.Row, len(eps))
	for i, e := range eps {
		rows[i] = table.Row(episode.TextRow(e))
	}
	m.tbl.SetRows(rows)
}

// base widths in column order; the text columns shrink on narrow terminals
var (
	baseWidths = []int{6, 30, 8, 10, 16, 20, 28, 28, 30, 6}
	flexible   = []bool{false, true, false, false, false, true, true, true, true, false}
)

const minFlexWidth = 8

// columnWidths fits the columns into total cells. Each column carries one
// cell of padding on either side.
func columnWidths(total int) []int {
	widths := append([]int(nil), baseWidths...)
	avail := total - 2*len(widths)

	sum, flex := 0, 0
	for i, w := range widths {
		sum += w
		if flexible[i] {
			flex += w
		}
	}
	if sum <= avail || flex == 0 {
		return widths
	}

	over := sum - avail
	for i, w := range widths {
		if !flexible[i] {
			continue
		}
		cut := over * w / flex
		widths[i] = max(minFlexWidth, w-cut)
	}
	return widths
}
