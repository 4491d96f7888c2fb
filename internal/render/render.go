// Package render writes the working set as a static table.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"episodeview/internal/episode"
)

// Format selects the output flavour.
type Format string

const (
	FormatText     Format = "text"
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
)

// ParseFormat accepts the format names plus "md" and "" (text).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, nil
	case "html":
		return FormatHTML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "csv":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// Options controls the header decoration.
type Options struct {
	Format    Format
	SortField episode.Field
	Ascending bool
}

// NoData is printed instead of a table when there is nothing to show.
const NoData = "No episodes to display."

// Table renders eps in column order. HTML cells are the formatter's
// sanitized values; every other format shows the plain text.
func Table(w io.Writer, eps []episode.Episode, opts Options) error {
	if len(eps) == 0 && opts.Format != FormatCSV {
		_, err := fmt.Fprintln(w, NoData)
		return err
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(header(opts))

	for _, e := range eps {
		cells := episode.TextRow(e)
		if opts.Format == FormatHTML {
			cells = episode.Row(e)
		}
		r := make(table.Row, len(cells))
		for i, c := range cells {
			r[i] = c
		}
		tw.AppendRow(r)
	}
	tw.SetColumnConfigs(columnConfigs())

	var out string
	switch opts.Format {
	case FormatHTML:
		tw.Style().HTML.EscapeText = false
		out = tw.RenderHTML()
	case FormatMarkdown:
		out = tw.RenderMarkdown()
	case FormatCSV:
		out = tw.RenderCSV()
	default:
		out = tw.Render()
	}
	_, err := fmt.Fprintln(w, out)
	return err
}

// header marks the sorted column with an arrow.
func header(opts Options) table.Row {
	row := make(table.Row, len(episode.Fields))
	for i, f := range episode.Fields {
		title := f.Title()
		if f == opts.SortField && opts.Format != FormatCSV {
			if opts.Ascending {
				title += " ▲"
			} else {
				title += " ▼"
			}
		}
		row[i] = title
	}
	return row
}

func columnConfigs() []table.ColumnConfig {
	configs := make([]table.ColumnConfig, 0, len(episode.Fields))
	for i, f := range episode.Fields {
		align := text.AlignLeft
		if f == episode.FieldRank || f == episode.FieldCast {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	return configs
}
