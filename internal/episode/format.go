package episode

import (
	"html"
	"regexp"
	"strconv"
	"strings"
)

const (
	// Unknown marks a value that should exist but is missing or unusable.
	Unknown = "Unknown"
	// NotApplicable marks numeric cells without a value.
	NotApplicable = "N/A"
	// NoCompanion is shown when an episode has no companion at all.
	NoCompanion = "—"
)

// Sanitize escapes text for HTML. The ampersand must be replaced first so the
// entities introduced afterwards are not escaped twice. Empty input yields
// Unknown.
func Sanitize(text string) string {
	if text == "" {
		return Unknown
	}
	text = strings.ReplaceAll(text, "&", "&amp;")
	text = strings.ReplaceAll(text, "<", "&lt;")
	text = strings.ReplaceAll(text, ">", "&gt;")
	text = strings.ReplaceAll(text, `"`, "&quot;")
	text = strings.ReplaceAll(text, "'", "&#039;")
	return text
}

var writerSep = regexp.MustCompile(`\s*(?:,|\band\b|&)\s*`)

// splitWriters splits a writer credit on commas, the word "and" and "&".
func splitWriters(writer string) []string {
	parts := writerSep.Split(writer, -1)
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return names
}

// FormatWriters normalises a writer credit to "A", "A and B" or
// "A, B and C". Each name is sanitized on its own.
func FormatWriters(writer string) string {
	if writer == "" {
		return Unknown
	}
	names := splitWriters(writer)
	if len(names) == 0 {
		return Unknown
	}
	for i, n := range names {
		names[i] = Sanitize(n)
	}
	switch len(names) {
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	}
	last := names[len(names)-1]
	return strings.Join(names[:len(names)-1], ", ") + " and " + last
}

// FormatDoctor renders "Actor (Incarnation)" or Unknown when either part is
// missing.
func FormatDoctor(d *Doctor) string {
	if d == nil || d.Actor == "" || d.Incarnation == "" {
		return Unknown
	}
	return Sanitize(d.Actor) + " (" + Sanitize(d.Incarnation) + ")"
}

// FormatCompanion renders "Actor (Character)". An absent companion is not
// missing data, so it gets NoCompanion rather than Unknown.
func FormatCompanion(c *Companion) string {
	if c == nil {
		return NoCompanion
	}
	if c.Actor == "" || c.Character == "" {
		return Unknown
	}
	return Sanitize(c.Actor) + " (" + Sanitize(c.Character) + ")"
}

// CastCount is the number of cast entries; anything that was not a list
// counts as zero.
func CastCount(e Episode) int { return len(e.Cast) }

// FormatRank renders the rank, N/A when it is missing or zero.
func FormatRank(e Episode) string {
	if !e.HasRank || e.Rank == 0 {
		return NotApplicable
	}
	return strconv.Itoa(e.Rank)
}

// FormatSeries renders the series number or text, N/A when it is missing,
// zero or empty.
func FormatSeries(s Series) string {
	switch {
	case !s.Present:
		return NotApplicable
	case s.IsText:
		if s.Text == "" {
			return NotApplicable
		}
		return Sanitize(s.Text)
	case s.Number == 0:
		return NotApplicable
	default:
		return strconv.FormatFloat(s.Number, 'f', -1, 64)
	}
}

// Row returns the HTML-safe display cells of an episode in column order.
func Row(e Episode) []string {
	return []string{
		FormatRank(e),
		Sanitize(e.Title),
		FormatSeries(e.Series),
		Sanitize(e.Era),
		YearOf(e.BroadcastDate),
		Sanitize(e.Director),
		FormatWriters(e.Writer),
		FormatDoctor(e.Doctor),
		FormatCompanion(e.Companion),
		strconv.Itoa(CastCount(e)),
	}
}

// TextRow is Row with the HTML entities decoded again, for plain-text
// outputs such as terminals and CSV.
func TextRow(e Episode) []string {
	cells := Row(e)
	for i, c := range cells {
		cells[i] = html.UnescapeString(c)
	}
	return cells
}
