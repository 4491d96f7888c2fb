package episode

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"episodeview/internal/infra/logx"
)

var (
	yearOnly = regexp.MustCompile(`^\d{4}$`)
	isoDate  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	ukDate   = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
	longDate = regexp.MustCompile(`^[A-Za-z]+ \d{1,2}, \d{4}$`)
)

// Layouts tried once none of the known shapes match.
var fallbackLayouts = []string{
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.ANSIC,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-1-2",
	"2006/01/02",
	"2006/1/2",
	"1/2/2006",
	"Jan 2, 2006",
	"January 2 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	"Mon, 2 Jan 2006",
	"Monday, January 2, 2006",
	"January 2006",
	"Jan 2006",
	"2006-01",
}

// YearOf extracts the broadcast year from a date in one of the shapes the
// feed uses: "2005", "2005-03-26", "26/03/2005" or "March 26, 2005". Other
// strings are parsed generically; Unknown is returned when that fails too.
// It runs for every sort comparison, so it never logs.
func YearOf(date string) string {
	if y, ok := parseYear(date); ok {
		return y
	}
	return Unknown
}

func parseYear(date string) (string, bool) {
	switch {
	case date == "":
		return "", false
	case yearOnly.MatchString(date):
		return date, true
	case isoDate.MatchString(date):
		return date[:4], true
	case ukDate.MatchString(date):
		return date[strings.LastIndex(date, "/")+1:], true
	case longDate.MatchString(date):
		return date[strings.Index(date, ", ")+2:], true
	}
	trimmed := strings.TrimSpace(date)
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return strconv.Itoa(t.Year()), true
		}
	}
	return "", false
}

// warnUnparseableDate reports a broadcast date YearOf cannot read. Called
// once per decoded record.
func warnUnparseableDate(e Episode) {
	if e.BroadcastDate == "" {
		return
	}
	if _, ok := parseYear(e.BroadcastDate); !ok {
		logx.Warn().Str("date", e.BroadcastDate).Str("title", e.Title).Msg("unparseable broadcast date")
	}
}
