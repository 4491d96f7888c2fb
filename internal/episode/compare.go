package episode

import (
	"cmp"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Field names a sortable column. The values match the JSON keys of the feed.
type Field string

const (
	FieldRank          Field = "rank"
	FieldTitle         Field = "title"
	FieldSeries        Field = "series"
	FieldEra           Field = "era"
	FieldBroadcastDate Field = "broadcast_date"
	FieldDirector      Field = "director"
	FieldWriter        Field = "writer"
	FieldDoctor        Field = "doctor"
	FieldCompanion     Field = "companion"
	FieldCast          Field = "cast"
)

// Fields lists the columns in display order.
var Fields = []Field{
	FieldRank,
	FieldTitle,
	FieldSeries,
	FieldEra,
	FieldBroadcastDate,
	FieldDirector,
	FieldWriter,
	FieldDoctor,
	FieldCompanion,
	FieldCast,
}

var fieldTitles = map[Field]string{
	FieldRank:          "Rank",
	FieldTitle:         "Title",
	FieldSeries:        "Series",
	FieldEra:           "Era",
	FieldBroadcastDate: "Broadcast Date",
	FieldDirector:      "Director",
	FieldWriter:        "Writer",
	FieldDoctor:        "Doctor",
	FieldCompanion:     "Companion",
	FieldCast:          "Cast",
}

// Title is the column header for the field.
func (f Field) Title() string {
	if t, ok := fieldTitles[f]; ok {
		return t
	}
	return string(f)
}

// Known reports whether the field has a comparator.
func (f Field) Known() bool {
	_, ok := fieldTitles[f]
	return ok
}

type keyKind int

const (
	kindNone keyKind = iota
	kindNumber
	kindText
	kindCompanion
)

func (f Field) kind() keyKind {
	switch f {
	case FieldRank, FieldSeries, FieldCast:
		return kindNumber
	case FieldTitle, FieldEra, FieldDirector, FieldBroadcastDate, FieldWriter, FieldDoctor:
		return kindText
	case FieldCompanion:
		return kindCompanion
	default:
		return kindNone
	}
}

// sortKey is the value a record is ordered by for one field.
type sortKey struct {
	num    float64
	text   string
	absent bool
}

var firstWriterSep = regexp.MustCompile(` (?:&|and) `)

func keyOf(f Field, e Episode) sortKey {
	switch f {
	case FieldRank:
		return sortKey{num: float64(e.Rank)}
	case FieldSeries:
		return sortKey{num: e.Series.Key()}
	case FieldCast:
		return sortKey{num: float64(CastCount(e))}
	case FieldTitle:
		return sortKey{text: strings.ToLower(e.Title)}
	case FieldEra:
		return sortKey{text: strings.ToLower(e.Era)}
	case FieldDirector:
		return sortKey{text: strings.ToLower(e.Director)}
	case FieldBroadcastDate:
		if e.BroadcastDate == "" {
			return sortKey{text: "0"}
		}
		return sortKey{text: YearOf(e.BroadcastDate)}
	case FieldWriter:
		w := strings.ToLower(e.Writer)
		return sortKey{text: firstWriterSep.Split(w, 2)[0]}
	case FieldDoctor:
		if e.Doctor == nil {
			return sortKey{}
		}
		return sortKey{text: strings.ToLower(e.Doctor.Actor)}
	case FieldCompanion:
		if e.Companion == nil {
			return sortKey{absent: true}
		}
		return sortKey{text: strings.ToLower(e.Companion.Actor)}
	}
	return sortKey{}
}

func newCollator() *collate.Collator {
	return collate.New(language.English)
}

func compareKeys(f Field, a, b sortKey, ascending bool, col *collate.Collator) int {
	dir := 1
	if !ascending {
		dir = -1
	}
	switch f.kind() {
	case kindNumber:
		return cmp.Compare(a.num, b.num) * dir
	case kindText:
		return col.CompareString(a.text, b.text) * dir
	case kindCompanion:
		// episodes without a companion go last whatever the direction
		switch {
		case a.absent && b.absent:
			return 0
		case a.absent:
			return 1
		case b.absent:
			return -1
		}
		return col.CompareString(a.text, b.text) * dir
	}
	return 0
}

// Compare orders a and b by field. The result is negative when a sorts
// first. Unknown fields compare equal.
func Compare(f Field, a, b Episode, ascending bool) int {
	return compareKeys(f, keyOf(f, a), keyOf(f, b), ascending, newCollator())
}

// Sort stably orders eps in place by field. Keys are computed once per
// record. Unknown fields leave the order untouched.
func Sort(eps []Episode, f Field, ascending bool) {
	if f.kind() == kindNone || len(eps) < 2 {
		return
	}
	type keyed struct {
		ep  Episode
		key sortKey
	}
	items := make([]keyed, len(eps))
	for i, e := range eps {
		items[i] = keyed{ep: e, key: keyOf(f, e)}
	}
	col := newCollator()
	sort.SliceStable(items, func(i, j int) bool {
		return compareKeys(f, items[i].key, items[j].key, ascending, col) < 0
	})
	for i := range items {
		eps[i] = items[i].ep
	}
}
