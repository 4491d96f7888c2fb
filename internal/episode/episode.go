// Package episode holds the episode record as it arrives from the data feed,
// together with the display formatters and the field comparator used by the
// table views.
package episode

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// SpecialSeries is the series value used for specials. It sorts after every
// numbered series.
const SpecialSeries = "Special"

// Doctor is the lead actor and the incarnation they played.
type Doctor struct {
	Actor       string
	Incarnation string
}

// Companion is the main companion of an episode.
type Companion struct {
	Actor     string
	Character string
}

// Series is either a series number or free text (normally "Special").
type Series struct {
	Number  float64
	Text    string
	IsText  bool
	Present bool
}

// IsSpecial reports whether the series is the literal "Special".
func (s Series) IsSpecial() bool { return s.IsText && s.Text == SpecialSeries }

// Key is the numeric sort key of the series. Specials map to math.MaxInt,
// text that does not parse as a number maps to 0.
func (s Series) Key() float64 {
	switch {
	case !s.Present:
		return 0
	case s.IsSpecial():
		return float64(math.MaxInt)
	case s.IsText:
		f, err := strconv.ParseFloat(strings.TrimSpace(s.Text), 64)
		if err != nil || math.IsNaN(f) {
			return 0
		}
		return f
	default:
		return s.Number
	}
}

// Episode is one row of the data set. Values are never modified after
// decoding; views reorder copies of the slice instead.
type Episode struct {
	Rank          int
	HasRank       bool
	Title         string
	Series        Series
	Era           string
	BroadcastDate string
	Director      string
	Writer        string
	Doctor        *Doctor
	Companion     *Companion // nil means the episode has no companion
	Cast          []json.RawMessage
}

// UnmarshalJSON decodes a record leniently: a field with an unexpected shape
// is treated as missing instead of failing the whole page.
func (e *Episode) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		// not an object; keep an empty record so the row still renders
		*e = Episode{}
		return nil
	}

	var out Episode
	out.Rank, out.HasRank = rankField(raw["rank"])
	out.Title = stringField(raw["title"])
	out.Series = seriesField(raw["series"])
	out.Era = stringField(raw["era"])
	out.BroadcastDate = stringField(raw["broadcast_date"])
	out.Director = stringField(raw["director"])
	out.Writer = stringField(raw["writer"])

	if v, ok := raw["doctor"]; ok && !isNull(v) {
		var d struct {
			Actor       json.RawMessage `json:"actor"`
			Incarnation json.RawMessage `json:"incarnation"`
		}
		out.Doctor = &Doctor{}
		if json.Unmarshal(v, &d) == nil {
			out.Doctor.Actor = stringField(d.Actor)
			out.Doctor.Incarnation = stringField(d.Incarnation)
		}
	}

	if v, ok := raw["companion"]; ok && !isFalsy(v) {
		var c struct {
			Actor     json.RawMessage `json:"actor"`
			Character json.RawMessage `json:"character"`
		}
		out.Companion = &Companion{}
		if json.Unmarshal(v, &c) == nil {
			out.Companion.Actor = stringField(c.Actor)
			out.Companion.Character = stringField(c.Character)
		}
	}

	if v, ok := raw["cast"]; ok {
		var cast []json.RawMessage
		if json.Unmarshal(v, &cast) == nil {
			out.Cast = cast
		}
	}

	warnUnparseableDate(out)
	*e = out
	return nil
}

func stringField(v json.RawMessage) string {
	if len(v) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return ""
	}
	return s
}

// rankField reads a JSON number or numeric text, truncated to an int.
// Anything else is missing.
func rankField(v json.RawMessage) (int, bool) {
	if len(v) == 0 || isNull(v) {
		return 0, false
	}
	var f float64
	if json.Unmarshal(v, &f) != nil {
		var s string
		if json.Unmarshal(v, &s) != nil {
			return 0, false
		}
		var err error
		if f, err = strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
			return 0, false
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}

func seriesField(v json.RawMessage) Series {
	if len(v) == 0 || isNull(v) {
		return Series{}
	}
	var f float64
	if err := json.Unmarshal(v, &f); err == nil {
		return Series{Number: f, Present: true}
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return Series{Text: s, IsText: true, Present: true}
	}
	return Series{}
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// isFalsy matches the JSON values that mean "no value here" for optional
// sub-objects: null, false, "" and 0.
func isFalsy(v json.RawMessage) bool {
	t := bytes.TrimSpace(v)
	switch string(t) {
	case "", "null", "false", `""`:
		return true
	}
	var f float64
	if json.Unmarshal(t, &f) == nil && f == 0 {
		return true
	}
	return false
}

// SortByRank orders episodes ascending by rank, treating a missing rank as 0.
// Equal ranks keep their input order.
func SortByRank(eps []Episode) {
	Sort(eps, FieldRank, true)
}
