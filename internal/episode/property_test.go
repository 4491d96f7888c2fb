package episode

import (
	"strconv"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func genEpisode() gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(0, 200),
		gen.Bool(),
		gen.IntRange(0, 40),
		gen.Bool(),
	).Map(func(vals []interface{}) Episode {
		rank, hasRank := vals[0].(int), vals[1].(bool)
		series := Series{Number: float64(vals[2].(int)), Present: true}
		if vals[3].(bool) {
			series = Series{Text: SpecialSeries, IsText: true, Present: true}
		}
		e := Episode{Series: series}
		if hasRank {
			e.Rank, e.HasRank = rank, true
		}
		return e
	})
}

func TestOrderingProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("missing rank sorts as zero", prop.ForAll(
		func(eps []Episode) bool {
			SortByRank(eps)
			for i := 1; i < len(eps); i++ {
				if eps[i-1].Rank > eps[i].Rank {
					return false
				}
			}
			return true
		},
		gen.SliceOf(genEpisode()),
	))

	properties.Property("specials sort after every numbered series", prop.ForAll(
		func(eps []Episode) bool {
			Sort(eps, FieldSeries, true)
			seenSpecial := false
			for _, e := range eps {
				if e.Series.IsSpecial() {
					seenSpecial = true
				} else if seenSpecial {
					return false
				}
			}
			return true
		},
		gen.SliceOf(genEpisode()),
	))

	properties.Property("sorting keeps every record", prop.ForAll(
		func(eps []Episode) bool {
			before := len(eps)
			Sort(eps, FieldCast, false)
			return len(eps) == before
		},
		gen.SliceOf(genEpisode()),
	))

	properties.TestingRun(t)
}

func TestFormattingProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("writer list round-trips plain names", prop.ForAll(
		func(names []string) bool {
			credit := names[0]
			if n := len(names); n > 1 {
				credit = strings.Join(names[:n-1], ", ") + " and " + names[n-1]
			}
			return FormatWriters(credit) == credit
		},
		gen.SliceOf(gen.Identifier()).SuchThat(func(names []string) bool {
			if len(names) == 0 {
				return false
			}
			for _, n := range names {
				if n == "" || n == "and" {
					return false
				}
			}
			return true
		}),
	))

	properties.Property("sanitized text has no raw markup", prop.ForAll(
		func(s string) bool {
			out := Sanitize(s)
			return !strings.ContainsAny(out, `<>"'`)
		},
		gen.AnyString(),
	))

	properties.Property("four digit years pass through", prop.ForAll(
		func(year int) bool {
			y := strconv.Itoa(year)
			return YearOf(y) == y && YearOf(y+"-01-02") == y && YearOf("02/01/"+y) == y
		},
		gen.IntRange(1000, 9999),
	))

	properties.TestingRun(t)
}
