package episode

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"strings"
	"testing"

	"episodeview/internal/infra/logx"
)

func decode(t *testing.T, s string) Episode {
	t.Helper()
	var e Episode
	if err := json.Unmarshal([]byte(s), &e); err != nil {
		t.Fatalf("unmarshal %s: %v", s, err)
	}
	return e
}

func TestUnmarshalFullRecord(t *testing.T) {
	e := decode(t, `{"rank":1,"title":"Rose","series":1,"era":"Modern","broadcast_date":"2005-03-26",
		"director":"Keith Boak","writer":"Russell T Davies",
		"doctor":{"actor":"Christopher Eccleston","incarnation":"Ninth Doctor"},
		"companion":{"actor":"Billie Piper","character":"Rose Tyler"},"cast":[{"actor":"x"},{"actor":"y"}]}`)

	if !e.HasRank || e.Rank != 1 || e.Title != "Rose" || e.Era != "Modern" {
		t.Fatalf("unexpected scalar fields: %+v", e)
	}
	if !e.Series.Present || e.Series.Number != 1 || e.Series.IsText {
		t.Fatalf("unexpected series: %+v", e.Series)
	}
	if e.Doctor == nil || e.Doctor.Actor != "Christopher Eccleston" || e.Doctor.Incarnation != "Ninth Doctor" {
		t.Fatalf("unexpected doctor: %+v", e.Doctor)
	}
	if e.Companion == nil || e.Companion.Character != "Rose Tyler" {
		t.Fatalf("unexpected companion: %+v", e.Companion)
	}
	if CastCount(e) != 2 {
		t.Fatalf("cast count want 2 got %d", CastCount(e))
	}
}

func TestUnmarshalMalformedFieldsDegrade(t *testing.T) {
	e := decode(t, `{"rank":"first","title":42,"series":"Special","doctor":"Tom Baker","companion":"someone","cast":"many"}`)

	if e.HasRank || e.Rank != 0 {
		t.Fatalf("string rank should be treated as missing: %+v", e)
	}
	if e.Title != "" {
		t.Fatalf("numeric title should be treated as missing, got %q", e.Title)
	}
	if !e.Series.IsSpecial() || e.Series.Key() != float64(math.MaxInt) {
		t.Fatalf("expected special series, got %+v", e.Series)
	}
	if e.Doctor == nil || FormatDoctor(e.Doctor) != Unknown {
		t.Fatalf("non-object doctor should be present but unknown: %+v", e.Doctor)
	}
	if e.Companion == nil || FormatCompanion(e.Companion) != Unknown {
		t.Fatalf("non-object companion should be present but unknown: %+v", e.Companion)
	}
	if CastCount(e) != 0 {
		t.Fatalf("non-list cast should count 0, got %d", CastCount(e))
	}
}

func TestUnmarshalNumericTextRank(t *testing.T) {
	for in, want := range map[string]int{`"7"`: 7, `" 12 "`: 12, `"3.9"`: 3} {
		e := decode(t, `{"rank":`+in+`}`)
		if !e.HasRank || e.Rank != want {
			t.Fatalf("rank %s: want %d, got %+v", in, want, e)
		}
	}
	for _, in := range []string{`""`, `"NaN"`, `null`, `true`} {
		if e := decode(t, `{"rank":`+in+`}`); e.HasRank {
			t.Fatalf("rank %s should be treated as missing: %+v", in, e)
		}
	}
}

func TestUnparseableDateWarnsOnceAtDecode(t *testing.T) {
	var buf bytes.Buffer
	logx.SetOutput(&buf)
	logx.SetMinLevel(logx.LevelWarn)
	t.Cleanup(func() { logx.SetOutput(io.Discard) })

	eps := []Episode{
		decode(t, `{"rank":1,"title":"Lost","broadcast_date":"sometime in spring"}`),
		decode(t, `{"rank":2,"title":"Rose","broadcast_date":"2005-03-26"}`),
	}
	for n := 0; n < 5; n++ {
		Sort(eps, FieldBroadcastDate, true)
		Sort(eps, FieldBroadcastDate, false)
	}
	if n := strings.Count(buf.String(), "unparseable broadcast date"); n != 1 {
		t.Fatalf("want one warning per record, got %d:\n%s", n, buf.String())
	}
}

func TestUnmarshalFalsyCompanionIsAbsent(t *testing.T) {
	for _, v := range []string{`null`, `false`, `""`, `0`} {
		e := decode(t, `{"companion":`+v+`}`)
		if e.Companion != nil {
			t.Fatalf("companion %s should decode as absent", v)
		}
	}
	if e := decode(t, `{}`); e.Companion != nil || e.Doctor != nil {
		t.Fatalf("missing sub-objects should be nil: %+v", e)
	}
}

func TestUnmarshalNonObjectRecord(t *testing.T) {
	var eps []Episode
	if err := json.Unmarshal([]byte(`[{"rank":2},null,7]`), &eps); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(eps) != 3 || eps[0].Rank != 2 || eps[1].HasRank || eps[2].HasRank {
		t.Fatalf("unexpected records: %+v", eps)
	}
}

func TestSeriesKeyNumericText(t *testing.T) {
	e := decode(t, `{"series":"12"}`)
	if e.Series.Key() != 12 {
		t.Fatalf("numeric text series key want 12 got %v", e.Series.Key())
	}
	e = decode(t, `{"series":"Mini"}`)
	if e.Series.Key() != 0 {
		t.Fatalf("non-numeric text series key want 0 got %v", e.Series.Key())
	}
}
