package view

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"episodeview/internal/episode"
	"episodeview/internal/loader"
)

func ep(rank int, title string) episode.Episode {
	return episode.Episode{Rank: rank, HasRank: true, Title: title}
}

func titles(eps []episode.Episode) string {
	out := make([]string, len(eps))
	for i, e := range eps {
		out[i] = e.Title
	}
	return fmt.Sprint(out)
}

func loaded(eps ...episode.Episode) *State {
	s := New()
	s.ApplyLoad(loader.Result{Episodes: eps, Source: loader.SourceRemote})
	return s
}

func TestNewDefaults(t *testing.T) {
	s := New()
	if s.Sort() != (SortState{Field: episode.FieldRank, Ascending: true}) {
		t.Fatalf("unexpected default sort %+v", s.Sort())
	}
	if !s.Empty() || s.Loading() || s.Status() != "" || s.NameFilter() != "" {
		t.Fatal("new state must be empty and idle")
	}
}

func TestApplyLoadCopiesData(t *testing.T) {
	s := loaded(ep(1, "Rose"), ep(2, "Dalek"))
	f := s.Filtered()
	f[0].Title = "changed"
	if s.Filtered()[0].Title != "Rose" || s.Episodes()[0].Title != "Rose" {
		t.Fatal("accessors must not expose internal storage")
	}
	if s.DataSource() != loader.SourceRemote || s.Total() != 2 || s.Len() != 2 {
		t.Fatalf("unexpected state after load: source %v total %d len %d", s.DataSource(), s.Total(), s.Len())
	}
}

func TestApplyLoadFailureClearsData(t *testing.T) {
	s := loaded(ep(1, "Rose"))
	s.ApplyLoad(loader.Result{Status: "Failed to load episodes: boom", Err: errors.New("boom")})
	if !s.Empty() || s.Total() != 0 {
		t.Fatal("failed load must leave both sequences empty")
	}
	if s.Status() != "Failed to load episodes: boom" {
		t.Fatalf("unexpected status %q", s.Status())
	}
}

func TestSortByTogglesDirection(t *testing.T) {
	s := loaded(ep(2, "b"), ep(1, "a"), ep(3, "c"))
	s.SortBy(episode.FieldRank)
	if s.Sort().Ascending {
		t.Fatal("same field must flip to descending")
	}
	if got := titles(s.Filtered()); got != "[c b a]" {
		t.Fatalf("want [c b a], got %s", got)
	}
	s.SortBy(episode.FieldTitle)
	if s.Sort() != (SortState{Field: episode.FieldTitle, Ascending: true}) {
		t.Fatalf("new field must start ascending, got %+v", s.Sort())
	}
	if got := titles(s.Filtered()); got != "[a b c]" {
		t.Fatalf("want [a b c], got %s", got)
	}
	s.OnSortRequested(episode.FieldTitle)
	if got := titles(s.Filtered()); got != "[c b a]" {
		t.Fatalf("want [c b a], got %s", got)
	}
}

func TestSortUnknownFieldKeepsOrder(t *testing.T) {
	s := loaded(ep(2, "b"), ep(1, "a"))
	s.SetSort(episode.Field("nope"), true)
	if s.Sort().Field != "nope" {
		t.Fatal("requested field must be recorded")
	}
	if got := titles(s.Filtered()); got != "[b a]" {
		t.Fatalf("unknown field must not reorder, got %s", got)
	}
}

func TestNameFilterSubstring(t *testing.T) {
	s := loaded(ep(1, "The Day of the Doctor"), ep(2, "Blink"), ep(3, "The Doctor Dances"), episode.Episode{})
	s.SetSort(episode.FieldRank, false)

	s.SetNameFilter("  DOCTOR ")
	if got := titles(s.Filtered()); got != "[The Doctor Dances The Day of the Doctor]" {
		t.Fatalf("filter must be trimmed, case-insensitive and keep the sort, got %s", got)
	}
	if s.NameFilter() != "  DOCTOR " {
		t.Fatalf("raw filter text must be kept, got %q", s.NameFilter())
	}

	s.OnFilterTextChanged("xyz")
	if !s.Empty() {
		t.Fatal("no match must give an empty working set")
	}
	if s.Total() != 4 {
		t.Fatal("filtering must never touch the data set")
	}

	s.SetNameFilter("")
	if s.Len() != 4 {
		t.Fatalf("empty filter must restore every episode, got %d", s.Len())
	}
	if got := s.Filtered()[0].Title; got != "The Doctor Dances" {
		t.Fatalf("empty filter must still apply the sort, first is %q", got)
	}
}

func TestFilterModeFuzzy(t *testing.T) {
	s := loaded(ep(1, "Blink"), ep(2, "The Girl in the Fireplace"), ep(3, "Midnight"))
	s.SetFilterMode(FilterFuzzy)
	s.SetNameFilter("grlfire")
	if got := titles(s.Filtered()); got != "[The Girl in the Fireplace]" {
		t.Fatalf("unexpected fuzzy result %s", got)
	}
	s.SetFilterMode(FilterSubstring)
	if !s.Empty() {
		t.Fatal("switching mode must re-run the filter")
	}
}

func TestFuzzyConfigLimitsResults(t *testing.T) {
	s := loaded(ep(1, "The Doctor Dances"), ep(2, "Doctor Who"), ep(3, "The Doctor's Wife"))
	s.SetFilterMode(FilterFuzzy)
	s.SetNameFilter("doctor")
	if s.Len() != 3 {
		t.Fatalf("default thresholds must keep every match, got %s", titles(s.Filtered()))
	}
	s.SetFuzzyConfig(FuzzyConfig{MinCoverage: 1, MaxResults: 1})
	if s.Len() != 1 {
		t.Fatalf("MaxResults must cap the working set, got %s", titles(s.Filtered()))
	}
	s.SetFuzzyConfig(FuzzyConfig{})
	if s.Len() != 3 {
		t.Fatalf("zero limits must mean no limit, got %s", titles(s.Filtered()))
	}
}

func TestParseFilterMode(t *testing.T) {
	for in, want := range map[string]FilterMode{"": FilterSubstring, "substring": FilterSubstring, " Fuzzy ": FilterFuzzy} {
		got, err := ParseFilterMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseFilterMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseFilterMode("regex"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

type stubLoader struct {
	res loader.Result
}

func (l stubLoader) Load(_ context.Context, rep loader.Reporter) loader.Result {
	rep.SetLoading(true)
	rep.SetStatus("working")
	rep.SetLoading(false)
	return l.res
}

func TestLoadEpisodesSupersedesFilter(t *testing.T) {
	s := New()
	s.SetNameFilter("blink")
	s.LoadEpisodes(context.Background(), stubLoader{res: loader.Result{
		Episodes: []episode.Episode{ep(1, "Rose"), ep(2, "Blink")},
		Source:   loader.SourceFallback,
	}})
	if s.Loading() {
		t.Fatal("loading must be lowered after load")
	}
	if s.Len() != 2 {
		t.Fatalf("load must reset the working set to every episode, got %d", s.Len())
	}
	if s.DataSource() != loader.SourceFallback || s.Status() != "" {
		t.Fatalf("unexpected source %v status %q", s.DataSource(), s.Status())
	}
}
