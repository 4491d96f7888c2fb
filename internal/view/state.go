// Package view holds the application state behind the episode table: the
// loaded data set, the filtered and sorted working set, and the current sort
// and filter selections.
package view

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"episodeview/internal/episode"
	"episodeview/internal/loader"
)

// SortState is the current comparator selection.
type SortState struct {
	Field     episode.Field
	Ascending bool
}

// Filters holds the user's filter inputs.
type Filters struct {
	Name string
}

// FilterMode selects how the name filter matches titles.
type FilterMode int

const (
	FilterSubstring FilterMode = iota
	FilterFuzzy
)

func (m FilterMode) String() string {
	if m == FilterFuzzy {
		return "fuzzy"
	}
	return "substring"
}

// ParseFilterMode accepts "substring" (or "") and "fuzzy".
func ParseFilterMode(s string) (FilterMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "substring":
		return FilterSubstring, nil
	case "fuzzy":
		return FilterFuzzy, nil
	}
	return FilterSubstring, fmt.Errorf("unknown filter mode %q", s)
}

// Loader is the part of loader.Loader the state needs.
type Loader interface {
	Load(ctx context.Context, rep loader.Reporter) loader.Result
}

// State is the view state of one session. It is not safe for concurrent use;
// presenters mutate it from a single goroutine.
type State struct {
	episodes []episode.Episode
	filtered []episode.Episode
	sort     SortState
	filters  Filters
	mode     FilterMode
	fuzzy    FuzzyConfig

	loading bool
	status  string
	source  loader.Source
}

// New returns an empty state sorted by rank ascending.
func New() *State {
	return &State{
		sort:  SortState{Field: episode.FieldRank, Ascending: true},
		fuzzy: DefaultFuzzyConfig(),
	}
}

// Episodes returns the full data set in load order.
func (s *State) Episodes() []episode.Episode { return slices.Clone(s.episodes) }

// Filtered returns the current working set.
func (s *State) Filtered() []episode.Episode { return slices.Clone(s.filtered) }

// Len and Total are the sizes of the working set and the full data set.
func (s *State) Len() int { return len(s.filtered) }

func (s *State) Total() int { return len(s.episodes) }

// Empty reports that there is nothing to show, whether because nothing
// matched the filter or because nothing was loaded.
func (s *State) Empty() bool { return len(s.filtered) == 0 }

func (s *State) Sort() SortState { return s.sort }

func (s *State) NameFilter() string { return s.filters.Name }

func (s *State) FilterMode() FilterMode { return s.mode }

func (s *State) Loading() bool { return s.loading }

func (s *State) Status() string { return s.status }

func (s *State) DataSource() loader.Source { return s.source }

// SetLoading and SetStatus make State a loader.Reporter.
func (s *State) SetLoading(loading bool) { s.loading = loading }
func (s *State) SetStatus(status string) { s.status = status }

// SetFuzzyConfig replaces the thresholds used in fuzzy mode and rebuilds
// the working set.
func (s *State) SetFuzzyConfig(cfg FuzzyConfig) {
	s.fuzzy = cfg
	s.refilter()
}

// LoadEpisodes runs a load and applies its result.
func (s *State) LoadEpisodes(ctx context.Context, l Loader) {
	s.ApplyLoad(l.Load(ctx, s))
}

// ApplyLoad installs a load result. A failed load leaves both sequences
// empty; a successful one sets the working set to a copy of the data set.
func (s *State) ApplyLoad(res loader.Result) {
	s.status = res.Status
	s.source = res.Source
	if res.Err != nil {
		s.episodes = nil
		s.filtered = nil
		return
	}
	s.episodes = slices.Clone(res.Episodes)
	s.filtered = slices.Clone(s.episodes)
}

// SortBy selects a sort column the way a header click does: the current
// field flips direction, another field starts ascending.
func (s *State) SortBy(field episode.Field) {
	if field == s.sort.Field {
		s.sort.Ascending = !s.sort.Ascending
	} else {
		s.sort = SortState{Field: field, Ascending: true}
	}
	s.applySort()
}

// SetSort sets field and direction explicitly.
func (s *State) SetSort(field episode.Field, ascending bool) {
	s.sort = SortState{Field: field, Ascending: ascending}
	s.applySort()
}

// SetNameFilter rebuilds the working set from the full data set and
// re-applies the current sort.
func (s *State) SetNameFilter(text string) {
	s.filters.Name = text
	s.refilter()
}

// SetFilterMode switches matching mode and rebuilds the working set.
func (s *State) SetFilterMode(mode FilterMode) {
	s.mode = mode
	s.refilter()
}

// OnSortRequested is the command handler for a sort request from a
// presenter.
func (s *State) OnSortRequested(field episode.Field) { s.SortBy(field) }

// OnFilterTextChanged is the command handler for filter input.
func (s *State) OnFilterTextChanged(text string) { s.SetNameFilter(text) }

func (s *State) refilter() {
	query := strings.ToLower(strings.TrimSpace(s.filters.Name))
	switch {
	case query == "":
		s.filtered = slices.Clone(s.episodes)
	case s.mode == FilterFuzzy:
		s.filtered = filterByFuzzy(query, s.episodes, s.fuzzy)
	default:
		s.filtered = filterBySubstring(query, s.episodes)
	}
	s.applySort()
}

func (s *State) applySort() {
	episode.Sort(s.filtered, s.sort.Field, s.sort.Ascending)
}
