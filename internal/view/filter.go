package view

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"episodeview/internal/episode"
)

// FuzzyConfig bundles tuning parameters for fuzzy title matching.
type FuzzyConfig struct {
	MinCoverage float64 // minimal share of the query that must match
	MaxSpread   int     // maximal distance between first and last match index, 0 for none
	MaxResults  int     // upper limit of returned results, 0 for none
}

func DefaultFuzzyConfig() FuzzyConfig {
	return FuzzyConfig{MinCoverage: 0.6, MaxSpread: 40, MaxResults: 200}
}

// filterBySubstring keeps the episodes whose lower-cased title contains the
// (already lower-cased) query. A missing title is the empty string.
func filterBySubstring(q string, eps []episode.Episode) []episode.Episode {
	out := make([]episode.Episode, 0, len(eps))
	for _, e := range eps {
		if strings.Contains(strings.ToLower(e.Title), q) {
			out = append(out, e)
		}
	}
	return out
}

// filterByFuzzy matches titles with sahilm/fuzzy and drops matches that are
// too sparse or too spread out. When the thresholds reject everything the
// raw matches are used instead. Input order is kept.
func filterByFuzzy(q string, eps []episode.Episode, cfg FuzzyConfig) []episode.Episode {
	base := make([]string, len(eps))
	for i, e := range eps {
		base[i] = strings.ToLower(e.Title)
	}
	matches := fuzzy.Find(q, base)

	limit := cfg.MaxResults
	if limit <= 0 {
		limit = len(matches)
	}
	idx := make([]int, 0, len(matches))
	for _, mt := range matches {
		if matchCoverage(q, mt) < cfg.MinCoverage || (cfg.MaxSpread > 0 && matchSpread(mt) > cfg.MaxSpread) {
			continue
		}
		idx = append(idx, mt.Index)
		if len(idx) >= limit {
			break
		}
	}
	if len(idx) == 0 {
		for i := 0; i < len(matches) && i < limit; i++ {
			idx = append(idx, matches[i].Index)
		}
	}
	sort.Ints(idx)

	out := make([]episode.Episode, len(idx))
	for i, j := range idx {
		out[i] = eps[j]
	}
	return out
}

// matchCoverage returns the ratio of matched characters to the query length.
func matchCoverage(q string, m fuzzy.Match) float64 {
	if len(q) == 0 {
		return 1
	}
	return float64(len(m.MatchedIndexes)) / float64(len(q))
}

// matchSpread returns the distance between the first and last matched index.
func matchSpread(m fuzzy.Match) int {
	if len(m.MatchedIndexes) == 0 {
		return 0
	}
	return m.MatchedIndexes[len(m.MatchedIndexes)-1] - m.MatchedIndexes[0]
}
