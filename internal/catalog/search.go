package catalog

import (
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultSearchLimit caps result size when the caller passes limit <= 0.
	DefaultSearchLimit = 5

	// minSearchScore excludes poor matches instead of padding results
	// with irrelevant entries.
	minSearchScore = 0.60
)

// Search ranks candidates against the query with fuzzy text matching over
// each exercise's haystack (name + category + tags). Results are ordered
// by score descending; ties keep catalog order. An empty query returns
// the first limit candidates unranked so a browse-style request never
// comes back empty. If scoring fails entirely the function returns an
// empty list; callers treat that as "no confident match", not an error.
func Search(query string, candidates []Exercise, limit int) []Exercise {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		// Browse mode.
		n := limit
		if n > len(candidates) {
			n = len(candidates)
		}
		out := make([]Exercise, n)
		copy(out, candidates[:n])
		return out
	}

	type scored struct {
		idx   int
		score float64
	}

	matches := make([]scored, 0, len(candidates))
	for i, ex := range candidates {
		score := matchScore(query, ex.Haystack())
		if score >= minSearchScore {
			matches = append(matches, scored{idx: i, score: score})
		}
	}

	// Stable sort keeps catalog order for equal scores.
	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].score > matches[b].score
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]Exercise, 0, len(matches))
	for _, m := range matches {
		out = append(out, candidates[m.idx])
	}
	return out
}

// matchScore averages, over the query tokens, the best similarity each
// token achieves against any haystack token. A whole-query substring hit
// short-circuits to a perfect score.
func matchScore(query, haystack string) float64 {
	if strings.Contains(haystack, query) {
		return 1.0
	}

	queryTokens := strings.Fields(query)
	hayTokens := strings.Fields(haystack)
	if len(queryTokens) == 0 || len(hayTokens) == 0 {
		return 0
	}

	var total float64
	for _, qt := range queryTokens {
		best := 0.0
		for _, ht := range hayTokens {
			if strings.Contains(ht, qt) || strings.Contains(qt, ht) {
				best = 1.0
				break
			}
			sim, err := edlib.StringsSimilarity(qt, ht, edlib.JaroWinkler)
			if err != nil {
				// Scoring backend unavailable for this pair; treat as
				// no match rather than failing the whole search.
				log.Debug().Err(err).Str("token", qt).Msg("fuzzy similarity failed")
				continue
			}
			if float64(sim) > best {
				best = float64(sim)
			}
		}
		total += best
	}
	return total / float64(len(queryTokens))
}
