package safety

import (
	"strings"

	"github.com/rs/zerolog/log"

	"healthbutler/internal/catalog"
)

// Query carries everything a single filtering operation needs. There is
// no hidden session state: the caller assembles the query per request.
type Query struct {
	// Text is the free-text exercise request used for fuzzy ranking.
	Text string

	// StaticConditions are standing health limitations from the user
	// profile (e.g. "knee_injury").
	StaticConditions []string

	// DynamicRisks are transient risk tags from a just-analyzed meal.
	DynamicRisks []RiskTag

	// Limit is a hard cap on returned exercises; defaults apply when <= 0.
	Limit int
}

// Adjustments records what the dynamic filter changed and why. Its
// presence signals downstream consumers that the mandatory disclaimer
// must accompany the recommendation set.
type Adjustments struct {
	BlockedKeywords []string `json:"blocked_keywords"`
	Reasons         []string `json:"reasons"`
	Disclaimer      string   `json:"disclaimer"`
}

// Result is the output of one filtering operation.
type Result struct {
	SafeExercises  []catalog.Exercise `json:"safe_exercises"`
	SafetyWarnings []string           `json:"safety_warnings"`
	Adjustments    *Adjustments       `json:"dynamic_adjustments"`
}

// Filter evaluates every exercise in the snapshot against the query.
//
// Each exercise passes through two checks in strict priority order with
// short-circuiting: the static contraindication check first (a standing
// medical fact always wins), then the dynamic-risk keyword check against
// the exercise's composite name/category/tags text. Survivors are ranked
// and truncated by fuzzy search. The function is pure and never errors;
// an empty catalog simply produces an empty result.
func Filter(query Query, snapshot []catalog.Exercise) Result {
	blockedKeywords, reasons := BlockedKeywordsFor(query.DynamicRisks)

	if len(blockedKeywords) > 0 {
		log.Info().
			Strs("blocked_keywords", sortedKeywords(blockedKeywords)).
			Strs("reasons", reasons).
			Msg("Dynamic risk filtering active")
	}

	safe := make([]catalog.Exercise, 0, len(snapshot))
	for _, ex := range snapshot {
		if cond, hit := MatchingCondition(ex.Contraindications, query.StaticConditions); hit {
			log.Debug().Str("exercise", ex.Name).Str("condition", cond).Msg("Excluded: contraindicated")
			continue
		}

		if len(blockedKeywords) > 0 {
			if kw, hit := firstBlockedKeyword(ex.Haystack(), blockedKeywords); hit {
				log.Info().Str("exercise", ex.Name).Str("keyword", kw).Msg("Excluded: blocked by dynamic risk")
				continue
			}
		}

		safe = append(safe, ex)
	}

	ranked := catalog.Search(query.Text, safe, query.Limit)

	result := Result{
		SafeExercises:  ranked,
		SafetyWarnings: reasons,
	}
	if len(blockedKeywords) > 0 {
		result.Adjustments = &Adjustments{
			BlockedKeywords: sortedKeywords(blockedKeywords),
			Reasons:         reasons,
			Disclaimer:      BR001Disclaimer,
		}
	}
	return result
}

// firstBlockedKeyword reports the first blocked keyword appearing as a
// substring of the exercise's composite text. Substring matching is
// intentionally blunt; it mirrors the established filtering semantics
// rather than trying to disambiguate intensity within a keyword family.
func firstBlockedKeyword(haystack string, blocked map[string]struct{}) (string, bool) {
	for kw := range blocked {
		if strings.Contains(haystack, kw) {
			return kw, true
		}
	}
	return "", false
}
