package safety

import (
	"strings"

	"github.com/rs/zerolog/log"
)

// Recommendation is one exercise suggestion produced by the LLM and
// re-validated here before it reaches the user.
type Recommendation struct {
	Name         string `json:"name"`
	DurationMin  int    `json:"duration_min"`
	KcalEstimate int    `json:"kcal_estimate"`
	Reason       string `json:"reason"`
	ImageURL     string `json:"image_url,omitempty"`
}

// fallbackRecommendation replaces any recommendation that violates an
// active dynamic risk. Its name must never itself match a blocked
// keyword, which keeps validation idempotent.
var fallbackRecommendation = Recommendation{
	Name:         "Brisk Walking",
	DurationMin:  20,
	KcalEstimate: 100,
	Reason:       "Lower intensity alternative - recent meal requires lighter activity",
}

// ValidateRecommendations is the last line of defense against an LLM that
// ignores the safe candidate list. With no active risks the input passes
// through untouched. Otherwise any recommendation whose name contains a
// blocked keyword is replaced in place with the low-intensity fallback,
// so the list never shrinks. The returned flag reports whether anything
// was substituted; when it is true the caller must surface the BR-001
// disclaimer.
func ValidateRecommendations(recs []Recommendation, risks []RiskTag) ([]Recommendation, bool) {
	if len(risks) == 0 {
		return recs, false
	}

	blocked, _ := BlockedKeywordsFor(risks)
	if len(blocked) == 0 {
		// Only unrecognized tags supplied; nothing to enforce.
		return recs, false
	}

	adjusted := false
	validated := make([]Recommendation, len(recs))
	for i, rec := range recs {
		name := strings.ToLower(rec.Name)
		if kw, hit := firstBlockedKeyword(name, blocked); hit {
			log.Info().
				Str("recommendation", rec.Name).
				Str("keyword", kw).
				Msg("Blocked high-intensity recommendation, substituting fallback")
			validated[i] = fallbackRecommendation
			adjusted = true
			continue
		}
		validated[i] = rec
	}

	return validated, adjusted
}
