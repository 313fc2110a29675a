/*
Package safety implements the deterministic exercise safety filter: the
static condition check, the dynamic meal-risk rules, the free-text risk
extractor, the catalog filtering engine, and the second-pass validator
that re-checks LLM output before it reaches the user.

Everything in this package is pure and synchronous. Unlike the LLM calls
around it, a filtering decision here is reproducible and auditable.
*/
package safety

import "sort"

// RiskTag identifies a dynamic nutritional risk class derived from a
// recently analyzed meal. The vocabulary is closed: unknown tags are
// ignored, never errors.
type RiskTag string

const (
	RiskFried     RiskTag = "fried"
	RiskHighOil   RiskTag = "high_oil"
	RiskHighSugar RiskTag = "high_sugar"
	RiskProcessed RiskTag = "processed"
)

// allRiskTags fixes the iteration order so results never depend on the
// order callers supply tags in.
var allRiskTags = []RiskTag{RiskFried, RiskHighOil, RiskHighSugar, RiskProcessed}

// BR001Disclaimer is the fixed safety notice that must accompany any
// recommendation set altered by dynamic risk filtering. The text is a
// compatibility contract with the UI layer; do not reword it.
const BR001Disclaimer = "⚠️ Due to the recent consumption of fried/high-sugar food, " +
	"I've adjusted your plan to lower intensity for your safety."

// highIntensityKeywords are blocked for every recognized risk tag.
var highIntensityKeywords = []string{
	"sprint", "hiit", "high intensity", "fast run", "running fast",
	"burpee", "jump squat", "box jump", "plyometric",
	"max effort", "all-out", "vigorous", "intense cardio",
}

// moderateIntensityKeywords are additionally blocked for high_sugar,
// where a blood sugar spike can cause an energy crash even at moderate
// effort.
var moderateIntensityKeywords = []string{
	"run", "jog", "running", "jump", "jumping", "skip", "skipping",
}

// BlockRule maps one risk tag to the exercise-intensity keywords it
// blocks and a human-readable justification.
type BlockRule struct {
	Blocked []string
	Reason  string
}

var riskBlocks = map[RiskTag]BlockRule{
	RiskFried: {
		Blocked: highIntensityKeywords,
		Reason:  "High-fat/fried food digestion requires blood flow to stomach",
	},
	RiskHighOil: {
		Blocked: highIntensityKeywords,
		Reason:  "Heavy oil content may cause discomfort during vigorous exercise",
	},
	RiskHighSugar: {
		Blocked: append(append([]string{}, highIntensityKeywords...), moderateIntensityKeywords...),
		Reason:  "Blood sugar spike may cause energy crash during intense exercise",
	},
	RiskProcessed: {
		Blocked: highIntensityKeywords,
		Reason:  "Processed food may cause digestive issues during intense activity",
	},
}

// BlockedKeywordsFor returns the union of blocked keywords across the
// recognized tags in risks, plus the justification for each triggering
// rule. Justifications are deduplicated by text, keywords by value;
// unknown tags contribute nothing. Output order is fixed regardless of
// input order.
func BlockedKeywordsFor(risks []RiskTag) (map[string]struct{}, []string) {
	supplied := make(map[RiskTag]struct{}, len(risks))
	for _, r := range risks {
		supplied[r] = struct{}{}
	}

	blocked := make(map[string]struct{})
	var reasons []string
	seenReason := make(map[string]struct{})

	for _, tag := range allRiskTags {
		if _, ok := supplied[tag]; !ok {
			continue
		}
		rule := riskBlocks[tag]
		for _, kw := range rule.Blocked {
			blocked[kw] = struct{}{}
		}
		if _, dup := seenReason[rule.Reason]; !dup {
			seenReason[rule.Reason] = struct{}{}
			reasons = append(reasons, rule.Reason)
		}
	}
	return blocked, reasons
}

// KnownRiskTag reports whether the tag belongs to the closed vocabulary.
func KnownRiskTag(tag RiskTag) bool {
	_, ok := riskBlocks[tag]
	return ok
}

// sortedKeywords flattens a keyword set into a stable slice for logs and
// adjustment records.
func sortedKeywords(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for kw := range set {
		out = append(out, kw)
	}
	sort.Strings(out)
	return out
}
