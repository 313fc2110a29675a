package safety

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
)

// riskPatterns maps each risk tag to the free-text evidence patterns that
// imply it. The first matching pattern settles a tag; scanning then
// continues with the remaining tags, so one sentence can trigger several
// tags at once.
var riskPatterns = map[RiskTag][]*regexp.Regexp{
	RiskFried: {
		regexp.MustCompile(`\bfried\b`),
		regexp.MustCompile(`\bdeep-fried\b`),
		regexp.MustCompile(`\bfried food\b`),
	},
	RiskHighOil: {
		regexp.MustCompile(`\bhigh[-_ ]?oil\b`),
		regexp.MustCompile(`\bhigh[-_ ]?fat\b`),
		regexp.MustCompile(`\bgreasy\b`),
	},
	RiskHighSugar: {
		regexp.MustCompile(`\bhigh[-_ ]?sugar\b`),
		regexp.MustCompile(`\bsugary\b`),
		regexp.MustCompile(`\bsweet\b`),
		regexp.MustCompile(`\bglazed\b`),
	},
	RiskProcessed: {
		regexp.MustCompile(`\bprocessed\b`),
		regexp.MustCompile(`\bprocessed food\b`),
	},
}

// structuredListPattern finds a key-like "warnings: [...]" fragment, the
// shape the coordinator uses when it serializes a Health Memo into the
// fitness task text.
var structuredListPattern = regexp.MustCompile(`(?:warnings?|visual_warnings?)["']?\s*[:=]\s*\[([^\]]+)\]`)

// ExtractRisks scans free text for dynamic-risk evidence and returns the
// deduplicated set of recognized tags in canonical order. Two detection
// strategies are applied and unioned: per-tag pattern matching and a
// structured warning-list scan. The function is total: malformed, empty
// or arbitrarily long input yields an empty set, never an error.
func ExtractRisks(text string) []RiskTag {
	if text == "" {
		return nil
	}
	lower := strings.ToLower(text)

	found := make(map[RiskTag]struct{})

	for tag, patterns := range riskPatterns {
		for _, p := range patterns {
			if p.MatchString(lower) {
				found[tag] = struct{}{}
				break
			}
		}
	}

	if m := structuredListPattern.FindStringSubmatch(lower); m != nil {
		for _, tag := range allRiskTags {
			if strings.Contains(m[1], string(tag)) {
				found[tag] = struct{}{}
			}
		}
	}

	if len(found) == 0 {
		return nil
	}

	out := make([]RiskTag, 0, len(found))
	for _, tag := range allRiskTags {
		if _, ok := found[tag]; ok {
			out = append(out, tag)
		}
	}

	log.Info().Strs("risks", riskTagStrings(out)).Msg("Extracted dynamic risk tags")
	return out
}

func riskTagStrings(tags []RiskTag) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = string(t)
	}
	return out
}
