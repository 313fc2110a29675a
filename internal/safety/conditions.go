package safety

import "strings"

// IsContraindicated reports whether any of the exercise's declared
// contraindication tags matches one of the user's standing conditions.
// Matching is a case-insensitive set intersection. A true result is a
// hard block: static contraindications reflect durable medical facts and
// are never overridden by any other signal.
func IsContraindicated(contraindications, userConditions []string) bool {
	if len(contraindications) == 0 || len(userConditions) == 0 {
		return false
	}

	active := make(map[string]struct{}, len(userConditions))
	for _, c := range userConditions {
		active[strings.ToLower(strings.TrimSpace(c))] = struct{}{}
	}

	for _, contra := range contraindications {
		if _, hit := active[strings.ToLower(strings.TrimSpace(contra))]; hit {
			return true
		}
	}
	return false
}

// MatchingCondition returns the first user condition an exercise is
// contraindicated for, for exclusion reasons in logs.
func MatchingCondition(contraindications, userConditions []string) (string, bool) {
	active := make(map[string]struct{}, len(userConditions))
	for _, c := range userConditions {
		active[strings.ToLower(strings.TrimSpace(c))] = struct{}{}
	}
	for _, contra := range contraindications {
		key := strings.ToLower(strings.TrimSpace(contra))
		if _, hit := active[key]; hit {
			return key, true
		}
	}
	return "", false
}
