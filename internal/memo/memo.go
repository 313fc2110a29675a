/*
Package memo implements the Health Memo protocol: the structured handoff
record that carries nutrition findings from the Nutrition specialist into
the Fitness specialist, and the prose rendering the coordinator injects
into a fitness task. Both forms must yield the same dynamic risk tags
when scanned by the safety extractor.
*/
package memo

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// healthyScoreThreshold: meals scoring at or above this with no warnings
// produce no memo at all, so an unremarkable meal never perturbs the
// fitness path.
const healthyScoreThreshold = 7

// Macros is the nutritional total of one analyzed meal.
type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// HealthMemo is the structured context passed between agents.
type HealthMemo struct {
	DishName       string   `json:"dish_name"`
	TotalMacros    Macros   `json:"total_macros"`
	VisualWarnings []string `json:"visual_warnings"`
	HealthScore    int      `json:"health_score"`
}

// warningDescriptions maps a risk tag literal to the wording used in the
// rendered memo. The descriptions are chosen so the safety extractor's
// patterns recognize them, keeping the prose path equivalent to the
// structured path.
var warningDescriptions = map[string]string{
	"fried":      "deep-fried",
	"high_oil":   "high-fat",
	"high_sugar": "high-sugar",
	"processed":  "processed",
}

// FromNutritionResult parses a nutrition specialist result into a memo.
// The parse is strict with a no-signal fallback: any malformed payload
// returns nil rather than an error, and a memo is only produced when the
// meal carries warnings or a low health score. A missing or garbled memo
// must never block the user from getting some recommendation.
func FromNutritionResult(raw []byte) *HealthMemo {
	if len(raw) == 0 {
		return nil
	}

	var aux struct {
		DishName       string   `json:"dish_name"`
		TotalMacros    Macros   `json:"total_macros"`
		VisualWarnings []string `json:"visual_warnings"`
		HealthScore    *int     `json:"health_score"`
	}
	if err := json.Unmarshal(raw, &aux); err != nil {
		log.Warn().Err(err).Msg("Health memo extraction failed, continuing without nutrition context")
		return nil
	}

	m := HealthMemo{
		DishName:       aux.DishName,
		TotalMacros:    aux.TotalMacros,
		VisualWarnings: aux.VisualWarnings,
		HealthScore:    10,
	}
	if aux.HealthScore != nil {
		m.HealthScore = *aux.HealthScore
	}

	if len(m.VisualWarnings) == 0 && m.HealthScore >= healthyScoreThreshold {
		return nil
	}
	if m.DishName == "" {
		m.DishName = "meal"
	}

	log.Info().
		Str("dish", m.DishName).
		Strs("warnings", m.VisualWarnings).
		Int("health_score", m.HealthScore).
		Msg("Health memo extracted")
	return &m
}

// RenderTask injects the memo into a fitness task description. The result
// embeds the same warning evidence the structured form carries, so a
// downstream risk scan over either representation agrees.
func (m *HealthMemo) RenderTask(baseTask string) string {
	if m == nil || len(m.VisualWarnings) == 0 {
		return baseTask
	}

	descs := make([]string, 0, len(m.VisualWarnings))
	for _, w := range m.VisualWarnings {
		if d, ok := warningDescriptions[strings.ToLower(w)]; ok {
			descs = append(descs, d)
		}
	}
	warningStr := strings.Join(descs, ", ")
	if warningStr == "" {
		warningStr = "regular diet"
	}

	return fmt.Sprintf(`[Health Memo - Nutrition Context]
The user has just consumed: %s
Calories: ~%.0f kcal
Health warnings: %s
Health score: %d/10

The user has just consumed %s food (Warnings: %s).
Please provide exercise recommendations with appropriate intensity adjustments and safety precautions:
1. Assess whether high-intensity exercise is appropriate at this time
2. Suggest optimal timing for exercise (e.g., wait 30-60 minutes after eating)
3. Recommend suitable exercise types and intensity levels
4. Include hydration reminders if needed

Original task: %s`,
		m.DishName,
		m.TotalMacros.Calories,
		warningStr,
		m.HealthScore,
		warningStr,
		strings.Join(m.VisualWarnings, ", "),
		baseTask,
	)
}
