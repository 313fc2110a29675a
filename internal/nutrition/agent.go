/*
Package nutrition implements the Nutrition specialist: meal-photo
analysis through the vision model and fuzzy lookup of reference food
facts. Its analysis result is the source of the Health Memo handed to the
fitness path.
*/
package nutrition

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"healthbutler/internal/geminiservice"
	"healthbutler/internal/memo"
)

// MealAnalysis is the structured result of analyzing one meal.
type MealAnalysis struct {
	DishName       string      `json:"dish_name"`
	TotalMacros    memo.Macros `json:"total_macros"`
	VisualWarnings []string    `json:"visual_warnings"`
	HealthScore    int         `json:"health_score"`
	Summary        string      `json:"summary"`
}

// generateFunc matches the Gemini vision call; injected so tests can stub
// the model out.
type generateFunc func(ctx context.Context, systemPrompt, userPrompt string, image []byte, imageMime string, schema *geminiservice.Schema, out any) error

// Agent is the nutrition specialist.
type Agent struct {
	generate generateFunc
	foods    []FoodFact
}

// NewAgent builds an agent backed by the real Gemini client and the
// built-in reference food table.
func NewAgent() *Agent {
	return &Agent{
		generate: geminiservice.GenerateStructuredWithImage,
		foods:    referenceFoods,
	}
}

// AnalyzeMeal runs the vision model over a meal photo (or a text-only
// description when image is nil) and returns the structured analysis.
// Model failures propagate as errors; the coordinator treats them as "no
// nutrition signal" rather than failing the whole request.
func (a *Agent) AnalyzeMeal(ctx context.Context, image []byte, imageMime, userQuery string) (MealAnalysis, error) {
	prompt := "Analyze this meal."
	if userQuery != "" {
		prompt = fmt.Sprintf("Analyze this meal. User note: %s", userQuery)
	}

	var analysis MealAnalysis
	err := a.generate(ctx, geminiservice.NutritionSystemPrompt, prompt, image, imageMime, geminiservice.MealAnalysisSchema, &analysis)
	if err != nil {
		return MealAnalysis{}, fmt.Errorf("meal analysis: %w", err)
	}

	// Enrich macro estimates from the reference table when the model
	// recognized a known dish. Best effort only.
	if fact := a.SearchFood(analysis.DishName); fact != nil && analysis.TotalMacros.Calories == 0 {
		analysis.TotalMacros = fact.Macros
	}

	log.Info().
		Str("dish", analysis.DishName).
		Strs("visual_warnings", analysis.VisualWarnings).
		Int("health_score", analysis.HealthScore).
		Msg("Meal analyzed")
	return analysis, nil
}

// Memo converts an analysis into a Health Memo, or nil when the meal is
// unremarkable. Round-tripping through JSON keeps this path equivalent to
// receiving the same payload from a remote nutrition service.
func (a *Agent) Memo(analysis MealAnalysis) *memo.HealthMemo {
	if len(analysis.VisualWarnings) == 0 && analysis.HealthScore >= 7 {
		return nil
	}
	return &memo.HealthMemo{
		DishName:       analysis.DishName,
		TotalMacros:    analysis.TotalMacros,
		VisualWarnings: analysis.VisualWarnings,
		HealthScore:    analysis.HealthScore,
	}
}
