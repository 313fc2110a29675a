package nutrition

import (
	"strings"

	"github.com/hbollon/go-edlib"

	"healthbutler/internal/memo"
)

// minFoodScore is stricter than exercise search: a wrong food fact is
// worse than no food fact.
const minFoodScore = 0.75

// FoodFact is a reference nutrition entry per common serving.
type FoodFact struct {
	Name   string      `json:"name"`
	Macros memo.Macros `json:"macros"`
	Source string      `json:"source"`
}

// referenceFoods is a small USDA-style table used to ground macro
// estimates for common dishes.
var referenceFoods = []FoodFact{
	{Name: "fried chicken", Macros: memo.Macros{Calories: 480, Protein: 36, Carbs: 16, Fat: 29}, Source: "USDA"},
	{Name: "glazed donut", Macros: memo.Macros{Calories: 260, Protein: 3, Carbs: 31, Fat: 14}, Source: "USDA"},
	{Name: "caesar salad", Macros: memo.Macros{Calories: 190, Protein: 8, Carbs: 10, Fat: 13}, Source: "USDA"},
	{Name: "grilled salmon", Macros: memo.Macros{Calories: 350, Protein: 39, Carbs: 0, Fat: 21}, Source: "USDA"},
	{Name: "pork ribs", Macros: memo.Macros{Calories: 560, Protein: 40, Carbs: 2, Fat: 43}, Source: "USDA"},
	{Name: "beef tacos", Macros: memo.Macros{Calories: 420, Protein: 22, Carbs: 38, Fat: 20}, Source: "USDA"},
	{Name: "white rice", Macros: memo.Macros{Calories: 205, Protein: 4, Carbs: 45, Fat: 0.4}, Source: "USDA"},
	{Name: "oatmeal", Macros: memo.Macros{Calories: 160, Protein: 6, Carbs: 27, Fat: 3}, Source: "USDA"},
	{Name: "cheeseburger", Macros: memo.Macros{Calories: 540, Protein: 27, Carbs: 41, Fat: 29}, Source: "USDA"},
	{Name: "instant ramen", Macros: memo.Macros{Calories: 380, Protein: 9, Carbs: 52, Fat: 14}, Source: "USDA"},
	{Name: "greek yogurt", Macros: memo.Macros{Calories: 100, Protein: 17, Carbs: 6, Fat: 0.7}, Source: "USDA"},
	{Name: "banana", Macros: memo.Macros{Calories: 105, Protein: 1.3, Carbs: 27, Fat: 0.4}, Source: "USDA"},
}

// SearchFood fuzzy-matches a dish name against the reference table and
// returns the best entry above the confidence threshold, or nil.
func (a *Agent) SearchFood(query string) *FoodFact {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || len(a.foods) == 0 {
		return nil
	}

	bestScore := 0.0
	bestIdx := -1
	for i, f := range a.foods {
		score := foodScore(query, f.Name)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}

	if bestIdx < 0 || bestScore < minFoodScore {
		return nil
	}
	fact := a.foods[bestIdx]
	return &fact
}

// foodScore mirrors the exercise search heuristic: substring containment
// wins outright, otherwise the best per-token JaroWinkler similarity is
// averaged over the query tokens.
func foodScore(query, name string) float64 {
	if strings.Contains(name, query) || strings.Contains(query, name) {
		return 1.0
	}

	queryTokens := strings.Fields(query)
	nameTokens := strings.Fields(name)
	if len(queryTokens) == 0 || len(nameTokens) == 0 {
		return 0
	}

	var total float64
	for _, qt := range queryTokens {
		best := 0.0
		for _, nt := range nameTokens {
			if qt == nt {
				best = 1.0
				break
			}
			sim, err := edlib.StringsSimilarity(qt, nt, edlib.JaroWinkler)
			if err != nil {
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
