package geminiservice

/* =================================================================================
						PROMPT ENGINEERING & GUARDRAILS
=================================================================================*/

/*
FitnessSystemPrompt defines the "Persona" and "Guardrails" for the fitness
specialist. The model is told to prioritize the pre-filtered safe
exercises; its output is still re-validated deterministically afterwards,
so the prompt is advice, not enforcement.
*/
const FitnessSystemPrompt = `You are an expert Fitness Coach and Wellness Assistant.
Your goal is to provide safe, actionable exercise advice.

OUTPUT FORMAT:
You MUST return a valid JSON object with the following structure:
{
  "summary": "A concise overview of the advice (1-2 sentences).",
  "recommendations": [
    {
      "name": "Exercise name",
      "duration_min": 20,
      "kcal_estimate": 150,
      "reason": "Why this is good for them today."
    }
  ],
  "safety_warnings": ["List of critical warnings based on their health conditions"],
  "avoid": ["Specific activities to avoid"],
  "dynamic_adjustments": "Optional: explanation if plan was adjusted due to nutrition"
}

SAFETY POLICY:
- If a user has a condition (e.g., Knee Injury), NEVER suggest high-impact movements.
- Prioritize the "Safe Exercises" provided in the context.
- If Health Memo indicates fried/high_oil/high_sugar food, REDUCE exercise intensity.
- After eating heavy meals, recommend waiting 30-60 minutes before vigorous exercise.
- When in doubt, suggest lower intensity alternatives (walking, light cycling, stretching).`

/*
NutritionSystemPrompt drives the meal-photo analysis. The model must
populate visual_warnings from the closed risk vocabulary and score the
meal 1-10; those two fields feed the Health Memo protocol.
*/
const NutritionSystemPrompt = `You are an expert nutritionist analyzing a meal.
Identify the dish, estimate its macros, and flag visible preparation risks.

RULES:
- dish_name: the most likely name of the dish.
- total_macros: estimated calories, protein, carbs and fat for the whole serving.
- visual_warnings: ONLY values from this list that visibly apply:
  "fried", "high_oil", "high_sugar", "processed". Empty array if none apply.
- health_score: 1 (very unhealthy) to 10 (very healthy).
- summary: one or two sentences of practical nutrition advice.
Return ONLY the JSON object.`

/* =================================================================================
						RESPONSE SCHEMA DEFINITIONS
	These structures tell Gemini exactly how to format its JSON response.
=================================================================================*/

// FitnessResponseSchema constrains the fitness advice payload to the
// shape the UI layer consumes.
var FitnessResponseSchema = &Schema{
	Type: "OBJECT",
	Properties: map[string]*Schema{
		"summary": {Type: "STRING", Description: "Concise overview of the advice."},
		"recommendations": {
			Type: "ARRAY",
			Items: &Schema{
				Type: "OBJECT",
				Properties: map[string]*Schema{
					"name":          {Type: "STRING"},
					"duration_min":  {Type: "INTEGER"},
					"kcal_estimate": {Type: "INTEGER"},
					"reason":        {Type: "STRING"},
				},
				Required: []string{"name", "duration_min", "kcal_estimate", "reason"},
			},
		},
		"safety_warnings": {
			Type:  "ARRAY",
			Items: &Schema{Type: "STRING"},
		},
		"avoid": {
			Type:  "ARRAY",
			Items: &Schema{Type: "STRING"},
		},
		"dynamic_adjustments": {
			Type:        "STRING",
			Description: "Explanation if the plan was adjusted due to nutrition context.",
		},
	},
	Required: []string{"summary", "recommendations", "safety_warnings", "avoid"},
}

// MealAnalysisSchema constrains the nutrition analysis payload; its
// visual_warnings values are the closed dynamic-risk vocabulary.
var MealAnalysisSchema = &Schema{
	Type: "OBJECT",
	Properties: map[string]*Schema{
		"dish_name": {Type: "STRING"},
		"total_macros": {
			Type: "OBJECT",
			Properties: map[string]*Schema{
				"calories": {Type: "NUMBER"},
				"protein":  {Type: "NUMBER"},
				"carbs":    {Type: "NUMBER"},
				"fat":      {Type: "NUMBER"},
			},
			Required: []string{"calories", "protein", "carbs", "fat"},
		},
		"visual_warnings": {
			Type: "ARRAY",
			Items: &Schema{
				Type: "STRING",
				Enum: []string{"fried", "high_oil", "high_sugar", "processed"},
			},
		},
		"health_score": {Type: "INTEGER", Description: "1 (very unhealthy) to 10 (very healthy)."},
		"summary":      {Type: "STRING"},
	},
	Required: []string{"dish_name", "total_macros", "visual_warnings", "health_score", "summary"},
}
