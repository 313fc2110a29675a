package fitness

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"healthbutler/internal/catalog"
	"healthbutler/internal/geminiservice"
	"healthbutler/internal/safety"
)

const safeCandidateLimit = 5

// Advice is the fitness payload consumed by the UI layer.
type Advice struct {
	Summary            string                  `json:"summary"`
	Recommendations    []safety.Recommendation `json:"recommendations"`
	SafetyWarnings     []string                `json:"safety_warnings"`
	Avoid              []string                `json:"avoid"`
	DynamicAdjustments *string                 `json:"dynamic_adjustments"`
}

// generateFunc matches the structured Gemini call; injected for tests.
type generateFunc func(ctx context.Context, systemPrompt, userPrompt string, schema *geminiservice.Schema, out any) error

// imageSearchFunc resolves an image URL for an exercise name.
type imageSearchFunc func(ctx context.Context, name string) (string, error)

// Agent is the fitness specialist.
type Agent struct {
	store       *catalog.Store
	generate    generateFunc
	searchImage imageSearchFunc
}

// NewAgent builds an agent over the given catalog store, backed by the
// real Gemini client and wger image lookup.
func NewAgent(store *catalog.Store, client *catalog.Client) *Agent {
	return &Agent{
		store:       store,
		generate:    geminiservice.GenerateStructured,
		searchImage: client.SearchImage,
	}
}

// Advise produces exercise advice for a task string.
//
// The flow is: extract dynamic risks from the task text, run the
// deterministic safety filter over the current catalog snapshot, prompt
// the model with only the surviving candidates, strictly parse its reply
// (falling back to a canned safe payload on garbage), then re-validate
// every recommendation and attach the mandatory disclaimer whenever
// anything was adjusted. The worst case a user ever sees is a generic
// low-intensity plan, never a raw error.
func (a *Agent) Advise(ctx context.Context, task string, profile Profile, nutritionInfo string) Advice {
	// 1. Dynamic risk extraction from the (possibly memo-enhanced) task.
	risks := safety.ExtractRisks(task)

	// 2. Deterministic filtering of the catalog snapshot.
	result := safety.Filter(safety.Query{
		Text:             task,
		StaticConditions: profile.Conditions,
		DynamicRisks:     risks,
		Limit:            safeCandidateLimit,
	}, a.store.Snapshot())

	// 3. Metabolic context for the prompt.
	maintenance := MaintenanceCalories(profile)
	bmi := BMI(profile.WeightKg, profile.HeightCm)
	calorieStatus := CalorieStatus(maintenance, nutritionInfo)

	prompt := buildPrompt(task, profile, result, risks, bmi, maintenance, calorieStatus, nutritionInfo)

	// 4. LLM call with strict parse; degrade to the safe fallback payload.
	var advice Advice
	if err := a.generate(ctx, geminiservice.FitnessSystemPrompt, prompt, geminiservice.FitnessResponseSchema, &advice); err != nil {
		log.Error().Err(err).Msg("Fitness generation failed, returning fallback advice")
		advice = fallbackAdvice()
	}

	// 5. Second-pass defense: never trust the model to have respected the
	// candidate list.
	validated, adjusted := safety.ValidateRecommendations(advice.Recommendations, risks)
	advice.Recommendations = validated

	// 6. Merge deterministic warnings and the mandatory disclaimer.
	advice.SafetyWarnings = mergeWarnings(advice.SafetyWarnings, result.SafetyWarnings)
	if adjusted || result.Adjustments != nil {
		advice.SafetyWarnings = mergeWarnings(advice.SafetyWarnings, []string{safety.BR001Disclaimer})
		disclaimer := safety.BR001Disclaimer
		advice.DynamicAdjustments = &disclaimer
	}

	a.attachImages(ctx, advice.Recommendations, result.SafeExercises)
	return advice
}

// fallbackAdvice is the minimal safe payload returned when the model's
// output cannot be used.
func fallbackAdvice() Advice {
	return Advice{
		Summary: "Stay active safely!",
		Recommendations: []safety.Recommendation{
			{
				Name:         "Walking",
				DurationMin:  20,
				KcalEstimate: 80,
				Reason:       "General mobility - safe for all conditions",
			},
		},
		SafetyWarnings: []string{"Consult a professional."},
		Avoid:          []string{},
	}
}

func buildPrompt(task string, profile Profile, result safety.Result, risks []safety.RiskTag, bmi, maintenance float64, calorieStatus, nutritionInfo string) string {
	var b strings.Builder

	if len(risks) > 0 {
		riskStrs := make([]string, len(risks))
		for i, r := range risks {
			riskStrs[i] = string(r)
		}
		fmt.Fprintf(&b, "HEALTH MEMO ALERT: Warnings detected %v. Reduce intensity.\n\n", riskStrs)
	}

	fmt.Fprintf(&b, "USER PROFILE: BMI %.1f, Calorie Maintenance %.0f kcal, Conditions: %v.\n", bmi, maintenance, profile.Conditions)
	fmt.Fprintf(&b, "CALORIE STATUS: %s.\n", calorieStatus)

	if nutritionInfo != "" {
		snippet := nutritionInfo
		if len(snippet) > 1500 {
			snippet = snippet[:1500] + "...(truncated)"
		}
		fmt.Fprintf(&b, "RELEVANT NUTRITION DATA: %s\n", snippet)
	}

	b.WriteString("SAFE EXERCISES (pre-filtered for this user, prioritize these):\n")
	if len(result.SafeExercises) == 0 {
		b.WriteString("(none matched - suggest gentle, low-intensity movement such as walking)\n")
	}
	for i, ex := range result.SafeExercises {
		fmt.Fprintf(&b, "%d. %s (%s)", i+1, ex.Name, ex.Category)
		if len(ex.Tags) > 0 {
			fmt.Fprintf(&b, " [%s]", strings.Join(ex.Tags, ", "))
		}
		b.WriteString("\n")
	}

	if len(result.SafetyWarnings) > 0 {
		fmt.Fprintf(&b, "SAFETY WARNINGS: %v\n", result.SafetyWarnings)
	}

	fmt.Fprintf(&b, "\nTASK: %s\n", task)
	b.WriteString("\nReturn EXACTLY a JSON object with keys: summary, recommendations, safety_warnings, avoid, dynamic_adjustments.")
	return b.String()
}

// mergeWarnings appends extras not already present, preserving order.
func mergeWarnings(base, extras []string) []string {
	seen := make(map[string]struct{}, len(base))
	for _, w := range base {
		seen[w] = struct{}{}
	}
	for _, w := range extras {
		if _, dup := seen[w]; !dup {
			seen[w] = struct{}{}
			base = append(base, w)
		}
	}
	return base
}

// attachImages fills missing recommendation thumbnails: first from the
// filtered snapshot by name, then concurrently from the remote lookup
// with the store's LRU in front of it. Failures only cost thumbnails.
func (a *Agent) attachImages(ctx context.Context, recs []safety.Recommendation, candidates []catalog.Exercise) {
	if a.searchImage == nil {
		return
	}

	byName := make(map[string]string, len(candidates))
	for _, ex := range candidates {
		if ex.ImageURL != "" {
			byName[strings.ToLower(ex.Name)] = ex.ImageURL
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range recs {
		if recs[i].ImageURL != "" {
			continue
		}
		name := strings.ToLower(recs[i].Name)
		if url, ok := byName[name]; ok {
			recs[i].ImageURL = url
			continue
		}
		if url, ok := a.store.CachedImage(name); ok {
			recs[i].ImageURL = url
			continue
		}

		i := i
		g.Go(func() error {
			url, err := a.searchImage(gctx, name)
			if err != nil {
				log.Debug().Err(err).Str("exercise", name).Msg("Image lookup failed")
				return nil
			}
			if url != "" {
				recs[i].ImageURL = url
				a.store.CacheImage(name, url)
			}
			return nil
		})
	}
	_ = g.Wait()
}
