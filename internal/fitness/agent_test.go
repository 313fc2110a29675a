package fitness

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"healthbutler/internal/catalog"
	"healthbutler/internal/geminiservice"
	"healthbutler/internal/safety"
)

func stubAgent(reply Advice, err error) (*Agent, *string) {
	var lastPrompt string
	a := &Agent{
		store: catalog.NewStore(),
		generate: func(_ context.Context, _, userPrompt string, _ *geminiservice.Schema, out any) error {
			lastPrompt = userPrompt
			if err != nil {
				return err
			}
			*(out.(*Advice)) = reply
			return nil
		},
	}
	return a, &lastPrompt
}

func TestAdviseSubstitutesUnsafeRecommendation(t *testing.T) {
	reply := Advice{
		Summary: "Push hard today",
		Recommendations: []safety.Recommendation{
			{Name: "HIIT Sprint Intervals", DurationMin: 20, KcalEstimate: 280},
			{Name: "Plank Hold", DurationMin: 5, KcalEstimate: 30},
		},
	}
	agent, _ := stubAgent(reply, nil)

	advice := agent.Advise(context.Background(), "I just ate fried chicken, suggest a workout", DefaultProfile, "")

	require.Len(t, advice.Recommendations, 2)
	require.Equal(t, "Brisk Walking", advice.Recommendations[0].Name)
	require.Equal(t, "Plank Hold", advice.Recommendations[1].Name)

	require.NotNil(t, advice.DynamicAdjustments)
	require.Equal(t, safety.BR001Disclaimer, *advice.DynamicAdjustments)
	require.Contains(t, advice.SafetyWarnings, safety.BR001Disclaimer)
}

func TestAdviseDisclaimerEvenWithoutSubstitution(t *testing.T) {
	// The model already picked safe exercises, but dynamic filtering was
	// active, so the disclaimer still applies.
	reply := Advice{
		Summary: "Take it easy",
		Recommendations: []safety.Recommendation{
			{Name: "Gentle Yoga Flow", DurationMin: 30, KcalEstimate: 90},
		},
	}
	agent, _ := stubAgent(reply, nil)

	advice := agent.Advise(context.Background(), "ate a greasy meal, what now?", DefaultProfile, "")

	require.Equal(t, "Gentle Yoga Flow", advice.Recommendations[0].Name)
	require.NotNil(t, advice.DynamicAdjustments)
	require.Equal(t, safety.BR001Disclaimer, *advice.DynamicAdjustments)
}

func TestAdviseNoRisksNoDisclaimer(t *testing.T) {
	reply := Advice{
		Summary: "Go for it",
		Recommendations: []safety.Recommendation{
			{Name: "HIIT Circuit", DurationMin: 20, KcalEstimate: 250},
		},
	}
	agent, _ := stubAgent(reply, nil)

	advice := agent.Advise(context.Background(), "suggest a tough workout", DefaultProfile, "")

	require.Equal(t, "HIIT Circuit", advice.Recommendations[0].Name)
	require.Nil(t, advice.DynamicAdjustments)
	require.NotContains(t, advice.SafetyWarnings, safety.BR001Disclaimer)
}

func TestAdviseModelFailureFallsBack(t *testing.T) {
	agent, _ := stubAgent(Advice{}, errors.New("model unavailable"))

	advice := agent.Advise(context.Background(), "suggest a workout", DefaultProfile, "")

	require.Equal(t, "Stay active safely!", advice.Summary)
	require.Len(t, advice.Recommendations, 1)
	require.Equal(t, "Walking", advice.Recommendations[0].Name)
	require.Contains(t, advice.SafetyWarnings, "Consult a professional.")
	require.Nil(t, advice.DynamicAdjustments)
}

func TestAdviseModelFailureWithActiveRisks(t *testing.T) {
	// Even the fallback path carries the disclaimer when filtering was
	// active for this request.
	agent, _ := stubAgent(Advice{}, errors.New("model unavailable"))

	advice := agent.Advise(context.Background(), "I ate deep-fried food, suggest a workout", DefaultProfile, "")

	require.Equal(t, "Walking", advice.Recommendations[0].Name)
	require.NotNil(t, advice.DynamicAdjustments)
	require.Contains(t, advice.SafetyWarnings, safety.BR001Disclaimer)
}

func TestAdvisePromptCarriesSafeCandidatesAndProfile(t *testing.T) {
	reply := Advice{Summary: "ok"}
	agent, prompt := stubAgent(reply, nil)

	profile := DefaultProfile
	profile.Conditions = []string{"knee_injury"}

	agent.Advise(context.Background(), "I just ate a sugary donut, light workout please", profile, `{"total_macros":{"calories":260}}`)

	require.Contains(t, *prompt, "HEALTH MEMO ALERT")
	require.Contains(t, *prompt, "SAFE EXERCISES")
	require.Contains(t, *prompt, "knee_injury")
	require.NotContains(t, *prompt, "HIIT Circuit")
	require.NotContains(t, *prompt, "Fast Run Intervals")
}

func TestAdviseAttachesImagesFromSnapshot(t *testing.T) {
	reply := Advice{
		Recommendations: []safety.Recommendation{
			{Name: "Rowing Machine", DurationMin: 15, KcalEstimate: 120},
		},
	}
	agent, _ := stubAgent(reply, nil)
	agent.store.Replace([]catalog.Exercise{
		{ID: "1", Name: "Rowing Machine", Category: "cardio", ImageURL: "https://example.org/row.png"},
	})

	remoteCalls := 0
	agent.searchImage = func(context.Context, string) (string, error) {
		remoteCalls++
		return "", nil
	}

	advice := agent.Advise(context.Background(), "rowing workout", DefaultProfile, "")

	require.Equal(t, "https://example.org/row.png", advice.Recommendations[0].ImageURL)
	require.Zero(t, remoteCalls)
}

func TestAdviseImageLookupFailureIsNonFatal(t *testing.T) {
	reply := Advice{
		Recommendations: []safety.Recommendation{
			{Name: "Kettlebell Swing", DurationMin: 10, KcalEstimate: 110},
		},
	}
	agent, _ := stubAgent(reply, nil)
	agent.searchImage = func(context.Context, string) (string, error) {
		return "", errors.New("network down")
	}

	advice := agent.Advise(context.Background(), "kettlebell workout", DefaultProfile, "")

	require.Len(t, advice.Recommendations, 1)
	require.Empty(t, advice.Recommendations[0].ImageURL)
}
