package safety

import (
	"testing"

	"github.com/stretchr/testify/require"

	"healthbutler/internal/catalog"
)

func testSnapshot() []catalog.Exercise {
	return catalog.SeedExercises()
}

func names(exercises []catalog.Exercise) []string {
	out := make([]string, len(exercises))
	for i, ex := range exercises {
		out[i] = ex.Name
	}
	return out
}

func TestFilterNoRisksNoConditions(t *testing.T) {
	result := Filter(Query{Limit: 20}, testSnapshot())

	require.Len(t, result.SafeExercises, len(testSnapshot()))
	require.Empty(t, result.SafetyWarnings)
	require.Nil(t, result.Adjustments)
}

func TestFilterStaticConditionHardBlock(t *testing.T) {
	result := Filter(Query{
		StaticConditions: []string{"knee_injury"},
		Limit:            20,
	}, testSnapshot())

	got := names(result.SafeExercises)
	require.NotContains(t, got, "Fast Run Intervals")
	require.NotContains(t, got, "Jump Rope")
	require.NotContains(t, got, "Burpees")
	require.Contains(t, got, "Brisk Walking")
	require.Contains(t, got, "Gentle Yoga Flow")

	// Static filtering alone produces no dynamic adjustment record.
	require.Nil(t, result.Adjustments)
}

func TestFilterDynamicRiskBlocksHighIntensity(t *testing.T) {
	result := Filter(Query{
		DynamicRisks: []RiskTag{RiskFried},
		Limit:        20,
	}, testSnapshot())

	got := names(result.SafeExercises)
	require.NotContains(t, got, "HIIT Circuit")
	require.NotContains(t, got, "Fast Run Intervals")
	require.NotContains(t, got, "Burpees")
	require.Contains(t, got, "Brisk Walking")
	// Moderate-intensity items survive a fried-only risk.
	require.Contains(t, got, "Jump Rope")

	require.NotNil(t, result.Adjustments)
	require.Equal(t, BR001Disclaimer, result.Adjustments.Disclaimer)
	require.Equal(t, []string{"High-fat/fried food digestion requires blood flow to stomach"}, result.SafetyWarnings)
}

func TestFilterHighSugarBlocksModerateToo(t *testing.T) {
	result := Filter(Query{
		DynamicRisks: []RiskTag{RiskHighSugar},
		Limit:        20,
	}, testSnapshot())

	got := names(result.SafeExercises)
	require.NotContains(t, got, "HIIT Circuit")
	require.NotContains(t, got, "Jump Rope")
	require.NotContains(t, got, "Fast Run Intervals")
	require.Contains(t, got, "Brisk Walking")
	require.Contains(t, got, "Plank Hold")
}

func TestFilterStaticBeforeDynamic(t *testing.T) {
	// An exercise blocked by both signals is excluded exactly once, and
	// the static reason wins; the result is the same either way but the
	// warnings must reflect the dynamic rules that were active.
	result := Filter(Query{
		StaticConditions: []string{"heart_condition"},
		DynamicRisks:     []RiskTag{RiskFried},
		Limit:            20,
	}, testSnapshot())

	got := names(result.SafeExercises)
	require.NotContains(t, got, "HIIT Circuit")
	require.Len(t, result.SafetyWarnings, 1)
	require.NotNil(t, result.Adjustments)
}

func TestFilterEmptySnapshot(t *testing.T) {
	result := Filter(Query{
		DynamicRisks: []RiskTag{RiskFried},
		Limit:        5,
	}, nil)

	require.Empty(t, result.SafeExercises)
	require.NotNil(t, result.Adjustments)
}

func TestFilterLimitTruncates(t *testing.T) {
	result := Filter(Query{Limit: 3}, testSnapshot())
	require.Len(t, result.SafeExercises, 3)
}

func TestFilterQueryRanking(t *testing.T) {
	result := Filter(Query{Text: "walking", Limit: 5}, testSnapshot())

	require.NotEmpty(t, result.SafeExercises)
	require.Equal(t, "Brisk Walking", result.SafeExercises[0].Name)
}

func TestFilterResultNeverContainsBlockedContent(t *testing.T) {
	risks := []RiskTag{RiskFried, RiskHighSugar, RiskProcessed}
	conditions := []string{"knee_injury", "back_pain"}

	result := Filter(Query{
		StaticConditions: conditions,
		DynamicRisks:     risks,
		Limit:            50,
	}, testSnapshot())

	blocked, _ := BlockedKeywordsFor(risks)
	for _, ex := range result.SafeExercises {
		require.False(t, IsContraindicated(ex.Contraindications, conditions),
			"contraindicated exercise leaked: %s", ex.Name)
		_, hit := firstBlockedKeyword(ex.Haystack(), blocked)
		require.False(t, hit, "blocked exercise leaked: %s", ex.Name)
	}
}
