package coordinator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"healthbutler/internal/safety"
)

func TestWantsNutrition(t *testing.T) {
	require.True(t, wantsNutrition(Request{Text: "what did I eat today?"}))
	require.True(t, wantsNutrition(Request{Text: "how many calories in this dish"}))
	require.True(t, wantsNutrition(Request{Image: []byte{0x01}}))
	require.False(t, wantsNutrition(Request{Text: "suggest a workout"}))
}

func TestWantsFitness(t *testing.T) {
	require.True(t, wantsFitness(Request{Text: "suggest a workout"}))
	require.True(t, wantsFitness(Request{Text: "should I go for a run?"}))

	// Pure nutrition requests skip the fitness path.
	require.False(t, wantsFitness(Request{Text: "analyze this meal", Image: []byte{0x01}}))

	// Ambiguous text defaults to fitness so the user always gets advice.
	require.True(t, wantsFitness(Request{Text: "hello there"}))
}

func TestWantsBothPaths(t *testing.T) {
	req := Request{Text: "I just ate lunch, can I exercise now?"}
	require.True(t, wantsNutrition(req))
	require.True(t, wantsFitness(req))
}

func TestBuildFitnessTaskInjectsMemo(t *testing.T) {
	payload := []byte(`{
		"dish_name": "Fried Chicken",
		"total_macros": {"calories": 480},
		"visual_warnings": ["fried"],
		"health_score": 4
	}`)

	task := BuildFitnessTask("suggest a workout", payload)

	require.Contains(t, task, "Fried Chicken")
	require.Contains(t, task, "Original task: suggest a workout")

	// The enhanced task must carry the same risk evidence downstream.
	require.Equal(t, []safety.RiskTag{safety.RiskFried}, safety.ExtractRisks(task))
}

func TestBuildFitnessTaskHealthyMealPassthrough(t *testing.T) {
	payload := []byte(`{"dish_name": "Salad", "visual_warnings": [], "health_score": 9}`)
	require.Equal(t, "suggest a workout", BuildFitnessTask("suggest a workout", payload))
}

func TestBuildFitnessTaskMalformedPayloadPassthrough(t *testing.T) {
	require.Equal(t, "base task", BuildFitnessTask("base task", []byte("not json")))
	require.Equal(t, "base task", BuildFitnessTask("base task", nil))
}
