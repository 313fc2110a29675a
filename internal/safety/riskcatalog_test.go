package safety

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlockedKeywordsForSingleTag(t *testing.T) {
	blocked, reasons := BlockedKeywordsFor([]RiskTag{RiskFried})

	require.Contains(t, blocked, "sprint")
	require.Contains(t, blocked, "hiit")
	require.Contains(t, blocked, "burpee")
	require.NotContains(t, blocked, "run")
	require.NotContains(t, blocked, "jog")
	require.Equal(t, []string{"High-fat/fried food digestion requires blood flow to stomach"}, reasons)
}

func TestBlockedKeywordsForHighSugarAddsModerate(t *testing.T) {
	blocked, reasons := BlockedKeywordsFor([]RiskTag{RiskHighSugar})

	require.Contains(t, blocked, "hiit")
	require.Contains(t, blocked, "run")
	require.Contains(t, blocked, "jog")
	require.Contains(t, blocked, "skipping")
	require.Len(t, reasons, 1)
}

func TestBlockedKeywordsForUnion(t *testing.T) {
	blocked, reasons := BlockedKeywordsFor([]RiskTag{RiskFried, RiskHighSugar})

	require.Contains(t, blocked, "sprint")
	require.Contains(t, blocked, "run")
	require.Equal(t, []string{
		"High-fat/fried food digestion requires blood flow to stomach",
		"Blood sugar spike may cause energy crash during intense exercise",
	}, reasons)
}

func TestBlockedKeywordsForOrderIndependent(t *testing.T) {
	blockedA, reasonsA := BlockedKeywordsFor([]RiskTag{RiskProcessed, RiskFried})
	blockedB, reasonsB := BlockedKeywordsFor([]RiskTag{RiskFried, RiskProcessed})

	require.Equal(t, blockedA, blockedB)
	require.Equal(t, reasonsA, reasonsB)
	// Canonical order, not supply order.
	require.Equal(t, "High-fat/fried food digestion requires blood flow to stomach", reasonsA[0])
}

func TestBlockedKeywordsForUnknownTag(t *testing.T) {
	blocked, reasons := BlockedKeywordsFor([]RiskTag{"spicy", "caffeinated"})

	require.Empty(t, blocked)
	require.Empty(t, reasons)
}

func TestBlockedKeywordsForDuplicateTags(t *testing.T) {
	blocked, reasons := BlockedKeywordsFor([]RiskTag{RiskFried, RiskFried, RiskFried})

	require.Len(t, reasons, 1)
	require.Contains(t, blocked, "sprint")
}

func TestKnownRiskTag(t *testing.T) {
	require.True(t, KnownRiskTag(RiskFried))
	require.True(t, KnownRiskTag(RiskHighOil))
	require.True(t, KnownRiskTag(RiskHighSugar))
	require.True(t, KnownRiskTag(RiskProcessed))
	require.False(t, KnownRiskTag("salty"))
}
