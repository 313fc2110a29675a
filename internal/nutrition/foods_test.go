package nutrition

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSearchFoodExactName(t *testing.T) {
	a := NewAgent()

	fact := a.SearchFood("fried chicken")
	require.NotNil(t, fact)
	require.Equal(t, "fried chicken", fact.Name)
	require.Equal(t, 480.0, fact.Macros.Calories)
}

func TestSearchFoodPartialName(t *testing.T) {
	a := NewAgent()

	fact := a.SearchFood("Cheeseburger with extra pickles")
	require.NotNil(t, fact)
	require.Equal(t, "cheeseburger", fact.Name)
}

func TestSearchFoodCaseAndWhitespace(t *testing.T) {
	a := NewAgent()

	fact := a.SearchFood("  GLAZED DONUT  ")
	require.NotNil(t, fact)
	require.Equal(t, "glazed donut", fact.Name)
}

func TestSearchFoodNoConfidentMatch(t *testing.T) {
	a := NewAgent()

	require.Nil(t, a.SearchFood("qwxzt brrgl"))
	require.Nil(t, a.SearchFood(""))
}

func TestSearchFoodEmptyTable(t *testing.T) {
	a := &Agent{}
	require.Nil(t, a.SearchFood("banana"))
}
