package fitness

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBMI(t *testing.T) {
	require.Equal(t, 24.2, BMI(70, 170))
	require.Equal(t, 22.9, BMI(65, 168.5))

	// Implausible inputs fall back to neutral.
	require.Equal(t, 22.0, BMI(0, 170))
	require.Equal(t, 22.0, BMI(70, -1))
}

func TestMaintenanceCalories(t *testing.T) {
	male := Profile{Age: 30, Gender: "male", WeightKg: 70, HeightCm: 170, ActivityLevel: "sedentary"}
	require.InDelta(t, 1941.0, MaintenanceCalories(male), 0.1)

	female := male
	female.Gender = "female"
	require.InDelta(t, 1741.8, MaintenanceCalories(female), 0.1)

	active := male
	active.ActivityLevel = "Very Active"
	require.InDelta(t, 1617.5*1.725, MaintenanceCalories(active), 0.1)

	// Zero-value profile uses defaults rather than dividing by nothing.
	require.Greater(t, MaintenanceCalories(Profile{}), 0.0)
}

func TestExtractCalories(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
		found bool
	}{
		{
			name:  "structured payload",
			input: `{"dish_name":"burger","total_macros":{"calories":540,"protein":27}}`,
			want:  540,
			found: true,
		},
		{
			name:  "labelled total",
			input: "Total Calories: 520\nProtein: 30g",
			want:  520,
			found: true,
		},
		{
			name:  "kcal suffix",
			input: "roughly 300 kcal for that serving",
			want:  300,
			found: true,
		},
		{
			name:  "no figure",
			input: "a light vegetable soup",
			found: false,
		},
		{
			name:  "empty",
			input: "",
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractCalories(tt.input)
			require.Equal(t, tt.found, ok)
			if tt.found {
				require.Equal(t, tt.want, got)
			}
		})
	}
}

func TestCalorieStatus(t *testing.T) {
	require.Equal(t, "Maintenance (No nutrition data)", CalorieStatus(2000, ""))
	require.Equal(t, "Surplus Detected (900 kcal meal)", CalorieStatus(2000, "900 kcal"))
	require.Equal(t, "Deficit/Light Meal (250 kcal)", CalorieStatus(2000, "250 kcal"))
	require.Equal(t, "Maintenance/Balanced", CalorieStatus(2000, "500 kcal"))
	require.Equal(t, "Maintenance/Balanced", CalorieStatus(2000, "no numbers here"))
}
