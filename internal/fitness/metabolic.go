package fitness

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// activityFactors maps activity level to the BMR multiplier used for
// maintenance calories.
var activityFactors = map[string]float64{
	"sedentary":         1.2,
	"lightly active":    1.375,
	"moderately active": 1.55,
	"very active":       1.725,
	"extra active":      1.9,
}

// BMI computes body mass index rounded to one decimal place. Implausible
// inputs fall back to a neutral 22.0.
func BMI(weightKg, heightCm float64) float64 {
	if weightKg <= 0 || heightCm <= 0 {
		return 22.0
	}
	heightM := heightCm / 100
	return math.Round(weightKg/(heightM*heightM)*10) / 10
}

// MaintenanceCalories estimates daily maintenance intake with the
// Mifflin-St Jeor equation scaled by activity level.
func MaintenanceCalories(p Profile) float64 {
	weight := p.WeightKg
	if weight <= 0 {
		weight = 70
	}
	height := p.HeightCm
	if height <= 0 {
		height = 170
	}
	age := float64(p.Age)
	if age <= 0 {
		age = 30
	}

	bmr := 10*weight + 6.25*height - 5*age
	if strings.Contains(strings.ToLower(p.Gender), "female") {
		bmr -= 161
	} else {
		bmr += 5
	}

	factor, ok := activityFactors[strings.ToLower(p.ActivityLevel)]
	if !ok {
		factor = 1.2
	}
	return bmr * factor
}

var caloriePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Total Calories:\s*(\d+(?:\.\d+)?)`),
	regexp.MustCompile(`"calories"\s*:\s*(\d+(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*kcal`),
	regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*calories`),
}

// ExtractCalories pulls a calorie count out of a nutrition handoff: a
// structured JSON payload first, then free-text patterns. Returns false
// when no figure can be found.
func ExtractCalories(nutritionInfo string) (float64, bool) {
	if nutritionInfo == "" {
		return 0, false
	}

	var parsed struct {
		TotalMacros struct {
			Calories *float64 `json:"calories"`
		} `json:"total_macros"`
	}
	if err := json.Unmarshal([]byte(nutritionInfo), &parsed); err == nil && parsed.TotalMacros.Calories != nil {
		return *parsed.TotalMacros.Calories, true
	}

	for _, p := range caloriePatterns {
		if m := p.FindStringSubmatch(nutritionInfo); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				return v, true
			}
		}
	}
	return 0, false
}

// CalorieStatus compares the extracted intake of the latest meal to the
// user's maintenance figure and classifies the day so far.
func CalorieStatus(maintenance float64, nutritionInfo string) string {
	if nutritionInfo == "" {
		return "Maintenance (No nutrition data)"
	}

	intake, ok := ExtractCalories(nutritionInfo)
	if ok {
		if intake > maintenance*0.4 {
			return fmt.Sprintf("Surplus Detected (%d kcal meal)", int(intake))
		}
		if intake < maintenance*0.15 {
			return fmt.Sprintf("Deficit/Light Meal (%d kcal)", int(intake))
		}
	}
	return "Maintenance/Balanced"
}
