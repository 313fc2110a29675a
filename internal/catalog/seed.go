package catalog

// seedExercises is the static fallback used when both the remote API and
// the local cache come up empty. It mirrors the shape of hydrated entries
// and carries the contraindication tags the safety filter matches against.
var seedExercises = []Exercise{
	{
		ID:       "seed-brisk-walking",
		Name:     "Brisk Walking",
		Category: "cardio",
		Tags:     []string{"no equipment", "low impact", "outdoor"},
	},
	{
		ID:       "seed-light-cycling",
		Name:     "Light Cycling",
		Category: "cardio",
		Tags:     []string{"bicycle", "low impact", "legs"},
	},
	{
		ID:                "seed-fast-run",
		Name:              "Fast Run Intervals",
		Category:          "cardio",
		Tags:              []string{"no equipment", "high impact", "outdoor"},
		Contraindications: []string{"knee_injury"},
	},
	{
		ID:                "seed-hiit-circuit",
		Name:              "HIIT Circuit",
		Category:          "cardio",
		Tags:              []string{"no equipment", "vigorous", "full body"},
		Contraindications: []string{"heart_condition"},
	},
	{
		ID:                "seed-jump-rope",
		Name:              "Jump Rope",
		Category:          "cardio",
		Tags:              []string{"rope", "high impact", "calves"},
		Contraindications: []string{"knee_injury", "ankle_injury"},
	},
	{
		ID:                "seed-burpees",
		Name:              "Burpees",
		Category:          "strength",
		Tags:              []string{"no equipment", "vigorous", "full body"},
		Contraindications: []string{"knee_injury", "back_pain"},
	},
	{
		ID:       "seed-bodyweight-squat",
		Name:     "Bodyweight Squat",
		Category: "strength",
		Tags:     []string{"no equipment", "quadriceps", "glutes"},
	},
	{
		ID:                "seed-deadlift",
		Name:              "Deadlift",
		Category:          "strength",
		Tags:              []string{"barbell", "posterior chain"},
		Contraindications: []string{"back_pain"},
	},
	{
		ID:       "seed-plank",
		Name:     "Plank Hold",
		Category: "strength",
		Tags:     []string{"no equipment", "core", "isometric"},
	},
	{
		ID:       "seed-yoga-flow",
		Name:     "Gentle Yoga Flow",
		Category: "flexibility",
		Tags:     []string{"mat", "low impact", "mobility"},
	},
	{
		ID:       "seed-stretching",
		Name:     "Full Body Stretching",
		Category: "flexibility",
		Tags:     []string{"no equipment", "recovery"},
	},
	{
		ID:       "seed-swimming",
		Name:     "Swimming Laps",
		Category: "sports",
		Tags:     []string{"pool", "low impact", "full body"},
	},
}

// SeedExercises returns a copy of the built-in fallback list.
func SeedExercises() []Exercise {
	out := make([]Exercise, len(seedExercises))
	copy(out, seedExercises)
	return out
}
