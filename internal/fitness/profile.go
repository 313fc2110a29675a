/*
Package fitness implements the Fitness specialist: it runs the
deterministic safety filter over the exercise catalog, asks the language
model to turn the safe candidates into a plan, then re-validates the
model's output before anything reaches the user.
*/
package fitness

// Profile carries the static user facts the fitness path needs. It is
// passed explicitly per request; there is no hidden session state.
type Profile struct {
	Name          string   `json:"name"`
	Age           int      `json:"age"`
	Gender        string   `json:"gender"`
	WeightKg      float64  `json:"weight_kg"`
	HeightCm      float64  `json:"height_cm"`
	Goal          string   `json:"goal"`
	ActivityLevel string   `json:"activity_level"`
	CalorieTarget int      `json:"daily_calorie_target"`
	Conditions    []string `json:"conditions"`
}

// DefaultProfile is used when a request carries no stored profile, so an
// anonymous user still gets sensible advice.
var DefaultProfile = Profile{
	Age:           30,
	Gender:        "male",
	WeightKg:      70,
	HeightCm:      170,
	ActivityLevel: "sedentary",
	CalorieTarget: 2000,
}
