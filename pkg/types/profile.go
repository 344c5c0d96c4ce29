// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Profile bounds for age validation.
const (
	MinAge = 13
	MaxAge = 120
)

// Profile holds what is known about a user. Fields are pointers so that
// "unknown" is distinguishable from a zero value. Extra preserves keys the
// AI returned that have no declared field.
type Profile struct {
	// Age in years. Valid range is [MinAge, MaxAge].
	Age *int `json:"age,omitempty" yaml:"age,omitempty"`

	// WeightLbs is body weight in pounds. Metric inputs are converted
	// before storage.
	WeightLbs *float64 `json:"weight_lbs,omitempty" yaml:"weight_lbs,omitempty"`

	// HeightIn is height in inches.
	HeightIn *float64 `json:"height_in,omitempty" yaml:"height_in,omitempty"`

	// Gender as stated by the user.
	Gender *string `json:"gender,omitempty" yaml:"gender,omitempty"`

	// ActivityLevel describes baseline activity (e.g. "sedentary", "active").
	ActivityLevel *string `json:"activity_level,omitempty" yaml:"activity_level,omitempty"`

	// DietaryPreferences lists diets the user follows (e.g. "vegetarian").
	DietaryPreferences []string `json:"dietary_preferences,omitempty" yaml:"dietary_preferences,omitempty"`

	// DietaryRestrictions lists restrictions and intolerances.
	DietaryRestrictions []string `json:"dietary_restrictions,omitempty" yaml:"dietary_restrictions,omitempty"`

	// Allergies lists stated food allergies.
	Allergies []string `json:"allergies,omitempty" yaml:"allergies,omitempty"`

	// HealthConditions lists stated medical conditions.
	HealthConditions []string `json:"health_conditions,omitempty" yaml:"health_conditions,omitempty"`

	// FitnessGoals lists stated goals (e.g. "weight_loss", "muscle_gain").
	FitnessGoals []string `json:"fitness_goals,omitempty" yaml:"fitness_goals,omitempty"`

	// Extra holds fields the extractor produced that have no declared
	// slot above. Preserved verbatim.
	Extra map[string]any `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// IsEmpty reports whether no profile information is known.
func (p Profile) IsEmpty() bool {
	return p.Age == nil && p.WeightLbs == nil && p.HeightIn == nil &&
		p.Gender == nil && p.ActivityLevel == nil &&
		len(p.DietaryPreferences) == 0 && len(p.DietaryRestrictions) == 0 &&
		len(p.Allergies) == 0 && len(p.HealthConditions) == 0 &&
		len(p.FitnessGoals) == 0 && len(p.Extra) == 0
}

// ProfileUpdate is the result of one extraction pass over a message.
type ProfileUpdate struct {
	// Profile is the complete record to store. Storage replaces the
	// previous record wholesale rather than merging field by field.
	Profile Profile

	// NewInfo reports whether the pass found any information at all.
	NewInfo bool

	// Confidence maps field names to the extractor's confidence in them.
	Confidence map[string]float64

	// Missing lists profile fields still unknown after the pass.
	Missing []string
}
