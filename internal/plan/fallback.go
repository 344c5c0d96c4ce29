// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package plan

import (
	"strings"

	"github.com/mohanganesh3/fitplanner/pkg/types"
)

// fallbackDietPlan builds a simplified deterministic diet plan from the
// few profile hints it can use: vegetarian or low-carb preference and
// activity level for the calorie target.
func fallbackDietPlan(goal string, profile *types.Profile) types.DietPlan {
	vegetarian := false
	lowCarb := false
	calories := "2000"

	if profile != nil {
		for _, p := range profile.DietaryPreferences {
			switch strings.ToLower(p) {
			case "vegetarian", "vegan":
				vegetarian = true
			case "keto", "low carb", "low-carb":
				lowCarb = true
			}
		}
		if profile.ActivityLevel != nil {
			switch strings.ToLower(*profile.ActivityLevel) {
			case "sedentary", "light":
				calories = "1800"
			case "active", "very active":
				calories = "2200"
			}
		}
	}

	proteins := []string{"Chicken breast", "Fish", "Lean beef", "Eggs"}
	if vegetarian {
		proteins = []string{"Tofu", "Lentils", "Beans", "Greek yogurt"}
	}
	carbs := []string{"Brown rice", "Sweet potatoes", "Quinoa", "Oatmeal"}
	if lowCarb {
		carbs = []string{"Berries", "Non-starchy vegetables"}
	}
	breakfast := []string{"Oatmeal with berries", "Greek yogurt"}
	if lowCarb {
		breakfast = []string{"Eggs with avocado", "Spinach"}
	}

	if goal == "" {
		goal = "Balanced nutrition for general health"
	}

	return types.DietPlan{
		DailyCalories: calories,
		Meals: []map[string]any{
			{
				"name":  "Breakfast",
				"items": breakfast,
				"notes": "Focus on protein and fiber for sustained energy",
			},
			{
				"name":  "Lunch",
				"items": []string{"Large salad with " + proteins[0], "Olive oil dressing"},
				"notes": "Include plenty of colorful vegetables",
			},
			{
				"name":  "Dinner",
				"items": []string{proteins[1], carbs[0], "Steamed vegetables"},
				"notes": "Balance protein, carbs, and healthy fats",
			},
		},
		Hydration: "Drink 8-10 glasses of water daily",
		Notes: []string{
			"Goal: " + goal,
			"Emphasize whole, unprocessed foods",
			"Lean proteins: " + strings.Join(proteins, ", "),
			"Complex carbohydrates: " + strings.Join(carbs, ", "),
			"This is a simplified plan. For optimal results, consider consulting with a registered dietitian.",
		},
	}
}

// fallbackFitnessPlan builds a simplified deterministic full-body routine
// scaled down when the profile suggests limited capacity.
func fallbackFitnessPlan(profile *types.Profile) types.FitnessPlan {
	gentle := false
	if profile != nil {
		if len(profile.HealthConditions) > 0 {
			gentle = true
		}
		if profile.ActivityLevel != nil {
			level := strings.ToLower(*profile.ActivityLevel)
			if level == "sedentary" || level == "light" {
				gentle = true
			}
		}
	}

	pushups := "Push-ups"
	pushupReps := "8-12"
	plankHold := "30-45 seconds"
	if gentle {
		pushups = "Wall Push-ups"
		pushupReps = "5-8"
		plankHold = "20 seconds"
	}

	strengthDay := func(day string) map[string]any {
		return map[string]any{
			"day":   day,
			"focus": "Full Body Strength",
			"exercises": []map[string]any{
				{
					"name":  pushups,
					"sets":  3,
					"reps":  pushupReps,
					"notes": "Keep core engaged throughout the movement",
				},
				{
					"name":  "Bodyweight Squats",
					"sets":  3,
					"reps":  "10-12",
					"notes": "Keep weight in heels, knees tracking over toes",
				},
				{
					"name":  "Plank",
					"sets":  2,
					"reps":  "Hold for " + plankHold,
					"notes": "Maintain a neutral spine position",
				},
			},
		}
	}
	cardioDay := func(day string) map[string]any {
		return map[string]any{
			"day":   day,
			"focus": "Cardiovascular Endurance",
			"exercises": []map[string]any{
				{
					"name":  "Brisk Walking",
					"sets":  1,
					"reps":  "20 minutes",
					"notes": "Maintain a pace where you can talk but not sing",
				},
				{
					"name":  "Glute Bridges",
					"sets":  3,
					"reps":  "12-15",
					"notes": "Squeeze your glutes at the top of the movement",
				},
			},
		}
	}

	return types.FitnessPlan{
		WeeklySchedule: []map[string]any{
			strengthDay("Monday"),
			cardioDay("Wednesday"),
			strengthDay("Friday"),
		},
		Progression: "Weeks 1-2: establish consistency and proper form. Weeks 3-4: add 2-3 reps per set or 5-10 seconds to holds once the current work feels comfortable.",
		Safety: []string{
			"Take at least 2 full rest days per week",
			"Warm up for 5 minutes before each session and stretch afterward",
			"Consult a healthcare provider before starting a new exercise program, especially with pre-existing health conditions",
		},
	}
}
