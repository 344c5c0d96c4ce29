// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package schema

// Declared shapes for the records the pipeline exchanges. Alias sets come
// from the field name variations generative models actually produce for
// these prompts.

// ProfileShape declares the user profile record. Only age carries hard
// bounds; the merger keeps records unvalidated when a bound rejects a
// stated value.
var ProfileShape = Shape{
	Name: "user_profile",
	Fields: []Field{
		{Name: "age", Kind: KindInt, Min: 13, Max: 120, HasBounds: true},
		{Name: "weight_lbs", Aliases: []string{"weight", "weight_pounds"}, Kind: KindFloat},
		{Name: "height_inches", Aliases: []string{"height_in", "height"}, Kind: KindFloat},
		{Name: "gender", Kind: KindString},
		{Name: "activity_level", Kind: KindString},
		{Name: "dietary_preferences", Aliases: []string{"diet", "diets"}, Kind: KindStringList},
		{Name: "dietary_restrictions", Aliases: []string{"restrictions"}, Kind: KindStringList},
		{Name: "allergies", Aliases: []string{"food_allergies"}, Kind: KindStringList},
		{Name: "health_conditions", Aliases: []string{"conditions", "medical_conditions"}, Kind: KindStringList},
		{Name: "fitness_goals", Aliases: []string{"goals", "goal"}, Kind: KindStringList},
	},
}

// SectionShape declares one expert's contribution to a knowledge answer.
var SectionShape = Shape{
	Name: "knowledge_section",
	Fields: []Field{
		{Name: "title", Aliases: []string{"topic", "heading"}, Kind: KindString, Required: true},
		{Name: "content", Aliases: []string{"text", "body", "information"}, Kind: KindString, Required: true},
		{Name: "subtopics", Kind: KindStringList},
		{Name: "references", Aliases: []string{"sources", "citations"}, Kind: KindStringList},
		{Name: "disclaimers", Aliases: []string{"disclaimer", "warnings"}, Kind: KindStringList},
	},
}

// RoutingShape declares the strategist's decision record.
var RoutingShape = Shape{
	Name: "routing_decision",
	Fields: []Field{
		{Name: "intent_analysis", Aliases: []string{"analysis", "reasoning"}, Kind: KindString, Required: true},
		{Name: "intent_category", Aliases: []string{"intent", "category"}, Kind: KindString, Required: true},
		{Name: "next_action", Aliases: []string{"action"}, Kind: KindString, Required: true},
		{Name: "immediate_response", Aliases: []string{"response"}, Kind: KindString},
		{Name: "has_profile_info", Aliases: []string{"profile_extraction_needed", "profile_info"}, Kind: KindBool},
		{Name: "required_agents", Aliases: []string{"required_responders", "agents"}, Kind: KindStringList},
		{Name: "topics", Aliases: []string{"knowledge_topics"}, Kind: KindStringList},
	},
}

// MealShape declares one meal inside a diet plan.
var MealShape = Shape{
	Name: "meal",
	Fields: []Field{
		{Name: "name", Aliases: []string{"meal_type", "meal_time", "type", "time"}, Kind: KindString},
		{Name: "items", Aliases: []string{"food_items", "options", "foods"}, Kind: KindStringList},
		{Name: "calories", Kind: KindQuantity},
		{Name: "notes", Aliases: []string{"preparation_notes", "timing"}, Kind: KindString},
	},
}

// DietPlanShape declares a generated diet plan.
var DietPlanShape = Shape{
	Name: "diet_plan",
	Fields: []Field{
		{Name: "daily_calories", Aliases: []string{"daily_calorie_target", "calories"}, Kind: KindQuantity},
		{Name: "meals", Aliases: []string{"meal_plan", "sample_daily_menu"}, Kind: KindMapList, Elem: &MealShape},
		{Name: "hydration", Kind: KindString},
		{Name: "notes", Aliases: []string{"general_recommendations", "general_tips"}, Kind: KindStringList},
	},
}

// WorkoutShape declares one segment of a weekly fitness schedule.
var WorkoutShape = Shape{
	Name: "workout_segment",
	Fields: []Field{
		{Name: "day", Aliases: []string{"phase", "type", "activity", "name"}, Kind: KindString},
		{Name: "focus", Aliases: []string{"description"}, Kind: KindString},
		{Name: "duration", Aliases: []string{"duration_minutes"}, Kind: KindQuantity},
		{Name: "exercises", Kind: KindMapList},
	},
}

// FitnessPlanShape declares a generated fitness plan.
var FitnessPlanShape = Shape{
	Name: "fitness_plan",
	Fields: []Field{
		{Name: "weekly_schedule", Aliases: []string{"workout_schedule", "schedule"}, Kind: KindMapList, Elem: &WorkoutShape},
		{Name: "progression", Aliases: []string{"progression_guidelines", "progression_tips", "progression_recommendations"}, Kind: KindString},
		{Name: "safety", Aliases: []string{"important_notes", "safety_notes"}, Kind: KindStringList},
	},
}
