// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Section is one titled block of assembled knowledge content.
type Section struct {
	// Title names the section. Failed responders contribute a section
	// titled "Error from <name>".
	Title string `json:"title"`

	// Content is the section body text.
	Content string `json:"content"`

	// Subtopics lists finer-grained topics covered by the section.
	Subtopics []string `json:"subtopics,omitempty"`
}

// KnowledgeResponse is the aggregated answer from a knowledge council run.
type KnowledgeResponse struct {
	// Summary is a one-line statement of what the response covers.
	Summary string `json:"summary"`

	// Sections holds one entry per consulted responder, in responder
	// order. Failed responders occupy a placeholder slot.
	Sections []Section `json:"sections"`

	// References lists cited sources, deduplicated and sorted.
	References []string `json:"references,omitempty"`

	// Disclaimers lists safety notes, deduplicated and sorted.
	Disclaimers []string `json:"disclaimers,omitempty"`
}

// DietPlan is a generated diet plan. Meals and guidance keep the map form
// the generator produced; shape coercion normalizes known keys.
type DietPlan struct {
	DailyCalories string           `json:"daily_calories,omitempty"`
	Meals         []map[string]any `json:"meals,omitempty"`
	Hydration     string           `json:"hydration,omitempty"`
	Notes         []string         `json:"notes,omitempty"`
}

// FitnessPlan is a generated fitness plan.
type FitnessPlan struct {
	WeeklySchedule []map[string]any `json:"weekly_schedule,omitempty"`
	Progression    string           `json:"progression,omitempty"`
	Safety         []string         `json:"safety,omitempty"`
}

// PlanResponse is the result of a plan council run.
type PlanResponse struct {
	// Status is "success" or "unclear_request".
	Status string `json:"status"`

	// Message explains an unclear_request status.
	Message string `json:"message,omitempty"`

	// Missing lists what the request needs clarified (unclear_request).
	Missing []string `json:"missing,omitempty"`

	Diet    *DietPlan    `json:"diet_plan,omitempty"`
	Fitness *FitnessPlan `json:"fitness_plan,omitempty"`

	// UsedFallback reports whether a deterministic fallback plan was
	// substituted for a failed generation.
	UsedFallback bool `json:"used_fallback,omitempty"`
}

// PlannerResponse is what one processed message produces.
type PlannerResponse struct {
	// Reply is the narrative text shown to the user.
	Reply string `json:"reply"`

	// Intent is the classified intent behind the message.
	Intent IntentCategory `json:"intent"`

	// Knowledge carries the aggregated council answer when the message
	// was delegated to knowledge responders.
	Knowledge *KnowledgeResponse `json:"knowledge,omitempty"`

	// Plan carries generated plans when the message requested them.
	Plan *PlanResponse `json:"plan,omitempty"`

	// ProfileUpdated reports whether the stored profile was replaced.
	ProfileUpdated bool `json:"profile_updated"`

	// FollowUps lists suggested follow-up questions (at most three).
	FollowUps []string `json:"follow_ups,omitempty"`

	// Disclaimers lists consolidated safety notes, deduplicated and sorted.
	Disclaimers []string `json:"disclaimers,omitempty"`
}
