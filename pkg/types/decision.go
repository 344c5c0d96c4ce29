// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// IntentCategory classifies what a user message is asking for.
type IntentCategory string

const (
	IntentKnowledgeQuery IntentCategory = "knowledge_query"
	IntentPlanRequest    IntentCategory = "plan_request"
	IntentGreeting       IntentCategory = "greeting"
	IntentProfileUpdate  IntentCategory = "profile_update"
	IntentOffTopic       IntentCategory = "off_topic"
)

// NextAction tells the planner how to handle the message.
type NextAction string

const (
	ActionDelegate           NextAction = "delegate_to_agents"
	ActionImmediateResponse  NextAction = "immediate_response"
	ActionExtractProfileInfo NextAction = "extract_profile_info"
)

// RoutingDecision is the strategist's verdict on one message.
type RoutingDecision struct {
	// IntentAnalysis is a short free-text reading of the message.
	IntentAnalysis string `json:"intent_analysis"`

	// IntentCategory is the classified intent.
	IntentCategory IntentCategory `json:"intent_category"`

	// NextAction selects the handling path.
	NextAction NextAction `json:"next_action"`

	// ImmediateResponse is the reply text when NextAction is
	// immediate_response.
	ImmediateResponse string `json:"immediate_response,omitempty"`

	// HasProfileInfo reports whether the message appears to carry
	// personal facts worth extracting.
	HasProfileInfo bool `json:"has_profile_info"`

	// Targets lists the handler paths the strategist selected:
	// "knowledge", "plan", "wellness".
	Targets []string `json:"targets,omitempty"`

	// Topics lists knowledge topics detected in the message.
	Topics []string `json:"topics,omitempty"`
}
