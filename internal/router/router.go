// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package router classifies incoming messages and decides how the planner
// should handle them. Classification is model-driven with a deterministic
// rule-based fallback, so a broken completion can degrade the answer but
// never break the request.
package router

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mohanganesh3/fitplanner/internal/extract"
	"github.com/mohanganesh3/fitplanner/internal/llm"
	"github.com/mohanganesh3/fitplanner/internal/schema"
	"github.com/mohanganesh3/fitplanner/pkg/types"
)

// DefaultGreeting is substituted when the model asks for an immediate
// response but supplies none.
const DefaultGreeting = "Hello! I'm your AI Health and Fitness assistant. How can I help you today?"

// fallbackGreeting is the reply from the rule-based greeting path.
const fallbackGreeting = "Hello! I'm your AI Health and Fitness assistant. How can I help you with your health and fitness goals today?"

// greetingTokens trigger the rule-based greeting fallback. The trailing
// space on "hi " keeps it from matching words like "high".
var greetingTokens = []string{"hello", "hi ", "hey", "greetings", "good morning", "good afternoon", "good evening"}

// Target names the handler paths a decision can select.
const (
	TargetKnowledge = "knowledge"
	TargetPlan      = "plan"
	TargetWellness  = "wellness"
)

// validIntents is the accepted intent vocabulary.
var validIntents = map[types.IntentCategory]bool{
	types.IntentKnowledgeQuery: true,
	types.IntentPlanRequest:    true,
	types.IntentGreeting:       true,
	types.IntentProfileUpdate:  true,
	types.IntentOffTopic:       true,
}

// Strategist analyzes queries and generates follow-up suggestions.
type Strategist struct {
	completer llm.Completer
	// detectProfileInfo reports whether a message syntactically carries
	// personal facts. Injected so the router stays decoupled from the
	// profile scanner.
	detectProfileInfo func(string) bool
	logger            *zap.Logger
}

// New builds a Strategist. detect may be nil, in which case no messages
// are flagged for profile extraction by rule.
func New(completer llm.Completer, detect func(string) bool, logger *zap.Logger) *Strategist {
	if detect == nil {
		detect = func(string) bool { return false }
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Strategist{completer: completer, detectProfileInfo: detect, logger: logger}
}

const analyzeInstruction = `You are the strategist for an AI health and fitness planning system. Analyze
each user query, determine its primary intent, and decide which handlers
should process it.

Handlers available:
- "knowledge": expert health and fitness knowledge
- "plan": personalized diet and fitness plan generation
- "wellness": stress management and mental wellness guidance

Your response MUST be a single valid JSON object with this structure:

{
  "intent_analysis": "topic or goal of the query",
  "intent_category": "knowledge_query|plan_request|greeting|profile_update|off_topic",
  "required_agents": ["knowledge"],
  "next_action": "delegate_to_agents|immediate_response|extract_profile_info",
  "immediate_response": "Direct reply for greetings or off-topic queries",
  "has_profile_info": true,
  "topics": ["topic1"]
}

Rules:
1. For greetings, set next_action to "immediate_response" with a warm welcome.
2. For off-topic queries, set next_action to "immediate_response" and explain the system's purpose.
3. For health or fitness questions, include "knowledge" in required_agents.
4. For plan requests, include "plan" in required_agents.
5. For stress or mental wellness queries, include "wellness" in required_agents.
6. If the query contains personal information, set has_profile_info to true.
7. Output valid JSON only. No markdown fences, no text outside the object.
8. intent_analysis is the topic itself, never a sentence about the user.`

// Analyze classifies one message. It never fails: a model error, an
// unparseable completion, or missing required fields all fall back to the
// deterministic strategy.
func (s *Strategist) Analyze(ctx context.Context, query string, current types.Profile) types.RoutingDecision {
	profileInfoPresent := s.detectProfileInfo(query)

	prompt := s.analyzePrompt(query, current)

	completion, err := s.completer.Complete(ctx, analyzeInstruction, prompt, 0.3)
	if err != nil {
		s.logger.Warn("query analysis call failed", zap.Error(err))
		return s.Fallback(query, profileInfoPresent)
	}

	record, err := extract.Parse(completion)
	if err != nil {
		s.logger.Warn("query analysis produced no JSON", zap.Error(err))
		return s.Fallback(query, profileInfoPresent)
	}

	model, err := schema.Coerce(record, schema.RoutingShape)
	if err != nil {
		s.logger.Warn("query analysis shape mismatch", zap.Error(err))
		return s.Fallback(query, profileInfoPresent)
	}

	decision := types.RoutingDecision{
		IntentAnalysis:    model.String("intent_analysis"),
		IntentCategory:    types.IntentCategory(model.String("intent_category")),
		NextAction:        types.NextAction(model.String("next_action")),
		ImmediateResponse: model.String("immediate_response"),
		Topics:            model.StringList("topics"),
		Targets:           normalizeTargets(model.StringList("required_agents")),
	}
	if flag, ok := model.Fields["has_profile_info"].(bool); ok {
		decision.HasProfileInfo = flag
	}

	if !validIntents[decision.IntentCategory] {
		s.logger.Warn("query analysis returned unknown intent",
			zap.String("intent", string(decision.IntentCategory)))
		return s.Fallback(query, profileInfoPresent)
	}

	// The syntactic scanner can only add to what the model flagged.
	decision.HasProfileInfo = decision.HasProfileInfo || profileInfoPresent

	if decision.NextAction == types.ActionImmediateResponse && decision.ImmediateResponse == "" {
		decision.ImmediateResponse = DefaultGreeting
	}

	return decision
}

func (s *Strategist) analyzePrompt(query string, current types.Profile) string {
	var b strings.Builder
	if !current.IsEmpty() {
		if data, err := json.MarshalIndent(current, "", "  "); err == nil {
			fmt.Fprintf(&b, "Current User Profile:\n%s\n\n", data)
		}
	}
	fmt.Fprintf(&b, "Analyze the following user query and determine the appropriate response strategy:\n\nUser Query: %q\n\n", query)
	b.WriteString("Identify the primary intent, which handlers should process the query, and whether profile information should be extracted.\n")
	b.WriteString("Respond with a valid JSON object following the exact structure specified in your instructions.")
	return b.String()
}

// normalizeTargets maps whatever handler names the model produced onto
// the known target set, preserving order and dropping the unknown.
func normalizeTargets(raw []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, r := range raw {
		lower := strings.ToLower(r)
		var target string
		switch {
		case strings.Contains(lower, "knowledge"):
			target = TargetKnowledge
		case strings.Contains(lower, "plan"):
			target = TargetPlan
		case strings.Contains(lower, "wellness"), strings.Contains(lower, "mental"):
			target = TargetWellness
		default:
			continue
		}
		if !seen[target] {
			seen[target] = true
			out = append(out, target)
		}
	}
	return out
}

// Fallback is the deterministic strategy used when analysis fails. A
// message containing a greeting token becomes an immediate greeting
// reply; anything else is treated as a knowledge query.
func (s *Strategist) Fallback(query string, profileInfoPresent bool) types.RoutingDecision {
	lower := strings.ToLower(query)
	for _, token := range greetingTokens {
		if strings.Contains(lower, token) {
			return types.RoutingDecision{
				IntentAnalysis:    "greeting",
				IntentCategory:    types.IntentGreeting,
				NextAction:        types.ActionImmediateResponse,
				ImmediateResponse: fallbackGreeting,
				HasProfileInfo:    profileInfoPresent,
			}
		}
	}

	return types.RoutingDecision{
		IntentAnalysis: strings.TrimSpace(query),
		IntentCategory: types.IntentKnowledgeQuery,
		NextAction:     types.ActionDelegate,
		HasProfileInfo: profileInfoPresent,
		Targets:        []string{TargetKnowledge},
	}
}
