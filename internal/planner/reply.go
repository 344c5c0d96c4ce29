// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package planner

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/mohanganesh3/fitplanner/pkg/types"
)

// Lead-in phrases the strategist tends to produce that read poorly when
// echoed back to the user.
var intentLeadIns = []string{
	"user is asking for ",
	"user is asking about ",
	"user is inquiring about ",
	"user wants to know about ",
	"user needs information on ",
	"user is requesting ",
	"advice on ",
	"information about ",
}

// buildReply composes the narrative reply from whatever the delegated
// stages produced. Knowledge content stands on its own, so a knowledge
// reply carries only the follow-up prompt, or nothing at all.
func buildReply(intentAnalysis string, planResp *types.PlanResponse, knowledge *types.KnowledgeResponse, followUps []string) string {
	topic := cleanIntent(intentAnalysis)

	if planResp != nil && planResp.Status == "unclear_request" {
		return unclearReply(planResp)
	}

	hasPlan := planResp != nil && (planResp.Diet != nil || planResp.Fitness != nil)
	switch {
	case hasPlan:
		parts := []string{fmt.Sprintf("Here's a personalized plan for %s.", topic)}
		if rendered := renderFollowUps(followUps); rendered != "" {
			parts = append(parts, rendered)
		}
		return strings.Join(parts, " ")
	case knowledge != nil:
		return renderFollowUps(followUps)
	default:
		return "How can I help you with your health and fitness goals today?"
	}
}

func unclearReply(planResp *types.PlanResponse) string {
	reply := planResp.Message
	if reply == "" {
		reply = "I need a bit more information to build a useful plan."
	}
	if len(planResp.Missing) > 0 {
		reply += " Could you tell me: " + strings.Join(planResp.Missing, ", ") + "?"
	}
	return reply
}

// renderFollowUps turns up to two follow-up questions into a numbered
// "more about" prompt, with the question marks dropped.
func renderFollowUps(followUps []string) string {
	if len(followUps) == 0 {
		return ""
	}
	if len(followUps) > 2 {
		followUps = followUps[:2]
	}
	lines := make([]string, 0, len(followUps))
	for i, q := range followUps {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, strings.TrimRight(q, "?")))
	}
	return "\n\nWould you like to know more about:\n" + strings.Join(lines, "\n")
}

// cleanIntent strips analysis lead-ins and capitalizes what remains.
// The remainder keeps its original casing so acronyms and proper nouns
// come through intact.
func cleanIntent(intentAnalysis string) string {
	cleaned := strings.TrimSpace(intentAnalysis)
	for _, phrase := range intentLeadIns {
		if len(cleaned) >= len(phrase) && strings.EqualFold(cleaned[:len(phrase)], phrase) {
			cleaned = cleaned[len(phrase):]
		}
	}
	runes := []rune(cleaned)
	if len(runes) > 0 {
		runes[0] = unicode.ToUpper(runes[0])
	}
	return string(runes)
}
