// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package wellness is the direct-reply mental wellness responder. Unlike
// the council experts it answers in free text rather than structured
// JSON, so a failed completion falls back to a canned response instead of
// a placeholder section.
package wellness

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mohanganesh3/fitplanner/internal/llm"
	"github.com/mohanganesh3/fitplanner/pkg/types"
)

const temperature = 0.5

const instructions = `You are a Mental Wellness Expert specializing in the psychological
aspects of health and fitness. Provide evidence-based guidance on mental
wellbeing, stress management, and the psychological factors that
influence health behaviors.

## Response Format:
Your response should be conversational, empathetic, and well-structured.
Begin with a brief acknowledgment of the user's situation, then provide
helpful information with clear markdown headings, numbered steps, and
paragraph breaks. End with a brief encouraging conclusion and appropriate
mental health disclaimers.

## Critical Guidelines:
1. Be conversational and empathetic while maintaining professionalism
2. Offer specific, actionable techniques
3. DO NOT include phrases like "Here's what you should know about..."
4. DO NOT analyze the user's query in your response text`

// Agent produces free-text mental wellness replies.
type Agent struct {
	completer llm.Completer
	logger    *zap.Logger
}

func New(completer llm.Completer, logger *zap.Logger) *Agent {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Agent{completer: completer, logger: logger}
}

// NeedsRelief reports whether a query asks for relief exercises rather
// than general stress guidance.
func NeedsRelief(query string) bool {
	q := strings.ToLower(query)
	for _, kw := range []string{"relief", "exercise", "technique", "breathing"} {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}

// Guidance answers a stress management query in free text. A failed
// completion degrades to a short canned answer.
func (a *Agent) Guidance(ctx context.Context, query string, profile *types.Profile) string {
	prompt := fmt.Sprintf(`%sUser Query: %q

Provide practical, evidence-based guidance on stress management
techniques. Start with a brief empathetic acknowledgment, give
well-structured techniques with markdown formatting, and end with an
encouraging conclusion.`, profileContext(profile), query)

	reply, err := a.completer.Complete(ctx, instructions, prompt, temperature)
	if err != nil || strings.TrimSpace(reply) == "" {
		a.logger.Warn("stress guidance completion failed", zap.Error(err))
		return guidanceFallback
	}
	return reply
}

// ReliefExercises answers a request for quick stress relief exercises. A
// failed completion degrades to a canned set of three exercises.
func (a *Agent) ReliefExercises(ctx context.Context, query string, profile *types.Profile) string {
	prompt := fmt.Sprintf(`%sUser Query: %q

The user is looking for relief exercises for quick stress management.
Provide a brief empathetic introduction, then 3-5 specific exercises.
For each exercise include a bold name, a short description, numbered
steps, a duration, and the benefits. End with an encouraging conclusion.`, profileContext(profile), query)

	reply, err := a.completer.Complete(ctx, instructions, prompt, temperature)
	if err != nil || strings.TrimSpace(reply) == "" {
		a.logger.Warn("relief exercises completion failed", zap.Error(err))
		return reliefFallback
	}
	return reply
}

// profileContext renders the profile fields that matter for wellness
// advice, or "" when none are known.
func profileContext(p *types.Profile) string {
	if p == nil {
		return ""
	}
	trimmed := types.Profile{
		Age:              p.Age,
		ActivityLevel:    p.ActivityLevel,
		HealthConditions: p.HealthConditions,
	}
	if trimmed.IsEmpty() {
		return ""
	}
	b, err := json.MarshalIndent(trimmed, "", "  ")
	if err != nil {
		return ""
	}
	return "User Profile:\n" + string(b) + "\n\n"
}

const guidanceFallback = "I understand managing stress can be challenging. Here are some helpful techniques: deep breathing (inhale for 4, hold for 7, exhale for 8), progressive muscle relaxation, and short mindful walks. These simple practices can help reduce stress during difficult times."

const reliefFallback = `Taking short breaks for stress relief exercises can make a big difference during intense periods. Here are some effective techniques you can try:

**Deep Breathing Exercise (4-7-8 Technique)**
This simple breathing pattern helps activate your parasympathetic nervous system, reducing stress quickly.
1. Sit comfortably with your back straight
2. Inhale quietly through your nose for 4 seconds
3. Hold your breath for 7 seconds
4. Exhale completely through your mouth for 8 seconds
5. Repeat 3-5 times
Duration: 2-3 minutes
Benefits: Reduces anxiety, improves focus, and helps regulate emotional responses

**Progressive Muscle Relaxation**
This technique helps release physical tension.
1. Start with your feet and focus on that muscle group
2. Tense the muscles tightly for 5 seconds
3. Release and relax for 10 seconds, noticing the difference
4. Move upward through each muscle group to your face
Duration: 5-10 minutes
Benefits: Releases physical tension, increases body awareness, and promotes mental relaxation

**Quick Mindfulness Break**
This grounding exercise brings you back to the present moment.
1. Pause and take a deep breath
2. Notice 5 things you can see around you
3. Acknowledge 4 things you can touch or feel
4. Listen for 3 things you can hear
5. Identify 2 things you can smell
6. Notice 1 thing you can taste
Duration: 2-3 minutes
Benefits: Reduces rumination, improves present-moment awareness, and resets mental focus

Remember that even short breaks using these techniques can significantly improve your mental wellbeing.`
