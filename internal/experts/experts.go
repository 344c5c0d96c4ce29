// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package experts implements the specialist responders that sit on the
// knowledge council: general health, nutrition, fitness, and mental
// wellness. Each responder prompts the model for a structured section,
// recovers the JSON, and coerces it against the shared section shape.
package experts

import (
	"context"
	"fmt"

	"github.com/mohanganesh3/fitplanner/internal/council"
	"github.com/mohanganesh3/fitplanner/internal/extract"
	"github.com/mohanganesh3/fitplanner/internal/llm"
	"github.com/mohanganesh3/fitplanner/internal/schema"
)

const defaultTemperature = 0.7

// Expert is one specialist responder.
type Expert struct {
	name         string
	instructions string
	completer    llm.Completer
	temperature  float64
}

// Respond asks the model for a section-shaped answer. Transport, parse,
// and coercion failures all propagate; the council turns them into
// placeholder sections.
func (e *Expert) Respond(ctx context.Context, in council.Input) (map[string]any, error) {
	prompt := fmt.Sprintf("%sUser Query: %q\n\nProvide your expert response to this query as a valid JSON object.",
		council.ProfileContext(in.Profile), in.Query)

	raw, err := e.completer.Complete(ctx, e.instructions, prompt, e.temperature)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.name, err)
	}
	record, err := extract.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.name, err)
	}
	model, err := schema.Coerce(record, schema.SectionShape)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.name, err)
	}
	return model.Flatten(), nil
}

const sectionFormat = `## Response Structure:
Your response MUST be a valid JSON object with this structure:

{
  "title": "Main topic of the response",
  "content": "Detailed explanation with the key points",
  "subtopics": ["Important aspect 1", "Important aspect 2"],
  "references": ["Source 1: journal or organization", "Source 2: journal or organization"],
  "disclaimers": ["Appropriate disclaimer for this topic"]
}

Do NOT include markdown code fences or any text outside the JSON object.`

var generalHealthInstructions = `You are a General Health Expert specializing in evidence-based medical
information. Explain health concepts clearly, provide preventive care
advice, and offer general medical guidance.

` + sectionFormat + `

## Guidelines:
1. Provide accurate information from reputable medical sources
2. Explain medical concepts in clear, accessible language
3. Focus on preventive care and general wellness
4. Include appropriate medical disclaimers
5. Do NOT provide treatment recommendations for serious conditions
6. Do NOT diagnose medical conditions`

var nutritionInstructions = `You are a Nutrition Expert specializing in dietary science, nutrition
principles, and healthy eating patterns. Provide evidence-based
nutritional guidance tailored to different goals and dietary needs.

` + sectionFormat + `

## Guidelines:
1. Provide evidence-based nutritional information
2. Consider different dietary preferences and restrictions
3. Include appropriate nutritional disclaimers
4. Do NOT promote extreme or fad diets`

var fitnessInstructions = `You are a Fitness Expert specializing in exercise science, workout
techniques, and training methodologies. Provide evidence-based fitness
guidance for different goals and fitness levels.

` + sectionFormat + `

## Guidelines:
1. Provide evidence-based fitness information
2. Consider different fitness levels and physical limitations
3. Include appropriate safety disclaimers
4. Do NOT recommend extreme or potentially harmful exercises`

var mentalWellnessInstructions = `You are a Mental Wellness Expert specializing in the psychological
aspects of health and fitness. Provide evidence-based guidance on mental
wellbeing, stress management, and the psychological factors behind
health behaviors.

` + sectionFormat + `

## Guidelines:
1. Provide evidence-based mental wellness information
2. Consider different mental health needs and preferences
3. Include appropriate mental health disclaimers
4. Do NOT attempt to diagnose or treat mental health conditions`

// Roster builds the standard council membership in presentation order.
func Roster(completer llm.Completer) []council.Member {
	mk := func(name, instructions string) *Expert {
		return &Expert{
			name:         name,
			instructions: instructions,
			completer:    completer,
			temperature:  defaultTemperature,
		}
	}
	return []council.Member{
		{
			Name:      "general_health",
			Describe:  "general medical information, preventive care, wellness basics",
			Responder: mk("general_health", generalHealthInstructions),
		},
		{
			Name:      "nutrition",
			Describe:  "dietary science, nutrition principles, healthy eating patterns",
			Responder: mk("nutrition", nutritionInstructions),
		},
		{
			Name:      "fitness",
			Describe:  "exercise science, workout techniques, training methodology",
			Responder: mk("fitness", fitnessInstructions),
		},
		{
			Name:      "mental_wellness",
			Describe:  "stress management, mental wellbeing, behavioral psychology",
			Responder: mk("mental_wellness", mentalWellnessInstructions),
		},
	}
}
