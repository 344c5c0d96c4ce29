// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package profile

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

// DefaultConfidenceThreshold filters model-extracted fields: anything the
// model is less sure about than this is dropped.
const DefaultConfidenceThreshold = 0.6

// Merger combines regex-scanned facts with model-extracted ones into a
// complete replacement profile.
type Merger struct {
	completer llm.Completer
	threshold float64
	logger    *zap.Logger
}

// NewMerger builds a Merger. threshold <= 0 selects the default.
func NewMerger(completer llm.Completer, threshold float64, logger *zap.Logger) *Merger {
	if threshold <= 0 {
		threshold = DefaultConfidenceThreshold
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Merger{completer: completer, threshold: threshold, logger: logger}
}

const extractInstruction = `You extract user profile information for a health and fitness planning
application. You never interact with the user directly.

Extract health metrics (age, weight, height), dietary preferences and
restrictions, allergies, fitness goals, activity level, and health
conditions.

You MUST respond with a single valid JSON object containing:
1. "extracted_profile": new information extracted from this message
2. "confidence_scores": confidence (0.0-1.0) for each extracted field
3. "missing_information": important fields still unknown

Example:
{
  "extracted_profile": {
    "age": 35,
    "weight_lbs": 180,
    "fitness_goals": ["lose weight", "improve endurance"],
    "dietary_restrictions": ["gluten-free"]
  },
  "confidence_scores": {"age": 0.95, "weight_lbs": 0.9, "fitness_goals": 0.8, "dietary_restrictions": 0.7},
  "missing_information": ["height_inches", "activity_level"]
}

Rules:
1. NEVER invent information not present in the message.
2. Only include fields that appear in the message.
3. No text outside the JSON object.`

// Extract builds a replacement profile from one message. The scanned
// facts override model-extracted fields of the same name; model fields
// below the confidence threshold are dropped. Extract never fails: when
// the model path breaks, the scanned facts alone form the result.
//
// The returned profile REPLACES the stored one wholesale. Facts from
// earlier messages that this message does not restate are forgotten.
func (m *Merger) Extract(ctx context.Context, message string) types.ProfileUpdate {
	scanned := Scan(message)

	prompt := fmt.Sprintf("Extract user profile information from this message:\n%q\n\n"+
		"Only extract information mentioned in this specific message. Do not invent or assume information.\n"+
		"Respond with a valid JSON object following the required format.", message)

	// Low temperature: this is factual extraction, not generation.
	completion, err := m.completer.Complete(ctx, extractInstruction, prompt, 0.1)
	if err != nil {
		m.logger.Warn("profile extraction call failed, using scanned facts only", zap.Error(err))
		return m.fromRecord(scanned, nil, nil)
	}

	record, err := extract.Parse(completion)
	if err != nil {
		m.logger.Warn("profile extraction produced no JSON, using scanned facts only", zap.Error(err))
		return m.fromRecord(scanned, nil, nil)
	}

	extracted, _ := record["extracted_profile"].(map[string]any)
	confidence := confidenceScores(record["confidence_scores"])
	missing := stringsOf(record["missing_information"])

	// Keep only fields the model is confident about; a field without a
	// score is dropped outright.
	combined := map[string]any{}
	for k, v := range extracted {
		if score, ok := confidence[k]; ok && score >= m.threshold {
			combined[k] = v
		}
	}
	// Scanned facts override the model's reading of the same field.
	for k, v := range scanned {
		combined[k] = v
	}

	return m.fromRecord(combined, confidence, missing)
}

// fromRecord coerces a raw field map into the typed profile. Validation
// failure is logged and the record is kept unvalidated; extraction is
// best effort.
func (m *Merger) fromRecord(record map[string]any, confidence map[string]float64, missing []string) types.ProfileUpdate {
	model, err := schema.Coerce(record, schema.ProfileShape)
	if err != nil {
		// An out-of-range value is still what the user said; retry
		// with bounds off so it survives.
		m.logger.Warn("profile record failed validation, keeping it unvalidated", zap.Error(err))
		model, err = schema.Coerce(record, schema.ProfileShape.Unbounded())
	}
	if err != nil {
		// What remains is an unconvertible value, not a rejected one.
		// Drop that field alone and keep the rest.
		if cErr, ok := err.(*schema.CoercionError); ok {
			drop := map[string]bool{cErr.Field: true}
			for _, f := range schema.ProfileShape.Fields {
				if f.Name == cErr.Field {
					for _, a := range f.Aliases {
						drop[a] = true
					}
				}
			}
			pruned := make(map[string]any, len(record))
			for k, v := range record {
				if !drop[k] {
					pruned[k] = v
				}
			}
			if len(pruned) < len(record) {
				return m.fromRecord(pruned, confidence, missing)
			}
		}
		return types.ProfileUpdate{Missing: missing, Confidence: confidence}
	}

	p := profileFromModel(model)
	return types.ProfileUpdate{
		Profile:    p,
		NewInfo:    len(record) > 0,
		Confidence: confidence,
		Missing:    missing,
	}
}

// profileFromModel maps a coerced record onto the typed profile.
func profileFromModel(model *schema.Model) types.Profile {
	var p types.Profile

	if age, ok := model.Fields["age"].(int); ok {
		p.Age = &age
	}
	if w, ok := model.Fields["weight_lbs"].(float64); ok {
		p.WeightLbs = &w
	}
	if h, ok := model.Fields["height_inches"].(float64); ok {
		p.HeightIn = &h
	}
	if g := model.String("gender"); g != "" {
		p.Gender = &g
	}
	if a := model.String("activity_level"); a != "" {
		p.ActivityLevel = &a
	}
	p.DietaryPreferences = model.StringList("dietary_preferences")
	p.DietaryRestrictions = model.StringList("dietary_restrictions")
	p.Allergies = model.StringList("allergies")
	p.HealthConditions = model.StringList("health_conditions")
	p.FitnessGoals = model.StringList("fitness_goals")
	if len(model.Extra) > 0 {
		p.Extra = model.Extra
	}

	return p
}

// Questions suggests questions that would fill gaps in the profile.
// Failures yield an empty list, never an error.
func (m *Merger) Questions(ctx context.Context, profile types.Profile, conversation string) []string {
	profileJSON, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return nil
	}

	prompt := fmt.Sprintf("Based on the current user profile and conversation context, generate 2-3 natural follow-up questions\n"+
		"that would help fill important gaps in the user profile for better health and fitness recommendations.\n\n"+
		"Current user profile:\n%s\n\nRecent conversation context:\n%q\n\n"+
		"Output MUST be a valid JSON array of strings, each containing a single question.\n"+
		"Questions should be conversational and not feel like a questionnaire.\n"+
		"Do not ask about information we already have in the profile.", profileJSON, conversation)

	completion, err := m.completer.Complete(ctx, extractInstruction, prompt, 0.5)
	if err != nil {
		m.logger.Warn("profile question generation failed", zap.Error(err))
		return nil
	}

	if list, err := extract.ParseList(completion); err == nil {
		if qs, err := extract.StringList(list); err == nil {
			return qs
		}
	}
	// Some completions wrap the array in {"questions": [...]}.
	if record, err := extract.Parse(completion); err == nil {
		if inner, ok := record["questions"].([]any); ok {
			if qs, err := extract.StringList(inner); err == nil {
				return qs
			}
		}
	}
	return nil
}

func confidenceScores(raw any) map[string]float64 {
	scores := map[string]float64{}
	m, ok := raw.(map[string]any)
	if !ok {
		return scores
	}
	for k, v := range m {
		if f, ok := v.(float64); ok {
			scores[k] = f
		}
	}
	return scores
}

func stringsOf(raw any) []string {
	list, ok := raw.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, e := range list {
		if s, ok := e.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
