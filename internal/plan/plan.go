// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package plan generates personalized diet and fitness plans. An analysis
// pass decides which plan types a request needs and how clear it is;
// unclear requests come back asking for more information instead of
// guessing. Generation failures degrade to deterministic fallback plans
// keyed off the profile.
package plan

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mohanganesh3/fitplanner/internal/extract"
	"github.com/mohanganesh3/fitplanner/internal/fanout"
	"github.com/mohanganesh3/fitplanner/internal/llm"
	"github.com/mohanganesh3/fitplanner/internal/schema"
	"github.com/mohanganesh3/fitplanner/pkg/types"
)

// MinClarity is the analysis clarity score below which no plans are
// generated and the user is asked to clarify.
const MinClarity = 0.6

// Generator coordinates plan analysis and creation.
type Generator struct {
	completer llm.Completer
	exec      *fanout.Executor
	logger    *zap.Logger
}

func New(completer llm.Completer, exec *fanout.Executor, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if exec == nil {
		exec = fanout.New(0, logger)
	}
	return &Generator{completer: completer, exec: exec, logger: logger}
}

const analysisInstruction = `You are the Plan Generation Council, responsible for coordinating the
creation of personalized health and fitness plans. Analyze the user's
request and decide what plans are needed. Do NOT generate any actual
plans yourself.

## Output Format:
Your response MUST be a single, valid JSON object with this structure:

{
  "analysis": {
    "primary_goal": "Main user objective",
    "plan_types_needed": ["diet", "fitness"],
    "key_requirements": ["low impact", "vegetarian", "time-efficient"],
    "clarity_score": 0.8,
    "missing_information": []
  },
  "diet_goal": "Specific goal for the diet plan",
  "fitness_goal": "Specific goal for the fitness plan"
}

If the request is unclear (clarity_score below 0.6), list what
information is missing. Do NOT include markdown code fences or any text
outside the JSON object.`

const dietInstructions = `You are a Diet Plan Creator specializing in personalized nutrition
planning. Consider the user's age, weight, activity level, dietary
preferences, allergies, goals, and health conditions.

## Response Format:
Your response MUST be a single, valid JSON object with this structure:

{
  "daily_calorie_target": 2000,
  "meals": [
    {"meal_type": "Breakfast", "food_items": ["Oatmeal with berries", "Greek yogurt"], "notes": "Prep ahead for convenience"}
  ],
  "hydration": "Drink 8-10 glasses of water daily",
  "notes": ["Adjust portions based on hunger levels"]
}

## Critical Rules:
1. Provide SPECIFIC, ACTIONABLE advice, not vague guidelines
2. Include realistic, practical meal suggestions
3. Consider the user's full profile when making recommendations
4. Do NOT include markdown code fences or any text outside the JSON object`

const fitnessInstructions = `You are a Fitness Plan Creator specializing in personalized exercise
programming. Consider the user's fitness level, age, physical
limitations, available time, and goals.

## Response Format:
Your response MUST be a single, valid JSON object with this structure:

{
  "weekly_schedule": [
    {
      "day": "Monday",
      "focus": "Upper Body Strength",
      "exercises": [
        {"name": "Push-ups", "sets": 3, "reps": "8-12", "rest_seconds": 60, "notes": "Focus on proper form"}
      ]
    }
  ],
  "progression_guidelines": ["Increase weight by 5% when all sets feel comfortable"],
  "safety_notes": ["Warm up before every session"]
}

## Critical Rules:
1. Provide SPECIFIC workout details with form cues and safety notes
2. Include warm-up and recovery guidance
3. Consider the user's full profile when designing the program
4. Do NOT include markdown code fences or any text outside the JSON object`

// Generate analyzes a plan request and produces the needed plans. It
// never returns an error: analysis failure yields fallback plans for
// both types, and a generation failure substitutes a fallback for that
// plan only.
func (g *Generator) Generate(ctx context.Context, request string, profile *types.Profile) *types.PlanResponse {
	analysis, err := g.analyze(ctx, request, profile)
	if err != nil {
		g.logger.Error("plan analysis failed, serving fallback plans", zap.Error(err))
		diet := fallbackDietPlan("General health improvement", profile)
		fitness := fallbackFitnessPlan(profile)
		return &types.PlanResponse{
			Status:       "error",
			Message:      "An error occurred during plan generation",
			Diet:         &diet,
			Fitness:      &fitness,
			UsedFallback: true,
		}
	}

	if analysis.Clarity < MinClarity {
		return &types.PlanResponse{
			Status:  "unclear_request",
			Message: "I need a bit more information to build a useful plan.",
			Missing: analysis.Missing,
		}
	}

	resp := &types.PlanResponse{Status: "success"}

	var tasks []fanout.Task
	if analysis.wantsDiet() {
		tasks = append(tasks, fanout.Task{
			Name: "diet",
			Run: func(taskCtx context.Context) (map[string]any, error) {
				return g.generateDiet(taskCtx, profile, analysis.DietGoal)
			},
		})
	}
	if analysis.wantsFitness() {
		tasks = append(tasks, fanout.Task{
			Name: "fitness",
			Run: func(taskCtx context.Context) (map[string]any, error) {
				return g.generateFitness(taskCtx, profile)
			},
		})
	}

	outcomes, err := g.exec.Execute(ctx, tasks)
	if err != nil {
		// Unreachable with the fixed task names above.
		g.logger.Error("plan fan-out failed", zap.Error(err))
		outcomes = map[string]fanout.Outcome{}
	}

	if analysis.wantsDiet() {
		out := outcomes["diet"]
		if out.Err != nil || out.Value == nil {
			g.logger.Warn("diet plan generation failed, using fallback", zap.Error(out.Err))
			diet := fallbackDietPlan(analysis.DietGoal, profile)
			resp.Diet = &diet
			resp.UsedFallback = true
		} else {
			diet := dietPlanOf(out.Value)
			resp.Diet = &diet
		}
	}
	if analysis.wantsFitness() {
		out := outcomes["fitness"]
		if out.Err != nil || out.Value == nil {
			g.logger.Warn("fitness plan generation failed, using fallback", zap.Error(out.Err))
			fitness := fallbackFitnessPlan(profile)
			resp.Fitness = &fitness
			resp.UsedFallback = true
		} else {
			fitness := fitnessPlanOf(out.Value)
			resp.Fitness = &fitness
		}
	}
	return resp
}

type planAnalysis struct {
	PlanTypes   []string
	DietGoal    string
	FitnessGoal string
	Clarity     float64
	Missing     []string
}

func (a planAnalysis) wantsDiet() bool    { return a.DietGoal != "" && contains(a.PlanTypes, "diet") }
func (a planAnalysis) wantsFitness() bool { return contains(a.PlanTypes, "fitness") }

func contains(list []string, want string) bool {
	for _, s := range list {
		if strings.EqualFold(strings.TrimSpace(s), want) {
			return true
		}
	}
	return false
}

func (g *Generator) analyze(ctx context.Context, request string, profile *types.Profile) (planAnalysis, error) {
	prompt := fmt.Sprintf(`Analyze this user request and determine what types of plans are needed:

User Request: %q

User Profile: %s

Determine if the user needs a diet plan, fitness plan, or both, and the
primary goal for each. Assess how clear the request is on a scale of 0.0
to 1.0.`, request, profileJSON(profile))

	raw, err := g.completer.Complete(ctx, analysisInstruction, prompt, 0.4)
	if err != nil {
		return planAnalysis{}, err
	}
	record, err := extract.Parse(raw)
	if err != nil {
		return planAnalysis{}, err
	}

	out := planAnalysis{
		DietGoal:    str(record["diet_goal"]),
		FitnessGoal: str(record["fitness_goal"]),
	}
	if inner, ok := record["analysis"].(map[string]any); ok {
		out.PlanTypes = strs(inner["plan_types_needed"])
		out.Missing = strs(inner["missing_information"])
		if n, ok := num(inner["clarity_score"]); ok {
			out.Clarity = n
		}
	}
	return out, nil
}

func (g *Generator) generateDiet(ctx context.Context, profile *types.Profile, goal string) (map[string]any, error) {
	prompt := fmt.Sprintf(`Create a personalized diet plan based on this user profile:

%s

Primary Goal: %s

Provide a 7-day diet plan with specific meals, portions, and practical
preparation tips, as a valid JSON object per your instructions.`, profileJSON(profile), goal)

	raw, err := g.completer.Complete(ctx, dietInstructions, prompt, 0.7)
	if err != nil {
		return nil, err
	}
	record, err := extract.Parse(raw)
	if err != nil {
		return nil, err
	}
	model, err := schema.Coerce(record, schema.DietPlanShape)
	if err != nil {
		return nil, err
	}
	flat := model.Flatten()
	if str(flat["daily_calories"]) == "" && len(mapsOf(flat["meals"])) == 0 {
		return nil, fmt.Errorf("diet plan missing calories and meals")
	}
	return flat, nil
}

func (g *Generator) generateFitness(ctx context.Context, profile *types.Profile) (map[string]any, error) {
	prompt := fmt.Sprintf(`Create a personalized fitness plan based on this user profile:

%s

Provide a workout program with specific exercises, sets, reps, and
progression guidelines, as a valid JSON object per your instructions.`, profileJSON(profile))

	raw, err := g.completer.Complete(ctx, fitnessInstructions, prompt, 0.7)
	if err != nil {
		return nil, err
	}
	record, err := extract.Parse(raw)
	if err != nil {
		return nil, err
	}
	model, err := schema.Coerce(record, schema.FitnessPlanShape)
	if err != nil {
		return nil, err
	}
	flat := model.Flatten()
	if len(mapsOf(flat["weekly_schedule"])) == 0 {
		return nil, fmt.Errorf("fitness plan missing weekly schedule")
	}
	return flat, nil
}

// Refine reworks an existing plan against user feedback. The returned
// map keeps the structure of the original plan. A failed completion
// returns the current plan unchanged.
func (g *Generator) Refine(ctx context.Context, planType string, current map[string]any, feedback string) (map[string]any, error) {
	var instructions string
	var shape schema.Shape
	switch strings.ToLower(planType) {
	case "diet":
		instructions, shape = dietInstructions, schema.DietPlanShape
	case "fitness":
		instructions, shape = fitnessInstructions, schema.FitnessPlanShape
	default:
		return nil, fmt.Errorf("invalid plan type %q", planType)
	}

	currentJSON, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode current plan: %w", err)
	}
	prompt := fmt.Sprintf(`Refine this %s plan based on the user's feedback:

Current Plan:
%s

User Feedback:
%q

Create an improved version that addresses the user's concerns while
keeping the overall structure, as a valid JSON object.`, planType, currentJSON, feedback)

	raw, err := g.completer.Complete(ctx, instructions, prompt, 0.7)
	if err != nil {
		g.logger.Warn("plan refinement failed, keeping current plan", zap.Error(err))
		return current, nil
	}
	record, err := extract.Parse(raw)
	if err != nil {
		g.logger.Warn("refined plan unparseable, keeping current plan", zap.Error(err))
		return current, nil
	}
	model, err := schema.Coerce(record, shape)
	if err != nil {
		// Keep the raw refinement when it only fails shape coercion.
		g.logger.Warn("refined plan failed coercion", zap.Error(err))
		return record, nil
	}
	return model.Flatten(), nil
}

func dietPlanOf(flat map[string]any) types.DietPlan {
	return types.DietPlan{
		DailyCalories: str(flat["daily_calories"]),
		Meals:         mapsOf(flat["meals"]),
		Hydration:     str(flat["hydration"]),
		Notes:         strs(flat["notes"]),
	}
}

func fitnessPlanOf(flat map[string]any) types.FitnessPlan {
	return types.FitnessPlan{
		WeeklySchedule: mapsOf(flat["weekly_schedule"]),
		Progression:    str(flat["progression"]),
		Safety:         strs(flat["safety"]),
	}
}

func profileJSON(p *types.Profile) string {
	if p == nil || p.IsEmpty() {
		return "No profile information available"
	}
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "No profile information available"
	}
	return string(b)
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func strs(v any) []string {
	switch vv := v.(type) {
	case []string:
		return vv
	case []any:
		var out []string
		for _, e := range vv {
			if s, ok := e.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func mapsOf(v any) []map[string]any {
	switch vv := v.(type) {
	case []map[string]any:
		return vv
	case []any:
		var out []map[string]any
		for _, e := range vv {
			if m, ok := e.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	default:
		return nil
	}
}

func num(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
