// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package planner wires the strategist, profile pipeline, knowledge
// council, plan generator, and wellness agent into the single entry
// point the HTTP server and CLI call.
package planner

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mohanganesh3/fitplanner/internal/council"
	"github.com/mohanganesh3/fitplanner/internal/plan"
	"github.com/mohanganesh3/fitplanner/internal/profile"
	"github.com/mohanganesh3/fitplanner/internal/router"
	"github.com/mohanganesh3/fitplanner/internal/wellness"
	"github.com/mohanganesh3/fitplanner/pkg/types"
)

// Disclaimers attached whenever substantive content was produced.
var standardDisclaimers = []string{
	"This information is for educational purposes and not a substitute for professional medical advice.",
	"Consult a healthcare provider before starting any new fitness or diet program.",
}

const wellnessDisclaimer = "This information is for educational purposes only. If you're experiencing severe stress or anxiety, please consult with a healthcare professional."

// Deps are the collaborators a planner needs.
type Deps struct {
	Strategist *router.Strategist
	Merger     *profile.Merger
	Store      profile.Store
	Council    *council.Council
	Plans      *plan.Generator
	Wellness   *wellness.Agent
	Logger     *zap.Logger
}

// Planner processes one user message end to end.
type Planner struct {
	deps Deps
	log  *zap.Logger
}

func New(deps Deps) (*Planner, error) {
	if deps.Strategist == nil || deps.Merger == nil || deps.Store == nil ||
		deps.Council == nil || deps.Plans == nil || deps.Wellness == nil {
		return nil, fmt.Errorf("planner: missing dependency")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Planner{deps: deps, log: deps.Logger}, nil
}

// Process runs the full pipeline for one message. Model-side failures
// degrade inside the stages and never surface here; the returned error
// covers only empty input, storage failures, and assembly contract
// violations (types.ErrDataMismatch).
func (p *Planner) Process(ctx context.Context, message, userID string) (*types.PlannerResponse, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("empty message")
	}
	if userID == "" {
		userID = "anonymous"
	}
	log := p.log.With(
		zap.String("request_id", uuid.NewString()),
		zap.String("user_id", userID))

	current, err := p.deps.Store.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	decision := p.deps.Strategist.Analyze(ctx, message, current)
	log.Info("strategy determined",
		zap.String("intent", string(decision.IntentCategory)),
		zap.String("action", string(decision.NextAction)),
		zap.Strings("targets", decision.Targets))

	working := current
	updated := false
	if decision.HasProfileInfo {
		upd := p.deps.Merger.Extract(ctx, message)
		if upd.NewInfo {
			if err := p.deps.Store.Put(ctx, userID, upd.Profile); err != nil {
				return nil, fmt.Errorf("store profile: %w", err)
			}
			working = upd.Profile
			updated = true
			log.Info("profile replaced", zap.Strings("missing", upd.Missing))
		}
	}

	if decision.NextAction == types.ActionImmediateResponse {
		reply := decision.ImmediateResponse
		if reply == "" {
			reply = "I can only assist with health and fitness topics."
		}
		return &types.PlannerResponse{
			Reply:          reply,
			Intent:         decision.IntentCategory,
			ProfileUpdated: updated,
		}, nil
	}

	if wantsWellness(decision) {
		return p.respondWellness(ctx, message, working, decision, updated)
	}

	resp := &types.PlannerResponse{
		Intent:         decision.IntentCategory,
		ProfileUpdated: updated,
	}
	notes := map[string]struct{}{}

	if hasTarget(decision, router.TargetKnowledge) || hasTarget(decision, router.TargetWellness) {
		resp.Knowledge = p.deps.Council.Respond(ctx, message, &working)
		for _, d := range resp.Knowledge.Disclaimers {
			notes[d] = struct{}{}
		}
	}
	if hasTarget(decision, router.TargetPlan) {
		resp.Plan = p.deps.Plans.Generate(ctx, decision.IntentAnalysis, &working)
		if resp.Plan.Status == "success" && resp.Plan.Diet == nil && resp.Plan.Fitness == nil {
			return nil, fmt.Errorf("%w: plan generation succeeded without producing a plan", types.ErrDataMismatch)
		}
	}
	if decision.NextAction == types.ActionDelegate && resp.Knowledge == nil && resp.Plan == nil {
		return nil, fmt.Errorf("%w: delegation produced no content for targets %v",
			types.ErrDataMismatch, decision.Targets)
	}

	resp.FollowUps = p.deps.Strategist.FollowUpQuestions(ctx, message, map[string]any{
		"has_diet_plan":    resp.Plan != nil && resp.Plan.Diet != nil,
		"has_fitness_plan": resp.Plan != nil && resp.Plan.Fitness != nil,
		"has_knowledge":    resp.Knowledge != nil,
	}, working)

	resp.Reply = buildReply(decision.IntentAnalysis, resp.Plan, resp.Knowledge, resp.FollowUps)

	if resp.Knowledge != nil || (resp.Plan != nil && (resp.Plan.Diet != nil || resp.Plan.Fitness != nil)) {
		for _, d := range standardDisclaimers {
			notes[d] = struct{}{}
		}
	}
	resp.Disclaimers = sortedSet(notes)
	return resp, nil
}

// Profile returns the stored profile for a user.
func (p *Planner) Profile(ctx context.Context, userID string) (types.Profile, error) {
	return p.deps.Store.Get(ctx, userID)
}

// SetProfile replaces the stored profile for a user.
func (p *Planner) SetProfile(ctx context.Context, userID string, prof types.Profile) error {
	return p.deps.Store.Put(ctx, userID, prof)
}

// ProfileQuestions suggests conversational questions that would fill
// gaps in the stored profile.
func (p *Planner) ProfileQuestions(ctx context.Context, userID, conversation string) ([]string, error) {
	prof, err := p.deps.Store.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return p.deps.Merger.Questions(ctx, prof, conversation), nil
}

func (p *Planner) respondWellness(ctx context.Context, message string, working types.Profile, decision types.RoutingDecision, updated bool) (*types.PlannerResponse, error) {
	var reply string
	lower := strings.ToLower(message)
	if strings.Contains(lower, "relief exercises") || strings.Contains(lower, "stress relief") || wellness.NeedsRelief(message) {
		reply = p.deps.Wellness.ReliefExercises(ctx, message, &working)
	} else {
		reply = p.deps.Wellness.Guidance(ctx, message, &working)
	}
	followUps := p.deps.Strategist.FollowUpQuestions(ctx, message,
		map[string]any{"has_knowledge": true}, working)
	return &types.PlannerResponse{
		Reply:          reply,
		Intent:         decision.IntentCategory,
		ProfileUpdated: updated,
		FollowUps:      followUps,
		Disclaimers:    []string{wellnessDisclaimer},
	}, nil
}

// wantsWellness routes stress and anxiety intents to the dedicated
// wellness agent instead of the knowledge council.
func wantsWellness(d types.RoutingDecision) bool {
	intent := strings.ToLower(d.IntentAnalysis)
	for _, kw := range []string{"stress", "relief", "relax", "anxiety"} {
		if strings.Contains(intent, kw) {
			return true
		}
	}
	return false
}

func hasTarget(d types.RoutingDecision, target string) bool {
	for _, t := range d.Targets {
		if t == target {
			return true
		}
	}
	return false
}

func sortedSet(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
