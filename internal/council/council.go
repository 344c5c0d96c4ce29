// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package council aggregates answers from a set of specialist responders
// into a single knowledge response. A council run never fails outright:
// every failed responder still occupies its slot as a placeholder
// section, and when the execution step itself breaks the council
// degrades through a single-shot fallback completion and finally a
// static response.
package council

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/mohanganesh3/fitplanner/internal/extract"
	"github.com/mohanganesh3/fitplanner/internal/fanout"
	"github.com/mohanganesh3/fitplanner/internal/llm"
	"github.com/mohanganesh3/fitplanner/pkg/types"
)

// Input is what every responder receives for one query.
type Input struct {
	Query   string
	Profile *types.Profile
}

// Responder answers one query with a flattened section record (title,
// content, subtopics, references, disclaimers, plus any extra keys).
type Responder interface {
	Respond(ctx context.Context, in Input) (map[string]any, error)
}

// Member pairs a responder with its council name. Order of members fixes
// the order of sections in the assembled response.
type Member struct {
	Name      string
	Describe  string
	Responder Responder
}

const errorContent = "Could not retrieve information due to a technical issue."

// Council fans a query out to selected members and folds the results.
type Council struct {
	completer llm.Completer
	members   []Member
	byName    map[string]Member
	exec      *fanout.Executor
	logger    *zap.Logger
}

// New builds a council over the given members. Members with duplicate
// names are rejected.
func New(completer llm.Completer, members []Member, exec *fanout.Executor, logger *zap.Logger) (*Council, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if exec == nil {
		exec = fanout.New(0, logger)
	}
	byName := make(map[string]Member, len(members))
	for _, m := range members {
		if _, dup := byName[m.Name]; dup {
			return nil, fmt.Errorf("duplicate council member %q", m.Name)
		}
		byName[m.Name] = m
	}
	return &Council{
		completer: completer,
		members:   members,
		byName:    byName,
		exec:      exec,
		logger:    logger,
	}, nil
}

const selectionInstruction = `You are a dispatcher for a panel of health specialists.
Given a user's question, decide which specialists are needed to answer it well.

Available specialists:
%s

Respond with ONLY a JSON array of specialist names, for example:
["nutrition", "fitness"]

Include only specialists whose expertise is clearly relevant. When the
question is broad or ambiguous, include "general_health".`

// Respond runs the full council pipeline for one query. It never returns
// an error: every failure mode degrades to a usable response.
func (c *Council) Respond(ctx context.Context, query string, profile *types.Profile) *types.KnowledgeResponse {
	selected := c.selectMembers(ctx, query)

	tasks := make([]fanout.Task, 0, len(selected))
	for _, m := range selected {
		tasks = append(tasks, fanout.Task{
			Name: m.Name,
			Run: func(taskCtx context.Context) (map[string]any, error) {
				return m.Responder.Respond(taskCtx, Input{Query: query, Profile: profile})
			},
		})
	}

	outcomes, err := c.exec.Execute(ctx, tasks)
	if err != nil {
		c.logger.Error("council execution failed", zap.Error(err))
		return c.fallback(ctx, query)
	}

	failures := 0
	resp := &types.KnowledgeResponse{
		Summary: "Expert health information addressing: " + query,
	}
	refs := map[string]struct{}{}
	notes := map[string]struct{}{}
	for _, m := range selected {
		out := outcomes[m.Name]
		if out.Err != nil || out.Value == nil {
			failures++
			resp.Sections = append(resp.Sections, types.Section{
				Title:   "Error from " + m.Name,
				Content: errorContent,
			})
			continue
		}
		resp.Sections = append(resp.Sections, sectionOf(out.Value))
		collect(refs, out.Value["references"])
		collect(notes, out.Value["disclaimers"])
	}
	if failures == len(selected) {
		c.logger.Warn("all council members failed", zap.String("query", query))
	}

	resp.References = sorted(refs)
	resp.Disclaimers = sorted(notes)
	return resp
}

// selectMembers asks the model which members the query needs. Any failure
// or unusable answer selects every member: missing expertise is worse
// than a wasted call.
func (c *Council) selectMembers(ctx context.Context, query string) []Member {
	var roster strings.Builder
	for _, m := range c.members {
		fmt.Fprintf(&roster, "- %s: %s\n", m.Name, m.Describe)
	}
	instruction := fmt.Sprintf(selectionInstruction, roster.String())

	raw, err := c.completer.Complete(ctx, instruction, fmt.Sprintf("User question: %q", query), 0.3)
	if err != nil {
		c.logger.Warn("member selection failed, consulting all", zap.Error(err))
		return c.members
	}
	list, err := extract.ParseList(raw)
	if err != nil {
		c.logger.Warn("member selection unparseable, consulting all", zap.Error(err))
		return c.members
	}
	names, err := extract.StringList(list)
	if err != nil {
		c.logger.Warn("member selection malformed, consulting all", zap.Error(err))
		return c.members
	}

	// Keep member order, drop unknown names.
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[strings.ToLower(strings.TrimSpace(n))] = true
	}
	var selected []Member
	for _, m := range c.members {
		if want[m.Name] {
			selected = append(selected, m)
		}
	}
	if len(selected) == 0 {
		return c.members
	}
	return selected
}

const fallbackInstruction = `You are a health information assistant. The specialist panel is
unavailable, so answer the user's question yourself across all relevant
areas of health.

Respond with ONLY a valid JSON object of this form:
{
  "sections": [
    {"title": "...", "content": "...", "subtopics": ["..."]}
  ],
  "references": ["..."],
  "disclaimers": ["..."]
}`

// fallback is the degraded path when the execution step itself failed
// and no slots exist. One direct completion, then a static response if
// that also fails.
func (c *Council) fallback(ctx context.Context, query string) *types.KnowledgeResponse {
	raw, err := c.completer.Complete(ctx, fallbackInstruction, fmt.Sprintf("User question: %q", query), 0.5)
	if err == nil {
		if record, perr := extract.Parse(raw); perr == nil {
			if resp, ok := fallbackResponse(query, record); ok {
				return resp
			}
		}
	}
	c.logger.Error("fallback completion failed, serving static response", zap.Error(err))
	return staticResponse(query)
}

func fallbackResponse(query string, record map[string]any) (*types.KnowledgeResponse, bool) {
	rawSections, ok := record["sections"].([]any)
	if !ok || len(rawSections) == 0 {
		return nil, false
	}
	resp := &types.KnowledgeResponse{
		Summary: "Expert health information addressing: " + query,
	}
	for _, rs := range rawSections {
		m, ok := rs.(map[string]any)
		if !ok {
			continue
		}
		s := sectionOf(m)
		if s.Title == "" || s.Content == "" {
			continue
		}
		resp.Sections = append(resp.Sections, s)
	}
	if len(resp.Sections) == 0 {
		return nil, false
	}
	refs := map[string]struct{}{}
	notes := map[string]struct{}{}
	collect(refs, record["references"])
	collect(notes, record["disclaimers"])
	resp.References = sorted(refs)
	resp.Disclaimers = sorted(notes)
	return resp, true
}

func staticResponse(query string) *types.KnowledgeResponse {
	return &types.KnowledgeResponse{
		Summary: "Expert health information addressing: " + query,
		Sections: []types.Section{
			{
				Title:   "General Health",
				Content: "We're experiencing technical difficulties providing detailed health information. For reliable health guidance, please consult with qualified healthcare professionals.",
			},
			{Title: "Nutrition", Content: "Nutrition information unavailable due to technical issues."},
			{Title: "Fitness", Content: "Fitness information unavailable due to technical issues."},
			{Title: "Mental Wellness", Content: "Mental wellness information unavailable due to technical issues."},
		},
		References:  []string{"Please consult reliable health resources like the CDC, WHO, or NIH."},
		Disclaimers: []string{"This is a system-generated fallback response due to technical issues."},
	}
}

// TopicInformation routes a single topic to the best-matching member and
// returns its section directly, bypassing selection and fan-out.
func (c *Council) TopicInformation(ctx context.Context, topic string, profile *types.Profile) (types.Section, error) {
	name := routeTopic(topic)
	m, ok := c.byName[name]
	if !ok {
		return types.Section{}, fmt.Errorf("no council member for topic %q", topic)
	}
	value, err := m.Responder.Respond(ctx, Input{Query: topic, Profile: profile})
	if err != nil {
		return types.Section{}, fmt.Errorf("%s: %w", m.Name, err)
	}
	return sectionOf(value), nil
}

func routeTopic(topic string) string {
	t := strings.ToLower(topic)
	switch {
	case containsAny(t, "diet", "nutrition", "food"):
		return "nutrition"
	case containsAny(t, "exercise", "workout", "fitness"):
		return "fitness"
	case containsAny(t, "mental", "stress", "anxiety"):
		return "mental_wellness"
	default:
		return "general_health"
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// sectionOf reads the section fields from a flattened record.
func sectionOf(m map[string]any) types.Section {
	return types.Section{
		Title:     stringOf(m["title"]),
		Content:   stringOf(m["content"]),
		Subtopics: stringsOf(m["subtopics"]),
	}
}

func stringOf(v any) string {
	s, _ := v.(string)
	return s
}

func stringsOf(v any) []string {
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

func collect(set map[string]struct{}, v any) {
	for _, s := range stringsOf(v) {
		set[s] = struct{}{}
	}
}

func sorted(set map[string]struct{}) []string {
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

// ProfileContext renders the profile fields relevant to expert prompts,
// or "" when nothing useful is known. Shared by responder implementations.
func ProfileContext(p *types.Profile) string {
	if p == nil || p.IsEmpty() {
		return ""
	}
	trimmed := types.Profile{
		Age:                p.Age,
		WeightLbs:          p.WeightLbs,
		HeightIn:           p.HeightIn,
		Gender:             p.Gender,
		ActivityLevel:      p.ActivityLevel,
		DietaryPreferences: p.DietaryPreferences,
		HealthConditions:   p.HealthConditions,
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
