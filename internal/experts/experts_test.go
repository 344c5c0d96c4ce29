// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package experts

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mohanganesh3/fitplanner/internal/council"
	"github.com/mohanganesh3/fitplanner/pkg/types"
)

type mockCompleter struct {
	reply          string
	err            error
	gotInstruction string
	gotPrompt      string
	gotTemperature float64
}

func (m *mockCompleter) Complete(_ context.Context, instruction, prompt string, temperature float64) (string, error) {
	m.gotInstruction = instruction
	m.gotPrompt = prompt
	m.gotTemperature = temperature
	return m.reply, m.err
}

func TestExpertRespondCoercesSection(t *testing.T) {
	model := &mockCompleter{reply: "```json\n" + `{
		"topic": "Protein intake",
		"body": "Aim for 0.8g per kg of body weight.",
		"subtopics": ["Timing", "Sources"],
		"sources": ["WHO protein report"],
		"disclaimer": "Consult a dietitian"
	}` + "\n```"}
	roster := Roster(model)
	nutrition := roster[1].Responder

	got, err := nutrition.Respond(context.Background(), council.Input{Query: "how much protein do I need?"})
	if err != nil {
		t.Fatal(err)
	}

	want := map[string]any{
		"title":       "Protein intake",
		"content":     "Aim for 0.8g per kg of body weight.",
		"subtopics":   []string{"Timing", "Sources"},
		"references":  []string{"WHO protein report"},
		"disclaimers": []string{"Consult a dietitian"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("section mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(model.gotPrompt, `"how much protein do I need?"`) {
		t.Errorf("prompt missing query: %q", model.gotPrompt)
	}
	if model.gotTemperature != defaultTemperature {
		t.Errorf("temperature = %v, want %v", model.gotTemperature, defaultTemperature)
	}
}

func TestExpertRespondIncludesProfileContext(t *testing.T) {
	model := &mockCompleter{reply: `{"title": "t", "content": "c"}`}
	age := 42
	profile := &types.Profile{Age: &age, DietaryPreferences: []string{"vegetarian"}}
	fitness := Roster(model)[2].Responder

	if _, err := fitness.Respond(context.Background(), council.Input{Query: "leg day ideas", Profile: profile}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(model.gotPrompt, "User Profile:") {
		t.Errorf("prompt missing profile context: %q", model.gotPrompt)
	}
	if !strings.Contains(model.gotPrompt, `"vegetarian"`) {
		t.Errorf("prompt missing dietary preference: %q", model.gotPrompt)
	}
}

func TestExpertRespondFailures(t *testing.T) {
	cases := []struct {
		name  string
		model *mockCompleter
	}{
		{"transport error", &mockCompleter{err: errors.New("api unavailable")}},
		{"unparseable reply", &mockCompleter{reply: "Sure! Here are some thoughts on that."}},
		{"missing required field", &mockCompleter{reply: `{"title": "only a title"}`}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			expert := Roster(tc.model)[0].Responder
			_, err := expert.Respond(context.Background(), council.Input{Query: "q"})
			if err == nil {
				t.Fatal("want error")
			}
			if !strings.Contains(err.Error(), "general_health") {
				t.Errorf("error does not name the expert: %v", err)
			}
		})
	}
}

func TestRosterOrderAndNames(t *testing.T) {
	var names []string
	for _, m := range Roster(&mockCompleter{}) {
		names = append(names, m.Name)
	}
	want := []string{"general_health", "nutrition", "fitness", "mental_wellness"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("roster mismatch (-want +got):\n%s", diff)
	}
}
