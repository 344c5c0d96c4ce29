package profile

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mohanganesh3/fitplanner/pkg/types"
)

func TestScan(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want map[string]any
	}{
		{
			name: "age phrase",
			msg:  "I'm 35 years old and love hiking",
			want: map[string]any{"age": 35},
		},
		{
			name: "age labeled",
			msg:  "age: 42",
			want: map[string]any{"age": 42},
		},
		{
			name: "weight in pounds",
			msg:  "I weigh 180 lbs",
			want: map[string]any{"weight_lbs": 180.0},
		},
		{
			name: "weight in kg converts to pounds",
			msg:  "my weight is 80 kg",
			want: map[string]any{"weight_lbs": 176.4},
		},
		{
			name: "height feet and inches",
			msg:  "I'm 5 feet 10 inches",
			want: map[string]any{"height_inches": 70.0},
		},
		{
			name: "dietary preference",
			msg:  "I'm a vegetarian",
			want: map[string]any{"dietary_preferences": []string{"vegetarian"}},
		},
		{
			name: "named diet",
			msg:  "I follow a keto diet these days",
			want: map[string]any{"dietary_preferences": []string{"keto"}},
		},
		{
			name: "allergy",
			msg:  "I'm allergic to peanuts",
			want: map[string]any{"allergies": []string{"peanuts"}},
		},
		{
			name: "fitness goal",
			msg:  "I want to lose weight this year",
			want: map[string]any{"fitness_goals": []string{"lose weight"}},
		},
		{
			name: "goals deduplicated",
			msg:  "I want to build muscle because I'm trying to build muscle",
			want: map[string]any{"fitness_goals": []string{"build muscle"}},
		},
		{
			name: "combined statement",
			msg:  "I'm 35 years old, I weigh 80 kg, and I want to lose weight",
			want: map[string]any{
				"age":           35,
				"weight_lbs":    176.4,
				"fitness_goals": []string{"lose weight"},
			},
		},
		{
			name: "nothing stated",
			msg:  "what are good sources of fiber?",
			want: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Scan(tt.msg)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Scan() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHasInfo(t *testing.T) {
	if !HasInfo("I'm 35 years old") {
		t.Error("HasInfo() missed a stated age")
	}
	if HasInfo("tell me about vitamin D") {
		t.Error("HasInfo() flagged a plain question")
	}
}

// mockCompleter returns a canned completion.
type mockCompleter struct {
	response string
	err      error
}

func (m *mockCompleter) Complete(_ context.Context, _, _ string, _ float64) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func TestMergerConfidenceFilter(t *testing.T) {
	mock := &mockCompleter{response: `{
		"extracted_profile": {
			"age": 35,
			"activity_level": "moderate",
			"gender": "female"
		},
		"confidence_scores": {"age": 0.95, "activity_level": 0.4},
		"missing_information": ["height_inches"]
	}`}

	m := NewMerger(mock, 0, nil)
	got := m.Extract(context.Background(), "I'm a 35 year old woman, fairly active I guess")

	if got.Profile.Age == nil || *got.Profile.Age != 35 {
		t.Errorf("age = %v, want 35", got.Profile.Age)
	}
	// activity_level scored 0.4, below the 0.6 threshold.
	if got.Profile.ActivityLevel != nil {
		t.Errorf("low-confidence activity_level kept: %v", *got.Profile.ActivityLevel)
	}
	// gender had no confidence score at all.
	if got.Profile.Gender != nil {
		t.Errorf("unscored gender kept: %v", *got.Profile.Gender)
	}
	if diff := cmp.Diff([]string{"height_inches"}, got.Missing); diff != "" {
		t.Errorf("missing mismatch (-want +got):\n%s", diff)
	}
	if !got.NewInfo {
		t.Error("NewInfo = false with extracted fields present")
	}
}

func TestMergerScannedFactsOverrideModel(t *testing.T) {
	// The model misreads the weight; the regex scan of the same message
	// must win.
	mock := &mockCompleter{response: `{
		"extracted_profile": {"weight_lbs": 80, "age": 35},
		"confidence_scores": {"weight_lbs": 0.9, "age": 0.9}
	}`}

	m := NewMerger(mock, 0, nil)
	got := m.Extract(context.Background(), "I'm 35 years old and I weigh 80 kg")

	if got.Profile.WeightLbs == nil || *got.Profile.WeightLbs != 176.4 {
		t.Errorf("weight = %v, want 176.4 (scanned kg conversion)", got.Profile.WeightLbs)
	}
	if got.Profile.Age == nil || *got.Profile.Age != 35 {
		t.Errorf("age = %v, want 35", got.Profile.Age)
	}
}

func TestMergerFallsBackToScanOnly(t *testing.T) {
	tests := []struct {
		name string
		mock *mockCompleter
	}{
		{"model error", &mockCompleter{err: errors.New("api down")}},
		{"unparseable completion", &mockCompleter{response: "sorry, no JSON today"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMerger(tt.mock, 0, nil)
			got := m.Extract(context.Background(), "I weigh 180 lbs")
			if got.Profile.WeightLbs == nil || *got.Profile.WeightLbs != 180.0 {
				t.Errorf("weight = %v, want 180 from scan", got.Profile.WeightLbs)
			}
		})
	}
}

func TestMergerKeepsOutOfRangeValue(t *testing.T) {
	// Age 150 exceeds the profile bounds; validation failure keeps the
	// record unvalidated instead of discarding the stated value.
	mock := &mockCompleter{response: `{
		"extracted_profile": {"age": 150, "fitness_goals": ["build muscle"]},
		"confidence_scores": {"age": 0.9, "fitness_goals": 0.9}
	}`}

	m := NewMerger(mock, 0, nil)
	got := m.Extract(context.Background(), "some message")

	if got.Profile.Age == nil || *got.Profile.Age != 150 {
		t.Errorf("age = %v, want 150 kept unvalidated", got.Profile.Age)
	}
	if diff := cmp.Diff([]string{"build muscle"}, got.Profile.FitnessGoals); diff != "" {
		t.Errorf("goals mismatch (-want +got):\n%s", diff)
	}
}

func TestMergerDropsUnreadableField(t *testing.T) {
	// "soon" cannot be read as an age at all; that one field is dropped
	// and the rest of the record survives.
	mock := &mockCompleter{response: `{
		"extracted_profile": {"age": "soon", "fitness_goals": ["build muscle"]},
		"confidence_scores": {"age": 0.9, "fitness_goals": 0.9}
	}`}

	m := NewMerger(mock, 0, nil)
	got := m.Extract(context.Background(), "some message")

	if got.Profile.Age != nil {
		t.Errorf("unreadable age kept: %v", *got.Profile.Age)
	}
	if diff := cmp.Diff([]string{"build muscle"}, got.Profile.FitnessGoals); diff != "" {
		t.Errorf("goals mismatch (-want +got):\n%s", diff)
	}
}

func TestMergerPreservesExtras(t *testing.T) {
	mock := &mockCompleter{response: `{
		"extracted_profile": {"age": 35, "favorite_sport": "climbing"},
		"confidence_scores": {"age": 0.9, "favorite_sport": 0.9}
	}`}

	m := NewMerger(mock, 0, nil)
	got := m.Extract(context.Background(), "some message")

	if got.Profile.Extra["favorite_sport"] != "climbing" {
		t.Errorf("extra field lost: %v", got.Profile.Extra)
	}
}

func TestMergerQuestions(t *testing.T) {
	mock := &mockCompleter{response: `["How tall are you?", "How active is your typical week?"]`}
	m := NewMerger(mock, 0, nil)
	got := m.Questions(context.Background(), types.Profile{}, "context")
	if len(got) != 2 {
		t.Fatalf("Questions() = %v", got)
	}

	wrapped := &mockCompleter{response: `{"questions": ["How tall are you?"]}`}
	m = NewMerger(wrapped, 0, nil)
	got = m.Questions(context.Background(), types.Profile{}, "context")
	if len(got) != 1 || got[0] != "How tall are you?" {
		t.Errorf("Questions() = %v", got)
	}
}

func TestMemStoreReplaceSemantics(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	age := 30
	weight := 176.4
	if err := s.Put(ctx, "u1", types.Profile{Age: &age, WeightLbs: &weight}); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	// The second Put states only the age. Replacement is wholesale, so
	// the weight must be gone afterwards.
	newAge := 31
	if err := s.Put(ctx, "u1", types.Profile{Age: &newAge}); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	got, err := s.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Age == nil || *got.Age != 31 {
		t.Errorf("age = %v, want 31", got.Age)
	}
	if got.WeightLbs != nil {
		t.Errorf("weight survived a full replace: %v", *got.WeightLbs)
	}
}

func TestMemStoreUnknownUser(t *testing.T) {
	got, err := NewMemStore().Get(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if !got.IsEmpty() {
		t.Errorf("unknown user profile not empty: %+v", got)
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "profiles.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error: %v", err)
	}
	defer s.Close()

	age := 28
	p := types.Profile{
		Age:                &age,
		DietaryPreferences: []string{"vegetarian"},
		Extra:              map[string]any{"favorite_sport": "climbing"},
	}
	if err := s.Put(ctx, "u1", p); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	got, err := s.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if diff := cmp.Diff(p, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	// Replace and confirm the old fields are gone.
	weight := 150.0
	if err := s.Put(ctx, "u1", types.Profile{WeightLbs: &weight}); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	got, err = s.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Age != nil {
		t.Errorf("age survived a full replace: %v", *got.Age)
	}
	if got.WeightLbs == nil || *got.WeightLbs != 150.0 {
		t.Errorf("weight = %v, want 150", got.WeightLbs)
	}

	// Unknown users read as empty.
	got, err = s.Get(ctx, "nobody")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if !got.IsEmpty() {
		t.Errorf("unknown user profile not empty: %+v", got)
	}
}
