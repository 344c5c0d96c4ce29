package schema

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCoerceAliases(t *testing.T) {
	tests := []struct {
		name   string
		record map[string]any
		want   map[string]any
	}{
		{
			name:   "primary name wins over alias",
			record: map[string]any{"weight_lbs": 170.0, "weight": 999.0},
			want:   map[string]any{"weight_lbs": 170.0},
		},
		{
			name:   "alias resolves in declared order",
			record: map[string]any{"weight": 170.0},
			want:   map[string]any{"weight_lbs": 170.0},
		},
		{
			name:   "later alias used when earlier absent",
			record: map[string]any{"height": 68.0},
			want:   map[string]any{"height_inches": 68.0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Coerce(tt.record, ProfileShape)
			if err != nil {
				t.Fatalf("Coerce() error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got.Fields); diff != "" {
				t.Errorf("fields mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCoercePreservesExtras(t *testing.T) {
	record := map[string]any{
		"age":            30.0,
		"favorite_color": "green",
		"bmi_estimate":   24.7,
	}
	got, err := Coerce(record, ProfileShape)
	if err != nil {
		t.Fatalf("Coerce() error: %v", err)
	}
	wantExtra := map[string]any{
		"favorite_color": "green",
		"bmi_estimate":   24.7,
	}
	if diff := cmp.Diff(wantExtra, got.Extra); diff != "" {
		t.Errorf("extras mismatch (-want +got):\n%s", diff)
	}
	if got.Fields["age"] != 30 {
		t.Errorf("age = %v, want 30", got.Fields["age"])
	}
}

func TestCoerceNumericConversion(t *testing.T) {
	tests := []struct {
		name    string
		record  map[string]any
		wantAge any
		wantErr bool
	}{
		{"numeric string", map[string]any{"age": "35"}, 35, false},
		{"json float", map[string]any{"age": 35.0}, 35, false},
		{"yaml int", map[string]any{"age": 35}, 35, false},
		{"fractional age rejected", map[string]any{"age": 35.5}, nil, true},
		{"non numeric string rejected", map[string]any{"age": "thirty"}, nil, true},
		{"below lower bound", map[string]any{"age": 12}, nil, true},
		{"above upper bound", map[string]any{"age": 121}, nil, true},
		{"at lower bound", map[string]any{"age": 13}, 13, false},
		{"at upper bound", map[string]any{"age": 120}, 120, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Coerce(tt.record, ProfileShape)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Coerce() succeeded, want error")
				}
				var cErr *CoercionError
				if !errors.As(err, &cErr) {
					t.Fatalf("error is %T, want *CoercionError", err)
				}
				if cErr.Field != "age" {
					t.Errorf("error names field %q, want %q", cErr.Field, "age")
				}
				return
			}
			if err != nil {
				t.Fatalf("Coerce() error: %v", err)
			}
			if got.Fields["age"] != tt.wantAge {
				t.Errorf("age = %v (%T), want %v", got.Fields["age"], got.Fields["age"], tt.wantAge)
			}
		})
	}
}

func TestCoerceRequiredField(t *testing.T) {
	_, err := Coerce(map[string]any{"content": "some text"}, SectionShape)
	if err == nil {
		t.Fatal("Coerce() succeeded without required title")
	}
	var cErr *CoercionError
	if !errors.As(err, &cErr) {
		t.Fatalf("error is %T, want *CoercionError", err)
	}
	if cErr.Field != "title" {
		t.Errorf("error names field %q, want title", cErr.Field)
	}
}

func TestCoerceSection(t *testing.T) {
	record := map[string]any{
		"topic":       "  Protein   Intake ",
		"information": "Aim for 0.8g per kg of body weight.",
		"sources":     []any{"WHO", "NIH"},
		"disclaimer":  "Consult a professional.",
	}
	got, err := Coerce(record, SectionShape)
	if err != nil {
		t.Fatalf("Coerce() error: %v", err)
	}
	if got.String("title") != "Protein Intake" {
		t.Errorf("title = %q", got.String("title"))
	}
	if got.String("content") == "" {
		t.Error("content empty")
	}
	if diff := cmp.Diff([]string{"WHO", "NIH"}, got.StringList("references")); diff != "" {
		t.Errorf("references mismatch (-want +got):\n%s", diff)
	}
	// A bare scalar where a list is expected becomes a one-element list.
	if diff := cmp.Diff([]string{"Consult a professional."}, got.StringList("disclaimers")); diff != "" {
		t.Errorf("disclaimers mismatch (-want +got):\n%s", diff)
	}
}

func TestCoerceQuantity(t *testing.T) {
	shape := Shape{
		Name: "exercise",
		Fields: []Field{
			{Name: "duration", Kind: KindQuantity},
		},
	}

	tests := []struct {
		name string
		raw  any
		want string
	}{
		{"string passes through", "30 seconds", "30 seconds"},
		{"string is whitespace collapsed", " 30   seconds ", "30 seconds"},
		{"bare number formatted", 30.0, "30"},
		{"value unit object", map[string]any{"value": 30.0, "unit": "seconds"}, "30 seconds"},
		{"object without unit", map[string]any{"value": 12.0}, "12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Coerce(map[string]any{"duration": tt.raw}, shape)
			if err != nil {
				t.Fatalf("Coerce() error: %v", err)
			}
			if got.Fields["duration"] != tt.want {
				t.Errorf("duration = %v, want %q", got.Fields["duration"], tt.want)
			}
		})
	}
}

func TestCoerceMealList(t *testing.T) {
	record := map[string]any{
		"meal_plan": []any{
			map[string]any{
				"meal_time": "Breakfast",
				"options":   []any{"oatmeal", "eggs"},
				"calories":  400.0,
			},
			map[string]any{
				"type":  "Lunch",
				"foods": []any{"salad"},
				"prep":  "batch cook Sunday",
			},
		},
	}
	got, err := Coerce(record, DietPlanShape)
	if err != nil {
		t.Fatalf("Coerce() error: %v", err)
	}
	meals, ok := got.Fields["meals"].([]map[string]any)
	if !ok {
		t.Fatalf("meals is %T", got.Fields["meals"])
	}
	if len(meals) != 2 {
		t.Fatalf("len(meals) = %d", len(meals))
	}
	if meals[0]["name"] != "Breakfast" {
		t.Errorf("meal 0 name = %v", meals[0]["name"])
	}
	if diff := cmp.Diff([]string{"oatmeal", "eggs"}, meals[0]["items"]); diff != "" {
		t.Errorf("meal 0 items mismatch (-want +got):\n%s", diff)
	}
	if meals[1]["name"] != "Lunch" {
		t.Errorf("meal 1 name = %v", meals[1]["name"])
	}
	// Undeclared keys on elements survive flattening.
	if meals[1]["prep"] != "batch cook Sunday" {
		t.Errorf("meal 1 prep = %v", meals[1]["prep"])
	}
}

func TestModelFlatten(t *testing.T) {
	m := &Model{
		Fields: map[string]any{"a": 1},
		Extra:  map[string]any{"a": 2, "b": 3},
	}
	got := m.Flatten()
	if got["a"] != 1 {
		t.Errorf("declared field should win collision, got %v", got["a"])
	}
	if got["b"] != 3 {
		t.Errorf("extra missing, got %v", got["b"])
	}
}
