// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package profile extracts, merges, and stores what is known about a
// user. Extraction runs two passes: a deterministic regex scan for
// explicitly stated facts, and a model pass for nuance. Scanned facts
// always win over model output for the same field.
package profile

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// lbsPerKg converts stated metric weights to the stored unit.
const lbsPerKg = 2.20462

var (
	agePhrase  = regexp.MustCompile(`(?i)(?:I am|I'm)\s+(\d+)(?:\s+years old|\s+years|\s+yo\b)`)
	ageLabeled = regexp.MustCompile(`(?i)(?:age|aged?)[:\s]+(\d+)`)

	weightPhrase = regexp.MustCompile(`(?i)(?:I weigh|my weight is|weight[:\s]+)(?:about|around|approximately)?\s*(\d+\.?\d*)\s*(kg|kilos?|pounds?|lbs?)`)

	heightPhrase = regexp.MustCompile(`(?i)(?:I am|I'm|height[:\s]+)(?:about|around|approximately)?\s*(\d+)['"]?\s*(?:feet|foot|ft)\.?\s*(?:and|,)?\s*(\d+)?['"]?\s*(?:inches|inch|in)?`)
)

// dietPatterns map statement forms to the list field they populate.
var dietPatterns = []struct {
	re    *regexp.Regexp
	field string
}{
	{regexp.MustCompile(`(?i)\b(?:I am|I'm)\s+(?:a\s+)?(vegan|vegetarian|pescatarian|flexitarian|carnivore|omnivore)\b`), "dietary_preferences"},
	{regexp.MustCompile(`(?i)\b(?:I follow|I'm on|I do)\s+(?:a\s+)?(keto|paleo|mediterranean|dash|low[\s-]carb|high[\s-]protein)\s+(?:diet|eating plan)\b`), "dietary_preferences"},
	{regexp.MustCompile(`(?i)\bI don't eat\s+([\w\s,]+)`), "dietary_restrictions"},
	{regexp.MustCompile(`(?i)\bI'm allergic to\s+([\w\s,]+)`), "allergies"},
	{regexp.MustCompile(`(?i)\bI can't have\s+([\w\s,]+)`), "dietary_restrictions"},
}

// goalPatterns capture stated fitness goals.
var goalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:I want to|I'd like to|looking to|goal is to)\s+(lose weight|build muscle|get stronger|improve endurance|increase flexibility|tone up|bulk up)`),
	regexp.MustCompile(`(?i)(?:I'm trying to|I aim to|I need to)\s+(lose weight|build muscle|get stronger|improve endurance|increase flexibility|tone up|bulk up)`),
}

// Scan extracts explicitly stated profile facts from a message. Keys use
// the profile record vocabulary: age, weight_lbs, height_inches, and the
// list fields. Metric weight is converted to pounds, rounded to one
// decimal.
func Scan(message string) map[string]any {
	facts := map[string]any{}

	if m := agePhrase.FindStringSubmatch(message); m != nil {
		if age, err := strconv.Atoi(m[1]); err == nil {
			facts["age"] = age
		}
	} else if m := ageLabeled.FindStringSubmatch(message); m != nil {
		if age, err := strconv.Atoi(m[1]); err == nil {
			facts["age"] = age
		}
	}

	if m := weightPhrase.FindStringSubmatch(message); m != nil {
		if val, err := strconv.ParseFloat(m[1], 64); err == nil {
			unit := strings.ToLower(m[2])
			if strings.Contains(unit, "kg") || strings.Contains(unit, "kilo") {
				val *= lbsPerKg
			}
			facts["weight_lbs"] = math.Round(val*10) / 10
		}
	}

	if m := heightPhrase.FindStringSubmatch(message); m != nil {
		feet, errF := strconv.Atoi(m[1])
		inches := 0
		if m[2] != "" {
			if n, err := strconv.Atoi(m[2]); err == nil {
				inches = n
			}
		}
		if errF == nil {
			facts["height_inches"] = float64(feet*12 + inches)
		}
	}

	for _, p := range dietPatterns {
		for _, m := range p.re.FindAllStringSubmatch(message, -1) {
			value := strings.ToLower(strings.TrimSpace(m[1]))
			if value == "" {
				continue
			}
			list, _ := facts[p.field].([]string)
			if !contains(list, value) {
				facts[p.field] = append(list, value)
			}
		}
	}

	var goals []string
	for _, re := range goalPatterns {
		for _, m := range re.FindAllStringSubmatch(message, -1) {
			goal := strings.ToLower(strings.TrimSpace(m[1]))
			if goal != "" && !contains(goals, goal) {
				goals = append(goals, goal)
			}
		}
	}
	if len(goals) > 0 {
		facts["fitness_goals"] = goals
	}

	return facts
}

// HasInfo reports whether a message states any scannable profile fact.
func HasInfo(message string) bool {
	return len(Scan(message)) > 0
}

func contains(list []string, s string) bool {
	for _, e := range list {
		if e == s {
			return true
		}
	}
	return false
}
