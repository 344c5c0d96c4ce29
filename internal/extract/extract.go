// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract recovers structured JSON from model completion text.
//
// Generative models asked for JSON frequently return almost-JSON: fenced
// code blocks, raw newlines inside string literals, unquoted measurement
// values, trailing commas, or prose wrapped around the object. Parse runs
// a fixed sequence of recovery strategies, from strict to permissive, and
// returns the first object any strategy yields.
package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Error reports that every recovery strategy failed. Raw retains the
// complete completion text for diagnosis upstream.
type Error struct {
	Raw string
}

func (e *Error) Error() string {
	return "no recovery strategy produced a JSON object"
}

var (
	// fencedObject matches a ```json fenced block (or a bare fence)
	// containing an object. Lazy so the first block wins.
	fencedObject = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

	// fencedArray is the array counterpart used by ParseList.
	fencedArray = regexp.MustCompile("(?s)```(?:json)?\\s*(\\[.*?\\])\\s*```")

	// newlineRun matches a newline and any trailing indentation.
	newlineRun = regexp.MustCompile(`\n\s*`)

	// bareUnitValue matches unquoted measurement values such as
	// `"duration": 30 seconds` or `"reps": 10-12 reps`.
	bareUnitValue = regexp.MustCompile(`:\s*(\d+(?:-\d+)?)\s+(seconds|minutes|reps|sets|each|direction|per|side|leg|arm)`)

	// bareUnitPhrase matches the three-token form, e.g. `: 30 per leg`.
	bareUnitPhrase = regexp.MustCompile(`:\s*(\d+(?:-\d+)?)\s+(each|per)\s+(side|leg|arm|direction)`)

	trailingCommaObj = regexp.MustCompile(`,\s*}`)
	trailingCommaArr = regexp.MustCompile(`,\s*]`)
)

// strategy attempts one recovery approach. It returns the recovered
// object and whether it succeeded.
type strategy struct {
	name string
	fn   func(string) (map[string]any, bool)
}

// strategies is the fixed recovery order. Earlier entries are stricter;
// reordering changes which parse wins for ambiguous inputs.
var strategies = []strategy{
	{"direct", parseDirect},
	{"fenced-block", parseFenced},
	{"newline-collapse", parseNewlineCollapse},
	{"textual-repair", parseRepaired},
	{"yaml", parseYAML},
	{"leading-prefix", parseLeadingPrefix},
	{"brace-substring", parseBraceSubstring},
}

// Parse recovers a JSON object from completion text. Strategies run in
// order and the first success wins. If none succeeds, the returned error
// is an *Error retaining the raw text.
func Parse(text string) (map[string]any, error) {
	obj, _, err := parse(text)
	return obj, err
}

// parse additionally reports the index of the winning strategy.
func parse(text string) (map[string]any, int, error) {
	for i, s := range strategies {
		if obj, ok := s.fn(text); ok {
			return obj, i, nil
		}
	}
	return nil, -1, &Error{Raw: text}
}

// parseDirect is the strict path: the trimmed text is the object.
func parseDirect(text string) (map[string]any, bool) {
	return unmarshalObject(strings.TrimSpace(text))
}

// parseFenced extracts the first fenced code block holding an object.
func parseFenced(text string) (map[string]any, bool) {
	m := fencedObject.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	return unmarshalObject(m[1])
}

// parseNewlineCollapse replaces each newline run with a single space.
// This repairs raw line breaks inside string literals.
func parseNewlineCollapse(text string) (map[string]any, bool) {
	collapsed := newlineRun.ReplaceAllString(text, " ")
	return unmarshalObject(strings.TrimSpace(collapsed))
}

// parseRepaired quotes bare measurement values and strips trailing
// commas, then parses. The three-token rule runs first so that
// `: 30 per leg` is not half-quoted by the two-token rule.
func parseRepaired(text string) (map[string]any, bool) {
	fixed := bareUnitPhrase.ReplaceAllString(text, `: "${1} ${2} ${3}"`)
	fixed = bareUnitValue.ReplaceAllString(fixed, `: "${1} ${2}"`)
	fixed = trailingCommaObj.ReplaceAllString(fixed, "}")
	fixed = trailingCommaArr.ReplaceAllString(fixed, "]")
	return unmarshalObject(strings.TrimSpace(fixed))
}

// parseYAML treats the text as YAML, which accepts JSON as a subset and
// tolerates unquoted strings and sloppy quoting. Only mapping documents
// are accepted.
func parseYAML(text string) (map[string]any, bool) {
	var obj map[string]any
	if err := yaml.Unmarshal([]byte(text), &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

// parseLeadingPrefix decodes the first JSON value at the start of the
// text and ignores whatever follows it.
func parseLeadingPrefix(text string) (map[string]any, bool) {
	dec := json.NewDecoder(strings.NewReader(strings.TrimSpace(text)))
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

// parseBraceSubstring is the last resort: everything from the first `{`
// to the last `}`.
func parseBraceSubstring(text string) (map[string]any, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return nil, false
	}
	return unmarshalObject(text[start : end+1])
}

func unmarshalObject(s string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

// ParseList recovers a JSON array from completion text. It tries a
// direct parse, then a fenced block, then the first-`[`-to-last-`]`
// substring.
func ParseList(text string) ([]any, error) {
	if list, ok := unmarshalArray(strings.TrimSpace(text)); ok {
		return list, nil
	}
	if m := fencedArray.FindStringSubmatch(text); m != nil {
		if list, ok := unmarshalArray(m[1]); ok {
			return list, nil
		}
	}
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start != -1 && end > start {
		if list, ok := unmarshalArray(text[start : end+1]); ok {
			return list, nil
		}
	}
	return nil, &Error{Raw: text}
}

func unmarshalArray(s string) ([]any, bool) {
	var list []any
	if err := json.Unmarshal([]byte(s), &list); err != nil {
		return nil, false
	}
	return list, true
}

// StringList narrows a recovered array to its string elements. A non-string
// element is an error; the caller decides whether to fall back.
func StringList(list []any) ([]string, error) {
	out := make([]string, 0, len(list))
	for i, v := range list {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("element %d is %T, not a string", i, v)
		}
		out = append(out, s)
	}
	return out, nil
}
