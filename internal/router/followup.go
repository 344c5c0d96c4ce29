// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package router

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/mohanganesh3/fitplanner/internal/extract"
	"github.com/mohanganesh3/fitplanner/pkg/types"
)

// maxFollowUps caps the number of suggested questions.
const maxFollowUps = 3

var (
	// listedQuestion matches numbered or bulleted lines ending in a
	// question mark.
	listedQuestion = regexp.MustCompile(`(?m)(?:^|\n)(?:\d+\.|\*|\-)\s*(.*?\?)`)

	// quotedQuestion matches double-quoted questions in prose.
	quotedQuestion = regexp.MustCompile(`"([^"]*?\?)"`)
)

const followUpInstruction = `You suggest natural follow-up questions for a health and fitness
conversation. Respond with a valid JSON array of strings, each a single
standalone question. Format: ["Question 1?", "Question 2?", "Question 3?"]

Rules:
1. Do not start questions with "What are some" or "Are there any".
2. Make questions direct and concise.
3. Avoid "Would you like to know more about" openers.`

// FollowUpQuestions suggests up to three questions the user might ask
// next. It never fails: when the model's output cannot be parsed as a
// JSON array, questions are scraped from the text, and when nothing can
// be scraped the result is empty.
func (s *Strategist) FollowUpQuestions(ctx context.Context, query string, produced map[string]any, profile types.Profile) []string {
	prompt := s.followUpPrompt(query, produced, profile)

	completion, err := s.completer.Complete(ctx, followUpInstruction, prompt, 0.5)
	if err != nil {
		s.logger.Warn("follow-up generation call failed", zap.Error(err))
		return nil
	}

	if list, err := extract.ParseList(completion); err == nil {
		if qs, err := extract.StringList(list); err == nil {
			return cap3(qs)
		}
	}

	// The completion was not a clean array; scrape questions out of the
	// text instead. Tier 1: numbered or bulleted lines.
	if m := listedQuestion.FindAllStringSubmatch(completion, -1); len(m) > 0 {
		return cap3(submatches(m))
	}

	// Tier 2: quoted questions.
	if m := quotedQuestion.FindAllStringSubmatch(completion, -1); len(m) > 0 {
		return cap3(submatches(m))
	}

	// Tier 3: any line containing a question mark.
	var lines []string
	for _, line := range strings.Split(completion, "\n") {
		if strings.Contains(line, "?") {
			lines = append(lines, strings.TrimSpace(line))
		}
	}
	if len(lines) > 0 {
		return cap3(lines)
	}

	s.logger.Warn("no follow-up questions recoverable from completion")
	return nil
}

func (s *Strategist) followUpPrompt(query string, produced map[string]any, profile types.Profile) string {
	var b strings.Builder
	if !profile.IsEmpty() {
		if data, err := json.MarshalIndent(profile, "", "  "); err == nil {
			fmt.Fprintf(&b, "User Profile:\n%s\n\n", data)
		}
	}
	if len(produced) > 0 {
		if data, err := json.MarshalIndent(produced, "", "  "); err == nil {
			fmt.Fprintf(&b, "System Response:\n%s\n\n", data)
		}
	}
	fmt.Fprintf(&b, "Generate 2-3 natural follow-up questions based on this conversation:\n\nUser Query: %q\n", query)
	return b.String()
}

func submatches(matches [][]string) []string {
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, strings.TrimSpace(m[1]))
	}
	return out
}

func cap3(qs []string) []string {
	if len(qs) > maxFollowUps {
		return qs[:maxFollowUps]
	}
	return qs
}
