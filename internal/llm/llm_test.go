// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mohanganesh3/fitplanner/internal/httputil"
)

func TestMain(m *testing.M) {
	// Avoid real backoff sleeps in retry paths.
	httputil.RetryBaseDelay = time.Millisecond
	m.Run()
}

func TestClaudeClientComplete(t *testing.T) {
	var gotReq claudeRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-api-key"); got != "test-key" {
			t.Errorf("x-api-key = %q", got)
		}
		if got := r.Header.Get("anthropic-version"); got == "" {
			t.Error("missing anthropic-version header")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		json.NewEncoder(w).Encode(claudeResponse{
			Content: []claudeContent{
				{Type: "text", Text: "hello "},
				{Type: "tool_use", Text: "ignored"},
				{Type: "text", Text: "world"},
			},
		})
	}))
	defer ts.Close()

	old := claudeAPIURL
	claudeAPIURL = ts.URL
	defer func() { claudeAPIURL = old }()

	c := &ClaudeClient{APIKey: "test-key", Model: "test-model"}
	out, err := c.Complete(context.Background(), "be terse", "say hello", 0.3)
	if err != nil {
		t.Fatalf("Complete() error: %v", err)
	}
	if out != "hello world" {
		t.Errorf("Complete() = %q, want %q", out, "hello world")
	}
	if gotReq.System != "be terse" {
		t.Errorf("system = %q", gotReq.System)
	}
	if gotReq.Temperature != 0.3 {
		t.Errorf("temperature = %v", gotReq.Temperature)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Content != "say hello" {
		t.Errorf("messages = %+v", gotReq.Messages)
	}
}

func TestClaudeClientRetriesRateLimit(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(claudeResponse{
			Content: []claudeContent{{Type: "text", Text: "ok"}},
		})
	}))
	defer ts.Close()

	old := claudeAPIURL
	claudeAPIURL = ts.URL
	defer func() { claudeAPIURL = old }()

	c := &ClaudeClient{APIKey: "k", Model: "m", MaxRetries: 2}
	out, err := c.Complete(context.Background(), "", "hi", 0)
	if err != nil {
		t.Fatalf("Complete() error: %v", err)
	}
	if out != "ok" {
		t.Errorf("Complete() = %q", out)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestClaudeClientErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "bad key"}`, http.StatusUnauthorized)
	}))
	defer ts.Close()

	old := claudeAPIURL
	claudeAPIURL = ts.URL
	defer func() { claudeAPIURL = old }()

	c := &ClaudeClient{APIKey: "wrong", Model: "m"}
	if _, err := c.Complete(context.Background(), "", "hi", 0); err == nil {
		t.Fatal("Complete() succeeded on 401")
	}
}

func TestClaudeClientEmptyContent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(claudeResponse{})
	}))
	defer ts.Close()

	old := claudeAPIURL
	claudeAPIURL = ts.URL
	defer func() { claudeAPIURL = old }()

	c := &ClaudeClient{APIKey: "k", Model: "m"}
	if _, err := c.Complete(context.Background(), "", "hi", 0); err == nil {
		t.Fatal("Complete() succeeded on empty content")
	}
}
