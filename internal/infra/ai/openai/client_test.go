package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bryanwahyu/healthcare-collab/internal/domain/ai"
)

func newTestServer(t *testing.T, status int, body string, seen *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if seen != nil {
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, seen)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestCompleteSendsJSONModeAndMaxTokens(t *testing.T) {
	var seen map[string]any
	srv := newTestServer(t, http.StatusOK,
		`{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"{\"findings\":\"ok\"}"}}]}`,
		&seen)
	defer srv.Close()

	c := NewClient(Options{APIKey: "test", BaseURL: srv.URL})
	out, err := c.Complete(context.Background(), ai.CompletionRequest{
		Messages:    []ai.Message{{Role: ai.RoleUser, Content: "hi"}},
		Temperature: 0.7,
		MaxTokens:   1000,
		JSON:        true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != `{"findings":"ok"}` {
		t.Fatalf("unexpected content %q", out)
	}
	if seen["model"] != DefaultModel {
		t.Fatalf("expected default model, got %v", seen["model"])
	}
	if seen["max_tokens"] != float64(1000) {
		t.Fatalf("expected max_tokens 1000, got %v", seen["max_tokens"])
	}
	rf, _ := seen["response_format"].(map[string]any)
	if rf["type"] != "json_object" {
		t.Fatalf("expected json_object response format, got %v", seen["response_format"])
	}
}

func TestCompleteMapsRateLimitToQuota(t *testing.T) {
	srv := newTestServer(t, http.StatusTooManyRequests,
		`{"error":{"message":"Rate limit reached","type":"requests","code":"rate_limit_exceeded"}}`, nil)
	defer srv.Close()

	c := NewClient(Options{APIKey: "test", BaseURL: srv.URL})
	_, err := c.Complete(context.Background(), ai.CompletionRequest{
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "hi"}},
	})
	if !errors.Is(err, ai.ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
}

func TestCompleteEmptyChoices(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"id":"x","object":"chat.completion","choices":[]}`, nil)
	defer srv.Close()

	c := NewClient(Options{APIKey: "test", BaseURL: srv.URL, Model: "gpt-4o"})
	if c.Model() != "gpt-4o" {
		t.Fatalf("expected configured model, got %s", c.Model())
	}
	_, err := c.Complete(context.Background(), ai.CompletionRequest{
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "hi"}},
	})
	if !errors.Is(err, ai.ErrEmptyReply) {
		t.Fatalf("expected ErrEmptyReply, got %v", err)
	}
}
