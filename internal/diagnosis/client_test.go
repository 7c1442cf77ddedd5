package diagnosis

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/print-expert/repair-service/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(config.DiagnosisConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL + "/v1",
		Model:   "gpt-4o-mini",
	}, zap.NewNop())
	return client, srv
}

func TestSuggestReturnsModelAnswer(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "Replace the pickup rollers."}, "finish_reason": "stop"}]
		}`))
	})

	got := client.Suggest(context.Background(), "HP LaserJet Pro M404dw", "Paper jams when printing duplex.")
	if got != "Replace the pickup rollers." {
		t.Errorf("Suggest = %q", got)
	}
}

func TestSuggestFallsBackOnAPIError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"quota exceeded"}}`, http.StatusTooManyRequests)
	})

	if got := client.Suggest(context.Background(), "HP", "jam"); got != FallbackSuggestion {
		t.Errorf("Suggest on API error = %q, want fallback", got)
	}
}

func TestSuggestFallsBackOnCancelledContext(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"late"}}]}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if got := client.Suggest(ctx, "HP", "jam"); got != FallbackSuggestion {
		t.Errorf("Suggest with cancelled context = %q, want fallback", got)
	}
}

func TestSuggestEmptyAnswer(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  "}}]}`))
	})

	if got := client.Suggest(context.Background(), "HP", "jam"); got != NoSuggestion {
		t.Errorf("Suggest with empty answer = %q, want %q", got, NoSuggestion)
	}
}
