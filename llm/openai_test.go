package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ostier/recap/prompt"
)

// sseServer streams the given deltas as chat completion chunks.
func sseServer(t *testing.T, deltas []string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, delta := range deltas {
			fmt.Fprintf(w,
				"data: {\"id\":\"cmpl-1\",\"object\":\"chat.completion.chunk\",\"choices\":[{\"index\":0,\"delta\":{\"content\":%q}}]}\n\n",
				delta)
			flusher.Flush()
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
		flusher.Flush()
	}))
	t.Cleanup(server.Close)
	return server
}

func TestOpenAIChatStreamConcatenation(t *testing.T) {
	deltas := []string{"A short ", "summary of ", "the document."}
	server := sseServer(t, deltas)

	adapter := newOpenAIChatAdapter(server.URL, "test-key")
	stream, err := adapter.Complete(context.Background(), "gpt-4o", prompt.Messages{
		System: "You summarize.",
		User:   "Summarize this.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := Collect(stream)
	if err != nil {
		t.Fatalf("unexpected stream error: %v", err)
	}
	if out != "A short summary of the document." {
		t.Errorf("concatenated chunks = %q", out)
	}
}

func errorServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, `{"error":{"message":"nope","type":"test_error"}}`)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestOpenAIChatErrorClasses(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrAuth},
		{http.StatusTooManyRequests, ErrRateLimited},
		{http.StatusNotFound, ErrInvalidModel},
		{http.StatusInternalServerError, ErrUnavailable},
	}
	for _, tc := range cases {
		server := errorServer(t, tc.status)
		adapter := newOpenAIChatAdapter(server.URL, "test-key")
		stream, err := adapter.Complete(context.Background(), "gpt-4o", prompt.Messages{User: "hi"})
		if err != nil {
			t.Fatalf("status %d: unexpected error: %v", tc.status, err)
		}
		_, err = Collect(stream)
		if !errors.Is(err, tc.want) {
			t.Errorf("status %d: got %v, want %v", tc.status, err, tc.want)
		}
	}
}

func TestOpenAIChatCancellation(t *testing.T) {
	server := sseServer(t, []string{"one", "two", "three"})
	adapter := newOpenAIChatAdapter(server.URL, "test-key")

	ctx, cancel := context.WithCancel(context.Background())
	stream, err := adapter.Complete(ctx, "gpt-4o", prompt.Messages{User: "hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !stream.Next() {
		t.Fatal("expected at least one chunk")
	}
	cancel()
	stream.Close()
}
