package pipeline

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/ostier/recap/config"
	"github.com/ostier/recap/extract"
	"github.com/ostier/recap/llm"
	"github.com/ostier/recap/prompt"
)

func testConfig() config.Config {
	return config.Config{
		HTTPTimeoutSeconds:     5,
		HeadlessTimeoutSeconds: 5,
		UserAgent:              "test",
	}
}

func TestExtractTextFromHTMLPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><body><p>Hi</p></body></html>"))
	}))
	defer server.Close()

	p := New(testConfig())
	text, err := p.ExtractText(context.Background(), Options{Input: server.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "Hi") {
		t.Errorf("extracted text %q does not contain page content", text)
	}
}

func TestExtractTextFromLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("plain notes"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := New(testConfig())
	text, err := p.ExtractText(context.Background(), Options{Input: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "plain notes" {
		t.Errorf("got %q, want the file content verbatim", text)
	}
}

func TestExtractTextForcedPDFOnGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.bin")
	if err := os.WriteFile(path, []byte("this is not a pdf"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := New(testConfig())
	_, err := p.ExtractText(context.Background(), Options{
		Input:           path,
		ForcedExtractor: extract.KindPDF,
	})
	if !errors.Is(err, extract.ErrCorrupt) {
		t.Errorf("expected ErrCorrupt, got %v", err)
	}
}

func TestRunMissingKeyBeforeAnyFetch(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	p := New(testConfig())
	err := p.Run(context.Background(), Options{
		Input: server.URL,
		Model: "gpt-4o",
		Out:   &bytes.Buffer{},
	})

	var missing *llm.MissingKeyError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingKeyError, got %v", err)
	}
	if hits.Load() != 0 {
		t.Errorf("fetch happened before key check: %d requests", hits.Load())
	}
}

func TestFetchStatusErrorNotRetried(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	p := New(testConfig())
	_, err := p.ExtractText(context.Background(), Options{Input: server.URL})
	if err == nil {
		t.Fatal("expected an error for 404")
	}
	if hits.Load() != 1 {
		t.Errorf("404 was retried: %d requests", hits.Load())
	}
}

// fakeStream replays fixed chunks and ends with a fixed error.
type fakeStream struct {
	chunks []string
	err    error
	pos    int
	cur    string
}

func (s *fakeStream) Next() bool {
	if s.pos >= len(s.chunks) {
		return false
	}
	s.cur = s.chunks[s.pos]
	s.pos++
	return true
}

func (s *fakeStream) Current() string { return s.cur }
func (s *fakeStream) Err() error      { return s.err }
func (s *fakeStream) Close() error    { return nil }

// fakeAdapter fails the first failCalls completions with a rate limit.
type fakeAdapter struct {
	failCalls int
	stream    func() llm.Stream
	calls     int
}

func (a *fakeAdapter) Complete(_ context.Context, _ string, _ prompt.Messages) (llm.Stream, error) {
	a.calls++
	if a.calls <= a.failCalls {
		return nil, llm.ErrRateLimited
	}
	return a.stream(), nil
}

func TestSummarizeRetriesRateLimitBeforeOutput(t *testing.T) {
	adapter := &fakeAdapter{
		failCalls: 1,
		stream: func() llm.Stream {
			return &fakeStream{chunks: []string{"summary ", "text"}}
		},
	}

	var out bytes.Buffer
	p := New(testConfig())
	err := p.summarize(context.Background(), adapter, "gpt-4o", prompt.Messages{User: "x"}, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "summary text" {
		t.Errorf("got %q", out.String())
	}
	if adapter.calls != 2 {
		t.Errorf("expected one retry, got %d calls", adapter.calls)
	}
}

func TestSummarizeDoesNotRetryAfterOutput(t *testing.T) {
	adapter := &fakeAdapter{
		stream: func() llm.Stream {
			return &fakeStream{chunks: []string{"partial "}, err: llm.ErrRateLimited}
		},
	}

	var out bytes.Buffer
	p := New(testConfig())
	err := p.summarize(context.Background(), adapter, "gpt-4o", prompt.Messages{User: "x"}, &out)
	if !errors.Is(err, llm.ErrRateLimited) {
		t.Fatalf("expected rate limit error, got %v", err)
	}
	if adapter.calls != 1 {
		t.Errorf("retried after partial output: %d calls", adapter.calls)
	}
	if out.String() != "partial " {
		t.Errorf("partial output lost: %q", out.String())
	}
}

func TestSummarizeAuthErrorNotRetried(t *testing.T) {
	adapter := &fakeAdapter{
		stream: func() llm.Stream {
			return &fakeStream{err: llm.ErrAuth}
		},
	}

	var out bytes.Buffer
	p := New(testConfig())
	err := p.summarize(context.Background(), adapter, "gpt-4o", prompt.Messages{User: "x"}, &out)
	if !errors.Is(err, llm.ErrAuth) {
		t.Fatalf("expected auth error, got %v", err)
	}
	if adapter.calls != 1 {
		t.Errorf("auth error was retried: %d calls", adapter.calls)
	}
}
