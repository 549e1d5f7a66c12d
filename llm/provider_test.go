package llm

import (
	"errors"
	"sort"
	"testing"
)

func TestInferIdentity(t *testing.T) {
	cases := []struct {
		model string
		want  Identity
	}{
		{"gpt-4o", IdentityOpenAI},
		{"chatgpt-4o-latest", IdentityOpenAI},
		{"o3-mini", IdentityOpenAI},
		{"claude-sonnet-4-20250514", IdentityAnthropic},
		{"gemini-2.5-flash", IdentityGemini},
		{"grok-3", IdentityXAI},
		{"deepseek-chat", IdentityDeepSeek},
		{"command-r-plus", IdentityCohere},
		{"glm-4.5", IdentityZai},
		{"accounts/fireworks/models/llama-v3p1-70b-instruct", IdentityFireworks},
	}
	for _, tc := range cases {
		got, err := InferIdentity(tc.model)
		if err != nil {
			t.Errorf("InferIdentity(%q): unexpected error %v", tc.model, err)
			continue
		}
		if got != tc.want {
			t.Errorf("InferIdentity(%q) = %s, want %s", tc.model, got, tc.want)
		}
	}
}

func TestInferIdentityUnknown(t *testing.T) {
	_, err := InferIdentity("mystery-model-9000")
	if !errors.Is(err, ErrUnknownModel) {
		t.Errorf("expected ErrUnknownModel, got %v", err)
	}
}

func TestInferIdentityDeterministic(t *testing.T) {
	first, err := InferIdentity("gpt-4o")
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 100; i++ {
		got, err := InferIdentity("gpt-4o")
		if err != nil || got != first {
			t.Fatalf("inference not stable: got %s (%v), want %s", got, err, first)
		}
	}
}

func TestIdentitiesSortedAndComplete(t *testing.T) {
	names := Identities()
	if len(names) != len(endpoints) {
		t.Fatalf("got %d names, want %d", len(names), len(endpoints))
	}
	if !sort.StringsAreSorted(names) {
		t.Errorf("names not sorted: %v", names)
	}
	for _, name := range names {
		if _, err := ParseIdentity(name); err != nil {
			t.Errorf("listed name %q does not parse: %v", name, err)
		}
	}
}

func TestParseIdentity(t *testing.T) {
	id, err := ParseIdentity(" OpenAI ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != IdentityOpenAI {
		t.Errorf("got %s, want %s", id, IdentityOpenAI)
	}

	if _, err := ParseIdentity("nonesuch"); err == nil {
		t.Error("expected error for unknown provider name")
	}
}

func TestResolveMissingKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := Resolve("", "gpt-4o")
	var missing *MissingKeyError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingKeyError, got %v", err)
	}
	if missing.Provider != IdentityOpenAI || missing.Var != "OPENAI_API_KEY" {
		t.Errorf("unexpected fields: %+v", missing)
	}
}

func TestResolveExplicitWinsOverInference(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")

	// The model name says OpenAI but the explicit provider must win.
	_, err := Resolve(IdentityGroq, "gpt-4o")
	var missing *MissingKeyError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingKeyError, got %v", err)
	}
	if missing.Provider != IdentityGroq {
		t.Errorf("resolved %s, want %s", missing.Provider, IdentityGroq)
	}
}

func TestResolveOllamaNeedsNoKey(t *testing.T) {
	adapter, err := Resolve(IdentityOllama, "llama3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if adapter == nil {
		t.Error("expected an adapter")
	}
}

func TestResolveUnknownModel(t *testing.T) {
	_, err := Resolve("", "mystery-model-9000")
	if !errors.Is(err, ErrUnknownModel) {
		t.Errorf("expected ErrUnknownModel, got %v", err)
	}
}
