// Package llm resolves model names to provider adapters and streams
// completions from them.
package llm

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/ostier/recap/prompt"
)

// Identity names one of the supported LLM providers.
type Identity string

const (
	IdentityOpenAI        Identity = "openai"
	IdentityOpenAIResp    Identity = "openai-resp"
	IdentityAnthropic     Identity = "anthropic"
	IdentityGemini        Identity = "gemini"
	IdentityFireworks     Identity = "fireworks"
	IdentityTogether      Identity = "together"
	IdentityGroq          Identity = "groq"
	IdentityMimo          Identity = "mimo"
	IdentityNebius        Identity = "nebius"
	IdentityXAI           Identity = "xai"
	IdentityDeepSeek      Identity = "deepseek"
	IdentityZai           Identity = "zai"
	IdentityBigModel      Identity = "bigmodel"
	IdentityCohere        Identity = "cohere"
	IdentityOllama        Identity = "ollama"
	IdentityGitHubCopilot Identity = "github-copilot"
)

func (i Identity) String() string { return string(i) }

// ParseIdentity validates a provider name given on the command line.
func ParseIdentity(s string) (Identity, error) {
	id := Identity(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := endpoints[id]; !ok {
		return "", errors.Errorf("unknown provider %q", s)
	}
	return id, nil
}

// Identities lists the supported provider names in sorted order, for help
// text.
func Identities() []string {
	names := make([]string, 0, len(endpoints))
	for id := range endpoints {
		names = append(names, string(id))
	}
	sort.Strings(names)
	return names
}

// Adapter streams a completion from one provider API family.
type Adapter interface {
	Complete(ctx context.Context, model string, messages prompt.Messages) (Stream, error)
}

// endpoint describes how to reach one provider. A nil build falls back to
// the OpenAI-compatible chat adapter against baseURL.
type endpoint struct {
	keyEnv  string
	baseURL string
	build   func(key string) Adapter
}

// endpoints is the provider table. Most entries are OpenAI-compatible chat
// APIs differing only in base URL and key variable.
var endpoints = map[Identity]endpoint{
	IdentityOpenAI:     {keyEnv: "OPENAI_API_KEY", baseURL: "https://api.openai.com/v1"},
	IdentityOpenAIResp: {keyEnv: "OPENAI_API_KEY", build: newResponsesAdapter},
	IdentityAnthropic:  {keyEnv: "ANTHROPIC_API_KEY", build: newAnthropicAdapter},
	IdentityGemini:     {keyEnv: "GEMINI_API_KEY", build: newGeminiAdapter},
	IdentityFireworks:  {keyEnv: "FIREWORKS_API_KEY", baseURL: "https://api.fireworks.ai/inference/v1"},
	IdentityTogether:   {keyEnv: "TOGETHER_API_KEY", baseURL: "https://api.together.xyz/v1"},
	IdentityGroq:       {keyEnv: "GROQ_API_KEY", baseURL: "https://api.groq.com/openai/v1"},
	IdentityMimo:       {keyEnv: "MIMO_API_KEY", baseURL: "https://api.mimo.xiaomi.com/v1"},
	IdentityNebius:     {keyEnv: "NEBIUS_API_KEY", baseURL: "https://api.studio.nebius.com/v1"},
	IdentityXAI:        {keyEnv: "XAI_API_KEY", baseURL: "https://api.x.ai/v1"},
	IdentityDeepSeek:   {keyEnv: "DEEPSEEK_API_KEY", baseURL: "https://api.deepseek.com/v1"},
	IdentityZai:        {keyEnv: "ZAI_API_KEY", baseURL: "https://api.z.ai/api/paas/v4"},
	IdentityBigModel:   {keyEnv: "BIGMODEL_API_KEY", baseURL: "https://open.bigmodel.cn/api/paas/v4"},
	// Cohere exposes an OpenAI-compatible surface alongside its native API.
	IdentityCohere: {keyEnv: "COHERE_API_KEY", baseURL: "https://api.cohere.ai/compatibility/v1"},
	// Local Ollama needs no key.
	IdentityOllama:        {baseURL: "http://localhost:11434/v1"},
	IdentityGitHubCopilot: {keyEnv: "GITHUB_COPILOT_API_KEY", baseURL: "https://models.inference.ai.azure.com"},
}

// inferRules maps model-name prefixes to providers, checked in order so
// that longer or more specific prefixes win.
var inferRules = []struct {
	prefix   string
	identity Identity
}{
	{"gpt-", IdentityOpenAI},
	{"chatgpt-", IdentityOpenAI},
	{"o1", IdentityOpenAI},
	{"o3", IdentityOpenAI},
	{"o4", IdentityOpenAI},
	{"claude", IdentityAnthropic},
	{"gemini", IdentityGemini},
	{"grok", IdentityXAI},
	{"deepseek", IdentityDeepSeek},
	{"command", IdentityCohere},
	{"glm", IdentityZai},
	{"accounts/fireworks/", IdentityFireworks},
}

// InferIdentity guesses the provider from a model name. The rules are
// checked in declaration order, so inference is deterministic.
func InferIdentity(model string) (Identity, error) {
	name := strings.ToLower(model)
	for _, rule := range inferRules {
		if strings.HasPrefix(name, rule.prefix) {
			return rule.identity, nil
		}
	}
	return "", errors.Wrapf(ErrUnknownModel, "model %q", model)
}

// Resolve picks the adapter for a model. An explicit provider wins over
// inference from the model name. The API key is checked here so that a
// missing key fails before any request is made.
func Resolve(explicit Identity, model string) (Adapter, error) {
	id := explicit
	if id == "" {
		inferred, err := InferIdentity(model)
		if err != nil {
			return nil, err
		}
		id = inferred
	}

	ep, ok := endpoints[id]
	if !ok {
		return nil, errors.Errorf("unknown provider %q", id)
	}

	key := ""
	if ep.keyEnv != "" {
		key = os.Getenv(ep.keyEnv)
		if key == "" {
			return nil, &MissingKeyError{Provider: id, Var: ep.keyEnv}
		}
	}

	if ep.build != nil {
		return ep.build(key), nil
	}
	return newOpenAIChatAdapter(ep.baseURL, key), nil
}
