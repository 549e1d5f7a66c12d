// Package config holds environment-derived settings shared across a run.
package config

import "github.com/caarlos0/env/v11"

// Config is resolved once at startup. Provider API keys are intentionally
// not part of this struct: they are looked up per provider identity at
// resolution time (see the llm package).
type Config struct {
	// WhisperModelPath points at a local ggml whisper model file.
	WhisperModelPath string `env:"WHISPER_MODEL_PATH"`
	// HTTPTimeoutSeconds bounds a single GET fetch.
	HTTPTimeoutSeconds int `env:"RECAP_HTTP_TIMEOUT" envDefault:"60"`
	// HeadlessTimeoutSeconds bounds a headless browser render.
	HeadlessTimeoutSeconds int `env:"RECAP_HEADLESS_TIMEOUT" envDefault:"90"`
	// UserAgent is sent on direct GET fetches.
	UserAgent string `env:"RECAP_USER_AGENT" envDefault:"recap/1.0 (+https://github.com/ostier/recap)"`
}

// Load parses the process environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
