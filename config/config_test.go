// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/manualqa/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvAPIKey, EnvGeminiAPIKey, EnvOpenAIAPIKey, EnvManual} {
		t.Setenv(key, "")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 0.40, cfg.Retrieval.Threshold)
	assert.Equal(t, 3, cfg.Retrieval.TopN)
	assert.Equal(t, 8000, cfg.Embedding.MaxTokens)
	assert.Equal(t, 1, cfg.Embedding.Workers)
	assert.Equal(t, 5, cfg.Retry.MaxAttempts)
	assert.Equal(t, time.Second, cfg.Retry.MinBackoff)
	assert.Equal(t, 30*time.Second, cfg.Retry.MaxBackoff)
	assert.Equal(t, "TABLE OF CONTENT", cfg.Manual.Marker)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_PartialFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
manual:
  source: docs/manual.pdf
  name: Acme
retrieval:
  threshold: 0.55
retry:
  max_attempts: 2
  min_backoff: 10ms
  max_backoff: 1s
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "docs/manual.pdf", cfg.Manual.Source)
	assert.Equal(t, "Acme", cfg.Manual.Name)
	assert.Equal(t, "User Manual", cfg.Manual.RunningHeader)
	assert.Equal(t, 0.55, cfg.Retrieval.Threshold)
	assert.Equal(t, 3, cfg.Retrieval.TopN)
	assert.Equal(t, 2, cfg.Retry.MaxAttempts)
	assert.Equal(t, 10*time.Millisecond, cfg.Retry.MinBackoff)
	assert.Equal(t, time.Second, cfg.Retry.MaxBackoff)
}

func TestLoad_ZeroAttemptsKeepsBackoff(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
manual:
  source: manual.txt
retry:
  max_attempts: 0
  min_backoff: 200ms
  max_backoff: 2s
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Retry.MaxAttempts)
	assert.Equal(t, 200*time.Millisecond, cfg.Retry.MinBackoff)
	assert.Equal(t, 2*time.Second, cfg.Retry.MaxBackoff)
	assert.NoError(t, cfg.Validate())
}

func TestApplyDefaults_RetryFields(t *testing.T) {
	tests := []struct {
		name  string
		given RetryConfig
		want  RetryConfig
	}{
		{"empty", RetryConfig{}, RetryConfig{MaxAttempts: 5, MinBackoff: time.Second, MaxBackoff: 30 * time.Second}},
		{"attempts only", RetryConfig{MaxAttempts: 2}, RetryConfig{MaxAttempts: 2, MinBackoff: time.Second, MaxBackoff: 30 * time.Second}},
		{"min only", RetryConfig{MinBackoff: 200 * time.Millisecond}, RetryConfig{MaxAttempts: 5, MinBackoff: 200 * time.Millisecond, MaxBackoff: 30 * time.Second}},
		{"short max", RetryConfig{MaxBackoff: 500 * time.Millisecond}, RetryConfig{MaxAttempts: 5, MinBackoff: 500 * time.Millisecond, MaxBackoff: 500 * time.Millisecond}},
		{"long min", RetryConfig{MinBackoff: 45 * time.Second}, RetryConfig{MaxAttempts: 5, MinBackoff: 45 * time.Second, MaxBackoff: 45 * time.Second}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Retry: tt.given}
			cfg.applyDefaults()
			assert.Equal(t, tt.want, cfg.Retry)
		})
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("manual: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_GoogleAIDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvGeminiAPIKey, "gemini-key")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ai:\n  provider: googleai\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gemini-key", cfg.AI.APIKey)
	assert.Equal(t, "text-embedding-004", cfg.AI.EmbeddingModel)
	assert.Equal(t, "gemini-1.5-flash", cfg.AI.GenerationModel)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_GoogleAIWithoutKeyFailsValidation(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ai:\n  provider: googleai\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.AI.APIKey)
	assert.ErrorContains(t, cfg.Validate(), "APIKey is required")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvOpenAIAPIKey: "openai-key",
		EnvGeminiAPIKey: "gemini-key",
		EnvManual:       "https://example.com/manual.pdf",
	}
	getenv := func(key string) string { return env[key] }

	cfg := Default()
	cfg.ApplyEnv(getenv)
	assert.Equal(t, "openai-key", cfg.AI.APIKey)
	assert.Equal(t, "https://example.com/manual.pdf", cfg.Manual.Source)

	cfg = Default()
	cfg.AI.Provider = ai.ProviderGoogleAI
	cfg.ApplyEnv(getenv)
	assert.Equal(t, "gemini-key", cfg.AI.APIKey)

	env[EnvAPIKey] = "override"
	cfg = Default()
	cfg.ApplyEnv(getenv)
	assert.Equal(t, "override", cfg.AI.APIKey)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"empty source", func(c *Config) { c.Manual.Source = " " }, true},
		{"empty cache dir", func(c *Config) { c.Cache.Dir = "" }, true},
		{"threshold too high", func(c *Config) { c.Retrieval.Threshold = 1.1 }, true},
		{"zero top n", func(c *Config) { c.Retrieval.TopN = 0 }, true},
		{"zero workers", func(c *Config) { c.Embedding.Workers = 0 }, true},
		{"zero attempts", func(c *Config) { c.Retry.MaxAttempts = 0 }, true},
		{"inverted backoff", func(c *Config) { c.Retry.MinBackoff = time.Minute }, true},
		{"unknown provider", func(c *Config) { c.AI.Provider = "bogus" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRetryPolicy(t *testing.T) {
	cfg := Default()
	cfg.Retry.MaxAttempts = 3
	policy := cfg.RetryPolicy()
	assert.Equal(t, 3, policy.MaxAttempts)
	require.NotNil(t, policy.Backoff)
	delay := policy.Backoff(1)
	assert.GreaterOrEqual(t, delay, time.Second)
	assert.LessOrEqual(t, delay, 30*time.Second)
	assert.NotNil(t, policy.Retryable)
}

func TestSegmentOptions(t *testing.T) {
	cfg := Default()
	cfg.Manual.Marker = "CONTENTS"
	cfg.Manual.RunningHeader = "Acme Guide"
	opts := cfg.SegmentOptions()
	assert.Equal(t, "CONTENTS", opts.Marker)
	assert.Equal(t, "Acme Guide", opts.RunningHeader)
	assert.Equal(t, 700, opts.ScanWindow)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Manual.Name = "Acme"
	cfg.Retry.MinBackoff = 250 * time.Millisecond
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
