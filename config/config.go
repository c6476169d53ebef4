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


// Package config loads the application configuration from YAML, a .env
// file, and environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/poiesic/manualqa/ai"
	"github.com/poiesic/manualqa/embedding"
	"github.com/poiesic/manualqa/retry"
	"github.com/poiesic/manualqa/search"
	"github.com/poiesic/manualqa/segment"
	"gopkg.in/yaml.v3"
)

// Environment variables read by ApplyEnv.
const (
	EnvAPIKey       = "MANUALQA_API_KEY"
	EnvGeminiAPIKey = "GEMINI_API_KEY"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	EnvManual       = "MANUALQA_MANUAL"
)

// ManualConfig locates the manual and describes its layout.
type ManualConfig struct {
	Source        string `yaml:"source"`
	Name          string `yaml:"name"`
	Marker        string `yaml:"marker"`
	RunningHeader string `yaml:"running_header"`
}

// CacheConfig locates the embedding cache.
type CacheConfig struct {
	Dir string `yaml:"dir"`
}

// AIConfig selects and configures the model provider.
type AIConfig struct {
	Provider        string  `yaml:"provider"`
	EmbeddingHost   string  `yaml:"embedding_host"`
	GenerationHost  string  `yaml:"generation_host"`
	APIKey          string  `yaml:"api_key"`
	EmbeddingModel  string  `yaml:"embedding_model"`
	GenerationModel string  `yaml:"generation_model"`
	Temperature     float64 `yaml:"temperature"`
}

// RetrievalConfig tunes section selection.
type RetrievalConfig struct {
	Threshold float64 `yaml:"threshold"`
	TopN      int     `yaml:"top_n"`
}

// EmbeddingConfig tunes the build phase.
type EmbeddingConfig struct {
	MaxTokens int `yaml:"max_tokens"`
	Workers   int `yaml:"workers"`
}

// RetryConfig tunes provider retries.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	MinBackoff  time.Duration `yaml:"min_backoff"`
	MaxBackoff  time.Duration `yaml:"max_backoff"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Config is the root application configuration.
type Config struct {
	Manual    ManualConfig    `yaml:"manual"`
	Cache     CacheConfig     `yaml:"cache"`
	AI        AIConfig        `yaml:"ai"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Retry     RetryConfig     `yaml:"retry"`
	Server    ServerConfig    `yaml:"server"`
}

// Default returns the built-in configuration.
func Default() *Config {
	aiCfg := ai.DefaultConfig()
	segOpts := segment.DefaultOptions()
	return &Config{
		Manual: ManualConfig{
			Source:        "manual.txt",
			Name:          "VedCool",
			Marker:        segOpts.Marker,
			RunningHeader: segOpts.RunningHeader,
		},
		Cache: CacheConfig{Dir: "manual_embeddings"},
		AI: AIConfig{
			Provider:        aiCfg.Provider,
			EmbeddingHost:   aiCfg.EmbeddingHost,
			GenerationHost:  aiCfg.GenerationHost,
			APIKey:          aiCfg.APIKey,
			EmbeddingModel:  aiCfg.EmbeddingModel,
			GenerationModel: aiCfg.GenerationModel,
		},
		Retrieval: RetrievalConfig{Threshold: search.DefaultThreshold, TopN: search.DefaultTopN},
		Embedding: EmbeddingConfig{MaxTokens: embedding.MaxTokens, Workers: 1},
		Retry:     RetryConfig{MaxAttempts: 5, MinBackoff: time.Second, MaxBackoff: 30 * time.Second},
		Server:    ServerConfig{Addr: ":8000"},
	}
}

// Load reads the YAML file at path over the defaults, then applies .env and
// environment overrides. A missing file, or an empty path, yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", path, err)
			}
		}
	}

	_ = godotenv.Load()
	cfg.ApplyEnv(os.Getenv)
	cfg.applyDefaults()
	return cfg, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ApplyEnv overrides values from the environment. MANUALQA_API_KEY wins over
// the provider-specific key.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvManual); v != "" {
		c.Manual.Source = v
	}

	providerKey := EnvOpenAIAPIKey
	if strings.EqualFold(strings.TrimSpace(c.AI.Provider), ai.ProviderGoogleAI) {
		providerKey = EnvGeminiAPIKey
	}
	if v := getenv(providerKey); v != "" {
		c.AI.APIKey = v
	}
	if v := getenv(EnvAPIKey); v != "" {
		c.AI.APIKey = v
	}
}

// applyDefaults fills zero values left by a partial YAML file.
func (c *Config) applyDefaults() {
	d := Default()
	if c.Manual.Name == "" {
		c.Manual.Name = d.Manual.Name
	}
	if c.Manual.Marker == "" {
		c.Manual.Marker = d.Manual.Marker
	}
	if c.Manual.RunningHeader == "" {
		c.Manual.RunningHeader = d.Manual.RunningHeader
	}
	if c.Embedding.MaxTokens == 0 {
		c.Embedding.MaxTokens = d.Embedding.MaxTokens
	}
	if c.Embedding.Workers == 0 {
		c.Embedding.Workers = d.Embedding.Workers
	}
	if c.Retrieval.TopN == 0 {
		c.Retrieval.TopN = d.Retrieval.TopN
	}
	if c.Retry.MaxAttempts == 0 {
		c.Retry.MaxAttempts = d.Retry.MaxAttempts
	}
	if c.Retry.MaxBackoff == 0 {
		c.Retry.MaxBackoff = max(d.Retry.MaxBackoff, c.Retry.MinBackoff)
	}
	if c.Retry.MinBackoff == 0 {
		c.Retry.MinBackoff = min(d.Retry.MinBackoff, c.Retry.MaxBackoff)
	}
	if strings.EqualFold(c.AI.Provider, ai.ProviderGoogleAI) {
		g := ai.GoogleAIConfig("")
		if c.AI.EmbeddingModel == "" || c.AI.EmbeddingModel == d.AI.EmbeddingModel {
			c.AI.EmbeddingModel = g.EmbeddingModel
		}
		if c.AI.GenerationModel == "" || c.AI.GenerationModel == d.AI.GenerationModel {
			c.AI.GenerationModel = g.GenerationModel
		}
		if c.AI.APIKey == d.AI.APIKey {
			c.AI.APIKey = ""
		}
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Manual.Source) == "" {
		return errors.New("config: manual.source is required")
	}
	if c.Cache.Dir == "" {
		return errors.New("config: cache.dir is required")
	}
	if c.Retrieval.Threshold < -1 || c.Retrieval.Threshold > 1 {
		return search.ErrInvalidThreshold
	}
	if c.Retrieval.TopN < 1 {
		return search.ErrInvalidTopN
	}
	if c.Embedding.Workers < 1 {
		return errors.New("config: embedding.workers must be at least 1")
	}
	if c.Retry.MaxAttempts < 1 {
		return retry.ErrInvalidMaxAttempts
	}
	if c.Retry.MinBackoff < 0 || c.Retry.MaxBackoff < c.Retry.MinBackoff {
		return errors.New("config: retry backoff must satisfy 0 <= min_backoff <= max_backoff")
	}
	return c.AIConfig().Validate()
}

// AIConfig converts the ai section to an ai.Config.
func (c *Config) AIConfig() *ai.Config {
	return &ai.Config{
		Provider:        c.AI.Provider,
		EmbeddingHost:   c.AI.EmbeddingHost,
		GenerationHost:  c.AI.GenerationHost,
		APIKey:          c.AI.APIKey,
		EmbeddingModel:  c.AI.EmbeddingModel,
		GenerationModel: c.AI.GenerationModel,
		Temperature:     c.AI.Temperature,
	}
}

// RetryPolicy builds the provider retry policy.
func (c *Config) RetryPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts: c.Retry.MaxAttempts,
		Backoff:     retry.RandomExponential(c.Retry.MinBackoff, c.Retry.MaxBackoff),
		Retryable:   retry.IsRetryable,
	}
}

// SegmentOptions builds segmenter options for the configured manual.
func (c *Config) SegmentOptions() segment.Options {
	opts := segment.DefaultOptions()
	opts.Marker = c.Manual.Marker
	opts.RunningHeader = c.Manual.RunningHeader
	return opts
}
