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

package ai

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Embedding provider names accepted by Config.Provider.
const (
	// ProviderLocal embeds offline with feature hashing (package ai/local).
	ProviderLocal = "local"
	// ProviderOpenAI talks to an OpenAI-compatible host such as Ollama (package ai/openai).
	ProviderOpenAI = "openai"
	// ProviderHosted talks to the hosted OpenAI API with an API key (package ai/hosted).
	ProviderHosted = "hosted"
)

// Config holds configuration for embedding service providers.
type Config struct {
	// Provider selects the embedding backend: "local", "openai" or "hosted".
	// Default: "local"
	Provider string

	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	EmbeddingHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "embeddinggemma", "text-embedding-3-small"
	EmbeddingModel string

	// APIKey authenticates against the hosted API. OpenAI-compatible local
	// hosts usually accept any token.
	APIKey string

	// Dimensions is the vector size produced by the local embedder.
	// Default: 256
	Dimensions int

	// MaxRetries is the maximum number of attempts for an embedding request.
	// Default: 3
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff between attempts.
	// Default: 1s
	RetryDelay time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithProvider selects the embedding backend.
func WithProvider(provider string) ConfigOption {
	return func(c *Config) {
		c.Provider = provider
	}
}

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithAPIKey sets the API key used by the hosted provider.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithDimensions sets the vector size of the local embedder.
func WithDimensions(dim int) ConfigOption {
	return func(c *Config) {
		c.Dimensions = dim
	}
}

// WithRetry sets the retry policy for embedding requests.
func WithRetry(maxRetries int, delay time.Duration) ConfigOption {
	return func(c *Config) {
		c.MaxRetries = maxRetries
		c.RetryDelay = delay
	}
}

// DefaultConfig returns a Config with sensible defaults. The local provider
// needs no running service.
func DefaultConfig() *Config {
	return &Config{
		Provider:       ProviderLocal,
		EmbeddingHost:  "http://localhost:11434/v1",
		EmbeddingModel: "embeddinggemma",
		Dimensions:     256,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithProvider(ProviderOpenAI),
//	    WithEmbeddingHost("http://localhost:11434"),
//	    WithEmbeddingModel("nomic-embed-text"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It lower-cases the provider name and adds the /v1 suffix to the host if
// missing, which is required by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.EmbeddingHost != "" && !strings.HasSuffix(c.EmbeddingHost, "/v1") {
		// Remove trailing slash if present before adding /v1
		c.EmbeddingHost = strings.TrimSuffix(c.EmbeddingHost, "/")
		c.EmbeddingHost = c.EmbeddingHost + "/v1"
	}
}

// ModelKey identifies the vector space produced by this configuration.
// Vectors from different model keys must never be compared.
func (c *Config) ModelKey() string {
	switch c.Provider {
	case ProviderLocal:
		return fmt.Sprintf("%s:%d", ProviderLocal, c.Dimensions)
	case ProviderHosted:
		return ProviderHosted + ":" + c.EmbeddingModel
	}
	return c.Provider + ":" + c.EmbeddingHost + ":" + c.EmbeddingModel
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	switch c.Provider {
	case ProviderLocal:
		if c.Dimensions < 16 {
			return errors.New("ai config: Dimensions must be at least 16")
		}
	case ProviderOpenAI:
		if c.EmbeddingHost == "" {
			return errors.New("ai config: EmbeddingHost is required")
		}
		if c.EmbeddingModel == "" {
			return errors.New("ai config: EmbeddingModel is required")
		}
	case ProviderHosted:
		if c.EmbeddingModel == "" {
			return errors.New("ai config: EmbeddingModel is required")
		}
		if c.APIKey == "" {
			return errors.New("ai config: APIKey is required for the hosted provider")
		}
	default:
		return fmt.Errorf("ai config: unknown Provider %q", c.Provider)
	}

	if c.MaxRetries < 1 {
		return errors.New("ai config: MaxRetries must be at least 1")
	}
	if c.RetryDelay < 0 {
		return errors.New("ai config: RetryDelay cannot be negative")
	}
	return nil
}
