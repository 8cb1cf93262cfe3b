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

// Package phrasetrack finds tracker phrases in transcribed speech, verbatim
// or paraphrased, and reports where they occur by sentence and word.
//
// An Engine wires an embedding provider, an optional persistent vector
// cache and an analysis.Analyzer:
//
//	engine, err := phrasetrack.NewEngine(phrasetrack.WithCacheDir("/var/cache/phrasetrack"))
//	if err != nil {
//		return err
//	}
//	defer engine.Close()
//	records, err := engine.Analyze(ctx, transcript, []string{"how are you"})
package phrasetrack

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/phrasetrack/ai"
	"github.com/poiesic/phrasetrack/ai/hosted"
	"github.com/poiesic/phrasetrack/ai/local"
	"github.com/poiesic/phrasetrack/ai/openai"
	"github.com/poiesic/phrasetrack/analysis"
	"github.com/poiesic/phrasetrack/core"
	"github.com/poiesic/phrasetrack/similarity"
	"github.com/poiesic/phrasetrack/storage"
	"github.com/poiesic/phrasetrack/storage/badger"
)

// Engine finds tracker phrases in transcripts. It owns the embedding
// provider, the optional vector cache and the analyzer, and must be closed
// with Close.
type Engine struct {
	embedder ai.Embedder
	provider ai.AIProvider
	cache    storage.VectorCache
	analyzer *analysis.Analyzer
	logger   *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig     *ai.Config
	embedder     ai.Embedder
	cacheDir     string
	analysisOpts []analysis.Option
	logger       *slog.Logger
}

// WithAIConfig sets the embedding provider configuration.
// Default is ai.DefaultConfig(). A nil config keeps the default.
func WithAIConfig(config *ai.Config) EngineOption {
	return func(o *engineOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithEmbedder uses embedder instead of creating one from the AI configuration.
func WithEmbedder(embedder ai.Embedder) EngineOption {
	return func(o *engineOptions) {
		o.embedder = embedder
	}
}

// WithCacheDir stores word vectors in a badger database at path so that
// they are embedded only once per model.
func WithCacheDir(path string) EngineOption {
	return func(o *engineOptions) {
		o.cacheDir = path
	}
}

// WithAnalysisOptions passes options to the analyzer.
func WithAnalysisOptions(opts ...analysis.Option) EngineOption {
	return func(o *engineOptions) {
		o.analysisOpts = append(o.analysisOpts, opts...)
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// NewEngine creates an Engine. Without WithEmbedder the embedder is built
// from the AI configuration, wrapped with its retry policy; WithCacheDir
// opens a persistent vector cache shared by every analysis.
func NewEngine(opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		aiConfig: ai.DefaultConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}
	if err := options.aiConfig.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		embedder: options.embedder,
		logger:   options.logger.With("component", "engine"),
	}

	if e.embedder == nil {
		embedder, provider, err := newEmbedder(options.aiConfig)
		if err != nil {
			return nil, err
		}
		e.embedder = embedder
		e.provider = provider
	}

	vectorOpts := []similarity.Option{
		similarity.WithRetry(options.aiConfig.MaxRetries, options.aiConfig.RetryDelay),
	}
	if options.cacheDir != "" {
		cache, err := badger.OpenVectorCache(options.cacheDir)
		if err != nil {
			e.Close()
			return nil, fmt.Errorf("opening vector cache: %w", err)
		}
		e.cache = cache
		vectorOpts = append(vectorOpts, similarity.WithCache(cache, options.aiConfig.ModelKey()))
	}

	analysisOpts := append([]analysis.Option{
		analysis.WithLogger(options.logger),
		analysis.WithVectorOptions(vectorOpts...),
	}, options.analysisOpts...)

	analyzer, err := analysis.NewAnalyzer(e.embedder, analysisOpts...)
	if err != nil {
		e.Close()
		return nil, err
	}
	e.analyzer = analyzer

	e.logger.Debug("engine ready", "provider", options.aiConfig.Provider, "model", options.aiConfig.ModelKey(), "cache", options.cacheDir)
	return e, nil
}

// newEmbedder creates the embedder selected by config.Provider. The provider
// is nil for embedders that hold no resources.
func newEmbedder(config *ai.Config) (ai.Embedder, ai.AIProvider, error) {
	switch config.Provider {
	case ai.ProviderLocal:
		embedder, err := local.NewEmbedder(config)
		return embedder, nil, err
	case ai.ProviderHosted:
		embedder, err := hosted.NewEmbedder(config)
		return embedder, nil, err
	case ai.ProviderOpenAI:
		provider, err := openai.NewProvider(config)
		if err != nil {
			return nil, nil, err
		}
		return provider.Embedder(), provider, nil
	}
	return nil, nil, fmt.Errorf("unknown embedding provider %q", config.Provider)
}

// Analyze finds trackers in text. See analysis.Analyzer.Analyze.
func (e *Engine) Analyze(ctx context.Context, text string, trackers []string) ([]core.MatchRecord, error) {
	return e.analyzer.Analyze(ctx, text, trackers)
}

// Analyzer returns the analyzer of the engine.
func (e *Engine) Analyzer() *analysis.Analyzer {
	return e.analyzer
}

// VectorCache returns the vector cache, or nil when caching is disabled.
func (e *Engine) VectorCache() storage.VectorCache {
	return e.cache
}

func (e *Engine) Close() error {
	if e.analyzer != nil {
		e.analyzer.Release()
	}

	if e.provider != nil {
		if err := e.provider.Close(); err != nil {
			e.logger.Error("error closing AI provider", "err", err)
		}
	}

	if e.cache != nil {
		if err := e.cache.Close(); err != nil {
			e.logger.Error("error closing vector cache", "err", err)
			return err
		}
	}
	return nil
}
