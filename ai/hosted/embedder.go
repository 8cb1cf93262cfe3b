// Package hosted provides an ai.Embedder for the hosted OpenAI embeddings API.
package hosted

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"

	openai "github.com/sashabaranov/go-openai"

	"github.com/poiesic/phrasetrack/ai"
)

// Embedder implements ai.Embedder on top of the go-openai client.
type Embedder struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

// Option configures an Embedder.
type Option func(*openai.ClientConfig)

// WithBaseURL points the client at a different API root, e.g. an Azure
// deployment or a test server.
func WithBaseURL(url string) Option {
	return func(c *openai.ClientConfig) {
		c.BaseURL = url
	}
}

// NewEmbedder creates an embedder using the model and API key from config.
func NewEmbedder(config *ai.Config, opts ...Option) (ai.Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Provider != ai.ProviderHosted {
		return nil, fmt.Errorf("hosted embedder: provider is %q", config.Provider)
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	for _, opt := range opts {
		opt(&clientConfig)
	}

	return &Embedder{
		client: openai.NewClientWithConfig(clientConfig),
		model:  config.EmbeddingModel,
		logger: slog.Default().With("component", "hosted-embedder"),
	}, nil
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedTexts generates vector embeddings for multiple texts with one API request.
// Vectors are L2 normalized.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	e.logger.Debug("generating embeddings for texts", "count", len(texts))

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: texts,
	})
	if err != nil {
		e.logger.Error("failed to generate embeddings", "model", e.model, "err", err)
		return nil, fmt.Errorf("openai api: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: want %d, got %d", ai.ErrShortBatch, len(texts), len(resp.Data))
	}

	data := resp.Data
	sort.Slice(data, func(i, j int) bool { return data[i].Index < data[j].Index })

	out := make([][]float32, len(data))
	for i, d := range data {
		if len(d.Embedding) == 0 {
			return nil, errors.Join(ai.ErrEmptyVector, fmt.Errorf("text %d", i))
		}
		v := make([]float32, len(d.Embedding))
		copy(v, d.Embedding)
		l2normalize(v)
		out[i] = v
	}
	return out, nil
}

// l2normalize normalizes a vector to unit length
func l2normalize(v []float32) {
	var sum float32
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	inv := float32(1.0 / math.Sqrt(float64(sum)))
	for i := range v {
		v[i] *= inv
	}
}
