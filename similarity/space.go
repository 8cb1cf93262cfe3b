package similarity

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/poiesic/phrasetrack/ai"
	"github.com/poiesic/phrasetrack/core"
	"github.com/poiesic/phrasetrack/storage"
)

const (
	defaultBatchSize  = 64
	defaultMaxRetries = 3
	defaultRetryDelay = time.Second
)

// VectorSpace holds one unit vector per distinct word of a set of documents
// and scores spans by the cosine of their mean word vectors.
// A VectorSpace is read-only after construction and safe for concurrent use.
type VectorSpace struct {
	vectors map[string][]float32
	dim     int
}

var _ Scorer = (*VectorSpace)(nil)

type spaceBuilder struct {
	embedder   ai.Embedder
	cache      storage.VectorCache
	model      string
	batchSize  int
	maxRetries int
	retryDelay time.Duration
	logger     *slog.Logger
}

// Option configures how a VectorSpace is built.
type Option func(*spaceBuilder) error

// WithCache resolves vectors through cache before calling the embedder and
// stores the newly embedded vectors under model. A nil cache disables caching.
func WithCache(cache storage.VectorCache, model string) Option {
	return func(b *spaceBuilder) error {
		b.cache = cache
		b.model = model
		return nil
	}
}

// WithBatchSize sets how many texts are sent per embedding request.
// Default is 64.
func WithBatchSize(size int) Option {
	return func(b *spaceBuilder) error {
		if size < 1 {
			return ErrInvalidBatchSize
		}
		b.batchSize = size
		return nil
	}
}

// WithRetry sets the retry policy of embedding requests.
// Default is 3 attempts with a 1s base delay.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(b *spaceBuilder) error {
		if maxAttempts < 1 {
			return ErrInvalidMaxAttempts
		}
		b.maxRetries = maxAttempts
		b.retryDelay = baseDelay
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *spaceBuilder) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// NewVectorSpace embeds the vocabulary of docs. Every distinct case folded
// text of a non-punctuation token gets a normalized vector.
func NewVectorSpace(ctx context.Context, embedder ai.Embedder, docs []*core.Document, opts ...Option) (*VectorSpace, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	b := &spaceBuilder{
		embedder:   embedder,
		batchSize:  defaultBatchSize,
		maxRetries: defaultMaxRetries,
		retryDelay: defaultRetryDelay,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	b.logger = b.logger.With("component", "vector-space")
	return b.build(ctx, vocabulary(docs))
}

// vocabulary returns the sorted distinct words of docs.
func vocabulary(docs []*core.Document) []string {
	seen := make(map[string]bool)
	var words []string
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		for _, tok := range doc.Tokens {
			if tok.IsPunct || tok.Lower == "" || seen[tok.Lower] {
				continue
			}
			seen[tok.Lower] = true
			words = append(words, tok.Lower)
		}
	}
	sort.Strings(words)
	return words
}

func (b *spaceBuilder) build(ctx context.Context, words []string) (*VectorSpace, error) {
	space := &VectorSpace{vectors: make(map[string][]float32, len(words))}
	missing := words

	if b.cache != nil && len(words) > 0 {
		cached, err := b.cache.GetVectors(ctx, b.model, words)
		if err != nil {
			b.logger.Warn("vector cache read failed, embedding all words", "err", err)
		} else {
			missing = nil
			for _, w := range words {
				if v, ok := cached[w]; ok {
					if err := space.add(w, v); err != nil {
						return nil, err
					}
					continue
				}
				missing = append(missing, w)
			}
		}
	}

	fresh := make(map[string][]float32, len(missing))
	for start := 0; start < len(missing); start += b.batchSize {
		end := min(start+b.batchSize, len(missing))
		batch := missing[start:end]

		var vectors [][]float32
		err := RetryWithBackoff(ctx, func() error {
			var err error
			vectors, err = b.embedder.EmbedTexts(ctx, batch)
			if err == nil && len(vectors) != len(batch) {
				err = fmt.Errorf("%w: want %d, got %d", ai.ErrShortBatch, len(batch), len(vectors))
			}
			return err
		}, b.maxRetries, b.retryDelay)
		if err != nil {
			return nil, fmt.Errorf("%w: batch of %d words after %d attempts: %w", ErrEmbeddingFailed, len(batch), b.maxRetries, err)
		}

		for i, w := range batch {
			if len(vectors[i]) == 0 {
				b.logger.Warn("embedder returned an empty vector", "word", w)
				continue
			}
			v := NormalizeVector(vectors[i])
			if err := space.add(w, v); err != nil {
				return nil, err
			}
			fresh[w] = v
		}
	}

	if b.cache != nil && len(fresh) > 0 {
		if err := b.cache.PutVectors(ctx, b.model, fresh); err != nil {
			b.logger.Warn("vector cache write failed", "count", len(fresh), "err", err)
		}
	}

	b.logger.Debug("vector space built", "words", len(words), "embedded", len(fresh), "dimensions", space.dim)
	return space, nil
}

func (s *VectorSpace) add(word string, v []float32) error {
	if s.dim == 0 {
		s.dim = len(v)
	} else if len(v) != s.dim {
		return fmt.Errorf("%w: %q has %d dimensions, expected %d", ErrDimensionMismatch, word, len(v), s.dim)
	}
	s.vectors[word] = v
	return nil
}

// Size returns the number of words with a vector.
func (s *VectorSpace) Size() int {
	return len(s.vectors)
}

// Dimensions returns the vector size, or 0 for an empty space.
func (s *VectorSpace) Dimensions() int {
	return s.dim
}

// Vector returns the vector of a case folded word.
func (s *VectorSpace) Vector(word string) ([]float32, bool) {
	v, ok := s.vectors[word]
	return v, ok
}

// Similarity returns the cosine of the mean word vectors of a and b, clamped
// to [0,1]. Punctuation and words without a vector count as zero vectors.
func (s *VectorSpace) Similarity(a, b core.Span) core.Score {
	va, ok := s.spanVector(a)
	if !ok {
		return core.Undefined
	}
	vb, ok := s.spanVector(b)
	if !ok {
		return core.Undefined
	}
	cos, ok := Cosine(va, vb)
	if !ok {
		return core.Undefined
	}
	return core.ScoreOf(cos)
}

// spanVector sums the word vectors of a span. The mean differs from the sum
// only by a positive factor, which cosine ignores.
func (s *VectorSpace) spanVector(sp core.Span) ([]float64, bool) {
	if sp.IsEmpty() || s.dim == 0 {
		return nil, false
	}
	sum := make([]float64, s.dim)
	found := false
	for _, tok := range sp.Tokens() {
		if tok.IsPunct {
			continue
		}
		v, ok := s.vectors[tok.Lower]
		if !ok {
			continue
		}
		found = true
		for i, x := range v {
			sum[i] += float64(x)
		}
	}
	return sum, found
}
