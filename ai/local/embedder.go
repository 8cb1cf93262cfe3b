// Package local provides an offline ai.Embedder based on feature hashing.
//
// Each word is broken into character n-grams (3 to 5 runes, with boundary
// markers) plus the whole word, and every feature is hashed into a signed
// bucket of a fixed-size vector. Words sharing stems and inflections land
// close together, unrelated words are nearly orthogonal. Multi-word texts are
// the sum of their word vectors. All vectors are L2 normalized.
package local

import (
	"context"
	"hash/fnv"
	"log/slog"
	"math"
	"strings"
	"unicode"

	"github.com/poiesic/phrasetrack/ai"
)

const (
	minGram = 3
	maxGram = 5

	// wordWeight is the weight of the whole-word feature relative to one n-gram.
	wordWeight = 2
)

// Embedder implements ai.Embedder without any external service.
// It is stateless and safe for concurrent use.
type Embedder struct {
	dim    int
	logger *slog.Logger
}

// NewEmbedder creates a local embedder producing config.Dimensions sized vectors.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Embedder{
		dim:    config.Dimensions,
		logger: slog.Default().With("component", "local-embedder"),
	}, nil
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.embed(text), nil
}

// EmbedTexts generates vector embeddings for multiple text strings.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e.logger.Debug("generating embeddings for texts", "count", len(texts))
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = e.embed(text)
	}
	return out, nil
}

func (e *Embedder) embed(text string) []float32 {
	vec := make([]float32, e.dim)
	for _, word := range strings.FieldsFunc(strings.ToLower(text), isSeparator) {
		e.addFeature(vec, "w:"+word, wordWeight)
		runes := []rune("<" + word + ">")
		for n := minGram; n <= maxGram; n++ {
			for i := 0; i+n <= len(runes); i++ {
				e.addFeature(vec, string(runes[i:i+n]), 1)
			}
		}
	}
	normalize(vec)
	return vec
}

// addFeature hashes a feature into a bucket; one hash bit picks the sign so
// collisions cancel out on average.
func (e *Embedder) addFeature(vec []float32, feature string, weight float32) {
	h := fnv.New64a()
	h.Write([]byte(feature))
	sum := h.Sum64()
	bucket := int(sum % uint64(e.dim))
	if sum>>63 == 1 {
		weight = -weight
	}
	vec[bucket] += weight
}

func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\'' && r != '-'
}

func normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	inv := float32(1 / math.Sqrt(sum))
	for i := range v {
		v[i] *= inv
	}
}
