package similarity

import "errors"

var (
	// ErrEmbedderRequired is returned when a vector space is built without an embedder.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrInvalidMaxAttempts is returned when maxAttempts is less than 1.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be at least 1")

	// ErrInvalidBatchSize is returned when the embedding batch size is less than 1.
	ErrInvalidBatchSize = errors.New("batch size must be at least 1")

	// ErrDimensionMismatch is returned when an embedder produces vectors of different sizes.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrEmbeddingFailed is returned when a batch could not be embedded after all retries.
	ErrEmbeddingFailed = errors.New("embedding failed")
)
