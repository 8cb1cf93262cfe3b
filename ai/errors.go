package ai

import "errors"

var (
	// ErrShortBatch is returned when a service answers a batch request with
	// a different number of vectors than texts.
	ErrShortBatch = errors.New("embedding batch size mismatch")

	// ErrEmptyVector is returned when a service answers with an empty vector.
	ErrEmptyVector = errors.New("empty embedding vector")
)
