// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder and ai.AIProvider
// for use in unit tests. The mocks allow tests to run without external
// embedding services and enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Fixed vectors for chosen words, hash vectors for the rest
//	embedder := mock.NewMockEmbedder().WithVectors(map[string][]float32{
//	    "pizza": {1, 0},
//	    "pie":   {0.9, 0.1},
//	})
//
//	// Failure injection
//	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
//	    return nil, errors.New("service down")
//	}
//
//	// Check call counts
//	count := embedder.CallCount()
package mock
