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

package storage

import "context"

// VectorEntry is a cached embedding of a single text.
type VectorEntry struct {
	// Text is the embedded text, kept to detect key collisions.
	Text   string
	Vector []float32
}

// VectorCache persists text embeddings across runs.
// Entries are partitioned by model key; vectors of different models never mix.
type VectorCache interface {
	// GetVectors returns the cached vectors of the given texts.
	// Texts without a cached vector are absent from the result.
	GetVectors(ctx context.Context, model string, texts []string) (map[string][]float32, error)

	// PutVectors stores vectors for the given model, replacing existing entries.
	PutVectors(ctx context.Context, model string, vectors map[string][]float32) error

	// CountVectors returns the number of vectors cached for a model.
	CountVectors(ctx context.Context, model string) (int, error)

	// PurgeModel removes every vector cached for a model and returns how many were removed.
	PurgeModel(ctx context.Context, model string) (int, error)

	// Close releases resources held by the cache.
	Close() error
}
