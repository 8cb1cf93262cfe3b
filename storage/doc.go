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

// Package storage provides the storage abstraction layer for phrasetrack.
//
// The only persistent state of phrasetrack is a cache of word embeddings:
// documents and results are never stored. Embedding a transcript's vocabulary
// through a remote service is the slowest part of an analysis, and the same
// words recur across transcripts, so vectors are cached per model.
//
// # Constructor Return Type Pattern
//
// Public constructors return INTERFACE types to enforce abstraction:
//
//	cache, err := badger.NewVectorCache(backend)  // returns storage.VectorCache
//
// # Usage
//
//	backend, err := badger.OpenBackend("/path/to/cache", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cache := badger.NewVectorCache(backend)
//	defer cache.Close()
//
// Use in tests with in-memory storage:
//
//	cache, err := badger.NewMemoryVectorCache()
//
// # Thread Safety
//
// All implementations must be thread-safe and support concurrent access from
// multiple goroutines.
package storage
