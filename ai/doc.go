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

// Package ai provides abstractions for the embedding services used by phrasetrack.
//
// Similarity between a tracker phrase and a transcript span is computed from
// word vectors. This package defines the Embedder interface that produces those
// vectors and the Config shared by all providers, so the matching pipeline
// depends on an abstraction rather than on a concrete service.
//
// # Implementation Packages
//
//   - ai/local: Offline embedder based on character n-gram feature hashing (default)
//   - ai/openai: OpenAI-compatible hosts such as Ollama, LocalAI or vLLM (langchaingo)
//   - ai/hosted: The hosted OpenAI API authenticated with an API key (go-openai)
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewProvider, local.NewEmbedder, etc.) return
// INTERFACE types to enforce abstraction. Test utility constructors
// (mock.NewMockEmbedder) return CONCRETE types to enable test assertions and
// behavior injection.
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithProvider(ai.ProviderOpenAI))
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vectors, err := provider.Embedder().EmbedTexts(ctx, []string{"pizza", "pie"})
package ai
