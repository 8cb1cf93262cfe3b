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

package analysis

import "errors"

var (
	// ErrEmbedderRequired is returned when neither an embedder nor a scorer is provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrScorerRequired is returned when WithScorer is given a nil scorer.
	ErrScorerRequired = errors.New("scorer required")

	// ErrTokenizerRequired is returned when WithTokenizer is given a nil tokenizer.
	ErrTokenizerRequired = errors.New("tokenizer required")

	// ErrInvalidConfig is returned when an analysis configuration is out of range.
	ErrInvalidConfig = errors.New("invalid analysis configuration")

	// ErrAnalysisFailed wraps infrastructure failures during an analysis.
	ErrAnalysisFailed = errors.New("analysis failed")
)
