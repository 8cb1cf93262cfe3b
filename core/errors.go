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

package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidMatchRecord indicates a MatchRecord failed validation.
	ErrInvalidMatchRecord = errors.New("invalid match record")

	// ErrInvalidSpan indicates a Span lies outside its document.
	ErrInvalidSpan = errors.New("invalid span")

	// ErrNegativeIndex indicates a negative sentence or word index.
	ErrNegativeIndex = errors.New("index cannot be negative")

	// ErrInvertedRange indicates an end index before its start index.
	ErrInvertedRange = errors.New("end index before start index")

	// ErrEmptyTrackerValue indicates the tracker value is empty.
	ErrEmptyTrackerValue = errors.New("tracker value cannot be empty")

	// ErrEmptyTranscribeValue indicates the transcribe value is empty.
	ErrEmptyTranscribeValue = errors.New("transcribe value cannot be empty")
)
