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

import "fmt"

// ValidateMatchRecord validates a MatchRecord according to domain rules.
//
// Validation rules:
//   - SentenceIdx and StartWordIdx must not be negative
//   - EndWordIdx must not be before StartWordIdx
//   - TrackerValue and TranscribeValue must not be empty
func ValidateMatchRecord(record *MatchRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidMatchRecord)
	}

	if record.SentenceIdx < 0 || record.StartWordIdx < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidMatchRecord, ErrNegativeIndex)
	}

	if record.EndWordIdx < record.StartWordIdx {
		return fmt.Errorf("%w: %w", ErrInvalidMatchRecord, ErrInvertedRange)
	}

	if record.TrackerValue == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMatchRecord, ErrEmptyTrackerValue)
	}

	if record.TranscribeValue == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMatchRecord, ErrEmptyTranscribeValue)
	}

	return nil
}

// ValidateSpan checks that a span lies within the bounds of its document.
func ValidateSpan(s Span) error {
	if s.Doc == nil {
		return fmt.Errorf("%w: no document", ErrInvalidSpan)
	}
	if s.Start < 0 || s.End < s.Start || s.End > s.Doc.Len() {
		return fmt.Errorf("%w: [%d,%d) outside document of %d tokens", ErrInvalidSpan, s.Start, s.End, s.Doc.Len())
	}
	return nil
}
