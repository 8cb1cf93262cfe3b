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

// Package transcript reads the inputs of an analysis: transcript text from a
// speech-to-text job result and tracker lists.
package transcript

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrNoTranscript is returned when a job result holds no transcript.
	ErrNoTranscript = errors.New("no transcript in job result")

	// ErrInvalidJobResult is returned when a job result cannot be decoded.
	ErrInvalidJobResult = errors.New("invalid job result")

	// ErrInvalidTrackers is returned when a tracker list cannot be decoded.
	ErrInvalidTrackers = errors.New("invalid tracker list")
)

// JobResult is the subset of a transcription job result document that
// carries the transcripts.
type JobResult struct {
	JobName   string `json:"jobName"`
	AccountID string `json:"accountId"`
	Status    string `json:"status"`
	Results   struct {
		Transcripts []struct {
			Transcript string `json:"transcript"`
		} `json:"transcripts"`
	} `json:"results"`
}

// ParseTranscribeJSON decodes a job result document and returns the text of
// its first transcript.
func ParseTranscribeJSON(r io.Reader) (string, error) {
	var result JobResult
	if err := json.NewDecoder(r).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidJobResult, err)
	}
	if len(result.Results.Transcripts) == 0 {
		return "", ErrNoTranscript
	}
	return result.Results.Transcripts[0].Transcript, nil
}

// ParseTrackers reads a tracker list given either as a JSON array of strings
// or as one tracker per line. Blank entries are dropped; values are otherwise
// returned as given.
func ParseTrackers(s string) ([]string, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return []string{}, nil
	}

	var raw []string
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidTrackers, err)
		}
	} else {
		raw = strings.Split(trimmed, "\n")
	}

	trackers := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.TrimSpace(t)
		if t != "" {
			trackers = append(trackers, t)
		}
	}
	return trackers, nil
}
