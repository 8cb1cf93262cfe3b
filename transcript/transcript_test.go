package transcript

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jobResult = `{
  "jobName": "call-42",
  "accountId": "123456789012",
  "status": "COMPLETED",
  "results": {
    "transcripts": [{"transcript": "Hello, how are you? I am fine."}],
    "items": [{"start_time": "0.04", "end_time": "0.5", "alternatives": [{"confidence": "0.99", "content": "Hello"}], "type": "pronunciation"}]
  }
}`

func TestParseTranscribeJSON(t *testing.T) {
	text, err := ParseTranscribeJSON(strings.NewReader(jobResult))
	require.NoError(t, err)
	assert.Equal(t, "Hello, how are you? I am fine.", text)
}

func TestParseTranscribeJSON_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		err   error
	}{
		{"no transcripts", `{"results": {"transcripts": []}}`, ErrNoTranscript},
		{"no results", `{"jobName": "x"}`, ErrNoTranscript},
		{"malformed", `{"results": `, ErrInvalidJobResult},
		{"wrong shape", `{"results": {"transcripts": "text"}}`, ErrInvalidJobResult},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTranscribeJSON(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestParseTrackers(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"json array", `["how are you", "thank you"]`, []string{"how are you", "thank you"}},
		{"json with blanks", `[" lazy dog ", "", "  "]`, []string{"lazy dog"}},
		{"lines", "how are you\n\n  thank you  \n", []string{"how are you", "thank you"}},
		{"single", "refund", []string{"refund"}},
		{"commas stay in lines", "yes, please", []string{"yes, please"}},
		{"empty", "   ", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTrackers(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTrackers_InvalidJSON(t *testing.T) {
	_, err := ParseTrackers(`["unterminated`)
	assert.ErrorIs(t, err, ErrInvalidTrackers)

	_, err = ParseTrackers(`[1, 2]`)
	assert.ErrorIs(t, err, ErrInvalidTrackers)
}
