package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/phrasetrack/ai"
	"github.com/poiesic/phrasetrack/core"
)

const scenarioA = "The quick brown fox jumps over the lazy dog. The dog barks loudly."

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := newApp()
	app.Writer = &stdout
	app.ErrWriter = &stderr
	err := app.Run(append([]string{"phrasetrack", "--log-level", "error"}, args...))
	return stdout.String(), stderr.String(), err
}

func decodeRecords(t *testing.T, out string) []core.MatchRecord {
	t.Helper()
	var records []core.MatchRecord
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	return records
}

var lazyDog = core.MatchRecord{
	SentenceIdx:     0,
	StartWordIdx:    7,
	EndWordIdx:      8,
	TrackerValue:    "lazy dog",
	TranscribeValue: "lazy dog",
}

func TestAnalyzeCommand(t *testing.T) {
	t.Run("text and tracker", func(t *testing.T) {
		out, _, err := run(t, "analyze", "--text", scenarioA, "--tracker", "lazy dog")
		require.NoError(t, err)
		assert.Contains(t, decodeRecords(t, out), lazyDog)
	})

	t.Run("trackers json", func(t *testing.T) {
		out, _, err := run(t, "analyze", "--text", scenarioA, "--trackers-json", `["Lazy Dog", "unicorn"]`)
		require.NoError(t, err)
		assert.Contains(t, decodeRecords(t, out), lazyDog)
	})

	t.Run("trackers file and text file", func(t *testing.T) {
		dir := t.TempDir()
		textPath := filepath.Join(dir, "call.txt")
		trackersPath := filepath.Join(dir, "trackers.txt")
		require.NoError(t, os.WriteFile(textPath, []byte(scenarioA), 0644))
		require.NoError(t, os.WriteFile(trackersPath, []byte("lazy dog\n"), 0644))

		out, _, err := run(t, "analyze", "-f", textPath, "--trackers-file", trackersPath, "--pretty")
		require.NoError(t, err)
		assert.Contains(t, out, "\n  {")
		assert.Contains(t, decodeRecords(t, out), lazyDog)
	})

	t.Run("transcription job result", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "job.json")
		job := `{"results": {"transcripts": [{"transcript": "` + scenarioA + `"}]}}`
		require.NoError(t, os.WriteFile(path, []byte(job), 0644))

		out, _, err := run(t, "analyze", "--transcribe-json", path, "-t", "lazy dog")
		require.NoError(t, err)
		assert.Contains(t, decodeRecords(t, out), lazyDog)
	})

	t.Run("no match prints an empty array", func(t *testing.T) {
		out, _, err := run(t, "analyze", "--text", scenarioA, "-t", "purple elephant")
		require.NoError(t, err)
		assert.Equal(t, "[]\n", out)
	})

	t.Run("verbose describes the stages", func(t *testing.T) {
		_, stderr, err := run(t, "analyze", "--text", scenarioA, "-t", "lazy dog", "-v")
		require.NoError(t, err)
		assert.Contains(t, stderr, "exact matches: 1")
		assert.Contains(t, stderr, `tracker "lazy dog"`)
		assert.Contains(t, stderr, "records: 1")
	})

	t.Run("cache dir", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "cache")
		_, _, err := run(t, "analyze", "--text", scenarioA, "-t", "lazy dog", "--cache-dir", dir)
		require.NoError(t, err)

		out, _, err := run(t, "cache", "count", "--cache-dir", dir)
		require.NoError(t, err)
		assert.Equal(t, "local:256: 10 vectors\n", out)

		out, _, err = run(t, "cache", "purge", "--cache-dir", dir)
		require.NoError(t, err)
		assert.Equal(t, "local:256: purged 10 vectors\n", out)

		out, _, err = run(t, "cache", "count", "--cache-dir", dir)
		require.NoError(t, err)
		assert.Equal(t, "local:256: 0 vectors\n", out)
	})
}

func TestAnalyzeCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{"no input", []string{"analyze", "-t", "x"}, "exactly one of"},
		{"two inputs", []string{"analyze", "--text", "a", "-f", "b.txt", "-t", "x"}, "exactly one of"},
		{"no trackers", []string{"analyze", "--text", "a"}, "at least one tracker"},
		{"bad trackers json", []string{"analyze", "--text", "a", "--trackers-json", "[1]"}, "invalid tracker list"},
		{"bad provider", []string{"analyze", "--text", "a", "-t", "x", "--provider", "bogus"}, "invalid AI configuration"},
		{"hosted without key", []string{"analyze", "--text", "a", "-t", "x", "--provider", "hosted", "--api-key", ""}, "APIKey"},
		{"bad threshold", []string{"analyze", "--text", "a", "-t", "x", "--stage2-threshold", "2"}, "invalid analysis configuration"},
		{"missing file", []string{"analyze", "-f", "/nonexistent/call.txt", "-t", "x"}, "no such file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestTokenizeCommand(t *testing.T) {
	out, _, err := run(t, "tokenize", "--text", "Hi there. How are you?")
	require.NoError(t, err)
	assert.Equal(t, "[0] 0:Hi 1:there 2:.\n[1] 0:How 1:are 2:you 3:?\n", out)
}

func TestCacheCommands_RequireDir(t *testing.T) {
	_, _, err := run(t, "cache", "count")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache-dir")
}

func TestSetupLogger(t *testing.T) {
	_, _, err := run(t, "--log-level", "verbose", "tokenize", "--text", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestBuildAIConfig(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	var got *ai.Config
	app := &cli.App{
		Name:  "phrasetrack",
		Flags: embeddingFlags(),
		Action: func(c *cli.Context) error {
			got = buildAIConfig(c)
			return nil
		},
	}

	t.Run("defaults", func(t *testing.T) {
		require.NoError(t, app.Run([]string{"phrasetrack"}))
		require.NoError(t, got.Validate())
		assert.Equal(t, ai.DefaultConfig(), got)
	})

	t.Run("hosted default model", func(t *testing.T) {
		require.NoError(t, app.Run([]string{"phrasetrack", "--provider", "Hosted", "--api-key", "sk-test"}))
		assert.Equal(t, ai.ProviderHosted, got.Provider)
		assert.Equal(t, defaultHostedModel, got.EmbeddingModel)
		assert.Equal(t, "hosted:"+defaultHostedModel, got.ModelKey())
	})

	t.Run("explicit model", func(t *testing.T) {
		require.NoError(t, app.Run([]string{"phrasetrack", "-p", "openai", "--embedding-model", "nomic-embed-text", "--embedding-host", "http://gpu:8000"}))
		require.NoError(t, got.Validate())
		assert.Equal(t, "http://gpu:8000/v1", got.EmbeddingHost)
		assert.Equal(t, "nomic-embed-text", got.EmbeddingModel)
	})
}

func TestLoadEnv(t *testing.T) {
	t.Run("missing file is ignored", func(t *testing.T) {
		assert.NoError(t, loadEnv(filepath.Join(t.TempDir(), ".env")))
		assert.NoError(t, loadEnv(""))
	})

	t.Run("sets variables", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("PHRASETRACK_TEST_KEY=from-file\n"), 0644))
		t.Cleanup(func() { os.Unsetenv("PHRASETRACK_TEST_KEY") })

		require.NoError(t, loadEnv(path))
		assert.Equal(t, "from-file", os.Getenv("PHRASETRACK_TEST_KEY"))
	})

	t.Run("existing variables win", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("PHRASETRACK_TEST_OTHER=from-file\n"), 0644))
		t.Setenv("PHRASETRACK_TEST_OTHER", "from-env")

		require.NoError(t, loadEnv(path))
		assert.Equal(t, "from-env", os.Getenv("PHRASETRACK_TEST_OTHER"))
	})
}

func TestTextMonitor(t *testing.T) {
	var buf bytes.Buffer
	m := newTextMonitor(&buf)
	m.Finish(nil)
	assert.True(t, strings.HasPrefix(buf.String(), "records: 0"))
}
