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

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/phrasetrack"
	"github.com/poiesic/phrasetrack/ai"
	"github.com/poiesic/phrasetrack/analysis"
	"github.com/poiesic/phrasetrack/nlp"
	"github.com/poiesic/phrasetrack/storage/badger"
	"github.com/poiesic/phrasetrack/transcript"
)

const defaultHostedModel = "text-embedding-3-small"

func main() {
	// flag values fall back to the environment, so .env must be loaded before parsing
	if err := loadEnv(".env"); err != nil {
		log.Fatal(err)
	}
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "phrasetrack",
		Usage: "Find tracker phrases in transcribed speech",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before:   setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "analyze",
				Usage:  "Find trackers in a transcript and print the match records as JSON",
				Action: analyzeCommand,
				Flags:  append(append(inputFlags(), trackerFlags()...), append(embeddingFlags(), analysisFlags()...)...),
			},
			{
				Name:   "tokenize",
				Usage:  "Print the sentences and word indices of a transcript",
				Action: tokenizeCommand,
				Flags:  inputFlags(),
			},
			{
				Name:  "cache",
				Usage: "Inspect or purge a vector cache",
				Subcommands: []*cli.Command{
					{
						Name:   "count",
						Usage:  "Print the number of cached vectors for the embedding model",
						Action: cacheCountCommand,
						Flags:  append([]cli.Flag{cacheDirFlag(true)}, embeddingFlags()...),
					},
					{
						Name:   "purge",
						Usage:  "Delete the cached vectors of the embedding model",
						Action: cachePurgeCommand,
						Flags:  append([]cli.Flag{cacheDirFlag(true)}, embeddingFlags()...),
					},
				},
			},
		},
	}
}

func inputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "text",
			Usage: "Transcript text",
		},
		&cli.StringFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Usage:   "Read the transcript from a text file (- for stdin)",
		},
		&cli.StringFlag{
			Name:  "transcribe-json",
			Usage: "Read the transcript from a transcription job result file",
		},
	}
}

func trackerFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "tracker",
			Aliases: []string{"t"},
			Usage:   "Tracker phrase (repeatable)",
		},
		&cli.StringFlag{
			Name:  "trackers-json",
			Usage: "Tracker phrases as a JSON array of strings",
		},
		&cli.StringFlag{
			Name:  "trackers-file",
			Usage: "Read tracker phrases from a file, one per line or as a JSON array",
		},
	}
}

func embeddingFlags() []cli.Flag {
	defaults := ai.DefaultConfig()
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "provider",
			Aliases: []string{"p"},
			Usage:   "Embedding provider (local, openai, hosted)",
			Value:   defaults.Provider,
			EnvVars: []string{"PHRASETRACK_PROVIDER"},
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL for the openai provider",
			Value: defaults.EmbeddingHost,
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name (default: " + defaults.EmbeddingModel + ", or " + defaultHostedModel + " for the hosted provider)",
		},
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "API key for the embedding service",
			EnvVars: []string{"OPENAI_API_KEY"},
		},
		&cli.IntFlag{
			Name:  "dimensions",
			Usage: "Vector size of the local provider",
			Value: defaults.Dimensions,
		},
		&cli.IntFlag{
			Name:  "max-retries",
			Usage: "Maximum attempts for failed embedding requests",
			Value: defaults.MaxRetries,
		},
		&cli.DurationFlag{
			Name:  "retry-delay",
			Usage: "Base delay for exponential backoff",
			Value: defaults.RetryDelay,
		},
	}
}

func cacheDirFlag(required bool) cli.Flag {
	return &cli.StringFlag{
		Name:     "cache-dir",
		Usage:    "Path to a BadgerDB directory caching word vectors",
		EnvVars:  []string{"PHRASETRACK_CACHE_DIR"},
		Required: required,
	}
}

func analysisFlags() []cli.Flag {
	defaults := analysis.DefaultConfig()
	return []cli.Flag{
		cacheDirFlag(false),
		&cli.IntFlag{
			Name:  "pool-size",
			Usage: "Number of trackers refined concurrently (0 for half the CPUs)",
		},
		&cli.Float64Flag{
			Name:  "stage1-threshold",
			Usage: "Similarity a raw approximate hit must exceed",
			Value: defaults.Stage1Threshold,
		},
		&cli.Float64Flag{
			Name:  "stage2-threshold",
			Usage: "Similarity a refined approximate hit must exceed",
			Value: defaults.Stage2Threshold,
		},
		&cli.IntFlag{
			Name:  "optimization-steps",
			Usage: "Maximum tokens moved per boundary while refining a hit",
			Value: defaults.OptimizationSteps,
		},
		&cli.IntFlag{
			Name:  "length-window-low",
			Usage: "Approximate hits may be this many tokens shorter than the tracker",
			Value: defaults.LengthWindowLow,
		},
		&cli.IntFlag{
			Name:  "length-window-high",
			Usage: "Approximate hits may be this many tokens longer than the tracker",
			Value: defaults.LengthWindowHigh,
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Indent the JSON output",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Describe every pipeline stage on stderr",
		},
	}
}

func analyzeCommand(c *cli.Context) error {
	text, err := readText(c)
	if err != nil {
		return err
	}
	trackers, err := readTrackers(c)
	if err != nil {
		return err
	}
	if len(trackers) == 0 {
		return errors.New("at least one tracker is required (--tracker, --trackers-json or --trackers-file)")
	}

	aiConfig := buildAIConfig(c)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	cfg := analysis.DefaultConfig()
	cfg.Stage1Threshold = c.Float64("stage1-threshold")
	cfg.Stage2Threshold = c.Float64("stage2-threshold")
	cfg.OptimizationSteps = c.Int("optimization-steps")
	cfg.LengthWindowLow = c.Int("length-window-low")
	cfg.LengthWindowHigh = c.Int("length-window-high")
	cfg.PoolSize = c.Int("pool-size")

	analysisOpts := []analysis.Option{analysis.WithConfig(cfg)}
	if c.Bool("verbose") {
		analysisOpts = append(analysisOpts, analysis.WithMonitor(newTextMonitor(c.App.ErrWriter)))
	}

	opts := []phrasetrack.EngineOption{
		phrasetrack.WithAIConfig(aiConfig),
		phrasetrack.WithAnalysisOptions(analysisOpts...),
	}
	if dir := c.String("cache-dir"); dir != "" {
		opts = append(opts, phrasetrack.WithCacheDir(dir))
	}

	engine, err := phrasetrack.NewEngine(opts...)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	defer engine.Close()

	records, err := engine.Analyze(context.Background(), text, trackers)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	enc := json.NewEncoder(c.App.Writer)
	if c.Bool("pretty") {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(records)
}

func tokenizeCommand(c *cli.Context) error {
	text, err := readText(c)
	if err != nil {
		return err
	}

	doc := nlp.NewTokenizer().Tokenize(text)
	for _, sent := range doc.Sentences {
		words := make([]string, 0, sent.Len())
		for i, tok := range doc.Tokens[sent.Start:sent.End] {
			words = append(words, fmt.Sprintf("%d:%s", i, tok.Text))
		}
		fmt.Fprintf(c.App.Writer, "[%d] %s\n", sent.Id, strings.Join(words, " "))
	}
	return nil
}

func cacheCountCommand(c *cli.Context) error {
	aiConfig := buildAIConfig(c)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	cache, err := badger.OpenVectorCache(c.String("cache-dir"))
	if err != nil {
		return fmt.Errorf("failed to open vector cache: %w", err)
	}
	defer cache.Close()

	count, err := cache.CountVectors(context.Background(), aiConfig.ModelKey())
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "%s: %d vectors\n", aiConfig.ModelKey(), count)
	return nil
}

func cachePurgeCommand(c *cli.Context) error {
	aiConfig := buildAIConfig(c)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	cache, err := badger.OpenVectorCache(c.String("cache-dir"))
	if err != nil {
		return fmt.Errorf("failed to open vector cache: %w", err)
	}
	defer cache.Close()

	purged, err := cache.PurgeModel(context.Background(), aiConfig.ModelKey())
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "%s: purged %d vectors\n", aiConfig.ModelKey(), purged)
	return nil
}

func buildAIConfig(c *cli.Context) *ai.Config {
	provider := strings.ToLower(c.String("provider"))
	model := c.String("embedding-model")
	if model == "" {
		model = ai.DefaultConfig().EmbeddingModel
		if provider == ai.ProviderHosted {
			model = defaultHostedModel
		}
	}
	return ai.NewConfig(
		ai.WithProvider(provider),
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(model),
		ai.WithAPIKey(c.String("api-key")),
		ai.WithDimensions(c.Int("dimensions")),
		ai.WithRetry(c.Int("max-retries"), c.Duration("retry-delay")),
	)
}

// readText returns the transcript from exactly one of the input flags.
func readText(c *cli.Context) (string, error) {
	set := 0
	for _, name := range []string{"text", "file", "transcribe-json"} {
		if c.IsSet(name) {
			set++
		}
	}
	if set != 1 {
		return "", errors.New("exactly one of --text, --file or --transcribe-json is required")
	}

	switch {
	case c.IsSet("text"):
		return c.String("text"), nil
	case c.IsSet("transcribe-json"):
		f, err := os.Open(c.String("transcribe-json"))
		if err != nil {
			return "", err
		}
		defer f.Close()
		return transcript.ParseTranscribeJSON(f)
	}

	path := c.String("file")
	if path == "-" {
		data, err := io.ReadAll(c.App.Reader)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func readTrackers(c *cli.Context) ([]string, error) {
	trackers := append([]string{}, c.StringSlice("tracker")...)

	if s := c.String("trackers-json"); s != "" {
		parsed, err := transcript.ParseTrackers(s)
		if err != nil {
			return nil, err
		}
		trackers = append(trackers, parsed...)
	}

	if path := c.String("trackers-file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		parsed, err := transcript.ParseTrackers(string(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		trackers = append(trackers, parsed...)
	}
	return trackers, nil
}

// loadEnv loads path into the environment. A missing file is not an error;
// variables already set take precedence.
func loadEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
