package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/phrasetrack/ai"
	"github.com/poiesic/phrasetrack/core"
	"github.com/poiesic/phrasetrack/locate"
	"github.com/poiesic/phrasetrack/match"
	"github.com/poiesic/phrasetrack/nlp"
	"github.com/poiesic/phrasetrack/overlap"
	"github.com/poiesic/phrasetrack/refine"
	"github.com/poiesic/phrasetrack/similarity"
)

// Analyzer finds tracker phrases in transcripts.
// An Analyzer is safe for concurrent use; each call to Analyze works on its
// own document and vector space.
type Analyzer struct {
	embedder  ai.Embedder
	scorer    similarity.Scorer
	tokenizer *nlp.Tokenizer
	spaceOpts []similarity.Option
	cfg       Config
	pool      *ants.Pool
	localizer *locate.Localizer
	monitor   Monitor
	logger    *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer) error

// WithConfig replaces the analysis configuration.
// Default is DefaultConfig().
func WithConfig(cfg Config) Option {
	return func(a *Analyzer) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		a.cfg = cfg
		return nil
	}
}

// WithPoolSize sets the number of trackers refined concurrently.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(a *Analyzer) error {
		if size < 1 {
			size = 1
		}
		a.cfg.PoolSize = size
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// WithMonitor sets hooks that observe every analysis.
func WithMonitor(monitor Monitor) Option {
	return func(a *Analyzer) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		a.monitor = monitor
		return nil
	}
}

// WithTokenizer sets the tokenizer used for transcripts and trackers.
// Default is nlp.NewTokenizer().
func WithTokenizer(tokenizer *nlp.Tokenizer) Option {
	return func(a *Analyzer) error {
		if tokenizer == nil {
			return ErrTokenizerRequired
		}
		a.tokenizer = tokenizer
		return nil
	}
}

// WithScorer scores spans with a fixed scorer instead of building a vector
// space from the embedder for every analysis.
func WithScorer(scorer similarity.Scorer) Option {
	return func(a *Analyzer) error {
		if scorer == nil {
			return ErrScorerRequired
		}
		a.scorer = scorer
		return nil
	}
}

// WithVectorOptions passes options to the vector space built for every
// analysis, e.g. similarity.WithCache.
func WithVectorOptions(opts ...similarity.Option) Option {
	return func(a *Analyzer) error {
		a.spaceOpts = append(a.spaceOpts, opts...)
		return nil
	}
}

// NewAnalyzer creates an analyzer that embeds transcript words with embedder.
// embedder may be nil when WithScorer is given.
func NewAnalyzer(embedder ai.Embedder, opts ...Option) (*Analyzer, error) {
	a := &Analyzer{
		embedder: embedder,
		cfg:      DefaultConfig(),
		monitor:  &noopMonitor{},
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	if a.embedder == nil && a.scorer == nil {
		return nil, ErrEmbedderRequired
	}

	base := a.logger
	a.logger = base.With("component", "analyzer")
	if a.tokenizer == nil {
		a.tokenizer = nlp.NewTokenizer(nlp.WithLogger(base))
	}
	a.spaceOpts = append([]similarity.Option{similarity.WithLogger(base)}, a.spaceOpts...)
	a.localizer = locate.NewLocalizer(base)

	poolSize := a.cfg.PoolSize
	if poolSize < 1 {
		poolSize = max(runtime.NumCPU()/2, 1)
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}
	a.pool = pool

	return a, nil
}

// Config returns the configuration of the analyzer.
func (a *Analyzer) Config() Config {
	return a.cfg
}

// Release releases the worker pool.
// The analyzer should not be used after calling Release.
func (a *Analyzer) Release() {
	if a.pool != nil {
		a.pool.Release()
	}
}

// Analyze finds the trackers in text and returns one record per match,
// ordered by sentence. Trackers are lower-cased and trimmed; blank trackers
// are ignored. Empty text or no trackers yields an empty result.
func (a *Analyzer) Analyze(ctx context.Context, text string, trackers []string) ([]core.MatchRecord, error) {
	phrases := a.trackerPhrases(trackers)
	if strings.TrimSpace(text) == "" || len(phrases) == 0 {
		return []core.MatchRecord{}, nil
	}

	a.monitor.Start(text, phrases)

	doc := a.tokenizer.Tokenize(text)
	a.monitor.AfterTokenize(doc)

	exact := match.FindExact(doc, phrases)
	a.monitor.AfterExactMatches(exact)
	a.logger.Debug("exact matches", "count", len(exact))

	scorer, err := a.scorerFor(ctx, doc, phrases)
	if err != nil {
		return nil, err
	}

	approx, err := a.approximate(ctx, doc, phrases, refine.NewOptimizer(scorer, a.cfg.refineConfig()))
	if err != nil {
		return nil, err
	}

	resolved := overlap.Resolve(exact, approx)
	a.monitor.AfterOverlapResolution(resolved)

	records := locate.Dedupe(a.localizer.Localize(doc, resolved))
	a.monitor.Finish(records)
	a.logger.Debug("analysis complete", "exact", len(exact), "approximate", len(approx), "records", len(records))
	return records, nil
}

func (a *Analyzer) trackerPhrases(trackers []string) []core.TrackerPhrase {
	phrases := make([]core.TrackerPhrase, 0, len(trackers))
	for i, t := range trackers {
		value := strings.ToLower(strings.TrimSpace(t))
		if value == "" {
			continue
		}
		phrases = append(phrases, core.TrackerPhrase{
			Index: i,
			Value: value,
			Doc:   a.tokenizer.Tokenize(value),
		})
	}
	return phrases
}

// scorerFor returns the fixed scorer, or a vector space over the words of
// the transcript and the trackers.
func (a *Analyzer) scorerFor(ctx context.Context, doc *core.Document, phrases []core.TrackerPhrase) (similarity.Scorer, error) {
	if a.scorer != nil {
		return a.scorer, nil
	}
	docs := make([]*core.Document, 0, len(phrases)+1)
	docs = append(docs, doc)
	for _, p := range phrases {
		docs = append(docs, p.Doc)
	}
	space, err := similarity.NewVectorSpace(ctx, a.embedder, docs, a.spaceOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}
	return space, nil
}

type trackerResult struct {
	hits     int
	accepted []core.MatchCandidate
}

// approximate generates and refines the approximate candidates of every
// tracker on the worker pool. Each tracker writes its own slot and the slots
// are merged in tracker order, so the result does not depend on scheduling.
func (a *Analyzer) approximate(ctx context.Context, doc *core.Document, phrases []core.TrackerPhrase, optimizer *refine.Optimizer) ([]core.MatchCandidate, error) {
	results := make([]trackerResult, len(phrases))
	window := a.cfg.window()

	var wg sync.WaitGroup
	var submitErr error
	for i := range phrases {
		if err := ctx.Err(); err != nil {
			submitErr = err
			break
		}
		wg.Add(1)
		err := a.pool.Submit(func() {
			defer wg.Done()
			results[i] = refineTracker(doc, phrases[i], window, optimizer)
		})
		if err != nil {
			wg.Done()
			submitErr = err
			break
		}
	}
	wg.Wait()
	if submitErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrAnalysisFailed, submitErr)
	}

	var out []core.MatchCandidate
	for i, r := range results {
		a.monitor.AfterApproximateMatches(phrases[i], r.hits, r.accepted)
		out = append(out, r.accepted...)
	}
	return out, nil
}

func refineTracker(doc *core.Document, tracker core.TrackerPhrase, window match.Window, optimizer *refine.Optimizer) trackerResult {
	hits := match.FindApproximate(doc, match.NewPattern(tracker.Span()), window)
	r := trackerResult{hits: len(hits)}
	for _, hit := range hits {
		if c, ok := optimizer.Refine(hit, tracker); ok {
			r.accepted = append(r.accepted, c)
		}
	}
	return r
}
