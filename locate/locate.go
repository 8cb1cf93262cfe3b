// Package locate converts resolved match candidates into sentence relative
// match records and removes duplicate records.
package locate

import (
	"log/slog"
	"sort"

	"github.com/poiesic/phrasetrack/core"
)

// Localizer converts candidates into records, logging the candidates it
// has to skip. It is safe for concurrent use.
type Localizer struct {
	logger *slog.Logger
}

// NewLocalizer creates a localizer. A nil logger falls back to slog.Default().
func NewLocalizer(logger *slog.Logger) *Localizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Localizer{logger: logger.With("component", "locate")}
}

// Localize turns candidates into records using the default logger.
func Localize(doc *core.Document, candidates []core.MatchCandidate) []core.MatchRecord {
	return NewLocalizer(nil).Localize(doc, candidates)
}

// Localize turns candidates into records. A record's word indices are
// relative to the first sentence that fully contains the candidate span and
// inclusive on both ends. Candidates crossing a sentence boundary produce no
// record. Spans outside the document and records failing validation are
// logged and skipped. Records are stably sorted by sentence.
func (l *Localizer) Localize(doc *core.Document, candidates []core.MatchCandidate) []core.MatchRecord {
	out := make([]core.MatchRecord, 0, len(candidates))
	for _, c := range candidates {
		if err := core.ValidateSpan(c.Span); err != nil {
			l.logger.Warn("skipping candidate", "tracker", c.Tracker.Value, "err", err)
			continue
		}
		if c.Span.IsEmpty() {
			continue
		}
		sent, ok := doc.SentenceOf(c.Span)
		if !ok {
			continue
		}
		record := core.MatchRecord{
			SentenceIdx:     sent.Id,
			StartWordIdx:    c.Span.Start - sent.Start,
			EndWordIdx:      c.Span.End - sent.Start - 1,
			TrackerValue:    c.Tracker.Value,
			TranscribeValue: c.Span.Text(),
		}
		if err := core.ValidateMatchRecord(&record); err != nil {
			l.logger.Warn("skipping match record", "tracker", c.Tracker.Value, "start", c.Span.Start, "end", c.Span.End, "err", err)
			continue
		}
		out = append(out, record)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SentenceIdx < out[j].SentenceIdx
	})
	return out
}

type recordKey struct {
	transcribe string
	sentence   int
	start      int
	end        int
}

// Dedupe removes records that repeat the transcribe value and position of an
// earlier record. The last record for a key wins but takes the position of
// the key's first occurrence, so sentence order is preserved.
func Dedupe(records []core.MatchRecord) []core.MatchRecord {
	index := make(map[recordKey]int, len(records))
	out := make([]core.MatchRecord, 0, len(records))
	for _, r := range records {
		k := recordKey{transcribe: r.TranscribeValue, sentence: r.SentenceIdx, start: r.StartWordIdx, end: r.EndWordIdx}
		if i, ok := index[k]; ok {
			out[i] = r
			continue
		}
		index[k] = len(out)
		out = append(out, r)
	}
	return out
}
