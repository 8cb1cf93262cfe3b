// Package analysis runs the tracker phrase pipeline over a transcript.
//
// An Analyzer tokenizes the transcript and the trackers, finds verbatim
// occurrences of every tracker, generates approximate candidates from a
// lemma pattern per tracker and keeps those whose similarity to the tracker
// survives two thresholds and a local search over the span boundaries.
// Approximate candidates overlapping an exact match, or each other, are then
// resolved, and the survivors are localized to sentences and deduplicated.
//
// Similarity is computed over word embeddings. By default each call to
// Analyze embeds the vocabulary of the transcript and the trackers through
// the configured ai.Embedder, optionally through a storage.VectorCache.
//
// Approximate candidate generation and refinement run per tracker on an
// ants worker pool; the output is identical for every pool size.
package analysis
