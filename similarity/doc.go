// Package similarity scores how alike two token spans are.
//
// A VectorSpace embeds the vocabulary of one or more documents once, before
// any matching runs, and then answers Similarity queries from memory. The
// matching pipeline only sees the Scorer interface, so tests can substitute a
// ScorerFunc with fixed scores.
package similarity
