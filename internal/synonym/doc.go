// Package synonym implements contextual synonym selection for
// Indonesian text.
//
// The selector looks a word up in a large synonym table (tens of
// thousands of entries, loaded once at startup) and scores every
// candidate against the surrounding context window: academic register,
// curated preferred and denied lists, length similarity, domain
// keyword overlap, and a penalty for multi-word candidates. The top
// candidate is returned only when its score clears the quality gate;
// otherwise the original word is kept.
//
// Design decision: scoring is additive over a fixed set of signals
// rather than model-based. The signals and their weights come from
// manual curation for Indonesian academic prose; they are heuristics,
// exposed as configuration defaults rather than constants of nature.
package synonym
