// Package risk implements the detectability scorer for transformed
// text.
//
// Given an (original, modified) pair the Scorer aligns the two texts
// character by character, classifies each difference as visible or
// invisible, counts zero-width insertions, runs a registry of
// suspicious-pattern regexes over the modified text, and folds the
// results into five weighted risk components. The weighted sum is
// bucketed into a five-level risk enum, and deterministic
// recommendations are emitted for every component that exceeds its
// threshold.
//
// Assess is pure and total: it never returns an error, accepts empty
// strings, and produces identical output for identical input.
package risk
