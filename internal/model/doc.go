// Package model defines the core data structures used throughout veiltext.
//
// This package contains the following main types:
//   - TransformReport: The main result structure for a single pipeline run
//   - SubstitutionEvent / InjectionEvent: Immutable records of single changes
//   - ParaphraseResult: The outcome of a paraphrase strategy run
//   - RiskAssessment: The risk/invisibility evaluation of a transform
//   - RiskLevel: Discrete risk bucket derived from the continuous risk score
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (homoglyph, invisible, synonym, paraphrase,
// risk, pipeline, report) need to use these types, so centralizing them
// prevents import cycles.
//
// All entities here are value objects owned by the pipeline stage that created
// them. There is no shared mutable state: statistics are carried as explicit
// accumulator values merged by the orchestrator, never as package-level
// counters. The models are designed to be serializable to JSON for report
// output and database storage.
package model
