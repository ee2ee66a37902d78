// Package config provides configuration management for veiltext.
//
// All rates and thresholds used by the transformation pipeline live in a
// single explicit Config struct with named fields, populated from CLI flags
// and an optional YAML profile file, and validated once before any processing
// begins. Stages receive the values they need explicitly; there are no
// ambient or global configuration lookups.
//
// Design decision: The original implementation scattered dict-based defaults
// across call sites. Centralizing them here means every tunable is visible in
// one place, documented once, and testable as plain data.
package config
