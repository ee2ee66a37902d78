// Package database provides SQLite-based storage for transform results.
//
// This package implements the ResultDB, which stores one record per
// pipeline run: the document fingerprint, the change statistics, the risk
// assessment summary, and the full serialized report for later inspection.
// Documents are keyed by content fingerprint rather than file path, so a
// renamed or moved file keeps its history.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
package database
