// Package database provides SQLite-based storage for discovery run history.
//
// This package implements the DiscoveryDB, which stores:
//   - Run records with the structured summary of each discovery run
//   - The categorized URL sets each run produced
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
package database
