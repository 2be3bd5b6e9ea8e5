// Package index builds and holds the in-memory file metadata catalog.
//
// A walk of the search root produces a flat slice of FileEntry values;
// Store keeps the current slice behind a read-write lock and swaps it
// atomically on reindex, so readers always see a complete snapshot and
// never a partial rebuild.
//
// Paths are compared case-insensitively with separators folded to "/",
// which keeps lookups stable across the Windows paths a UI may send and
// the POSIX paths the walker records.
package index
