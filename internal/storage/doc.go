// Package storage provides SQLite-based persistence for chunk embeddings.
//
// The storage layer manages:
//   - Document metadata (path, type, timestamps, size)
//   - Text chunks with their embedding vectors
//
// # Database Schema
//
// Tables:
//   - documents: one row per indexed file that yielded text
//   - chunks: overlapping text chunks with little-endian float32 vectors
//
// Chunks cascade-delete with their document. The store is rebuilt
// wholesale on every reindex; there is no incremental update path.
//
// # Basic Usage
//
//	db, err := storage.NewSQLiteStorage("~/.llmlocalai/index.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	err = db.ReplaceAll(ctx, docs)
//	hits, err := db.SearchVector(ctx, queryVector, 10)
//
// # Similarity Search
//
// SearchVector scans every stored chunk, computes cosine similarity in Go,
// and returns the best matches. SQLite is the durable container, not the
// vector engine; at personal-files scale a full scan is fast enough and
// avoids a native extension dependency.
//
// # Build Modes
//
// Two SQLite drivers are supported via build tags:
//   - default: modernc.org/sqlite (pure Go, no cgo)
//   - sqlite_cgo: mattn/go-sqlite3 (cgo, faster)
package storage
