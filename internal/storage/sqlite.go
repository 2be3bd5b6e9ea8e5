package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
)

// Document is one indexed file's contribution to the chunk store: its
// metadata plus the ordered chunks of its extracted text.
type Document struct {
	Path      string
	Basename  string
	Directory string
	Extension string
	Kind      string
	Created   string
	Modified  string
	SizeBytes int64
	Chunks    []Chunk
}

// Chunk is one bounded slice of a document's extracted text together with
// its embedding vector.
type Chunk struct {
	Seq     int
	Content string
	Vector  []float32
}

// ChunkHit is one similarity-search result. Document metadata rides along
// so vector-only hits can be rendered without an index lookup.
type ChunkHit struct {
	Path       string
	Basename   string
	Directory  string
	Extension  string
	Kind       string
	Created    string
	Modified   string
	SizeBytes  int64
	Content    string
	Similarity float64
}

// Stats describes the current chunk store contents.
type Stats struct {
	Documents int
	Chunks    int
}

// Storage defines the chunk similarity store contract: wholesale rebuild,
// nearest-neighbor query, and stats.
type Storage interface {
	// ReplaceAll rebuilds the store from scratch inside one transaction;
	// prior contents are discarded, never merged.
	ReplaceAll(ctx context.Context, docs []Document) error

	// SearchVector returns up to limit chunks ordered by cosine
	// similarity to the query vector, best first.
	SearchVector(ctx context.Context, vector []float32, limit int) ([]ChunkHit, error)

	// Stats reports document and chunk counts.
	Stats(ctx context.Context) (Stats, error)

	Close() error
}

// SQLiteStorage implements Storage using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// ReplaceAll rebuilds the store wholesale inside one transaction.
func (s *SQLiteStorage) ReplaceAll(ctx context.Context, docs []Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks"); err != nil {
		return fmt.Errorf("failed to clear chunks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM documents"); err != nil {
		return fmt.Errorf("failed to clear documents: %w", err)
	}

	insertDoc, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (path, basename, directory, extension, kind, created, modified, size_bytes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare document insert: %w", err)
	}
	defer func() { _ = insertDoc.Close() }()

	insertChunk, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (document_id, seq, content, vector, dimension)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare chunk insert: %w", err)
	}
	defer func() { _ = insertChunk.Close() }()

	for i := range docs {
		doc := &docs[i]
		res, err := insertDoc.ExecContext(ctx,
			doc.Path, doc.Basename, doc.Directory, doc.Extension,
			doc.Kind, doc.Created, doc.Modified, doc.SizeBytes)
		if err != nil {
			return fmt.Errorf("failed to insert document %s: %w", doc.Path, err)
		}
		docID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get document id: %w", err)
		}

		for _, chunk := range doc.Chunks {
			blob := serializeVector(chunk.Vector)
			if _, err := insertChunk.ExecContext(ctx, docID, chunk.Seq, chunk.Content, blob, len(chunk.Vector)); err != nil {
				return fmt.Errorf("failed to insert chunk %d of %s: %w", chunk.Seq, doc.Path, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// SearchVector performs cosine similarity search over all stored chunks.
// Similarity is computed in Go; the candidate set is every chunk, which is
// fine at personal-files scale.
func (s *SQLiteStorage) SearchVector(ctx context.Context, vector []float32, limit int) ([]ChunkHit, error) {
	if limit <= 0 {
		return []ChunkHit{}, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT d.path, d.basename, d.directory, d.extension, d.kind,
		       d.created, d.modified, d.size_bytes, c.content, c.vector
		FROM chunks c
		INNER JOIN documents d ON c.document_id = d.id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var candidates []ChunkHit
	for rows.Next() {
		var hit ChunkHit
		var blob []byte
		if err := rows.Scan(&hit.Path, &hit.Basename, &hit.Directory, &hit.Extension,
			&hit.Kind, &hit.Created, &hit.Modified, &hit.SizeBytes, &hit.Content, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		stored, err := deserializeVector(blob)
		if err != nil {
			continue // skip corrupt rows rather than failing the search
		}
		hit.Similarity = cosineSimilarity(vector, stored)
		candidates = append(candidates, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sortBySimilarity(candidates)
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

// Stats reports document and chunk counts.
func (s *SQLiteStorage) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&st.Documents); err != nil {
		return st, fmt.Errorf("failed to count documents: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&st.Chunks); err != nil {
		return st, fmt.Errorf("failed to count chunks: %w", err)
	}
	return st, nil
}
