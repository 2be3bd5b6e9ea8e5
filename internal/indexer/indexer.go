package indexer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/vamshidharreddye/llmlocalai/internal/chunker"
	"github.com/vamshidharreddye/llmlocalai/internal/embedder"
	"github.com/vamshidharreddye/llmlocalai/internal/extract"
	"github.com/vamshidharreddye/llmlocalai/internal/index"
	"github.com/vamshidharreddye/llmlocalai/internal/storage"
)

// ErrIndexingInProgress is returned when a reindex is already running.
var ErrIndexingInProgress = errors.New("indexing already in progress")

// sampleFileCount is how many example paths a reindex result carries.
const sampleFileCount = 6

// Indexer rebuilds the metadata index and the chunk store in one pass:
// walk -> swap snapshot -> extract -> chunk -> embed -> replace store.
type Indexer struct {
	store    *index.Store
	storage  storage.Storage
	embedder embedder.Embedder

	workers int
	lock    ReindexLock
}

// Config contains configuration for the indexer
type Config struct {
	Workers int // Number of concurrent embedding workers (default: runtime.NumCPU())
}

// Stats describes a completed reindex operation.
type Stats struct {
	FilesIndexed  int
	ChunksIndexed int
	Workers       int
	SampleFiles   []string
}

// New creates a new Indexer instance
func New(store *index.Store, stor storage.Storage, emb embedder.Embedder) *Indexer {
	return &Indexer{
		store:    store,
		storage:  stor,
		embedder: emb,
		workers:  runtime.NumCPU(),
	}
}

// Reindex rebuilds everything from scratch under root. The new metadata
// snapshot replaces the old atomically; the chunk store is rebuilt in one
// transaction. Concurrent calls are rejected with ErrIndexingInProgress.
func (idx *Indexer) Reindex(ctx context.Context, root string, config *Config) (*Stats, error) {
	if !idx.lock.TryAcquire() {
		return nil, ErrIndexingInProgress
	}
	defer idx.lock.Release()

	workers := idx.workers
	if config != nil && config.Workers > 0 {
		workers = config.Workers
	}

	log.Printf("indexer: building file index under %s", root)
	entries := index.BuildWithFallback(root)
	idx.store.Replace(entries)
	log.Printf("indexer: indexed %d files (metadata)", len(entries))

	docs, chunks, err := idx.embedDocuments(ctx, idx.buildDocuments(entries), workers)
	if err != nil {
		return nil, err
	}

	if err := idx.storage.ReplaceAll(ctx, docs); err != nil {
		return nil, fmt.Errorf("failed to rebuild chunk store: %w", err)
	}
	log.Printf("indexer: stored %d chunks from %d documents", chunks, len(docs))

	stats := &Stats{
		FilesIndexed:  len(entries),
		ChunksIndexed: chunks,
		Workers:       workers,
	}
	for i := 0; i < len(entries) && i < sampleFileCount; i++ {
		stats.SampleFiles = append(stats.SampleFiles, entries[i].Path)
	}
	return stats, nil
}

// buildDocuments extracts and chunks text for every entry that yields any.
// Extraction failures are absorbed: the file is simply left out.
func (idx *Indexer) buildDocuments(entries []index.FileEntry) []storage.Document {
	var docs []storage.Document
	for i := range entries {
		e := &entries[i]
		text, err := extract.Text(e.Path, e.Extension, extract.IndexLimits)
		if err != nil {
			log.Printf("indexer: skipping %s: %v", e.Path, err)
			continue
		}
		pieces := chunker.Split(text, chunker.DefaultChunkSize, chunker.DefaultOverlap)
		if len(pieces) == 0 {
			continue
		}

		doc := storage.Document{
			Path:      e.Path,
			Basename:  e.Basename,
			Directory: e.Directory,
			Extension: e.Extension,
			Kind:      string(e.Kind),
			Created:   e.Created,
			Modified:  e.Modified,
			SizeBytes: e.SizeBytes,
			Chunks:    make([]storage.Chunk, len(pieces)),
		}
		for seq, content := range pieces {
			doc.Chunks[seq] = storage.Chunk{Seq: seq, Content: content}
		}
		docs = append(docs, doc)
	}
	return docs
}

// embedDocuments fills in chunk vectors with bounded concurrency. Workers
// write into their own document slot, so per-item order is preserved.
// A document whose embedding fails is dropped rather than aborting the
// whole reindex; only context cancellation stops the pipeline.
func (idx *Indexer) embedDocuments(ctx context.Context, docs []storage.Document, workers int) ([]storage.Document, int, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	failed := make([]bool, len(docs))
	for i := range docs {
		g.Go(func() error {
			doc := &docs[i]
			texts := make([]string, len(doc.Chunks))
			for j := range doc.Chunks {
				texts[j] = doc.Chunks[j].Content
			}

			resp, err := idx.embedder.GenerateBatch(gctx, embedder.BatchEmbeddingRequest{Texts: texts})
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				log.Printf("indexer: embedding failed for %s: %v", doc.Path, err)
				failed[i] = true
				return nil
			}

			for j, emb := range resp.Embeddings {
				doc.Chunks[j].Vector = emb.Vector
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, 0, fmt.Errorf("embedding pipeline: %w", err)
	}

	kept := make([]storage.Document, 0, len(docs))
	chunks := 0
	for i := range docs {
		if failed[i] {
			continue
		}
		kept = append(kept, docs[i])
		chunks += len(docs[i].Chunks)
	}
	return kept, chunks, nil
}
