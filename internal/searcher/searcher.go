// Package searcher wraps the embedding service and the chunk store into
// the semantic search client. Failures on either side are non-fatal: the
// caller gets an empty result set and the request carries on.
package searcher

import (
	"context"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/vamshidharreddye/llmlocalai/internal/embedder"
	"github.com/vamshidharreddye/llmlocalai/internal/index"
	"github.com/vamshidharreddye/llmlocalai/internal/search"
	"github.com/vamshidharreddye/llmlocalai/internal/storage"
)

const (
	// DefaultTopK is the chunk candidate count per query.
	DefaultTopK = 8

	// snippetLen bounds the content excerpt attached to a hit.
	snippetLen = 300

	// MinSemanticTokens is the token count above which a query is
	// treated as a real question rather than a filename lookup.
	MinSemanticTokens = 2
)

// Searcher performs semantic search over indexed content chunks.
type Searcher struct {
	embedder embedder.Embedder
	storage  storage.Storage
}

// NewSearcher creates a new Searcher instance
func NewSearcher(emb embedder.Embedder, stor storage.Storage) *Searcher {
	return &Searcher{
		embedder: emb,
		storage:  stor,
	}
}

// Eligible reports whether a cleaned query should hit the vector store at
// all: short or type-filtered queries are presumed to be filename lookups,
// and embedding them would be wasted work.
func Eligible(cleanedQuery string, filterActive bool) bool {
	if filterActive {
		return false
	}
	return len(strings.Fields(cleanedQuery)) > MinSemanticTokens
}

// Search embeds the query, asks the chunk store for the nearest chunks, and
// collapses multiple chunks of the same file into a single hit (first
// occurrence wins, so a file never appears twice). Any backend failure
// yields an empty result set, never an error.
func (s *Searcher) Search(ctx context.Context, query string, topK int) []search.Hit {
	if topK <= 0 {
		topK = DefaultTopK
	}

	emb, err := s.embedder.GenerateEmbedding(ctx, embedder.EmbeddingRequest{Text: query})
	if err != nil {
		log.Printf("searcher: query embedding failed: %v", err)
		return nil
	}

	chunkHits, err := s.storage.SearchVector(ctx, emb.Vector, topK)
	if err != nil {
		log.Printf("searcher: vector query failed: %v", err)
		return nil
	}

	seen := make(map[string]bool, len(chunkHits))
	var hits []search.Hit
	for _, ch := range chunkHits {
		if ch.Path == "" || seen[ch.Path] {
			continue
		}
		seen[ch.Path] = true

		snippet := truncate(ch.Content, snippetLen)

		hits = append(hits, search.Hit{
			FileEntry: index.FileEntry{
				Path:      ch.Path,
				Basename:  ch.Basename,
				Name:      strings.ToLower(ch.Basename),
				Directory: ch.Directory,
				Extension: ch.Extension,
				Kind:      index.Kind(ch.Kind),
				Created:   ch.Created,
				Modified:  ch.Modified,
				SizeBytes: ch.SizeBytes,
			},
			Reason:       search.ReasonVector,
			ReasonDetail: snippet,
			Snippet:      snippet,
		})
	}
	return hits
}

// truncate cuts s to at most max bytes, backing off to a rune boundary so
// the snippet stays valid UTF-8.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
