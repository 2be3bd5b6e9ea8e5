// Package embedder generates vector embeddings for text chunks.
//
// Two providers are available:
//   - ollama: POSTs to a local Ollama instance (default model
//     nomic-embed-text, 768 dimensions)
//   - local: deterministic hash-derived vectors for testing and offline
//     use (384 dimensions)
//
// # Basic Usage
//
//	emb, err := embedder.New(embedder.Config{
//	    Provider:      "ollama",
//	    OllamaBaseURL: "http://localhost:11434",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer emb.Close()
//
//	result, err := emb.GenerateEmbedding(ctx, "some chunk text")
//
// # Caching
//
// An LRU cache keyed by SHA-256 of the text sits in front of every
// provider. Cache hits return a copy so callers can mutate vectors freely.
//
// # Failure Model
//
// Provider calls are attempted once. A failed embedding surfaces
// immediately as ErrProviderFailed; there is no automatic retry, so a
// down embedding service degrades reindexing quickly instead of hanging
// it.
package embedder
