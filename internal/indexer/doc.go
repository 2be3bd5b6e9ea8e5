// Package indexer rebuilds the searchable state in one pass: walk the
// tree, swap the metadata snapshot, then extract, chunk, embed and store
// document text.
//
// # Pipeline
//
//	walk -> metadata snapshot swap -> extract text -> chunk -> embed -> replace chunk store
//
// The metadata snapshot becomes visible as soon as the walk finishes, so
// name and path search work even while embeddings are still being
// generated. The chunk store is replaced wholesale in a single
// transaction at the end.
//
// # Concurrency
//
// Embedding runs under an errgroup with a worker limit. Only one reindex
// may run at a time; concurrent calls fail fast with
// ErrIndexingInProgress.
//
// # Failure Model
//
// Per-file extraction and embedding failures are logged and the file is
// dropped from the chunk store; they never abort the reindex. Context
// cancellation does abort it.
package indexer
