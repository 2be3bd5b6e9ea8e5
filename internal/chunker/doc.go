// Package chunker divides extracted document text into overlapping
// fixed-size chunks for embedding.
//
// Unlike source code, personal documents have no reliable semantic
// boundaries, so chunking is purely positional: 800-character windows
// with a 200-character overlap so that sentences straddling a boundary
// still appear intact in at least one chunk.
package chunker
