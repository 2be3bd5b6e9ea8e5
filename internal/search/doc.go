// Package search implements the metadata-side search primitives: type
// filter parsing ("pdf files"), keyword matching over names and folders,
// explicit path resolution, and merging of keyword and semantic hits.
//
// All functions operate on immutable index snapshots and are safe for
// concurrent use.
package search
