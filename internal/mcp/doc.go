// Package mcp implements the Model Context Protocol (MCP) server for the
// local file assistant.
//
// The server exposes seven tools over JSON-RPC 2.0 on stdio:
//   - ask: resolve-or-search entry point; file references get a summary,
//     everything else gets merged keyword + semantic search with a
//     general-knowledge fallback
//   - reindex: rebuild the metadata index and chunk embeddings
//   - search_files: keyword and type-filter search without summarization
//   - resolve_path: exact-path metadata lookup
//   - analyze_file: extract and summarize one indexed file
//   - list_files: dump the current index
//   - get_status: index size, chunk store counts, model configuration
//
// stdout carries protocol messages only; all logging goes to stderr.
//
// Error codes:
//   - -32602: invalid params (missing/invalid arguments)
//   - -32603: internal error (database, embedding service, etc.)
//   - -32001: path is not in the index
//   - -32002: reindex already in progress
//   - -32004: empty query
//
// User-level outcomes that are not protocol failures (empty index, no
// unique file match) are reported inside tool results under "error_code"
// as INDEX_EMPTY or FILE_NOT_FOUND, so clients can still render the
// accompanying answer text.
package mcp
