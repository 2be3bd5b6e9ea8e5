package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/vamshidharreddye/llmlocalai/internal/engine"
	"github.com/vamshidharreddye/llmlocalai/internal/indexer"
)

// MCP error codes
const (
	ErrorCodeInvalidParams      = -32602 // Invalid method parameters
	ErrorCodeInternalError      = -32603 // Internal JSON-RPC error
	ErrorCodeFileNotFound       = -32001 // Path is not in the index
	ErrorCodeIndexingInProgress = -32002 // Another reindex is already running
	ErrorCodeEmptyQuery         = -32004 // Query parameter is empty
)

// handleAsk handles the ask tool invocation
func (s *Server) handleAsk(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}
	model := getStringDefault(args, "model", "")

	result := s.engine.Ask(ctx, query, model)

	response := map[string]interface{}{
		"answer":  result.Answer,
		"sources": result.Sources,
	}
	if result.Markdown != "" {
		response["markdown_table"] = result.Markdown
	}
	if result.ErrCode != "" {
		response["error_code"] = result.ErrCode
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleReindex handles the reindex tool invocation
func (s *Server) handleReindex(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})

	root := getStringDefault(args, "root", s.cfg.SearchRoot)
	workers := getIntDefault(args, "workers", s.cfg.Workers)

	stats, err := s.indexer.Reindex(ctx, root, &indexer.Config{Workers: workers})
	if errors.Is(err, indexer.ErrIndexingInProgress) {
		return nil, newMCPError(ErrorCodeIndexingInProgress, "a reindex is already running", nil)
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "reindex failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"indexed":        true,
		"files_indexed":  stats.FilesIndexed,
		"chunks_indexed": stats.ChunksIndexed,
		"workers":        stats.Workers,
		"sample_files":   stats.SampleFiles,
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleSearchFiles handles the search_files tool invocation
func (s *Server) handleSearchFiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	hits, markdown := s.engine.SearchFiles(query)

	response := map[string]interface{}{
		"count":   len(hits),
		"results": hits,
	}
	if markdown != "" {
		response["markdown_table"] = markdown
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleResolvePath handles the resolve_path tool invocation
func (s *Server) handleResolvePath(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}

	entry, found := s.engine.ResolvePath(path)
	if !found {
		response := map[string]interface{}{
			"found":      false,
			"path":       path,
			"error_code": engine.CodeFileNotFound,
		}
		return mcp.NewToolResultText(formatJSON(response)), nil
	}

	response := map[string]interface{}{
		"found":    true,
		"file":     entry,
		"open_url": engine.FileURL(entry.Path),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleAnalyzeFile handles the analyze_file tool invocation
func (s *Server) handleAnalyzeFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}
	model := getStringDefault(args, "model", "")

	entry, summary, found := s.engine.Analyze(ctx, path, model)
	if !found {
		return nil, newMCPError(ErrorCodeFileNotFound, "path is not in the index", map[string]interface{}{
			"path": path,
		})
	}

	response := map[string]interface{}{
		"file":    entry,
		"summary": summary,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleListFiles handles the list_files tool invocation
func (s *Server) handleListFiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries := s.engine.ListAll()

	response := map[string]interface{}{
		"count": len(entries),
		"files": entries,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.storage.Stats(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to read chunk store stats", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"files_indexed": s.store.Len(),
		"chunk_store": map[string]interface{}{
			"documents": stats.Documents,
			"chunks":    stats.Chunks,
		},
		"configuration": map[string]interface{}{
			"search_root":        s.cfg.SearchRoot,
			"generation_model":   s.cfg.GenModel,
			"embedding_model":    s.cfg.EmbedModel,
			"embedding_provider": s.cfg.EmbeddingProvider,
			"ollama_base_url":    s.cfg.OllamaBaseURL,
		},
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}
