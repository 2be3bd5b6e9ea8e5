package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// askTool returns the tool definition for ask
func askTool() mcp.Tool {
	return mcp.Tool{
		Name:        "ask",
		Description: "Ask about local files: resolves explicit file references to a summary, otherwise searches indexed files by keyword and meaning, falling back to a general answer",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Natural-language question, a '/path' command, or a file path",
				},
				"model": map[string]interface{}{
					"type":        "string",
					"description": "Generation model override for this request",
				},
			},
			Required: []string{"query"},
		},
	}
}

// reindexTool returns the tool definition for reindex
func reindexTool() mcp.Tool {
	return mcp.Tool{
		Name:        "reindex",
		Description: "Rebuild the file index and chunk embeddings from scratch",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"root": map[string]interface{}{
					"type":        "string",
					"description": "Directory tree to index (defaults to the configured search root)",
				},
				"workers": map[string]interface{}{
					"type":        "integer",
					"description": "Concurrent embedding workers",
					"minimum":     1,
				},
			},
		},
	}
}

// searchFilesTool returns the tool definition for search_files
func searchFilesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_files",
		Description: "Search indexed files by keywords, with optional type filters like 'pdf files'",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Keywords, optionally with a file-type phrase (e.g. 'resume pdf files')",
				},
			},
			Required: []string{"query"},
		},
	}
}

// resolvePathTool returns the tool definition for resolve_path
func resolvePathTool() mcp.Tool {
	return mcp.Tool{
		Name:        "resolve_path",
		Description: "Look up the metadata of an indexed file by its exact path",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "File path as recorded in the index (case-insensitive)",
				},
			},
			Required: []string{"path"},
		},
	}
}

// analyzeFileTool returns the tool definition for analyze_file
func analyzeFileTool() mcp.Tool {
	return mcp.Tool{
		Name:        "analyze_file",
		Description: "Extract text from an indexed file and summarize it with the local model",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Path of an already indexed file",
				},
				"model": map[string]interface{}{
					"type":        "string",
					"description": "Generation model override for this request",
				},
			},
			Required: []string{"path"},
		},
	}
}

// listFilesTool returns the tool definition for list_files
func listFilesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_files",
		Description: "List every file currently in the index",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Report index size, chunk store statistics, and model configuration",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
