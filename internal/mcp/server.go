package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"

	"github.com/vamshidharreddye/llmlocalai/internal/config"
	"github.com/vamshidharreddye/llmlocalai/internal/embedder"
	"github.com/vamshidharreddye/llmlocalai/internal/engine"
	"github.com/vamshidharreddye/llmlocalai/internal/index"
	"github.com/vamshidharreddye/llmlocalai/internal/indexer"
	"github.com/vamshidharreddye/llmlocalai/internal/llm"
	"github.com/vamshidharreddye/llmlocalai/internal/searcher"
	"github.com/vamshidharreddye/llmlocalai/internal/storage"
	"github.com/vamshidharreddye/llmlocalai/internal/summarizer"
)

const (
	// ServerName is the MCP server name
	ServerName = "llmlocalai"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp     *server.MCPServer
	cfg     config.Config
	store   *index.Store
	storage storage.Storage
	indexer *indexer.Indexer
	engine  *engine.Engine
}

// NewServer creates a new MCP server instance wired from cfg.
func NewServer(cfg config.Config) (*Server, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	stor, err := storage.NewSQLiteStorage(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	emb, err := embedder.New(embedder.Config{
		Provider:      cfg.EmbeddingProvider,
		OllamaBaseURL: cfg.OllamaBaseURL,
		Model:         cfg.EmbedModel,
	})
	if err != nil {
		_ = stor.Close()
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}

	store := index.NewStore()
	client := llm.NewClient(cfg.OllamaBaseURL, cfg.GenModel)
	eng := engine.New(store, searcher.NewSearcher(emb, stor), summarizer.New(client), client)

	s := &Server{
		mcp:     server.NewMCPServer(ServerName, ServerVersion),
		cfg:     cfg,
		store:   store,
		storage: stor,
		indexer: indexer.New(store, stor, emb),
		engine:  eng,
	}

	if err := s.registerTools(); err != nil {
		_ = stor.Close()
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.storage.Close() }()
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() error {
	s.mcp.AddTool(askTool(), s.handleAsk)
	s.mcp.AddTool(reindexTool(), s.handleReindex)
	s.mcp.AddTool(searchFilesTool(), s.handleSearchFiles)
	s.mcp.AddTool(resolvePathTool(), s.handleResolvePath)
	s.mcp.AddTool(analyzeFileTool(), s.handleAnalyzeFile)
	s.mcp.AddTool(listFilesTool(), s.handleListFiles)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)
	return nil
}
