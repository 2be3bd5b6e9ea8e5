// Package config resolves runtime settings from the environment.
package config

import (
	"os"
	"path/filepath"
	"strconv"
)

// Defaults applied when the corresponding variable is unset.
const (
	DefaultOllamaBaseURL = "http://localhost:11434"
	DefaultGenModel      = "tinyllama"
	DefaultEmbedModel    = "nomic-embed-text"
	DefaultWorkers       = 4
)

// Config holds every knob the server reads at startup.
type Config struct {
	// SearchRoot is the directory tree to index. Empty means the user's
	// home directory (with its standard subfolders as fallback).
	SearchRoot string

	// OllamaBaseURL is the Ollama HTTP endpoint for both generation and
	// embeddings.
	OllamaBaseURL string

	// GenModel is the default generation model; requests may override it.
	GenModel string

	// EmbedModel is the embedding model name.
	EmbedModel string

	// EmbeddingProvider selects the embedder ("ollama" or "local").
	EmbeddingProvider string

	// DBPath is the SQLite database file for chunk vectors.
	DBPath string

	// Workers bounds concurrent embedding calls during reindex.
	Workers int
}

// FromEnv builds a Config from environment variables, filling defaults for
// anything unset.
func FromEnv() (Config, error) {
	cfg := Config{
		SearchRoot:        os.Getenv("FILE_SEARCH_ROOT"),
		OllamaBaseURL:     envDefault("OLLAMA_BASE_URL", DefaultOllamaBaseURL),
		GenModel:          envDefault("OLLAMA_MODEL", DefaultGenModel),
		EmbedModel:        envDefault("OLLAMA_EMBED_MODEL", DefaultEmbedModel),
		EmbeddingProvider: os.Getenv("LLMLOCALAI_EMBEDDING_PROVIDER"),
		DBPath:            os.Getenv("LLMLOCALAI_DB_PATH"),
		Workers:           DefaultWorkers,
	}

	if cfg.SearchRoot == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, err
		}
		cfg.SearchRoot = home
	}

	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, err
		}
		cfg.DBPath = filepath.Join(home, ".llmlocalai", "index.db")
	}

	if raw := os.Getenv("LLMLOCALAI_WORKERS"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			cfg.Workers = n
		}
	}

	return cfg, nil
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
