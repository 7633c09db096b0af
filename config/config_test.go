package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Chunking.ChunkSize != 512 {
		t.Errorf("expected ChunkSize=512, got %d", cfg.Chunking.ChunkSize)
	}
	if cfg.Chunking.ChunkOverlap != 50 {
		t.Errorf("expected ChunkOverlap=50, got %d", cfg.Chunking.ChunkOverlap)
	}
	if cfg.Search.TopK != 10 {
		t.Errorf("expected TopK=10, got %d", cfg.Search.TopK)
	}
	if cfg.Context.MaxTokens != 4000 {
		t.Errorf("expected MaxTokens=4000, got %d", cfg.Context.MaxTokens)
	}
	if cfg.Embedding.Kind != ProviderLocal {
		t.Errorf("expected default embedding kind %q, got %q", ProviderLocal, cfg.Embedding.Kind)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "semdex.yaml")

	content := `
chunking:
  chunk_size: 256
embedding:
  kind: remote
  model: nomic-embed-text
search:
  top_k: 5
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Chunking.ChunkSize != 256 {
		t.Errorf("expected ChunkSize=256, got %d", cfg.Chunking.ChunkSize)
	}
	if cfg.Embedding.Kind != ProviderRemote {
		t.Errorf("expected kind=remote, got %q", cfg.Embedding.Kind)
	}
	if cfg.Embedding.Model != "nomic-embed-text" {
		t.Errorf("expected model=nomic-embed-text, got %q", cfg.Embedding.Model)
	}
	if cfg.Search.TopK != 5 {
		t.Errorf("expected TopK=5, got %d", cfg.Search.TopK)
	}
}

func TestLoad_InvalidKind(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "semdex.yaml")

	content := `
embedding:
  kind: psychic
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("expected error for unknown embedding kind")
	}
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "semdex.yaml")

	content := `
context:
  max_tokens: 8000
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Context.MaxTokens != 8000 {
		t.Errorf("expected MaxTokens=8000, got %d", cfg.Context.MaxTokens)
	}
}

func TestProjectDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Data.Dir = "/home/user/data"
	path := cfg.ProjectDir("proj-1")
	expected := filepath.Join("/home/user/data", "proj-1")
	if path != expected {
		t.Errorf("expected %s, got %s", expected, path)
	}
}
