package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the retrieval engine.
type Config struct {
	Data      DataConfig      `yaml:"data"`
	Chunking  ChunkingConfig  `yaml:"chunking"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Search    SearchConfig    `yaml:"search"`
	Context   ContextConfig   `yaml:"context"`
}

// DataConfig holds storage locations.
type DataConfig struct {
	// Dir is the base directory holding one subdirectory per project.
	Dir string `yaml:"dir"`
}

// ChunkingConfig holds chunker tuning, in approximate tokens.
type ChunkingConfig struct {
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`
}

// Embedding provider kinds.
const (
	ProviderLocal  = "local"
	ProviderRemote = "remote"
)

// EmbeddingConfig selects and configures the embedding backend.
// Kind is resolved once at construction; there is no model-name
// sniffing anywhere else.
type EmbeddingConfig struct {
	Kind      string `yaml:"kind"` // "local" or "remote"
	Model     string `yaml:"model"`
	Endpoint  string `yaml:"endpoint,omitempty"`    // remote only, OpenAI-compatible base URL
	APIKeyEnv string `yaml:"api_key_env,omitempty"` // remote only
	Dimension int    `yaml:"dimension"`             // local only; remote learns it from the first response
	Cache     bool   `yaml:"cache"`                 // persist embeddings keyed by content hash
}

// SearchConfig holds ranking defaults.
type SearchConfig struct {
	TopK     int     `yaml:"top_k"`
	MinScore float64 `yaml:"min_score"`
}

// ContextConfig holds context assembly limits.
type ContextConfig struct {
	MaxTokens int `yaml:"max_tokens"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Dir: ".semdex",
		},
		Chunking: ChunkingConfig{
			ChunkSize:    512,
			ChunkOverlap: 50,
		},
		Embedding: EmbeddingConfig{
			Kind:      ProviderLocal,
			Model:     "feature-hash-v1",
			Endpoint:  "http://localhost:11434/v1",
			APIKeyEnv: "SEMDEX_API_KEY",
			Dimension: 384,
			Cache:     true,
		},
		Search: SearchConfig{
			TopK:     10,
			MinScore: 0.3,
		},
		Context: ContextConfig{
			MaxTokens: 4000,
		},
	}
}

// Validate checks fields that have no usable zero value.
func (c *Config) Validate() error {
	switch c.Embedding.Kind {
	case ProviderLocal, ProviderRemote:
	default:
		return fmt.Errorf("unknown embedding kind: %q", c.Embedding.Kind)
	}
	if c.Chunking.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive, got %d", c.Chunking.ChunkSize)
	}
	if c.Chunking.ChunkOverlap < 0 || c.Chunking.ChunkOverlap >= c.Chunking.ChunkSize {
		return fmt.Errorf("chunk_overlap must be in [0, chunk_size), got %d", c.Chunking.ChunkOverlap)
	}
	return nil
}

// Load loads configuration from a YAML file, filling in defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for semdex.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "semdex.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".semdex", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ProjectDir returns the directory holding a project's index and files.
func (c *Config) ProjectDir(projectID string) string {
	return filepath.Join(c.Data.Dir, projectID)
}

// EnsureDataDir ensures the base data directory exists.
func (c *Config) EnsureDataDir() error {
	return os.MkdirAll(c.Data.Dir, 0755)
}
