package embedding

import (
	"fmt"
	"os"
	"path/filepath"

	"semdex/config"
	"semdex/internal/port"
)

// NewProvider builds the embedder described by cfg. The kind is
// resolved exactly once, here; callers only ever see port.Embedder.
// When caching is enabled the provider is wrapped with a persistent
// cache stored under dataDir.
func NewProvider(cfg config.EmbeddingConfig, dataDir string) (port.Embedder, error) {
	var inner port.Embedder

	switch cfg.Kind {
	case config.ProviderLocal:
		inner = NewLocal(cfg.Model, cfg.Dimension)
	case config.ProviderRemote:
		apiKey := ""
		if cfg.APIKeyEnv != "" {
			apiKey = os.Getenv(cfg.APIKeyEnv)
		}
		inner = NewRemote(cfg.Endpoint, cfg.Model, apiKey)
	default:
		return nil, fmt.Errorf("unknown embedding kind: %q", cfg.Kind)
	}

	if !cfg.Cache {
		return inner, nil
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	cached, err := NewCached(inner, filepath.Join(dataDir, "embeddings.db"))
	if err != nil {
		return nil, err
	}
	return cached, nil
}
