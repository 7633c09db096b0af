package usecase

import (
	"context"
	"testing"

	"semdex/config"
	"semdex/internal/adapter/chunker"
	"semdex/internal/adapter/embedding"
	"semdex/internal/adapter/store"
	"semdex/internal/port"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Search.MinScore = 0.0
	return cfg
}

func newTestService(t *testing.T, embedder port.Embedder) *Service {
	t.Helper()
	cfg := testConfig()
	st, err := store.NewIndexStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if embedder == nil {
		embedder = embedding.NewLocal("test-model", 128)
	}
	return NewService(cfg, st, embedder, chunker.New(cfg.Chunking.ChunkSize, cfg.Chunking.ChunkOverlap))
}

// stubEmbedder returns canned vectors per exact text, making ranking
// deterministic in tests.
type stubEmbedder struct {
	vectors  map[string][]float32
	fallback []float32
	readyErr error
	embeds   int
}

func (e *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.embeds++
	if v, ok := e.vectors[text]; ok {
		return v, nil
	}
	return e.fallback, nil
}

func (e *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := e.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (e *stubEmbedder) Dimension() int { return len(e.fallback) }

func (e *stubEmbedder) IsAvailable(ctx context.Context) bool { return e.readyErr == nil }

func (e *stubEmbedder) EnsureReady(_ context.Context) error { return e.readyErr }

func (e *stubEmbedder) ModelName() string { return "stub" }
