package embedding

import (
	"context"
	"fmt"
	"sync"

	openai "github.com/sashabaranov/go-openai"
)

// RemoteEmbedder is the remote variant: an OpenAI-compatible HTTP
// embeddings endpoint. A custom base URL covers self-hosted backends
// (Ollama, vLLM, LM Studio) that speak the same protocol.
type RemoteEmbedder struct {
	client *openai.Client
	model  string

	mu    sync.Mutex
	dim   int // length of the last-produced vector; 0 until first embed
	ready bool
}

// NewRemote creates a remote embedder against an OpenAI-compatible
// endpoint. An empty endpoint uses the official API.
func NewRemote(endpoint, model, apiKey string) *RemoteEmbedder {
	cfg := openai.DefaultConfig(apiKey)
	if endpoint != "" {
		cfg.BaseURL = endpoint
	}
	return &RemoteEmbedder{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (e *RemoteEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embedding response contained no data")
	}

	vec := resp.Data[0].Embedding

	e.mu.Lock()
	e.dim = len(vec)
	e.ready = true
	e.mu.Unlock()

	return vec, nil
}

// EmbedBatch applies Embed sequentially. This bounds peak memory and
// respects backends that serialize requests anyway.
func (e *RemoteEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := e.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embedding text %d: %w", i, err)
		}
		vectors[i] = vec
	}
	return vectors, nil
}

func (e *RemoteEmbedder) Dimension() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dim
}

func (e *RemoteEmbedder) IsAvailable(ctx context.Context) bool {
	return e.EnsureReady(ctx) == nil
}

// EnsureReady probes the endpoint with a one-shot embed. It is a no-op
// once a vector has been produced.
func (e *RemoteEmbedder) EnsureReady(ctx context.Context) error {
	e.mu.Lock()
	if e.ready {
		e.mu.Unlock()
		return nil
	}
	e.mu.Unlock()

	if _, err := e.Embed(ctx, "ready"); err != nil {
		return fmt.Errorf("embedding backend not ready: %w", err)
	}
	return nil
}

func (e *RemoteEmbedder) ModelName() string {
	return e.model
}
