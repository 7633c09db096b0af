package port

import "context"

// Embedder turns text into fixed-length vectors. Implementations must be
// interchangeable from the retrieval service's perspective; it never
// branches on which variant is active.
type Embedder interface {
	// Embed generates an embedding for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch embeds texts one at a time, bounding peak memory
	// rather than maximizing throughput.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the length of the last-produced vector.
	// It stabilizes once the model has embedded at least one text.
	Dimension() int

	// IsAvailable is a best-effort readiness probe.
	IsAvailable(ctx context.Context) bool

	// EnsureReady loads or initializes the backend. It is idempotent:
	// a no-op once the backend is ready.
	EnsureReady(ctx context.Context) error

	// ModelName returns the configured model identifier.
	ModelName() string
}
