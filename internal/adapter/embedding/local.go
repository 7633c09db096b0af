package embedding

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// LocalEmbedder is the in-process variant: a deterministic feature-hash
// embedding over word unigrams and bigrams. It needs no external
// backend, so it is always available and EnsureReady is a no-op.
type LocalEmbedder struct {
	model string
	dim   int
}

// NewLocal creates a local embedder with a fixed dimension.
func NewLocal(model string, dimension int) *LocalEmbedder {
	if dimension <= 0 {
		dimension = 384
	}
	if model == "" {
		model = "feature-hash-v1"
	}
	return &LocalEmbedder{model: model, dim: dimension}
}

func (e *LocalEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, e.dim)

	words := splitWords(text)
	for i, w := range words {
		vec[bucket(w, e.dim)] += 1.0
		if i+1 < len(words) {
			vec[bucket(w+" "+words[i+1], e.dim)] += 0.5
		}
	}

	normalize(vec)
	return vec, nil
}

func (e *LocalEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
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

func (e *LocalEmbedder) Dimension() int {
	return e.dim
}

func (e *LocalEmbedder) IsAvailable(_ context.Context) bool {
	return true
}

func (e *LocalEmbedder) EnsureReady(_ context.Context) error {
	return nil
}

func (e *LocalEmbedder) ModelName() string {
	return e.model
}

func splitWords(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func bucket(s string, dim int) int {
	h := fnv.New32a()
	h.Write([]byte(s))
	return int(h.Sum32() % uint32(dim))
}

// normalize scales a vector to unit length so dot products behave like
// cosine similarity.
func normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	inv := float32(1.0 / math.Sqrt(sum))
	for i := range v {
		v[i] *= inv
	}
}
