package embedding

import (
	"context"
	"math"
	"testing"
)

func TestLocalEmbedDeterministic(t *testing.T) {
	e := NewLocal("feature-hash-v1", 128)
	ctx := context.Background()

	a, err := e.Embed(ctx, "the quick brown fox")
	if err != nil {
		t.Fatal(err)
	}
	b, err := e.Embed(ctx, "the quick brown fox")
	if err != nil {
		t.Fatal(err)
	}

	if len(a) != 128 || len(b) != 128 {
		t.Fatalf("expected dimension 128, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("embeddings differ at %d: %f vs %f", i, a[i], b[i])
		}
	}
}

func TestLocalEmbedNormalized(t *testing.T) {
	e := NewLocal("", 64)
	vec, err := e.Embed(context.Background(), "some text with several words in it")
	if err != nil {
		t.Fatal(err)
	}

	var sum float64
	for _, x := range vec {
		sum += float64(x) * float64(x)
	}
	if math.Abs(sum-1.0) > 1e-5 {
		t.Errorf("expected unit-length vector, got norm^2 = %f", sum)
	}
}

func TestLocalEmbedDistinguishes(t *testing.T) {
	e := NewLocal("", 256)
	ctx := context.Background()

	a, _ := e.Embed(ctx, "database connection pooling")
	b, _ := e.Embed(ctx, "database connection pooling")
	c, _ := e.Embed(ctx, "completely unrelated painting techniques")

	same := dot(a, b)
	diff := dot(a, c)
	if same <= diff {
		t.Errorf("identical texts should score higher than unrelated: %f vs %f", same, diff)
	}
}

func TestLocalEmbedBatch(t *testing.T) {
	e := NewLocal("", 64)
	ctx := context.Background()

	texts := []string{"first", "second", "third"}
	vectors, err := e.EmbedBatch(ctx, texts)
	if err != nil {
		t.Fatal(err)
	}
	if len(vectors) != len(texts) {
		t.Fatalf("expected %d vectors, got %d", len(texts), len(vectors))
	}

	for i, text := range texts {
		single, _ := e.Embed(ctx, text)
		for j := range single {
			if vectors[i][j] != single[j] {
				t.Fatalf("batch vector %d differs from single embed", i)
			}
		}
	}
}

func TestLocalReadiness(t *testing.T) {
	e := NewLocal("", 64)
	ctx := context.Background()

	if !e.IsAvailable(ctx) {
		t.Error("local embedder should always be available")
	}
	if err := e.EnsureReady(ctx); err != nil {
		t.Errorf("EnsureReady should be a no-op, got %v", err)
	}
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
