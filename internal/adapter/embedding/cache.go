package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"semdex/internal/port"
)

var bucketEmbeddings = []byte("embeddings")

// CachedEmbedder wraps another embedder with a persistent cache keyed
// by (model, content hash). Re-embedding identical chunk text becomes a
// disk read instead of an inference call.
type CachedEmbedder struct {
	inner port.Embedder
	db    *bbolt.DB
}

// NewCached opens (or creates) the cache database at path and wraps
// inner with it.
func NewCached(inner port.Embedder, path string) (*CachedEmbedder, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open embedding cache: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketEmbeddings)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache bucket: %w", err)
	}

	return &CachedEmbedder{inner: inner, db: db}, nil
}

func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := cacheKey(c.inner.ModelName(), text)

	if vec, ok := c.get(key); ok {
		return vec, nil
	}

	vec, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	// A write failure only costs a future cache miss.
	_ = c.put(key, vec)
	return vec, nil
}

func (c *CachedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := c.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embedding text %d: %w", i, err)
		}
		vectors[i] = vec
	}
	return vectors, nil
}

func (c *CachedEmbedder) Dimension() int {
	return c.inner.Dimension()
}

func (c *CachedEmbedder) IsAvailable(ctx context.Context) bool {
	return c.inner.IsAvailable(ctx)
}

func (c *CachedEmbedder) EnsureReady(ctx context.Context) error {
	return c.inner.EnsureReady(ctx)
}

func (c *CachedEmbedder) ModelName() string {
	return c.inner.ModelName()
}

// Close releases the cache database.
func (c *CachedEmbedder) Close() error {
	return c.db.Close()
}

func (c *CachedEmbedder) get(key []byte) ([]float32, bool) {
	var vec []float32
	found := false
	_ = c.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketEmbeddings).Get(key)
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &vec); err != nil {
			return nil // treat corrupt entries as misses
		}
		found = true
		return nil
	})
	return vec, found
}

func (c *CachedEmbedder) put(key []byte, vec []float32) error {
	data, err := json.Marshal(vec)
	if err != nil {
		return err
	}
	return c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketEmbeddings).Put(key, data)
	})
}

func cacheKey(model, text string) []byte {
	h := sha256.New()
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return []byte(hex.EncodeToString(h.Sum(nil)))
}
