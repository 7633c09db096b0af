package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"

	"semdex/internal/domain"
)

// Search ranks a project's stored chunks against a query by cosine
// similarity. It returns nil when the project has no index or no
// chunks. Zero-valued options fall back to the configured defaults.
func (s *Service) Search(ctx context.Context, projectID, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	ix := s.store.LoadIndex(projectID)
	if ix == nil || len(ix.Entries) == 0 {
		return nil, nil
	}

	if err := s.embedder.EnsureReady(ctx); err != nil {
		return nil, fmt.Errorf("embedding provider not ready: %w", err)
	}
	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = s.cfg.Search.TopK
	}
	minScore := opts.MinScore
	if minScore == 0 {
		minScore = s.cfg.Search.MinScore
	}

	// Candidate positions into the entry slice; a file filter narrows
	// the set but keeps original positions for chunk lookup.
	var positions []int
	if len(opts.FileIDs) > 0 {
		allowed := make(map[string]bool, len(opts.FileIDs))
		for _, id := range opts.FileIDs {
			allowed[id] = true
		}
		for i, e := range ix.Entries {
			if allowed[e.Chunk.FileID] {
				positions = append(positions, i)
			}
		}
	} else {
		positions = make([]int, len(ix.Entries))
		for i := range positions {
			positions[i] = i
		}
	}

	type scored struct {
		pos   int
		score float64
	}
	candidates := make([]scored, 0, len(positions))
	for _, pos := range positions {
		score := CosineSimilarity(queryVec, ix.Entries[pos].Vector)
		if score < minScore {
			continue
		}
		candidates = append(candidates, scored{pos: pos, score: score})
	}

	// Equal scores tie-break on ascending original chunk position, so
	// result order is deterministic regardless of any file filter.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].pos < candidates[j].pos
	})

	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	results := make([]domain.SearchResult, len(candidates))
	for i, c := range candidates {
		results[i] = domain.SearchResult{
			Chunk: ix.Entries[c.pos].Chunk,
			Score: c.score,
			Rank:  i + 1,
		}
	}
	return results, nil
}

// CosineSimilarity returns dot(a,b) / (|a|*|b|). Mismatched lengths and
// zero-norm vectors score 0 rather than erroring.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
