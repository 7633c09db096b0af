package usecase

import (
	"context"
	"fmt"
	"strings"

	"semdex/internal/adapter/chunker"
	"semdex/internal/domain"
)

// ContextOptions extend search options with a token budget for the
// assembled context.
type ContextOptions struct {
	domain.SearchOptions
	MaxTokens int
}

// GetContext searches and then greedily assembles formatted chunk
// blocks into a context string. Accumulation stops at the first chunk
// that would push the running token estimate over the budget; later,
// smaller chunks are not considered.
func (s *Service) GetContext(ctx context.Context, projectID, query string, opts ContextOptions) (domain.ContextResult, error) {
	results, err := s.Search(ctx, projectID, query, opts.SearchOptions)
	if err != nil {
		return domain.ContextResult{Sources: []domain.Chunk{}}, err
	}
	if len(results) == 0 {
		return domain.ContextResult{Sources: []domain.Chunk{}}, nil
	}

	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = s.cfg.Context.MaxTokens
	}

	var b strings.Builder
	sources := make([]domain.Chunk, 0, len(results))
	tokens := 0

	for _, r := range results {
		block := formatBlock(r)
		blockTokens := chunker.EstimateTokens(block)
		if tokens+blockTokens > maxTokens {
			break
		}
		b.WriteString(block)
		tokens += blockTokens
		sources = append(sources, r.Chunk)
	}

	if len(sources) == 0 {
		return domain.ContextResult{Sources: []domain.Chunk{}}, nil
	}

	return domain.ContextResult{
		Context:    strings.TrimSpace(b.String()),
		Sources:    sources,
		TokenCount: tokens,
	}, nil
}

// formatBlock renders one search hit: a header naming the source, its
// section and line range when known, and the match percentage, followed
// by the chunk content.
func formatBlock(r domain.SearchResult) string {
	var h strings.Builder
	h.WriteString("--- ")
	h.WriteString(r.Chunk.FileName)
	if meta := r.Chunk.Metadata; meta != nil {
		if meta.Section != "" {
			h.WriteString(" > ")
			h.WriteString(meta.Section)
		}
		if meta.LineStart > 0 {
			fmt.Fprintf(&h, " (lines %d-%d)", meta.LineStart, meta.LineEnd)
		}
	}
	fmt.Fprintf(&h, " [%.0f%% match] ---\n", r.Score*100)
	h.WriteString(r.Chunk.Content)
	h.WriteString("\n\n")
	return h.String()
}
