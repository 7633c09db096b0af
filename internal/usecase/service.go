package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"sync"

	"semdex/config"
	"semdex/internal/adapter/store"
	"semdex/internal/domain"
	"semdex/internal/port"
)

// Service orchestrates indexing and search for project indexes. It is
// constructed explicitly with its collaborators and owns the in-memory
// indexing-status map; there is no package-level instance.
type Service struct {
	cfg      *config.Config
	store    *store.IndexStore
	embedder port.Embedder
	chunker  port.Chunker

	mu       sync.Mutex
	statuses map[string]*domain.ProjectIndexStatus
}

// NewService wires a retrieval service from its parts.
func NewService(cfg *config.Config, st *store.IndexStore, embedder port.Embedder, chunker port.Chunker) *Service {
	return &Service{
		cfg:      cfg,
		store:    st,
		embedder: embedder,
		chunker:  chunker,
		statuses: make(map[string]*domain.ProjectIndexStatus),
	}
}

// Close releases resources held by the service's collaborators, such as
// a persistent embedding cache.
func (s *Service) Close() error {
	if closer, ok := s.embedder.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// GetIndexingStatus returns the current indexing telemetry for a
// project, or nil if none has been recorded this process lifetime.
// Status is held in memory only; a restart loses in-flight progress but
// never the durable index.
func (s *Service) GetIndexingStatus(projectID string) *domain.ProjectIndexStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statuses[projectID]
}

func (s *Service) publishStatus(ps *domain.ProjectIndexStatus) {
	s.mu.Lock()
	s.statuses[ps.ProjectID] = ps
	s.mu.Unlock()
}

// contentHash returns the hex sha256 digest used for change detection.
func contentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
