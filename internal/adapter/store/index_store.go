package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"semdex/internal/domain"
)

const (
	indexFileName = "index.json"
	filesDirName  = "files"
)

// IndexStore persists one index per project: a project directory with a
// single JSON index file and a files subdirectory holding raw source
// content. It assumes a single logical writer per project; concurrent
// writers can interleave load/modify/save cycles and lose updates.
type IndexStore struct {
	baseDir string
}

// NewIndexStore creates a store rooted at baseDir, creating it if
// needed.
func NewIndexStore(baseDir string) (*IndexStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &IndexStore{baseDir: baseDir}, nil
}

// persistedIndex is the on-disk schema. Chunks and embeddings are
// parallel arrays in the JSON document; in memory they live as one
// entry slice so the length invariant cannot drift.
type persistedIndex struct {
	ProjectID      string               `json:"projectId"`
	Version        int                  `json:"version"`
	EmbeddingModel string               `json:"embeddingModel"`
	Dimension      int                  `json:"dimension"`
	Chunks         []domain.Chunk       `json:"chunks"`
	Embeddings     [][]float32          `json:"embeddings"`
	Files          []domain.IndexedFile `json:"files"`
	UpdatedAt      time.Time            `json:"updatedAt"`
	Stats          domain.IndexStats    `json:"stats"`
}

func (s *IndexStore) projectDir(projectID string) string {
	return filepath.Join(s.baseDir, sanitize(projectID))
}

func (s *IndexStore) indexPath(projectID string) string {
	return filepath.Join(s.projectDir(projectID), indexFileName)
}

// LoadIndex returns the persisted index for a project, or nil when it
// is absent. A missing file, a schema version mismatch, and unreadable
// or corrupt data all read as absent; the last two are logged. Callers
// treat nil as "needs (re)build", never as a failure.
func (s *IndexStore) LoadIndex(projectID string) *domain.ProjectIndex {
	data, err := os.ReadFile(s.indexPath(projectID))
	if err != nil {
		return nil
	}

	var p persistedIndex
	if err := json.Unmarshal(data, &p); err != nil {
		log.Printf("store: corrupt index for project %s: %v", projectID, err)
		return nil
	}
	if p.Version != domain.SchemaVersion {
		log.Printf("store: index version %d for project %s does not match %d, rebuild needed",
			p.Version, projectID, domain.SchemaVersion)
		return nil
	}
	if len(p.Chunks) != len(p.Embeddings) {
		log.Printf("store: index for project %s has %d chunks but %d embeddings, treating as corrupt",
			projectID, len(p.Chunks), len(p.Embeddings))
		return nil
	}

	entries := make([]domain.IndexEntry, len(p.Chunks))
	for i := range p.Chunks {
		entries[i] = domain.IndexEntry{Chunk: p.Chunks[i], Vector: p.Embeddings[i]}
	}

	return &domain.ProjectIndex{
		ProjectID:      p.ProjectID,
		Version:        p.Version,
		EmbeddingModel: p.EmbeddingModel,
		Dimension:      p.Dimension,
		Entries:        entries,
		Files:          p.Files,
		UpdatedAt:      p.UpdatedAt,
		Stats:          p.Stats,
	}
}

// SaveIndex recomputes stats, stamps UpdatedAt, and atomically replaces
// the persisted index (temp file + rename, so readers never observe a
// partial write).
func (s *IndexStore) SaveIndex(ix *domain.ProjectIndex) error {
	ix.Stats = computeStats(ix)
	ix.UpdatedAt = time.Now()

	p := persistedIndex{
		ProjectID:      ix.ProjectID,
		Version:        ix.Version,
		EmbeddingModel: ix.EmbeddingModel,
		Dimension:      ix.Dimension,
		Chunks:         ix.Chunks(),
		Embeddings:     ix.Vectors(),
		Files:          ix.Files,
		UpdatedAt:      ix.UpdatedAt,
		Stats:          ix.Stats,
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}

	dir := s.projectDir(ix.ProjectID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, indexFileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp index file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close index file: %w", err)
	}
	if err := os.Rename(tmpName, s.indexPath(ix.ProjectID)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace index: %w", err)
	}
	return nil
}

// CreateIndex produces an empty index with zeroed stats. It is not
// persisted; callers save explicitly.
func (s *IndexStore) CreateIndex(projectID, embeddingModel string, dimension int) *domain.ProjectIndex {
	return &domain.ProjectIndex{
		ProjectID:      projectID,
		Version:        domain.SchemaVersion,
		EmbeddingModel: embeddingModel,
		Dimension:      dimension,
		UpdatedAt:      time.Now(),
	}
}

// AddFileChunks replaces a file's chunks in the project index. Any
// existing chunks and file entry for file.ID are removed first; this is
// the sole mechanism preventing duplicate or stale chunks on
// re-indexing. Chunks and vectors are appended in lock-step and the
// index is saved.
func (s *IndexStore) AddFileChunks(projectID string, file domain.IndexedFile, chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunk/vector count mismatch: %d vs %d", len(chunks), len(vectors))
	}

	ix := s.LoadIndex(projectID)
	if ix == nil {
		dim := 0
		if len(vectors) > 0 {
			dim = len(vectors[0])
		}
		ix = s.CreateIndex(projectID, "", dim)
	}

	dropFile(ix, file.ID)

	for i := range chunks {
		ix.Entries = append(ix.Entries, domain.IndexEntry{Chunk: chunks[i], Vector: vectors[i]})
	}
	ix.Files = append(ix.Files, file)

	return s.SaveIndex(ix)
}

// RemoveFileChunks removes all chunks and the file entry for fileID.
// It is a no-op when the index or the file is absent.
func (s *IndexStore) RemoveFileChunks(projectID, fileID string) error {
	ix := s.LoadIndex(projectID)
	if ix == nil {
		return nil
	}
	if _, ok := ix.File(fileID); !ok {
		return nil
	}

	dropFile(ix, fileID)
	return s.SaveIndex(ix)
}

// NeedsReindex reports whether a file must be (re)chunked and
// (re)embedded: true when no index exists, when the file is unknown to
// it, or when the stored content hash differs from contentHash.
func (s *IndexStore) NeedsReindex(projectID, fileID, contentHash string) bool {
	ix := s.LoadIndex(projectID)
	if ix == nil {
		return true
	}
	f, ok := ix.File(fileID)
	if !ok {
		return true
	}
	return f.ContentHash != contentHash
}

// DeleteIndex removes the entire project directory, index and stored
// source files included. It returns false when nothing existed.
func (s *IndexStore) DeleteIndex(projectID string) bool {
	dir := s.projectDir(projectID)
	if _, err := os.Stat(dir); err != nil {
		return false
	}
	if err := os.RemoveAll(dir); err != nil {
		log.Printf("store: failed to delete index for project %s: %v", projectID, err)
		return false
	}
	return true
}

// dropFile removes fileID's entries and file record in place, keeping
// all other entries in their original relative order.
func dropFile(ix *domain.ProjectIndex, fileID string) {
	entries := ix.Entries[:0]
	for _, e := range ix.Entries {
		if e.Chunk.FileID != fileID {
			entries = append(entries, e)
		}
	}
	ix.Entries = entries

	files := ix.Files[:0]
	for _, f := range ix.Files {
		if f.ID != fileID {
			files = append(files, f)
		}
	}
	ix.Files = files
}

func computeStats(ix *domain.ProjectIndex) domain.IndexStats {
	stats := domain.IndexStats{
		TotalChunks: len(ix.Entries),
		TotalFiles:  len(ix.Files),
	}
	totalChars := 0
	for _, e := range ix.Entries {
		stats.TotalTokens += e.Chunk.TokenCount
		totalChars += len(e.Chunk.Content)
	}
	if stats.TotalChunks > 0 {
		stats.AvgChunkSize = float64(totalChars) / float64(stats.TotalChunks)
	}
	return stats
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// sanitize makes an identifier safe to use as a path component.
func sanitize(name string) string {
	return unsafeChars.ReplaceAllString(name, "_")
}
