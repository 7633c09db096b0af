package domain

import "time"

// SchemaVersion is the persisted index schema version. Indexes written
// with a different version are treated as absent and rebuilt.
const SchemaVersion = 1

// Chunk is one retrievable unit of a source document.
type Chunk struct {
	ID          string         `json:"id"`
	FileID      string         `json:"fileId"`
	FileName    string         `json:"fileName"`
	Content     string         `json:"content"`
	StartOffset int            `json:"startOffset"`
	EndOffset   int            `json:"endOffset"`
	ChunkIndex  int            `json:"chunkIndex"`
	TotalChunks int            `json:"totalChunks"`
	TokenCount  int            `json:"tokenCount"`
	Metadata    *ChunkMetadata `json:"metadata,omitempty"`
}

// ChunkMetadata carries optional strategy-specific chunk annotations.
type ChunkMetadata struct {
	Language  string `json:"language,omitempty"`
	Section   string `json:"section,omitempty"`
	LineStart int    `json:"lineStart,omitempty"`
	LineEnd   int    `json:"lineEnd,omitempty"`
}

// IndexedFile records one indexed source file and its content hash for
// change detection.
type IndexedFile struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Size        int       `json:"size"`
	ChunkCount  int       `json:"chunkCount"`
	IndexedAt   time.Time `json:"indexedAt"`
	ContentHash string    `json:"contentHash"`
}

// IndexEntry pairs a chunk with its embedding vector. Keeping the pair
// in one slice makes the chunks/embeddings length invariant structural
// rather than convention-based.
type IndexEntry struct {
	Chunk  Chunk
	Vector []float32
}

// IndexStats are derived counters recomputed on every save.
type IndexStats struct {
	TotalChunks  int     `json:"totalChunks"`
	TotalFiles   int     `json:"totalFiles"`
	TotalTokens  int     `json:"totalTokens"`
	AvgChunkSize float64 `json:"avgChunkSize"`
}

// ProjectIndex is the persisted aggregate for one project.
type ProjectIndex struct {
	ProjectID      string
	Version        int
	EmbeddingModel string
	Dimension      int
	Entries        []IndexEntry
	Files          []IndexedFile
	UpdatedAt      time.Time
	Stats          IndexStats
}

// Chunks returns the chunk-only view of the entries.
func (ix *ProjectIndex) Chunks() []Chunk {
	chunks := make([]Chunk, len(ix.Entries))
	for i, e := range ix.Entries {
		chunks[i] = e.Chunk
	}
	return chunks
}

// Vectors returns the vector-only view of the entries.
func (ix *ProjectIndex) Vectors() [][]float32 {
	vectors := make([][]float32, len(ix.Entries))
	for i, e := range ix.Entries {
		vectors[i] = e.Vector
	}
	return vectors
}

// File returns the indexed-file entry for id, if present.
func (ix *ProjectIndex) File(id string) (IndexedFile, bool) {
	for _, f := range ix.Files {
		if f.ID == id {
			return f, true
		}
	}
	return IndexedFile{}, false
}

// FileStatus values for per-file indexing progress.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusError      = "error"
)

// IndexingStatus is the transient per-file progress record. It is
// telemetry, not index state; it is not persisted.
type IndexingStatus struct {
	FileID        string `json:"fileId"`
	FileName      string `json:"fileName"`
	Status        string `json:"status"`
	Progress      int    `json:"progress"`
	Error         string `json:"error,omitempty"`
	ChunksCreated int    `json:"chunksCreated,omitempty"`
}

// ProjectIndexStatus aggregates per-project indexing progress.
type ProjectIndexStatus struct {
	ProjectID  string            `json:"projectId"`
	IsIndexing bool              `json:"isIndexing"`
	Files      []*IndexingStatus `json:"files"`
	TotalFiles int               `json:"totalFiles"`
	Completed  int               `json:"completed"`
	Failed     int               `json:"failed"`
}

// SearchOptions control ranking and candidate filtering.
type SearchOptions struct {
	TopK     int
	MinScore float64
	FileIDs  []string
}

// SearchResult is one ranked hit mapped back to its chunk.
type SearchResult struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
	Rank  int     `json:"rank"`
}

// ContextResult is an assembled, token-bounded retrieval context.
type ContextResult struct {
	Context    string  `json:"context"`
	Sources    []Chunk `json:"sources"`
	TokenCount int     `json:"tokenCount"`
}

// IndexInfo summarizes a project's persisted index.
type IndexInfo struct {
	Exists     bool      `json:"exists"`
	ChunkCount int       `json:"chunkCount"`
	FileCount  int       `json:"fileCount"`
	UpdatedAt  time.Time `json:"updatedAt,omitempty"`
}
