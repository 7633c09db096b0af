package port

import "semdex/internal/domain"

// Chunker splits a document's content into retrievable chunks.
type Chunker interface {
	ChunkDocument(fileID, fileName, content string) []domain.Chunk
}
