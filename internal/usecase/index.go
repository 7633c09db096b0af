package usecase

import (
	"context"
	"fmt"
	"time"

	"semdex/internal/domain"
)

// FileInput is a file handed to the service for indexing.
type FileInput struct {
	ID      string
	Name    string
	Content string
}

// IndexFile indexes one file, driving its status through
// pending -> processing -> completed|error. Failures are reported on
// the returned status, never raised; callers inspect Status and Error.
func (s *Service) IndexFile(ctx context.Context, projectID string, file FileInput) *domain.IndexingStatus {
	st := &domain.IndexingStatus{
		FileID:   file.ID,
		FileName: file.Name,
		Status:   domain.StatusPending,
	}
	s.indexFile(ctx, projectID, file, st)
	return st
}

func (s *Service) indexFile(ctx context.Context, projectID string, file FileInput, st *domain.IndexingStatus) {
	st.Status = domain.StatusProcessing
	st.Progress = 5

	if err := s.embedder.EnsureReady(ctx); err != nil {
		fail(st, fmt.Sprintf("embedding provider not ready: %v", err))
		return
	}
	st.Progress = 10

	// Unchanged content short-circuits with zero work.
	hash := contentHash(file.Content)
	if !s.store.NeedsReindex(projectID, file.ID, hash) {
		if ix := s.store.LoadIndex(projectID); ix != nil {
			if f, ok := ix.File(file.ID); ok {
				st.ChunksCreated = f.ChunkCount
			}
		}
		st.Status = domain.StatusCompleted
		st.Progress = 100
		return
	}
	st.Progress = 20

	if err := s.store.SaveFile(projectID, file.ID, file.Name, file.Content); err != nil {
		fail(st, fmt.Sprintf("failed to store file: %v", err))
		return
	}
	st.Progress = 30

	chunks := s.chunker.ChunkDocument(file.ID, file.Name, file.Content)
	if len(chunks) == 0 {
		st.Status = domain.StatusCompleted
		st.Progress = 100
		st.ChunksCreated = 0
		return
	}
	st.Progress = 40

	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Content
	}
	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		fail(st, fmt.Sprintf("embedding failed: %v", err))
		return
	}
	st.Progress = 70

	indexed := domain.IndexedFile{
		ID:          file.ID,
		Name:        file.Name,
		Size:        len(file.Content),
		ChunkCount:  len(chunks),
		IndexedAt:   time.Now(),
		ContentHash: hash,
	}

	if ix := s.store.LoadIndex(projectID); ix == nil {
		ix = s.store.CreateIndex(projectID, s.embedder.ModelName(), s.embedder.Dimension())
		if err := s.store.SaveIndex(ix); err != nil {
			fail(st, fmt.Sprintf("failed to create index: %v", err))
			return
		}
	}
	st.Progress = 85

	if err := s.store.AddFileChunks(projectID, indexed, chunks, vectors); err != nil {
		fail(st, fmt.Sprintf("failed to update index: %v", err))
		return
	}

	st.Status = domain.StatusCompleted
	st.Progress = 100
	st.ChunksCreated = len(chunks)
}

func fail(st *domain.IndexingStatus, msg string) {
	st.Status = domain.StatusError
	st.Error = msg
}

// IndexFiles indexes files sequentially within one project. A provider
// that cannot be made ready aborts the batch: every file not yet
// started is marked error with the readiness failure, while completed
// files keep their status.
func (s *Service) IndexFiles(ctx context.Context, projectID string, files []FileInput) *domain.ProjectIndexStatus {
	ps := &domain.ProjectIndexStatus{
		ProjectID:  projectID,
		IsIndexing: true,
		TotalFiles: len(files),
	}
	for _, f := range files {
		ps.Files = append(ps.Files, &domain.IndexingStatus{
			FileID:   f.ID,
			FileName: f.Name,
			Status:   domain.StatusPending,
		})
	}
	s.publishStatus(ps)

	if err := s.embedder.EnsureReady(ctx); err != nil {
		msg := fmt.Sprintf("embedding provider not ready: %v", err)
		for _, fs := range ps.Files {
			if fs.Status != domain.StatusCompleted {
				fail(fs, msg)
				ps.Failed++
			}
		}
		ps.IsIndexing = false
		s.publishStatus(ps)
		return ps
	}

	for i, f := range files {
		s.indexFile(ctx, projectID, f, ps.Files[i])
		switch ps.Files[i].Status {
		case domain.StatusCompleted:
			ps.Completed++
		case domain.StatusError:
			ps.Failed++
		}
	}

	ps.IsIndexing = false
	s.publishStatus(ps)
	return ps
}

// RemoveFile removes a file's chunks and stored raw content. Missing
// projects and files are a no-op.
func (s *Service) RemoveFile(projectID, fileID string) error {
	name := ""
	if ix := s.store.LoadIndex(projectID); ix != nil {
		if f, ok := ix.File(fileID); ok {
			name = f.Name
		}
	}

	if err := s.store.RemoveFileChunks(projectID, fileID); err != nil {
		return fmt.Errorf("failed to remove file chunks: %w", err)
	}
	if name != "" {
		if err := s.store.DeleteFile(projectID, fileID, name); err != nil {
			return fmt.Errorf("failed to delete stored file: %w", err)
		}
	}
	return nil
}

// DeleteProjectIndex removes a project's entire persisted index.
// Returns false when nothing existed.
func (s *Service) DeleteProjectIndex(projectID string) bool {
	return s.store.DeleteIndex(projectID)
}

// IsFileIndexed reports whether a file has chunks in the project index.
func (s *Service) IsFileIndexed(projectID, fileID string) bool {
	ix := s.store.LoadIndex(projectID)
	if ix == nil {
		return false
	}
	_, ok := ix.File(fileID)
	return ok
}

// GetIndexInfo summarizes the persisted index for a project.
func (s *Service) GetIndexInfo(projectID string) domain.IndexInfo {
	ix := s.store.LoadIndex(projectID)
	if ix == nil {
		return domain.IndexInfo{}
	}
	return domain.IndexInfo{
		Exists:     true,
		ChunkCount: len(ix.Entries),
		FileCount:  len(ix.Files),
		UpdatedAt:  ix.UpdatedAt,
	}
}
