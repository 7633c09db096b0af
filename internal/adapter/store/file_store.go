package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// Raw source-file storage, isolated from the index file proper. Files
// are keyed by a sanitized fileID_fileName path component.

func (s *IndexStore) filePath(projectID, fileID, fileName string) string {
	key := sanitize(fileID + "_" + fileName)
	return filepath.Join(s.projectDir(projectID), filesDirName, key)
}

// SaveFile persists a file's raw content for later retrieval.
func (s *IndexStore) SaveFile(projectID, fileID, fileName, content string) error {
	path := s.filePath(projectID, fileID, fileName)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create files directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to save file %s: %w", fileName, err)
	}
	return nil
}

// LoadFile retrieves previously stored raw content. The second return
// is false when the file was never stored.
func (s *IndexStore) LoadFile(projectID, fileID, fileName string) (string, bool) {
	data, err := os.ReadFile(s.filePath(projectID, fileID, fileName))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// DeleteFile removes stored raw content. Missing files are a no-op.
func (s *IndexStore) DeleteFile(projectID, fileID, fileName string) error {
	err := os.Remove(s.filePath(projectID, fileID, fileName))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file %s: %w", fileName, err)
	}
	return nil
}
