package store

import (
	"os"
	"path/filepath"
	"testing"

	"semdex/internal/domain"
)

func newTestStore(t *testing.T) *IndexStore {
	t.Helper()
	s, err := NewIndexStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func makeChunks(fileID string, n int) ([]domain.Chunk, [][]float32) {
	chunks := make([]domain.Chunk, n)
	vectors := make([][]float32, n)
	offset := 0
	for i := 0; i < n; i++ {
		content := "chunk content number " + string(rune('a'+i))
		chunks[i] = domain.Chunk{
			ID:          fileID + "_chunk_" + string(rune('a'+i)),
			FileID:      fileID,
			FileName:    fileID + ".txt",
			Content:     content,
			StartOffset: offset,
			EndOffset:   offset + len(content),
			ChunkIndex:  i,
			TotalChunks: n,
			TokenCount:  (len(content) + 3) / 4,
		}
		offset += len(content)
		vectors[i] = []float32{float32(i), 1, 0}
	}
	return chunks, vectors
}

func makeFile(fileID, hash string) domain.IndexedFile {
	return domain.IndexedFile{
		ID:          fileID,
		Name:        fileID + ".txt",
		Size:        100,
		ContentHash: hash,
	}
}

func TestLoadIndexAbsent(t *testing.T) {
	s := newTestStore(t)
	if ix := s.LoadIndex("nope"); ix != nil {
		t.Error("expected nil for missing index")
	}
}

func TestAddFileChunksRoundTrip(t *testing.T) {
	s := newTestStore(t)
	chunks, vectors := makeChunks("f1", 3)

	if err := s.AddFileChunks("p1", makeFile("f1", "h1"), chunks, vectors); err != nil {
		t.Fatal(err)
	}

	ix := s.LoadIndex("p1")
	if ix == nil {
		t.Fatal("expected index after AddFileChunks")
	}
	if len(ix.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(ix.Entries))
	}
	if len(ix.Chunks()) != len(ix.Vectors()) {
		t.Error("chunk/vector views disagree on length")
	}

	count := 0
	for _, e := range ix.Entries {
		if e.Chunk.FileID == "f1" {
			count++
		}
	}
	if count != 3 {
		t.Errorf("expected 3 chunks for f1, got %d", count)
	}

	if _, ok := ix.File("f1"); !ok {
		t.Error("expected file entry for f1")
	}
	if ix.Stats.TotalChunks != 3 || ix.Stats.TotalFiles != 1 {
		t.Errorf("unexpected stats: %+v", ix.Stats)
	}
	if ix.Stats.AvgChunkSize <= 0 {
		t.Errorf("expected positive average chunk size, got %f", ix.Stats.AvgChunkSize)
	}
	if ix.UpdatedAt.IsZero() {
		t.Error("expected UpdatedAt to be stamped")
	}
}

func TestAddFileChunksMismatch(t *testing.T) {
	s := newTestStore(t)
	chunks, vectors := makeChunks("f1", 3)

	if err := s.AddFileChunks("p1", makeFile("f1", "h1"), chunks, vectors[:2]); err == nil {
		t.Error("expected error for chunk/vector count mismatch")
	}
}

func TestAddFileChunksReplaces(t *testing.T) {
	s := newTestStore(t)

	chunks1, vectors1 := makeChunks("f1", 4)
	if err := s.AddFileChunks("p1", makeFile("f1", "h1"), chunks1, vectors1); err != nil {
		t.Fatal(err)
	}

	chunks2, vectors2 := makeChunks("f1", 2)
	if err := s.AddFileChunks("p1", makeFile("f1", "h2"), chunks2, vectors2); err != nil {
		t.Fatal(err)
	}

	ix := s.LoadIndex("p1")
	if len(ix.Entries) != 2 {
		t.Fatalf("expected replacement to leave 2 entries, got %d", len(ix.Entries))
	}

	files := 0
	for _, f := range ix.Files {
		if f.ID == "f1" {
			files++
			if f.ContentHash != "h2" {
				t.Errorf("expected updated hash h2, got %s", f.ContentHash)
			}
		}
	}
	if files != 1 {
		t.Errorf("expected exactly one file entry for f1, got %d", files)
	}
}

func TestRemoveFileChunks(t *testing.T) {
	s := newTestStore(t)

	chunks1, vectors1 := makeChunks("f1", 3)
	chunks2, vectors2 := makeChunks("f2", 2)
	if err := s.AddFileChunks("p1", makeFile("f1", "h1"), chunks1, vectors1); err != nil {
		t.Fatal(err)
	}
	if err := s.AddFileChunks("p1", makeFile("f2", "h2"), chunks2, vectors2); err != nil {
		t.Fatal(err)
	}

	if err := s.RemoveFileChunks("p1", "f1"); err != nil {
		t.Fatal(err)
	}

	ix := s.LoadIndex("p1")
	if len(ix.Entries) != 2 {
		t.Fatalf("expected 2 entries after removal, got %d", len(ix.Entries))
	}
	for i, e := range ix.Entries {
		if e.Chunk.FileID == "f1" {
			t.Error("found chunk for removed file f1")
		}
		if e.Chunk.ID != chunks2[i].ID {
			t.Errorf("surviving chunks out of order at %d", i)
		}
	}
	if _, ok := ix.File("f1"); ok {
		t.Error("file entry for f1 should be gone")
	}
}

func TestRemoveFileChunksNoop(t *testing.T) {
	s := newTestStore(t)

	if err := s.RemoveFileChunks("missing-project", "f1"); err != nil {
		t.Errorf("removal on missing project should be a no-op, got %v", err)
	}

	chunks, vectors := makeChunks("f1", 1)
	if err := s.AddFileChunks("p1", makeFile("f1", "h1"), chunks, vectors); err != nil {
		t.Fatal(err)
	}
	if err := s.RemoveFileChunks("p1", "unknown-file"); err != nil {
		t.Errorf("removal of unknown file should be a no-op, got %v", err)
	}
	if ix := s.LoadIndex("p1"); len(ix.Entries) != 1 {
		t.Error("no-op removal must leave the index untouched")
	}
}

func TestNeedsReindex(t *testing.T) {
	s := newTestStore(t)

	if !s.NeedsReindex("p1", "f1", "h1") {
		t.Error("missing index should need reindex")
	}

	chunks, vectors := makeChunks("f1", 1)
	if err := s.AddFileChunks("p1", makeFile("f1", "h1"), chunks, vectors); err != nil {
		t.Fatal(err)
	}

	if s.NeedsReindex("p1", "f1", "h1") {
		t.Error("matching hash should not need reindex")
	}
	if !s.NeedsReindex("p1", "f1", "h-changed") {
		t.Error("changed hash should need reindex")
	}
	if !s.NeedsReindex("p1", "f-unknown", "h1") {
		t.Error("unknown file should need reindex")
	}
}

func TestLoadIndexCorrupt(t *testing.T) {
	s := newTestStore(t)

	dir := s.projectDir("p1")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, indexFileName), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if ix := s.LoadIndex("p1"); ix != nil {
		t.Error("corrupt index should read as absent")
	}
}

func TestLoadIndexVersionMismatch(t *testing.T) {
	s := newTestStore(t)

	chunks, vectors := makeChunks("f1", 1)
	if err := s.AddFileChunks("p1", makeFile("f1", "h1"), chunks, vectors); err != nil {
		t.Fatal(err)
	}

	// Rewrite the stored document with a bumped version.
	path := s.indexPath("p1")
	doc := `{"version": 999, "projectId": "p1", "chunks": [], "embeddings": []}`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	if ix := s.LoadIndex("p1"); ix != nil {
		t.Error("version mismatch should read as absent")
	}
}

func TestDeleteIndex(t *testing.T) {
	s := newTestStore(t)

	if s.DeleteIndex("nothing") {
		t.Error("deleting a missing project should return false")
	}

	chunks, vectors := makeChunks("f1", 1)
	if err := s.AddFileChunks("p1", makeFile("f1", "h1"), chunks, vectors); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveFile("p1", "f1", "f1.txt", "raw content"); err != nil {
		t.Fatal(err)
	}

	if !s.DeleteIndex("p1") {
		t.Error("expected true when deleting an existing project")
	}
	if ix := s.LoadIndex("p1"); ix != nil {
		t.Error("index should be gone after delete")
	}
	if _, ok := s.LoadFile("p1", "f1", "f1.txt"); ok {
		t.Error("stored files should be gone after delete")
	}
}

func TestFileStorage(t *testing.T) {
	s := newTestStore(t)

	if err := s.SaveFile("p1", "f1", "weird name!.txt", "hello"); err != nil {
		t.Fatal(err)
	}
	content, ok := s.LoadFile("p1", "f1", "weird name!.txt")
	if !ok {
		t.Fatal("expected stored file to load")
	}
	if content != "hello" {
		t.Errorf("expected 'hello', got %q", content)
	}

	if _, ok := s.LoadFile("p1", "f1", "missing.txt"); ok {
		t.Error("expected miss for unknown file")
	}

	if err := s.DeleteFile("p1", "f1", "weird name!.txt"); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.LoadFile("p1", "f1", "weird name!.txt"); ok {
		t.Error("file should be gone after delete")
	}
	if err := s.DeleteFile("p1", "f1", "weird name!.txt"); err != nil {
		t.Errorf("double delete should be a no-op, got %v", err)
	}
}

func TestSanitize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"simple.txt", "simple.txt"},
		{"with space.txt", "with_space.txt"},
		{"a/b\\c.txt", "a_b_c.txt"},
		{"ok-file_1.go", "ok-file_1.go"},
	}
	for _, tc := range cases {
		if got := sanitize(tc.in); got != tc.want {
			t.Errorf("sanitize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
