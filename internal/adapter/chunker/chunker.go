package chunker

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"semdex/internal/domain"
)

// charsPerToken is the fixed character-to-token ratio used for all size
// decisions and reported token counts. It is a conservative
// approximation, not a real tokenizer.
const charsPerToken = 4

// Chunker splits document content into overlapping chunks using a
// strategy selected by file extension.
type Chunker struct {
	chunkSize    int // target chunk size in approximate tokens
	chunkOverlap int // overlap between adjacent chunks in approximate tokens
}

// New creates a chunker with the given token budgets.
func New(chunkSize, chunkOverlap int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = 512
	}
	if chunkOverlap < 0 {
		chunkOverlap = 0
	}
	return &Chunker{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// ChunkDocument splits content into chunks. Empty or whitespace-only
// content yields no chunks and no error.
func (c *Chunker) ChunkDocument(fileID, fileName, content string) []domain.Chunk {
	if strings.TrimSpace(content) == "" {
		return nil
	}

	var spans []span
	switch categoryForFile(fileName) {
	case categoryCode:
		spans = c.codeSpans(fileName, content)
	case categoryMarkup:
		spans = c.markupSpans(content)
	default:
		spans = c.textSpans(content, 0, "")
	}

	return c.buildChunks(fileID, fileName, spans)
}

// span is a chunk-to-be: a contiguous slice of the original content
// plus strategy metadata. Offsets are absolute.
type span struct {
	start   int
	end     int
	content string
	meta    *domain.ChunkMetadata
}

// buildChunks stamps identity, position and token counts onto spans.
// TotalChunks is only known once the whole file has been chunked, so it
// is assigned here, last.
func (c *Chunker) buildChunks(fileID, fileName string, spans []span) []domain.Chunk {
	if len(spans) == 0 {
		return nil
	}

	now := time.Now().UnixMilli()
	chunks := make([]domain.Chunk, len(spans))
	for i, s := range spans {
		chunks[i] = domain.Chunk{
			ID:          fmt.Sprintf("%s_%d_%d", fileID, i, now),
			FileID:      fileID,
			FileName:    fileName,
			Content:     s.content,
			StartOffset: s.start,
			EndOffset:   s.end,
			ChunkIndex:  i,
			TotalChunks: len(spans),
			TokenCount:  EstimateTokens(s.content),
			Metadata:    s.meta,
		}
	}
	return chunks
}

// EstimateTokens approximates the token count as ceil(len/4).
func EstimateTokens(text string) int {
	return (len(text) + charsPerToken - 1) / charsPerToken
}

// maxChars is the target chunk size in characters.
func (c *Chunker) maxChars() int {
	return c.chunkSize * charsPerToken
}

// overlapChars is the target overlap tail length in characters.
func (c *Chunker) overlapChars() int {
	return c.chunkOverlap * charsPerToken
}

// overlapTail returns the tail of an emitted buffer to seed the next
// one with. If a space falls within the first half of the candidate
// tail, the tail is trimmed to the following word boundary so a token
// is not split mid-word.
func overlapTail(s string, n int) string {
	if n <= 0 || len(s) == 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	tail := s[len(s)-n:]
	half := len(tail) / 2
	if idx := strings.IndexAny(tail[:half], " \t\n"); idx >= 0 {
		return tail[idx+1:]
	}
	return tail
}

// lineIndex maps absolute character offsets to 1-based line numbers.
type lineIndex struct {
	starts []int
}

func newLineIndex(content string) *lineIndex {
	starts := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{starts: starts}
}

func (li *lineIndex) lineAt(offset int) int {
	return sort.SearchInts(li.starts, offset+1)
}

type category int

const (
	categoryText category = iota
	categoryCode
	categoryMarkup
)

var codeExtensions = map[string]string{
	".go":    "go",
	".py":    "python",
	".js":    "javascript",
	".jsx":   "javascript",
	".ts":    "typescript",
	".tsx":   "typescript",
	".java":  "java",
	".c":     "c",
	".h":     "c",
	".cpp":   "cpp",
	".cc":    "cpp",
	".hpp":   "cpp",
	".rs":    "rust",
	".rb":    "ruby",
	".php":   "php",
	".swift": "swift",
	".kt":    "kotlin",
	".cs":    "csharp",
	".scala": "scala",
	".sh":    "shell",
	".bash":  "shell",
	".sql":   "sql",
	".css":   "css",
}

var markupExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".mdx":      true,
}

// categoryForFile picks the chunking strategy by file extension.
// Unrecognized extensions default to plain text.
func categoryForFile(fileName string) category {
	ext := strings.ToLower(filepath.Ext(fileName))
	if _, ok := codeExtensions[ext]; ok {
		return categoryCode
	}
	if markupExtensions[ext] {
		return categoryMarkup
	}
	return categoryText
}

// languageForFile returns the detected language for code files, or ""
// for anything else.
func languageForFile(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return codeExtensions[ext]
}
