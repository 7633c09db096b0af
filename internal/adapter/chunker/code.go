package chunker

import (
	"strings"

	"semdex/internal/domain"
)

// codeSpans walks the content line by line, accumulating lines until
// appending the next one would push the buffer past the character
// budget. The next buffer is seeded with a word-boundary-aware overlap
// tail of the emitted one, so adjacent chunks share context.
func (c *Chunker) codeSpans(fileName, content string) []span {
	maxChars := c.maxChars()
	overlap := c.overlapChars()
	lang := languageForFile(fileName)
	li := newLineIndex(content)

	var spans []span
	emit := func(start int, buf string) {
		end := start + len(buf)
		spans = append(spans, span{
			start:   start,
			end:     end,
			content: buf,
			meta: &domain.ChunkMetadata{
				Language:  lang,
				LineStart: li.lineAt(start),
				LineEnd:   li.lineAt(end - 1),
			},
		})
	}

	buf := ""
	bufStart := 0
	started := false
	offset := 0

	for _, line := range strings.Split(content, "\n") {
		switch {
		case !started:
			bufStart = offset
			buf = line
			started = true
		case buf != "" && len(buf)+1+len(line) > maxChars:
			emit(bufStart, buf)
			tail := overlapTail(buf, overlap)
			if tail == "" {
				bufStart = offset
				buf = line
			} else {
				bufStart += len(buf) - len(tail)
				buf = tail + "\n" + line
			}
		default:
			buf += "\n" + line
		}
		offset += len(line) + 1
	}

	if started && strings.TrimSpace(buf) != "" {
		emit(bufStart, buf)
	}
	return spans
}
