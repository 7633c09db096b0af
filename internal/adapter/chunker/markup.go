package chunker

import (
	"regexp"
	"strings"

	"semdex/internal/domain"
)

var headingRe = regexp.MustCompile(`^#{1,6}\s+\S`)

// section is a heading-delimited slice of a markup document. Content
// before the first heading forms a section with an empty heading.
type section struct {
	heading string
	start   int
	end     int
}

// markupSpans splits content at heading boundaries. A section that fits
// the token budget becomes one chunk tagged with its heading; an
// oversized section falls back to paragraph splitting, passing the
// heading through and keeping absolute offsets.
func (c *Chunker) markupSpans(content string) []span {
	var spans []span
	for _, sec := range splitSections(content) {
		raw := content[sec.start:sec.end]
		trimmed := strings.TrimRight(raw, " \t\n")
		if strings.TrimSpace(trimmed) == "" {
			continue
		}
		if EstimateTokens(trimmed) <= c.chunkSize {
			spans = append(spans, span{
				start:   sec.start,
				end:     sec.start + len(trimmed),
				content: trimmed,
				meta:    sectionMeta(sec.heading),
			})
			continue
		}
		spans = append(spans, c.textSpans(raw, sec.start, sec.heading)...)
	}
	return spans
}

func sectionMeta(heading string) *domain.ChunkMetadata {
	if heading == "" {
		return nil
	}
	return &domain.ChunkMetadata{Section: heading}
}

func splitSections(content string) []section {
	var sections []section
	cur := section{start: 0}
	offset := 0
	for _, line := range strings.Split(content, "\n") {
		if headingRe.MatchString(line) {
			cur.end = offset
			if cur.end > cur.start {
				sections = append(sections, cur)
			}
			cur = section{
				heading: strings.TrimSpace(strings.TrimLeft(line, "#")),
				start:   offset,
			}
		}
		offset += len(line) + 1
	}
	cur.end = len(content)
	if cur.end > cur.start {
		sections = append(sections, cur)
	}
	return sections
}
