package chunker

import "strings"

// paraSpan is one blank-line-delimited paragraph, as offsets into the
// content being chunked.
type paraSpan struct {
	start int
	end   int
}

// textSpans accumulates paragraphs into a buffer with the same
// overflow/overlap logic as the code strategy. base shifts the produced
// offsets so markup sections keep absolute positions; heading (when
// non-empty) tags every produced span.
func (c *Chunker) textSpans(content string, base int, heading string) []span {
	maxChars := c.maxChars()
	overlap := c.overlapChars()

	paras := paragraphSpans(content)
	if len(paras) == 0 {
		return nil
	}

	var spans []span
	bufStart := paras[0].start
	bufEnd := paras[0].end

	for _, p := range paras[1:] {
		if bufEnd > bufStart && p.end-bufStart > maxChars {
			text := content[bufStart:bufEnd]
			spans = append(spans, span{
				start:   base + bufStart,
				end:     base + bufEnd,
				content: text,
				meta:    sectionMeta(heading),
			})
			tail := overlapTail(text, overlap)
			if tail == "" {
				bufStart = p.start
			} else {
				bufStart = bufEnd - len(tail)
			}
		}
		bufEnd = p.end
	}

	// The final chunk drops trailing whitespace.
	final := strings.TrimRight(content[bufStart:bufEnd], " \t\n")
	if final != "" {
		spans = append(spans, span{
			start:   base + bufStart,
			end:     base + bufStart + len(final),
			content: final,
			meta:    sectionMeta(heading),
		})
	}
	return spans
}

func paragraphSpans(content string) []paraSpan {
	var paras []paraSpan
	offset := 0
	start := -1
	end := 0
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			if start < 0 {
				start = offset
			}
			end = offset + len(line)
		} else if start >= 0 {
			paras = append(paras, paraSpan{start, end})
			start = -1
		}
		offset += len(line) + 1
	}
	if start >= 0 {
		paras = append(paras, paraSpan{start, end})
	}
	return paras
}
