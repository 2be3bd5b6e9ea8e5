package chunker

import "strings"

const (
	// DefaultChunkSize is the target chunk length in characters.
	DefaultChunkSize = 800

	// DefaultOverlap is how many trailing characters of one chunk reopen
	// the next, so sentences cut at a boundary stay searchable.
	DefaultOverlap = 200
)

// Split slices text into overlapping chunks of at most size characters.
// Order is preserved; empty or whitespace-only text yields no chunks.
func Split(text string, size, overlap int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = size / 4
	}

	var chunks []string
	n := len(text)
	start := 0
	for start < n {
		end := start + size
		if end > n {
			end = n
		}
		chunks = append(chunks, text[start:end])
		if end == n {
			break
		}
		start = end - overlap
	}
	return chunks
}
