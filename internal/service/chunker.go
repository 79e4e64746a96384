package service

// Chunker splits text into fixed-size rune windows with a fixed overlap
// between consecutive windows, so no phrase is lost at a split point.
type Chunker struct {
	chunkSize int
	overlap   int
}

func NewChunker(chunkSize, overlap int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = 500
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 50
	}
	return &Chunker{chunkSize: chunkSize, overlap: overlap}
}

// Split is deterministic and side-effect free. Text shorter than one window
// comes back as a single chunk; empty text produces no chunks.
func (c *Chunker) Split(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	if len(runes) <= c.chunkSize {
		return []string{text}
	}

	step := c.chunkSize - c.overlap
	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + c.chunkSize
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
