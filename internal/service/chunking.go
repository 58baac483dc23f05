package service

import (
	"strings"
	"unicode"
)

// ChunkConfig controls how long documents are split before embedding.
type ChunkConfig struct {
	MaxChars  int
	MinChars  int
	Overlap   int
	MaxChunks int
}

// DefaultChunkConfig provides sane defaults for chunking.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		MaxChars:  1200,
		MinChars:  400,
		Overlap:   200,
		MaxChunks: 40,
	}
}

// chunkText splits text into overlapping windows of at most MaxChars runes,
// preferring whitespace cut points so chunks end at word boundaries. Output
// is capped at MaxChunks; anything beyond the cap is dropped.
func chunkText(text string, cfg ChunkConfig) []string {
	clean := strings.TrimSpace(text)
	if clean == "" {
		return nil
	}
	if cfg.MaxChars <= 0 {
		cfg = DefaultChunkConfig()
	}

	runes := []rune(clean)
	if len(runes) <= cfg.MaxChars {
		return []string{clean}
	}

	chunks := make([]string, 0, 8)
	start := 0
	for start < len(runes) {
		if cfg.MaxChunks > 0 && len(chunks) >= cfg.MaxChunks {
			break
		}

		end := wordBoundaryCut(runes, start, cfg)
		if end <= start {
			break
		}

		if chunk := strings.TrimSpace(string(runes[start:end])); chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end >= len(runes) {
			break
		}

		start = nextWindowStart(start, end, cfg.Overlap)
	}

	return chunks
}

// wordBoundaryCut picks the end of the window starting at start: the last
// whitespace within [start+MinChars, start+MaxChars], or the hard limit when
// the window contains no usable break.
func wordBoundaryCut(runes []rune, start int, cfg ChunkConfig) int {
	end := start + cfg.MaxChars
	if end >= len(runes) {
		return len(runes)
	}

	floor := start + cfg.MinChars
	if floor > end {
		floor = start
	}
	for i := end; i > floor; i-- {
		if unicode.IsSpace(runes[i-1]) {
			return i
		}
	}
	return end
}

// nextWindowStart backs the next window up by the overlap, guarding against
// windows smaller than the overlap (which would loop forever).
func nextWindowStart(start, end, overlap int) int {
	next := end
	if overlap > 0 && end-start > overlap {
		next = end - overlap
	}
	if next <= start {
		return end
	}
	return next
}
