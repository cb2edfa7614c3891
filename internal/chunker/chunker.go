package chunker

import (
	"errors"
	"fmt"
	"strings"
)

const (
	DefaultWindowSize = 500
	DefaultOverlap    = 50
)

// ErrInvalidChunkConfig reports a window/overlap pair whose advance step
// would be zero or negative.
var ErrInvalidChunkConfig = errors.New("invalid chunk configuration")

// Chunk splits text into overlapping windows of window words, advancing by
// window-overlap words each step. Trailing partial windows are kept as-is,
// blank windows are dropped. Output is fully determined by the inputs.
func Chunk(text string, window, overlap int) ([]string, error) {
	if window <= 0 {
		return nil, fmt.Errorf("%w: window size %d must be positive", ErrInvalidChunkConfig, window)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: overlap %d must not be negative", ErrInvalidChunkConfig, overlap)
	}
	if overlap >= window {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than window size %d", ErrInvalidChunkConfig, overlap, window)
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, nil
	}

	step := window - overlap
	var chunks []string
	for start := 0; start < len(words); start += step {
		end := min(start+window, len(words))
		chunk := strings.Join(words[start:end], " ")
		if strings.TrimSpace(chunk) != "" {
			chunks = append(chunks, chunk)
		}
	}
	return chunks, nil
}
