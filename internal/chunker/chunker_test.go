package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkOverlapArithmetic(t *testing.T) {
	chunks, err := Chunk("a b c d e f", 4, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a b c d", "c d e f", "e f"}, chunks)
}

func TestChunkEmptyInput(t *testing.T) {
	chunks, err := Chunk("", DefaultWindowSize, DefaultOverlap)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestChunkWhitespaceOnlyInput(t *testing.T) {
	chunks, err := Chunk("   \n\t  ", 10, 2)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestChunkShorterThanWindow(t *testing.T) {
	chunks, err := Chunk("um dois três", 500, 50)
	require.NoError(t, err)
	assert.Equal(t, []string{"um dois três"}, chunks)
}

func TestChunkNormalizesWhitespace(t *testing.T) {
	chunks, err := Chunk("a\n b\t\tc   d", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"a b c d"}, chunks)
}

func TestChunkInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		window  int
		overlap int
	}{
		{"overlap equals window", 50, 50},
		{"overlap exceeds window", 50, 60},
		{"zero window", 0, 0},
		{"negative window", -1, 0},
		{"negative overlap", 10, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Chunk("some text", tt.window, tt.overlap)
			assert.ErrorIs(t, err, ErrInvalidChunkConfig)
		})
	}
}

func TestChunkDeterministic(t *testing.T) {
	text := strings.Repeat("palavra ", 1200)
	first, err := Chunk(text, 500, 50)
	require.NoError(t, err)
	second, err := Chunk(text, 500, 50)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	// 1200 words, step 450: windows start at 0, 450, 900
	assert.Len(t, first, 3)
	assert.Len(t, strings.Fields(first[len(first)-1]), 300)
}
