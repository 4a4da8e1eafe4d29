package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkTextKeepsParagraphsTogether(t *testing.T) {
	chunker := NewTextChunker()
	text := "First paragraph.\n\nSecond paragraph.\n\nThird paragraph."

	chunks := chunker.ChunkText(text, 1000, 0)

	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0])
}

func TestChunkTextSplitsOnSize(t *testing.T) {
	chunker := NewTextChunker()
	text := strings.Repeat("a", 40) + "\n\n" + strings.Repeat("b", 40) + "\n\n" + strings.Repeat("c", 40)

	chunks := chunker.ChunkText(text, 50, 0)

	require.Len(t, chunks, 3)
	assert.Equal(t, strings.Repeat("b", 40), chunks[1])
}

func TestChunkTextOverlap(t *testing.T) {
	chunker := NewTextChunker()
	text := strings.Repeat("a", 40) + "\n\n" + strings.Repeat("b", 40)

	chunks := chunker.ChunkText(text, 50, 5)

	require.Len(t, chunks, 2)
	assert.True(t, strings.HasPrefix(chunks[1], "aaaaa\n\n"))
}

func TestChunkTextLongParagraphUsesSentences(t *testing.T) {
	chunker := NewTextChunker()
	text := "Design APIs in Go. Operate Postgres clusters. Mentor engineers on the team."

	chunks := chunker.ChunkText(text, 50, 0)

	require.Len(t, chunks, 2)
	assert.Equal(t, "Design APIs in Go Operate Postgres clusters", chunks[0])
	assert.Equal(t, "Mentor engineers on the team", chunks[1])
}

func TestBudget(t *testing.T) {
	chunker := NewTextChunker()

	short := "  Go engineer wanted  "
	assert.Equal(t, "Go engineer wanted", chunker.Budget(short, 100))

	long := strings.Repeat("x", 30) + "\n\n" + strings.Repeat("y", 30) + "\n\n" + strings.Repeat("z", 30)
	got := chunker.Budget(long, 70)
	assert.LessOrEqual(t, utf8.RuneCountInString(got), 70)
	assert.True(t, strings.HasPrefix(got, strings.Repeat("x", 30)))
	assert.NotContains(t, got, "z")

	single := strings.Repeat("é", 200)
	assert.Equal(t, 50, utf8.RuneCountInString(chunker.Budget(single, 50)))
}
