package services

import (
	"strings"
	"unicode/utf8"
)

type TextChunker interface {
	ChunkText(text string, maxChunkSize int, overlap int) []string
	Budget(text string, maxChars int) string
}

type textChunker struct{}

func NewTextChunker() TextChunker {
	return &textChunker{}
}

// ChunkText splits text on blank lines, falling back to sentences for
// paragraphs longer than maxChunkSize. Consecutive chunks share overlap runes.
func (tc *textChunker) ChunkText(text string, maxChunkSize int, overlap int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = 1000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChunkSize {
		overlap = maxChunkSize / 4
	}

	acc := &chunkAccumulator{maxSize: maxChunkSize, overlap: overlap}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if utf8.RuneCountInString(para) <= maxChunkSize {
			acc.add(para, "\n\n")
			continue
		}

		for _, sentence := range splitIntoSentences(para) {
			acc.add(sentence, " ")
		}
	}

	return acc.finish()
}

// Budget keeps whole chunks from the start of text until maxChars is reached.
// A single oversized first chunk is cut at maxChars runes.
func (tc *textChunker) Budget(text string, maxChars int) string {
	if maxChars <= 0 || utf8.RuneCountInString(text) <= maxChars {
		return strings.TrimSpace(text)
	}

	var kept []string
	used := 0
	for _, chunk := range tc.ChunkText(text, maxChars/2, 0) {
		size := utf8.RuneCountInString(chunk)
		if used+size > maxChars {
			break
		}
		kept = append(kept, chunk)
		used += size + 2
	}

	if len(kept) == 0 {
		return string([]rune(text)[:maxChars])
	}
	return strings.Join(kept, "\n\n")
}

type chunkAccumulator struct {
	maxSize int
	overlap int
	chunks  []string
	current strings.Builder
}

func (a *chunkAccumulator) add(piece, sep string) {
	if a.current.Len() > 0 && a.current.Len()+len(piece)+len(sep) > a.maxSize {
		a.chunks = append(a.chunks, a.current.String())
		a.current.Reset()

		if a.overlap > 0 {
			a.current.WriteString(getLastNChars(a.chunks[len(a.chunks)-1], a.overlap))
		}
	}

	if a.current.Len() > 0 {
		a.current.WriteString(sep)
	}
	a.current.WriteString(piece)
}

func (a *chunkAccumulator) finish() []string {
	if a.current.Len() > 0 {
		a.chunks = append(a.chunks, a.current.String())
	}
	return a.chunks
}

func splitIntoSentences(text string) []string {
	sentences := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	var result []string
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if s != "" {
			result = append(result, s)
		}
	}
	return result
}

func getLastNChars(text string, n int) string {
	if n <= 0 {
		return ""
	}

	runes := []rune(text)
	if len(runes) <= n {
		return text
	}

	return string(runes[len(runes)-n:])
}
