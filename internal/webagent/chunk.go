package webagent

import (
	"unicode"

	"github.com/gridiron-labs/analyst-cli/internal/model"
)

// tokenSpan is one whitespace-delimited token's byte range in the source text.
type tokenSpan struct {
	start int
	end   int
}

// tokenize returns the byte spans of every whitespace-delimited token.
func tokenize(text string) []tokenSpan {
	var spans []tokenSpan
	start := -1
	for i, r := range text {
		if unicode.IsSpace(r) {
			if start >= 0 {
				spans = append(spans, tokenSpan{start: start, end: i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		spans = append(spans, tokenSpan{start: start, end: len(text)})
	}
	return spans
}

// chunkDocument emits overlapping token windows of windowTokens tokens,
// advancing by (windowTokens - overlap) so the union of windows covers every
// token. The final window is clipped to the document end. Chunk text is
// sliced from the original text by character offset, never reconstructed, so
// intra-token punctuation and spacing survive verbatim.
func chunkDocument(url, text string, windowTokens, overlap int) []model.Chunk {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return nil
	}

	step := windowTokens - overlap
	var chunks []model.Chunk
	for start := 0; ; start += step {
		end := start + windowTokens
		if end > len(tokens) {
			end = len(tokens)
		}
		chunks = append(chunks, model.Chunk{
			URL:     url,
			Ordinal: len(chunks),
			Text:    text[tokens[start].start:tokens[end-1].end],
		})
		if end == len(tokens) {
			break
		}
	}
	return chunks
}
