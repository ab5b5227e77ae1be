package extract

import "strings"

// MaxChunkSize is the per-chunk byte bound for text sent to the generative
// endpoint (10KB keeps each request well under the endpoint's budget).
const MaxChunkSize = 10 * 1024

// SplitTextIntoChunks splits text into sentence-bounded chunks no larger
// than maxSize bytes. Sentences are accumulated into a chunk until the next
// one would exceed the bound; a single sentence larger than the bound is
// split at word boundaries instead. Whitespace-only chunks are dropped.
// Deterministic: the same input always yields the same chunk sequence.
func SplitTextIntoChunks(text string, maxSize int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= maxSize {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder

	flush := func() {
		if chunk := strings.TrimSpace(current.String()); chunk != "" {
			chunks = append(chunks, chunk)
		}
		current.Reset()
	}

	for _, sentence := range splitSentences(text) {
		if len(sentence) > maxSize {
			// Oversized sentence: fall back to word-level splitting.
			flush()
			chunks = append(chunks, splitWords(sentence, maxSize)...)
			continue
		}

		if current.Len()+len(sentence) > maxSize {
			flush()
		}
		current.WriteString(sentence)
	}
	flush()

	return chunks
}

// splitSentences cuts text after each sentence terminator (. ! ?), keeping
// the terminator and any following whitespace with the sentence so that
// concatenating the pieces reconstructs the input.
func splitSentences(text string) []string {
	var sentences []string
	start := 0

	for i, r := range text {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		// Extend through the run of terminators (e.g. "?!" or "...").
		end := i + 1
		if end < len(text) && (text[end] == '.' || text[end] == '!' || text[end] == '?') {
			continue
		}
		sentences = append(sentences, text[start:end])
		start = end
	}

	if start < len(text) {
		sentences = append(sentences, text[start:])
	}
	return sentences
}

// splitWords breaks an oversized sentence into word-bounded chunks.
func splitWords(sentence string, maxSize int) []string {
	var chunks []string
	var current strings.Builder

	for _, word := range strings.Fields(sentence) {
		if current.Len() > 0 && current.Len()+len(word)+1 > maxSize {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}
