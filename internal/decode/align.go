package decode

import "strings"

// WordStartMarker is the sentencepiece prefix on a token that begins a new
// word; tokens without it continue the previous word.
const WordStartMarker = "▁"

// AlignWords collapses token-level class predictions to one class per word.
// A token carrying the word-start marker closes out the previous word,
// emitting the class of that word's last token; the final word's class is
// likewise its last token's. Last-token-wins for multi-token words is a
// deliberate policy choice, kept stable because changing it changes output.
func AlignWords(tokens []string, classes []int) []int {
	if len(tokens) == 0 {
		return nil
	}
	out := make([]int, 0, len(tokens))
	last := 0
	for i, tok := range tokens {
		if i > 0 && strings.HasPrefix(tok, WordStartMarker) {
			out = append(out, last)
		}
		last = classes[i]
	}
	return append(out, last)
}
