package decode

import (
	"fmt"
	"math"

	"punctuate-go/internal/encode"
	"punctuate-go/internal/vocab"
)

// Argmax returns the index of the highest score. Ties resolve to the lowest
// class index: the scan only replaces on strict improvement.
func Argmax(scores []float32) int {
	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return best
}

// Softmax returns the normalized probabilities for one score row. Max is
// subtracted before exponentiation to keep the sums finite.
func Softmax(scores []float32) []float32 {
	if len(scores) == 0 {
		return nil
	}
	maxScore := scores[0]
	for _, s := range scores[1:] {
		if s > maxScore {
			maxScore = s
		}
	}
	out := make([]float32, len(scores))
	var sum float32
	for i, s := range scores {
		w := float32(math.Exp(float64(s - maxScore)))
		out[i] = w
		sum += w
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// Confidence returns the softmax probability of class within scores. Used
// for diagnostics only; never for decisions.
func Confidence(scores []float32, class int) float64 {
	probs := Softmax(scores)
	if class < 0 || class >= len(probs) {
		return 0
	}
	return float64(probs[class])
}

// Decode maps one chunk's class scores back to a punctuated text fragment.
//
// Token positions with no word id, or with a word id below startWord (words
// already covered by a previous chunk's overlap), are skipped. Each kept
// token is stripped of its continuation marker, transformed per its argmax
// label, and given the label's punctuation. A single space precedes a token
// that starts a new word, unless the text emitted so far ends in a hyphen;
// pieces of the same word concatenate directly.
func Decode(scores [][]float32, tokens []string, wordIDs []int, startWord int, labels []Label) (string, error) {
	if len(tokens) != len(wordIDs) {
		return "", fmt.Errorf("decode: %d tokens but %d word ids", len(tokens), len(wordIDs))
	}
	out := make([]byte, 0, 16*len(tokens))
	prevWord := encode.NoWord
	for pos, wid := range wordIDs {
		if wid < 0 || wid < startWord {
			continue
		}
		if pos >= len(scores) {
			return "", fmt.Errorf("decode: score row %d out of range (%d rows)", pos, len(scores))
		}
		class := Argmax(scores[pos])
		if class >= len(labels) {
			return "", fmt.Errorf("decode: class %d outside label table of %d", class, len(labels))
		}
		lb := labels[class]
		frag := applyCase(stripContinuation(tokens[pos]), lb.Case)
		if len(out) > 0 && wid != prevWord && out[len(out)-1] != '-' {
			out = append(out, ' ')
		}
		out = append(out, frag...)
		out = append(out, lb.Punct...)
		prevWord = wid
	}
	return string(out), nil
}

// Words applies per-word class labels directly to whole words, for the
// variant whose tokenizer alignment happens before decoding. Words below
// startWord are skipped; spacing follows the same hyphen rule as Decode.
func Words(words []string, classes []int, startWord int, labels []Label) (string, error) {
	if len(words) != len(classes) {
		return "", fmt.Errorf("decode: %d words but %d classes", len(words), len(classes))
	}
	out := make([]byte, 0, 16*len(words))
	for i, w := range words {
		if i < startWord {
			continue
		}
		class := classes[i]
		if class < 0 || class >= len(labels) {
			return "", fmt.Errorf("decode: class %d outside label table of %d", class, len(labels))
		}
		lb := labels[class]
		if len(out) > 0 && out[len(out)-1] != '-' {
			out = append(out, ' ')
		}
		out = append(out, applyCase(w, lb.Case)...)
		out = append(out, lb.Punct...)
	}
	return string(out), nil
}

func stripContinuation(token string) string {
	if len(token) >= len(vocab.ContinuationPrefix) && token[:len(vocab.ContinuationPrefix)] == vocab.ContinuationPrefix {
		return token[len(vocab.ContinuationPrefix):]
	}
	return token
}
