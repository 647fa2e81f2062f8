// Package encode packs word sequences into fixed-length model inputs,
// tracking which word produced each subword token so predictions can be
// mapped back after inference.
package encode

import (
	"errors"

	"punctuate-go/internal/vocab"
)

// ErrEncodingImpossible reports a sequence budget too small to hold even the
// begin/end markers. Indicates misconfiguration; fatal.
var ErrEncodingImpossible = errors.New("encode: sequence budget too small")

// NoWord is the word-id recorded for special and padding token positions.
const NoWord = -1

// Encoding is one model-ready chunk. All slices are exactly the requested
// sequence length. WordIDs[i] is the index into the caller's word slice of
// the word that produced Tokens[i], or NoWord for [CLS], [SEP] and padding.
type Encoding struct {
	InputIDs      []int32
	AttentionMask []int32
	Tokens        []string
	WordIDs       []int
}

// Chunk greedily packs words starting at start into a token sequence of
// exactly maxTokens positions and reports how many words it consumed.
//
// One slot is reserved for the end-sequence token throughout packing. When
// at least one word fits and the next would overflow, packing stops and the
// unconsumed word starts the next chunk. When even the first word overflows
// on its own, its subword sequence is truncated to the remaining budget and
// the word is still counted as consumed, so consumed is never 0 for
// non-empty input and callers cannot loop forever.
func Chunk(tok *vocab.Tokenizer, words []string, start, maxTokens int) (Encoding, int, error) {
	if maxTokens < 2 {
		return Encoding{}, 0, ErrEncodingImpossible
	}

	tokens := make([]string, 1, maxTokens)
	wordIDs := make([]int, 1, maxTokens)
	tokens[0] = vocab.ClsToken
	wordIDs[0] = NoWord

	consumed := 0
	for i := start; i < len(words); i++ {
		pieces := tok.Tokenize(words[i])
		if len(tokens)+len(pieces) > maxTokens-1 {
			if consumed > 0 {
				break
			}
			// Pathologically long single word: truncate its pieces to fit
			// rather than stalling.
			room := maxTokens - 1 - len(tokens)
			if room < 0 {
				room = 0
			}
			pieces = pieces[:room]
			for _, p := range pieces {
				tokens = append(tokens, p)
				wordIDs = append(wordIDs, i)
			}
			consumed++
			break
		}
		for _, p := range pieces {
			tokens = append(tokens, p)
			wordIDs = append(wordIDs, i)
		}
		consumed++
	}

	tokens = append(tokens, vocab.SepToken)
	wordIDs = append(wordIDs, NoWord)
	if len(tokens) > maxTokens {
		tokens = tokens[:maxTokens-1]
		wordIDs = wordIDs[:maxTokens-1]
		tokens = append(tokens, vocab.SepToken)
		wordIDs = append(wordIDs, NoWord)
	}

	v := tok.Vocab()
	enc := Encoding{
		InputIDs:      make([]int32, maxTokens),
		AttentionMask: make([]int32, maxTokens),
		Tokens:        tokens,
		WordIDs:       wordIDs,
	}
	for i, t := range tokens {
		// ID falls back to the unknown id for any token string not in the
		// vocabulary; WordPiece output is in-vocabulary by construction, so
		// this only guards against a stale cache.
		enc.InputIDs[i] = v.ID(t)
		enc.AttentionMask[i] = 1
	}
	for i := len(tokens); i < maxTokens; i++ {
		enc.InputIDs[i] = v.PadID()
		enc.Tokens = append(enc.Tokens, vocab.PadToken)
		enc.WordIDs = append(enc.WordIDs, NoWord)
	}
	return enc, consumed, nil
}
