package vocab

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
)

// Special tokens required by the token-classification models. IDs are
// resolved from the vocabulary at load time, never assumed.
const (
	PadToken = "[PAD]"
	UnkToken = "[UNK]"
	ClsToken = "[CLS]"
	SepToken = "[SEP]"
)

// ContinuationPrefix marks a WordPiece token that continues the previous
// piece of the same word.
const ContinuationPrefix = "##"

// ErrResourceMissing reports that a vocabulary source could not be read or
// is structurally unusable. Fatal at startup; never retried.
var ErrResourceMissing = errors.New("vocab: resource missing")

// Vocabulary maps subword token strings to integer ids. Immutable after Load.
type Vocabulary struct {
	ids    map[string]int32
	tokens []string

	padID int32
	unkID int32
	clsID int32
	sepID int32
}

// Load reads a vocab.txt-style source: one token per line, the 0-indexed
// line number is the token id. All four special tokens must be present.
func Load(r io.Reader) (*Vocabulary, error) {
	var tokens []string
	ids := make(map[string]int32, 32768)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		tok := scanner.Text()
		if tok == "" {
			continue
		}
		if _, ok := ids[tok]; ok {
			return nil, fmt.Errorf("%w: duplicate token %q", ErrResourceMissing, tok)
		}
		ids[tok] = int32(len(tokens))
		tokens = append(tokens, tok)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResourceMissing, err)
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: empty vocabulary", ErrResourceMissing)
	}

	v := &Vocabulary{ids: ids, tokens: tokens}
	specials := []struct {
		name string
		dest *int32
	}{
		{PadToken, &v.padID},
		{UnkToken, &v.unkID},
		{ClsToken, &v.clsID},
		{SepToken, &v.sepID},
	}
	for _, s := range specials {
		id, ok := ids[s.name]
		if !ok {
			return nil, fmt.Errorf("%w: special token %s not in vocabulary", ErrResourceMissing, s.name)
		}
		*s.dest = id
	}
	return v, nil
}

// LoadFile loads a vocabulary from a file on disk.
func LoadFile(path string) (*Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResourceMissing, err)
	}
	defer f.Close()
	return Load(f)
}

// ID returns the id for token, or the unknown-token id when absent.
func (v *Vocabulary) ID(token string) int32 {
	if id, ok := v.ids[token]; ok {
		return id
	}
	return v.unkID
}

// Has reports whether token exists in the vocabulary.
func (v *Vocabulary) Has(token string) bool {
	_, ok := v.ids[token]
	return ok
}

// Token returns the token string for id, or the unknown token when out of range.
func (v *Vocabulary) Token(id int32) string {
	if id < 0 || int(id) >= len(v.tokens) {
		return UnkToken
	}
	return v.tokens[id]
}

func (v *Vocabulary) Size() int    { return len(v.tokens) }
func (v *Vocabulary) PadID() int32 { return v.padID }
func (v *Vocabulary) UnkID() int32 { return v.unkID }
func (v *Vocabulary) ClsID() int32 { return v.clsID }
func (v *Vocabulary) SepID() int32 { return v.sepID }
