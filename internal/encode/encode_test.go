package encode

import (
	"errors"
	"strings"
	"testing"

	"punctuate-go/internal/vocab"
)

func testTokenizer(t *testing.T, extra ...string) *vocab.Tokenizer {
	t.Helper()
	tokens := append([]string{"[PAD]", "[UNK]", "[CLS]", "[SEP]"}, extra...)
	v, err := vocab.Load(strings.NewReader(strings.Join(tokens, "\n")))
	if err != nil {
		t.Fatalf("vocab.Load() error = %v", err)
	}
	return vocab.NewTokenizer(v)
}

func TestChunkBasic(t *testing.T) {
	tok := testTokenizer(t, "hello", "world")
	enc, consumed, err := Chunk(tok, []string{"hello", "world"}, 0, 8)
	if err != nil {
		t.Fatalf("Chunk() error = %v", err)
	}
	if consumed != 2 {
		t.Fatalf("consumed = %d, want 2", consumed)
	}
	wantTokens := []string{"[CLS]", "hello", "world", "[SEP]", "[PAD]", "[PAD]", "[PAD]", "[PAD]"}
	wantIDs := []int32{2, 4, 5, 3, 0, 0, 0, 0}
	wantMask := []int32{1, 1, 1, 1, 0, 0, 0, 0}
	wantWords := []int{NoWord, 0, 1, NoWord, NoWord, NoWord, NoWord, NoWord}
	if len(enc.Tokens) != 8 || len(enc.InputIDs) != 8 || len(enc.AttentionMask) != 8 || len(enc.WordIDs) != 8 {
		t.Fatalf("encoding lengths = %d %d %d %d, want 8", len(enc.Tokens), len(enc.InputIDs), len(enc.AttentionMask), len(enc.WordIDs))
	}
	for i := 0; i < 8; i++ {
		if enc.Tokens[i] != wantTokens[i] {
			t.Fatalf("token[%d] = %q, want %q", i, enc.Tokens[i], wantTokens[i])
		}
		if enc.InputIDs[i] != wantIDs[i] {
			t.Fatalf("id[%d] = %d, want %d", i, enc.InputIDs[i], wantIDs[i])
		}
		if enc.AttentionMask[i] != wantMask[i] {
			t.Fatalf("mask[%d] = %d, want %d", i, enc.AttentionMask[i], wantMask[i])
		}
		if enc.WordIDs[i] != wantWords[i] {
			t.Fatalf("wordID[%d] = %d, want %d", i, enc.WordIDs[i], wantWords[i])
		}
	}
}

func TestChunkSubwordsShareWordID(t *testing.T) {
	tok := testTokenizer(t, "un", "##happi", "##ness")
	enc, consumed, err := Chunk(tok, []string{"unhappiness"}, 0, 8)
	if err != nil {
		t.Fatalf("Chunk() error = %v", err)
	}
	if consumed != 1 {
		t.Fatalf("consumed = %d, want 1", consumed)
	}
	for i := 1; i <= 3; i++ {
		if enc.WordIDs[i] != 0 {
			t.Fatalf("wordID[%d] = %d, want 0", i, enc.WordIDs[i])
		}
	}
}

func TestChunkStopsBeforeOverflowingWord(t *testing.T) {
	tok := testTokenizer(t, "a", "b", "c")
	// Budget 5: [CLS] a b [SEP] leaves no room for c.
	words := []string{"a", "b", "c"}
	enc, consumed, err := Chunk(tok, words, 0, 5)
	if err != nil {
		t.Fatalf("Chunk() error = %v", err)
	}
	if consumed != 3 {
		t.Fatalf("consumed = %d, want 3", consumed)
	}
	if enc.Tokens[4] != "[SEP]" {
		t.Fatalf("token[4] = %q, want [SEP]", enc.Tokens[4])
	}

	enc, consumed, err = Chunk(tok, words, 0, 4)
	if err != nil {
		t.Fatalf("Chunk() error = %v", err)
	}
	if consumed != 2 {
		t.Fatalf("consumed = %d, want 2", consumed)
	}
	if enc.Tokens[3] != "[SEP]" {
		t.Fatalf("token[3] = %q, want [SEP]", enc.Tokens[3])
	}
	// The unconsumed word starts the next chunk.
	enc, consumed, err = Chunk(tok, words, 2, 4)
	if err != nil {
		t.Fatalf("Chunk() error = %v", err)
	}
	if consumed != 1 {
		t.Fatalf("next chunk consumed = %d, want 1", consumed)
	}
	if enc.Tokens[1] != "c" || enc.WordIDs[1] != 2 {
		t.Fatalf("next chunk token[1] = %q wordID %d, want c 2", enc.Tokens[1], enc.WordIDs[1])
	}
}

func TestChunkTruncatesOverlongFirstWord(t *testing.T) {
	tok := testTokenizer(t, "ab", "##cd", "##ef", "##gh")
	// "abcdefgh" tokenizes to 4 pieces; budget 4 holds [CLS] + 2 + [SEP].
	enc, consumed, err := Chunk(tok, []string{"abcdefgh"}, 0, 4)
	if err != nil {
		t.Fatalf("Chunk() error = %v", err)
	}
	if consumed != 1 {
		t.Fatalf("consumed = %d, want 1 (forward progress)", consumed)
	}
	want := []string{"[CLS]", "ab", "##cd", "[SEP]"}
	for i := range want {
		if enc.Tokens[i] != want[i] {
			t.Fatalf("token[%d] = %q, want %q", i, enc.Tokens[i], want[i])
		}
	}
}

func TestChunkForwardProgress(t *testing.T) {
	tok := testTokenizer(t, "ab", "##cd")
	words := []string{"abcd", "abcd", "abcd"}
	pos := 0
	calls := 0
	for pos < len(words) {
		_, consumed, err := Chunk(tok, words, pos, 4)
		if err != nil {
			t.Fatalf("Chunk() error = %v", err)
		}
		if consumed < 1 {
			t.Fatalf("consumed = %d at pos %d, want >= 1", consumed, pos)
		}
		pos += consumed
		if calls++; calls > len(words) {
			t.Fatalf("encoder did not make progress after %d calls", calls)
		}
	}
}

func TestChunkBudgetTooSmall(t *testing.T) {
	tok := testTokenizer(t, "a")
	_, consumed, err := Chunk(tok, []string{"a"}, 0, 1)
	if !errors.Is(err, ErrEncodingImpossible) {
		t.Fatalf("Chunk() error = %v, want ErrEncodingImpossible", err)
	}
	if consumed != 0 {
		t.Fatalf("consumed = %d, want 0", consumed)
	}
}

func TestChunkEmptyInput(t *testing.T) {
	tok := testTokenizer(t)
	enc, consumed, err := Chunk(tok, nil, 0, 4)
	if err != nil {
		t.Fatalf("Chunk() error = %v", err)
	}
	if consumed != 0 {
		t.Fatalf("consumed = %d, want 0", consumed)
	}
	want := []string{"[CLS]", "[SEP]", "[PAD]", "[PAD]"}
	for i := range want {
		if enc.Tokens[i] != want[i] {
			t.Fatalf("token[%d] = %q, want %q", i, enc.Tokens[i], want[i])
		}
	}
}
