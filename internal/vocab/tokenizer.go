package vocab

import (
	"strings"
	"sync"
)

// defaultCacheSize bounds the word -> subword cache. When the bound is
// reached the whole map is dropped rather than evicting per entry: an O(1)
// flush loses precision but word frequency follows a power law, so hot
// entries repopulate almost immediately.
const defaultCacheSize = 5000

// Tokenizer performs greedy longest-match-first WordPiece segmentation
// against one Vocabulary. A Tokenizer is safe for concurrent use; the cache
// is guarded by a mutex because lost inserts would only cost repeat work,
// never correctness.
type Tokenizer struct {
	vocab    *Vocabulary
	mu       sync.Mutex
	cache    map[string][]string
	cacheCap int
}

// NewTokenizer builds a tokenizer over v with the default cache bound.
func NewTokenizer(v *Vocabulary) *Tokenizer {
	return newTokenizerCap(v, defaultCacheSize)
}

func newTokenizerCap(v *Vocabulary, cacheCap int) *Tokenizer {
	if cacheCap <= 0 {
		cacheCap = defaultCacheSize
	}
	return &Tokenizer{
		vocab:    v,
		cache:    make(map[string][]string, cacheCap),
		cacheCap: cacheCap,
	}
}

// Vocab returns the vocabulary the tokenizer was built over.
func (t *Tokenizer) Vocab() *Vocabulary { return t.vocab }

// Tokenize splits word into its ordered WordPiece subword tokens. The word
// is lowercased first; original casing is recovered downstream from the
// predicted class label, not from the tokenization. Results are cached under
// the original (non-lowercased) word string.
func (t *Tokenizer) Tokenize(word string) []string {
	if word == "" {
		return nil
	}

	t.mu.Lock()
	if cached, ok := t.cache[word]; ok {
		t.mu.Unlock()
		return cached
	}
	t.mu.Unlock()

	pieces := t.wordpiece(strings.ToLower(word))

	t.mu.Lock()
	if len(t.cache) >= t.cacheCap {
		// Wholesale flush at the bound, not LRU eviction.
		t.cache = make(map[string][]string, t.cacheCap)
	}
	t.cache[word] = pieces
	t.mu.Unlock()
	return pieces
}

func (t *Tokenizer) wordpiece(word string) []string {
	// Fast path: the whole word is a vocabulary entry.
	if t.vocab.Has(word) {
		return []string{word}
	}

	runes := []rune(word)
	pieces := make([]string, 0, 4)
	start := 0
	for start < len(runes) {
		match := ""
		for end := len(runes); end > start; end-- {
			sub := string(runes[start:end])
			if start > 0 {
				sub = ContinuationPrefix + sub
			}
			if t.vocab.Has(sub) {
				match = sub
				start = end
				break
			}
		}
		if match == "" {
			// No prefix at this position tokenizes: the whole word maps to
			// a single unknown token, not a per-character retry.
			return []string{UnkToken}
		}
		pieces = append(pieces, match)
	}
	return pieces
}

// cacheLen is a test hook.
func (t *Tokenizer) cacheLen() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.cache)
}
