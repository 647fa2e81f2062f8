package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"punctuate-go/internal/vocab"
)

// Prints the WordPiece pieces and vocabulary ids for each word of the input,
// useful when checking a vocab.txt against expected tokenizations.
func main() {
	var (
		vocabPath = flag.String("vocab", "", "Path to WordPiece vocab.txt")
		text      = flag.String("text", "", "Text to tokenize")
	)
	flag.Parse()

	if *vocabPath == "" {
		fmt.Fprintln(os.Stderr, "missing required --vocab")
		flag.Usage()
		os.Exit(2)
	}
	if *text == "" {
		fmt.Fprintln(os.Stderr, "missing required --text")
		flag.Usage()
		os.Exit(2)
	}

	v, err := vocab.LoadFile(*vocabPath)
	if err != nil {
		log.Fatalf("load vocabulary: %v", err)
	}
	tok := vocab.NewTokenizer(v)

	type wordPieces struct {
		Word   string   `json:"word"`
		Pieces []string `json:"pieces"`
		IDs    []int32  `json:"ids"`
	}
	var out []wordPieces
	for _, w := range strings.Fields(*text) {
		pieces := tok.Tokenize(w)
		ids := make([]int32, len(pieces))
		for i, p := range pieces {
			ids[i] = v.ID(p)
		}
		out = append(out, wordPieces{Word: w, Pieces: pieces, IDs: ids})
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		log.Fatalf("encode output: %v", err)
	}
}
