package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"punctuate-go/pkg/punctuate"
)

func main() {
	var (
		vocabPath   = flag.String("vocab", "", "Path to WordPiece vocab.txt")
		text        = flag.String("text", "", "Input text (overrides --file)")
		textFile    = flag.String("file", "", "Path to input text file")
		segment     = flag.Bool("segment", false, "Run the sentence-splitter pre-pass")
		showMetrics = flag.Bool("metrics", false, "Print stage timings to stderr")
	)
	flag.Parse()

	if *vocabPath == "" {
		fmt.Fprintln(os.Stderr, "missing required --vocab")
		flag.Usage()
		os.Exit(2)
	}
	input := *text
	if input == "" {
		if *textFile == "" {
			fmt.Fprintln(os.Stderr, "missing --text or --file")
			flag.Usage()
			os.Exit(2)
		}
		b, err := os.ReadFile(*textFile)
		if err != nil {
			log.Fatalf("read input file: %v", err)
		}
		input = string(b)
	}

	engine, err := newEngine()
	if err != nil {
		log.Fatalf("init inference engine: %v", err)
	}
	model, err := punctuate.New(punctuate.Config{
		VocabPath: *vocabPath,
		Engine:    engine,
	})
	if err != nil {
		log.Fatalf("init model: %v", err)
	}

	out, metrics, err := model.ProcessWithMetrics(input, *segment)
	if err != nil {
		log.Fatalf("punctuate: %v", err)
	}
	fmt.Println(out)
	if *showMetrics {
		fmt.Fprintf(os.Stderr, "words=%d segments=%d chunks=%d segmentation=%s inference=%s total=%s\n",
			metrics.Words, metrics.Segments, metrics.Chunks,
			metrics.SegmentationTime, metrics.InferenceTime, metrics.TotalTime)
	}
}
