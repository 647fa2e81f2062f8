package pipeline

import "punctuate-go/internal/decode"

// Config parameterizes one pipeline instance. The two model variants differ
// only in this data: sequence length, windowing geometry and the class label
// table. Behavior differences stay out of control flow.
type Config struct {
	// SeqLen is the model's fixed input length in tokens.
	SeqLen int

	// WindowLen and WindowOverlap control word-level sliding windows for
	// the subword-aligned variant.
	WindowLen     int
	WindowOverlap int

	// BatchSize and BatchOverlap control word-batch segmentation for the
	// externally tokenized variant.
	BatchSize    int
	BatchOverlap int

	// Labels maps class indices to capitalization and punctuation effects.
	Labels []decode.Label

	// SentenceThreshold is handed to the optional sentence splitter.
	SentenceThreshold float64
}

// English returns the configuration of the cased English model: 256-token
// sequences, 150-word windows with 50 words of overlap, 24 classes.
func English() Config {
	return Config{
		SeqLen:            256,
		WindowLen:         150,
		WindowOverlap:     50,
		Labels:            decode.PrimaryLabels(),
		SentenceThreshold: 0.5,
	}
}

// Multilingual returns the configuration of the uncased multilingual model:
// 230-word batches with 5 words of overlap, 6 punctuation classes, external
// sentencepiece tokenization.
func Multilingual() Config {
	return Config{
		SeqLen:            256,
		BatchSize:         230,
		BatchOverlap:      5,
		Labels:            decode.SecondaryLabels(),
		SentenceThreshold: 0.5,
	}
}
