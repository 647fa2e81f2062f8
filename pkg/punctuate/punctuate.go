// Package punctuate restores punctuation and capitalization to unformatted
// text, such as speech-to-text output, using an external token-classification
// inference engine.
package punctuate

import (
	"errors"
	"fmt"
	"io"
	"time"

	"punctuate-go/internal/encode"
	"punctuate-go/internal/pipeline"
	"punctuate-go/internal/vocab"
)

// Sentinel errors callers can test with errors.Is.
var (
	ErrResourceMissing    = vocab.ErrResourceMissing
	ErrEncodingImpossible = encode.ErrEncodingImpossible
	ErrInference          = pipeline.ErrInference
	ErrAlignmentMismatch  = pipeline.ErrAlignmentMismatch
	ErrProcessing         = pipeline.ErrProcessing
)

// Engine is the external inference collaborator: one row of class logits per
// token position.
type Engine interface {
	Infer(inputIDs, attentionMask []int32) ([][]float32, error)
}

// SentenceSplitter optionally pre-splits raw text into sentences.
type SentenceSplitter interface {
	Split(text string, threshold float64) ([]string, error)
}

// Tokenizer is the external sentencepiece collaborator required by the
// multilingual variant.
type Tokenizer interface {
	Tokenize(text string) ([]string, error)
	EncodeForModel(text string) (inputIDs, attentionMask []int32, err error)
}

// Variant selects which model's pipeline a Model wraps. A Model is bound to
// one variant at construction; callers needing both hold two Models.
type Variant int

const (
	// English is the cased 24-class WordPiece model.
	English Variant = iota
	// Multilingual is the uncased 6-class sentencepiece model.
	Multilingual
)

// Config assembles a Model from injectable resource providers; nothing here
// assumes a particular packaging of the model artifacts.
type Config struct {
	Variant Variant

	// Vocab supplies the WordPiece vocabulary for the English variant.
	// VocabPath is used when Vocab is nil.
	Vocab     io.Reader
	VocabPath string

	// Tokenizer supplies tokenization for the Multilingual variant.
	Tokenizer Tokenizer

	// Engine runs inference. Required.
	Engine Engine

	// Splitter optionally pre-splits text into sentences.
	Splitter SentenceSplitter
}

// Metrics reports per-request stage timings and counts.
type Metrics struct {
	SegmentationTime time.Duration
	InferenceTime    time.Duration
	TotalTime        time.Duration

	Segments int
	Chunks   int
	Words    int

	MeanConfidence float64
}

// Model is one ready-to-use punctuation pipeline. Safe for concurrent use.
type Model struct {
	p *pipeline.Pipeline
}

// New builds a Model for the configured variant.
func New(cfg Config) (*Model, error) {
	if cfg.Engine == nil {
		return nil, errors.New("punctuate: no inference engine configured")
	}

	var p *pipeline.Pipeline
	switch cfg.Variant {
	case English:
		v, err := loadVocab(cfg)
		if err != nil {
			return nil, err
		}
		p, err = pipeline.New(pipeline.English(), v, cfg.Engine)
		if err != nil {
			return nil, err
		}
	case Multilingual:
		if cfg.Tokenizer == nil {
			return nil, fmt.Errorf("%w: multilingual variant needs a tokenizer", ErrResourceMissing)
		}
		var err error
		p, err = pipeline.NewExternal(pipeline.Multilingual(), cfg.Tokenizer, cfg.Engine)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("punctuate: unknown variant %d", cfg.Variant)
	}

	if cfg.Splitter != nil {
		p.UseSentenceSplitter(cfg.Splitter)
	}
	return &Model{p: p}, nil
}

func loadVocab(cfg Config) (*vocab.Vocabulary, error) {
	if cfg.Vocab != nil {
		return vocab.Load(cfg.Vocab)
	}
	if cfg.VocabPath != "" {
		return vocab.LoadFile(cfg.VocabPath)
	}
	return nil, fmt.Errorf("%w: no vocabulary source configured", ErrResourceMissing)
}

// Process returns the punctuated form of text. When useSegmentation is set
// and a splitter is configured, text is pre-split into sentences first. A
// failure in any stage fails the whole request; no partial output.
func (m *Model) Process(text string, useSegmentation bool) (string, error) {
	return m.p.Process(text, useSegmentation)
}

// ProcessWithMetrics is Process plus stage timings and counts.
func (m *Model) ProcessWithMetrics(text string, useSegmentation bool) (string, Metrics, error) {
	out, pm, err := m.p.ProcessWithMetrics(text, useSegmentation)
	return out, Metrics{
		SegmentationTime: pm.SegmentationTime,
		InferenceTime:    pm.InferenceTime,
		TotalTime:        pm.TotalTime,
		Segments:         pm.Segments,
		Chunks:           pm.Chunks,
		Words:            pm.Words,
		MeanConfidence:   pm.MeanConfidence,
	}, err
}
