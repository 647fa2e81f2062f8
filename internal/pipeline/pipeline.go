// Package pipeline drives the full punctuation flow: word preparation,
// sliding-window segmentation, chunk encoding, external inference, score
// decoding and overlap-aware stitching.
package pipeline

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"punctuate-go/internal/decode"
	"punctuate-go/internal/encode"
	"punctuate-go/internal/segment"
	"punctuate-go/internal/vocab"
)

// Engine is the external inference collaborator. Infer returns one row of
// class logits per token position.
type Engine interface {
	Infer(inputIDs, attentionMask []int32) ([][]float32, error)
}

// SentenceSplitter is the optional pre-pass collaborator that cuts raw text
// into sentences before word-level segmentation.
type SentenceSplitter interface {
	Split(text string, threshold float64) ([]string, error)
}

// ExternalTokenizer is the collaborator for the sentencepiece-based variant.
// EncodeForModel produces model-ready tensors for a text; Tokenize exposes
// the matching token strings so predictions can be word-aligned. The first
// score row from inference corresponds to the begin-sequence token, so row
// i+1 belongs to token i.
type ExternalTokenizer interface {
	Tokenize(text string) ([]string, error)
	EncodeForModel(text string) (inputIDs, attentionMask []int32, err error)
}

// Pipeline is one immutable model instance. Callers needing both model
// variants hold two pipelines; there is no runtime model switching.
type Pipeline struct {
	cfg      Config
	tok      *vocab.Tokenizer
	ext      ExternalTokenizer
	engine   Engine
	splitter SentenceSplitter
}

// New builds a pipeline for the WordPiece-tokenized variant.
func New(cfg Config, v *vocab.Vocabulary, eng Engine) (*Pipeline, error) {
	if cfg.SeqLen < 2 {
		return nil, fmt.Errorf("%w: sequence length %d", encode.ErrEncodingImpossible, cfg.SeqLen)
	}
	if v == nil {
		return nil, fmt.Errorf("%w: no vocabulary", vocab.ErrResourceMissing)
	}
	if eng == nil {
		return nil, errors.New("pipeline: nil inference engine")
	}
	if len(cfg.Labels) == 0 {
		return nil, errors.New("pipeline: empty label table")
	}
	return &Pipeline{cfg: cfg, tok: vocab.NewTokenizer(v), engine: eng}, nil
}

// NewExternal builds a pipeline for the externally tokenized variant.
func NewExternal(cfg Config, ext ExternalTokenizer, eng Engine) (*Pipeline, error) {
	if ext == nil {
		return nil, fmt.Errorf("%w: no tokenizer", vocab.ErrResourceMissing)
	}
	if eng == nil {
		return nil, errors.New("pipeline: nil inference engine")
	}
	if len(cfg.Labels) == 0 {
		return nil, errors.New("pipeline: empty label table")
	}
	return &Pipeline{cfg: cfg, ext: ext, engine: eng}, nil
}

// UseSentenceSplitter installs the optional sentence pre-pass. Call before
// the first Process; the pipeline is otherwise immutable.
func (p *Pipeline) UseSentenceSplitter(s SentenceSplitter) { p.splitter = s }

// Process punctuates text. On any stage failure the whole request fails; no
// partial output is ever returned.
func (p *Pipeline) Process(text string, useSegmentation bool) (string, error) {
	out, _, err := p.run(text, useSegmentation)
	return out, err
}

// ProcessWithMetrics is Process plus stage timings and counts.
func (p *Pipeline) ProcessWithMetrics(text string, useSegmentation bool) (string, Metrics, error) {
	return p.run(text, useSegmentation)
}

func (p *Pipeline) run(text string, useSegmentation bool) (string, Metrics, error) {
	var m Metrics
	start := time.Now()

	words, err := p.prepare(text, useSegmentation)
	if err != nil {
		return "", m, fmt.Errorf("%w: %w", ErrProcessing, err)
	}
	if len(words) == 0 {
		return "", m, nil
	}
	m.Words = len(words)

	segStart := time.Now()
	var segs []segment.Segment
	if p.ext != nil {
		segs = segment.SplitBatches(words, p.cfg.BatchSize, p.cfg.BatchOverlap)
	} else {
		segs = segment.Split(words, p.cfg.WindowLen, p.cfg.WindowOverlap)
	}
	m.SegmentationTime = time.Since(segStart)
	m.Segments = len(segs)

	frags, err := p.runSegments(segs, &m)
	if err != nil {
		return "", m, fmt.Errorf("%w: %w", ErrProcessing, err)
	}

	out := decode.Stitch(frags)
	if got := len(strings.Fields(out)); got != len(words) {
		return "", m, fmt.Errorf("%w: %w: decoded %d words, want %d",
			ErrProcessing, ErrAlignmentMismatch, got, len(words))
	}
	m.TotalTime = time.Since(start)
	return out, m, nil
}

// prepare normalizes text into the word stream the tokenizer expects. With
// segmentation enabled and a splitter installed, the splitter's sentences
// are stripped of stray punctuation and re-joined with single spaces first.
func (p *Pipeline) prepare(text string, useSegmentation bool) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	if useSegmentation && p.splitter != nil {
		sentences, err := p.splitter.Split(text, p.cfg.SentenceThreshold)
		if err != nil {
			return nil, fmt.Errorf("split sentences: %w", err)
		}
		cleaned := make([]string, 0, len(sentences))
		for _, s := range sentences {
			s = strings.TrimSpace(stripStrayPunct(s))
			if s != "" {
				cleaned = append(cleaned, s)
			}
		}
		text = strings.Join(cleaned, " ")
	}
	return strings.Fields(text), nil
}

func stripStrayPunct(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', ',', '!', '?', ':', ';':
			return -1
		}
		return r
	}, s)
}

type segmentStats struct {
	chunks  int
	infer   time.Duration
	confSum float64
	confN   int
}

// runSegments processes segments concurrently. Results land in
// index-addressed slots so stitching sees them in original word order no
// matter which goroutine finishes first; the first error wins and fails the
// whole request.
func (p *Pipeline) runSegments(segs []segment.Segment, m *Metrics) ([]string, error) {
	frags := make([]string, len(segs))
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error
	var confSum float64
	var confN int
	for i := range segs {
		// Words up to the previous segment's end are already decoded; this
		// segment only emits from there on. Deterministic per index, so
		// segments stay independent.
		filter := 0
		if i > 0 {
			filter = segs[i-1].End
		}
		wg.Add(1)
		go func(i, filter int) {
			defer wg.Done()
			frag, stats, err := p.processSegment(segs[i], filter)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			frags[i] = frag
			m.Chunks += stats.chunks
			m.InferenceTime += stats.infer
			confSum += stats.confSum
			confN += stats.confN
		}(i, filter)
	}
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	if confN > 0 {
		m.MeanConfidence = confSum / float64(confN)
	}
	return frags, nil
}

func (p *Pipeline) processSegment(seg segment.Segment, filter int) (string, segmentStats, error) {
	if p.ext != nil {
		return p.processBatch(seg, filter)
	}
	return p.processWindow(seg, filter)
}

// processWindow chunk-encodes the segment's words until all are consumed,
// running inference and decoding per chunk.
func (p *Pipeline) processWindow(seg segment.Segment, filter int) (string, segmentStats, error) {
	var stats segmentStats
	localFilter := filter - seg.Start
	if localFilter < 0 {
		localFilter = 0
	}
	var frags []string
	pos := 0
	for pos < len(seg.Words) {
		enc, consumed, err := encode.Chunk(p.tok, seg.Words, pos, p.cfg.SeqLen)
		if err != nil {
			return "", stats, err
		}
		t0 := time.Now()
		scores, err := p.engine.Infer(enc.InputIDs, enc.AttentionMask)
		stats.infer += time.Since(t0)
		if err != nil {
			return "", stats, fmt.Errorf("%w: %w", ErrInference, err)
		}
		frag, err := decode.Decode(scores, enc.Tokens, enc.WordIDs, localFilter, p.cfg.Labels)
		if err != nil {
			return "", stats, err
		}
		frags = append(frags, frag)
		stats.chunks++
		pos += consumed
	}
	return decode.Stitch(frags), stats, nil
}

// processBatch feeds the whole batch text through the external tokenizer,
// aligns token predictions back to whole words and applies labels per word.
func (p *Pipeline) processBatch(seg segment.Segment, filter int) (string, segmentStats, error) {
	var stats segmentStats
	localFilter := filter - seg.Start
	if localFilter < 0 {
		localFilter = 0
	}
	text := strings.Join(seg.Words, " ")

	inputIDs, attentionMask, err := p.ext.EncodeForModel(text)
	if err != nil {
		return "", stats, fmt.Errorf("encode batch: %w", err)
	}
	t0 := time.Now()
	scores, err := p.engine.Infer(inputIDs, attentionMask)
	stats.infer += time.Since(t0)
	if err != nil {
		return "", stats, fmt.Errorf("%w: %w", ErrInference, err)
	}
	tokens, err := p.ext.Tokenize(text)
	if err != nil {
		return "", stats, fmt.Errorf("tokenize batch: %w", err)
	}
	// Row 0 belongs to the begin-sequence token; token i reads row i+1.
	if len(scores) < len(tokens)+1 {
		return "", stats, fmt.Errorf("%w: %d score rows for %d tokens",
			ErrAlignmentMismatch, len(scores), len(tokens))
	}
	classes := make([]int, len(tokens))
	for i := range tokens {
		row := scores[i+1]
		c := decode.Argmax(row)
		classes[i] = c
		stats.confSum += decode.Confidence(row, c)
		stats.confN++
	}
	wordClasses := decode.AlignWords(tokens, classes)
	if len(wordClasses) != len(seg.Words) {
		return "", stats, fmt.Errorf("%w: %d word labels for %d words",
			ErrAlignmentMismatch, len(wordClasses), len(seg.Words))
	}
	frag, err := decode.Words(seg.Words, wordClasses, localFilter, p.cfg.Labels)
	if err != nil {
		return "", stats, err
	}
	stats.chunks++
	return frag, stats, nil
}
