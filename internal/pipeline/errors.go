package pipeline

import "errors"

var (
	// ErrInference wraps a failure reported by the external inference
	// engine. Propagated as-is; retrying is the caller's decision.
	ErrInference = errors.New("pipeline: inference failed")

	// ErrAlignmentMismatch reports that decoded output does not line up
	// with the input words. This is an internal invariant violation, not
	// bad input, so it is fatal for the request.
	ErrAlignmentMismatch = errors.New("pipeline: word alignment mismatch")

	// ErrProcessing wraps any stage failure surfaced by Process. The
	// request short-circuits; no partial output is returned.
	ErrProcessing = errors.New("pipeline: processing failed")
)
