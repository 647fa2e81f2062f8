package pipeline

import "time"

// Metrics reports per-request stage timings and counts. Reporting only;
// nothing in the pipeline reads these back.
type Metrics struct {
	SegmentationTime time.Duration
	InferenceTime    time.Duration
	TotalTime        time.Duration

	Segments int
	Chunks   int
	Words    int

	// MeanConfidence is the average softmax probability of the chosen
	// classes, diagnostics for the word-aligned variant; 0 when unused.
	MeanConfidence float64
}
