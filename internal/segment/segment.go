// Package segment windows long word sequences so each window fits the
// model's practical context, with trailing overlap giving the next window
// left context for stitching.
package segment

// Segment is a contiguous window over the original word sequence. Start and
// End are indices into that sequence; Words aliases the original slice.
type Segment struct {
	Words []string
	Start int
	End   int
}

// Split partitions words into windows of length words, each extended by up
// to overlap trailing words. Window i covers
// [i*length, min(i*length+length+overlap, len(words))). Pure arithmetic on
// the indices: the same input always yields the same segments.
func Split(words []string, length, overlap int) []Segment {
	n := len(words)
	if n == 0 {
		return nil
	}
	if length <= 0 {
		return []Segment{{Words: words, Start: 0, End: n}}
	}
	if overlap < 0 {
		overlap = 0
	}
	segs := make([]Segment, 0, n/length+1)
	for start := 0; start < n; start += length {
		end := start + length + overlap
		if end > n {
			end = n
		}
		segs = append(segs, Segment{Words: words[start:end], Start: start, End: end})
	}
	return segs
}

// SplitBatches windows words into batches for the word-batch segmentation:
// batch i covers [i*size, min(i*size+size+overlap, len(words))). A trailing
// batch of overlap or fewer words is dropped when more than one batch
// exists; the prior batch's overlap extension already covers those words, so
// nothing is lost and a near-empty inference call is avoided.
func SplitBatches(words []string, size, overlap int) []Segment {
	n := len(words)
	if n == 0 {
		return nil
	}
	if size <= 0 {
		return []Segment{{Words: words, Start: 0, End: n}}
	}
	if overlap < 0 {
		overlap = 0
	}
	var segs []Segment
	for start := 0; start < n; start += size {
		end := start + size + overlap
		if end > n {
			end = n
		}
		segs = append(segs, Segment{Words: words[start:end], Start: start, End: end})
	}
	if len(segs) > 1 {
		last := segs[len(segs)-1]
		if last.End-last.Start <= overlap {
			segs = segs[:len(segs)-1]
		}
	}
	return segs
}
