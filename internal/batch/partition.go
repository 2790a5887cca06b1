package batch

// Span is a half-open [Start, End) range of item indexes forming one batch.
type Span struct {
	Start int
	End   int
}

// Len returns the number of items in the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Partition splits totalItems into contiguous spans of at most size items,
// preserving order. The last span is clipped to totalItems.
// Returns nil when totalItems is zero or size is not positive.
func Partition(totalItems, size int) []Span {
	if totalItems <= 0 || size < 1 {
		return nil
	}

	spans := make([]Span, 0, countBatches(totalItems, size))
	for start := 0; start < totalItems; start += size {
		end := min(start+size, totalItems)
		spans = append(spans, Span{Start: start, End: end})
	}
	return spans
}

// countBatches returns ceil(totalItems/size).
func countBatches(totalItems, size int) int {
	batches := totalItems / size
	if totalItems%size > 0 {
		batches++
	}
	return batches
}
