package batch

import "time"

// percentMultiplier is used to convert a ratio to percentage (0-100).
const percentMultiplier = 100

// progress tracks one run. It is guarded by the owning Runner's mutex.
type progress struct {
	totalItems       int
	processedItems   int
	totalBatches     int
	processedBatches int
	batchSize        int
	startTime        time.Time
	lastUpdate       time.Time
}

func newProgress(totalItems, batchSize int, now time.Time) progress {
	return progress{
		totalItems:   totalItems,
		totalBatches: countBatches(totalItems, batchSize),
		batchSize:    batchSize,
		startTime:    now,
		lastUpdate:   now,
	}
}

// addBatch records one completed batch of n items.
func (p *progress) addBatch(n int, now time.Time) {
	p.processedItems += n
	p.processedBatches++
	p.lastUpdate = now
}

func (p *progress) snapshot(now time.Time) ProgressSnapshot {
	snap := ProgressSnapshot{
		TotalItems:       p.totalItems,
		ProcessedItems:   p.processedItems,
		TotalBatches:     p.totalBatches,
		ProcessedBatches: p.processedBatches,
		BatchSize:        p.batchSize,
		StartTime:        p.startTime,
		LastUpdateTime:   p.lastUpdate,
	}
	if p.startTime.IsZero() {
		return snap
	}

	snap.Elapsed = now.Sub(p.startTime)
	if p.totalItems > 0 {
		snap.PercentComplete = float64(p.processedItems) / float64(p.totalItems) * percentMultiplier
	}
	if secs := snap.Elapsed.Seconds(); secs > 0 {
		snap.ItemsPerSecond = float64(p.processedItems) / secs
	}
	return snap
}

// ProgressSnapshot is an immutable view of a run's progress.
type ProgressSnapshot struct {
	TotalItems       int
	ProcessedItems   int
	TotalBatches     int
	ProcessedBatches int
	BatchSize        int
	StartTime        time.Time
	LastUpdateTime   time.Time
	Elapsed          time.Duration
	PercentComplete  float64
	ItemsPerSecond   float64
}

// IsComplete returns true if every item of the run has been published.
func (s ProgressSnapshot) IsComplete() bool {
	return s.ProcessedItems >= s.TotalItems
}

// Fraction returns the completed ratio in [0, 1], suitable for progress bars.
func (s ProgressSnapshot) Fraction() float64 {
	return s.PercentComplete / percentMultiplier
}

// EstimatedTimeRemaining estimates the remaining time from the current rate.
// Returns 0 if nothing has been processed yet.
func (s ProgressSnapshot) EstimatedTimeRemaining() time.Duration {
	if s.ProcessedItems == 0 {
		return 0
	}
	perItem := s.Elapsed / time.Duration(s.ProcessedItems)
	return perItem * time.Duration(s.TotalItems-s.ProcessedItems)
}
