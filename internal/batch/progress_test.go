package batch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProgress(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p := newProgress(100, 10, start)

	snap := p.snapshot(start)
	assert.Equal(t, 10, snap.TotalBatches)
	assert.Equal(t, 0.0, snap.PercentComplete)
	assert.False(t, snap.IsComplete())
	assert.Equal(t, time.Duration(0), snap.EstimatedTimeRemaining())

	p.addBatch(10, start.Add(time.Second))
	snap = p.snapshot(start.Add(time.Second))
	assert.Equal(t, 10, snap.ProcessedItems)
	assert.Equal(t, 1, snap.ProcessedBatches)
	assert.Equal(t, 10.0, snap.PercentComplete)
	assert.InDelta(t, 0.1, snap.Fraction(), 1e-9)
	assert.Equal(t, 10.0, snap.ItemsPerSecond)
	assert.Equal(t, 9*time.Second, snap.EstimatedTimeRemaining())

	p.addBatch(90, start.Add(2*time.Second))
	snap = p.snapshot(start.Add(2 * time.Second))
	assert.True(t, snap.IsComplete())
	assert.Equal(t, 100.0, snap.PercentComplete)
	assert.Equal(t, 2*time.Second, snap.Elapsed)

	t.Run("zero value", func(t *testing.T) {
		var empty progress
		assert.Equal(t, ProgressSnapshot{}, empty.snapshot(start))
	})
}
