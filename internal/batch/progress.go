package batch

import (
	"time"
)

// percentMultiplier is used to convert a ratio to percentage (0-100).
const percentMultiplier = 100

// Progress tracks how far a Process call has got. It is only mutated by the
// goroutine running Process.
type Progress struct {
	// TotalItems is the total number of items to process.
	TotalItems int

	// ProcessedItems is the number of items processed so far.
	ProcessedItems int

	// TotalBatches is the total number of batches.
	TotalBatches int

	// ProcessedBatches is the number of batches processed so far.
	ProcessedBatches int

	// StartTime is when processing started.
	StartTime time.Time
}

// NewProgress creates a new progress tracker.
func NewProgress(totalItems, totalBatches int) *Progress {
	return &Progress{
		TotalItems:   totalItems,
		TotalBatches: totalBatches,
		StartTime:    time.Now(),
	}
}

// AddProcessed records one finished batch of itemsProcessed items.
func (p *Progress) AddProcessed(itemsProcessed int) {
	p.ProcessedItems += itemsProcessed
	p.ProcessedBatches++
}

// PercentComplete returns the completion percentage (0-100).
func (p *Progress) PercentComplete() float64 {
	if p.TotalItems == 0 {
		return 0
	}
	return (float64(p.ProcessedItems) / float64(p.TotalItems)) * percentMultiplier
}

// IsComplete returns true if all items have been processed.
func (p *Progress) IsComplete() bool {
	return p.ProcessedItems >= p.TotalItems
}

// ElapsedTime returns the time elapsed since processing started.
func (p *Progress) ElapsedTime() time.Duration {
	return time.Since(p.StartTime)
}
