package batch

import (
	"context"
	"errors"
	"fmt"
)

// Default batch processing configuration.
const (
	// MinBatchSize is the minimum allowed batch size.
	MinBatchSize = 1

	// MaxBatchSize is the maximum allowed batch size.
	MaxBatchSize = 1000
)

// Common batch processing errors.
var (
	ErrInvalidBatchSize = errors.New("batch size must be between 1 and 1000")
	ErrNilCallback      = errors.New("batch callback cannot be nil")
)

// Callback processes a single batch of items. batchIndex is 0-based.
type Callback[T any] func(ctx context.Context, batch []T, batchIndex int) error

// ProgressCallback is invoked after each batch completes.
type ProgressCallback func(progress *Progress)

// Processor splits items into fixed-size batches and visits them in order.
type Processor[T any] struct {
	batchSize  int
	onProgress ProgressCallback
}

// NewProcessor creates a processor with the given batch size.
func NewProcessor[T any](batchSize int) (*Processor[T], error) {
	if batchSize < MinBatchSize || batchSize > MaxBatchSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBatchSize, batchSize)
	}

	return &Processor[T]{
		batchSize: batchSize,
	}, nil
}

// WithProgressCallback sets a progress callback for the processor.
func (p *Processor[T]) WithProgressCallback(callback ProgressCallback) *Processor[T] {
	p.onProgress = callback
	return p
}

// Process visits items batch by batch. It stops on the first error, which is
// returned wrapped with the failing batch index. An empty items slice is a
// no-op.
func (p *Processor[T]) Process(ctx context.Context, items []T, callback Callback[T]) error {
	if callback == nil {
		return ErrNilCallback
	}
	if len(items) == 0 {
		return nil
	}

	totalBatches := p.calculateTotalBatches(len(items))
	progress := NewProgress(len(items), totalBatches)

	for batchIndex, bounds := range p.CalculateBatches(len(items)) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		batch := items[bounds[0]:bounds[1]]
		if err := callback(ctx, batch, batchIndex); err != nil {
			return fmt.Errorf("batch %d failed: %w", batchIndex, err)
		}

		progress.AddProcessed(len(batch))
		if p.onProgress != nil {
			p.onProgress(progress)
		}
	}

	return nil
}

// CalculateBatches returns the [start, end) index pairs for totalItems.
func (p *Processor[T]) CalculateBatches(totalItems int) [][2]int {
	totalBatches := p.calculateTotalBatches(totalItems)
	batches := make([][2]int, totalBatches)

	for i := 0; i < totalBatches; i++ {
		start := i * p.batchSize
		end := min(start+p.batchSize, totalItems)
		batches[i] = [2]int{start, end}
	}

	return batches
}

func (p *Processor[T]) calculateTotalBatches(totalItems int) int {
	batches := totalItems / p.batchSize
	if totalItems%p.batchSize > 0 {
		batches++
	}
	return batches
}
