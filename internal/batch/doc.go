// Package batch walks an ordered list of items in fixed-size batches.
//
// Batches are visited strictly in order on the calling goroutine. The walk
// stops at the first callback error, and context cancellation is honoured
// between batches only, so a batch is never abandoned half way.
package batch
