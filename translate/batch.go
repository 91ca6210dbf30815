package translate

import (
	"context"
	"fmt"
	"time"
)

const (
	// DefaultBatchSize is how many phrases go to the provider per call.
	DefaultBatchSize = 15
	// DefaultBatchDelay is the pause between consecutive batches. A
	// fixed delay is deliberately simple backpressure against
	// rate-limited providers; retry handling on top of it lives in the
	// provider client.
	DefaultBatchDelay = 2 * time.Second
)

// ProcessInBatches splits items into contiguous chunks of at most
// batchSize, invokes fn on each chunk strictly sequentially, pauses
// delay between chunks (but not after the last), and concatenates the
// results preserving chunk order and intra-chunk order.
//
// The first failing chunk aborts the whole operation with its error;
// results from earlier chunks are discarded — there is no partial
// persistence and no resumption across process restarts. The context
// is honored before each chunk and during the inter-chunk delay.
func ProcessInBatches[T, R any](ctx context.Context, items []T, batchSize int, delay time.Duration, fn func(ctx context.Context, batch []T) ([]R, error)) ([]R, error) {
	if len(items) == 0 {
		return nil, nil
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	total := (len(items) + batchSize - 1) / batchSize
	results := make([]R, 0, len(items))

	for start, n := 0, 0; start < len(items); start, n = start+batchSize, n+1 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := start + batchSize
		if end > len(items) {
			end = len(items)
		}

		chunk, err := fn(ctx, items[start:end])
		if err != nil {
			return nil, fmt.Errorf("batch %d/%d: %w", n+1, total, err)
		}
		results = append(results, chunk...)

		if end < len(items) && delay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return results, nil
}
