package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestProcessInBatches_OrderPreserved(t *testing.T) {
	items := make([]int, 37)
	for i := range items {
		items[i] = i
	}

	for _, batchSize := range []int{1, 2, 5, 15, 36, 37, 100} {
		got, err := ProcessInBatches(context.Background(), items, batchSize, 0,
			func(_ context.Context, batch []int) ([]int, error) {
				out := make([]int, len(batch))
				copy(out, batch)
				return out, nil
			})
		if err != nil {
			t.Fatalf("batchSize %d: %v", batchSize, err)
		}
		if len(got) != len(items) {
			t.Fatalf("batchSize %d: got %d results, want %d", batchSize, len(got), len(items))
		}
		for i, v := range got {
			if v != i {
				t.Fatalf("batchSize %d: result[%d] = %d, order not preserved", batchSize, i, v)
			}
		}
	}
}

func TestProcessInBatches_ChunkSizes(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}

	var sizes []int
	_, err := ProcessInBatches(context.Background(), items, 2, 0,
		func(_ context.Context, batch []string) ([]string, error) {
			sizes = append(sizes, len(batch))
			return batch, nil
		})
	if err != nil {
		t.Fatal(err)
	}
	want := []int{2, 2, 1}
	if len(sizes) != len(want) {
		t.Fatalf("got %d batches, want %d", len(sizes), len(want))
	}
	for i := range want {
		if sizes[i] != want[i] {
			t.Errorf("batch %d size = %d, want %d", i, sizes[i], want[i])
		}
	}
}

func TestProcessInBatches_EmptyInput(t *testing.T) {
	calls := 0
	got, err := ProcessInBatches(context.Background(), nil, 10, 0,
		func(_ context.Context, batch []int) ([]int, error) {
			calls++
			return batch, nil
		})
	if err != nil {
		t.Fatal(err)
	}
	if got != nil || calls != 0 {
		t.Errorf("empty input: results=%v calls=%d, want none", got, calls)
	}
}

func TestProcessInBatches_FirstErrorAborts(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5}
	boom := errors.New("boom")

	calls := 0
	_, err := ProcessInBatches(context.Background(), items, 2, 0,
		func(_ context.Context, batch []int) ([]int, error) {
			calls++
			if batch[0] == 2 {
				return nil, boom
			}
			return batch, nil
		})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped boom", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want abort after the failing batch", calls)
	}
	if !strings.Contains(err.Error(), "batch 2/3") {
		t.Errorf("error lacks batch position: %v", err)
	}
}

func TestProcessInBatches_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ProcessInBatches(ctx, []int{1, 2, 3}, 1, 0,
		func(_ context.Context, batch []int) ([]int, error) {
			return batch, nil
		})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestProcessInBatches_CancelDuringDelay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	_, err := ProcessInBatches(ctx, []int{1, 2}, 1, DefaultBatchDelay,
		func(_ context.Context, batch []int) ([]int, error) {
			calls++
			cancel() // cancellation lands in the inter-batch delay
			return batch, nil
		})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 before cancellation took effect", calls)
	}
}

func TestProcessInBatches_ZeroBatchSizeUsesDefault(t *testing.T) {
	items := make([]int, DefaultBatchSize+1)
	calls := 0
	_, err := ProcessInBatches(context.Background(), items, 0, 0,
		func(_ context.Context, batch []int) ([]int, error) {
			calls++
			return batch, nil
		})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2 with default batch size %d", calls, DefaultBatchSize)
	}
}

func TestProcessInBatches_ErrorDiscardsPartialResults(t *testing.T) {
	got, err := ProcessInBatches(context.Background(), []int{1, 2, 3, 4}, 2, 0,
		func(_ context.Context, batch []int) ([]int, error) {
			if batch[0] == 3 {
				return nil, fmt.Errorf("late failure")
			}
			return batch, nil
		})
	if err == nil {
		t.Fatal("expected error")
	}
	if got != nil {
		t.Errorf("partial results leaked: %v", got)
	}
}
