package approvaltime

import (
	"context"
	"errors"
	"sync"

	"loan-approval-metrics/internal/pkg/worker"
)

// Submitter runs tasks asynchronously. *worker.WorkerPool satisfies it.
type Submitter interface {
	Submit(ctx context.Context, task worker.Task) error
}

type partial struct {
	acc Accumulator
	err error
}

// AverageApprovalTimeParallel computes the same result as AverageApprovalTime
// by splitting records into partitions that are reduced on pool and merged.
func AverageApprovalTimeParallel(ctx context.Context, pool Submitter, records []LoanRecord, partitions int) (float64, error) {
	acc, err := SummarizeParallel(ctx, pool, records, partitions)
	if err != nil {
		return 0, err
	}
	return acc.Average(), nil
}

// SummarizeParallel is the partitioned form of Summarize. When several
// partitions hold invalid records the one with the lowest index is reported,
// matching the sequential scan.
func SummarizeParallel(ctx context.Context, pool Submitter, records []LoanRecord, partitions int) (Accumulator, error) {
	if partitions <= 1 || len(records) <= 1 {
		return Summarize(records)
	}
	if partitions > len(records) {
		partitions = len(records)
	}
	chunk := (len(records) + partitions - 1) / partitions

	var (
		mu       sync.Mutex
		total    Accumulator
		firstErr *InvalidRecordError
		wg       sync.WaitGroup
	)

	for start := 0; start < len(records); start += chunk {
		end := min(start+chunk, len(records))
		part, offset := records[start:end], start

		wg.Add(1)
		err := pool.Submit(ctx, func() {
			defer wg.Done()
			acc, err := accumulate(part, offset)

			mu.Lock()
			defer mu.Unlock()
			var invalid *InvalidRecordError
			if errors.As(err, &invalid) {
				if firstErr == nil || invalid.Index < firstErr.Index {
					firstErr = invalid
				}
				return
			}
			total.Merge(acc)
		})
		if err != nil {
			wg.Done()
			return Accumulator{}, err
		}
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return Accumulator{}, ctx.Err()
	}

	if firstErr != nil {
		return Accumulator{}, firstErr
	}
	return total, nil
}
