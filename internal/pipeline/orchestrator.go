package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"bimcloud/internal/model"
)

// Orchestrator dispatches batches to a fixed-size worker pool and drains the
// results as they complete. Merge logic never assumes submission order.
type Orchestrator struct {
	workers    int
	open       model.OpenFunc
	logger     zerolog.Logger
	runID      string
	onProgress ProgressFunc
}

func NewOrchestrator(workers int, open model.OpenFunc, logger zerolog.Logger) *Orchestrator {
	if workers < 1 {
		workers = 1
	}
	return &Orchestrator{
		workers: workers,
		open:    open,
		logger:  logger,
	}
}

// OnProgress registers a progress callback tagged with the run id. Progress
// is emitted after every completed batch.
func (slf *Orchestrator) OnProgress(runID string, fn ProgressFunc) {
	slf.runID = runID
	slf.onProgress = fn
}

// Run processes all batches and returns the aggregated meshes by type plus
// the number of elements extracted. The drain loop is the only writer of the
// returned MeshesByType; aggregation downstream runs single-threaded after
// every batch has completed or faulted.
func (slf *Orchestrator) Run(ctx context.Context, batches []Batch, totalElements int) (*MeshesByType, int) {
	mt := NewMeshesByType()
	if len(batches) == 0 {
		return mt, 0
	}

	start := time.Now()
	jobs := make(chan Batch)
	results := make(chan BatchResult)

	var wg sync.WaitGroup
	wg.Add(slf.workers)
	for i := 0; i < slf.workers; i++ {
		go func() {
			defer wg.Done()
			for b := range jobs {
				results <- slf.invoke(b)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, b := range batches {
			select {
			case <-ctx.Done():
				return
			case jobs <- b:
			}
		}
	}()

	// Close the drain once the worker pool has fully wound down.
	go func() {
		wg.Wait()
		close(results)
	}()

	done := 0
	processed := 0
	for r := range results {
		done++
		for _, em := range r.Meshes {
			mt.Add(em)
			processed++
		}

		elapsed := time.Since(start)
		slf.logger.Info().
			Int("batch", r.BatchID).
			Int("batchesDone", done).
			Int("batchesTotal", len(batches)).
			Int("elementsProcessed", processed).
			Int("elementsTotal", totalElements).
			Dur("elapsed", elapsed).
			Msg("Batch complete")

		if slf.onProgress != nil {
			slf.onProgress(Progress{
				RunID:             slf.runID,
				Status:            StatusRunning,
				BatchID:           r.BatchID,
				BatchesDone:       done,
				BatchesTotal:      len(batches),
				ElementsProcessed: processed,
				ElementsTotal:     totalElements,
				Elapsed:           elapsed,
			})
		}
	}

	return mt, processed
}

// invoke runs one batch worker and contains any fault that escapes the
// worker contract. A panicking invocation is logged with its batch id and
// contributes nothing; the run continues.
func (slf *Orchestrator) invoke(b Batch) (res BatchResult) {
	defer func() {
		if r := recover(); r != nil {
			slf.logger.Error().
				Interface("panic", r).
				Int("batch", b.ID).
				Msg("Batch worker faulted, dropping its contribution")
			res = BatchResult{BatchID: b.ID}
		}
	}()
	return ProcessBatch(b, slf.open)
}
