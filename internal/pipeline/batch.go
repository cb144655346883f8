package pipeline

import (
	"context"
	"sync"

	"image-service/internal/apperr"
	"image-service/internal/logging"
	"image-service/internal/metrics"
	"image-service/internal/workers"
)

// BatchFailure pairs a failed entry's original filename with its
// user-facing reason.
type BatchFailure struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

// BatchReport aggregates per-file outcomes for a multi-file upload.
// Succeeded and Failed each preserve the input order of their entries.
type BatchReport struct {
	Total          int            `json:"total"`
	SucceededCount int            `json:"succeededCount"`
	FailedCount    int            `json:"failedCount"`
	Succeeded      []*ImageResult `json:"succeeded"`
	Failed         []BatchFailure `json:"failed"`
}

// batchOutcome is one slot of the index-addressed result slice.
type batchOutcome struct {
	filename string
	result   *ImageResult
	err      error
}

// ProcessBatch fans an ordered list of uploads across a bounded worker
// pool. One file's failure becomes a failed entry; it never aborts the
// remaining files. Entries with an empty filename count toward Total
// but are otherwise skipped, so SucceededCount+FailedCount can fall
// short of Total.
func (p *Pipeline) ProcessBatch(ctx context.Context, uploads []Upload) *BatchReport {
	entries := make([]Upload, 0, len(uploads))
	for _, up := range uploads {
		if up.Filename == "" {
			logging.Debug("Batch: skipping entry with empty filename")
			continue
		}
		entries = append(entries, up)
	}

	metrics.PipelineBatchSize.Observe(float64(len(entries)))

	workerCount := workers.ForCPU(len(entries))
	metrics.PipelineWorkers.Set(float64(workerCount))

	outcomes := make([]batchOutcome, len(entries))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workerCount; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = p.processBatchEntry(ctx, entries[i])
			}
		}()
	}

	for i := range entries {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	report := &BatchReport{
		Total:     len(uploads),
		Succeeded: []*ImageResult{},
		Failed:    []BatchFailure{},
	}
	for _, out := range outcomes {
		if out.err != nil {
			report.Failed = append(report.Failed, BatchFailure{
				Filename: out.filename,
				Reason:   apperr.Reason(out.err),
			})
			continue
		}
		report.Succeeded = append(report.Succeeded, out.result)
	}
	report.SucceededCount = len(report.Succeeded)
	report.FailedCount = len(report.Failed)
	return report
}

// processBatchEntry bounds one file's processing with the per-file
// timeout so a stuck decode cannot stall the whole batch.
func (p *Pipeline) processBatchEntry(ctx context.Context, up Upload) batchOutcome {
	fileCtx, cancel := context.WithTimeout(ctx, p.cfg.FileTimeout)
	defer cancel()

	result, err := p.ProcessImage(fileCtx, up)
	if err != nil {
		logging.Warn("Batch: %s failed: %v", up.Filename, err)
	}
	return batchOutcome{filename: up.Filename, result: result, err: err}
}
