package pipeline

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"mothgrams/models"
)

// BatchResult is one recording's outcome from a batch run.
type BatchResult struct {
	WAVPath   string
	Recording *models.Recording
	Err       error
}

// WorkerPool processes many recordings concurrently. Spectrogram rendering
// is CPU-bound in ffmpeg, so one worker per core is the useful ceiling.
type WorkerPool struct {
	pipeline *Pipeline
	workers  int
}

// NewWorkerPool creates a pool; workers <= 0 falls back to 4.
func NewWorkerPool(p *Pipeline, workers int) *WorkerPool {
	if workers <= 0 {
		workers = 4
	}
	return &WorkerPool{pipeline: p, workers: workers}
}

// Run processes the given WAV paths and sends one BatchResult per input on
// the returned channel, which is closed when all work is done. Inputs that
// were not started before cancellation are reported with ctx.Err().
func (wp *WorkerPool) Run(ctx context.Context, wavPaths []string) <-chan BatchResult {
	results := make(chan BatchResult, len(wavPaths))

	go func() {
		defer close(results)

		var wg sync.WaitGroup
		semaphore := make(chan struct{}, wp.workers)

		for _, path := range wavPaths {
			select {
			case <-ctx.Done():
				results <- BatchResult{WAVPath: path, Err: ctx.Err()}
				continue
			case semaphore <- struct{}{}:
			}

			wg.Add(1)
			go func(wavPath string) {
				defer wg.Done()
				defer func() { <-semaphore }()

				rec, err := wp.pipeline.Process(ctx, wavPath)
				if err != nil {
					wp.pipeline.log.Error("recording failed",
						zap.String("path", wavPath), zap.Error(err))
				}
				results <- BatchResult{WAVPath: wavPath, Recording: rec, Err: err}
			}(path)
		}

		wg.Wait()
	}()

	return results
}
