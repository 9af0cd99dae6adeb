package execution

import (
	"context"
	"errors"
	"os/exec"
	"sort"
	"sync"
	"time"

	"paratest/internal/config"
	"paratest/internal/domain"
	"paratest/internal/logging"
	"paratest/internal/parser"
	"paratest/internal/ui"
)

// WorkerPool runs jobs on a fixed number of workers
type WorkerPool struct {
	config   *config.Config
	runner   *Runner
	progress *ui.ProgressBar
	parser   parser.Parser
}

// NewWorkerPool creates a new WorkerPool
func NewWorkerPool(cfg *config.Config, runner *Runner, phpUnitParser parser.Parser) *WorkerPool {
	return &WorkerPool{
		config: cfg,
		runner: runner,
		parser: phpUnitParser,
	}
}

// SetProgress sets the progress bar for the worker pool
func (wp *WorkerPool) SetProgress(progress *ui.ProgressBar) {
	wp.progress = progress
}

// Execute runs jobs in parallel. With failFast, no new job starts after the
// first failure. Results are returned in plan order.
func (wp *WorkerPool) Execute(ctx context.Context, jobs []Job, failFast bool) ([]domain.BatchResult, domain.RunSummary, error) {
	workerCount := wp.config.Processors
	if workerCount <= 0 {
		workerCount = 1
	}
	summary := domain.RunSummary{Workers: workerCount}
	if len(jobs) == 0 {
		return nil, summary, nil
	}

	// Cancelling stops the queue; jobs already started run to completion.
	queueCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobQueue := make(chan Job)
	results := make(chan domain.BatchResult, len(jobs))

	go func() {
		defer close(jobQueue)
		for _, job := range jobs {
			select {
			case <-queueCtx.Done():
				return
			case jobQueue <- job:
			}
		}
	}()

	var mu sync.Mutex
	var completed int
	startTime := time.Now()

	var wg sync.WaitGroup
	for i := 1; i <= workerCount; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for job := range jobQueue {
				if queueCtx.Err() != nil {
					continue
				}
				result := wp.runner.Run(ctx, job, workerID)
				results <- result

				mu.Lock()
				completed++
				if !result.Success {
					summary.FailedBatches++
					log := logging.For("worker").Batch(job.Index, job.ClassName, workerID)
					var exitErr *exec.ExitError
					if result.Error != nil && !errors.As(result.Error, &exitErr) && ctx.Err() == nil {
						log.Error(result.Error, "phpunit could not be started")
					} else {
						log.Debug("batch failed")
					}
				}
				if wp.parser != nil {
					p, f := wp.parser.ParseTestCounts(result)
					summary.PassedCases += p
					summary.FailedCases += f
				} else if result.Success {
					summary.PassedCases += len(job.Units)
				} else {
					summary.FailedCases += len(job.Units)
				}
				if wp.progress != nil {
					wp.progress.Update(completed, summary.PassedCases, summary.FailedCases)
				}
				if failFast && !result.Success {
					cancel()
				}
				mu.Unlock()
			}
		}(i)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var allResults []domain.BatchResult
	for result := range results {
		allResults = append(allResults, result)
	}
	if wp.progress != nil {
		wp.progress.Finish()
	}

	sort.Slice(allResults, func(i, j int) bool {
		return allResults[i].Index < allResults[j].Index
	})
	summary.TotalBatches = len(allResults)
	summary.Duration = time.Since(startTime)
	return allResults, summary, nil
}
