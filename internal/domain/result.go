package domain

import "time"

// BatchResult represents the result of executing one batch
type BatchResult struct {
	Index     int           // Position of the batch in the plan
	Path      string        // Path to the test file that was executed
	ClassName string        // Class the batch belongs to
	Units     []TestUnit    // Units the batch contained
	WorkerID  int           // Worker that ran the batch
	Success   bool          // Whether phpunit exited cleanly
	Output    string        // Raw output from PHPUnit
	Error     error         // Error if execution failed
	Duration  time.Duration // Time taken to execute
}

// Plan is a saved batch plan
type Plan struct {
	ID        string  `json:"id"`
	CreatedAt string  `json:"created_at"`
	MaxBatch  int     `json:"max_batch_size"`
	Suites    []Suite `json:"suites"`
}

// RunSummary contains totals about a run
type RunSummary struct {
	TotalBatches  int
	FailedBatches int
	PassedCases   int
	FailedCases   int
	Duration      time.Duration
	Workers       int
}
