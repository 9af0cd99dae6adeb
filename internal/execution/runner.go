package execution

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/google/uuid"

	"paratest/internal/config"
	"paratest/internal/domain"
)

// Runner executes a single batch with PHPUnit
type Runner struct {
	config *config.Config
}

// NewRunner creates a new Runner
func NewRunner(cfg *config.Config) *Runner {
	return &Runner{config: cfg}
}

// Command builds the phpunit command for a job on a worker
func (r *Runner) Command(ctx context.Context, job Job, workerID int) *exec.Cmd {
	cmd := exec.CommandContext(ctx, r.config.GetPHPUnitPath(), "--filter", job.FilterPattern(), job.Path)

	// Set environment variables
	cmd.Env = os.Environ() // Start with current environment
	cmd.Env = append(cmd.Env,
		"TEST_TOKEN="+strconv.Itoa(workerID),
		"UNIQUE_TEST_TOKEN="+uuid.NewString(),
		fmt.Sprintf("DB_DATABASE=%s", r.config.GetDatabaseName(workerID)),
	)

	// Set working directory
	cmd.Dir = r.config.ProjectPath
	return cmd
}

// Run executes PHPUnit for one job
func (r *Runner) Run(ctx context.Context, job Job, workerID int) domain.BatchResult {
	start := time.Now()
	output, err := r.Command(ctx, job, workerID).CombinedOutput()

	return domain.BatchResult{
		Index:     job.Index,
		Path:      job.Path,
		ClassName: job.ClassName,
		Units:     job.Units,
		WorkerID:  workerID,
		Success:   err == nil,
		Output:    string(output),
		Error:     err,
		Duration:  time.Since(start),
	}
}
