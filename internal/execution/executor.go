package execution

import (
	"context"

	"paratest/internal/domain"
)

// Executor executes jobs and returns their results
type Executor interface {
	Execute(ctx context.Context, jobs []Job, failFast bool) ([]domain.BatchResult, domain.RunSummary, error)
}
