package parser

import "paratest/internal/domain"

// Parser reads test case counts from a batch's output
type Parser interface {
	ParseTestCounts(result domain.BatchResult) (passed, failed int)
}
