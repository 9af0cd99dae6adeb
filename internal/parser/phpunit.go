package parser

import (
	"regexp"
	"strconv"

	"paratest/internal/domain"
)

var (
	okPattern       = regexp.MustCompile(`OK\s*\(\s*(\d+)\s+tests?`)
	testsPattern    = regexp.MustCompile(`Tests:\s*(\d+)`)
	failuresPattern = regexp.MustCompile(`Failures:\s*(\d+)`)
	errorsPattern   = regexp.MustCompile(`Errors:\s*(\d+)`)
	noTestsPattern  = regexp.MustCompile(`No tests executed!`)
)

// PHPUnitParser parses PHPUnit test output
type PHPUnitParser struct{}

// NewPHPUnitParser creates a new PHPUnitParser
func NewPHPUnitParser() *PHPUnitParser {
	return &PHPUnitParser{}
}

// ParseTestCounts extracts passed and failed test case counts from PHPUnit output.
// When the summary line is missing, every unit of the batch counts as passed
// or failed according to the exit status.
func (p *PHPUnitParser) ParseTestCounts(result domain.BatchResult) (passed, failed int) {
	output := result.Output

	// OK (N tests, ...) - all passed
	if m := okPattern.FindStringSubmatch(output); m != nil {
		return atoi(m[1]), 0
	}
	if noTestsPattern.MatchString(output) {
		return 0, 0
	}

	// FAILURES! or ERRORS! - Tests: N, Assertions: ..., Failures: F, Errors: E
	var total, failures, errs int
	if m := testsPattern.FindStringSubmatch(output); m != nil {
		total = atoi(m[1])
	}
	if m := failuresPattern.FindStringSubmatch(output); m != nil {
		failures = atoi(m[1])
	}
	if m := errorsPattern.FindStringSubmatch(output); m != nil {
		errs = atoi(m[1])
	}
	failed = failures + errs
	if total >= failed {
		passed = total - failed
	}
	if passed > 0 || failed > 0 {
		return passed, failed
	}

	// Fallback: count the batch's units
	if result.Success {
		return len(result.Units), 0
	}
	return 0, len(result.Units)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
