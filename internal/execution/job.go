package execution

import (
	"regexp"
	"strings"

	"paratest/internal/domain"
)

// Job is one batch scheduled for a single phpunit invocation
type Job struct {
	Index     int
	Path      string
	ClassName string
	Units     domain.Batch
}

// Jobs flattens suites into jobs, one per batch, in plan order
func Jobs(suites []domain.Suite) []Job {
	var jobs []Job
	for _, s := range suites {
		for _, b := range s.Batches {
			jobs = append(jobs, Job{
				Index:     len(jobs),
				Path:      s.Path,
				ClassName: s.ClassName,
				Units:     b,
			})
		}
	}
	return jobs
}

var dataSetSuffix = regexp.MustCompile(`(?s) with data set (#\d+|".*")$`)

// FilterPattern builds the phpunit --filter expression selecting exactly the
// job's units. A bare method name also selects all of its data sets, which is
// how unexpanded data provider methods run.
func (j Job) FilterPattern() string {
	alternatives := make([]string, 0, len(j.Units))
	for _, u := range j.Units {
		name := string(u)
		if dataSetSuffix.MatchString(name) {
			alternatives = append(alternatives, pregQuote(name))
		} else {
			alternatives = append(alternatives, pregQuote(name)+`( with data set .*)?`)
		}
	}
	return "/^" + pregQuote(j.ClassName) + "::(" + strings.Join(alternatives, "|") + ")$/"
}

// pregQuote escapes s for use inside a /-delimited PCRE pattern.
func pregQuote(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(`.\+*?[^]$(){}=!<>|:-#/`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
