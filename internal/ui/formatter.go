package ui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"

	"paratest/internal/config"
	"paratest/internal/domain"
)

// WorkerLoad is the share of a plan assigned to one worker
type WorkerLoad struct {
	Batches int
	Units   int
}

// Formatter formats and displays output
type Formatter struct {
	config *config.Config
	out    io.Writer
}

// NewFormatter creates a new Formatter writing to stdout
func NewFormatter(cfg *config.Config) *Formatter {
	return NewFormatterTo(cfg, os.Stdout)
}

// NewFormatterTo creates a new Formatter writing to w
func NewFormatterTo(cfg *config.Config, w io.Writer) *Formatter {
	return &Formatter{config: cfg, out: w}
}

func (f *Formatter) println(c func(string, ...interface{}) string, format string, args ...interface{}) {
	fmt.Fprintln(f.out, c(format, args...))
}

func (f *Formatter) relPath(path string) string {
	return relativePath(f.config.ProjectPath, path)
}

// relativePath returns path relative to the project for display
func relativePath(projectPath, path string) string {
	rel, err := filepath.Rel(projectPath, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}

// PrintTestList prints discovered test files. With showTestCases, each file
// lists the units its suite selected.
func (f *Formatter) PrintTestList(files []string, suites []domain.Suite, showTestCases bool) {
	if !showTestCases {
		f.println(color.GreenString, "Found %d test file(s):\n", len(files))
		for i, file := range files {
			f.println(color.CyanString, "%s%s", branch(i == len(files)-1), f.relPath(file))
		}
		return
	}

	byPath := make(map[string]domain.Suite, len(suites))
	for _, s := range suites {
		byPath[s.Path] = s
	}

	f.println(color.GreenString, "Found %d test file(s) with test units:\n", len(files))
	for i, file := range files {
		isLastFile := i == len(files)-1
		f.println(color.CyanString, "%s%s", branch(isLastFile), f.relPath(file))

		indent := "│   "
		if isLastFile {
			indent = "    "
		}

		var units []domain.TestUnit
		if s, ok := byPath[file]; ok {
			for _, b := range s.Batches {
				units = append(units, b...)
			}
		}
		if len(units) == 0 {
			fmt.Fprintf(f.out, "%s└── %s\n", indent, color.RedString("(no test units selected)"))
		}
		for j, u := range units {
			fmt.Fprintf(f.out, "%s%s%s\n", indent, branch(j == len(units)-1), color.YellowString(string(u)))
		}

		if !isLastFile {
			fmt.Fprintln(f.out)
		}
	}
}

// PrintPlan prints suites as a tree of batches and their units
func (f *Formatter) PrintPlan(suites []domain.Suite) {
	var batches, units int
	for _, s := range suites {
		batches += len(s.Batches)
		units += s.UnitCount()
	}

	f.println(color.GreenString, "Plan: %d suite(s), %d batch(es), %d unit(s)\n", len(suites), batches, units)
	for i, s := range suites {
		isLastSuite := i == len(suites)-1
		f.println(color.CyanString, "%s%s %s", branch(isLastSuite), f.relPath(s.Path), color.WhiteString("(%s)", s.ClassName))

		indent := "│   "
		if isLastSuite {
			indent = "    "
		}
		for j, b := range s.Batches {
			isLastBatch := j == len(s.Batches)-1
			fmt.Fprintf(f.out, "%s%s%s\n", indent, branch(isLastBatch), color.MagentaString("batch %d (%d)", j+1, len(b)))

			unitIndent := indent + "│   "
			if isLastBatch {
				unitIndent = indent + "    "
			}
			for k, u := range b {
				fmt.Fprintf(f.out, "%s%s%s\n", unitIndent, branch(k == len(b)-1), color.YellowString(string(u)))
			}
		}
	}
}

// PrintDistribution prints a round-robin estimate of how batches spread
// across workers. A run hands batches to whichever worker frees up first, so
// the actual assignment differs.
func (f *Formatter) PrintDistribution(loads []WorkerLoad) {
	fmt.Fprintln(f.out)
	f.println(color.CyanString, "Estimated worker distribution (round-robin):")
	for i, l := range loads {
		fmt.Fprintf(f.out, "  worker %-3d %s\n", i+1, color.WhiteString("%d batch(es), %d unit(s)", l.Batches, l.Units))
	}
}

func branch(last bool) string {
	if last {
		return "└── "
	}
	return "├── "
}

// PrintRunSummary prints run statistics and a tree of failed batches
func (f *Formatter) PrintRunSummary(summary domain.RunSummary, results []domain.BatchResult) {
	fmt.Fprintln(f.out)
	f.println(color.CyanString, "╔═══════════════════════════════════════════════════════════════╗")
	f.println(color.CyanString, "║                    Test Execution Statistics                  ║")
	f.println(color.CyanString, "╚═══════════════════════════════════════════════════════════════╝")

	rows := []struct {
		label string
		value string
		c     func(string, ...interface{}) string
	}{
		{"Total Batches", fmt.Sprint(summary.TotalBatches), color.WhiteString},
		{"Failed Batches", fmt.Sprint(summary.FailedBatches), color.RedString},
		{"Passed Test Cases", fmt.Sprint(summary.PassedCases), color.GreenString},
		{"Failed Test Cases", fmt.Sprint(summary.FailedCases), color.RedString},
		{"Duration", fmt.Sprintf("%.2fs", summary.Duration.Seconds()), color.WhiteString},
		{"Workers", fmt.Sprint(summary.Workers), color.WhiteString},
	}

	fmt.Fprintln(f.out, "┌─────────────────────────────────┬─────────────────────────────┐")
	for i, r := range rows {
		fmt.Fprintf(f.out, "│ %-31s │ %s │\n", r.label, r.c("%-27s", r.value))
		if i < len(rows)-1 {
			fmt.Fprintln(f.out, "├─────────────────────────────────┼─────────────────────────────┤")
		}
	}
	fmt.Fprintln(f.out, "└─────────────────────────────────┴─────────────────────────────┘")

	fmt.Fprintln(f.out)
	if summary.FailedBatches == 0 {
		f.println(color.GreenString, "✓ All batches passed!")
		return
	}
	f.println(color.RedString, "✗ %d batch(es) failed with %d test case failure(s)", summary.FailedBatches, summary.FailedCases)
	fmt.Fprintln(f.out)
	f.printFailedTree(results)
}

// treeNode is a directory or file in the failure tree
type treeNode struct {
	name     string
	children map[string]*treeNode
	failures []domain.BatchResult
	isFile   bool
}

// printFailedTree prints failed batches grouped by directory and file
func (f *Formatter) printFailedTree(results []domain.BatchResult) {
	root := &treeNode{children: make(map[string]*treeNode)}
	for _, r := range results {
		if r.Success {
			continue
		}
		parts := strings.Split(f.relPath(r.Path), "/")
		current := root
		for i, part := range parts {
			if part == "" || part == "." {
				continue
			}
			if current.children[part] == nil {
				current.children[part] = &treeNode{
					name:     part,
					children: make(map[string]*treeNode),
					isFile:   i == len(parts)-1,
				}
			}
			current = current.children[part]
		}
		current.failures = append(current.failures, r)
	}

	f.printTreeNode(root, "")
}

func (f *Formatter) printTreeNode(node *treeNode, prefix string) {
	keys := make([]string, 0, len(node.children))
	for key := range node.children {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for i, key := range keys {
		child := node.children[key]
		isLast := i == len(keys)-1
		connector := prefix + branch(isLast)

		childPrefix := prefix + "│   "
		if isLast {
			childPrefix = prefix + "    "
		}

		if !child.isFile {
			f.println(color.CyanString, "%s%s", connector, child.name)
			f.printTreeNode(child, childPrefix)
			continue
		}

		f.println(color.YellowString, "%s%s", connector, child.name)
		for j, r := range child.failures {
			fmt.Fprintf(f.out, "%s%s%s\n", childPrefix, branch(j == len(child.failures)-1),
				color.RedString("batch #%d on worker %d: %s", r.Index, r.WorkerID, strings.Join(domain.Batch(r.Units).Strings(), ", ")))
		}
	}
}
