package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"paratest/internal/config"
	"paratest/internal/domain"
	"paratest/internal/logging"
)

// Scanner scans for test files under the configured roots
type Scanner struct {
	skipDirs map[string]bool
}

// NewScanner creates a new Scanner with the given directories to skip
func NewScanner(skipDirs []string) *Scanner {
	skipMap := make(map[string]bool)
	for _, dir := range skipDirs {
		skipMap[dir] = true
	}
	return &Scanner{skipDirs: skipMap}
}

// Scan finds all test files under the given roots. The result is
// deduplicated and keeps first-seen order; directories are walked in lexical
// order so identical trees always produce identical results.
func (s *Scanner) Scan(roots []config.PathConfig) ([]string, error) {
	seen := make(map[string]bool)
	var testfiles []string

	for _, root := range roots {
		files, err := s.scanRoot(root)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			if seen[f] {
				continue
			}
			seen[f] = true
			testfiles = append(testfiles, f)
		}
	}

	if len(testfiles) == 0 {
		return nil, fmt.Errorf("%w under %s", domain.ErrNoTestsDiscovered, describeRoots(roots))
	}
	return testfiles, nil
}

func (s *Scanner) scanRoot(root config.PathConfig) ([]string, error) {
	// Clean and validate the root path
	path := filepath.Clean(root.Path)
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrPathNotFound, path)
	}

	if !info.IsDir() {
		pattern, err := compilePattern(root.Pattern, config.DefaultSourcePattern)
		if err != nil {
			return nil, err
		}
		if pattern.MatchString(filepath.Base(path)) {
			return []string{path}, nil
		}
		return nil, nil
	}

	pattern, err := compilePattern(root.Pattern, config.DefaultTestPattern)
	if err != nil {
		return nil, err
	}
	gi := loadGitignore(path)

	var testfiles []string
	err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name := d.Name()
		if d.IsDir() {
			if p == path || name == "." || name == ".." {
				return nil
			}
			if s.skipDirs[name] {
				return filepath.SkipDir
			}
			if gi != nil && gi.MatchesPath(relPath(path, p)+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if !pattern.MatchString(name) {
			return nil
		}
		if gi != nil && gi.MatchesPath(relPath(path, p)) {
			logging.Debug("scanner", "ignoring %s (gitignore)", p)
			return nil
		}
		testfiles = append(testfiles, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}
	return testfiles, nil
}

func compilePattern(pattern, fallback string) (*regexp.Regexp, error) {
	if pattern == "" {
		pattern = fallback
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: file pattern %q: %v", domain.ErrInvalidConfiguration, pattern, err)
	}
	return re, nil
}

func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}

func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

func describeRoots(roots []config.PathConfig) string {
	paths := make([]string, len(roots))
	for i, r := range roots {
		paths[i] = r.Path
	}
	return strings.Join(paths, ", ")
}
