package discovery

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"paratest/internal/domain"
)

// Filter decides which files and test units survive discovery
type Filter struct {
	include []string
	exclude []string
	pattern *regexp.Regexp
}

// NewFilter creates a Filter for the given criteria. The name pattern is a
// regular expression; a pattern starting with "/" is read as a delimited
// pattern with optional trailing flags, e.g. "/testLogin/i".
func NewFilter(criteria domain.FilterCriteria) (*Filter, error) {
	f := &Filter{
		include: criteria.Groups,
		exclude: criteria.ExcludeGroups,
	}
	if criteria.Pattern != "" {
		re, err := compileNameFilter(criteria.Pattern)
		if err != nil {
			return nil, err
		}
		f.pattern = re
	}
	return f, nil
}

// Matches reports whether a unit of className passes both the group gate
// and the name gate.
func (f *Filter) Matches(className, unitName string, groups []string) bool {
	return f.matchGroups(groups) && f.matchName(className, unitName)
}

func (f *Filter) matchGroups(groups []string) bool {
	if len(groups) == 0 {
		return true
	}
	if len(f.include) > 0 && !intersects(groups, f.include) {
		return false
	}
	if len(f.exclude) > 0 && intersects(groups, f.exclude) {
		return false
	}
	return true
}

func (f *Filter) matchName(className, unitName string) bool {
	if f.pattern == nil {
		return true
	}
	return f.pattern.MatchString(className + "::" + unitName)
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

// compileNameFilter turns a --filter value into a Go regexp.
func compileNameFilter(raw string) (*regexp.Regexp, error) {
	body, flags := raw, ""
	if strings.HasPrefix(raw, "/") {
		end := strings.LastIndex(raw, "/")
		if end == 0 {
			return nil, fmt.Errorf("%w: unterminated filter pattern %q", domain.ErrInvalidConfiguration, raw)
		}
		body = raw[1:end]
		for _, fl := range raw[end+1:] {
			switch fl {
			case 'i', 'm', 's', 'U':
				if !strings.ContainsRune(flags, fl) {
					flags += string(fl)
				}
			case 'x', 'u', 'D':
				// no RE2 equivalent needed
			default:
				return nil, fmt.Errorf("%w: unsupported filter flag %q in %q", domain.ErrInvalidConfiguration, fl, raw)
			}
		}
	}
	if flags != "" {
		body = "(?" + flags + ")" + body
	}

	re, err := regexp.Compile(body)
	if err != nil {
		return nil, fmt.Errorf("%w: filter %q: %v", domain.ErrInvalidConfiguration, raw, err)
	}
	return re, nil
}

// FilterByName filters test files by name pattern using wildcard matching
// Supports patterns like "*UserTest.php" or "*Payment*"
func FilterByName(tests []string, pattern string) []string {
	if pattern == "" {
		return tests
	}

	var filtered []string
	for _, test := range tests {
		if matchWildcard(pattern, filepath.Base(test)) {
			filtered = append(filtered, test)
		}
	}
	return filtered
}

func matchWildcard(pattern, name string) bool {
	// Try to match using filepath.Match (supports * and ? wildcards)
	if matched, err := filepath.Match(pattern, name); err == nil && matched {
		return true
	}

	// If no wildcards, do a simple contains check
	if !strings.ContainsAny(pattern, "*?") {
		return strings.Contains(name, pattern)
	}

	// Looser match for patterns like "*Payment*": every literal part must
	// appear in order.
	if !strings.Contains(pattern, "*") {
		return false
	}
	rest := name
	hasPart := false
	for _, part := range strings.Split(pattern, "*") {
		if part == "" {
			continue
		}
		hasPart = true
		idx := strings.Index(rest, part)
		if idx < 0 {
			return false
		}
		rest = rest[idx+len(part):]
	}
	return hasPart
}
