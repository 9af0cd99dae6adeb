package domain

import (
	"fmt"
	"strconv"
)

// Metadata is the typed form of a docblock's test annotations.
type Metadata struct {
	Groups       []string `json:"groups,omitempty"`
	DependsOn    string   `json:"depends_on,omitempty"`
	DataProvider string   `json:"data_provider,omitempty"`
}

// MethodDescriptor describes a single test method as declared in a class
type MethodDescriptor struct {
	Name       string
	DocComment string
	Meta       Metadata
}

// ClassDescriptor describes a test class parsed from a source file.
// Methods keep the order in which they are declared.
type ClassDescriptor struct {
	Name       string
	Path       string
	DocComment string
	Meta       Metadata
	Methods    []MethodDescriptor
}

// EffectiveGroups returns the method's own groups followed by the class groups,
// without duplicates.
func (c *ClassDescriptor) EffectiveGroups(m MethodDescriptor) []string {
	seen := make(map[string]bool, len(m.Meta.Groups)+len(c.Meta.Groups))
	var groups []string
	for _, g := range append(append([]string{}, m.Meta.Groups...), c.Meta.Groups...) {
		if seen[g] {
			continue
		}
		seen[g] = true
		groups = append(groups, g)
	}
	return groups
}

// TestUnit is the identity of one executable test: a method name or a
// data set variant of it.
type TestUnit string

// DataSetKey is a key of a data provider's result, either integer or string.
type DataSetKey struct {
	Int   int
	Name  string
	IsInt bool
}

// IntKey returns an integer data set key
func IntKey(i int) DataSetKey {
	return DataSetKey{Int: i, IsInt: true}
}

// StringKey returns a string data set key
func StringKey(s string) DataSetKey {
	return DataSetKey{Name: s}
}

// String renders the key the way PHPUnit names data sets. String keys are
// wrapped in double quotes verbatim, without escaping.
func (k DataSetKey) String() string {
	if k.IsInt {
		return "#" + strconv.Itoa(k.Int)
	}
	return `"` + k.Name + `"`
}

// DataSetUnit builds the unit name of one data set variant of a method.
func DataSetUnit(method string, key DataSetKey) TestUnit {
	return TestUnit(fmt.Sprintf("%s with data set %s", method, key))
}

// Batch is an ordered, non-empty group of units that run in one worker invocation
type Batch []TestUnit

// Contains reports whether the batch holds a unit with the given identity.
func (b Batch) Contains(name string) bool {
	for _, u := range b {
		if string(u) == name {
			return true
		}
	}
	return false
}

// Strings returns the unit identities as plain strings
func (b Batch) Strings() []string {
	out := make([]string, len(b))
	for i, u := range b {
		out[i] = string(u)
	}
	return out
}

// Suite is the executable test handed to the execution engine: one class in
// one file, split into batches.
type Suite struct {
	Path      string  `json:"path"`
	ClassName string  `json:"class"`
	Batches   []Batch `json:"batches"`
}

// UnitCount returns the total number of units across all batches
func (s Suite) UnitCount() int {
	n := 0
	for _, b := range s.Batches {
		n += len(b)
	}
	return n
}

// FilterCriteria selects which units survive discovery.
type FilterCriteria struct {
	Groups        []string
	ExcludeGroups []string
	Pattern       string
}
