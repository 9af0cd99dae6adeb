package cli

import (
	"paratest/internal/config"
	"paratest/internal/logging"
)

// Flags holds command-line flags
type Flags struct {
	ProjectPath      string
	ConfigFile       string
	Verbose          bool
	Processors       int
	TestPath         string
	FileFilter       string
	Filter           string
	Groups           []string
	ExcludeGroups    []string
	Functional       bool
	MaxBatchSize     int
	DependencyPolicy string
	TestCases        bool
	FailFast         bool
	CreateDatabases  bool
	PlanFile         string
	Output           string
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		Processors:       f.Processors,
		TestPath:         f.TestPath,
		FileFilter:       f.FileFilter,
		Filter:           f.Filter,
		Groups:           f.Groups,
		ExcludeGroups:    f.ExcludeGroups,
		Functional:       f.Functional,
		MaxBatchSize:     f.MaxBatchSize,
		DependencyPolicy: f.DependencyPolicy,
		TestCases:        f.TestCases,
		FailFast:         f.FailFast,
		CreateDatabases:  f.CreateDatabases,
		PlanFile:         f.PlanFile,
		Output:           f.Output,
	}
}

// LogLevel returns the log level selected by --verbose
func (f *Flags) LogLevel() logging.LogLevel {
	if f.Verbose {
		return logging.LevelDebug
	}
	return logging.LevelWarn
}
