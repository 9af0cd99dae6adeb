package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"paratest/internal/domain"
)

// PathConfig is a scan root with an optional file name pattern
type PathConfig struct {
	Path    string `yaml:"path"`
	Pattern string `yaml:"pattern,omitempty"`
}

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath string
	Paths       []PathConfig

	// Filtering
	Groups        []string
	ExcludeGroups []string
	Filter        string

	// Batching
	Functional       bool
	MaxBatchSize     int
	DependencyPolicy string

	// Execution settings
	Processors  int
	PHPBinary   string
	PHPUnitPath string

	// Paths to ignore when scanning
	PathsToIgnore []string

	// Values read from the project's .env file
	Env map[string]string

	// Command flags
	Flags Flags
}

// Flags holds command-line flags
type Flags struct {
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

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		ProjectPath:      DefaultProjectPath,
		Paths:            []PathConfig{{Path: DefaultTestPath}},
		MaxBatchSize:     DefaultMaxBatchSize,
		DependencyPolicy: PolicyDrop,
		Processors:       DefaultProcessors,
		PHPBinary:        DefaultPHPBinary,
		Env:              map[string]string{},
		Flags:            Flags{Processors: DefaultProcessors},
	}
	// Copy default paths to ignore
	cfg.PathsToIgnore = make([]string, len(DefaultPathsToIgnore))
	copy(cfg.PathsToIgnore, DefaultPathsToIgnore)
	return cfg
}

// ApplyFlags overrides configuration with explicitly set flag values
func (c *Config) ApplyFlags(flags Flags) {
	c.Flags = flags

	if flags.Processors > 0 {
		c.Processors = flags.Processors
	}
	if flags.Filter != "" {
		c.Filter = flags.Filter
	}
	if len(flags.Groups) > 0 {
		c.Groups = flags.Groups
	}
	if len(flags.ExcludeGroups) > 0 {
		c.ExcludeGroups = flags.ExcludeGroups
	}
	if flags.Functional {
		c.Functional = true
	}
	if flags.MaxBatchSize > 0 {
		c.MaxBatchSize = flags.MaxBatchSize
	}
	if flags.DependencyPolicy != "" {
		c.DependencyPolicy = flags.DependencyPolicy
	}
}

// Validate checks the configuration for values the pipeline cannot work with
func (c *Config) Validate() error {
	if c.Processors < 0 {
		return fmt.Errorf("%w: processors must not be negative, got %d", domain.ErrInvalidConfiguration, c.Processors)
	}
	if c.MaxBatchSize < 0 {
		return fmt.Errorf("%w: max batch size must not be negative, got %d", domain.ErrInvalidConfiguration, c.MaxBatchSize)
	}
	switch c.DependencyPolicy {
	case PolicyDrop, PolicyWarn, PolicyFail:
	default:
		return fmt.Errorf("%w: unknown dependency policy %q", domain.ErrInvalidConfiguration, c.DependencyPolicy)
	}
	if len(c.GetPaths()) == 0 {
		return fmt.Errorf("%w: no test paths configured", domain.ErrInvalidConfiguration)
	}
	return nil
}

// GetPaths returns the scan roots resolved against the project path.
// A --test-path flag replaces the configured roots; it may list several
// paths separated by commas.
func (c *Config) GetPaths() []PathConfig {
	var roots []PathConfig
	if c.Flags.TestPath != "" {
		for _, p := range strings.Split(c.Flags.TestPath, ",") {
			if p = strings.TrimSpace(p); p != "" {
				roots = append(roots, PathConfig{Path: p})
			}
		}
	} else {
		roots = append(roots, c.Paths...)
	}

	resolved := make([]PathConfig, 0, len(roots))
	for _, r := range roots {
		if !filepath.IsAbs(r.Path) {
			r.Path = filepath.Join(c.ProjectPath, r.Path)
		}
		resolved = append(resolved, r)
	}
	return resolved
}

// Criteria returns the unit filter criteria
func (c *Config) Criteria() domain.FilterCriteria {
	return domain.FilterCriteria{
		Groups:        c.Groups,
		ExcludeGroups: c.ExcludeGroups,
		Pattern:       c.Filter,
	}
}

// EffectiveMaxBatchSize returns the batch size cap. Outside functional mode
// every unit gets its own batch, which is expressed as 0.
func (c *Config) EffectiveMaxBatchSize() int {
	if !c.Functional {
		return 0
	}
	return c.MaxBatchSize
}

// ExpandDataProviders reports whether @dataProvider methods are split into
// one unit per data set.
func (c *Config) ExpandDataProviders() bool {
	return c.Functional
}

// GetPlanPath returns the path a plan is written to or read from
func (c *Config) GetPlanPath() string {
	p := c.Flags.PlanFile
	if c.Flags.Output != "" {
		p = c.Flags.Output
	}
	if p == "" {
		p = DefaultPlanFile
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(c.ProjectPath, p)
	}
	return p
}

// GetPHPUnitPath returns the path to PHPUnit binary
func (c *Config) GetPHPUnitPath() string {
	if c.PHPUnitPath != "" {
		return c.PHPUnitPath
	}
	return filepath.Join(c.ProjectPath, "vendor", "bin", "phpunit")
}

// Getenv returns a variable from the process environment, falling back to
// the project's .env file.
func (c *Config) Getenv(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return c.Env[key]
}

// GetDatabaseName returns the database name for a worker
func (c *Config) GetDatabaseName(workerID int) string {
	prefix := c.Getenv("DB_DATABASE_PREFIX")
	if prefix == "" {
		prefix = DefaultDatabasePrefix
	}
	return fmt.Sprintf("%s_%d", prefix, workerID)
}
