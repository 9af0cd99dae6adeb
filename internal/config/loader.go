package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"paratest/internal/domain"
)

// ProjectFile is the on-disk shape of paratest.yaml
type ProjectFile struct {
	Paths            []PathConfig `yaml:"paths"`
	Groups           []string     `yaml:"groups"`
	ExcludeGroups    []string     `yaml:"exclude_groups"`
	Filter           string       `yaml:"filter"`
	Functional       *bool        `yaml:"functional"`
	MaxBatchSize     *int         `yaml:"max_batch_size"`
	DependencyPolicy string       `yaml:"dependency_policy"`
	Processors       int          `yaml:"processors"`
	PHP              string       `yaml:"php"`
	PHPUnit          string       `yaml:"phpunit"`
	Ignore           []string     `yaml:"ignore"`
}

// Load builds the configuration: defaults, then the project file (if any),
// then the project's .env, then flags.
func Load(projectPath, projectFile string, flags Flags) (*Config, error) {
	cfg := New()
	if projectPath != "" {
		cfg.ProjectPath = projectPath
	}

	if projectFile == "" {
		projectFile = filepath.Join(cfg.ProjectPath, DefaultProjectFile)
		if _, err := os.Stat(projectFile); os.IsNotExist(err) {
			projectFile = ""
		}
	}
	if projectFile != "" {
		pf, err := loadProjectFile(projectFile)
		if err != nil {
			return nil, err
		}
		cfg.merge(pf)
	}

	env, err := loadEnvFile(filepath.Join(cfg.ProjectPath, ".env"))
	if err != nil {
		return nil, err
	}
	cfg.Env = env

	cfg.ApplyFlags(flags)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadProjectFile loads a ProjectFile from a YAML file.
func loadProjectFile(path string) (ProjectFile, error) {
	var pf ProjectFile
	data, err := os.ReadFile(path)
	if err != nil {
		return ProjectFile{}, fmt.Errorf("%w: read %s: %v", domain.ErrInvalidConfiguration, path, err)
	}
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return ProjectFile{}, fmt.Errorf("%w: parse %s: %v", domain.ErrInvalidConfiguration, path, err)
	}
	return pf, nil
}

// loadEnvFile reads KEY=value pairs from a .env file. A missing file is not an error.
func loadEnvFile(path string) (map[string]string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	env, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrInvalidConfiguration, path, err)
	}
	return env, nil
}

// merge overlays project file values onto the config.
func (c *Config) merge(pf ProjectFile) {
	if len(pf.Paths) > 0 {
		c.Paths = pf.Paths
	}
	if len(pf.Groups) > 0 {
		c.Groups = pf.Groups
	}
	if len(pf.ExcludeGroups) > 0 {
		c.ExcludeGroups = pf.ExcludeGroups
	}
	if pf.Filter != "" {
		c.Filter = pf.Filter
	}
	if pf.Functional != nil {
		c.Functional = *pf.Functional
	}
	if pf.MaxBatchSize != nil {
		c.MaxBatchSize = *pf.MaxBatchSize
	}
	if pf.DependencyPolicy != "" {
		c.DependencyPolicy = pf.DependencyPolicy
	}
	if pf.Processors > 0 {
		c.Processors = pf.Processors
	}
	if pf.PHP != "" {
		c.PHPBinary = pf.PHP
	}
	if pf.PHPUnit != "" {
		c.PHPUnitPath = pf.PHPUnit
		if !filepath.IsAbs(c.PHPUnitPath) {
			c.PHPUnitPath = filepath.Join(c.ProjectPath, c.PHPUnitPath)
		}
	}
	if len(pf.Ignore) > 0 {
		c.PathsToIgnore = pf.Ignore
	}
}
