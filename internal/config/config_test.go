package config

import (
	"errors"
	"path/filepath"
	"testing"

	"paratest/internal/domain"
)

func TestConfig_GetPaths(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected []PathConfig
	}{
		{
			name: "default path",
			config: &Config{
				ProjectPath: ".",
				Paths:       []PathConfig{{Path: "."}},
			},
			expected: []PathConfig{{Path: "."}},
		},
		{
			name: "configured paths keep their patterns",
			config: &Config{
				ProjectPath: "/project",
				Paths:       []PathConfig{{Path: "tests/Unit", Pattern: `Spec\.php$`}},
			},
			expected: []PathConfig{{Path: "/project/tests/Unit", Pattern: `Spec\.php$`}},
		},
		{
			name: "with test path flag",
			config: &Config{
				ProjectPath: "/project",
				Paths:       []PathConfig{{Path: "."}},
				Flags:       Flags{TestPath: "tests"},
			},
			expected: []PathConfig{{Path: "/project/tests"}},
		},
		{
			name: "several test paths and an absolute one",
			config: &Config{
				ProjectPath: "/project",
				Flags:       Flags{TestPath: "tests/Unit, /absolute/path"},
			},
			expected: []PathConfig{{Path: "/project/tests/Unit"}, {Path: "/absolute/path"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.config.GetPaths()
			if len(result) != len(tt.expected) {
				t.Fatalf("expected %v, got %v", tt.expected, result)
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("expected %v, got %v", tt.expected[i], result[i])
				}
			}
		})
	}
}

func TestConfig_EffectiveMaxBatchSize(t *testing.T) {
	cfg := New()
	cfg.MaxBatchSize = 5

	if got := cfg.EffectiveMaxBatchSize(); got != 0 {
		t.Errorf("expected 0 outside functional mode, got %d", got)
	}
	if cfg.ExpandDataProviders() {
		t.Error("data providers should not be expanded outside functional mode")
	}

	cfg.Functional = true
	if got := cfg.EffectiveMaxBatchSize(); got != 5 {
		t.Errorf("expected 5 in functional mode, got %d", got)
	}
	if !cfg.ExpandDataProviders() {
		t.Error("data providers should be expanded in functional mode")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(c *Config) {}},
		{name: "negative batch size", mutate: func(c *Config) { c.MaxBatchSize = -1 }, wantErr: true},
		{name: "negative processors", mutate: func(c *Config) { c.Processors = -2 }, wantErr: true},
		{name: "unknown policy", mutate: func(c *Config) { c.DependencyPolicy = "ignore" }, wantErr: true},
		{name: "no paths", mutate: func(c *Config) { c.Paths = nil }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if !errors.Is(err, domain.ErrInvalidConfiguration) {
					t.Errorf("expected invalid configuration error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_GetDatabaseName(t *testing.T) {
	cfg := New()

	t.Run("default database name", func(t *testing.T) {
		t.Setenv("DB_DATABASE_PREFIX", "")
		name := cfg.GetDatabaseName(1)
		expected := "testing_1"
		if name != expected {
			t.Errorf("expected %s, got %s", expected, name)
		}
	})

	t.Run("prefix from .env values", func(t *testing.T) {
		t.Setenv("DB_DATABASE_PREFIX", "")
		cfg.Env = map[string]string{"DB_DATABASE_PREFIX": "app_test"}
		if name := cfg.GetDatabaseName(3); name != "app_test_3" {
			t.Errorf("expected app_test_3, got %s", name)
		}
	})

	t.Run("process environment wins", func(t *testing.T) {
		t.Setenv("DB_DATABASE_PREFIX", "ci")
		if name := cfg.GetDatabaseName(2); name != "ci_2" {
			t.Errorf("expected ci_2, got %s", name)
		}
	})
}

func TestConfig_GetPlanPath(t *testing.T) {
	cfg := New()
	cfg.ProjectPath = "/project"

	if got := cfg.GetPlanPath(); got != filepath.Join("/project", DefaultPlanFile) {
		t.Errorf("unexpected default plan path %s", got)
	}
	cfg.Flags.Output = "/tmp/plan.json"
	if got := cfg.GetPlanPath(); got != "/tmp/plan.json" {
		t.Errorf("expected output flag to win, got %s", got)
	}
}

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.ProjectPath != DefaultProjectPath {
		t.Errorf("expected ProjectPath %s, got %s", DefaultProjectPath, cfg.ProjectPath)
	}

	if cfg.Processors != DefaultProcessors {
		t.Errorf("expected Processors %d, got %d", DefaultProcessors, cfg.Processors)
	}

	if cfg.DependencyPolicy != PolicyDrop {
		t.Errorf("expected policy %s, got %s", PolicyDrop, cfg.DependencyPolicy)
	}

	if len(cfg.PathsToIgnore) != len(DefaultPathsToIgnore) {
		t.Errorf("expected %d paths to ignore, got %d", len(DefaultPathsToIgnore), len(cfg.PathsToIgnore))
	}
}
