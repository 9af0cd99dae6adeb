package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"paratest/internal/domain"
)

// Save writes the suites as a new plan to the configured JSON file.
func (s *JSONStorage) Save(suites []domain.Suite) (*domain.Plan, error) {
	plan := &domain.Plan{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().Format(time.RFC3339),
		MaxBatch:  s.cfg.EffectiveMaxBatchSize(),
		Suites:    suites,
	}

	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal plan: %w", err)
	}

	path := s.cfg.GetPlanPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create plan dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("write plan: %w", err)
	}
	return plan, nil
}

// Load reads a plan from the configured JSON file.
func (s *JSONStorage) Load() (*domain.Plan, error) {
	path := s.cfg.GetPlanPath()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan file: %w", err)
	}
	var plan domain.Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parse plan: %w", err)
	}
	if _, err := uuid.Parse(plan.ID); err != nil {
		return nil, fmt.Errorf("%w: plan %s has invalid id %q", domain.ErrInvalidConfiguration, path, plan.ID)
	}
	for _, s := range plan.Suites {
		for _, b := range s.Batches {
			if len(b) == 0 {
				return nil, fmt.Errorf("%w: plan %s has an empty batch in %s", domain.ErrInvalidConfiguration, path, s.Path)
			}
		}
	}
	return &plan, nil
}
