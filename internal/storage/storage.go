package storage

import (
	"paratest/internal/config"
	"paratest/internal/domain"
)

// Storage persists and loads batch plans so a run can be reproduced.
type Storage interface {
	Save(suites []domain.Suite) (*domain.Plan, error)
	Load() (*domain.Plan, error)
}

// JSONStorage stores plans in a JSON file at the configured plan path.
type JSONStorage struct {
	cfg *config.Config
}

// NewJSONStorage returns a Storage that reads/writes the config's plan path.
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{cfg: cfg}
}
