package ui

import "paratest/internal/domain"

// Viewer displays a batch plan in an interactive TUI
type Viewer interface {
	View(plan *domain.Plan) error
}
