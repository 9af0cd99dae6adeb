package suite

import (
	"context"
	"fmt"

	"paratest/internal/discovery"
	"paratest/internal/domain"
)

// DataProviderSource returns the ordered data set keys a data provider yields
// for a test class.
type DataProviderSource interface {
	Keys(ctx context.Context, class *domain.ClassDescriptor, method domain.MethodDescriptor, provider string) ([]domain.DataSetKey, error)
}

// Expander turns a method into the test units that survive filtering
type Expander struct {
	filter   *discovery.Filter
	provider DataProviderSource
	enabled  bool
}

// NewExpander creates an Expander. When enabled is false, or provider is nil,
// data provider methods produce a single unit like any other method.
func NewExpander(filter *discovery.Filter, provider DataProviderSource, enabled bool) *Expander {
	return &Expander{
		filter:   filter,
		provider: provider,
		enabled:  enabled && provider != nil,
	}
}

// Units returns the method's units in data set order. Each data set variant is
// filtered on its own, with the groups of its method.
func (e *Expander) Units(ctx context.Context, class *domain.ClassDescriptor, method domain.MethodDescriptor) ([]domain.TestUnit, error) {
	groups := class.EffectiveGroups(method)

	if !e.enabled || method.Meta.DataProvider == "" {
		if !e.filter.Matches(class.Name, method.Name, groups) {
			return nil, nil
		}
		return []domain.TestUnit{domain.TestUnit(method.Name)}, nil
	}

	keys, err := e.provider.Keys(ctx, class, method, method.Meta.DataProvider)
	if err != nil {
		return nil, fmt.Errorf("data provider %s::%s: %w", class.Name, method.Meta.DataProvider, err)
	}

	var units []domain.TestUnit
	for _, key := range keys {
		unit := domain.DataSetUnit(method.Name, key)
		if e.filter.Matches(class.Name, string(unit), groups) {
			units = append(units, unit)
		}
	}
	return units, nil
}
