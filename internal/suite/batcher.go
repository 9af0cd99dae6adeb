package suite

import (
	"fmt"

	"paratest/internal/config"
	"paratest/internal/domain"
	"paratest/internal/logging"
)

// MethodUnits is one test method with the units it produced after expansion
// and filtering.
type MethodUnits struct {
	Name      string
	DependsOn string
	Units     []domain.TestUnit
}

// Batcher groups units into batches of at most MaxSize units. A method with a
// @depends target joins every batch that already holds the target, whatever
// the batch size.
type Batcher struct {
	MaxSize int
	Policy  string
}

// NewBatcher creates a new Batcher
func NewBatcher(maxSize int, policy string) *Batcher {
	if policy == "" {
		policy = config.PolicyDrop
	}
	return &Batcher{MaxSize: maxSize, Policy: policy}
}

// Batch partitions methods, taken in declaration order, into batches.
// className is only used for diagnostics.
func (b *Batcher) Batch(className string, methods []MethodUnits) ([]domain.Batch, error) {
	var batches []domain.Batch

	for _, m := range methods {
		if len(m.Units) == 0 {
			continue
		}

		if m.DependsOn != "" {
			attached, err := b.attachDependent(batches, className, m)
			if err != nil {
				return nil, err
			}
			batches = attached
			continue
		}

		for _, unit := range m.Units {
			last := len(batches) - 1
			if last >= 0 && len(batches[last]) < b.MaxSize {
				batches[last] = append(batches[last], unit)
			} else {
				batches = append(batches, domain.Batch{unit})
			}
		}
	}

	return batches, nil
}

// attachDependent appends m's units to every batch containing its target.
func (b *Batcher) attachDependent(batches []domain.Batch, className string, m MethodUnits) ([]domain.Batch, error) {
	found := false
	for i := range batches {
		if batches[i].Contains(m.DependsOn) {
			batches[i] = append(batches[i], m.Units...)
			found = true
		}
	}
	if found {
		return batches, nil
	}

	switch b.Policy {
	case config.PolicyFail:
		return nil, fmt.Errorf("%w: %s::%s depends on %s, which is in no batch",
			domain.ErrUnresolvedDependency, className, m.Name, m.DependsOn)
	case config.PolicyWarn:
		logging.Warn("batcher", "%s::%s depends on %s, which is in no batch; dropping %d unit(s)",
			className, m.Name, m.DependsOn, len(m.Units))
	}
	return batches, nil
}
