// Package suite turns discovered test files into batched suites ready for
// dispatch to parallel workers.
package suite

import (
	"context"
	"errors"
	"fmt"

	"paratest/internal/config"
	"paratest/internal/discovery"
	"paratest/internal/domain"
	"paratest/internal/logging"
)

// Loader runs the discovery pipeline: scan, parse, expand, filter, batch.
// It is single-threaded and, for identical inputs, deterministic.
type Loader struct {
	config   *config.Config
	scanner  *discovery.Scanner
	parser   discovery.Parser
	provider DataProviderSource
}

// NewLoader creates a new Loader
func NewLoader(cfg *config.Config, scanner *discovery.Scanner, parser discovery.Parser, provider DataProviderSource) *Loader {
	return &Loader{
		config:   cfg,
		scanner:  scanner,
		parser:   parser,
		provider: provider,
	}
}

// Discover returns the test files under the configured roots, narrowed by
// the file name wildcard flag.
func (l *Loader) Discover() ([]string, error) {
	files, err := l.scanner.Scan(l.config.GetPaths())
	if err != nil {
		return nil, err
	}
	files = discovery.FilterByName(files, l.config.Flags.FileFilter)
	if len(files) == 0 {
		return nil, fmt.Errorf("%w matching %q", domain.ErrNoTestsDiscovered, l.config.Flags.FileFilter)
	}
	return files, nil
}

// Load discovers test files and builds their suites.
func (l *Loader) Load(ctx context.Context) ([]domain.Suite, error) {
	files, err := l.Discover()
	if err != nil {
		return nil, err
	}
	return l.LoadFiles(ctx, files)
}

// LoadFiles builds suites for the given files, in order. Files without a test
// class, or whose units are all filtered out, contribute no suite. Any other
// failure aborts the whole load.
func (l *Loader) LoadFiles(ctx context.Context, files []string) ([]domain.Suite, error) {
	filter, err := discovery.NewFilter(l.config.Criteria())
	if err != nil {
		return nil, err
	}
	expander := NewExpander(filter, l.provider, l.config.ExpandDataProviders())
	batcher := NewBatcher(l.config.EffectiveMaxBatchSize(), l.config.DependencyPolicy)

	var suites []domain.Suite
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		class, err := l.parser.Parse(ctx, path)
		if errors.Is(err, domain.ErrNoClassFound) {
			logging.Debug("loader", "skipping %s: no test class", path)
			continue
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("load %s: %w", path, ctxErr)
			}
			return nil, fmt.Errorf("%w: %w", domain.ErrParseFailure, err)
		}

		suite, err := l.buildSuite(ctx, class, expander, batcher)
		if err != nil {
			return nil, err
		}
		if suite != nil {
			suites = append(suites, *suite)
		}
	}
	return suites, nil
}

func (l *Loader) buildSuite(ctx context.Context, class *domain.ClassDescriptor, expander *Expander, batcher *Batcher) (*domain.Suite, error) {
	methods := make([]MethodUnits, 0, len(class.Methods))
	for _, method := range class.Methods {
		units, err := expander.Units(ctx, class, method)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", class.Path, err)
		}
		methods = append(methods, MethodUnits{
			Name:      method.Name,
			DependsOn: method.Meta.DependsOn,
			Units:     units,
		})
	}

	batches, err := batcher.Batch(class.Name, methods)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", class.Path, err)
	}
	return Assemble(class, batches), nil
}

// Assemble wraps a class's batches into a suite. It returns nil when there
// are no batches.
func Assemble(class *domain.ClassDescriptor, batches []domain.Batch) *domain.Suite {
	if len(batches) == 0 {
		return nil
	}
	return &domain.Suite{
		Path:      class.Path,
		ClassName: class.Name,
		Batches:   batches,
	}
}
