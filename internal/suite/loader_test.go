package suite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paratest/internal/config"
	"paratest/internal/discovery"
	"paratest/internal/domain"
)

const fooTest = `<?php
class Foo
{
    public function testA()
    {
    }

    /**
     * @depends testA
     */
    public function testB()
    {
    }
}
`

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

func newLoader(dir string, mutate func(cfg *config.Config), provider DataProviderSource) *Loader {
	cfg := config.New()
	cfg.ProjectPath = dir
	if mutate != nil {
		mutate(cfg)
	}
	return NewLoader(cfg, discovery.NewScanner(cfg.PathsToIgnore), discovery.NewTreeSitterParser(), provider)
}

func TestLoader_DependentJoinsBatchInFunctionalMode(t *testing.T) {
	dir := writeTree(t, map[string]string{"FooTest.php": fooTest})
	loader := newLoader(dir, func(cfg *config.Config) {
		cfg.Functional = true
		cfg.MaxBatchSize = 1
	}, nil)

	suites, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, suites, 1)

	assert.Equal(t, "Foo", suites[0].ClassName)
	assert.Equal(t, filepath.Join(dir, "FooTest.php"), suites[0].Path)
	assert.Equal(t, []domain.Batch{{"testA", "testB"}}, suites[0].Batches)
}

func TestLoader_DependentJoinsBatchInNonFunctionalMode(t *testing.T) {
	dir := writeTree(t, map[string]string{"FooTest.php": fooTest})
	loader := newLoader(dir, nil, nil)

	suites, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, suites, 1)
	assert.Equal(t, []domain.Batch{{"testA", "testB"}}, suites[0].Batches)
}

func TestLoader_ExpandsDataProviders(t *testing.T) {
	dir := writeTree(t, map[string]string{"tests/UserTest.php": `<?php
namespace App;

/** @group users */
class UserTest
{
    /**
     * @dataProvider names
     */
    public function testRename($name)
    {
    }

    /**
     * @group slow
     */
    public function testPurge()
    {
    }

    public function names()
    {
        return [];
    }
}
`})
	provider := &fakeProvider{keys: map[string][]domain.DataSetKey{
		`App\UserTest::names`: {domain.IntKey(0), domain.StringKey("bob")},
	}}
	loader := newLoader(dir, func(cfg *config.Config) {
		cfg.Functional = true
		cfg.MaxBatchSize = 2
		cfg.ExcludeGroups = []string{"slow"}
	}, provider)

	suites, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, suites, 1)
	assert.Equal(t, `App\UserTest`, suites[0].ClassName)
	assert.Equal(t, []domain.Batch{{`testRename with data set #0`, `testRename with data set "bob"`}}, suites[0].Batches)
}

func TestLoader_SkipsFilesWithoutUnits(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"FooTest.php":      fooTest,
		"BaseTest.php":     "<?php\nabstract class BaseTest\n{\n    public function testShared() {}\n}\n",
		"GroupedTest.php":  "<?php\n/** @group slow */\nclass GroupedTest\n{\n    public function testSlow() {}\n}\n",
		"HelpersTest.php":  "<?php\nfunction helper() {}\n",
		"NotATestFile.php": "<?php\nclass Ignored {}\n",
	})
	loader := newLoader(dir, func(cfg *config.Config) {
		cfg.ExcludeGroups = []string{"slow"}
	}, nil)

	suites, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, suites, 1)
	assert.Equal(t, "Foo", suites[0].ClassName)
}

func TestLoader_IsDeterministic(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"a/AlphaTest.php": "<?php\nclass AlphaTest\n{\n    public function testOne() {}\n    public function testTwo() {}\n    public function testThree() {}\n}\n",
		"b/BetaTest.php":  fooTest,
		"CharlieTest.php": "<?php\nclass CharlieTest\n{\n    public function testOnly() {}\n}\n",
	})
	loader := newLoader(dir, func(cfg *config.Config) {
		cfg.Functional = true
		cfg.MaxBatchSize = 2
	}, nil)

	first, err := loader.Load(context.Background())
	require.NoError(t, err)
	second, err := loader.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	require.Len(t, first, 3)
	assert.Equal(t, "CharlieTest", first[0].ClassName)
	assert.Equal(t, []domain.Batch{{"testOne", "testTwo"}, {"testThree"}}, first[1].Batches)
}

// parserFunc adapts a function to discovery.Parser.
type parserFunc func(ctx context.Context, path string) (*domain.ClassDescriptor, error)

func (f parserFunc) Parse(ctx context.Context, path string) (*domain.ClassDescriptor, error) {
	return f(ctx, path)
}

func TestLoader_ParseErrorChain(t *testing.T) {
	cfg := config.New()
	files := []string{"FooTest.php"}

	t.Run("cause stays reachable", func(t *testing.T) {
		l := NewLoader(cfg, nil, parserFunc(func(_ context.Context, path string) (*domain.ClassDescriptor, error) {
			return nil, fmt.Errorf("error reading file %s: %w", path, os.ErrPermission)
		}), nil)

		_, err := l.LoadFiles(context.Background(), files)
		assert.ErrorIs(t, err, domain.ErrParseFailure)
		assert.ErrorIs(t, err, os.ErrPermission)
	})

	t.Run("cancellation is not a parse failure", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		l := NewLoader(cfg, nil, parserFunc(func(ctx context.Context, path string) (*domain.ClassDescriptor, error) {
			cancel()
			return nil, fmt.Errorf("parse %s: %w", path, ctx.Err())
		}), nil)

		_, err := l.LoadFiles(ctx, files)
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, domain.ErrParseFailure)
	})
}

func TestLoader_Errors(t *testing.T) {
	t.Run("parse failure aborts the load", func(t *testing.T) {
		dir := writeTree(t, map[string]string{
			"FooTest.php":    fooTest,
			"BrokenTest.php": "<?php\nclass BrokenTest {\n    public function testA( {\n",
		})
		_, err := newLoader(dir, nil, nil).Load(context.Background())
		assert.ErrorIs(t, err, domain.ErrParseFailure)
	})

	t.Run("missing root", func(t *testing.T) {
		_, err := newLoader(t.TempDir(), func(cfg *config.Config) {
			cfg.Paths = []config.PathConfig{{Path: "does-not-exist"}}
		}, nil).Load(context.Background())
		assert.ErrorIs(t, err, domain.ErrPathNotFound)
	})

	t.Run("no test files", func(t *testing.T) {
		_, err := newLoader(t.TempDir(), nil, nil).Load(context.Background())
		assert.ErrorIs(t, err, domain.ErrNoTestsDiscovered)
	})

	t.Run("file filter leaves nothing", func(t *testing.T) {
		dir := writeTree(t, map[string]string{"FooTest.php": fooTest})
		_, err := newLoader(dir, func(cfg *config.Config) {
			cfg.Flags.FileFilter = "*Payment*"
		}, nil).Load(context.Background())
		assert.ErrorIs(t, err, domain.ErrNoTestsDiscovered)
	})

	t.Run("bad name filter", func(t *testing.T) {
		dir := writeTree(t, map[string]string{"FooTest.php": fooTest})
		_, err := newLoader(dir, func(cfg *config.Config) {
			cfg.Filter = "(oops"
		}, nil).Load(context.Background())
		assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
	})

	t.Run("strict dependency policy", func(t *testing.T) {
		dir := writeTree(t, map[string]string{"FooTest.php": fooTest})
		_, err := newLoader(dir, func(cfg *config.Config) {
			cfg.Filter = "testB"
			cfg.DependencyPolicy = config.PolicyFail
		}, nil).Load(context.Background())
		assert.ErrorIs(t, err, domain.ErrUnresolvedDependency)
	})
}

func TestAssemble(t *testing.T) {
	class := &domain.ClassDescriptor{Name: "Foo", Path: "FooTest.php"}

	assert.Nil(t, Assemble(class, nil))

	suite := Assemble(class, []domain.Batch{{"testA"}})
	require.NotNil(t, suite)
	assert.Equal(t, domain.Suite{Path: "FooTest.php", ClassName: "Foo", Batches: []domain.Batch{{"testA"}}}, *suite)
}
