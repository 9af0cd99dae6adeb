package suite

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paratest/internal/discovery"
	"paratest/internal/domain"
)

// fakeProvider serves keys from memory and counts calls.
type fakeProvider struct {
	keys  map[string][]domain.DataSetKey
	err   error
	calls int
}

func (f *fakeProvider) Keys(_ context.Context, class *domain.ClassDescriptor, _ domain.MethodDescriptor, provider string) ([]domain.DataSetKey, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.keys[class.Name+"::"+provider], nil
}

func newFilter(t *testing.T, criteria domain.FilterCriteria) *discovery.Filter {
	t.Helper()
	f, err := discovery.NewFilter(criteria)
	require.NoError(t, err)
	return f
}

func providerClass() *domain.ClassDescriptor {
	return &domain.ClassDescriptor{
		Name: "Foo",
		Path: "FooTest.php",
		Meta: domain.Metadata{Groups: []string{"api"}},
		Methods: []domain.MethodDescriptor{
			{Name: "m", Meta: domain.Metadata{DataProvider: "provide"}},
			{Name: "testPlain"},
			{Name: "testEmpty", Meta: domain.Metadata{DataProvider: "nothing"}},
		},
	}
}

func TestExpander_DataSetNames(t *testing.T) {
	provider := &fakeProvider{keys: map[string][]domain.DataSetKey{
		"Foo::provide": {domain.IntKey(0), domain.IntKey(1), domain.StringKey("named")},
	}}
	class := providerClass()
	expander := NewExpander(newFilter(t, domain.FilterCriteria{}), provider, true)

	got, err := expander.Units(context.Background(), class, class.Methods[0])
	require.NoError(t, err)
	assert.Equal(t, units(`m with data set #0`, `m with data set #1`, `m with data set "named"`), got)
}

func TestExpander_DisabledOrNoProvider(t *testing.T) {
	provider := &fakeProvider{}
	class := providerClass()

	expander := NewExpander(newFilter(t, domain.FilterCriteria{}), provider, false)
	got, err := expander.Units(context.Background(), class, class.Methods[0])
	require.NoError(t, err)
	assert.Equal(t, units("m"), got)
	assert.Zero(t, provider.calls)

	expander = NewExpander(newFilter(t, domain.FilterCriteria{}), provider, true)
	got, err = expander.Units(context.Background(), class, class.Methods[1])
	require.NoError(t, err)
	assert.Equal(t, units("testPlain"), got)
	assert.Zero(t, provider.calls)
}

func TestExpander_EmptyProviderYieldsNoUnits(t *testing.T) {
	class := providerClass()
	expander := NewExpander(newFilter(t, domain.FilterCriteria{}), &fakeProvider{}, true)

	got, err := expander.Units(context.Background(), class, class.Methods[2])
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExpander_FiltersEachVariant(t *testing.T) {
	provider := &fakeProvider{keys: map[string][]domain.DataSetKey{
		"Foo::provide": {domain.IntKey(0), domain.IntKey(1), domain.StringKey("named")},
	}}
	class := providerClass()

	expander := NewExpander(newFilter(t, domain.FilterCriteria{Pattern: `#1$|"named"`}), provider, true)
	got, err := expander.Units(context.Background(), class, class.Methods[0])
	require.NoError(t, err)
	assert.Equal(t, units(`m with data set #1`, `m with data set "named"`), got)

	// Variants inherit the class group.
	expander = NewExpander(newFilter(t, domain.FilterCriteria{ExcludeGroups: []string{"api"}}), provider, true)
	got, err = expander.Units(context.Background(), class, class.Methods[0])
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExpander_ProviderErrorIsFatal(t *testing.T) {
	class := providerClass()
	expander := NewExpander(newFilter(t, domain.FilterCriteria{}), &fakeProvider{err: errors.New("php exploded")}, true)

	_, err := expander.Units(context.Background(), class, class.Methods[0])
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Foo::provide")
	assert.Contains(t, err.Error(), "php exploded")
}

func TestExpander_NameGateSeesRawStringKeys(t *testing.T) {
	provider := &fakeProvider{keys: map[string][]domain.DataSetKey{
		"Foo::provide": {domain.StringKey(`App\Models\User`), domain.StringKey(`App\Models\Team`)},
	}}
	class := providerClass()

	expander := NewExpander(newFilter(t, domain.FilterCriteria{Pattern: `/"App\\Models\\User"$/`}), provider, true)
	got, err := expander.Units(context.Background(), class, class.Methods[0])
	require.NoError(t, err)
	assert.Equal(t, units(`m with data set "App\Models\User"`), got)
}
