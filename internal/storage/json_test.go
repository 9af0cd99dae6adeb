package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paratest/internal/config"
	"paratest/internal/domain"
)

func newConfig(t *testing.T) *config.Config {
	cfg := config.New()
	cfg.ProjectPath = t.TempDir()
	cfg.Functional = true
	cfg.MaxBatchSize = 3
	return cfg
}

func TestJSONStorage_SaveAndLoad(t *testing.T) {
	cfg := newConfig(t)
	st := NewJSONStorage(cfg)

	suites := []domain.Suite{{
		Path:      "tests/UserTest.php",
		ClassName: `App\Tests\UserTest`,
		Batches:   []domain.Batch{{"testA", "testB"}, {`testC with data set "x"`}},
	}}

	saved, err := st.Save(suites)
	require.NoError(t, err)
	_, err = uuid.Parse(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, saved.MaxBatch)
	assert.FileExists(t, filepath.Join(cfg.ProjectPath, config.DefaultPlanFile))

	loaded, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, saved.ID, loaded.ID)
	assert.Equal(t, suites, loaded.Suites)
}

func TestJSONStorage_LoadRejectsBrokenPlans(t *testing.T) {
	cfg := newConfig(t)
	st := NewJSONStorage(cfg)
	path := cfg.GetPlanPath()

	_, err := st.Load()
	require.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))
	_, err = st.Load()
	require.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{"id":"nope","suites":[]}`), 0644))
	_, err = st.Load()
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)

	plan := `{"id":"` + uuid.NewString() + `","suites":[{"path":"a.php","class":"A","batches":[[]]}]}`
	require.NoError(t, os.WriteFile(path, []byte(plan), 0644))
	_, err = st.Load()
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}
