package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chickspot/chickspot/internal/model"
)

const storesYaml = `
- external_id: "cs-001"
  name: "Northgate"
  city: "Seattle"
  state: "WA"
  lat: 47.7
  lon: -122.3
- external_id: "cs-002"
  name: "Tukwila"
  active: false
- name: "no external id, skipped"
`

func TestLoadStoresFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "stores.yml")
	require.NoError(t, os.WriteFile(name, []byte(storesYaml), 0o644))

	r := NewStoreFileRepo(name)

	assert.Len(t, r.List(), 2)

	s := r.Get("cs-001")
	require.NotNil(t, s)
	assert.Equal(t, "Northgate", s.Name)
	assert.Equal(t, "Seattle", s.City)
	assert.True(t, s.Active)

	s2 := r.Get("cs-002")
	require.NotNil(t, s2)
	assert.False(t, s2.Active)

	assert.Nil(t, r.Get("cs-404"))
}

func TestLoadMissingFileCreated(t *testing.T) {
	name := filepath.Join(t.TempDir(), "stores.yml")

	r := NewStoreFileRepo(name)

	assert.Empty(t, r.List())

	_, err := os.Stat(name)
	assert.NoError(t, err)
}

func TestForEach(t *testing.T) {
	name := filepath.Join(t.TempDir(), "stores.yml")
	require.NoError(t, os.WriteFile(name, []byte(storesYaml), 0o644))

	r := NewStoreFileRepo(name)

	n := 0
	r.ForEach(func(_ *model.Store) bool {
		n++
		return true
	})

	assert.Equal(t, 2, n)
}
