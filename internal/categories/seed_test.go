package categories

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "categories.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSeed(t *testing.T) {
	path := writeSeed(t, `
categories:
  - label: Generale
    value: general
  - label: Scienza
    value: science
`)

	seed, err := LoadSeed(path)
	require.NoError(t, err)
	require.Len(t, seed, 2)
	assert.Equal(t, "Generale", seed[0].Label)
	assert.Equal(t, "science", seed[1].Value)
	assert.Nil(t, seed[0].OwnerID, "seed categories are global")
}

func TestLoadSeed_MissingFields(t *testing.T) {
	path := writeSeed(t, `
categories:
  - label: Generale
`)
	_, err := LoadSeed(path)
	assert.Error(t, err)
}

func TestLoadSeed_Empty(t *testing.T) {
	path := writeSeed(t, `categories: []`)
	_, err := LoadSeed(path)
	assert.Error(t, err)
}

func TestLoadSeed_MissingFile(t *testing.T) {
	_, err := LoadSeed(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestDefaultSeed(t *testing.T) {
	seed := DefaultSeed()
	require.NotEmpty(t, seed)
	for _, c := range seed {
		assert.NotEmpty(t, c.Label)
		assert.NotEmpty(t, c.Value)
	}
}
