package sprites

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) (*Registry, string) {
	t.Helper()
	spritesDir := filepath.Join(t.TempDir(), "sprites")
	return NewRegistry(spritesDir, zerolog.Nop()), spritesDir
}

func TestList_MissingRegistryIsEmpty(t *testing.T) {
	registry, _ := newTestRegistry(t)
	assert.Empty(t, registry.List())
}

func TestList_CorruptedRegistryIsEmpty(t *testing.T) {
	registry, spritesDir := newTestRegistry(t)
	require.NoError(t, os.MkdirAll(spritesDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(spritesDir, registryFileName), []byte("{oops"), 0o644))

	assert.Empty(t, registry.List())
}

func TestAdd_PersistsAcrossInstances(t *testing.T) {
	registry, spritesDir := newTestRegistry(t)
	require.NoError(t, registry.Add(PackInfo{Name: "Gabumon", Directory: "Gabumon_penc"}))

	reopened := NewRegistry(spritesDir, zerolog.Nop())
	packs := reopened.List()
	require.Len(t, packs, 1)
	assert.Equal(t, "Gabumon", packs[0].Name)
}

func TestLookup_CaseInsensitive(t *testing.T) {
	registry, _ := newTestRegistry(t)
	require.NoError(t, registry.Add(PackInfo{Name: "Gabumon", Directory: "Gabumon_penc"}))

	pack, found := registry.Lookup("gabumon")
	assert.True(t, found)
	assert.Equal(t, "Gabumon", pack.Name)

	_, found = registry.Lookup("Nobody")
	assert.False(t, found)
}

func TestSpriteDir_RequiresDirectoryOnDisk(t *testing.T) {
	registry, spritesDir := newTestRegistry(t)
	require.NoError(t, registry.Add(PackInfo{Name: "Gabumon", Directory: "Gabumon_penc"}))

	_, found := registry.SpriteDir("Gabumon")
	assert.False(t, found)

	require.NoError(t, os.MkdirAll(filepath.Join(spritesDir, "Gabumon_penc"), 0o755))
	dir, found := registry.SpriteDir("Gabumon")
	assert.True(t, found)
	assert.Equal(t, filepath.Join(spritesDir, "Gabumon_penc"), dir)
}

func TestRemove_UpdatesRegistryFile(t *testing.T) {
	registry, _ := newTestRegistry(t)
	require.NoError(t, registry.Add(PackInfo{Name: "Gabumon", Directory: "Gabumon_penc"}))
	require.NoError(t, registry.Add(PackInfo{Name: "Patamon", Directory: "Patamon_penc"}))

	removed, err := registry.Remove("gabumon")
	require.NoError(t, err)
	assert.Equal(t, "Gabumon", removed.Name)

	packs := registry.List()
	require.Len(t, packs, 1)
	assert.Equal(t, "Patamon", packs[0].Name)
}
