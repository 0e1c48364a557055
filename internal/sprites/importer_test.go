package sprites

import (
	"archive/zip"
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buffer bytes.Buffer
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	require.NoError(t, png.Encode(&buffer, img))
	return buffer.Bytes()
}

func buildArchive(t *testing.T, path string, names []string) {
	t.Helper()
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()

	writer := zip.NewWriter(file)
	content := pngBytes(t)
	for _, name := range names {
		entry, err := writer.Create(name)
		require.NoError(t, err)
		_, err = entry.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
}

func newTestImporter(t *testing.T) (*Importer, *Registry, string) {
	t.Helper()
	spritesDir := filepath.Join(t.TempDir(), "sprites")
	registry := NewRegistry(spritesDir, zerolog.Nop())
	return NewImporter(spritesDir, registry, zerolog.Nop()), registry, spritesDir
}

func TestRequiredSprites(t *testing.T) {
	names := RequiredSprites()
	require.Len(t, names, 12)
	assert.Equal(t, "0.png", names[0])
	assert.Equal(t, "11.png", names[11])
}

func TestValidateArchive_Valid(t *testing.T) {
	importer, _, _ := newTestImporter(t)
	archive := filepath.Join(t.TempDir(), "Gabumon_penc.zip")
	buildArchive(t, archive, RequiredSprites())

	assert.NoError(t, importer.ValidateArchive(archive))
}

func TestValidateArchive_NotAZip(t *testing.T) {
	importer, _, _ := newTestImporter(t)
	path := filepath.Join(t.TempDir(), "broken.zip")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))

	err := importer.ValidateArchive(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid zip file")
}

func TestValidateArchive_WrongCount(t *testing.T) {
	importer, _, _ := newTestImporter(t)
	archive := filepath.Join(t.TempDir(), "short.zip")
	buildArchive(t, archive, RequiredSprites()[:11])

	err := importer.ValidateArchive(archive)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 12 PNG files, found 11")
}

func TestValidateArchive_WrongNames(t *testing.T) {
	importer, _, _ := newTestImporter(t)
	names := append(RequiredSprites()[:11], "sprite.png")
	archive := filepath.Join(t.TempDir(), "renamed.zip")
	buildArchive(t, archive, names)

	err := importer.ValidateArchive(archive)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing sprites: [11.png]")
	assert.Contains(t, err.Error(), "extra files: [sprite.png]")
}

func TestValidateArchive_IgnoresNestedAndHiddenFiles(t *testing.T) {
	importer, _, _ := newTestImporter(t)
	names := append(RequiredSprites(), "nested/extra.png", ".hidden.png", "readme.txt")
	archive := filepath.Join(t.TempDir(), "messy.zip")
	buildArchive(t, archive, names)

	assert.NoError(t, importer.ValidateArchive(archive))
}

func TestPackName(t *testing.T) {
	assert.Equal(t, "Gabumon", PackName("/tmp/Gabumon_penc.zip"))
	assert.Equal(t, "Gabumon", PackName("Gabumon.zip"))
	assert.Equal(t, "My Pet", PackName("/packs/My Pet_penc.zip"))
}

func TestImport_InstallsAndRegisters(t *testing.T) {
	importer, registry, spritesDir := newTestImporter(t)
	archive := filepath.Join(t.TempDir(), "Gabumon_penc.zip")
	buildArchive(t, archive, RequiredSprites())

	name, err := importer.Import(archive)
	require.NoError(t, err)
	assert.Equal(t, "Gabumon", name)

	pack, found := registry.Lookup("Gabumon")
	require.True(t, found)
	assert.Equal(t, "Gabumon_penc", pack.Directory)
	assert.False(t, pack.Default)

	for _, sprite := range RequiredSprites() {
		_, err := os.Stat(filepath.Join(spritesDir, "Gabumon_penc", sprite))
		assert.NoError(t, err)
	}
}

func TestImport_DuplicateRejected(t *testing.T) {
	importer, _, _ := newTestImporter(t)
	archive := filepath.Join(t.TempDir(), "Gabumon_penc.zip")
	buildArchive(t, archive, RequiredSprites())

	_, err := importer.Import(archive)
	require.NoError(t, err)

	_, err = importer.Import(archive)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already imported")
}

func TestImport_InvalidArchiveRejected(t *testing.T) {
	importer, registry, _ := newTestImporter(t)
	archive := filepath.Join(t.TempDir(), "Gabumon_penc.zip")
	buildArchive(t, archive, RequiredSprites()[:6])

	_, err := importer.Import(archive)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid pack format")
	assert.Empty(t, registry.List())
}

func TestRemove_DeletesPackAndDirectory(t *testing.T) {
	importer, registry, spritesDir := newTestImporter(t)
	archive := filepath.Join(t.TempDir(), "Gabumon_penc.zip")
	buildArchive(t, archive, RequiredSprites())
	_, err := importer.Import(archive)
	require.NoError(t, err)

	require.NoError(t, importer.Remove("Gabumon"))

	_, found := registry.Lookup("Gabumon")
	assert.False(t, found)
	_, statErr := os.Stat(filepath.Join(spritesDir, "Gabumon_penc"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRemove_DefaultPackProtected(t *testing.T) {
	importer, registry, _ := newTestImporter(t)
	require.NoError(t, registry.Add(PackInfo{
		Name:      "Agumon",
		Directory: "Agumon_penc",
		Default:   true,
	}))

	err := importer.Remove("Agumon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot remove default pet")
}

func TestRemove_UnknownPack(t *testing.T) {
	importer, _, _ := newTestImporter(t)
	err := importer.Remove("Nobody")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pet not found")
}
