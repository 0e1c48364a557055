package sprites

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// packDirSuffix marks directories holding penc-format sprite packs.
const packDirSuffix = "_penc"

// RequiredSprites lists the file names a sprite pack archive must
// contain: 0.png through 11.png, nothing else.
func RequiredSprites() []string {
	names := make([]string, 12)
	for index := range names {
		names[index] = fmt.Sprintf("%d.png", index)
	}
	return names
}

// Importer installs sprite packs from zip archives into the sprites
// directory and keeps the registry in sync.
type Importer struct {
	spritesDir string
	registry   *Registry
	log        zerolog.Logger
}

// NewImporter creates an importer over the given sprites directory.
func NewImporter(spritesDir string, registry *Registry, log zerolog.Logger) *Importer {
	return &Importer{
		spritesDir: spritesDir,
		registry:   registry,
		log:        log,
	}
}

// ValidateArchive checks that the archive holds exactly the 12 required
// top-level PNGs. The returned error carries a user-presentable message.
func (importer *Importer) ValidateArchive(archivePath string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("invalid zip file")
	}
	defer reader.Close()

	found := make(map[string]bool)
	count := 0
	for _, file := range reader.File {
		name := file.Name
		if !strings.HasSuffix(name, ".png") || strings.HasPrefix(name, ".") || strings.Contains(name, "/") {
			continue
		}
		found[name] = true
		count++
	}

	if count != 12 {
		return fmt.Errorf("expected 12 PNG files, found %d", count)
	}

	var missing, extra []string
	required := make(map[string]bool)
	for _, name := range RequiredSprites() {
		required[name] = true
		if !found[name] {
			missing = append(missing, name)
		}
	}
	for name := range found {
		if !required[name] {
			extra = append(extra, name)
		}
	}
	if len(missing) > 0 || len(extra) > 0 {
		sort.Strings(missing)
		sort.Strings(extra)
		var parts []string
		if len(missing) > 0 {
			parts = append(parts, fmt.Sprintf("missing sprites: %v", missing))
		}
		if len(extra) > 0 {
			parts = append(parts, fmt.Sprintf("extra files: %v", extra))
		}
		return fmt.Errorf("%s", strings.Join(parts, "; "))
	}
	return nil
}

// PackName derives the pet name from the archive file name, stripping
// the pack directory suffix when present.
func PackName(archivePath string) string {
	base := filepath.Base(archivePath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return strings.TrimSuffix(name, packDirSuffix)
}

// Import validates and installs a sprite pack, registering it under the
// name derived from the archive. A partially extracted pack is rolled
// back on failure.
func (importer *Importer) Import(archivePath string) (string, error) {
	if err := importer.ValidateArchive(archivePath); err != nil {
		return "", fmt.Errorf("invalid pack format: %w", err)
	}

	name := PackName(archivePath)
	if _, exists := importer.registry.Lookup(name); exists {
		return "", fmt.Errorf("%s is already imported", name)
	}

	destDir := filepath.Join(importer.spritesDir, name+packDirSuffix)
	if err := importer.extract(archivePath, destDir); err != nil {
		_ = os.RemoveAll(destDir)
		return "", fmt.Errorf("import %s: %w", name, err)
	}

	pack := PackInfo{
		Name:         name,
		Directory:    name + packDirSuffix,
		ImportedDate: time.Now().Format("2006-01-02"),
	}
	if err := importer.registry.Add(pack); err != nil {
		_ = os.RemoveAll(destDir)
		return "", fmt.Errorf("import %s: %w", name, err)
	}

	importer.log.Info().Str("pet", name).Msg("sprite pack imported")
	return name, nil
}

// Remove deletes a registered pack and its sprite directory. Default
// packs are protected.
func (importer *Importer) Remove(name string) error {
	pack, err := importer.registry.Remove(name)
	if err != nil {
		return err
	}
	dir := filepath.Join(importer.spritesDir, pack.Directory)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove sprite directory: %w", err)
	}
	importer.log.Info().Str("pet", pack.Name).Msg("sprite pack removed")
	return nil
}

func (importer *Importer) extract(archivePath, destDir string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer reader.Close()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("create pack directory: %w", err)
	}

	required := make(map[string]bool)
	for _, name := range RequiredSprites() {
		required[name] = true
	}

	for _, file := range reader.File {
		if !required[file.Name] {
			continue
		}
		if err := extractFile(file, filepath.Join(destDir, file.Name)); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(file *zip.File, destPath string) error {
	source, err := file.Open()
	if err != nil {
		return fmt.Errorf("open %s in archive: %w", file.Name, err)
	}
	defer source.Close()

	dest, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", destPath, err)
	}
	defer dest.Close()

	if _, err := io.Copy(dest, source); err != nil {
		return fmt.Errorf("extract %s: %w", file.Name, err)
	}
	return nil
}
