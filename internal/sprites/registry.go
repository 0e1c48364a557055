package sprites

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

const (
	registryFileName = "pet_registry.json"
	formatVersion    = "1.0"
)

// PackInfo describes one registered sprite pack.
type PackInfo struct {
	Name         string `json:"name"`
	Directory    string `json:"directory"`
	ImportedDate string `json:"imported_date"`
	Default      bool   `json:"default"`
}

type registryFile struct {
	AvailablePets []PackInfo `json:"available_pets"`
	LastUpdated   time.Time  `json:"last_updated"`
	FormatVersion string     `json:"format_version"`
}

// Registry is the flat JSON index of imported sprite packs.
type Registry struct {
	mu         sync.Mutex
	spritesDir string
	path       string
	log        zerolog.Logger
}

// NewRegistry creates a registry rooted at the sprites directory.
func NewRegistry(spritesDir string, log zerolog.Logger) *Registry {
	return &Registry{
		spritesDir: spritesDir,
		path:       filepath.Join(spritesDir, registryFileName),
		log:        log,
	}
}

// List returns all registered packs. A missing or unreadable registry is
// treated as empty.
func (registry *Registry) List() []PackInfo {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	return registry.loadLocked().AvailablePets
}

// Lookup finds a pack by name, case-insensitively.
func (registry *Registry) Lookup(name string) (PackInfo, bool) {
	for _, pack := range registry.List() {
		if strings.EqualFold(pack.Name, name) {
			return pack, true
		}
	}
	return PackInfo{}, false
}

// SpriteDir returns the on-disk sprite directory of a registered pack.
func (registry *Registry) SpriteDir(name string) (string, bool) {
	pack, found := registry.Lookup(name)
	if !found {
		return "", false
	}
	dir := filepath.Join(registry.spritesDir, pack.Directory)
	if _, err := os.Stat(dir); err != nil {
		return "", false
	}
	return dir, true
}

// Add registers a new pack.
func (registry *Registry) Add(pack PackInfo) error {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	file := registry.loadLocked()
	file.AvailablePets = append(file.AvailablePets, pack)
	return registry.saveLocked(file)
}

// Remove deletes a pack entry. Default packs are protected.
func (registry *Registry) Remove(name string) (PackInfo, error) {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	file := registry.loadLocked()
	for index, pack := range file.AvailablePets {
		if !strings.EqualFold(pack.Name, name) {
			continue
		}
		if pack.Default {
			return PackInfo{}, fmt.Errorf("cannot remove default pet %s", pack.Name)
		}
		file.AvailablePets = append(file.AvailablePets[:index], file.AvailablePets[index+1:]...)
		if err := registry.saveLocked(file); err != nil {
			return PackInfo{}, err
		}
		return pack, nil
	}
	return PackInfo{}, fmt.Errorf("pet not found: %s", name)
}

func (registry *Registry) loadLocked() registryFile {
	empty := registryFile{FormatVersion: formatVersion}

	data, err := os.ReadFile(registry.path)
	if err != nil {
		return empty
	}
	var file registryFile
	if err := json.Unmarshal(data, &file); err != nil {
		registry.log.Error().Err(err).Str("path", registry.path).Msg("corrupted pet registry, starting empty")
		return empty
	}
	if file.FormatVersion == "" {
		file.FormatVersion = formatVersion
	}
	return file
}

func (registry *Registry) saveLocked(file registryFile) error {
	file.LastUpdated = time.Now()
	file.FormatVersion = formatVersion

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal pet registry: %w", err)
	}
	if err := os.MkdirAll(registry.spritesDir, 0o755); err != nil {
		return fmt.Errorf("create sprites directory: %w", err)
	}
	if err := os.WriteFile(registry.path, data, 0o644); err != nil {
		return fmt.Errorf("write pet registry: %w", err)
	}
	return nil
}
