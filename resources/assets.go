package resources

import (
	"embed"
	"fmt"
	"io/fs"
	"sync"

	"fyne.io/fyne/v2"
)

// DefaultPetName is the pet bundled with the application.
const DefaultPetName = "Agumon"

//go:embed sprites/Agumon_penc/*.png
var spriteFS embed.FS

//go:embed logo/*.png
var logoFS embed.FS

var logoCache sync.Map

// DefaultPackFS returns the embedded default sprite pack and its
// directory inside the filesystem.
func DefaultPackFS() (fs.FS, string) {
	return spriteFS, "sprites/" + DefaultPetName + "_penc"
}

// Logo returns the application icon.
func Logo() (fyne.Resource, error) {
	return loadResource(logoFS, "logo/pomodoro_vpet.png", &logoCache)
}

// MustLogo returns the application icon or panics on error.
func MustLogo() fyne.Resource {
	resource, err := Logo()
	if err != nil {
		panic(err)
	}
	return resource
}

func loadResource(fsys embed.FS, path string, cache *sync.Map) (fyne.Resource, error) {
	if cached, ok := cache.Load(path); ok {
		return cached.(fyne.Resource), nil
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load resource %s: %w", path, err)
	}

	resource := fyne.NewStaticResource(path, data)
	cache.Store(path, resource)
	return resource, nil
}
