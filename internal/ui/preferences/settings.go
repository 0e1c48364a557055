package preferences

import (
	"time"

	"github.com/NikiSuckau/pomodoro-vpet/internal/core/model"
)

// Settings defines editable user preferences.
type Settings struct {
	WorkDuration  time.Duration
	BreakDuration time.Duration
	PetName       string

	Scale        int
	CanvasWidth  int
	CanvasHeight int
	AlwaysOnTop  bool

	LogLevel string
}

// DefaultSettings returns the out-of-the-box configuration.
func DefaultSettings() Settings {
	pet := model.DefaultPetConfig()
	return Settings{
		WorkDuration:  25 * time.Minute,
		BreakDuration: 5 * time.Minute,
		PetName:       "Agumon",
		Scale:         1,
		CanvasWidth:   pet.CanvasWidth,
		CanvasHeight:  pet.CanvasHeight,
		AlwaysOnTop:   true,
		LogLevel:      "info",
	}
}

// PomodoroConfig converts settings to the timer engine configuration.
func (settings Settings) PomodoroConfig() model.PomodoroConfig {
	return model.PomodoroConfig{
		WorkDuration:  settings.WorkDuration,
		BreakDuration: settings.BreakDuration,
		PetName:       settings.PetName,
	}
}

// PetConfig converts settings to the pet engine configuration.
func (settings Settings) PetConfig() model.PetConfig {
	config := model.DefaultPetConfig()
	config.CanvasWidth = settings.CanvasWidth
	config.CanvasHeight = settings.CanvasHeight
	config.Scale = settings.Scale
	return config
}
