package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/NikiSuckau/pomodoro-vpet/internal/ui/preferences"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	WorkMinutes  int    `yaml:"work_minutes" mapstructure:"work_minutes"`
	BreakMinutes int    `yaml:"break_minutes" mapstructure:"break_minutes"`
	PetName      string `yaml:"pet_name" mapstructure:"pet_name"`
	Scale        int    `yaml:"scale" mapstructure:"scale"`
	CanvasWidth  int    `yaml:"canvas_width" mapstructure:"canvas_width"`
	CanvasHeight int    `yaml:"canvas_height" mapstructure:"canvas_height"`
	AlwaysOnTop  bool   `yaml:"always_on_top" mapstructure:"always_on_top"`
	LogLevel     string `yaml:"log_level" mapstructure:"log_level"`
}

// LoadSettings reads user preferences from the YAML settings file, with
// POMOVPET_* environment variables taking precedence. A missing file
// yields defaults; invalid values fall back per field.
func LoadSettings(appName string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()
	configPath, err := resolveConfigPath(appName)
	if err != nil {
		return settings, err
	}

	loader := viper.New()
	loader.SetConfigFile(configPath)
	loader.SetConfigType("yaml")
	loader.SetEnvPrefix("POMOVPET")
	loader.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	loader.AutomaticEnv()

	defaults := defaultsAsYaml(settings)
	loader.SetDefault("work_minutes", defaults.WorkMinutes)
	loader.SetDefault("break_minutes", defaults.BreakMinutes)
	loader.SetDefault("pet_name", defaults.PetName)
	loader.SetDefault("scale", defaults.Scale)
	loader.SetDefault("canvas_width", defaults.CanvasWidth)
	loader.SetDefault("canvas_height", defaults.CanvasHeight)
	loader.SetDefault("always_on_top", defaults.AlwaysOnTop)
	loader.SetDefault("log_level", defaults.LogLevel)

	if err := loader.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return settings, fmt.Errorf("read settings file: %w", err)
			}
		}
	}

	var fileData yamlSettings
	if err := loader.Unmarshal(&fileData); err != nil {
		return settings, fmt.Errorf("parse settings: %w", err)
	}

	applySettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to the YAML settings file.
func SaveSettings(appName string, settings preferences.Settings) error {
	configPath, err := resolveConfigPath(appName)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	serialized, err := yaml.Marshal(defaultsAsYaml(settings))
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}

func resolveConfigPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

func defaultsAsYaml(settings preferences.Settings) yamlSettings {
	return yamlSettings{
		WorkMinutes:  int(settings.WorkDuration / time.Minute),
		BreakMinutes: int(settings.BreakDuration / time.Minute),
		PetName:      settings.PetName,
		Scale:        settings.Scale,
		CanvasWidth:  settings.CanvasWidth,
		CanvasHeight: settings.CanvasHeight,
		AlwaysOnTop:  settings.AlwaysOnTop,
		LogLevel:     settings.LogLevel,
	}
}

func applySettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.WorkMinutes > 0 {
		settings.WorkDuration = time.Duration(fileData.WorkMinutes) * time.Minute
	}
	if fileData.BreakMinutes > 0 {
		settings.BreakDuration = time.Duration(fileData.BreakMinutes) * time.Minute
	}
	if fileData.PetName != "" {
		settings.PetName = fileData.PetName
	}
	if fileData.Scale >= 1 && fileData.Scale <= 4 {
		settings.Scale = fileData.Scale
	}
	if fileData.CanvasWidth >= 120 {
		settings.CanvasWidth = fileData.CanvasWidth
	}
	if fileData.CanvasHeight >= 48 {
		settings.CanvasHeight = fileData.CanvasHeight
	}
	if fileData.LogLevel != "" {
		settings.LogLevel = fileData.LogLevel
	}
	settings.AlwaysOnTop = fileData.AlwaysOnTop
}
