package model

import "time"

// Mode is the current Pomodoro phase. The pet engine mirrors it to pick
// movement speed and which events may trigger.
type Mode string

const (
	ModeWork  Mode = "work"
	ModeBreak Mode = "break"
)

// PomodoroConfig contains runtime settings for the Pomodoro state machine.
type PomodoroConfig struct {
	WorkDuration  time.Duration
	BreakDuration time.Duration
	PetName       string
}

// DefaultPomodoroConfig returns the classic 25/5 cycle.
func DefaultPomodoroConfig() PomodoroConfig {
	return PomodoroConfig{
		WorkDuration:  25 * time.Minute,
		BreakDuration: 5 * time.Minute,
		PetName:       "Agumon",
	}
}

// PetConfig contains canvas geometry and behaviour tuning for the pet
// engine. Base values are unscaled pixels; the engine multiplies them by
// the configured scale.
type PetConfig struct {
	CanvasWidth  int
	CanvasHeight int

	BaseSpriteWidth     int
	BaseSpriteHeight    int
	BaseMargin          int
	BaseProjectileWidth int
	Scale               int

	WorkSpeed  float64
	BreakSpeed float64
	WorkDelay  time.Duration
	BreakDelay time.Duration

	MinimumWalkDistance        float64
	DirectionChangeProbability float64

	ProjectileStep float64
}

// DefaultPetConfig returns geometry matching the bundled sprite packs.
func DefaultPetConfig() PetConfig {
	return PetConfig{
		CanvasWidth:  230,
		CanvasHeight: 60,

		BaseSpriteWidth:     48,
		BaseSpriteHeight:    48,
		BaseMargin:          12,
		BaseProjectileWidth: 12,
		Scale:               1,

		WorkSpeed:  3,
		BreakSpeed: 1,
		WorkDelay:  300 * time.Millisecond,
		BreakDelay: 700 * time.Millisecond,

		MinimumWalkDistance:        25,
		DirectionChangeProbability: 0.07,

		ProjectileStep: 6,
	}
}
