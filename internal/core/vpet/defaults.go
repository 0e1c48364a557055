package vpet

import "github.com/NikiSuckau/pomodoro-vpet/internal/core/model"

// Built-in event names.
const (
	EventHappy  = "happy"
	EventAttack = "attack"
)

// attackReleaseIndex is the cursor position at which the attack pose
// releases its projectile.
const attackReleaseIndex = 1

// NewHappyEvent returns the celebration animation. It triggers randomly
// in any mode and after attack training.
func NewHappyEvent() *PetEvent {
	return &PetEvent{
		Name:        EventHappy,
		Frames:      []int{7, 3},
		Modes:       []model.Mode{model.ModeWork, model.ModeBreak},
		Probability: 0.03,
		FrameDelay:  2,
		MinCycles:   1,
		MaxCycles:   3,
	}
}

// NewAttackEvent returns the attack training animation. It only triggers
// during work mode while the Pomodoro timer runs, launches a projectile
// on each release pose, and chains into the happy event.
func NewAttackEvent() *PetEvent {
	return &PetEvent{
		Name:        EventAttack,
		Frames:      []int{6, 11},
		Modes:       []model.Mode{model.ModeWork},
		Probability: 0.08,
		FrameDelay:  3,
		MinCycles:   5,
		MaxCycles:   10,
		Condition: func(engine *Engine) bool {
			return engine.timerRunning
		},
		OnFrame: func(engine *Engine, index int) {
			if index == attackReleaseIndex {
				engine.SpawnProjectile()
			}
		},
		OnComplete: func(engine *Engine) string {
			return EventHappy
		},
	}
}

// RegisterDefaultEvents registers the built-in events. The attack event
// is registered first so it takes trigger priority during work mode.
func RegisterDefaultEvents(engine *Engine) error {
	if err := engine.RegisterEvent(NewAttackEvent()); err != nil {
		return err
	}
	return engine.RegisterEvent(NewHappyEvent())
}
