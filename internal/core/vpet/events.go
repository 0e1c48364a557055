package vpet

import (
	"github.com/NikiSuckau/pomodoro-vpet/internal/core/model"
)

// PetEvent describes a timed animation episode that overrides the
// baseline walking behaviour. The declarative fields form an immutable
// template; the unexported counters track a single activation.
//
// All sprite frames face left. The engine flips sprites for rightward
// motion, so events never deal with orientation.
type PetEvent struct {
	// Name uniquely identifies the event in the engine registry.
	Name string
	// Frames is the sprite frame id sequence played in order.
	Frames []int
	// Modes lists the Pomodoro modes in which the event may trigger.
	Modes []model.Mode
	// Probability is the per-tick trigger chance while the pet is idle.
	Probability float64
	// FrameDelay is the number of animation ticks between frame switches.
	FrameDelay int
	// Cycles is how many times the frame sequence plays. MinCycles and
	// MaxCycles, when set, randomize the count per activation.
	Cycles    int
	MinCycles int
	MaxCycles int
	// Condition optionally adds a trigger constraint beyond mode
	// membership, e.g. the Pomodoro timer running.
	Condition func(*Engine) bool
	// OnFrame fires whenever the frame cursor advances, with the new
	// cursor index. Hooks run while the engine lock is held and must use
	// the hook-safe engine helpers only.
	OnFrame func(*Engine, int)
	// OnComplete runs after the last cycle and may return the name of an
	// event to chain into immediately.
	OnComplete func(*Engine) string

	active          bool
	frameIndex      int
	delayCounter    int
	cyclesRemaining int
}

// Start activates the event and resets the per-activation counters.
func (event *PetEvent) Start(engine *Engine) {
	event.active = true
	event.frameIndex = 0
	event.delayCounter = 0
	event.cyclesRemaining = event.Cycles
	if event.MaxCycles > event.MinCycles {
		event.cyclesRemaining = event.MinCycles + engine.rng.Intn(event.MaxCycles-event.MinCycles+1)
	}
	if event.cyclesRemaining <= 0 {
		event.cyclesRemaining = 1
	}
}

// Active reports whether the event is mid-activation.
func (event *PetEvent) Active() bool {
	return event.active
}

// ShouldTrigger reports whether the event wants to start this tick.
func (event *PetEvent) ShouldTrigger(engine *Engine) bool {
	if !event.allowsMode(engine.mode) {
		return false
	}
	if event.Condition != nil && !event.Condition(engine) {
		return false
	}
	return engine.rng.Float64() < event.Probability
}

// Update advances the event by one animation tick. It returns the sprite
// frame id to display and whether the event has finished.
func (event *PetEvent) Update(engine *Engine) (int, bool) {
	if len(event.Frames) == 0 {
		event.active = false
		return 0, true
	}

	frame := event.Frames[event.frameIndex]
	event.delayCounter++
	if event.delayCounter >= event.frameDelay() {
		event.delayCounter = 0
		event.frameIndex++
		if event.frameIndex >= len(event.Frames) {
			event.frameIndex = 0
			event.cyclesRemaining--
			if event.cyclesRemaining <= 0 {
				event.active = false
				return frame, true
			}
		}
		if event.OnFrame != nil {
			event.OnFrame(engine, event.frameIndex)
		}
	}
	return frame, false
}

// Complete runs the completion hook and returns the chained event name,
// if any.
func (event *PetEvent) Complete(engine *Engine) string {
	if event.OnComplete != nil {
		return event.OnComplete(engine)
	}
	return ""
}

// CurrentFrame returns the sprite frame id under the cursor.
func (event *PetEvent) CurrentFrame() int {
	if len(event.Frames) == 0 {
		return 0
	}
	return event.Frames[event.frameIndex]
}

func (event *PetEvent) allowsMode(mode model.Mode) bool {
	for _, allowed := range event.Modes {
		if allowed == mode {
			return true
		}
	}
	return false
}

func (event *PetEvent) frameDelay() int {
	if event.FrameDelay <= 0 {
		return 1
	}
	return event.FrameDelay
}

func (event *PetEvent) cancel() {
	event.active = false
	event.frameIndex = 0
	event.delayCounter = 0
	event.cyclesRemaining = 0
}

// CollectEventFrames returns the set of sprite frame ids the given
// events require, in addition to the walking frames.
func CollectEventFrames(events []*PetEvent) map[int]struct{} {
	frames := make(map[int]struct{})
	for _, event := range events {
		for _, frame := range event.Frames {
			frames[frame] = struct{}{}
		}
	}
	return frames
}
