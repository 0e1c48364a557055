package vpet

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/NikiSuckau/pomodoro-vpet/internal/core/model"
)

// Config contains runtime options for the pet engine.
type Config struct {
	Logger zerolog.Logger
	// Rand overrides the randomness source, mainly for tests.
	Rand *rand.Rand
}

// Frame is the render state published once per animation tick.
type Frame struct {
	X           float64
	Y           int
	FrameID     int
	SpriteKey   string
	Direction   int
	Mode        model.Mode
	Projectiles []Projectile
}

// Snapshot is a point-in-time copy of the engine state.
type Snapshot struct {
	X           float64
	Direction   int
	WalkFrame   int
	Mode        model.Mode
	ActiveEvent string
	QueuedCount int
	Projectiles int
}

// Engine animates the virtual pet. One goroutine drives baseline walking
// at a mode-dependent pace; registered events pre-empt walking when
// their trigger fires, and attack-style events spawn projectiles.
type Engine struct {
	mu      sync.Mutex
	config  model.PetConfig
	options Config

	mode         model.Mode
	timerRunning bool

	x              float64
	direction      int
	walkFrame      int
	eventFrame     int
	distanceWalked float64

	spriteWidth     int
	spriteHeight    int
	margin          int
	projectileWidth int

	events       []*PetEvent
	eventsByName map[string]*PetEvent
	activeEvent  *PetEvent
	eventQueue   []string

	projectiles []Projectile

	onFrame func(Frame)
	rng     *rand.Rand

	stopCh  chan struct{}
	running bool
}

// New creates a pet engine with the provided configuration. No events
// are registered; see RegisterDefaultEvents.
func New(config model.PetConfig, options Config) *Engine {
	if config.CanvasWidth <= 0 || config.CanvasHeight <= 0 {
		defaults := model.DefaultPetConfig()
		config.CanvasWidth = defaults.CanvasWidth
		config.CanvasHeight = defaults.CanvasHeight
	}
	if config.Scale < 1 {
		config.Scale = 1
	}
	rng := options.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	engine := &Engine{
		config:       config,
		options:      options,
		mode:         model.ModeWork,
		x:            float64(config.BaseMargin * config.Scale),
		direction:    1,
		eventsByName: make(map[string]*PetEvent),
		rng:          rng,
	}
	engine.applyScaleLocked(config.Scale)
	return engine
}

// SetOnFrame sets the render callback. It is invoked from the animation
// goroutine; GUI consumers marshal onto their own thread.
func (engine *Engine) SetOnFrame(handler func(Frame)) {
	engine.mu.Lock()
	engine.onFrame = handler
	engine.mu.Unlock()
}

// RegisterEvent adds an event to the registry. Registration order
// defines trigger priority: the first matching event wins each tick.
func (engine *Engine) RegisterEvent(event *PetEvent) error {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if event.Name == "" {
		return fmt.Errorf("register event: empty name")
	}
	if _, exists := engine.eventsByName[event.Name]; exists {
		return fmt.Errorf("register event: %q already registered", event.Name)
	}
	engine.events = append(engine.events, event)
	engine.eventsByName[event.Name] = event
	return nil
}

// QueueEvent activates the named event immediately when the pet is idle,
// otherwise it is appended to the queue and runs after the current event
// completes without chaining.
func (engine *Engine) QueueEvent(name string) error {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if _, known := engine.eventsByName[name]; !known {
		return fmt.Errorf("queue event: unknown event %q", name)
	}
	if engine.activeEvent == nil {
		engine.activateLocked(name)
		return nil
	}
	engine.eventQueue = append(engine.eventQueue, name)
	return nil
}

// Start launches the animation loop.
func (engine *Engine) Start() {
	engine.mu.Lock()
	if engine.running {
		engine.mu.Unlock()
		return
	}
	engine.running = true
	engine.stopCh = make(chan struct{})
	stopCh := engine.stopCh
	engine.mu.Unlock()

	engine.options.Logger.Info().Msg("pet animation started")
	go engine.run(stopCh)
}

// Stop terminates the animation loop.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	if !engine.running {
		engine.mu.Unlock()
		return
	}
	engine.running = false
	close(engine.stopCh)
	engine.mu.Unlock()

	engine.options.Logger.Info().Msg("pet animation stopped")
}

// SetMode switches the behaviour mode. Any active event is cancelled so
// the pet returns to baseline behaviour for the new mode.
func (engine *Engine) SetMode(mode model.Mode) {
	engine.mu.Lock()
	engine.mode = mode
	if engine.activeEvent != nil {
		engine.activeEvent.cancel()
		engine.activeEvent = nil
	}
	engine.mu.Unlock()

	engine.options.Logger.Debug().Str("mode", string(mode)).Msg("pet mode set")
}

// SetTimerRunning informs the engine whether the Pomodoro countdown is
// active. Events conditioned on the timer only trigger while it runs.
func (engine *Engine) SetTimerRunning(running bool) {
	engine.mu.Lock()
	engine.timerRunning = running
	engine.mu.Unlock()
}

// SetCanvasSize updates the movement bounds and re-clamps the position.
func (engine *Engine) SetCanvasSize(width, height int) {
	engine.mu.Lock()
	if width > 0 {
		engine.config.CanvasWidth = width
	}
	if height > 0 {
		engine.config.CanvasHeight = height
	}
	engine.clampLocked()
	engine.mu.Unlock()
}

// SetScale rescales sprite, projectile and margin dimensions from their
// base values.
func (engine *Engine) SetScale(scale int) {
	if scale < 1 {
		scale = 1
	}
	engine.mu.Lock()
	engine.applyScaleLocked(scale)
	engine.clampLocked()
	engine.mu.Unlock()
}

// Snapshot returns a copy of the current engine state.
func (engine *Engine) Snapshot() Snapshot {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	snapshot := Snapshot{
		X:           engine.x,
		Direction:   engine.direction,
		WalkFrame:   engine.walkFrame,
		Mode:        engine.mode,
		QueuedCount: len(engine.eventQueue),
		Projectiles: len(engine.projectiles),
	}
	if engine.activeEvent != nil {
		snapshot.ActiveEvent = engine.activeEvent.Name
	}
	return snapshot
}

// ActiveEvent returns the currently running event, or nil.
func (engine *Engine) ActiveEvent() *PetEvent {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.activeEvent
}

// SpriteWidth returns the scaled sprite width in pixels.
func (engine *Engine) SpriteWidth() int {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.spriteWidth
}

// ProjectileWidth returns the scaled projectile width in pixels.
func (engine *Engine) ProjectileWidth() int {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.projectileWidth
}

// RequiredFrames returns the walking frames plus every frame any
// registered event can display.
func (engine *Engine) RequiredFrames() []int {
	engine.mu.Lock()
	defer engine.mu.Unlock()

	needed := CollectEventFrames(engine.events)
	needed[0] = struct{}{}
	needed[1] = struct{}{}
	frames := make([]int, 0, len(needed))
	for frame := range needed {
		frames = append(frames, frame)
	}
	return frames
}

func (engine *Engine) run(stopCh chan struct{}) {
	for {
		delay := engine.step()
		timer := time.NewTimer(delay)
		select {
		case <-stopCh:
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// step performs a single animation tick and returns the delay until the
// next one.
func (engine *Engine) step() time.Duration {
	engine.mu.Lock()

	engine.advanceProjectilesLocked()

	if engine.activeEvent != nil {
		engine.advanceEventLocked()
	} else if triggered := engine.matchTriggerLocked(); triggered != nil {
		engine.startEventLocked(triggered)
	} else {
		engine.walkLocked()
	}

	frame := engine.frameLocked()
	handler := engine.onFrame
	delay := engine.config.BreakDelay
	if engine.mode == model.ModeWork {
		delay = engine.config.WorkDelay
	}
	engine.mu.Unlock()

	if handler != nil {
		handler(frame)
	}
	return delay
}

func (engine *Engine) advanceEventLocked() {
	frame, finished := engine.activeEvent.Update(engine)
	engine.eventFrame = frame
	if !finished {
		return
	}

	next := engine.activeEvent.Complete(engine)
	engine.activeEvent = nil
	if next != "" {
		engine.activateLocked(next)
		return
	}
	if len(engine.eventQueue) > 0 {
		name := engine.eventQueue[0]
		engine.eventQueue = engine.eventQueue[1:]
		engine.activateLocked(name)
	}
}

// matchTriggerLocked evaluates triggers in registration order and
// returns the first match.
func (engine *Engine) matchTriggerLocked() *PetEvent {
	for _, event := range engine.events {
		if event.ShouldTrigger(engine) {
			return event
		}
	}
	return nil
}

func (engine *Engine) startEventLocked(event *PetEvent) {
	event.Start(engine)
	engine.activeEvent = event
	engine.eventFrame = event.CurrentFrame()
	engine.options.Logger.Debug().Str("event", event.Name).Msg("pet event started")
}

func (engine *Engine) activateLocked(name string) {
	event, known := engine.eventsByName[name]
	if !known {
		engine.options.Logger.Warn().Str("event", name).Msg("unknown pet event")
		return
	}
	engine.startEventLocked(event)
}

func (engine *Engine) walkLocked() {
	speed := engine.config.BreakSpeed
	if engine.mode == model.ModeWork {
		speed = engine.config.WorkSpeed
	}
	speed *= float64(engine.config.Scale)

	engine.x += float64(engine.direction) * speed
	engine.distanceWalked += speed

	if engine.bounceLocked() {
		engine.distanceWalked = 0
	} else if engine.distanceWalked >= engine.MinimumWalkDistance() &&
		engine.rng.Float64() < engine.config.DirectionChangeProbability {
		engine.direction = -engine.direction
		engine.distanceWalked = 0
	}

	engine.walkFrame = 1 - engine.walkFrame
}

// bounceLocked reverses the direction at canvas boundaries, clamping the
// position onto the boundary.
func (engine *Engine) bounceLocked() bool {
	left := float64(engine.margin)
	right := float64(engine.config.CanvasWidth - engine.spriteWidth - engine.margin)

	if engine.x >= right {
		engine.x = right
		engine.direction = -1
		return true
	}
	if engine.x <= left {
		engine.x = left
		engine.direction = 1
		return true
	}
	return false
}

func (engine *Engine) clampLocked() {
	left := float64(engine.margin)
	right := float64(engine.config.CanvasWidth - engine.spriteWidth - engine.margin)
	if engine.x > right {
		engine.x = right
	}
	if engine.x < left {
		engine.x = left
	}
}

func (engine *Engine) applyScaleLocked(scale int) {
	engine.config.Scale = scale
	engine.spriteWidth = engine.config.BaseSpriteWidth * scale
	engine.spriteHeight = engine.config.BaseSpriteHeight * scale
	engine.margin = engine.config.BaseMargin * scale
	engine.projectileWidth = engine.config.BaseProjectileWidth * scale
}

func (engine *Engine) frameLocked() Frame {
	frameID := engine.walkFrame
	if engine.activeEvent != nil {
		frameID = engine.eventFrame
	}

	projectiles := make([]Projectile, len(engine.projectiles))
	copy(projectiles, engine.projectiles)

	return Frame{
		X:           engine.x,
		Y:           engine.config.CanvasHeight / 2,
		FrameID:     frameID,
		SpriteKey:   SpriteKey(frameID, engine.direction),
		Direction:   engine.direction,
		Mode:        engine.mode,
		Projectiles: projectiles,
	}
}

// MinimumWalkDistance returns the scaled walk distance before random
// turns are considered.
func (engine *Engine) MinimumWalkDistance() float64 {
	return engine.config.MinimumWalkDistance * float64(engine.config.Scale)
}

// SpriteKey maps a frame id and direction to a sprite library key.
// Sprites face left; rightward motion uses the flipped variant.
func SpriteKey(frameID, direction int) string {
	if direction == 1 {
		return fmt.Sprintf("frame_%d_flipped", frameID)
	}
	return fmt.Sprintf("frame_%d", frameID)
}
