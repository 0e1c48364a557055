package pomodoro

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/NikiSuckau/pomodoro-vpet/internal/core/model"
)

// SessionRecorder receives work session boundaries from the engine.
type SessionRecorder interface {
	StartSession(petName string) bool
	StopSession(completed bool) bool
	Active() bool
}

// Config contains runtime options for the Engine.
type Config struct {
	TickInterval time.Duration
	Logger       zerolog.Logger
}

// State is a point-in-time copy of the engine state.
type State struct {
	Mode              model.Mode
	Remaining         time.Duration
	Running           bool
	Paused            bool
	SessionsCompleted int
	WorkDuration      time.Duration
	BreakDuration     time.Duration
	SessionStart      time.Time
}

// Engine is the Pomodoro countdown state machine. A single ticker
// goroutine decrements the remaining time while the running flag is set;
// start, pause, resume, reset and skip mutate state under one mutex.
type Engine struct {
	mu           sync.Mutex
	config       model.PomodoroConfig
	options      Config
	mode         model.Mode
	remaining    time.Duration
	running      bool
	paused       bool
	sessions     int
	sessionStart time.Time
	recorder     SessionRecorder
	events       []chan Event
	stopCh       chan struct{}
	loopStarted  bool
	stopped      bool
}

// New creates an Engine with the provided configuration.
func New(config model.PomodoroConfig, options Config) *Engine {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if config.WorkDuration <= 0 {
		config.WorkDuration = 25 * time.Minute
	}
	if config.BreakDuration <= 0 {
		config.BreakDuration = 5 * time.Minute
	}

	return &Engine{
		config:    config,
		options:   options,
		mode:      model.ModeWork,
		remaining: config.WorkDuration,
		stopCh:    make(chan struct{}),
	}
}

// SetRecorder injects the work session recorder.
func (engine *Engine) SetRecorder(recorder SessionRecorder) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.recorder = recorder
}

// Subscribe registers a new observer channel.
func (engine *Engine) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	engine.mu.Lock()
	engine.events = append(engine.events, ch)
	engine.mu.Unlock()
	return ch
}

// Start begins the countdown. It returns false when the countdown is
// already running. Starting in work mode opens a work session log entry.
func (engine *Engine) Start() bool {
	engine.mu.Lock()
	if engine.running || engine.stopped {
		engine.mu.Unlock()
		return false
	}
	engine.running = true
	engine.paused = false
	engine.sessionStart = time.Now()

	if engine.mode == model.ModeWork && engine.recorder != nil && !engine.recorder.Active() {
		engine.recorder.StartSession(engine.config.PetName)
	}

	if !engine.loopStarted {
		engine.loopStarted = true
		go engine.run()
	}

	engine.options.Logger.Info().
		Str("mode", string(engine.mode)).
		Dur("remaining", engine.remaining).
		Msg("timer started")
	engine.emitLocked(engine.eventLocked(EventStateChange))
	engine.mu.Unlock()
	return true
}

// Pause freezes the countdown. It returns false when nothing is running.
// An open work session is closed as interrupted.
func (engine *Engine) Pause() bool {
	engine.mu.Lock()
	if !engine.running {
		engine.mu.Unlock()
		return false
	}
	engine.running = false
	engine.paused = true

	if engine.mode == model.ModeWork && engine.recorder != nil && engine.recorder.Active() {
		engine.recorder.StopSession(false)
	}

	engine.options.Logger.Info().
		Dur("remaining", engine.remaining).
		Msg("timer paused")
	engine.emitLocked(engine.eventLocked(EventStateChange))
	engine.mu.Unlock()
	return true
}

// Resume restarts a paused countdown. It is Start restricted to the
// paused state and returns false otherwise.
func (engine *Engine) Resume() bool {
	engine.mu.Lock()
	paused := engine.paused
	engine.mu.Unlock()
	if !paused {
		return false
	}
	return engine.Start()
}

// Reset forces the engine back to idle work mode with the full work
// duration, regardless of current state. Any open work session is closed
// as interrupted. Resetting out of break mode emits a mode-change event
// so observers mirroring the mode stay in sync.
func (engine *Engine) Reset() {
	engine.mu.Lock()
	if engine.recorder != nil && engine.recorder.Active() {
		engine.recorder.StopSession(false)
	}
	previous := engine.mode
	engine.running = false
	engine.paused = false
	engine.mode = model.ModeWork
	engine.remaining = engine.config.WorkDuration
	engine.sessionStart = time.Time{}

	engine.options.Logger.Info().Msg("timer reset")
	engine.emitLocked(engine.eventLocked(EventStateChange))
	if previous != model.ModeWork {
		change := engine.eventLocked(EventModeChange)
		change.PreviousMode = previous
		engine.emitLocked(change)
	}
	engine.emitLocked(engine.eventLocked(EventTick))
	engine.mu.Unlock()
}

// SkipSession switches to the other mode immediately, restoring that
// mode's full duration. No session-complete event is emitted.
func (engine *Engine) SkipSession() {
	engine.mu.Lock()
	previous := engine.mode
	engine.switchModeLocked()

	engine.options.Logger.Info().
		Str("from", string(previous)).
		Str("to", string(engine.mode)).
		Msg("session skipped")
	event := engine.eventLocked(EventModeChange)
	event.PreviousMode = previous
	engine.emitLocked(event)
	engine.emitLocked(engine.eventLocked(EventTick))
	engine.mu.Unlock()
}

// SetDurations updates the work and break durations. When the countdown
// is not running, the remaining time of the current mode is refreshed.
func (engine *Engine) SetDurations(work, brk time.Duration) {
	engine.mu.Lock()
	if work > 0 {
		engine.config.WorkDuration = work
	}
	if brk > 0 {
		engine.config.BreakDuration = brk
	}
	if !engine.running {
		if engine.mode == model.ModeWork {
			engine.remaining = engine.config.WorkDuration
		} else {
			engine.remaining = engine.config.BreakDuration
		}
	}
	engine.emitLocked(engine.eventLocked(EventTick))
	engine.mu.Unlock()
}

// SetPetName updates the pet attributed to newly logged sessions.
func (engine *Engine) SetPetName(name string) {
	engine.mu.Lock()
	engine.config.PetName = name
	engine.mu.Unlock()
}

// Snapshot returns a copy of the current engine state.
func (engine *Engine) Snapshot() State {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return State{
		Mode:              engine.mode,
		Remaining:         engine.remaining,
		Running:           engine.running,
		Paused:            engine.paused,
		SessionsCompleted: engine.sessions,
		WorkDuration:      engine.config.WorkDuration,
		BreakDuration:     engine.config.BreakDuration,
		SessionStart:      engine.sessionStart,
	}
}

// Stop terminates the ticking loop and closes observer channels.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	if engine.stopped {
		engine.mu.Unlock()
		return
	}
	engine.stopped = true
	engine.running = false
	close(engine.stopCh)
	events := engine.events
	engine.events = nil
	engine.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (engine *Engine) run() {
	ticker := time.NewTicker(engine.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-engine.stopCh:
			return
		case tickTime := <-ticker.C:
			engine.tick(tickTime)
		}
	}
}

func (engine *Engine) tick(tickTime time.Time) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if !engine.running {
		return
	}

	engine.remaining -= engine.options.TickInterval
	if engine.remaining < 0 {
		engine.remaining = 0
	}
	event := engine.eventLocked(EventTick)
	event.At = tickTime
	engine.emitLocked(event)

	if engine.remaining == 0 {
		engine.completeLocked(tickTime)
	}
}

// completeLocked handles a countdown reaching zero: close the session
// log, bump the counter, switch modes and stop the running flag. The
// session-complete event is emitted before the mode-change event.
func (engine *Engine) completeLocked(now time.Time) {
	completed := engine.mode

	if completed == model.ModeWork {
		if engine.recorder != nil && engine.recorder.Active() {
			engine.recorder.StopSession(true)
		}
		engine.sessions++
	}

	event := engine.eventLocked(EventSessionComplete)
	event.PreviousMode = completed
	event.At = now
	engine.emitLocked(event)

	engine.switchModeLocked()
	engine.running = false
	engine.paused = false

	engine.options.Logger.Info().
		Str("completed", string(completed)).
		Int("sessions", engine.sessions).
		Msg("session completed")

	change := engine.eventLocked(EventModeChange)
	change.PreviousMode = completed
	change.At = now
	engine.emitLocked(change)
}

func (engine *Engine) switchModeLocked() {
	if engine.mode == model.ModeWork {
		engine.mode = model.ModeBreak
		engine.remaining = engine.config.BreakDuration
	} else {
		engine.mode = model.ModeWork
		engine.remaining = engine.config.WorkDuration
	}
}

func (engine *Engine) eventLocked(eventType EventType) Event {
	return Event{
		Type:              eventType,
		Mode:              engine.mode,
		PreviousMode:      engine.mode,
		Remaining:         engine.remaining,
		Running:           engine.running,
		Paused:            engine.paused,
		SessionsCompleted: engine.sessions,
		At:                time.Now(),
	}
}

func (engine *Engine) emitLocked(event Event) {
	for _, ch := range engine.events {
		select {
		case ch <- event:
		default:
		}
	}
}

// FormatTime renders a second count as MM:SS.
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	minutes := seconds / 60
	seconds = seconds % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// FormatRemaining renders a duration as MM:SS.
func FormatRemaining(remaining time.Duration) string {
	return FormatTime(int(remaining.Seconds()))
}
