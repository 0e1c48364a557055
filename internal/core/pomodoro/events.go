package pomodoro

import (
	"time"

	"github.com/NikiSuckau/pomodoro-vpet/internal/core/model"
)

// EventType defines the type of engine event.
type EventType string

const (
	// EventTick is emitted once per second while the countdown runs, and
	// after operations that change the remaining time.
	EventTick EventType = "tick"
	// EventStateChange is emitted when the running/paused flags change.
	EventStateChange EventType = "state_change"
	// EventModeChange is emitted after the work/break mode switches.
	EventModeChange EventType = "mode_change"
	// EventSessionComplete is emitted when a countdown reaches zero.
	// It always precedes the matching EventModeChange.
	EventSessionComplete EventType = "session_complete"
)

// Event represents an engine update for observers.
type Event struct {
	Type              EventType
	Mode              model.Mode
	PreviousMode      model.Mode
	Remaining         time.Duration
	Running           bool
	Paused            bool
	SessionsCompleted int
	At                time.Time
}
