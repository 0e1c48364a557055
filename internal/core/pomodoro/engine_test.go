package pomodoro

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikiSuckau/pomodoro-vpet/internal/core/model"
)

type fakeRecorder struct {
	active    bool
	starts    int
	stops     int
	lastPet   string
	completed []bool
}

func (recorder *fakeRecorder) StartSession(petName string) bool {
	recorder.active = true
	recorder.starts++
	recorder.lastPet = petName
	return true
}

func (recorder *fakeRecorder) StopSession(completed bool) bool {
	recorder.active = false
	recorder.stops++
	recorder.completed = append(recorder.completed, completed)
	return true
}

func (recorder *fakeRecorder) Active() bool {
	return recorder.active
}

func testEngine(tick time.Duration) *Engine {
	return New(model.PomodoroConfig{
		WorkDuration:  25 * time.Minute,
		BreakDuration: 5 * time.Minute,
		PetName:       "Agumon",
	}, Config{
		TickInterval: tick,
		Logger:       zerolog.Nop(),
	})
}

// waitEvent drains the channel until an event of the wanted type arrives.
func waitEvent(t *testing.T, events <-chan Event, wanted EventType) Event {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case event, ok := <-events:
			require.True(t, ok, "event channel closed while waiting for %s", wanted)
			if event.Type == wanted {
				return event
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s event", wanted)
		}
	}
}

func TestNew_InitialState(t *testing.T) {
	engine := testEngine(time.Second)
	defer engine.Stop()

	state := engine.Snapshot()
	assert.Equal(t, model.ModeWork, state.Mode)
	assert.Equal(t, 25*time.Minute, state.Remaining)
	assert.False(t, state.Running)
	assert.False(t, state.Paused)
	assert.Equal(t, 0, state.SessionsCompleted)
}

func TestNew_ZeroDurationsFallBack(t *testing.T) {
	engine := New(model.PomodoroConfig{}, Config{Logger: zerolog.Nop()})
	defer engine.Stop()

	state := engine.Snapshot()
	assert.Equal(t, 25*time.Minute, state.WorkDuration)
	assert.Equal(t, 5*time.Minute, state.BreakDuration)
}

func TestStart_SecondStartRejected(t *testing.T) {
	engine := testEngine(time.Second)
	defer engine.Stop()

	assert.True(t, engine.Start())
	assert.False(t, engine.Start())
	assert.True(t, engine.Snapshot().Running)
}

func TestStart_OpensWorkSession(t *testing.T) {
	engine := testEngine(time.Second)
	defer engine.Stop()
	recorder := &fakeRecorder{}
	engine.SetRecorder(recorder)

	engine.Start()
	assert.Equal(t, 1, recorder.starts)
	assert.Equal(t, "Agumon", recorder.lastPet)
	assert.True(t, recorder.active)
}

func TestPause_NotRunningRejected(t *testing.T) {
	engine := testEngine(time.Second)
	defer engine.Stop()
	assert.False(t, engine.Pause())
}

func TestPause_InterruptsWorkSession(t *testing.T) {
	engine := testEngine(time.Second)
	defer engine.Stop()
	recorder := &fakeRecorder{}
	engine.SetRecorder(recorder)

	engine.Start()
	assert.True(t, engine.Pause())

	state := engine.Snapshot()
	assert.False(t, state.Running)
	assert.True(t, state.Paused)
	require.Len(t, recorder.completed, 1)
	assert.False(t, recorder.completed[0])
}

func TestResume_OnlyFromPaused(t *testing.T) {
	engine := testEngine(time.Second)
	defer engine.Stop()

	assert.False(t, engine.Resume())
	engine.Start()
	assert.False(t, engine.Resume())
	engine.Pause()
	assert.True(t, engine.Resume())
	assert.True(t, engine.Snapshot().Running)
}

func TestResume_ReopensWorkSession(t *testing.T) {
	engine := testEngine(time.Second)
	defer engine.Stop()
	recorder := &fakeRecorder{}
	engine.SetRecorder(recorder)

	engine.Start()
	engine.Pause()
	engine.Resume()
	assert.Equal(t, 2, recorder.starts)
}

func TestReset_ReturnsToIdleWork(t *testing.T) {
	engine := testEngine(time.Second)
	defer engine.Stop()
	recorder := &fakeRecorder{}
	engine.SetRecorder(recorder)

	engine.Start()
	engine.SkipSession()
	engine.Reset()

	state := engine.Snapshot()
	assert.Equal(t, model.ModeWork, state.Mode)
	assert.Equal(t, 25*time.Minute, state.Remaining)
	assert.False(t, state.Running)
	assert.False(t, state.Paused)
	require.NotEmpty(t, recorder.completed)
	assert.False(t, recorder.completed[len(recorder.completed)-1])
}

func TestReset_FromBreakEmitsModeChange(t *testing.T) {
	engine := testEngine(time.Second)
	defer engine.Stop()
	engine.SkipSession()
	require.Equal(t, model.ModeBreak, engine.Snapshot().Mode)
	events := engine.Subscribe(16)

	engine.Reset()

	change := waitEvent(t, events, EventModeChange)
	assert.Equal(t, model.ModeBreak, change.PreviousMode)
	assert.Equal(t, model.ModeWork, change.Mode)
	assert.Equal(t, 25*time.Minute, change.Remaining)
	assert.False(t, change.Running)
}

func TestReset_FromWorkEmitsNoModeChange(t *testing.T) {
	engine := testEngine(time.Second)
	defer engine.Stop()
	events := engine.Subscribe(16)

	engine.Reset()

	// Reset emits synchronously: drain up to the trailing tick and make
	// sure no mode change slipped in.
	deadline := time.After(2 * time.Second)
	for {
		var event Event
		select {
		case event = <-events:
		case <-deadline:
			t.Fatal("reset never emitted its tick event")
		}
		assert.NotEqual(t, EventModeChange, event.Type)
		if event.Type == EventTick {
			return
		}
	}
}

func TestSkipSession_SwitchesModeWithoutCompletion(t *testing.T) {
	engine := testEngine(time.Second)
	defer engine.Stop()
	events := engine.Subscribe(16)

	engine.SkipSession()

	change := waitEvent(t, events, EventModeChange)
	assert.Equal(t, model.ModeWork, change.PreviousMode)
	assert.Equal(t, model.ModeBreak, change.Mode)
	assert.Equal(t, 5*time.Minute, change.Remaining)
	assert.Equal(t, 0, change.SessionsCompleted)

	state := engine.Snapshot()
	assert.Equal(t, model.ModeBreak, state.Mode)
	assert.Equal(t, 5*time.Minute, state.Remaining)
}

func TestCompletion_SessionCompleteBeforeModeChange(t *testing.T) {
	engine := New(model.PomodoroConfig{
		WorkDuration:  10 * time.Millisecond,
		BreakDuration: time.Hour,
		PetName:       "Agumon",
	}, Config{
		TickInterval: 5 * time.Millisecond,
		Logger:       zerolog.Nop(),
	})
	defer engine.Stop()
	recorder := &fakeRecorder{}
	engine.SetRecorder(recorder)
	events := engine.Subscribe(32)

	engine.Start()

	var seen []EventType
	deadline := time.After(2 * time.Second)
	for {
		var event Event
		select {
		case event = <-events:
		case <-deadline:
			t.Fatal("work session never completed")
		}
		if event.Type == EventSessionComplete || event.Type == EventModeChange {
			seen = append(seen, event.Type)
		}
		if event.Type == EventModeChange {
			assert.Equal(t, model.ModeWork, event.PreviousMode)
			assert.Equal(t, model.ModeBreak, event.Mode)
			assert.False(t, event.Running)
			break
		}
	}
	require.Equal(t, []EventType{EventSessionComplete, EventModeChange}, seen)

	state := engine.Snapshot()
	assert.Equal(t, model.ModeBreak, state.Mode)
	assert.False(t, state.Running)
	assert.Equal(t, 1, state.SessionsCompleted)
	require.Len(t, recorder.completed, 1)
	assert.True(t, recorder.completed[0])
}

func TestCompletion_FinalZeroTickPrecedesCompletion(t *testing.T) {
	engine := New(model.PomodoroConfig{
		WorkDuration:  10 * time.Millisecond,
		BreakDuration: time.Hour,
	}, Config{
		TickInterval: 5 * time.Millisecond,
		Logger:       zerolog.Nop(),
	})
	defer engine.Stop()
	events := engine.Subscribe(32)

	engine.Start()

	sawZeroTick := false
	deadline := time.After(2 * time.Second)
	for {
		var event Event
		select {
		case event = <-events:
		case <-deadline:
			t.Fatal("work session never completed")
		}
		if event.Type == EventTick && event.Remaining == 0 {
			sawZeroTick = true
		}
		if event.Type == EventSessionComplete {
			assert.True(t, sawZeroTick, "zero-remaining tick must precede completion")
			return
		}
	}
}

func TestCompletion_BreakDoesNotCountSession(t *testing.T) {
	engine := New(model.PomodoroConfig{
		WorkDuration:  time.Hour,
		BreakDuration: 10 * time.Millisecond,
	}, Config{
		TickInterval: 5 * time.Millisecond,
		Logger:       zerolog.Nop(),
	})
	defer engine.Stop()
	events := engine.Subscribe(32)

	engine.SkipSession()
	engine.Start()

	change := waitEvent(t, events, EventModeChange)
	// SkipSession emits the first mode change; wait for the completion one.
	if change.PreviousMode != model.ModeBreak {
		change = waitEvent(t, events, EventModeChange)
	}
	assert.Equal(t, model.ModeBreak, change.PreviousMode)
	assert.Equal(t, model.ModeWork, change.Mode)
	assert.Equal(t, 0, engine.Snapshot().SessionsCompleted)
}

func TestSetDurations_RefreshesIdleRemaining(t *testing.T) {
	engine := testEngine(time.Second)
	defer engine.Stop()

	engine.SetDurations(40*time.Minute, 10*time.Minute)
	state := engine.Snapshot()
	assert.Equal(t, 40*time.Minute, state.WorkDuration)
	assert.Equal(t, 10*time.Minute, state.BreakDuration)
	assert.Equal(t, 40*time.Minute, state.Remaining)
}

func TestSetPetName_AttributesNewSessions(t *testing.T) {
	engine := testEngine(time.Second)
	defer engine.Stop()
	recorder := &fakeRecorder{}
	engine.SetRecorder(recorder)

	engine.SetPetName("Gabumon")
	engine.Start()
	assert.Equal(t, "Gabumon", recorder.lastPet)
}

func TestStop_ClosesObserverChannels(t *testing.T) {
	engine := testEngine(time.Second)
	events := engine.Subscribe(1)

	engine.Stop()
	_, open := <-events
	assert.False(t, open)
	assert.False(t, engine.Start())
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "25:00", FormatTime(1500))
	assert.Equal(t, "01:05", FormatTime(65))
	assert.Equal(t, "00:00", FormatTime(0))
	assert.Equal(t, "00:00", FormatTime(-10))
}

func TestFormatRemaining(t *testing.T) {
	assert.Equal(t, "05:00", FormatRemaining(5*time.Minute))
	assert.Equal(t, "00:59", FormatRemaining(59*time.Second))
}
