package main

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"

	"github.com/NikiSuckau/pomodoro-vpet/internal/core/model"
	"github.com/NikiSuckau/pomodoro-vpet/internal/core/pomodoro"
	"github.com/NikiSuckau/pomodoro-vpet/internal/core/timelog"
	"github.com/NikiSuckau/pomodoro-vpet/internal/core/vpet"
	"github.com/NikiSuckau/pomodoro-vpet/internal/platform"
	"github.com/NikiSuckau/pomodoro-vpet/internal/sprites"
	"github.com/NikiSuckau/pomodoro-vpet/internal/storage"
	"github.com/NikiSuckau/pomodoro-vpet/internal/ui/petview"
	"github.com/NikiSuckau/pomodoro-vpet/internal/ui/preferences"
	"github.com/NikiSuckau/pomodoro-vpet/internal/ui/tray"
	"github.com/NikiSuckau/pomodoro-vpet/resources"
)

// application wires the timer and pet engines to the Fyne surfaces.
type application struct {
	fyneApp fyne.App
	env     environment

	timer    *pomodoro.Engine
	pet      *vpet.Engine
	recorder *timelog.Logger
	registry *sprites.Registry
	importer *sprites.Importer

	view  *petview.Window
	prefs *preferences.Window
	tray  *tray.Manager
}

func runGUI() error {
	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		return err
	}
	defer guard.Release()

	env, err := loadEnvironment()
	if err != nil {
		return err
	}

	fyneApp := app.NewWithID("io.github.nikisuckau.pomodoro-vpet")
	fyneApp.SetIcon(resources.MustLogo())

	gui := &application{
		fyneApp:  fyneApp,
		env:      env,
		registry: sprites.NewRegistry(env.spritesDir, env.logger),
		recorder: timelog.NewLogger(env.logPath, env.logger),
	}
	gui.importer = sprites.NewImporter(env.spritesDir, gui.registry, env.logger)

	gui.timer = pomodoro.New(env.settings.PomodoroConfig(), pomodoro.Config{
		Logger: env.logger,
	})
	gui.timer.SetRecorder(gui.recorder)

	gui.pet = vpet.New(env.settings.PetConfig(), vpet.Config{
		Logger: env.logger,
	})
	if err := vpet.RegisterDefaultEvents(gui.pet); err != nil {
		return fmt.Errorf("register pet events: %w", err)
	}

	gui.buildWindows()
	gui.buildTray()
	go gui.dispatch(gui.timer.Subscribe(16))

	gui.view.SetSprites(gui.loadSprites(env.settings.PetName))
	gui.view.SetRemaining(env.settings.WorkDuration)

	gui.pet.Start()
	gui.view.Show()
	fyneApp.Run()

	gui.shutdown()
	return nil
}

func (gui *application) buildWindows() {
	gui.view = petview.New(gui.fyneApp, petview.Config{
		CanvasWidth:    gui.env.settings.CanvasWidth,
		CanvasHeight:   gui.env.settings.CanvasHeight,
		SpriteSize:     gui.pet.SpriteWidth(),
		ProjectileSize: gui.pet.ProjectileWidth(),
		AlwaysOnTop:    gui.env.settings.AlwaysOnTop,
	}, petview.Callbacks{
		OnStartPause:  gui.handleStartPause,
		OnReset:       gui.timer.Reset,
		OnSkip:        gui.timer.SkipSession,
		OnPreferences: gui.showPreferences,
	})
	gui.view.SetCloseIntercept(gui.fyneApp.Quit)
	gui.pet.SetOnFrame(gui.view.Apply)

	gui.prefs = preferences.New(gui.fyneApp, gui.env.settings, gui.petNames(),
		gui.handleSettingsSaved, gui.handleImport)
}

func (gui *application) buildTray() {
	desktopApp, ok := gui.fyneApp.(desktop.App)
	if !ok {
		gui.env.logger.Warn().Msg("system tray not supported on this platform")
		return
	}
	gui.tray = tray.New(desktopApp, tray.Callbacks{
		OnPreferences: gui.showPreferences,
		OnStartPause:  gui.handleStartPause,
		OnReset:       gui.timer.Reset,
		OnSkip:        gui.timer.SkipSession,
		OnQuit:        gui.fyneApp.Quit,
	})
}

// dispatch fans timer events out to the pet engine, the window and the
// tray until the subscription channel closes.
func (gui *application) dispatch(events <-chan pomodoro.Event) {
	for event := range events {
		switch event.Type {
		case pomodoro.EventTick:
			gui.view.SetRemaining(event.Remaining)

		case pomodoro.EventStateChange:
			gui.pet.SetTimerRunning(event.Running)
			gui.view.SetRunning(event.Running, event.Paused)
			gui.updateTray(event)

		case pomodoro.EventModeChange:
			gui.pet.SetMode(event.Mode)
			gui.pet.SetTimerRunning(event.Running)
			gui.view.SetMode(event.Mode)
			gui.view.SetRemaining(event.Remaining)
			gui.view.SetRunning(event.Running, event.Paused)
			gui.updateTray(event)

		case pomodoro.EventSessionComplete:
			gui.view.SetSessions(event.SessionsCompleted)
			gui.notifyComplete(event)
		}
	}
}

func (gui *application) updateTray(event pomodoro.Event) {
	if gui.tray == nil {
		return
	}
	fyne.Do(func() {
		status := string(event.Mode)
		switch {
		case event.Running:
			status += " (running)"
		case event.Paused:
			status += " (paused)"
		default:
			status += " (idle)"
		}
		gui.tray.SetStatus(status)
		gui.tray.SetRunning(event.Running, event.Paused)
	})
}

func (gui *application) notifyComplete(event pomodoro.Event) {
	title := "Break over"
	body := "Back to work. Your pet is counting on you."
	if event.PreviousMode == model.ModeWork {
		title = "Work session complete"
		body = "Time for a break. Your pet earned it too."
	}
	gui.fyneApp.SendNotification(fyne.NewNotification(title, body))
}

func (gui *application) handleStartPause() {
	state := gui.timer.Snapshot()
	switch {
	case state.Running:
		gui.timer.Pause()
	case state.Paused:
		gui.timer.Resume()
	default:
		gui.timer.Start()
	}
}

func (gui *application) showPreferences() {
	gui.prefs.Show()
}

// handleSettingsSaved persists the new settings and applies what can
// change at runtime. Canvas size changes take effect on restart.
func (gui *application) handleSettingsSaved(settings preferences.Settings) {
	if err := storage.SaveSettings(appName, settings); err != nil {
		gui.env.logger.Error().Err(err).Msg("save settings")
	}

	petChanged := settings.PetName != gui.env.settings.PetName
	gui.env.settings = settings

	gui.timer.SetDurations(settings.WorkDuration, settings.BreakDuration)
	gui.timer.SetPetName(settings.PetName)
	gui.pet.SetScale(settings.Scale)

	if petChanged {
		gui.view.SetSprites(gui.loadSprites(settings.PetName))
	}
}

func (gui *application) handleImport(path string) error {
	name, err := gui.importer.Import(path)
	if err != nil {
		return err
	}
	gui.prefs.SetPets(gui.petNames())
	gui.env.logger.Info().Str("pet", name).Msg("pack available in preferences")
	return nil
}

// loadSprites resolves a pet name to its sprite set, preferring imported
// packs and falling back to the embedded default.
func (gui *application) loadSprites(petName string) *sprites.Set {
	frames := gui.pet.RequiredFrames()
	if dir, found := gui.registry.SpriteDir(petName); found {
		return sprites.LoadSet(petName, dir, frames, gui.env.logger)
	}
	fsys, dir := resources.DefaultPackFS()
	return sprites.LoadSetFS(resources.DefaultPetName, fsys, dir, frames, gui.env.logger)
}

func (gui *application) petNames() []string {
	names := []string{resources.DefaultPetName}
	for _, pack := range gui.registry.List() {
		if pack.Name == resources.DefaultPetName {
			continue
		}
		names = append(names, pack.Name)
	}
	return names
}

func (gui *application) shutdown() {
	gui.timer.Stop()
	gui.pet.Stop()
	gui.recorder.CleanupOnExit()
	gui.env.logger.Info().Msg("shutdown complete")
}
