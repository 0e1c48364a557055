package petview

import (
	"image/color"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/NikiSuckau/pomodoro-vpet/internal/core/model"
	"github.com/NikiSuckau/pomodoro-vpet/internal/core/pomodoro"
	"github.com/NikiSuckau/pomodoro-vpet/internal/core/vpet"
	"github.com/NikiSuckau/pomodoro-vpet/internal/sprites"
)

// Config defines pet window visuals and geometry.
type Config struct {
	CanvasWidth    int
	CanvasHeight   int
	SpriteSize     int
	ProjectileSize int
	AlwaysOnTop    bool
}

// Callbacks defines timer control handlers.
type Callbacks struct {
	OnStartPause  func()
	OnReset       func()
	OnSkip        func()
	OnPreferences func()
}

var (
	workTint  = color.NRGBA{R: 46, G: 52, B: 64, A: 255}
	breakTint = color.NRGBA{R: 38, G: 66, B: 50, A: 255}
	timerInk  = color.NRGBA{R: 232, G: 190, B: 66, A: 255}
	labelInk  = color.NRGBA{R: 220, G: 220, B: 220, A: 255}
)

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// Window is the compact pet + timer window.
type Window struct {
	window fyne.Window
	config Config

	background   *canvas.Rectangle
	petImage     *canvas.Image
	projectiles  []*canvas.Image
	stage        *fyne.Container
	timerLabel   *canvas.Text
	modeLabel    *canvas.Text
	sessionLabel *canvas.Text
	startButton  *widget.Button

	set       *sprites.Set
	callbacks Callbacks
}

// New creates the pet window. AlwaysOnTop uses an undecorated splash
// window when the driver supports it.
func New(app fyne.App, config Config, callbacks Callbacks) *Window {
	window := app.NewWindow("Pomodoro VPet")
	if config.AlwaysOnTop {
		if driver, ok := app.Driver().(splashWindowDriver); ok {
			window = driver.CreateSplashWindow()
		}
	}
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}
	window.SetPadded(false)
	window.SetFixedSize(true)

	view := &Window{
		window:    window,
		config:    config,
		callbacks: callbacks,
	}
	view.build()
	return view
}

func (view *Window) build() {
	view.background = canvas.NewRectangle(workTint)
	view.background.Resize(fyne.NewSize(float32(view.config.CanvasWidth), float32(view.config.CanvasHeight)))

	view.petImage = canvas.NewImageFromResource(nil)
	view.petImage.FillMode = canvas.ImageFillContain
	view.petImage.Resize(fyne.NewSize(float32(view.config.SpriteSize), float32(view.config.SpriteSize)))

	view.stage = container.NewWithoutLayout(view.background, view.petImage)

	view.timerLabel = canvas.NewText("25:00", timerInk)
	view.timerLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	view.timerLabel.TextSize = 22

	view.modeLabel = canvas.NewText("work", labelInk)
	view.modeLabel.TextSize = 12

	view.sessionLabel = canvas.NewText("sessions: 0", labelInk)
	view.sessionLabel.TextSize = 12

	view.startButton = widget.NewButton("Start", func() {
		if view.callbacks.OnStartPause != nil {
			view.callbacks.OnStartPause()
		}
	})
	resetButton := widget.NewButton("Reset", func() {
		if view.callbacks.OnReset != nil {
			view.callbacks.OnReset()
		}
	})
	skipButton := widget.NewButton("Skip", func() {
		if view.callbacks.OnSkip != nil {
			view.callbacks.OnSkip()
		}
	})
	prefsButton := widget.NewButton("Settings", func() {
		if view.callbacks.OnPreferences != nil {
			view.callbacks.OnPreferences()
		}
	})

	header := container.NewHBox(view.timerLabel, view.modeLabel, view.sessionLabel)
	buttons := container.NewHBox(view.startButton, resetButton, skipButton, prefsButton)

	stageWrap := container.NewGridWrap(
		fyne.NewSize(float32(view.config.CanvasWidth), float32(view.config.CanvasHeight)),
		view.stage,
	)
	view.window.SetContent(container.NewVBox(header, stageWrap, buttons))
}

// SetSprites swaps the active sprite set.
func (view *Window) SetSprites(set *sprites.Set) {
	fyne.Do(func() {
		view.set = set
	})
}

// Apply renders one animation frame. Safe to call from the pet engine
// goroutine.
func (view *Window) Apply(frame vpet.Frame) {
	fyne.Do(func() {
		view.applyUnsafe(frame)
	})
}

func (view *Window) applyUnsafe(frame vpet.Frame) {
	if view.set != nil {
		view.petImage.Resource = view.set.Resource(frame.SpriteKey)
		view.petImage.Refresh()
	}
	size := float32(view.config.SpriteSize)
	y := float32(view.config.CanvasHeight) - size
	if y < 0 {
		y = 0
	}
	view.petImage.Move(fyne.NewPos(float32(frame.X), y))

	view.syncProjectilesUnsafe(frame.Projectiles)
	view.setModeUnsafe(frame.Mode)
}

func (view *Window) syncProjectilesUnsafe(active []vpet.Projectile) {
	size := float32(view.config.ProjectileSize)
	if size <= 0 {
		size = 12
	}
	for len(view.projectiles) < len(active) {
		img := canvas.NewImageFromResource(nil)
		img.FillMode = canvas.ImageFillContain
		img.Resize(fyne.NewSize(size, size))
		view.projectiles = append(view.projectiles, img)
		view.stage.Add(img)
	}

	for index, img := range view.projectiles {
		if index >= len(active) {
			img.Hide()
			continue
		}
		projectile := active[index]
		if view.set != nil {
			img.Resource = view.set.Resource(projectile.SpriteKey)
		}
		img.Move(fyne.NewPos(float32(projectile.X), float32(projectile.Y)))
		img.Show()
		img.Refresh()
	}
}

// SetRemaining updates the countdown label.
func (view *Window) SetRemaining(remaining time.Duration) {
	fyne.Do(func() {
		view.timerLabel.Text = pomodoro.FormatRemaining(remaining)
		view.timerLabel.Refresh()
	})
}

// SetRunning toggles the start/pause button label.
func (view *Window) SetRunning(running, paused bool) {
	fyne.Do(func() {
		switch {
		case running:
			view.startButton.SetText("Pause")
		case paused:
			view.startButton.SetText("Resume")
		default:
			view.startButton.SetText("Start")
		}
	})
}

// SetSessions updates the completed session counter.
func (view *Window) SetSessions(count int) {
	fyne.Do(func() {
		view.sessionLabel.Text = "sessions: " + strconv.Itoa(count)
		view.sessionLabel.Refresh()
	})
}

// SetMode tints the stage for the given mode.
func (view *Window) SetMode(mode model.Mode) {
	fyne.Do(func() {
		view.setModeUnsafe(mode)
	})
}

func (view *Window) setModeUnsafe(mode model.Mode) {
	tint := workTint
	if mode == model.ModeBreak {
		tint = breakTint
	}
	if view.background.FillColor != tint {
		view.background.FillColor = tint
		view.background.Refresh()
	}
	if view.modeLabel.Text != string(mode) {
		view.modeLabel.Text = string(mode)
		view.modeLabel.Refresh()
	}
}

// Show displays the pet window.
func (view *Window) Show() {
	view.window.Show()
}

// SetCloseIntercept forwards to the underlying window.
func (view *Window) SetCloseIntercept(handler func()) {
	view.window.SetCloseIntercept(handler)
}
