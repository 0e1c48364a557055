package preferences

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window   fyne.Window
	settings Settings
	onSave   func(Settings)
	onImport func(path string) error

	workDur    *widget.Entry
	breakDur   *widget.Entry
	petSelect  *widget.Select
	scale      *widget.Slider
	onTop      *widget.Check
	importPath *widget.Entry
	importNote *widget.Label
}

// New creates a preferences window. onImport installs a sprite pack from
// a zip archive and returns a user-presentable error on failure.
func New(app fyne.App, settings Settings, pets []string, onSave func(Settings), onImport func(path string) error) *Window {
	window := app.NewWindow("Pomodoro VPet Settings")

	workDur := widget.NewEntry()
	breakDur := widget.NewEntry()
	workDur.SetText(fmt.Sprintf("%d", int(settings.WorkDuration.Minutes())))
	breakDur.SetText(fmt.Sprintf("%d", int(settings.BreakDuration.Minutes())))

	petSelect := widget.NewSelect(pets, nil)
	petSelect.SetSelected(settings.PetName)

	scale := widget.NewSlider(1, 4)
	scale.Value = float64(settings.Scale)
	scale.Step = 1

	onTop := widget.NewCheck("Keep window on top", nil)
	onTop.SetChecked(settings.AlwaysOnTop)

	importPath := widget.NewEntry()
	importPath.SetPlaceHolder("/path/to/pet_pack.zip")
	importNote := widget.NewLabel("")
	importNote.Wrapping = fyne.TextWrapWord

	form := container.NewVBox(
		widget.NewLabelWithStyle("Timer", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Work duration"), workDur, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Break duration"), breakDur, widget.NewLabel("min")),
		widget.NewLabelWithStyle("Pet", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Companion"), petSelect),
		widget.NewLabel("Sprite scale"),
		scale,
		onTop,
		widget.NewLabelWithStyle("Import sprite pack", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		importPath,
	)

	saveButton := widget.NewButton("Save", nil)
	cancelButton := widget.NewButton("Cancel", nil)
	importButton := widget.NewButton("Import", nil)
	buttons := container.NewHBox(saveButton, importButton, layout.NewSpacer(), cancelButton)

	content := container.NewBorder(nil, container.NewVBox(importNote, buttons), nil, nil, form)
	window.SetContent(content)
	window.Resize(fyne.NewSize(420, 460))

	prefs := &Window{
		window:     window,
		settings:   settings,
		onSave:     onSave,
		onImport:   onImport,
		workDur:    workDur,
		breakDur:   breakDur,
		petSelect:  petSelect,
		scale:      scale,
		onTop:      onTop,
		importPath: importPath,
		importNote: importNote,
	}

	saveButton.OnTapped = prefs.handleSave
	importButton.OnTapped = prefs.handleImport
	cancelButton.OnTapped = func() {
		window.Hide()
	}

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// SetPets replaces the pet selection options.
func (prefs *Window) SetPets(pets []string) {
	prefs.petSelect.Options = pets
	prefs.petSelect.Refresh()
}

func (prefs *Window) handleSave() {
	settings := prefs.settings

	if minutes, ok := parsePositiveInt(prefs.workDur.Text); ok {
		settings.WorkDuration = time.Duration(minutes) * time.Minute
	}
	if minutes, ok := parsePositiveInt(prefs.breakDur.Text); ok {
		settings.BreakDuration = time.Duration(minutes) * time.Minute
	}
	if prefs.petSelect.Selected != "" {
		settings.PetName = prefs.petSelect.Selected
	}
	settings.Scale = int(prefs.scale.Value)
	settings.AlwaysOnTop = prefs.onTop.Checked

	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func (prefs *Window) handleImport() {
	if prefs.onImport == nil || prefs.importPath.Text == "" {
		return
	}
	if err := prefs.onImport(prefs.importPath.Text); err != nil {
		prefs.importNote.SetText(err.Error())
		return
	}
	prefs.importNote.SetText("Pack imported.")
	prefs.importPath.SetText("")
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
