package window

import (
	"fyne.io/fyne/v2"

	"pomodoro/internal/core/model"
	"pomodoro/internal/core/pomodoro"
)

// Controller receives user intents. *pomodoro.Session implements it.
type Controller interface {
	StartStop()
	Reset()
	ResetCounter()
	OpenSettings()
	CloseSettings()
	SaveSettings()
	SetDraftField(field pomodoro.DraftField, value string)
	Snapshot() pomodoro.State
}

// Config defines window geometry.
type Config struct {
	Title  string
	Width  float32
	Height float32
	// HideOnClose keeps the app alive in the tray when the window is closed.
	HideOnClose bool
}

// Window is the main application window showing either the timer or the settings screen.
type Window struct {
	window   fyne.Window
	control  Controller
	timer    *timerScreen
	settings *settingsScreen
	screen   model.Screen
	shown    bool
}

// New builds the window and renders the controller's current state.
func New(app fyne.App, control Controller, config Config) *Window {
	title := config.Title
	if title == "" {
		title = "Pomodoro"
	}
	window := app.NewWindow(title)
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	mainWindow := &Window{
		window:   window,
		control:  control,
		timer:    newTimerScreen(control),
		settings: newSettingsScreen(control),
		screen:   -1,
	}

	if config.HideOnClose {
		window.SetCloseIntercept(func() {
			window.Hide()
		})
	}
	if config.Width > 0 && config.Height > 0 {
		window.Resize(fyne.NewSize(config.Width, config.Height))
	}

	mainWindow.Render(control.Snapshot())
	return mainWindow
}

// Render updates widgets from state. Must run on the Fyne goroutine.
func (mainWindow *Window) Render(state pomodoro.State) {
	if state.Screen != mainWindow.screen {
		mainWindow.screen = state.Screen
		switch state.Screen {
		case model.ScreenSettings:
			mainWindow.settings.load(state.Draft)
			mainWindow.window.SetContent(mainWindow.settings.content)
		default:
			mainWindow.window.SetContent(mainWindow.timer.content)
		}
	}

	switch state.Screen {
	case model.ScreenSettings:
		mainWindow.settings.render(state)
	default:
		mainWindow.timer.render(state)
	}
}

// Watch renders every state received from updates until the channel closes.
func (mainWindow *Window) Watch(updates <-chan pomodoro.State) {
	for state := range updates {
		fyne.Do(func() {
			mainWindow.Render(state)
		})
	}
}

// Show displays the window and brings it to front.
func (mainWindow *Window) Show() {
	mainWindow.window.Show()
	mainWindow.window.RequestFocus()
}

// ShowAndRun displays the window and runs the application loop.
func (mainWindow *Window) ShowAndRun() {
	mainWindow.window.ShowAndRun()
}
