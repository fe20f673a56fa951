package tray

import (
	"fmt"

	"fyne.io/fyne/v2"

	"pomodoro/internal/core/pomodoro"
)

// App is the part of desktop.App the tray needs.
type App interface {
	SetSystemTrayMenu(menu *fyne.Menu)
	SetSystemTrayIcon(icon fyne.Resource)
}

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow     func()
	OnToggle   func()
	OnReset    func()
	OnSettings func()
	OnQuit     func()
}

// Icons used for the tray while working and while on a break.
type Icons struct {
	Work  fyne.Resource
	Break fyne.Resource
}

// Manager handles system tray state.
type Manager struct {
	app        App
	title      string
	icons      Icons
	callbacks  Callbacks
	statusItem *fyne.MenuItem
	toggleItem *fyne.MenuItem
	onBreak    bool
	status     string
}

// New creates a tray manager with the provided callbacks.
func New(app App, title string, icons Icons, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		title:     title,
		icons:     icons,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem("Status: idle", nil)
	manager.statusItem.Disabled = true
	manager.toggleItem = fyne.NewMenuItem("Start", invoke(&manager.callbacks.OnToggle))

	manager.refreshMenu()
	manager.setIcon(icons.Work)
	return manager
}

// Update mirrors state into the tray. The menu is rebuilt only when a label changes.
func (manager *Manager) Update(state pomodoro.State) {
	status := fmt.Sprintf("Status: %s %s", state.Period().Title(), state.Clock())
	if !state.Timer.IsRunning && state.Timer.Started {
		status += " (paused)"
	}
	toggle := state.ToggleLabel()

	changed := status != manager.status || toggle != manager.toggleItem.Label
	manager.status = status
	manager.statusItem.Label = status
	manager.toggleItem.Label = toggle
	if changed {
		manager.refreshMenu()
	}

	onBreak := !state.Timer.IsWorkPeriod
	if onBreak != manager.onBreak {
		manager.onBreak = onBreak
		if onBreak {
			manager.setIcon(manager.icons.Break)
		} else {
			manager.setIcon(manager.icons.Work)
		}
	}
}

func (manager *Manager) setIcon(icon fyne.Resource) {
	if manager.app != nil && icon != nil {
		manager.app.SetSystemTrayIcon(icon)
	}
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu(manager.title,
		manager.statusItem,
		fyne.NewMenuItem("Show", invoke(&manager.callbacks.OnShow)),
		manager.toggleItem,
		fyne.NewMenuItem("Reset", invoke(&manager.callbacks.OnReset)),
		fyne.NewMenuItem("Settings", invoke(&manager.callbacks.OnSettings)),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", invoke(&manager.callbacks.OnQuit)),
	))
}

// invoke defers the nil check until the item is tapped.
func invoke(callback *func()) func() {
	return func() {
		if *callback != nil {
			(*callback)()
		}
	}
}
