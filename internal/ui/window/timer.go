package window

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"pomodoro/internal/core/model"
	"pomodoro/internal/core/pomodoro"
)

var (
	workColor  = color.NRGBA{R: 217, G: 64, B: 50, A: 255}
	breakColor = color.NRGBA{R: 63, G: 143, B: 217, A: 255}
)

type timerScreen struct {
	content   fyne.CanvasObject
	header    *canvas.Text
	clock     *canvas.Text
	progress  *widget.Label
	completed *widget.Label
	toggle    *widget.Button
	reset     *widget.Button
	resetAll  *widget.Button
	settings  *widget.Button
}

func newTimerScreen(control Controller) *timerScreen {
	header := canvas.NewText(model.PeriodWork.Title(), workColor)
	header.Alignment = fyne.TextAlignCenter
	header.TextStyle = fyne.TextStyle{Bold: true}
	header.TextSize = 22

	clock := canvas.NewText("--:--", workColor)
	clock.Alignment = fyne.TextAlignCenter
	clock.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	clock.TextSize = 56

	progress := widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{})
	completed := widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Italic: true})

	screen := &timerScreen{
		header:    header,
		clock:     clock,
		progress:  progress,
		completed: completed,
		toggle:    widget.NewButton("Start", control.StartStop),
		reset:     widget.NewButton("Reset", control.Reset),
		resetAll:  widget.NewButton("Reset count", control.ResetCounter),
		settings:  widget.NewButton("Settings", control.OpenSettings),
	}
	screen.toggle.Importance = widget.HighImportance

	controls := container.NewGridWithColumns(2, screen.toggle, screen.reset)
	footer := container.NewHBox(screen.resetAll, layout.NewSpacer(), screen.settings)

	screen.content = container.NewBorder(
		nil,
		footer,
		nil,
		nil,
		container.NewVBox(
			layout.NewSpacer(),
			header,
			clock,
			progress,
			completed,
			controls,
			layout.NewSpacer(),
		),
	)
	return screen
}

func (screen *timerScreen) render(state pomodoro.State) {
	accent := workColor
	if !state.Timer.IsWorkPeriod {
		accent = breakColor
	}

	screen.header.Text = state.Period().Title()
	screen.header.Color = accent
	screen.header.Refresh()

	screen.clock.Text = state.Clock()
	screen.clock.Color = accent
	screen.clock.Refresh()

	screen.progress.SetText(state.ProgressText())
	screen.completed.SetText(fmt.Sprintf("Completed pomodoros: %d", state.Timer.CompletedPomodoros))
	screen.toggle.SetText(state.ToggleLabel())
}
