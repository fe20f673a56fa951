package window

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"pomodoro/internal/core/model"
	"pomodoro/internal/core/pomodoro"
)

var errorColor = color.NRGBA{R: 200, G: 40, B: 40, A: 255}

type settingsScreen struct {
	content    fyne.CanvasObject
	entries    map[pomodoro.DraftField]*widget.Entry
	errorText  *canvas.Text
	saveButton *widget.Button
	cancel     *widget.Button
	// loading suppresses OnChanged while the draft is copied into the entries.
	loading bool
}

func newSettingsScreen(control Controller) *settingsScreen {
	screen := &settingsScreen{
		entries: make(map[pomodoro.DraftField]*widget.Entry, 4),
	}

	rows := []struct {
		field pomodoro.DraftField
		label string
		unit  string
	}{
		{field: pomodoro.FieldWorkMinutes, label: "Work", unit: "min"},
		{field: pomodoro.FieldShortBreakMinutes, label: "Short break", unit: "min"},
		{field: pomodoro.FieldLongBreakMinutes, label: "Long break", unit: "min"},
		{field: pomodoro.FieldLongBreakEvery, label: "Long break every", unit: "pomos"},
	}

	form := container.NewVBox(
		widget.NewLabelWithStyle("Settings", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
	)
	for _, row := range rows {
		field := row.field
		entry := widget.NewEntry()
		entry.OnChanged = func(text string) {
			if screen.loading {
				return
			}
			control.SetDraftField(field, text)
		}
		entry.OnSubmitted = func(string) {
			control.SaveSettings()
		}
		screen.entries[field] = entry
		form.Add(container.NewBorder(nil, nil, widget.NewLabel(row.label), widget.NewLabel(row.unit), entry))
	}

	screen.errorText = canvas.NewText("", errorColor)
	screen.errorText.TextSize = 13
	form.Add(screen.errorText)

	screen.saveButton = widget.NewButton("Save", control.SaveSettings)
	screen.saveButton.Importance = widget.HighImportance
	screen.cancel = widget.NewButton("Cancel", control.CloseSettings)
	buttons := container.NewHBox(screen.saveButton, layout.NewSpacer(), screen.cancel)

	screen.content = container.NewBorder(nil, buttons, nil, nil, form)
	return screen
}

// load copies draft into the entries when the screen is entered.
// Afterwards the entries are the only writer of the draft.
func (screen *settingsScreen) load(draft model.SettingsDraft) {
	screen.loading = true
	defer func() { screen.loading = false }()

	screen.entries[pomodoro.FieldWorkMinutes].SetText(draft.WorkMinutes)
	screen.entries[pomodoro.FieldShortBreakMinutes].SetText(draft.ShortBreakMinutes)
	screen.entries[pomodoro.FieldLongBreakMinutes].SetText(draft.LongBreakMinutes)
	screen.entries[pomodoro.FieldLongBreakEvery].SetText(draft.LongBreakEvery)
}

func (screen *settingsScreen) render(state pomodoro.State) {
	if screen.errorText.Text != state.SettingsError {
		screen.errorText.Text = state.SettingsError
		screen.errorText.Refresh()
	}
}
