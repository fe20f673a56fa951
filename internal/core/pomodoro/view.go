package pomodoro

import (
	"fmt"

	"pomodoro/internal/core/model"
)

// Period reports the kind of the current interval.
func (state State) Period() model.Period {
	if state.Timer.IsWorkPeriod {
		return model.PeriodWork
	}
	if state.longBreakDue() {
		return model.PeriodLongBreak
	}
	return model.PeriodShortBreak
}

// CyclePosition is the 1-based index of the current pomodoro within its long break cycle.
func (state State) CyclePosition() uint32 {
	if state.Settings.LongBreakEvery == 0 {
		return 1
	}
	return state.Timer.WorkPeriods%state.Settings.LongBreakEvery + 1
}

// ProgressText describes where the user is in the cycle.
func (state State) ProgressText() string {
	if !state.Timer.IsWorkPeriod {
		return "Break time - relax!"
	}
	return fmt.Sprintf("Pomodoro %d/%d until long break", state.CyclePosition(), state.Settings.LongBreakEvery)
}

// ToggleLabel is the caption of the start/stop control.
func (state State) ToggleLabel() string {
	switch {
	case state.Timer.IsRunning:
		return "Pause"
	case state.Timer.Started:
		return "Resume"
	default:
		return "Start"
	}
}

// Clock formats TimeLeft as MM:SS.
func (state State) Clock() string {
	return FormatClock(state.Timer.TimeLeft)
}

// FormatClock formats seconds as MM:SS. Minutes are not capped at 59.
func FormatClock(seconds uint32) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func (state State) longBreakDue() bool {
	every := state.Settings.LongBreakEvery
	return every > 0 && state.Timer.WorkPeriods%every == 0
}

// periodLength is the configured length of the current interval.
func (state State) periodLength() uint32 {
	switch state.Period() {
	case model.PeriodWork:
		return state.Settings.WorkSeconds
	case model.PeriodLongBreak:
		return state.Settings.LongBreakSeconds
	default:
		return state.Settings.ShortBreakSeconds
	}
}
