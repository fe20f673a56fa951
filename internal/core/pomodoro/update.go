package pomodoro

import (
	"math"
	"time"

	"pomodoro/internal/core/model"
)

// InvalidSettingsMessage is shown when the settings draft does not parse.
const InvalidSettingsMessage = "Invalid settings. Use positive numbers for minutes and pomos."

// Timer is the live countdown.
type Timer struct {
	// TimeLeft is in whole seconds.
	TimeLeft uint32
	// EndTime is the deadline; zero unless IsRunning.
	EndTime            time.Time
	WorkPeriods        uint32
	CompletedPomodoros uint32
	IsRunning          bool
	// Started separates a paused period from one that never ran.
	Started      bool
	IsWorkPeriod bool
}

// State is everything the presentation layer renders.
type State struct {
	Timer         Timer
	Screen        model.Screen
	Settings      model.Settings
	Draft         model.SettingsDraft
	SettingsError string
}

// NewState returns an idle work period.
func NewState(settings model.Settings, completed uint32) State {
	return State{
		Timer: Timer{
			TimeLeft:           settings.WorkSeconds,
			CompletedPomodoros: completed,
			IsWorkPeriod:       true,
		},
		Screen:   model.ScreenTimer,
		Settings: settings,
		Draft:    model.DraftFromSettings(settings),
	}
}

// Update computes the next state for event. It performs no I/O and reads no clock;
// side effects are returned as commands in the order they must run.
func Update(state State, event Event, now time.Time) (State, []Command) {
	switch event.Type {
	case EventTick:
		return handleTick(state, now)
	case EventStartStop:
		return handleStartStop(state, now)
	case EventReset:
		return resetTimer(state), []Command{{Type: CommandStopAudio}}
	case EventResetCounter:
		state.Timer.CompletedPomodoros = 0
		return state, []Command{{Type: CommandSaveCompleted}}
	case EventOpenSettings:
		state.Timer.IsRunning = false
		state.Timer.EndTime = time.Time{}
		state.SettingsError = ""
		state.Draft = model.DraftFromSettings(state.Settings)
		state.Screen = model.ScreenSettings
		return state, nil
	case EventCloseSettings:
		state.SettingsError = ""
		state.Screen = model.ScreenTimer
		return state, nil
	case EventDraftChanged:
		return handleDraftChanged(state, event), nil
	case EventSaveSettings:
		return handleSaveSettings(state)
	default:
		return state, nil
	}
}

func handleTick(state State, now time.Time) (State, []Command) {
	timer := state.Timer
	if !timer.IsRunning {
		return state, nil
	}

	timer.TimeLeft = secondsUntil(timer.EndTime, now)
	if timer.TimeLeft > 0 {
		state.Timer = timer
		return state, nil
	}

	ended := model.PeriodRecord{
		Kind:          state.Period(),
		LengthSeconds: state.periodLength(),
		EndedAt:       now,
	}

	var commands []Command
	timer.IsRunning = false
	timer.Started = false
	if timer.IsWorkPeriod {
		timer.WorkPeriods++
		if timer.CompletedPomodoros < math.MaxUint32 {
			timer.CompletedPomodoros++
		}
		commands = append(commands, Command{Type: CommandSaveCompleted, Completed: timer.CompletedPomodoros})
	}
	timer.IsWorkPeriod = !timer.IsWorkPeriod
	timer.EndTime = time.Time{}
	state.Timer = timer
	// The long break test sees the incremented WorkPeriods.
	state.Timer.TimeLeft = state.periodLength()

	commands = append(commands,
		Command{Type: CommandRecordPeriod, Period: ended},
		Command{Type: CommandAlarm},
	)
	return state, commands
}

func handleStartStop(state State, now time.Time) (State, []Command) {
	timer := state.Timer
	timer.IsRunning = !timer.IsRunning

	var commands []Command
	if timer.IsRunning {
		commands = append(commands, Command{Type: CommandStopAudio})
		timer.Started = true
		timer.EndTime = now.Add(time.Duration(timer.TimeLeft) * time.Second)
	} else {
		timer.EndTime = time.Time{}
	}

	state.Timer = timer
	return state, commands
}

func handleDraftChanged(state State, event Event) State {
	switch event.Field {
	case FieldWorkMinutes:
		state.Draft.WorkMinutes = event.Value
	case FieldShortBreakMinutes:
		state.Draft.ShortBreakMinutes = event.Value
	case FieldLongBreakMinutes:
		state.Draft.LongBreakMinutes = event.Value
	case FieldLongBreakEvery:
		state.Draft.LongBreakEvery = event.Value
	}
	return state
}

func handleSaveSettings(state State) (State, []Command) {
	settings, err := state.Draft.Parse()
	if err != nil {
		state.SettingsError = InvalidSettingsMessage
		return state, nil
	}

	state.Settings = settings
	state.SettingsError = ""
	state = resetTimer(state)
	state.Screen = model.ScreenTimer
	return state, []Command{
		{Type: CommandSaveSettings, Settings: settings},
		{Type: CommandStopAudio},
	}
}

// resetTimer returns to an idle first work period. The completed counter is kept.
func resetTimer(state State) State {
	state.Timer.IsRunning = false
	state.Timer.IsWorkPeriod = true
	state.Timer.TimeLeft = state.Settings.WorkSeconds
	state.Timer.Started = false
	state.Timer.EndTime = time.Time{}
	state.Timer.WorkPeriods = 0
	return state
}

// secondsUntil floors the remaining time to whole seconds, never below zero.
func secondsUntil(deadline, now time.Time) uint32 {
	remaining := deadline.Sub(now)
	if remaining <= 0 {
		return 0
	}
	seconds := remaining / time.Second
	if seconds > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(seconds)
}
