package pomodoro

import "pomodoro/internal/core/model"

// EventType identifies an input to Update.
type EventType string

const (
	EventTick          EventType = "tick"
	EventStartStop     EventType = "start_stop"
	EventReset         EventType = "reset"
	EventResetCounter  EventType = "reset_counter"
	EventOpenSettings  EventType = "open_settings"
	EventCloseSettings EventType = "close_settings"
	EventDraftChanged  EventType = "draft_changed"
	EventSaveSettings  EventType = "save_settings"
)

// DraftField selects which draft text an EventDraftChanged replaces.
type DraftField int

const (
	FieldWorkMinutes DraftField = iota
	FieldShortBreakMinutes
	FieldLongBreakMinutes
	FieldLongBreakEvery
)

// Event is a discrete input to the state machine.
type Event struct {
	Type  EventType
	Field DraftField
	Value string
}

// CommandType identifies a side effect requested by Update.
type CommandType string

const (
	CommandAlarm         CommandType = "alarm"
	CommandStopAudio     CommandType = "stop_audio"
	CommandSaveSettings  CommandType = "save_settings"
	CommandSaveCompleted CommandType = "save_completed"
	CommandRecordPeriod  CommandType = "record_period"
)

// Command is a side effect for the Session to execute. Update never performs them itself.
type Command struct {
	Type      CommandType
	Settings  model.Settings
	Completed uint32
	Period    model.PeriodRecord
}
