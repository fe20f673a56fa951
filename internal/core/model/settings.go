package model

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

const (
	DefaultWorkSeconds       uint32 = 1500
	DefaultShortBreakSeconds uint32 = 300
	DefaultLongBreakSeconds  uint32 = 900
	DefaultLongBreakEvery    uint32 = 4
)

// ErrInvalidSettings is returned when a draft cannot be converted to Settings.
var ErrInvalidSettings = errors.New("invalid settings")

// Screen selects the active view.
type Screen int

const (
	ScreenTimer Screen = iota
	ScreenSettings
)

func (screen Screen) String() string {
	switch screen {
	case ScreenTimer:
		return "timer"
	case ScreenSettings:
		return "settings"
	default:
		return "unknown"
	}
}

// Settings holds the interval lengths in seconds and the long break cadence.
type Settings struct {
	WorkSeconds       uint32
	ShortBreakSeconds uint32
	LongBreakSeconds  uint32
	LongBreakEvery    uint32
}

// DefaultSettings returns the classic 25/5/15 schedule with a long break every 4 pomodoros.
func DefaultSettings() Settings {
	return Settings{
		WorkSeconds:       DefaultWorkSeconds,
		ShortBreakSeconds: DefaultShortBreakSeconds,
		LongBreakSeconds:  DefaultLongBreakSeconds,
		LongBreakEvery:    DefaultLongBreakEvery,
	}
}

// Valid reports whether every field is positive.
func (settings Settings) Valid() bool {
	return settings.WorkSeconds > 0 &&
		settings.ShortBreakSeconds > 0 &&
		settings.LongBreakSeconds > 0 &&
		settings.LongBreakEvery > 0
}

// SettingsDraft is the editable text form of Settings. Durations are in minutes.
type SettingsDraft struct {
	WorkMinutes       string
	ShortBreakMinutes string
	LongBreakMinutes  string
	LongBreakEvery    string
}

// DraftFromSettings seeds a draft with whole minutes.
func DraftFromSettings(settings Settings) SettingsDraft {
	return SettingsDraft{
		WorkMinutes:       strconv.FormatUint(uint64(settings.WorkSeconds/60), 10),
		ShortBreakMinutes: strconv.FormatUint(uint64(settings.ShortBreakSeconds/60), 10),
		LongBreakMinutes:  strconv.FormatUint(uint64(settings.LongBreakSeconds/60), 10),
		LongBreakEvery:    strconv.FormatUint(uint64(settings.LongBreakEvery), 10),
	}
}

// Parse validates the draft. Every field must be a whole number greater than zero.
func (draft SettingsDraft) Parse() (Settings, error) {
	work, err := parsePositive(draft.WorkMinutes)
	if err != nil {
		return Settings{}, err
	}
	shortBreak, err := parsePositive(draft.ShortBreakMinutes)
	if err != nil {
		return Settings{}, err
	}
	longBreak, err := parsePositive(draft.LongBreakMinutes)
	if err != nil {
		return Settings{}, err
	}
	every, err := parsePositive(draft.LongBreakEvery)
	if err != nil {
		return Settings{}, err
	}

	return Settings{
		WorkSeconds:       minutesToSeconds(work),
		ShortBreakSeconds: minutesToSeconds(shortBreak),
		LongBreakSeconds:  minutesToSeconds(longBreak),
		LongBreakEvery:    every,
	}, nil
}

func parsePositive(value string) (uint32, error) {
	parsed, err := strconv.ParseUint(strings.TrimSpace(value), 10, 32)
	if err != nil || parsed == 0 {
		return 0, ErrInvalidSettings
	}
	return uint32(parsed), nil
}

// minutesToSeconds saturates at math.MaxUint32.
func minutesToSeconds(minutes uint32) uint32 {
	if minutes > math.MaxUint32/60 {
		return math.MaxUint32
	}
	return minutes * 60
}
