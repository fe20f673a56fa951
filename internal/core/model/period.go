package model

import "time"

// Period is the kind of interval being timed.
type Period string

const (
	PeriodWork       Period = "work"
	PeriodShortBreak Period = "short_break"
	PeriodLongBreak  Period = "long_break"
)

// Title returns the header shown above the clock.
func (period Period) Title() string {
	switch period {
	case PeriodWork:
		return "Work Time"
	case PeriodShortBreak:
		return "Short Break"
	case PeriodLongBreak:
		return "Long Break"
	default:
		return string(period)
	}
}

// PeriodRecord describes one completed interval.
type PeriodRecord struct {
	ID            string
	Kind          Period
	LengthSeconds uint32
	EndedAt       time.Time
}
