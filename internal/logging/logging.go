package logging

import (
	"fmt"
	"log"
	"strings"
	"sync/atomic"
)

// Level represents logging severity.
type Level int32

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

var currentLevel atomic.Int32

func init() {
	currentLevel.Store(int32(LevelWarn))
	log.SetFlags(log.LstdFlags | log.Lmsgprefix)
}

// SetVerbosity maps a count of -v flags to a level.
func SetVerbosity(count int) {
	switch {
	case count <= 0:
		SetLevel(LevelWarn)
	case count == 1:
		SetLevel(LevelInfo)
	case count == 2:
		SetLevel(LevelDebug)
	default:
		SetLevel(LevelTrace)
	}
}

// SetLevel replaces the active level.
func SetLevel(level Level) {
	if level < LevelError {
		level = LevelError
	}
	if level > LevelTrace {
		level = LevelTrace
	}
	currentLevel.Store(int32(level))
}

// CurrentLevel returns the active level.
func CurrentLevel() Level {
	return Level(currentLevel.Load())
}

// String returns the level label.
func (level Level) String() string {
	switch level {
	case LevelError:
		return "error"
	case LevelWarn:
		return "warn"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	case LevelTrace:
		return "trace"
	default:
		return "unknown"
	}
}

// ParseLevel converts a config label into a Level.
func ParseLevel(value string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "error":
		return LevelError, nil
	case "", "warn", "warning":
		return LevelWarn, nil
	case "info":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	case "trace":
		return LevelTrace, nil
	default:
		return LevelWarn, fmt.Errorf("unknown log level %q", value)
	}
}

// Enabled reports whether messages at level are printed.
func Enabled(level Level) bool {
	return level <= CurrentLevel()
}

func logf(level Level, prefix, format string, args ...any) {
	if !Enabled(level) {
		return
	}
	log.Printf("[%s] %s", prefix, fmt.Sprintf(format, args...))
}

// Errorf always prints.
func Errorf(format string, args ...any) {
	logf(LevelError, "ERR", format, args...)
}

// Warnf prints unless the level is error.
func Warnf(format string, args ...any) {
	logf(LevelWarn, "WARN", format, args...)
}

// Infof prints with one -v.
func Infof(format string, args ...any) {
	logf(LevelInfo, "INFO", format, args...)
}

// Debugf prints with two -v.
func Debugf(format string, args ...any) {
	logf(LevelDebug, "DBG", format, args...)
}

// Tracef prints with three or more -v.
func Tracef(format string, args ...any) {
	logf(LevelTrace, "TRC", format, args...)
}
