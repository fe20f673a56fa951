package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver

	"pomodoro/internal/core/model"
)

// DatabaseFileName is the sqlite file created inside the data directory.
const DatabaseFileName = "roth-pomodoro.sqlite"

const (
	tableSettings = "app_settings"
	tableCounters = "app_counters"
	tablePeriods  = "period_log"
)

// Store keeps settings, the completed counter and the period log in sqlite.
type Store struct {
	db *sql.DB
}

// Open creates dataDir if needed and opens the database inside it.
func Open(ctx context.Context, dataDir string) (*Store, error) {
	if dataDir == "" {
		return nil, errors.New("open store: data directory is empty")
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return OpenFile(ctx, filepath.Join(dataDir, DatabaseFileName))
}

// OpenFile opens the database at path, creating tables and default rows.
func OpenFile(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("open sqlite: path is empty")
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	store := &Store{db: db}
	if err := store.init(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (store *Store) init(ctx context.Context) error {
	defaults := model.DefaultSettings()
	statements := []struct {
		query string
		args  []any
	}{
		{query: "PRAGMA journal_mode = WAL"},
		{query: "PRAGMA synchronous = NORMAL"},
		{query: `CREATE TABLE IF NOT EXISTS ` + tableSettings + ` (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			work_seconds INTEGER NOT NULL,
			short_break_seconds INTEGER NOT NULL,
			long_break_seconds INTEGER NOT NULL,
			long_break_every INTEGER NOT NULL
		)`},
		{query: `CREATE TABLE IF NOT EXISTS ` + tableCounters + ` (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			completed_pomodoros INTEGER NOT NULL
		)`},
		{query: `CREATE TABLE IF NOT EXISTS ` + tablePeriods + ` (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			length_seconds INTEGER NOT NULL,
			ended_at INTEGER NOT NULL
		)`},
		{query: `CREATE INDEX IF NOT EXISTS period_log_ended_at ON ` + tablePeriods + ` (ended_at)`},
		{
			query: `INSERT OR IGNORE INTO ` + tableSettings + `
				(id, work_seconds, short_break_seconds, long_break_seconds, long_break_every)
				VALUES (1, ?, ?, ?, ?)`,
			args: []any{defaults.WorkSeconds, defaults.ShortBreakSeconds, defaults.LongBreakSeconds, defaults.LongBreakEvery},
		},
		{query: `INSERT OR IGNORE INTO ` + tableCounters + ` (id, completed_pomodoros) VALUES (1, 0)`},
	}

	for _, stmt := range statements {
		if _, err := store.db.ExecContext(ctx, stmt.query, stmt.args...); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// LoadSettings returns the stored row as is. Values outside the uint32 range read as 0.
func (store *Store) LoadSettings(ctx context.Context) (model.Settings, error) {
	var work, shortBreak, longBreak, every int64
	row := store.db.QueryRowContext(ctx, `SELECT work_seconds, short_break_seconds, long_break_seconds, long_break_every
		FROM `+tableSettings+` WHERE id = 1`)
	if err := row.Scan(&work, &shortBreak, &longBreak, &every); err != nil {
		return model.Settings{}, fmt.Errorf("load settings: %w", err)
	}

	return model.Settings{
		WorkSeconds:       toUint32(work),
		ShortBreakSeconds: toUint32(shortBreak),
		LongBreakSeconds:  toUint32(longBreak),
		LongBreakEvery:    toUint32(every),
	}, nil
}

// SaveSettings overwrites the settings row.
func (store *Store) SaveSettings(ctx context.Context, settings model.Settings) error {
	_, err := store.db.ExecContext(ctx, `UPDATE `+tableSettings+`
		SET work_seconds = ?, short_break_seconds = ?, long_break_seconds = ?, long_break_every = ?
		WHERE id = 1`,
		settings.WorkSeconds, settings.ShortBreakSeconds, settings.LongBreakSeconds, settings.LongBreakEvery)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// LoadCompleted returns the completed pomodoro counter.
func (store *Store) LoadCompleted(ctx context.Context) (uint32, error) {
	var completed int64
	row := store.db.QueryRowContext(ctx, `SELECT completed_pomodoros FROM `+tableCounters+` WHERE id = 1`)
	if err := row.Scan(&completed); err != nil {
		return 0, fmt.Errorf("load completed pomodoros: %w", err)
	}
	return toUint32(completed), nil
}

// SaveCompleted overwrites the completed pomodoro counter.
func (store *Store) SaveCompleted(ctx context.Context, completed uint32) error {
	_, err := store.db.ExecContext(ctx, `UPDATE `+tableCounters+` SET completed_pomodoros = ? WHERE id = 1`, completed)
	if err != nil {
		return fmt.Errorf("save completed pomodoros: %w", err)
	}
	return nil
}

// RecordPeriod appends a finished period. An empty ID gets a fresh UUID.
func (store *Store) RecordPeriod(ctx context.Context, record model.PeriodRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	_, err := store.db.ExecContext(ctx, `INSERT INTO `+tablePeriods+` (id, kind, length_seconds, ended_at)
		VALUES (?, ?, ?, ?)`,
		record.ID, string(record.Kind), record.LengthSeconds, record.EndedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("record period: %w", err)
	}
	return nil
}

// RecentPeriods returns up to limit periods, newest first.
func (store *Store) RecentPeriods(ctx context.Context, limit int) ([]model.PeriodRecord, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := store.db.QueryContext(ctx, `SELECT id, kind, length_seconds, ended_at
		FROM `+tablePeriods+` ORDER BY ended_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query periods: %w", err)
	}
	defer rows.Close()

	var records []model.PeriodRecord
	for rows.Next() {
		var (
			record  model.PeriodRecord
			kind    string
			length  int64
			endedAt int64
		)
		if err := rows.Scan(&record.ID, &kind, &length, &endedAt); err != nil {
			return nil, fmt.Errorf("scan period: %w", err)
		}
		record.Kind = model.Period(kind)
		record.LengthSeconds = toUint32(length)
		record.EndedAt = time.UnixMilli(endedAt)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate periods: %w", err)
	}
	return records, nil
}

// Close releases the database handle.
func (store *Store) Close() error {
	if err := store.db.Close(); err != nil {
		return fmt.Errorf("close sqlite: %w", err)
	}
	return nil
}

func toUint32(value int64) uint32 {
	if value < 0 || value > math.MaxUint32 {
		return 0
	}
	return uint32(value)
}
