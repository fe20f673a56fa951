package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomodoro/internal/core/model"
)

func openTestStore(t *testing.T, dir string) *Store {
	t.Helper()
	store, err := Open(context.Background(), dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenCreatesDefaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	store := openTestStore(t, dir)
	ctx := context.Background()

	assert.FileExists(t, filepath.Join(dir, DatabaseFileName))

	settings, err := store.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSettings(), settings)

	completed, err := store.LoadCompleted(ctx)
	require.NoError(t, err)
	assert.Zero(t, completed)
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	_, err := Open(context.Background(), "")
	require.Error(t, err)

	_, err = OpenFile(context.Background(), "")
	require.Error(t, err)
}

func TestSettingsAndCounterSurviveReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	saved := model.Settings{WorkSeconds: 3000, ShortBreakSeconds: 420, LongBreakSeconds: 1800, LongBreakEvery: 3}

	store, err := Open(ctx, dir)
	require.NoError(t, err)
	require.NoError(t, store.SaveSettings(ctx, saved))
	require.NoError(t, store.SaveCompleted(ctx, 17))
	require.NoError(t, store.Close())

	reopened := openTestStore(t, dir)

	settings, err := reopened.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved, settings)

	completed, err := reopened.LoadCompleted(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint32(17), completed)
}

func TestLoadSettingsReturnsCorruptRow(t *testing.T) {
	store := openTestStore(t, t.TempDir())
	ctx := context.Background()

	_, err := store.db.ExecContext(ctx, `UPDATE app_settings SET long_break_every = 0, work_seconds = -5 WHERE id = 1`)
	require.NoError(t, err)

	settings, err := store.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Zero(t, settings.LongBreakEvery)
	assert.Zero(t, settings.WorkSeconds)
	assert.False(t, settings.Valid())
}

func TestLoadFailsOnMissingRow(t *testing.T) {
	store := openTestStore(t, t.TempDir())
	ctx := context.Background()

	_, err := store.db.ExecContext(ctx, `DELETE FROM app_counters`)
	require.NoError(t, err)

	_, err = store.LoadCompleted(ctx)
	require.Error(t, err)
}

func TestClosedStoreReturnsErrors(t *testing.T) {
	store, err := Open(context.Background(), t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Close())

	ctx := context.Background()
	_, err = store.LoadSettings(ctx)
	assert.Error(t, err)
	assert.Error(t, store.SaveCompleted(ctx, 1))
	assert.Error(t, store.RecordPeriod(ctx, model.PeriodRecord{Kind: model.PeriodWork}))
}

func TestRecordAndListPeriods(t *testing.T) {
	store := openTestStore(t, t.TempDir())
	ctx := context.Background()
	base := time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)

	records := []model.PeriodRecord{
		{Kind: model.PeriodWork, LengthSeconds: 1500, EndedAt: base},
		{Kind: model.PeriodShortBreak, LengthSeconds: 300, EndedAt: base.Add(5 * time.Minute)},
		{ID: "fixed-id", Kind: model.PeriodWork, LengthSeconds: 1500, EndedAt: base.Add(30 * time.Minute)},
	}
	for _, record := range records {
		require.NoError(t, store.RecordPeriod(ctx, record))
	}

	recent, err := store.RecentPeriods(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)

	assert.Equal(t, "fixed-id", recent[0].ID)
	_, err = uuid.Parse(recent[1].ID)
	assert.NoError(t, err)

	want := []model.PeriodRecord{
		{Kind: model.PeriodWork, LengthSeconds: 1500, EndedAt: base.Add(30 * time.Minute)},
		{Kind: model.PeriodShortBreak, LengthSeconds: 300, EndedAt: base.Add(5 * time.Minute)},
	}
	ignoreID := cmp.FilterPath(func(path cmp.Path) bool {
		return path.Last().String() == ".ID"
	}, cmp.Ignore())
	if diff := cmp.Diff(want, recent, ignoreID); diff != "" {
		t.Fatalf("recent periods mismatch (-want +got):\n%s", diff)
	}

	none, err := store.RecentPeriods(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}
